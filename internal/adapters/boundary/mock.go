package boundary

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
	"github.com/okian/finesse/pkg/report"
)

// Defaults used by NewMock.
const (
	DefaultLatency  = time.Second
	DefaultTokenTTL = 24 * time.Hour

	defaultSecret = "finesse-dev-secret"
)

// Mock is an in-process Boundary backed by canned data. It registers
// accounts so that sign-in after sign-up returns the registered user type,
// and supports failure injection for tests.
type Mock struct {
	latency  time.Duration
	tokens   *tokens
	accounts *accounts
	now      func() time.Time
	pick     func() model.UserType
	log      logger.Logger

	mu         sync.Mutex
	calls      map[Op]int
	failNext   map[Op][]error
	failAlways map[Op]error
}

var _ Boundary = (*Mock)(nil)

// NewMock creates a Mock.
func NewMock(opts ...Option) *Mock {
	m := &Mock{
		latency:    DefaultLatency,
		tokens:     &tokens{secret: []byte(defaultSecret), ttl: DefaultTokenTTL, now: time.Now},
		accounts:   newAccounts(bcrypt.DefaultCost),
		now:        time.Now,
		pick:       randomUserType,
		calls:      make(map[Op]int),
		failNext:   make(map[Op][]error),
		failAlways: make(map[Op]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Named("boundary")
	}
	return m
}

func randomUserType() model.UserType {
	types := model.UserTypes()
	return types[rand.IntN(len(types))]
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// FailNext queues err as the result of the next call to op. A nil err
// queues ErrInjected.
func (m *Mock) FailNext(op Op, err error) {
	if err == nil {
		err = ErrInjected
	}
	m.mu.Lock()
	m.failNext[op] = append(m.failNext[op], err)
	m.mu.Unlock()
}

// SetFailure makes every call to op fail with err until cleared with a
// nil err.
func (m *Mock) SetFailure(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failAlways, op)
		return
	}
	m.failAlways[op] = err
}

// Calls reports how many times op has been invoked.
func (m *Mock) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls reports the number of invocations across all operations.
func (m *Mock) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// ParseToken verifies a token issued by this Mock.
func (m *Mock) ParseToken(token string) (Claims, error) {
	return m.tokens.parse(token)
}

// enter counts the call, waits out the latency and applies any injected
// failure.
func (m *Mock) enter(ctx context.Context, op Op) error {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()

	if m.latency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.latency):
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if q := m.failNext[op]; len(q) > 0 {
		m.failNext[op] = q[1:]
		return q[0]
	}
	return m.failAlways[op]
}

// finish wraps a failure, records it and returns the error to hand back.
func (m *Mock) finish(ctx context.Context, op Op, start time.Time, err error) error {
	metrics.RecordBoundaryCall(string(op), time.Since(start), err)
	if err == nil {
		m.log.Debug(ctx, "boundary call", logger.String("op", string(op)), logger.Duration("elapsed", time.Since(start)))
		return nil
	}
	var be *Error
	if !errors.As(err, &be) {
		be = &Error{Op: op, Err: err}
	}
	m.log.Debug(ctx, "boundary call failed", logger.String("op", string(op)), logger.Error(err))
	report.Capture(ctx, be, map[string]string{"component": "boundary", "op": string(op)})
	return be
}

// CreateAccount registers email and returns a fresh identity.
func (m *Mock) CreateAccount(ctx context.Context, email, password string, userType model.UserType) (acc Account, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpCreateAccount, start, err) }()

	if err = m.enter(ctx, OpCreateAccount); err != nil {
		return Account{}, err
	}
	if !userType.Valid() {
		return Account{}, errs.UnknownVariant(userType)
	}

	userID := newID("user_")
	if err = m.accounts.register(email, password, userID, userType); err != nil {
		return Account{}, err
	}
	token, err := m.tokens.issue(userID, userType)
	if err != nil {
		return Account{}, err
	}
	return Account{UserID: userID, Token: token, UserType: userType}, nil
}

// Authenticate verifies a registered account. An email that was never
// registered gets a demo identity with an arbitrary user type.
func (m *Mock) Authenticate(ctx context.Context, email, password string) (acc Account, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpAuthenticate, start, err) }()

	if err = m.enter(ctx, OpAuthenticate); err != nil {
		return Account{}, err
	}

	found, ok, err := m.accounts.verify(email, password)
	if err != nil {
		return Account{}, err
	}
	if !ok {
		found = m.demo()
	}
	return m.session(found)
}

// SocialSignIn always succeeds with a demo identity. The account registry
// is not consulted.
func (m *Mock) SocialSignIn(ctx context.Context, provider model.SocialProvider) (acc Account, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpSocialSignIn, start, err) }()

	if err = m.enter(ctx, OpSocialSignIn); err != nil {
		return Account{}, err
	}
	if !provider.Valid() {
		return Account{}, errs.Validationf("unsupported sign-in provider %q", string(provider))
	}
	return m.session(m.demo())
}

func (m *Mock) demo() account {
	return account{userID: newID("user_"), userType: m.pick()}
}

func (m *Mock) session(a account) (Account, error) {
	token, err := m.tokens.issue(a.userID, a.userType)
	if err != nil {
		return Account{}, err
	}
	return Account{UserID: a.userID, Token: token, UserType: a.userType}, nil
}

// FetchProfileByID returns the canned profile matching the id prefix with
// its id set to userID.
func (m *Mock) FetchProfileByID(ctx context.Context, userID string) (p model.Profile, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpFetchProfile, start, err) }()

	if err = m.enter(ctx, OpFetchProfile); err != nil {
		return nil, err
	}
	return profileFor(userID), nil
}

func (m *Mock) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpUpdateProfile, start, err) }()
	return m.enter(ctx, OpUpdateProfile)
}

func (m *Mock) ListTrials(ctx context.Context) (trials []model.Trial, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpListTrials, start, err) }()

	if err = m.enter(ctx, OpListTrials); err != nil {
		return nil, err
	}
	return SeedTrials(), nil
}

// CreateTrial assigns an id and creation time to draft.
func (m *Mock) CreateTrial(ctx context.Context, draft model.TrialDraft) (t model.Trial, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpCreateTrial, start, err) }()

	if err = m.enter(ctx, OpCreateTrial); err != nil {
		return model.Trial{}, err
	}
	return draft.Build(newID("trial_"), m.now().UTC().Truncate(time.Second)), nil
}

func (m *Mock) UpdateTrial(ctx context.Context, id string, patch model.TrialPatch) (err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpUpdateTrial, start, err) }()
	return m.enter(ctx, OpUpdateTrial)
}

func (m *Mock) DeleteTrial(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpDeleteTrial, start, err) }()
	return m.enter(ctx, OpDeleteTrial)
}

func (m *Mock) FetchApplications(ctx context.Context, trialID string) (apps []model.TrialApplication, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpFetchApplications, start, err) }()

	if err = m.enter(ctx, OpFetchApplications); err != nil {
		return nil, err
	}
	return SeedApplications(trialID), nil
}

// SubmitApplication returns a pending application with a fresh id.
func (m *Mock) SubmitApplication(ctx context.Context, req model.ApplicationRequest) (a model.TrialApplication, err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpSubmitApplication, start, err) }()

	if err = m.enter(ctx, OpSubmitApplication); err != nil {
		return model.TrialApplication{}, err
	}
	return model.TrialApplication{
		ID:             newID("app_"),
		TrialID:        req.TrialID,
		PlayerID:       req.PlayerID,
		PlayerName:     req.PlayerName,
		PlayerPosition: req.PlayerPosition,
		PlayerAge:      req.PlayerAge,
		Status:         model.StatusPending,
		CreatedAt:      m.now().UTC().Truncate(time.Second),
	}, nil
}

func (m *Mock) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpUpdateApplicationStatus, start, err) }()
	return m.enter(ctx, OpUpdateApplicationStatus)
}

func (m *Mock) WithdrawApplication(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { err = m.finish(ctx, OpWithdrawApplication, start, err) }()
	return m.enter(ctx, OpWithdrawApplication)
}
