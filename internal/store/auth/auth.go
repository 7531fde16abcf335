// Package auth holds the authentication state of the signed-in user.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/adapters/storage"
	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/store/state"
	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
)

// Name labels this store in metrics and change events.
const Name = model.StoreAuth

// Store is the auth store. Operations may run concurrently; each one
// releases the state while the boundary call is in flight.
type Store struct {
	api    boundary.Boundary
	kv     storage.KV
	secure storage.KV
	log    logger.Logger
	track  state.Tracker

	state *state.Container[State]
}

// New creates an auth store in the anonymous state.
func New(api boundary.Boundary, opts ...Option) *Store {
	s := &Store{api: api}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("auth")
	}
	if s.kv == nil {
		s.kv = storage.NewMemory()
	}
	if s.secure == nil {
		s.secure = storage.NewMemory()
	}
	s.track = state.NewTracker(Name, s.log)
	save := func(ctx context.Context, key string, v any) error { return storage.SaveJSON(ctx, s.kv, key, v) }
	s.state = state.New(State{},
		state.WithName[State](Name),
		state.WithPersist(state.Persister[State](storage.KeyAuth, s.log, save, snapshotOf)),
	)
	return s
}

// State returns the current state.
func (s *Store) State() State { return s.state.Get() }

// Version returns the number of changes applied so far.
func (s *Store) Version() uint64 { return s.state.Version() }

// Subscribe registers fn for every change.
func (s *Store) Subscribe(fn state.Listener[State]) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

func (s *Store) begin(ctx context.Context) {
	s.state.Update(ctx, func(st *State) {
		st.Loading = true
		st.Error = ""
	})
}

// fail records err as the store error. The authentication flag is left as is.
func (s *Store) fail(ctx context.Context, op string, start time.Time, err error) error {
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		st.Error = errs.Message(err)
	})
	s.track.Done(ctx, op, start, state.Applied, err)
	return err
}

func (s *Store) authenticated(ctx context.Context, op string, start time.Time, email string, acc boundary.Account) error {
	if err := s.secure.Set(ctx, storage.KeyAuthToken, []byte(acc.Token)); err != nil {
		metrics.RecordPersistError(storage.KeyAuthToken, "save")
		return s.fail(ctx, op, start, err)
	}
	s.state.Update(ctx, func(st *State) {
		*st = State{
			IsAuthenticated: true,
			UserType:        acc.UserType,
			UserID:          acc.UserID,
			Email:           email,
			Token:           acc.Token,
		}
	})
	s.track.Done(ctx, op, start, state.Applied, nil)
	s.log.Info(ctx, "signed in", logger.String("op", op), logger.String("user_id", acc.UserID), logger.String("user_type", string(acc.UserType)))
	return nil
}

// SignUp registers a new account and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password string, userType model.UserType) error {
	const op = "sign_up"
	start := time.Now()
	s.begin(ctx)

	if err := validateSignUp(email, password, userType); err != nil {
		return s.fail(ctx, op, start, err)
	}
	acc, err := s.api.CreateAccount(ctx, email, password, userType)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	if acc.UserType == "" {
		acc.UserType = userType
	}
	return s.authenticated(ctx, op, start, email, acc)
}

// SignIn authenticates an existing account. The user type comes from the
// boundary.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	const op = "sign_in"
	start := time.Now()
	s.begin(ctx)

	if err := validateCredentials(email, password); err != nil {
		return s.fail(ctx, op, start, err)
	}
	acc, err := s.api.Authenticate(ctx, email, password)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	return s.authenticated(ctx, op, start, email, acc)
}

// SocialSignIn signs in through provider. Only the provider name is
// checked; the identity is a placeholder.
func (s *Store) SocialSignIn(ctx context.Context, provider model.SocialProvider) error {
	const op = "social_sign_in"
	start := time.Now()
	s.begin(ctx)

	if err := validateProvider(provider); err != nil {
		return s.fail(ctx, op, start, err)
	}
	s.log.Debug(ctx, "social sign-in", logger.String("provider", string(provider)))
	acc, err := s.api.SocialSignIn(ctx, provider)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	return s.authenticated(ctx, op, start, SocialEmail, acc)
}

// SignOut forgets the session. It always succeeds; a secure store failure
// is only logged.
func (s *Store) SignOut(ctx context.Context) error {
	const op = "sign_out"
	start := time.Now()

	if err := s.secure.Delete(context.WithoutCancel(ctx), storage.KeyAuthToken); err != nil {
		metrics.RecordPersistError(storage.KeyAuthToken, "delete")
		s.log.Warn(ctx, "could not remove token", logger.Error(err))
	}
	s.state.Update(ctx, func(st *State) { *st = State{} })
	s.track.Done(ctx, op, start, state.Applied, nil)
	return nil
}

// ClearError resets the error message.
func (s *Store) ClearError(ctx context.Context) {
	s.state.Update(ctx, func(st *State) { st.Error = "" })
}

// Restore loads the persisted snapshot. When it is authenticated the token
// is read back from the secure store. A missing snapshot is not an error.
func (s *Store) Restore(ctx context.Context) error {
	var snap snapshot
	found, err := storage.LoadJSON(ctx, s.kv, storage.KeyAuth, &snap)
	if err != nil {
		metrics.RecordPersistError(storage.KeyAuth, "load")
		return err
	}
	if !found {
		return nil
	}

	st := State{
		IsAuthenticated: snap.IsAuthenticated,
		UserType:        snap.UserType,
		UserID:          snap.UserID,
		Email:           snap.Email,
	}
	if st.IsAuthenticated {
		token, ok, err := s.secure.Get(ctx, storage.KeyAuthToken)
		switch {
		case err != nil:
			metrics.RecordPersistError(storage.KeyAuthToken, "load")
			s.log.Warn(ctx, "could not read token", logger.Error(err))
		case ok:
			st.Token = string(token)
		}
	}
	if st.UserType != "" && !st.UserType.Valid() {
		return errors.Join(storage.ErrDecode, errs.UnknownVariant(st.UserType))
	}
	s.state.Load(ctx, st)
	s.log.Info(ctx, "auth state restored", logger.Bool("authenticated", st.IsAuthenticated))
	return nil
}
