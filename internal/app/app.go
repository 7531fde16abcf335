// Package app wires the stores, the navigation guard and the change-event
// bus into one application context.
package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/okian/finesse/internal/adapters/mq/queue"
	"github.com/okian/finesse/internal/adapters/mq/worker"
	"github.com/okian/finesse/internal/domain/dedupe"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/domain/navigation"
	"github.com/okian/finesse/internal/store/auth"
	"github.com/okian/finesse/internal/store/state"
	"github.com/okian/finesse/internal/store/trials"
	"github.com/okian/finesse/internal/store/user"
	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
)

const (
	// a redirect changes the location, which can trigger at most one more
	// rule; anything beyond this is a loop.
	maxRedirectChain = 4

	defaultLocation = "/"
)

// Navigator is told about every redirect the guard issues.
type Navigator func(ctx context.Context, route string)

// App owns the stores and reacts to their changes.
type App struct {
	Auth   *auth.Store
	User   *user.Store
	Trials *trials.Store

	guard     *navigation.Guard
	fetches   dedupe.Deduper
	navigator Navigator

	sink        worker.Sink
	queueSize   int
	workerCount int
	events      *queue.InMemoryQueue
	pool        *worker.Pool

	// navMu serialises guard evaluation and location changes.
	navMu     sync.Mutex
	location  string
	redirects []string

	mu      sync.Mutex
	started bool
	base    context.Context
	unsub   []func()
	pending sync.WaitGroup

	log logger.Logger
}

// New creates an App over the given stores. Nothing is observed until Start.
func New(a *auth.Store, u *user.Store, t *trials.Store, opts ...Option) *App {
	app := &App{
		Auth:      a,
		User:      u,
		Trials:    t,
		fetches:   dedupe.NewInMemoryDeduper(),
		location:  defaultLocation,
		queueSize: 1024,
		base:      context.Background(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.log == nil {
		app.log = logger.Named("app")
	}
	if app.guard == nil {
		app.guard = navigation.NewGuard()
	}
	return app
}

// Start subscribes to the stores, starts the event bus when a sink is
// configured and runs the guard once for the current location.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.base = context.WithoutCancel(ctx)

	if a.sink != nil {
		a.events = queue.NewInMemoryQueue(queue.WithCapacity(a.queueSize))
		a.pool = worker.NewPool(a.workerCount, a.events, a.sink)
		a.pool.Start(a.base)
	}

	a.unsub = []func(){
		a.Auth.Subscribe(func(ch state.Change[auth.State]) {
			a.publish(model.StoreAuth, ch.Version, ch.At, ch.Value)
			a.evaluate(a.base)
		}),
		a.User.Subscribe(func(ch state.Change[user.State]) {
			a.publish(model.StoreUser, ch.Version, ch.At, ch.Value)
			a.evaluate(a.base)
		}),
		a.Trials.Subscribe(func(ch state.Change[trials.State]) {
			a.publish(model.StoreTrials, ch.Version, ch.At, ch.Value)
		}),
	}
	a.mu.Unlock()

	a.log.Info(ctx, "application started",
		logger.String("location", a.Location()),
		logger.Bool("event_bus", a.sink != nil),
	)
	a.evaluate(ctx)
	return nil
}

// Stop detaches from the stores, waits for in-flight profile fetches and
// drains the event bus.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = false
	for _, fn := range a.unsub {
		fn()
	}
	a.unsub = nil
	pool := a.pool
	a.mu.Unlock()

	a.Wait()

	var err error
	if pool != nil {
		err = pool.Shutdown(ctx)
	}
	a.log.Info(ctx, "application stopped")
	return err
}

// Wait blocks until every profile fetch started by the guard has finished.
func (a *App) Wait() {
	a.pending.Wait()
}

// Restore reloads all three stores from storage and re-runs the guard. The
// profile is restored before the session so the guard does not fetch a
// profile that is about to be loaded.
func (a *App) Restore(ctx context.Context) error {
	err := errors.Join(
		a.User.Restore(ctx),
		a.Trials.Restore(ctx),
		a.Auth.Restore(ctx),
	)
	a.evaluate(ctx)
	return err
}

// SignOut ends the session and forgets the loaded profile.
func (a *App) SignOut(ctx context.Context) error {
	userID := a.Auth.State().UserID
	err := a.Auth.SignOut(ctx)
	a.User.Reset(ctx)
	if userID != "" {
		a.fetches.Unrecord(ctx, userID)
	}
	return err
}

// Navigate moves to location and applies the guard. It returns the location
// the client ends up on.
func (a *App) Navigate(ctx context.Context, location string) string {
	if location == "" {
		location = defaultLocation
	}
	a.navMu.Lock()
	a.location = location
	a.navMu.Unlock()

	a.evaluate(ctx)
	return a.Location()
}

// Location returns the current location.
func (a *App) Location() string {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	return a.location
}

// Redirects returns every redirect issued so far, oldest first.
func (a *App) Redirects() []string {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	return slices.Clone(a.redirects)
}

// Decision reports what the guard rules say for the current state without
// acting on it.
func (a *App) Decision() navigation.Decision {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	return navigation.Decide(a.inputs())
}

// Splash returns where the splash screen forwards the current session, if
// anywhere.
func (a *App) Splash() (string, bool) {
	return navigation.SplashTarget(a.Auth.State().IsAuthenticated, a.User.Profile())
}

func (a *App) inputs() navigation.Inputs {
	st := a.Auth.State()
	return navigation.Inputs{
		IsAuthenticated: st.IsAuthenticated,
		UserID:          st.UserID,
		Profile:         a.User.Profile(),
		Location:        a.location,
	}
}

func (a *App) evaluate(ctx context.Context) {
	var issued []string

	a.navMu.Lock()
	for range maxRedirectChain {
		d := a.guard.Evaluate(ctx, a.inputs())
		if d.FetchProfile {
			a.fetchProfile(d.FetchUserID)
		}
		if d.Redirect == "" {
			break
		}
		a.location = d.Redirect
		a.redirects = append(a.redirects, d.Redirect)
		issued = append(issued, d.Redirect)
	}
	a.navMu.Unlock()

	if a.navigator != nil {
		for _, route := range issued {
			a.navigator(ctx, route)
		}
	}
}

// fetchProfile loads the profile in the background unless a fetch for the
// same user is already running.
func (a *App) fetchProfile(userID string) {
	ctx := a.base
	if a.fetches.SeenAndRecord(ctx, userID) {
		metrics.RecordFetchDeduped()
		a.log.Debug(ctx, "profile fetch already in flight", logger.String("user_id", userID))
		return
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		defer a.fetches.Unrecord(ctx, userID)
		if err := a.User.FetchProfile(ctx, userID); err != nil {
			a.log.Warn(ctx, "profile fetch failed", logger.String("user_id", userID), logger.Error(err))
		}
	}()
}

func (a *App) publish(store string, version uint64, at time.Time, value any) {
	a.mu.Lock()
	q := a.events
	a.mu.Unlock()
	if q == nil {
		return
	}
	if !q.Enqueue(a.base, model.ChangeEvent{Store: store, Version: version, At: at, State: value}) {
		a.log.Warn(a.base, "change event dropped", logger.String("store", store), logger.Uint64("version", version))
	}
}

// GetStats returns a snapshot for monitoring.
func (a *App) GetStats() map[string]any {
	a.mu.Lock()
	started := a.started
	q, pool := a.events, a.pool
	a.mu.Unlock()

	authState := a.Auth.State()
	stats := map[string]any{
		"started":         started,
		"location":        a.Location(),
		"redirects":       len(a.Redirects()),
		"authPhase":       string(authState.Phase()),
		"fetchesInFlight": a.fetches.Size(),
		"versions": map[string]uint64{
			model.StoreAuth:   a.Auth.Version(),
			model.StoreUser:   a.User.Version(),
			model.StoreTrials: a.Trials.Version(),
		},
		"trials":       len(a.Trials.State().Trials),
		"applications": len(a.Trials.State().Applications),
	}
	if q != nil {
		stats["queueLength"] = q.Len(context.Background())
		stats["queueCapacity"] = a.queueSize
	}
	if pool != nil {
		stats["workerCount"] = pool.Size()
	}
	return stats
}
