// Package user holds the signed-in user's profile and onboarding progress.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/adapters/storage"
	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/domain/profile"
	"github.com/okian/finesse/internal/store/state"
	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
)

// Name labels this store in metrics and change events.
const Name = model.StoreUser

// Store is the user store.
type Store struct {
	api   boundary.Boundary
	kv    storage.KV
	log   logger.Logger
	track state.Tracker

	state *state.Container[State]
}

// New creates a user store with no profile and the default onboarding state.
func New(api boundary.Boundary, opts ...Option) *Store {
	s := &Store{api: api}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("user")
	}
	if s.kv == nil {
		s.kv = storage.NewMemory()
	}
	s.track = state.NewTracker(Name, s.log)
	save := func(ctx context.Context, key string, v any) error { return storage.SaveJSON(ctx, s.kv, key, v) }
	s.state = state.New(State{Onboarding: model.NewOnboardingState()},
		state.WithName[State](Name),
		state.WithPersist(state.Persister[State](storage.KeyUser, s.log, save, snapshotOf)),
	)
	return s
}

// State returns the current state.
func (s *Store) State() State { return s.state.Get() }

// Profile returns the loaded profile or nil.
func (s *Store) Profile() model.Profile { return s.state.Get().Profile }

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

func (s *Store) fail(ctx context.Context, op string, start time.Time, err error) error {
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		st.Error = errs.Message(err)
	})
	s.track.Done(ctx, op, start, state.Applied, err)
	return err
}

// FetchProfile loads the profile of userID and replaces the current one.
// The onboarding step count follows the profile's type; the current step is
// kept.
func (s *Store) FetchProfile(ctx context.Context, userID string) error {
	const op = "fetch_profile"
	start := time.Now()
	s.begin(ctx)

	p, err := s.api.FetchProfileByID(ctx, userID)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	s.state.Update(ctx, func(st *State) {
		st.Profile = p
		st.Onboarding.TotalSteps = model.TotalStepsFor(p.Type())
		st.Loading = false
	})
	s.track.Done(ctx, op, start, state.Applied, nil)
	return nil
}

// UpdateProfile sends patch to the boundary and merges it into the profile
// present when the call returns. Without a profile it is a NoOp.
func (s *Store) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (state.Outcome, error) {
	const op = "update_profile"
	start := time.Now()
	s.begin(ctx)

	var userID string
	if p := s.Profile(); p != nil {
		userID = p.Common().ID
	}
	if err := s.api.UpdateProfile(ctx, userID, patch); err != nil {
		return state.Applied, s.fail(ctx, op, start, err)
	}

	outcome := state.Applied
	var mergeErr error
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		if st.Profile == nil {
			outcome = state.NoOp
			return
		}
		merged, err := profile.Merge(st.Profile, patch)
		if err != nil {
			mergeErr = err
			st.Error = errs.Message(err)
			return
		}
		st.Profile = merged
	})
	s.track.Done(ctx, op, start, outcome, mergeErr)
	return outcome, mergeErr
}

// SetOnboardingStep moves to step. The value is not range checked.
func (s *Store) SetOnboardingStep(ctx context.Context, step int) {
	s.state.Update(ctx, func(st *State) { st.Onboarding.CurrentStep = step })
}

// ResetOnboarding returns to the first step.
func (s *Store) ResetOnboarding(ctx context.Context) {
	s.state.Update(ctx, func(st *State) { st.Onboarding.CurrentStep = 0 })
}

// CompleteOnboarding marks the profile as onboarded. Without a profile, or
// when the merge fails, the state is left untouched.
func (s *Store) CompleteOnboarding(ctx context.Context) state.Outcome {
	const op = "complete_onboarding"
	start := time.Now()

	var mergeErr error
	_, changed := s.state.UpdateIf(ctx, func(st *State) bool {
		if st.Profile == nil {
			return false
		}
		merged, err := profile.Merge(st.Profile, model.ProfilePatch{OnboardingComplete: model.Ptr(true)})
		if err != nil {
			mergeErr = err
			return false
		}
		st.Profile = merged
		return true
	})
	if mergeErr != nil {
		s.log.Warn(ctx, "could not complete onboarding", logger.Error(mergeErr))
	}
	if !changed {
		s.track.Done(ctx, op, start, state.NoOp, nil)
		return state.NoOp
	}
	s.track.Done(ctx, op, start, state.Applied, nil)
	return state.Applied
}

// OnboardingRoute returns the screen for the current step of the loaded
// profile's flow.
func (s *Store) OnboardingRoute() string {
	st := s.state.Get()
	t := model.UserTypePlayer
	if st.Profile != nil {
		t = st.Profile.Type()
	}
	return model.OnboardingRoute(t, st.Onboarding.CurrentStep)
}

// ClearError resets the error message.
func (s *Store) ClearError(ctx context.Context) {
	s.state.Update(ctx, func(st *State) { st.Error = "" })
}

// Reset drops the profile and onboarding progress, e.g. after sign-out.
func (s *Store) Reset(ctx context.Context) {
	s.state.Update(ctx, func(st *State) {
		*st = State{Onboarding: model.NewOnboardingState()}
	})
}

// Restore loads the persisted profile and onboarding progress.
func (s *Store) Restore(ctx context.Context) error {
	var snap snapshot
	found, err := storage.LoadJSON(ctx, s.kv, storage.KeyUser, &snap)
	if err != nil {
		metrics.RecordPersistError(storage.KeyUser, "load")
		if errors.Is(err, errs.ErrUnknownVariant) {
			s.log.Warn(ctx, "discarding persisted profile", logger.Error(err))
			return nil
		}
		return err
	}
	if !found {
		return nil
	}
	s.state.Load(ctx, State{Profile: snap.Profile.Value, Onboarding: snap.Onboarding})
	return nil
}
