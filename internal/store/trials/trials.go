// Package trials holds the trial catalogue and the applications to it.
package trials

import (
	"context"
	"slices"
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
const Name = model.StoreTrials

// Store is the trials store.
type Store struct {
	api   boundary.Boundary
	kv    storage.KV
	log   logger.Logger
	track state.Tracker

	state *state.Container[State]
}

// New creates an empty trials store.
func New(api boundary.Boundary, opts ...Option) *Store {
	s := &Store{api: api}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("trials")
	}
	if s.kv == nil {
		s.kv = storage.NewMemory()
	}
	s.track = state.NewTracker(Name, s.log)
	save := func(ctx context.Context, key string, v any) error { return storage.SaveJSON(ctx, s.kv, key, v) }
	s.state = state.New(State{},
		state.WithName[State](Name),
		state.WithPersist(state.Persister[State](storage.KeyTrials, s.log, save, snapshotOf)),
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

func (s *Store) fail(ctx context.Context, op string, start time.Time, err error) error {
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		st.Error = errs.Message(err)
	})
	s.track.Done(ctx, op, start, state.Applied, err)
	return err
}

// commit applies fn and clears the loading flag in one update. fn reports
// whether it found its target.
func (s *Store) commit(ctx context.Context, op string, start time.Time, fn func(st *State) bool) state.Outcome {
	outcome := state.Applied
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		if !fn(st) {
			outcome = state.NoOp
		}
	})
	s.track.Done(ctx, op, start, outcome, nil)
	return outcome
}

// FetchTrials replaces the catalogue with the boundary's.
func (s *Store) FetchTrials(ctx context.Context) error {
	const op = "fetch_trials"
	start := time.Now()
	s.begin(ctx)

	list, err := s.api.ListTrials(ctx)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	s.commit(ctx, op, start, func(st *State) bool {
		st.Trials = list
		return true
	})
	return nil
}

// CreateTrial publishes draft and appends the created trial.
func (s *Store) CreateTrial(ctx context.Context, draft model.TrialDraft) (model.Trial, error) {
	const op = "create_trial"
	start := time.Now()
	s.begin(ctx)

	created, err := s.api.CreateTrial(ctx, draft)
	if err != nil {
		return model.Trial{}, s.fail(ctx, op, start, err)
	}
	s.commit(ctx, op, start, func(st *State) bool {
		st.Trials = append(slices.Clip(st.Trials), created)
		return true
	})
	return created, nil
}

// UpdateTrial applies patch to the trial with id. A missing trial is a NoOp.
func (s *Store) UpdateTrial(ctx context.Context, id string, patch model.TrialPatch) (state.Outcome, error) {
	const op = "update_trial"
	start := time.Now()
	s.begin(ctx)

	if err := s.api.UpdateTrial(ctx, id, patch); err != nil {
		return state.NoOp, s.fail(ctx, op, start, err)
	}
	return s.commit(ctx, op, start, func(st *State) bool {
		i := slices.IndexFunc(st.Trials, func(t model.Trial) bool { return t.ID == id })
		if i < 0 {
			return false
		}
		next := slices.Clone(st.Trials)
		next[i] = next[i].Apply(patch)
		st.Trials = next
		return true
	}), nil
}

// DeleteTrial removes the trial with id. A missing trial is a NoOp.
func (s *Store) DeleteTrial(ctx context.Context, id string) (state.Outcome, error) {
	const op = "delete_trial"
	start := time.Now()
	s.begin(ctx)

	if err := s.api.DeleteTrial(ctx, id); err != nil {
		return state.NoOp, s.fail(ctx, op, start, err)
	}
	return s.commit(ctx, op, start, func(st *State) bool {
		i := slices.IndexFunc(st.Trials, func(t model.Trial) bool { return t.ID == id })
		if i < 0 {
			return false
		}
		st.Trials = slices.Delete(slices.Clone(st.Trials), i, i+1)
		return true
	}), nil
}

// FetchApplications replaces the applications with those of trialID, or
// with all of them when trialID is empty.
func (s *Store) FetchApplications(ctx context.Context, trialID string) error {
	const op = "fetch_applications"
	start := time.Now()
	s.begin(ctx)

	apps, err := s.api.FetchApplications(ctx, trialID)
	if err != nil {
		return s.fail(ctx, op, start, err)
	}
	s.commit(ctx, op, start, func(st *State) bool {
		st.Applications = apps
		return true
	})
	return nil
}

// ApplyForTrial submits a pending application. A player may apply to a
// trial once; the check runs before the call and again when committing.
func (s *Store) ApplyForTrial(ctx context.Context, trialID, playerID, playerName, playerPosition string, playerAge int) (model.TrialApplication, error) {
	const op = "apply_for_trial"
	start := time.Now()
	s.begin(ctx)

	if hasApplication(s.State().Applications, trialID, playerID) {
		return model.TrialApplication{}, s.fail(ctx, op, start, errs.ErrDuplicateApplication)
	}

	app, err := s.api.SubmitApplication(ctx, model.ApplicationRequest{
		TrialID:        trialID,
		PlayerID:       playerID,
		PlayerName:     playerName,
		PlayerPosition: playerPosition,
		PlayerAge:      playerAge,
	})
	if err != nil {
		return model.TrialApplication{}, s.fail(ctx, op, start, err)
	}

	duplicate := false
	s.state.Update(ctx, func(st *State) {
		st.Loading = false
		if hasApplication(st.Applications, trialID, playerID) {
			duplicate = true
			st.Error = errs.Message(errs.ErrDuplicateApplication)
			return
		}
		st.Applications = append(slices.Clip(st.Applications), app)
	})
	if duplicate {
		s.track.Done(ctx, op, start, state.Applied, errs.ErrDuplicateApplication)
		return model.TrialApplication{}, errs.ErrDuplicateApplication
	}
	s.track.Done(ctx, op, start, state.Applied, nil)
	return app, nil
}

// UpdateApplicationStatus accepts or rejects an application. Any other
// status is a validation error. A missing application is a NoOp.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (state.Outcome, error) {
	const op = "update_application_status"
	start := time.Now()
	s.begin(ctx)

	if !status.Reviewable() {
		return state.NoOp, s.fail(ctx, op, start, errs.Validationf("status must be accepted or rejected, got %q", string(status)))
	}
	if err := s.api.UpdateApplicationStatus(ctx, id, status); err != nil {
		return state.NoOp, s.fail(ctx, op, start, err)
	}
	return s.commit(ctx, op, start, func(st *State) bool {
		i := slices.IndexFunc(st.Applications, func(a model.TrialApplication) bool { return a.ID == id })
		if i < 0 {
			return false
		}
		next := slices.Clone(st.Applications)
		next[i].Status = status
		st.Applications = next
		return true
	}), nil
}

// WithdrawApplication removes an application. A missing one is a NoOp.
func (s *Store) WithdrawApplication(ctx context.Context, id string) (state.Outcome, error) {
	const op = "withdraw_application"
	start := time.Now()
	s.begin(ctx)

	if err := s.api.WithdrawApplication(ctx, id); err != nil {
		return state.NoOp, s.fail(ctx, op, start, err)
	}
	return s.commit(ctx, op, start, func(st *State) bool {
		i := slices.IndexFunc(st.Applications, func(a model.TrialApplication) bool { return a.ID == id })
		if i < 0 {
			return false
		}
		st.Applications = slices.Delete(slices.Clone(st.Applications), i, i+1)
		return true
	}), nil
}

// ClearError resets the error message.
func (s *Store) ClearError(ctx context.Context) {
	s.state.Update(ctx, func(st *State) { st.Error = "" })
}

// Restore loads the persisted catalogue and applications.
func (s *Store) Restore(ctx context.Context) error {
	var snap snapshot
	found, err := storage.LoadJSON(ctx, s.kv, storage.KeyTrials, &snap)
	if err != nil {
		metrics.RecordPersistError(storage.KeyTrials, "load")
		return err
	}
	if !found {
		return nil
	}
	s.state.Load(ctx, State{Trials: snap.Trials, Applications: snap.Applications})
	s.log.Debug(ctx, "trials restored", logger.Int("trials", len(snap.Trials)), logger.Int("applications", len(snap.Applications)))
	return nil
}
