package trials

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/adapters/storage"
	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/store/state"
	"github.com/okian/finesse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newStore(opts ...boundary.Option) (*Store, *boundary.Mock, *storage.Memory) {
	api := boundary.NewMock(append([]boundary.Option{boundary.WithLatency(0)}, opts...)...)
	kv := storage.NewMemory()
	return New(api, WithStorage(kv)), api, kv
}

func TestTrials(t *testing.T) {
	Convey("Given a trials store with the catalogue loaded", t, func() {
		s, api, _ := newStore()
		ctx := context.Background()
		So(s.FetchTrials(ctx), ShouldBeNil)
		So(s.State().Trials, ShouldHaveLength, 3)

		Convey("When a trial is created", func() {
			created, err := s.CreateTrial(ctx, model.TrialDraft{
				Title:     "Summer Camp",
				ClubID:    "club_9",
				Positions: []string{"GK", "CB"},
			})

			Convey("Then the count grows by one and the trial has an id and timestamp", func() {
				So(err, ShouldBeNil)
				So(s.State().Trials, ShouldHaveLength, 4)
				So(created.ID, ShouldNotBeEmpty)
				_, perr := time.Parse(time.RFC3339, created.CreatedAt.Format(time.RFC3339))
				So(perr, ShouldBeNil)
				got, ok := s.TrialByID(created.ID)
				So(ok, ShouldBeTrue)
				So(got.Title, ShouldEqual, "Summer Camp")
			})
		})

		Convey("A draft with only positions is still created", func() {
			calls := api.Calls(boundary.OpCreateTrial)
			created, err := s.CreateTrial(ctx, model.TrialDraft{Positions: []string{"ST"}})
			So(err, ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)
			So(api.Calls(boundary.OpCreateTrial), ShouldEqual, calls+1)
			So(s.State().Trials, ShouldHaveLength, 4)
		})

		Convey("When updating an existing trial", func() {
			outcome, err := s.UpdateTrial(ctx, "trial_3", model.TrialPatch{IsPremium: model.Ptr(true), Title: model.Ptr("Local Open Day")})

			Convey("Then only the patched fields change", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.Applied)
				tr, _ := s.TrialByID("trial_3")
				So(tr.IsPremium, ShouldBeTrue)
				So(tr.Title, ShouldEqual, "Local Open Day")
				So(tr.Location, ShouldEqual, "London, UK")
			})
		})

		Convey("Updating or deleting an absent trial is a no-op", func() {
			before := s.State().Trials
			outcome, err := s.UpdateTrial(ctx, "trial_404", model.TrialPatch{Title: model.Ptr("x")})
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, state.NoOp)
			outcome, err = s.DeleteTrial(ctx, "trial_404")
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, state.NoOp)
			So(s.State().Trials, ShouldResemble, before)
			So(s.State().Error, ShouldBeEmpty)
		})

		Convey("When deleting a trial", func() {
			snapshot := s.State().Trials
			outcome, err := s.DeleteTrial(ctx, "trial_1")

			Convey("Then it is gone and earlier snapshots are untouched", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.Applied)
				_, ok := s.TrialByID("trial_1")
				So(ok, ShouldBeFalse)
				So(s.State().Trials, ShouldHaveLength, 2)
				So(snapshot, ShouldHaveLength, 3)
				So(snapshot[0].ID, ShouldEqual, "trial_1")
			})
		})

		Convey("Query helpers filter the catalogue", func() {
			So(s.PremiumTrials(), ShouldHaveLength, 2)
			So(s.TrialsForPosition("GK"), ShouldHaveLength, 2)
			So(s.TrialsForPosition("ZZ"), ShouldBeEmpty)
		})

		Convey("When the boundary fails", func() {
			api.FailNext(boundary.OpListTrials, errors.New("offline"))
			err := s.FetchTrials(ctx)

			Convey("Then the catalogue is kept and the error recorded", func() {
				So(err, ShouldNotBeNil)
				So(s.State().Trials, ShouldHaveLength, 3)
				So(s.State().Error, ShouldEqual, "offline")
				So(s.State().Loading, ShouldBeFalse)

				s.ClearError(ctx)
				So(s.State().Error, ShouldBeEmpty)
			})
		})
	})
}

func TestApplications(t *testing.T) {
	Convey("Given a trials store", t, func() {
		s, api, _ := newStore()
		ctx := context.Background()

		Convey("Applications can be fetched for one trial or all", func() {
			So(s.FetchApplications(ctx, "trial_1"), ShouldBeNil)
			So(s.State().Applications, ShouldHaveLength, 2)
			So(s.FetchApplications(ctx, ""), ShouldBeNil)
			So(s.State().Applications, ShouldHaveLength, 3)
			So(s.ApplicationsForPlayer("player_1"), ShouldHaveLength, 2)
		})

		Convey("When a player applies twice to the same trial", func() {
			first, err1 := s.ApplyForTrial(ctx, "trial_1", "player_7", "Sam", "ST", 16)
			_, err2 := s.ApplyForTrial(ctx, "trial_1", "player_7", "Sam", "ST", 16)

			Convey("Then only one application exists and the second is a duplicate", func() {
				So(err1, ShouldBeNil)
				So(first.Status, ShouldEqual, model.StatusPending)
				So(first.ID, ShouldNotBeEmpty)
				So(errors.Is(err2, errs.ErrDuplicateApplication), ShouldBeTrue)
				So(s.ApplicationsForPlayer("player_7"), ShouldHaveLength, 1)
				So(s.State().Error, ShouldEqual, "you have already applied for this trial")
				So(api.Calls(boundary.OpSubmitApplication), ShouldEqual, 1)
			})
		})

		Convey("When a player applies concurrently many times", func() {
			slow, _, _ := newStore(boundary.WithLatency(5 * time.Millisecond))
			var wg sync.WaitGroup
			var mu sync.Mutex
			failures := 0
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := slow.ApplyForTrial(ctx, "trial_2", "player_3", "Kai", "GK", 15); err != nil {
						mu.Lock()
						failures++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one application is kept", func() {
				So(slow.ApplicationsForPlayer("player_3"), ShouldHaveLength, 1)
				So(failures, ShouldEqual, 7)
			})
		})

		Convey("When reviewing an application", func() {
			app, err := s.ApplyForTrial(ctx, "trial_3", "player_8", "Lee", "CB", 17)
			So(err, ShouldBeNil)

			Convey("Accepting it updates the status", func() {
				outcome, err := s.UpdateApplicationStatus(ctx, app.ID, model.StatusAccepted)
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.Applied)
				So(s.ApplicationsForPlayer("player_8")[0].Status, ShouldEqual, model.StatusAccepted)
			})

			Convey("Pending is not a review status", func() {
				calls := api.Calls(boundary.OpUpdateApplicationStatus)
				_, err := s.UpdateApplicationStatus(ctx, app.ID, model.StatusPending)
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(api.Calls(boundary.OpUpdateApplicationStatus), ShouldEqual, calls)
			})

			Convey("An absent application is a no-op", func() {
				outcome, err := s.UpdateApplicationStatus(ctx, "app_missing", model.StatusRejected)
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.NoOp)
			})

			Convey("Withdrawing removes it", func() {
				outcome, err := s.WithdrawApplication(ctx, app.ID)
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.Applied)
				So(s.ApplicationsForPlayer("player_8"), ShouldBeEmpty)

				outcome, err = s.WithdrawApplication(ctx, app.ID)
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, state.NoOp)
			})
		})

		Convey("Empty ids are passed to the boundary", func() {
			app, err := s.ApplyForTrial(ctx, "", "", "", "", 0)
			So(err, ShouldBeNil)
			So(app.Status, ShouldEqual, model.StatusPending)
			So(api.Calls(boundary.OpSubmitApplication), ShouldEqual, 1)
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Given a store with data", t, func() {
		s, api, kv := newStore()
		ctx := context.Background()
		So(s.FetchTrials(ctx), ShouldBeNil)
		_, err := s.ApplyForTrial(ctx, "trial_1", "player_5", "Ana", "CB", 17)
		So(err, ShouldBeNil)

		Convey("A new store restores trials and applications", func() {
			other := New(api, WithStorage(kv))
			So(other.Restore(ctx), ShouldBeNil)
			So(other.State().Trials, ShouldHaveLength, 3)
			So(other.ApplicationsForPlayer("player_5"), ShouldHaveLength, 1)
			tr, ok := other.TrialByID("trial_2")
			So(ok, ShouldBeTrue)
			So(tr.CreatedAt.Equal(time.Date(2023, 5, 5, 10, 30, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})
}
