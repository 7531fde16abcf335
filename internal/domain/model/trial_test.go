package model

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrial(t *testing.T) {
	Convey("Given a draft", t, func() {
		draft := TrialDraft{Title: "U18 Trials", ClubID: "club_1", Positions: []string{"ST", "CB"}, IsPremium: true}
		at := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When it is built", func() {
			trial := draft.Build("trial_x", at)

			Convey("Then identity is assigned and fields are copied", func() {
				So(trial.ID, ShouldEqual, "trial_x")
				So(trial.CreatedAt, ShouldEqual, at)
				So(trial.Title, ShouldEqual, draft.Title)
				So(trial.AcceptsPosition("CB"), ShouldBeTrue)
				So(trial.AcceptsPosition("GK"), ShouldBeFalse)
			})

			Convey("Then the positions slice is not shared with the draft", func() {
				draft.Positions[0] = "GK"
				So(trial.Positions[0], ShouldEqual, "ST")
			})

			Convey("When a patch is applied", func() {
				positions := []string{"GK"}
				patched := trial.Apply(TrialPatch{Title: Ptr("Senior Trials"), IsPremium: Ptr(false), Positions: &positions})

				Convey("Then only the patched fields change", func() {
					So(patched.Title, ShouldEqual, "Senior Trials")
					So(patched.IsPremium, ShouldBeFalse)
					So(patched.Positions, ShouldResemble, []string{"GK"})
					So(patched.ID, ShouldEqual, trial.ID)
					So(patched.ClubID, ShouldEqual, trial.ClubID)
					So(patched.CreatedAt, ShouldEqual, trial.CreatedAt)
				})

				Convey("Then the original is untouched", func() {
					So(trial.Title, ShouldEqual, "U18 Trials")
					So(trial.IsPremium, ShouldBeTrue)
				})
			})
		})
	})

	Convey("Only accepted and rejected are reviewable", t, func() {
		So(StatusAccepted.Reviewable(), ShouldBeTrue)
		So(StatusRejected.Reviewable(), ShouldBeTrue)
		So(StatusPending.Reviewable(), ShouldBeFalse)
		So(ApplicationStatus("withdrawn").Reviewable(), ShouldBeFalse)
	})
}
