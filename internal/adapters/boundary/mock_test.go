package boundary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newTestMock(opts ...Option) *Mock {
	base := []Option{WithLatency(0), WithBcryptCost(bcrypt.MinCost)}
	return NewMock(append(base, opts...)...)
}

func TestAccounts(t *testing.T) {
	Convey("Given a mock boundary", t, func() {
		m := newTestMock(WithUserTypePicker(func() model.UserType { return model.UserTypeClub }))
		ctx := context.Background()

		Convey("When an account is created", func() {
			acc, err := m.CreateAccount(ctx, "A@B.com", "secret1", model.UserTypeManager)
			So(err, ShouldBeNil)

			Convey("Then it gets a user id and a verifiable token", func() {
				So(acc.UserID, ShouldStartWith, "user_")
				So(acc.UserType, ShouldEqual, model.UserTypeManager)
				So(m.accounts.len(), ShouldEqual, 1)

				claims, err := m.ParseToken(acc.Token)
				So(err, ShouldBeNil)
				So(claims.UserID(), ShouldEqual, acc.UserID)
				So(claims.UserType, ShouldEqual, model.UserTypeManager)
			})

			Convey("Then signing in returns the registered identity", func() {
				in, err := m.Authenticate(ctx, " a@b.com ", "secret1")
				So(err, ShouldBeNil)
				So(in.UserID, ShouldEqual, acc.UserID)
				So(in.UserType, ShouldEqual, model.UserTypeManager)
			})

			Convey("Then a wrong password is rejected as a boundary error", func() {
				_, err := m.Authenticate(ctx, "a@b.com", "wrong-pass")
				So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
				So(errors.Is(err, errs.ErrBoundary), ShouldBeTrue)
				So(err.Error(), ShouldEqual, ErrInvalidCredentials.Error())

				var be *Error
				So(errors.As(err, &be), ShouldBeTrue)
				So(be.Op, ShouldEqual, OpAuthenticate)
			})

			Convey("Then registering the same email again fails", func() {
				_, err := m.CreateAccount(ctx, "a@b.com", "other-pass", model.UserTypePlayer)
				So(errors.Is(err, ErrEmailTaken), ShouldBeTrue)
			})
		})

		Convey("When an unknown email signs in", func() {
			acc, err := m.Authenticate(ctx, "social@example.com", "password")

			Convey("Then a demo identity is issued", func() {
				So(err, ShouldBeNil)
				So(acc.UserID, ShouldStartWith, "user_")
				So(acc.UserType, ShouldEqual, model.UserTypeClub)
			})
		})

		Convey("When the password is longer than bcrypt accepts", func() {
			long := strings.Repeat("x", 80)
			acc, err := m.CreateAccount(ctx, "long@b.com", long, model.UserTypePlayer)
			So(err, ShouldBeNil)

			Convey("Then only the exact password signs in", func() {
				in, err := m.Authenticate(ctx, "long@b.com", long)
				So(err, ShouldBeNil)
				So(in.UserID, ShouldEqual, acc.UserID)

				_, err = m.Authenticate(ctx, "long@b.com", long[:72])
				So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
			})
		})

		Convey("When an account is registered under the social placeholder email", func() {
			_, err := m.CreateAccount(ctx, "social@example.com", "not-the-default", model.UserTypePlayer)
			So(err, ShouldBeNil)

			Convey("Then social sign-in still succeeds with a demo identity", func() {
				acc, err := m.SocialSignIn(ctx, model.ProviderApple)
				So(err, ShouldBeNil)
				So(acc.UserID, ShouldStartWith, "user_")
				So(acc.UserType, ShouldEqual, model.UserTypeClub)
				So(m.Calls(OpSocialSignIn), ShouldEqual, 1)
				So(m.Calls(OpAuthenticate), ShouldEqual, 0)
			})
		})

		Convey("When the user type is unknown", func() {
			_, err := m.CreateAccount(ctx, "x@y.com", "secret1", model.UserType("referee"))

			Convey("Then the call fails", func() {
				So(errors.Is(err, errs.ErrUnknownVariant), ShouldBeTrue)
			})
		})
	})
}

func TestTokens(t *testing.T) {
	Convey("Given a mock with a controllable clock", t, func() {
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		m := newTestMock(WithClock(func() time.Time { return now }), WithTokenTTL(time.Hour), WithTokenSecret("s3cret"))
		acc, err := m.CreateAccount(context.Background(), "p@q.com", "secret1", model.UserTypePlayer)
		So(err, ShouldBeNil)

		Convey("When the clock passes the expiry", func() {
			now = now.Add(2 * time.Hour)
			_, err := m.ParseToken(acc.Token)

			Convey("Then the token is expired", func() {
				So(err, ShouldEqual, ErrTokenExpired)
			})
		})

		Convey("When the token was signed with another key", func() {
			other := newTestMock(WithClock(func() time.Time { return now }), WithTokenSecret("different"))
			_, err := other.ParseToken(acc.Token)

			Convey("Then it is invalid", func() {
				So(err, ShouldEqual, ErrTokenInvalid)
			})
		})

		Convey("Garbage is invalid", func() {
			_, err := m.ParseToken("not.a.token")
			So(err, ShouldEqual, ErrTokenInvalid)
		})
	})
}

func TestProfilesAndTrials(t *testing.T) {
	Convey("Given a mock boundary", t, func() {
		m := newTestMock()
		ctx := context.Background()

		Convey("Profiles follow the id prefix", func() {
			cases := map[string]model.UserType{
				"player_1":  model.UserTypePlayer,
				"manager_7": model.UserTypeManager,
				"club_3":    model.UserTypeClub,
				"user_abc":  model.UserTypePlayer,
			}
			for id, want := range cases {
				p, err := m.FetchProfileByID(ctx, id)
				So(err, ShouldBeNil)
				So(p.Type(), ShouldEqual, want)
				So(p.Common().ID, ShouldEqual, id)
				So(p.Common().OnboardingComplete, ShouldBeTrue)
			}
		})

		Convey("Seed trials are returned as independent copies", func() {
			trials, err := m.ListTrials(ctx)
			So(err, ShouldBeNil)
			So(trials, ShouldHaveLength, 3)
			trials[0].Positions[0] = "XX"

			again, _ := m.ListTrials(ctx)
			So(again[0].Positions[0], ShouldEqual, "ST")
		})

		Convey("Applications can be filtered by trial", func() {
			all, err := m.FetchApplications(ctx, "")
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 3)

			one, _ := m.FetchApplications(ctx, "trial_1")
			So(one, ShouldHaveLength, 2)

			none, _ := m.FetchApplications(ctx, "trial_9")
			So(none, ShouldBeEmpty)
		})

		Convey("Creating a trial assigns an id and a timestamp", func() {
			tr, err := m.CreateTrial(ctx, model.TrialDraft{Title: "Open day", Positions: []string{"GK"}})
			So(err, ShouldBeNil)
			So(tr.ID, ShouldStartWith, "trial_")
			So(tr.CreatedAt.IsZero(), ShouldBeFalse)
			_, perr := time.Parse(time.RFC3339, tr.CreatedAt.Format(time.RFC3339))
			So(perr, ShouldBeNil)
		})

		Convey("Submitting an application yields a pending application", func() {
			a, err := m.SubmitApplication(ctx, model.ApplicationRequest{TrialID: "trial_1", PlayerID: "player_9", PlayerAge: 15})
			So(err, ShouldBeNil)
			So(strings.HasPrefix(a.ID, "app_"), ShouldBeTrue)
			So(a.Status, ShouldEqual, model.StatusPending)
		})

		Convey("Round-trip calls succeed", func() {
			So(m.UpdateProfile(ctx, "player_1", model.ProfilePatch{}), ShouldBeNil)
			So(m.UpdateTrial(ctx, "trial_1", model.TrialPatch{}), ShouldBeNil)
			So(m.DeleteTrial(ctx, "trial_1"), ShouldBeNil)
			So(m.UpdateApplicationStatus(ctx, "app_1", model.StatusAccepted), ShouldBeNil)
			So(m.WithdrawApplication(ctx, "app_1"), ShouldBeNil)
		})
	})
}

func TestFailureInjection(t *testing.T) {
	Convey("Given a mock boundary", t, func() {
		m := newTestMock()
		ctx := context.Background()

		Convey("FailNext fails exactly one call", func() {
			m.FailNext(OpListTrials, errors.New("network down"))
			_, err := m.ListTrials(ctx)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "network down")
			So(errors.Is(err, errs.ErrBoundary), ShouldBeTrue)

			_, err = m.ListTrials(ctx)
			So(err, ShouldBeNil)
			So(m.Calls(OpListTrials), ShouldEqual, 2)
		})

		Convey("A nil FailNext error uses the default failure", func() {
			m.FailNext(OpDeleteTrial, nil)
			So(errors.Is(m.DeleteTrial(ctx, "x"), ErrInjected), ShouldBeTrue)
		})

		Convey("SetFailure persists until cleared", func() {
			m.SetFailure(OpFetchProfile, errors.New("boom"))
			_, err1 := m.FetchProfileByID(ctx, "player_1")
			_, err2 := m.FetchProfileByID(ctx, "player_1")
			So(err1, ShouldNotBeNil)
			So(err2, ShouldNotBeNil)

			m.SetFailure(OpFetchProfile, nil)
			_, err3 := m.FetchProfileByID(ctx, "player_1")
			So(err3, ShouldBeNil)
			So(m.TotalCalls(), ShouldEqual, 3)
		})
	})
}

func TestLatency(t *testing.T) {
	Convey("Given a slow mock", t, func() {
		m := NewMock(WithLatency(time.Hour))

		Convey("When the context is cancelled mid-call", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			_, err := m.ListTrials(ctx)

			Convey("Then the call returns the context error", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(errors.Is(err, errs.ErrBoundary), ShouldBeTrue)
			})
		})
	})
}
