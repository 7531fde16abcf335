package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

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

type fixture struct {
	api    *boundary.Mock
	kv     *storage.Memory
	secure *storage.Memory
	store  *Store
}

func newFixture() fixture {
	f := fixture{
		api:    boundary.NewMock(boundary.WithLatency(0), boundary.WithBcryptCost(bcrypt.MinCost)),
		kv:     storage.NewMemory(),
		secure: storage.NewMemory(),
	}
	f.store = New(f.api, WithStorage(f.kv), WithSecureStorage(f.secure))
	return f
}

func TestSignUp(t *testing.T) {
	Convey("Given a fresh auth store", t, func() {
		f := newFixture()
		ctx := context.Background()

		Convey("When signing up with valid details", func() {
			err := f.store.SignUp(ctx, "a@b.com", "secret1", model.UserTypePlayer)
			st := f.store.State()

			Convey("Then the store is authenticated as a player with no error", func() {
				So(err, ShouldBeNil)
				So(st.IsAuthenticated, ShouldBeTrue)
				So(st.UserType, ShouldEqual, model.UserTypePlayer)
				So(st.UserID, ShouldStartWith, "user_")
				So(st.Email, ShouldEqual, "a@b.com")
				So(st.Loading, ShouldBeFalse)
				So(st.Error, ShouldBeEmpty)
				So(st.Phase(), ShouldEqual, PhaseAuthenticated)
			})

			Convey("Then the token is kept in the secure store only", func() {
				token, ok, _ := f.secure.Get(ctx, storage.KeyAuthToken)
				So(ok, ShouldBeTrue)
				So(string(token), ShouldEqual, st.Token)

				raw, ok, _ := f.kv.Get(ctx, storage.KeyAuth)
				So(ok, ShouldBeTrue)
				So(string(raw), ShouldNotContainSubstring, st.Token)

				var snap map[string]any
				So(json.Unmarshal(raw, &snap), ShouldBeNil)
				So(snap["isAuthenticated"], ShouldEqual, true)
				So(snap["userType"], ShouldEqual, "player")
				So(snap["email"], ShouldEqual, "a@b.com")
			})
		})

		Convey("When the input is invalid", func() {
			cases := []struct {
				email, password string
				userType        model.UserType
				msg             string
			}{
				{"", "secret1", model.UserTypePlayer, "email and password are required"},
				{"a@b.com", "", model.UserTypePlayer, "email and password are required"},
				{"not-an-email", "secret1", model.UserTypePlayer, "please enter a valid email"},
				{"a@b.com", "short", model.UserTypePlayer, "password must be at least 6 characters"},
				{"a@b.com", "secret1", model.UserType("coach"), "please choose a user type"},
			}
			for _, c := range cases {
				err := f.store.SignUp(ctx, c.email, c.password, c.userType)
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(f.store.State().Error, ShouldEqual, c.msg)
				So(f.store.State().IsAuthenticated, ShouldBeFalse)
				So(f.store.State().Loading, ShouldBeFalse)
			}

			Convey("Then the boundary is never called", func() {
				So(f.api.TotalCalls(), ShouldEqual, 0)
			})
		})

		Convey("When the boundary fails", func() {
			f.api.FailNext(boundary.OpCreateAccount, errors.New("service unavailable"))
			err := f.store.SignUp(ctx, "a@b.com", "secret1", model.UserTypeClub)

			Convey("Then the message is recorded verbatim and nothing is authenticated", func() {
				So(errors.Is(err, errs.ErrBoundary), ShouldBeTrue)
				So(f.store.State().Error, ShouldEqual, "service unavailable")
				So(f.store.State().IsAuthenticated, ShouldBeFalse)
			})

			Convey("And ClearError empties it", func() {
				f.store.ClearError(ctx)
				So(f.store.State().Error, ShouldBeEmpty)
			})
		})
	})
}

func TestSignIn(t *testing.T) {
	Convey("Given a registered account", t, func() {
		f := newFixture()
		ctx := context.Background()
		So(f.store.SignUp(ctx, "m@club.com", "secret1", model.UserTypeManager), ShouldBeNil)
		So(f.store.SignOut(ctx), ShouldBeNil)

		Convey("When signing in with an empty password", func() {
			calls := f.api.TotalCalls()
			err := f.store.SignIn(ctx, "m@club.com", "")

			Convey("Then it is a validation error with no boundary call", func() {
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(f.store.State().IsAuthenticated, ShouldBeFalse)
				So(f.api.TotalCalls(), ShouldEqual, calls)
			})
		})

		Convey("When signing in with the right password", func() {
			err := f.store.SignIn(ctx, "m@club.com", "secret1")

			Convey("Then the registered user type is restored", func() {
				So(err, ShouldBeNil)
				So(f.store.State().UserType, ShouldEqual, model.UserTypeManager)
			})
		})

		Convey("When signing in with the wrong password", func() {
			err := f.store.SignIn(ctx, "m@club.com", "nope-nope")

			Convey("Then the store records the failure", func() {
				So(errors.Is(err, boundary.ErrInvalidCredentials), ShouldBeTrue)
				So(f.store.State().Error, ShouldEqual, boundary.ErrInvalidCredentials.Error())
				So(f.store.State().Phase(), ShouldEqual, PhaseAnonymous)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := f.store.SignIn(ctx, "x@y.com", "secret1")

		Convey("Then the cancellation is the recorded error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(f.store.State().Error, ShouldEqual, context.Canceled.Error())
			So(f.store.State().Loading, ShouldBeFalse)
		})
	})
}

func TestSignUpLongPassword(t *testing.T) {
	Convey("Given a fresh auth store", t, func() {
		f := newFixture()
		ctx := context.Background()
		password := strings.Repeat("x", 80)

		Convey("When signing up with an 80 character password", func() {
			err := f.store.SignUp(ctx, "long@b.com", password, model.UserTypePlayer)

			Convey("Then the session is authenticated and signing in again works", func() {
				So(err, ShouldBeNil)
				So(f.store.State().IsAuthenticated, ShouldBeTrue)
				So(f.store.State().Error, ShouldBeEmpty)

				So(f.store.SignOut(ctx), ShouldBeNil)
				So(f.store.SignIn(ctx, "long@b.com", password), ShouldBeNil)
				So(f.store.State().UserType, ShouldEqual, model.UserTypePlayer)
			})
		})
	})
}

func TestSocialSignIn(t *testing.T) {
	Convey("Given a fresh auth store", t, func() {
		f := newFixture()
		ctx := context.Background()

		Convey("A supported provider signs in with the placeholder identity", func() {
			So(f.store.SocialSignIn(ctx, model.ProviderGoogle), ShouldBeNil)
			st := f.store.State()
			So(st.IsAuthenticated, ShouldBeTrue)
			So(st.Email, ShouldEqual, SocialEmail)
			So(st.UserType.Valid(), ShouldBeTrue)
		})

		Convey("An account holding the placeholder email does not block social sign-in", func() {
			So(f.store.SignUp(ctx, SocialEmail, "someone-else", model.UserTypeManager), ShouldBeNil)
			So(f.store.SignOut(ctx), ShouldBeNil)

			So(f.store.SocialSignIn(ctx, model.ProviderFacebook), ShouldBeNil)
			st := f.store.State()
			So(st.IsAuthenticated, ShouldBeTrue)
			So(st.Error, ShouldBeEmpty)
		})

		Convey("An unknown provider is rejected before the boundary", func() {
			err := f.store.SocialSignIn(ctx, model.SocialProvider("myspace"))
			So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
			So(f.api.TotalCalls(), ShouldEqual, 0)
		})
	})
}

func TestSignOutAndRestore(t *testing.T) {
	Convey("Given a signed-in store", t, func() {
		f := newFixture()
		ctx := context.Background()
		So(f.store.SignUp(ctx, "a@b.com", "secret1", model.UserTypeClub), ShouldBeNil)
		signedIn := f.store.State()

		Convey("When a new store restores from the same storage", func() {
			restored := New(f.api, WithStorage(f.kv), WithSecureStorage(f.secure))
			So(restored.Restore(ctx), ShouldBeNil)

			Convey("Then the identity and token come back", func() {
				st := restored.State()
				So(st.IsAuthenticated, ShouldBeTrue)
				So(st.UserID, ShouldEqual, signedIn.UserID)
				So(st.UserType, ShouldEqual, model.UserTypeClub)
				So(st.Token, ShouldEqual, signedIn.Token)
			})
		})

		Convey("When signing out", func() {
			So(f.store.SignOut(ctx), ShouldBeNil)

			Convey("Then everything is reset and the token removed", func() {
				So(f.store.State(), ShouldResemble, State{})
				_, ok, _ := f.secure.Get(ctx, storage.KeyAuthToken)
				So(ok, ShouldBeFalse)
			})

			Convey("Then a restore yields the anonymous state", func() {
				restored := New(f.api, WithStorage(f.kv), WithSecureStorage(f.secure))
				So(restored.Restore(ctx), ShouldBeNil)
				So(restored.State().IsAuthenticated, ShouldBeFalse)
			})
		})
	})

	Convey("Restoring from empty storage keeps the defaults", t, func() {
		f := newFixture()
		So(f.store.Restore(context.Background()), ShouldBeNil)
		So(f.store.Version(), ShouldEqual, 0)
	})
}

func TestSubscribe(t *testing.T) {
	Convey("Subscribers see loading then the result", t, func() {
		f := newFixture()
		var phases []Phase
		unsubscribe := f.store.Subscribe(func(ch state.Change[State]) { phases = append(phases, ch.Value.Phase()) })
		defer unsubscribe()

		So(f.store.SignIn(context.Background(), "x@y.com", "secret1"), ShouldBeNil)
		So(phases, ShouldResemble, []Phase{PhaseAuthenticating, PhaseAuthenticated})
	})
}

func TestPhase(t *testing.T) {
	Convey("Phase is derived from the flags", t, func() {
		So(State{}.Phase(), ShouldEqual, PhaseAnonymous)
		So(State{Loading: true}.Phase(), ShouldEqual, PhaseAuthenticating)
		So(State{IsAuthenticated: true, Loading: true}.Phase(), ShouldEqual, PhaseAuthenticated)
	})
}
