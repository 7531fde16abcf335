package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/adapters/http/api"
	"github.com/okian/finesse/internal/app"
	"github.com/okian/finesse/internal/store/auth"
	"github.com/okian/finesse/internal/store/trials"
	"github.com/okian/finesse/internal/store/user"
	"github.com/okian/finesse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newServer() (*httptest.Server, *app.App) {
	mock := boundary.NewMock(boundary.WithLatency(0), boundary.WithBcryptCost(4))
	a := app.New(auth.New(mock), user.New(mock), trials.New(mock))
	_ = a.Start(context.Background())

	mux := http.NewServeMux()
	api.NewServer(api.Dependencies{
		Auth:    a.Auth,
		Profile: a.User,
		Trials:  a.Trials,
		Session: a,
		Stats:   a,
	}).Register(context.Background(), mux)
	return httptest.NewServer(mux), a
}

func TestRun(t *testing.T) {
	Convey("Given a finesse server", t, func() {
		srv, a := newServer()
		defer srv.Close()
		defer func() { _ = a.Stop(context.Background()) }()

		ctx := context.Background()
		output := filepath.Join(t.TempDir(), "reports", "run.json")
		config := &Config{
			BaseURL:    srv.URL,
			Players:    6,
			Workers:    4,
			Timeout:    5 * time.Second,
			OutputFile: output,
		}

		Convey("When the scenario runs", func() {
			report, err := Run(ctx, config)

			Convey("Then every player holds exactly one application", func() {
				So(err, ShouldBeNil)
				So(report.TrialID, ShouldNotBeEmpty)
				So(report.Players, ShouldHaveLength, 6)
				So(report.Stats.PlayersSignedUp, ShouldEqual, 6)
				So(report.Stats.ApplicationsSubmitted, ShouldEqual, 12)
				So(report.Stats.ApplicationsAccepted, ShouldEqual, 6)
				So(report.Stats.ApplicationsDuplicate, ShouldEqual, 6)
				So(report.Stats.Verified, ShouldEqual, 6)
				So(a.Trials.ApplicationsForPlayer(report.Players[0].UserID), ShouldHaveLength, 1)
			})

			Convey("And the report is written to the output file", func() {
				So(err, ShouldBeNil)
				data, rerr := os.ReadFile(output)
				So(rerr, ShouldBeNil)
				var saved Report
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved.TrialID, ShouldEqual, report.TrialID)
				So(saved.Stats.Verified, ShouldEqual, 6)
			})
		})

		Convey("A non-positive player count is rejected", func() {
			config.Players = 0
			_, err := Run(ctx, config)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("An unreachable server fails the health check", t, func() {
		_, err := Run(context.Background(), &Config{
			BaseURL: "http://127.0.0.1:1",
			Players: 1,
			Workers: 1,
			Timeout: time.Second,
		})
		So(err, ShouldNotBeNil)
	})
}

func TestHTTPClient(t *testing.T) {
	Convey("Given a server answering with an error body", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"duplicate_application","message":"already applied"}`))
		}))
		defer srv.Close()

		err := NewHTTPClient(srv.URL, time.Second).Do(context.Background(), http.MethodPost, "/x", map[string]string{"a": "b"}, nil)

		Convey("Then Do returns a StatusError with the code", func() {
			var se *StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Status, ShouldEqual, http.StatusConflict)
			So(se.Code, ShouldEqual, "duplicate_application")
			So(errors.Is(err, ErrStatus), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Counts that do not match the players fail verification", t, func() {
		players := []Player{{UserID: "p1"}, {UserID: "p2"}}
		err := verify(context.Background(), nil, "trial_x", players, &Stats{ApplicationsAccepted: 1, ApplicationsDuplicate: 2})
		So(errors.Is(err, ErrVerification), ShouldBeTrue)

		err = verify(context.Background(), nil, "trial_x", players, &Stats{ApplicationsFailed: 1})
		So(errors.Is(err, ErrVerification), ShouldBeTrue)
	})
}
