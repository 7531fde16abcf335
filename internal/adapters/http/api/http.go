// Package api exposes the stores over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/domain/navigation"
	"github.com/okian/finesse/internal/store/auth"
	"github.com/okian/finesse/internal/store/state"
	"github.com/okian/finesse/internal/store/trials"
	"github.com/okian/finesse/internal/store/user"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AuthService is the auth store surface the handlers use.
type AuthService interface {
	State() auth.State
	SignUp(ctx context.Context, email, password string, userType model.UserType) error
	SignIn(ctx context.Context, email, password string) error
	SocialSignIn(ctx context.Context, provider model.SocialProvider) error
	ClearError(ctx context.Context)
}

// ProfileService is the user store surface the handlers use.
type ProfileService interface {
	State() user.State
	FetchProfile(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (state.Outcome, error)
	SetOnboardingStep(ctx context.Context, step int)
	ResetOnboarding(ctx context.Context)
	CompleteOnboarding(ctx context.Context) state.Outcome
	OnboardingRoute() string
	ClearError(ctx context.Context)
}

// TrialService is the trials store surface the handlers use.
type TrialService interface {
	State() trials.State
	FetchTrials(ctx context.Context) error
	CreateTrial(ctx context.Context, draft model.TrialDraft) (model.Trial, error)
	UpdateTrial(ctx context.Context, id string, patch model.TrialPatch) (state.Outcome, error)
	DeleteTrial(ctx context.Context, id string) (state.Outcome, error)
	FetchApplications(ctx context.Context, trialID string) error
	ApplyForTrial(ctx context.Context, trialID, playerID, playerName, playerPosition string, playerAge int) (model.TrialApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (state.Outcome, error)
	WithdrawApplication(ctx context.Context, id string) (state.Outcome, error)
	TrialByID(id string) (model.Trial, bool)
	ApplicationsForPlayer(playerID string) []model.TrialApplication
	TrialsForPosition(code string) []model.Trial
	PremiumTrials() []model.Trial
	ClearError(ctx context.Context)
}

// Session is the application-level surface: sign-out across stores and
// navigation.
type Session interface {
	SignOut(ctx context.Context) error
	Navigate(ctx context.Context, location string) string
	Location() string
	Redirects() []string
	Decision() navigation.Decision
	Splash() (string, bool)
}

// Dependencies required by HTTP handlers.
type Dependencies struct {
	Auth    AuthService
	Profile ProfileService
	Trials  TrialService
	Session Session
	Stats   StatsProvider
}

// Server wires HTTP routes for the API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	authHandler       *AuthHandler
	profileHandler    *ProfileHandler
	trialsHandler     *TrialsHandler
	navigationHandler *NavigationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps.Stats),
		authHandler:       NewAuthHandler(deps.Auth, deps.Session),
		profileHandler:    NewProfileHandler(deps.Profile, deps.Auth),
		trialsHandler:     NewTrialsHandler(deps.Trials),
		navigationHandler: NewNavigationHandler(deps.Session),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /auth", "auth", s.authHandler.HandleState)
	route("POST /auth/sign-up", "auth_sign_up", s.authHandler.HandleSignUp)
	route("POST /auth/sign-in", "auth_sign_in", s.authHandler.HandleSignIn)
	route("POST /auth/sign-out", "auth_sign_out", s.authHandler.HandleSignOut)
	route("POST /auth/social/{provider}", "auth_social", s.authHandler.HandleSocial)
	route("DELETE /auth/error", "auth_error", s.authHandler.HandleClearError)

	route("GET /profile", "profile", s.profileHandler.HandleState)
	route("PATCH /profile", "profile_update", s.profileHandler.HandleUpdate)
	route("POST /profile/fetch", "profile_fetch", s.profileHandler.HandleFetch)
	route("DELETE /profile/error", "profile_error", s.profileHandler.HandleClearError)
	route("GET /onboarding", "onboarding", s.profileHandler.HandleOnboarding)
	route("PUT /onboarding/step", "onboarding_step", s.profileHandler.HandleSetStep)
	route("POST /onboarding/reset", "onboarding_reset", s.profileHandler.HandleReset)
	route("POST /onboarding/complete", "onboarding_complete", s.profileHandler.HandleComplete)

	route("GET /trials", "trials", s.trialsHandler.HandleList)
	route("POST /trials", "trials_create", s.trialsHandler.HandleCreate)
	route("DELETE /trials/error", "trials_error", s.trialsHandler.HandleClearError)
	route("GET /trials/{id}", "trial", s.trialsHandler.HandleGet)
	route("PATCH /trials/{id}", "trial_update", s.trialsHandler.HandleUpdate)
	route("DELETE /trials/{id}", "trial_delete", s.trialsHandler.HandleDelete)
	route("GET /trials/{id}/applications", "trial_applications", s.trialsHandler.HandleTrialApplications)
	route("POST /trials/{id}/applications", "trial_apply", s.trialsHandler.HandleApply)
	route("GET /applications", "applications", s.trialsHandler.HandleApplications)
	route("PATCH /applications/{id}", "application_review", s.trialsHandler.HandleReview)
	route("DELETE /applications/{id}", "application_withdraw", s.trialsHandler.HandleWithdraw)

	route("GET /navigation", "navigation", s.navigationHandler.HandleState)
	route("POST /navigation", "navigation_move", s.navigationHandler.HandleNavigate)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type outcomeResponse struct {
	Outcome string `json:"outcome"`
}

func outcomeOf(o state.Outcome) outcomeResponse {
	return outcomeResponse{Outcome: o.String()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
