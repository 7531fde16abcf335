package api

import (
	"net/http"

	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/store/user"
)

// ProfileHandler serves the /profile and /onboarding routes.
type ProfileHandler struct {
	profile ProfileService
	auth    AuthService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(p ProfileService, a AuthService) *ProfileHandler {
	return &ProfileHandler{profile: p, auth: a}
}

type fetchProfileRequest struct {
	UserID string `json:"userId"`
}

type stepRequest struct {
	Step int `json:"step"`
}

type onboardingResponse struct {
	model.OnboardingState
	Route string `json:"route"`
}

// HandleState handles GET /profile.
func (h *ProfileHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.profile.State())
}

// HandleFetch handles POST /profile/fetch. Without a userId in the body the
// signed-in user's profile is fetched.
func (h *ProfileHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchProfileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" {
		req.UserID = h.auth.State().UserID
	}
	if err := h.profile.FetchProfile(r.Context(), req.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.profile.State())
}

type updateProfileResponse struct {
	outcomeResponse
	State user.State `json:"state"`
}

// HandleUpdate handles PATCH /profile.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	if err := decode(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.profile.UpdateProfile(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateProfileResponse{outcomeResponse: outcomeOf(outcome), State: h.profile.State()})
}

// HandleClearError handles DELETE /profile/error.
func (h *ProfileHandler) HandleClearError(w http.ResponseWriter, r *http.Request) {
	h.profile.ClearError(r.Context())
	writeJSON(w, http.StatusOK, h.profile.State())
}

func (h *ProfileHandler) onboarding(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, onboardingResponse{
		OnboardingState: h.profile.State().Onboarding,
		Route:           h.profile.OnboardingRoute(),
	})
}

// HandleOnboarding handles GET /onboarding.
func (h *ProfileHandler) HandleOnboarding(w http.ResponseWriter, _ *http.Request) {
	h.onboarding(w)
}

// HandleSetStep handles PUT /onboarding/step.
func (h *ProfileHandler) HandleSetStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.profile.SetOnboardingStep(r.Context(), req.Step)
	h.onboarding(w)
}

// HandleReset handles POST /onboarding/reset.
func (h *ProfileHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.profile.ResetOnboarding(r.Context())
	h.onboarding(w)
}

// HandleComplete handles POST /onboarding/complete.
func (h *ProfileHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	outcome := h.profile.CompleteOnboarding(r.Context())
	writeJSON(w, http.StatusOK, updateProfileResponse{outcomeResponse: outcomeOf(outcome), State: h.profile.State()})
}
