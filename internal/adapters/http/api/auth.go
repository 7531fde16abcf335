package api

import (
	"net/http"

	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/internal/store/auth"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	auth    AuthService
	session Session
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(a AuthService, s Session) *AuthHandler {
	return &AuthHandler{auth: a, session: s}
}

type credentialsRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	UserType model.UserType `json:"userType,omitempty"`
}

// authResponse carries the public auth state. Token is only set right after
// a successful sign-in.
type authResponse struct {
	auth.State
	Phase auth.Phase `json:"phase"`
	Token string     `json:"token,omitempty"`
}

func (h *AuthHandler) respond(w http.ResponseWriter, status int, withToken bool) {
	st := h.auth.State()
	resp := authResponse{State: st, Phase: st.Phase()}
	if withToken {
		resp.Token = st.Token
	}
	writeJSON(w, status, resp)
}

// HandleState handles GET /auth.
func (h *AuthHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, false)
}

// HandleSignUp handles POST /auth/sign-up.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.UserType); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, true)
}

// HandleSignIn handles POST /auth/sign-in.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.SignIn(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, true)
}

// HandleSocial handles POST /auth/social/{provider}.
func (h *AuthHandler) HandleSocial(w http.ResponseWriter, r *http.Request) {
	provider := model.SocialProvider(r.PathValue("provider"))
	if err := h.auth.SocialSignIn(r.Context(), provider); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, true)
}

// HandleSignOut handles POST /auth/sign-out.
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, false)
}

// HandleClearError handles DELETE /auth/error.
func (h *AuthHandler) HandleClearError(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearError(r.Context())
	h.respond(w, http.StatusOK, false)
}
