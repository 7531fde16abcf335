package api

import (
	"net/http"

	"github.com/okian/finesse/internal/domain/navigation"
)

// NavigationHandler serves /navigation.
type NavigationHandler struct {
	session Session
}

// NewNavigationHandler creates a new navigation handler.
func NewNavigationHandler(s Session) *NavigationHandler {
	return &NavigationHandler{session: s}
}

type navigateRequest struct {
	Location string `json:"location"`
}

type navigationResponse struct {
	Location  string              `json:"location"`
	Redirects []string            `json:"redirects"`
	Decision  navigation.Decision `json:"decision"`
	Splash    string              `json:"splash,omitempty"`
}

func (h *NavigationHandler) respond(w http.ResponseWriter) {
	redirects := h.session.Redirects()
	if redirects == nil {
		redirects = []string{}
	}
	splash, _ := h.session.Splash()
	writeJSON(w, http.StatusOK, navigationResponse{
		Location:  h.session.Location(),
		Redirects: redirects,
		Decision:  h.session.Decision(),
		Splash:    splash,
	})
}

// HandleState handles GET /navigation.
func (h *NavigationHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	h.respond(w)
}

// HandleNavigate handles POST /navigation.
func (h *NavigationHandler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.session.Navigate(r.Context(), req.Location)
	h.respond(w)
}
