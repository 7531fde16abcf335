package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/finesse/internal/domain/model"
)

// TrialsHandler serves the /trials and /applications routes.
type TrialsHandler struct {
	trials TrialService
}

// NewTrialsHandler creates a new trials handler.
func NewTrialsHandler(t TrialService) *TrialsHandler {
	return &TrialsHandler{trials: t}
}

type applyRequest struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	PlayerPosition string `json:"playerPosition"`
	PlayerAge      int    `json:"playerAge"`
}

type reviewRequest struct {
	Status model.ApplicationStatus `json:"status"`
}

func refresh(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("refresh")
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: invalid refresh %q", ErrBadRequest, v)
	}
	return b, nil
}

// HandleList handles GET /trials. With refresh=true the catalogue is loaded
// from the backend first; position and premium filter the result.
func (h *TrialsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	reload, err := refresh(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if reload {
		if err := h.trials.FetchTrials(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}

	q := r.URL.Query()
	var list []model.Trial
	switch {
	case q.Get("position") != "":
		list = h.trials.TrialsForPosition(q.Get("position"))
	case q.Get("premium") == "true":
		list = h.trials.PremiumTrials()
	default:
		list = h.trials.State().Trials
	}
	if list == nil {
		list = []model.Trial{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /trials.
func (h *TrialsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft model.TrialDraft
	if err := decode(w, r, &draft); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.trials.CreateTrial(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /trials/{id}.
func (h *TrialsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tr, ok := h.trials.TrialByID(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: trial %s", ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// HandleUpdate handles PATCH /trials/{id}.
func (h *TrialsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.TrialPatch
	if err := decode(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.trials.UpdateTrial(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeOf(outcome))
}

// HandleDelete handles DELETE /trials/{id}.
func (h *TrialsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.trials.DeleteTrial(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeOf(outcome))
}

// HandleTrialApplications handles GET /trials/{id}/applications.
func (h *TrialsHandler) HandleTrialApplications(w http.ResponseWriter, r *http.Request) {
	if err := h.trials.FetchApplications(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	h.applications(w, h.trials.State().Applications)
}

// HandleApply handles POST /trials/{id}/applications.
func (h *TrialsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	app, err := h.trials.ApplyForTrial(r.Context(), r.PathValue("id"), req.PlayerID, req.PlayerName, req.PlayerPosition, req.PlayerAge)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// HandleApplications handles GET /applications. With refresh=true every
// application is loaded from the backend first; playerId filters the result.
func (h *TrialsHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	reload, err := refresh(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if reload {
		if err := h.trials.FetchApplications(r.Context(), ""); err != nil {
			writeError(w, err)
			return
		}
	}
	if player := r.URL.Query().Get("playerId"); player != "" {
		h.applications(w, h.trials.ApplicationsForPlayer(player))
		return
	}
	h.applications(w, h.trials.State().Applications)
}

func (h *TrialsHandler) applications(w http.ResponseWriter, apps []model.TrialApplication) {
	if apps == nil {
		apps = []model.TrialApplication{}
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleReview handles PATCH /applications/{id}.
func (h *TrialsHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.trials.UpdateApplicationStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeOf(outcome))
}

// HandleWithdraw handles DELETE /applications/{id}.
func (h *TrialsHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.trials.WithdrawApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeOf(outcome))
}

// HandleClearError handles DELETE /trials/error.
func (h *TrialsHandler) HandleClearError(w http.ResponseWriter, r *http.Request) {
	h.trials.ClearError(r.Context())
	writeJSON(w, http.StatusOK, h.trials.State())
}
