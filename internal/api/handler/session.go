package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/scorekeeper/internal/api/request"
	"github.com/mcoot/scorekeeper/internal/api/response"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/session"
)

// SessionHandler handles session endpoints. Every mutating endpoint answers
// with the fresh snapshot so clients never need a second read.
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter) {
	response.JSON(w, http.StatusOK, response.SessionFromModel(h.controller.Snapshot()))
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w)
}

// Restore handles POST /api/v1/session/restore
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.controller.Restore(r.Context())
	h.writeSnapshot(w)
}

// Resize handles PUT /api/v1/session/roster-size
func (h *SessionHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req request.ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.controller.Resize(r.Context(), req.Size); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// SetPhase handles PUT /api/v1/session/phase
func (h *SessionHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	var req request.SetPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.controller.SetPhase(r.Context(), model.Phase(req.Phase)); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// Start handles POST /api/v1/session/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Start(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// BackToSetup handles POST /api/v1/session/setup
func (h *SessionHandler) BackToSetup(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.BackToSetup(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// Rename handles PATCH /api/v1/session/players/{id}
func (h *SessionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.controller.Rename(r.Context(), id, req.Name); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// AdjustScore handles POST /api/v1/session/players/{id}/score
func (h *SessionHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.AdjustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	direction := model.Direction(req.Direction)
	var err error
	if req.Text != "" {
		err = h.controller.AdjustScoreText(r.Context(), id, req.Text, direction)
	} else {
		err = h.controller.AdjustScore(r.Context(), id, req.Magnitude, direction)
	}
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// RequestReset handles POST /api/v1/session/reset
func (h *SessionHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	h.controller.RequestReset()
	h.writeSnapshot(w)
}

// ConfirmReset handles POST /api/v1/session/reset/confirm
func (h *SessionHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ConfirmReset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// CancelReset handles DELETE /api/v1/session/reset
func (h *SessionHandler) CancelReset(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelReset()
	h.writeSnapshot(w)
}

// Ranking handles GET /api/v1/session/ranking
func (h *SessionHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RankingFromModel(h.controller.Rank()))
}

func playerIDFromRequest(w http.ResponseWriter, r *http.Request) (model.PlayerID, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Player id must be a number"))
		return 0, false
	}
	return model.PlayerID(id), true
}
