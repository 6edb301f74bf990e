package verify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/msga/verify-gate/internal/httputil"
	"github.com/msga/verify-gate/pkg/verify"
)

// Handler binds the session controller to the host's HTTP dispatch.
type Handler struct {
	logger  *slog.Logger
	service *verify.Service
	pending *verify.PendingCache
}

// NewHandler creates the verify feature handler.
func NewHandler(logger *slog.Logger, service *verify.Service, pending *verify.PendingCache) *Handler {
	return &Handler{logger: logger, service: service, pending: pending}
}

type submitRequest struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	Code       string `json:"code"`
}

type submitResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Submit delivers one submitted code to the controller.
// POST /v1/verify
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid session_id")
		return
	}
	if req.PlayerName == "" {
		httputil.Error(w, http.StatusBadRequest, "player_name is required")
		return
	}

	result := h.service.Submit(sessionID, req.PlayerName, req.Code)

	httputil.JSON(w, http.StatusOK, submitResponse{
		Status: string(result.Status),
		Reason: result.Reason,
	})
}

// Join delivers a session join event (pending reminder / code issue).
// POST /v1/sessions/{id}/join
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid session id")
		return
	}

	h.service.HandleJoin(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

type pendingResponse struct {
	Code string `json:"code"`
}

// Pending reports a session's unresolved submitted code, if any.
// GET /v1/sessions/{id}/pending
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid session id")
		return
	}

	code, ok := h.pending.Recall(sessionID)
	if !ok {
		httputil.Error(w, http.StatusNotFound, "no pending verification")
		return
	}

	httputil.JSON(w, http.StatusOK, pendingResponse{Code: code})
}
