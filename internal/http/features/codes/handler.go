package codes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/msga/verify-gate/internal/httputil"
	"github.com/msga/verify-gate/pkg/domain"
	"github.com/msga/verify-gate/pkg/store"
)

// Handler exposes the store operations the foreign-peer deployment mode
// drives directly (issue, inspect, consume).
type Handler struct {
	logger *slog.Logger
	store  *store.Store
}

// NewHandler creates the codes feature handler.
func NewHandler(logger *slog.Logger, st *store.Store) *Handler {
	return &Handler{logger: logger, store: st}
}

type recordResponse struct {
	Code          string `json:"code"`
	PlayerName    string `json:"minecraft_username"`
	Timestamp     int64  `json:"timestamp"`
	Verified      bool   `json:"verified"`
	DiscordUserID string `json:"discord_user_id,omitempty"`
}

func toResponse(rec domain.Record) recordResponse {
	return recordResponse{
		Code:          rec.Code,
		PlayerName:    rec.PlayerName,
		Timestamp:     rec.CreatedAt,
		Verified:      rec.Verified,
		DiscordUserID: rec.DiscordUserID,
	}
}

// List returns every record in the shared document.
// GET /v1/codes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records := h.store.List()
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	httputil.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	Code       string `json:"code"`
	PlayerName string `json:"player_name"`
}

// Create issues a new unverified record.
// POST /v1/codes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := domain.ValidateCode(req.Code); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlayerName == "" {
		httputil.Error(w, http.StatusBadRequest, "player_name is required")
		return
	}

	rec, err := h.store.Create(req.Code, req.PlayerName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeExists):
			httputil.Error(w, http.StatusConflict, "code already exists")
		default:
			h.logger.Error("failed to create code", "code", req.Code, "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to create code")
		}
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(rec))
}

// Consume flips a record's verified flag, at most once.
// POST /v1/codes/{code}/consume
func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rec, err := h.store.Consume(code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound):
			httputil.Error(w, http.StatusNotFound, "code not found")
		case errors.Is(err, domain.ErrCodeConsumed):
			httputil.Error(w, http.StatusConflict, "code already verified")
		default:
			h.logger.Error("failed to consume code", "code", code, "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to consume code")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(rec))
}
