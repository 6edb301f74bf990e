package verify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/msga/verify-gate/pkg/purge"
	"github.com/msga/verify-gate/pkg/store"
	"github.com/msga/verify-gate/pkg/verify"
)

type nopHost struct{}

func (nopHost) SendMessage(uuid.UUID, string) {}
func (nopHost) Disconnect(uuid.UUID, string)  {}
func (nopHost) Broadcast(string)              {}

type nopScheduler struct{}

func (nopScheduler) Schedule(time.Duration, func()) {}

type nopAudit struct{}

func (nopAudit) Append(string, string, string) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRouter(t *testing.T) (http.Handler, *verify.PendingCache) {
	t.Helper()

	logger := testLogger()
	st, err := store.New(store.Config{
		PathCandidates: []string{filepath.Join(t.TempDir(), "codes.json")},
	}, logger)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}

	pending := verify.NewPendingCache()
	service := verify.NewService(verify.Config{
		Mode: verify.ModeSubmit,
		Messages: verify.Messages{
			Usage:           "usage",
			PendingReminder: "pending: %s",
			PendingHint:     "hint: %s",
			Success:         "success",
			NotFound:        "not-found",
			TooShort:        "too-short",
			TooLong:         "too-long",
			InvalidChars:    "invalid-chars",
			SaveError:       "save-error",
		},
	}, st, pending, purge.New(nil, logger), nopScheduler{}, nopHost{}, nopAudit{}, logger)

	h := NewHandler(logger, service, pending)
	r := chi.NewRouter()
	r.Post("/v1/verify", h.Submit)
	r.Post("/v1/sessions/{id}/join", h.Join)
	r.Get("/v1/sessions/{id}/pending", h.Pending)
	return r, pending
}

func TestSubmit_Accepted(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"session_id":"` + uuid.NewString() + `","player_name":"Alice","code":"482913"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "accepted" || resp.Reason != "" {
		t.Errorf("response = %+v, want accepted", resp)
	}
}

func TestSubmit_RejectedWithReason(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"session_id":"` + uuid.NewString() + `","player_name":"Alice","code":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "rejected" || resp.Reason != verify.ReasonTooShort {
		t.Errorf("response = %+v, want rejected/%s", resp, verify.ReasonTooShort)
	}
}

func TestSubmit_BadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"session_id":`},
		{"bad session id", `{"session_id":"nope","player_name":"Alice","code":"482913"}`},
		{"missing player name", `{"session_id":"` + uuid.NewString() + `","code":"482913"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestPending(t *testing.T) {
	router, pending := newTestRouter(t)
	sessionID := uuid.New()
	pending.Remember(sessionID, "482913")

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID.String()+"/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "482913" {
		t.Errorf("code = %q, want 482913", resp.Code)
	}
}

func TestPending_None(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestJoin(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+uuid.NewString()+"/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestJoin_BadID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/not-a-uuid/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
