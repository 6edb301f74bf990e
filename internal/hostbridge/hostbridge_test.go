package hostbridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type captured struct {
	path string
	body map[string]string
}

func newCaptureServer(t *testing.T) (*httptest.Server, func() []captured) {
	t.Helper()

	var mu sync.Mutex
	var calls []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]string
		_ = json.Unmarshal(data, &body)

		mu.Lock()
		calls = append(calls, captured{path: r.URL.Path, body: body})
		mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), calls...)
	}
}

func TestBridge_PostsCallbacks(t *testing.T) {
	srv, calls := newCaptureServer(t)
	b := New(Config{BaseURL: srv.URL}, testLogger())
	sessionID := uuid.New()

	b.SendMessage(sessionID, "hello")
	b.Disconnect(sessionID, "Successful - Verified")
	b.Broadcast("Alice has submitted a verification code!")

	got := calls()
	if len(got) != 3 {
		t.Fatalf("captured %d calls, want 3: %+v", len(got), got)
	}

	if got[0].path != "/message" || got[0].body["text"] != "hello" || got[0].body["session_id"] != sessionID.String() {
		t.Errorf("message call = %+v", got[0])
	}
	if got[1].path != "/disconnect" || got[1].body["reason"] != "Successful - Verified" {
		t.Errorf("disconnect call = %+v", got[1])
	}
	if got[2].path != "/broadcast" || got[2].body["text"] != "Alice has submitted a verification code!" {
		t.Errorf("broadcast call = %+v", got[2])
	}
}

func TestBridge_NoBaseURLIsNoop(t *testing.T) {
	b := New(Config{}, testLogger())

	// Must not panic or block.
	b.SendMessage(uuid.New(), "hello")
	b.Disconnect(uuid.New(), "reason")
	b.Broadcast("text")
}

func TestBridge_UnreachableHostIsSwallowed(t *testing.T) {
	b := New(Config{BaseURL: "http://127.0.0.1:1"}, testLogger())

	// Delivery failures are logged and dropped.
	b.SendMessage(uuid.New(), "hello")
	b.Disconnect(uuid.New(), "reason")
}
