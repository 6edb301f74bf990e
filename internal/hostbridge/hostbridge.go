// Package hostbridge carries the controller's outbound side effects to the
// process that owns the sessions, as JSON webhooks against a configured
// callback base URL. All calls are best effort: a failed delivery is logged
// and dropped, never surfaced to the verification flow.
package hostbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config holds bridge configuration.
type Config struct {
	// BaseURL is the host's callback endpoint prefix. Empty means no host
	// is attached and every call becomes a logged no-op.
	BaseURL string
	Timeout time.Duration
}

// Bridge implements verify.Host over HTTP callbacks.
type Bridge struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a bridge.
func New(config Config, logger *slog.Logger) *Bridge {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Bridge{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

type messagePayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type disconnectPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

type broadcastPayload struct {
	Text string `json:"text"`
}

// SendMessage delivers a chat line to one session.
func (b *Bridge) SendMessage(sessionID uuid.UUID, text string) {
	b.post("message", messagePayload{SessionID: sessionID.String(), Text: text})
}

// Disconnect instructs the host to drop the session's connection.
func (b *Bridge) Disconnect(sessionID uuid.UUID, reason string) {
	b.post("disconnect", disconnectPayload{SessionID: sessionID.String(), Reason: reason})
}

// Broadcast delivers a chat line to every connected session.
func (b *Bridge) Broadcast(text string) {
	b.post("broadcast", broadcastPayload{Text: text})
}

func (b *Bridge) post(action string, payload any) {
	if b.config.BaseURL == "" {
		b.logger.Debug("no host callback configured, dropping action", "action", action)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Warn("failed to encode host callback", "action", action, "error", err)
		return
	}

	url := fmt.Sprintf("%s/%s", b.config.BaseURL, action)
	resp, err := b.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		b.logger.Warn("host callback failed", "action", action, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b.logger.Warn("host callback rejected", "action", action, "status", resp.StatusCode)
	}
}
