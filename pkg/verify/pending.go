package verify

import (
	"sync"

	"github.com/google/uuid"
)

// PendingCache remembers each session's last unresolved submitted code so a
// reconnecting session can be reminded of it. Purely in-memory; entries die
// with the process and are forgotten the moment a code is consumed.
type PendingCache struct {
	mu    sync.Mutex
	codes map[uuid.UUID]string
}

// NewPendingCache creates an empty cache.
func NewPendingCache() *PendingCache {
	return &PendingCache{codes: make(map[uuid.UUID]string)}
}

// Remember records the session's outstanding code.
func (p *PendingCache) Remember(sessionID uuid.UUID, code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[sessionID] = code
}

// Recall returns the session's outstanding code, if any.
func (p *PendingCache) Recall(sessionID uuid.UUID) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	code, ok := p.codes[sessionID]
	return code, ok
}

// Forget drops the session's outstanding code.
func (p *PendingCache) Forget(sessionID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.codes, sessionID)
}
