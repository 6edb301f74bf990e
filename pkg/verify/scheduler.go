package verify

import (
	"sync"
	"time"
)

// Deferred action delays. The disconnect trails the feedback message by one
// step so the client can render it, and the purge trails the disconnect by
// one more so the host no longer considers the session connected. Fixed and
// short, mirroring the host's scheduling tick.
const (
	DisconnectDelay = 250 * time.Millisecond
	CleanupDelay    = 500 * time.Millisecond
)

// Scheduler posts a task to run after a minimum delay. Tasks scheduled on
// the same Scheduler must never run concurrently with each other.
type Scheduler interface {
	Schedule(delay time.Duration, task func())
}

// SerialScheduler runs deferred tasks on timers, serialized behind one
// mutex so two deferred tasks never overlap.
type SerialScheduler struct {
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewSerialScheduler creates a ready scheduler.
func NewSerialScheduler() *SerialScheduler {
	return &SerialScheduler{}
}

// Schedule runs task after at least delay.
func (s *SerialScheduler) Schedule(delay time.Duration, task func()) {
	s.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		task()
	})
}

// Wait blocks until every scheduled task has finished. Used on shutdown.
func (s *SerialScheduler) Wait() {
	s.wg.Wait()
}
