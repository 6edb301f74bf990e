package verify

import (
	"sync"
	"testing"
	"time"
)

func TestSerialScheduler_RunsTasks(t *testing.T) {
	s := NewSerialScheduler()

	var mu sync.Mutex
	var order []string

	s.Schedule(time.Millisecond, func() {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "first")
	})
	s.Schedule(20*time.Millisecond, func() {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "second")
	})

	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestSerialScheduler_TasksNeverOverlap(t *testing.T) {
	s := NewSerialScheduler()

	var running int
	var maxRunning int
	var mu sync.Mutex

	task := func() {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
	}

	// Same delay, so the timers all fire together; the scheduler must still
	// serialize them.
	for i := 0; i < 5; i++ {
		s.Schedule(time.Millisecond, task)
	}
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	if maxRunning != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", maxRunning)
	}
}

func TestDelays_DisconnectBeforeCleanup(t *testing.T) {
	if DisconnectDelay >= CleanupDelay {
		t.Errorf("DisconnectDelay %v must precede CleanupDelay %v", DisconnectDelay, CleanupDelay)
	}
}
