// Package audit writes the append-only verification audit log. The line
// format is consumed by existing operational tooling and must not change:
//
//	[YYYY-MM-DD HH:MM:SS] STATUS: Player=<name>, Code=<code>
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Logger appends one line per terminal verification outcome to a log file
// and mirrors it to the process log. Append failures never reach callers.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New creates an audit logger writing to path.
func New(path string, logger *slog.Logger) *Logger {
	return &Logger{path: path, logger: logger}
}

// Append records one outcome. status is "SUCCESS" or "ERROR - <reason>".
func (l *Logger) Append(status, playerName, code string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: Player=%s, Code=%s\n", ts, status, playerName, code)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("failed to open audit log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		l.logger.Warn("failed to write audit log", "path", l.path, "error", err)
	}

	l.logger.Info("verification attempt", "player", playerName, "code", code, "status", status)
}
