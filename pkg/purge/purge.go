// Package purge removes a player's persisted per-identity artifacts after
// a successful verification. Deletion is best effort: the purger never
// fails the caller's flow, it only reports how many artifacts it removed.
package purge

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// artifact name suffixes per root; the host keeps a rolling backup next to
// the primary file.
var artifactSuffixes = []string{".dat", ".dat_old"}

// Purger deletes player artifacts across an ordered list of candidate
// roots.
type Purger struct {
	roots  []string
	logger *slog.Logger
}

// New creates a purger over the given candidate root directories.
func New(roots []string, logger *slog.Logger) *Purger {
	return &Purger{roots: roots, logger: logger}
}

// Purge removes the artifacts named after the player's stable id from every
// configured root. Missing files are not errors; an IO failure on one
// candidate is logged and skipped. Returns the number of files removed, so
// a repeated call simply removes nothing further.
func (p *Purger) Purge(playerID uuid.UUID) int {
	removed := 0
	for _, root := range p.roots {
		if root == "" {
			continue
		}
		for _, suffix := range artifactSuffixes {
			path := filepath.Join(root, playerID.String()+suffix)
			err := os.Remove(path)
			switch {
			case err == nil:
				p.logger.Info("removed player artifact", "path", path)
				removed++
			case os.IsNotExist(err):
				// nothing to do
			default:
				p.logger.Warn("failed to remove player artifact", "path", path, "error", err)
			}
		}
	}
	return removed
}
