// Package store owns the shared verification codes document. The document
// is also rewritten by an independent foreign peer process, with no
// cross-process lock: each mutation here reads the whole document, applies
// one change, and atomically rewrites it. A concurrent peer rewrite can be
// lost (last writer wins over the whole document); that is an accepted
// property of the shared-file design. What the store does guarantee is that
// its own callers never interleave (one mutex) and that no reader ever sees
// a half-written file (temp-file-plus-rename).
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/msga/verify-gate/internal/fsx"
	"github.com/msga/verify-gate/pkg/codec"
	"github.com/msga/verify-gate/pkg/domain"
)

// Config holds store configuration.
type Config struct {
	// PathCandidates is the ordered list of locations to look for the shared
	// document. The first existing file wins; if none exists the first
	// candidate becomes the creation target.
	PathCandidates []string
}

// Store is the file-backed collection of verification records.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New resolves the document path from the configured candidates and returns
// a ready store. The file itself is created lazily on first write.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if len(cfg.PathCandidates) == 0 {
		return nil, errors.New("store: no path candidates configured")
	}

	path, found := fsx.FirstExisting(cfg.PathCandidates)
	if !found {
		path = cfg.PathCandidates[0]
		logger.Warn("shared codes file not found, will create on first write", "path", path)
	} else {
		logger.Info("using shared codes file", "path", path)
	}

	return &Store{path: path, logger: logger}, nil
}

// Path returns the resolved document path.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new unverified record for code, stamped with the current
// time. Returns domain.ErrCodeExists if the code is already present; the
// existing record is left untouched.
func (s *Store) Create(code, playerName string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load()
	if _, ok := c[code]; ok {
		return domain.Record{}, domain.ErrCodeExists
	}

	rec := domain.NewRecord(code, playerName)
	c[code] = rec
	if err := s.save(c); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// Lookup returns the record for code, or domain.ErrCodeNotFound.
func (s *Store) Lookup(code string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[code]
	if !ok {
		return domain.Record{}, domain.ErrCodeNotFound
	}
	return rec, nil
}

// Consume flips the record's verified flag false->true and persists. It is
// the at-most-once transition: domain.ErrCodeNotFound if no record exists,
// domain.ErrCodeConsumed if it was already verified. No other field of the
// record changes.
func (s *Store) Consume(code string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load()
	rec, ok := c[code]
	if !ok {
		return domain.Record{}, domain.ErrCodeNotFound
	}
	if rec.Verified {
		return domain.Record{}, domain.ErrCodeConsumed
	}

	rec.Verified = true
	c[code] = rec
	if err := s.save(c); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// List returns a snapshot of every record in the document.
func (s *Store) List() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load()
	out := make([]domain.Record, 0, len(c))
	for _, rec := range c {
		out = append(out, rec)
	}
	return out
}

// load reads and decodes the document. A missing or corrupt document is
// recovered as an empty collection with a warning; corruption never escapes
// the store boundary. Caller must hold s.mu.
func (s *Store) load() codec.Collection {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read shared codes file, starting empty", "path", s.path, "error", err)
		}
		return codec.Collection{}
	}

	c, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("shared codes file is corrupt, starting empty", "path", s.path, "error", err)
		return codec.Collection{}
	}
	return c
}

// save encodes and atomically rewrites the whole document. Caller must hold
// s.mu.
func (s *Store) save(c codec.Collection) error {
	data, err := codec.Encode(c)
	if err != nil {
		return fmt.Errorf("store: encode codes: %w", err)
	}
	if err := fsx.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write codes file: %w", err)
	}
	return nil
}
