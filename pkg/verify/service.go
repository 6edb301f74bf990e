// Package verify holds the session controller: the state machine that
// validates a submitted verification code, transitions the shared record at
// most once, and coordinates the deferred side effects (feedback, forced
// disconnect, player data purge) around that transition.
package verify

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/msga/verify-gate/pkg/domain"
	"github.com/msga/verify-gate/pkg/purge"
	"github.com/msga/verify-gate/pkg/store"
)

// Mode selects which process is the authoritative creator of records.
type Mode string

const (
	// ModeSubmit: this system creates the record on first submission and
	// the foreign peer consumes it later.
	ModeSubmit Mode = "submit"
	// ModeRedeem: the foreign peer issues records out of band and this
	// system consumes them (flips verified).
	ModeRedeem Mode = "redeem"
)

// Status is the terminal state of a submission.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusUsage    Status = "usage"
)

// Rejection reasons. The order they are produced in is a contract: format
// checks run shortest-first, and each branch carries its own user-facing
// feedback and kick reason.
const (
	ReasonTooShort        = "code-too-short"
	ReasonTooLong         = "code-too-long"
	ReasonInvalidChars    = "code-invalid-chars"
	ReasonNotFound        = "code-not-found"
	ReasonAlreadyVerified = "code-already-verified"
	ReasonSaveError       = "save-error"
)

// Result reports a submission's terminal state to the host binding.
type Result struct {
	Status Status
	Reason string // rejection reason, empty unless Status is StatusRejected
}

// Messages are the user-facing feedback templates. Templates with a %s verb
// receive the code (pending reminders, issued code) or the player name
// (broadcast).
type Messages struct {
	Usage           string
	UsageHint       string
	Success         string
	SuccessFollowUp []string
	TooShort        string
	TooLong         string
	InvalidChars    string
	NotFound        string
	AlreadyVerified string
	SaveError       string
	PendingReminder string
	PendingHint     string
	IssuedCode      string
	Broadcast       string
}

// KickReasons are the disconnect reason strings per terminal branch.
type KickReasons struct {
	Success         string
	TooShort        string
	TooLong         string
	InvalidChars    string
	NotFound        string
	AlreadyVerified string
	SaveError       string
}

// Config holds controller configuration.
type Config struct {
	Mode               Mode
	BroadcastOnSuccess bool
	PurgeOnSuccess     bool
	IssueOnJoin        bool
	Messages           Messages
	KickReasons        KickReasons
}

// Host is the surface through which the controller reaches the process that
// owns the session's connection.
type Host interface {
	SendMessage(sessionID uuid.UUID, text string)
	Disconnect(sessionID uuid.UUID, reason string)
	Broadcast(text string)
}

// Auditor appends one line per terminal verification outcome.
type Auditor interface {
	Append(status, playerName, code string)
}

// Service is the session controller.
type Service struct {
	config  Config
	store   *store.Store
	pending *PendingCache
	purger  *purge.Purger
	sched   Scheduler
	host    Host
	audit   Auditor
	logger  *slog.Logger
}

// NewService wires a controller.
func NewService(
	config Config,
	st *store.Store,
	pending *PendingCache,
	purger *purge.Purger,
	sched Scheduler,
	host Host,
	audit Auditor,
	logger *slog.Logger,
) *Service {
	return &Service{
		config:  config,
		store:   st,
		pending: pending,
		purger:  purger,
		sched:   sched,
		host:    host,
		audit:   audit,
		logger:  logger,
	}
}

// Submit runs the full state machine for one submitted code. It returns
// synchronously once the terminal state is decided; the disconnect and any
// purge are scheduled as deferred tasks.
func (s *Service) Submit(sessionID uuid.UUID, playerName, code string) Result {
	code = strings.TrimSpace(code)

	// Zero-token submission is a terminal no-op: usage guidance only, no
	// store access, no disconnect.
	if code == "" {
		s.host.SendMessage(sessionID, s.config.Messages.Usage)
		if s.config.Messages.UsageHint != "" {
			s.host.SendMessage(sessionID, s.config.Messages.UsageHint)
		}
		return Result{Status: StatusUsage}
	}

	msgs := s.config.Messages
	kicks := s.config.KickReasons

	switch err := domain.ValidateCode(code); {
	case errors.Is(err, domain.ErrCodeTooShort):
		return s.reject(sessionID, playerName, code, ReasonTooShort, msgs.TooShort, kicks.TooShort, "Code too short")
	case errors.Is(err, domain.ErrCodeTooLong):
		return s.reject(sessionID, playerName, code, ReasonTooLong, msgs.TooLong, kicks.TooLong, "Code too long")
	case errors.Is(err, domain.ErrCodeInvalidChars):
		return s.reject(sessionID, playerName, code, ReasonInvalidChars, msgs.InvalidChars, kicks.InvalidChars, "Code contains invalid characters")
	}

	var err error
	switch s.config.Mode {
	case ModeRedeem:
		_, err = s.store.Consume(code)
	default:
		_, err = s.store.Create(code, playerName)
	}

	switch {
	case err == nil:
		return s.accept(sessionID, playerName, code)
	case errors.Is(err, domain.ErrCodeNotFound), errors.Is(err, domain.ErrCodeExists):
		return s.reject(sessionID, playerName, code, ReasonNotFound, msgs.NotFound, kicks.NotFound, "Code not found")
	case errors.Is(err, domain.ErrCodeConsumed):
		return s.reject(sessionID, playerName, code, ReasonAlreadyVerified, msgs.AlreadyVerified, kicks.AlreadyVerified, "Code already verified")
	default:
		s.logger.Error("failed to persist verification", "player", playerName, "code", code, "error", err)
		s.pending.Remember(sessionID, code)
		s.host.SendMessage(sessionID, msgs.SaveError)
		s.audit.Append("ERROR - Failed to save", playerName, code)
		s.scheduleDisconnect(sessionID, playerName, kicks.SaveError)
		return Result{Status: StatusRejected, Reason: ReasonSaveError}
	}
}

// HandleJoin reminds a reconnecting session of its unresolved code, or, in
// submit mode with issuing enabled, hands a fresh code to a session that
// has none outstanding.
func (s *Service) HandleJoin(sessionID uuid.UUID) {
	if code, ok := s.pending.Recall(sessionID); ok {
		s.host.SendMessage(sessionID, fmt.Sprintf(s.config.Messages.PendingReminder, code))
		s.host.SendMessage(sessionID, fmt.Sprintf(s.config.Messages.PendingHint, code))
		return
	}

	if !s.config.IssueOnJoin || s.config.Mode != ModeSubmit {
		return
	}
	code, err := NewCode()
	if err != nil {
		s.logger.Error("failed to issue verification code", "session_id", sessionID, "error", err)
		return
	}
	s.host.SendMessage(sessionID, fmt.Sprintf(s.config.Messages.IssuedCode, code))
	s.host.SendMessage(sessionID, fmt.Sprintf(s.config.Messages.PendingHint, code))
}

func (s *Service) accept(sessionID uuid.UUID, playerName, code string) Result {
	s.pending.Forget(sessionID)

	s.host.SendMessage(sessionID, s.config.Messages.Success)
	for _, m := range s.config.Messages.SuccessFollowUp {
		s.host.SendMessage(sessionID, m)
	}

	if s.config.BroadcastOnSuccess {
		s.host.Broadcast(fmt.Sprintf(s.config.Messages.Broadcast, playerName))
	}

	s.audit.Append("SUCCESS", playerName, code)
	s.logger.Info("verification accepted", "player", playerName, "code", code, "mode", s.config.Mode)

	s.scheduleDisconnect(sessionID, playerName, s.config.KickReasons.Success)

	if s.config.PurgeOnSuccess {
		s.sched.Schedule(CleanupDelay, func() {
			removed := s.purger.Purge(sessionID)
			s.logger.Info("post-disconnect cleanup done", "player", playerName, "removed", removed)
		})
	}

	return Result{Status: StatusAccepted}
}

func (s *Service) reject(sessionID uuid.UUID, playerName, code, reason, feedback, kick, auditReason string) Result {
	s.pending.Remember(sessionID, code)
	s.host.SendMessage(sessionID, feedback)
	s.audit.Append("ERROR - "+auditReason, playerName, code)
	s.scheduleDisconnect(sessionID, playerName, kick)
	return Result{Status: StatusRejected, Reason: reason}
}

// scheduleDisconnect defers the forced disconnect one scheduling step so
// the feedback messages reach the client first.
func (s *Service) scheduleDisconnect(sessionID uuid.UUID, playerName, reason string) {
	s.sched.Schedule(DisconnectDelay, func() {
		s.host.Disconnect(sessionID, reason)
		s.logger.Info("disconnected session after verification", "player", playerName, "reason", reason)
	})
}
