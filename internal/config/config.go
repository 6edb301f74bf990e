package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/msga/verify-gate/pkg/verify"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Verification flow
	Mode               verify.Mode
	BroadcastOnSuccess bool
	PurgeOnSuccess     bool
	IssueOnJoin        bool

	// Shared codes document: ordered path candidates, first existing wins.
	CodesPathCandidates []string

	// Purge: ordered candidate roots holding per-player artifacts.
	PurgeRoots []string

	// Audit
	AuditLogPath string

	// Host callback base URL for outbound message/disconnect/broadcast
	// webhooks. Empty disables the bridge (no-op host).
	HostCallbackURL string
	HostTimeout     time.Duration

	// HTTP surface
	RateLimitEnabled   bool
	VerifyRequests     int
	VerifyWindow       time.Duration
	MaxRequestBodySize int64

	// User-facing templates
	Messages    verify.Messages
	KickReasons verify.KickReasons
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	mode := verify.Mode(getEnv("MODE", string(verify.ModeSubmit)))
	if mode != verify.ModeSubmit && mode != verify.ModeRedeem {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", verify.ModeSubmit, verify.ModeRedeem, mode)
	}

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		Mode:               mode,
		BroadcastOnSuccess: getEnvBool("BROADCAST_VERIFICATIONS", false),
		PurgeOnSuccess:     getEnvBool("PURGE_ON_SUCCESS", false),
		IssueOnJoin:        getEnvBool("ISSUE_ON_JOIN", false),

		// Same search order the deployment has always used: server root,
		// its parent, then the bot's plugin folders.
		CodesPathCandidates: getEnvList("SHARED_CODES_PATHS", []string{
			"verification_codes.json",
			"../verification_codes.json",
			"plugins/DiscordBot/verification_codes.json",
			"plugins/verification_codes.json",
		}),

		PurgeRoots: getEnvList("PURGE_ROOTS", []string{"world/playerdata"}),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "verification_log.txt"),

		HostCallbackURL: getEnv("HOST_CALLBACK_URL", ""),
		HostTimeout:     getEnvDuration("HOST_TIMEOUT", 5*time.Second),

		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		VerifyRequests:     getEnvInt("VERIFY_REQUESTS_PER_WINDOW", 10),
		VerifyWindow:       getEnvDuration("VERIFY_WINDOW", time.Minute),
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 4096)),

		Messages:    loadMessages(),
		KickReasons: loadKickReasons(),
	}

	if len(cfg.CodesPathCandidates) == 0 {
		return nil, fmt.Errorf("SHARED_CODES_PATHS must not be empty")
	}

	return cfg, nil
}

// loadMessages returns the feedback templates; defaults keep the
// deployment's long-standing wording.
func loadMessages() verify.Messages {
	return verify.Messages{
		Usage:     getEnv("MSG_USAGE", "Usage: /verify <6-digit-code>"),
		UsageHint: getEnv("MSG_USAGE_HINT", "Get your code from the Discord bot using /verify command"),
		Success:   getEnv("MSG_SUCCESS", "Verification code sent! Check Discord for confirmation."),
		SuccessFollowUp: []string{
			getEnv("MSG_SUCCESS_NEXT_1", "The Discord bot will now verify your guild membership..."),
			getEnv("MSG_SUCCESS_NEXT_2", "Check Discord for confirmation!"),
		},
		TooShort:        getEnv("MSG_CODE_TOO_SHORT", "Code too short! Must be 6 digits."),
		TooLong:         getEnv("MSG_CODE_TOO_LONG", "Code too long! Must be 6 digits."),
		InvalidChars:    getEnv("MSG_CODE_INVALID_CHARS", "Code must contain only numbers!"),
		NotFound:        getEnv("MSG_CODE_NOT_FOUND", "Invalid code! Code must be 6 digits."),
		AlreadyVerified: getEnv("MSG_CODE_ALREADY_VERIFIED", "This code has already been verified."),
		SaveError:       getEnv("MSG_SAVE_ERROR", "Error saving verification code! Please contact an admin."),
		PendingReminder: getEnv("MSG_PENDING_REMINDER", "You have a pending verification with code: %s"),
		PendingHint:     getEnv("MSG_PENDING_HINT", "Type /verify %s to complete verification."),
		IssuedCode:      getEnv("MSG_ISSUED_CODE", "Your verification code is: %s"),
		Broadcast:       getEnv("MSG_BROADCAST", "%s has submitted a verification code!"),
	}
}

func loadKickReasons() verify.KickReasons {
	return verify.KickReasons{
		Success:         getEnv("KICK_SUCCESS", "Successful - Verified"),
		TooShort:        getEnv("KICK_CODE_TOO_SHORT", "Unsuccessful - Code too short"),
		TooLong:         getEnv("KICK_CODE_TOO_LONG", "Unsuccessful - Code too long"),
		InvalidChars:    getEnv("KICK_CODE_INVALID_CHARS", "Unsuccessful - Code contains invalid characters"),
		NotFound:        getEnv("KICK_CODE_NOT_FOUND", "Unsuccessful - Invalid verification code"),
		AlreadyVerified: getEnv("KICK_CODE_ALREADY_VERIFIED", "Unsuccessful - Code already verified"),
		SaveError:       getEnv("KICK_SAVE_ERROR", "Unsuccessful - System error, please contact admin"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
