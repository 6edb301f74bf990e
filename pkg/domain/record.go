package domain

import (
	"time"
	"unicode/utf8"
)

// CodeLength is the fixed length of a verification code.
const CodeLength = 6

// Record is a single verification code's persisted state in the shared
// document. Code is the natural key; PlayerName is the display name at
// submission time and may repeat or go stale. CreatedAt and PlayerName never
// change after creation; Verified flips false->true at most once.
type Record struct {
	Code          string
	PlayerName    string
	CreatedAt     int64
	Verified      bool
	DiscordUserID string // written by the foreign peer, preserved but never interpreted
}

// NewRecord creates an unverified record stamped with the current time.
func NewRecord(code, playerName string) Record {
	return Record{
		Code:       code,
		PlayerName: playerName,
		CreatedAt:  time.Now().Unix(),
	}
}

// ValidateCode checks the submitted code format. The check order is a
// contract: each branch carries a distinct user-facing rejection reason.
// Length is counted in characters, so a six-character input with a
// non-digit rune falls through to the invalid-chars branch.
func ValidateCode(code string) error {
	n := utf8.RuneCountInString(code)
	if n < CodeLength {
		return ErrCodeTooShort
	}
	if n > CodeLength {
		return ErrCodeTooLong
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return ErrCodeInvalidChars
		}
	}
	return nil
}
