package domain

import "errors"

// Validation errors
var (
	ErrCodeTooShort     = errors.New("code too short")
	ErrCodeTooLong      = errors.New("code too long")
	ErrCodeInvalidChars = errors.New("code contains non-digit characters")
)

// Store errors
var (
	ErrCodeExists   = errors.New("verification code already exists")
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeConsumed = errors.New("verification code already verified")
)
