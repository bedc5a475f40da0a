// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Session log errors.
	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadyReversed  = errors.New("session already reversed")
	ErrSessionCorrupted = errors.New("session record corrupted")

	// Classification errors.
	ErrAIUnavailable        = errors.New("ai classifier unavailable")
	ErrInvalidAIResponse    = errors.New("ai returned an unknown category")
	ErrClassificationFailed = errors.New("classification failed")

	// Organize errors.
	ErrDestinationUnwritable = errors.New("destination root is not writable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
