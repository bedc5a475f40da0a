package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/rules"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSession validates a session before commit. Each source file may be
// moved at most once per session, so duplicate original paths are rejected.
func validateSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if err := validateString(session.SourceDir, "session.SourceDir"); err != nil {
		return err
	}
	if err := validateString(session.DestDir, "session.DestDir"); err != nil {
		return err
	}

	seen := make(map[string]bool, len(session.Moves))
	for i, move := range session.Moves {
		if move.OriginalPath == "" || move.NewPath == "" {
			return fmt.Errorf("%w: move %d has empty path", ErrInvalidSession, i)
		}
		if !rules.IsCategory(move.Category) {
			return fmt.Errorf("%w: move %d has unknown category %q", ErrInvalidSession, i, move.Category)
		}
		if seen[move.OriginalPath] {
			return fmt.Errorf("%w: duplicate original path %s", ErrInvalidSession, move.OriginalPath)
		}
		seen[move.OriginalPath] = true
	}

	return nil
}

// normalizePattern lower-cases and trims a learning pattern key. Patterns are
// case-insensitive by contract.
func normalizePattern(pattern string) string {
	return strings.ToLower(strings.TrimSpace(pattern))
}
