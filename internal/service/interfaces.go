// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/sortd/sortd/internal/model"
)

// Storage defines the contract for our persistence layer: the append-only
// session log and the learned-pattern store.
type Storage interface {
	// Session log operations
	CommitSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id int64) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
	UpdateSessionStatus(ctx context.Context, id int64, status model.SessionStatus) error

	// Learned pattern operations
	GetLearnedPattern(ctx context.Context, pattern string) (*model.LearningEntry, error)
	RecordPattern(ctx context.Context, pattern, category string, confidence float64) error
	GetLearningStats(ctx context.Context) (*model.LearningStats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// AIClassifier is the optional AI capability the engine consults as a last
// resort. Every call is request/response with a caller-imposed timeout, and
// every error is recoverable by falling through to the next cascade step.
type AIClassifier interface {
	ClassifyByVision(ctx context.Context, image []byte) (string, error)
	ClassifyByContent(ctx context.Context, filename, content string) (string, error)
	ClassifyByFilename(ctx context.Context, filename string) (string, error)
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
