package model

import "time"

// SessionStatus tracks a session through its lifecycle. The only legal
// transitions are Planned -> Committed -> Reversed or PartiallyReversed;
// a reversed session never reopens.
type SessionStatus string

// Session status constants.
const (
	StatusPlanned           SessionStatus = "PLANNED"
	StatusCommitted         SessionStatus = "COMMITTED"
	StatusReversed          SessionStatus = "REVERSED"
	StatusPartiallyReversed SessionStatus = "PARTIALLY_REVERSED"
)

// MoveRecord is one executed file move. It is immutable once created and is
// the sole unit of reversal.
type MoveRecord struct {
	MovedAt      time.Time
	OriginalPath string
	NewPath      string
	Category     string
}

// Session is one complete organize run's set of moves, the unit of undo.
// Moves preserve execution order; undo replays them in reverse to diagnose
// conflicts caused by later moves correctly.
type Session struct {
	CreatedAt time.Time
	SourceDir string
	DestDir   string
	Status    SessionStatus
	Moves     []MoveRecord
	ID        int64
}

// CategoryCounts returns the number of moves per assigned category.
func (s *Session) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range s.Moves {
		counts[m.Category]++
	}
	return counts
}
