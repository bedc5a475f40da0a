package model

import "time"

// LearningEntry is a persisted filename pattern with a confirmed category.
// Entries are keyed by normalized pattern and updated in place on repeated
// observations: the count only grows, and confidence is a running measure
// biased toward recent observations.
type LearningEntry struct {
	LastSeen   time.Time
	Pattern    string
	Category   string
	Confidence float64
	Count      int
}

// LearningStats summarizes the learned-pattern store for external surfaces.
type LearningStats struct {
	Entries       []LearningEntry
	TotalPatterns int
	TotalObserved int
}
