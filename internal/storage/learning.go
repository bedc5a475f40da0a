package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sortd/sortd/internal/model"
)

// recentObservationWeight biases the running confidence toward the newest
// observation when a pattern is re-recorded.
const recentObservationWeight = 0.7

// GetLearnedPattern retrieves a learned pattern entry, or nil if the pattern
// has never been observed.
func (s *SQLiteStorage) GetLearnedPattern(ctx context.Context, pattern string) (*model.LearningEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return nil, err
	}

	var entry model.LearningEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT pattern, category, confidence, observation_count, last_seen
		FROM learned_patterns
		WHERE pattern = ?
	`, normalizePattern(pattern)).Scan(
		&entry.Pattern,
		&entry.Category,
		&entry.Confidence,
		&entry.Count,
		&entry.LastSeen,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learned pattern: %w", err)
	}

	return &entry, nil
}

// RecordPattern inserts a new learned pattern or updates an existing one.
// Updates increment the observation count and recompute confidence as a
// weighted average biased toward the new observation. A category change
// resets the entry to the new category with the fresh confidence.
func (s *SQLiteStorage) RecordPattern(ctx context.Context, pattern, category string, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", confidence)
	}

	normalized := normalizePattern(pattern)
	now := time.Now()

	existing, err := s.GetLearnedPattern(ctx, normalized)
	if err != nil {
		return err
	}

	if existing != nil && existing.Category == category {
		newConfidence := recentObservationWeight*confidence + (1-recentObservationWeight)*existing.Confidence
		_, err = s.db.ExecContext(ctx, `
			UPDATE learned_patterns
			SET confidence = ?, observation_count = observation_count + 1, last_seen = ?
			WHERE pattern = ?
		`, newConfidence, now, normalized)
		if err != nil {
			return fmt.Errorf("failed to update learned pattern: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learned_patterns (pattern, category, confidence, observation_count, last_seen)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(pattern) DO UPDATE SET
			category = excluded.category,
			confidence = excluded.confidence,
			observation_count = learned_patterns.observation_count + 1,
			last_seen = excluded.last_seen
	`, normalized, category, confidence, now)
	if err != nil {
		return fmt.Errorf("failed to record pattern: %w", err)
	}

	return nil
}

// GetLearningStats returns every learned pattern plus aggregate counts,
// ordered by observation count descending.
func (s *SQLiteStorage) GetLearningStats(ctx context.Context) (*model.LearningStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, category, confidence, observation_count, last_seen
		FROM learned_patterns
		ORDER BY observation_count DESC, pattern ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &model.LearningStats{}
	for rows.Next() {
		var entry model.LearningEntry
		if err := rows.Scan(
			&entry.Pattern,
			&entry.Category,
			&entry.Confidence,
			&entry.Count,
			&entry.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan learned pattern: %w", err)
		}
		stats.Entries = append(stats.Entries, entry)
		stats.TotalPatterns++
		stats.TotalObserved += entry.Count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate learned patterns: %w", err)
	}

	return stats, nil
}
