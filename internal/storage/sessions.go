package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/model"
)

// CommitSession persists a planned session and its move records as a single
// SQL transaction and transitions it to Committed. The session is assigned
// its durable ID here; a crash mid-commit leaves no partial record behind.
func (s *SQLiteStorage) CommitSession(ctx context.Context, session *model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}
	if session.Status != model.StatusPlanned {
		return fmt.Errorf("cannot commit session in status %s", session.Status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (created_at, source_dir, dest_dir, status)
		VALUES (?, ?, ?, ?)
	`, session.CreatedAt, session.SourceDir, session.DestDir, model.StatusCommitted)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get session id: %w", err)
	}

	for seq, move := range session.Moves {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO move_records (session_id, seq, original_path, new_path, category, moved_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, seq, move.OriginalPath, move.NewPath, move.Category, move.MovedAt)
		if err != nil {
			return fmt.Errorf("failed to insert move record %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	session.ID = id
	session.Status = model.StatusCommitted

	return nil
}

// GetSession retrieves a session with its move records in execution order.
func (s *SQLiteStorage) GetSession(ctx context.Context, id int64) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var session model.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source_dir, dest_dir, status
		FROM sessions
		WHERE id = ?
	`, id).Scan(
		&session.ID,
		&session.CreatedAt,
		&session.SourceDir,
		&session.DestDir,
		&session.Status,
	)

	if err == sql.ErrNoRows {
		return nil, common.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	moves, err := s.getMoveRecordsTx(ctx, s.db, session.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSessionCorrupted, err)
	}
	session.Moves = moves

	return &session, nil
}

// ListSessions returns all sessions, most recent first, with their move
// records loaded.
func (s *SQLiteStorage) ListSessions(ctx context.Context) ([]model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source_dir, dest_dir, status
		FROM sessions
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(
			&session.ID,
			&session.CreatedAt,
			&session.SourceDir,
			&session.DestDir,
			&session.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for i := range sessions {
		moves, err := s.getMoveRecordsTx(ctx, s.db, sessions[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrSessionCorrupted, err)
		}
		sessions[i].Moves = moves
	}

	return sessions, nil
}

// UpdateSessionStatus transitions a committed session to Reversed or
// PartiallyReversed. Move records are never mutated; the status transition
// is the only write, which preserves the full audit history.
func (s *SQLiteStorage) UpdateSessionStatus(ctx context.Context, id int64, status model.SessionStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if status != model.StatusReversed && status != model.StatusPartiallyReversed {
		return fmt.Errorf("illegal session status transition to %s", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET status = ?
		WHERE id = ? AND status IN (?, ?)
	`, status, id, model.StatusCommitted, model.StatusPartiallyReversed)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrSessionNotFound
	}

	return nil
}

func (s *SQLiteStorage) getMoveRecordsTx(ctx context.Context, q queryable, sessionID int64) ([]model.MoveRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT original_path, new_path, category, moved_at
		FROM move_records
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query move records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var moves []model.MoveRecord
	for rows.Next() {
		var move model.MoveRecord
		if err := rows.Scan(
			&move.OriginalPath,
			&move.NewPath,
			&move.Category,
			&move.MovedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan move record: %w", err)
		}
		moves = append(moves, move)
	}

	return moves, rows.Err()
}
