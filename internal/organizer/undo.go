package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/model"
)

// Undo reverses every move in a session, in reverse execution order, and
// transitions the session to Reversed or PartiallyReversed. Each record
// either reverses cleanly or is reported as a failure; one bad record never
// aborts the rest. Undoing an already-reversed session fails with
// ErrAlreadyReversed instead of re-attempting moves.
func (o *Orchestrator) Undo(ctx context.Context, sessionID int64) (*model.UndoReport, error) {
	session, err := o.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == model.StatusReversed {
		return nil, fmt.Errorf("%w: session %d", common.ErrAlreadyReversed, sessionID)
	}
	if session.Status == model.StatusPlanned {
		return nil, fmt.Errorf("session %d was never committed", sessionID)
	}

	slog.Info("Undoing session",
		"session_id", sessionID,
		"moves", len(session.Moves))

	report := &model.UndoReport{
		SessionID: sessionID,
	}

	// Reverse execution order: later moves in the same session can be the
	// cause of collisions at earlier originals, so they are unwound first.
	for i := len(session.Moves) - 1; i >= 0; i-- {
		record := session.Moves[i]
		result := o.reverseMove(record)
		if result.OK {
			report.Restored++
		} else {
			report.Failed++
			slog.Warn("Failed to reverse move",
				"original", record.OriginalPath,
				"destination", record.NewPath,
				"reason", result.Reason)
		}
		report.Results = append(report.Results, result)
	}

	status := model.StatusReversed
	if report.Failed > 0 {
		status = model.StatusPartiallyReversed
	}
	report.Status = status

	if err := o.storage.UpdateSessionStatus(ctx, sessionID, status); err != nil {
		return report, fmt.Errorf("failed to update session status: %w", err)
	}

	slog.Info("Undo complete",
		"session_id", sessionID,
		"restored", report.Restored,
		"failed", report.Failed,
		"status", status)

	return report, nil
}

// reverseMove attempts to move one file back from its destination to its
// original path. The two conflict cases are reported, not fatal: the file is
// gone from the destination, or a different file now occupies the original.
func (o *Orchestrator) reverseMove(record model.MoveRecord) model.UndoResult {
	result := model.UndoResult{Record: record}

	if _, err := os.Stat(record.NewPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Reason = "file no longer exists at destination"
		} else {
			result.Reason = fmt.Sprintf("stat destination: %v", err)
		}
		return result
	}

	if pathExists(record.OriginalPath) {
		result.Reason = "another file now occupies the original path"
		return result
	}

	// The source directory itself may have been removed after the run.
	if err := os.MkdirAll(filepath.Dir(record.OriginalPath), 0750); err != nil {
		result.Reason = fmt.Sprintf("restore original directory: %v", err)
		return result
	}

	if err := moveFile(record.NewPath, record.OriginalPath); err != nil {
		result.Reason = fmt.Sprintf("move back: %v", err)
		return result
	}

	result.OK = true
	return result
}
