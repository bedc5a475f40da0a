// Package organizer implements the orchestrator that scans a directory,
// classifies each file, executes (or simulates) the moves, and records the
// run as a session for later undo.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/engine"
	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/service"
)

// Orchestrator wires the classification engine to the filesystem and the
// session log. It is the only entry point the UI layers call into.
type Orchestrator struct {
	storage service.Storage
	engine  *engine.ClassificationEngine
}

// RunOptions configures a single organize run.
type RunOptions struct {
	SourceDir string
	DestDir   string
	DryRun    bool
	AIEnabled bool
	// OnFile, when set, is called after each file is processed. Used by the
	// CLI for progress display.
	OnFile func(entry model.FileEntry)
}

// New creates a new orchestrator.
func New(storage service.Storage, eng *engine.ClassificationEngine) *Orchestrator {
	return &Orchestrator{
		storage: storage,
		engine:  eng,
	}
}

// Run scans the source directory, classifies every regular file, and moves
// each into a category folder under the destination. In dry-run mode the
// full plan is produced with zero filesystem side effects and no session.
// Per-file failures are reported and skipped; only an unusable destination
// root aborts the run before any moves are attempted.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*model.OrganizeReport, error) {
	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("invalid source directory: %w", err)
	}
	destDir, err := filepath.Abs(opts.DestDir)
	if err != nil {
		return nil, fmt.Errorf("invalid destination directory: %w", err)
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", sourceDir)
	}

	// The destination root must be usable before anything moves. Failure
	// here aborts with zero side effects.
	if !opts.DryRun {
		if err := os.MkdirAll(destDir, 0750); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDestinationUnwritable, err)
		}
	}

	entries, skipped := o.scan(sourceDir)

	slog.Info("Starting organize run",
		"source", sourceDir,
		"dest", destDir,
		"files", len(entries),
		"dry_run", opts.DryRun,
		"ai_enabled", opts.AIEnabled)

	report := &model.OrganizeReport{
		CategoryCounts: make(map[string]int),
		Skipped:        skipped,
		DryRun:         opts.DryRun,
	}

	session := &model.Session{
		CreatedAt: time.Now(),
		SourceDir: sourceDir,
		DestDir:   destDir,
		Status:    model.StatusPlanned,
	}

	var canceled bool
	for _, entry := range entries {
		// A run may be aborted between files; whatever moved so far is
		// still committed as a smaller valid session below.
		select {
		case <-ctx.Done():
			canceled = true
		default:
		}
		if canceled {
			break
		}

		result := o.engine.Classify(ctx, entry, opts.AIEnabled)
		destination := o.resolveDestination(destDir, result.Category, entry.Name)

		if opts.DryRun {
			report.Planned = append(report.Planned, model.PlannedMove{
				Entry:       entry,
				Destination: destination,
				Result:      result,
			})
			report.CategoryCounts[result.Category]++
			if opts.OnFile != nil {
				opts.OnFile(entry)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destination), 0750); err != nil {
			slog.Error("Failed to create category folder",
				"file", entry.Name,
				"category", result.Category,
				"error", err)
			report.Skipped = append(report.Skipped, model.SkippedFile{
				Path:   entry.Path,
				Reason: fmt.Sprintf("create category folder: %v", err),
			})
			continue
		}

		if err := moveFile(entry.Path, destination); err != nil {
			slog.Error("Failed to move file",
				"file", entry.Name,
				"destination", destination,
				"error", err)
			report.Skipped = append(report.Skipped, model.SkippedFile{
				Path:   entry.Path,
				Reason: fmt.Sprintf("move: %v", err),
			})
			continue
		}

		// No move is ever executed without being recorded.
		session.Moves = append(session.Moves, model.MoveRecord{
			OriginalPath: entry.Path,
			NewPath:      destination,
			Category:     result.Category,
			MovedAt:      time.Now(),
		})
		report.Planned = append(report.Planned, model.PlannedMove{
			Entry:       entry,
			Destination: destination,
			Result:      result,
		})
		report.CategoryCounts[result.Category]++
		report.Moved++

		if opts.OnFile != nil {
			opts.OnFile(entry)
		}
	}

	if !opts.DryRun && len(session.Moves) > 0 {
		// The commit must survive the cancellation that ended the loop:
		// moves already on disk have to be recorded, or undo loses them.
		commitCtx := ctx
		if canceled {
			commitCtx = context.WithoutCancel(ctx)
		}

		if err := o.storage.CommitSession(commitCtx, session); err != nil {
			// Moves already happened on disk; surface the commit failure
			// loudly since undo depends on the record.
			return report, fmt.Errorf("failed to commit session: %w", err)
		}
		report.SessionID = session.ID

		// A committed, non-undone run confirms its keyword- and AI-derived
		// classifications; future runs prefer the learned path.
		for _, planned := range report.Planned {
			o.engine.Confirm(commitCtx, planned.Entry, planned.Result)
		}
	}

	slog.Info("Organize run complete",
		"moved", report.Moved,
		"skipped", len(report.Skipped),
		"session_id", report.SessionID,
		"dry_run", opts.DryRun)

	if canceled {
		return report, ctx.Err()
	}
	return report, nil
}

// ListSessions returns all recorded sessions, most recent first.
func (o *Orchestrator) ListSessions(ctx context.Context) ([]model.Session, error) {
	return o.storage.ListSessions(ctx)
}

// LearningStats exposes the learned-pattern store to external surfaces.
func (o *Orchestrator) LearningStats(ctx context.Context) (*model.LearningStats, error) {
	return o.storage.GetLearningStats(ctx)
}

// scan lists the source directory non-recursively, producing a FileEntry for
// every regular file. Subdirectories are never descended into, which also
// keeps already-organized category folders out of the scan. Per-file stat
// failures are reported and skipped.
func (o *Orchestrator) scan(sourceDir string) ([]model.FileEntry, []model.SkippedFile) {
	dirEntries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, []model.SkippedFile{{Path: sourceDir, Reason: err.Error()}}
	}

	var entries []model.FileEntry
	var skipped []model.SkippedFile

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if !de.Type().IsRegular() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Vanished or unreadable mid-scan.
			skipped = append(skipped, model.SkippedFile{
				Path:   filepath.Join(sourceDir, de.Name()),
				Reason: fmt.Sprintf("stat: %v", err),
			})
			continue
		}

		name := de.Name()
		entries = append(entries, model.FileEntry{
			Path:       filepath.Join(sourceDir, name),
			Name:       name,
			Extension:  strings.ToLower(filepath.Ext(name)),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	return entries, skipped
}

// resolveDestination computes destDir/<category>/<name>, appending a numeric
// disambiguator before the extension until the path is free. An existing
// file is never overwritten.
func (o *Orchestrator) resolveDestination(destDir, category, name string) string {
	destination := filepath.Join(destDir, category, name)
	if !pathExists(destination) {
		return destination
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(destDir, category, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
