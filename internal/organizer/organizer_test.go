package organizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/engine"
	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/storage"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.New(store, nil)
	return New(store, eng), store
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0600))
	return path
}

func TestRunOrganizesIntoCategoryFolders(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")
	writeFile(t, dir, "vacation.jpg")
	writeFile(t, dir, "mystery.xyz")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Moved)
	assert.Equal(t, 1, report.CategoryCounts["Documents"])
	assert.Equal(t, 1, report.CategoryCounts["Images"])
	assert.Equal(t, 1, report.CategoryCounts["Other"])
	assert.NotZero(t, report.SessionID)

	assert.FileExists(t, filepath.Join(dir, "Documents", "invoice.pdf"))
	assert.FileExists(t, filepath.Join(dir, "Images", "vacation.jpg"))
	assert.FileExists(t, filepath.Join(dir, "Other", "mystery.xyz"))
	assert.NoFileExists(t, filepath.Join(dir, "invoice.pdf"))
}

func TestRunDryRunHasZeroSideEffects(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
		DryRun:    true,
	})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Zero(t, report.Moved)
	assert.Len(t, report.Planned, 1)
	assert.Equal(t, "Documents", report.Planned[0].Result.Category)
	assert.Zero(t, report.SessionID)

	// Source untouched, no category folder created, no session recorded.
	assert.FileExists(t, filepath.Join(dir, "invoice.pdf"))
	assert.NoDirExists(t, filepath.Join(dir, "Documents"))

	sessions, err := orch.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRunCollisionAppendsDisambiguator(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	// A file already sits at the destination from a previous run.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Documents"), 0750))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "Documents", "report.pdf"), []byte("existing"), 0600))

	writeFile(t, dir, "report.pdf")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Moved)

	// Both files survive with distinct names.
	assert.FileExists(t, filepath.Join(dir, "Documents", "report.pdf"))
	assert.FileExists(t, filepath.Join(dir, "Documents", "report (1).pdf"))

	existing, err := os.ReadFile(filepath.Join(dir, "Documents", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(existing))
}

func TestRunSkipsSubdirectories(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Documents"), 0750))
	nested := writeFile(t, filepath.Join(dir, "Documents"), "already-sorted.pdf")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0750))

	writeFile(t, dir, "top-level.pdf")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	// Only the top-level file moved; organized output and other
	// subdirectories were not descended into.
	assert.Equal(t, 1, report.Moved)
	assert.FileExists(t, nested)
	assert.DirExists(t, filepath.Join(dir, "projects"))
}

func TestRunCanceledMidRunCommitsPartialSession(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, "c.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := orch.Run(ctx, RunOptions{
		SourceDir: dir,
		DestDir:   dir,
		// Abort after the first file, as an interrupt between files would.
		OnFile: func(model.FileEntry) { cancel() },
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)

	// Exactly the moves that happened are in the session, no more.
	assert.Equal(t, 1, report.Moved)
	require.NotZero(t, report.SessionID)

	session, err := store.GetSession(context.Background(), report.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCommitted, session.Status)
	require.Len(t, session.Moves, 1)

	assert.FileExists(t, session.Moves[0].NewPath)
	assert.FileExists(t, filepath.Join(dir, "b.pdf"))
	assert.FileExists(t, filepath.Join(dir, "c.pdf"))
}

func TestUndoRoundTrip(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")
	writeFile(t, dir, "vacation.jpg")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Moved)

	undoReport, err := orch.Undo(context.Background(), report.SessionID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusReversed, undoReport.Status)
	assert.Equal(t, 2, undoReport.Restored)
	assert.Zero(t, undoReport.Failed)

	// Every file is back at its original path.
	assert.FileExists(t, filepath.Join(dir, "invoice.pdf"))
	assert.FileExists(t, filepath.Join(dir, "vacation.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "Documents", "invoice.pdf"))

	// Undo is idempotent at the session level.
	_, err = orch.Undo(context.Background(), report.SessionID)
	assert.ErrorIs(t, err, common.ErrAlreadyReversed)
}

func TestUndoUnknownSession(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Undo(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestUndoPartialWhenDestinationVanished(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")
	writeFile(t, dir, "vacation.jpg")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	// Someone deletes one moved file before undo runs.
	require.NoError(t, os.Remove(filepath.Join(dir, "Images", "vacation.jpg")))

	undoReport, err := orch.Undo(context.Background(), report.SessionID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPartiallyReversed, undoReport.Status)
	assert.Equal(t, 1, undoReport.Restored)
	assert.Equal(t, 1, undoReport.Failed)

	var failed []model.UndoResult
	for _, result := range undoReport.Results {
		if !result.OK {
			failed = append(failed, result)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(dir, "Images", "vacation.jpg"), failed[0].Record.NewPath)
	assert.Equal(t, "file no longer exists at destination", failed[0].Reason)

	// The untouched record still restored.
	assert.FileExists(t, filepath.Join(dir, "invoice.pdf"))
}

func TestUndoConflictWhenOriginalOccupied(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	// A different file takes the original path before undo.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.pdf"), []byte("new file"), 0600))

	undoReport, err := orch.Undo(context.Background(), report.SessionID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPartiallyReversed, undoReport.Status)
	assert.Equal(t, 1, undoReport.Failed)

	// The occupying file was not overwritten and the moved file stayed put.
	occupying, err := os.ReadFile(filepath.Join(dir, "invoice.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new file", string(occupying))
	assert.FileExists(t, filepath.Join(dir, "Documents", "invoice.pdf"))
}

func TestRunConfirmsKeywordClassifications(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "meeting_recording.xyz")

	_, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	// "recording" is a keyword rule; a committed run confirms it into the
	// learned store.
	learned, err := store.GetLearnedPattern(context.Background(), "meeting")
	require.NoError(t, err)
	require.NotNil(t, learned)
	assert.Equal(t, "Videos", learned.Category)
}

func TestRunSessionRecordsPreserveExecutionOrder(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, "c.pdf")

	report, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   dir,
	})
	require.NoError(t, err)

	session, err := store.GetSession(context.Background(), report.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Moves, 3)

	for i, planned := range report.Planned {
		assert.Equal(t, planned.Entry.Path, session.Moves[i].OriginalPath)
	}
}

func TestRunUnwritableDestinationAborts(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	dir := t.TempDir()

	writeFile(t, dir, "invoice.pdf")

	// A regular file where the destination root should be makes the root
	// uncreatable.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0600))

	_, err := orch.Run(context.Background(), RunOptions{
		SourceDir: dir,
		DestDir:   filepath.Join(blocked, "organized"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDestinationUnwritable)

	// Zero side effects: the source file never moved and no session exists.
	assert.FileExists(t, filepath.Join(dir, "invoice.pdf"))
	sessions, err := orch.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
