package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/service"
	"github.com/sortd/sortd/internal/storage"
)

func newTestEngine(t *testing.T, classifier service.AIClassifier) (*ClassificationEngine, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := DefaultConfig()
	// Keep retries out of test runtime.
	cfg.AIRetry = service.RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}

	return NewWithConfig(store, classifier, cfg), store
}

func entryFor(t *testing.T, dir, name, content string) model.FileEntry {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	return model.FileEntry{
		Path:      path,
		Name:      name,
		Extension: filepath.Ext(name),
	}
}

func TestClassifyExtensionWins(t *testing.T) {
	mock := NewMockAIClassifier()
	eng, _ := newTestEngine(t, mock)

	// The filename contains the "invoice" keyword, but a known extension
	// always wins and nothing downstream is consulted.
	entry := model.FileEntry{Name: "invoice.pdf", Extension: ".pdf"}
	result := eng.Classify(context.Background(), entry, true)

	if result.Category != "Documents" || result.Source != model.SourceExtension {
		t.Errorf("Classify(invoice.pdf) = %s/%s, want Documents/EXTENSION",
			result.Category, result.Source)
	}

	vision, content, filename := mock.Calls()
	if vision+content+filename != 0 {
		t.Errorf("AI was consulted %d times for an extension-classified file",
			vision+content+filename)
	}
}

func TestClassifyKeywordFirstDeclaredWins(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	// "invoice" (Documents) is declared before "screenshot" (Images).
	entry := model.FileEntry{Name: "My_Invoice_Screenshot.txt", Extension: ".txt"}
	result := eng.Classify(context.Background(), entry, false)

	if result.Category != "Documents" || result.Source != model.SourceKeyword {
		t.Errorf("Classify = %s/%s, want Documents/KEYWORD", result.Category, result.Source)
	}
}

func TestClassifyFallbackDeterministic(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	entry := model.FileEntry{Name: "mystery.xyz", Extension: ".xyz"}
	result := eng.Classify(context.Background(), entry, false)

	if result.Category != "Other" || result.Source != model.SourceFallback {
		t.Errorf("Classify(mystery.xyz) = %s/%s, want Other/FALLBACK",
			result.Category, result.Source)
	}
}

func TestClassifyAIFailureFallsThrough(t *testing.T) {
	mock := NewMockAIClassifier()
	mock.Err = ErrMockAI
	eng, _ := newTestEngine(t, mock)

	entry := model.FileEntry{Name: "mystery.xyz", Extension: ".xyz"}
	result := eng.Classify(context.Background(), entry, true)

	// AI was tried and failed; the failure is swallowed and the fallback
	// bucket catches the file.
	if result.Category != "Other" || result.Source != model.SourceFallback {
		t.Errorf("Classify = %s/%s, want Other/FALLBACK", result.Category, result.Source)
	}
	_, _, filename := mock.Calls()
	if filename == 0 {
		t.Error("Expected the filename capability to have been attempted")
	}
}

func TestClassifyAIDisabledSkipsClassifier(t *testing.T) {
	mock := NewMockAIClassifier()
	eng, _ := newTestEngine(t, mock)

	entry := model.FileEntry{Name: "mystery.xyz", Extension: ".xyz"}
	_ = eng.Classify(context.Background(), entry, false)

	vision, content, filename := mock.Calls()
	if vision+content+filename != 0 {
		t.Error("AI consulted despite aiEnabled=false")
	}
}

func TestClassifyLearnedBeatsAI(t *testing.T) {
	mock := NewMockAIClassifier()
	eng, store := newTestEngine(t, mock)
	ctx := context.Background()

	if err := store.RecordPattern(ctx, "quarterly", "Documents", 0.9); err != nil {
		t.Fatalf("Failed to seed pattern: %v", err)
	}

	entry := model.FileEntry{Name: "quarterly_q3.xyz", Extension: ".xyz"}
	result := eng.Classify(ctx, entry, true)

	if result.Category != "Documents" || result.Source != model.SourceLearned {
		t.Errorf("Classify = %s/%s, want Documents/LEARNED", result.Category, result.Source)
	}

	vision, content, filename := mock.Calls()
	if vision+content+filename != 0 {
		t.Error("AI consulted despite a confident learned pattern")
	}
}

func TestClassifyLearnedBelowThresholdFallsThrough(t *testing.T) {
	mock := NewMockAIClassifier()
	eng, store := newTestEngine(t, mock)
	ctx := context.Background()

	if err := store.RecordPattern(ctx, "quarterly", "Documents", 0.5); err != nil {
		t.Fatalf("Failed to seed pattern: %v", err)
	}

	entry := model.FileEntry{Name: "quarterly_data.xyz", Extension: ".xyz"}
	result := eng.Classify(ctx, entry, true)

	if result.Source != model.SourceAIFilename {
		t.Errorf("Source = %s, want AI_FILENAME after weak learned pattern", result.Source)
	}
}

func TestClassifyVisionForImages(t *testing.T) {
	mock := NewMockAIClassifier()
	mock.VisionCategory = "Documents" // a scanned receipt
	eng, _ := newTestEngine(t, mock)

	dir := t.TempDir()
	entry := entryFor(t, dir, "dscn0001.jfif", "not really an image")
	result := eng.Classify(context.Background(), entry, true)

	if result.Category != "Documents" || result.Source != model.SourceAIVision {
		t.Errorf("Classify = %s/%s, want Documents/AI_VISION", result.Category, result.Source)
	}
}

func TestClassifyContentForTextFiles(t *testing.T) {
	mock := NewMockAIClassifier()
	eng, _ := newTestEngine(t, mock)

	dir := t.TempDir()
	entry := entryFor(t, dir, "untitled.txt", "Total due: $4,200 by March 1")
	result := eng.Classify(context.Background(), entry, true)

	if result.Category != "Documents" || result.Source != model.SourceAIContent {
		t.Errorf("Classify = %s/%s, want Documents/AI_CONTENT", result.Category, result.Source)
	}
}

// brokenStore fails every learning operation, simulating an unreadable or
// corrupt learned-pattern store.
type brokenStore struct {
	service.Storage
}

var errStoreDown = errors.New("learned-pattern store unavailable")

func (b *brokenStore) GetLearnedPattern(context.Context, string) (*model.LearningEntry, error) {
	return nil, errStoreDown
}

func (b *brokenStore) RecordPattern(context.Context, string, string, float64) error {
	return errStoreDown
}

func TestClassifyStoreErrorDegradesToMiss(t *testing.T) {
	mock := NewMockAIClassifier()
	_, store := newTestEngine(t, mock)

	cfg := DefaultConfig()
	cfg.AIRetry = service.RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}
	eng := NewWithConfig(&brokenStore{Storage: store}, mock, cfg)

	// Classification proceeds past the failing learned lookup instead of
	// surfacing the store error.
	entry := model.FileEntry{Name: "quarterly_data.xyz", Extension: ".xyz"}
	result := eng.Classify(context.Background(), entry, true)

	if result.Source != model.SourceAIFilename {
		t.Errorf("Source = %s, want AI_FILENAME despite a broken learning store", result.Source)
	}

	// Confirm against the same broken store warns and returns.
	eng.Confirm(context.Background(), entry, model.ClassificationResult{
		Category:   "Documents",
		Source:     model.SourceAIFilename,
		Confidence: 0.7,
	})
}

func TestConfirmRecordsPatternsForKeywordAndAI(t *testing.T) {
	eng, store := newTestEngine(t, nil)
	ctx := context.Background()

	entry := model.FileEntry{Name: "meeting_recording_final.xyz", Extension: ".xyz"}
	eng.Confirm(ctx, entry, model.ClassificationResult{
		Category:   "Videos",
		Source:     model.SourceKeyword,
		Confidence: 0.9,
	})

	learned, err := store.GetLearnedPattern(ctx, "meeting")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if learned == nil || learned.Category != "Videos" {
		t.Errorf("Expected meeting -> Videos to be learned, got %+v", learned)
	}
}

func TestConfirmIgnoresExtensionAndFallback(t *testing.T) {
	eng, store := newTestEngine(t, nil)
	ctx := context.Background()

	entry := model.FileEntry{Name: "vacation_album.jpg", Extension: ".jpg"}
	eng.Confirm(ctx, entry, model.ClassificationResult{
		Category: "Images",
		Source:   model.SourceExtension,
	})
	eng.Confirm(ctx, entry, model.ClassificationResult{
		Category: "Other",
		Source:   model.SourceFallback,
	})

	stats, err := store.GetLearningStats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalPatterns != 0 {
		t.Errorf("Learned %d patterns from extension/fallback sources, want 0", stats.TotalPatterns)
	}
}
