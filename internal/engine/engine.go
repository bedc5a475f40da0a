// Package engine implements the core classification engine for categorizing files.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/rules"
	"github.com/sortd/sortd/internal/service"
)

// ClassificationEngine applies the priority cascade to produce a category
// for one file: extension, then keyword, then learned pattern, then the AI
// capabilities, then the fallback bucket. The first step that matches wins.
type ClassificationEngine struct {
	storage    service.Storage
	classifier service.AIClassifier
	retryOpts  service.RetryOptions
	threshold  float64
	readBudget int
}

// Config holds configuration options for the classification engine.
type Config struct {
	// LearnedThreshold is the minimum confidence a learned pattern needs
	// before it short-circuits an AI call.
	LearnedThreshold float64
	// ContentReadBudget bounds how many bytes of a text file are read for
	// content classification.
	ContentReadBudget int
	// AIRetry configures retries for individual AI calls.
	AIRetry service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LearnedThreshold:  0.75,
		ContentReadBudget: 4096,
		AIRetry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// New creates a new classification engine. The AI classifier is an optional
// dependency; pass nil when no model server is configured and the engine
// degrades to rule-based behavior.
func New(storage service.Storage, classifier service.AIClassifier) *ClassificationEngine {
	return NewWithConfig(storage, classifier, DefaultConfig())
}

// NewWithConfig creates a new classification engine with custom configuration.
func NewWithConfig(storage service.Storage, classifier service.AIClassifier, config Config) *ClassificationEngine {
	if config.LearnedThreshold <= 0 {
		config.LearnedThreshold = 0.75
	}
	if config.ContentReadBudget <= 0 {
		config.ContentReadBudget = 4096
	}
	return &ClassificationEngine{
		storage:    storage,
		classifier: classifier,
		retryOpts:  config.AIRetry,
		threshold:  config.LearnedThreshold,
		readBudget: config.ContentReadBudget,
	}
}

// Classify produces a category for a single file. It never returns an error:
// every failure along the cascade falls through to the next step, and the
// fallback bucket always matches.
func (e *ClassificationEngine) Classify(ctx context.Context, entry model.FileEntry, aiEnabled bool) model.ClassificationResult {
	// 1. Extension lookup is the primary, highest-confidence path.
	if !rules.IsAmbiguous(entry.Extension) {
		if category, ok := rules.CategoryForExtension(entry.Extension); ok {
			return model.ClassificationResult{
				Category:   category,
				Source:     model.SourceExtension,
				Reason:     fmt.Sprintf("extension %s", entry.Extension),
				Confidence: 1.0,
			}
		}
	}

	// Only ambiguous files proceed past this point.

	// 2. Keyword rules, in declaration order.
	if rule, ok := rules.MatchKeyword(entry.Name); ok {
		return model.ClassificationResult{
			Category:   rule.Category,
			Source:     model.SourceKeyword,
			Reason:     fmt.Sprintf("keyword %q", rule.Keyword),
			Confidence: 0.9,
		}
	}

	// 3. The AI cascade, learned patterns first. Best effort throughout:
	// any failure falls through.
	if aiEnabled && e.classifier != nil {
		if result, ok := e.classifyLearned(ctx, entry); ok {
			return result
		}
		if result, ok := e.classifyVision(ctx, entry); ok {
			return result
		}
		if result, ok := e.classifyContent(ctx, entry); ok {
			return result
		}
		if result, ok := e.classifyFilename(ctx, entry); ok {
			return result
		}
	}

	// 4. Fallback.
	return model.ClassificationResult{
		Category:   rules.FallbackCategory,
		Source:     model.SourceFallback,
		Reason:     "no strategy matched",
		Confidence: 0,
	}
}

// Confirm records learned patterns for a classification that stuck: a
// keyword- or AI-derived category that survived a committed, non-undone run.
// Future runs then prefer the learned path over repeating an AI call.
// Extension and fallback classifications are not worth learning.
func (e *ClassificationEngine) Confirm(ctx context.Context, entry model.FileEntry, result model.ClassificationResult) {
	if result.Source != model.SourceKeyword && !result.Source.IsAIDerived() {
		return
	}

	confidence := result.Confidence
	if confidence == 0 {
		confidence = 0.7
	}

	for _, pattern := range rules.ExtractPatterns(entry.Name) {
		if err := e.storage.RecordPattern(ctx, pattern, result.Category, confidence); err != nil {
			slog.Warn("Failed to record learned pattern",
				"pattern", pattern,
				"category", result.Category,
				"error", err)
		}
	}
}

// classifyLearned checks the learned-pattern store for a confident match.
// Store errors degrade to a miss so classification never depends on the
// learning store being healthy.
func (e *ClassificationEngine) classifyLearned(ctx context.Context, entry model.FileEntry) (model.ClassificationResult, bool) {
	var best *model.LearningEntry

	for _, pattern := range rules.ExtractPatterns(entry.Name) {
		learned, err := e.storage.GetLearnedPattern(ctx, pattern)
		if err != nil {
			slog.Warn("Learning store lookup failed, treating as miss",
				"pattern", pattern,
				"error", err)
			continue
		}
		if learned == nil {
			continue
		}
		if best == nil || learned.Confidence > best.Confidence ||
			(learned.Confidence == best.Confidence && learned.Count > best.Count) {
			best = learned
		}
	}

	if best == nil || best.Confidence < e.threshold {
		return model.ClassificationResult{}, false
	}

	slog.Debug("Learned pattern matched",
		"file", entry.Name,
		"pattern", best.Pattern,
		"category", best.Category,
		"confidence", best.Confidence)

	return model.ClassificationResult{
		Category:   best.Category,
		Source:     model.SourceLearned,
		Reason:     fmt.Sprintf("learned pattern %q (seen %d times)", best.Pattern, best.Count),
		Confidence: best.Confidence,
	}, true
}

// classifyVision delegates image files to the vision capability.
func (e *ClassificationEngine) classifyVision(ctx context.Context, entry model.FileEntry) (model.ClassificationResult, bool) {
	if !rules.IsImage(entry.Extension) {
		return model.ClassificationResult{}, false
	}

	image, err := os.ReadFile(entry.Path)
	if err != nil {
		slog.Debug("Could not read image for vision classification",
			"file", entry.Name,
			"error", err)
		return model.ClassificationResult{}, false
	}

	category, err := e.callAI(ctx, func(ctx context.Context) (string, error) {
		return e.classifier.ClassifyByVision(ctx, image)
	})
	if err != nil {
		slog.Debug("Vision classification failed", "file", entry.Name, "error", err)
		return model.ClassificationResult{}, false
	}

	return model.ClassificationResult{
		Category:   category,
		Source:     model.SourceAIVision,
		Reason:     "vision model",
		Confidence: 0.7,
	}, true
}

// classifyContent delegates text-readable files to the content capability,
// reading at most the configured byte budget.
func (e *ClassificationEngine) classifyContent(ctx context.Context, entry model.FileEntry) (model.ClassificationResult, bool) {
	if !rules.IsTextReadable(entry.Extension) {
		return model.ClassificationResult{}, false
	}

	content, err := readHead(entry.Path, e.readBudget)
	if err != nil || content == "" {
		return model.ClassificationResult{}, false
	}

	category, err := e.callAI(ctx, func(ctx context.Context) (string, error) {
		return e.classifier.ClassifyByContent(ctx, entry.Name, content)
	})
	if err != nil {
		slog.Debug("Content classification failed", "file", entry.Name, "error", err)
		return model.ClassificationResult{}, false
	}

	return model.ClassificationResult{
		Category:   category,
		Source:     model.SourceAIContent,
		Reason:     "content analysis",
		Confidence: 0.7,
	}, true
}

// classifyFilename is the last AI resort: classify from the name alone.
func (e *ClassificationEngine) classifyFilename(ctx context.Context, entry model.FileEntry) (model.ClassificationResult, bool) {
	category, err := e.callAI(ctx, func(ctx context.Context) (string, error) {
		return e.classifier.ClassifyByFilename(ctx, entry.Name)
	})
	if err != nil {
		slog.Debug("Filename classification failed", "file", entry.Name, "error", err)
		return model.ClassificationResult{}, false
	}

	return model.ClassificationResult{
		Category:   category,
		Source:     model.SourceAIFilename,
		Reason:     "filename model",
		Confidence: 0.7,
	}, true
}

func (e *ClassificationEngine) callAI(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var category string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		category, callErr = call(ctx)
		if callErr != nil {
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, e.retryOpts)

	return category, err
}

// readHead reads at most budget bytes from the start of a file.
func readHead(path string, budget int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, budget)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
