package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sortd/sortd/internal/ai"
	"github.com/sortd/sortd/internal/config"
	"github.com/sortd/sortd/internal/engine"
	"github.com/sortd/sortd/internal/organizer"
	"github.com/sortd/sortd/internal/service"
	"github.com/sortd/sortd/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/sortd/sortd.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initAIClassifier builds the AI classifier from config. Returns nil when AI
// was not requested; the engine treats a nil classifier as disabled.
func initAIClassifier(aiEnabled bool) *ai.Classifier {
	if !aiEnabled {
		return nil
	}

	return ai.NewClassifier(ai.Config{
		BaseURL:     viper.GetString("ai.base_url"),
		APIKey:      viper.GetString("ai.api_key"),
		Model:       viper.GetString("ai.model"),
		VisionModel: viper.GetString("ai.vision_model"),
		Timeout:     viper.GetDuration("ai.timeout"),
		RateLimit:   viper.GetInt("ai.rate_limit"),
	})
}

// initOrchestrator wires storage, engine, and the optional AI classifier.
func initOrchestrator(ctx context.Context, aiEnabled bool) (*organizer.Orchestrator, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	classifier := initAIClassifier(aiEnabled)

	cfg := engine.DefaultConfig()
	if threshold := viper.GetFloat64("learning.threshold"); threshold > 0 {
		cfg.LearnedThreshold = threshold
	}

	var eng *engine.ClassificationEngine
	if classifier != nil {
		// Probe early so a missing model server produces one warning up
		// front instead of a timeout per file.
		probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		available := classifier.Available(probeCtx)
		cancel()
		if !available {
			fmt.Println("Warning: AI model server not reachable; falling back to rule-based classification.")
			eng = engine.NewWithConfig(store, nil, cfg)
		} else {
			eng = engine.NewWithConfig(store, classifier, cfg)
		}
	} else {
		eng = engine.NewWithConfig(store, nil, cfg)
	}

	return organizer.New(store, eng), store, nil
}
