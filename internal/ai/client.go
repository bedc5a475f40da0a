// Package ai implements the AI classification capability against a local
// OpenAI-compatible model server (Ollama's /v1 endpoint by default).
package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/sortd/sortd/internal/common"
	"github.com/sortd/sortd/internal/rules"
)

// Config holds configuration for the AI classifier.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string
	Timeout     time.Duration
	RateLimit   int
	Temperature float32
	MaxTokens   int
}

// defaults for a stock local Ollama install.
const (
	defaultBaseURL     = "http://localhost:11434/v1"
	defaultModel       = "llama3.2"
	defaultVisionModel = "llava"
	defaultTimeout     = 15 * time.Second
	defaultMaxTokens   = 20
)

// Classifier implements the service.AIClassifier interface over a chat
// completion API. Every call is bounded by the configured timeout and rate
// limited so a large organize run cannot hammer the model server.
type Classifier struct {
	api         *openai.Client
	limiter     *rate.Limiter
	model       string
	visionModel string
	timeout     time.Duration
	temperature float32
	maxTokens   int
}

// NewClassifier creates a new AI classifier.
func NewClassifier(cfg Config) *Classifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Classifier{
		api:         openai.NewClientWithConfig(apiCfg),
		limiter:     rate.NewLimiter(limit, 1),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// ClassifyByFilename classifies a file from its name alone.
func (c *Classifier) ClassifyByFilename(ctx context.Context, filename string) (string, error) {
	prompt := fmt.Sprintf(filenamePrompt, filename)

	raw, err := c.complete(ctx, c.model, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}

	return c.normalize(raw, filename)
}

// ClassifyByContent classifies a file from its name and a bounded excerpt of
// its contents.
func (c *Classifier) ClassifyByContent(ctx context.Context, filename, content string) (string, error) {
	if len(content) > 500 {
		content = content[:500]
	}
	prompt := fmt.Sprintf(contentPrompt, filename, content)

	raw, err := c.complete(ctx, c.model, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}

	return c.normalize(raw, filename)
}

// ClassifyByVision classifies an image by its pixels using the vision model.
func (c *Classifier) ClassifyByVision(ctx context.Context, image []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	dataURI := "data:image/jpeg;base64," + encoded

	raw, err := c.complete(ctx, c.visionModel, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	return c.normalize(raw, "")
}

// Available probes the model server. Used by the CLI to warn early when AI
// classification was requested but no server is reachable.
func (c *Classifier) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.api.ListModels(ctx)
	if err != nil {
		slog.Debug("AI model server not reachable", "error", err)
		return false
	}
	return true
}

func (c *Classifier) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", common.ErrInvalidAIResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// normalize maps free-form model output onto a known category, rejecting
// anything that doesn't match.
func (c *Classifier) normalize(raw, filename string) (string, error) {
	category, ok := rules.NormalizeCategory(raw)
	if !ok {
		slog.Warn("AI returned unknown category",
			"raw", raw,
			"filename", filename)
		return "", fmt.Errorf("%w: %q", common.ErrInvalidAIResponse, raw)
	}
	return category, nil
}
