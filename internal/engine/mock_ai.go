package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MockAIClassifier is a test implementation of the AIClassifier interface.
// It returns deterministic categories based on filename hints so tests run
// without any external model server.
type MockAIClassifier struct {
	// Err, when set, is returned from every call to simulate an
	// unreachable or misbehaving model server.
	Err error
	// VisionCategory is returned from ClassifyByVision when set.
	VisionCategory string

	mu            sync.Mutex
	visionCalls   int
	contentCalls  int
	filenameCalls int
}

// ErrMockAI is the default error used to simulate AI failures.
var ErrMockAI = errors.New("mock ai failure")

// NewMockAIClassifier creates a new mock AI classifier.
func NewMockAIClassifier() *MockAIClassifier {
	return &MockAIClassifier{}
}

// ClassifyByVision returns the configured vision category, or Images.
func (m *MockAIClassifier) ClassifyByVision(_ context.Context, _ []byte) (string, error) {
	m.mu.Lock()
	m.visionCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.VisionCategory != "" {
		return m.VisionCategory, nil
	}
	return "Images", nil
}

// ClassifyByContent classifies from simple content keywords.
func (m *MockAIClassifier) ClassifyByContent(_ context.Context, _, content string) (string, error) {
	m.mu.Lock()
	m.contentCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}

	lowered := strings.ToLower(content)
	switch {
	case strings.Contains(lowered, "total due") || strings.Contains(lowered, "amount"):
		return "Documents", nil
	case strings.Contains(lowered, "func ") || strings.Contains(lowered, "import"):
		return "Code", nil
	default:
		return "Other", nil
	}
}

// ClassifyByFilename classifies from simple filename hints.
func (m *MockAIClassifier) ClassifyByFilename(_ context.Context, filename string) (string, error) {
	m.mu.Lock()
	m.filenameCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}

	lowered := strings.ToLower(filename)
	switch {
	case strings.Contains(lowered, "tax") || strings.Contains(lowered, "bill"):
		return "Documents", nil
	case strings.Contains(lowered, "track") || strings.Contains(lowered, "mix"):
		return "Audio", nil
	default:
		return "Other", nil
	}
}

// Calls reports how many times each capability was invoked.
func (m *MockAIClassifier) Calls() (vision, content, filename int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visionCalls, m.contentCalls, m.filenameCalls
}
