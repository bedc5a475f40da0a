package model

// ClassificationSource indicates which cascade step produced a category.
type ClassificationSource string

// Classification source constants, in cascade priority order.
const (
	SourceExtension  ClassificationSource = "EXTENSION"
	SourceKeyword    ClassificationSource = "KEYWORD"
	SourceLearned    ClassificationSource = "LEARNED"
	SourceAIVision   ClassificationSource = "AI_VISION"
	SourceAIContent  ClassificationSource = "AI_CONTENT"
	SourceAIFilename ClassificationSource = "AI_FILENAME"
	SourceFallback   ClassificationSource = "FALLBACK"
)

// IsAIDerived reports whether the source involved the AI classifier.
func (s ClassificationSource) IsAIDerived() bool {
	switch s {
	case SourceAIVision, SourceAIContent, SourceAIFilename:
		return true
	default:
		return false
	}
}

// ClassificationResult is the outcome of classifying a single file.
// Results are ephemeral; they are never persisted except as they feed
// a learned pattern.
type ClassificationResult struct {
	Category   string
	Source     ClassificationSource
	Reason     string
	Confidence float64
}
