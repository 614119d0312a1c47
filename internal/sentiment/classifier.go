package sentiment

import (
	"log/slog"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

// Classifier scores a single non-empty text into a normalized
// positive/negative/neutral distribution. Implementations must be safe
// for concurrent use.
type Classifier interface {
	Classify(text string) (models.SentimentScores, error)
}

// NewClassifier prefers the ONNX transformer backend and falls back to
// the VADER lexicon when the model cannot be initialized (missing
// runtime, failed download). Mirrors the degrade-don't-fail rule of the
// analysis pipeline itself.
func NewClassifier(modelDir string, polarityThreshold float64) Classifier {
	transformer, err := NewTransformerClassifier(modelDir)
	if err != nil {
		slog.Warn("[Classifier] Transformer backend unavailable, falling back to VADER",
			slog.String("error", err.Error()))
		return NewVaderClassifier(polarityThreshold)
	}

	slog.Info("[Classifier] Using transformer backend",
		slog.String("model_dir", modelDir))
	return transformer
}
