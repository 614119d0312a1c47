package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

const sentimentModelName = "cardiffnlp/twitter-xlm-roberta-base-sentiment"

// TransformerClassifier runs a multilingual sentiment model through an
// ONNX runtime session. RunPipeline is not safe for concurrent calls on
// a single pipeline, so inference is serialized with a mutex.
type TransformerClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

func NewTransformerClassifier(modelDir string) (*TransformerClassifier, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[TransformerClassifier] failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(sentimentModelName, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[TransformerClassifier] Model not found, downloading...",
			slog.String("model", sentimentModelName))
		downloaded, err := hugot.DownloadModel(sentimentModelName, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[TransformerClassifier] failed to download model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[TransformerClassifier] Model downloaded successfully",
			slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[TransformerClassifier] failed to initialize ONNX session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[TransformerClassifier] failed to initialize pipeline: %w", err)
	}

	return &TransformerClassifier{session: session, pipeline: pipeline}, nil
}

func (t *TransformerClassifier) Classify(text string) (models.SentimentScores, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	output, err := t.pipeline.RunPipeline([]string{text})
	if err != nil {
		return models.SentimentScores{}, fmt.Errorf("[TransformerClassifier] inference failed: %w", err)
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return models.SentimentScores{}, fmt.Errorf("[TransformerClassifier] model returned no scores")
	}

	var scores models.SentimentScores
	for _, classified := range output.ClassificationOutputs[0] {
		label := strings.ToLower(classified.Label)
		score := float64(classified.Score)

		switch {
		case strings.Contains(label, "pos"):
			scores.Positive = score
		case strings.Contains(label, "neg"):
			scores.Negative = score
		default:
			scores.Neutral = score
		}
	}

	return scores, nil
}

func (t *TransformerClassifier) Close() {
	if t.session != nil {
		t.session.Destroy()
	}
}
