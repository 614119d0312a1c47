package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// VaderClassifier is the lexical-polarity fallback backend. The VADER
// compound score is folded into a three-way distribution: polarity above
// the threshold becomes the positive mass, below the negated threshold
// the negative mass, anything in between is plain neutral.
type VaderClassifier struct {
	analyzer          *govader.SentimentIntensityAnalyzer
	polarityThreshold float64
}

func NewVaderClassifier(polarityThreshold float64) *VaderClassifier {
	return &VaderClassifier{
		analyzer:          govader.NewSentimentIntensityAnalyzer(),
		polarityThreshold: polarityThreshold,
	}
}

func (v *VaderClassifier) Classify(text string) (models.SentimentScores, error) {
	plainText := markdownToPlainText(text)

	polarity := v.analyzer.PolarityScores(plainText).Compound
	magnitude := math.Abs(polarity)

	switch {
	case polarity > v.polarityThreshold:
		return models.SentimentScores{Positive: magnitude, Neutral: 1 - magnitude}, nil
	case polarity < -v.polarityThreshold:
		return models.SentimentScores{Negative: magnitude, Neutral: 1 - magnitude}, nil
	default:
		return models.NeutralScores(), nil
	}
}

// markdownToPlainText flattens Telegram markdown so link targets and
// formatting runes do not leak into the lexicon lookup.
func markdownToPlainText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(rendered), " ")

	return strings.Join(strings.Fields(stripped), " ")
}
