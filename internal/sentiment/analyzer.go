package sentiment

import (
	"fmt"
	"log/slog"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

// Analyzer turns per-comment classifier output into post-level verdicts.
// A post is forced negative once the share of individually negative
// comments reaches the configured threshold, even when the averaged
// scores alone would not dominate.
type Analyzer struct {
	classifier        Classifier
	negativeThreshold float64
}

// NewAnalyzer rejects thresholds outside [0,1] instead of clamping:
// a silently clamped threshold would change verdicts system-wide.
func NewAnalyzer(classifier Classifier, negativeThreshold float64) (*Analyzer, error) {
	if negativeThreshold < 0 || negativeThreshold > 1 {
		return nil, fmt.Errorf("[Analyzer] negative comment threshold must be in [0,1], got %v", negativeThreshold)
	}
	return &Analyzer{
		classifier:        classifier,
		negativeThreshold: negativeThreshold,
	}, nil
}

// AnalyzeText classifies a single text. Classification is total: empty
// cleaned text and classifier failures both degrade to the neutral
// distribution rather than surfacing an error.
func (a *Analyzer) AnalyzeText(text string) models.SentimentScores {
	cleaned := CleanText(text)
	if cleaned == "" {
		return models.NeutralScores()
	}

	scores, err := a.classifier.Classify(cleaned)
	if err != nil {
		slog.Warn("[Analyzer] Classification failed, defaulting to neutral",
			slog.String("error", err.Error()))
		return models.NeutralScores()
	}
	if scores.Sum() <= 0 {
		slog.Warn("[Analyzer] Classifier returned empty distribution, defaulting to neutral")
		return models.NeutralScores()
	}

	return scores
}

// Dominant returns the highest-scoring category. Exact ties resolve to
// the earlier category in the fixed positive, negative, neutral order.
func Dominant(scores models.SentimentScores) string {
	dominant, best := models.SentimentPositive, scores.Positive
	if scores.Negative > best {
		dominant, best = models.SentimentNegative, scores.Negative
	}
	if scores.Neutral > best {
		dominant = models.SentimentNeutral
	}
	return dominant
}

// IsNegative applies the strict-majority rule: the negative score must
// exceed both other categories, so a tie never counts as negative.
func IsNegative(scores models.SentimentScores) bool {
	return scores.Negative > scores.Positive && scores.Negative > scores.Neutral
}

type commentAggregate struct {
	results       []models.AnalyzedComment
	meanPositive  float64
	meanNegative  float64
	meanNeutral   float64
	negativeCount int
	totalCount    int
}

func (a *Analyzer) aggregateComments(comments []models.Comment) commentAggregate {
	agg := commentAggregate{
		results:    make([]models.AnalyzedComment, 0, len(comments)),
		totalCount: len(comments),
	}

	var sumPositive, sumNegative, sumNeutral float64

	for _, comment := range comments {
		scores := a.AnalyzeText(comment.Text)

		negative := IsNegative(scores)
		if negative {
			agg.negativeCount++
		}

		sumPositive += scores.Positive
		sumNegative += scores.Negative
		sumNeutral += scores.Neutral

		agg.results = append(agg.results, models.AnalyzedComment{
			Comment:           comment,
			Sentiment:         scores,
			DominantSentiment: Dominant(scores),
			IsNegative:        negative,
		})
	}

	if agg.totalCount > 0 {
		total := float64(agg.totalCount)
		agg.meanPositive = sumPositive / total
		agg.meanNegative = sumNegative / total
		agg.meanNeutral = sumNeutral / total
	}

	return agg
}

// ResolvePostVerdict computes a post's sentiment from its comments.
// Posts without comments are neutral by definition.
func (a *Analyzer) ResolvePostVerdict(comments []models.Comment) (models.SentimentScores, string, bool) {
	scores, dominant, negative, _ := a.resolveVerdict(a.aggregateComments(comments))
	return scores, dominant, negative
}

func (a *Analyzer) resolveVerdict(agg commentAggregate) (models.SentimentScores, string, bool, float64) {
	if agg.totalCount == 0 {
		return models.NeutralScores(), models.SentimentNeutral, false, 0
	}

	ratio := float64(agg.negativeCount) / float64(agg.totalCount)

	if ratio >= a.negativeThreshold {
		// Escalation: many mildly negative comments outweigh a low mean
		// negative score. The verdict is negative by construction and is
		// not recomputed from the normalized distribution.
		scores := models.SentimentScores{
			Positive: agg.meanPositive * (1 - ratio),
			Negative: agg.meanNegative + ratio*0.5,
			Neutral:  agg.meanNeutral * (1 - ratio*0.5),
		}

		if total := scores.Sum(); total > 0 {
			scores.Positive /= total
			scores.Negative /= total
			scores.Neutral /= total
		} else {
			slog.Debug("[Analyzer] Escalation produced an all-zero distribution",
				slog.Int("comments", agg.totalCount))
		}

		return scores, models.SentimentNegative, true, ratio
	}

	// Means of normalized per-comment distributions are already normalized.
	scores := models.SentimentScores{
		Positive: agg.meanPositive,
		Negative: agg.meanNegative,
		Neutral:  agg.meanNeutral,
	}

	return scores, Dominant(scores), IsNegative(scores), ratio
}

// AnalyzePosts annotates every post and every comment with sentiment,
// preserving input order. A failing classification never drops a post or
// a comment; the affected text just scores neutral.
func (a *Analyzer) AnalyzePosts(posts []models.Post) []models.AnalyzedPost {
	analyzed := make([]models.AnalyzedPost, 0, len(posts))

	for _, post := range posts {
		agg := a.aggregateComments(post.Comments)
		scores, dominant, negative, ratio := a.resolveVerdict(agg)

		source := models.SentimentSourceComments
		if agg.totalCount == 0 {
			source = models.SentimentSourceNeutralDefault
		}

		analyzed = append(analyzed, models.AnalyzedPost{
			Post:              post,
			Sentiment:         scores,
			DominantSentiment: dominant,
			IsNegative:        negative,
			SentimentSource:   source,
			Comments:          agg.results,
		})

		slog.Debug("[Analyzer] Post resolved",
			slog.Int("post_id", post.ID),
			slog.Int("comments", agg.totalCount),
			slog.Int("negative_comments", agg.negativeCount),
			slog.Float64("negative_ratio", ratio),
			slog.String("dominant", dominant))

		if len(analyzed)%10 == 0 {
			slog.Info("[Analyzer] Sentiment analysis progress",
				slog.Int("analyzed", len(analyzed)))
		}
	}

	slog.Info("[Analyzer] Completed sentiment analysis",
		slog.Int("posts", len(analyzed)))
	return analyzed
}
