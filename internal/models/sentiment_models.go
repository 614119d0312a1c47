package models

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentScores is a distribution over the three sentiment categories.
// A normalized triple sums to 1.0; the escalation branch of the post
// verdict works with unnormalized intermediates before dividing by Sum.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

func (s SentimentScores) Sum() float64 {
	return s.Positive + s.Negative + s.Neutral
}

// NeutralScores is the fixed result for empty text, classifier failures
// and posts without comments.
func NeutralScores() SentimentScores {
	return SentimentScores{Neutral: 1.0}
}

type SentimentSource string

const (
	SentimentSourceComments       SentimentSource = "comments"
	SentimentSourceNeutralDefault SentimentSource = "neutral_default"
)

type AnalyzedComment struct {
	Comment
	Sentiment         SentimentScores `json:"sentiment"`
	DominantSentiment string          `json:"dominant_sentiment"`
	IsNegative        bool            `json:"is_negative"`
}

// AnalyzedPost shadows Post.Comments with the annotated thread so the
// serialized record carries per-comment sentiment.
type AnalyzedPost struct {
	Post
	Sentiment         SentimentScores   `json:"sentiment"`
	DominantSentiment string            `json:"dominant_sentiment"`
	IsNegative        bool              `json:"is_negative"`
	SentimentSource   SentimentSource   `json:"sentiment_source"`
	Comments          []AnalyzedComment `json:"comments"`
}
