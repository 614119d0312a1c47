package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

func analyzedPost(id int, channel, title string, negative bool, negativeScore float64, comments ...models.AnalyzedComment) models.AnalyzedPost {
	scores := models.SentimentScores{Positive: 1 - negativeScore, Negative: negativeScore}
	dominant := models.SentimentPositive
	if negative {
		dominant = models.SentimentNegative
	}
	return models.AnalyzedPost{
		Post: models.Post{
			ID:           id,
			Date:         time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
			Text:         "something happened\nin the city",
			Views:        100,
			Channel:      channel,
			ChannelTitle: title,
		},
		Sentiment:         scores,
		DominantSentiment: dominant,
		IsNegative:        negative,
		SentimentSource:   models.SentimentSourceComments,
		Comments:          comments,
	}
}

func TestGenerateMultichannelReport(t *testing.T) {
	posts := []models.AnalyzedPost{
		analyzedPost(1, "@city", "City News", true, 0.8,
			models.AnalyzedComment{IsNegative: true},
			models.AnalyzedComment{IsNegative: false},
		),
		analyzedPost(2, "@city", "City News", true, 0.9),
		analyzedPost(3, "@city", "City News", false, 0.1),
		analyzedPost(4, "@sports", "Sports", false, 0.2),
	}

	generator := NewGenerator(t.TempDir())
	result, err := generator.GenerateMultichannelReport(posts, 100)
	if err != nil {
		t.Fatalf("GenerateMultichannelReport failed: %v", err)
	}

	if result.TotalMessages != 4 || result.TotalNegative != 2 {
		t.Errorf("totals = %d/%d, want 4/2", result.TotalMessages, result.TotalNegative)
	}

	data, err := os.ReadFile(result.JSONPath)
	if err != nil {
		t.Fatalf("failed to read JSON report: %v", err)
	}

	var reportData models.MultichannelReport
	if err := json.Unmarshal(data, &reportData); err != nil {
		t.Fatalf("failed to parse JSON report: %v", err)
	}

	if reportData.Metadata.TotalChannels != 2 {
		t.Errorf("total_channels = %d, want 2", reportData.Metadata.TotalChannels)
	}
	if reportData.Metadata.NegativePercentage != 50.0 {
		t.Errorf("negative_percentage = %v, want 50.0", reportData.Metadata.NegativePercentage)
	}
	if reportData.Metadata.ReportID == "" {
		t.Error("report_id must be set")
	}

	city := reportData.Channels["@city"]
	if city.NegativePostsCount != 2 {
		t.Fatalf("city negative posts = %d, want 2", city.NegativePostsCount)
	}
	// Sorted by negative score descending.
	if city.NegativePosts[0].ID != 2 || city.NegativePosts[1].ID != 1 {
		t.Errorf("posts not sorted by negative score: %d before %d",
			city.NegativePosts[0].ID, city.NegativePosts[1].ID)
	}
	if city.NegativePosts[1].NegativeCommentPercentage != 50.0 {
		t.Errorf("negative comment percentage = %v, want 50.0",
			city.NegativePosts[1].NegativeCommentPercentage)
	}

	sports := reportData.Channels["@sports"]
	if sports.TotalMessages != 1 || sports.NegativePostsCount != 0 {
		t.Errorf("sports = %d messages / %d negative, want 1/0",
			sports.TotalMessages, sports.NegativePostsCount)
	}

	html, err := os.ReadFile(result.HTMLPath)
	if err != nil {
		t.Fatalf("failed to read HTML report: %v", err)
	}
	page := string(html)
	if !strings.Contains(page, "City News") || !strings.Contains(page, "https://t.me/city/2") {
		t.Error("HTML report must contain channel titles and post links")
	}
}

func TestGenerateTruncatesPerChannel(t *testing.T) {
	var posts []models.AnalyzedPost
	for i := 1; i <= 5; i++ {
		posts = append(posts, analyzedPost(i, "@city", "City News", true, float64(i)*0.1))
	}

	generator := NewGenerator(t.TempDir())
	result, err := generator.GenerateMultichannelReport(posts, 3)
	if err != nil {
		t.Fatalf("GenerateMultichannelReport failed: %v", err)
	}

	data, err := os.ReadFile(result.JSONPath)
	if err != nil {
		t.Fatalf("failed to read JSON report: %v", err)
	}
	var reportData models.MultichannelReport
	if err := json.Unmarshal(data, &reportData); err != nil {
		t.Fatalf("failed to parse JSON report: %v", err)
	}

	city := reportData.Channels["@city"]
	if len(city.NegativePosts) != 3 {
		t.Fatalf("got %d posts, want 3 after truncation", len(city.NegativePosts))
	}
	if city.NegativePosts[0].ID != 5 {
		t.Errorf("top post = %d, want 5 (highest negative score)", city.NegativePosts[0].ID)
	}
}

func TestCleanTextPreview(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"empty", "", 10, ""},
		{"newlines flattened", "a\nb\r\nc", 50, "a b c"},
		{"truncated with ellipsis", "abcdefghij", 4, "abcd..."},
		{"whitespace collapsed", "a    b\t\tc", 50, "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTextPreview(tt.input, tt.maxLength); got != tt.want {
				t.Errorf("CleanTextPreview(%q, %d) = %q, want %q", tt.input, tt.maxLength, got, tt.want)
			}
		})
	}
}
