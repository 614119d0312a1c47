package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/sentiment"
)

type fakeSource struct {
	posts []models.Post
}

func (f *fakeSource) FetchRecentPosts(_ context.Context, _ []string, _ int, _ time.Time) ([]models.Post, error) {
	return f.posts, nil
}

type recordingAlerter struct {
	mu    sync.Mutex
	sent  []int
	calls int
}

func (r *recordingAlerter) SendAlert(post models.AnalyzedPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.sent = append(r.sent, post.ID)
	return nil
}

type negativeClassifier struct{}

func (negativeClassifier) Classify(string) (models.SentimentScores, error) {
	return models.SentimentScores{Positive: 0.1, Negative: 0.8, Neutral: 0.1}, nil
}

func newMonitorAnalyzer(t *testing.T) *sentiment.Analyzer {
	t.Helper()
	analyzer, err := sentiment.NewAnalyzer(negativeClassifier{}, 0.3)
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	return analyzer
}

func TestCheckAlertsOncePerPost(t *testing.T) {
	source := &fakeSource{posts: []models.Post{
		{ID: 1, Channel: "@city", Date: time.Now(), Comments: []models.Comment{{ID: 11, Text: "everything is broken"}}},
		{ID: 2, Channel: "@city", Date: time.Now()}, // no comments: neutral, never alerts
	}}
	alerter := &recordingAlerter{}

	var published [][]models.AnalyzedPost
	publish := func(batch []models.AnalyzedPost) error {
		published = append(published, batch)
		return nil
	}

	m := New(source, newMonitorAnalyzer(t), NewMemoryLedger(), alerter, publish, Options{
		Channels: []string{"@city"},
		Limit:    10,
		Interval: time.Minute,
		Lookback: time.Hour,
	})

	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if len(alerter.sent) != 1 || alerter.sent[0] != 1 {
		t.Fatalf("alerts = %v, want [1]", alerter.sent)
	}
	if len(published) != 1 || len(published[0]) != 1 {
		t.Fatalf("published batches = %v, want one batch of one post", published)
	}

	// Second pass over identical posts must not alert again.
	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("second Check failed: %v", err)
	}
	if alerter.calls != 1 {
		t.Errorf("alert calls = %d, want 1 (dedup)", alerter.calls)
	}
}

func TestCheckWithNilPublisher(t *testing.T) {
	source := &fakeSource{posts: []models.Post{
		{ID: 5, Channel: "@city", Date: time.Now(), Comments: []models.Comment{{ID: 51, Text: "awful"}}},
	}}
	alerter := &recordingAlerter{}

	m := New(source, newMonitorAnalyzer(t), NewMemoryLedger(), alerter, nil, Options{
		Channels: []string{"@city"},
		Interval: time.Minute,
		Lookback: time.Hour,
	})

	if err := m.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(alerter.sent) != 1 {
		t.Errorf("alerts = %v, want one alert without a publisher", alerter.sent)
	}
}

func TestMemoryLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if ledger.WasAlerted(ctx, "@city", 1) {
		t.Error("fresh ledger must report not alerted")
	}
	if err := ledger.MarkAlerted(ctx, "@city", 1); err != nil {
		t.Fatalf("MarkAlerted failed: %v", err)
	}
	if !ledger.WasAlerted(ctx, "@city", 1) {
		t.Error("marked post must report alerted")
	}
	if ledger.WasAlerted(ctx, "@other", 1) {
		t.Error("ledger must scope post ids by channel")
	}
}
