package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/sentiment"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/telegram"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/utils"
)

// AlertLedger remembers which posts already produced an alert. The
// Valkey client is the production implementation; MemoryLedger backs
// tests and runs without a Valkey instance.
type AlertLedger interface {
	MarkAlerted(ctx context.Context, channel string, postID int) error
	WasAlerted(ctx context.Context, channel string, postID int) bool
}

// Alerter delivers a single negative-post alert, typically to the bot
// chat that started monitoring.
type Alerter interface {
	SendAlert(post models.AnalyzedPost) error
}

// Publisher forwards a batch of negative posts to downstream consumers
// (the Kafka alert topic). A nil Publisher disables publishing.
type Publisher func(posts []models.AnalyzedPost) error

type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[string]struct{})}
}

func (l *MemoryLedger) MarkAlerted(_ context.Context, channel string, postID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[ledgerKey(channel, postID)] = struct{}{}
	return nil
}

func (l *MemoryLedger) WasAlerted(_ context.Context, channel string, postID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[ledgerKey(channel, postID)]
	return ok
}

func ledgerKey(channel string, postID int) string {
	return fmt.Sprintf("%s/%d", channel, postID)
}

type Options struct {
	Channels []string
	Limit    int
	Interval time.Duration
	Lookback time.Duration
}

// Monitor periodically fetches recent posts, analyzes them and alerts
// once for every newly negative post.
type Monitor struct {
	source   telegram.MessageSource
	analyzer *sentiment.Analyzer
	ledger   AlertLedger
	alerter  Alerter
	publish  Publisher
	opts     Options
	pending  *utils.BatchBuffer[models.AnalyzedPost]
}

func New(source telegram.MessageSource, analyzer *sentiment.Analyzer, ledger AlertLedger, alerter Alerter, publish Publisher, opts Options) *Monitor {
	return &Monitor{
		source:   source,
		analyzer: analyzer,
		ledger:   ledger,
		alerter:  alerter,
		publish:  publish,
		opts:     opts,
		pending:  utils.NewBatchBuffer[models.AnalyzedPost](),
	}
}

// Run checks immediately, then on every tick until the context ends.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("[Monitor] Monitoring started",
		slog.Duration("interval", m.opts.Interval),
		slog.Any("channels", m.opts.Channels))

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	if err := m.Check(ctx); err != nil {
		slog.Error("[Monitor] Monitoring check failed",
			slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("[Monitor] Monitoring stopped")
			return
		case <-ticker.C:
			if err := m.Check(ctx); err != nil {
				slog.Error("[Monitor] Monitoring check failed",
					slog.String("error", err.Error()))
			}
		}
	}
}

// Check runs one fetch-analyze-alert pass.
func (m *Monitor) Check(ctx context.Context) error {
	slog.Info("[Monitor] Running monitoring check...")

	since := time.Now().Add(-m.opts.Lookback)
	posts, err := m.source.FetchRecentPosts(ctx, m.opts.Channels, m.opts.Limit, since)
	if err != nil {
		return fmt.Errorf("[Monitor] failed to fetch recent posts: %w", err)
	}
	if len(posts) == 0 {
		slog.Info("[Monitor] No recent posts found")
		return nil
	}

	analyzed := m.analyzer.AnalyzePosts(posts)

	newAlerts := 0
	for _, post := range analyzed {
		if !post.IsNegative || m.ledger.WasAlerted(ctx, post.Channel, post.ID) {
			continue
		}
		if err := m.ledger.MarkAlerted(ctx, post.Channel, post.ID); err != nil {
			slog.Warn("[Monitor] Failed to record alerted post",
				slog.String("channel", post.Channel),
				slog.Int("post_id", post.ID),
				slog.String("error", err.Error()))
		}
		m.pending.Add(post)
		newAlerts++
	}

	if newAlerts == 0 {
		slog.Info("[Monitor] No new negative posts found")
		return nil
	}

	m.flushAlerts()
	slog.Info("[Monitor] Sent negative post alerts",
		slog.Int("alerts", newAlerts))
	return nil
}

func (m *Monitor) flushAlerts() {
	batch := m.pending.GetAndClear()
	if len(batch) == 0 {
		return
	}

	if m.publish != nil {
		if err := m.publish(batch); err != nil {
			slog.Warn("[Monitor] Failed to publish alert batch",
				slog.String("error", err.Error()))
		}
	}

	for _, post := range batch {
		if err := m.alerter.SendAlert(post); err != nil {
			slog.Warn("[Monitor] Failed to send alert",
				slog.Int("post_id", post.ID),
				slog.String("error", err.Error()))
		}
	}
}
