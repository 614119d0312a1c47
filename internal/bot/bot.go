package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Daniilmipt/Telegram-news-analyzer/config"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/monitor"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/report"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/sentiment"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/telegram"
)

// Bot is the conversational surface: on-demand analysis runs, continuous
// monitoring with negative-post alerts, and status reporting. All state
// lives on the struct; there are no package-level mutables.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	analyzer *sentiment.Analyzer
	source   telegram.MessageSource
	reports  *report.Generator
	ledger   monitor.AlertLedger
	publish  monitor.Publisher
	dedup    *commandDedup

	mu            sync.Mutex
	monitorCancel context.CancelFunc
	monitorChatID int64
}

func New(cfg *config.Config, analyzer *sentiment.Analyzer, source telegram.MessageSource, reports *report.Generator, ledger monitor.AlertLedger, publish monitor.Publisher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("[Bot] failed to create bot API client: %w", err)
	}

	slog.Info("[Bot] Authorized",
		slog.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		cfg:      cfg,
		analyzer: analyzer,
		source:   source,
		reports:  reports,
		ledger:   ledger,
		publish:  publish,
		dedup:    newCommandDedup(),
	}, nil
}

// Run consumes updates until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	slog.Info("[Bot] Listening for commands")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.stopMonitoring()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	command := update.Message.Command()

	if b.dedup.IsDuplicate(chatID, command) {
		return
	}

	slog.Info("[Bot] Handling command",
		slog.String("command", command),
		slog.Int64("chat_id", chatID))

	switch command {
	case "start", "help":
		b.sendMessage(chatID, helpText)
	case "analyze":
		go b.runAnalysis(ctx, chatID)
	case "monitor":
		b.startMonitoring(chatID)
	case "stop":
		b.handleStop(chatID)
	case "status":
		b.handleStatus(chatID)
	default:
		b.sendMessage(chatID, "Unknown command, see /help")
	}
}

func (b *Bot) runAnalysis(ctx context.Context, chatID int64) {
	channels := b.cfg.GetChannelsList()
	b.sendMessage(chatID, fmt.Sprintf("🔍 Analyzing the last day of %d channel(s)...", len(channels)))

	since := time.Now().Add(-24 * time.Hour)
	posts, err := b.source.FetchRecentPosts(ctx, channels, b.cfg.MaxMessages, since)
	if err != nil {
		slog.Error("[Bot] Failed to fetch posts",
			slog.String("error", err.Error()))
		b.sendMessage(chatID, "⚠️ Failed to fetch channel posts")
		return
	}
	if len(posts) == 0 {
		b.sendMessage(chatID, "No posts found for the selected period")
		return
	}

	analyzed := b.analyzer.AnalyzePosts(posts)

	if b.publish != nil {
		if err := b.publish(analyzed); err != nil {
			slog.Warn("[Bot] Failed to publish analyzed posts",
				slog.String("error", err.Error()))
		}
	}

	result, err := b.reports.GenerateMultichannelReport(analyzed, b.cfg.MaxMessages)
	if err != nil {
		slog.Error("[Bot] Failed to generate report",
			slog.String("error", err.Error()))
		b.sendMessage(chatID, "⚠️ Failed to generate the report")
		return
	}

	summary := fmt.Sprintf("✅ *Analysis complete*\n\n"+
		"Posts analyzed: %d\n"+
		"Negative posts: %d",
		result.TotalMessages, result.TotalNegative)
	b.sendMessage(chatID, summary)

	b.sendDocument(chatID, result.JSONPath)
	b.sendDocument(chatID, result.HTMLPath)
}

func (b *Bot) startMonitoring(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.monitorCancel != nil {
		b.sendMessage(chatID, "🔄 Monitoring is already active!")
		return
	}

	monitorCtx, cancel := context.WithCancel(context.Background())
	b.monitorCancel = cancel
	b.monitorChatID = chatID

	m := monitor.New(b.source, b.analyzer, b.ledger, b, b.publish, monitor.Options{
		Channels: b.cfg.GetChannelsList(),
		Limit:    b.cfg.MaxMessages,
		Interval: b.cfg.MonitorInterval,
		Lookback: b.cfg.MonitorLookback,
	})
	go m.Run(monitorCtx)

	channels := ""
	for _, channel := range b.cfg.GetChannelsList() {
		channels += fmt.Sprintf("  • `%s`\n", channel)
	}
	b.sendMessage(chatID, fmt.Sprintf("🔄 *Monitoring started!*\n\n"+
		"• Checking every %s\n"+
		"• Channels:\n%s"+
		"• Use /stop to stop monitoring",
		b.cfg.MonitorInterval, channels))
}

func (b *Bot) handleStop(chatID int64) {
	b.mu.Lock()
	active := b.monitorCancel != nil
	b.mu.Unlock()

	if !active {
		b.sendMessage(chatID, "❌ Monitoring is not active")
		return
	}

	b.stopMonitoring()
	b.sendMessage(chatID, "⏹️ Monitoring stopped")
}

func (b *Bot) stopMonitoring() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.monitorCancel != nil {
		b.monitorCancel()
		b.monitorCancel = nil
		b.monitorChatID = 0
	}
}

func (b *Bot) handleStatus(chatID int64) {
	b.mu.Lock()
	monitoring := b.monitorCancel != nil
	b.mu.Unlock()

	b.sendMessage(chatID, formatStatus(b.cfg.GetChannelsList(), b.cfg.NegativeCommentThreshold, monitoring))
}

// SendAlert implements monitor.Alerter: one message per negative post,
// with a link button to the original.
func (b *Bot) SendAlert(post models.AnalyzedPost) error {
	b.mu.Lock()
	chatID := b.monitorChatID
	b.mu.Unlock()

	if chatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, formatAlert(post))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Open in Telegram", report.PostLink(post.Channel, post.ID)),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("[Bot] failed to send alert: %w", err)
	}
	return nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	for _, chunk := range splitMessage(text, telegramMessageLimit) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true

		if _, err := b.api.Send(msg); err != nil {
			slog.Warn("[Bot] Failed to send message",
				slog.Int64("chat_id", chatID),
				slog.String("error", err.Error()))
		}
	}
}

func (b *Bot) sendDocument(chatID int64, path string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	if _, err := b.api.Send(doc); err != nil {
		slog.Warn("[Bot] Failed to send document",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
