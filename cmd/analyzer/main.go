package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/config"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/clients/kafka_client"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/logging"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/report"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/sentiment"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/telegram"
)

// analyzer runs a single fetch-analyze-report pass and exits.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.FromEnv()
	logging.InitLogger(logging.Options{
		Level:     cfg.LogLevel,
		Dir:       cfg.LogDir,
		ToFile:    cfg.LogToFile,
		ToConsole: cfg.LogToConsole,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	classifier := sentiment.NewClassifier(cfg.ModelDir, cfg.SentimentThreshold)
	analyzer, err := sentiment.NewAnalyzer(classifier, cfg.NegativeCommentThreshold)
	if err != nil {
		slog.Error("[Main] Invalid configuration",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	kafkaReady := false
	if cfg.KafkaEnabled {
		kafkaCfg := kafka_client.GetKafkaConfig()
		for i := 0; i < 3; i++ {
			if err := kafka_client.InitProducer(kafkaCfg); err == nil {
				kafkaReady = true
				break
			} else {
				slog.Warn("[Main] Kafka init failed, retrying...",
					slog.String("error", err.Error()))
				time.Sleep(5 * time.Second)
			}
		}
		if kafkaReady {
			defer kafka_client.CloseProducer()
		} else {
			slog.Warn("[Main] Continuing without Kafka publishing")
		}
	}

	source := telegram.NewDumpSource(cfg.DumpDir)
	since := time.Now().Add(-24 * time.Hour)
	posts, err := source.FetchRecentPosts(ctx, cfg.GetChannelsList(), cfg.MaxMessages, since)
	if err != nil {
		slog.Error("[Main] Failed to fetch posts",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(posts) == 0 {
		slog.Info("[Main] No posts to analyze")
		return
	}

	analyzed := analyzer.AnalyzePosts(posts)

	if kafkaReady {
		if err := kafka_client.PublishAnalyzedPosts(analyzed); err != nil {
			slog.Warn("[Main] Failed to publish analyzed posts",
				slog.String("error", err.Error()))
		}
	}

	result, err := report.NewGenerator(cfg.OutputDir).GenerateMultichannelReport(analyzed, cfg.MaxMessages)
	if err != nil {
		slog.Error("[Main] Failed to generate report",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Main] Analysis complete",
		slog.Int("posts", result.TotalMessages),
		slog.Int("negative", result.TotalNegative),
		slog.String("report", result.OutputDir))
}
