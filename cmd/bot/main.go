package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/config"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/bot"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/clients"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/clients/kafka_client"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/logging"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/monitor"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/report"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/sentiment"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/telegram"
)

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

	if cfg.BotToken == "" {
		slog.Error("[Main] BOT_TOKEN environment variable is not set")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	classifier := sentiment.NewClassifier(cfg.ModelDir, cfg.SentimentThreshold)
	analyzer, err := sentiment.NewAnalyzer(classifier, cfg.NegativeCommentThreshold)
	if err != nil {
		slog.Error("[Main] Invalid configuration",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	var ledger monitor.AlertLedger = monitor.NewMemoryLedger()
	if cfg.ValkeyEnabled {
		valkeyClient, err := clients.InitValkey()
		if err != nil {
			slog.Warn("[Main] Valkey unavailable, alert dedup is in-memory only",
				slog.String("error", err.Error()))
		} else {
			defer clients.CloseValkey()
			ledger = valkeyClient
		}
	}

	var publish monitor.Publisher
	if cfg.KafkaEnabled {
		kafkaCfg := kafka_client.GetKafkaConfig()
		for {
			err := kafka_client.InitProducer(kafkaCfg)
			if err == nil {
				break
			}
			slog.Warn("[Main] Kafka init failed, retrying...",
				slog.String("error", err.Error()))
			time.Sleep(5 * time.Second)
		}
		defer kafka_client.CloseProducer()
		publish = kafka_client.PublishNegativeAlerts
	}

	source := telegram.NewDumpSource(cfg.DumpDir)
	reports := report.NewGenerator(cfg.OutputDir)

	negativeBot, err := bot.New(cfg, analyzer, source, reports, ledger, publish)
	if err != nil {
		slog.Error("[Main] Failed to start bot",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := negativeBot.Run(ctx); err != nil {
		slog.Error("[Main] Bot stopped with error",
			slog.String("error", err.Error()))
	}
}
