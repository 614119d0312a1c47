package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable of the analyzer and the bot. Values come
// from the environment (optionally seeded by a .env file via LoadEnv).
type Config struct {
	BotToken string

	// ChannelUsername is the primary channel, kept for single-channel
	// setups; ChannelsList takes precedence when set.
	ChannelUsername string
	ChannelsList    string

	MaxMessages int

	// SentimentThreshold is the polarity cutoff of the lexical fallback
	// classifier; NegativeCommentThreshold is the escalation ratio.
	SentimentThreshold       float64
	NegativeCommentThreshold float64

	OutputDir string
	ModelDir  string
	DumpDir   string

	MonitorInterval time.Duration
	MonitorLookback time.Duration

	KafkaEnabled  bool
	ValkeyEnabled bool

	LogDir       string
	LogLevel     string
	LogToFile    bool
	LogToConsole bool
}

func FromEnv() *Config {
	return &Config{
		BotToken:                 os.Getenv("BOT_TOKEN"),
		ChannelUsername:          getEnv("CHANNEL_USERNAME", "@yourchannel"),
		ChannelsList:             getEnv("CHANNELS_LIST", ""),
		MaxMessages:              getEnvInt("MAX_MESSAGES", 100),
		SentimentThreshold:       getEnvFloat("SENTIMENT_THRESHOLD", 0.1),
		NegativeCommentThreshold: getEnvFloat("NEGATIVE_COMMENT_THRESHOLD", 0.3),
		OutputDir:                getEnv("OUTPUT_DIR", "output"),
		ModelDir:                 getEnv("MODEL_DIR", "models"),
		DumpDir:                  getEnv("TELEGRAM_DUMP_DIR", "dumps"),
		MonitorInterval:          getEnvDuration("MONITOR_INTERVAL", 5*time.Minute),
		MonitorLookback:          getEnvDuration("MONITOR_LOOKBACK", time.Hour),
		KafkaEnabled:             getEnvBool("KAFKA_ENABLED", false),
		ValkeyEnabled:            getEnvBool("VALKEY_ENABLED", false),
		LogDir:                   getEnv("LOG_DIR", "logs"),
		LogLevel:                 getEnv("LOG_LEVEL", "INFO"),
		LogToFile:                getEnvBool("LOG_TO_FILE", true),
		LogToConsole:             getEnvBool("LOG_TO_CONSOLE", true),
	}
}

// GetChannelsList splits CHANNELS_LIST on commas, trimming whitespace
// and dropping empties; an empty list falls back to the primary channel.
func (c *Config) GetChannelsList() []string {
	var channels []string
	for _, channel := range strings.Split(c.ChannelsList, ",") {
		channel = strings.TrimSpace(channel)
		if channel != "" {
			channels = append(channels, channel)
		}
	}

	if len(channels) == 0 {
		return []string{c.ChannelUsername}
	}
	return channels
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return strings.EqualFold(value, "true")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
