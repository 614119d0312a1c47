package config

import (
	"reflect"
	"testing"
)

func TestGetChannelsList(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		channels string
		want     []string
	}{
		{"empty list falls back to primary", "@main", "", []string{"@main"}},
		{"single channel", "@main", "@news", []string{"@news"}},
		{"multiple with spaces", "@main", " @a, @b ,@c ", []string{"@a", "@b", "@c"}},
		{"empty segments dropped", "@main", "@a,,@b,", []string{"@a", "@b"}},
		{"only separators falls back", "@main", " , , ", []string{"@main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ChannelUsername: tt.primary, ChannelsList: tt.channels}
			if got := cfg.GetChannelsList(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetChannelsList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.NegativeCommentThreshold != 0.3 {
		t.Errorf("NegativeCommentThreshold = %v, want 0.3", cfg.NegativeCommentThreshold)
	}
	if cfg.MaxMessages != 100 {
		t.Errorf("MaxMessages = %v, want 100", cfg.MaxMessages)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("NEGATIVE_COMMENT_THRESHOLD", "0.45")
	t.Setenv("MAX_MESSAGES", "25")
	t.Setenv("KAFKA_ENABLED", "TRUE")
	t.Setenv("MONITOR_INTERVAL", "90s")

	cfg := FromEnv()

	if cfg.NegativeCommentThreshold != 0.45 {
		t.Errorf("NegativeCommentThreshold = %v, want 0.45", cfg.NegativeCommentThreshold)
	}
	if cfg.MaxMessages != 25 {
		t.Errorf("MaxMessages = %v, want 25", cfg.MaxMessages)
	}
	if !cfg.KafkaEnabled {
		t.Error("KafkaEnabled must honor TRUE")
	}
	if cfg.MonitorInterval.Seconds() != 90 {
		t.Errorf("MonitorInterval = %v, want 90s", cfg.MonitorInterval)
	}
}
