package telegram

import (
	"context"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

// MessageSource supplies channel posts with their comment threads.
// Implementations own session handling, pagination and rate limiting;
// the analysis pipeline only sees the resulting records.
type MessageSource interface {
	// FetchRecentPosts returns up to limit posts per channel that are
	// dated at or after since, newest first, comments in thread order.
	FetchRecentPosts(ctx context.Context, channels []string, limit int, since time.Time) ([]models.Post, error)
}
