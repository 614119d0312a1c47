package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/utils"
)

// DumpSource reads channel exports from a directory of JSON files, one
// per channel (`<channel>.json`, leading @ stripped), each holding an
// array of posts. It backs offline analysis runs and tests; live MTProto
// retrieval is a separate MessageSource implementation concern.
type DumpSource struct {
	dir string
}

func NewDumpSource(dir string) *DumpSource {
	return &DumpSource{dir: dir}
}

func (s *DumpSource) FetchRecentPosts(ctx context.Context, channels []string, limit int, since time.Time) ([]models.Post, error) {
	var posts []models.Post

	for _, channel := range channels {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		channelPosts, err := s.loadChannel(channel)
		if err != nil {
			slog.Error("[DumpSource] Failed to load channel dump",
				slog.String("channel", channel),
				slog.String("error", err.Error()))
			continue
		}

		// Newest first, matching the iteration order of a live fetch.
		sort.SliceStable(channelPosts, func(i, j int) bool {
			return channelPosts[i].Date.After(channelPosts[j].Date)
		})

		kept := 0
		for _, post := range channelPosts {
			if post.Date.Before(since) {
				break
			}
			if limit > 0 && kept >= limit {
				break
			}
			if post.Channel == "" {
				post.Channel = channel
			}
			posts = append(posts, post)
			kept++
		}

		slog.Info("[DumpSource] Loaded posts from channel dump",
			slog.String("channel", channel),
			slog.Int("posts", kept))
	}

	return posts, nil
}

func (s *DumpSource) loadChannel(channel string) ([]models.Post, error) {
	filename := strings.TrimPrefix(channel, "@") + ".json"
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	var posts []models.Post
	if err := utils.DeserializeFromJSON(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse dump file: %w", err)
	}

	return posts, nil
}
