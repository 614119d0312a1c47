package telegram

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

func writeDump(t *testing.T, dir, channel string, posts []models.Post) {
	t.Helper()
	data, err := json.Marshal(posts)
	if err != nil {
		t.Fatalf("failed to marshal dump: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, channel+".json"), data, 0o644); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}
}

func TestDumpSourceFetchRecentPosts(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	writeDump(t, dir, "city", []models.Post{
		{ID: 1, Date: base.Add(-48 * time.Hour), Text: "old"},
		{ID: 2, Date: base.Add(-2 * time.Hour), Text: "recent", Comments: []models.Comment{
			{ID: 21, Text: "first"},
			{ID: 22, Text: "second"},
		}},
		{ID: 3, Date: base.Add(-1 * time.Hour), Text: "newest"},
	})

	source := NewDumpSource(dir)
	posts, err := source.FetchRecentPosts(context.Background(), []string{"@city"}, 10, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("FetchRecentPosts failed: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (old one filtered)", len(posts))
	}
	if posts[0].ID != 3 || posts[1].ID != 2 {
		t.Errorf("posts must be newest first, got %d then %d", posts[0].ID, posts[1].ID)
	}
	if posts[0].Channel != "@city" {
		t.Errorf("channel = %q, want @city filled in", posts[0].Channel)
	}
	if posts[1].Comments[0].ID != 21 || posts[1].Comments[1].ID != 22 {
		t.Error("comment order must be preserved")
	}
}

func TestDumpSourceLimit(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	var posts []models.Post
	for i := 1; i <= 5; i++ {
		posts = append(posts, models.Post{ID: i, Date: base.Add(time.Duration(i) * time.Minute)})
	}
	writeDump(t, dir, "city", posts)

	source := NewDumpSource(dir)
	fetched, err := source.FetchRecentPosts(context.Background(), []string{"@city"}, 2, base)
	if err != nil {
		t.Fatalf("FetchRecentPosts failed: %v", err)
	}

	if len(fetched) != 2 {
		t.Fatalf("got %d posts, want 2 (limit)", len(fetched))
	}
	if fetched[0].ID != 5 {
		t.Errorf("first post = %d, want 5 (newest)", fetched[0].ID)
	}
}

func TestDumpSourceMissingChannelSkipped(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	writeDump(t, dir, "city", []models.Post{{ID: 1, Date: base}})

	source := NewDumpSource(dir)
	posts, err := source.FetchRecentPosts(context.Background(), []string{"@missing", "@city"}, 10, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("FetchRecentPosts failed: %v", err)
	}

	if len(posts) != 1 || posts[0].ID != 1 {
		t.Errorf("missing channel must be skipped, working channel kept; got %v", posts)
	}
}
