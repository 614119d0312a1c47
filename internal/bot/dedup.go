package bot

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	dedupWindow   = 2 * time.Second
	dedupRetainer = 10 * time.Second
)

// commandDedup suppresses a command repeated by the same chat within a
// short window; Telegram clients occasionally deliver duplicates.
type commandDedup struct {
	mu     sync.Mutex
	recent map[string]time.Time
	now    func() time.Time
}

func newCommandDedup() *commandDedup {
	return &commandDedup{
		recent: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (d *commandDedup) IsDuplicate(chatID int64, command string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	key := fmt.Sprintf("%d_%s", chatID, command)

	if last, ok := d.recent[key]; ok && now.Sub(last) < dedupWindow {
		slog.Info("[Bot] Ignoring duplicate command",
			slog.String("command", command),
			slog.Int64("chat_id", chatID))
		return true
	}

	d.recent[key] = now
	for k, ts := range d.recent {
		if now.Sub(ts) >= dedupRetainer {
			delete(d.recent, k)
		}
	}
	return false
}
