package bot

import (
	"testing"
	"time"
)

func TestCommandDedup(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	dedup := newCommandDedup()
	dedup.now = func() time.Time { return current }

	if dedup.IsDuplicate(1, "analyze") {
		t.Error("first command must not be a duplicate")
	}
	if !dedup.IsDuplicate(1, "analyze") {
		t.Error("immediate repeat must be a duplicate")
	}
	if dedup.IsDuplicate(1, "status") {
		t.Error("different command must not be a duplicate")
	}
	if dedup.IsDuplicate(2, "analyze") {
		t.Error("same command from another chat must not be a duplicate")
	}

	current = current.Add(3 * time.Second)
	if dedup.IsDuplicate(1, "analyze") {
		t.Error("repeat after the window must not be a duplicate")
	}
}

func TestCommandDedupPrunesOldEntries(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	dedup := newCommandDedup()
	dedup.now = func() time.Time { return current }

	dedup.IsDuplicate(1, "analyze")
	dedup.IsDuplicate(2, "monitor")

	current = current.Add(15 * time.Second)
	dedup.IsDuplicate(3, "status")

	dedup.mu.Lock()
	defer dedup.mu.Unlock()
	if len(dedup.recent) != 1 {
		t.Errorf("stale entries must be pruned, got %d entries", len(dedup.recent))
	}
}
