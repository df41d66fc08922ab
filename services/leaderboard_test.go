package services

import (
	"testing"

	"reputation-badge-system/models"

	"github.com/google/uuid"
)

func TestLeaderboardSnapshot(t *testing.T) {
	db := setupTestDB(t)
	board := NewLeaderboardService(db)

	seed := []struct {
		account string
		points  int64
		level   int
	}{
		{"acct-a", 250, 3},
		{"acct-b", 900, 10},
		{"acct-c", 40, 1},
	}
	for _, s := range seed {
		rep := models.UserReputation{
			ID:      uuid.NewString(),
			Account: s.account,
			Points:  s.points,
			Level:   s.level,
		}
		if err := db.Create(&rep).Error; err != nil {
			t.Fatalf("failed to seed reputation: %v", err)
		}
	}
	mirror := models.AccountMirror{
		ID:       uuid.NewString(),
		Account:  "acct-b",
		Username: "beatrice",
	}
	if err := db.Create(&mirror).Error; err != nil {
		t.Fatalf("failed to seed mirror: %v", err)
	}

	if err := board.Snapshot(); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	entries, err := board.Top(10)
	if err != nil {
		t.Fatalf("top failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].Account != "acct-b" || entries[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[0].Username != "beatrice" {
		t.Fatalf("leader username not resolved from mirror: %q", entries[0].Username)
	}
	if entries[1].Account != "acct-a" || entries[2].Account != "acct-c" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	// Unsynced accounts have no username yet.
	if entries[1].Username != "" {
		t.Fatalf("expected empty username for unsynced account, got %q", entries[1].Username)
	}

	t.Run("resnapshot updates in place", func(t *testing.T) {
		if err := db.Model(&models.UserReputation{}).
			Where("account = ?", "acct-c").
			Update("points", 5000).Error; err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if err := board.Snapshot(); err != nil {
			t.Fatalf("second snapshot failed: %v", err)
		}
		entries, err := board.Top(10)
		if err != nil {
			t.Fatalf("top failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("want 3 entries after resnapshot, got %d", len(entries))
		}
		if entries[0].Account != "acct-c" || entries[0].Rank != 1 {
			t.Fatalf("resnapshot did not rerank: %+v", entries[0])
		}
	})
}
