package services

import (
	"fmt"
	"testing"
	"time"

	"reputation-badge-system/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an isolated in-memory SQLite database for tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.UserReputation{},
		&models.Badge{},
		&models.BadgeUnlock{},
		&models.BadgeToken{},
		&models.Endorsement{},
		&models.RewardEvent{},
		&models.AccountMirror{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// captureSink records emitted events in order without touching the database.
type captureSink struct {
	events []models.RewardEvent
}

func (s *captureSink) Record(tx *gorm.DB, event *models.RewardEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *captureSink) kinds() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Kind
	}
	return out
}

func (s *captureSink) reset() {
	s.events = nil
}

// newTestEngine wires an engine over a fresh database with the default badge
// catalog seeded and a capturing event sink.
func newTestEngine(t *testing.T) (*RewardEngine, *captureSink, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	if err := NewCatalogService(db).SeedDefaultBadges(); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	sink := &captureSink{}
	return NewRewardEngine(db, sink), sink, db
}

// setDay pins the engine clock to a fixed calendar day number.
func setDay(e *RewardEngine, day int64) {
	e.SetNowFunc(func() time.Time {
		return time.Unix(day*secondsPerDay+3600, 0) // one hour into the day
	})
}

var adminActor = Actor{Account: "admin-1", Admin: true}
