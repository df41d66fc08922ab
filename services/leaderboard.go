// services/leaderboard.go
package services

import (
	"log"
	"time"

	"reputation-badge-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const leaderboardSize = 100

// LeaderboardService maintains a ranked snapshot of the reputation table so
// the public leaderboard read never sorts the live ledger.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// StartSnapshotScheduler refreshes the leaderboard snapshot every hour.
func (s *LeaderboardService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.Snapshot(); err != nil {
				log.Printf("[Leaderboard] snapshot failed: %v", err)
			}
		}),
	)
}

// Snapshot ranks the top accounts by points and upserts the leaderboard rows.
func (s *LeaderboardService) Snapshot() error {
	var reps []models.UserReputation
	if err := s.DB.Order("points DESC, account ASC").Limit(leaderboardSize).Find(&reps).Error; err != nil {
		return err
	}

	// Usernames come from the identity mirror; accounts the worker has not
	// synced yet show up with an empty username.
	accounts := make([]string, len(reps))
	for i, r := range reps {
		accounts[i] = r.Account
	}
	var mirrors []models.AccountMirror
	if len(accounts) > 0 {
		if err := s.DB.Where("account IN ?", accounts).Find(&mirrors).Error; err != nil {
			return err
		}
	}
	names := make(map[string]string, len(mirrors))
	for _, m := range mirrors {
		names[m.Account] = m.Username
	}

	now := time.Now()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, r := range reps {
			entry := models.LeaderboardEntry{
				ID:         uuid.NewString(),
				Account:    r.Account,
				Username:   names[r.Account],
				Points:     r.Points,
				Level:      r.Level,
				Rank:       i + 1,
				SnapshotAt: now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "account"}},
				DoUpdates: clause.AssignmentColumns([]string{"username", "points", "level", "rank", "snapshot_at"}),
			}).Create(&entry).Error
			if err != nil {
				return err
			}
		}
		// Drop rows that fell off the board.
		return tx.Where("snapshot_at < ?", now).Delete(&models.LeaderboardEntry{}).Error
	})
}

// Top returns the current snapshot in rank order.
func (s *LeaderboardService) Top(limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > leaderboardSize {
		limit = leaderboardSize
	}
	var entries []models.LeaderboardEntry
	err := s.DB.Order("rank ASC").Limit(limit).Find(&entries).Error
	return entries, err
}
