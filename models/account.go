package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountMirror is a local snapshot of account data owned by the external
// identity service. Populated by the account sync worker; used only for
// display (usernames on the leaderboard and in search). The Account column is
// the opaque key every reputation table is keyed by.
type AccountMirror struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Account   string  `gorm:"uniqueIndex;not null" json:"account"` // identity service's external id
	Username  string  `gorm:"index;not null" json:"username"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"` // soft delete when identity service removes the account
}

// LeaderboardEntry is a ranked snapshot row refreshed by the scheduler.
// Readers never rank on the fly; they read the latest snapshot.
type LeaderboardEntry struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Account  string `gorm:"uniqueIndex;not null" json:"account"`
	Username string `json:"username,omitempty"`
	Points   int64  `json:"points"`
	Level    int    `json:"level"`
	Rank     int    `gorm:"index" json:"rank"`

	SnapshotAt time.Time `json:"snapshot_at"`
}
