package models

import (
	"time"
)

// UserReputation is the per-user ledger row (denormalized for fast reads).
// A row is created lazily, zero-valued, the first time an account is touched.
// Points only ever go up; Level is derived (points/100 + 1) and never lowered.
type UserReputation struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Account string `gorm:"uniqueIndex;not null" json:"account"` // opaque identity-service key

	Points int64 `json:"points" gorm:"default:0"`
	Level  int   `json:"level" gorm:"default:1"`

	// Daily check-in state. LastActionDay is a calendar-day number
	// (unix seconds / 86400); 0 means never checked in.
	LastActionDay int64 `json:"last_action_day" gorm:"default:0"`
	StreakDays    int   `json:"streak_days" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BadgeUnlock marks a badge as permanently unlocked for an account.
// Sparse by design: absence of a row means locked, so badges appended to the
// catalog after a user's first award are still reachable for that user.
type BadgeUnlock struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	Account    string    `gorm:"uniqueIndex:idx_unlock_account_badge;not null" json:"account"`
	BadgeIndex int       `gorm:"uniqueIndex:idx_unlock_account_badge;not null" json:"badge_index"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// Endorsement records that Endorser vouched for Endorsed. An ordered pair is
// recorded at most once and is never removed.
type Endorsement struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Endorser  string    `gorm:"uniqueIndex:idx_endorser_endorsed;not null" json:"endorser"`
	Endorsed  string    `gorm:"uniqueIndex:idx_endorser_endorsed;not null" json:"endorsed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
