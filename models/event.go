package models

import (
	"time"
)

// Event kinds emitted by the reward engine and mint registry. The event table
// is the application-visible audit trail: one row appended per signal, in the
// same transaction as the mutation it describes.
const (
	EventPointsEarned        = "points_earned"
	EventLevelUp             = "level_up"
	EventBadgeUnlocked       = "badge_unlocked"
	EventBadgeMinted         = "badge_minted"
	EventCreationTransfer    = "creation_transfer" // mint's "from nothing" transfer
	EventEndorsementRecorded = "endorsement_recorded"
)

// RewardEvent is one audit-trail entry. Points/Level/BadgeIndex/TokenID are
// filled per kind; Reason is a free-form tag like "checkin" or "action:share".
type RewardEvent struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Account string `gorm:"index;not null" json:"account"`
	Kind    string `gorm:"index;not null" json:"kind"`

	Points     int64  `json:"points,omitempty"`
	Level      int    `json:"level,omitempty"`
	BadgeIndex *int   `json:"badge_index,omitempty"`
	TokenID    *int64 `json:"token_id,omitempty"`
	Reason     string `json:"reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
