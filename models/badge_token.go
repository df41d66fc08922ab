package models

import (
	"time"
)

// BadgeToken is a minted soulbound badge. TokenID starts at 1 and increases
// by one per successful mint (0 is the "no token" sentinel). There is no
// transfer path anywhere in the service: Owner is written exactly once, at
// mint time, and no operation updates it afterwards.
type BadgeToken struct {
	TokenID    int64     `gorm:"primaryKey;autoIncrement:false" json:"token_id"`
	BadgeIndex int       `gorm:"uniqueIndex:idx_token_owner_badge;not null" json:"badge_index"`
	Owner      string    `gorm:"uniqueIndex:idx_token_owner_badge;index;not null" json:"owner"`
	MintedAt   time.Time `gorm:"autoCreateTime" json:"minted_at"`
}
