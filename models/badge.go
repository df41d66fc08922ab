package models

import (
	"time"
)

// Badge is one entry in the append-only badge catalog. BadgeIndex is the
// badge's identity: sequential, 0-based, assigned at creation and never
// reused. Only MetadataRef may change after creation (admin artwork swap).
type Badge struct {
	BadgeIndex     int       `gorm:"primaryKey;autoIncrement:false" json:"badge_index"`
	Code           string    `gorm:"index;not null" json:"code"` // slug of Name, e.g. "active-member"
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	RequiredPoints int64     `gorm:"not null" json:"required_points"`
	MetadataRef    string    `gorm:"type:text" json:"metadata_ref"` // opaque; usually an R2/CDN URL
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SeedBadge describes one of the badges installed on first boot.
type SeedBadge struct {
	Name           string
	Description    string
	RequiredPoints int64
}

// DefaultBadges are seeded once, in this order, at catalog indexes 0..4.
var DefaultBadges = []SeedBadge{
	{Name: "Newcomer", Description: "Earned your first reputation points", RequiredPoints: 0},
	{Name: "Active Member", Description: "Reached 100 reputation points", RequiredPoints: 100},
	{Name: "Contributor", Description: "Reached 500 reputation points", RequiredPoints: 500},
	{Name: "Veteran", Description: "Reached 1000 reputation points", RequiredPoints: 1000},
	{Name: "Legend", Description: "Reached 5000 reputation points", RequiredPoints: 5000},
}
