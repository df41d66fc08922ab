package services

import (
	"errors"
	"fmt"
	"log"

	"reputation-badge-system/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Actor is the explicit capability handed to catalog mutations. Handlers build
// it from the gateway's user context; there is no ambient admin singleton.
type Actor struct {
	Account string
	Admin   bool
}

// CatalogService owns the append-only badge catalog.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// SeedDefaultBadges installs the five stock badges on an empty catalog.
// Safe to call on every boot.
func (s *CatalogService) SeedDefaultBadges() error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Badge{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i, seed := range models.DefaultBadges {
			badge := models.Badge{
				BadgeIndex:     i,
				Code:           slug.Make(seed.Name),
				Name:           seed.Name,
				Description:    seed.Description,
				RequiredPoints: seed.RequiredPoints,
			}
			if err := tx.Create(&badge).Error; err != nil {
				return fmt.Errorf("failed to seed badge %q: %w", seed.Name, err)
			}
		}
		log.Printf("🏅 Seeded %d default badges", len(models.DefaultBadges))
		return nil
	})
}

// CreateBadge appends a badge at the next sequential index. Admin only.
// Names and thresholds are deliberately unconstrained.
func (s *CatalogService) CreateBadge(actor Actor, name, description string, requiredPoints int64, metadataRef string) (int, error) {
	if !actor.Admin {
		return 0, ErrUnauthorized
	}
	var index int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Badge{}).Count(&count).Error; err != nil {
			return err
		}
		index = int(count)
		badge := models.Badge{
			BadgeIndex:     index,
			Code:           slug.Make(name),
			Name:           name,
			Description:    description,
			RequiredPoints: requiredPoints,
			MetadataRef:    metadataRef,
		}
		return tx.Create(&badge).Error
	})
	if err != nil {
		return 0, err
	}
	log.Printf("🏅 Badge created: [%d] %s (threshold %d) by %s", index, name, requiredPoints, actor.Account)
	return index, nil
}

// UpdateMetadataRef swaps a badge's metadata reference. Admin only. Name and
// threshold are immutable once created.
func (s *CatalogService) UpdateMetadataRef(actor Actor, badgeIndex int, newRef string) error {
	if !actor.Admin {
		return ErrUnauthorized
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var badge models.Badge
		if err := tx.Where("badge_index = ?", badgeIndex).First(&badge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBadgeNotFound
			}
			return err
		}
		// Condition explicitly on the index: badge 0's zero-valued primary
		// key would otherwise give GORM no WHERE clause to build from.
		return tx.Model(&models.Badge{}).
			Where("badge_index = ?", badgeIndex).
			Update("metadata_ref", newRef).Error
	})
}

// GetBadgeInfo returns the badge at the given catalog index.
func (s *CatalogService) GetBadgeInfo(badgeIndex int) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.Where("badge_index = ?", badgeIndex).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}
	return &badge, nil
}

// ListBadges returns the whole catalog in index order.
func (s *CatalogService) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Order("badge_index ASC").Find(&badges).Error
	return badges, err
}

// BadgeCount returns the current catalog size.
func (s *CatalogService) BadgeCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Badge{}).Count(&count).Error
	return count, err
}
