package services

import (
	"errors"
	"log"

	"reputation-badge-system/models"

	"gorm.io/gorm"
)

// ZeroAccount is the "from" side of the creation transfer emitted on mint.
const ZeroAccount = ""

// MintService converts unlocked badges into soulbound tokens. A (user, badge)
// pair mints at most once; token ids start at 1 and increase by one per
// successful mint. Ownership is immutable — there is no transfer method here,
// and that absence is the soulbound guarantee.
type MintService struct {
	DB     *gorm.DB
	Events EventSink
}

func NewMintService(db *gorm.DB, events EventSink) *MintService {
	return &MintService{DB: db, Events: events}
}

// Mint issues the token for an unlocked badge and returns its id.
func (s *MintService) Mint(account string, badgeIndex int) (int64, error) {
	var tokenID int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var catalogSize int64
		if err := tx.Model(&models.Badge{}).Count(&catalogSize).Error; err != nil {
			return err
		}
		if badgeIndex < 0 || int64(badgeIndex) >= catalogSize {
			return ErrBadgeOutOfRange
		}

		var unlocks int64
		if err := tx.Model(&models.BadgeUnlock{}).
			Where("account = ? AND badge_index = ?", account, badgeIndex).
			Count(&unlocks).Error; err != nil {
			return err
		}
		if unlocks == 0 {
			return ErrBadgeLocked
		}

		var minted int64
		if err := tx.Model(&models.BadgeToken{}).
			Where("owner = ? AND badge_index = ?", account, badgeIndex).
			Count(&minted).Error; err != nil {
			return err
		}
		if minted > 0 {
			return ErrAlreadyMinted
		}

		// Next sequential id, allocated inside the transaction so ids have no
		// gaps and are never reused. 0 stays free as the "no token" sentinel.
		var maxID int64
		if err := tx.Model(&models.BadgeToken{}).
			Select("COALESCE(MAX(token_id), 0)").
			Scan(&maxID).Error; err != nil {
			return err
		}
		tokenID = maxID + 1

		token := models.BadgeToken{
			TokenID:    tokenID,
			BadgeIndex: badgeIndex,
			Owner:      account,
		}
		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		idx := badgeIndex
		id := tokenID
		if err := s.Events.Record(tx, &models.RewardEvent{
			Account:    account,
			Kind:       models.EventBadgeMinted,
			BadgeIndex: &idx,
			TokenID:    &id,
		}); err != nil {
			return err
		}
		return s.Events.Record(tx, &models.RewardEvent{
			Account:    account,
			Kind:       models.EventCreationTransfer,
			BadgeIndex: &idx,
			TokenID:    &id,
			Reason:     "from:" + ZeroAccount,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Printf("🪙 Minted token #%d (badge %d) for %s", tokenID, badgeIndex, account)
	return tokenID, nil
}

// TokenMetadataRef resolves a token to its badge's current metadata reference.
func (s *MintService) TokenMetadataRef(tokenID int64) (string, error) {
	token, err := s.tokenByID(tokenID)
	if err != nil {
		return "", err
	}
	var badge models.Badge
	if err := s.DB.Where("badge_index = ?", token.BadgeIndex).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBadgeNotFound
		}
		return "", err
	}
	return badge.MetadataRef, nil
}

// OwnerOf resolves the permanent owner of a token.
func (s *MintService) OwnerOf(tokenID int64) (string, error) {
	token, err := s.tokenByID(tokenID)
	if err != nil {
		return "", err
	}
	return token.Owner, nil
}

// BalanceOf counts the tokens an account owns.
func (s *MintService) BalanceOf(account string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.BadgeToken{}).Where("owner = ?", account).Count(&count).Error
	return count, err
}

// TokensOfOwner lists an account's token ids in ascending mint order.
func (s *MintService) TokensOfOwner(account string) ([]int64, error) {
	var ids []int64
	err := s.DB.Model(&models.BadgeToken{}).
		Where("owner = ?", account).
		Order("token_id ASC").
		Pluck("token_id", &ids).Error
	return ids, err
}

// HasUnlockedBadge reports whether the account has unlocked the badge.
func (s *MintService) HasUnlockedBadge(account string, badgeIndex int) (bool, error) {
	var count int64
	err := s.DB.Model(&models.BadgeUnlock{}).
		Where("account = ? AND badge_index = ?", account, badgeIndex).
		Count(&count).Error
	return count > 0, err
}

// HasMintedBadge reports whether the account has minted the badge's token.
func (s *MintService) HasMintedBadge(account string, badgeIndex int) (bool, error) {
	var count int64
	err := s.DB.Model(&models.BadgeToken{}).
		Where("owner = ? AND badge_index = ?", account, badgeIndex).
		Count(&count).Error
	return count > 0, err
}

func (s *MintService) tokenByID(tokenID int64) (*models.BadgeToken, error) {
	var token models.BadgeToken
	if err := s.DB.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}
