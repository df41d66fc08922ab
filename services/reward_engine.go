package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"reputation-badge-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	checkInBasePoints  = 10
	checkInStreakBonus = 2 // per consecutive day, times the streak length
	actionPoints       = 5
	endorsementPoints  = 25 // awarded to the endorsed user
	endorseMinPoints   = 50 // endorser must hold at least this many points

	pointsPerLevel = 100
	secondsPerDay  = 86400
)

// RewardEngine applies every point-awarding action: daily check-ins, generic
// actions and endorsements. Each entry point runs in a single transaction —
// balance update, level recompute, badge-unlock pass and audit events land
// together or not at all.
type RewardEngine struct {
	DB     *gorm.DB
	Events EventSink

	nowFunc func() time.Time
}

func NewRewardEngine(db *gorm.DB, events EventSink) *RewardEngine {
	return &RewardEngine{DB: db, Events: events, nowFunc: time.Now}
}

// SetNowFunc overrides the engine's clock. Tests use it to walk the calendar.
func (e *RewardEngine) SetNowFunc(now func() time.Time) {
	e.nowFunc = now
}

// UserProfile is the read model surfaced by the profile endpoints.
type UserProfile struct {
	Account        string `json:"account"`
	Points         int64  `json:"points"`
	Level          int    `json:"level"`
	StreakDays     int    `json:"streak_days"`
	UnlockedBadges int64  `json:"unlocked_badges"`
	MintedBadges   int64  `json:"minted_badges"`
}

// CheckIn applies the daily check-in rule. Consecutive calendar days extend
// the streak and grow the award (10 + 2*streak); any gap silently resets the
// streak to 1 for a flat 10 points. At most one check-in per calendar day.
func (e *RewardEngine) CheckIn(account string) (*models.UserReputation, error) {
	var rep *models.UserReputation
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rep, err = e.ensureReputation(tx, account)
		if err != nil {
			return err
		}

		currentDay := e.nowFunc().Unix() / secondsPerDay
		if currentDay <= rep.LastActionDay {
			return ErrAlreadyCheckedIn
		}

		var award int64
		if currentDay == rep.LastActionDay+1 {
			rep.StreakDays++
			award = checkInBasePoints + checkInStreakBonus*int64(rep.StreakDays)
		} else {
			rep.StreakDays = 1
			award = checkInBasePoints
		}
		rep.LastActionDay = currentDay

		return e.awardPoints(tx, rep, award, "checkin")
	})
	if err != nil {
		return nil, err
	}
	log.Printf("📅 Check-in: %s → streak=%d points=%d", account, rep.StreakDays, rep.Points)
	return rep, nil
}

// PerformAction awards a flat 5 points for an arbitrary labelled action.
// No rate limiting: the same label can be repeated any number of times.
func (e *RewardEngine) PerformAction(account, label string) (*models.UserReputation, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyActionLabel
	}
	var rep *models.UserReputation
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rep, err = e.ensureReputation(tx, account)
		if err != nil {
			return err
		}
		return e.awardPoints(tx, rep, actionPoints, "action:"+label)
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// EndorseUser records a permanent (caller → target) endorsement and awards 25
// points to the target. The caller needs 50+ points and can endorse each
// target at most once.
func (e *RewardEngine) EndorseUser(caller, target string) error {
	if caller == target {
		return ErrSelfEndorsement
	}
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Endorsement{}).
			Where("endorser = ? AND endorsed = ?", caller, target).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateEndorsement
		}

		callerRep, err := e.ensureReputation(tx, caller)
		if err != nil {
			return err
		}
		if callerRep.Points < endorseMinPoints {
			return ErrInsufficientReputation
		}

		endorsement := models.Endorsement{
			ID:       uuid.NewString(),
			Endorser: caller,
			Endorsed: target,
		}
		if err := tx.Create(&endorsement).Error; err != nil {
			return err
		}
		if err := e.Events.Record(tx, &models.RewardEvent{
			Account: caller,
			Kind:    models.EventEndorsementRecorded,
			Reason:  "endorsed:" + target,
		}); err != nil {
			return err
		}

		targetRep, err := e.ensureReputation(tx, target)
		if err != nil {
			return err
		}
		return e.awardPoints(tx, targetRep, endorsementPoints, "endorsed_by:"+caller)
	})
	if err != nil {
		return err
	}
	log.Printf("🤝 Endorsement: %s → %s (+%d)", caller, target, endorsementPoints)
	return nil
}

// GetUserProfile returns the read model for an account. Never-seen accounts
// get the implicit zero profile (0 points, level 1) without creating a row.
func (e *RewardEngine) GetUserProfile(account string) (*UserProfile, error) {
	profile := &UserProfile{Account: account, Level: 1}

	var rep models.UserReputation
	err := e.DB.Where("account = ?", account).First(&rep).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		profile.Points = rep.Points
		profile.Level = rep.Level
		profile.StreakDays = rep.StreakDays
	}

	if err := e.DB.Model(&models.BadgeUnlock{}).
		Where("account = ?", account).
		Count(&profile.UnlockedBadges).Error; err != nil {
		return nil, err
	}
	if err := e.DB.Model(&models.BadgeToken{}).
		Where("owner = ?", account).
		Count(&profile.MintedBadges).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ensureReputation loads the ledger row for an account, creating the implicit
// zero-valued row on first touch.
func (e *RewardEngine) ensureReputation(tx *gorm.DB, account string) (*models.UserReputation, error) {
	var rep models.UserReputation
	err := tx.Where("account = ?", account).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rep = models.UserReputation{
			ID:      uuid.NewString(),
			Account: account,
			Level:   1,
		}
		if err := tx.Create(&rep).Error; err != nil {
			return nil, fmt.Errorf("failed to create reputation row for %s: %w", account, err)
		}
		return &rep, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// awardPoints is the shared award path: add points, recompute level (never
// lowered), persist the row, then run the badge-unlock pass. Emits
// points_earned, level_up and badge_unlocked events in that order.
func (e *RewardEngine) awardPoints(tx *gorm.DB, rep *models.UserReputation, points int64, reason string) error {
	rep.Points += points

	if err := e.Events.Record(tx, &models.RewardEvent{
		Account: rep.Account,
		Kind:    models.EventPointsEarned,
		Points:  points,
		Reason:  reason,
	}); err != nil {
		return err
	}

	if newLevel := int(rep.Points/pointsPerLevel) + 1; newLevel > rep.Level {
		rep.Level = newLevel
		if err := e.Events.Record(tx, &models.RewardEvent{
			Account: rep.Account,
			Kind:    models.EventLevelUp,
			Level:   newLevel,
		}); err != nil {
			return err
		}
	}

	if err := tx.Save(rep).Error; err != nil {
		return err
	}

	return e.evaluateUnlocks(tx, rep)
}

// evaluateUnlocks walks the current catalog in index order and unlocks every
// badge whose threshold the user's balance now meets. Already-unlocked badges
// are skipped, never re-evaluated, so unlocks are permanent.
func (e *RewardEngine) evaluateUnlocks(tx *gorm.DB, rep *models.UserReputation) error {
	var badges []models.Badge
	if err := tx.Order("badge_index ASC").Find(&badges).Error; err != nil {
		return err
	}

	var existing []models.BadgeUnlock
	if err := tx.Where("account = ?", rep.Account).Find(&existing).Error; err != nil {
		return err
	}
	unlocked := make(map[int]bool, len(existing))
	for _, u := range existing {
		unlocked[u.BadgeIndex] = true
	}

	for _, badge := range badges {
		if unlocked[badge.BadgeIndex] || badge.RequiredPoints > rep.Points {
			continue
		}
		unlock := models.BadgeUnlock{
			ID:         uuid.NewString(),
			Account:    rep.Account,
			BadgeIndex: badge.BadgeIndex,
		}
		if err := tx.Create(&unlock).Error; err != nil {
			return err
		}
		idx := badge.BadgeIndex
		if err := e.Events.Record(tx, &models.RewardEvent{
			Account:    rep.Account,
			Kind:       models.EventBadgeUnlocked,
			BadgeIndex: &idx,
			Reason:     badge.Code,
		}); err != nil {
			return err
		}
		log.Printf("🎖️ Badge unlocked: [%d] %s → %s", badge.BadgeIndex, badge.Name, rep.Account)
	}
	return nil
}
