package services

import (
	"errors"
	"testing"

	"reputation-badge-system/models"
)

func TestCheckInStreak(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	const account = "user-1"

	setDay(engine, 20001)
	rep, err := engine.CheckIn(account)
	if err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if rep.Points != 10 || rep.StreakDays != 1 {
		t.Fatalf("day 1: want 10 points streak 1, got %d points streak %d", rep.Points, rep.StreakDays)
	}

	t.Run("same day rejected", func(t *testing.T) {
		if _, err := engine.CheckIn(account); !errors.Is(err, ErrAlreadyCheckedIn) {
			t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
		}
	})

	t.Run("consecutive day extends streak", func(t *testing.T) {
		setDay(engine, 20002)
		rep, err := engine.CheckIn(account)
		if err != nil {
			t.Fatalf("day 2 check-in failed: %v", err)
		}
		// 10 + 2*2 = 14 on top of the first 10
		if rep.Points != 24 || rep.StreakDays != 2 {
			t.Fatalf("day 2: want 24 points streak 2, got %d points streak %d", rep.Points, rep.StreakDays)
		}
	})

	t.Run("gap resets streak", func(t *testing.T) {
		setDay(engine, 20004) // skipped day 20003
		rep, err := engine.CheckIn(account)
		if err != nil {
			t.Fatalf("day 4 check-in failed: %v", err)
		}
		if rep.Points != 34 || rep.StreakDays != 1 {
			t.Fatalf("day 4: want 34 points streak 1, got %d points streak %d", rep.Points, rep.StreakDays)
		}
	})

	t.Run("past day rejected", func(t *testing.T) {
		setDay(engine, 20003)
		if _, err := engine.CheckIn(account); !errors.Is(err, ErrAlreadyCheckedIn) {
			t.Fatalf("expected ErrAlreadyCheckedIn for earlier day, got %v", err)
		}
	})
}

func TestPerformAction(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	const account = "user-2"

	t.Run("empty label rejected", func(t *testing.T) {
		if _, err := engine.PerformAction(account, ""); !errors.Is(err, ErrEmptyActionLabel) {
			t.Fatalf("expected ErrEmptyActionLabel, got %v", err)
		}
		if _, err := engine.PerformAction(account, "   "); !errors.Is(err, ErrEmptyActionLabel) {
			t.Fatalf("expected ErrEmptyActionLabel for whitespace, got %v", err)
		}
	})

	t.Run("label is trimmed in the audit reason", func(t *testing.T) {
		sink.reset()
		if _, err := engine.PerformAction("user-2-trim", "  share  "); err != nil {
			t.Fatalf("action failed: %v", err)
		}
		if got := sink.events[0].Reason; got != "action:share" {
			t.Fatalf("want reason %q, got %q", "action:share", got)
		}
	})

	t.Run("five actions award 25 points", func(t *testing.T) {
		sink.reset()
		var rep *models.UserReputation
		var err error
		for i := 0; i < 5; i++ {
			rep, err = engine.PerformAction(account, "x")
			if err != nil {
				t.Fatalf("action %d failed: %v", i+1, err)
			}
		}
		if rep.Points != 25 || rep.Level != 1 {
			t.Fatalf("want 25 points level 1, got %d points level %d", rep.Points, rep.Level)
		}

		profile, err := engine.GetUserProfile(account)
		if err != nil {
			t.Fatalf("profile read failed: %v", err)
		}
		// Newcomer (threshold 0) unlocks on the very first award
		if profile.UnlockedBadges != 1 {
			t.Fatalf("want 1 unlocked badge, got %d", profile.UnlockedBadges)
		}
		if sink.events[0].Kind != models.EventPointsEarned || sink.events[1].Kind != models.EventBadgeUnlocked {
			t.Fatalf("unexpected event order: %v", sink.kinds())
		}
	})
}

func TestLevelUpAndThresholdCross(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	const account = "user-3"

	// 19 actions → 95 points, still level 1
	for i := 0; i < 19; i++ {
		if _, err := engine.PerformAction(account, "contrib"); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}
	sink.reset()

	// The action that crosses 100 must raise the level and unlock
	// Active Member in the same transaction.
	rep, err := engine.PerformAction(account, "contrib")
	if err != nil {
		t.Fatalf("crossing action failed: %v", err)
	}
	if rep.Points != 100 || rep.Level != 2 {
		t.Fatalf("want 100 points level 2, got %d points level %d", rep.Points, rep.Level)
	}

	want := []string{models.EventPointsEarned, models.EventLevelUp, models.EventBadgeUnlocked}
	got := sink.kinds()
	if len(got) != len(want) {
		t.Fatalf("want events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want events %v, got %v", want, got)
		}
	}
	if idx := sink.events[2].BadgeIndex; idx == nil || *idx != 1 {
		t.Fatalf("expected Active Member (index 1) unlock, got %+v", sink.events[2])
	}
}

func TestLevelNeverDecreases(t *testing.T) {
	engine, _, db := newTestEngine(t)
	const account = "user-4"

	for i := 0; i < 21; i++ { // 105 points → level 2
		if _, err := engine.PerformAction(account, "x"); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}

	var rep models.UserReputation
	if err := db.Where("account = ?", account).First(&rep).Error; err != nil {
		t.Fatalf("failed to load reputation: %v", err)
	}
	if rep.Level != 2 {
		t.Fatalf("want level 2, got %d", rep.Level)
	}
	levelBefore := rep.Level

	if _, err := engine.PerformAction(account, "x"); err != nil {
		t.Fatalf("action failed: %v", err)
	}
	if err := db.Where("account = ?", account).First(&rep).Error; err != nil {
		t.Fatalf("failed to reload reputation: %v", err)
	}
	if rep.Level < levelBefore {
		t.Fatalf("level decreased from %d to %d", levelBefore, rep.Level)
	}
}

func TestEndorseUser(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	const caller = "endorser-1"
	const target = "endorsed-1"

	t.Run("self endorsement rejected", func(t *testing.T) {
		if err := engine.EndorseUser(caller, caller); !errors.Is(err, ErrSelfEndorsement) {
			t.Fatalf("expected ErrSelfEndorsement, got %v", err)
		}
	})

	t.Run("below 50 points rejected", func(t *testing.T) {
		for i := 0; i < 9; i++ { // 45 points
			if _, err := engine.PerformAction(caller, "x"); err != nil {
				t.Fatalf("action failed: %v", err)
			}
		}
		if err := engine.EndorseUser(caller, target); !errors.Is(err, ErrInsufficientReputation) {
			t.Fatalf("expected ErrInsufficientReputation, got %v", err)
		}
	})

	t.Run("exactly 50 points endorses and pays the target", func(t *testing.T) {
		if _, err := engine.PerformAction(caller, "x"); err != nil { // 50 points
			t.Fatalf("action failed: %v", err)
		}
		sink.reset()
		if err := engine.EndorseUser(caller, target); err != nil {
			t.Fatalf("endorsement failed: %v", err)
		}

		targetProfile, err := engine.GetUserProfile(target)
		if err != nil {
			t.Fatalf("target profile read failed: %v", err)
		}
		if targetProfile.Points != 25 {
			t.Fatalf("target should hold 25 points, got %d", targetProfile.Points)
		}
		callerProfile, err := engine.GetUserProfile(caller)
		if err != nil {
			t.Fatalf("caller profile read failed: %v", err)
		}
		if callerProfile.Points != 50 {
			t.Fatalf("caller points must not change, got %d", callerProfile.Points)
		}
		if sink.events[0].Kind != models.EventEndorsementRecorded {
			t.Fatalf("expected endorsement event first, got %v", sink.kinds())
		}
	})

	t.Run("duplicate pair rejected", func(t *testing.T) {
		if err := engine.EndorseUser(caller, target); !errors.Is(err, ErrDuplicateEndorsement) {
			t.Fatalf("expected ErrDuplicateEndorsement, got %v", err)
		}
	})

	t.Run("reverse direction still allowed", func(t *testing.T) {
		// target holds only 25 points, so the reverse endorsement is gated
		if err := engine.EndorseUser(target, caller); !errors.Is(err, ErrInsufficientReputation) {
			t.Fatalf("expected ErrInsufficientReputation for low-point endorser, got %v", err)
		}
	})
}

func TestUnlockIsPermanentAndSparse(t *testing.T) {
	engine, _, db := newTestEngine(t)
	catalog := NewCatalogService(db)
	const account = "user-5"

	for i := 0; i < 24; i++ { // 120 points → unlocks Newcomer + Active Member
		if _, err := engine.PerformAction(account, "x"); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}
	profile, err := engine.GetUserProfile(account)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if profile.UnlockedBadges != 2 {
		t.Fatalf("want 2 unlocked badges, got %d", profile.UnlockedBadges)
	}

	// A badge appended after the user's first award is still evaluable:
	// the next award unlocks it because its threshold is already met.
	if _, err := catalog.CreateBadge(adminActor, "Early Bird", "Appended later", 60, ""); err != nil {
		t.Fatalf("failed to append badge: %v", err)
	}
	if _, err := engine.PerformAction(account, "x"); err != nil {
		t.Fatalf("action failed: %v", err)
	}
	profile, err = engine.GetUserProfile(account)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if profile.UnlockedBadges != 3 {
		t.Fatalf("late-added badge should unlock, got %d unlocked", profile.UnlockedBadges)
	}

	// Unlock rows are never removed by later evaluation passes.
	var unlocks int64
	if err := db.Model(&models.BadgeUnlock{}).Where("account = ?", account).Count(&unlocks).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if _, err := engine.PerformAction(account, "x"); err != nil {
		t.Fatalf("action failed: %v", err)
	}
	var after int64
	if err := db.Model(&models.BadgeUnlock{}).Where("account = ?", account).Count(&after).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if after < unlocks {
		t.Fatalf("unlocks went from %d to %d", unlocks, after)
	}
}

func TestGetUserProfileUnseenAccount(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	profile, err := engine.GetUserProfile("never-seen")
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if profile.Points != 0 || profile.Level != 1 || profile.StreakDays != 0 {
		t.Fatalf("unexpected zero profile: %+v", profile)
	}
	if profile.UnlockedBadges != 0 || profile.MintedBadges != 0 {
		t.Fatalf("unseen account should own nothing: %+v", profile)
	}
}
