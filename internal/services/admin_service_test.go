package services

import (
	"testing"
	"time"

	"ratrace/internal/engine"
	"ratrace/internal/models"
	"ratrace/internal/testutil"
)

func TestPurgeCompleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)
	owner := testutil.NewOwnerID()

	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-48 * time.Hour)
	recent := cutoff.Add(time.Hour)

	stale := testutil.CreateTestGameRow(t, db, owner, engine.StatusCompleted, &old)
	testutil.CreateTestEvent(t, db, stale.ID, ActionEndGame, 3)
	kept := testutil.CreateTestGameRow(t, db, owner, engine.StatusCompleted, &recent)
	active := testutil.CreateTestGameRow(t, db, owner, engine.StatusActive, nil)
	abandoned := testutil.CreateTestGameRow(t, db, owner, engine.StatusActive, nil)
	testutil.CreateTestEvent(t, db, abandoned.ID, ActionRoll, 2)
	db.Unscoped().Model(&models.GameSession{}).Where("id = ?", abandoned.ID).Update("deleted_at", old)
	justDeleted := testutil.CreateTestGameRow(t, db, owner, engine.StatusActive, nil)
	db.Unscoped().Model(&models.GameSession{}).Where("id = ?", justDeleted.ID).Update("deleted_at", recent)

	purged, err := svc.PurgeCompleted(cutoff)
	testutil.AssertNoError(t, err)
	if purged != 2 {
		t.Fatalf("expected the stale and the abandoned game purged, got %d", purged)
	}

	var n int64
	db.Unscoped().Model(&models.GameSession{}).Where("id = ?", stale.ID).Count(&n)
	if n != 0 {
		t.Error("expected the stale game removed")
	}
	db.Unscoped().Model(&models.GameEvent{}).Where("game_id = ?", stale.ID).Count(&n)
	if n != 0 {
		t.Error("expected the stale game's events removed")
	}
	db.Unscoped().Model(&models.Player{}).Where("game_id = ?", stale.ID).Count(&n)
	if n != 0 {
		t.Error("expected the stale game's player removed")
	}
	db.Unscoped().Model(&models.GameSession{}).Where("id = ?", abandoned.ID).Count(&n)
	if n != 0 {
		t.Error("expected the game soft-deleted before the cutoff removed")
	}
	db.Unscoped().Model(&models.GameEvent{}).Where("game_id = ?", abandoned.ID).Count(&n)
	if n != 0 {
		t.Error("expected the abandoned game's events removed")
	}
	db.Unscoped().Model(&models.GameSession{}).Where("id IN ?", []string{kept.ID, active.ID, justDeleted.ID}).Count(&n)
	if n != 3 {
		t.Errorf("expected the other games kept, got %d", n)
	}

	t.Run("nothing to purge", func(t *testing.T) {
		purged, err := svc.PurgeCompleted(cutoff)
		testutil.AssertNoError(t, err)
		if purged != 0 {
			t.Errorf("expected nothing purged, got %d", purged)
		}
	})
}
