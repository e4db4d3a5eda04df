package testutil_test

import (
	"testing"

	"ratrace/internal/engine"
	"ratrace/internal/errors"
	"ratrace/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"game_sessions", "players", "investments", "liabilities", "player_doodads", "game_events", "turn_snapshots"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	owner := testutil.NewOwnerID()
	if owner == testutil.NewOwnerID() {
		t.Fatal("owner ids should be unique")
	}

	game := testutil.CreateTestGameRow(t, db, owner, engine.StatusActive, nil)
	if game.ID == "" || game.Player.GameID != game.ID {
		t.Fatalf("expected game and player rows to be linked, got %q and %q", game.ID, game.Player.GameID)
	}

	ev := testutil.CreateTestEvent(t, db, game.ID, "roll", 1)
	if ev.ID == "" {
		t.Error("event should have an ID")
	}

	eng := testutil.NewTestEngine(t)
	s, err := eng.Start(testutil.TestProfessionID, 1)
	testutil.AssertNoError(t, err)
	if !s.State().CreatedAt.Equal(testutil.FixedTime) {
		t.Errorf("expected fixed clock, got %s", s.State().CreatedAt)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrGameNotFound, "custom message")
	testutil.AssertAppError(t, err, "GAME_NOT_FOUND")
}

func TestAssertKind(t *testing.T) {
	tests := []struct {
		err  error
		kind errors.Kind
	}{
		{errors.ErrInsufficientFunds, errors.KindValidation},
		{errors.ErrLiabilityNotFound, errors.KindNotFound},
		{errors.WithMessage(errors.ErrDecisionPending, "pending"), errors.KindState},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			testutil.AssertKind(t, tt.err, tt.kind)
			if got := errors.KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %s, want %s", got, tt.kind)
			}
		})
	}
	testutil.AssertGameError(t, errors.ErrSalePriceOutOfRange, errors.KindValidation, "SALE_PRICE_OUT_OF_RANGE")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
