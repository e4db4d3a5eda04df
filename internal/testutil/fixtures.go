package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
	"ratrace/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedTime is the clock every test engine reads.
var FixedTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// NewOwnerID returns a unique session owner id.
func NewOwnerID() string {
	return fmt.Sprintf("owner-%d", nextID())
}

// NewTestEngine builds an engine over NewTestCatalog with a fixed clock.
func NewTestEngine(t *testing.T, opts ...CatalogOption) *engine.Engine {
	t.Helper()
	return engine.New(NewTestCatalog(t, opts...), engine.WithClock(func() time.Time { return FixedTime }))
}

// CreateTestGameRow inserts a bare game row with the given status. It is
// enough for listing and maintenance queries, not for running commands.
func CreateTestGameRow(t *testing.T, db *gorm.DB, ownerID string, status engine.Status, completedAt *time.Time) *models.GameSession {
	t.Helper()

	game := &models.GameSession{
		OwnerID:      ownerID,
		ProfessionID: TestProfessionID,
		Status:       status,
		CurrentPhase: catalog.TrackRatRace,
		TurnState:    engine.TurnAwaitingRoll,
		Decks:        []byte(`{}`),
		DiceState:    []byte{0},
		CompletedAt:  completedAt,
		Player:       models.Player{CashOnHand: 3000, CurrentTurn: 1},
	}
	if err := db.Create(game).Error; err != nil {
		t.Fatalf("failed to create test game: %v", err)
	}
	return game
}

// CreateTestEvent appends an event row to a game.
func CreateTestEvent(t *testing.T, db *gorm.DB, gameID, action string, turn int) *models.GameEvent {
	t.Helper()

	ev := &models.GameEvent{
		GameID:     gameID,
		Action:     action,
		Turn:       turn,
		CashOnHand: 3000,
		Payload:    []byte(`{}`),
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}
