package services

import (
	"sync"
	"testing"

	"ratrace/internal/models"
	"ratrace/internal/pagination"
	"ratrace/internal/testutil"
)

func TestIdempotencyKey(t *testing.T) {
	f := setupPortfolio(t)
	cmd := f.cmd
	cmd.IdempotencyKey = "loan-1"

	_, err := f.portfolio.TakeLoan(cmd, 1000)
	testutil.AssertNoError(t, err)

	_, err = f.portfolio.TakeLoan(cmd, 1000)
	testutil.AssertAppError(t, err, "DUPLICATE_COMMAND")

	game, err := f.games.GetGame(cmd.OwnerID, cmd.GameID)
	testutil.AssertNoError(t, err)
	if len(game.Liabilities) != 1 || game.Player.CashOnHand != 4000 {
		t.Errorf("expected the loan applied once, got %d loans and cash %d", len(game.Liabilities), game.Player.CashOnHand)
	}

	// Keys are scoped to a game.
	other, err := f.games.CreateGame(cmd.OwnerID, testutil.TestProfessionID)
	testutil.AssertNoError(t, err)
	_, err = f.portfolio.TakeLoan(Command{OwnerID: cmd.OwnerID, GameID: other.ID, IdempotencyKey: "loan-1"}, 1000)
	testutil.AssertNoError(t, err)

	var ev models.GameEvent
	f.db.Where("game_id = ? AND action = ?", cmd.GameID, ActionTakeLoan).First(&ev)
	if ev.CommandKey == nil || *ev.CommandKey != "loan-1" {
		t.Errorf("expected the key stored with the event, got %v", ev.CommandKey)
	}
}

func TestConcurrentCommandsAreSerialized(t *testing.T) {
	f := setupPortfolio(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.portfolio.TakeLoan(f.cmd, 1000)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		testutil.AssertNoError(t, err)
	}

	game, err := f.games.GetGame(f.cmd.OwnerID, f.cmd.GameID)
	testutil.AssertNoError(t, err)
	if game.Version != n || len(game.Liabilities) != n || game.Player.CashOnHand != 13000 {
		t.Errorf("expected %d serialized loans, got version %d, %d loans, cash %d",
			n, game.Version, len(game.Liabilities), game.Player.CashOnHand)
	}
}

func TestSaveGameRejectsStaleVersion(t *testing.T) {
	f := setupPortfolio(t)
	runner := newTestRunner(t, f.db)

	game, err := loadGame(f.db, f.cmd.OwnerID, f.cmd.GameID)
	testutil.AssertNoError(t, err)
	sess, err := runner.resume(game)
	testutil.AssertNoError(t, err)

	// Another writer commits first.
	_, err = f.portfolio.TakeLoan(f.cmd, 1000)
	testutil.AssertNoError(t, err)

	_, err = sess.TakeLoan(2000)
	testutil.AssertNoError(t, err)
	err = saveGame(f.db, game, sess.State(), sess.DiceState(), runner.now)
	testutil.AssertAppError(t, err, "STALE_GAME")
}

func TestGameLocks(t *testing.T) {
	locks := newGameLocks()

	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	if len(locks.locks) != 2 {
		t.Fatalf("expected two held locks, got %d", len(locks.locks))
	}

	acquired := make(chan struct{})
	released := make(chan struct{})
	go func() {
		unlock := locks.lock("a")
		close(acquired)
		unlock()
		close(released)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same game must wait")
	default:
	}

	unlockB()
	unlockA()
	<-acquired
	<-released

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Errorf("expected released locks to be dropped, got %d", len(locks.locks))
	}
}

func TestHistoryOwnership(t *testing.T) {
	f := setupPortfolio(t)
	history := NewHistoryService(f.db)

	_, err := history.ListEvents(testutil.NewOwnerID(), f.cmd.GameID, pagination.PageRequest{})
	testutil.AssertAppError(t, err, "GAME_NOT_FOUND")
	_, err = history.ListSnapshots(testutil.NewOwnerID(), f.cmd.GameID, pagination.PageRequest{})
	testutil.AssertAppError(t, err, "GAME_NOT_FOUND")

	for i := 2; i <= 5; i++ {
		testutil.CreateTestEvent(t, f.db, f.cmd.GameID, ActionRoll, i)
	}
	page, err := history.ListEvents(f.cmd.OwnerID, f.cmd.GameID, pagination.PageRequest{Page: 2, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 5 || len(page.Data) != 2 || page.Data[0].Turn != 3 {
		t.Errorf("expected events in insertion order, got %d total and %+v", page.TotalItems, page.Data)
	}
}
