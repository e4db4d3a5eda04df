package engine_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/testutil"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// newEngine returns an engine with a fixed clock and sequential ids.
func newEngine(cat *catalog.Catalog) *engine.Engine {
	n := 0
	return engine.New(cat,
		engine.WithClock(func() time.Time { return fixedTime }),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func startSession(t *testing.T, opts ...testutil.CatalogOption) *engine.Session {
	t.Helper()
	s, err := newEngine(testutil.NewTestCatalog(t, opts...)).Start(testutil.TestProfessionID, 42)
	testutil.AssertNoError(t, err)
	return s
}

func assertInvariants(t *testing.T, s *engine.Session) {
	t.Helper()
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

// roll rolls and fails the test on error.
func roll(t *testing.T, s *engine.Session) engine.RollResult {
	t.Helper()
	res, err := s.RollDice(nil)
	testutil.AssertNoError(t, err)
	assertInvariants(t, s)
	return res
}

func endTurn(t *testing.T, s *engine.Session) engine.TurnResult {
	t.Helper()
	res, err := s.EndTurn()
	testutil.AssertNoError(t, err)
	assertInvariants(t, s)
	return res
}

// passPending declines whatever decision the last roll left behind.
func passPending(t *testing.T, s *engine.Session) {
	t.Helper()
	st := s.State()
	if st.Pending == nil {
		return
	}
	var err error
	switch st.Pending.Space {
	case catalog.SpaceOpportunity:
		err = s.PassCard()
	case catalog.SpaceDoodad:
		err = s.PassDoodad()
	case catalog.SpaceCharity:
		err = s.DeclineCharity()
	}
	testutil.AssertNoError(t, err)
}

func TestStart(t *testing.T) {
	cat := testutil.NewTestCatalog(t)

	t.Run("unknown profession", func(t *testing.T) {
		_, err := newEngine(cat).Start("astronaut", 1)
		testutil.AssertGameError(t, err, apperrors.KindNotFound, "PROFESSION_NOT_FOUND")
	})

	t.Run("initial state", func(t *testing.T) {
		s, err := newEngine(cat).Start(testutil.TestProfessionID, 1)
		testutil.AssertNoError(t, err)
		assertInvariants(t, s)

		st := s.State()
		if st.Status != engine.StatusActive || st.TurnState != engine.TurnAwaitingRoll {
			t.Errorf("expected active session awaiting roll, got %s/%s", st.Status, st.TurnState)
		}
		if st.CurrentPhase != catalog.TrackRatRace {
			t.Errorf("expected rat race phase, got %s", st.CurrentPhase)
		}
		if st.Player.CashOnHand != 3000 || st.Player.CurrentTurn != 1 || st.Player.CurrentPosition != 0 {
			t.Errorf("unexpected player %+v", st.Player)
		}
		if st.TotalTurns != 0 {
			t.Errorf("expected 0 total turns, got %d", st.TotalTurns)
		}

		l := s.Ledger()
		if l.TotalIncome != 5000 || l.TotalExpenses != 2500 || l.CashFlow != 2500 {
			t.Errorf("unexpected ledger %+v", l)
		}
	})
}

func TestRollDice(t *testing.T) {
	t.Run("rejects out of range suggestion", func(t *testing.T) {
		s := startSession(t)
		for _, v := range []int{0, 7, -1} {
			_, err := s.RollDice(&v)
			testutil.AssertGameError(t, err, apperrors.KindValidation, "INVALID_DICE_VALUE")
		}
		if s.State().TurnState != engine.TurnAwaitingRoll {
			t.Error("rejected roll must not change state")
		}
	})

	t.Run("suggestion does not decide the roll", func(t *testing.T) {
		a := startSession(t)
		b := startSession(t)
		six := 6
		ra, err := a.RollDice(&six)
		testutil.AssertNoError(t, err)
		rb := roll(t, b)
		if !reflect.DeepEqual(ra.Dice, rb.Dice) {
			t.Errorf("suggested roll changed the outcome: %v vs %v", ra.Dice, rb.Dice)
		}
	})

	t.Run("moves and draws", func(t *testing.T) {
		s := startSession(t)
		res := roll(t, s)
		if len(res.Dice) != 1 || res.Total < 1 || res.Total > 6 {
			t.Fatalf("expected one die in [1,6], got %v", res.Dice)
		}
		if res.Position != res.Total%6 {
			t.Errorf("expected position %d, got %d", res.Total%6, res.Position)
		}
		if res.Space != catalog.SpaceOpportunity || res.Draw == nil || res.Draw.Opportunity == nil {
			t.Fatalf("expected an opportunity draw, got %+v", res)
		}
		if res.TurnState != engine.TurnAwaitingCardDecision {
			t.Errorf("expected awaiting card decision, got %s", res.TurnState)
		}
	})

	t.Run("rejects roll while decision pending", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		before := s.State()
		dice := s.DiceState()

		_, err := s.RollDice(nil)
		testutil.AssertGameError(t, err, apperrors.KindState, "DECISION_PENDING")
		if !reflect.DeepEqual(before, s.State()) {
			t.Error("failed roll changed state")
		}
		if !reflect.DeepEqual(dice, s.DiceState()) {
			t.Error("failed roll consumed randomness")
		}
	})

	t.Run("rejects roll during settlement", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		passPending(t, s)
		_, err := s.RollDice(nil)
		testutil.AssertGameError(t, err, apperrors.KindState, "INVALID_STATE")
	})
}

func TestDrawCard(t *testing.T) {
	s := startSession(t)

	_, err := s.DrawCard()
	testutil.AssertGameError(t, err, apperrors.KindState, "NO_PENDING_DECISION")

	res := roll(t, s)
	draw, err := s.DrawCard()
	testutil.AssertNoError(t, err)
	if draw.Opportunity == nil || draw.Opportunity.ID != res.Draw.Opportunity.ID {
		t.Errorf("expected pending card %s, got %+v", res.Draw.Opportunity.ID, draw)
	}

	again, err := s.DrawCard()
	testutil.AssertNoError(t, err)
	if again.Opportunity.ID != draw.Opportunity.ID {
		t.Error("drawCard must return the same pending card")
	}
}

func TestEndTurn(t *testing.T) {
	t.Run("requires a roll", func(t *testing.T) {
		s := startSession(t)
		_, err := s.EndTurn()
		testutil.AssertGameError(t, err, apperrors.KindState, "INVALID_STATE")
	})

	t.Run("requires resolved decision", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		_, err := s.EndTurn()
		testutil.AssertGameError(t, err, apperrors.KindState, "DECISION_PENDING")
	})

	t.Run("settles and advances", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		testutil.AssertNoError(t, s.PassCard())

		res := endTurn(t, s)
		if res.Settlement == nil || res.Settlement.CashFlow != 2500 {
			t.Fatalf("expected settlement of 2500, got %+v", res.Settlement)
		}
		st := s.State()
		if st.Player.CashOnHand != 5500 {
			t.Errorf("expected cash 5500, got %d", st.Player.CashOnHand)
		}
		if st.Player.CurrentTurn != 2 || st.TotalTurns != 1 || res.Turn != 2 {
			t.Errorf("expected turn 2 after 1 completed turn, got %d/%d", st.Player.CurrentTurn, st.TotalTurns)
		}
		if st.TurnState != engine.TurnAwaitingRoll || st.SettledThisTurn {
			t.Errorf("expected fresh turn, got %s settled=%t", st.TurnState, st.SettledThisTurn)
		}
	})

	t.Run("payday settles once", func(t *testing.T) {
		s := startSession(t, testutil.WithBoard(catalog.SpacePayday))
		res := roll(t, s)
		if res.Settlement == nil || res.Settlement.CashTo != 5500 {
			t.Fatalf("expected payday settlement to 5500, got %+v", res.Settlement)
		}
		turn := endTurn(t, s)
		if turn.Settlement != nil {
			t.Error("endTurn must not settle again after payday")
		}
		if got := s.State().Player.CashOnHand; got != 5500 {
			t.Errorf("expected cash 5500, got %d", got)
		}
	})
}

func TestSettlementMayGoNegative(t *testing.T) {
	laidOff := testutil.WithEvents(catalog.MarketEvent{
		ID: "laid-off", Title: "Laid off", Type: catalog.EventDownsized, Percent: 100, Turns: 5, Weight: 1,
	})
	s := startSession(t, testutil.WithBoard(catalog.SpaceMarket), laidOff)

	// No salary leaves 2500 of expenses uncovered each turn.
	for _, want := range []int64{500, -2000, -4500} {
		roll(t, s)
		res := endTurn(t, s)
		if res.Settlement == nil || res.Settlement.CashFlow != -2500 {
			t.Fatalf("expected a settlement of -2500, got %+v", res.Settlement)
		}
		if got := s.State().Player.CashOnHand; got != want {
			t.Fatalf("expected cash %d, got %d", want, got)
		}
	}

	t.Run("discretionary spending is still refused", func(t *testing.T) {
		opportunities := newEngine(testutil.NewTestCatalog(t, laidOff))
		s, err := opportunities.Resume(s.State(), s.DiceState())
		testutil.AssertNoError(t, err)

		roll(t, s)
		_, err = s.Purchase(testutil.RentalCardID)
		testutil.AssertGameError(t, err, apperrors.KindValidation, "INSUFFICIENT_FUNDS")

		loan, err := s.TakeLoan(1000)
		testutil.AssertNoError(t, err)
		_, err = s.PayOffLoan(loan.ID)
		testutil.AssertGameError(t, err, apperrors.KindValidation, "INSUFFICIENT_FUNDS")

		if got := s.State().Player.CashOnHand; got != -3500 {
			t.Errorf("expected only the loan to move cash, got %d", got)
		}
		assertInvariants(t, s)
	})
}

func TestEndGame(t *testing.T) {
	s := startSession(t)
	testutil.AssertNoError(t, s.EndGame())
	if s.State().Status != engine.StatusCompleted {
		t.Fatal("expected completed status")
	}

	_, err := s.RollDice(nil)
	testutil.AssertGameError(t, err, apperrors.KindState, "GAME_COMPLETED")
	_, err = s.TakeLoan(1000)
	testutil.AssertGameError(t, err, apperrors.KindState, "GAME_COMPLETED")
	testutil.AssertGameError(t, s.EndGame(), apperrors.KindState, "GAME_COMPLETED")
}

func TestDeterministicUnderSeed(t *testing.T) {
	cat, err := catalog.Default()
	testutil.AssertNoError(t, err)

	play := func() (engine.State, []byte) {
		s, err := newEngine(cat).Start("teacher", 2024)
		testutil.AssertNoError(t, err)
		for i := 0; i < 30; i++ {
			roll(t, s)
			passPending(t, s)
			endTurn(t, s)
		}
		return s.State(), s.DiceState()
	}

	st1, dice1 := play()
	st2, dice2 := play()
	if !reflect.DeepEqual(st1, st2) {
		t.Error("same seed and commands produced different states")
	}
	if !reflect.DeepEqual(dice1, dice2) {
		t.Error("same seed and commands produced different dice states")
	}
}

func TestResumeContinuesSequence(t *testing.T) {
	cat := testutil.NewTestCatalog(t)
	eng := newEngine(cat)

	s, err := eng.Start(testutil.TestProfessionID, 7)
	testutil.AssertNoError(t, err)
	roll(t, s)
	passPending(t, s)
	endTurn(t, s)

	resumed, err := eng.Resume(s.State(), s.DiceState())
	testutil.AssertNoError(t, err)

	want := roll(t, s)
	got := roll(t, resumed)
	if !reflect.DeepEqual(want.Dice, got.Dice) || want.Position != got.Position {
		t.Errorf("resumed session diverged: %+v vs %+v", want, got)
	}
	if !reflect.DeepEqual(s.State(), resumed.State()) {
		t.Error("resumed state diverged")
	}

	t.Run("rejects corrupt dice state", func(t *testing.T) {
		_, err := eng.Resume(s.State(), []byte("garbage"))
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})
}

func TestDeckPolicy(t *testing.T) {
	doodads := testutil.WithDoodads(
		catalog.Doodad{ID: "a", Title: "A", Cost: 10, Weight: 1},
		catalog.Doodad{ID: "b", Title: "B", Cost: 10, Weight: 1},
		catalog.Doodad{ID: "c", Title: "C", Cost: 10, Weight: 1},
	)

	t.Run("without replacement", func(t *testing.T) {
		s := startSession(t, testutil.WithBoard(catalog.SpaceDoodad), doodads)
		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			res := roll(t, s)
			seen[res.Draw.Doodad.ID] = true
			if got := len(s.State().Decks[catalog.DeckDoodad]); got != 2-i {
				t.Errorf("draw %d: expected %d cards left, got %d", i, 2-i, got)
			}
			passPending(t, s)
			endTurn(t, s)
		}
		if len(seen) != 3 {
			t.Errorf("expected every doodad once, got %v", seen)
		}

		roll(t, s)
		if got := len(s.State().Decks[catalog.DeckDoodad]); got != 2 {
			t.Errorf("expected refilled pool minus one draw, got %d", got)
		}
	})

	t.Run("with replacement", func(t *testing.T) {
		s := startSession(t,
			testutil.WithBoard(catalog.SpaceDoodad), doodads,
			testutil.WithDeckPolicy(catalog.DeckDoodad, catalog.WithReplacement),
		)
		for i := 0; i < 4; i++ {
			roll(t, s)
			if got := len(s.State().Decks[catalog.DeckDoodad]); got != 3 {
				t.Errorf("expected pool to stay at 3, got %d", got)
			}
			passPending(t, s)
			endTurn(t, s)
		}
	})
}
