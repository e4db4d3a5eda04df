package engine_test

import (
	"reflect"
	"testing"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/testutil"
)

// buyRental rolls onto the rental card and buys it.
func buyRental(t *testing.T, s *engine.Session) engine.Investment {
	t.Helper()
	res := roll(t, s)
	if res.Draw == nil || res.Draw.Opportunity == nil || res.Draw.Opportunity.ID != testutil.RentalCardID {
		t.Fatalf("expected the rental card, got %+v", res.Draw)
	}
	inv, err := s.Purchase(testutil.RentalCardID)
	testutil.AssertNoError(t, err)
	assertInvariants(t, s)
	return inv
}

func TestPurchase(t *testing.T) {
	t.Run("unknown card", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		_, err := s.Purchase("nope")
		testutil.AssertGameError(t, err, apperrors.KindNotFound, "CARD_NOT_FOUND")
	})

	t.Run("no pending card", func(t *testing.T) {
		s := startSession(t)
		_, err := s.Purchase(testutil.RentalCardID)
		testutil.AssertGameError(t, err, apperrors.KindState, "NO_PENDING_DECISION")
	})

	t.Run("card is not the pending card", func(t *testing.T) {
		s := startSession(t)
		roll(t, s)
		_, err := s.Purchase(testutil.FastTrackCardID)
		testutil.AssertGameError(t, err, apperrors.KindState, "INVALID_STATE")
	})

	t.Run("insufficient funds leaves state unchanged", func(t *testing.T) {
		cat := testutil.NewTestCatalog(t)
		eng := newEngine(cat)
		s, err := eng.Start(testutil.TestProfessionID, 42)
		testutil.AssertNoError(t, err)
		roll(t, s)

		st := s.State()
		st.Player.CashOnHand = 1999
		s, err = eng.Resume(st, s.DiceState())
		testutil.AssertNoError(t, err)

		_, err = s.Purchase(testutil.RentalCardID)
		testutil.AssertGameError(t, err, apperrors.KindValidation, "INSUFFICIENT_FUNDS")
		if !reflect.DeepEqual(st, s.State()) {
			t.Error("failed purchase changed state")
		}
	})

	t.Run("buys with down payment", func(t *testing.T) {
		s := startSession(t)
		inv := buyRental(t, s)

		if inv.PurchasePrice != 20000 || inv.DownPaymentPaid != 2000 || inv.Mortgage != 18000 {
			t.Errorf("unexpected investment %+v", inv)
		}
		if inv.CurrentCashFlow != 300 || inv.Kind != catalog.KindRealEstate {
			t.Errorf("unexpected investment %+v", inv)
		}
		st := s.State()
		if st.Player.CashOnHand != 1000 || st.Player.PassiveIncome != 300 {
			t.Errorf("expected cash 1000 and passive 300, got %d and %d", st.Player.CashOnHand, st.Player.PassiveIncome)
		}
		if st.Pending != nil || st.TurnState != engine.TurnSettlement {
			t.Errorf("expected resolved decision, got %s", st.TurnState)
		}
	})
}

func TestPassCard(t *testing.T) {
	s := startSession(t)
	testutil.AssertGameError(t, s.PassCard(), apperrors.KindState, "NO_PENDING_DECISION")

	roll(t, s)
	before := s.State().Player
	testutil.AssertNoError(t, s.PassCard())
	if s.State().Player != before {
		t.Error("passing a card must not change the player")
	}
}

func TestSell(t *testing.T) {
	t.Run("round trip at purchase price", func(t *testing.T) {
		s := startSession(t)
		before := s.State().Player
		inv := buyRental(t, s)

		sale, err := s.Sell(inv.ID, inv.PurchasePrice)
		testutil.AssertNoError(t, err)
		assertInvariants(t, s)

		after := s.State().Player
		if after.CashOnHand != before.CashOnHand {
			t.Errorf("expected cash back to %d, got %d", before.CashOnHand, after.CashOnHand)
		}
		if after.PassiveIncome != before.PassiveIncome {
			t.Errorf("expected passive income back to %d, got %d", before.PassiveIncome, after.PassiveIncome)
		}
		if sale.Profit != 0 {
			t.Errorf("expected zero profit, got %d", sale.Profit)
		}
		if len(s.State().Investments) != 0 {
			t.Error("expected investment removed")
		}
	})

	t.Run("credits income earned while held", func(t *testing.T) {
		s := startSession(t)
		inv := buyRental(t, s)
		endTurn(t, s)

		st := s.State()
		held, ok := st.Investment(inv.ID)
		if !ok || held.TotalIncomeEarned != 300 {
			t.Fatalf("expected 300 earned after one turn, got %+v", held)
		}

		cash := s.State().Player.CashOnHand
		sale, err := s.Sell(inv.ID, 25000)
		testutil.AssertNoError(t, err)
		if sale.Profit != 5000 {
			t.Errorf("expected profit 5000, got %d", sale.Profit)
		}
		if want := cash + 25000 - 18000 + 300; s.State().Player.CashOnHand != want {
			t.Errorf("expected cash %d, got %d", want, s.State().Player.CashOnHand)
		}
	})

	t.Run("rejects price outside sale range", func(t *testing.T) {
		s := startSession(t)
		inv := buyRental(t, s)
		before := s.State()

		for _, price := range []int64{17999, 30001, 0, -5} {
			_, err := s.Sell(inv.ID, price)
			testutil.AssertGameError(t, err, apperrors.KindValidation, "SALE_PRICE_OUT_OF_RANGE")
		}
		if !reflect.DeepEqual(before, s.State()) {
			t.Error("rejected sale changed state")
		}

		for _, price := range []int64{18000, 30000} {
			s2 := startSession(t)
			inv2 := buyRental(t, s2)
			_, err := s2.Sell(inv2.ID, price)
			testutil.AssertNoError(t, err)
		}
	})

	t.Run("unknown investment", func(t *testing.T) {
		s := startSession(t)
		_, err := s.Sell("missing", 20000)
		testutil.AssertGameError(t, err, apperrors.KindNotFound, "INVESTMENT_NOT_FOUND")
	})
}
