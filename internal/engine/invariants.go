package engine

import (
	"fmt"

	"ratrace/internal/catalog"
)

// CheckInvariants verifies the cross-field rules every committed state must
// satisfy. Callers run it after each command before persisting.
func (s *Session) CheckInvariants() error {
	return CheckInvariants(s.prof, &s.state)
}

// CheckInvariants is the state-only form of Session.CheckInvariants.
func CheckInvariants(p catalog.Profession, st *State) error {
	l := ComputeLedger(p, st)
	if st.Player.PassiveIncome != l.PassiveIncome {
		return fmt.Errorf("passive income %d does not match investments total %d", st.Player.PassiveIncome, l.PassiveIncome)
	}

	var loans int64
	for _, li := range st.Liabilities {
		if li.RemainingBalance <= 0 || li.MonthlyPayment < 0 {
			return fmt.Errorf("liability %s has balance %d and payment %d", li.ID, li.RemainingBalance, li.MonthlyPayment)
		}
		loans += li.MonthlyPayment
	}
	want := p.FixedExpenses() + p.ChildExpense*int64(st.Player.NumChildren) + loans
	if l.TotalExpenses != want {
		return fmt.Errorf("total expenses %d, expected %d", l.TotalExpenses, want)
	}

	if st.Player.NumChildren < 0 {
		return fmt.Errorf("negative number of children")
	}
	if (st.CurrentPhase == catalog.TrackFastTrack) != st.Player.HasEscapedRatRace {
		return fmt.Errorf("phase %s disagrees with escape flag %t", st.CurrentPhase, st.Player.HasEscapedRatRace)
	}
	if st.Player.IsOnFastTrack && !st.Player.HasEscapedRatRace {
		return fmt.Errorf("win flag set before escaping the rat race")
	}

	pending := st.TurnState == TurnAwaitingCardDecision || st.TurnState == TurnAwaitingCharityDecision
	if pending != (st.Pending != nil) {
		return fmt.Errorf("turn state %s disagrees with pending decision", st.TurnState)
	}
	return nil
}
