package engine

import (
	"github.com/shopspring/decimal"

	"ratrace/internal/catalog"
	apperrors "ratrace/internal/errors"
)

// applyEvent resolves a drawn market event. Its cash delta is forced, so
// like settlement it may drive cash negative.
func (s *Session) applyEvent(st *State, ev catalog.MarketEvent) {
	st.Player.CashOnHand += ev.CashChange
	switch ev.Type {
	case catalog.EventBaby:
		if st.Player.NumChildren < s.eng.cat.Rules.MaxChildren {
			st.Player.NumChildren++
		}
	case catalog.EventDownsized:
		st.Modifiers = append(st.Modifiers, Modifier{
			Kind:      ModifierSalaryCut,
			Percent:   ev.Percent,
			TurnsLeft: ev.Turns,
			Source:    ev.ID,
		})
	}
}

// CharityDonation is the cost of accepting the pending charity offer.
func (s *Session) CharityDonation() (int64, error) {
	p, err := requirePending(&s.state, catalog.SpaceCharity)
	if err != nil {
		return 0, err
	}
	offer, ok := s.eng.cat.Event(p.CardID)
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return s.donation(&s.state, offer), nil
}

func (s *Session) donation(st *State, offer catalog.MarketEvent) int64 {
	income := ComputeLedger(s.prof, st).TotalIncome
	return decimal.NewFromInt(income).
		Mul(decimal.NewFromInt(int64(offer.Percent))).
		Div(decimal.NewFromInt(100)).
		IntPart()
}

// AcceptCharity donates a share of total income for extra dice on the next
// rolls. The donation is discretionary and needs the cash up front.
func (s *Session) AcceptCharity() (int64, error) {
	var paid int64
	err := s.mutate(func(st *State) error {
		p, err := requirePending(st, catalog.SpaceCharity)
		if err != nil {
			return err
		}
		offer, ok := s.eng.cat.Event(p.CardID)
		if !ok {
			return apperrors.ErrNotFound
		}

		paid = s.donation(st, offer)
		if st.Player.CashOnHand < paid {
			return apperrors.WithMessagef(apperrors.ErrInsufficientFunds, "Donation of %d exceeds cash on hand %d", paid, st.Player.CashOnHand)
		}
		st.Player.CashOnHand -= paid
		st.Modifiers = append(st.Modifiers, Modifier{
			Kind:      ModifierCharityDice,
			TurnsLeft: offer.Turns,
			Source:    offer.ID,
		})
		resolve(st)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// DeclineCharity passes on the charity offer.
func (s *Session) DeclineCharity() error {
	return s.mutate(func(st *State) error {
		if _, err := requirePending(st, catalog.SpaceCharity); err != nil {
			return err
		}
		resolve(st)
		return nil
	})
}

// useModifier consumes one use of the first active modifier of kind.
func (s *Session) useModifier(st *State, kind ModifierKind) bool {
	for i, m := range st.Modifiers {
		if m.Kind != kind || m.TurnsLeft <= 0 {
			continue
		}
		st.Modifiers[i].TurnsLeft--
		if st.Modifiers[i].TurnsLeft == 0 {
			st.Modifiers = append(st.Modifiers[:i], st.Modifiers[i+1:]...)
		}
		return true
	}
	return false
}

// tickModifiers counts down every modifier of kind and drops expired ones.
func (s *Session) tickModifiers(st *State, kind ModifierKind) []Modifier {
	var expired []Modifier
	live := st.Modifiers[:0]
	for _, m := range st.Modifiers {
		if m.Kind == kind {
			m.TurnsLeft--
			if m.TurnsLeft <= 0 {
				expired = append(expired, m)
				continue
			}
		}
		live = append(live, m)
	}
	st.Modifiers = live
	return expired
}
