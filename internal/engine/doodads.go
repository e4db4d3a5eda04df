package engine

import (
	"ratrace/internal/catalog"
	apperrors "ratrace/internal/errors"
)

// BuyDoodad pays for the pending doodad.
func (s *Session) BuyDoodad(doodadID string) (PlayerDoodad, error) {
	d, ok := s.eng.cat.Doodad(doodadID)
	if !ok {
		return PlayerDoodad{}, apperrors.ErrDoodadNotFound
	}

	var bought PlayerDoodad
	err := s.mutate(func(st *State) error {
		p, err := requirePending(st, catalog.SpaceDoodad)
		if err != nil {
			return err
		}
		if p.CardID != doodadID {
			return apperrors.WithMessagef(apperrors.ErrInvalidState, "Doodad %s is not the pending doodad", doodadID)
		}
		if st.Player.CashOnHand < d.Cost {
			return apperrors.WithMessagef(apperrors.ErrInsufficientFunds, "Need %d, have %d", d.Cost, st.Player.CashOnHand)
		}

		bought = PlayerDoodad{
			ID:          s.eng.newID(),
			DoodadID:    d.ID,
			Title:       d.Title,
			Category:    d.Category,
			Cost:        d.Cost,
			Turn:        st.Player.CurrentTurn,
			PurchasedAt: s.eng.now(),
		}
		st.Player.CashOnHand -= d.Cost
		st.Doodads = append(st.Doodads, bought)
		resolve(st)
		return nil
	})
	if err != nil {
		return PlayerDoodad{}, err
	}
	return bought, nil
}

// PassDoodad skips the pending doodad.
func (s *Session) PassDoodad() error {
	return s.mutate(func(st *State) error {
		if _, err := requirePending(st, catalog.SpaceDoodad); err != nil {
			return err
		}
		resolve(st)
		return nil
	})
}
