package engine

import (
	"slices"

	"ratrace/internal/catalog"
	apperrors "ratrace/internal/errors"
)

// Sale is the outcome of selling an investment.
type Sale struct {
	Investment Investment `json:"investment"`
	SalePrice  int64      `json:"sale_price"`
	Profit     int64      `json:"profit"`
	Proceeds   int64      `json:"proceeds"`
}

// Purchase buys the pending opportunity card. The player pays the down
// payment for financed cards and the full cost otherwise.
func (s *Session) Purchase(cardID string) (Investment, error) {
	card, ok := s.eng.cat.Opportunity(cardID)
	if !ok {
		return Investment{}, apperrors.ErrCardNotFound
	}

	var inv Investment
	err := s.mutate(func(st *State) error {
		p, err := requirePending(st, catalog.SpaceOpportunity)
		if err != nil {
			return err
		}
		if p.CardID != cardID {
			return apperrors.WithMessagef(apperrors.ErrInvalidState, "Card %s is not the pending card", cardID)
		}

		upfront := card.UpfrontCost()
		if st.Player.CashOnHand < upfront {
			return apperrors.WithMessagef(apperrors.ErrInsufficientFunds, "Need %d, have %d", upfront, st.Player.CashOnHand)
		}

		inv = Investment{
			ID:              s.eng.newID(),
			CardID:          card.ID,
			Title:           card.Title,
			Kind:            card.Kind(),
			PurchasePrice:   card.Terms.Cost(),
			DownPaymentPaid: upfront,
			Mortgage:        card.Terms.Mortgage(),
			Shares:          card.Terms.Shares(),
			CurrentCashFlow: card.Terms.CashFlow(),
			PurchasedTurn:   st.Player.CurrentTurn,
			PurchasedAt:     s.eng.now(),
		}
		st.Player.CashOnHand -= upfront
		st.Player.PassiveIncome += inv.CurrentCashFlow
		st.Investments = append(st.Investments, inv)
		resolve(st)
		return nil
	})
	if err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// PassCard declines the pending opportunity card.
func (s *Session) PassCard() error {
	return s.mutate(func(st *State) error {
		if _, err := requirePending(st, catalog.SpaceOpportunity); err != nil {
			return err
		}
		resolve(st)
		return nil
	})
}

// Sell disposes of an investment at salePrice, which must lie within the
// card's sale range. The outstanding mortgage is retired from the price and
// the income the asset earned while held is credited with the proceeds.
// Selling is allowed at any point of an active turn.
func (s *Session) Sell(investmentID string, salePrice int64) (Sale, error) {
	var sale Sale
	err := s.mutate(func(st *State) error {
		i := slices.IndexFunc(st.Investments, func(inv Investment) bool { return inv.ID == investmentID })
		if i < 0 {
			return apperrors.ErrInvestmentNotFound
		}
		inv := st.Investments[i]

		lo, hi := inv.PurchasePrice, inv.PurchasePrice
		if card, ok := s.eng.cat.Opportunity(inv.CardID); ok {
			lo, hi = card.Terms.SaleRange()
		}
		if salePrice < lo || salePrice > hi {
			return apperrors.WithMessagef(apperrors.ErrSalePriceOutOfRange, "Sale price must be between %d and %d", lo, hi)
		}

		proceeds := salePrice - inv.Mortgage + inv.TotalIncomeEarned
		st.Player.CashOnHand += proceeds
		st.Player.PassiveIncome -= inv.CurrentCashFlow
		st.Investments = slices.Delete(st.Investments, i, i+1)

		sale = Sale{
			Investment: inv,
			SalePrice:  salePrice,
			Profit:     salePrice - inv.PurchasePrice,
			Proceeds:   proceeds,
		}
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}
