package engine

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	apperrors "ratrace/internal/errors"
)

var monthsPerYear = decimal.NewFromInt(12)

// MonthlyPayment is amount times the annual rate over twelve months,
// truncated toward zero.
func MonthlyPayment(amount int64, annualRate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(annualRate).Div(monthsPerYear).IntPart()
}

// TakeLoan borrows amount from the bank. No credit check is made; the amount
// must be a positive multiple of the catalog's loan increment, no larger than
// its max loan.
func (s *Session) TakeLoan(amount int64) (Liability, error) {
	rules := s.eng.cat.Rules
	if amount <= 0 || amount%rules.LoanIncrement != 0 {
		return Liability{}, apperrors.WithMessagef(apperrors.ErrInvalidAmount, "Loan amount must be a positive multiple of %d", rules.LoanIncrement)
	}
	if rules.MaxLoan > 0 && amount > rules.MaxLoan {
		return Liability{}, apperrors.WithMessagef(apperrors.ErrInvalidAmount, "Loan amount must be at most %d", rules.MaxLoan)
	}

	var loan Liability
	err := s.mutate(func(st *State) error {
		if st.Player.CashOnHand > 0 && amount > math.MaxInt64-st.Player.CashOnHand {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Loan amount would overflow cash on hand")
		}
		loan = Liability{
			ID:               s.eng.newID(),
			Type:             LiabilityTypeBankLoan,
			PrincipalAmount:  amount,
			RemainingBalance: amount,
			MonthlyPayment:   MonthlyPayment(amount, rules.LoanRate),
			InterestRate:     rules.LoanRate,
			TakenAt:          s.eng.now(),
		}
		st.Player.CashOnHand += amount
		st.Liabilities = append(st.Liabilities, loan)
		return nil
	})
	if err != nil {
		return Liability{}, err
	}
	return loan, nil
}

// PayOffLoan repays a loan in full. Partial repayment is not supported.
func (s *Session) PayOffLoan(liabilityID string) (Liability, error) {
	var paid Liability
	err := s.mutate(func(st *State) error {
		i := slices.IndexFunc(st.Liabilities, func(l Liability) bool { return l.ID == liabilityID })
		if i < 0 {
			return apperrors.ErrLiabilityNotFound
		}
		paid = st.Liabilities[i]
		if st.Player.CashOnHand < paid.RemainingBalance {
			return apperrors.WithMessagef(apperrors.ErrInsufficientFunds, "Need %d to pay off the loan, have %d", paid.RemainingBalance, st.Player.CashOnHand)
		}
		st.Player.CashOnHand -= paid.RemainingBalance
		st.Liabilities = slices.Delete(st.Liabilities, i, i+1)
		return nil
	})
	if err != nil {
		return Liability{}, err
	}
	return paid, nil
}
