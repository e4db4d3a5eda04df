package engine

import (
	"ratrace/internal/catalog"
)

// Ledger is the income statement of a session at one instant. It is derived
// from state on demand and never stored.
type Ledger struct {
	Salary          int64 `json:"salary"`
	EffectiveSalary int64 `json:"effective_salary"`
	PassiveIncome   int64 `json:"passive_income"`
	TotalIncome     int64 `json:"total_income"`
	FixedExpenses   int64 `json:"fixed_expenses"`
	ChildExpenses   int64 `json:"child_expenses"`
	LoanPayments    int64 `json:"loan_payments"`
	TotalExpenses   int64 `json:"total_expenses"`
	CashFlow        int64 `json:"cash_flow"`
}

// ComputeLedger derives totals from the profession and the live registries.
// Passive income is summed from investments, not read from the player, so
// it doubles as the reference value for invariant checks.
func ComputeLedger(p catalog.Profession, st *State) Ledger {
	var l Ledger
	l.Salary = p.Salary
	l.EffectiveSalary = p.Salary * int64(100-st.SalaryCut()) / 100
	for _, inv := range st.Investments {
		l.PassiveIncome += inv.CurrentCashFlow
	}
	l.TotalIncome = l.EffectiveSalary + l.PassiveIncome

	l.FixedExpenses = p.FixedExpenses()
	l.ChildExpenses = p.ChildExpense * int64(st.Player.NumChildren)
	for _, li := range st.Liabilities {
		l.LoanPayments += li.MonthlyPayment
	}
	l.TotalExpenses = l.FixedExpenses + l.ChildExpenses + l.LoanPayments
	l.CashFlow = l.TotalIncome - l.TotalExpenses
	return l
}

// Settlement is one application of cash flow to cash on hand.
type Settlement struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	CashFlow int64 `json:"cash_flow"`
	CashFrom int64 `json:"cash_from"`
	CashTo   int64 `json:"cash_to"`
}

// settle applies the month's cash flow. The result may leave cash negative;
// debt-financed shortfalls are allowed to accumulate here, unlike
// discretionary spending which is rejected up front.
func (s *Session) settle(st *State) Settlement {
	l := ComputeLedger(s.prof, st)
	out := Settlement{
		Income:   l.TotalIncome,
		Expenses: l.TotalExpenses,
		CashFlow: l.CashFlow,
		CashFrom: st.Player.CashOnHand,
	}
	st.Player.CashOnHand += l.CashFlow
	for i := range st.Investments {
		st.Investments[i].TotalIncomeEarned += st.Investments[i].CurrentCashFlow
	}
	st.SettledThisTurn = true
	out.CashTo = st.Player.CashOnHand
	return out
}
