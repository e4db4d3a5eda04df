package engine

import "ratrace/internal/catalog"

// Line is one labelled amount on a statement.
type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// AssetLine is one held investment on the balance sheet.
type AssetLine struct {
	InvestmentID string            `json:"investment_id"`
	Title        string            `json:"title"`
	Kind         catalog.AssetKind `json:"kind"`
	Cost         int64             `json:"cost"`
	Mortgage     int64             `json:"mortgage"`
	CashFlow     int64             `json:"cash_flow"`
	Shares       int64             `json:"shares,omitempty"`
}

// Statement is the player's financial statement: an income statement and a
// balance sheet.
type Statement struct {
	Profession string        `json:"profession"`
	Phase      catalog.Track `json:"phase"`
	Turn       int           `json:"turn"`

	Salary          int64  `json:"salary"`
	EffectiveSalary int64  `json:"effective_salary"`
	PassiveIncome   []Line `json:"passive_income"`
	TotalIncome     int64  `json:"total_income"`
	Expenses        []Line `json:"expenses"`
	TotalExpenses   int64  `json:"total_expenses"`
	CashFlow        int64  `json:"cash_flow"`

	CashOnHand  int64       `json:"cash_on_hand"`
	Savings     int64       `json:"savings"`
	Assets      []AssetLine `json:"assets"`
	Liabilities []Line      `json:"liabilities"`
	NetWorth    int64       `json:"net_worth"`

	FastTrackTarget int64 `json:"fast_track_target"`
}

// Statement builds the financial statement for the current state.
func (s *Session) Statement() Statement {
	return BuildStatement(s.prof, &s.state, s.eng.cat.Rules)
}

// BuildStatement derives a statement from a profession and state.
func BuildStatement(p catalog.Profession, st *State, rules catalog.Rules) Statement {
	l := ComputeLedger(p, st)
	out := Statement{
		Profession:      p.Title,
		Phase:           st.CurrentPhase,
		Turn:            st.Player.CurrentTurn,
		Salary:          l.Salary,
		EffectiveSalary: l.EffectiveSalary,
		PassiveIncome:   []Line{},
		TotalIncome:     l.TotalIncome,
		TotalExpenses:   l.TotalExpenses,
		CashFlow:        l.CashFlow,
		CashOnHand:      st.Player.CashOnHand,
		Savings:         st.Player.Savings,
		Assets:          []AssetLine{},
		FastTrackTarget: rules.FastTrackTarget,
	}

	out.Expenses = []Line{
		{"taxes", p.Taxes},
		{"home_mortgage_payment", p.MortgagePayment},
		{"school_loan_payment", p.SchoolLoanPayment},
		{"car_loan_payment", p.CarLoanPayment},
		{"credit_card_payment", p.CreditCardPayment},
		{"retail_payment", p.RetailPayment},
		{"other_expenses", p.OtherExpenses},
		{"child_expenses", l.ChildExpenses},
		{"bank_loan_payments", l.LoanPayments},
	}

	out.Liabilities = []Line{
		{"home_mortgage", p.HomeMortgage},
		{"school_loans", p.SchoolLoans},
		{"car_loans", p.CarLoans},
		{"credit_card_debt", p.CreditCardDebt},
		{"retail_debt", p.RetailDebt},
	}

	netWorth := st.Player.CashOnHand + st.Player.Savings - p.StartingDebt()
	for _, inv := range st.Investments {
		out.PassiveIncome = append(out.PassiveIncome, Line{inv.Title, inv.CurrentCashFlow})
		out.Assets = append(out.Assets, AssetLine{
			InvestmentID: inv.ID,
			Title:        inv.Title,
			Kind:         inv.Kind,
			Cost:         inv.PurchasePrice,
			Mortgage:     inv.Mortgage,
			CashFlow:     inv.CurrentCashFlow,
			Shares:       inv.Shares,
		})
		if inv.Mortgage > 0 {
			out.Liabilities = append(out.Liabilities, Line{inv.Title + " mortgage", inv.Mortgage})
		}
		netWorth += inv.PurchasePrice - inv.Mortgage
	}
	for _, li := range st.Liabilities {
		out.Liabilities = append(out.Liabilities, Line{"bank_loan", li.RemainingBalance})
		netWorth -= li.RemainingBalance
	}
	out.NetWorth = netWorth
	return out
}
