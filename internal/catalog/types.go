package catalog

import "github.com/shopspring/decimal"

// Track identifies a game phase. Opportunity cards and boards are bound to a track.
type Track string

const (
	TrackRatRace   Track = "rat_race"
	TrackFastTrack Track = "fast_track"
)

// IsValid reports whether t is a known track.
func (t Track) IsValid() bool {
	return t == TrackRatRace || t == TrackFastTrack
}

// SpaceKind is the type of a board space.
type SpaceKind string

const (
	SpaceOpportunity SpaceKind = "opportunity"
	SpaceMarket      SpaceKind = "market"
	SpaceDoodad      SpaceKind = "doodad"
	SpacePayday      SpaceKind = "payday"
	SpaceCharity     SpaceKind = "charity"
)

// IsValid reports whether k is a known space kind.
func (k SpaceKind) IsValid() bool {
	switch k {
	case SpaceOpportunity, SpaceMarket, SpaceDoodad, SpacePayday, SpaceCharity:
		return true
	}
	return false
}

// EventType is the type of a market event.
type EventType string

const (
	EventBaby      EventType = "baby"
	EventDownsized EventType = "downsized"
	EventCharity   EventType = "charity"
	EventPaycheck  EventType = "paycheck"
)

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	switch t {
	case EventBaby, EventDownsized, EventCharity, EventPaycheck:
		return true
	}
	return false
}

// DeckPolicy controls whether drawn cards return to the pool.
type DeckPolicy string

const (
	// WithoutReplacement removes drawn cards and refills the pool once it runs dry.
	WithoutReplacement DeckPolicy = "without_replacement"
	// WithReplacement leaves the pool unchanged on every draw.
	WithReplacement DeckPolicy = "with_replacement"
)

// IsValid reports whether p is a known policy.
func (p DeckPolicy) IsValid() bool {
	return p == WithoutReplacement || p == WithReplacement
}

// DeckKind names one of the three per-session draw pools.
type DeckKind string

const (
	DeckOpportunity DeckKind = "opportunity"
	DeckDoodad      DeckKind = "doodad"
	DeckMarket      DeckKind = "market"
)

// Profession is the immutable template a player starts from. All amounts are
// whole currency units.
type Profession struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	Salary int64 `json:"salary" yaml:"salary"`

	// Fixed monthly obligations.
	Taxes             int64 `json:"taxes" yaml:"taxes"`
	MortgagePayment   int64 `json:"mortgage_payment" yaml:"mortgage_payment"`
	SchoolLoanPayment int64 `json:"school_loan_payment" yaml:"school_loan_payment"`
	CarLoanPayment    int64 `json:"car_loan_payment" yaml:"car_loan_payment"`
	CreditCardPayment int64 `json:"credit_card_payment" yaml:"credit_card_payment"`
	RetailPayment     int64 `json:"retail_payment" yaml:"retail_payment"`
	OtherExpenses     int64 `json:"other_expenses" yaml:"other_expenses"`
	ChildExpense      int64 `json:"child_expense" yaml:"child_expense"`

	// Starting debt principals.
	HomeMortgage   int64 `json:"home_mortgage" yaml:"home_mortgage"`
	SchoolLoans    int64 `json:"school_loans" yaml:"school_loans"`
	CarLoans       int64 `json:"car_loans" yaml:"car_loans"`
	CreditCardDebt int64 `json:"credit_card_debt" yaml:"credit_card_debt"`
	RetailDebt     int64 `json:"retail_debt" yaml:"retail_debt"`

	StartingCash int64 `json:"starting_cash" yaml:"starting_cash"`
	Savings      int64 `json:"savings" yaml:"savings"`
}

// FixedExpenses is the sum of the profession's fixed monthly payments,
// excluding per-child expenses.
func (p Profession) FixedExpenses() int64 {
	return p.Taxes + p.MortgagePayment + p.SchoolLoanPayment + p.CarLoanPayment +
		p.CreditCardPayment + p.RetailPayment + p.OtherExpenses
}

// StartingDebt is the sum of the profession's embedded debt principals.
func (p Profession) StartingDebt() int64 {
	return p.HomeMortgage + p.SchoolLoans + p.CarLoans + p.CreditCardDebt + p.RetailDebt
}

// Doodad is a discretionary purchase template.
type Doodad struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Category string `json:"category" yaml:"category"`
	Cost     int64  `json:"cost" yaml:"cost"`
	Weight   int    `json:"weight" yaml:"weight"`
}

// MarketEvent is an event template. Percent and Turns are only meaningful for
// downsized (salary cut) and charity (share of total income, benefit length).
type MarketEvent struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Type       EventType `json:"type" yaml:"type"`
	CashChange int64     `json:"cash_change" yaml:"cash_change"`
	Percent    int       `json:"percent,omitempty" yaml:"percent"`
	Turns      int       `json:"turns,omitempty" yaml:"turns"`
	Weight     int       `json:"weight" yaml:"weight"`
}

// Rules are the table-driven game constants.
type Rules struct {
	FastTrackTarget int64                       `json:"fast_track_target"`
	LoanRate        decimal.Decimal             `json:"loan_rate"`
	LoanIncrement   int64                       `json:"loan_increment"`
	MaxLoan         int64                       `json:"max_loan"`
	MaxChildren     int                         `json:"max_children"`
	KindWeights     map[Track]map[AssetKind]int `json:"kind_weights"`
	Decks           map[DeckKind]DeckPolicy     `json:"decks"`
	Boards          map[Track][]SpaceKind       `json:"boards"`
}

// Policy returns the draw policy for deck, defaulting to WithoutReplacement.
func (r Rules) Policy(deck DeckKind) DeckPolicy {
	if p, ok := r.Decks[deck]; ok && p.IsValid() {
		return p
	}
	return WithoutReplacement
}

// Board returns the space layout for track.
func (r Rules) Board(track Track) []SpaceKind {
	return r.Boards[track]
}
