package testutil

import (
	"testing"

	"github.com/shopspring/decimal"

	"ratrace/internal/catalog"
)

// Identifiers of the templates in NewTestCatalog.
const (
	TestProfessionID = "tester"
	RentalCardID     = "rental"
	FastTrackCardID  = "ft-partnership"
	GadgetDoodadID   = "gadget"
	BabyEventID      = "baby"
	DownsizedEventID = "downsized"
	BonusEventID     = "bonus"
	CharityEventID   = "charity"
)

// TestMaxLoan is the largest single loan NewTestCatalog allows.
const TestMaxLoan = 100_000

// CatalogSpec is the input to NewTestCatalog.
type CatalogSpec struct {
	Profession catalog.Profession
	RatRace    []catalog.SpaceKind
	FastTrack  []catalog.SpaceKind
	Cards      []catalog.OpportunityCard
	Doodads    []catalog.Doodad
	Events     []catalog.MarketEvent
	Decks      map[catalog.DeckKind]catalog.DeckPolicy
	MaxLoan    int64
}

// CatalogOption customizes a CatalogSpec.
type CatalogOption func(*CatalogSpec)

// WithBoard replaces the rat race board.
func WithBoard(spaces ...catalog.SpaceKind) CatalogOption {
	return func(s *CatalogSpec) { s.RatRace = spaces }
}

// WithEvents replaces the market events. Include a charity event to keep
// charity spaces live.
func WithEvents(events ...catalog.MarketEvent) CatalogOption {
	return func(s *CatalogSpec) { s.Events = events }
}

// WithDoodads replaces the doodads.
func WithDoodads(doodads ...catalog.Doodad) CatalogOption {
	return func(s *CatalogSpec) { s.Doodads = doodads }
}

// WithDeckPolicy sets the draw policy of one deck.
func WithDeckPolicy(deck catalog.DeckKind, policy catalog.DeckPolicy) CatalogOption {
	return func(s *CatalogSpec) { s.Decks[deck] = policy }
}

// WithMaxLoan replaces the loan cap.
func WithMaxLoan(n int64) CatalogOption {
	return func(s *CatalogSpec) { s.MaxLoan = n }
}

// Event returns the default test event with id.
func Event(id string) catalog.MarketEvent {
	for _, e := range defaultEvents() {
		if e.ID == id {
			return e
		}
	}
	return catalog.MarketEvent{}
}

func defaultEvents() []catalog.MarketEvent {
	return []catalog.MarketEvent{
		{ID: BabyEventID, Title: "Baby", Type: catalog.EventBaby, CashChange: -100, Weight: 1},
		{ID: DownsizedEventID, Title: "Downsized", Type: catalog.EventDownsized, Percent: 50, Turns: 2, Weight: 1},
		{ID: BonusEventID, Title: "Bonus", Type: catalog.EventPaycheck, CashChange: 1000, Weight: 1},
		{ID: CharityEventID, Title: "Charity", Type: catalog.EventCharity, Percent: 10, Turns: 3, Weight: 1},
	}
}

// NewTestCatalog builds a small catalog with round numbers. The tester
// profession earns 5000, pays 2500 in fixed expenses, 200 per child, and
// starts with 3000 cash. The rental card costs 20000 with 2000 down and
// yields 300 a month. The default rat race board is all opportunity spaces.
func NewTestCatalog(t *testing.T, opts ...CatalogOption) *catalog.Catalog {
	t.Helper()

	rental, err := catalog.NewOpportunityCard(RentalCardID, "Rental House", catalog.TrackRatRace, 1, catalog.RealEstate{
		Price: 20000, Down: 2000, Loan: 18000, Flow: 300, MinSale: 18000, MaxSale: 30000, Units: 1,
	})
	if err != nil {
		t.Fatalf("failed to build rental card: %v", err)
	}
	partnership, err := catalog.NewOpportunityCard(FastTrackCardID, "Fast Track Partnership", catalog.TrackFastTrack, 1, catalog.LimitedPartnership{
		Price: 10000, Flow: 5000, MinSale: 10000, MaxSale: 20000,
	})
	if err != nil {
		t.Fatalf("failed to build fast track card: %v", err)
	}

	spec := &CatalogSpec{
		Profession: catalog.Profession{
			ID:            TestProfessionID,
			Title:         "Tester",
			Salary:        5000,
			Taxes:         1000,
			OtherExpenses: 1500,
			ChildExpense:  200,
			HomeMortgage:  40000,
			StartingCash:  3000,
		},
		RatRace:   repeat(catalog.SpaceOpportunity, 6),
		FastTrack: repeat(catalog.SpaceOpportunity, 8),
		Cards:     []catalog.OpportunityCard{rental, partnership},
		Doodads:   []catalog.Doodad{{ID: GadgetDoodadID, Title: "Gadget", Category: "electronics", Cost: 500, Weight: 1}},
		Events:    defaultEvents(),
		Decks:     map[catalog.DeckKind]catalog.DeckPolicy{},
		MaxLoan:   TestMaxLoan,
	}
	for _, opt := range opts {
		opt(spec)
	}

	rules := catalog.Rules{
		FastTrackTarget: 50000,
		LoanRate:        decimal.RequireFromString("0.10"),
		LoanIncrement:   1000,
		MaxLoan:         spec.MaxLoan,
		MaxChildren:     3,
		Decks:           spec.Decks,
		Boards: map[catalog.Track][]catalog.SpaceKind{
			catalog.TrackRatRace:   spec.RatRace,
			catalog.TrackFastTrack: spec.FastTrack,
		},
	}
	cat, err := catalog.New([]catalog.Profession{spec.Profession}, spec.Cards, spec.Doodads, spec.Events, rules)
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return cat
}

func repeat(space catalog.SpaceKind, n int) []catalog.SpaceKind {
	out := make([]catalog.SpaceKind, n)
	for i := range out {
		out[i] = space
	}
	return out
}
