package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "ratrace/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	if len(c.Professions) == 0 {
		t.Fatal("expected professions")
	}
	if got := len(c.Rules.Board(TrackRatRace)); got != 24 {
		t.Errorf("expected 24 rat race spaces, got %d", got)
	}
	if got := len(c.Rules.Board(TrackFastTrack)); got != 40 {
		t.Errorf("expected 40 fast track spaces, got %d", got)
	}
	if c.Rules.FastTrackTarget != 50000 {
		t.Errorf("expected fast track target 50000, got %d", c.Rules.FastTrackTarget)
	}
	if c.Rules.LoanRate.String() != "0.1" {
		t.Errorf("expected loan rate 0.1, got %s", c.Rules.LoanRate)
	}

	teacher, ok := c.Profession("teacher")
	if !ok {
		t.Fatal("expected teacher profession")
	}
	if got := teacher.FixedExpenses(); got != 2060 {
		t.Errorf("expected teacher fixed expenses 2060, got %d", got)
	}

	if _, ok := c.CharityOffer(); !ok {
		t.Error("expected a charity offer")
	}
	for _, id := range c.DeckIDs(DeckMarket) {
		e, _ := c.Event(id)
		if e.Type == EventCharity {
			t.Errorf("charity event %s must not be in the market deck", id)
		}
	}
}

func TestCardVariants(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	house, ok := c.Opportunity("re-house-3-2")
	if !ok {
		t.Fatal("expected house card")
	}
	re, ok := house.Terms.(RealEstate)
	if !ok {
		t.Fatalf("expected RealEstate terms, got %T", house.Terms)
	}
	if re.Down != 5000 || house.UpfrontCost() != 5000 {
		t.Errorf("expected upfront 5000, got %d", house.UpfrontCost())
	}

	stock, ok := c.Opportunity("stock-on2u")
	if !ok {
		t.Fatal("expected stock card")
	}
	if stock.Kind() != KindStock {
		t.Errorf("expected stock kind, got %s", stock.Kind())
	}
	if stock.Terms.Cost() != 1000 || stock.UpfrontCost() != 1000 {
		t.Errorf("expected stock paid in full at 1000, got cost %d upfront %d", stock.Terms.Cost(), stock.UpfrontCost())
	}
	if stock.Terms.Shares() != 100 {
		t.Errorf("expected 100 shares, got %d", stock.Terms.Shares())
	}
}

func TestNewOpportunityCardValidation(t *testing.T) {
	tests := []struct {
		name  string
		terms Terms
		want  string
	}{
		{
			name:  "real estate financing mismatch",
			terms: RealEstate{Price: 65000, Down: 5000, Loan: 50000, Flow: 100, MinSale: 60000, MaxSale: 90000},
			want:  "must equal cost",
		},
		{
			name:  "stock without shares",
			terms: Stock{Symbol: "XYZ", PricePerShare: 10, MinSale: 1, MaxSale: 2},
			want:  "share count",
		},
		{
			name:  "inverted sale range",
			terms: LimitedPartnership{Price: 5000, Flow: 100, MinSale: 9000, MaxSale: 6000},
			want:  "invalid sale range",
		},
		{
			name:  "sale below mortgage",
			terms: Business{Price: 25000, Down: 10000, Loan: 15000, Flow: 800, MinSale: 10000, MaxSale: 60000},
			want:  "below mortgage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpportunityCard("card", "Card", TrackRatRace, 1, tt.terms)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	t.Run("unknown track", func(t *testing.T) {
		_, err := NewOpportunityCard("card", "Card", Track("moon"), 1, LimitedPartnership{Price: 1, Flow: 1, MinSale: 1, MaxSale: 1})
		if err == nil {
			t.Fatal("expected unknown track error")
		}
	})
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("professions:\n  - id: x\n    salray: 10\n"))
	if err == nil {
		t.Fatal("expected decode error for unknown field")
	}
	if !errors.Is(err, apperrors.ErrInvalidCatalog) || apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected an invalid catalog error, got %v", err)
	}
}

func TestNewLeavesInputsUntouched(t *testing.T) {
	rental, err := NewOpportunityCard("rental", "Rental", TrackRatRace, 1, RealEstate{
		Price: 10, Down: 2, Loan: 8, Flow: 1, MinSale: 8, MaxSale: 20, Units: 1,
	})
	if err != nil {
		t.Fatalf("build card: %v", err)
	}
	fast, err := NewOpportunityCard("fast", "Fast", TrackFastTrack, 1, LimitedPartnership{Price: 5, Flow: 1, MinSale: 5, MaxSale: 5})
	if err != nil {
		t.Fatalf("build card: %v", err)
	}
	doodads := []Doodad{{ID: "tv", Title: "TV", Cost: 100}}
	events := []MarketEvent{{ID: "bonus", Title: "Bonus", Type: EventPaycheck, CashChange: 10}}
	rules := Rules{
		FastTrackTarget: 100,
		LoanRate:        decimal.RequireFromString("0.10"),
		LoanIncrement:   1000,
		MaxLoan:         10000,
		Boards: map[Track][]SpaceKind{
			TrackRatRace:   {SpaceMarket},
			TrackFastTrack: {SpaceOpportunity},
		},
	}

	c, err := New([]Profession{{ID: "p", Title: "P", Salary: 10}}, []OpportunityCard{rental, fast}, doodads, events, rules)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if doodads[0].Weight != 0 || events[0].Weight != 0 {
		t.Errorf("caller templates were modified: doodad weight %d, event weight %d", doodads[0].Weight, events[0].Weight)
	}
	if c.Doodads[0].Weight != 1 || c.Events[0].Weight != 1 {
		t.Errorf("expected default weights in the catalog, got %d and %d", c.Doodads[0].Weight, c.Events[0].Weight)
	}

	t.Run("rejects a cap below the increment", func(t *testing.T) {
		low := rules
		low.MaxLoan = 500
		if _, err := New([]Profession{{ID: "p", Title: "P", Salary: 10}}, []OpportunityCard{rental, fast}, doodads, events, low); err == nil {
			t.Error("expected max_loan below the increment to be rejected")
		}
	})
}

func TestLoadRejectsUnknownDeckPolicy(t *testing.T) {
	doc := `
rules:
  decks:
    doodad: sometimes
`
	_, err := Load(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown policy") {
		t.Fatalf("expected unknown policy error, got %v", err)
	}
}

func TestRulesPolicyDefault(t *testing.T) {
	r := Rules{Decks: map[DeckKind]DeckPolicy{DeckDoodad: WithReplacement}}
	if r.Policy(DeckDoodad) != WithReplacement {
		t.Error("expected configured policy")
	}
	if r.Policy(DeckMarket) != WithoutReplacement {
		t.Error("expected without_replacement default")
	}
}

func TestOpen(t *testing.T) {
	t.Run("empty path uses the embedded catalog", func(t *testing.T) {
		c, err := Open("")
		if err != nil {
			t.Fatalf("open default: %v", err)
		}
		if len(c.Professions) == 0 {
			t.Error("expected professions")
		}
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, defaultYAML, 0o600); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
		c, err := Open(path)
		if err != nil {
			t.Fatalf("open file: %v", err)
		}
		def, _ := Default()
		if len(c.Opportunities) != len(def.Opportunities) {
			t.Errorf("expected %d cards, got %d", len(def.Opportunities), len(c.Opportunities))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
