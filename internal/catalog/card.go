package catalog

import (
	"encoding/json"
	"fmt"
)

// AssetKind is the asset class of an opportunity card.
type AssetKind string

const (
	KindRealEstate         AssetKind = "real_estate"
	KindStock              AssetKind = "stock"
	KindBusiness           AssetKind = "business"
	KindLimitedPartnership AssetKind = "limited_partnership"
)

// AssetKinds lists every asset kind in draw order.
var AssetKinds = []AssetKind{KindStock, KindRealEstate, KindLimitedPartnership, KindBusiness}

// IsValid reports whether k is a known asset kind.
func (k AssetKind) IsValid() bool {
	switch k {
	case KindRealEstate, KindStock, KindBusiness, KindLimitedPartnership:
		return true
	}
	return false
}

// Terms holds the kind-specific economics of an opportunity card. The set of
// implementations is closed: RealEstate, Stock, Business and LimitedPartnership.
type Terms interface {
	Kind() AssetKind
	// Cost is the full purchase price.
	Cost() int64
	// DownPayment is the cash due at purchase. Unfinanced cards are paid in full.
	DownPayment() int64
	// Mortgage is the financed part of Cost, retired when the asset is sold.
	Mortgage() int64
	// CashFlow is the monthly passive income the asset produces.
	CashFlow() int64
	SaleRange() (lo, hi int64)
	Shares() int64

	validate() error
}

// RealEstate is a mortgaged property.
type RealEstate struct {
	Price   int64
	Down    int64
	Loan    int64
	Flow    int64
	MinSale int64
	MaxSale int64
	Units   int
}

func (t RealEstate) Kind() AssetKind           { return KindRealEstate }
func (t RealEstate) Cost() int64               { return t.Price }
func (t RealEstate) DownPayment() int64        { return t.Down }
func (t RealEstate) Mortgage() int64           { return t.Loan }
func (t RealEstate) CashFlow() int64           { return t.Flow }
func (t RealEstate) SaleRange() (int64, int64) { return t.MinSale, t.MaxSale }
func (t RealEstate) Shares() int64             { return 0 }

func (t RealEstate) validate() error {
	if t.Price <= 0 || t.Down <= 0 {
		return fmt.Errorf("real estate needs a positive cost and down payment")
	}
	if t.Down+t.Loan != t.Price {
		return fmt.Errorf("real estate down payment %d plus mortgage %d must equal cost %d", t.Down, t.Loan, t.Price)
	}
	return validateSaleRange(t.MinSale, t.MaxSale, t.Loan)
}

// Stock is a block of shares bought outright.
type Stock struct {
	Symbol           string
	PricePerShare    int64
	ShareCount       int64
	DividendPerShare int64
	MinSale          int64
	MaxSale          int64
}

func (t Stock) Kind() AssetKind           { return KindStock }
func (t Stock) Cost() int64               { return t.PricePerShare * t.ShareCount }
func (t Stock) DownPayment() int64        { return t.Cost() }
func (t Stock) Mortgage() int64           { return 0 }
func (t Stock) CashFlow() int64           { return t.DividendPerShare * t.ShareCount }
func (t Stock) SaleRange() (int64, int64) { return t.MinSale, t.MaxSale }
func (t Stock) Shares() int64             { return t.ShareCount }

func (t Stock) validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("stock needs a symbol")
	}
	if t.PricePerShare <= 0 || t.ShareCount <= 0 {
		return fmt.Errorf("stock %s needs a positive share price and share count", t.Symbol)
	}
	if t.DividendPerShare < 0 {
		return fmt.Errorf("stock %s has a negative dividend", t.Symbol)
	}
	return validateSaleRange(t.MinSale, t.MaxSale, 0)
}

// Business is an owned business, optionally bank financed.
type Business struct {
	Price   int64
	Down    int64
	Loan    int64
	Flow    int64
	MinSale int64
	MaxSale int64
}

func (t Business) Kind() AssetKind           { return KindBusiness }
func (t Business) Cost() int64               { return t.Price }
func (t Business) DownPayment() int64        { return t.Down }
func (t Business) Mortgage() int64           { return t.Loan }
func (t Business) CashFlow() int64           { return t.Flow }
func (t Business) SaleRange() (int64, int64) { return t.MinSale, t.MaxSale }
func (t Business) Shares() int64             { return 0 }

func (t Business) validate() error {
	if t.Price <= 0 || t.Down <= 0 {
		return fmt.Errorf("business needs a positive cost and down payment")
	}
	if t.Down+t.Loan != t.Price {
		return fmt.Errorf("business down payment %d plus loan %d must equal cost %d", t.Down, t.Loan, t.Price)
	}
	return validateSaleRange(t.MinSale, t.MaxSale, t.Loan)
}

// LimitedPartnership is a partnership stake paid in full.
type LimitedPartnership struct {
	Price   int64
	Flow    int64
	MinSale int64
	MaxSale int64
}

func (t LimitedPartnership) Kind() AssetKind           { return KindLimitedPartnership }
func (t LimitedPartnership) Cost() int64               { return t.Price }
func (t LimitedPartnership) DownPayment() int64        { return t.Price }
func (t LimitedPartnership) Mortgage() int64           { return 0 }
func (t LimitedPartnership) CashFlow() int64           { return t.Flow }
func (t LimitedPartnership) SaleRange() (int64, int64) { return t.MinSale, t.MaxSale }
func (t LimitedPartnership) Shares() int64             { return 0 }

func (t LimitedPartnership) validate() error {
	if t.Price <= 0 {
		return fmt.Errorf("limited partnership needs a positive cost")
	}
	return validateSaleRange(t.MinSale, t.MaxSale, 0)
}

// validateSaleRange keeps sale proceeds non-negative: the outstanding mortgage
// is retired from the sale price.
func validateSaleRange(lo, hi, mortgage int64) error {
	if lo <= 0 || hi < lo {
		return fmt.Errorf("invalid sale range [%d, %d]", lo, hi)
	}
	if lo < mortgage {
		return fmt.Errorf("minimum sale price %d is below mortgage %d", lo, mortgage)
	}
	return nil
}

// OpportunityCard is an investable asset template.
type OpportunityCard struct {
	ID          string
	Title       string
	Description string
	Track       Track
	Weight      int
	Terms       Terms
}

// NewOpportunityCard validates terms and builds a card.
func NewOpportunityCard(id, title string, track Track, weight int, terms Terms) (OpportunityCard, error) {
	if id == "" {
		return OpportunityCard{}, fmt.Errorf("opportunity card needs an id")
	}
	if !track.IsValid() {
		return OpportunityCard{}, fmt.Errorf("card %s: unknown track %q", id, track)
	}
	if terms == nil {
		return OpportunityCard{}, fmt.Errorf("card %s: missing terms", id)
	}
	if err := terms.validate(); err != nil {
		return OpportunityCard{}, fmt.Errorf("card %s: %w", id, err)
	}
	if weight <= 0 {
		weight = 1
	}
	return OpportunityCard{ID: id, Title: title, Track: track, Weight: weight, Terms: terms}, nil
}

// Kind is shorthand for c.Terms.Kind().
func (c OpportunityCard) Kind() AssetKind { return c.Terms.Kind() }

// UpfrontCost is the cash needed to buy the card: the down payment when the
// card is financed, otherwise the full cost.
func (c OpportunityCard) UpfrontCost() int64 {
	if c.Terms.Mortgage() > 0 {
		return c.Terms.DownPayment()
	}
	return c.Terms.Cost()
}

// MarshalJSON flattens the terms into a single card payload.
func (c OpportunityCard) MarshalJSON() ([]byte, error) {
	lo, hi := c.Terms.SaleRange()
	payload := map[string]any{
		"id":             c.ID,
		"title":          c.Title,
		"description":    c.Description,
		"kind":           c.Kind(),
		"track":          c.Track,
		"cost":           c.Terms.Cost(),
		"down_payment":   c.Terms.DownPayment(),
		"mortgage":       c.Terms.Mortgage(),
		"cash_flow":      c.Terms.CashFlow(),
		"min_sale_price": lo,
		"max_sale_price": hi,
		"shares":         c.Terms.Shares(),
	}
	if s, ok := c.Terms.(Stock); ok {
		payload["symbol"] = s.Symbol
	}
	return json.Marshal(payload)
}
