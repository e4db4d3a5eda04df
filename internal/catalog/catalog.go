// Package catalog loads the immutable reference data a deployment plays
// with: professions, opportunity cards, doodads, market events, boards and
// rules. A Catalog is built once and injected wherever it is needed.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	apperrors "ratrace/internal/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog is read-only after construction. Slices keep file order so draws
// over them are deterministic for a given seed.
type Catalog struct {
	Professions   []Profession
	Opportunities []OpportunityCard
	Doodads       []Doodad
	Events        []MarketEvent
	Rules         Rules

	professions   map[string]int
	opportunities map[string]int
	doodads       map[string]int
	events        map[string]int
}

type rawCatalog struct {
	Professions   []Profession  `yaml:"professions"`
	Opportunities []rawCard     `yaml:"opportunities"`
	Doodads       []Doodad      `yaml:"doodads"`
	Events        []MarketEvent `yaml:"events"`
	Rules         rawRules      `yaml:"rules"`
}

type rawCard struct {
	ID               string    `yaml:"id"`
	Title            string    `yaml:"title"`
	Description      string    `yaml:"description"`
	Kind             AssetKind `yaml:"kind"`
	Track            Track     `yaml:"track"`
	Weight           int       `yaml:"weight"`
	Cost             int64     `yaml:"cost"`
	DownPayment      int64     `yaml:"down_payment"`
	Mortgage         int64     `yaml:"mortgage"`
	CashFlow         int64     `yaml:"cash_flow"`
	MinSalePrice     int64     `yaml:"min_sale_price"`
	MaxSalePrice     int64     `yaml:"max_sale_price"`
	Symbol           string    `yaml:"symbol"`
	PricePerShare    int64     `yaml:"price_per_share"`
	Shares           int64     `yaml:"shares"`
	DividendPerShare int64     `yaml:"dividend_per_share"`
	Units            int       `yaml:"units"`
}

type rawRules struct {
	FastTrackTarget int64                       `yaml:"fast_track_target"`
	LoanRate        string                      `yaml:"loan_rate"`
	LoanIncrement   int64                       `yaml:"loan_increment"`
	MaxLoan         int64                       `yaml:"max_loan"`
	MaxChildren     int                         `yaml:"max_children"`
	KindWeights     map[Track]map[AssetKind]int `yaml:"kind_weights"`
	Decks           map[DeckKind]DeckPolicy     `yaml:"decks"`
	Boards          map[Track][]SpaceKind       `yaml:"boards"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// Open returns the catalog at path, or the embedded default when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog. Failures are reported as
// ErrInvalidCatalog carrying the cause.
func Load(r io.Reader) (*Catalog, error) {
	c, err := load(r)
	if err != nil {
		appErr := apperrors.WithMessagef(apperrors.ErrInvalidCatalog, "Invalid catalog: %v", err)
		appErr.Internal = err
		return nil, appErr
	}
	return c, nil
}

func load(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cards := make([]OpportunityCard, 0, len(raw.Opportunities))
	for _, rc := range raw.Opportunities {
		card, err := rc.build()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	rules, err := raw.Rules.build()
	if err != nil {
		return nil, err
	}

	return New(raw.Professions, cards, raw.Doodads, raw.Events, rules)
}

// New assembles and validates a catalog from already-typed templates.
func New(professions []Profession, cards []OpportunityCard, doodads []Doodad, events []MarketEvent, rules Rules) (*Catalog, error) {
	c := &Catalog{
		Professions:   slices.Clone(professions),
		Opportunities: slices.Clone(cards),
		Doodads:       slices.Clone(doodads),
		Events:        slices.Clone(events),
		Rules:         rules,
		professions:   make(map[string]int, len(professions)),
		opportunities: make(map[string]int, len(cards)),
		doodads:       make(map[string]int, len(doodads)),
		events:        make(map[string]int, len(events)),
	}

	for i, p := range professions {
		if p.ID == "" {
			return nil, fmt.Errorf("profession %d has no id", i)
		}
		if _, dup := c.professions[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profession %q", p.ID)
		}
		if p.Salary <= 0 || p.StartingCash < 0 {
			return nil, fmt.Errorf("profession %s: salary must be positive and starting cash non-negative", p.ID)
		}
		c.professions[p.ID] = i
	}

	tracks := map[Track]bool{}
	for i, card := range cards {
		if _, dup := c.opportunities[card.ID]; dup {
			return nil, fmt.Errorf("duplicate opportunity card %q", card.ID)
		}
		if card.Terms == nil {
			return nil, fmt.Errorf("card %s: missing terms", card.ID)
		}
		tracks[card.Track] = true
		c.opportunities[card.ID] = i
	}
	for _, track := range []Track{TrackRatRace, TrackFastTrack} {
		if !tracks[track] {
			return nil, fmt.Errorf("no opportunity cards for track %s", track)
		}
	}

	for i, d := range doodads {
		if d.ID == "" || d.Cost <= 0 {
			return nil, fmt.Errorf("doodad %d needs an id and a positive cost", i)
		}
		if _, dup := c.doodads[d.ID]; dup {
			return nil, fmt.Errorf("duplicate doodad %q", d.ID)
		}
		if d.Weight <= 0 {
			c.Doodads[i].Weight = 1
		}
		c.doodads[d.ID] = i
	}

	drawable := 0
	for i, e := range events {
		if e.ID == "" || !e.Type.IsValid() {
			return nil, fmt.Errorf("event %d needs an id and a known type", i)
		}
		if _, dup := c.events[e.ID]; dup {
			return nil, fmt.Errorf("duplicate event %q", e.ID)
		}
		switch e.Type {
		case EventDownsized:
			if e.Percent <= 0 || e.Percent > 100 || e.Turns <= 0 {
				return nil, fmt.Errorf("event %s: downsized needs percent in (0,100] and positive turns", e.ID)
			}
		case EventCharity:
			if e.Percent <= 0 || e.Percent > 100 || e.Turns <= 0 {
				return nil, fmt.Errorf("event %s: charity needs percent in (0,100] and positive turns", e.ID)
			}
		}
		if e.Type != EventCharity {
			drawable++
		}
		if e.Weight <= 0 {
			c.Events[i].Weight = 1
		}
		c.events[e.ID] = i
	}
	if len(doodads) == 0 || drawable == 0 {
		return nil, fmt.Errorf("catalog needs at least one doodad and one drawable market event")
	}

	for _, track := range []Track{TrackRatRace, TrackFastTrack} {
		board := rules.Board(track)
		if len(board) == 0 {
			return nil, fmt.Errorf("board %s has no spaces", track)
		}
		for i, space := range board {
			if !space.IsValid() {
				return nil, fmt.Errorf("board %s space %d: unknown kind %q", track, i, space)
			}
		}
	}
	if rules.FastTrackTarget <= 0 || rules.LoanIncrement <= 0 || !rules.LoanRate.IsPositive() {
		return nil, fmt.Errorf("rules need a positive fast track target, loan increment and loan rate")
	}
	if rules.MaxLoan < rules.LoanIncrement {
		return nil, fmt.Errorf("rules: max_loan %d is below the loan increment %d", rules.MaxLoan, rules.LoanIncrement)
	}

	return c, nil
}

// Profession looks up a profession by id.
func (c *Catalog) Profession(id string) (Profession, bool) {
	i, ok := c.professions[id]
	if !ok {
		return Profession{}, false
	}
	return c.Professions[i], true
}

// Opportunity looks up an opportunity card by id.
func (c *Catalog) Opportunity(id string) (OpportunityCard, bool) {
	i, ok := c.opportunities[id]
	if !ok {
		return OpportunityCard{}, false
	}
	return c.Opportunities[i], true
}

// Doodad looks up a doodad by id.
func (c *Catalog) Doodad(id string) (Doodad, bool) {
	i, ok := c.doodads[id]
	if !ok {
		return Doodad{}, false
	}
	return c.Doodads[i], true
}

// Event looks up a market event by id.
func (c *Catalog) Event(id string) (MarketEvent, bool) {
	i, ok := c.events[id]
	if !ok {
		return MarketEvent{}, false
	}
	return c.Events[i], true
}

// CharityOffer returns the first charity template, used by charity spaces.
func (c *Catalog) CharityOffer() (MarketEvent, bool) {
	for _, e := range c.Events {
		if e.Type == EventCharity {
			return e, true
		}
	}
	return MarketEvent{}, false
}

// DeckIDs returns the full draw pool for a deck in catalog order. Charity
// events are offered on charity spaces and never drawn.
func (c *Catalog) DeckIDs(deck DeckKind) []string {
	var ids []string
	switch deck {
	case DeckOpportunity:
		for _, card := range c.Opportunities {
			ids = append(ids, card.ID)
		}
	case DeckDoodad:
		for _, d := range c.Doodads {
			ids = append(ids, d.ID)
		}
	case DeckMarket:
		for _, e := range c.Events {
			if e.Type != EventCharity {
				ids = append(ids, e.ID)
			}
		}
	}
	return ids
}

func (rc rawCard) build() (OpportunityCard, error) {
	var terms Terms
	switch rc.Kind {
	case KindRealEstate:
		terms = RealEstate{
			Price: rc.Cost, Down: rc.DownPayment, Loan: rc.Mortgage, Flow: rc.CashFlow,
			MinSale: rc.MinSalePrice, MaxSale: rc.MaxSalePrice, Units: rc.Units,
		}
	case KindStock:
		terms = Stock{
			Symbol: rc.Symbol, PricePerShare: rc.PricePerShare, ShareCount: rc.Shares,
			DividendPerShare: rc.DividendPerShare, MinSale: rc.MinSalePrice, MaxSale: rc.MaxSalePrice,
		}
	case KindBusiness:
		terms = Business{
			Price: rc.Cost, Down: rc.DownPayment, Loan: rc.Mortgage, Flow: rc.CashFlow,
			MinSale: rc.MinSalePrice, MaxSale: rc.MaxSalePrice,
		}
	case KindLimitedPartnership:
		terms = LimitedPartnership{
			Price: rc.Cost, Flow: rc.CashFlow, MinSale: rc.MinSalePrice, MaxSale: rc.MaxSalePrice,
		}
	default:
		return OpportunityCard{}, fmt.Errorf("card %s: unknown kind %q", rc.ID, rc.Kind)
	}

	card, err := NewOpportunityCard(rc.ID, rc.Title, rc.Track, rc.Weight, terms)
	if err != nil {
		return OpportunityCard{}, err
	}
	card.Description = rc.Description
	return card, nil
}

func (rr rawRules) build() (Rules, error) {
	rate := decimal.NewFromFloat(0.10)
	if rr.LoanRate != "" {
		parsed, err := decimal.NewFromString(rr.LoanRate)
		if err != nil {
			return Rules{}, fmt.Errorf("rules: invalid loan_rate %q: %w", rr.LoanRate, err)
		}
		rate = parsed
	}
	for deck, policy := range rr.Decks {
		if !policy.IsValid() {
			return Rules{}, fmt.Errorf("rules: deck %s has unknown policy %q", deck, policy)
		}
	}

	r := Rules{
		FastTrackTarget: rr.FastTrackTarget,
		LoanRate:        rate,
		LoanIncrement:   rr.LoanIncrement,
		MaxLoan:         rr.MaxLoan,
		MaxChildren:     rr.MaxChildren,
		KindWeights:     rr.KindWeights,
		Decks:           rr.Decks,
		Boards:          rr.Boards,
	}
	if r.FastTrackTarget == 0 {
		r.FastTrackTarget = 50000
	}
	if r.LoanIncrement == 0 {
		r.LoanIncrement = 1000
	}
	if r.MaxChildren == 0 {
		r.MaxChildren = 3
	}
	if r.MaxLoan == 0 {
		r.MaxLoan = 1_000_000
	}
	return r, nil
}
