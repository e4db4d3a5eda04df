package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"ratrace/internal/catalog"
)

// Status is the lifecycle status of a game session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// TurnState is the position of a session in the turn state machine.
type TurnState string

const (
	TurnAwaitingRoll            TurnState = "awaiting_roll"
	TurnRolling                 TurnState = "rolling"
	TurnSpaceResolution         TurnState = "space_resolution"
	TurnAwaitingCardDecision    TurnState = "awaiting_card_decision"
	TurnAwaitingCharityDecision TurnState = "awaiting_charity_decision"
	TurnSettlement              TurnState = "turn_settlement"
)

// ModifierKind names a temporary effect on the player.
type ModifierKind string

const (
	// ModifierSalaryCut reduces salary by Percent for TurnsLeft settlements.
	ModifierSalaryCut ModifierKind = "salary_cut"
	// ModifierCharityDice lets the player roll two dice for TurnsLeft rolls.
	ModifierCharityDice ModifierKind = "charity_dice"
)

// LiabilityTypeBankLoan is the only liability type a player can originate.
const LiabilityTypeBankLoan = "bank_loan"

// Player is the mutable per-session player record.
type Player struct {
	CashOnHand        int64 `json:"cash_on_hand"`
	Savings           int64 `json:"savings"`
	NumChildren       int   `json:"num_children"`
	CurrentTurn       int   `json:"current_turn"`
	CurrentPosition   int   `json:"current_position"`
	PassiveIncome     int64 `json:"passive_income"`
	HasEscapedRatRace bool  `json:"has_escaped_rat_race"`
	IsOnFastTrack     bool  `json:"is_on_fast_track"`
}

// Investment is an owned opportunity card.
type Investment struct {
	ID                string            `json:"id"`
	CardID            string            `json:"card_id"`
	Title             string            `json:"title"`
	Kind              catalog.AssetKind `json:"kind"`
	PurchasePrice     int64             `json:"purchase_price"`
	DownPaymentPaid   int64             `json:"down_payment_paid"`
	Mortgage          int64             `json:"mortgage"`
	Shares            int64             `json:"shares"`
	CurrentCashFlow   int64             `json:"current_cash_flow"`
	TotalIncomeEarned int64             `json:"total_income_earned"`
	PurchasedTurn     int               `json:"purchased_turn"`
	PurchasedAt       time.Time         `json:"purchased_at"`
}

// Liability is a bank loan taken during play.
type Liability struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	PrincipalAmount  int64           `json:"principal_amount"`
	RemainingBalance int64           `json:"remaining_balance"`
	MonthlyPayment   int64           `json:"monthly_payment"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TakenAt          time.Time       `json:"taken_at"`
}

// PlayerDoodad records a doodad purchase. It is a sunk cost.
type PlayerDoodad struct {
	ID          string    `json:"id"`
	DoodadID    string    `json:"doodad_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Cost        int64     `json:"cost"`
	Turn        int       `json:"turn"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Modifier is an expiring effect.
type Modifier struct {
	Kind      ModifierKind `json:"kind"`
	Percent   int          `json:"percent,omitempty"`
	TurnsLeft int          `json:"turns_left"`
	Source    string       `json:"source"`
}

// Pending is the decision the player owes before the turn can end.
type Pending struct {
	Space  catalog.SpaceKind `json:"space"`
	Deck   catalog.DeckKind  `json:"deck,omitempty"`
	CardID string            `json:"card_id"`
}

// State is the complete, serializable state of one game session. The
// persistence layer stores it field by field and hands it back to Resume.
type State struct {
	ID              string                        `json:"id"`
	ProfessionID    string                        `json:"profession_id"`
	Status          Status                        `json:"status"`
	CurrentPhase    catalog.Track                 `json:"current_phase"`
	TotalTurns      int                           `json:"total_turns"`
	TurnState       TurnState                     `json:"turn_state"`
	Pending         *Pending                      `json:"pending,omitempty"`
	SettledThisTurn bool                          `json:"settled_this_turn"`
	LastRoll        []int                         `json:"last_roll,omitempty"`
	Decks           map[catalog.DeckKind][]string `json:"decks"`
	Modifiers       []Modifier                    `json:"modifiers"`
	Player          Player                        `json:"player"`
	Investments     []Investment                  `json:"investments"`
	Liabilities     []Liability                   `json:"liabilities"`
	Doodads         []PlayerDoodad                `json:"doodads"`
	CreatedAt       time.Time                     `json:"created_at"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	c.LastRoll = append([]int(nil), s.LastRoll...)
	c.Decks = make(map[catalog.DeckKind][]string, len(s.Decks))
	for k, ids := range s.Decks {
		c.Decks[k] = append([]string(nil), ids...)
	}
	c.Modifiers = append([]Modifier(nil), s.Modifiers...)
	c.Investments = append([]Investment(nil), s.Investments...)
	c.Liabilities = append([]Liability(nil), s.Liabilities...)
	c.Doodads = append([]PlayerDoodad(nil), s.Doodads...)
	return c
}

// Investment returns the owned investment with id.
func (s *State) Investment(id string) (Investment, bool) {
	for _, inv := range s.Investments {
		if inv.ID == id {
			return inv, true
		}
	}
	return Investment{}, false
}

// Liability returns the live liability with id.
func (s *State) Liability(id string) (Liability, bool) {
	for _, l := range s.Liabilities {
		if l.ID == id {
			return l, true
		}
	}
	return Liability{}, false
}

// SalaryCut is the combined active salary reduction in percent, capped at 100.
func (s *State) SalaryCut() int {
	cut := 0
	for _, m := range s.Modifiers {
		if m.Kind == ModifierSalaryCut {
			cut += m.Percent
		}
	}
	if cut > 100 {
		cut = 100
	}
	return cut
}

