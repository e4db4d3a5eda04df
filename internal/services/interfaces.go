package services

import (
	"time"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
	"ratrace/internal/models"
	"ratrace/internal/pagination"
)

// Command identifies the game a mutating request targets and who sent it.
// IdempotencyKey is optional; a repeated key on the same game is rejected.
type Command struct {
	OwnerID        string
	GameID         string
	IdempotencyKey string
}

// GameView is the client-facing snapshot of a session after a command.
type GameView struct {
	ID           string                `json:"id"`
	OwnerID      string                `json:"owner_id"`
	ProfessionID string                `json:"profession_id"`
	Status       engine.Status         `json:"status"`
	CurrentPhase catalog.Track         `json:"current_phase"`
	TotalTurns   int                   `json:"total_turns"`
	TurnState    engine.TurnState      `json:"turn_state"`
	Pending      *engine.Pending       `json:"pending,omitempty"`
	LastRoll     []int                 `json:"last_roll,omitempty"`
	Modifiers    []engine.Modifier     `json:"modifiers"`
	Player       engine.Player         `json:"player"`
	Investments  []engine.Investment   `json:"investments"`
	Liabilities  []engine.Liability    `json:"liabilities"`
	Doodads      []engine.PlayerDoodad `json:"doodads"`
	Ledger       engine.Ledger         `json:"ledger"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
}

// CommandResult pairs a command's own result with the game it left behind.
type CommandResult[T any] struct {
	Result T         `json:"result"`
	Game   *GameView `json:"game"`
}

// Passed describes a declined card.
type Passed struct {
	Space  catalog.SpaceKind `json:"space"`
	CardID string            `json:"card_id"`
}

// CharityOutcome is the result of answering a charity offer.
type CharityOutcome struct {
	Accepted bool  `json:"accepted"`
	Donation int64 `json:"donation"`
}

// FinalScore summarizes a game when it is ended.
type FinalScore struct {
	TotalTurns        int   `json:"total_turns"`
	NetWorth          int64 `json:"net_worth"`
	PassiveIncome     int64 `json:"passive_income"`
	HasEscapedRatRace bool  `json:"has_escaped_rat_race"`
	IsOnFastTrack     bool  `json:"is_on_fast_track"`
}

// GameFilter holds optional filter parameters for listing games.
type GameFilter struct {
	Status *engine.Status
}

// GameServicer defines the contract for session lifecycle and read models.
type GameServicer interface {
	CreateGame(ownerID, professionID string) (*GameView, error)
	GetGame(ownerID, gameID string) (*GameView, error)
	ListGames(ownerID string, page pagination.PageRequest, filter GameFilter) (*pagination.PageResponse[models.GameSession], error)
	DeleteGame(ownerID, gameID string) error
	EndGame(cmd Command) (*CommandResult[FinalScore], error)
	GetStatement(ownerID, gameID string) (*engine.Statement, error)
}

// TurnServicer defines the contract for the turn cycle.
type TurnServicer interface {
	RollDice(cmd Command, suggested *int) (*CommandResult[engine.RollResult], error)
	DrawCard(ownerID, gameID string) (*engine.Draw, error)
	ResolveCharity(cmd Command, accept bool) (*CommandResult[CharityOutcome], error)
	EndTurn(cmd Command) (*CommandResult[engine.TurnResult], error)
}

// PortfolioServicer defines the contract for asset, doodad and loan decisions.
type PortfolioServicer interface {
	Purchase(cmd Command, cardID string) (*CommandResult[engine.Investment], error)
	PassCard(cmd Command) (*CommandResult[Passed], error)
	Sell(cmd Command, investmentID string, salePrice int64) (*CommandResult[engine.Sale], error)
	BuyDoodad(cmd Command, doodadID string) (*CommandResult[engine.PlayerDoodad], error)
	PassDoodad(cmd Command) (*CommandResult[Passed], error)
	TakeLoan(cmd Command, amount int64) (*CommandResult[engine.Liability], error)
	PayOffLoan(cmd Command, liabilityID string) (*CommandResult[engine.Liability], error)
}

// HistoryServicer defines the contract for a game's event log and turn snapshots.
type HistoryServicer interface {
	ListEvents(ownerID, gameID string, page pagination.PageRequest) (*pagination.PageResponse[models.GameEvent], error)
	ListSnapshots(ownerID, gameID string, page pagination.PageRequest) (*pagination.PageResponse[models.TurnSnapshot], error)
}

// AdminServicer defines the contract for maintenance operations.
type AdminServicer interface {
	PurgeCompleted(completedBefore time.Time) (int64, error)
}
