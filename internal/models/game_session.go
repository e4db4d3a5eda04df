package models

import (
	"time"

	"gorm.io/datatypes"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
)

// GameSession is one player's game. Scalar state lives in columns; the
// pending decision, deck pools, modifiers and last roll are JSON.
type GameSession struct {
	Base
	OwnerID         string           `gorm:"not null;index" json:"owner_id"`
	ProfessionID    string           `gorm:"not null" json:"profession_id"`
	Status          engine.Status    `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	CurrentPhase    catalog.Track    `gorm:"type:varchar(16);not null" json:"current_phase"`
	TotalTurns      int              `gorm:"not null;default:0" json:"total_turns"`
	TurnState       engine.TurnState `gorm:"type:varchar(32);not null" json:"turn_state"`
	SettledThisTurn bool             `gorm:"not null;default:false" json:"settled_this_turn"`
	Pending         datatypes.JSON   `json:"pending,omitempty"`
	Decks           datatypes.JSON   `gorm:"not null" json:"-"`
	Modifiers       datatypes.JSON   `json:"modifiers,omitempty"`
	LastRoll        datatypes.JSON   `json:"last_roll,omitempty"`
	DiceState       []byte           `gorm:"not null" json:"-"`
	Version         int              `gorm:"not null;default:0" json:"version"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`

	// Relationships
	Player      Player         `gorm:"foreignKey:GameID" json:"player"`
	Investments []Investment   `gorm:"foreignKey:GameID" json:"investments,omitempty"`
	Liabilities []Liability    `gorm:"foreignKey:GameID" json:"liabilities,omitempty"`
	Doodads     []PlayerDoodad `gorm:"foreignKey:GameID" json:"doodads,omitempty"`
}

// Player is the 1:1 player record of a game.
type Player struct {
	Base
	GameID            string `gorm:"type:uuid;not null;uniqueIndex" json:"game_id"`
	CashOnHand        int64  `gorm:"type:bigint;not null" json:"cash_on_hand"`
	Savings           int64  `gorm:"type:bigint;not null;default:0" json:"savings"`
	NumChildren       int    `gorm:"not null;default:0" json:"num_children"`
	CurrentTurn       int    `gorm:"not null;default:1" json:"current_turn"`
	CurrentPosition   int    `gorm:"not null;default:0" json:"current_position"`
	PassiveIncome     int64  `gorm:"type:bigint;not null;default:0" json:"passive_income"`
	HasEscapedRatRace bool   `gorm:"not null;default:false" json:"has_escaped_rat_race"`
	IsOnFastTrack     bool   `gorm:"not null;default:false" json:"is_on_fast_track"`
}
