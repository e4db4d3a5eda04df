package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ratrace/internal/catalog"
	"ratrace/internal/uuid"
)

// GameEvent is the append-only log of committed commands. CommandKey holds
// the client's Idempotency-Key; it is unique per game when present.
type GameEvent struct {
	Base
	GameID     string         `gorm:"type:uuid;not null;index;uniqueIndex:idx_game_events_command" json:"game_id"`
	Action     string         `gorm:"type:varchar(32);not null" json:"action"`
	Turn       int            `gorm:"not null" json:"turn"`
	CashOnHand int64          `gorm:"type:bigint;not null" json:"cash_on_hand"`
	Payload    datatypes.JSON `json:"payload,omitempty"`
	CommandKey *string        `gorm:"type:varchar(128);uniqueIndex:idx_game_events_command" json:"command_key,omitempty"`
}

// TurnSnapshot records the player's finances at the end of a turn.
// This is immutable time-series data: no Base embed, no soft deletes.
type TurnSnapshot struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	GameID        string        `gorm:"type:uuid;not null;index" json:"game_id"`
	Turn          int           `gorm:"not null" json:"turn"`
	Phase         catalog.Track `gorm:"type:varchar(16);not null" json:"phase"`
	RecordedAt    time.Time     `gorm:"not null" json:"recorded_at"`
	CashOnHand    int64         `gorm:"type:bigint;not null" json:"cash_on_hand"`
	PassiveIncome int64         `gorm:"type:bigint;not null" json:"passive_income"`
	TotalIncome   int64         `gorm:"type:bigint;not null" json:"total_income"`
	TotalExpenses int64         `gorm:"type:bigint;not null" json:"total_expenses"`
	CashFlow      int64         `gorm:"type:bigint;not null" json:"cash_flow"`
	NetWorth      int64         `gorm:"type:bigint;not null" json:"net_worth"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *TurnSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
