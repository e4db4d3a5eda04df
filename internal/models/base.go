package models

import (
	"time"

	"ratrace/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Engine-generated records
// arrive with their ID already set; everything else gets a UUIDv7.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&GameSession{},
		&Player{},
		&Investment{},
		&Liability{},
		&PlayerDoodad{},
		&GameEvent{},
		&TurnSnapshot{},
	}
}
