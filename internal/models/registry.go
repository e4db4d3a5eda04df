package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ratrace/internal/catalog"
)

// Investment is an owned opportunity card.
type Investment struct {
	Base
	GameID            string            `gorm:"type:uuid;not null;index" json:"game_id"`
	CardID            string            `gorm:"not null" json:"card_id"`
	Title             string            `gorm:"not null" json:"title"`
	Kind              catalog.AssetKind `gorm:"type:varchar(32);not null" json:"kind"`
	PurchasePrice     int64             `gorm:"type:bigint;not null" json:"purchase_price"`
	DownPaymentPaid   int64             `gorm:"type:bigint;not null" json:"down_payment_paid"`
	Mortgage          int64             `gorm:"type:bigint;not null;default:0" json:"mortgage"`
	Shares            int64             `gorm:"type:bigint;not null;default:0" json:"shares"`
	CurrentCashFlow   int64             `gorm:"type:bigint;not null" json:"current_cash_flow"`
	TotalIncomeEarned int64             `gorm:"type:bigint;not null;default:0" json:"total_income_earned"`
	PurchasedTurn     int               `gorm:"not null" json:"purchased_turn"`
	PurchasedAt       time.Time         `gorm:"not null" json:"purchased_at"`
}

// Liability is a bank loan.
type Liability struct {
	Base
	GameID           string          `gorm:"type:uuid;not null;index" json:"game_id"`
	Type             string          `gorm:"type:varchar(32);not null" json:"type"`
	PrincipalAmount  int64           `gorm:"type:bigint;not null" json:"principal_amount"`
	RemainingBalance int64           `gorm:"type:bigint;not null" json:"remaining_balance"`
	MonthlyPayment   int64           `gorm:"type:bigint;not null" json:"monthly_payment"`
	InterestRate     decimal.Decimal `gorm:"type:numeric(8,4);not null" json:"interest_rate"`
	TakenAt          time.Time       `gorm:"not null" json:"taken_at"`
}

// PlayerDoodad is a recorded doodad purchase.
type PlayerDoodad struct {
	Base
	GameID      string    `gorm:"type:uuid;not null;index" json:"game_id"`
	DoodadID    string    `gorm:"not null" json:"doodad_id"`
	Title       string    `gorm:"not null" json:"title"`
	Category    string    `json:"category"`
	Cost        int64     `gorm:"type:bigint;not null" json:"cost"`
	Turn        int       `gorm:"not null" json:"turn"`
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`
}
