package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is a lending book: a group of collection days sharing one cash float.
// CurrentBF is the materialized Balance Forward. It is only ever moved by
// principal/payment deltas inside the ledger engine; it is never recomputed
// by summing history, so archived customers can never re-enter the sum.
type Line struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Name          string          `gorm:"size:64;not null" json:"name"`
	Type          string          `gorm:"size:16;not null;default:Daily" json:"type"` // Daily / Weekly
	InitialAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"initialAmount"`
	CurrentBF     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"currentBF"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
