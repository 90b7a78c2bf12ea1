package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a line-level cash book (e.g. expenses, owner top-ups) whose
// entries move the Balance Forward by credit - debit.
type Account struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	LineID    string    `gorm:"size:36;index;not null" json:"lineId"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountEntry is one credit/debit row of an account.
type AccountEntry struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID string          `gorm:"size:36;index;not null" json:"accountId"`
	LineID    string          `gorm:"size:36;index;not null" json:"lineId"`
	Credit    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"creditAmount"`
	Debit     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"debitAmount"`
	Date      string          `gorm:"size:10;not null" json:"date"`
	Comment   string          `gorm:"size:255" json:"comment,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
