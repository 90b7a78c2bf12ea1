package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the closed set of ledger entry kinds. Keeping it a dedicated
// type lets the aggregator and timeline switch over it exhaustively.
type TxType string

const (
	TxLoan         TxType = "loan"
	TxPayment      TxType = "payment"
	TxRenewal      TxType = "renewal"
	TxRestoredLoan TxType = "restoredLoan"
)

// IsPrincipal reports whether entries of this type carry loan terms and
// move the Balance Forward by their principal.
func (t TxType) IsPrincipal() bool {
	return t == TxLoan || t == TxRenewal || t == TxRestoredLoan
}

// Transaction is one immutable ledger entry, keyed by the customer's
// InternalID. Rows are append-only: amount, type and date are never
// rewritten once committed. Corrections are expressed as new entries plus
// the IsEdited / IsCancelled flags on the superseded row.
//
// Seq is the insertion-order tiebreaker; replay order is (CreatedAt, Seq),
// never the user-editable Date field.
type Transaction struct {
	Seq        uint64          `gorm:"primaryKey;autoIncrement" json:"-"`
	ID         string          `gorm:"size:36;not null;uniqueIndex" json:"id"`
	InternalID string          `gorm:"size:36;index;not null" json:"internalId"`
	LineID     string          `gorm:"size:36;index;not null" json:"lineId"`
	DayLabel   string          `gorm:"size:32;not null" json:"day"`
	Type       TxType          `gorm:"size:16;not null" json:"type"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Interest   decimal.Decimal `gorm:"type:decimal(20,2)" json:"interest"`
	PC         decimal.Decimal `gorm:"type:decimal(20,2)" json:"pc"`
	Weeks      int             `json:"weeks,omitempty"`
	Date       string          `gorm:"size:10;not null" json:"date"`
	Comment    string          `gorm:"size:255" json:"comment,omitempty"`

	CustomerName string `gorm:"size:64" json:"customerName,omitempty"`

	IsFirstLoan bool       `json:"isFirstLoan,omitempty"`
	IsEdited    bool       `json:"isEdited,omitempty"`
	IsCancelled bool       `json:"isCancelled,omitempty"`
	EditedAt    *time.Time `json:"editedAt,omitempty"`
	RestoredAt  *time.Time `json:"restoredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Principal is the cash that actually left the float for a principal-type
// entry: amount - interest - pc. Zero for payments.
func (t *Transaction) Principal() decimal.Decimal {
	if !t.Type.IsPrincipal() {
		return decimal.Zero
	}
	return t.Amount.Sub(t.Interest).Sub(t.PC)
}
