package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is an active borrower of one line+day.
//
// VisibleID is the human-facing identifier written on the collection sheet.
// It is unique among the currently active customers of a line+day but may be
// reused after a delete. InternalID is the permanent ledger key: it never
// changes across delete/restore cycles and is the join key into the
// transaction log.
type Customer struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	VisibleID  string          `gorm:"size:32;not null;uniqueIndex:idx_active_visible" json:"id"`
	InternalID string          `gorm:"size:36;not null;uniqueIndex" json:"internalId"`
	LineID     string          `gorm:"size:36;index;not null;uniqueIndex:idx_active_visible" json:"lineId"`
	DayLabel   string          `gorm:"size:32;not null;uniqueIndex:idx_active_visible" json:"day"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Village    string          `gorm:"size:64" json:"village"`
	Phone      string          `gorm:"size:20" json:"phone"`

	// Terms of the current loan cycle. TakenAmount is the full face value the
	// customer owes; interest and pc are the profit portions, so the cash that
	// actually left the float is takenAmount - interest - pc.
	TakenAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"takenAmount"`
	Interest    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"interest"`
	PC          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"pc"`
	Weeks       int             `gorm:"not null;default:12" json:"weeks"`
	Date        string          `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD, user-editable

	// Set only when this row was created by restoring an archived customer.
	IsRestored bool       `json:"isRestoredCustomer,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
