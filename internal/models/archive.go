package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchivedCustomer is one delete cycle of a customer identity. Deleting a
// customer only moves the identity here; the transaction log is untouched
// and the Balance Forward never moves. The same InternalID accumulates one
// row per delete/restore cycle, disambiguated by DeletedAt.
type ArchivedCustomer struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	InternalID string `gorm:"size:36;index;not null" json:"internalId"`
	LineID     string `gorm:"size:36;index;not null" json:"lineId"`
	VisibleID  string `gorm:"size:32;not null" json:"id"`
	DayLabel   string `gorm:"size:32;not null" json:"deletedFrom"`

	// Snapshot of the customer at deletion time.
	Name        string          `gorm:"size:64;not null" json:"name"`
	Village     string          `gorm:"size:64" json:"village"`
	Phone       string          `gorm:"size:20" json:"phone"`
	TakenAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"takenAmount"`
	Interest    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"interest"`
	PC          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"pc"`
	Weeks       int             `json:"weeks"`
	Date        string          `gorm:"size:10" json:"date"`

	// Unix milliseconds; together with (VisibleID, DayLabel) this is the key
	// a restore must supply to pick one cycle among several.
	DeletedAt int64 `gorm:"index;not null" json:"deletedAt"`

	IsRestored   bool       `json:"isRestored,omitempty"`
	RestoredAs   string     `gorm:"size:32" json:"restoredAs,omitempty"`
	RestoredDate *time.Time `json:"restoredDate,omitempty"`

	// Set when a brand-new customer later reuses this visible ID, so the old
	// restoration link no longer describes the active row.
	RestorationInvalidated bool   `json:"restorationInvalidated,omitempty"`
	InvalidatedReason      string `gorm:"size:128" json:"invalidatedReason,omitempty"`

	CreatedAt time.Time `json:"-"`
}
