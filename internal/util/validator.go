package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maxAmount caps any single money field at ten million.
var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount checks a money amount (positive and below the cap).
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD date format. An empty date is allowed
// (it defaults to today downstream).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateLabel checks a name/day label (non-empty, bounded length).
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label is empty")
	}
	if len(label) > 32 {
		return fmt.Errorf("label too long, max 32 characters")
	}
	return nil
}
