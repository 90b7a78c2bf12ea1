package ledger

import (
	"fmt"

	"collection-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// applyBFDelta moves a line's Balance Forward by delta and returns the new
// value. This is the only code path that writes CurrentBF: a negated
// principal at loan/renewal/restore, the amount at payment, credit-debit at
// account entries. Deleting a customer never comes through here.
//
// Callers must hold the line's lock; the read-modify-write is not safe
// against concurrent commands on the same line otherwise.
func applyBFDelta(db *gorm.DB, lineID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var line models.Line
	err := db.Where("id = ?", lineID).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, ErrLineNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load line: %w", err)
	}

	newBF := line.CurrentBF.Add(delta)
	if err := db.Model(&models.Line{}).
		Where("id = ?", lineID).
		Update("current_bf", newBF).Error; err != nil {
		return decimal.Zero, fmt.Errorf("update bf: %w", err)
	}
	return newBF, nil
}
