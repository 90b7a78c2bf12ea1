package ledger

import (
	"fmt"
	"time"

	"collection-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// txLog is the append-only per-customer ledger. Append is the only mutator;
// there is no update or delete of committed rows (the edit/cancel flags are
// set through markSuperseded, which touches flags only).
type txLog struct {
	db *gorm.DB
}

// append commits one new entry. The entry's ID and CreatedAt are assigned
// here; Seq is assigned by the store. Fails closed: on error nothing was
// written and the caller must abort its command.
func (l txLog) append(tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if err := l.db.Create(tx).Error; err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// listFor returns every entry for one internal ID in replay order:
// (CreatedAt, Seq). The user-editable Date field never affects ordering.
func (l txLog) listFor(internalID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := l.db.
		Where("internal_id = ?", internalID).
		Order("created_at ASC, seq ASC").
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// findByID looks up one entry of the given customer.
func (l txLog) findByID(internalID, txID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := l.db.Where("internal_id = ? AND id = ?", internalID, txID).First(&tx).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &tx, nil
}

// markSuperseded sets the edit/cancel flags on a committed entry. Amount,
// type and date stay untouched; the flags are the only mutable columns.
func (l txLog) markSuperseded(tx *models.Transaction, cancelled bool) error {
	now := time.Now()
	updates := map[string]interface{}{
		"edited_at": &now,
	}
	if cancelled {
		updates["is_cancelled"] = true
	} else {
		updates["is_edited"] = true
	}
	if err := l.db.Model(&models.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("mark transaction superseded: %w", err)
	}
	return nil
}
