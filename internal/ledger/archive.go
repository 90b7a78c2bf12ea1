package ledger

import (
	"fmt"
	"time"

	"collection-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeleteCustomer soft-deletes a settled customer: the identity moves from
// the active set to the archive, stamped with when and from which day. The
// transaction log is not touched and no BF delta runs — delete is
// structurally incapable of moving the float.
func (e *Engine) DeleteCustomer(lineID, day, visibleID string) (*models.ArchivedCustomer, error) {
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return nil, err
	}

	var rec *models.ArchivedCustomer
	err = e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			txs, err := txLog{db: tx}.listFor(cust.InternalID)
			if err != nil {
				return err
			}
			if bal := Aggregate(txs); bal.Remaining.IsPositive() {
				return fmt.Errorf("%w: %s pending", ErrHasRemainingBalance, bal.Remaining)
			}

			rec = &models.ArchivedCustomer{
				InternalID:  cust.InternalID,
				LineID:      lineID,
				VisibleID:   cust.VisibleID,
				DayLabel:    day,
				Name:        cust.Name,
				Village:     cust.Village,
				Phone:       cust.Phone,
				TakenAmount: cust.TakenAmount,
				Interest:    cust.Interest,
				PC:          cust.PC,
				Weeks:       cust.Weeks,
				Date:        cust.Date,
				DeletedAt:   time.Now().UnixMilli(),
			}
			if err := tx.Create(rec).Error; err != nil {
				return fmt.Errorf("archive customer: %w", err)
			}
			if err := tx.Delete(&models.Customer{}, cust.ID).Error; err != nil {
				return fmt.Errorf("remove active customer: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RestoreCustomer revives an archived identity under a new visible ID. The
// internal ID and all prior history are kept; exactly one `restoredLoan`
// entry is appended and exactly one principal delta runs, for the new terms
// only. Nothing from the original loan is re-applied or reversed.
//
// deletionTimestamp picks one delete cycle when the same visible ID was
// archived more than once; zero falls back to the most recent unrestored
// cycle.
func (e *Engine) RestoreCustomer(lineID, oldVisibleID, deletedFrom string, deletionTimestamp int64, newVisibleID string, terms LoanTerms) (*models.Customer, decimal.Decimal, error) {
	if err := terms.validate(); err != nil {
		return nil, decimal.Zero, err
	}
	if newVisibleID == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: new visible id is required", ErrInvalidTerms)
	}

	var cust *models.Customer
	var newBF decimal.Decimal
	err := e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			rec, err := findArchived(tx, lineID, oldVisibleID, deletedFrom, deletionTimestamp)
			if err != nil {
				return err
			}
			if rec.IsRestored {
				return ErrAlreadyRestored
			}

			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("line_id = ? AND day_label = ? AND visible_id = ?", lineID, deletedFrom, newVisibleID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check visible id: %w", err)
			}
			if count > 0 {
				return ErrDuplicateVisibleID
			}

			now := time.Now()
			weeks := terms.Weeks
			if weeks <= 0 {
				weeks = rec.Weeks
			}
			cust = &models.Customer{
				VisibleID:   newVisibleID,
				InternalID:  rec.InternalID, // same identity, full prior history
				LineID:      lineID,
				DayLabel:    deletedFrom,
				Name:        rec.Name,
				Village:     rec.Village,
				Phone:       rec.Phone,
				TakenAmount: terms.TakenAmount,
				Interest:    terms.Interest,
				PC:          terms.PC,
				Weeks:       weeks,
				Date:        terms.dateOrToday(),
				IsRestored:  true,
				RestoredAt:  &now,
			}
			if err := tx.Create(cust).Error; err != nil {
				return fmt.Errorf("reactivate customer: %w", err)
			}

			loan := &models.Transaction{
				InternalID:   rec.InternalID,
				LineID:       lineID,
				DayLabel:     deletedFrom,
				Type:         models.TxRestoredLoan,
				Amount:       terms.TakenAmount,
				Interest:     terms.Interest,
				PC:           terms.PC,
				Weeks:        weeks,
				Date:         cust.Date,
				Comment:      fmt.Sprintf("Restored customer - new loan of %s", terms.TakenAmount),
				CustomerName: rec.Name,
				RestoredAt:   &now,
			}
			if err := (txLog{db: tx}).append(loan); err != nil {
				return err
			}

			if err := tx.Model(&models.ArchivedCustomer{}).
				Where("id = ?", rec.ID).
				Updates(map[string]interface{}{
					"is_restored":   true,
					"restored_as":   newVisibleID,
					"restored_date": &now,
				}).Error; err != nil {
				return fmt.Errorf("mark archive restored: %w", err)
			}

			bf, err := applyBFDelta(tx, lineID, terms.principal().Neg())
			if err != nil {
				return err
			}
			newBF = bf
			return nil
		})
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return cust, newBF, nil
}

func findArchived(db *gorm.DB, lineID, visibleID, deletedFrom string, deletionTimestamp int64) (*models.ArchivedCustomer, error) {
	q := db.Where("line_id = ? AND visible_id = ? AND day_label = ?", lineID, visibleID, deletedFrom)
	if deletionTimestamp > 0 {
		q = q.Where("deleted_at = ?", deletionTimestamp)
	} else {
		q = q.Where("is_restored = ?", false).Order("deleted_at DESC")
	}
	var rec models.ArchivedCustomer
	err := q.First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrArchiveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find archived customer: %w", err)
	}
	return &rec, nil
}

// ListArchivedCustomers returns every delete cycle recorded for the line,
// newest first.
func (e *Engine) ListArchivedCustomers(lineID string) ([]models.ArchivedCustomer, error) {
	var recs []models.ArchivedCustomer
	if err := e.db.
		Where("line_id = ?", lineID).
		Order("deleted_at DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list archived customers: %w", err)
	}
	return recs, nil
}

// ArchivedDetail is the read-side view of a deleted customer: its archive
// cycles plus the untouched transaction history.
type ArchivedDetail struct {
	Records  []models.ArchivedCustomer `json:"records"`
	Timeline []TimelineEntry           `json:"timeline"`
	Balance  Balance                   `json:"balance"`
}

// GetArchivedDetail returns the full history of an archived internal ID.
func (e *Engine) GetArchivedDetail(lineID, internalID string) (*ArchivedDetail, error) {
	var recs []models.ArchivedCustomer
	if err := e.db.
		Where("line_id = ? AND internal_id = ?", lineID, internalID).
		Order("deleted_at DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("load archive records: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrArchiveNotFound
	}
	txs, err := txLog{db: e.db}.listFor(internalID)
	if err != nil {
		return nil, err
	}
	return &ArchivedDetail{
		Records:  recs,
		Timeline: Reconstruct(txs),
		Balance:  Aggregate(txs),
	}, nil
}

// NextVisibleID suggests the smallest positive integer ID not in use among
// the active customers of a day.
func (e *Engine) NextVisibleID(lineID, day string) (string, error) {
	custs, err := e.ListActiveCustomers(lineID, day)
	if err != nil {
		return "", err
	}
	used := make(map[string]bool, len(custs))
	for _, c := range custs {
		used[c.VisibleID] = true
	}
	for i := 1; ; i++ {
		id := fmt.Sprintf("%d", i)
		if !used[id] {
			return id, nil
		}
	}
}
