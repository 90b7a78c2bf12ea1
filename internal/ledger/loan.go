package ledger

import (
	"fmt"
	"strings"
	"time"

	"collection-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerProfile is the non-financial part of a new customer.
type CustomerProfile struct {
	Name    string
	Village string
	Phone   string
}

// CreateLoan creates a customer and issues their first loan: one `loan`
// entry in the log and one principal delta off the BF. The visible ID must
// be free among the active customers of the day; the internal ID is minted
// here and never changes again.
func (e *Engine) CreateLoan(lineID, day, visibleID string, profile CustomerProfile, terms LoanTerms) (*models.Customer, decimal.Decimal, error) {
	if err := terms.validate(); err != nil {
		return nil, decimal.Zero, err
	}
	visibleID = strings.TrimSpace(visibleID)
	if visibleID == "" || profile.Name == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: visible id and name are required", ErrInvalidTerms)
	}
	if err := e.requireDay(lineID, day); err != nil {
		return nil, decimal.Zero, err
	}

	weeks := terms.Weeks
	if weeks <= 0 {
		weeks = e.policy.DefaultWeeks
	}

	cust := &models.Customer{
		VisibleID:   visibleID,
		InternalID:  uuid.NewString(),
		LineID:      lineID,
		DayLabel:    day,
		Name:        profile.Name,
		Village:     profile.Village,
		Phone:       profile.Phone,
		TakenAmount: terms.TakenAmount,
		Interest:    terms.Interest,
		PC:          terms.PC,
		Weeks:       weeks,
		Date:        terms.dateOrToday(),
	}

	var newBF decimal.Decimal
	err := e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("line_id = ? AND day_label = ? AND visible_id = ?", lineID, day, visibleID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check visible id: %w", err)
			}
			if count > 0 {
				return ErrDuplicateVisibleID
			}

			// A brand-new customer reusing a previously-restored visible ID
			// must not inherit the old restoration link.
			if err := tx.Model(&models.ArchivedCustomer{}).
				Where("line_id = ? AND day_label = ? AND visible_id = ? AND is_restored = ? AND restoration_invalidated = ?",
					lineID, day, visibleID, true, false).
				Updates(map[string]interface{}{
					"restoration_invalidated": true,
					"invalidated_reason":      "new customer created with same ID",
				}).Error; err != nil {
				return fmt.Errorf("invalidate restoration link: %w", err)
			}

			if err := tx.Create(cust).Error; err != nil {
				return fmt.Errorf("create customer: %w", err)
			}

			loan := &models.Transaction{
				InternalID:   cust.InternalID,
				LineID:       lineID,
				DayLabel:     day,
				Type:         models.TxLoan,
				Amount:       terms.TakenAmount,
				Interest:     terms.Interest,
				PC:           terms.PC,
				Weeks:        weeks,
				Date:         cust.Date,
				CustomerName: cust.Name,
				IsFirstLoan:  true,
			}
			if err := (txLog{db: tx}).append(loan); err != nil {
				return err
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

// RecordPayment appends one payment entry and credits the BF by its amount.
func (e *Engine) RecordPayment(lineID, day, visibleID string, amount decimal.Decimal, date, comment string) (*models.Transaction, Balance, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, Balance{}, decimal.Zero, fmt.Errorf("%w: payment %s", ErrInvalidAmount, amount)
	}
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return nil, Balance{}, decimal.Zero, err
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	payment := &models.Transaction{
		InternalID:   cust.InternalID,
		LineID:       lineID,
		DayLabel:     day,
		Type:         models.TxPayment,
		Amount:       amount,
		Date:         date,
		Comment:      comment,
		CustomerName: cust.Name,
	}

	var newBF decimal.Decimal
	err = e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			if err := (txLog{db: tx}).append(payment); err != nil {
				return err
			}
			bf, err := applyBFDelta(tx, lineID, amount)
			if err != nil {
				return err
			}
			newBF = bf
			return nil
		})
	})
	if err != nil {
		return nil, Balance{}, decimal.Zero, err
	}
	bal, err := e.BalanceFor(cust.InternalID)
	if err != nil {
		return nil, Balance{}, decimal.Zero, err
	}
	return payment, bal, newBF, nil
}

// EditPayment corrects a payment without rewriting history: the superseded
// entry keeps its amount and gets the edited flag, a replacement entry
// carries the new amount, and the BF moves by the difference.
func (e *Engine) EditPayment(lineID, day, visibleID, txID string, newAmount decimal.Decimal, comment string) (*models.Transaction, decimal.Decimal, error) {
	if newAmount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, fmt.Errorf("%w: payment %s", ErrInvalidAmount, newAmount)
	}
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var replacement *models.Transaction
	var newBF decimal.Decimal
	err = e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			log := txLog{db: tx}
			old, err := log.findByID(cust.InternalID, txID)
			if err != nil {
				return err
			}
			if old.Type != models.TxPayment {
				return fmt.Errorf("%w: only payments can be edited", ErrInvalidTerms)
			}
			if old.IsEdited || old.IsCancelled {
				return ErrTransactionSuperseded
			}

			if err := log.markSuperseded(old, false); err != nil {
				return err
			}
			replacement = &models.Transaction{
				InternalID:   cust.InternalID,
				LineID:       lineID,
				DayLabel:     day,
				Type:         models.TxPayment,
				Amount:       newAmount,
				Date:         old.Date,
				Comment:      comment,
				CustomerName: cust.Name,
			}
			if err := log.append(replacement); err != nil {
				return err
			}

			bf, err := applyBFDelta(tx, lineID, newAmount.Sub(old.Amount))
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
	return replacement, newBF, nil
}

// CancelPayment voids a payment. The row stays in the log untouched except
// for the cancelled flag; the BF gives the amount back.
func (e *Engine) CancelPayment(lineID, day, visibleID, txID string) (decimal.Decimal, error) {
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return decimal.Zero, err
	}

	var newBF decimal.Decimal
	err = e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			log := txLog{db: tx}
			old, err := log.findByID(cust.InternalID, txID)
			if err != nil {
				return err
			}
			if old.Type != models.TxPayment {
				return fmt.Errorf("%w: only payments can be cancelled", ErrInvalidTerms)
			}
			if old.IsEdited || old.IsCancelled {
				return ErrTransactionSuperseded
			}
			if err := log.markSuperseded(old, true); err != nil {
				return err
			}
			bf, err := applyBFDelta(tx, lineID, old.Amount.Neg())
			if err != nil {
				return err
			}
			newBF = bf
			return nil
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBF, nil
}

// Renew replaces a settled loan with new terms for the same identity: one
// `renewal` entry and one principal delta. Identity is untouched; renewal is
// not archival.
func (e *Engine) Renew(lineID, day, visibleID string, terms LoanTerms) (*models.Transaction, decimal.Decimal, error) {
	if err := terms.validate(); err != nil {
		return nil, decimal.Zero, err
	}
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	weeks := terms.Weeks
	if weeks <= 0 {
		weeks = cust.Weeks
	}

	var renewal *models.Transaction
	var newBF decimal.Decimal
	err = e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			log := txLog{db: tx}
			txs, err := log.listFor(cust.InternalID)
			if err != nil {
				return err
			}
			if err := e.checkSettled(Aggregate(txs)); err != nil {
				return err
			}

			renewal = &models.Transaction{
				InternalID:   cust.InternalID,
				LineID:       lineID,
				DayLabel:     day,
				Type:         models.TxRenewal,
				Amount:       terms.TakenAmount,
				Interest:     terms.Interest,
				PC:           terms.PC,
				Weeks:        weeks,
				Date:         terms.dateOrToday(),
				Comment:      fmt.Sprintf("Renewal - new loan of %s", terms.TakenAmount),
				CustomerName: cust.Name,
			}
			if err := log.append(renewal); err != nil {
				return err
			}

			// The active row reflects the current cycle's terms for lists
			// and sheets; the log stays the source of truth.
			if err := tx.Model(&models.Customer{}).
				Where("id = ?", cust.ID).
				Updates(map[string]interface{}{
					"taken_amount": terms.TakenAmount,
					"interest":     terms.Interest,
					"pc":           terms.PC,
					"weeks":        weeks,
					"date":         renewal.Date,
				}).Error; err != nil {
				return fmt.Errorf("update customer terms: %w", err)
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
	return renewal, newBF, nil
}

// checkSettled enforces the zero-balance gate on renewal/restore. Positive
// remaining always blocks; negative remaining (customer credit) blocks only
// when the overpaid-renewal policy is off.
func (e *Engine) checkSettled(bal Balance) error {
	if bal.Remaining.IsPositive() {
		return fmt.Errorf("%w: %s pending", ErrOutstandingBalance, bal.Remaining)
	}
	if bal.Remaining.IsNegative() && !e.policy.AllowOverpaidRenewal {
		return fmt.Errorf("%w: %s overpaid", ErrOutstandingBalance, bal.Remaining.Neg())
	}
	return nil
}

// requireDay verifies the (line, day) pair exists.
func (e *Engine) requireDay(lineID, day string) error {
	if _, err := e.GetLine(lineID); err != nil {
		return err
	}
	var count int64
	if err := e.db.Model(&models.Day{}).
		Where("line_id = ? AND label = ?", lineID, day).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check day: %w", err)
	}
	if count == 0 {
		return ErrDayNotFound
	}
	return nil
}
