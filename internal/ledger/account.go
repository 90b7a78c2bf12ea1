package ledger

import (
	"fmt"

	"collection-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateAccount opens a line-level cash book.
func (e *Engine) CreateAccount(lineID, name string) (*models.Account, error) {
	if _, err := e.GetLine(lineID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrInvalidTerms)
	}
	acct := &models.Account{ID: uuid.NewString(), LineID: lineID, Name: name}
	if err := e.db.Create(acct).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acct, nil
}

func (e *Engine) ListAccounts(lineID string) ([]models.Account, error) {
	var accts []models.Account
	if err := e.db.Where("line_id = ?", lineID).Order("created_at ASC").Find(&accts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accts, nil
}

func (e *Engine) RenameAccount(lineID, accountID, name string) (*models.Account, error) {
	acct, err := e.getAccount(lineID, accountID)
	if err != nil {
		return nil, err
	}
	if err := e.db.Model(acct).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("rename account: %w", err)
	}
	acct.Name = name
	return acct, nil
}

// DeleteAccount removes an account and its entries. The entries' effect on
// the BF is reversed as one delta, so the float keeps matching real cash.
func (e *Engine) DeleteAccount(lineID, accountID string) (decimal.Decimal, error) {
	if _, err := e.getAccount(lineID, accountID); err != nil {
		return decimal.Zero, err
	}
	var newBF decimal.Decimal
	err := e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			entries, err := listAccountEntries(tx, lineID, accountID)
			if err != nil {
				return err
			}
			net := decimal.Zero
			for i := range entries {
				net = net.Add(entries[i].Credit).Sub(entries[i].Debit)
			}
			if err := tx.Where("account_id = ?", accountID).Delete(&models.AccountEntry{}).Error; err != nil {
				return fmt.Errorf("delete account entries: %w", err)
			}
			if err := tx.Where("id = ?", accountID).Delete(&models.Account{}).Error; err != nil {
				return fmt.Errorf("delete account: %w", err)
			}
			bf, err := applyBFDelta(tx, lineID, net.Neg())
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

// AddAccountEntry records a credit/debit row and moves the BF by
// credit - debit.
func (e *Engine) AddAccountEntry(lineID, accountID string, credit, debit decimal.Decimal, date, comment string) (*models.AccountEntry, decimal.Decimal, error) {
	if credit.IsNegative() || debit.IsNegative() {
		return nil, decimal.Zero, fmt.Errorf("%w: negative credit or debit", ErrInvalidAmount)
	}
	if credit.IsZero() && debit.IsZero() {
		return nil, decimal.Zero, fmt.Errorf("%w: credit or debit is required", ErrInvalidAmount)
	}
	if _, err := e.getAccount(lineID, accountID); err != nil {
		return nil, decimal.Zero, err
	}

	entry := &models.AccountEntry{
		ID:        uuid.NewString(),
		AccountID: accountID,
		LineID:    lineID,
		Credit:    credit,
		Debit:     debit,
		Date:      date,
		Comment:   comment,
	}
	var newBF decimal.Decimal
	err := e.locks.withLine(lineID, func() error {
		return e.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("create account entry: %w", err)
			}
			bf, err := applyBFDelta(tx, lineID, credit.Sub(debit))
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
	return entry, newBF, nil
}

// AccountTotals sums an account's entries.
type AccountTotals struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Net    decimal.Decimal `json:"netBalance"`
}

func (e *Engine) ListAccountEntries(lineID, accountID string) ([]models.AccountEntry, AccountTotals, error) {
	if _, err := e.getAccount(lineID, accountID); err != nil {
		return nil, AccountTotals{}, err
	}
	entries, err := listAccountEntries(e.db, lineID, accountID)
	if err != nil {
		return nil, AccountTotals{}, err
	}
	var totals AccountTotals
	for i := range entries {
		totals.Credit = totals.Credit.Add(entries[i].Credit)
		totals.Debit = totals.Debit.Add(entries[i].Debit)
	}
	totals.Net = totals.Credit.Sub(totals.Debit)
	return entries, totals, nil
}

func (e *Engine) getAccount(lineID, accountID string) (*models.Account, error) {
	var acct models.Account
	err := e.db.Where("line_id = ? AND id = ?", lineID, accountID).First(&acct).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acct, nil
}

func listAccountEntries(db *gorm.DB, lineID, accountID string) ([]models.AccountEntry, error) {
	var entries []models.AccountEntry
	if err := db.
		Where("line_id = ? AND account_id = ?", lineID, accountID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	return entries, nil
}
