package ledger

import (
	"fmt"
	"time"

	"collection-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Policy carries the configurable business rules.
type Policy struct {
	// AllowOverpaidRenewal lets a customer with a negative remaining balance
	// (overpayment/credit) renew or be restored. When false, any non-zero
	// balance blocks.
	AllowOverpaidRenewal bool
	DefaultWeeks         int
}

// Engine is the command/query boundary over the ledger. All state changes of
// a line happen under that line's lock and inside one database transaction,
// so a failed command leaves BF, archive and log untouched together.
type Engine struct {
	db     *gorm.DB
	locks  *lineLocks
	policy Policy
}

func NewEngine(db *gorm.DB, policy Policy) *Engine {
	if policy.DefaultWeeks <= 0 {
		policy.DefaultWeeks = 12
	}
	return &Engine{db: db, locks: newLineLocks(), policy: policy}
}

// LoanTerms are the face-value terms of a loan, renewal or restored loan.
type LoanTerms struct {
	TakenAmount decimal.Decimal
	Interest    decimal.Decimal
	PC          decimal.Decimal
	Weeks       int
	Date        string // YYYY-MM-DD; defaults to today
}

func (t *LoanTerms) validate() error {
	if t.TakenAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: taken amount %s", ErrInvalidAmount, t.TakenAmount)
	}
	if t.Interest.IsNegative() || t.PC.IsNegative() {
		return fmt.Errorf("%w: negative interest or pc", ErrInvalidTerms)
	}
	if t.Interest.Add(t.PC).GreaterThan(t.TakenAmount) {
		return fmt.Errorf("%w: interest+pc exceeds taken amount", ErrInvalidTerms)
	}
	return nil
}

// principal is the cash leaving the float: takenAmount - interest - pc.
func (t *LoanTerms) principal() decimal.Decimal {
	return t.TakenAmount.Sub(t.Interest).Sub(t.PC)
}

func (t *LoanTerms) dateOrToday() string {
	if t.Date == "" {
		return time.Now().Format("2006-01-02")
	}
	return t.Date
}

// CreateLine creates a lending book. BF starts at the initial amount and is
// only moved by deltas from then on.
func (e *Engine) CreateLine(name, lineType string, days []string, initialAmount decimal.Decimal) (*models.Line, error) {
	if lineType == "" {
		lineType = "Daily"
	}
	line := &models.Line{
		ID:            uuid.NewString(),
		Name:          name,
		Type:          lineType,
		InitialAmount: initialAmount,
		CurrentBF:     initialAmount,
	}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(line).Error; err != nil {
			return fmt.Errorf("create line: %w", err)
		}
		for _, label := range days {
			if err := tx.Create(&models.Day{LineID: line.ID, Label: label}).Error; err != nil {
				return fmt.Errorf("create day %q: %w", label, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// GetLine returns the line with its materialized BF.
func (e *Engine) GetLine(lineID string) (*models.Line, error) {
	var line models.Line
	err := e.db.Where("id = ?", lineID).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load line: %w", err)
	}
	return &line, nil
}

func (e *Engine) ListLines() ([]models.Line, error) {
	var lines []models.Line
	if err := e.db.Order("created_at ASC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return lines, nil
}

// GetBF reads the materialized float. There is deliberately no code path
// that derives it by summing history.
func (e *Engine) GetBF(lineID string) (decimal.Decimal, error) {
	line, err := e.GetLine(lineID)
	if err != nil {
		return decimal.Zero, err
	}
	return line.CurrentBF, nil
}

// CreateDay adds a collection round to a line.
func (e *Engine) CreateDay(lineID, label string) (*models.Day, error) {
	if _, err := e.GetLine(lineID); err != nil {
		return nil, err
	}
	day := &models.Day{LineID: lineID, Label: label}
	err := e.locks.withLine(lineID, func() error {
		var count int64
		if err := e.db.Model(&models.Day{}).
			Where("line_id = ? AND label = ?", lineID, label).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check day: %w", err)
		}
		if count > 0 {
			return ErrDuplicateDay
		}
		if err := e.db.Create(day).Error; err != nil {
			return fmt.Errorf("create day: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (e *Engine) ListDays(lineID string) ([]models.Day, error) {
	var days []models.Day
	if err := e.db.Where("line_id = ?", lineID).Order("id ASC").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return days, nil
}

// activeCustomer loads the active customer for a (line, day, visibleID).
func (e *Engine) activeCustomer(lineID, day, visibleID string) (*models.Customer, error) {
	var cust models.Customer
	err := e.db.
		Where("line_id = ? AND day_label = ? AND visible_id = ?", lineID, day, visibleID).
		First(&cust).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return &cust, nil
}

// GetCustomer returns the customer plus its derived balance.
func (e *Engine) GetCustomer(lineID, day, visibleID string) (*models.Customer, Balance, error) {
	cust, err := e.activeCustomer(lineID, day, visibleID)
	if err != nil {
		return nil, Balance{}, err
	}
	bal, err := e.BalanceFor(cust.InternalID)
	if err != nil {
		return nil, Balance{}, err
	}
	return cust, bal, nil
}

// ListActiveCustomers returns the active set of one collection round.
func (e *Engine) ListActiveCustomers(lineID, day string) ([]models.Customer, error) {
	var custs []models.Customer
	if err := e.db.
		Where("line_id = ? AND day_label = ?", lineID, day).
		Order("created_at ASC").
		Find(&custs).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return custs, nil
}

// BalanceFor aggregates the transaction log of one internal ID. Pure
// read-side: it works on the snapshot of the log at call time.
func (e *Engine) BalanceFor(internalID string) (Balance, error) {
	txs, err := txLog{db: e.db}.listFor(internalID)
	if err != nil {
		return Balance{}, err
	}
	return Aggregate(txs), nil
}

// Timeline returns the display-ready chronological sequence for one
// internal ID, annotations included.
func (e *Engine) Timeline(internalID string) ([]TimelineEntry, error) {
	txs, err := txLog{db: e.db}.listFor(internalID)
	if err != nil {
		return nil, err
	}
	return Reconstruct(txs), nil
}

// Transactions returns the raw log for one internal ID in replay order.
func (e *Engine) Transactions(internalID string) ([]models.Transaction, error) {
	return txLog{db: e.db}.listFor(internalID)
}

// PendingCustomer is an active customer still owing money, with due-date
// context for the collection agent.
type PendingCustomer struct {
	models.Customer
	Balance
	DueDate     string `json:"dueDate"`
	DaysOverdue int    `json:"daysOverdue"`
}

// ListPendingCustomers returns every active customer of the line with a
// positive remaining balance, across all days.
func (e *Engine) ListPendingCustomers(lineID string) ([]PendingCustomer, error) {
	var custs []models.Customer
	if err := e.db.Where("line_id = ?", lineID).Find(&custs).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	pending := make([]PendingCustomer, 0)
	for i := range custs {
		c := custs[i]
		bal, err := e.BalanceFor(c.InternalID)
		if err != nil {
			return nil, err
		}
		if !bal.Remaining.IsPositive() {
			continue
		}
		p := PendingCustomer{Customer: c, Balance: bal}
		if start, err := time.Parse("2006-01-02", c.Date); err == nil {
			weeks := c.Weeks
			if weeks <= 0 {
				weeks = e.policy.DefaultWeeks
			}
			due := start.AddDate(0, 0, weeks*7)
			p.DueDate = due.Format("2006-01-02")
			if overdue := int(time.Since(due).Hours() / 24); overdue > 0 {
				p.DaysOverdue = overdue
			}
		}
		pending = append(pending, p)
	}
	return pending, nil
}
