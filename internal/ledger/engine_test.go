package ledger

import (
	"fmt"
	"sync"
	"testing"

	"collection-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T, policy Policy) *Engine {
	t.Helper()
	// per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Line{}, &models.Day{}, &models.Customer{},
		&models.ArchivedCustomer{}, &models.Transaction{},
		&models.Account{}, &models.AccountEntry{},
	))
	return NewEngine(db, policy)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(d(want)), "want %d, got %s", want, got)
}

func newTestLine(t *testing.T, e *Engine, initial int64) *models.Line {
	t.Helper()
	line, err := e.CreateLine("Town Line", "Daily", []string{"Monday"}, d(initial))
	require.NoError(t, err)
	return line
}

func TestLoanPaymentDeleteKeepsBFStable(t *testing.T) {
	e := newTestEngine(t, Policy{AllowOverpaidRenewal: true})
	line := newTestLine(t, e, 50000)

	// loan of 12000 with 1500 interest and 500 pc moves BF by the
	// principal only: -10000
	cust, bf, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(12000), Interest: d(1500), PC: d(500)})
	require.NoError(t, err)
	requireDecimal(t, 40000, bf)

	// the customer owes the full face value
	bal, err := e.BalanceFor(cust.InternalID)
	require.NoError(t, err)
	requireDecimal(t, 12000, bal.TotalOwed)
	requireDecimal(t, 12000, bal.Remaining)

	// full payment credits the BF by the paid amount
	_, bal, bf, err = e.RecordPayment(line.ID, "Monday", "1", d(12000), "", "")
	require.NoError(t, err)
	requireDecimal(t, 52000, bf)
	requireDecimal(t, 0, bal.Remaining)

	// deleting a settled customer never moves the BF
	_, err = e.DeleteCustomer(line.ID, "Monday", "1")
	require.NoError(t, err)
	bf, err = e.GetBF(line.ID)
	require.NoError(t, err)
	requireDecimal(t, 52000, bf)
}

func TestDeleteBlockedByRemainingBalance(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(50)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "1", d(500), "", "")
	require.NoError(t, err)

	_, err = e.DeleteCustomer(line.ID, "Monday", "1")
	require.ErrorIs(t, err, ErrHasRemainingBalance)

	// nothing changed: customer still active, BF untouched
	cust, bal, err := e.GetCustomer(line.ID, "Monday", "1")
	require.NoError(t, err)
	require.Equal(t, "Ravi", cust.Name)
	requireDecimal(t, 500, bal.Remaining)
	bf, err := e.GetBF(line.ID)
	require.NoError(t, err)
	requireDecimal(t, 50000-850+500, bf)
}

func TestRestorePreservesOriginalHistory(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	cust, _, err := e.CreateLoan(line.ID, "Monday", "C1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(2000), Interest: d(200), PC: d(100)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "C1", d(2000), "", "")
	require.NoError(t, err)

	originalTxs, err := e.Transactions(cust.InternalID)
	require.NoError(t, err)

	rec, err := e.DeleteCustomer(line.ID, "Monday", "C1")
	require.NoError(t, err)
	require.Equal(t, cust.InternalID, rec.InternalID)

	bfBefore, err := e.GetBF(line.ID)
	require.NoError(t, err)

	restored, bf, err := e.RestoreCustomer(line.ID, "C1", "Monday", rec.DeletedAt, "C2",
		LoanTerms{TakenAmount: d(5000), Interest: d(500), PC: d(200)})
	require.NoError(t, err)

	// same identity, new face
	require.Equal(t, cust.InternalID, restored.InternalID)
	require.Equal(t, "C2", restored.VisibleID)
	require.True(t, restored.IsRestored)

	// BF decreased by exactly the new principal 5000-500-200
	requireDecimal(t, 0, bfBefore.Sub(bf).Sub(d(4300)))

	// original entries are unchanged, exactly one restoredLoan appended
	txs, err := e.Transactions(cust.InternalID)
	require.NoError(t, err)
	require.Len(t, txs, len(originalTxs)+1)
	for i := range originalTxs {
		require.Equal(t, originalTxs[i], txs[i])
	}
	last := txs[len(txs)-1]
	require.Equal(t, models.TxRestoredLoan, last.Type)
	require.NotNil(t, last.RestoredAt)
	require.Equal(t, models.TxLoan, txs[0].Type)
	require.True(t, txs[0].IsFirstLoan)
}

func TestRestoreRejectsDuplicateVisibleID(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "C1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(2000), Interest: d(200), PC: d(100)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "C1", d(2000), "", "")
	require.NoError(t, err)
	rec, err := e.DeleteCustomer(line.ID, "Monday", "C1")
	require.NoError(t, err)

	occupant, _, err := e.CreateLoan(line.ID, "Monday", "C2",
		CustomerProfile{Name: "Suresh"},
		LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(0)})
	require.NoError(t, err)

	bfBefore, err := e.GetBF(line.ID)
	require.NoError(t, err)
	logBefore, err := e.Transactions(rec.InternalID)
	require.NoError(t, err)

	_, _, err = e.RestoreCustomer(line.ID, "C1", "Monday", rec.DeletedAt, "C2",
		LoanTerms{TakenAmount: d(5000), Interest: d(500), PC: d(200)})
	require.ErrorIs(t, err, ErrDuplicateVisibleID)

	// failed restore left BF and both logs untouched
	bfAfter, err := e.GetBF(line.ID)
	require.NoError(t, err)
	require.True(t, bfBefore.Equal(bfAfter))
	logAfter, err := e.Transactions(rec.InternalID)
	require.NoError(t, err)
	require.Equal(t, logBefore, logAfter)
	occTxs, err := e.Transactions(occupant.InternalID)
	require.NoError(t, err)
	require.Len(t, occTxs, 1)
}

func TestRestoreUnknownCycle(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.RestoreCustomer(line.ID, "C1", "Monday", 12345, "C9",
		LoanTerms{TakenAmount: d(1000)})
	require.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestRestoreOnlyOncePerCycle(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "C1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(2000), Interest: d(200), PC: d(100)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "C1", d(2000), "", "")
	require.NoError(t, err)
	rec, err := e.DeleteCustomer(line.ID, "Monday", "C1")
	require.NoError(t, err)

	_, _, err = e.RestoreCustomer(line.ID, "C1", "Monday", rec.DeletedAt, "C2",
		LoanTerms{TakenAmount: d(5000), Interest: d(500), PC: d(200)})
	require.NoError(t, err)

	_, _, err = e.RestoreCustomer(line.ID, "C1", "Monday", rec.DeletedAt, "C3",
		LoanTerms{TakenAmount: d(5000), Interest: d(500), PC: d(200)})
	require.ErrorIs(t, err, ErrAlreadyRestored)
}

func TestRenewRequiresSettledBalance(t *testing.T) {
	e := newTestEngine(t, Policy{AllowOverpaidRenewal: true})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(50)})
	require.NoError(t, err)

	_, _, err = e.Renew(line.ID, "Monday", "1", LoanTerms{TakenAmount: d(2000), Interest: d(200), PC: d(100)})
	require.ErrorIs(t, err, ErrOutstandingBalance)

	_, _, _, err = e.RecordPayment(line.ID, "Monday", "1", d(1000), "", "")
	require.NoError(t, err)

	renewal, bf, err := e.Renew(line.ID, "Monday", "1", LoanTerms{TakenAmount: d(2000), Interest: d(200), PC: d(100)})
	require.NoError(t, err)
	require.Equal(t, models.TxRenewal, renewal.Type)
	// 50000 - 850 + 1000 - 1700
	requireDecimal(t, 48450, bf)

	// identity is unchanged by renewal
	cust, bal, err := e.GetCustomer(line.ID, "Monday", "1")
	require.NoError(t, err)
	requireDecimal(t, 2000, bal.Remaining)
	requireDecimal(t, 2000, cust.TakenAmount)
}

func TestOverpaidRenewalPolicy(t *testing.T) {
	setup := func(t *testing.T, allow bool) (*Engine, *models.Line) {
		e := newTestEngine(t, Policy{AllowOverpaidRenewal: allow})
		line := newTestLine(t, e, 50000)
		_, _, err := e.CreateLoan(line.ID, "Monday", "1",
			CustomerProfile{Name: "Ravi"},
			LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(50)})
		require.NoError(t, err)
		// overpay by 200
		_, _, _, err = e.RecordPayment(line.ID, "Monday", "1", d(1200), "", "")
		require.NoError(t, err)
		return e, line
	}

	t.Run("allowed", func(t *testing.T) {
		e, line := setup(t, true)
		_, _, err := e.Renew(line.ID, "Monday", "1", LoanTerms{TakenAmount: d(2000)})
		require.NoError(t, err)
	})
	t.Run("blocked", func(t *testing.T) {
		e, line := setup(t, false)
		_, _, err := e.Renew(line.ID, "Monday", "1", LoanTerms{TakenAmount: d(2000)})
		require.ErrorIs(t, err, ErrOutstandingBalance)
	})
}

func TestEditPaymentSupersedesEntry(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	cust, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(50)})
	require.NoError(t, err)
	payment, _, _, err := e.RecordPayment(line.ID, "Monday", "1", d(500), "", "")
	require.NoError(t, err)

	replacement, bf, err := e.EditPayment(line.ID, "Monday", "1", payment.ID, d(700), "corrected")
	require.NoError(t, err)
	// 50000 - 850 + 500 + (700 - 500)
	requireDecimal(t, 50350, bf)

	txs, err := e.Transactions(cust.InternalID)
	require.NoError(t, err)
	require.Len(t, txs, 3) // loan, superseded payment, replacement

	old := txs[1]
	require.True(t, old.IsEdited)
	requireDecimal(t, 500, old.Amount) // amount never rewritten
	requireDecimal(t, 700, replacement.Amount)

	bal, err := e.BalanceFor(cust.InternalID)
	require.NoError(t, err)
	requireDecimal(t, 300, bal.Remaining)

	// a superseded entry cannot be edited again
	_, _, err = e.EditPayment(line.ID, "Monday", "1", payment.ID, d(800), "")
	require.ErrorIs(t, err, ErrTransactionSuperseded)
}

func TestCancelPaymentKeepsRow(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	cust, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(1000), Interest: d(100), PC: d(50)})
	require.NoError(t, err)
	payment, _, _, err := e.RecordPayment(line.ID, "Monday", "1", d(500), "", "")
	require.NoError(t, err)

	bf, err := e.CancelPayment(line.ID, "Monday", "1", payment.ID)
	require.NoError(t, err)
	requireDecimal(t, 50000-850, bf)

	txs, err := e.Transactions(cust.InternalID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.True(t, txs[1].IsCancelled)
	requireDecimal(t, 500, txs[1].Amount)

	bal, err := e.BalanceFor(cust.InternalID)
	require.NoError(t, err)
	requireDecimal(t, 1000, bal.Remaining)
}

func TestDuplicateVisibleIDBlocksCreate(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"}, LoanTerms{TakenAmount: d(1000)})
	require.NoError(t, err)
	_, _, err = e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Suresh"}, LoanTerms{TakenAmount: d(1000)})
	require.ErrorIs(t, err, ErrDuplicateVisibleID)

	// the same visible ID is free on another day
	_, err = e.CreateDay(line.ID, "Tuesday")
	require.NoError(t, err)
	_, _, err = e.CreateLoan(line.ID, "Tuesday", "1",
		CustomerProfile{Name: "Suresh"}, LoanTerms{TakenAmount: d(1000)})
	require.NoError(t, err)
}

func TestVisibleIDReuseAfterDelete(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	first, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"}, LoanTerms{TakenAmount: d(1000)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "1", d(1000), "", "")
	require.NoError(t, err)
	_, err = e.DeleteCustomer(line.ID, "Monday", "1")
	require.NoError(t, err)

	// a brand-new customer may reuse the freed visible ID and gets a
	// fresh internal identity
	second, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Suresh"}, LoanTerms{TakenAmount: d(2000)})
	require.NoError(t, err)
	require.NotEqual(t, first.InternalID, second.InternalID)
}

func TestCreateDayDuplicate(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 1000)
	_, err := e.CreateDay(line.ID, "Monday")
	require.ErrorIs(t, err, ErrDuplicateDay)
}

func TestPendingCustomers(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(1000), Date: "2024-01-01", Weeks: 12})
	require.NoError(t, err)
	_, _, err = e.CreateLoan(line.ID, "Monday", "2",
		CustomerProfile{Name: "Suresh"}, LoanTerms{TakenAmount: d(2000)})
	require.NoError(t, err)
	_, _, _, err = e.RecordPayment(line.ID, "Monday", "2", d(2000), "", "")
	require.NoError(t, err)

	pending, err := e.ListPendingCustomers(line.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "1", pending[0].VisibleID)
	requireDecimal(t, 1000, pending[0].Remaining)
	require.Greater(t, pending[0].DaysOverdue, 0)
	require.Equal(t, "2024-03-25", pending[0].DueDate)
}

func TestAccountEntriesMoveBF(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 10000)

	acct, err := e.CreateAccount(line.ID, "Expenses")
	require.NoError(t, err)

	_, bf, err := e.AddAccountEntry(line.ID, acct.ID, d(0), d(300), "2024-01-01", "fuel")
	require.NoError(t, err)
	requireDecimal(t, 9700, bf)

	_, bf, err = e.AddAccountEntry(line.ID, acct.ID, d(1000), d(0), "2024-01-02", "top-up")
	require.NoError(t, err)
	requireDecimal(t, 10700, bf)

	_, totals, err := e.ListAccountEntries(line.ID, acct.ID)
	require.NoError(t, err)
	requireDecimal(t, 1000, totals.Credit)
	requireDecimal(t, 300, totals.Debit)
	requireDecimal(t, 700, totals.Net)

	// deleting the account reverses its net effect on the float
	bf, err = e.DeleteAccount(line.ID, acct.ID)
	require.NoError(t, err)
	requireDecimal(t, 10000, bf)
}

func TestNextVisibleID(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 1000)

	id, err := e.NextVisibleID(line.ID, "Monday")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	_, _, err = e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"}, LoanTerms{TakenAmount: d(100)})
	require.NoError(t, err)
	id, err = e.NextVisibleID(line.ID, "Monday")
	require.NoError(t, err)
	require.Equal(t, "2", id)
}

func TestConcurrentPaymentsSameLine(t *testing.T) {
	e := newTestEngine(t, Policy{})
	line := newTestLine(t, e, 50000)

	_, _, err := e.CreateLoan(line.ID, "Monday", "1",
		CustomerProfile{Name: "Ravi"},
		LoanTerms{TakenAmount: d(10000), Interest: d(0), PC: d(0)})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := e.RecordPayment(line.ID, "Monday", "1", d(100), "", "")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// no lost updates: every payment landed in the float exactly once
	bf, err := e.GetBF(line.ID)
	require.NoError(t, err)
	requireDecimal(t, 50000-10000+n*100, bf)
}
