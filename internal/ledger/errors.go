// Package ledger implements the transaction log, balance aggregation,
// Balance Forward float and soft-delete/restore rules for daily-collection
// lending lines. Handlers and exporters only ever go through the Engine;
// they never touch BF or the log directly.
package ledger

import "errors"

// Domain errors. Handlers map these onto HTTP statuses: not-found errors to
// 404, conflict errors to 409, validation errors to 400. Storage failures
// are returned wrapped and reported as 500.
var (
	ErrLineNotFound        = errors.New("line not found")
	ErrDayNotFound         = errors.New("day not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrArchiveNotFound     = errors.New("deleted customer not found")

	ErrDuplicateDay       = errors.New("day already exists for this line")
	ErrDuplicateVisibleID = errors.New("customer ID already exists")

	// ErrHasRemainingBalance blocks archiving a customer who still owes money.
	ErrHasRemainingBalance = errors.New("customer has remaining balance")
	// ErrOutstandingBalance blocks renewal/restore until the current loan is settled.
	ErrOutstandingBalance = errors.New("customer has outstanding balance")

	ErrAlreadyRestored = errors.New("customer has already been restored")
	// ErrTransactionSuperseded rejects editing or cancelling an entry that was
	// already corrected; the superseding entry is the one to act on.
	ErrTransactionSuperseded = errors.New("transaction already edited or cancelled")

	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidTerms  = errors.New("invalid loan terms")
)
