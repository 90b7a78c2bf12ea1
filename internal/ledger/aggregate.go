package ledger

import (
	"collection-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Balance is the derived per-customer view of one transaction log.
type Balance struct {
	TotalOwed decimal.Decimal `json:"totalOwed"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remainingAmount"`
}

// Aggregate folds an ordered transaction sequence into owed/paid/remaining
// figures. Pure: no side effects, safe to call repeatedly on the same
// snapshot.
//
// Owed sums the full face value of every loan-type entry, not the principal.
// Paid sums payments that were not superseded by an edit or cancelled;
// superseded rows stay in history but leave the arithmetic. Remaining may be
// negative, meaning the customer overpaid and holds credit.
func Aggregate(txs []models.Transaction) Balance {
	var b Balance
	for i := range txs {
		t := &txs[i]
		switch t.Type {
		case models.TxLoan, models.TxRenewal, models.TxRestoredLoan:
			b.TotalOwed = b.TotalOwed.Add(t.Amount)
		case models.TxPayment:
			if t.IsEdited || t.IsCancelled {
				continue
			}
			b.TotalPaid = b.TotalPaid.Add(t.Amount)
		}
	}
	b.Remaining = b.TotalOwed.Sub(b.TotalPaid)
	return b
}
