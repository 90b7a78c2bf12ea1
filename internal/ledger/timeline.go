package ledger

import "collection-ledger/internal/models"

// TimelineEntry is one transaction plus display-only annotations. The
// annotations are derived on every call, never stored, so reconstructing a
// timeline is idempotent and side-effect-free.
type TimelineEntry struct {
	models.Transaction
	Tag            string `json:"tag"`
	IsRestoredLoan bool   `json:"isRestoredLoan,omitempty"`
	// IsSettled marks a loan/renewal that was later replaced by a renewal or
	// restored loan, i.e. its cycle is closed.
	IsSettled bool `json:"isSettled,omitempty"`
}

// Reconstruct merges a customer's entries (already in replay order) into a
// display-ready sequence. The loan-type entry immediately preceding a later
// renewal or restored loan is marked settled; restored entries carry their
// own tag so the first-loan semantics of the original loan stay intact.
func Reconstruct(txs []models.Transaction) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(txs))
	lastPrincipal := -1 // index into out of the latest open loan-type entry
	for i := range txs {
		t := txs[i]
		e := TimelineEntry{Transaction: t}
		switch t.Type {
		case models.TxLoan:
			e.Tag = "NEW LOAN"
		case models.TxPayment:
			e.Tag = "PAYMENT"
		case models.TxRenewal:
			e.Tag = "RENEWAL"
		case models.TxRestoredLoan:
			e.Tag = "RESTORED LOAN"
			e.IsRestoredLoan = true
		}
		if t.Type == models.TxRenewal || t.Type == models.TxRestoredLoan {
			if lastPrincipal >= 0 {
				out[lastPrincipal].IsSettled = true
			}
		}
		out = append(out, e)
		if t.Type.IsPrincipal() {
			lastPrincipal = len(out) - 1
		}
	}
	return out
}
