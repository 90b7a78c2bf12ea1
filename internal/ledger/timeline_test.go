package ledger

import (
	"testing"

	"collection-ledger/internal/models"

	"github.com/stretchr/testify/require"
)

func TestReconstructTagsAndSettlement(t *testing.T) {
	loan := tx(models.TxLoan, 1000, 0, 0)
	loan.IsFirstLoan = true

	entries := Reconstruct([]models.Transaction{
		loan,
		tx(models.TxPayment, 1000, 0, 0),
		tx(models.TxRenewal, 2000, 200, 0),
		tx(models.TxPayment, 2000, 0, 0),
		tx(models.TxRestoredLoan, 3000, 0, 0),
	})
	require.Len(t, entries, 5)

	require.Equal(t, "NEW LOAN", entries[0].Tag)
	require.True(t, entries[0].IsFirstLoan)
	// the loan was superseded by the renewal, the renewal by the
	// restored loan
	require.True(t, entries[0].IsSettled)
	require.Equal(t, "RENEWAL", entries[2].Tag)
	require.True(t, entries[2].IsSettled)
	require.Equal(t, "RESTORED LOAN", entries[4].Tag)
	require.True(t, entries[4].IsRestoredLoan)
	require.False(t, entries[4].IsSettled)

	require.Equal(t, "PAYMENT", entries[1].Tag)
	require.False(t, entries[1].IsSettled)
}

func TestReconstructIdempotent(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TxLoan, 1000, 0, 0),
		tx(models.TxRenewal, 2000, 0, 0),
	}
	first := Reconstruct(txs)
	second := Reconstruct(txs)
	require.Equal(t, first, second)
	// the input was not annotated in place
	require.False(t, txs[0].IsEdited)
}

func TestReconstructEmpty(t *testing.T) {
	require.Empty(t, Reconstruct(nil))
}
