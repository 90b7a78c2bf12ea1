package handler

import (
	"errors"
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// respondErr maps engine errors onto the response envelope: not-found to
// 404, conflicts to 409, validation to 400, everything else to 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrLineNotFound),
		errors.Is(err, ledger.ErrDayNotFound),
		errors.Is(err, ledger.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrArchiveNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateDay),
		errors.Is(err, ledger.ErrDuplicateVisibleID),
		errors.Is(err, ledger.ErrHasRemainingBalance),
		errors.Is(err, ledger.ErrOutstandingBalance),
		errors.Is(err, ledger.ErrAlreadyRestored),
		errors.Is(err, ledger.ErrTransactionSuperseded):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidTerms):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}
