package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ArchiveHandler serves soft-delete and restore.
type ArchiveHandler struct {
	Engine *ledger.Engine
}

func NewArchiveHandler(engine *ledger.Engine) *ArchiveHandler {
	return &ArchiveHandler{Engine: engine}
}

// DeleteCustomer archives a settled customer. History and BF stay put.
func (h *ArchiveHandler) DeleteCustomer(c *gin.Context) {
	rec, err := h.Engine.DeleteCustomer(c.Param("lineId"), c.Param("day"), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":  "customer deleted",
		"archived": rec,
	})
}

type restoreReq struct {
	OldID             string          `json:"id" binding:"required,max=32"`
	DeletedFrom       string          `json:"deletedFrom" binding:"required,max=32"`
	DeletionTimestamp int64           `json:"deletionTimestamp"`
	NewID             string          `json:"newId" binding:"required,max=32"`
	TakenAmount       decimal.Decimal `json:"takenAmount" binding:"required"`
	Interest          decimal.Decimal `json:"interest"`
	PC                decimal.Decimal `json:"pc"`
	Weeks             int             `json:"weeks"`
	Date              string          `json:"date"`
}

// RestoreCustomer revives an archived customer under a new visible ID with
// new loan terms; the old history follows the unchanged internal ID.
func (h *ArchiveHandler) RestoreCustomer(c *gin.Context) {
	var req restoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.TakenAmount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	cust, newBF, err := h.Engine.RestoreCustomer(
		c.Param("lineId"), req.OldID, req.DeletedFrom, req.DeletionTimestamp, req.NewID,
		ledger.LoanTerms{
			TakenAmount: req.TakenAmount,
			Interest:    req.Interest,
			PC:          req.PC,
			Weeks:       req.Weeks,
			Date:        req.Date,
		},
	)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{
		"customer": cust,
		"newBF":    newBF,
	})
}

func (h *ArchiveHandler) ListDeleted(c *gin.Context) {
	recs, err := h.Engine.ListArchivedCustomers(c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"deletedCustomers": recs})
}

// GetDeletedDetail returns the archive cycles and untouched history of a
// deleted internal ID.
func (h *ArchiveHandler) GetDeletedDetail(c *gin.Context) {
	detail, err := h.Engine.GetArchivedDetail(c.Param("lineId"), c.Param("internalId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"detail": detail})
}
