package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentHandler serves payment recording, correction and cancellation.
type PaymentHandler struct {
	Engine *ledger.Engine
}

func NewPaymentHandler(engine *ledger.Engine) *PaymentHandler {
	return &PaymentHandler{Engine: engine}
}

type paymentReq struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    string          `json:"date"`
	Comment string          `json:"comment" binding:"max=255"`
}

func (h *PaymentHandler) AddPayment(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	payment, bal, newBF, err := h.Engine.RecordPayment(
		c.Param("lineId"), c.Param("day"), c.Param("id"),
		req.Amount, req.Date, req.Comment,
	)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{
		"transaction": payment,
		"balance":     bal,
		"newBF":       newBF,
	})
}

type editPaymentReq struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Comment string          `json:"comment" binding:"max=255"`
}

// EditPayment supersedes a payment with a corrected one. The original row
// stays in the log with the edited flag; BF moves by the difference.
func (h *PaymentHandler) EditPayment(c *gin.Context) {
	var req editPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	replacement, newBF, err := h.Engine.EditPayment(
		c.Param("lineId"), c.Param("day"), c.Param("id"), c.Param("txId"),
		req.Amount, req.Comment,
	)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"transaction": replacement,
		"newBF":       newBF,
	})
}

// CancelPayment voids a payment; the row is flagged, never removed.
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	newBF, err := h.Engine.CancelPayment(
		c.Param("lineId"), c.Param("day"), c.Param("id"), c.Param("txId"),
	)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "payment cancelled",
		"newBF":   newBF,
	})
}

type renewalReq struct {
	TakenAmount decimal.Decimal `json:"takenAmount" binding:"required"`
	Interest    decimal.Decimal `json:"interest"`
	PC          decimal.Decimal `json:"pc"`
	Weeks       int             `json:"weeks"`
	Date        string          `json:"date"`
}

// CreateRenewal replaces a settled loan with new terms for the same
// customer identity.
func (h *PaymentHandler) CreateRenewal(c *gin.Context) {
	var req renewalReq
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

	renewal, newBF, err := h.Engine.Renew(
		c.Param("lineId"), c.Param("day"), c.Param("id"),
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
		"renewal": renewal,
		"newBF":   newBF,
	})
}
