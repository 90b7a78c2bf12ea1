package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CustomerHandler serves the customer lifecycle: first loan, lists,
// balances and timelines.
type CustomerHandler struct {
	Engine *ledger.Engine
}

func NewCustomerHandler(engine *ledger.Engine) *CustomerHandler {
	return &CustomerHandler{Engine: engine}
}

type createCustomerReq struct {
	ID          string          `json:"id" binding:"required,max=32"`
	Name        string          `json:"name" binding:"required,max=64"`
	Village     string          `json:"village" binding:"max=64"`
	Phone       string          `json:"phone" binding:"max=20"`
	TakenAmount decimal.Decimal `json:"takenAmount" binding:"required"`
	Interest    decimal.Decimal `json:"interest"`
	PC          decimal.Decimal `json:"pc"`
	Weeks       int             `json:"weeks"`
	Date        string          `json:"date"`
}

// CreateCustomer issues a first loan: new identity, one loan entry, one
// principal delta off the BF.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req createCustomerReq
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

	cust, newBF, err := h.Engine.CreateLoan(
		c.Param("lineId"), c.Param("day"), req.ID,
		ledger.CustomerProfile{Name: req.Name, Village: req.Village, Phone: req.Phone},
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

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	custs, err := h.Engine.ListActiveCustomers(c.Param("lineId"), c.Param("day"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"customers": custs})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	cust, bal, err := h.Engine.GetCustomer(c.Param("lineId"), c.Param("day"), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"customer": cust,
		"balance":  bal,
	})
}

// GetTimeline returns the annotated chronological history of a customer,
// old cycles included.
func (h *CustomerHandler) GetTimeline(c *gin.Context) {
	cust, _, err := h.Engine.GetCustomer(c.Param("lineId"), c.Param("day"), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	timeline, err := h.Engine.Timeline(cust.InternalID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"customer": cust,
		"timeline": timeline,
	})
}

// ListPending returns active customers of the line still owing money.
func (h *CustomerHandler) ListPending(c *gin.Context) {
	pending, err := h.Engine.ListPendingCustomers(c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"pendingCustomers": pending})
}

// NextVisibleID suggests a free visible ID for the day.
func (h *CustomerHandler) NextVisibleID(c *gin.Context) {
	id, err := h.Engine.NextVisibleID(c.Param("lineId"), c.Param("day"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"nextId": id})
}
