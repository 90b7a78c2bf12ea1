package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler serves line-level cash books.
type AccountHandler struct {
	Engine *ledger.Engine
}

func NewAccountHandler(engine *ledger.Engine) *AccountHandler {
	return &AccountHandler{Engine: engine}
}

type accountReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	acct, err := h.Engine.CreateAccount(c.Param("lineId"), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{"account": acct})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accts, err := h.Engine.ListAccounts(c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": accts})
}

func (h *AccountHandler) RenameAccount(c *gin.Context) {
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	acct, err := h.Engine.RenameAccount(c.Param("lineId"), c.Param("accountId"), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"account": acct})
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	newBF, err := h.Engine.DeleteAccount(c.Param("lineId"), c.Param("accountId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "account deleted",
		"newBF":   newBF,
	})
}

type accountEntryReq struct {
	Credit  decimal.Decimal `json:"creditAmount"`
	Debit   decimal.Decimal `json:"debitAmount"`
	Date    string          `json:"date"`
	Comment string          `json:"comment" binding:"max=255"`
}

// AddEntry records a credit/debit row; BF moves by credit - debit.
func (h *AccountHandler) AddEntry(c *gin.Context) {
	var req accountEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	entry, newBF, err := h.Engine.AddAccountEntry(
		c.Param("lineId"), c.Param("accountId"),
		req.Credit, req.Debit, req.Date, req.Comment,
	)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{
		"entry": entry,
		"newBF": newBF,
	})
}

func (h *AccountHandler) ListEntries(c *gin.Context) {
	entries, totals, err := h.Engine.ListAccountEntries(c.Param("lineId"), c.Param("accountId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"transactions": entries,
		"totals":       totals,
	})
}
