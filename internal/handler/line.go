package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LineHandler serves lending-book endpoints.
type LineHandler struct {
	Engine *ledger.Engine
}

func NewLineHandler(engine *ledger.Engine) *LineHandler {
	return &LineHandler{Engine: engine}
}

type createLineReq struct {
	Name   string          `json:"name" binding:"required,max=64"`
	Type   string          `json:"type" binding:"omitempty,oneof=Daily Weekly"`
	Days   []string        `json:"days"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *LineHandler) CreateLine(c *gin.Context) {
	var req createLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.Amount.IsNegative() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "initial amount cannot be negative")
		return
	}
	for _, d := range req.Days {
		if err := util.ValidateLabel(d); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	line, err := h.Engine.CreateLine(req.Name, req.Type, req.Days, req.Amount)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{"line": line})
}

func (h *LineHandler) ListLines(c *gin.Context) {
	lines, err := h.Engine.ListLines()
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"lines": lines})
}

func (h *LineHandler) GetLine(c *gin.Context) {
	line, err := h.Engine.GetLine(c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"line": line})
}

// GetBF returns the materialized Balance Forward of a line.
func (h *LineHandler) GetBF(c *gin.Context) {
	lineID := c.Param("lineId")
	bf, err := h.Engine.GetBF(lineID)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"lineId":   lineID,
		"bfAmount": bf,
	})
}
