package handler

import (
	"net/http"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// DayHandler serves collection-round endpoints.
type DayHandler struct {
	Engine *ledger.Engine
}

func NewDayHandler(engine *ledger.Engine) *DayHandler {
	return &DayHandler{Engine: engine}
}

type createDayReq struct {
	Day string `json:"day" binding:"required,max=32"`
}

func (h *DayHandler) CreateDay(c *gin.Context) {
	var req createDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateLabel(req.Day); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	day, err := h.Engine.CreateDay(c.Param("lineId"), req.Day)
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Created(c, util.Response{"day": day})
}

func (h *DayHandler) ListDays(c *gin.Context) {
	days, err := h.Engine.ListDays(c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	util.Success(c, util.Response{"days": days})
}
