package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"collection-ledger/internal/ledger"
	"collection-ledger/internal/models"
	"collection-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler writes day collection sheets as CSV or XLSX.
type ExportHandler struct {
	Engine *ledger.Engine
}

func NewExportHandler(engine *ledger.Engine) *ExportHandler {
	return &ExportHandler{Engine: engine}
}

var sheetHeaders = []string{
	"ID", "Name", "Village", "Phone", "Taken", "Interest", "PC",
	"Date", "Weeks", "Total Owed", "Total Paid", "Remaining",
}

// sheetRow resolves one customer into the exported columns.
func (h *ExportHandler) sheetRow(cust *models.Customer) ([]string, error) {
	bal, err := h.Engine.BalanceFor(cust.InternalID)
	if err != nil {
		return nil, err
	}
	return []string{
		cust.VisibleID,
		cust.Name,
		cust.Village,
		cust.Phone,
		cust.TakenAmount.StringFixed(2),
		cust.Interest.StringFixed(2),
		cust.PC.StringFixed(2),
		cust.Date,
		fmt.Sprintf("%d", cust.Weeks),
		bal.TotalOwed.StringFixed(2),
		bal.TotalPaid.StringFixed(2),
		bal.Remaining.StringFixed(2),
	}, nil
}

// ExportCSV exports the day's collection sheet as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	lineID, day := c.Param("lineId"), c.Param("day")
	custs, err := h.Engine.ListActiveCustomers(lineID, day)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s_%s.csv\"",
		lineID, day, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(sheetHeaders)
	for i := range custs {
		row, err := h.sheetRow(&custs[i])
		if err != nil {
			respondErr(c, err)
			return
		}
		writer.Write(row)
	}
}

// ExportXLSX exports the day's collection sheet as XLSX.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	lineID, day := c.Param("lineId"), c.Param("day")
	custs, err := h.Engine.ListActiveCustomers(lineID, day)
	if err != nil {
		respondErr(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Collection Sheet"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, hd := range sheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, hd)
	}
	for idx := range custs {
		row, err := h.sheetRow(&custs[idx])
		if err != nil {
			respondErr(c, err)
			return
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "L", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s_%s.xlsx\"",
		lineID, day, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
