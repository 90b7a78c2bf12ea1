package router

import (
	"collection-ledger/internal/config"
	"collection-ledger/internal/handler"
	"collection-ledger/internal/ledger"
	"collection-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and registers the API surface.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	engine := ledger.NewEngine(db, ledger.Policy{
		AllowOverpaidRenewal: cfg.App.AllowOverpaidRenewal,
		DefaultWeeks:         cfg.App.DefaultWeeks,
	})

	api := r.Group("/api")
	api.Use(middleware.AuditMiddleware(db))

	lineHandler := handler.NewLineHandler(engine)
	api.POST("/lines", lineHandler.CreateLine)
	api.GET("/lines", lineHandler.ListLines)
	api.GET("/lines/:lineId", lineHandler.GetLine)
	api.GET("/lines/:lineId/bf", lineHandler.GetBF)

	dayHandler := handler.NewDayHandler(engine)
	api.POST("/lines/:lineId/days", dayHandler.CreateDay)
	api.GET("/lines/:lineId/days", dayHandler.ListDays)

	customerHandler := handler.NewCustomerHandler(engine)
	api.POST("/lines/:lineId/days/:day/customers", customerHandler.CreateCustomer)
	api.GET("/lines/:lineId/days/:day/customers", customerHandler.ListCustomers)
	api.GET("/lines/:lineId/days/:day/customers/next-id", customerHandler.NextVisibleID)
	api.GET("/lines/:lineId/days/:day/customers/:id", customerHandler.GetCustomer)
	api.GET("/lines/:lineId/days/:day/customers/:id/timeline", customerHandler.GetTimeline)
	api.GET("/lines/:lineId/customers/pending", customerHandler.ListPending)

	paymentHandler := handler.NewPaymentHandler(engine)
	api.POST("/lines/:lineId/days/:day/customers/:id/payments", paymentHandler.AddPayment)
	api.PUT("/lines/:lineId/days/:day/customers/:id/payments/:txId", paymentHandler.EditPayment)
	api.DELETE("/lines/:lineId/days/:day/customers/:id/payments/:txId", paymentHandler.CancelPayment)
	api.POST("/lines/:lineId/days/:day/customers/:id/renewals", paymentHandler.CreateRenewal)

	archiveHandler := handler.NewArchiveHandler(engine)
	api.DELETE("/lines/:lineId/days/:day/customers/:id", archiveHandler.DeleteCustomer)
	api.POST("/lines/:lineId/customers/restore", archiveHandler.RestoreCustomer)
	api.GET("/lines/:lineId/customers/deleted", archiveHandler.ListDeleted)
	api.GET("/lines/:lineId/customers/deleted/:internalId", archiveHandler.GetDeletedDetail)

	accountHandler := handler.NewAccountHandler(engine)
	api.POST("/lines/:lineId/accounts", accountHandler.CreateAccount)
	api.GET("/lines/:lineId/accounts", accountHandler.ListAccounts)
	api.PUT("/lines/:lineId/accounts/:accountId", accountHandler.RenameAccount)
	api.DELETE("/lines/:lineId/accounts/:accountId", accountHandler.DeleteAccount)
	api.POST("/lines/:lineId/accounts/:accountId/entries", accountHandler.AddEntry)
	api.GET("/lines/:lineId/accounts/:accountId/entries", accountHandler.ListEntries)

	exportHandler := handler.NewExportHandler(engine)
	api.GET("/lines/:lineId/days/:day/export/csv", exportHandler.ExportCSV)
	api.GET("/lines/:lineId/days/:day/export/xlsx", exportHandler.ExportXLSX)

	auditHandler := handler.NewAuditHandler(db)
	api.GET("/logs", auditHandler.ListLogs)

	return r
}
