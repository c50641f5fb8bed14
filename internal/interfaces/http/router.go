package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Felix-F07/gudang-online/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Mutator     *ledger.StockMutator
	Reader      *ledger.StockReader
	Bulk        *ledger.BulkRecorder
	DailyReport *ledger.DailyReportUseCase
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Mutator, deps.Reader, deps.Log)
	stock.Get("/", stockHandler.List)
	stock.Post("/movements", stockHandler.ApplyMovement)
	stock.Get("/:product_id", stockHandler.Current)
	stock.Get("/:product_id/history", stockHandler.History)
	stock.Post("/:product_id/withdraw", stockHandler.Withdraw)

	// Ventas y reportes
	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Reader, deps.Bulk, deps.DailyReport, deps.Log)
	sales.Get("/outbound", salesHandler.Outbound)
	sales.Get("/daily", salesHandler.Daily)
	sales.Get("/daily/:date", salesHandler.Day)
	sales.Get("/daily/:date/pdf", salesHandler.DayPDF)
	sales.Post("/batch", salesHandler.RecordBatch)
}
