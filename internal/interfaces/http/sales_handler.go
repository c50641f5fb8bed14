package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Felix-F07/gudang-online/internal/application/dto"
	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain"
	domainledger "github.com/Felix-F07/gudang-online/internal/domain/ledger"
)

// SalesHandler maneja salidas, reportes diarios y registro de ventas por lote.
type SalesHandler struct {
	reader *ledger.StockReader
	bulk   *ledger.BulkRecorder
	report *ledger.DailyReportUseCase
	errs   errorResponder
}

// NewSalesHandler construye el handler.
func NewSalesHandler(reader *ledger.StockReader, bulk *ledger.BulkRecorder, report *ledger.DailyReportUseCase, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{reader: reader, bulk: bulk, report: report, errs: errorResponder{log: log}}
}

// Outbound godoc
// @Summary      Salidas de stock
// @Description  Movimientos de salida con nombre y precio del producto, más recientes primero.
// @Tags         sales
// @Produce      json
// @Param        since  query  string  false  "Corte inferior: RFC3339 o YYYY-MM-DD (zona del libro)"
// @Success      200  {array}   dto.OutboundResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/outbound [get]
func (h *SalesHandler) Outbound(c *fiber.Ctx) error {
	since, err := h.parseSince(c.Query("since"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	txs, err := h.reader.OutboundSince(c.Context(), since)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromOutbound(txs))
}

// Daily godoc
// @Summary      Resumen diario de ventas
// @Description  Salidas agrupadas por día calendario, día más reciente primero.
// @Tags         sales
// @Produce      json
// @Param        since  query  string  false  "Corte inferior: RFC3339 o YYYY-MM-DD (zona del libro)"
// @Success      200  {array}   dto.DailyRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/daily [get]
func (h *SalesHandler) Daily(c *fiber.Ctx) error {
	since, err := h.parseSince(c.Query("since"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	records, err := h.report.Daily(c.Context(), since)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromDailyRecords(records))
}

// Day godoc
// @Summary      Detalle de ventas de un día
// @Tags         sales
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.DailyRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/daily/{date} [get]
func (h *SalesHandler) Day(c *fiber.Ctx) error {
	rec, err := h.report.Day(c.Context(), c.Params("date"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromDailyRecord(*rec))
}

// DayPDF godoc
// @Summary      Reporte PDF de ventas de un día
// @Tags         sales
// @Produce      application/pdf
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/daily/{date}/pdf [get]
func (h *SalesHandler) DayPDF(c *fiber.Ctx) error {
	date := c.Params("date")
	data, err := h.report.DayPDF(c.Context(), date)
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="ventas-%s.pdf"`, date))
	return c.Send(data)
}

// RecordBatch godoc
// @Summary      Registrar ventas por lote
// @Description  Cada línea se descuenta por separado, recortada al stock. Las líneas sin stock se omiten
//
//	y los fallos no afectan al resto del lote.
//
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchSalesRequest  true  "occurred_at común y líneas product_id/quantity"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/batch [post]
func (h *SalesHandler) RecordBatch(c *fiber.Ctx) error {
	var in dto.BatchSalesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.OccurredAt.IsZero() {
		return h.errs.respond(c, fmt.Errorf("%w: occurred_at requerido", domain.ErrInvalidInput))
	}
	res := h.bulk.RecordBatch(c.Context(), in.ToEntries())
	return c.JSON(dto.FromBatchResult(res))
}

// parseSince acepta RFC3339 o una fecha YYYY-MM-DD interpretada en la zona del libro. Vacío = sin corte.
func (h *SalesHandler) parseSince(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(domainledger.DateLayout, raw, h.report.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: since %q", domain.ErrInvalidInput, raw)
	}
	return &t, nil
}
