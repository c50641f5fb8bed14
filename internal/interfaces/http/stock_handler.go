package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Felix-F07/gudang-online/internal/application/dto"
	"github.com/Felix-F07/gudang-online/internal/application/ledger"
)

// StockHandler maneja movimientos y consultas de stock.
type StockHandler struct {
	mutator *ledger.StockMutator
	reader  *ledger.StockReader
	errs    errorResponder
}

// NewStockHandler construye el handler.
func NewStockHandler(mutator *ledger.StockMutator, reader *ledger.StockReader, log zerolog.Logger) *StockHandler {
	return &StockHandler{mutator: mutator, reader: reader, errs: errorResponder{log: log}}
}

// ApplyMovement godoc
// @Summary      Aplicar movimiento de stock
// @Description  Suma delta al stock del producto y registra el movimiento en una sola transacción.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, delta (!= 0), occurred_at (RFC3339), kind opcional"
// @Success      201   {object}  dto.StockQuantityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	qty, err := h.mutator.Apply(c.Context(), in.ToInput())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockQuantityResponse{ProductID: in.ProductID, Quantity: qty})
}

// Withdraw godoc
// @Summary      Retirar stock
// @Description  Descuenta la cantidad pedida recortada al stock disponible. Sin stock responde 409.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        product_id  path  int                  true  "ID del producto"
// @Param        body        body  dto.WithdrawRequest  true  "quantity (> 0), occurred_at"
// @Success      200   {object}  dto.WithdrawResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/withdraw [post]
func (h *StockHandler) Withdraw(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return badProductID(c)
	}
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.mutator.Withdraw(c.Context(), ledger.WithdrawInput{
		ProductID:  productID,
		Quantity:   in.Quantity,
		OccurredAt: in.OccurredAt,
		Kind:       in.Kind,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromWithdrawResult(productID, res))
}

// List godoc
// @Summary      Listado de stock
// @Description  Todos los productos con su cantidad actual, ordenados por nombre. Omite las categorías excluidas.
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.StockItemResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	views, err := h.reader.ListStock(c.Context())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromStockViews(views))
}

// Current godoc
// @Summary      Stock actual de un producto
// @Tags         stock
// @Produce      json
// @Param        product_id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockQuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) Current(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return badProductID(c)
	}
	qty, err := h.reader.CurrentStock(c.Context(), productID)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.StockQuantityResponse{ProductID: productID, Quantity: qty})
}

// History godoc
// @Summary      Historial de movimientos
// @Description  Movimientos del producto, más recientes primero. kind filtra por tipo (restock, sale, adjustment).
// @Tags         stock
// @Produce      json
// @Param        product_id  path   int     true   "ID del producto"
// @Param        kind        query  string  false  "Tipo de movimiento"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return badProductID(c)
	}
	txs, err := h.reader.History(c.Context(), productID, c.Query("kind"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.FromTransactions(txs))
}
