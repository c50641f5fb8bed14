package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
)

// ApplyMovementRequest entrada para POST /api/stock/movements.
// Kind vacío = se deriva del signo de delta (restock / sale).
type ApplyMovementRequest struct {
	ProductID  int64     `json:"product_id"`
	Delta      int64     `json:"delta"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind,omitempty"`
}

// ToInput convierte la petición al input del caso de uso.
func (r ApplyMovementRequest) ToInput() ledger.ApplyInput {
	return ledger.ApplyInput{ProductID: r.ProductID, Delta: r.Delta, OccurredAt: r.OccurredAt, Kind: r.Kind}
}

// WithdrawRequest entrada para POST /api/stock/:product_id/withdraw.
type WithdrawRequest struct {
	Quantity   int64     `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind,omitempty"`
}

// StockQuantityResponse cantidad actual de un producto.
type StockQuantityResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// WithdrawResponse resultado de una salida recortada.
type WithdrawResponse struct {
	ProductID   int64 `json:"product_id"`
	Requested   int64 `json:"requested"`
	Applied     int64 `json:"applied"`
	NewQuantity int64 `json:"new_quantity"`
	Clamped     bool  `json:"clamped"`
}

// FromWithdrawResult mapea el resultado del caso de uso.
func FromWithdrawResult(productID int64, r *ledger.WithdrawResult) WithdrawResponse {
	return WithdrawResponse{
		ProductID:   productID,
		Requested:   r.Requested,
		Applied:     r.Applied,
		NewQuantity: r.NewQuantity,
		Clamped:     r.Clamped,
	}
}

// StockItemResponse fila del listado de stock.
type StockItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// FromStockViews mapea el listado de stock.
func FromStockViews(views []entity.StockView) []StockItemResponse {
	out := make([]StockItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, StockItemResponse{
			ProductID: v.ProductID,
			Name:      v.Name,
			Category:  v.Category,
			Price:     v.Price,
			Quantity:  v.Quantity,
		})
	}
	return out
}

// TransactionResponse registro del libro.
type TransactionResponse struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	Delta      int64     `json:"delta"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind"`
}

// FromTransactions mapea el historial de un producto.
func FromTransactions(txs []entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, fromTransaction(t))
	}
	return out
}

func fromTransaction(t entity.Transaction) TransactionResponse {
	return TransactionResponse{ID: t.ID, ProductID: t.ProductID, Delta: t.Delta, OccurredAt: t.OccurredAt, Kind: t.Kind}
}

// OutboundResponse salida con nombre y precio del producto.
type OutboundResponse struct {
	TransactionResponse
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// FromOutbound mapea salidas.
func FromOutbound(txs []entity.OutboundTransaction) []OutboundResponse {
	out := make([]OutboundResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, OutboundResponse{
			TransactionResponse: fromTransaction(t.Transaction),
			ProductName:         t.ProductName,
			UnitPrice:           t.UnitPrice,
		})
	}
	return out
}

// ProductSubtotalResponse subtotal de un producto en un día.
type ProductSubtotalResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DailyRecordResponse resumen de ventas de un día.
type DailyRecordResponse struct {
	Date         string                    `json:"date"`
	TotalItems   int64                     `json:"total_items"`
	TotalRevenue decimal.Decimal           `json:"total_revenue"`
	Products     []ProductSubtotalResponse `json:"products"`
	Entries      []OutboundResponse        `json:"entries"`
}

// FromDailyRecord mapea un día.
func FromDailyRecord(r entity.DailyRecord) DailyRecordResponse {
	products := make([]ProductSubtotalResponse, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, ProductSubtotalResponse(p))
	}
	return DailyRecordResponse{
		Date:         r.Date,
		TotalItems:   r.TotalItems,
		TotalRevenue: r.TotalRevenue,
		Products:     products,
		Entries:      FromOutbound(r.Entries),
	}
}

// FromDailyRecords mapea el listado diario.
func FromDailyRecords(records []entity.DailyRecord) []DailyRecordResponse {
	out := make([]DailyRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromDailyRecord(r))
	}
	return out
}

// BatchItemRequest una línea del lote de ventas.
type BatchItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// BatchSalesRequest entrada para POST /api/sales/batch. OccurredAt aplica a todas las líneas.
type BatchSalesRequest struct {
	OccurredAt time.Time          `json:"occurred_at"`
	Items      []BatchItemRequest `json:"items"`
}

// ToEntries convierte la petición a entradas del registrador por lotes.
func (r BatchSalesRequest) ToEntries() []ledger.BatchEntry {
	out := make([]ledger.BatchEntry, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, ledger.BatchEntry{ProductID: it.ProductID, QuantitySold: it.Quantity, OccurredAt: r.OccurredAt})
	}
	return out
}

// BatchFailureResponse línea fallida.
type BatchFailureResponse struct {
	ProductID int64  `json:"product_id"`
	Error     string `json:"error"`
}

// BatchResponse resultado del lote.
type BatchResponse struct {
	BatchID      string                 `json:"batch_id"`
	SuccessCount int                    `json:"success_count"`
	Clamped      []int64                `json:"clamped"`
	Skipped      []int64                `json:"skipped"`
	Failures     []BatchFailureResponse `json:"failures"`
}

// FromBatchResult mapea el resultado del lote.
func FromBatchResult(r *ledger.BatchResult) BatchResponse {
	failures := make([]BatchFailureResponse, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, BatchFailureResponse{ProductID: f.ProductID, Error: f.Err.Error()})
	}
	return BatchResponse{
		BatchID:      r.BatchID,
		SuccessCount: r.SuccessCount,
		Clamped:      nonNil(r.Clamped),
		Skipped:      nonNil(r.Skipped),
		Failures:     failures,
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
