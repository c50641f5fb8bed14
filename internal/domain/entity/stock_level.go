package entity

import "time"

// StockLevel es la cantidad cacheada de un producto (tabla stock_levels).
// Invariante: Quantity == suma de Delta de todas las Transaction del producto.
type StockLevel struct {
	ProductID int64
	Quantity  int64
	UpdatedAt time.Time
}
