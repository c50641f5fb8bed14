package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. El núcleo del libro de stock solo lo lee;
// el alta y edición del catálogo viven fuera de este servicio.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal // precio unitario de venta
	Category string
}
