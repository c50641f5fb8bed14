package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	KindRestock    = "restock"    // entrada por reposición
	KindSale       = "sale"       // salida por venta
	KindAdjustment = "adjustment" // merma o corrección, cualquier signo
)

// ValidKind indica si k es un tipo de movimiento reconocido.
func ValidKind(k string) bool {
	switch k {
	case KindRestock, KindSale, KindAdjustment:
		return true
	}
	return false
}

// KindForDelta devuelve el tipo por defecto cuando el llamador no lo informa.
func KindForDelta(delta int64) string {
	if delta > 0 {
		return KindRestock
	}
	return KindSale
}

// Transaction es un registro inmutable del libro (tabla transactions).
// Delta positivo = entrada, negativo = salida. OccurredAt lo fija el llamador y puede ser pasado.
type Transaction struct {
	ID         int64
	ProductID  int64
	Delta      int64
	OccurredAt time.Time
	Kind       string
}

// OutboundTransaction es una salida unida con los datos de su producto, para reportes.
type OutboundTransaction struct {
	Transaction
	ProductName string
	UnitPrice   decimal.Decimal
}

// StockView es el stock actual de un producto unido con su ficha de catálogo.
type StockView struct {
	ProductID int64
	Name      string
	Category  string
	Price     decimal.Decimal
	Quantity  int64
}
