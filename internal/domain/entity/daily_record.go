package entity

import "github.com/shopspring/decimal"

// DailyRecord resume las salidas de un día calendario. Es derivado y no se persiste.
type DailyRecord struct {
	Date         string // YYYY-MM-DD en la zona horaria del libro
	TotalItems   int64  // suma de |Delta|
	TotalRevenue decimal.Decimal
	Entries      []OutboundTransaction
	Products     []ProductSubtotal
}

// ProductSubtotal agrega las unidades vendidas de un producto dentro de un día.
type ProductSubtotal struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}
