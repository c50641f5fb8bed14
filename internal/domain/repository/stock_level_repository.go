package repository

import (
	"context"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar la cantidad cacheada por producto.
// Las escrituras solo ocurren dentro de una transacción del TxRunner.
type StockLevelRepository interface {
	// Get devuelve un nivel en cero si el producto aún no tiene movimientos.
	Get(ctx context.Context, productID int64) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID int64) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
	// ListWithProducts une cada producto con su nivel (cero si no existe fila).
	ListWithProducts(ctx context.Context) ([]entity.StockView, error)
}
