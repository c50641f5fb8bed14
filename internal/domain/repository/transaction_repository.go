package repository

import (
	"context"
	"time"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
)

// TransactionRepository puerto de persistencia del libro. Solo anexa: no hay Update ni Delete.
type TransactionRepository interface {
	// Append inserta el registro y asigna tx.ID.
	Append(ctx context.Context, tx *entity.Transaction) error
	// ListByProduct ordena por occurred_at DESC, id DESC. kind vacío = todos.
	ListByProduct(ctx context.Context, productID int64, kind string) ([]entity.Transaction, error)
	// ListOutbound devuelve delta < 0 con nombre y precio del producto; since nil = todo el historial.
	ListOutbound(ctx context.Context, since *time.Time) ([]entity.OutboundTransaction, error)
	// SumByProduct suma los delta de un producto (auditoría del invariante).
	SumByProduct(ctx context.Context, productID int64) (int64, error)
}
