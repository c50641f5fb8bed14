package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Append persiste un movimiento y asigna su ID.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	const query = `
		INSERT INTO transactions (product_id, delta, occurred_at, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, tx.ProductID, tx.Delta, tx.OccurredAt, tx.Kind).Scan(&tx.ID)
	return wrap("append transaction", err)
}

// ListByProduct lista los movimientos de un producto, más reciente primero.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID int64, kind string) ([]entity.Transaction, error) {
	query := `
		SELECT id, product_id, delta, occurred_at, kind
		FROM transactions WHERE product_id = $1`
	args := []any{productID}
	if kind != "" {
		query += " AND kind = $2"
		args = append(args, kind)
	}
	query += " ORDER BY occurred_at DESC, id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list by product", err)
	}
	defer rows.Close()
	var list []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Delta, &t.OccurredAt, &t.Kind); err != nil {
			return nil, wrap("scan transaction", err)
		}
		list = append(list, t)
	}
	return list, wrap("list by product", rows.Err())
}

// ListOutbound lista las salidas (delta < 0) con nombre y precio del producto.
func (r *TransactionRepo) ListOutbound(ctx context.Context, since *time.Time) ([]entity.OutboundTransaction, error) {
	query := `
		SELECT t.id, t.product_id, t.delta, t.occurred_at, t.kind, p.name, p.price
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.delta < 0`
	args := []any{}
	if since != nil {
		query += fmt.Sprintf(" AND t.occurred_at >= $%d", len(args)+1)
		args = append(args, *since)
	}
	query += " ORDER BY t.occurred_at DESC, t.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list outbound", err)
	}
	defer rows.Close()
	var list []entity.OutboundTransaction
	for rows.Next() {
		var o entity.OutboundTransaction
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Delta, &o.OccurredAt, &o.Kind, &o.ProductName, &o.UnitPrice); err != nil {
			return nil, wrap("scan outbound", err)
		}
		list = append(list, o)
	}
	return list, wrap("list outbound", rows.Err())
}

// SumByProduct suma los delta registrados de un producto.
func (r *TransactionRepo) SumByProduct(ctx context.Context, productID int64) (int64, error) {
	const query = `SELECT COALESCE(SUM(delta), 0)::BIGINT FROM transactions WHERE product_id = $1`
	var sum int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&sum); err != nil {
		return 0, wrap("sum by product", err)
	}
	return sum, nil
}
