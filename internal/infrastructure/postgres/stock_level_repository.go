package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el stock actual de un producto; cantidad 0 si aún no tiene fila.
func (r *StockLevelRepo) Get(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	const query = `SELECT product_id, quantity, updated_at FROM stock_levels WHERE product_id = $1`
	return r.scanOne(ctx, "get stock level", query, productID)
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
// El INSERT previo evita que dos transacciones concurrentes partan ambas de "sin fila".
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	const ensure = `
		INSERT INTO stock_levels (product_id, quantity, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, productID); err != nil {
		return nil, wrap("ensure stock level", err)
	}
	const query = `
		SELECT product_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1
		FOR UPDATE`
	return r.scanOne(ctx, "get stock level for update", query, productID)
}

// Upsert inserta o actualiza la cantidad cacheada del producto.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	const query = `
		INSERT INTO stock_levels (product_id, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, level.ProductID, level.Quantity, level.UpdatedAt)
	return wrap("upsert stock level", err)
}

// ListWithProducts une products con stock_levels; productos sin fila salen con 0.
func (r *StockLevelRepo) ListWithProducts(ctx context.Context) ([]entity.StockView, error) {
	const query = `
		SELECT p.id, p.name, p.category, p.price, COALESCE(s.quantity, 0)
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		ORDER BY p.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrap("list stock", err)
	}
	defer rows.Close()
	var list []entity.StockView
	for rows.Next() {
		var v entity.StockView
		if err := rows.Scan(&v.ProductID, &v.Name, &v.Category, &v.Price, &v.Quantity); err != nil {
			return nil, wrap("scan stock", err)
		}
		list = append(list, v)
	}
	return list, wrap("list stock", rows.Err())
}

func (r *StockLevelRepo) scanOne(ctx context.Context, op, query string, productID int64) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID}, nil
		}
		return nil, wrap(op, err)
	}
	return &s, nil
}
