package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*ProductRepo)(nil)
	_ repository.StockLevelRepository  = (*StockLevelRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
)

// ProductRepo lectura del catálogo (usable con *sqlx.DB o *sqlx.Tx).
type ProductRepo struct{ q sqlx.ExtContext }

// NewProductRepository construye el adaptador.
func NewProductRepository(q sqlx.ExtContext) *ProductRepo { return &ProductRepo{q: q} }

type productRow struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Price    decimal.Decimal `db:"price"`
	Category string          `db:"category"`
}

// GetByID devuelve nil, nil si el producto no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT id, name, price, category FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get product", err)
	}
	return &entity.Product{ID: row.ID, Name: row.Name, Price: row.Price, Category: row.Category}, nil
}

// StockLevelRepo nivel cacheado por producto.
type StockLevelRepo struct{ q sqlx.ExtContext }

// NewStockLevelRepository construye el adaptador.
func NewStockLevelRepository(q sqlx.ExtContext) *StockLevelRepo { return &StockLevelRepo{q: q} }

type levelRow struct {
	ProductID int64  `db:"product_id"`
	Quantity  int64  `db:"quantity"`
	UpdatedAt string `db:"updated_at"`
}

// Get devuelve cantidad 0 si el producto no tiene fila.
func (r *StockLevelRepo) Get(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	var row levelRow
	err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT product_id, quantity, updated_at FROM stock_levels WHERE product_id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID}, nil
		}
		return nil, wrap("get stock level", err)
	}
	updated, err := parseTime(row.UpdatedAt)
	if err != nil {
		return nil, wrap("get stock level", err)
	}
	return &entity.StockLevel{ProductID: row.ProductID, Quantity: row.Quantity, UpdatedAt: updated}, nil
}

// GetForUpdate en SQLite equivale a Get: la tx IMMEDIATE ya tiene el bloqueo de escritura.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	return r.Get(ctx, productID)
}

// Upsert inserta o actualiza la cantidad.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_levels (product_id, quantity, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		level.ProductID, level.Quantity, formatTime(level.UpdatedAt))
	return wrap("upsert stock level", err)
}

type stockViewRow struct {
	ProductID int64           `db:"id"`
	Name      string          `db:"name"`
	Category  string          `db:"category"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int64           `db:"quantity"`
}

// ListWithProducts une products con stock_levels.
func (r *StockLevelRepo) ListWithProducts(ctx context.Context) ([]entity.StockView, error) {
	var rows []stockViewRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT p.id, p.name, p.category, p.price, COALESCE(s.quantity, 0) AS quantity
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		ORDER BY p.id`)
	if err != nil {
		return nil, wrap("list stock", err)
	}
	list := make([]entity.StockView, 0, len(rows))
	for _, row := range rows {
		list = append(list, entity.StockView(row))
	}
	return list, nil
}

// TransactionRepo libro de movimientos; solo INSERT y SELECT.
type TransactionRepo struct{ q sqlx.ExtContext }

// NewTransactionRepository construye el adaptador.
func NewTransactionRepository(q sqlx.ExtContext) *TransactionRepo { return &TransactionRepo{q: q} }

type transactionRow struct {
	ID          int64           `db:"id"`
	ProductID   int64           `db:"product_id"`
	Delta       int64           `db:"delta"`
	OccurredAt  string          `db:"occurred_at"`
	Kind        string          `db:"kind"`
	ProductName string          `db:"product_name"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
}

func (row transactionRow) toEntity() (entity.Transaction, error) {
	at, err := parseTime(row.OccurredAt)
	if err != nil {
		return entity.Transaction{}, err
	}
	return entity.Transaction{ID: row.ID, ProductID: row.ProductID, Delta: row.Delta, OccurredAt: at, Kind: row.Kind}, nil
}

// Append inserta el movimiento y asigna su ID.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO transactions (product_id, delta, occurred_at, kind) VALUES (?, ?, ?, ?)`,
		tx.ProductID, tx.Delta, formatTime(tx.OccurredAt), tx.Kind)
	if err != nil {
		return wrap("append transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrap("append transaction", err)
	}
	tx.ID = id
	return nil
}

// ListByProduct más reciente primero; kind vacío = todos.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID int64, kind string) ([]entity.Transaction, error) {
	query := `SELECT id, product_id, delta, occurred_at, kind FROM transactions WHERE product_id = ?`
	args := []any{productID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY occurred_at DESC, id DESC`

	var rows []transactionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, wrap("list by product", err)
	}
	list := make([]entity.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.toEntity()
		if err != nil {
			return nil, wrap("list by product", err)
		}
		list = append(list, t)
	}
	return list, nil
}

// ListOutbound salidas con nombre y precio del producto.
func (r *TransactionRepo) ListOutbound(ctx context.Context, since *time.Time) ([]entity.OutboundTransaction, error) {
	query := `
		SELECT t.id, t.product_id, t.delta, t.occurred_at, t.kind, p.name AS product_name, p.price AS unit_price
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.delta < 0`
	var args []any
	if since != nil {
		query += ` AND t.occurred_at >= ?`
		args = append(args, formatTime(*since))
	}
	query += ` ORDER BY t.occurred_at DESC, t.id DESC`

	var rows []transactionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, wrap("list outbound", err)
	}
	list := make([]entity.OutboundTransaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.toEntity()
		if err != nil {
			return nil, wrap("list outbound", err)
		}
		list = append(list, entity.OutboundTransaction{Transaction: t, ProductName: row.ProductName, UnitPrice: row.UnitPrice})
	}
	return list, nil
}

// SumByProduct suma los delta de un producto.
func (r *TransactionRepo) SumByProduct(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := sqlx.GetContext(ctx, r.q, &sum,
		`SELECT COALESCE(SUM(delta), 0) FROM transactions WHERE product_id = ?`, productID)
	return sum, wrap("sum by product", err)
}
