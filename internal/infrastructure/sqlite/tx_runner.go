package sqlite

import (
	"context"
	"fmt"

	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite (BEGIN IMMEDIATE).
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre la tx, ejecuta fn con repos atados a ella y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	txRepo repository.TransactionRepository,
) error) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", storageErr(err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewProductRepository(tx), NewStockLevelRepository(tx), NewTransactionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", storageErr(err))
	}
	return nil
}
