package main

import (
	"context"
	"fmt"

	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
	"github.com/Felix-F07/gudang-online/internal/infrastructure/postgres"
	"github.com/Felix-F07/gudang-online/internal/infrastructure/sqlite"
	"github.com/Felix-F07/gudang-online/pkg/config"
	"github.com/Felix-F07/gudang-online/pkg/logger"
)

// ledgerStore agrupa el TxRunner y los repositorios de lectura del driver elegido.
type ledgerStore struct {
	txRunner    ledger.TxRunner
	productRepo repository.ProductRepository
	levelRepo   repository.StockLevelRepository
	txRepo      repository.TransactionRepository
	close       func()
}

func openStore(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*ledgerStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("almacenamiento SQLite abierto")
		db := store.DB()
		return &ledgerStore{
			txRunner:    sqlite.NewTxRunner(store),
			productRepo: sqlite.NewProductRepository(db),
			levelRepo:   sqlite.NewStockLevelRepository(db),
			txRepo:      sqlite.NewTransactionRepository(db),
			close:       func() { _ = store.Close() },
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("conexión a PostgreSQL establecida")
		return &ledgerStore{
			txRunner:    postgres.NewTxRunner(pool),
			productRepo: postgres.NewProductRepository(pool),
			levelRepo:   postgres.NewStockLevelRepository(pool),
			txRepo:      postgres.NewTransactionRepository(pool),
			close:       pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver %q no soportado", cfg.Driver)
	}
}
