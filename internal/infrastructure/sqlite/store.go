// Package sqlite implementa el libro de stock sobre SQLite con sqlx.
//
// Se usa para desarrollo local y pruebas de integración; producción usa el paquete postgres.
// Las transacciones se abren con BEGIN IMMEDIATE (_txlock=immediate): SQLite admite un solo
// escritor, así que dos mutaciones sobre el mismo producto quedan serializadas.
// Las fechas se guardan como TEXT en UTC con ancho fijo para que ORDER BY sea cronológico.
package sqlite

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/Felix-F07/gudang-online/internal/domain"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
)

//go:embed schema.sql
var schema string

// timeLayout ancho fijo (nanosegundos con ceros) para ordenar texto igual que tiempo.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store agrupa la conexión SQLite.
type Store struct {
	db *sqlx.DB
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" crea una base efímera.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_txlock=immediate&_busy_timeout=5000"
	memory := strings.Contains(path, ":memory:")
	if !memory {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", storageErr(err))
	}
	if memory {
		// Cada conexión a :memory: es una base distinta.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrar esquema: %w", storageErr(err))
	}
	return &Store{db: db}, nil
}

// DB expone la conexión para construir repositorios fuera de transacción.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close cierra la conexión.
func (s *Store) Close() error { return s.db.Close() }

// InsertProduct registra un producto en el catálogo local (fixtures y semillas de desarrollo).
func (s *Store) InsertProduct(ctx context.Context, p *entity.Product) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, category) VALUES (?, ?, ?)`,
		p.Name, p.Price.String(), p.Category)
	if err != nil {
		return wrap("insert product", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrap("insert product", err)
	}
	p.ID = id
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

// storageErr traduce errores de go-sqlite3 a errores de dominio.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: restricción CHECK: %w", domain.ErrInvalidInput, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, storageErr(err))
}
