package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Felix-F07/gudang-online/internal/domain"
)

// Códigos SQLSTATE relevantes para el libro.
const (
	codeCheckViolation      = "23514" // stock_levels.quantity >= 0
	codeForeignKeyViolation = "23503" // product_id inexistente
)

// isCheckViolation verifica si un error es una violación de constraint CHECK (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeCheckViolation
	}
	return strings.Contains(err.Error(), codeCheckViolation)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeForeignKeyViolation
	}
	return false
}

// storageErr traduce un error del driver al error de dominio correspondiente.
// Todo lo que no sea una violación de constraint conocida se considera almacenamiento no disponible.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isCheckViolation(err):
		return fmt.Errorf("%w: restricción CHECK: %w", domain.ErrInvalidInput, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

// wrap antepone la operación al error ya clasificado.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, storageErr(err))
}
