package ledger

import (
	"errors"
	"fmt"

	"github.com/Felix-F07/gudang-online/internal/domain"
)

// classify deja pasar los errores de dominio y trata cualquier otro como fallo del almacenamiento.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrStorageUnavailable):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}
