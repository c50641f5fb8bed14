package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Felix-F07/gudang-online/internal/domain"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	domledger "github.com/Felix-F07/gudang-online/internal/domain/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

var _ Withdrawer = (*StockMutator)(nil)

// StockMutator es el único escritor del libro: cada cambio de stock actualiza stock_levels
// y anexa una fila en transactions dentro de la misma transacción (bloqueo de fila + Commit/Rollback).
type StockMutator struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockMutator construye el caso de uso.
func NewStockMutator(txRunner TxRunner, log zerolog.Logger) *StockMutator {
	return &StockMutator{txRunner: txRunner, log: log, now: time.Now}
}

// ApplyInput entrada de Apply. Kind vacío se deriva del signo de Delta.
type ApplyInput struct {
	ProductID  int64
	Delta      int64
	OccurredAt time.Time
	Kind       string
}

// WithdrawInput entrada de Withdraw: Quantity es la salida solicitada (positiva).
type WithdrawInput struct {
	ProductID  int64
	Quantity   int64
	OccurredAt time.Time
	Kind       string
}

// WithdrawResult resultado de una salida recortada.
type WithdrawResult struct {
	Requested   int64
	Applied     int64 // unidades realmente descontadas
	NewQuantity int64
	Clamped     bool
}

// Apply aplica delta al stock del producto y registra el movimiento.
// No rechaza una salida mayor al stock: el llamador es quien recorta (ver Withdraw).
func (m *StockMutator) Apply(ctx context.Context, input ApplyInput) (int64, error) {
	if input.ProductID <= 0 || input.Delta == 0 || input.OccurredAt.IsZero() {
		return 0, domain.ErrInvalidInput
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.KindForDelta(input.Delta)
	}
	if !kindMatchesDelta(kind, input.Delta) {
		return 0, domain.ErrInvalidInput
	}

	var newQty int64
	err := m.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		txRepo repository.TransactionRepository,
	) error {
		level, err := lockLevel(ctx, productRepo, levelRepo, input.ProductID)
		if err != nil {
			return err
		}
		newQty, err = m.record(ctx, levelRepo, txRepo, level, input.Delta, input.OccurredAt, kind)
		return err
	})
	if err != nil {
		return 0, classify(err)
	}

	m.log.Debug().
		Int64("product_id", input.ProductID).
		Int64("delta", input.Delta).
		Str("kind", kind).
		Int64("quantity", newQty).
		Msg("movimiento registrado")
	return newQty, nil
}

// Withdraw descuenta hasta input.Quantity unidades. El recorte se decide con la fila bloqueada,
// así dos salidas concurrentes nunca dejan el stock en negativo. Con stock 0 devuelve ErrOutOfStock.
func (m *StockMutator) Withdraw(ctx context.Context, input WithdrawInput) (*WithdrawResult, error) {
	if input.ProductID <= 0 || input.Quantity <= 0 || input.OccurredAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.KindSale
	}
	if !kindMatchesDelta(kind, -input.Quantity) {
		return nil, domain.ErrInvalidInput
	}

	res := &WithdrawResult{Requested: input.Quantity}
	err := m.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		txRepo repository.TransactionRepository,
	) error {
		level, err := lockLevel(ctx, productRepo, levelRepo, input.ProductID)
		if err != nil {
			return err
		}
		qty, clamped := domledger.ClampOutbound(input.Quantity, level.Quantity)
		if qty == 0 {
			return domain.ErrOutOfStock
		}
		newQty, err := m.record(ctx, levelRepo, txRepo, level, -qty, input.OccurredAt, kind)
		if err != nil {
			return err
		}
		res.Applied = qty
		res.Clamped = clamped
		res.NewQuantity = newQty
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	m.log.Debug().
		Int64("product_id", input.ProductID).
		Int64("requested", res.Requested).
		Int64("applied", res.Applied).
		Bool("clamped", res.Clamped).
		Msg("salida registrada")
	return res, nil
}

// lockLevel valida que el producto exista y bloquea su fila de stock.
func lockLevel(
	ctx context.Context,
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	productID int64,
) (*entity.StockLevel, error) {
	product, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return levelRepo.GetForUpdate(ctx, productID)
}

// record actualiza el nivel y anexa el movimiento (misma tx del caller).
func (m *StockMutator) record(
	ctx context.Context,
	levelRepo repository.StockLevelRepository,
	txRepo repository.TransactionRepository,
	level *entity.StockLevel,
	delta int64,
	occurredAt time.Time,
	kind string,
) (int64, error) {
	level.Quantity += delta
	level.UpdatedAt = m.now()
	if err := levelRepo.Upsert(ctx, level); err != nil {
		return 0, err
	}
	tx := &entity.Transaction{
		ProductID:  level.ProductID,
		Delta:      delta,
		OccurredAt: occurredAt,
		Kind:       kind,
	}
	if err := txRepo.Append(ctx, tx); err != nil {
		return 0, err
	}
	return level.Quantity, nil
}

// kindMatchesDelta: restock solo entra, sale solo sale, adjustment admite ambos signos.
func kindMatchesDelta(kind string, delta int64) bool {
	switch kind {
	case entity.KindRestock:
		return delta > 0
	case entity.KindSale:
		return delta < 0
	case entity.KindAdjustment:
		return delta != 0
	}
	return false
}
