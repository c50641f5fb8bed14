package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Felix-F07/gudang-online/internal/domain"
)

// DefaultBatchWorkers productos procesados en paralelo cuando no se configura otro valor.
const DefaultBatchWorkers = 4

// BatchEntry una línea de la hoja de ventas del día.
type BatchEntry struct {
	ProductID    int64
	QuantitySold int64
	OccurredAt   time.Time
}

// BatchFailure entrada que no se pudo registrar.
type BatchFailure struct {
	ProductID int64
	Err       error
}

// BatchResult resumen del lote. Las entradas omitidas (cantidad <= 0) no aparecen en ninguna lista.
type BatchResult struct {
	BatchID      string
	SuccessCount int
	Clamped      []int64 // productos registrados con la cantidad recortada al stock
	Skipped      []int64 // productos sin stock: no-op, no cuentan como éxito ni fallo
	Failures     []BatchFailure
}

// BulkRecorder registra una hoja de ventas entrada por entrada, sin transacción global:
// el fallo de una entrada no revierte ni bloquea las demás.
type BulkRecorder struct {
	withdrawer Withdrawer
	workers    int
	log        zerolog.Logger
}

// NewBulkRecorder construye el caso de uso. workers <= 0 usa DefaultBatchWorkers.
func NewBulkRecorder(withdrawer Withdrawer, workers int, log zerolog.Logger) *BulkRecorder {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &BulkRecorder{withdrawer: withdrawer, workers: workers, log: log}
}

type entryOutcome int

const (
	outcomeOmitted entryOutcome = iota
	outcomeSuccess
	outcomeSkipped
	outcomeFailed
)

type entryResult struct {
	outcome entryOutcome
	clamped bool
	err     error
}

// RecordBatch aplica cada entrada vía Withdraw. Productos distintos corren en paralelo;
// las entradas de un mismo producto se aplican en orden, una tras otra.
func (b *BulkRecorder) RecordBatch(ctx context.Context, entries []BatchEntry) *BatchResult {
	batchID := uuid.NewString()
	results := make([]entryResult, len(entries))

	order := make([]int64, 0)
	byProduct := make(map[int64][]int)
	for i, e := range entries {
		if e.QuantitySold <= 0 {
			continue
		}
		if _, ok := byProduct[e.ProductID]; !ok {
			order = append(order, e.ProductID)
		}
		byProduct[e.ProductID] = append(byProduct[e.ProductID], i)
	}

	g := new(errgroup.Group)
	g.SetLimit(b.workers)
	for _, productID := range order {
		idxs := byProduct[productID]
		g.Go(func() error {
			for _, i := range idxs {
				results[i] = b.recordOne(ctx, entries[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{BatchID: batchID}
	for i, r := range results {
		pid := entries[i].ProductID
		switch r.outcome {
		case outcomeSuccess:
			res.SuccessCount++
			if r.clamped {
				res.Clamped = append(res.Clamped, pid)
			}
		case outcomeSkipped:
			res.Skipped = append(res.Skipped, pid)
		case outcomeFailed:
			res.Failures = append(res.Failures, BatchFailure{ProductID: pid, Err: r.err})
			b.log.Warn().Err(r.err).
				Str("batch_id", batchID).
				Int64("product_id", pid).
				Msg("entrada del lote no registrada")
		}
	}

	b.log.Info().
		Str("batch_id", batchID).
		Int("entries", len(entries)).
		Int("success", res.SuccessCount).
		Int("skipped", len(res.Skipped)).
		Int("failed", len(res.Failures)).
		Msg("lote de ventas procesado")
	return res
}

func (b *BulkRecorder) recordOne(ctx context.Context, e BatchEntry) entryResult {
	out, err := b.withdrawer.Withdraw(ctx, WithdrawInput{
		ProductID:  e.ProductID,
		Quantity:   e.QuantitySold,
		OccurredAt: e.OccurredAt,
	})
	switch {
	case err == nil:
		return entryResult{outcome: outcomeSuccess, clamped: out.Clamped}
	case errors.Is(err, domain.ErrOutOfStock):
		return entryResult{outcome: outcomeSkipped}
	default:
		return entryResult{outcome: outcomeFailed, err: err}
	}
}
