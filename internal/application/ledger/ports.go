package ledger

import (
	"context"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el nivel de stock y el registro del libro se confirmen o se descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// Withdrawer aplica una salida recortada al stock disponible. Lo implementa StockMutator.
type Withdrawer interface {
	Withdraw(ctx context.Context, input WithdrawInput) (*WithdrawResult, error)
}

// ReportPDFGenerator genera la representación impresa de un día de ventas.
type ReportPDFGenerator interface {
	GenerateDailyReportPDF(ctx context.Context, record entity.DailyRecord, zone string) ([]byte, error)
}
