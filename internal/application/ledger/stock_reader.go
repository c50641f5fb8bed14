package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Felix-F07/gudang-online/internal/domain"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

// ReaderOptions ajustes de presentación del listado de stock.
type ReaderOptions struct {
	Locale             language.Tag // orden de nombres de producto
	ExcludedCategories []string     // categorías ocultas en ListStock
}

// StockReader consultas de solo lectura sobre el libro. Nunca escribe.
type StockReader struct {
	productRepo repository.ProductRepository
	levelRepo   repository.StockLevelRepository
	txRepo      repository.TransactionRepository
	locale      language.Tag
	excluded    map[string]struct{}
}

// NewStockReader construye el lector con los repositorios fuera de transacción (pool).
func NewStockReader(
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	txRepo repository.TransactionRepository,
	opts ReaderOptions,
) *StockReader {
	excluded := make(map[string]struct{}, len(opts.ExcludedCategories))
	for _, c := range opts.ExcludedCategories {
		if c = strings.TrimSpace(c); c != "" {
			excluded[strings.ToLower(c)] = struct{}{}
		}
	}
	return &StockReader{
		productRepo: productRepo,
		levelRepo:   levelRepo,
		txRepo:      txRepo,
		locale:      opts.Locale,
		excluded:    excluded,
	}
}

// CurrentStock devuelve la cantidad cacheada; 0 si el producto aún no tiene movimientos.
func (r *StockReader) CurrentStock(ctx context.Context, productID int64) (int64, error) {
	if err := r.ensureProduct(ctx, productID); err != nil {
		return 0, err
	}
	level, err := r.levelRepo.Get(ctx, productID)
	if err != nil {
		return 0, classify(err)
	}
	return level.Quantity, nil
}

// History lista los movimientos del producto, más reciente primero. kind vacío = todos.
func (r *StockReader) History(ctx context.Context, productID int64, kind string) ([]entity.Transaction, error) {
	if kind != "" && !entity.ValidKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	if err := r.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := r.txRepo.ListByProduct(ctx, productID, kind)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// OutboundSince lista todas las salidas (delta < 0) con el nombre del producto, más reciente primero.
func (r *StockReader) OutboundSince(ctx context.Context, since *time.Time) ([]entity.OutboundTransaction, error) {
	list, err := r.txRepo.ListOutbound(ctx, since)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// ListStock devuelve el stock de todos los productos visibles, ordenado por nombre.
func (r *StockReader) ListStock(ctx context.Context) ([]entity.StockView, error) {
	views, err := r.levelRepo.ListWithProducts(ctx)
	if err != nil {
		return nil, classify(err)
	}
	visible := make([]entity.StockView, 0, len(views))
	for _, v := range views {
		if _, hidden := r.excluded[strings.ToLower(v.Category)]; hidden {
			continue
		}
		visible = append(visible, v)
	}
	// collate.Collator no es seguro para uso concurrente; uno por llamada.
	col := collate.New(r.locale, collate.IgnoreCase)
	sort.SliceStable(visible, func(i, j int) bool {
		return col.CompareString(visible[i].Name, visible[j].Name) < 0
	})
	return visible, nil
}

func (r *StockReader) ensureProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return domain.ErrInvalidInput
	}
	p, err := r.productRepo.GetByID(ctx, productID)
	if err != nil {
		return classify(err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}
