package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/domain/repository"
)

// memStore sustituto en memoria del almacenamiento: un mutex hace de bloqueo de fila
// y Run restaura el estado previo si fn devuelve error.
type memStore struct {
	mu       sync.Mutex
	products map[int64]*entity.Product
	levels   map[int64]int64
	txs      []entity.Transaction
	nextID   int64

	failAppend error
	failUpsert error
}

func newMemStore(products ...entity.Product) *memStore {
	s := &memStore{products: make(map[int64]*entity.Product), levels: make(map[int64]int64)}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

func product(id int64, name, category string, price int64) entity.Product {
	return entity.Product{ID: id, Name: name, Category: category, Price: decimal.NewFromInt(price)}
}

// seed deja el producto con qty unidades mediante un movimiento de reposición.
func (s *memStore) seed(productID, qty int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[productID] += qty
	s.nextID++
	s.txs = append(s.txs, entity.Transaction{
		ID: s.nextID, ProductID: productID, Delta: qty, OccurredAt: at, Kind: entity.KindRestock,
	})
}

func (s *memStore) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	txRepo repository.TransactionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels := make(map[int64]int64, len(s.levels))
	for k, v := range s.levels {
		levels[k] = v
	}
	txLen, nextID := len(s.txs), s.nextID

	r := &memRepos{s: s, inTx: true}
	if err := fn(r, r, r); err != nil {
		s.levels = levels
		s.txs = s.txs[:txLen]
		s.nextID = nextID
		return err
	}
	return nil
}

func (s *memStore) repos() *memRepos { return &memRepos{s: s} }

func (s *memStore) txCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

func (s *memStore) level(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[productID]
}

type memRepos struct {
	s    *memStore
	inTx bool
}

func (r *memRepos) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRepos) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memRepos) Get(_ context.Context, productID int64) (*entity.StockLevel, error) {
	defer r.lock()()
	return &entity.StockLevel{ProductID: productID, Quantity: r.s.levels[productID]}, nil
}

func (r *memRepos) GetForUpdate(ctx context.Context, productID int64) (*entity.StockLevel, error) {
	return r.Get(ctx, productID)
}

func (r *memRepos) Upsert(_ context.Context, level *entity.StockLevel) error {
	defer r.lock()()
	if r.s.failUpsert != nil {
		return r.s.failUpsert
	}
	r.s.levels[level.ProductID] = level.Quantity
	return nil
}

func (r *memRepos) ListWithProducts(_ context.Context) ([]entity.StockView, error) {
	defer r.lock()()
	out := make([]entity.StockView, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, entity.StockView{
			ProductID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, Quantity: r.s.levels[p.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *memRepos) Append(_ context.Context, tx *entity.Transaction) error {
	defer r.lock()()
	if r.s.failAppend != nil {
		return r.s.failAppend
	}
	r.s.nextID++
	tx.ID = r.s.nextID
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r *memRepos) ListByProduct(_ context.Context, productID int64, kind string) ([]entity.Transaction, error) {
	defer r.lock()()
	var out []entity.Transaction
	for _, t := range r.s.txs {
		if t.ProductID == productID && (kind == "" || t.Kind == kind) {
			out = append(out, t)
		}
	}
	sortNewestFirst(out, func(i int) entity.Transaction { return out[i] })
	return out, nil
}

func (r *memRepos) ListOutbound(_ context.Context, since *time.Time) ([]entity.OutboundTransaction, error) {
	defer r.lock()()
	var out []entity.OutboundTransaction
	for _, t := range r.s.txs {
		if t.Delta >= 0 || (since != nil && t.OccurredAt.Before(*since)) {
			continue
		}
		p := r.s.products[t.ProductID]
		out = append(out, entity.OutboundTransaction{Transaction: t, ProductName: p.Name, UnitPrice: p.Price})
	}
	sortNewestFirst(out, func(i int) entity.Transaction { return out[i].Transaction })
	return out, nil
}

func (r *memRepos) SumByProduct(_ context.Context, productID int64) (int64, error) {
	defer r.lock()()
	var sum int64
	for _, t := range r.s.txs {
		if t.ProductID == productID {
			sum += t.Delta
		}
	}
	return sum, nil
}

func sortNewestFirst[T any](list []T, at func(int) entity.Transaction) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := at(i), at(j)
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		return a.ID > b.ID
	})
}
