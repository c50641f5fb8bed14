package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Felix-F07/gudang-online/internal/application/dto"
	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	"github.com/Felix-F07/gudang-online/internal/domain/entity"
	"github.com/Felix-F07/gudang-online/internal/infrastructure/pdf"
	"github.com/Felix-F07/gudang-online/internal/infrastructure/sqlite"
	apphttp "github.com/Felix-F07/gudang-online/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app   *fiber.App
	store *sqlite.Store
}

// buildTestApp arma la API completa sobre SQLite en memoria.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	db := store.DB()
	runner := sqlite.NewTxRunner(store)
	mutator := ledger.NewStockMutator(runner, zerolog.Nop())
	reader := ledger.NewStockReader(
		sqlite.NewProductRepository(db),
		sqlite.NewStockLevelRepository(db),
		sqlite.NewTransactionRepository(db),
		ledger.ReaderOptions{Locale: language.Indonesian, ExcludedCategories: []string{"Milk Tea Fruity"}},
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Mutator:     mutator,
		Reader:      reader,
		Bulk:        ledger.NewBulkRecorder(mutator, 4, zerolog.Nop()),
		DailyReport: ledger.NewDailyReportUseCase(reader, time.UTC, pdf.NewMarotoReportGenerator("Gudang Test")),
		Log:         zerolog.Nop(),
	})
	return &testEnv{app: app, store: store}
}

func (e *testEnv) addProduct(t *testing.T, name, category string, price int64) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.NewFromInt(price), Category: category}
	require.NoError(t, e.store.InsertProduct(context.Background(), p))
	return p.ID
}

// do ejecuta la petición y devuelve status y cuerpo.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func at(day, hour int) time.Time {
	return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_Created(t *testing.T) {
	env := buildTestApp(t)
	id := env.addProduct(t, "Thai Tea", "Tea", 15000)

	status, body := env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{
		ProductID: id, Delta: 10, OccurredAt: at(1, 9),
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	res := decode[dto.StockQuantityResponse](t, body)
	assert.Equal(t, int64(10), res.Quantity)

	status, body = env.do(t, http.MethodGet, "/api/stock/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(10), decode[dto.StockQuantityResponse](t, body).Quantity)
}

func TestApplyMovement_Errors(t *testing.T) {
	env := buildTestApp(t)
	id := env.addProduct(t, "Thai Tea", "Tea", 15000)

	tests := []struct {
		name   string
		req    dto.ApplyMovementRequest
		status int
		code   string
	}{
		{"delta cero", dto.ApplyMovementRequest{ProductID: id, Delta: 0, OccurredAt: at(1, 9)}, http.StatusBadRequest, dto.CodeValidation},
		{"sin fecha", dto.ApplyMovementRequest{ProductID: id, Delta: 3}, http.StatusBadRequest, dto.CodeValidation},
		{"tipo desconocido", dto.ApplyMovementRequest{ProductID: id, Delta: 3, OccurredAt: at(1, 9), Kind: "gift"}, http.StatusBadRequest, dto.CodeValidation},
		{"producto inexistente", dto.ApplyMovementRequest{ProductID: 999, Delta: 3, OccurredAt: at(1, 9)}, http.StatusNotFound, dto.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/stock/movements", tt.req)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, body).Code)
		})
	}
}

func TestApplyMovement_InvalidBody(t *testing.T) {
	env := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/stock/movements", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWithdraw_ClampsAndRefusesEmpty(t *testing.T) {
	env := buildTestApp(t)
	id := env.addProduct(t, "Thai Tea", "Tea", 15000)
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: id, Delta: 10, OccurredAt: at(1, 9)})

	status, body := env.do(t, http.MethodPost, "/api/stock/"+itoa(id)+"/withdraw", dto.WithdrawRequest{Quantity: 15, OccurredAt: at(1, 10)})
	require.Equal(t, http.StatusOK, status, string(body))
	res := decode[dto.WithdrawResponse](t, body)
	assert.Equal(t, int64(10), res.Applied)
	assert.Equal(t, int64(0), res.NewQuantity)
	assert.True(t, res.Clamped)

	status, body = env.do(t, http.MethodPost, "/api/stock/"+itoa(id)+"/withdraw", dto.WithdrawRequest{Quantity: 1, OccurredAt: at(1, 11)})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, dto.CodeOutOfStock, decode[dto.ErrorResponse](t, body).Code)
}

func TestWithdraw_BadProductID(t *testing.T) {
	env := buildTestApp(t)
	status, _ := env.do(t, http.MethodPost, "/api/stock/abc/withdraw", dto.WithdrawRequest{Quantity: 1, OccurredAt: at(1, 9)})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHistory_NewestFirstAndKindFilter(t *testing.T) {
	env := buildTestApp(t)
	id := env.addProduct(t, "Thai Tea", "Tea", 15000)
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: id, Delta: 5, OccurredAt: at(1, 9)})
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: id, Delta: -2, OccurredAt: at(2, 9)})
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: id, Delta: 4, OccurredAt: at(3, 9)})

	status, body := env.do(t, http.MethodGet, "/api/stock/"+itoa(id)+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	all := decode[[]dto.TransactionResponse](t, body)
	require.Len(t, all, 3)
	assert.Equal(t, int64(4), all[0].Delta)
	assert.Equal(t, int64(5), all[2].Delta)

	status, body = env.do(t, http.MethodGet, "/api/stock/"+itoa(id)+"/history?kind=restock", nil)
	require.Equal(t, http.StatusOK, status)
	restocks := decode[[]dto.TransactionResponse](t, body)
	require.Len(t, restocks, 2)
	for _, tx := range restocks {
		assert.Equal(t, entity.KindRestock, tx.Kind)
	}

	status, _ = env.do(t, http.MethodGet, "/api/stock/"+itoa(id)+"/history?kind=gift", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/api/stock/999/history", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListStock_ExcludesCategoryAndSortsByName(t *testing.T) {
	env := buildTestApp(t)
	env.addProduct(t, "teh manis", "Tea", 8000)
	env.addProduct(t, "Americano", "Coffee", 18000)
	env.addProduct(t, "Mango Fruity", "Milk Tea Fruity", 20000)

	status, body := env.do(t, http.MethodGet, "/api/stock", nil)
	require.Equal(t, http.StatusOK, status)
	items := decode[[]dto.StockItemResponse](t, body)
	require.Len(t, items, 2)
	assert.Equal(t, "Americano", items[0].Name)
	assert.Equal(t, "teh manis", items[1].Name)
	assert.Equal(t, int64(0), items[1].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchAndDailyReport(t *testing.T) {
	env := buildTestApp(t)
	tea := env.addProduct(t, "Thai Tea", "Tea", 15000)
	coffee := env.addProduct(t, "Americano", "Coffee", 18000)
	empty := env.addProduct(t, "Matcha", "Tea", 20000)
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: tea, Delta: 10, OccurredAt: at(1, 8)})
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: coffee, Delta: 2, OccurredAt: at(1, 8)})

	status, body := env.do(t, http.MethodPost, "/api/sales/batch", dto.BatchSalesRequest{
		OccurredAt: at(3, 12),
		Items: []dto.BatchItemRequest{
			{ProductID: tea, Quantity: 3},
			{ProductID: coffee, Quantity: 5},
			{ProductID: empty, Quantity: 1},
			{ProductID: 999, Quantity: 1},
			{ProductID: tea, Quantity: 0},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	batch := decode[dto.BatchResponse](t, body)
	assert.NotEmpty(t, batch.BatchID)
	assert.Equal(t, 2, batch.SuccessCount)
	assert.Equal(t, []int64{coffee}, batch.Clamped)
	assert.Equal(t, []int64{empty}, batch.Skipped)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, int64(999), batch.Failures[0].ProductID)

	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: tea, Delta: -1, OccurredAt: at(1, 18)})

	status, body = env.do(t, http.MethodGet, "/api/sales/daily", nil)
	require.Equal(t, http.StatusOK, status)
	days := decode[[]dto.DailyRecordResponse](t, body)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-01-03", days[0].Date)
	assert.Equal(t, int64(5), days[0].TotalItems)
	assert.True(t, decimal.NewFromInt(3*15000+2*18000).Equal(days[0].TotalRevenue))
	assert.Equal(t, "2025-01-01", days[1].Date)

	status, body = env.do(t, http.MethodGet, "/api/sales/daily?since=2025-01-02", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.DailyRecordResponse](t, body), 1)

	status, body = env.do(t, http.MethodGet, "/api/sales/outbound?since=2025-01-03T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, status)
	outbound := decode[[]dto.OutboundResponse](t, body)
	require.Len(t, outbound, 2)
	assert.NotEmpty(t, outbound[0].ProductName)

	status, body = env.do(t, http.MethodGet, "/api/sales/daily/2025-01-03", nil)
	require.Equal(t, http.StatusOK, status)
	day := decode[dto.DailyRecordResponse](t, body)
	assert.Len(t, day.Products, 2)
	assert.Len(t, day.Entries, 2)

	status, _ = env.do(t, http.MethodGet, "/api/sales/daily/2025-01-02", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/api/sales/daily/03-01-2025", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBatch_RequiresOccurredAt(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.do(t, http.MethodPost, "/api/sales/batch", dto.BatchSalesRequest{
		Items: []dto.BatchItemRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.CodeValidation, decode[dto.ErrorResponse](t, body).Code)
}

func TestDailyBadSince(t *testing.T) {
	env := buildTestApp(t)
	status, _ := env.do(t, http.MethodGet, "/api/sales/daily?since=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDayPDF(t *testing.T) {
	env := buildTestApp(t)
	id := env.addProduct(t, "Thai Tea", "Tea", 15000)
	env.do(t, http.MethodPost, "/api/stock/movements", dto.ApplyMovementRequest{ProductID: id, Delta: 4, OccurredAt: at(2, 8)})
	env.do(t, http.MethodPost, "/api/stock/"+itoa(id)+"/withdraw", dto.WithdrawRequest{Quantity: 2, OccurredAt: at(2, 9)})

	req := httptest.NewRequest(http.MethodGet, "/api/sales/daily/2025-01-02/pdf", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
