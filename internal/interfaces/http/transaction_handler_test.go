package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI arma el router completo sobre el almacén en memoria. wrap nil = el propio almacén como runner.
func newAPI(t *testing.T, wrap func(*memory.Store) inventory.TxRunner) *apiFixture {
	t.Helper()
	s := memory.NewStore()
	minQty := int64(5)
	s.AddProduct(&entity.Product{ID: "P1", Name: "Tornillo", SKU: "TOR-1", MinQuantity: &minQty})
	s.AddWarehouse(&entity.Warehouse{ID: "W1", Name: "Central"})
	s.AddWarehouse(&entity.Warehouse{ID: "W2", Name: "Norte"})
	var runner inventory.TxRunner = s
	if wrap != nil {
		runner = wrap(s)
	}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Processor:    inventory.NewTransactionProcessor(runner, s, nil, nil, nil),
		Transactions: inventory.NewTransactionQueries(s.Transactions(), s.Products(), s.Warehouses(), s.Parties(), nil),
		Stock:        inventory.NewStockQueries(s, s.Products(), s.Warehouses()),
		JWTSecret:    testJWTSecret,
	})
	return &apiFixture{app: app, store: s}
}

func (f *apiFixture) do(t *testing.T, method, path, role, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestTransactions_CrearCompraYConsultar(t *testing.T) {
	f := newAPI(t, nil)
	resp, body := f.do(t, http.MethodPost, "/api/transactions", "manager",
		`{"type":"purchase","target_warehouse":"W1","items":[{"product":"P1","quantity":10,"price":"5"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created dto.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "purchase", created.Type)
	require.NotNil(t, created.TargetWarehouse)
	assert.Equal(t, "Central", created.TargetWarehouse.Name)
	assert.Equal(t, "Tornillo", created.Items[0].Product.Name)
	assert.Equal(t, testUserID, created.CreatedBy)
	assert.Equal(t, "50", created.Total.String())

	q, _ := f.store.CurrentQuantity(context.Background(), "W1", "P1")
	assert.Equal(t, int64(10), q)

	resp, body = f.do(t, http.MethodGet, "/api/transactions/"+created.ID, "operator", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)

	resp, body = f.do(t, http.MethodGet, "/api/transactions?type=purchase&warehouse=W1", "operator", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.TransactionListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Count)
}

func TestTransactions_VentaSinStock400ConFaltantes(t *testing.T) {
	f := newAPI(t, nil)
	f.store.SetStock("W1", "P1", 3)
	resp, body := f.do(t, http.MethodPost, "/api/transactions", "admin",
		`{"type":"sale","source_warehouse":"W1","items":[{"product":"P1","quantity":4,"price":"1"}]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e dto.StockErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, "W1", e.WarehouseID)
	assert.False(t, e.Retryable)
	assert.Equal(t, []dto.ShortfallDTO{{ProductID: "P1", ProductName: "Tornillo", Available: 3, Required: 4}}, e.Shortfalls)
}

func TestTransactions_ValidacionDeForma(t *testing.T) {
	f := newAPI(t, nil)
	cases := []struct {
		name, body, field string
	}{
		{"tipo inválido", `{"type":"refund","items":[{"product":"P1","quantity":1,"price":"1"}]}`, "type"},
		{"sin items", `{"type":"purchase","target_warehouse":"W1","items":[]}`, "items"},
		{"cantidad cero", `{"type":"purchase","target_warehouse":"W1","items":[{"product":"P1","quantity":0,"price":"1"}]}`, "items[0].quantity"},
		{"sin precio", `{"type":"purchase","target_warehouse":"W1","items":[{"product":"P1","quantity":1}]}`, "items[0].price"},
		{"cantidad excesiva", `{"type":"sale","source_warehouse":"W1","items":[{"product":"P1","quantity":9223372036854775807,"price":"1"}]}`, "items[0].quantity"},
		{"traslado misma bodega", `{"type":"transfer","source_warehouse":"W1","target_warehouse":"W1","items":[{"product":"P1","quantity":1,"price":"1"}]}`, "target_warehouse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, "/api/transactions", "admin", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, "VALIDATION", e.Code)
			assert.True(t, strings.HasPrefix(e.Message, tc.field+":"), "mensaje %q", e.Message)
		})
	}

	resp, _ := f.do(t, http.MethodPost, "/api/transactions", "admin", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactions_Autorizacion(t *testing.T) {
	f := newAPI(t, nil)
	body := `{"type":"purchase","target_warehouse":"W1","items":[{"product":"P1","quantity":1,"price":"1"}]}`

	resp, _ := f.do(t, http.MethodPost, "/api/transactions", "operator", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/transactions", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/stock", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactions_EliminarRevierte(t *testing.T) {
	f := newAPI(t, nil)
	f.store.SetStock("W1", "P1", 6)
	resp, body := f.do(t, http.MethodPost, "/api/transactions", "admin",
		`{"type":"transfer","source_warehouse":"W1","target_warehouse":"W2","items":[{"product":"P1","quantity":6,"price":"1"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = f.do(t, http.MethodDelete, "/api/transactions/"+created.ID, "admin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx := context.Background()
	q1, _ := f.store.CurrentQuantity(ctx, "W1", "P1")
	q2, _ := f.store.CurrentQuantity(ctx, "W2", "P1")
	assert.Equal(t, int64(6), q1)
	assert.Equal(t, int64(0), q2)

	resp, body = f.do(t, http.MethodDelete, "/api/transactions/"+created.ID, "admin", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

type consumeFirst struct {
	store *memory.Store
}

// Run simula una venta concurrente que deja la bodega sin stock antes de abrir la unidad de trabajo.
func (r consumeFirst) Run(ctx context.Context, fn func(repository.StockLedger, repository.TransactionRepository) error) error {
	q, _ := r.store.CurrentQuantity(ctx, "W1", "P1")
	if q > 0 {
		if _, err := r.store.Adjust(ctx, "W1", "P1", -q); err != nil {
			return err
		}
	}
	return r.store.Run(ctx, fn)
}

func TestTransactions_ConflictoAlAplicar409(t *testing.T) {
	f := newAPI(t, func(s *memory.Store) inventory.TxRunner { return consumeFirst{store: s} })
	f.store.SetStock("W1", "P1", 5)

	resp, body := f.do(t, http.MethodPost, "/api/transactions", "admin",
		`{"type":"sale","source_warehouse":"W1","items":[{"product":"P1","quantity":2,"price":"1"}]}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	var e dto.StockErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "CONFLICT", e.Code)
	assert.True(t, e.Retryable)
	require.Len(t, e.Shortfalls, 1)
	assert.Equal(t, int64(0), e.Shortfalls[0].Available)
	assert.Equal(t, int64(2), e.Shortfalls[0].Required)
}

type unavailableRunner struct{}

func (unavailableRunner) Run(context.Context, func(repository.StockLedger, repository.TransactionRepository) error) error {
	return domain.ErrStoreUnavailable
}

func TestTransactions_AlmacenNoDisponible503(t *testing.T) {
	f := newAPI(t, func(*memory.Store) inventory.TxRunner { return unavailableRunner{} })
	resp, body := f.do(t, http.MethodPost, "/api/transactions", "admin",
		`{"type":"purchase","target_warehouse":"W1","items":[{"product":"P1","quantity":1,"price":"1"}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "STORE_UNAVAILABLE")
}

func TestTransactions_ListFiltroInvalido(t *testing.T) {
	f := newAPI(t, nil)
	resp, _ := f.do(t, http.MethodGet, "/api/transactions?type=refund", "operator", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.do(t, http.MethodGet, "/api/transactions?limit=-1", "operator", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStock_NivelesYAlertas(t *testing.T) {
	f := newAPI(t, nil)
	f.store.SetStock("W1", "P1", 2)
	f.store.SetStock("W2", "P1", 9)

	resp, body := f.do(t, http.MethodGet, "/api/stock?warehouse=W2", "operator", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var levels dto.StockLevelListResponse
	require.NoError(t, json.Unmarshal(body, &levels))
	require.Equal(t, 1, levels.Count)
	assert.False(t, levels.Items[0].IsLowStock)

	resp, body = f.do(t, http.MethodGet, "/api/stock/alerts", "operator", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts dto.StockLevelListResponse
	require.NoError(t, json.Unmarshal(body, &alerts))
	require.Equal(t, 1, alerts.Count)
	assert.Equal(t, "W1", alerts.Items[0].WarehouseID)
	assert.Equal(t, "Central", alerts.Items[0].WarehouseName)
}
