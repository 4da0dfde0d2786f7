package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestMetrics_TransaccionesYFaltantes(t *testing.T) {
	m := New()
	m.TransactionProcessed(inventory.OpCreate, entity.TransactionSale, inventory.OutcomeCommitted, 5*time.Millisecond)
	m.TransactionProcessed(inventory.OpCreate, entity.TransactionSale, inventory.OutcomeCommitted, time.Millisecond)
	m.TransactionProcessed(inventory.OpDelete, entity.TransactionPurchase, inventory.OutcomeAborted, time.Millisecond)
	m.ShortfallsDetected("W1", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transactions.WithLabelValues("create", "sale", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("delete", "purchase", "aborted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.shortfalls.WithLabelValues("W1")))
}

func TestMetrics_MiddlewareYHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/stock/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/stock/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/stock/:id", "GET", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "stock_ledger_http_requests_total")
}
