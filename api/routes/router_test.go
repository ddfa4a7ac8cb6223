package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scanpos/internal/catalog"
	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/config"
	"github.com/angelmondragon/scanpos/pkg/logger"
	"github.com/angelmondragon/scanpos/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type billBody struct {
	Rows []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
	} `json:"rows"`
	Subtotal          string `json:"subtotal"`
	Total             string `json:"total"`
	DiscountPercent   int    `json:"discount_percent"`
	CanRemoveDiscount bool   `json:"can_remove_discount"`
}

type actionBody struct {
	Result session.Result `json:"result"`
	Bill   billBody       `json:"bill"`
}

type fixture struct {
	handler http.Handler
	sess    *session.Session
	clock   *time.Time
}

func newFixture(t *testing.T, redisErr error) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	reg := prometheus.NewRegistry()
	sess, err := session.New(session.Params{
		Catalog:  catalog.Default(),
		Cooldown: 2 * time.Second,
		Metrics:  metrics.NewScanMetrics(reg),
		Now:      func() time.Time { return *clock },
	})
	require.NoError(t, err)

	handler := NewRouter(RouterParams{
		Config:   &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:   logger.Nop(),
		Session:  sess,
		Catalog:  catalog.Default(),
		DB:       stubPinger{},
		Redis:    stubPinger{err: redisErr},
		Gatherer: reg,
	})
	return &fixture{handler: handler, sess: sess, clock: clock}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (f *fixture) scan(t *testing.T, payload, symbol string) actionBody {
	t.Helper()
	body := `{"payload":"` + payload + `"}`
	if symbol != "" {
		body = `{"payload":"` + payload + `","symbol":"` + symbol + `"}`
	}
	rec, env := f.do(t, http.MethodPost, "/api/v1/scans", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out actionBody
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	rec, _ := f.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-ScanPOS-Env"))

	rec, _ = f.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestReadyReportsFailingDependency(t *testing.T) {
	f := newFixture(t, errors.New("dial tcp: refused"))

	rec, env := f.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "redis")
	assert.NotContains(t, env.Error.Details, "database")
}

func TestScanFlowOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	out := f.scan(t, "1234567890128", "")
	assert.True(t, out.Result.Accepted())
	assert.Equal(t, "30.00", out.Bill.Total)

	out = f.scan(t, "1234567890128", "")
	assert.Equal(t, "cooldown", string(out.Result.Reason))

	*f.clock = f.clock.Add(2 * time.Second)
	out = f.scan(t, "1234567890128", "EAN13")
	assert.True(t, out.Result.Accepted())
	require.Len(t, out.Bill.Rows, 1)
	assert.Equal(t, 2, out.Bill.Rows[0].Quantity)

	out = f.scan(t, "10", "QRCODE")
	assert.True(t, out.Result.Accepted())
	assert.Equal(t, "54.00", out.Bill.Total)
	assert.Equal(t, "60.00", out.Bill.Subtotal)
	assert.True(t, out.Bill.CanRemoveDiscount)
	require.Len(t, out.Bill.Rows, 2)
	assert.Equal(t, "discount", out.Bill.Rows[1].ID)
	assert.Equal(t, "-6.00", out.Bill.Rows[1].LineTotal)

	out = f.scan(t, "0000000000000", "")
	assert.Equal(t, "unknown_code", string(out.Result.Reason))

	rec, env := f.do(t, http.MethodGet, "/api/v1/bill", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bill billBody
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	assert.Equal(t, "54.00", bill.Total)
	assert.Equal(t, 10, bill.DiscountPercent)
}

func TestScanValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/api/v1/scans", `{"payload":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "is required", env.Error.Details["payload"])

	rec, _ = f.do(t, http.MethodPost, "/api/v1/scans", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveLineAndDiscount(t *testing.T) {
	f := newFixture(t, nil)
	f.scan(t, "1234567890128", "")
	f.scan(t, "9782123456803", "")
	f.scan(t, "25", "QRCODE")

	rec, env := f.do(t, http.MethodDelete, "/api/v1/bill/lines/1234567890128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out actionBody
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Result.Accepted())
	require.Len(t, out.Bill.Rows, 2)
	assert.Equal(t, "9782123456803", out.Bill.Rows[0].ID)

	rec, env = f.do(t, http.MethodDelete, "/api/v1/bill/lines/1234567890128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "line_not_found", string(out.Result.Reason))

	rec, env = f.do(t, http.MethodDelete, "/api/v1/bill/lines/discount", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Result.Accepted())
	assert.False(t, out.Bill.CanRemoveDiscount)
	assert.Equal(t, "35.00", out.Bill.Total)

	rec, env = f.do(t, http.MethodDelete, "/api/v1/bill/discount", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "discount_not_armed", string(out.Result.Reason))
}

func TestRemoveLineRejectsOverlongCode(t *testing.T) {
	f := newFixture(t, nil)
	f.scan(t, "1234567890128", "")

	rec, env := f.do(t, http.MethodDelete, "/api/v1/bill/lines/1234567890128"+strings.Repeat("0", 60), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/api/v1/bill", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view billBody
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "1234567890128", view.Rows[0].ID)
}

func TestCatalogEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	rec, env := f.do(t, http.MethodGet, "/api/v1/catalog/89007655", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var product map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "DoubleMint", product["name"])
	assert.Equal(t, "20.00", product["unit_price"])

	rec, env = f.do(t, http.MethodGet, "/api/v1/catalog/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "product not found", env.Error.Message)

	rec, env = f.do(t, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 5)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.scan(t, "89007655", "")

	rec, _ := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scan_outcomes_total")
	assert.Contains(t, rec.Body.String(), "bill_total 20")
}
