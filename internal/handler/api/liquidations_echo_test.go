package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"LiqWatch/internal/domain/models"
	drepo "LiqWatch/internal/domain/repository"
	irepo "LiqWatch/internal/repository"
	"LiqWatch/internal/store"
	"LiqWatch/internal/usecase"
	"LiqWatch/pkg/cache"
	xhttp "LiqWatch/pkg/http"
	applogger "LiqWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T, mirror drepo.EventMirror) (*echo.Echo, *store.WindowedStore) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	registry := store.NewActiveSymbolRegistry()
	st := store.NewWindowedStore(15*time.Minute, registry)
	if mirror == nil {
		mirror = irepo.NewRedisMirror(cache.NewMemoryCache())
	}
	q := usecase.NewQueryService(st, registry, mirror)

	e := echo.New()
	NewLiquidationsEchoHandler(l, q).RegisterRoutes(e)
	return e, st
}

func doGet(t *testing.T, e *echo.Echo, path string) *xhttp.APIResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response for %s: %v", path, err)
	}
	return &resp
}

func TestSymbolStatsNotFound(t *testing.T) {
	e, _ := newTestServer(t, nil)

	resp := doGet(t, e, "/api/liquidation/UNKNOWN")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Status)
	}
}

func TestSymbolStatsUppercasesPathParam(t *testing.T) {
	e, st := newTestServer(t, nil)
	st.Append(models.LiquidationEvent{
		Symbol: "BTCUSDT", Side: models.SideSell,
		Price: 100, Quantity: 2, Value: 200,
		EventTime: time.Now().UnixMilli(),
	})

	resp := doGet(t, e, "/api/liquidation/btcusdt")
	if resp.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	b, _ := json.Marshal(resp.Data)
	var rep models.SymbolReport
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.LongCount != 1 || rep.TotalValue != 200 {
		t.Fatalf("report = %+v", rep)
	}
}

type downMirror struct {
	drepo.EventMirror
}

func (downMirror) Health(context.Context) error {
	return drepo.ErrStorageUnavailable
}

func TestQueriesReportStorageUnavailable(t *testing.T) {
	e, _ := newTestServer(t, downMirror{irepo.NewRedisMirror(cache.NewMemoryCache())})

	for _, path := range []string{"/api/symbols", "/api/liquidation", "/api/liquidation/BTCUSDT"} {
		resp := doGet(t, e, path)
		if resp.Status != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d, want 503", path, resp.Status)
		}
	}
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t, nil)

	resp := doGet(t, e, "/healthz")
	if resp.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
}
