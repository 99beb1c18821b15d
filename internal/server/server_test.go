package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"stockfeed/internal/domain"
	"stockfeed/internal/infra"
	"stockfeed/internal/infra/storage"
	"stockfeed/internal/service"

	"github.com/shopspring/decimal"
)

func newAPITestServer(t *testing.T, quotes *service.QuoteCache, symbols domain.SymbolRepository) *httptest.Server {
	t.Helper()
	infra.GlobalMetrics.Reset()

	cfg := infra.DefaultConfig()
	charts := service.NewChartService(rand.New(rand.NewSource(5)))

	srv := New(cfg, stubProvider{}, charts, quotes, symbols)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHandleChartData(t *testing.T) {
	ts := newAPITestServer(t, nil, nil)

	for _, chartType := range []string{"line", "bar", "pie", "scatter"} {
		var data service.ChartData
		getJSON(t, ts.URL+"/charts/data?type="+chartType, &data)

		if len(data.Series) == 0 {
			t.Errorf("chart %s: empty series", chartType)
		}
	}

	// Missing type falls back to line
	var data service.ChartData
	getJSON(t, ts.URL+"/charts/data", &data)
	if len(data.Series) != 2 {
		t.Errorf("default chart should be line with 2 series, got %d", len(data.Series))
	}
}

func TestHandleSymbols_FallbackToUniverse(t *testing.T) {
	ts := newAPITestServer(t, nil, nil)

	var infos []domain.SymbolInfo
	getJSON(t, ts.URL+"/api/symbols", &infos)

	if len(infos) != 8 {
		t.Fatalf("expected 8 universe symbols, got %d", len(infos))
	}
	if infos[0].Symbol != "AAPL" || infos[0].Name != "Apple Inc." {
		t.Errorf("unexpected first symbol: %+v", infos[0])
	}
}

func TestHandleSymbols_FromStore(t *testing.T) {
	store, err := storage.NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	store.UpsertSymbol(&domain.SymbolInfo{Symbol: "AAPL", Name: "Apple Inc.", IsActive: true})

	ts := newAPITestServer(t, nil, store)

	var infos []domain.SymbolInfo
	getJSON(t, ts.URL+"/api/symbols", &infos)

	if len(infos) != 1 || infos[0].Symbol != "AAPL" {
		t.Errorf("unexpected symbols: %+v", infos)
	}
}

func TestHandleToggleFavorite(t *testing.T) {
	store, err := storage.NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	store.UpsertSymbol(&domain.SymbolInfo{Symbol: "TSLA", Name: "Tesla, Inc."})

	ts := newAPITestServer(t, nil, store)

	resp, err := http.Post(ts.URL+"/api/symbols/TSLA/favorite", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Symbol     string `json:"symbol"`
		IsFavorite bool   `json:"is_favorite"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.IsFavorite {
		t.Error("first toggle should set favorite")
	}

	// Unknown symbol
	resp2, err := http.Post(ts.URL+"/api/symbols/NOPE/favorite", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("unknown symbol status = %d, want 404", resp2.StatusCode)
	}
}

func TestHandleMetricsAndHealth(t *testing.T) {
	ts := newAPITestServer(t, nil, nil)

	var snap infra.MetricsSnapshot
	resp := getJSON(t, ts.URL+"/metrics", &snap)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}

	var health map[string]string
	getJSON(t, ts.URL+"/healthz", &health)
	if health["status"] != "ok" {
		t.Errorf("health = %v", health)
	}
}

func TestHandleRoot_RedirectsToFeed(t *testing.T) {
	ts := newAPITestServer(t, nil, nil)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("GET / status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/feed" {
		t.Errorf("Location = %q, want /feed", loc)
	}

	// The catch-all must not redirect arbitrary paths
	resp2, err := client.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", resp2.StatusCode)
	}
}

func TestHandleQuotes(t *testing.T) {
	cache := service.NewQuoteCache([]domain.Quote{
		domain.PlaceholderQuote("AAPL", "Apple Inc."),
		domain.PlaceholderQuote("MSFT", "Microsoft Corporation"),
	})
	cache.Replace(domain.NewQuoteSample("AAPL", "Apple Inc.",
		decimal.NewFromInt(150), decimal.NewFromInt(148)))

	ts := newAPITestServer(t, cache, nil)

	var quotes []domain.Quote
	getJSON(t, ts.URL+"/api/quotes", &quotes)

	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[1].Symbol != "MSFT" {
		t.Errorf("not in universe order: %s, %s", quotes[0].Symbol, quotes[1].Symbol)
	}
	if !quotes[0].Price.Equal(decimal.NewFromInt(150)) {
		t.Errorf("AAPL price = %v, want 150", quotes[0].Price)
	}
	if !quotes[1].IsPlaceholder() {
		t.Error("MSFT should still be a placeholder")
	}
}

func TestHandleQuotes_Disabled(t *testing.T) {
	ts := newAPITestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/api/quotes")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when cache disabled", resp.StatusCode)
	}
}
