package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockfeed/internal/domain"
	"stockfeed/internal/infra"

	"github.com/shopspring/decimal"
)

// globalQuoteResponse represents the Alpha Vantage GLOBAL_QUOTE response.
// The provider reports rate limiting through Note/Information fields on an
// otherwise 200 response.
type globalQuoteResponse struct {
	GlobalQuote *globalQuote `json:"Global Quote"`
	Note        string       `json:"Note"`
	Information string       `json:"Information"`
}

// globalQuote carries the numbered provider fields. All values arrive as
// strings; change percent has a trailing "%" suffix.
type globalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// QuoteCache is the last-known-good quote store the client degrades to.
// The client is its single writer.
type QuoteCache interface {
	Get(symbol string) (domain.Quote, bool)
	Replace(quote domain.Quote)
}

// Client fetches quotes from the Alpha Vantage GLOBAL_QUOTE API.
// Sample never fails outward: any upstream failure is logged and the
// cached quote is returned unchanged.
type Client struct {
	apiURL     string
	apiKey     string
	universe   []string
	names      map[string]string
	cache      QuoteCache
	httpClient *http.Client
}

// NewClient creates a quote client for the configured symbol universe.
func NewClient(cfg *infra.Config, cache QuoteCache) *Client {
	names := make(map[string]string, len(cfg.API.AlphaVantage.Symbols))
	for _, s := range cfg.API.AlphaVantage.Symbols {
		names[s.Symbol] = s.Name
	}
	return &Client{
		apiURL:   cfg.API.AlphaVantage.URL,
		apiKey:   cfg.API.AlphaVantage.Key,
		universe: cfg.Universe(),
		names:    names,
		cache:    cache,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.AlphaVantage.TimeoutSec) * time.Second,
		},
	}
}

// Sample fetches the current quote for a symbol. On success the cache
// entry is replaced atomically and the fresh quote is returned. On any
// failure the last cached quote is returned unchanged (availability over
// freshness).
func (c *Client) Sample(ctx context.Context, symbol string) domain.Quote {
	start := time.Now()
	quote, err := c.fetchQuote(ctx, symbol)
	if err != nil {
		infra.GlobalMetrics.RecordFetchFailure()
		slog.Warn("Quote fetch failed, serving cached value",
			slog.String("symbol", symbol), slog.Any("error", err))

		if cached, ok := c.cache.Get(symbol); ok {
			return cached
		}
		return domain.PlaceholderQuote(symbol, c.nameFor(symbol))
	}

	infra.GlobalMetrics.RecordFetch(time.Since(start).Nanoseconds())
	c.cache.Replace(quote)
	return quote
}

// SampleAll samples every symbol of the universe in order. Individual
// failures degrade to cached values and never abort the batch.
func (c *Client) SampleAll(ctx context.Context) []domain.Quote {
	quotes := make([]domain.Quote, 0, len(c.universe))
	for _, symbol := range c.universe {
		select {
		case <-ctx.Done():
			return quotes
		default:
		}
		quotes = append(quotes, c.Sample(ctx, symbol))
	}
	return quotes
}

func (c *Client) fetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	reqURL := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.apiURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Quote{}, domain.NewProviderError("request", symbol, err)
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Quote{}, domain.NewProviderError("fetch", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, domain.NewProviderError("fetch", symbol,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Quote{}, domain.NewProviderError("read", symbol, err)
	}

	var data globalQuoteResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.Quote{}, domain.NewProviderError("decode", symbol, err)
	}

	if data.Note != "" || data.Information != "" {
		return domain.Quote{}, domain.NewProviderError("fetch", symbol, domain.ErrRateLimited)
	}
	if data.GlobalQuote == nil || data.GlobalQuote.Symbol == "" {
		return domain.Quote{}, domain.NewProviderError("decode", symbol, domain.ErrMalformedQuote)
	}

	price, err := decimal.NewFromString(data.GlobalQuote.Price)
	if err != nil {
		return domain.Quote{}, domain.NewProviderError("parse", symbol, domain.ErrMalformedQuote)
	}
	previousClose, err := decimal.NewFromString(data.GlobalQuote.PreviousClose)
	if err != nil {
		return domain.Quote{}, domain.NewProviderError("parse", symbol, domain.ErrMalformedQuote)
	}

	// Change/ChangePercent are re-derived from the fresh sample rather than
	// trusted from the provider, so the cached record stays self-consistent.
	quote := domain.NewQuoteSample(symbol, c.nameFor(symbol), price, previousClose)

	// Without a previous close the derivation has nothing to work with;
	// fall back to the provider's own change fields.
	if previousClose.IsZero() {
		if change, err := decimal.NewFromString(data.GlobalQuote.Change); err == nil {
			quote.Change = change
		}
		if pct, err := ParsePercent(data.GlobalQuote.ChangePercent); err == nil {
			quote.ChangePercent = pct
		}
	}
	return quote, nil
}

func (c *Client) nameFor(symbol string) string {
	if name, ok := c.names[symbol]; ok {
		return name
	}
	return symbol
}

// ParsePercent parses a provider percent string such as "1.35%" into its
// numeric value. The trailing "%" suffix is optional.
func ParsePercent(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}
