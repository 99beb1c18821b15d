package service

import (
	"log/slog"
	"sync"

	"stockfeed/internal/domain"
)

// QuoteCache holds the latest known quote per universe symbol. It is
// seeded with one placeholder per symbol at construction and entries are
// whole-record replaced, never partially updated and never deleted.
// The quote source is the single writer; any number of pipelines read
// concurrently.
type QuoteCache struct {
	mu       sync.RWMutex
	quotes   map[string]domain.Quote
	universe []string
}

// NewQuoteCache creates a cache seeded with the given placeholder quotes.
// Slice order is the universe order.
func NewQuoteCache(seed []domain.Quote) *QuoteCache {
	c := &QuoteCache{
		quotes:   make(map[string]domain.Quote, len(seed)),
		universe: make([]string, 0, len(seed)),
	}
	for _, q := range seed {
		if _, exists := c.quotes[q.Symbol]; exists {
			continue
		}
		c.quotes[q.Symbol] = q
		c.universe = append(c.universe, q.Symbol)
	}
	return c
}

// Get returns the cached quote for a symbol
func (c *QuoteCache) Get(symbol string) (domain.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.quotes[symbol]
	return q, ok
}

// Replace atomically replaces the whole cache entry for the quote's
// symbol. Symbols outside the universe are dropped: the cache never
// grows after startup.
func (c *QuoteCache) Replace(quote domain.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.quotes[quote.Symbol]; !ok {
		slog.Warn("Dropping quote for symbol outside universe",
			slog.String("symbol", quote.Symbol))
		return
	}
	c.quotes[quote.Symbol] = quote
}

// Snapshot returns copies of all cached quotes in universe order
func (c *QuoteCache) Snapshot() []domain.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Quote, 0, len(c.universe))
	for _, symbol := range c.universe {
		result = append(result, c.quotes[symbol])
	}
	return result
}
