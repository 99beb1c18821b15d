package service

import (
	"testing"

	"stockfeed/internal/domain"

	"github.com/shopspring/decimal"
)

func seedQuotes() []domain.Quote {
	return []domain.Quote{
		domain.PlaceholderQuote("AAPL", "Apple Inc."),
		domain.PlaceholderQuote("MSFT", "Microsoft Corporation"),
		domain.PlaceholderQuote("GOOGL", "Alphabet Inc."),
	}
}

func TestQuoteCache_SeededForAllSymbols(t *testing.T) {
	cache := NewQuoteCache(seedQuotes())

	for _, symbol := range []string{"AAPL", "MSFT", "GOOGL"} {
		q, ok := cache.Get(symbol)
		if !ok {
			t.Errorf("Cache missing entry for %s after startup", symbol)
			continue
		}
		if !q.IsPlaceholder() {
			t.Errorf("Seed entry for %s should be a placeholder", symbol)
		}
	}
}

func TestQuoteCache_Replace(t *testing.T) {
	cache := NewQuoteCache(seedQuotes())

	fresh := domain.NewQuoteSample("AAPL", "Apple Inc.",
		decimal.NewFromFloat(150.00), decimal.NewFromFloat(148.00))
	cache.Replace(fresh)

	q, _ := cache.Get("AAPL")
	if !q.Price.Equal(fresh.Price) {
		t.Errorf("Price = %v, want %v", q.Price, fresh.Price)
	}
	if !q.Change.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Replace must swap the whole record, change = %v", q.Change)
	}

	// Other entries untouched
	msft, _ := cache.Get("MSFT")
	if !msft.IsPlaceholder() {
		t.Error("Replace must not touch other symbols")
	}
}

func TestQuoteCache_ReplaceUnknownSymbolDropped(t *testing.T) {
	cache := NewQuoteCache(seedQuotes())

	cache.Replace(domain.NewQuoteSample("ZZZZ", "Nobody Inc.",
		decimal.NewFromInt(1), decimal.NewFromInt(1)))

	if _, ok := cache.Get("ZZZZ"); ok {
		t.Error("Cache must never grow beyond the universe")
	}
	if got := len(cache.Snapshot()); got != 3 {
		t.Errorf("Universe size changed: %d", got)
	}
}

func TestQuoteCache_SnapshotUniverseOrder(t *testing.T) {
	cache := NewQuoteCache(seedQuotes())

	snap := cache.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Snapshot size = %d, want 3", len(snap))
	}
	if snap[0].Symbol != "AAPL" || snap[1].Symbol != "MSFT" || snap[2].Symbol != "GOOGL" {
		t.Errorf("Snapshot not in universe order: %s, %s, %s",
			snap[0].Symbol, snap[1].Symbol, snap[2].Symbol)
	}
}

func TestQuoteCache_ConcurrentReads(t *testing.T) {
	cache := NewQuoteCache(seedQuotes())
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 1000; j++ {
				cache.Get("AAPL")
				cache.Snapshot()
			}
		}()
	}

	for j := 0; j < 1000; j++ {
		cache.Replace(domain.NewQuoteSample("AAPL", "Apple Inc.",
			decimal.NewFromInt(int64(j)), decimal.NewFromInt(int64(j))))
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}
