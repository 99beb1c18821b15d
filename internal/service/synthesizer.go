package service

import (
	"math/rand"
	"sync"
	"time"

	"stockfeed/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	minTradesPerQuote = 1
	maxTradesPerQuote = 3

	// Microstructure noise around the reference price, not a new market state
	priceJitter = 0.001 // ±0.1%

	minVolume = 10
	maxVolume = 1000 // exclusive
)

// TradeSynthesizer produces randomized synthetic trades consistent with
// a quote. The random source and clock are injected so synthesis is
// deterministic under a fixed seed.
type TradeSynthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewTradeSynthesizer creates a synthesizer with the given random source.
// A nil clock defaults to time.Now.
func NewTradeSynthesizer(rng *rand.Rand, now func() time.Time) *TradeSynthesizer {
	if now == nil {
		now = time.Now
	}
	return &TradeSynthesizer{rng: rng, now: now}
}

// Synthesize produces 1-3 trades around the quote's current price.
// Each trade's side is an independent fair coin flip, its price lies
// within ±0.1% of the quote price, and its volume in [10, 1000).
func (s *TradeSynthesizer) Synthesize(quote domain.Quote) []domain.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := minTradesPerQuote + s.rng.Intn(maxTradesPerQuote-minTradesPerQuote+1)
	trades := make([]domain.Trade, count)
	for i := range trades {
		trades[i] = s.generateTrade(quote)
	}
	return trades
}

// PickIndex returns a uniform random index in [0, n), drawn from the
// same injected source as trade generation.
func (s *TradeSynthesizer) PickIndex(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *TradeSynthesizer) generateTrade(quote domain.Quote) domain.Trade {
	side := domain.TradeSideSell
	if s.rng.Intn(2) == 0 {
		side = domain.TradeSideBuy
	}

	// price * (1 + u), u uniform in ±priceJitter
	u := (s.rng.Float64()*2 - 1) * priceJitter
	price := quote.Price.Mul(decimal.NewFromFloat(1 + u))

	return domain.Trade{
		Symbol:    quote.Symbol,
		Price:     price,
		Volume:    minVolume + s.rng.Intn(maxVolume-minVolume),
		Timestamp: s.now().UnixMilli(),
		Side:      side,
	}
}
