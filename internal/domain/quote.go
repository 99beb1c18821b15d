package domain

import "github.com/shopspring/decimal"

// Quote represents the latest known price data for a single symbol
type Quote struct {
	Symbol        string          `json:"symbol"`        // Ticker symbol (e.g., "AAPL")
	Name          string          `json:"name"`          // Company display name
	Price         decimal.Decimal `json:"currentPrice"`  // Current price
	PreviousClose decimal.Decimal `json:"previousClose"` // Previous session close
	Change        decimal.Decimal `json:"change"`        // Price - PreviousClose
	ChangePercent decimal.Decimal `json:"changePercent"` // Change / PreviousClose * 100
}

// NewQuoteSample builds a Quote from a fresh provider sample,
// deriving Change and ChangePercent from price and previous close.
func NewQuoteSample(symbol, name string, price, previousClose decimal.Decimal) Quote {
	q := Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         price,
		PreviousClose: previousClose,
		Change:        price.Sub(previousClose),
	}
	if !previousClose.IsZero() {
		q.ChangePercent = q.Change.Div(previousClose).Mul(decimal.NewFromInt(100))
	}
	return q
}

// PlaceholderQuote returns a zero-valued Quote for a symbol that has
// never been sampled successfully.
func PlaceholderQuote(symbol, name string) Quote {
	return Quote{Symbol: symbol, Name: name}
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (q Quote) ChangeDirection() string {
	if q.Change.IsPositive() {
		return "positive"
	}
	if q.Change.IsNegative() {
		return "negative"
	}
	return "neutral"
}

// IsPlaceholder reports whether the quote still holds startup zero values.
func (q Quote) IsPlaceholder() bool {
	return q.Price.IsZero() && q.PreviousClose.IsZero()
}
