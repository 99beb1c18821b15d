package domain

import "github.com/shopspring/decimal"

// TradeSide is the direction of a synthesized trade
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade represents a single synthesized trade event derived from a quote
type Trade struct {
	Symbol    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Volume    int             `json:"volume"`
	Timestamp int64           `json:"timestamp"` // Unix milliseconds at synthesis time
	Side      TradeSide       `json:"type"`
}

// TradeUpdate is the unit of emission: one quote plus the trades
// freshly synthesized from it. Trades is never empty.
type TradeUpdate struct {
	Quote  Quote   `json:"ticker"`
	Trades []Trade `json:"trades"`
}
