package domain

import (
	"context"
)

// QuoteProvider defines the interface for external quote sources.
// Sample never fails outward: on any upstream failure it returns the
// last cached quote for the symbol.
type QuoteProvider interface {
	Sample(ctx context.Context, symbol string) Quote
	SampleAll(ctx context.Context) []Quote
}

// TradeGenerator produces synthetic trades consistent with a quote
type TradeGenerator interface {
	Synthesize(quote Quote) []Trade
}

// SymbolRepository defines how to access persisted symbol metadata
type SymbolRepository interface {
	UpsertSymbol(info *SymbolInfo) error
	GetSymbol(symbol string) (*SymbolInfo, error)
	GetAllSymbols() ([]SymbolInfo, error)
	ToggleFavorite(symbol string) (bool, error)
}
