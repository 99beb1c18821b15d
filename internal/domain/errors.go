package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// ProviderError represents a quote provider failure that may be retriable
// on a later sampling cycle.
type ProviderError struct {
	Op        string // Operation that failed (e.g., "fetch", "decode")
	Symbol    string // Symbol being sampled
	Err       error  // Underlying error
	Retriable bool   // Whether a later sample may succeed
}

func (e *ProviderError) Error() string {
	return e.Op + " " + e.Symbol + ": " + e.Err.Error()
}

func (e *ProviderError) IsRetriable() bool {
	return e.Retriable
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a retriable provider error
func NewProviderError(op, symbol string, err error) *ProviderError {
	return &ProviderError{Op: op, Symbol: symbol, Err: err, Retriable: true}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrRateLimited is returned when the quote provider rejects a request
	// for exceeding its rate limit. Retriable on the next sampling cycle.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMalformedQuote is returned when the provider payload cannot be
	// parsed into a quote.
	ErrMalformedQuote = errors.New("malformed quote payload")

	// ErrUnknownSymbol is returned when a symbol is not part of the
	// configured universe. Not retriable.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrConfigNotFound is returned when the configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
