package store

import (
	"errors"
	"fmt"
	"strings"

	"MarketAdvisor/internal/model"
)

// ErrUnavailable reports that no usable price data exists for a symbol.
var ErrUnavailable = errors.New("price data unavailable")

// AccessError wraps a fault reading the underlying store. Unlike
// ErrUnavailable it is not recoverable by the caller.
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Loader reads the price history of a symbol. An empty category searches
// every category.
type Loader interface {
	Load(symbol, category string) (*model.PriceSeries, error)
}

// SymbolRef names one stored series.
type SymbolRef struct {
	Category string
	Symbol   string
}

// Lister enumerates the stored series.
type Lister interface {
	Symbols() ([]SymbolRef, error)
}

// Writer stores the price history of a symbol, replacing what was there.
type Writer interface {
	Write(category, symbol string, points []model.PricePoint) error
}

// Store is a readable, listable and writable series store.
type Store interface {
	Loader
	Lister
	Writer
}

// NormalizeSymbol trims the symbol and folds dashes into underscores, so
// "BTC-USD" and "BTC_USD" resolve to the same file.
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), "-", "_")
}

// candidates lists the stored names tried for a symbol when no category is
// given, in priority order.
func candidates(symbol string) []string {
	sym := NormalizeSymbol(symbol)
	return []string{
		sym,
		sym + "_USD",
		strings.ReplaceAll(sym, "_", "") + "_USD",
	}
}

func unavailable(symbol, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", symbol, fmt.Sprintf(format, args...), ErrUnavailable)
}
