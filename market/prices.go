package market

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price cannot be negative")

// StaticPrices is a fixed symbol to unit price table. Lookups ignore case
// and unknown symbols are quoted at zero. It is safe for concurrent use.
type StaticPrices struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

func NewStaticPrices() *StaticPrices {
	return &StaticPrices{prices: make(map[string]decimal.Decimal)}
}

// DefaultPrices returns a table seeded from Instruments.
func DefaultPrices() *StaticPrices {
	ps := NewStaticPrices()
	for sym, px := range Instruments {
		ps.prices[sym] = px
	}
	return ps
}

// FromFloats builds a table from configuration values.
func FromFloats(table map[string]float64) (*StaticPrices, error) {
	ps := NewStaticPrices()
	for sym, px := range table {
		if err := ps.Set(sym, decimal.NewFromFloat(px)); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (ps *StaticPrices) Set(symbol string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("set %s: %w: %s", symbol, ErrNegativePrice, price)
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.prices[normalize(symbol)] = price
	return nil
}

// Price returns the unit price for symbol, or zero when it is not known.
func (ps *StaticPrices) Price(symbol string) decimal.Decimal {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	px, ok := ps.prices[normalize(symbol)]
	if !ok {
		return decimal.Zero
	}
	return px
}

// Lookup is like Price but reports whether the symbol is known.
func (ps *StaticPrices) Lookup(symbol string) (decimal.Decimal, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	px, ok := ps.prices[normalize(symbol)]
	return px, ok
}

// Symbols lists the known symbols in sorted order.
func (ps *StaticPrices) Symbols() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]string, 0, len(ps.prices))
	for sym := range ps.prices {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of the table.
func (ps *StaticPrices) Snapshot() map[string]decimal.Decimal {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(ps.prices))
	for sym, px := range ps.prices {
		out[sym] = px
	}
	return out
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
