package account

import "github.com/shopspring/decimal"

// PriceSource supplies the current unit price of a symbol. Implementations
// must be total: unknown symbols return zero rather than an error.
type PriceSource interface {
	Price(symbol string) decimal.Decimal
}

// PriceFunc adapts a plain function to a PriceSource.
type PriceFunc func(symbol string) decimal.Decimal

func (f PriceFunc) Price(symbol string) decimal.Decimal {
	return f(symbol)
}
