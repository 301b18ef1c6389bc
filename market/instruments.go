// market/instruments.go
package market

import "github.com/shopspring/decimal"

// Instruments is the reference quote table used when no prices are
// configured.
var Instruments = map[string]decimal.Decimal{
	"AAPL":  decimal.NewFromInt(150),
	"TSLA":  decimal.NewFromInt(600),
	"GOOGL": decimal.NewFromInt(2800),
}
