package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the event recorded by a ledger Entry.
type Kind string

const (
	KindDeposit  Kind = "DEPOSIT"
	KindWithdraw Kind = "WITHDRAW"
	KindBuy      Kind = "BUY"
	KindSell     Kind = "SELL"
)

// TimestampLayout is the layout used when rendering entry times.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one ledger record. Amount is always a non-negative magnitude;
// the direction of the cash movement follows from Kind.
type Entry struct {
	Time   time.Time       `json:"time"`
	Kind   Kind            `json:"kind"`
	Detail string          `json:"detail"`
	Amount decimal.Decimal `json:"amount"`
}

// Timestamp renders the entry time as a wall-clock string.
func (e Entry) Timestamp() string {
	return e.Time.Format(TimestampLayout)
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %-8s %-12s %s", e.Timestamp(), e.Kind, e.Detail, e.Amount.StringFixed(2))
}

func tradeDetail(symbol string, quantity int64) string {
	return fmt.Sprintf("%d %s", quantity, symbol)
}
