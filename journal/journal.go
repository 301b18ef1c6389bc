// journal/journal.go
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrade/account"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownType = errors.New("unknown journal type")
	ErrNotFound    = errors.New("entry not found")
	ErrNoDatabase  = errors.New("journal database does not exist")
)

// Record is one ledger entry as mirrored to a journal. Run identifies one
// incarnation of an account: recreating an account under the same ID starts
// a new run. Seq is the position of the entry in that run's ledger, starting
// at 1 for the initial deposit.
type Record struct {
	Run       string
	AccountID string
	Seq       int
	Time      time.Time
	Kind      account.Kind
	Detail    string
	Amount    decimal.Decimal
}

// FromEntry converts a ledger entry to a journal record.
func FromEntry(run, accountID string, seq int, e account.Entry) Record {
	return Record{
		Run:       run,
		AccountID: accountID,
		Seq:       seq,
		Time:      e.Time,
		Kind:      e.Kind,
		Detail:    e.Detail,
		Amount:    e.Amount,
	}
}

// Journal is a write-only sink for ledger entries.
type Journal interface {
	RecordEntry(Record) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordEntry(Record) error { return nil }
func (Nop) Close() error             { return nil }

// Open returns the journal backend named by typ: "none", "csv" or "sqlite".
func Open(typ, path string) (Journal, error) {
	switch typ {
	case "", "none":
		return Nop{}, nil
	case "csv":
		return NewCSV(path)
	case "sqlite":
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("open journal: %w: %q", ErrUnknownType, typ)
}
