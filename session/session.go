// Package session owns the one account a front end works with. It replaces
// a process-wide "current account" variable: front ends hold a *Session and
// every operation goes through it.
//
// A Session serializes its operations, so the HTTP server and the shell can
// share one. Every ledger entry an operation appends is mirrored to the
// configured journal.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/papertrade/account"
	"github.com/rustyeddy/papertrade/id"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/shopspring/decimal"
)

var ErrNoAccount = errors.New("no account found, create an account first")

// Quoter is the price capability a Session needs: account valuation plus
// a lookup that distinguishes unknown symbols for display.
type Quoter interface {
	account.PriceSource
	Lookup(symbol string) (decimal.Decimal, bool)
}

// Summary is a point-in-time view of the account.
type Summary struct {
	ID             string           `json:"id"`
	Run            string           `json:"run"`
	Balance        decimal.Decimal  `json:"balance"`
	InitialDeposit decimal.Decimal  `json:"initial_deposit"`
	PortfolioValue decimal.Decimal  `json:"portfolio_value"`
	ProfitOrLoss   decimal.Decimal  `json:"profit_or_loss"`
	Holdings       map[string]int64 `json:"holdings"`
	Transactions   int              `json:"transactions"`
}

type Session struct {
	mu      sync.Mutex
	acct    *account.Account
	run     string
	prices  Quoter
	journal journal.Journal
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithJournal mirrors ledger entries to j.
func WithJournal(j journal.Journal) Option {
	return func(s *Session) {
		if j != nil {
			s.journal = j
		}
	}
}

// WithClock sets the clock passed to accounts the session creates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func New(prices Quoter, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		prices:  prices,
		journal: journal.Nop{},
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new account, replacing any existing one. An empty id is
// replaced by a generated ULID. Every account created starts a new journal
// run, so reusing an id never overwrites an earlier account's entries.
func (s *Session) Create(accountID string, deposit decimal.Decimal) (Summary, error) {
	if accountID == "" {
		accountID = id.New()
	}

	acct, err := account.New(accountID, deposit, s.prices, account.WithClock(s.now))
	if err != nil {
		s.log.Warn().Err(err).Str("account", accountID).Msg("create rejected")
		return Summary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acct != nil {
		s.log.Info().Str("previous", s.acct.ID()).Str("account", accountID).Msg("replacing account")
	}
	s.acct = acct
	s.run = id.New()
	s.record(acct.TransactionHistory()[0])
	s.log.Info().Str("account", accountID).Str("run", s.run).Stringer("deposit", deposit).Msg("account created")

	return s.summaryLocked(), nil
}

// Deposit adds cash to the account.
func (s *Session) Deposit(amount decimal.Decimal) (Summary, error) {
	return s.mutate("deposit", func(a *account.Account) (account.Entry, error) {
		return a.Deposit(amount)
	})
}

// Withdraw removes cash from the account.
func (s *Session) Withdraw(amount decimal.Decimal) (Summary, error) {
	return s.mutate("withdraw", func(a *account.Account) (account.Entry, error) {
		return a.Withdraw(amount)
	})
}

// Buy purchases shares at the current price.
func (s *Session) Buy(symbol string, quantity int64) (Summary, error) {
	return s.mutate("buy", func(a *account.Account) (account.Entry, error) {
		return a.Buy(symbol, quantity)
	})
}

// Sell disposes of shares at the current price.
func (s *Session) Sell(symbol string, quantity int64) (Summary, error) {
	return s.mutate("sell", func(a *account.Account) (account.Entry, error) {
		return a.Sell(symbol, quantity)
	})
}

func (s *Session) Summary() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acct == nil {
		return Summary{}, ErrNoAccount
	}
	return s.summaryLocked(), nil
}

func (s *Session) Holdings() (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acct == nil {
		return nil, ErrNoAccount
	}
	return s.acct.Holdings(), nil
}

func (s *Session) Transactions() ([]account.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acct == nil {
		return nil, ErrNoAccount
	}
	return s.acct.TransactionHistory(), nil
}

func (s *Session) ProfitOrLoss() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acct == nil {
		return decimal.Zero, ErrNoAccount
	}
	return s.acct.ProfitOrLoss(), nil
}

func (s *Session) PortfolioValue() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acct == nil {
		return decimal.Zero, ErrNoAccount
	}
	return s.acct.PortfolioValue(), nil
}

// Quote returns the current price of symbol and whether it is known. It
// does not need an account.
func (s *Session) Quote(symbol string) (decimal.Decimal, bool) {
	return s.prices.Lookup(symbol)
}

func (s *Session) mutate(op string, fn func(*account.Account) (account.Entry, error)) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acct == nil {
		return Summary{}, ErrNoAccount
	}

	e, err := fn(s.acct)
	if err != nil {
		s.log.Warn().Err(err).Str("account", s.acct.ID()).Str("op", op).Msg("operation rejected")
		return Summary{}, err
	}

	s.record(e)
	s.log.Info().
		Str("account", s.acct.ID()).
		Str("kind", string(e.Kind)).
		Str("detail", e.Detail).
		Stringer("amount", e.Amount).
		Stringer("balance", s.acct.Balance()).
		Msg("ledger entry")

	return s.summaryLocked(), nil
}

// record mirrors e to the journal. The account has already changed, so a
// journal failure is logged rather than returned.
func (s *Session) record(e account.Entry) {
	seq := s.acct.TransactionCount()
	if err := s.journal.RecordEntry(journal.FromEntry(s.run, s.acct.ID(), seq, e)); err != nil {
		s.log.Error().Err(err).Str("account", s.acct.ID()).Str("run", s.run).Int("seq", seq).Msg("journal entry")
	}
}

func (s *Session) summaryLocked() Summary {
	return Summary{
		ID:             s.acct.ID(),
		Run:            s.run,
		Balance:        s.acct.Balance(),
		InitialDeposit: s.acct.InitialDeposit(),
		PortfolioValue: s.acct.PortfolioValue(),
		ProfitOrLoss:   s.acct.ProfitOrLoss(),
		Holdings:       s.acct.Holdings(),
		Transactions:   s.acct.TransactionCount(),
	}
}
