// Package account implements a single trading-simulation account: a cash
// balance, share holdings and an append-only ledger of every balance
// affecting event.
//
// An Account is not safe for concurrent use. Callers that share one across
// goroutines must serialize access to it (see package session).
package account

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	id             string
	balance        decimal.Decimal
	initialDeposit decimal.Decimal
	holdings       map[string]int64
	transactions   []Entry

	prices PriceSource
	now    func() time.Time
}

// Option configures an Account at construction time.
type Option func(*Account)

// WithClock replaces the clock used to stamp ledger entries.
func WithClock(now func() time.Time) Option {
	return func(a *Account) {
		if now != nil {
			a.now = now
		}
	}
}

// New opens an account with the given initial deposit. The deposit is the
// baseline for ProfitOrLoss and is recorded as the first ledger entry.
func New(id string, initialDeposit decimal.Decimal, prices PriceSource, opts ...Option) (*Account, error) {
	if initialDeposit.IsNegative() {
		return nil, fmt.Errorf("new account: %w: initial deposit %s cannot be negative", ErrInvalidAmount, initialDeposit)
	}
	if prices == nil {
		prices = PriceFunc(func(string) decimal.Decimal { return decimal.Zero })
	}

	a := &Account{
		id:             id,
		balance:        initialDeposit,
		initialDeposit: initialDeposit,
		holdings:       make(map[string]int64),
		prices:         prices,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.append(KindDeposit, "", initialDeposit)
	return a, nil
}

func (a *Account) ID() string                      { return a.id }
func (a *Account) Balance() decimal.Decimal        { return a.balance }
func (a *Account) InitialDeposit() decimal.Decimal { return a.initialDeposit }

// Deposit adds cash to the account.
func (a *Account) Deposit(amount decimal.Decimal) (Entry, error) {
	if !amount.IsPositive() {
		return Entry{}, fmt.Errorf("deposit: %w: %s must be positive", ErrInvalidAmount, amount)
	}
	a.balance = a.balance.Add(amount)
	return a.append(KindDeposit, "", amount), nil
}

// Withdraw removes cash from the account. The balance never goes negative.
func (a *Account) Withdraw(amount decimal.Decimal) (Entry, error) {
	if !amount.IsPositive() {
		return Entry{}, fmt.Errorf("withdraw: %w: %s must be positive", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(a.balance) {
		return Entry{}, fmt.Errorf("withdraw: %w: requested %s, balance %s", ErrInsufficientFunds, amount, a.balance)
	}
	a.balance = a.balance.Sub(amount)
	return a.append(KindWithdraw, "", amount), nil
}

// Buy purchases quantity shares of symbol at the current price.
func (a *Account) Buy(symbol string, quantity int64) (Entry, error) {
	if quantity <= 0 {
		return Entry{}, fmt.Errorf("buy %s: %w: %d must be positive", symbol, ErrInvalidQuantity, quantity)
	}
	if held := a.holdings[symbol]; quantity > math.MaxInt64-held {
		return Entry{}, fmt.Errorf("buy %d %s: %w: holding %d would overflow", quantity, symbol, ErrInvalidQuantity, held)
	}
	cost := a.prices.Price(symbol).Mul(decimal.NewFromInt(quantity))
	if cost.GreaterThan(a.balance) {
		return Entry{}, fmt.Errorf("buy %d %s: %w: cost %s, balance %s", quantity, symbol, ErrInsufficientFunds, cost, a.balance)
	}

	a.balance = a.balance.Sub(cost)
	a.holdings[symbol] += quantity
	return a.append(KindBuy, tradeDetail(symbol, quantity), cost), nil
}

// Sell disposes of quantity shares of symbol at the current price. A
// holding that reaches zero is removed.
func (a *Account) Sell(symbol string, quantity int64) (Entry, error) {
	if quantity <= 0 {
		return Entry{}, fmt.Errorf("sell %s: %w: %d must be positive", symbol, ErrInvalidQuantity, quantity)
	}
	held := a.holdings[symbol]
	if held < quantity {
		return Entry{}, fmt.Errorf("sell %d %s: %w: holding %d", quantity, symbol, ErrInsufficientShares, held)
	}

	proceeds := a.prices.Price(symbol).Mul(decimal.NewFromInt(quantity))
	if held == quantity {
		delete(a.holdings, symbol)
	} else {
		a.holdings[symbol] = held - quantity
	}
	a.balance = a.balance.Add(proceeds)
	return a.append(KindSell, tradeDetail(symbol, quantity), proceeds), nil
}

// PortfolioValue is the cash balance plus every holding marked at the
// current price.
func (a *Account) PortfolioValue() decimal.Decimal {
	value := a.balance
	for symbol, qty := range a.holdings {
		value = value.Add(a.prices.Price(symbol).Mul(decimal.NewFromInt(qty)))
	}
	return value
}

// ProfitOrLoss is PortfolioValue measured against the initial deposit.
func (a *Account) ProfitOrLoss() decimal.Decimal {
	return a.PortfolioValue().Sub(a.initialDeposit)
}

// Holdings returns a copy of the current holdings.
func (a *Account) Holdings() map[string]int64 {
	out := make(map[string]int64, len(a.holdings))
	for symbol, qty := range a.holdings {
		out[symbol] = qty
	}
	return out
}

// TransactionHistory returns a copy of the ledger in insertion order.
func (a *Account) TransactionHistory() []Entry {
	out := make([]Entry, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// TransactionCount is the number of ledger entries.
func (a *Account) TransactionCount() int {
	return len(a.transactions)
}

func (a *Account) append(kind Kind, detail string, amount decimal.Decimal) Entry {
	e := Entry{
		Time:   a.now(),
		Kind:   kind,
		Detail: detail,
		Amount: amount,
	}
	a.transactions = append(a.transactions, e)
	return e
}
