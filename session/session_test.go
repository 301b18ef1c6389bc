package session

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/papertrade/account"
	"github.com/rustyeddy/papertrade/id"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJournal struct {
	mu      sync.Mutex
	records []journal.Record
	fail    bool
}

func (j *testJournal) RecordEntry(r journal.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("disk full")
	}
	j.records = append(j.records, r)
	return nil
}

func (j *testJournal) Close() error { return nil }

var fixed = time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

func newSession(t *testing.T) (*Session, *testJournal, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	j := &testJournal{}
	s := New(market.DefaultPrices(), zerolog.New(&buf),
		WithJournal(j),
		WithClock(func() time.Time { return fixed }))
	return s, j, &buf
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNoAccount(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)

	_, err := s.Deposit(d("10"))
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Withdraw(d("10"))
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Buy("AAPL", 1)
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Sell("AAPL", 1)
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Summary()
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Holdings()
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.Transactions()
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.ProfitOrLoss()
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.PortfolioValue()
	assert.ErrorIs(t, err, ErrNoAccount)

	px, ok := s.Quote("tsla")
	assert.True(t, ok)
	assert.Equal(t, "600", px.String())

	assert.Empty(t, j.records)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)
	sum, err := s.Create("A1", d("1000"))
	require.NoError(t, err)

	assert.Equal(t, "A1", sum.ID)
	assert.Equal(t, "1000", sum.Balance.String())
	assert.Equal(t, "1000", sum.PortfolioValue.String())
	assert.Equal(t, "0", sum.ProfitOrLoss.String())
	assert.Equal(t, 1, sum.Transactions)

	require.Len(t, j.records, 1)
	assert.True(t, id.Valid(sum.Run))
	assert.Equal(t, journal.Record{
		Run:       sum.Run,
		AccountID: "A1",
		Seq:       1,
		Time:      fixed,
		Kind:      account.KindDeposit,
		Detail:    "",
		Amount:    d("1000"),
	}, j.records[0])
}

func TestCreateGeneratesID(t *testing.T) {
	t.Parallel()

	s, _, _ := newSession(t)
	sum, err := s.Create("", d("5"))
	require.NoError(t, err)
	assert.True(t, id.Valid(sum.ID))
}

func TestCreateNegativeKeepsPreviousAccount(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)
	_, err := s.Create("A1", d("1000"))
	require.NoError(t, err)

	_, err = s.Create("A2", d("-1"))
	assert.ErrorIs(t, err, account.ErrInvalidAmount)

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, "A1", sum.ID)
	assert.Len(t, j.records, 1)
}

func TestCreateReplacesAccount(t *testing.T) {
	t.Parallel()

	s, _, _ := newSession(t)
	_, err := s.Create("A1", d("1000"))
	require.NoError(t, err)
	_, err = s.Buy("AAPL", 2)
	require.NoError(t, err)

	sum, err := s.Create("A2", d("50"))
	require.NoError(t, err)
	assert.Equal(t, "A2", sum.ID)
	assert.Empty(t, sum.Holdings)
	assert.Equal(t, 1, sum.Transactions)
}

func TestRecreateSameIDStartsNewRun(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)
	first, err := s.Create("A1", d("1000"))
	require.NoError(t, err)
	_, err = s.Buy("AAPL", 2)
	require.NoError(t, err)

	second, err := s.Create("A1", d("50"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Run, second.Run)

	require.Len(t, j.records, 3)
	assert.Equal(t, first.Run, j.records[0].Run)
	assert.Equal(t, first.Run, j.records[1].Run)
	assert.Equal(t, second.Run, j.records[2].Run)
	assert.Equal(t, 1, j.records[2].Seq)
}

func TestScenario(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)
	_, err := s.Create("A1", d("1000"))
	require.NoError(t, err)

	sum, err := s.Buy("AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, "700", sum.Balance.String())
	assert.Equal(t, map[string]int64{"AAPL": 2}, sum.Holdings)
	assert.Equal(t, 2, sum.Transactions)
	assert.Equal(t, "0", sum.ProfitOrLoss.String())

	sum, err = s.Sell("AAPL", 1)
	require.NoError(t, err)
	assert.Equal(t, "850", sum.Balance.String())
	assert.Equal(t, map[string]int64{"AAPL": 1}, sum.Holdings)
	assert.Equal(t, 3, sum.Transactions)

	sum, err = s.Deposit(d("150"))
	require.NoError(t, err)
	assert.Equal(t, "1000", sum.Balance.String())

	sum, err = s.Withdraw(d("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "999.5", sum.Balance.String())

	pnl, err := s.ProfitOrLoss()
	require.NoError(t, err)
	assert.Equal(t, "149.5", pnl.String())

	value, err := s.PortfolioValue()
	require.NoError(t, err)
	assert.Equal(t, "1149.5", value.String())

	require.Len(t, j.records, 5)
	kinds := []account.Kind{}
	for i, r := range j.records {
		assert.Equal(t, i+1, r.Seq)
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []account.Kind{
		account.KindDeposit, account.KindBuy, account.KindSell, account.KindDeposit, account.KindWithdraw,
	}, kinds)
	assert.Equal(t, "1 AAPL", j.records[2].Detail)

	txs, err := s.Transactions()
	require.NoError(t, err)
	assert.Len(t, txs, 5)
}

func TestRejectedOperationsAreNotJournaled(t *testing.T) {
	t.Parallel()

	s, j, buf := newSession(t)
	_, err := s.Create("A1", d("100"))
	require.NoError(t, err)

	_, err = s.Withdraw(d("500"))
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
	_, err = s.Buy("GOOGL", 1)
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
	_, err = s.Sell("AAPL", 1)
	assert.ErrorIs(t, err, account.ErrInsufficientShares)
	_, err = s.Deposit(d("0"))
	assert.ErrorIs(t, err, account.ErrInvalidAmount)
	_, err = s.Buy("AAPL", 0)
	assert.ErrorIs(t, err, account.ErrInvalidQuantity)

	assert.Len(t, j.records, 1)
	assert.Contains(t, buf.String(), "operation rejected")
}

func TestJournalFailureIsLogged(t *testing.T) {
	t.Parallel()

	s, j, buf := newSession(t)
	j.fail = true

	_, err := s.Create("A1", d("100"))
	require.NoError(t, err)
	sum, err := s.Deposit(d("1"))
	require.NoError(t, err)
	assert.Equal(t, "101", sum.Balance.String())

	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestHoldingsCopy(t *testing.T) {
	t.Parallel()

	s, _, _ := newSession(t)
	_, err := s.Create("A1", d("1000"))
	require.NoError(t, err)
	_, err = s.Buy("AAPL", 2)
	require.NoError(t, err)

	h, err := s.Holdings()
	require.NoError(t, err)
	h["AAPL"] = 0

	h, err = s.Holdings()
	require.NoError(t, err)
	assert.Equal(t, int64(2), h["AAPL"])
}

func TestConcurrentDeposits(t *testing.T) {
	t.Parallel()

	s, j, _ := newSession(t)
	_, err := s.Create("A1", d("0"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Deposit(d("1.01"))
		}()
	}
	wg.Wait()

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, "50.5", sum.Balance.String())
	assert.Equal(t, 51, sum.Transactions)
	assert.Len(t, j.records, 51)
}
