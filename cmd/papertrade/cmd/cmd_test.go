package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/account"
	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/journal"
)

func resetFlags() {
	cfgFile = ""
	envFile = ".env"
	journalDBPath = ""
}

// execute runs the root command. Flag variables outlive a single Execute,
// so the ones tests pass are reset around every call.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, out)
	return out
}

const (
	runA = "01HV3K8Q9ZJ3M6X2Y7T4W5R8PA"
	runB = "01HV3K8Q9ZJ3M6X2Y7T4W5R8PB"
)

// seedJournal writes two runs of account A1: a deposit and withdrawal,
// then a recreated account with its own deposit.
func seedJournal(t *testing.T) string {
	t.Helper()

	db := filepath.Join(t.TempDir(), "journal.sqlite")
	j, err := journal.NewSQLite(db)
	require.NoError(t, err)

	acct, err := account.New("A1", decimal.RequireFromString("1000"), nil)
	require.NoError(t, err)
	e, err := acct.Withdraw(decimal.RequireFromString("25"))
	require.NoError(t, err)
	require.NoError(t, j.RecordEntry(journal.FromEntry(runA, "A1", 1, acct.TransactionHistory()[0])))
	require.NoError(t, j.RecordEntry(journal.FromEntry(runA, "A1", 2, e)))

	again, err := account.New("A1", decimal.RequireFromString("50"), nil)
	require.NoError(t, err)
	require.NoError(t, j.RecordEntry(journal.FromEntry(runB, "A1", 1, again.TransactionHistory()[0])))
	require.NoError(t, j.Close())

	return db
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), end)

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papertrade.yaml")

	out := run(t, "config", "init", "-o", path)
	assert.Contains(t, out, "Created default configuration")

	out = run(t, "config", "validate", "-f", path)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "[AAPL GOOGL TSLA]")
	assert.NotContains(t, out, "Env overlay")
}

func TestConfigValidateWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papertrade.yaml")
	run(t, "config", "init", "-o", path)

	env := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(env, []byte("PAPERTRADE_ADDR=:9999\n"), 0o644))
	out := run(t, "config", "validate", "-f", path, "--env-file", env)
	assert.Contains(t, out, "Server: :9999")
	assert.Contains(t, out, "Env overlay: "+env)

	_, ok := os.LookupEnv(config.EnvAddr)
	assert.False(t, ok)

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("PAPERTRADE_LOG_LEVEL=loud\n"), 0o644))
	_, err := execute(t, "config", "validate", "-f", path, "--env-file", bad)
	assert.Error(t, err)
}

func TestPrice(t *testing.T) {
	out := run(t, "price", "aapl", "XYZ", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.Contains(t, out, "AAPL     150.00\n")
	assert.Contains(t, out, "XYZ      0.00 (unknown)\n")
}

func TestPriceSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papertrade.yaml")
	missing := filepath.Join(dir, "missing.env")
	run(t, "config", "init", "-o", path)

	out := run(t, "price", "set", "msft", "410.25", "--config", path)
	assert.Equal(t, "MSFT     410.25\n", out)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 410.25, cfg.Prices["MSFT"])
	assert.Equal(t, 150.0, cfg.Prices["AAPL"])

	out = run(t, "price", "MSFT", "--config", path, "--env-file", missing)
	assert.Equal(t, "MSFT     410.25\n", out)

	_, err = execute(t, "price", "set", "--config", path, "--", "MSFT", "-1")
	assert.Error(t, err)
	_, err = execute(t, "price", "set", "MSFT", "lots", "--config", path)
	assert.Error(t, err)
	_, err = execute(t, "price", "set", "MSFT", "1")
	assert.Error(t, err)
}

func TestJournalList(t *testing.T) {
	db := seedJournal(t)

	out := run(t, "journal", "accounts", "-d", db)
	assert.Equal(t, "A1\n", out)

	out = run(t, "journal", "list", "A1", "-d", db)
	assert.Contains(t, out, "WITHDRAW")
	assert.Contains(t, out, "25.00")
	assert.Contains(t, out, ":RUN: "+runA)
	assert.Contains(t, out, ":RUN: "+runB)
	assert.Contains(t, out, "** DEPOSIT 50.00")
}

func TestJournalRunAndEntry(t *testing.T) {
	db := seedJournal(t)

	out := run(t, "journal", "run", runB, "-d", db)
	assert.Contains(t, out, "** DEPOSIT 50.00")
	assert.NotContains(t, out, "WITHDRAW")

	out = run(t, "journal", "entry", runA, "2", "-d", db)
	assert.Contains(t, out, "** WITHDRAW 25.00 (A1 #2)")

	_, err := execute(t, "journal", "entry", runA, "9", "-d", db)
	assert.ErrorIs(t, err, journal.ErrNotFound)

	_, err = execute(t, "journal", "run", "A1", "-d", db)
	assert.Error(t, err)
	_, err = execute(t, "journal", "entry", runA, "zero", "-d", db)
	assert.Error(t, err)
}

func TestJournalMissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nope.sqlite")

	_, err := execute(t, "journal", "accounts", "-d", db)
	assert.ErrorIs(t, err, journal.ErrNoDatabase)
	assert.NoFileExists(t, db)
}

func TestJournalDBFromConfig(t *testing.T) {
	db := seedJournal(t)

	cfg := config.Default()
	cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: db}
	path := filepath.Join(t.TempDir(), "papertrade.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	out := run(t, "journal", "accounts", "--config", path, "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "A1\n", out)
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	assert.Equal(t, "papertrade version "+version+"\n", out)
}
