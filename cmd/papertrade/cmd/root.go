package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/internal/logger"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/session"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A paper trading account simulator",
	Long: `Papertrade simulates a single trading account: deposit and withdraw cash,
buy and sell shares at quoted prices, and track holdings, portfolio value
and profit or loss against the initial deposit.

It provides:
  - an interactive shell (papertrade shell)
  - an HTTP API (papertrade serve)
  - an optional ledger journal in CSV or SQLite`,
	SilenceUsage: true,
}

var (
	cfgFile string
	envFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file overlaid on the config")
}

// loadConfig reads the config file when one is given, then applies the
// environment.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

func loadPrices(cfg *config.Config) (*market.StaticPrices, error) {
	if len(cfg.Prices) == 0 {
		return market.DefaultPrices(), nil
	}
	return market.FromFloats(cfg.Prices)
}

// runtime bundles what the front ends share.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	prices  *market.StaticPrices
	journal journal.Journal
	session *session.Session
}

func newRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	prices, err := loadPrices(cfg)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}

	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.Path())
	if err != nil {
		return nil, err
	}

	s := session.New(prices, log, session.WithJournal(j))
	if cfg.Account.CreateOnStart {
		if _, err := s.Create(cfg.Account.ID, decimal.NewFromFloat(cfg.Account.InitialDeposit)); err != nil {
			_ = j.Close()
			return nil, fmt.Errorf("create account: %w", err)
		}
	}

	return &runtime{cfg: cfg, log: log, prices: prices, journal: j, session: s}, nil
}

func (rt *runtime) Close() error {
	return rt.journal.Close()
}
