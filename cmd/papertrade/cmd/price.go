package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/config"
)

var priceCmd = &cobra.Command{
	Use:   "price [symbol...]",
	Short: "Show quotes from the configured price table",
	Long: `Print the unit price of each symbol, or the whole table when no symbol
is given. Unknown symbols are quoted at 0.

Examples:
  papertrade price
  papertrade price AAPL tsla
  papertrade price set MSFT 410.25 --config papertrade.yaml`,
	RunE: runPrice,
}

var priceSetCmd = &cobra.Command{
	Use:   "set <symbol> <price>",
	Short: "Set a price in the config file's price table",
	Long: `Update one symbol in the price table of the file named by --config.
The shell and the HTTP server pick it up the next time they start.`,
	Args: cobra.ExactArgs(2),
	RunE: runPriceSet,
}

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.AddCommand(priceSetCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	prices, err := loadPrices(cfg)
	if err != nil {
		return fmt.Errorf("prices: %w", err)
	}

	symbols := args
	if len(symbols) == 0 {
		symbols = prices.Symbols()
	}

	out := cmd.OutOrStdout()
	for _, sym := range symbols {
		px, ok := prices.Lookup(sym)
		note := ""
		if !ok {
			note = " (unknown)"
		}
		fmt.Fprintf(out, "%-8s %s%s\n", strings.ToUpper(sym), px.StringFixed(2), note)
	}
	return nil
}

func runPriceSet(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return errors.New("price set needs --config")
	}

	px, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("price %q: %w", args[1], err)
	}

	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return err
	}
	prices, err := loadPrices(cfg)
	if err != nil {
		return fmt.Errorf("prices: %w", err)
	}
	if err := prices.Set(args[0], px); err != nil {
		return err
	}

	cfg.Prices = make(map[string]float64)
	for sym, p := range prices.Snapshot() {
		cfg.Prices[sym] = p.InexactFloat64()
	}
	if err := cfg.SaveToFile(cfgFile); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	sym := strings.ToUpper(strings.TrimSpace(args[0]))
	fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", sym, px.StringFixed(2))
	return nil
}
