package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run an interactive account session",
	Long: `Start a line-oriented session on stdin/stdout.

Example:
  papertrade shell
  > create A1 1000
  Account A1 created with initial deposit of 1000.
  > buy AAPL 2
  Bought 2 of AAPL. Current balance: 700`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Trading Simulation Account Management (type help for commands)")
	return shell.New(rt.session).Run(cmd.Context(), cmd.InOrStdin(), out)
}
