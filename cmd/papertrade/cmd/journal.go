package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/id"
	"github.com/rustyeddy/papertrade/journal"
)

const defaultJournalDB = "./papertrade.sqlite"

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query a ledger journal",
	Long: `Read back ledger entries mirrored to an SQLite journal. The database
is opened read-only and must already exist.

Each account created starts a new run, so an account id that was reused
lists every run in the order they were started.

The database is --db, else journal.db_path from --config, else
./papertrade.sqlite.

Subcommands:
  accounts - List accounts with journaled entries
  list     - List every entry of an account
  run      - List the entries of a single run
  entry    - Show one entry of a run
  day      - List entries recorded on a specific day

Examples:
  papertrade journal accounts
  papertrade journal list A1
  papertrade journal run 01HV3K8Q9ZJ3M6X2Y7T4W5R8PA
  papertrade journal entry 01HV3K8Q9ZJ3M6X2Y7T4W5R8PA 2
  papertrade journal day 2024-01-15`,
}

var journalAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts with journaled entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalAccounts,
}

var journalListCmd = &cobra.Command{
	Use:   "list <account-id>",
	Short: "List every entry of an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalList,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "List the entries of a single run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalEntryCmd = &cobra.Command{
	Use:   "entry <run-id> <seq>",
	Short: "Show one entry of a run",
	Args:  cobra.ExactArgs(2),
	RunE:  runJournalEntry,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List entries recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAccountsCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalEntryCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB")
}

// openJournal resolves the database path and opens it read-only.
func openJournal() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		path = defaultJournalDB
	}

	j, err := journal.OpenSQLiteReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func parseRunID(s string) (string, error) {
	if !id.Valid(s) {
		return "", fmt.Errorf("run id %q is not a ULID", s)
	}
	return s, nil
}

func runJournalAccounts(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ids, err := j.AccountIDs()
	if err != nil {
		return fmt.Errorf("query accounts: %w", err)
	}
	for _, acct := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), acct)
	}
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListEntries(args[0])
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatEntriesOrg(recs))
	return nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	run, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListRun(run)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatEntriesOrg(recs))
	return nil
}

func runJournalEntry(cmd *cobra.Command, args []string) error {
	run, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	seq, err := strconv.Atoi(args[1])
	if err != nil || seq < 1 {
		return fmt.Errorf("seq %q must be a positive integer", args[1])
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetEntry(run, seq)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntryOrg(rec))
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListEntriesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatEntriesOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
