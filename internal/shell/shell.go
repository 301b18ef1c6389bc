// Package shell is a line-oriented front end over a session. Each input
// line is one command; each reply is a short human-readable message.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/session"
)

var (
	ErrUsage = errors.New("usage")
	errQuit  = errors.New("quit")
)

const help = `Commands:
  create <id> <deposit>   open a new account (replaces the current one)
  deposit <amount>        add cash
  withdraw <amount>       remove cash
  buy <symbol> <qty>      buy shares at the current price
  sell <symbol> <qty>     sell shares at the current price
  holdings                show current holdings
  value                   show portfolio value
  pnl                     show profit or loss
  history                 show the transaction ledger
  price <symbol>          show the current price of a symbol
  help                    show this help
  quit                    leave the shell`

type Shell struct {
	session *session.Session
	prompt  string
}

func New(s *session.Session) *Shell {
	return &Shell{session: s, prompt: "> "}
}

// Run reads commands from in until EOF, "quit" or ctx is done. Input is
// read on its own goroutine so a cancelled ctx returns at once, even while a
// read is blocked; that goroutine exits when the pending read returns.
func (sh *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprint(out, sh.prompt)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			reply, err := sh.Exec(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				reply = err.Error()
			}
			if reply != "" {
				fmt.Fprintln(out, reply)
			}
			fmt.Fprint(out, sh.prompt)
		}
	}
}

// Exec runs a single command line and returns the reply.
func (sh *Shell) Exec(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "create":
		return sh.create(args)
	case "deposit":
		return sh.cash(args, "deposit <amount>", sh.session.Deposit, "Deposited")
	case "withdraw":
		return sh.cash(args, "withdraw <amount>", sh.session.Withdraw, "Withdrew")
	case "buy":
		return sh.trade(args, "buy <symbol> <qty>", sh.session.Buy, "Bought")
	case "sell":
		return sh.trade(args, "sell <symbol> <qty>", sh.session.Sell, "Sold")
	case "holdings", "portfolio":
		return sh.holdings()
	case "value":
		v, err := sh.session.PortfolioValue()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Portfolio value: %s", v), nil
	case "pnl":
		pl, err := sh.session.ProfitOrLoss()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Profit or Loss: %s", pl), nil
	case "history":
		return sh.history()
	case "price":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: price <symbol>", ErrUsage)
		}
		px, ok := sh.session.Quote(args[0])
		if !ok {
			return fmt.Sprintf("%s: unknown symbol, valued at %s", strings.ToUpper(args[0]), px), nil
		}
		return fmt.Sprintf("%s: %s", strings.ToUpper(args[0]), px), nil
	case "help", "?":
		return help, nil
	case "quit", "exit":
		return "", errQuit
	}
	return "", fmt.Errorf("unknown command %q, type help for a list", cmd)
}

func (sh *Shell) create(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: create <id> <deposit>", ErrUsage)
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return "", fmt.Errorf("invalid deposit %q", args[1])
	}
	sum, err := sh.session.Create(args[0], amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Account %s created with initial deposit of %s.", sum.ID, amount), nil
}

func (sh *Shell) cash(args []string, usage string, op func(decimal.Decimal) (session.Summary, error), verb string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid amount %q", args[0])
	}
	sum, err := op(amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s. Current balance: %s", verb, amount, sum.Balance), nil
}

func (sh *Shell) trade(args []string, usage string, op func(string, int64) (session.Summary, error), verb string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid quantity %q", args[1])
	}
	sum, err := op(args[0], qty)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d of %s. Current balance: %s", verb, qty, args[0], sum.Balance), nil
}

func (sh *Shell) holdings() (string, error) {
	h, err := sh.session.Holdings()
	if err != nil {
		return "", err
	}
	if len(h) == 0 {
		return "No holdings.", nil
	}

	symbols := make([]string, 0, len(h))
	for sym := range h {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var b strings.Builder
	for i, sym := range symbols {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-8s %d", sym, h[sym])
	}
	return b.String(), nil
}

func (sh *Shell) history() (string, error) {
	txs, err := sh.session.Transactions()
	if err != nil {
		return "", err
	}
	lines := make([]string, len(txs))
	for i, e := range txs {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n"), nil
}
