// Package cmd implements the CLI application to manage a budget.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/budget"
	"github.com/etnz/budget/config"
	"github.com/etnz/budget/logging"
	"github.com/etnz/budget/storage"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands lists every subcommand, in help order.
var Commands = []subcommands.Command{
	&incomeCmd{},
	&expenseCmd{},
	&removeCmd{},
	&depositCmd{},
	&goalCmd{},
	&goalUpdateCmd{},
	&goalDeleteCmd{},
	&incomesCmd{},
	&expensesCmd{},
	&goalsCmd{},
	&splitCmd{},
	&summaryCmd{},
	&trendCmd{},
	&queryCmd{},
	&serveCmd{},
	&topicCmd{},
}

// Register the subcommands and the global flags, defaulting to cfg.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, cfg *config.Config) {
	flag.StringVar(storeLocation, "store", cfg.Store, "Snapshot store: a JSONL file path, or sqlite:<path>. ($BUDGET_STORE)")
	flag.StringVar(passphrase, "passphrase", cfg.Passphrase, "Passphrase encrypting the snapshot file. ($BUDGET_PASSPHRASE)")
	flag.StringVar(currency, "currency", cfg.Currency, "Currency of a new book. ($BUDGET_CURRENCY)")
	flag.StringVar(listenAddr, "listen", cfg.ListenAddr, "Address of the HTTP API for serve. ($BUDGET_LISTEN_ADDR)")
	flag.BoolVar(rawMarkdown, "raw", false, "Print reports as raw markdown instead of rendering them.")

	for _, cmd := range Commands {
		c.Register(cmd, group(cmd.Name()))
	}
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
}

func group(name string) string {
	switch name {
	case "income", "expense", "remove", "deposit":
		return "ledger"
	case "goal", "goal-update", "goal-delete":
		return "goals"
	case "serve":
		return "service"
	case "topic":
		return ""
	default:
		return "reports"
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeLocation = new(string)
	passphrase    = new(string)
	currency      = ptr(budget.DefaultCurrency)
	listenAddr    = ptr(":8080")
	rawMarkdown   = new(bool)

	// out receives the command output.
	out io.Writer = os.Stdout
)

func ptr[T any](v T) *T { return &v }

// newLogger returns the logger of the commands. It only reports errors
// unless LOG_LEVEL says otherwise.
func newLogger() *zap.Logger {
	cfg := logging.FromEnv()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Level = "error"
	}
	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		return zap.NewNop()
	}
	return log
}

// openBook opens the store and loads its book.
func openBook(ctx context.Context, opts ...budget.Option) (*budget.Book, storage.Store, error) {
	store, err := storage.Open(ctx, *storeLocation, *passphrase)
	if err != nil {
		return nil, nil, err
	}
	snapshot, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	opts = append([]budget.Option{budget.WithCurrency(*currency), budget.WithLogger(newLogger())}, opts...)
	book, err := budget.NewBookFromSnapshot(snapshot, opts...)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("could not open %q: %w", *storeLocation, err)
	}
	return book, store, nil
}

// saveBook saves the book and closes the store.
func saveBook(ctx context.Context, book *budget.Book, store storage.Store) error {
	defer store.Close()
	if err := store.Save(ctx, book.Snapshot()); err != nil {
		return fmt.Errorf("could not save %q: %w", *storeLocation, err)
	}
	return nil
}

// mutate opens the book, applies command and saves the book if command
// succeeded.
func mutate(ctx context.Context, command func(*budget.Book) error) subcommands.ExitStatus {
	book, store, err := openBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := command(book); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveBook(ctx, book, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// view opens the book read only and runs report on it.
func view(ctx context.Context, report func(*budget.Book) error) subcommands.ExitStatus {
	book, store, err := openBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	if err := report(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Fprint(out, md)
		return
	}
	rendered, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprint(out, rendered)
}

// parseAmountArg parses the single positional amount of a command.
func parseAmountArg(f *flag.FlagSet) (budget.Amount, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one amount argument, got %d", f.NArg())
	}
	return budget.ParseAmount(f.Arg(0))
}

// parseOptionalDate parses a date flag, "" being the zero date.
func parseOptionalDate(s string) (budget.Date, error) {
	if s == "" {
		return budget.Date{}, nil
	}
	return budget.ParseDate(s)
}
