package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type depositCmd struct{}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit the savings pool directly" }
func (*depositCmd) Usage() string {
	return `bgt deposit <amount>

  Credits the savings pool outside of any income, e.g. to seed a new book.
`
}

func (*depositCmd) SetFlags(f *flag.FlagSet) {}

func (*depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmountArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return mutate(ctx, func(b *budget.Book) error {
		if err := b.Deposit(amount); err != nil {
			return err
		}
		fmt.Fprintf(out, "Savings pool: %s\n", b.Format(b.Balance()))
		return nil
	})
}
