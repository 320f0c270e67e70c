package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove an income or an expense" }
func (*removeCmd) Usage() string {
	return `bgt remove income|expense <id>

  Removes a record from the ledger and reverses its effect on the savings
  pool. The removal is refused if the pool cannot give back what the record
  brought in.
`
}

func (*removeCmd) SetFlags(f *flag.FlagSet) {}

func (*removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a kind (income or expense) and an id")
		return subcommands.ExitUsageError
	}
	kind, id := f.Arg(0), f.Arg(1)
	switch kind {
	case "income":
		return mutate(ctx, func(b *budget.Book) error {
			rec, err := b.RemoveIncome(id)
			if err == nil {
				fmt.Fprintf(out, "Removed income %s: %s from %s\n", rec.ID, b.Format(rec.Amount), rec.Source)
			}
			return err
		})
	case "expense":
		return mutate(ctx, func(b *budget.Book) error {
			rec, err := b.RemoveExpense(id)
			if err == nil {
				fmt.Fprintf(out, "Removed expense %s: %s %s\n", rec.ID, b.Format(rec.Amount), rec.Description)
			}
			return err
		})
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown kind %q, want income or expense\n", kind)
		return subcommands.ExitUsageError
	}
}
