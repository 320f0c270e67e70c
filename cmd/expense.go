package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type expenseCmd struct {
	category    string
	description string
	date        string
	notes       string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense" }
func (*expenseCmd) Usage() string {
	return `bgt expense -c <needs|wants|savings> [-desc <description>] [-d <date>] [-notes <notes>] <amount>

  Records an expense in one of the three budget categories. A Savings
  expense is deposited in the savings pool.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category of the expense: needs, wants or savings.")
	f.StringVar(&c.description, "desc", "", "Description of the expense.")
	f.StringVar(&c.date, "d", "", "Date of the expense. Defaults to today.")
	f.StringVar(&c.notes, "notes", "", "Free notes.")
}

func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	category, err := budget.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := parseAmountArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := parseOptionalDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return mutate(ctx, func(b *budget.Book) error {
		rec, err := b.RecordExpense(category, c.description, amount, c.notes, on)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded %s expense %s: %s on %s\n", rec.Category, rec.ID, b.Format(rec.Amount), rec.Date)
		return nil
	})
}
