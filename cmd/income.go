package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type incomeCmd struct {
	source string
	date   string
	notes  string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record a received income" }
func (*incomeCmd) Usage() string {
	return `bgt income [-source <source>] [-d <date>] [-notes <notes>] <amount>

  Records an income. Its Savings share (20%) is deposited in the savings pool.

Usage Examples:
$ bgt income -source Salary 1,000,000
$ bgt income -source Bonus -d 2025-10-02 100000
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Source of the income. Defaults to \"Income\".")
	f.StringVar(&c.date, "d", "", "Date of the income. Defaults to today. See the user manual for supported date formats.")
	f.StringVar(&c.notes, "notes", "", "Free notes.")
}

func (c *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		rec, err := b.RecordIncome(c.source, amount, on, c.notes)
		if err != nil {
			return err
		}
		split := budget.SplitIncome(rec.Amount)
		fmt.Fprintf(out, "Recorded income %s: %s from %s on %s\n", rec.ID, b.Format(rec.Amount), rec.Source, rec.Date)
		fmt.Fprintf(out, "Needs %s, Wants %s, Savings %s. Savings pool: %s\n",
			b.Format(split.Needs), b.Format(split.Wants), b.Format(split.Savings), b.Format(b.Balance()))
		return nil
	})
}
