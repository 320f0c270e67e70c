package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/etnz/budget/renderer"
	"github.com/google/subcommands"
)

// incomesCmd holds the flags for the 'incomes' subcommand.
type incomesCmd struct {
	period string
}

func (*incomesCmd) Name() string     { return "incomes" }
func (*incomesCmd) Synopsis() string { return "list incomes and the split of the latest one" }
func (*incomesCmd) Usage() string {
	return `bgt incomes [-p all|this|last]

  Lists the incomes of the period, newest first, with the 50/30/20 split of
  the most recent one.
`
}

func (c *incomesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "all", "Period: all, this (month) or last (month).")
}

func (c *incomesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := budget.ParsePeriodFilter(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return view(ctx, func(b *budget.Book) error {
		printMarkdown(renderer.RenderIncomes(renderer.NewIncomeReport(b, filter)))
		return nil
	})
}

// expensesCmd holds the flags for the 'expenses' subcommand.
type expensesCmd struct {
	period string
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list expenses with their category totals" }
func (*expensesCmd) Usage() string {
	return `bgt expenses [-p all|this|last]

  Lists the expenses of the period, newest first, and the total spent in
  each category.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "all", "Period: all, this (month) or last (month).")
}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := budget.ParsePeriodFilter(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return view(ctx, func(b *budget.Book) error {
		printMarkdown(renderer.RenderExpenses(renderer.NewExpenseReport(b, filter)))
		return nil
	})
}

type goalsCmd struct{}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "list goals with their progress" }
func (*goalsCmd) Usage() string {
	return `bgt goals

  Lists the goals, newest first, with their progress and the savings pool.
`
}

func (*goalsCmd) SetFlags(f *flag.FlagSet) {}

func (*goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return view(ctx, func(b *budget.Book) error {
		printMarkdown(renderer.RenderGoals(renderer.NewGoalReport(b)))
		return nil
	})
}

type splitCmd struct{}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "split an amount into needs, wants and savings" }
func (*splitCmd) Usage() string {
	return `bgt split <amount>

  Prints the 50/30/20 split of an amount. Nothing is recorded.
`
}

func (*splitCmd) SetFlags(f *flag.FlagSet) {}

func (*splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmountArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if amount < 0 {
		fmt.Fprintln(os.Stderr, "Error: the amount must not be negative")
		return subcommands.ExitUsageError
	}
	s := budget.SplitIncome(amount)
	for _, c := range budget.Categories {
		fmt.Fprintf(out, "%-8s %s\n", c, s.Of(c).Format(*currency))
	}
	return subcommands.ExitSuccess
}

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
	html   bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the budget dashboard" }
func (*summaryCmd) Usage() string {
	return `bgt summary [-p all|this|last] [-html]

  Displays the totals of the period, the split of the latest income, the
  budget variance per category, the goal status and the monthly totals.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "all", "Period: all, this (month) or last (month).")
	f.BoolVar(&c.html, "html", false, "Print the summary as an HTML fragment.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := budget.ParsePeriodFilter(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return view(ctx, func(b *budget.Book) error {
		md := renderer.RenderSummary(renderer.NewSummary(b, filter))
		if !c.html {
			printMarkdown(md)
			return nil
		}
		html, err := renderer.ToHTML(md)
		if err != nil {
			return err
		}
		fmt.Fprint(out, html)
		return nil
	})
}

// trendCmd holds the flags for the 'trend' subcommand.
type trendCmd struct {
	window string
}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "display the balance growth" }
func (*trendCmd) Usage() string {
	return `bgt trend [-w 1M|3M|6M|1Y|5Y|All]

  Displays the cumulative balance (incomes minus expenses) over the window:
  weekly for 1M, monthly for 3M, 6M and 1Y, yearly beyond.
`
}

func (c *trendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "1Y", "Window: 1M, 3M, 6M, 1Y, 5Y or All.")
}

func (c *trendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := budget.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return view(ctx, func(b *budget.Book) error {
		printMarkdown(renderer.RenderTrend(renderer.NewTrend(b, w)))
		return nil
	})
}
