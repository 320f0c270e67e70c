package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type goalCmd struct {
	name        string
	typ         string
	target      string
	deadline    string
	description string
	allocation  string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "create a savings goal" }
func (*goalCmd) Usage() string {
	return `bgt goal -name <name> -type <short|mid|long> -target <amount> [-alloc <amount>] [-deadline <date>] [-desc <text>]

  Creates a goal and funds it from the savings pool. The allocation is
  capped at the target, the part above it stays in the pool.

Usage Examples:
$ bgt goal -name Laptop -type short -target 2,000,000 -alloc 100,000
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the goal.")
	f.StringVar(&c.typ, "type", "", "Type of the goal: short, mid or long (term).")
	f.StringVar(&c.target, "target", "", "Amount to save.")
	f.StringVar(&c.deadline, "deadline", "", "Optional deadline.")
	f.StringVar(&c.description, "desc", "", "Optional description.")
	f.StringVar(&c.allocation, "alloc", "0", "Amount to move from the savings pool to the goal.")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := budget.ParseGoalType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	target, err := budget.ParseAmount(c.target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing target: %v\n", err)
		return subcommands.ExitUsageError
	}
	allocation, err := budget.ParseAmount(c.allocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing allocation: %v\n", err)
		return subcommands.ExitUsageError
	}
	deadline, err := parseOptionalDate(c.deadline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing deadline: %v\n", err)
		return subcommands.ExitUsageError
	}
	spec := budget.GoalSpec{Name: c.name, Type: typ, Target: target, Deadline: deadline, Description: c.description}

	return mutate(ctx, func(b *budget.Book) error {
		g, alloc, err := b.CreateGoal(spec, allocation)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created goal %s %q: %s of %s (%d%%)\n", g.ID, g.Name, b.Format(g.Saved), b.Format(g.Target), g.Progress())
		printAllocation(b, alloc)
		return nil
	})
}

func printAllocation(b *budget.Book, a budget.Allocation) {
	if a.Capped() {
		fmt.Fprintf(out, "Only %s of %s was needed, %s stays in the pool.\n",
			b.Format(a.Committed), b.Format(a.Requested), b.Format(a.Remainder()))
	}
	fmt.Fprintf(out, "Savings pool: %s\n", b.Format(b.Balance()))
}

type goalUpdateCmd struct {
	goalCmd
	add string
}

func (*goalUpdateCmd) Name() string     { return "goal-update" }
func (*goalUpdateCmd) Synopsis() string { return "edit a goal or add savings to it" }
func (*goalUpdateCmd) Usage() string {
	return `bgt goal-update [-name <name>] [-type <type>] [-target <amount>] [-deadline <date>] [-desc <text>] [-add <amount>] <id>

  Updates the given fields of a goal, then moves -add from the savings pool
  to the goal, capped at what the goal still needs. Lowering the target
  below the saved amount gives the excess back to the pool.
`
}

func (c *goalUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.typ, "type", "", "New type: short, mid or long (term).")
	f.StringVar(&c.target, "target", "", "New target.")
	f.StringVar(&c.deadline, "deadline", "", "New deadline.")
	f.StringVar(&c.description, "desc", "", "New description.")
	f.StringVar(&c.add, "add", "0", "Amount to move from the savings pool to the goal.")
}

func (c *goalUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected the goal id")
		return subcommands.ExitUsageError
	}
	u, err := c.update(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	add, err := budget.ParseAmount(c.add)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -add: %v\n", err)
		return subcommands.ExitUsageError
	}

	return mutate(ctx, func(b *budget.Book) error {
		g, alloc, err := b.UpdateGoal(f.Arg(0), u, add)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated goal %s %q: %s of %s (%d%%)\n", g.ID, g.Name, b.Format(g.Saved), b.Format(g.Target), g.Progress())
		printAllocation(b, alloc)
		return nil
	})
}

// update builds the update from the flags actually set on the command line.
func (c *goalUpdateCmd) update(f *flag.FlagSet) (u budget.GoalUpdate, err error) {
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			u.Name = &c.name
		case "desc":
			u.Description = &c.description
		case "type":
			var t budget.GoalType
			if t, err = budget.ParseGoalType(c.typ); err == nil {
				u.Type = &t
			}
		case "target":
			var a budget.Amount
			if a, err = budget.ParseAmount(c.target); err == nil {
				u.Target = &a
			}
		case "deadline":
			var d budget.Date
			if d, err = parseOptionalDate(c.deadline); err == nil {
				u.Deadline = &d
			}
		}
	})
	return u, err
}

type goalDeleteCmd struct{}

func (*goalDeleteCmd) Name() string     { return "goal-delete" }
func (*goalDeleteCmd) Synopsis() string { return "delete a goal and release its savings" }
func (*goalDeleteCmd) Usage() string {
	return `bgt goal-delete <id>

  Deletes a goal. Its saved amount goes back to the savings pool.
`
}

func (*goalDeleteCmd) SetFlags(f *flag.FlagSet) {}

func (*goalDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected the goal id")
		return subcommands.ExitUsageError
	}
	return mutate(ctx, func(b *budget.Book) error {
		released, err := b.DeleteGoal(f.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted goal %s, released %s. Savings pool: %s\n", f.Arg(0), b.Format(released), b.Format(b.Balance()))
		return nil
	})
}
