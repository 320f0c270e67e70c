package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/etnz/budget"
	"github.com/etnz/budget/storage"
	"github.com/google/subcommands"
)

// useTempStore points the global flags to a new store in a temporary
// directory and captures the output.
func useTempStore(t *testing.T, location string) *bytes.Buffer {
	t.Helper()
	oldStore, oldRaw, oldCurrency, oldOut := *storeLocation, *rawMarkdown, *currency, out
	t.Cleanup(func() {
		*storeLocation, *rawMarkdown, *currency, out = oldStore, oldRaw, oldCurrency, oldOut
	})
	*storeLocation = location
	*rawMarkdown = true
	*currency = "USD"
	buf := new(bytes.Buffer)
	out = buf
	return buf
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	f.SetOutput(io.Discard)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: Parse(%q) error = %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func load(t *testing.T) *budget.Snapshot {
	t.Helper()
	store, err := storage.Open(context.Background(), *storeLocation, "")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	s, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func TestCommands_Scenario(t *testing.T) {
	for _, location := range []string{"budget.jsonl", "sqlite:budget.db"} {
		t.Run(location, func(t *testing.T) {
			dir := t.TempDir()
			if rest, ok := strings.CutPrefix(location, "sqlite:"); ok {
				location = "sqlite:" + filepath.Join(dir, rest)
			} else {
				location = filepath.Join(dir, location)
			}
			buf := useTempStore(t, location)

			steps := []struct {
				cmd  subcommands.Command
				args []string
				want subcommands.ExitStatus
			}{
				{&depositCmd{}, []string{"50,000"}, subcommands.ExitSuccess},
				{&incomeCmd{}, []string{"-source", "Salary", "-d", "2025-09-28", "1,000,000"}, subcommands.ExitSuccess},
				{&expenseCmd{}, []string{"-c", "needs", "-desc", "Groceries", "-d", "2025-10-06", "45000"}, subcommands.ExitSuccess},
				{&expenseCmd{}, []string{"-c", "fun", "10"}, subcommands.ExitUsageError},
				{&goalCmd{}, []string{"-name", "Gym", "-type", "mid", "-target", "300000", "-alloc", "50000"}, subcommands.ExitSuccess},
				{&goalCmd{}, []string{"-name", "Car", "-type", "long", "-target", "9000000", "-alloc", "9000000"}, subcommands.ExitFailure},
				{&incomesCmd{}, []string{"-p", "all"}, subcommands.ExitSuccess},
				{&expensesCmd{}, nil, subcommands.ExitSuccess},
				{&goalsCmd{}, nil, subcommands.ExitSuccess},
				{&summaryCmd{}, nil, subcommands.ExitSuccess},
				{&trendCmd{}, []string{"-w", "all"}, subcommands.ExitSuccess},
				{&trendCmd{}, []string{"-w", "2W"}, subcommands.ExitUsageError},
				{&removeCmd{}, []string{"income", "nope"}, subcommands.ExitFailure},
				{&removeCmd{}, []string{"budget", "x"}, subcommands.ExitUsageError},
			}
			for _, s := range steps {
				if got := run(t, s.cmd, s.args...); got != s.want {
					t.Fatalf("%s %q = %v, want %v\n%s", s.cmd.Name(), s.args, got, s.want, buf)
				}
			}

			for _, want := range []string{
				"Savings pool: $500.00",      // deposit
				"Savings pool: $2,500.00",    // income
				"| Salary | $10,000.00 |",    // incomes
				"| Groceries | $450.00 |",    // expenses
				"| Gym | Mid Term | $500.00", // goals
				"# Summary (all)",
				"# Growth (All, by year)",
			} {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, buf)
				}
			}

			s := load(t)
			if s.Pool != 200_000 || len(s.Incomes) != 1 || len(s.Expenses) != 1 || len(s.Goals) != 1 {
				t.Errorf("stored snapshot = %+v, want pool 200000 and one of each record", s)
			}
		})
	}
}

func TestGoalUpdate(t *testing.T) {
	buf := useTempStore(t, filepath.Join(t.TempDir(), "budget.jsonl"))
	run(t, &depositCmd{}, "100000")
	run(t, &goalCmd{}, "-name", "Trip", "-type", "short", "-target", "60000", "-alloc", "10000")
	id := load(t).Goals[0].ID

	if got := run(t, &goalUpdateCmd{}, "-add", "80000", "-desc", "Zanzibar", id); got != subcommands.ExitSuccess {
		t.Fatalf("goal-update = %v, want success\n%s", got, buf)
	}
	g := load(t).Goals[0]
	if g.Saved != 60_000 || g.Description != "Zanzibar" || g.Name != "Trip" {
		t.Errorf("goal after update = %+v, want saved 60000, description Zanzibar, name kept", g)
	}
	if !strings.Contains(buf.String(), "stays in the pool") {
		t.Errorf("goal-update did not report the capped allocation:\n%s", buf)
	}

	// Lowering the target releases the excess.
	run(t, &goalUpdateCmd{}, "-target", "40000", id)
	if s := load(t); s.Goals[0].Saved != 40_000 || s.Pool != 60_000 {
		t.Errorf("after lowering the target: saved %d pool %d, want 40000 and 60000", s.Goals[0].Saved, s.Pool)
	}

	if got := run(t, &goalDeleteCmd{}, id); got != subcommands.ExitSuccess {
		t.Fatalf("goal-delete = %v, want success", got)
	}
	if s := load(t); len(s.Goals) != 0 || s.Pool != 100_000 {
		t.Errorf("after delete: %d goals pool %d, want 0 and 100000", len(s.Goals), s.Pool)
	}
}

func TestSplit(t *testing.T) {
	buf := useTempStore(t, filepath.Join(t.TempDir(), "budget.jsonl"))
	if got := run(t, &splitCmd{}, "1,000,000"); got != subcommands.ExitSuccess {
		t.Fatalf("split = %v, want success", got)
	}
	want := "Needs    $5,000.00\nWants    $3,000.00\nSavings  $2,000.00\n"
	if buf.String() != want {
		t.Errorf("split output = %q, want %q", buf, want)
	}
	if got := run(t, &splitCmd{}, "--", "-5"); got != subcommands.ExitUsageError {
		t.Errorf("split -5 = %v, want usage error", got)
	}
}

func TestQuery(t *testing.T) {
	s := &budget.Snapshot{
		Currency: "UGX",
		Pool:     50_000,
		Expenses: []budget.ExpenseRecord{
			{ID: "e2", Category: budget.Wants, Description: "Cinema", Amount: 30_000, Date: budget.NewDate(2025, 10, 7)},
			{ID: "e1", Category: budget.Needs, Description: "Rent", Amount: 500_000, Date: budget.NewDate(2025, 10, 1)},
		},
	}
	testCases := []struct {
		path string
		want any
	}{
		{"$.pool", 50_000.0},
		{"$.currency", "UGX"},
		{"$.expenses[0].description", "Cinema"},
		{`$.expenses[?(@.category == "Needs")].amount`, []any{500_000.0}},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := query(s, tc.path)
			if err != nil {
				t.Fatalf("query(%q) error = %v", tc.path, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("query(%q) = %#v, want %#v", tc.path, got, tc.want)
			}
		})
	}
	if _, err := query(s, "$.["); err == nil {
		t.Errorf("query of an invalid expression error = nil, want an error")
	}
}

func TestTopic(t *testing.T) {
	buf := useTempStore(t, filepath.Join(t.TempDir(), "budget.jsonl"))
	if got := run(t, &topicCmd{}, "goals"); got != subcommands.ExitSuccess {
		t.Fatalf("topic goals = %v, want success", got)
	}
	if !strings.HasPrefix(buf.String(), "# Goals") {
		t.Errorf("topic goals output starts with %q, want the goals topic", buf.String()[:min(buf.Len(), 20)])
	}
	if got := run(t, &topicCmd{}, "nope"); got != subcommands.ExitFailure {
		t.Errorf("topic nope = %v, want failure", got)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, cmd := range Commands {
		if _, ok := c.Sub[cmd.Name()]; !ok {
			t.Errorf("Completion() has no %q subcommand", cmd.Name())
		}
	}
	if got := c.Sub["expense"].Flags["c"].Predict(""); !reflect.DeepEqual(got, []string{"Needs", "Wants", "Savings"}) {
		t.Errorf("expense -c predicts %v, want the categories", got)
	}
}
