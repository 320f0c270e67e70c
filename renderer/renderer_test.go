package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/etnz/budget"
)

func testBook(t *testing.T) *budget.Book {
	t.Helper()
	n := 0
	b, err := budget.NewBook(
		budget.WithCurrency("USD"),
		budget.WithClock(func() budget.Date { return budget.NewDate(2025, 10, 19) }),
		budget.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err = b.RecordIncome("Salary", 100_000, budget.NewDate(2025, 9, 28), "")
	must(err)
	_, err = b.RecordIncome("Bonus", 20_000, budget.NewDate(2025, 10, 2), "Q3")
	must(err)
	_, err = b.RecordExpense(budget.Needs, "Groceries", 4_500, "", budget.NewDate(2025, 10, 6))
	must(err)
	_, _, err = b.CreateGoal(budget.GoalSpec{Name: "Laptop", Type: budget.ShortTerm, Target: 10_000}, 10_000)
	must(err)
	_, _, err = b.CreateGoal(budget.GoalSpec{Name: "Gym", Type: budget.MidTerm, Target: 30_000}, 5_000)
	must(err)
	return b
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func TestRenderIncomes(t *testing.T) {
	b := testBook(t)
	got := RenderIncomes(NewIncomeReport(b, budget.AllPeriods))
	assertContains(t, got,
		"# Incomes (all)",
		"| 2025-10-02 | Bonus | $200.00 | Q3 |",
		"| 2025-09-28 | Salary | $1,000.00 |  |",
		"**Total**: $1,200.00",
		"## Split of Bonus on 2025-10-02",
		"| Needs | 50% | $100.00 |",
		"| Wants | 30% | $60.00 |",
		"| Savings | 20% | $40.00 |",
	)

	got = RenderIncomes(NewIncomeReport(b, budget.LastMonth))
	assertContains(t, got, "# Incomes (last-month)", "## Split of Salary on 2025-09-28")
}

func TestRenderIncomes_Empty(t *testing.T) {
	b, _ := budget.NewBook(budget.WithCurrency("USD"))
	got := RenderIncomes(NewIncomeReport(b, budget.AllPeriods))
	assertContains(t, got, "_No income recorded._")
	if strings.Contains(got, "Split") {
		t.Errorf("RenderIncomes() of an empty book has a split:\n%s", got)
	}
}

func TestRenderExpenses(t *testing.T) {
	got := RenderExpenses(NewExpenseReport(testBook(t), budget.ThisMonth))
	assertContains(t, got,
		"# Expenses (this-month)",
		"| 2025-10-06 | Needs | Groceries | $45.00 |",
		"**Total**: $45.00",
		"| Wants | $0.00 |",
	)
}

func TestRenderGoals(t *testing.T) {
	got := RenderGoals(NewGoalReport(testBook(t)))
	// Pool: 20% of both incomes, minus the goal allocations.
	assertContains(t, got,
		"Available in the savings pool: **$90.00**",
		"| Gym | Mid Term | $50.00 | $300.00 | █░░░░░░░░░ 17% |  |",
		"| Laptop | Short Term | $100.00 | $100.00 | ██████████ 100% |  |",
		"- Completed: 1",
		"- Active: 1",
		"- Not started: 0",
		"- Total from completed goals: $100.00",
	)
}

func TestRenderSummary(t *testing.T) {
	got := RenderSummary(NewSummary(testBook(t), budget.AllPeriods))
	assertContains(t, got,
		"# Summary (all)",
		"| Total income | $1,200.00 |",
		"| Total expenses | $45.00 |",
		"| Remaining | +$1,155.00 |",
		"| Needs | $600.00 | $45.00 | +$555.00 |",
		"| Wants | $360.00 | $0.00 | +$360.00 |",
		"| 2025-09 | $1,000.00 | $0.00 | +$1,000.00 |",
		"| 2025-10 | $200.00 | $45.00 | +$155.00 |",
	)
}

func TestRenderTrend(t *testing.T) {
	got := RenderTrend(NewTrend(testBook(t), budget.OneYear))
	assertContains(t, got,
		"# Growth (1Y, by month)",
		"| 2025-09 | $1,000.00 |",
		"| 2025-10 | $1,155.00 |",
	)
}

func TestToHTML(t *testing.T) {
	html, err := ToHTML(RenderSummary(NewSummary(testBook(t), budget.AllPeriods)))
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	assertContains(t, html, "<h1>Summary (all)</h1>", "<table>", "Total income</td>")
}

func TestProgressBar(t *testing.T) {
	testCases := []struct {
		in   int
		want string
	}{
		{-5, "░░░░░░░░░░"},
		{0, "░░░░░░░░░░"},
		{17, "█░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
		{150, "██████████"},
	}
	for _, tc := range testCases {
		if got := progressBar(tc.in); got != tc.want {
			t.Errorf("progressBar(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
