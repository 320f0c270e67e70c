package renderer

import "github.com/etnz/budget"

// IncomeReport lists the incomes of a period and the split of the latest one.
type IncomeReport struct {
	Currency string
	Filter   string
	Incomes  []budget.IncomeRecord
	Total    budget.Amount
	// Latest is the most recent income of the period, nil if none.
	Latest *budget.IncomeRecord
	Split  budget.Split
}

// NewIncomeReport builds the income report of b for the period filter.
func NewIncomeReport(b *budget.Book, filter budget.PeriodFilter) *IncomeReport {
	incomes := b.Incomes(filter)
	r := &IncomeReport{
		Currency: b.Currency(),
		Filter:   filter.String(),
		Incomes:  incomes,
		Total:    budget.TotalIncome(incomes),
	}
	if len(incomes) > 0 {
		r.Latest = &incomes[0]
		r.Split = budget.SplitIncome(incomes[0].Amount)
	}
	return r
}

// ExpenseReport lists the expenses of a period with their category totals.
type ExpenseReport struct {
	Currency   string
	Filter     string
	Expenses   []budget.ExpenseRecord
	Total      budget.Amount
	Categories []CategoryLine
}

// CategoryLine is one row of a per category table.
type CategoryLine struct {
	Category  budget.Category
	Allocated budget.Amount
	Spent     budget.Amount
	Remaining budget.Amount
}

// NewExpenseReport builds the expense report of b for the period filter.
func NewExpenseReport(b *budget.Book, filter budget.PeriodFilter) *ExpenseReport {
	expenses := b.Expenses(filter)
	totals := budget.CategoryTotals(expenses)
	r := &ExpenseReport{
		Currency: b.Currency(),
		Filter:   filter.String(),
		Expenses: expenses,
		Total:    budget.TotalExpenses(expenses),
	}
	for _, c := range budget.Categories {
		r.Categories = append(r.Categories, CategoryLine{Category: c, Spent: totals[c]})
	}
	return r
}

// GoalReport lists the goals with their progress.
type GoalReport struct {
	Currency       string
	Pool           budget.Amount
	Goals          []budget.Goal
	Counts         budget.StatusCounts
	CompletedTotal budget.Amount
}

// NewGoalReport builds the goal report of b.
func NewGoalReport(b *budget.Book) *GoalReport {
	goals := b.Goals()
	return &GoalReport{
		Currency:       b.Currency(),
		Pool:           b.Balance(),
		Goals:          goals,
		Counts:         budget.CountStatus(goals),
		CompletedTotal: budget.CompletedTotal(goals),
	}
}

// Summary is the dashboard of a book: overview of a period, monthly totals
// and budget variance.
type Summary struct {
	budget.Overview
	Budget []CategoryLine
	Months []budget.MonthTotal
}

// NewSummary builds the summary of b for the period filter.
func NewSummary(b *budget.Book, filter budget.PeriodFilter) *Summary {
	s := &Summary{Overview: b.Overview(filter), Months: b.MonthlyTotals()}
	for _, c := range budget.Categories {
		v := s.Variance[c]
		s.Budget = append(s.Budget, CategoryLine{Category: c, Allocated: v.Allocated, Spent: v.Spent, Remaining: v.Remaining})
	}
	return s
}

// Trend is the balance growth of a book over a window.
type Trend struct {
	Currency string
	Window   string
	Period   string
	Buckets  []budget.Bucket
}

// NewTrend builds the trend of b over the window w.
func NewTrend(b *budget.Book, w budget.Window) *Trend {
	return &Trend{
		Currency: b.Currency(),
		Window:   w.String(),
		Period:   w.Period().Name(),
		Buckets:  b.Growth(w),
	}
}
