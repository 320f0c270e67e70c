package budget

import (
	"fmt"
	"slices"
	"strings"
)

// Window is a trailing time range used to select a suffix of a balance
// series.
type Window int

const (
	OneMonth Window = iota
	ThreeMonths
	SixMonths
	OneYear
	FiveYears
	AllTime
)

// Windows lists every window, shortest first.
var Windows = []Window{OneMonth, ThreeMonths, SixMonths, OneYear, FiveYears, AllTime}

func (w Window) String() string {
	switch w {
	case OneMonth:
		return "1M"
	case ThreeMonths:
		return "3M"
	case SixMonths:
		return "6M"
	case OneYear:
		return "1Y"
	case FiveYears:
		return "5Y"
	case AllTime:
		return "All"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

// ParseWindow parses "1M", "3M", "6M", "1Y", "5Y" or "All", ignoring case.
func ParseWindow(s string) (Window, error) {
	for _, w := range Windows {
		if strings.EqualFold(strings.TrimSpace(s), w.String()) {
			return w, nil
		}
	}
	return 0, &ValidationError{Field: "window", Reason: fmt.Sprintf("%q is not one of 1M, 3M, 6M, 1Y, 5Y, All", s)}
}

// Size returns the number of trailing buckets selected by the window, 0
// meaning the whole series.
func (w Window) Size() int {
	switch w {
	case OneMonth:
		return 5 // weeks touching a month
	case ThreeMonths:
		return 3
	case SixMonths:
		return 6
	case OneYear:
		return 12
	case FiveYears:
		return 5
	default:
		return 0
	}
}

// Period returns the bucket granularity of the series the window applies to.
func (w Window) Period() Period {
	switch w {
	case OneMonth:
		return Weekly
	case ThreeMonths, SixMonths, OneYear:
		return Monthly
	default:
		return Yearly
	}
}

// Bucket is one point of a period series.
type Bucket struct {
	Label   string
	Balance Amount
}

// Bucketize selects the trailing buckets of series according to the window.
// The series is expected oldest first, it is neither mutated nor
// recomputed. The result is always a new slice.
func Bucketize(series []Bucket, w Window) []Bucket {
	n := w.Size()
	if n == 0 || n >= len(series) {
		return slices.Clone(series)
	}
	return slices.Clone(series[len(series)-n:])
}

// netHistory returns the daily net flows: incomes minus expenses.
func netHistory(incomes []IncomeRecord, expenses []ExpenseRecord) *History[Amount] {
	h := new(History[Amount])
	for _, r := range incomes {
		h.AppendAdd(r.Date, r.Amount)
	}
	for _, r := range expenses {
		h.AppendAdd(r.Date, -r.Amount)
	}
	return h
}

// BalanceSeries returns the cumulative balance (income minus expenses) at
// the end of every period from the first record through 'through', oldest
// first. Buckets are labelled "2025-W05", "2025-10" or "2025".
//
// It returns nil when there is no record.
func BalanceSeries(incomes []IncomeRecord, expenses []ExpenseRecord, p Period, through Date) []Bucket {
	net := netHistory(incomes, expenses)
	if net.Len() == 0 {
		return nil
	}
	first, _ := net.Earliest()
	if last, _ := net.Latest(); through.Before(last) {
		through = last
	}
	balance := net.Cumulative()

	var series []Bucket
	for r := range NewRange(first, through).Periods(p) {
		v, _ := balance.ValueAsOf(r.To)
		series = append(series, Bucket{Label: r.Label(p), Balance: v})
	}
	return series
}

// MonthTotal sums the incomes and expenses of a calendar month.
type MonthTotal struct {
	Label    string // "2025-10"
	Income   Amount
	Expenses Amount
}

// Net returns Income - Expenses.
func (m MonthTotal) Net() Amount { return m.Income - m.Expenses }

// MonthlyTotals returns the income and expense totals of every month from
// the first to the last record, oldest first. Months without records are
// present with zero totals.
func MonthlyTotals(incomes []IncomeRecord, expenses []ExpenseRecord) []MonthTotal {
	in, out := new(History[Amount]), new(History[Amount])
	for _, r := range incomes {
		in.AppendAdd(r.Date.StartOf(Monthly), r.Amount)
	}
	for _, r := range expenses {
		out.AppendAdd(r.Date.StartOf(Monthly), r.Amount)
	}
	// net is only used for its date bounds.
	net := netHistory(incomes, expenses)
	if net.Len() == 0 {
		return nil
	}
	first, _ := net.Earliest()
	last, _ := net.Latest()

	var totals []MonthTotal
	for r := range NewRange(first, last).Periods(Monthly) {
		m := MonthTotal{Label: r.Label(Monthly)}
		m.Income, _ = in.Get(r.From)
		m.Expenses, _ = out.Get(r.From)
		totals = append(totals, m)
	}
	return totals
}
