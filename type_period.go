package budget

import (
	"fmt"
	"strings"
)

// Period is the granularity of a bucket in a time series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "periodic"
	}
}

// Name returns the singular noun for the period (e.g., "day", "week", "month").
func (p Period) Name() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Yearly:
		return "year"
	default:
		return "period"
	}
}

// Range returns a Range for the given period containing the date d.
func (p Period) Range(d Date) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// PeriodFilter selects records by calendar month relative to today.
type PeriodFilter int

const (
	AllPeriods PeriodFilter = iota
	ThisMonth
	LastMonth
)

func (f PeriodFilter) String() string {
	switch f {
	case ThisMonth:
		return "this-month"
	case LastMonth:
		return "last-month"
	default:
		return "all"
	}
}

// ParsePeriodFilter parses "all", "this" (or "this-month") and "last" (or "last-month").
func ParsePeriodFilter(s string) (PeriodFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllPeriods, nil
	case "this", "this-month", "thismonth":
		return ThisMonth, nil
	case "last", "last-month", "lastmonth":
		return LastMonth, nil
	default:
		return AllPeriods, &ValidationError{Field: "period", Reason: fmt.Sprintf("%q is not one of all, this or last", s)}
	}
}

// Accept reports whether a record dated 'on' passes the filter, today being 'today'.
func (f PeriodFilter) Accept(on, today Date) bool {
	switch f {
	case ThisMonth:
		return Monthly.Range(today).Contains(on)
	case LastMonth:
		return Monthly.Range(today.AddMonth(-1)).Contains(on)
	default:
		return true
	}
}
