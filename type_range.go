package budget

import (
	"fmt"
	"iter"
)

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the range between two dates, in any order.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains reports whether day falls in the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// Periods iterates over the whole periods of kind p overlapping the range,
// oldest first. The first and last may extend beyond the range.
func (r Range) Periods(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for day := r.From; !day.After(r.To); {
			period := p.Range(day)
			if !yield(period) {
				return
			}
			day = period.To.Add(1)
		}
	}
}

// Label names the period of kind p starting the range: "2025-W05" (ISO
// week), "2025-10", "2025" or the ISO date for a day.
func (r Range) Label(p Period) string {
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
