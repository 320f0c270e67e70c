package budget

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity.
//
// The zero Date means "no date" (e.g. a goal without deadline).
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its ISO form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return d.y == 0 && d.m == 0 && d.d == 0
}

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according to the layout defined by the argument.
//
//	See the documentation for the [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// AddMonth returns the first day of the month i months away from d.
//
// Landing on the first day avoids the overflow of month ends (March 31 minus
// one month is not February 31).
func (d Date) AddMonth(i int) Date { return NewDate(d.y, d.m+time.Month(i), 1) }

// StartOf returns the first day of the period containing d. Weeks start on
// Monday.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		// days since Monday, Sunday being 6.
		return d.Add(-((int(d.time().Weekday()) + 6) % 7))
	case Monthly:
		return NewDate(d.y, d.m, 1)
	case Yearly:
		return NewDate(d.y, time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(period Period) Date {
	start := d.StartOf(period)
	switch period {
	case Weekly:
		return start.Add(6)
	case Monthly:
		return NewDate(start.y, start.m+1, 0)
	case Yearly:
		return NewDate(start.y, time.December, 31)
	default:
		return start
	}
}

var (
	offsetRE   = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)
	monthDayRE = regexp.MustCompile(`^(?:(\d{1,2})-)?(\d{1,2})$`)
)

// ParseDate parses a date typed on the command line, relative to Today.
//
// It accepts ISO dates with optional leading zeros ("2025-7-1"), "0d" for
// today, signed offsets ("-1d", "+2w", "-3m", "+1y"), a day of the current
// month ("27") and a month and day of the current year ("9-27").
func ParseDate(str string) (Date, error) {
	return parseDateAt(strings.TrimSpace(str), Today())
}

func parseDateAt(str string, today Date) (Date, error) {
	if str == "0d" {
		return today, nil
	}
	if m := offsetRE.FindStringSubmatch(str); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid offset in date %q: %w", str, err)
		}
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "w":
			return today.Add(7 * n), nil
		case "m":
			return NewDate(today.Year(), today.Month()+time.Month(n), today.Day()), nil
		case "y":
			return NewDate(today.Year()+n, today.Month(), today.Day()), nil
		default:
			return today.Add(n), nil
		}
	}
	if m := monthDayRE.FindStringSubmatch(str); m != nil {
		month := today.Month()
		if m[1] != "" {
			n, _ := strconv.Atoi(m[1])
			month = time.Month(n)
		}
		day, _ := strconv.Atoi(m[2])
		if month < time.January || month > time.December || day < 1 || day > 31 {
			return Date{}, fmt.Errorf("invalid day of year %q", str)
		}
		return NewDate(today.Year(), month, day), nil
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Date{}
		return nil
	}
	// Keep this parsing strict, as it's for data files.
	// But not too strict, also supports 2025-7-1
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, DateFormat, err)
	}
	*j = NewDate(on.Date())
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
