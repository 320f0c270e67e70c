package budget

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of a book that does not declare one.
const DefaultCurrency = "UGX"

// Amount is a monetary value in minor currency units.
//
// The currency is a property of the Book, not of the Amount.
type Amount int64

// Decimal returns the amount as a decimal in minor units.
func (a Amount) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(a)) }

// Format returns the amount formatted in the given currency (e.g. "USh50,000").
func (a Amount) Format(currency string) string {
	return money.New(int64(a), currency).Display()
}

// SignedFormat is like Format but prefixes positive amounts with a "+".
// Zero is represented as "-".
func (a Amount) SignedFormat(currency string) string {
	switch {
	case a == 0:
		return "-"
	case a > 0:
		return "+" + a.Format(currency)
	default:
		return a.Format(currency)
	}
}

// ParseAmount parses an amount expressed in minor units. Thousand separators
// ("," "_" or " ") are accepted: "2,000,000".
func ParseAmount(s string) (Amount, error) {
	clean := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: must be a whole number of minor units", s)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return Amount(d.IntPart()), nil
}

// ValidCurrency returns an error if code is not a known ISO currency code.
func ValidCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}
