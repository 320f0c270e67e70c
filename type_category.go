package budget

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the fixed three-way budget classification of an expense.
type Category string

const (
	Needs   Category = "Needs"
	Wants   Category = "Wants"
	Savings Category = "Savings"
)

// Categories lists every valid category, in display order.
var Categories = []Category{Needs, Wants, Savings}

// Valid reports whether c is one of Needs, Wants or Savings.
func (c Category) Valid() bool {
	switch c {
	case Needs, Wants, Savings:
		return true
	}
	return false
}

// ParseCategory parses a category name, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of Needs, Wants, Savings", s)}
}

// GoalType is the horizon of a savings goal.
type GoalType int

const (
	ShortTerm GoalType = iota + 1
	MidTerm
	LongTerm
)

func (t GoalType) String() string {
	switch t {
	case ShortTerm:
		return "Short Term"
	case MidTerm:
		return "Mid Term"
	case LongTerm:
		return "Long Term"
	default:
		return fmt.Sprintf("GoalType(%d)", int(t))
	}
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool { return t >= ShortTerm && t <= LongTerm }

// ParseGoalType accepts "short", "short-term", "Short Term", "ShortTerm" and
// the same variants for mid and long.
func ParseGoalType(s string) (GoalType, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
	switch key {
	case "short", "shortterm":
		return ShortTerm, nil
	case "mid", "midterm", "medium", "mediumterm":
		return MidTerm, nil
	case "long", "longterm":
		return LongTerm, nil
	default:
		return 0, &ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not one of Short Term, Mid Term, Long Term", s)}
	}
}

func (t GoalType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid goal type %d", int(t))
	}
	return json.Marshal(t.String())
}

func (t *GoalType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseGoalType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
