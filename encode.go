package budget

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kinds of the lines of an encoded snapshot.
const (
	kindBook    = "book"
	kindIncome  = "income"
	kindExpense = "expense"
	kindGoal    = "goal"
)

// MarshalJSON writes the income fields in a fixed order, omitting empty notes.
func (r IncomeRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("date", r.Date)
	w.Append("source", r.Source)
	w.Append("amount", r.Amount)
	w.Optional("notes", r.Notes)
	return w.MarshalJSON()
}

// MarshalJSON writes the expense fields in a fixed order, omitting empty notes.
func (r ExpenseRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("date", r.Date)
	w.Append("category", r.Category)
	w.Append("description", r.Description)
	w.Append("amount", r.Amount)
	w.Optional("notes", r.Notes)
	return w.MarshalJSON()
}

// MarshalJSON writes the goal fields in a fixed order, omitting the missing
// deadline and description.
func (g Goal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", g.ID)
	w.Append("name", g.Name)
	w.Append("type", g.Type)
	w.Append("target", g.Target)
	w.Append("saved", g.Saved)
	w.Optional("deadline", g.Deadline)
	w.Optional("description", g.Description)
	return w.MarshalJSON()
}

// MarshalJSON writes the snapshot as a single JSON document.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", s.Currency)
	w.Append("pool", s.Pool)
	w.Append("incomes", cloneOrEmpty(s.Incomes))
	w.Append("expenses", cloneOrEmpty(s.Expenses))
	w.Append("goals", cloneOrEmpty(s.Goals))
	return w.MarshalJSON()
}

// encodeLine writes one JSONL line made of the kind followed by the fields of v.
func encodeLine(w io.Writer, kind string, v any) error {
	var o jsonObjectWriter
	o.Append("kind", kind)
	o.Merge(v)
	line, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// EncodeSnapshot persists a snapshot to an io.Writer in JSONL format: a
// "book" line with the currency and pool balance, then one line per income,
// expense and goal, in the snapshot order.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	head := struct {
		Currency string `json:"currency"`
		Pool     Amount `json:"pool"`
	}{s.Currency, s.Pool}
	if err := encodeLine(w, kindBook, head); err != nil {
		return err
	}
	for _, r := range s.Incomes {
		if err := encodeLine(w, kindIncome, r); err != nil {
			return err
		}
	}
	for _, r := range s.Expenses {
		if err := encodeLine(w, kindExpense, r); err != nil {
			return err
		}
	}
	for _, g := range s.Goals {
		if err := encodeLine(w, kindGoal, g); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSnapshot decodes a snapshot from a stream of JSONL data, and checks
// its invariants.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var hasBook bool
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify kind on line %d %q: %w", n, string(line), err)
		}

		var err error
		switch identifier.Kind {
		case kindBook:
			if hasBook {
				err = errors.New("duplicate book line")
				break
			}
			hasBook = true
			var temp struct {
				Currency string `json:"currency"`
				Pool     Amount `json:"pool"`
			}
			err = json.Unmarshal(line, &temp)
			s.Currency, s.Pool = temp.Currency, temp.Pool
		case kindIncome:
			var temp struct {
				ID     string `json:"id"`
				Source string `json:"source"`
				Amount Amount `json:"amount"`
				Date   Date   `json:"date"`
				Notes  string `json:"notes"`
			}
			err = json.Unmarshal(line, &temp)
			s.Incomes = append(s.Incomes, IncomeRecord(temp))
		case kindExpense:
			var temp struct {
				ID          string   `json:"id"`
				Date        Date     `json:"date"`
				Category    Category `json:"category"`
				Description string   `json:"description"`
				Amount      Amount   `json:"amount"`
				Notes       string   `json:"notes"`
			}
			err = json.Unmarshal(line, &temp)
			s.Expenses = append(s.Expenses, ExpenseRecord{
				ID:          temp.ID,
				Category:    temp.Category,
				Description: temp.Description,
				Amount:      temp.Amount,
				Notes:       temp.Notes,
				Date:        temp.Date,
			})
		case kindGoal:
			var temp struct {
				ID          string   `json:"id"`
				Name        string   `json:"name"`
				Type        GoalType `json:"type"`
				Target      Amount   `json:"target"`
				Saved       Amount   `json:"saved"`
				Deadline    Date     `json:"deadline"`
				Description string   `json:"description"`
			}
			err = json.Unmarshal(line, &temp)
			s.Goals = append(s.Goals, Goal(temp))
		default:
			err = fmt.Errorf("unknown kind %q", identifier.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return s, nil
}
