package budget

import (
	"errors"
	"reflect"
	"testing"
)

func newTestLedger() *Ledger {
	return &Ledger{newID: seqIDs("rec"), today: fixedClock(NewDate(2025, 10, 19))}
}

func TestLedger_RecordIncome(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		amount  Amount
		on      Date
		want    IncomeRecord
		wantErr error
	}{
		{
			name:   "full record",
			source: "Salary", amount: 1_000_000, on: NewDate(2025, 10, 1),
			want: IncomeRecord{ID: "rec-1", Source: "Salary", Amount: 1_000_000, Date: NewDate(2025, 10, 1)},
		},
		{
			name:   "defaults",
			source: "  ", amount: 5_000,
			want: IncomeRecord{ID: "rec-1", Source: "Income", Amount: 5_000, Date: NewDate(2025, 10, 19)},
		},
		{name: "zero amount", source: "Gift", amount: 0, wantErr: ErrValidation},
		{name: "negative amount", source: "Gift", amount: -10, wantErr: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			got, err := l.RecordIncome(tt.source, tt.amount, tt.on, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordIncome() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if n := len(l.Incomes()); n != 0 {
					t.Errorf("len(Incomes()) = %d after a rejected income, want 0", n)
				}
				return
			}
			if got != tt.want {
				t.Errorf("RecordIncome() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLedger_RecordExpense(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		amount   Amount
		wantErr  error
	}{
		{"needs", Needs, 45_000, nil},
		{"savings", Savings, 10_000, nil},
		{"unknown category", Category("Luxury"), 45_000, ErrValidation},
		{"empty category", Category(""), 45_000, ErrValidation},
		{"zero amount", Wants, 0, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			_, err := l.RecordExpense(tt.category, "Groceries", tt.amount, "", Date{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLedger_MostRecentFirst(t *testing.T) {
	l := newTestLedger()
	for _, source := range []string{"a", "b", "c"} {
		if _, err := l.RecordIncome(source, 1, Date{}, ""); err != nil {
			t.Fatalf("RecordIncome(%q) error = %v", source, err)
		}
	}
	var got []string
	for _, r := range l.Incomes() {
		got = append(got, r.Source)
	}
	if want := []string{"c", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Incomes() sources = %v, want %v", got, want)
	}
}

func TestLedger_Remove(t *testing.T) {
	l := newTestLedger()
	in, _ := l.RecordIncome("Salary", 100, Date{}, "")
	ex, _ := l.RecordExpense(Needs, "Rent", 50, "", Date{})

	if _, err := l.RemoveIncome("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveIncome(missing) error = %v, want %v", err, ErrNotFound)
	}
	if _, err := l.RemoveExpense("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveExpense(missing) error = %v, want %v", err, ErrNotFound)
	}
	// an income id is not an expense id.
	if _, err := l.RemoveExpense(in.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveExpense(income id) error = %v, want %v", err, ErrNotFound)
	}

	got, err := l.RemoveIncome(in.ID)
	if err != nil || got != in {
		t.Errorf("RemoveIncome() = %+v, %v, want %+v, nil", got, err, in)
	}
	if _, err := l.RemoveIncome(in.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveIncome() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := l.RemoveExpense(ex.ID); err != nil {
		t.Errorf("RemoveExpense() error = %v", err)
	}
	if len(l.Incomes())+len(l.Expenses()) != 0 {
		t.Errorf("ledger not empty after removing every record")
	}
}

func TestFilterByPeriod(t *testing.T) {
	today := NewDate(2025, 10, 19)
	records := []IncomeRecord{
		{ID: "1", Date: NewDate(2025, 10, 18)},
		{ID: "2", Date: NewDate(2025, 9, 30)},
		{ID: "3", Date: NewDate(2025, 10, 1)},
		{ID: "4", Date: NewDate(2024, 10, 5)},
		{ID: "5", Date: NewDate(2025, 9, 1)},
	}
	ids := func(rs []IncomeRecord) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	tests := []struct {
		filter PeriodFilter
		want   []string
	}{
		{ThisMonth, []string{"1", "3"}},
		{LastMonth, []string{"2", "5"}},
		{AllPeriods, []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			got := FilterByPeriod(records, tt.filter, today)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("FilterByPeriod(%v) = %v, want %v", tt.filter, ids(got), tt.want)
			}
			again := FilterByPeriod(got, tt.filter, today)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("FilterByPeriod is not idempotent for %v: %v then %v", tt.filter, ids(got), ids(again))
			}
		})
	}

	t.Run("all returns a copy", func(t *testing.T) {
		got := FilterByPeriod(records, AllPeriods, today)
		got[0].ID = "changed"
		if records[0].ID != "1" {
			t.Errorf("FilterByPeriod(All) shares its storage with the input")
		}
	})
}

func TestTotals(t *testing.T) {
	incomes := []IncomeRecord{{Amount: 100}, {Amount: 250}}
	expenses := []ExpenseRecord{{Amount: 30}, {Amount: 20}, {Amount: 1}}
	if got := TotalIncome(incomes); got != 350 {
		t.Errorf("TotalIncome() = %d, want 350", got)
	}
	if got := TotalExpenses(expenses); got != 51 {
		t.Errorf("TotalExpenses() = %d, want 51", got)
	}
	if got := TotalIncome(nil); got != 0 {
		t.Errorf("TotalIncome(nil) = %d, want 0", got)
	}
}
