package budget

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// defaultIncomeSource names an income recorded without source.
const defaultIncomeSource = "Income"

// Ledger holds the income and expense records.
//
// In a Ledger records are always most recent first, in the order they were
// recorded. A Ledger is not safe for concurrent use, the Book serializes the
// access to it.
type Ledger struct {
	incomes  []IncomeRecord
	expenses []ExpenseRecord

	newID func() string
	today func() Date
}

// NewLedger creates an empty ledger using random UUIDs and the system clock.
func NewLedger() *Ledger {
	return &Ledger{newID: uuid.NewString, today: Today}
}

// RecordIncome appends a new income at the front of the ledger.
//
// A blank source defaults to "Income" and a zero date to today.
func (l *Ledger) RecordIncome(source string, amount Amount, on Date, notes string) (IncomeRecord, error) {
	if err := positive("amount", amount); err != nil {
		return IncomeRecord{}, err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultIncomeSource
	}
	if on.IsZero() {
		on = l.today()
	}
	r := IncomeRecord{ID: l.newID(), Source: source, Amount: amount, Date: on, Notes: notes}
	l.incomes = slices.Insert(l.incomes, 0, r)
	return r, nil
}

// RecordExpense appends a new expense at the front of the ledger.
func (l *Ledger) RecordExpense(category Category, description string, amount Amount, notes string, on Date) (ExpenseRecord, error) {
	if !category.Valid() {
		return ExpenseRecord{}, &ValidationError{Field: "category", Reason: string(category) + " is not one of Needs, Wants, Savings"}
	}
	if err := positive("amount", amount); err != nil {
		return ExpenseRecord{}, err
	}
	if on.IsZero() {
		on = l.today()
	}
	r := ExpenseRecord{ID: l.newID(), Category: category, Description: description, Amount: amount, Notes: notes, Date: on}
	l.expenses = slices.Insert(l.expenses, 0, r)
	return r, nil
}

// RemoveIncome removes the income with this id and returns it.
func (l *Ledger) RemoveIncome(id string) (IncomeRecord, error) {
	i := slices.IndexFunc(l.incomes, func(r IncomeRecord) bool { return r.ID == id })
	if i < 0 {
		return IncomeRecord{}, &NotFoundError{Kind: "income", ID: id}
	}
	r := l.incomes[i]
	l.incomes = slices.Delete(l.incomes, i, i+1)
	return r, nil
}

// RemoveExpense removes the expense with this id and returns it.
func (l *Ledger) RemoveExpense(id string) (ExpenseRecord, error) {
	i := slices.IndexFunc(l.expenses, func(r ExpenseRecord) bool { return r.ID == id })
	if i < 0 {
		return ExpenseRecord{}, &NotFoundError{Kind: "expense", ID: id}
	}
	r := l.expenses[i]
	l.expenses = slices.Delete(l.expenses, i, i+1)
	return r, nil
}

// Income returns the income with this id.
func (l *Ledger) Income(id string) (IncomeRecord, bool) {
	i := slices.IndexFunc(l.incomes, func(r IncomeRecord) bool { return r.ID == id })
	if i < 0 {
		return IncomeRecord{}, false
	}
	return l.incomes[i], true
}

// Expense returns the expense with this id.
func (l *Ledger) Expense(id string) (ExpenseRecord, bool) {
	i := slices.IndexFunc(l.expenses, func(r ExpenseRecord) bool { return r.ID == id })
	if i < 0 {
		return ExpenseRecord{}, false
	}
	return l.expenses[i], true
}

// Incomes returns a copy of the incomes, most recent first.
func (l *Ledger) Incomes() []IncomeRecord { return slices.Clone(l.incomes) }

// Expenses returns a copy of the expenses, most recent first.
func (l *Ledger) Expenses() []ExpenseRecord { return slices.Clone(l.expenses) }

// FilterByPeriod returns the records accepted by the filter, in their
// original order. The result is always a new slice.
func FilterByPeriod[R Dated](records []R, filter PeriodFilter, today Date) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if filter.Accept(r.When(), today) {
			out = append(out, r)
		}
	}
	return out
}

// TotalIncome sums the amounts of the incomes.
func TotalIncome(incomes []IncomeRecord) Amount {
	var total Amount
	for _, r := range incomes {
		total += r.Amount
	}
	return total
}

// TotalExpenses sums the amounts of the expenses.
func TotalExpenses(expenses []ExpenseRecord) Amount {
	var total Amount
	for _, r := range expenses {
		total += r.Amount
	}
	return total
}
