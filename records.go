package budget

// IncomeRecord is a received income.
type IncomeRecord struct {
	ID     string
	Source string
	Amount Amount
	Date   Date
	Notes  string
}

// When returns the date of the income.
func (r IncomeRecord) When() Date { return r.Date }

// ExpenseRecord is a spending classified in a budget Category.
type ExpenseRecord struct {
	ID          string
	Category    Category
	Description string
	Amount      Amount
	Notes       string
	Date        Date
}

// When returns the date of the expense.
func (r ExpenseRecord) When() Date { return r.Date }

// Dated is implemented by every record that can be filtered by period.
type Dated interface {
	When() Date
}

// Split is the division of an income among the budget categories.
type Split struct {
	Needs   Amount
	Wants   Amount
	Savings Amount
}

// Total returns Needs + Wants + Savings.
func (s Split) Total() Amount { return s.Needs + s.Wants + s.Savings }

// Of returns the share of category c.
func (s Split) Of(c Category) Amount {
	switch c {
	case Needs:
		return s.Needs
	case Wants:
		return s.Wants
	case Savings:
		return s.Savings
	}
	return 0
}

// Variance compares the allocated share of a category against what was spent.
type Variance struct {
	Allocated Amount
	Spent     Amount
	Remaining Amount // Allocated - Spent, negative when overspent.
}
