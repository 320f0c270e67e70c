package budget

import "github.com/shopspring/decimal"

// The 50/30/20 rule. Needs gets what is left after rounding.
var (
	wantsRatio   = decimal.New(3, -1)
	savingsRatio = decimal.New(2, -1)
)

// SplitIncome splits an income 50/30/20 into Needs, Wants and Savings.
//
// Wants and Savings are rounded half away from zero to the minor unit and
// Needs takes the residual, so the three shares always sum to amount.
func SplitIncome(amount Amount) Split {
	d := amount.Decimal()
	wants := Amount(d.Mul(wantsRatio).Round(0).IntPart())
	savings := Amount(d.Mul(savingsRatio).Round(0).IntPart())
	return Split{
		Needs:   amount - wants - savings,
		Wants:   wants,
		Savings: savings,
	}
}

// CategoryTotals sums expenses per category. Every category is present in
// the result, with 0 when it has no expense.
func CategoryTotals(expenses []ExpenseRecord) map[Category]Amount {
	totals := make(map[Category]Amount, len(Categories))
	for _, c := range Categories {
		totals[c] = 0
	}
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// BudgetVariance compares the split of income against the actual spending
// per category. Overspending shows as a negative Remaining.
func BudgetVariance(income Amount, expenses []ExpenseRecord) map[Category]Variance {
	split := SplitIncome(income)
	spent := CategoryTotals(expenses)
	variance := make(map[Category]Variance, len(Categories))
	for _, c := range Categories {
		allocated := split.Of(c)
		variance[c] = Variance{
			Allocated: allocated,
			Spent:     spent[c],
			Remaining: allocated - spent[c],
		}
	}
	return variance
}
