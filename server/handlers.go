package server

import (
	"net/http"

	"github.com/etnz/budget"
	"github.com/etnz/budget/renderer"
	"github.com/go-chi/chi/v5"
)

type balanceView struct {
	Currency  string        `json:"currency"`
	Balance   budget.Amount `json:"balance"`
	Formatted string        `json:"formatted"`
}

func (s *Server) balance() balanceView {
	b := s.book.Balance()
	return balanceView{Currency: s.book.Currency(), Balance: b, Formatted: s.book.Format(b)}
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.balance())
}

type depositRequest struct {
	Amount budget.Amount `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.mutate(r.Context(), func() error { return s.book.Deposit(req.Amount) }); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.balance())
}

// periodFilter reads the "period" query parameter, "all" by default.
func periodFilter(r *http.Request) (budget.PeriodFilter, error) {
	return budget.ParsePeriodFilter(r.URL.Query().Get("period"))
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	filter, err := periodFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.book.Incomes(filter))
}

type incomeRequest struct {
	Source string        `json:"source"`
	Amount budget.Amount `json:"amount"`
	Date   budget.Date   `json:"date"`
	Notes  string        `json:"notes"`
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var rec budget.IncomeRecord
	err := s.mutate(r.Context(), func() (err error) {
		rec, err = s.book.RecordIncome(req.Source, req.Amount, req.Date, req.Notes)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleRemoveIncome(w http.ResponseWriter, r *http.Request) {
	var rec budget.IncomeRecord
	err := s.mutate(r.Context(), func() (err error) {
		rec, err = s.book.RemoveIncome(chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := periodFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.book.Expenses(filter))
}

type expenseRequest struct {
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Amount      budget.Amount `json:"amount"`
	Date        budget.Date   `json:"date"`
	Notes       string        `json:"notes"`
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := budget.ParseCategory(req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	var rec budget.ExpenseRecord
	err = s.mutate(r.Context(), func() (err error) {
		rec, err = s.book.RecordExpense(category, req.Description, req.Amount, req.Notes, req.Date)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	var rec budget.ExpenseRecord
	err := s.mutate(r.Context(), func() (err error) {
		rec, err = s.book.RemoveExpense(chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type goalView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        budget.GoalType `json:"type"`
	Target      budget.Amount   `json:"target"`
	Saved       budget.Amount   `json:"saved"`
	Remaining   budget.Amount   `json:"remaining"`
	Progress    int             `json:"progress"`
	Status      string          `json:"status"`
	Band        string          `json:"band"`
	Deadline    budget.Date     `json:"deadline,omitzero"`
	Description string          `json:"description,omitempty"`
}

func newGoalView(g budget.Goal) goalView {
	return goalView{
		ID:          g.ID,
		Name:        g.Name,
		Type:        g.Type,
		Target:      g.Target,
		Saved:       g.Saved,
		Remaining:   g.Remaining(),
		Progress:    g.Progress(),
		Status:      g.Status().String(),
		Band:        g.Band().String(),
		Deadline:    g.Deadline,
		Description: g.Description,
	}
}

type allocationView struct {
	Requested budget.Amount `json:"requested"`
	Committed budget.Amount `json:"committed"`
	Remainder budget.Amount `json:"remainder"`
}

type goalResult struct {
	Goal       goalView       `json:"goal"`
	Allocation allocationView `json:"allocation"`
}

func newGoalResult(g budget.Goal, a budget.Allocation) goalResult {
	return goalResult{
		Goal:       newGoalView(g),
		Allocation: allocationView{Requested: a.Requested, Committed: a.Committed, Remainder: a.Remainder()},
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.book.Goals()
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, newGoalView(g))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.book.Goal(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalView(g))
}

type createGoalRequest struct {
	Name        string          `json:"name"`
	Type        budget.GoalType `json:"type"`
	Target      budget.Amount   `json:"target"`
	Deadline    budget.Date     `json:"deadline"`
	Description string          `json:"description"`
	Allocation  budget.Amount   `json:"allocation"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	spec := budget.GoalSpec{
		Name:        req.Name,
		Type:        req.Type,
		Target:      req.Target,
		Deadline:    req.Deadline,
		Description: req.Description,
	}
	var res goalResult
	err := s.mutate(r.Context(), func() error {
		g, a, err := s.book.CreateGoal(spec, req.Allocation)
		res = newGoalResult(g, a)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type updateGoalRequest struct {
	Name        *string          `json:"name"`
	Type        *budget.GoalType `json:"type"`
	Target      *budget.Amount   `json:"target"`
	Deadline    *budget.Date     `json:"deadline"`
	Description *string          `json:"description"`
	// Add is the amount to move from the pool to the goal.
	Add budget.Amount `json:"add"`
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req updateGoalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u := budget.GoalUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Target:      req.Target,
		Deadline:    req.Deadline,
		Description: req.Description,
	}
	var res goalResult
	err := s.mutate(r.Context(), func() error {
		g, a, err := s.book.UpdateGoal(chi.URLParam(r, "id"), u, req.Add)
		res = newGoalResult(g, a)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	var released budget.Amount
	err := s.mutate(r.Context(), func() (err error) {
		released, err = s.book.DeleteGoal(chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]budget.Amount{"released": released})
}

type categoryView struct {
	Category  budget.Category `json:"category"`
	Allocated budget.Amount   `json:"allocated"`
	Spent     budget.Amount   `json:"spent"`
	Remaining budget.Amount   `json:"remaining"`
}

type overviewView struct {
	Period         string               `json:"period"`
	Currency       string               `json:"currency"`
	TotalIncome    budget.Amount        `json:"total_income"`
	TotalExpenses  budget.Amount        `json:"total_expenses"`
	Remaining      budget.Amount        `json:"remaining"`
	LatestIncome   *budget.IncomeRecord `json:"latest_income,omitempty"`
	Split          splitView            `json:"split"`
	Categories     []categoryView       `json:"categories"`
	Pool           budget.Amount        `json:"pool"`
	Goals          budget.StatusCounts  `json:"goals"`
	CompletedTotal budget.Amount        `json:"completed_total"`
}

type splitView struct {
	Needs   budget.Amount `json:"needs"`
	Wants   budget.Amount `json:"wants"`
	Savings budget.Amount `json:"savings"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := periodFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o := s.book.Overview(filter)
	v := overviewView{
		Period:         filter.String(),
		Currency:       o.Currency,
		TotalIncome:    o.TotalIncome,
		TotalExpenses:  o.TotalExpenses,
		Remaining:      o.Remaining(),
		LatestIncome:   o.LatestIncome,
		Split:          splitView(o.Split),
		Pool:           o.Pool,
		Goals:          o.Goals,
		CompletedTotal: o.CompletedTotal,
	}
	for _, c := range budget.Categories {
		vr := o.Variance[c]
		v.Categories = append(v.Categories, categoryView{Category: c, Allocated: vr.Allocated, Spent: vr.Spent, Remaining: vr.Remaining})
	}
	writeJSON(w, http.StatusOK, v)
}

type bucketView struct {
	Label   string        `json:"label"`
	Balance budget.Amount `json:"balance"`
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	window := budget.OneYear
	if q := r.URL.Query().Get("window"); q != "" {
		var err error
		if window, err = budget.ParseWindow(q); err != nil {
			writeError(w, err)
			return
		}
	}
	buckets := s.book.Growth(window)
	views := make([]bucketView, 0, len(buckets))
	for _, b := range buckets {
		views = append(views, bucketView(b))
	}
	writeJSON(w, http.StatusOK, views)
}

type monthView struct {
	Month    string        `json:"month"`
	Income   budget.Amount `json:"income"`
	Expenses budget.Amount `json:"expenses"`
	Net      budget.Amount `json:"net"`
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months := s.book.MonthlyTotals()
	views := make([]monthView, 0, len(months))
	for _, m := range months {
		views = append(views, monthView{Month: m.Label, Income: m.Income, Expenses: m.Expenses, Net: m.Net()})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleSplit splits the "amount" query parameter, or the latest income of
// the period when absent.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var amount budget.Amount
	if q := r.URL.Query().Get("amount"); q != "" {
		a, err := budget.ParseAmount(q)
		if err != nil {
			writeError(w, &budget.ValidationError{Field: "amount", Reason: err.Error()})
			return
		}
		amount = a
	} else {
		filter, err := periodFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if incomes := s.book.Incomes(filter); len(incomes) > 0 {
			amount = incomes[0].Amount
		}
	}
	if amount < 0 {
		writeError(w, &budget.ValidationError{Field: "amount", Reason: "must not be negative"})
		return
	}
	writeJSON(w, http.StatusOK, splitView(budget.SplitIncome(amount)))
}

// handleReport renders the summary of the period as an HTML page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	filter, err := periodFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	html, err := renderer.ToHTML(renderer.RenderSummary(renderer.NewSummary(s.book, filter)))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Budget</title></head><body>\n"))
	w.Write([]byte(html))
	w.Write([]byte("</body></html>\n"))
}
