package budget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer is notified of every command executed by a Book, successful or
// not, with the pool balance after the command.
type Observer interface {
	Observe(op string, err error, balance Amount)
}

// Names of the commands reported to the Observer.
const (
	OpRecordIncome  = "record_income"
	OpRecordExpense = "record_expense"
	OpRemoveIncome  = "remove_income"
	OpRemoveExpense = "remove_expense"
	OpCreateGoal    = "create_goal"
	OpUpdateGoal    = "update_goal"
	OpDeleteGoal    = "delete_goal"
	OpDeposit       = "deposit"
)

// Book is the budgeting engine: one ledger, one savings pool and one goal
// ledger, under a single lock.
//
// Commands take the write lock, queries the read lock and return copies, so
// a query never observes a half applied command.
//
// Recording an income deposits its Savings share in the pool, and recording a
// Savings expense deposits its amount. Removing a record reverses that
// posting.
type Book struct {
	mu       sync.RWMutex
	currency string
	ledger   *Ledger
	pool     *Pool
	goals    *Goals

	seed  Amount
	today func() Date
	newID func() string
	log   *zap.Logger
	obs   Observer
}

// Option configures a Book.
type Option func(*Book)

// WithClock sets the source of the current date.
func WithClock(today func() Date) Option { return func(b *Book) { b.today = today } }

// WithIDs sets the generator of record and goal identifiers.
func WithIDs(newID func() string) Option { return func(b *Book) { b.newID = newID } }

// WithLogger sets the logger, a no-op logger by default.
func WithLogger(log *zap.Logger) Option { return func(b *Book) { b.log = log } }

// WithObserver sets the command observer.
func WithObserver(obs Observer) Option { return func(b *Book) { b.obs = obs } }

// WithCurrency sets the currency used to format amounts.
func WithCurrency(code string) Option { return func(b *Book) { b.currency = code } }

// WithSeed sets the initial pool balance of a new book.
func WithSeed(balance Amount) Option { return func(b *Book) { b.seed = balance } }

// NewBook creates an empty book.
func NewBook(opts ...Option) (*Book, error) {
	return NewBookFromSnapshot(&Snapshot{}, opts...)
}

// NewBookFromSnapshot creates a book holding the state of s.
//
// The snapshot currency and pool take precedence over WithCurrency and
// WithSeed when set.
func NewBookFromSnapshot(s *Snapshot, opts ...Option) (*Book, error) {
	b := &Book{
		currency: DefaultCurrency,
		today:    Today,
		newID:    uuid.NewString,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	if s.Currency != "" {
		b.currency = s.Currency
	}
	if err := ValidCurrency(b.currency); err != nil {
		return nil, err
	}
	seed := b.seed
	if s.Pool != 0 || len(s.Incomes)+len(s.Expenses)+len(s.Goals) > 0 {
		seed = s.Pool
	}
	if err := b.load(s, seed); err != nil {
		return nil, err
	}
	b.log.Debug("book opened",
		zap.String("currency", b.currency),
		zap.Int64("balance", int64(seed)),
		zap.Int("incomes", len(s.Incomes)),
		zap.Int("expenses", len(s.Expenses)),
		zap.Int("goals", len(s.Goals)))
	return b, nil
}

// load replaces the ledger, pool and goals with the content of s.
func (b *Book) load(s *Snapshot, balance Amount) error {
	pool, err := NewPool(balance)
	if err != nil {
		return err
	}
	b.pool = pool
	b.ledger = &Ledger{
		incomes:  cloneOrEmpty(s.Incomes),
		expenses: cloneOrEmpty(s.Expenses),
		newID:    b.newID,
		today:    b.today,
	}
	b.goals = NewGoals(pool)
	b.goals.newID = b.newID
	b.goals.goals = cloneOrEmpty(s.Goals)
	return nil
}

// Restore puts the book back in the state of s, typically a Snapshot taken
// before a change that could not be persisted. The currency of the book is
// kept.
func (b *Book) Restore(s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(s, s.Pool); err != nil {
		return err
	}
	b.log.Info("book restored", zap.Int64("balance", int64(s.Pool)))
	return nil
}

func cloneOrEmpty[T any](xs []T) []T { return append([]T{}, xs...) }

// done logs and reports the outcome of a command. It must be called with
// the write lock held.
func (b *Book) done(op string, err error, fields ...zap.Field) {
	balance := b.pool.Balance()
	fields = append(fields, zap.String("op", op), zap.Int64("balance", int64(balance)))
	if err != nil {
		b.log.Warn("command rejected", append(fields, zap.Error(err))...)
	} else {
		b.log.Info("command applied", fields...)
	}
	if b.obs != nil {
		b.obs.Observe(op, err, balance)
	}
}

// Currency returns the currency of the book.
func (b *Book) Currency() string { return b.currency }

// Today returns the current date according to the book clock.
func (b *Book) Today() Date { return b.today() }

// Format formats an amount in the book currency.
func (b *Book) Format(a Amount) string { return a.Format(b.currency) }

// RecordIncome records an income and deposits its Savings share in the pool.
func (b *Book) RecordIncome(source string, amount Amount, on Date, notes string) (IncomeRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.ledger.RecordIncome(source, amount, on, notes)
	if err == nil {
		if err = b.pool.Deposit(SplitIncome(r.Amount).Savings); err != nil {
			b.ledger.RemoveIncome(r.ID)
			r = IncomeRecord{}
		}
	}
	b.done(OpRecordIncome, err, zap.String("id", r.ID), zap.Int64("amount", int64(amount)))
	return r, err
}

// RecordExpense records an expense. A Savings expense is deposited in the
// pool.
func (b *Book) RecordExpense(category Category, description string, amount Amount, notes string, on Date) (ExpenseRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.ledger.RecordExpense(category, description, amount, notes, on)
	if err == nil && r.Category == Savings {
		if err = b.pool.Deposit(r.Amount); err != nil {
			b.ledger.RemoveExpense(r.ID)
			r = ExpenseRecord{}
		}
	}
	b.done(OpRecordExpense, err, zap.String("id", r.ID), zap.String("category", string(category)), zap.Int64("amount", int64(amount)))
	return r, err
}

// RemoveIncome removes an income and withdraws its Savings share from the
// pool. When the pool cannot cover it, because the funds were allocated to
// goals, the removal fails with an *InsufficientFundsError and the income
// stays.
func (b *Book) RemoveIncome(id string) (IncomeRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.removeIncome(id)
	b.done(OpRemoveIncome, err, zap.String("id", id))
	return r, err
}

func (b *Book) removeIncome(id string) (IncomeRecord, error) {
	r, ok := b.ledger.Income(id)
	if !ok {
		return IncomeRecord{}, &NotFoundError{Kind: "income", ID: id}
	}
	if err := b.pool.Allocate(SplitIncome(r.Amount).Savings); err != nil {
		return IncomeRecord{}, fmt.Errorf("cannot reverse income %q savings: %w", id, err)
	}
	return b.ledger.RemoveIncome(id)
}

// RemoveExpense removes an expense. A Savings expense is withdrawn from the
// pool, under the same condition as RemoveIncome.
func (b *Book) RemoveExpense(id string) (ExpenseRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.removeExpense(id)
	b.done(OpRemoveExpense, err, zap.String("id", id))
	return r, err
}

func (b *Book) removeExpense(id string) (ExpenseRecord, error) {
	r, ok := b.ledger.Expense(id)
	if !ok {
		return ExpenseRecord{}, &NotFoundError{Kind: "expense", ID: id}
	}
	if r.Category == Savings {
		if err := b.pool.Allocate(r.Amount); err != nil {
			return ExpenseRecord{}, fmt.Errorf("cannot reverse savings expense %q: %w", id, err)
		}
	}
	return b.ledger.RemoveExpense(id)
}

// Deposit credits the pool directly, outside of any income or expense.
func (b *Book) Deposit(amount Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.pool.Deposit(amount)
	b.done(OpDeposit, err, zap.Int64("amount", int64(amount)))
	return err
}

// CreateGoal creates a goal funded with up to allocation from the pool.
func (b *Book) CreateGoal(spec GoalSpec, allocation Amount) (Goal, Allocation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, alloc, err := b.goals.Create(spec, allocation)
	b.done(OpCreateGoal, err, zap.String("goal", spec.Name), zap.String("id", g.ID),
		zap.Int64("requested", int64(allocation)), zap.Int64("committed", int64(alloc.Committed)))
	return g, alloc, err
}

// UpdateGoal updates a goal and funds it with up to additional from the pool.
func (b *Book) UpdateGoal(id string, u GoalUpdate, additional Amount) (Goal, Allocation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, alloc, err := b.goals.Update(id, u, additional)
	b.done(OpUpdateGoal, err, zap.String("id", id),
		zap.Int64("requested", int64(additional)), zap.Int64("committed", int64(alloc.Committed)))
	return g, alloc, err
}

// DeleteGoal deletes a goal and releases its savings to the pool.
func (b *Book) DeleteGoal(id string) (Amount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	released, err := b.goals.Delete(id)
	b.done(OpDeleteGoal, err, zap.String("id", id), zap.Int64("released", int64(released)))
	return released, err
}

// Balance returns the pool balance.
func (b *Book) Balance() Amount {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pool.Balance()
}

// Incomes returns the incomes accepted by filter, most recent first.
func (b *Book) Incomes(filter PeriodFilter) []IncomeRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return FilterByPeriod(b.ledger.incomes, filter, b.today())
}

// Expenses returns the expenses accepted by filter, most recent first.
func (b *Book) Expenses(filter PeriodFilter) []ExpenseRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return FilterByPeriod(b.ledger.expenses, filter, b.today())
}

// Goals returns the goals, newest first.
func (b *Book) Goals() []Goal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.goals.List()
}

// Goal returns the goal with this id.
func (b *Book) Goal(id string) (Goal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.goals.Get(id)
	if !ok {
		return Goal{}, &NotFoundError{Kind: "goal", ID: id}
	}
	return g, nil
}

// Overview summarizes the book for a period.
type Overview struct {
	Filter        PeriodFilter
	Currency      string
	TotalIncome   Amount
	TotalExpenses Amount
	// LatestIncome is the most recent income of the period, nil if none.
	LatestIncome *IncomeRecord
	// Split is the split of LatestIncome.
	Split          Split
	Categories     map[Category]Amount
	Variance       map[Category]Variance
	Pool           Amount
	Goals          StatusCounts
	CompletedTotal Amount
}

// Remaining returns TotalIncome - TotalExpenses.
func (o Overview) Remaining() Amount { return o.TotalIncome - o.TotalExpenses }

// Overview computes the summary of the period selected by filter.
func (b *Book) Overview(filter PeriodFilter) Overview {
	b.mu.RLock()
	defer b.mu.RUnlock()
	today := b.today()
	incomes := FilterByPeriod(b.ledger.incomes, filter, today)
	expenses := FilterByPeriod(b.ledger.expenses, filter, today)
	goals := b.goals.List()

	o := Overview{
		Filter:         filter,
		Currency:       b.currency,
		TotalIncome:    TotalIncome(incomes),
		TotalExpenses:  TotalExpenses(expenses),
		Categories:     CategoryTotals(expenses),
		Pool:           b.pool.Balance(),
		Goals:          CountStatus(goals),
		CompletedTotal: CompletedTotal(goals),
	}
	o.Variance = BudgetVariance(o.TotalIncome, expenses)
	if len(incomes) > 0 {
		latest := incomes[0]
		o.LatestIncome = &latest
		o.Split = SplitIncome(latest.Amount)
	}
	return o
}

// Growth returns the balance series of the window, bucketed by the window
// period through today.
func (b *Book) Growth(w Window) []Bucket {
	b.mu.RLock()
	defer b.mu.RUnlock()
	series := BalanceSeries(b.ledger.incomes, b.ledger.expenses, w.Period(), b.today())
	return Bucketize(series, w)
}

// MonthlyTotals returns the income and expenses of every month, oldest first.
func (b *Book) MonthlyTotals() []MonthTotal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return MonthlyTotals(b.ledger.incomes, b.ledger.expenses)
}

// Snapshot returns a copy of the whole state of the book.
func (b *Book) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		Currency: b.currency,
		Pool:     b.pool.Balance(),
		Incomes:  b.ledger.Incomes(),
		Expenses: b.ledger.Expenses(),
		Goals:    b.goals.List(),
	}
}

// Snapshot is the full serializable state of a Book.
//
// Records are most recent first, goals newest first.
type Snapshot struct {
	Currency string
	Pool     Amount
	Incomes  []IncomeRecord
	Expenses []ExpenseRecord
	Goals    []Goal
}

// Validate checks the invariants of the snapshot and returns all the
// problems found, joined.
func (s *Snapshot) Validate() error {
	var errs error
	if s.Currency != "" {
		errs = errors.Join(errs, ValidCurrency(s.Currency))
	}
	if s.Pool < 0 {
		errs = errors.Join(errs, &ValidationError{Field: "pool", Reason: fmt.Sprintf("must not be negative, got %d", s.Pool)})
	}

	ids := make(map[string]bool)
	unique := func(kind, id string) error {
		key := kind + "/" + id
		if id == "" {
			return &ValidationError{Field: kind + " id", Reason: "is required"}
		}
		if ids[key] {
			return &ValidationError{Field: kind + " id", Reason: fmt.Sprintf("duplicate id %q", id)}
		}
		ids[key] = true
		return nil
	}
	for _, r := range s.Incomes {
		errs = errors.Join(errs, unique("income", r.ID))
		if err := positive("amount", r.Amount); err != nil {
			errs = errors.Join(errs, fmt.Errorf("income %q: %w", r.ID, err))
		}
	}
	for _, r := range s.Expenses {
		errs = errors.Join(errs, unique("expense", r.ID))
		if err := positive("amount", r.Amount); err != nil {
			errs = errors.Join(errs, fmt.Errorf("expense %q: %w", r.ID, err))
		}
		if !r.Category.Valid() {
			errs = errors.Join(errs, fmt.Errorf("expense %q: %w", r.ID, &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of Needs, Wants, Savings", r.Category)}))
		}
	}
	for _, g := range s.Goals {
		errs = errors.Join(errs, unique("goal", g.ID))
		spec := GoalSpec{Name: g.Name, Type: g.Type, Target: g.Target}
		if err := spec.validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("goal %q: %w", g.ID, err))
		}
		if g.Saved < 0 || g.Saved > g.Target {
			errs = errors.Join(errs, fmt.Errorf("goal %q: %w", g.ID, &ValidationError{Field: "saved", Reason: fmt.Sprintf("%d is not within [0, %d]", g.Saved, g.Target)}))
		}
	}
	return errs
}
