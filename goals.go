package budget

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings goal funded from the Pool.
//
// 0 <= Saved <= Target holds for every goal handed out by Goals.
type Goal struct {
	ID          string
	Name        string
	Type        GoalType
	Target      Amount
	Saved       Amount
	Deadline    Date // zero when the goal has no deadline
	Description string
}

var hundred = decimal.NewFromInt(100)

// Progress returns round(100*Saved/Target) clamped to [0, 100].
func (g Goal) Progress() int {
	if g.Target <= 0 {
		return 0
	}
	p := g.Saved.Decimal().Mul(hundred).Div(g.Target.Decimal()).Round(0).IntPart()
	return int(max(0, min(p, 100)))
}

// Remaining returns what is still needed to reach the target.
func (g Goal) Remaining() Amount { return max(0, g.Target-g.Saved) }

// GoalStatus classifies a goal by its progress.
type GoalStatus int

const (
	NotStarted GoalStatus = iota
	Active
	Completed
)

func (s GoalStatus) String() string {
	switch s {
	case Completed:
		return "completed"
	case Active:
		return "active"
	default:
		return "not started"
	}
}

// Status returns Completed at 100% progress, Active above 0% and NotStarted
// otherwise.
func (g Goal) Status() GoalStatus {
	switch p := g.Progress(); {
	case p >= 100:
		return Completed
	case p > 0:
		return Active
	default:
		return NotStarted
	}
}

// Band is the progress band used to colour a goal.
type Band int

const (
	Low Band = iota
	Medium
	High
)

func (b Band) String() string {
	switch b {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Band returns High from 75% progress, Medium from 25% and Low below.
func (g Goal) Band() Band {
	switch p := g.Progress(); {
	case p >= 75:
		return High
	case p >= 25:
		return Medium
	default:
		return Low
	}
}

// StatusCounts partitions a set of goals by status.
type StatusCounts struct {
	Completed  int
	Active     int
	NotStarted int
}

// Total returns the number of goals counted.
func (c StatusCounts) Total() int { return c.Completed + c.Active + c.NotStarted }

// CountStatus counts goals per status. Every goal lands in exactly one bucket.
func CountStatus(goals []Goal) StatusCounts {
	var c StatusCounts
	for _, g := range goals {
		switch g.Status() {
		case Completed:
			c.Completed++
		case Active:
			c.Active++
		default:
			c.NotStarted++
		}
	}
	return c
}

// CompletedTotal sums the targets of the completed goals.
func CompletedTotal(goals []Goal) Amount {
	var total Amount
	for _, g := range goals {
		if g.Status() == Completed {
			total += g.Target
		}
	}
	return total
}

// GoalSpec describes a goal to create.
type GoalSpec struct {
	Name        string
	Type        GoalType
	Target      Amount
	Deadline    Date
	Description string
}

func (s GoalSpec) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !s.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown goal type %d", int(s.Type))}
	}
	return positive("target", s.Target)
}

// GoalUpdate lists the fields to replace on a goal. Nil fields are kept.
type GoalUpdate struct {
	Name        *string
	Type        *GoalType
	Target      *Amount
	Deadline    *Date
	Description *string
}

// Allocation reports how much of a requested allocation was debited from
// the pool. The pool is never debited beyond the room left in the goal, the
// difference is returned to the caller as the Remainder.
type Allocation struct {
	Requested Amount
	Committed Amount
}

// Remainder is the part of the request that was not committed.
func (a Allocation) Remainder() Amount { return a.Requested - a.Committed }

// Capped reports whether part of the request was not committed.
func (a Allocation) Capped() bool { return a.Committed < a.Requested }

// Goals is the goal ledger. Every goal draws its Saved amount from the pool.
//
// Goals is safe for concurrent use. Mutations hold the goals lock while
// calling into the pool.
type Goals struct {
	mu    sync.Mutex
	pool  *Pool
	goals []Goal // newest first
	newID func() string
}

// NewGoals returns an empty goal ledger funded by pool.
func NewGoals(pool *Pool) *Goals {
	return &Goals{pool: pool, newID: uuid.NewString}
}

// Create creates a goal and funds it with up to allocation from the pool.
//
// The pool debit is capped at the goal target. On failure, including
// *InsufficientFundsError, neither the pool nor the goals change.
func (gs *Goals) Create(spec GoalSpec, allocation Amount) (Goal, Allocation, error) {
	if err := spec.validate(); err != nil {
		return Goal{}, Allocation{}, err
	}
	if err := nonNegative("allocation", allocation); err != nil {
		return Goal{}, Allocation{}, err
	}
	alloc := Allocation{Requested: allocation, Committed: min(allocation, spec.Target)}

	gs.mu.Lock()
	defer gs.mu.Unlock()
	if err := gs.pool.Allocate(alloc.Committed); err != nil {
		return Goal{}, Allocation{}, fmt.Errorf("cannot fund goal %q: %w", spec.Name, err)
	}
	g := Goal{
		ID:          gs.newID(),
		Name:        strings.TrimSpace(spec.Name),
		Type:        spec.Type,
		Target:      spec.Target,
		Saved:       alloc.Committed,
		Deadline:    spec.Deadline,
		Description: spec.Description,
	}
	gs.goals = slices.Insert(gs.goals, 0, g)
	return g, alloc, nil
}

// Update replaces the fields set in u and funds the goal with up to
// additional from the pool.
//
// The debit is capped at the room left under the (new) target. Lowering the
// target below Saved releases the excess to the pool.
func (gs *Goals) Update(id string, u GoalUpdate, additional Amount) (Goal, Allocation, error) {
	if err := nonNegative("allocation", additional); err != nil {
		return Goal{}, Allocation{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()
	i := gs.index(id)
	if i < 0 {
		return Goal{}, Allocation{}, &NotFoundError{Kind: "goal", ID: id}
	}
	g := gs.goals[i]
	if u.Name != nil {
		g.Name = strings.TrimSpace(*u.Name)
	}
	if u.Type != nil {
		g.Type = *u.Type
	}
	if u.Target != nil {
		g.Target = *u.Target
	}
	if u.Deadline != nil {
		g.Deadline = *u.Deadline
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	spec := GoalSpec{Name: g.Name, Type: g.Type, Target: g.Target}
	if err := spec.validate(); err != nil {
		return Goal{}, Allocation{}, err
	}

	alloc := Allocation{Requested: additional, Committed: min(additional, g.Remaining())}
	if excess := g.Saved - g.Target; excess > 0 {
		// Nothing is committed to a goal already above its target.
		if err := gs.pool.Release(excess); err != nil {
			return Goal{}, Allocation{}, fmt.Errorf("cannot shrink goal %q: %w", g.Name, err)
		}
		g.Saved = g.Target
	}
	if err := gs.pool.Allocate(alloc.Committed); err != nil {
		return Goal{}, Allocation{}, fmt.Errorf("cannot fund goal %q: %w", g.Name, err)
	}
	g.Saved += alloc.Committed
	gs.goals[i] = g
	return g, alloc, nil
}

// Delete removes the goal and releases its Saved amount to the pool.
func (gs *Goals) Delete(id string) (released Amount, err error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	i := gs.index(id)
	if i < 0 {
		return 0, &NotFoundError{Kind: "goal", ID: id}
	}
	g := gs.goals[i]
	if err := gs.pool.Release(g.Saved); err != nil {
		return 0, err
	}
	gs.goals = slices.Delete(gs.goals, i, i+1)
	return g.Saved, nil
}

// Get returns the goal with this id.
func (gs *Goals) Get(id string) (Goal, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	i := gs.index(id)
	if i < 0 {
		return Goal{}, false
	}
	return gs.goals[i], true
}

// List returns a copy of the goals, newest first.
func (gs *Goals) List() []Goal {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return slices.Clone(gs.goals)
}

func (gs *Goals) index(id string) int {
	return slices.IndexFunc(gs.goals, func(g Goal) bool { return g.ID == id })
}
