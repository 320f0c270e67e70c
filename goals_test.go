package budget

import (
	"errors"
	"math"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestGoals_Create(t *testing.T) {
	tests := []struct {
		name       string
		seed       Amount
		spec       GoalSpec
		allocation Amount
		wantErr    error
		wantSaved  Amount
		wantPool   Amount
	}{
		{
			name:       "laptop is refused",
			seed:       50_000,
			spec:       GoalSpec{Name: "Laptop", Type: ShortTerm, Target: 2_000_000},
			allocation: 500_000,
			wantErr:    ErrInsufficientFunds,
			wantPool:   50_000,
		},
		{
			name:       "gym",
			seed:       100_000,
			spec:       GoalSpec{Name: "Gym", Type: MidTerm, Target: 300_000},
			allocation: 50_000,
			wantSaved:  50_000,
			wantPool:   50_000,
		},
		{
			name:       "no allocation",
			seed:       100_000,
			spec:       GoalSpec{Name: "House", Type: LongTerm, Target: 30_000_000},
			allocation: 0,
			wantSaved:  0,
			wantPool:   100_000,
		},
		{
			name:     "zero target",
			seed:     100_000,
			spec:     GoalSpec{Name: "Nothing", Type: ShortTerm, Target: 0},
			wantErr:  ErrValidation,
			wantPool: 100_000,
		},
		{
			name:     "missing name",
			seed:     100_000,
			spec:     GoalSpec{Name: " ", Type: ShortTerm, Target: 10},
			wantErr:  ErrValidation,
			wantPool: 100_000,
		},
		{
			name:     "unknown type",
			seed:     100_000,
			spec:     GoalSpec{Name: "Trip", Target: 10},
			wantErr:  ErrValidation,
			wantPool: 100_000,
		},
		{
			name:       "negative allocation",
			seed:       100_000,
			spec:       GoalSpec{Name: "Trip", Type: ShortTerm, Target: 10},
			allocation: -5,
			wantErr:    ErrValidation,
			wantPool:   100_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, pool := newTestGoals(t, tt.seed)
			g, _, err := gs.Create(tt.spec, tt.allocation)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if got := pool.Balance(); got != tt.wantPool {
				t.Errorf("pool balance = %d, want %d", got, tt.wantPool)
			}
			if tt.wantErr != nil {
				if n := len(gs.List()); n != 0 {
					t.Errorf("len(List()) = %d after a failed Create, want 0", n)
				}
				return
			}
			if g.Saved != tt.wantSaved {
				t.Errorf("Create().Saved = %d, want %d", g.Saved, tt.wantSaved)
			}
		})
	}
}

func TestGoals_GymProgress(t *testing.T) {
	gs, _ := newTestGoals(t, 100_000)
	g, _, err := gs.Create(GoalSpec{Name: "Gym", Type: MidTerm, Target: 300_000}, 50_000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := g.Progress(); got != 17 {
		t.Errorf("Progress() = %d, want 17", got)
	}
}

// TestGoals_CreateCapsAllocation checks that an allocation above the target
// only debits the target and reports the remainder.
func TestGoals_CreateCapsAllocation(t *testing.T) {
	gs, pool := newTestGoals(t, 1_000_000)
	g, alloc, err := gs.Create(GoalSpec{Name: "Phone", Type: ShortTerm, Target: 300_000}, 500_000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := (Allocation{Requested: 500_000, Committed: 300_000}); alloc != want {
		t.Errorf("Create() allocation = %+v, want %+v", alloc, want)
	}
	if !alloc.Capped() || alloc.Remainder() != 200_000 {
		t.Errorf("allocation Capped() = %v Remainder() = %d, want true 200000", alloc.Capped(), alloc.Remainder())
	}
	if g.Saved != 300_000 {
		t.Errorf("Saved = %d, want 300000", g.Saved)
	}
	if got := pool.Balance(); got != 700_000 {
		t.Errorf("pool balance = %d, want 700000: only the committed part is debited", got)
	}
}

func TestGoals_Update(t *testing.T) {
	tests := []struct {
		name       string
		update     GoalUpdate
		additional Amount
		wantErr    error
		wantGoal   Goal
		wantAlloc  Allocation
		wantPool   Amount
	}{
		{
			name:       "fund",
			additional: 20_000,
			wantGoal:   Goal{ID: "goal-1", Name: "Gym", Type: MidTerm, Target: 300_000, Saved: 70_000},
			wantAlloc:  Allocation{Requested: 20_000, Committed: 20_000},
			wantPool:   30_000,
		},
		{
			name:       "fund more than the pool",
			additional: 50_001,
			wantErr:    ErrInsufficientFunds,
			wantPool:   50_000,
		},
		{
			name:       "fund beyond the target",
			update:     GoalUpdate{Target: ptr(Amount(60_000))},
			additional: 40_000,
			wantGoal:   Goal{ID: "goal-1", Name: "Gym", Type: MidTerm, Target: 60_000, Saved: 60_000},
			wantAlloc:  Allocation{Requested: 40_000, Committed: 10_000},
			wantPool:   40_000,
		},
		{
			name:      "lower target below saved",
			update:    GoalUpdate{Target: ptr(Amount(20_000))},
			wantGoal:  Goal{ID: "goal-1", Name: "Gym", Type: MidTerm, Target: 20_000, Saved: 20_000},
			wantAlloc: Allocation{},
			wantPool:  80_000,
		},
		{
			name: "replace fields",
			update: GoalUpdate{
				Name:        ptr("Fitness"),
				Type:        ptr(LongTerm),
				Deadline:    ptr(NewDate(2026, 6, 30)),
				Description: ptr("yearly plan"),
			},
			wantGoal: Goal{ID: "goal-1", Name: "Fitness", Type: LongTerm, Target: 300_000, Saved: 50_000,
				Deadline: NewDate(2026, 6, 30), Description: "yearly plan"},
			wantPool: 50_000,
		},
		{
			name:     "invalid target",
			update:   GoalUpdate{Target: ptr(Amount(0))},
			wantErr:  ErrValidation,
			wantPool: 50_000,
		},
		{
			name:     "empty name",
			update:   GoalUpdate{Name: ptr("")},
			wantErr:  ErrValidation,
			wantPool: 50_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, pool := newTestGoals(t, 100_000)
			before, _, err := gs.Create(GoalSpec{Name: "Gym", Type: MidTerm, Target: 300_000}, 50_000)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			g, alloc, err := gs.Update(before.ID, tt.update, tt.additional)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}
			if got := pool.Balance(); got != tt.wantPool {
				t.Errorf("pool balance = %d, want %d", got, tt.wantPool)
			}
			if tt.wantErr != nil {
				if got, _ := gs.Get(before.ID); got != before {
					t.Errorf("goal = %+v after a failed Update, want %+v", got, before)
				}
				return
			}
			if g != tt.wantGoal {
				t.Errorf("Update() = %+v, want %+v", g, tt.wantGoal)
			}
			if alloc != tt.wantAlloc {
				t.Errorf("Update() allocation = %+v, want %+v", alloc, tt.wantAlloc)
			}
			if g.Saved < 0 || g.Saved > g.Target {
				t.Errorf("Update() Saved = %d outside [0, %d]", g.Saved, g.Target)
			}
		})
	}

	t.Run("unknown goal", func(t *testing.T) {
		gs, _ := newTestGoals(t, 100)
		if _, _, err := gs.Update("nope", GoalUpdate{}, 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(nope) error = %v, want %v", err, ErrNotFound)
		}
	})
}

// TestGoals_UpdateReleaseOverflow checks that an update whose release would
// overflow the pool changes nothing.
func TestGoals_UpdateReleaseOverflow(t *testing.T) {
	gs, pool := newTestGoals(t, 100)
	g, _, err := gs.Create(GoalSpec{Name: "Bike", Type: ShortTerm, Target: 100}, 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := pool.Deposit(math.MaxInt64); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if _, _, err := gs.Update(g.ID, GoalUpdate{Target: ptr(Amount(40))}, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("Update() error = %v, want %v", err, ErrValidation)
	}
	if got, _ := gs.Get(g.ID); got != g {
		t.Errorf("Get() after a failed Update() = %+v, want %+v", got, g)
	}
	if got := pool.Balance(); got != math.MaxInt64 {
		t.Errorf("pool balance = %d, want %d", got, int64(math.MaxInt64))
	}
}

func TestGoals_Delete(t *testing.T) {
	gs, pool := newTestGoals(t, 200_000)
	g, _, err := gs.Create(GoalSpec{Name: "Car", Type: LongTerm, Target: 1_000_000}, 150_000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := pool.Balance(); got != 50_000 {
		t.Fatalf("pool balance = %d, want 50000", got)
	}
	released, err := gs.Delete(g.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if released != 150_000 {
		t.Errorf("Delete() released %d, want 150000", released)
	}
	if got := pool.Balance(); got != 200_000 {
		t.Errorf("pool balance = %d, want 200000", got)
	}
	if _, err := gs.Delete(g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

// TestGoals_CreateDeleteNetZero checks that creating then deleting goals
// leaves the pool as it was.
func TestGoals_CreateDeleteNetZero(t *testing.T) {
	for _, allocation := range []Amount{0, 1, 40_000, 99_999, 100_000, 250_000} {
		gs, pool := newTestGoals(t, 100_000)
		g, _, err := gs.Create(GoalSpec{Name: "Trip", Type: ShortTerm, Target: 120_000}, allocation)
		if errors.Is(err, ErrInsufficientFunds) {
			if got := pool.Balance(); got != 100_000 {
				t.Errorf("Create(%d) failed and pool balance = %d, want 100000", allocation, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Create(%d) error = %v", allocation, err)
		}
		if _, err := gs.Delete(g.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if got := pool.Balance(); got != 100_000 {
			t.Errorf("create(%d) then delete: pool balance = %d, want 100000", allocation, got)
		}
	}
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		saved, target Amount
		want          int
		band          Band
		status        GoalStatus
	}{
		{0, 100, 0, Low, NotStarted},
		{1, 1000, 0, Low, NotStarted}, // 0.1% rounds to 0
		{5, 1000, 1, Low, Active},     // 0.5% rounds half up
		{25, 100, 25, Medium, Active},
		{74, 100, 74, Medium, Active},
		{75, 100, 75, High, Active},
		{995, 1000, 100, High, Completed}, // 99.5% rounds to 100
		{100, 100, 100, High, Completed},
		{150, 100, 100, High, Completed}, // clamped
	}
	for _, tt := range tests {
		g := Goal{Saved: tt.saved, Target: tt.target}
		if got := g.Progress(); got != tt.want {
			t.Errorf("Goal{Saved: %d, Target: %d}.Progress() = %d, want %d", tt.saved, tt.target, got, tt.want)
		}
		if got := g.Band(); got != tt.band {
			t.Errorf("Goal{Saved: %d, Target: %d}.Band() = %v, want %v", tt.saved, tt.target, got, tt.band)
		}
		if got := g.Status(); got != tt.status {
			t.Errorf("Goal{Saved: %d, Target: %d}.Status() = %v, want %v", tt.saved, tt.target, got, tt.status)
		}
	}
}

func TestCountStatus(t *testing.T) {
	goals := []Goal{
		{Target: 100, Saved: 100},
		{Target: 100, Saved: 50},
		{Target: 100, Saved: 0},
		{Target: 200, Saved: 199},
		{Target: 1000, Saved: 1},
	}
	got := CountStatus(goals)
	want := StatusCounts{Completed: 2, Active: 1, NotStarted: 2}
	if got != want {
		t.Errorf("CountStatus() = %+v, want %+v", got, want)
	}
	if got.Total() != len(goals) {
		t.Errorf("CountStatus().Total() = %d, want %d", got.Total(), len(goals))
	}
	if got := CompletedTotal(goals); got != 300 {
		t.Errorf("CompletedTotal() = %d, want 300", got)
	}
	if got := CountStatus(nil); got != (StatusCounts{}) {
		t.Errorf("CountStatus(nil) = %+v, want zero", got)
	}
}

func TestGoals_ListNewestFirst(t *testing.T) {
	gs, _ := newTestGoals(t, 0)
	for _, name := range []string{"a", "b"} {
		if _, _, err := gs.Create(GoalSpec{Name: name, Type: ShortTerm, Target: 1}, 0); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}
	got := gs.List()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Errorf("List() = %+v, want b then a", got)
	}
}
