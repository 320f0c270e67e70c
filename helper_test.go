package budget

import (
	"fmt"
	"testing"
)

// seqIDs returns a generator of predictable ids: prefix-1, prefix-2...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// fixedClock returns a clock stuck on d.
func fixedClock(d Date) func() Date { return func() Date { return d } }

// newTestBook returns a book with predictable ids, today on 2025-10-19 and
// the pool seeded with seed.
func newTestBook(t *testing.T, seed Amount, opts ...Option) *Book {
	t.Helper()
	opts = append([]Option{
		WithIDs(seqIDs("id")),
		WithClock(fixedClock(NewDate(2025, 10, 19))),
		WithSeed(seed),
	}, opts...)
	b, err := NewBook(opts...)
	if err != nil {
		t.Fatalf("NewBook() error = %v", err)
	}
	return b
}

// newTestGoals returns a goal ledger funded by a pool seeded with seed.
func newTestGoals(t *testing.T, seed Amount) (*Goals, *Pool) {
	t.Helper()
	pool, err := NewPool(seed)
	if err != nil {
		t.Fatalf("NewPool(%d) error = %v", seed, err)
	}
	gs := NewGoals(pool)
	gs.newID = seqIDs("goal")
	return gs, pool
}
