package budget

import (
	"fmt"
	"math"
	"sync"
)

// Pool is the savings pool: the committed but unassigned savings available to
// fund goals. Its balance never goes negative.
//
// A Pool is safe for concurrent use. The balance is only reachable through
// Deposit, Allocate and Release.
type Pool struct {
	mu      sync.Mutex
	balance Amount
}

// NewPool returns a pool seeded with balance seed.
func NewPool(seed Amount) (*Pool, error) {
	if err := nonNegative("seed", seed); err != nil {
		return nil, err
	}
	return &Pool{balance: seed}, nil
}

// Balance returns the current balance.
func (p *Pool) Balance() Amount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

// Deposit credits amount to the pool.
func (p *Pool) Deposit(amount Amount) error {
	if err := nonNegative("amount", amount); err != nil {
		return fmt.Errorf("cannot deposit: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.credit(amount); err != nil {
		return fmt.Errorf("cannot deposit: %w", err)
	}
	return nil
}

// Allocate debits amount from the pool. It fails with an
// *InsufficientFundsError, leaving the balance untouched, when amount exceeds
// the balance.
func (p *Pool) Allocate(amount Amount) error {
	if err := nonNegative("amount", amount); err != nil {
		return fmt.Errorf("cannot allocate: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount > p.balance {
		return &InsufficientFundsError{Requested: amount, Available: p.balance}
	}
	p.balance -= amount
	return nil
}

// Release credits back an amount previously allocated.
func (p *Pool) Release(amount Amount) error {
	if err := nonNegative("amount", amount); err != nil {
		return fmt.Errorf("cannot release: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.credit(amount); err != nil {
		return fmt.Errorf("cannot release: %w", err)
	}
	return nil
}

// credit adds a non-negative amount to the balance, unless the balance would
// overflow. It must be called with the lock held.
func (p *Pool) credit(amount Amount) error {
	if amount > math.MaxInt64-p.balance {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("would overflow the balance of %d", p.balance)}
	}
	p.balance += amount
	return nil
}
