package budget

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrInsufficientFunds matches every *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientFundsError reports an allocation larger than the pool balance.
type InsufficientFundsError struct {
	Requested Amount
	Available Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %d, available %d", e.Requested, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// NotFoundError reports a reference to an unknown record.
type NotFoundError struct {
	Kind string // "income", "expense" or "goal"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func positive(field string, a Amount) error {
	if a <= 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be positive, got %d", a)}
	}
	return nil
}

func nonNegative(field string, a Amount) error {
	if a < 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must not be negative, got %d", a)}
	}
	return nil
}
