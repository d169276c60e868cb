/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All errors the engine can surface, in one place. Mutating operations
  never leak raw storage errors past their boundary: anything the store
  returns that is not part of the domain taxonomy is wrapped in
  *PersistenceError before it reaches the caller.

ERROR CATEGORIES:
  1. Conflict errors   - phone/name deduplication violations
  2. Validation errors - amount and quantity bounds
  3. Resolution errors - party/item not found
  4. Store errors      - underlying persistence failures

USAGE:
  Callers match with errors.Is():

    if errors.Is(err, ledger.ErrPhoneConflict) {
        // render "phone registered to another name"
    }

  and unwrap structured details with errors.As() when they need the
  bound that was violated.
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPhoneConflict is returned when a phone number is already bound to a
	// different party name. Phone is the primary deduplication key; a conflict
	// is hard failure, never a silent merge.
	ErrPhoneConflict = errors.New("phone number registered to a different name")

	// ErrNameConflict is returned by the accumulate path when a party name is
	// already bound to a different phone number.
	ErrNameConflict = errors.New("name registered to a different phone number")

	// ErrInvalidAmount is returned when a payment or refund amount is
	// non-positive or exceeds the allowed bound.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity is returned when a return quantity is non-positive or
	// not strictly less than the quantity on the item row.
	ErrInvalidQuantity = errors.New("invalid return quantity")

	// ErrNotFound is returned when a party or item cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is the sentinel behind *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PhoneConflictError reports which name currently owns the contested phone.
type PhoneConflictError struct {
	Phone        string
	ExistingName string
}

func (e *PhoneConflictError) Error() string {
	return fmt.Sprintf("phone %s already registered to %q", e.Phone, e.ExistingName)
}

func (e *PhoneConflictError) Unwrap() error { return ErrPhoneConflict }

// NameConflictError reports which phone currently owns the contested name.
type NameConflictError struct {
	Name          string
	ExistingPhone string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name %q already registered with phone %s", e.Name, e.ExistingPhone)
}

func (e *NameConflictError) Unwrap() error { return ErrNameConflict }

// AmountError reports a payment/refund amount outside its allowed bound.
type AmountError struct {
	Requested decimal.Decimal
	Max       decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("amount %s outside allowed range (0, %s]", e.Requested, e.Max)
}

func (e *AmountError) Unwrap() error { return ErrInvalidAmount }

// QuantityError reports an invalid return quantity. A return equal to the full
// quantity is rejected too; callers are expected to delete the item instead.
type QuantityError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("return quantity %s must be greater than 0 and less than %s", e.Requested, e.Available)
}

func (e *QuantityError) Unwrap() error { return ErrInvalidQuantity }

// PersistenceError wraps an underlying store failure. The operation that
// failed is named so the caller can render a message without inspecting the
// cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrPhoneConflict) ||
		errors.Is(err, ErrNameConflict) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsConflict returns true for deduplication violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrPhoneConflict) || errors.Is(err, ErrNameConflict)
}
