/*
Package ledger provides the core party-balance consistency engine.

PURPOSE:
  This package contains the kind-agnostic types and operations for keeping a
  party's running totals consistent with its item and payment history.
  Whether tracking supplier purchases, customer sales, or repair jobs, the
  same engine handles total/paid/remaining recomputation and status
  derivation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Party:   A counterparty with running totals and a derived status
  - Item:    A product or job line contributing to a party's total
  - Payment: A signed ledger entry contributing to a party's paid amount
  - Status:  pending/completed, derived from the remaining amount

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Derivation: Totals are recomputed from child rows, never trusted
  3. Uniformity: One completion epsilon (0.01) across every path

SEE ALSO:
  - kind.go:   Kind descriptor parameterizing the engine per ledger
  - engine.go: Mutating operations preserving the consistency invariant
  - store.go:  Persistence interfaces
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS - Derived completion state
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Epsilon is the completion tolerance: a party is completed when its
// remaining amount is within Epsilon of zero. Currency is displayed at two
// decimals, so 0.01 is the smallest visible difference.
var Epsilon = decimal.NewFromFloat(0.01)

// StatusFor derives the status from a remaining amount.
func StatusFor(remaining decimal.Decimal) Status {
	if remaining.Abs().LessThan(Epsilon) {
		return StatusCompleted
	}
	return StatusPending
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PartyID string

// TxType is the direction of a payment entry. Its meaning depends on the
// ledger kind: in a purchase ledger debits reduce the remaining amount, in a
// sales/service ledger credits do.
type TxType string

const (
	TxDebit  TxType = "debit"
	TxCredit TxType = "credit"
)

func (t TxType) Valid() bool { return t == TxDebit || t == TxCredit }

// NewPaymentID generates a time-based payment identifier like
// PAY20250514185648.
func NewPaymentID(now time.Time) string {
	return "PAY" + now.Format("20060102150405")
}

// =============================================================================
// PARTY - Counterparty with running totals
// =============================================================================

type Party struct {
	ID    PartyID
	Name  string
	Place string
	Phone string // unique per ledger kind

	// Opening balances carried on the party row itself: amounts submitted at
	// creation (or accumulated across service visits) that have no backing
	// item/payment rows. Running totals are always opening + child-row sums.
	OpeningTotal decimal.Decimal
	OpeningPaid  decimal.Decimal

	TotalAmount     decimal.Decimal
	AmountPaid      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          Status
	Date            time.Time
}

// InCredit reports whether the party is overpaid and eligible for a refund.
func (p *Party) InCredit() bool { return p.RemainingAmount.IsNegative() }

// MaxRefundable is the refund bound: max(0, -remaining).
func (p *Party) MaxRefundable() decimal.Decimal {
	if p.RemainingAmount.IsNegative() {
		return p.RemainingAmount.Neg()
	}
	return decimal.Zero
}

// =============================================================================
// ITEM - Product or job line owned by exactly one party
// =============================================================================

type Item struct {
	ID          int64
	PartyID     PartyID
	Name        string
	Qty         decimal.Decimal // may be fractional
	Price       decimal.Decimal
	Description string
	// Amount is stored redundantly (qty x price at entry time, caller
	// rounding preserved) and kept in sync on quantity changes.
	Amount decimal.Decimal
	Date   time.Time
}

// =============================================================================
// PAYMENT - Signed monetary entry owned by exactly one party
// =============================================================================

type Payment struct {
	ID        int64
	PartyID   PartyID
	PaymentID string // time-based, e.g. PAY20250514185648
	Date      time.Time
	Amount    decimal.Decimal
	Type      TxType
	Remarks   string
}

// =============================================================================
// CROSS-PARTY REPORT ROWS
// =============================================================================

// PartyPayment is a payment joined with its party's name, for the recent
// payments feed.
type PartyPayment struct {
	PartyName string
	Payment
}

// PartyItem is an item joined with its party's name, for date-range reports.
type PartyItem struct {
	PartyName string
	Item
}

// ItemSuggestion feeds item-name autocomplete with the last known price and
// description per distinct name.
type ItemSuggestion struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

// =============================================================================
// QUERY FILTERS
// =============================================================================

// DateRange bounds a query by calendar date, inclusive on both ends. A zero
// From or To leaves that end unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether t's calendar date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := t.Truncate(24 * time.Hour)
	if !r.From.IsZero() && day.Before(r.From.Truncate(24*time.Hour)) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// SortOrder selects recency direction for the recent-payments feed.
type SortOrder string

const (
	OrderRecent SortOrder = "recent"
	OrderOldest SortOrder = "oldest"
)
