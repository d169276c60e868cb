/*
store.go - Persistence interfaces for parties, items, and payments

PURPOSE:
  Defines the interface between the engine and the database. Each ledger
  kind owns one store: three independent stores back the purchase, sales,
  and service ledgers.

KEY INTERFACES:
  Store:   Row-level reads and writes for one ledger kind
  TxStore: Store plus WithTx for atomic multi-statement operations

TRANSACTION CONTRACT:
  Every mutating engine operation runs inside one WithTx call: the child-row
  write and the party recompute either both land or neither does. Readers
  never observe partial state.

IMPLEMENTATIONS:
  - store/sqlite:          Production SQLite store
  - ledger/store/memory.go: In-memory store for testing
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store handles persistence for one ledger kind.
type Store interface {
	// --- Parties ---

	InsertParty(ctx context.Context, p Party) error

	// UpdatePartyTotals writes the recomputed running totals. Opening
	// balances are not touched.
	UpdatePartyTotals(ctx context.Context, id PartyID, total, paid, remaining decimal.Decimal, status Status) error

	// UpdatePartyOpening rewrites the opening balances (accumulate path,
	// service total adjustments).
	UpdatePartyOpening(ctx context.Context, id PartyID, openingTotal, openingPaid decimal.Decimal) error

	UpdatePartyContact(ctx context.Context, id PartyID, phone, place string) error

	// Lookups return (nil, nil) when no row matches.
	PartyByID(ctx context.Context, id PartyID) (*Party, error)
	PartyByNamePhone(ctx context.Context, name, phone string) (*Party, error)
	PartyByPhone(ctx context.Context, phone string) (*Party, error)
	PartyByName(ctx context.Context, name string) (*Party, error)

	// LastPartyID returns the lexicographically highest party id, or ""
	// when the store is empty.
	LastPartyID(ctx context.Context) (PartyID, error)

	SearchPartiesByName(ctx context.Context, prefix string, limit int) ([]Party, error)
	SearchPartiesByPhone(ctx context.Context, prefix string, limit int) ([]Party, error)

	// --- Items ---

	InsertItem(ctx context.Context, it Item) (int64, error)
	UpdateItemDetails(ctx context.Context, id int64, name, description string) error
	UpdateItemQuantity(ctx context.Context, id int64, qty, amount decimal.Decimal) error
	DeleteItem(ctx context.Context, id int64) error

	ItemByID(ctx context.Context, id int64) (*Item, error)
	ItemsByParty(ctx context.Context, id PartyID, r DateRange) ([]Item, error)

	// FindItemByAttributes is the legacy fallback for callers that re-fetch
	// rows without retaining ids: it matches the full attribute tuple and
	// returns the lowest matching row id, or (nil, nil).
	FindItemByAttributes(ctx context.Context, id PartyID, match Item) (*Item, error)

	SumItemAmounts(ctx context.Context, id PartyID) (decimal.Decimal, error)
	SearchItemNames(ctx context.Context, prefix string, limit int) ([]ItemSuggestion, error)

	// ItemQuantityTotals aggregates quantity by normalized (trimmed,
	// lowercased) item name across all parties. Feeds the stock projection.
	ItemQuantityTotals(ctx context.Context) (map[string]decimal.Decimal, error)

	// --- Payments ---

	InsertPayment(ctx context.Context, p Payment) (int64, error)
	PaymentsByParty(ctx context.Context, id PartyID, r DateRange) ([]Payment, error)

	// NetPaid is the signed net over all the party's payments: inbound
	// amounts minus outbound amounts.
	NetPaid(ctx context.Context, id PartyID, inbound TxType) (decimal.Decimal, error)

	// --- Reports ---

	// ActivityDates returns the distinct calendar dates (YYYY-MM-DD,
	// ascending) on which the party has an item or a payment.
	ActivityDates(ctx context.Context, id PartyID) ([]string, error)

	RecentPayments(ctx context.Context, order SortOrder, limit int) ([]PartyPayment, error)
	ItemsByDateRange(ctx context.Context, r DateRange) ([]PartyItem, error)
}

// TxStore wraps Store with transaction support. If fn returns an error the
// transaction is rolled back, otherwise committed.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
