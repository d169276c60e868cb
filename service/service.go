// Package service wires the ledger engine for repair-job books.
// Service balances live on the customer row: a repeat visit for a known
// name+phone accumulates onto the running totals, job items are display
// lines that do not move the total, and spare-part charges land directly
// on the balance.
package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/trackedge/books/ledger"
)

// Kind is the service ledger descriptor. Job ids are timestamp-based
// (SVC-20250514185648) so concurrent walk-ins never collide with a
// sequence counter.
var Kind = ledger.Kind{
	Name:              "service",
	IDPrefix:          "SVC",
	TimestampIDs:      true,
	Inbound:           ledger.TxCredit,
	AccumulateOnMatch: true,
	TotalsFromItems:   false,
	Tables: ledger.TableNames{
		Party:    "service_customer",
		Items:    "service_item",
		Payments: "service_payment",
	},
}

// Ledger wraps the generic engine with the service-desk vocabulary.
type Ledger struct {
	*ledger.Ledger
}

// New returns a service ledger backed by the given store.
func New(store ledger.TxStore) *Ledger {
	return &Ledger{ledger.New(Kind, store)}
}

// Visit is one service-desk submission: who came in and what the job is
// worth. Paid is whatever was collected up front.
type Visit struct {
	Name  string
	Place string
	Phone string
	Total decimal.Decimal
	Paid  decimal.Decimal
}

// RegisterVisit records a visit. A returning customer (same name and
// phone) has the visit's totals added onto their running balance; a new
// customer gets a fresh job id. A phone or name already bound to a
// different customer is rejected without touching the books.
func (l *Ledger) RegisterVisit(ctx context.Context, v Visit) (*ledger.AccumulateResult, error) {
	return l.AccumulateParty(ctx, v.Name, v.Place, v.Phone, v.Total, v.Paid)
}

// AddJobItem attaches a line describing work done or a part fitted. Item
// lines are informational here; the balance only moves through visits,
// spare amounts, and payments.
func (l *Ledger) AddJobItem(ctx context.Context, id ledger.PartyID, in ledger.ItemInput) (*ledger.Item, error) {
	return l.AddItem(ctx, id, in)
}

// AddSpare bills a spare-part charge straight onto the job balance and
// records it as a line in the job history.
func (l *Ledger) AddSpare(ctx context.Context, id ledger.PartyID, amount decimal.Decimal) error {
	return l.AddSpareAmount(ctx, id, amount)
}
