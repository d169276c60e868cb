// Package sales wires the ledger engine for the customer-side books.
// Sales are money owed to the shop: payments in (credits) reduce the
// remaining amount, and the party total is the sum of its product rows.
package sales

import "github.com/trackedge/books/ledger"

// Kind is the sales ledger descriptor. Customer ids run CU00001,
// CU00002, ... and payments from customers are credits.
var Kind = ledger.Kind{
	Name:            "sales",
	IDPrefix:        "CU",
	Inbound:         ledger.TxCredit,
	TotalsFromItems: true,
	Tables: ledger.TableNames{
		Party:    "customer",
		Items:    "customer_product",
		Payments: "customer_payment",
	},
}

// New returns a sales ledger backed by the given store.
func New(store ledger.TxStore) *ledger.Ledger {
	return ledger.New(Kind, store)
}
