// Package purchase wires the ledger engine for the supplier-side books.
// Purchases are money the shop owes: payments out (debits) reduce the
// remaining amount, and the party total is the sum of its product rows.
package purchase

import "github.com/trackedge/books/ledger"

// Kind is the purchase ledger descriptor. Supplier ids run PU00001,
// PU00002, ... and payments to suppliers are debits.
var Kind = ledger.Kind{
	Name:            "purchase",
	IDPrefix:        "PU",
	Inbound:         ledger.TxDebit,
	TotalsFromItems: true,
	Tables: ledger.TableNames{
		Party:    "purchaser",
		Items:    "purchase_product",
		Payments: "purchase_payment",
	},
}

// New returns a purchase ledger backed by the given store.
func New(store ledger.TxStore) *ledger.Ledger {
	return ledger.New(Kind, store)
}
