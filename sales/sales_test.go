package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trackedge/books/ledger"
	"github.com/trackedge/books/ledger/store"
	"github.com/trackedge/books/sales"
)

func TestSalesLedger_CreditSettles(t *testing.T) {
	// A customer balance is settled by money coming in.
	led := sales.New(store.NewMemory())
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Sharma Cycles", "Nashik", "9876501234",
		decimal.NewFromInt(250), decimal.Zero)
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if id != "CU00001" {
		t.Fatalf("id = %q, want CU00001", id)
	}

	rec, err := led.RecordPayment(ctx, id, decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if rec.Status != ledger.StatusCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}

	payments, err := led.Payments(ctx, id, ledger.DateRange{})
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Type != ledger.TxCredit {
		t.Errorf("expected one credit payment, got %+v", payments)
	}
}

func TestSalesLedger_RefundAfterOverpayment(t *testing.T) {
	led := sales.New(store.NewMemory())
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Sharma Cycles", "Nashik", "9876501234",
		decimal.NewFromInt(100), decimal.NewFromInt(130))
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	rec, err := led.AddRefund(ctx, id, decimal.NewFromInt(30))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !rec.Remaining.IsZero() {
		t.Errorf("remaining = %s, want 0", rec.Remaining)
	}

	payments, err := led.Payments(ctx, id, ledger.DateRange{})
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Type != ledger.TxDebit {
		t.Errorf("refund on a sales ledger should be a debit entry, got %+v", payments)
	}
}
