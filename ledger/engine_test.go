package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackedge/books/ledger"
	"github.com/trackedge/books/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// debitKind mirrors a supplier-side ledger: totals come from item rows and
// money paid out (debit) reduces the balance.
var debitKind = ledger.Kind{
	Name:            "testbuy",
	IDPrefix:        "PU",
	Inbound:         ledger.TxDebit,
	TotalsFromItems: true,
	Tables:          ledger.TableNames{Party: "p", Items: "i", Payments: "y"},
}

// accumulateKind mirrors the service desk: balances live on the party row
// and repeat submissions accumulate.
var accumulateKind = ledger.Kind{
	Name:              "testsvc",
	IDPrefix:          "SVC",
	TimestampIDs:      true,
	Inbound:           ledger.TxCredit,
	AccumulateOnMatch: true,
	TotalsFromItems:   false,
	Tables:            ledger.TableNames{Party: "p", Items: "i", Payments: "y"},
}

func newTestLedger(t *testing.T, kind ledger.Kind) (*ledger.Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	clock := time.Date(2025, time.May, 14, 18, 56, 48, 0, time.UTC)
	led := ledger.New(kind, mem).WithClock(func() time.Time { return clock })
	return led, mem
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustParty(t *testing.T, led *ledger.Ledger, id ledger.PartyID) *ledger.Party {
	t.Helper()
	p, err := led.GetParty(context.Background(), id)
	require.NoError(t, err)
	return p
}

// requireInvariant checks the books-balance property that must hold for
// every party at rest.
func requireInvariant(t *testing.T, p *ledger.Party) {
	t.Helper()
	require.True(t, p.RemainingAmount.Equal(p.TotalAmount.Sub(p.AmountPaid)),
		"remaining %s != total %s - paid %s", p.RemainingAmount, p.TotalAmount, p.AmountPaid)
	completed := p.RemainingAmount.Abs().LessThan(ledger.Epsilon)
	if completed {
		require.Equal(t, ledger.StatusCompleted, p.Status)
	} else {
		require.Equal(t, ledger.StatusPending, p.Status)
	}
}

// =============================================================================
// PARTY RESOLUTION
// =============================================================================

func TestResolveOrCreateParty_CreatesWithOpeningBalance(t *testing.T) {
	// GIVEN: An empty ledger
	// WHEN: Creating a supplier with total=100, paid=40
	// THEN: The party exists with remaining=60 and a PU00001 id

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, created, err := led.ResolveOrCreateParty(ctx, "Acme Traders", "Pune", "9812345678", dec("100"), dec("40"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ledger.PartyID("PU00001"), id)

	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("100")))
	assert.True(t, p.AmountPaid.Equal(dec("40")))
	assert.True(t, p.RemainingAmount.Equal(dec("60")))
	assert.Equal(t, ledger.StatusPending, p.Status)
	requireInvariant(t, p)
}

func TestResolveOrCreateParty_SecondCallIsLookup(t *testing.T) {
	// GIVEN: A supplier already on the books
	// WHEN: Submitting the same name+phone again with different amounts
	// THEN: The existing id comes back unchanged; nothing is created

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id1, created, err := led.ResolveOrCreateParty(ctx, "Acme Traders", "Pune", "9812345678", dec("100"), dec("40"))
	require.NoError(t, err)
	require.True(t, created)

	id2, created, err := led.ResolveOrCreateParty(ctx, "Acme Traders", "Pune", "9812345678", dec("999"), dec("0"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)

	// Totals were not touched by the repeat submission.
	p := mustParty(t, led, id1)
	assert.True(t, p.TotalAmount.Equal(dec("100")))
	requireInvariant(t, p)
}

func TestResolveOrCreateParty_PhoneConflictRejected(t *testing.T) {
	// GIVEN: A phone number bound to "Acme Traders"
	// WHEN: A different name arrives with the same phone
	// THEN: The call fails with a phone conflict and no party is created

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	_, _, err := led.ResolveOrCreateParty(ctx, "Acme Traders", "Pune", "9812345678", dec("100"), dec("0"))
	require.NoError(t, err)

	_, _, err = led.ResolveOrCreateParty(ctx, "Zenith Motors", "Pune", "9812345678", dec("50"), dec("0"))
	require.Error(t, err)

	var conflict *ledger.PhoneConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "9812345678", conflict.Phone)
	assert.Equal(t, "Acme Traders", conflict.ExistingName)
	assert.ErrorIs(t, err, ledger.ErrPhoneConflict)
	assert.True(t, ledger.IsConflict(err))

	// The rejected submission left no trace.
	last, err := led.Store().LastPartyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.PartyID("PU00001"), last)
}

func TestResolveOrCreateParty_SequentialIDs(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	for i, name := range []string{"A", "B", "C"} {
		id, _, err := led.ResolveOrCreateParty(ctx, name, "", "900000000"+string(rune('0'+i)), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		want := []ledger.PartyID{"PU00001", "PU00002", "PU00003"}[i]
		assert.Equal(t, want, id)
	}
}

// =============================================================================
// ITEMS
// =============================================================================

func TestAddItem_RaisesTotalAndKeepsInvariant(t *testing.T) {
	// GIVEN: A supplier with total=100, paid=40
	// WHEN: Adding an item worth 50
	// THEN: Total becomes 150 and remaining 110

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme Traders", "Pune", "9812345678", dec("100"), dec("40"))
	require.NoError(t, err)

	it, err := led.AddItem(ctx, id, ledger.ItemInput{
		Name: "brake pad", Qty: dec("5"), Price: dec("10"), Amount: dec("50"),
	})
	require.NoError(t, err)
	assert.NotZero(t, it.ID)

	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("150")), "total %s", p.TotalAmount)
	assert.True(t, p.RemainingAmount.Equal(dec("110")))
	requireInvariant(t, p)
}

func TestAddItem_AmountTrustedNotRecomputed(t *testing.T) {
	// The caller's rounded amount is preserved even when it differs from
	// qty x price.
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	_, err = led.AddItem(ctx, id, ledger.ItemInput{
		Name: "wire", Qty: dec("3"), Price: dec("33.333"), Amount: dec("100"),
	})
	require.NoError(t, err)

	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("100")))
}

func TestAddItem_UnknownPartyRejected(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)

	_, err := led.AddItem(context.Background(), "PU09999", ledger.ItemInput{
		Name: "bolt", Qty: dec("1"), Price: dec("2"), Amount: dec("2"),
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteItem_Rebalances(t *testing.T) {
	// GIVEN: A supplier whose total is carried by two items
	// WHEN: Deleting one of them
	// THEN: The total drops by that item's amount and the invariant holds

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	it1, err := led.AddItem(ctx, id, ledger.ItemInput{Name: "a", Qty: dec("1"), Price: dec("30"), Amount: dec("30")})
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "b", Qty: dec("1"), Price: dec("70"), Amount: dec("70")})
	require.NoError(t, err)

	require.NoError(t, led.DeleteItem(ctx, it1.ID))

	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("70")))
	requireInvariant(t, p)
}

func TestReturnItem_PartialReturn(t *testing.T) {
	// GIVEN: An item row of 10 units at 5 each
	// WHEN: Returning 4 units
	// THEN: The row shrinks to 6 units / 30 and the party total drops by 20

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	it, err := led.AddItem(ctx, id, ledger.ItemInput{Name: "washer", Qty: dec("10"), Price: dec("5"), Amount: dec("50")})
	require.NoError(t, err)

	updated, err := led.ReturnItem(ctx, it.ID, dec("4"))
	require.NoError(t, err)
	assert.True(t, updated.Qty.Equal(dec("6")))
	assert.True(t, updated.Amount.Equal(dec("30")))

	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("30")))
	requireInvariant(t, p)
}

func TestReturnItem_BoundViolationsRejected(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	it, err := led.AddItem(ctx, id, ledger.ItemInput{Name: "washer", Qty: dec("10"), Price: dec("5"), Amount: dec("50")})
	require.NoError(t, err)

	for _, qty := range []string{"0", "-1", "10", "11"} {
		_, err := led.ReturnItem(ctx, it.ID, dec(qty))
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity, "qty=%s", qty)
	}

	// Nothing moved.
	p := mustParty(t, led, id)
	assert.True(t, p.TotalAmount.Equal(dec("50")))
	got, err := led.Store().ItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Qty.Equal(dec("10")))
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestRecordPayment_BoundedFastPath(t *testing.T) {
	// GIVEN: A supplier with remaining=110
	// WHEN: Recording a payment over the remaining amount
	// THEN: It is rejected without inserting a row; paying exactly the
	//       remaining amount completes the party

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("110"), decimal.Zero)
	require.NoError(t, err)

	_, err = led.RecordPayment(ctx, id, dec("200"))
	require.Error(t, err)
	var amtErr *ledger.AmountError
	require.ErrorAs(t, err, &amtErr)
	assert.True(t, amtErr.Max.Equal(dec("110")))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	payments, err := led.Payments(ctx, id, ledger.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, payments)

	rec, err := led.RecordPayment(ctx, id, dec("110"))
	require.NoError(t, err)
	assert.True(t, rec.Remaining.IsZero())
	assert.Equal(t, ledger.StatusCompleted, rec.Status)
	requireInvariant(t, mustParty(t, led, id))
}

func TestRecordPayment_ZeroAndNegativeRejected(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("50"), decimal.Zero)
	require.NoError(t, err)

	for _, amount := range []string{"0", "-5"} {
		_, err := led.RecordPayment(ctx, id, dec(amount))
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "amount=%s", amount)
	}
}

func TestAddPayment_OutboundIncreasesRemaining(t *testing.T) {
	// An outbound entry on a debit ledger is money coming back in: the
	// paid total drops and the remaining amount grows.
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), dec("100"))
	require.NoError(t, err)

	_, err = led.AddPayment(ctx, id, ledger.PaymentInput{Amount: dec("30"), Type: ledger.TxCredit})
	require.NoError(t, err)

	p := mustParty(t, led, id)
	assert.True(t, p.AmountPaid.Equal(dec("70")))
	assert.True(t, p.RemainingAmount.Equal(dec("30")))
	requireInvariant(t, p)
}

func TestAddPayment_GeneratesPaymentID(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), decimal.Zero)
	require.NoError(t, err)

	pay, err := led.AddPayment(ctx, id, ledger.PaymentInput{Amount: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "PAY20250514185648", pay.PaymentID)
	assert.Equal(t, ledger.TxDebit, pay.Type)
}

func TestAddRefund_BoundedByOverpayment(t *testing.T) {
	// GIVEN: A party overpaid by 25 (remaining = -25)
	// WHEN: Refunding more than 25
	// THEN: Rejected; refunding 25 brings the party back to zero

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), dec("125"))
	require.NoError(t, err)
	p := mustParty(t, led, id)
	require.True(t, p.InCredit())
	require.True(t, p.MaxRefundable().Equal(dec("25")))

	_, err = led.AddRefund(ctx, id, dec("30"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	rec, err := led.AddRefund(ctx, id, dec("25"))
	require.NoError(t, err)
	assert.True(t, rec.Remaining.IsZero())
	assert.Equal(t, ledger.StatusCompleted, rec.Status)
	requireInvariant(t, mustParty(t, led, id))
}

func TestDeleteAfterSettle_RefundClearsCredit(t *testing.T) {
	// GIVEN: A settled party whose 20-unit item is then deleted
	// WHEN: The books go 20 into the party's credit
	// THEN: Refunds above 20 are rejected; a 20 refund settles to zero

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	_, err = led.AddItem(ctx, id, ledger.ItemInput{
		Name: "engine oil", Qty: dec("4"), Price: dec("20"), Amount: dec("80"),
	})
	require.NoError(t, err)
	clutch, err := led.AddItem(ctx, id, ledger.ItemInput{
		Name: "clutch plate", Qty: dec("1"), Price: dec("20"), Amount: dec("20"),
	})
	require.NoError(t, err)

	rec, err := led.RecordPayment(ctx, id, dec("100"))
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCompleted, rec.Status)

	require.NoError(t, led.DeleteItem(ctx, clutch.ID))

	p := mustParty(t, led, id)
	assert.True(t, p.RemainingAmount.Equal(dec("-20")))
	assert.True(t, p.InCredit())
	assert.True(t, p.MaxRefundable().Equal(dec("20")))
	requireInvariant(t, p)

	_, err = led.AddRefund(ctx, id, dec("25"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	rec, err = led.AddRefund(ctx, id, dec("20"))
	require.NoError(t, err)
	assert.True(t, rec.Remaining.IsZero())
	assert.Equal(t, ledger.StatusCompleted, rec.Status)
	requireInvariant(t, mustParty(t, led, id))
}

func TestAddRefund_RejectedWhenNotInCredit(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), dec("40"))
	require.NoError(t, err)

	_, err = led.AddRefund(ctx, id, dec("10"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

// =============================================================================
// COMPLETION EPSILON
// =============================================================================

func TestStatus_EpsilonTolerance(t *testing.T) {
	// A residual under a paisa counts as settled; a full paisa does not.
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), dec("99.995"))
	require.NoError(t, err)
	p := mustParty(t, led, id)
	assert.Equal(t, ledger.StatusCompleted, p.Status)

	id2, _, err := led.ResolveOrCreateParty(ctx, "Best", "", "9000000002", dec("100"), dec("99.99"))
	require.NoError(t, err)
	p2 := mustParty(t, led, id2)
	assert.Equal(t, ledger.StatusPending, p2.Status)
}

// =============================================================================
// ACCUMULATE (SERVICE) SEMANTICS
// =============================================================================

func TestAccumulateParty_CreateThenAccumulate(t *testing.T) {
	// GIVEN: A first visit creating a job with total=500, paid=200
	// WHEN: The same customer returns with total=300, paid=300
	// THEN: The balance accumulates to total=800, paid=500, remaining=300

	led, _ := newTestLedger(t, accumulateKind)
	ctx := context.Background()

	res, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("500"), dec("200"))
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, ledger.PartyID("SVC-20250514185648"), res.PartyID)

	res2, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("300"), dec("300"))
	require.NoError(t, err)
	assert.True(t, res2.Updated)
	assert.Equal(t, res.PartyID, res2.PartyID)
	assert.True(t, res2.Total.Equal(dec("800")))
	assert.True(t, res2.Paid.Equal(dec("500")))
	assert.True(t, res2.Remaining.Equal(dec("300")))
	requireInvariant(t, mustParty(t, led, res.PartyID))
}

func TestAccumulateParty_ConflictsRejected(t *testing.T) {
	led, _ := newTestLedger(t, accumulateKind)
	ctx := context.Background()

	_, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("500"), decimal.Zero)
	require.NoError(t, err)

	// Same phone, different name.
	_, err = led.AccumulateParty(ctx, "Suresh", "Nashik", "9876543210", dec("100"), decimal.Zero)
	assert.ErrorIs(t, err, ledger.ErrPhoneConflict)

	// Same name, different phone.
	_, err = led.AccumulateParty(ctx, "Ravi", "Nashik", "9000000000", dec("100"), decimal.Zero)
	assert.ErrorIs(t, err, ledger.ErrNameConflict)
	var nameErr *ledger.NameConflictError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "9876543210", nameErr.ExistingPhone)
}

func TestAccumulateParty_WrongKindRejected(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)

	_, err := led.AccumulateParty(context.Background(), "Ravi", "", "9876543210", dec("10"), decimal.Zero)
	assert.Error(t, err)
}

func TestServiceItems_DoNotMoveTotals(t *testing.T) {
	// Item rows on an accumulate ledger are display lines; the balance
	// only moves through visits, spares, and payments.
	led, _ := newTestLedger(t, accumulateKind)
	ctx := context.Background()

	res, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("500"), decimal.Zero)
	require.NoError(t, err)

	_, err = led.AddItem(ctx, res.PartyID, ledger.ItemInput{
		Name: "display repair", Qty: dec("1"), Price: dec("500"), Amount: dec("500"),
	})
	require.NoError(t, err)

	p := mustParty(t, led, res.PartyID)
	assert.True(t, p.TotalAmount.Equal(dec("500")))
	requireInvariant(t, p)
}

func TestAddSpareAmount_RaisesBalance(t *testing.T) {
	led, _ := newTestLedger(t, accumulateKind)
	ctx := context.Background()

	res, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("500"), dec("500"))
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCompleted, res.Status)

	require.NoError(t, led.AddSpareAmount(ctx, res.PartyID, dec("120")))

	p := mustParty(t, led, res.PartyID)
	assert.True(t, p.TotalAmount.Equal(dec("620")))
	assert.True(t, p.RemainingAmount.Equal(dec("120")))
	assert.Equal(t, ledger.StatusPending, p.Status)
	requireInvariant(t, p)

	// THEN the charge is on record as a line item
	items, err := led.Items(ctx, res.PartyID, ledger.DateRange{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Spare Product", items[0].Name)
	assert.True(t, items[0].Amount.Equal(dec("120")))

	err = led.AddSpareAmount(ctx, res.PartyID, dec("-5"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestAddSpareAmount_DeleteTakesChargeBackOff(t *testing.T) {
	led, _ := newTestLedger(t, accumulateKind)
	ctx := context.Background()

	res, err := led.AccumulateParty(ctx, "Ravi", "Nashik", "9876543210", dec("500"), dec("500"))
	require.NoError(t, err)
	require.NoError(t, led.AddSpareAmount(ctx, res.PartyID, dec("120")))

	items, err := led.Items(ctx, res.PartyID, ledger.DateRange{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// WHEN the spare line is deleted, the balance settles back
	require.NoError(t, led.DeleteItem(ctx, items[0].ID))

	p := mustParty(t, led, res.PartyID)
	assert.True(t, p.TotalAmount.Equal(dec("500")))
	assert.Equal(t, ledger.StatusCompleted, p.Status)
	requireInvariant(t, p)
}

// =============================================================================
// CONTACT UPDATES
// =============================================================================

func TestUpdatePartyContact(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "Pune", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	id2, _, err := led.ResolveOrCreateParty(ctx, "Best", "Pune", "9000000002", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	// Moving to a free phone works; keeping your own phone works.
	require.NoError(t, led.UpdatePartyContact(ctx, id, "9000000009", "Mumbai"))
	require.NoError(t, led.UpdatePartyContact(ctx, id, "9000000009", "Nagpur"))

	p := mustParty(t, led, id)
	assert.Equal(t, "9000000009", p.Phone)
	assert.Equal(t, "Nagpur", p.Place)

	// Taking another party's phone is a conflict.
	err = led.UpdatePartyContact(ctx, id2, "9000000009", "Pune")
	assert.ErrorIs(t, err, ledger.ErrPhoneConflict)
}
