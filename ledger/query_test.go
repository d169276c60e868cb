package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackedge/books/ledger"
)

func TestSearchByName_CappedAtFive(t *testing.T) {
	// GIVEN: Seven parties matching the prefix
	// WHEN: Searching by name
	// THEN: Exactly five come back

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		phone := "900000000" + string(rune('0'+i))
		_, _, err := led.ResolveOrCreateParty(ctx, "Acme "+string(rune('A'+i)), "", phone, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
	}

	parties, err := led.SearchByName(ctx, "Acme")
	require.NoError(t, err)
	assert.Len(t, parties, 5)
}

func TestSearchByPhone_PrefixMatch(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	_, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9812345678", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	_, _, err = led.ResolveOrCreateParty(ctx, "Best", "", "8123456789", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	parties, err := led.SearchByPhone(ctx, "98")
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Acme", parties[0].Name)
}

func TestGetParty_NotFound(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)

	_, err := led.GetParty(context.Background(), "PU00042")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = led.FindParty(context.Background(), "Nobody", "0000000000")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestActivityDates_UnionOfItemsAndPayments(t *testing.T) {
	// GIVEN: An item on May 14 and a payment on May 14 (same clock)
	// THEN: The day appears once

	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("100"), decimal.Zero)
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "a", Qty: dec("1"), Price: dec("10"), Amount: dec("10")})
	require.NoError(t, err)
	_, err = led.RecordPayment(ctx, id, dec("50"))
	require.NoError(t, err)

	dates, err := led.ActivityDates(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-05-14"}, dates)
}

func TestRecentPayments_OrderAndLimit(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", dec("1000"), decimal.Zero)
	require.NoError(t, err)

	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := led.AddPayment(ctx, id, ledger.PaymentInput{
			Amount: dec("10"),
			Date:   base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	recent, err := led.RecentPayments(ctx, ledger.OrderRecent, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Acme", recent[0].PartyName)
	assert.True(t, recent[0].Date.After(recent[1].Date))

	oldest, err := led.RecentPayments(ctx, ledger.OrderOldest, 2)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.True(t, oldest[0].Date.Before(oldest[1].Date))
}

func TestItemsInRange_FiltersByCalendarDate(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	may10 := time.Date(2025, time.May, 10, 9, 0, 0, 0, time.UTC)
	may20 := time.Date(2025, time.May, 20, 9, 0, 0, 0, time.UTC)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "early", Qty: dec("1"), Price: dec("1"), Amount: dec("1"), Date: may10})
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "late", Qty: dec("1"), Price: dec("1"), Amount: dec("1"), Date: may20})
	require.NoError(t, err)

	items, err := led.ItemsInRange(ctx, ledger.DateRange{
		From: time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "late", items[0].Item.Name)
	assert.Equal(t, "Acme", items[0].PartyName)
}

func TestSuggestItems(t *testing.T) {
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "brake pad", Qty: dec("2"), Price: dec("150"), Amount: dec("300")})
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "brake disc", Qty: dec("1"), Price: dec("900"), Amount: dec("900")})
	require.NoError(t, err)
	_, err = led.AddItem(ctx, id, ledger.ItemInput{Name: "chain", Qty: dec("1"), Price: dec("450"), Amount: dec("450")})
	require.NoError(t, err)

	suggestions, err := led.SuggestItems(ctx, "brake")
	require.NoError(t, err)
	assert.Len(t, suggestions, 2)
}

func TestFindItemByAttributes_LowestIDWins(t *testing.T) {
	// Two identical rows; the fallback must deterministically pick the
	// first one inserted.
	led, _ := newTestLedger(t, debitKind)
	ctx := context.Background()

	id, _, err := led.ResolveOrCreateParty(ctx, "Acme", "", "9000000001", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	it1, err := led.AddItem(ctx, id, ledger.ItemInput{Name: "bolt", Qty: dec("10"), Price: dec("2"), Amount: dec("20")})
	require.NoError(t, err)
	it2, err := led.AddItem(ctx, id, ledger.ItemInput{Name: "bolt", Qty: dec("10"), Price: dec("2"), Amount: dec("20")})
	require.NoError(t, err)
	require.Greater(t, it2.ID, it1.ID)

	found, err := led.FindItemByAttributes(ctx, id, ledger.Item{
		Name: "bolt", Qty: dec("10"), Price: dec("2"), Amount: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, it1.ID, found.ID)
}
