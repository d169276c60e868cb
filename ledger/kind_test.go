package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNextPartyID_Sequential(t *testing.T) {
	k := Kind{Name: "purchase", IDPrefix: "PU"}
	now := time.Date(2025, time.May, 14, 18, 56, 48, 0, time.UTC)

	cases := []struct {
		last PartyID
		want PartyID
	}{
		{"", "PU00001"},
		{"PU00001", "PU00002"},
		{"PU00099", "PU00100"},
		{"PU99999", "PU100000"}, // grows past the pad width rather than wrapping
		{"PUgarbage", "PU00001"},
	}
	for _, c := range cases {
		if got := k.NextPartyID(c.last, now); got != c.want {
			t.Errorf("NextPartyID(%q) = %q, want %q", c.last, got, c.want)
		}
	}
}

func TestNextPartyID_Timestamp(t *testing.T) {
	k := Kind{Name: "service", IDPrefix: "SVC", TimestampIDs: true}
	now := time.Date(2025, time.May, 14, 18, 56, 48, 0, time.UTC)

	if got := k.NextPartyID("SVC-whatever", now); got != "SVC-20250514185648" {
		t.Errorf("NextPartyID = %q", got)
	}
}

func TestKind_SignedAndOutbound(t *testing.T) {
	buy := Kind{Inbound: TxDebit}
	sell := Kind{Inbound: TxCredit}

	if buy.Outbound() != TxCredit || sell.Outbound() != TxDebit {
		t.Fatal("outbound direction not reversed")
	}

	amt := decimal.NewFromInt(50)
	if !buy.Signed(Payment{Amount: amt, Type: TxDebit}).Equal(amt) {
		t.Error("inbound payment should be positive")
	}
	if !buy.Signed(Payment{Amount: amt, Type: TxCredit}).Equal(amt.Neg()) {
		t.Error("outbound payment should be negative")
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		remaining string
		want      Status
	}{
		{"0", StatusCompleted},
		{"0.005", StatusCompleted},
		{"-0.005", StatusCompleted},
		{"0.01", StatusPending},
		{"-0.01", StatusPending},
		{"100", StatusPending},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.remaining)
		if got := StatusFor(d); got != c.want {
			t.Errorf("StatusFor(%s) = %s, want %s", c.remaining, got, c.want)
		}
	}
}
