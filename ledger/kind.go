package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Descriptor parameterizing the engine per ledger
// =============================================================================

// Kind describes one ledger instance. The engine has no knowledge of
// purchase/sales/service specifics beyond what the descriptor encodes: how
// party ids are minted, which payment direction counts toward the paid
// amount, whether repeat submissions accumulate, and whether the running
// total is derived from item rows.
//
// Domain packages declare their descriptor once:
//
//	// In purchase/kind.go
//	var Kind = ledger.Kind{
//	    Name:     "purchase",
//	    IDPrefix: "PU",
//	    Inbound:  ledger.TxDebit,
//	    ...
//	}
type Kind struct {
	// Name identifies the ledger in logs and metrics.
	Name string

	// IDPrefix prefixes generated party ids ("PU", "CU", "SVC").
	IDPrefix string

	// TimestampIDs switches party id generation from sequential zero-padded
	// numbering to timestamp-based ids (SVC-20250514185648).
	TimestampIDs bool

	// Inbound is the payment direction that reduces the remaining amount.
	// Purchase ledgers pay money out (debit); sales and service ledgers
	// receive it (credit).
	Inbound TxType

	// AccumulateOnMatch makes a repeat submission for an existing name+phone
	// add onto the party's running totals instead of being a lookup.
	// Service jobs for a returning customer grow one balance; purchases and
	// sales do not.
	AccumulateOnMatch bool

	// TotalsFromItems derives the party total from its item rows (plus the
	// opening balance). The service ledger carries visit totals on the party
	// row instead, with item rows as display lines.
	TotalsFromItems bool

	// Tables carries the persisted table names for this kind.
	Tables TableNames
}

// TableNames holds the per-kind table names used by the SQLite store. The
// names match the legacy databases so existing files keep working.
type TableNames struct {
	Party    string
	Items    string
	Payments string
}

// Outbound is the reversed payment direction, used for refunds and credit
// notes.
func (k Kind) Outbound() TxType {
	if k.Inbound == TxDebit {
		return TxCredit
	}
	return TxDebit
}

// Signed returns the payment amount with the sign it contributes to the paid
// total: inbound positive, outbound negative.
func (k Kind) Signed(p Payment) decimal.Decimal {
	if p.Type == k.Inbound {
		return p.Amount
	}
	return p.Amount.Neg()
}

// NextPartyID mints the id following last. Sequential kinds parse the numeric
// suffix of the highest existing id, increment, and zero-pad to five digits;
// timestamp kinds derive the id from the clock.
func (k Kind) NextPartyID(last PartyID, now time.Time) PartyID {
	if k.TimestampIDs {
		return PartyID(k.IDPrefix + "-" + now.Format("20060102150405"))
	}
	if last == "" {
		return PartyID(fmt.Sprintf("%s%05d", k.IDPrefix, 1))
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(last), k.IDPrefix))
	if err != nil {
		// Malformed id in the store; restart the sequence rather than fail
		// party creation.
		n = 0
	}
	return PartyID(fmt.Sprintf("%s%05d", k.IDPrefix, n+1))
}
