/*
engine.go - Mutating ledger operations

PURPOSE:
  The Ledger is the write surface of one ledger kind. Every operation runs
  inside a single store transaction and ends with a recompute: the party's
  total, paid, and remaining amounts are re-derived from its opening
  balances plus item/payment rows before the transaction commits.

CRITICAL INVARIANT:
  For every party at rest:

    remaining_amount == total_amount - amount_paid
    status == completed  <=>  |remaining_amount| < 0.01

  This holds after every operation, not eventually. The recompute is always
  a full re-derivation from the child tables; nothing increments the party
  row ad hoc, so the totals cannot drift from the authoritative sums.

FAILURE CONTRACT:
  On any error the transaction rolls back and the party's totals are left
  exactly as before the call. Validation failures (conflicts, bounds) carry
  the domain taxonomy from errors.go; storage failures are wrapped in
  *PersistenceError and never leak raw driver errors.

SEE ALSO:
  - query.go: The read-only query surface
  - kind.go:  The descriptor that parameterizes direction and id policy
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER - One instance per kind (purchase, sales, service)
// =============================================================================

type Ledger struct {
	kind  Kind
	store TxStore
	log   zerolog.Logger
	now   func() time.Time
}

func New(kind Kind, store TxStore) *Ledger {
	return &Ledger{
		kind:  kind,
		store: store,
		log:   zerolog.Nop(),
		now:   time.Now,
	}
}

// WithLogger attaches a logger. Operations log at debug, failures at error.
func (l *Ledger) WithLogger(log zerolog.Logger) *Ledger {
	l.log = log.With().Str("ledger", l.kind.Name).Logger()
	return l
}

// WithClock overrides the time source (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) Kind() Kind    { return l.kind }
func (l *Ledger) Store() Store  { return l.store }

// =============================================================================
// PARTY RESOLUTION
// =============================================================================

// ResolveOrCreateParty returns the id of the party matching (name, phone),
// creating it when absent. A phone already bound to a different name is a
// hard conflict: nothing is created or mutated.
func (l *Ledger) ResolveOrCreateParty(ctx context.Context, name, place, phone string, openingTotal, openingPaid decimal.Decimal) (PartyID, bool, error) {
	var (
		id      PartyID
		created bool
	)
	err := l.store.WithTx(ctx, func(s Store) error {
		existing, err := s.PartyByNamePhone(ctx, name, phone)
		if err != nil {
			return &PersistenceError{Op: "resolve party", Err: err}
		}
		if existing != nil {
			id = existing.ID
			return nil
		}

		byPhone, err := s.PartyByPhone(ctx, phone)
		if err != nil {
			return &PersistenceError{Op: "resolve party", Err: err}
		}
		if byPhone != nil {
			return &PhoneConflictError{Phone: phone, ExistingName: byPhone.Name}
		}

		last, err := s.LastPartyID(ctx)
		if err != nil {
			return &PersistenceError{Op: "resolve party", Err: err}
		}
		id = l.kind.NextPartyID(last, l.now())
		created = true

		remaining := openingTotal.Sub(openingPaid)
		return l.insertParty(ctx, s, Party{
			ID:              id,
			Name:            name,
			Place:           place,
			Phone:           phone,
			OpeningTotal:    openingTotal,
			OpeningPaid:     openingPaid,
			TotalAmount:     openingTotal,
			AmountPaid:      openingPaid,
			RemainingAmount: remaining,
			Status:          StatusFor(remaining),
			Date:            l.now(),
		})
	})
	if err != nil {
		l.log.Error().Err(err).Str("name", name).Str("phone", phone).Msg("resolve party failed")
		return "", false, err
	}
	l.log.Debug().Str("party", string(id)).Bool("created", created).Msg("party resolved")
	return id, created, nil
}

// AccumulateParty implements the service ledger's accumulate-or-create
// submission: a repeat visit for an existing name+phone adds the submitted
// totals onto the running balance instead of opening a second one.
type AccumulateResult struct {
	PartyID   PartyID
	Updated   bool // false when a new party was created
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    Status
}

func (l *Ledger) AccumulateParty(ctx context.Context, name, place, phone string, total, paid decimal.Decimal) (*AccumulateResult, error) {
	if !l.kind.AccumulateOnMatch {
		return nil, fmt.Errorf("%s ledger does not accumulate party balances", l.kind.Name)
	}

	var res AccumulateResult
	err := l.store.WithTx(ctx, func(s Store) error {
		byPhone, err := s.PartyByPhone(ctx, phone)
		if err != nil {
			return &PersistenceError{Op: "accumulate party", Err: err}
		}
		if byPhone != nil {
			if byPhone.Name != name {
				return &PhoneConflictError{Phone: phone, ExistingName: byPhone.Name}
			}
			// Returning customer: grow the opening balance and recompute.
			newTotal := byPhone.OpeningTotal.Add(total)
			newPaid := byPhone.OpeningPaid.Add(paid)
			if err := s.UpdatePartyOpening(ctx, byPhone.ID, newTotal, newPaid); err != nil {
				return &PersistenceError{Op: "accumulate party", Err: err}
			}
			if err := s.UpdatePartyContact(ctx, byPhone.ID, phone, place); err != nil {
				return &PersistenceError{Op: "accumulate party", Err: err}
			}
			p, err := l.recompute(ctx, s, byPhone.ID)
			if err != nil {
				return err
			}
			res = AccumulateResult{
				PartyID: p.ID, Updated: true,
				Total: p.TotalAmount, Paid: p.AmountPaid,
				Remaining: p.RemainingAmount, Status: p.Status,
			}
			return nil
		}

		byName, err := s.PartyByName(ctx, name)
		if err != nil {
			return &PersistenceError{Op: "accumulate party", Err: err}
		}
		if byName != nil {
			return &NameConflictError{Name: name, ExistingPhone: byName.Phone}
		}

		id := l.kind.NextPartyID("", l.now())
		remaining := total.Sub(paid)
		p := Party{
			ID:              id,
			Name:            name,
			Place:           place,
			Phone:           phone,
			OpeningTotal:    total,
			OpeningPaid:     paid,
			TotalAmount:     total,
			AmountPaid:      paid,
			RemainingAmount: remaining,
			Status:          StatusFor(remaining),
			Date:            l.now(),
		}
		if err := l.insertParty(ctx, s, p); err != nil {
			return err
		}
		res = AccumulateResult{
			PartyID: id, Updated: false,
			Total: total, Paid: paid,
			Remaining: remaining, Status: p.Status,
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Str("name", name).Str("phone", phone).Msg("accumulate party failed")
		return nil, err
	}
	l.log.Debug().Str("party", string(res.PartyID)).Bool("updated", res.Updated).Msg("party accumulated")
	return &res, nil
}

// UpdatePartyContact rewrites a party's phone and place. The new phone must
// not belong to another party.
func (l *Ledger) UpdatePartyContact(ctx context.Context, id PartyID, phone, place string) error {
	err := l.store.WithTx(ctx, func(s Store) error {
		p, err := l.requireParty(ctx, s, id)
		if err != nil {
			return err
		}
		owner, err := s.PartyByPhone(ctx, phone)
		if err != nil {
			return &PersistenceError{Op: "update contact", Err: err}
		}
		if owner != nil && owner.ID != p.ID {
			return &PhoneConflictError{Phone: phone, ExistingName: owner.Name}
		}
		if err := s.UpdatePartyContact(ctx, id, phone, place); err != nil {
			return &PersistenceError{Op: "update contact", Err: err}
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(id)).Msg("update contact failed")
	}
	return err
}

// =============================================================================
// ITEMS
// =============================================================================

// ItemInput is a line item as submitted. Amount is trusted from the caller
// (caller rounding of qty x price is preserved), not recomputed.
type ItemInput struct {
	Name        string
	Qty         decimal.Decimal
	Price       decimal.Decimal
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// AddItem inserts a line item and recomputes the owning party's totals in
// the same transaction.
func (l *Ledger) AddItem(ctx context.Context, partyID PartyID, in ItemInput) (*Item, error) {
	if in.Date.IsZero() {
		in.Date = l.now()
	}
	var out Item
	err := l.store.WithTx(ctx, func(s Store) error {
		if _, err := l.requireParty(ctx, s, partyID); err != nil {
			return err
		}
		out = Item{
			PartyID:     partyID,
			Name:        in.Name,
			Qty:         in.Qty,
			Price:       in.Price,
			Description: in.Description,
			Amount:      in.Amount,
			Date:        in.Date,
		}
		id, err := s.InsertItem(ctx, out)
		if err != nil {
			return &PersistenceError{Op: "add item", Err: err}
		}
		out.ID = id
		_, err = l.recompute(ctx, s, partyID)
		return err
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(partyID)).Msg("add item failed")
		return nil, err
	}
	l.log.Debug().Str("party", string(partyID)).Int64("item", out.ID).Str("amount", out.Amount.String()).Msg("item added")
	return &out, nil
}

// UpdateItemDetails edits an item's mutable fields (name, description).
// Quantity changes go through ReturnItem, which also rebalances the party.
func (l *Ledger) UpdateItemDetails(ctx context.Context, itemID int64, name, description string) error {
	err := l.store.WithTx(ctx, func(s Store) error {
		if _, err := l.requireItem(ctx, s, itemID); err != nil {
			return err
		}
		if err := s.UpdateItemDetails(ctx, itemID, name, description); err != nil {
			return &PersistenceError{Op: "update item", Err: err}
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Int64("item", itemID).Msg("update item failed")
	}
	return err
}

// DeleteItem removes a line item and rebalances the owning party.
func (l *Ledger) DeleteItem(ctx context.Context, itemID int64) error {
	err := l.store.WithTx(ctx, func(s Store) error {
		it, err := l.requireItem(ctx, s, itemID)
		if err != nil {
			return err
		}
		if err := s.DeleteItem(ctx, itemID); err != nil {
			return &PersistenceError{Op: "delete item", Err: err}
		}
		if !l.kind.TotalsFromItems {
			// Item amounts live inside the accumulated opening total for
			// this kind; shrink it so the recompute sees the removal.
			p, err := l.requireParty(ctx, s, it.PartyID)
			if err != nil {
				return err
			}
			if err := s.UpdatePartyOpening(ctx, p.ID, p.OpeningTotal.Sub(it.Amount), p.OpeningPaid); err != nil {
				return &PersistenceError{Op: "delete item", Err: err}
			}
		}
		_, err = l.recompute(ctx, s, it.PartyID)
		return err
	})
	if err != nil {
		l.log.Error().Err(err).Int64("item", itemID).Msg("delete item failed")
	}
	return err
}

// ReturnItem reverses part of an item's quantity: the row keeps its price
// but shrinks to qty - returnQty, and the refunded amount comes off the
// party's total. A return of the full quantity is rejected; callers delete
// the item instead.
func (l *Ledger) ReturnItem(ctx context.Context, itemID int64, returnQty decimal.Decimal) (*Item, error) {
	var out Item
	err := l.store.WithTx(ctx, func(s Store) error {
		it, err := l.requireItem(ctx, s, itemID)
		if err != nil {
			return err
		}
		if !returnQty.IsPositive() || returnQty.GreaterThanOrEqual(it.Qty) {
			return &QuantityError{Requested: returnQty, Available: it.Qty}
		}

		newQty := it.Qty.Sub(returnQty)
		newAmount := newQty.Mul(it.Price)
		refund := returnQty.Mul(it.Price)

		if err := s.UpdateItemQuantity(ctx, itemID, newQty, newAmount); err != nil {
			return &PersistenceError{Op: "return item", Err: err}
		}
		if !l.kind.TotalsFromItems {
			p, err := l.requireParty(ctx, s, it.PartyID)
			if err != nil {
				return err
			}
			if err := s.UpdatePartyOpening(ctx, p.ID, p.OpeningTotal.Sub(refund), p.OpeningPaid); err != nil {
				return &PersistenceError{Op: "return item", Err: err}
			}
		}
		if _, err := l.recompute(ctx, s, it.PartyID); err != nil {
			return err
		}

		out = *it
		out.Qty = newQty
		out.Amount = newAmount
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Int64("item", itemID).Msg("return item failed")
		return nil, err
	}
	l.log.Debug().Int64("item", out.ID).Str("qty", out.Qty.String()).Msg("item returned")
	return &out, nil
}

// Item fields for charges added through AddSpareAmount.
const (
	spareItemName        = "Spare Product"
	spareItemDescription = "Additional service to other repaired Parts"
)

// AddSpareAmount adds a charge directly onto the party's running total
// (service ledgers: spare parts billed onto the job). The charge also gets
// an item row so it shows up in the job's history; deleting that row takes
// the charge back off the balance.
func (l *Ledger) AddSpareAmount(ctx context.Context, partyID PartyID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &AmountError{Requested: amount, Max: amount}
	}
	err := l.store.WithTx(ctx, func(s Store) error {
		p, err := l.requireParty(ctx, s, partyID)
		if err != nil {
			return err
		}
		if err := s.UpdatePartyOpening(ctx, p.ID, p.OpeningTotal.Add(amount), p.OpeningPaid); err != nil {
			return &PersistenceError{Op: "add spare amount", Err: err}
		}
		if _, err := s.InsertItem(ctx, Item{
			PartyID:     partyID,
			Name:        spareItemName,
			Qty:         decimal.NewFromInt(1),
			Price:       amount,
			Description: spareItemDescription,
			Amount:      amount,
			Date:        l.now(),
		}); err != nil {
			return &PersistenceError{Op: "add spare amount", Err: err}
		}
		_, err = l.recompute(ctx, s, partyID)
		return err
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(partyID)).Msg("add spare amount failed")
	}
	return err
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentInput is a payment entry as submitted.
type PaymentInput struct {
	PaymentID string // generated when empty
	Date      time.Time
	Amount    decimal.Decimal
	Type      TxType // defaults to the kind's inbound direction
	Remarks   string
}

// AddPayment inserts a payment entry and recomputes the party's paid and
// remaining amounts from the full payment history. This is the canonical,
// drift-proof path for any payment direction.
func (l *Ledger) AddPayment(ctx context.Context, partyID PartyID, in PaymentInput) (*Payment, error) {
	if in.Type == "" {
		in.Type = l.kind.Inbound
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, &AmountError{Requested: in.Amount, Max: in.Amount}
	}
	if in.Date.IsZero() {
		in.Date = l.now()
	}
	if in.PaymentID == "" {
		in.PaymentID = NewPaymentID(l.now())
	}

	var out Payment
	err := l.store.WithTx(ctx, func(s Store) error {
		if _, err := l.requireParty(ctx, s, partyID); err != nil {
			return err
		}
		out = Payment{
			PartyID:   partyID,
			PaymentID: in.PaymentID,
			Date:      in.Date,
			Amount:    in.Amount,
			Type:      in.Type,
			Remarks:   in.Remarks,
		}
		id, err := s.InsertPayment(ctx, out)
		if err != nil {
			return &PersistenceError{Op: "add payment", Err: err}
		}
		out.ID = id
		_, err = l.recompute(ctx, s, partyID)
		return err
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(partyID)).Msg("add payment failed")
		return nil, err
	}
	l.log.Debug().Str("party", string(partyID)).Str("payment", out.PaymentID).Str("amount", out.Amount.String()).Msg("payment added")
	return &out, nil
}

// Receipt is what the record-payment screens render after a payment lands.
type Receipt struct {
	PaymentID string
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    Status
}

// RecordPayment is the bounded fast path used by "record payment" screens:
// the amount must be positive and no more than the current remaining amount.
// On a bound violation no payment row is inserted. The totals are still
// fully recomputed rather than incremented, so this path cannot drift.
func (l *Ledger) RecordPayment(ctx context.Context, partyID PartyID, amount decimal.Decimal) (*Receipt, error) {
	var rec Receipt
	err := l.store.WithTx(ctx, func(s Store) error {
		p, err := l.requireParty(ctx, s, partyID)
		if err != nil {
			return err
		}
		if !amount.IsPositive() || amount.GreaterThan(p.RemainingAmount) {
			return &AmountError{Requested: amount, Max: p.RemainingAmount}
		}

		pay := Payment{
			PartyID:   partyID,
			PaymentID: NewPaymentID(l.now()),
			Date:      l.now(),
			Amount:    amount,
			Type:      l.kind.Inbound,
		}
		if _, err := s.InsertPayment(ctx, pay); err != nil {
			return &PersistenceError{Op: "record payment", Err: err}
		}
		updated, err := l.recompute(ctx, s, partyID)
		if err != nil {
			return err
		}
		rec = Receipt{
			PaymentID: pay.PaymentID,
			Paid:      updated.AmountPaid,
			Remaining: updated.RemainingAmount,
			Status:    updated.Status,
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(partyID)).Str("amount", amount.String()).Msg("record payment failed")
		return nil, err
	}
	l.log.Debug().Str("party", string(partyID)).Str("payment", rec.PaymentID).Msg("payment recorded")
	return &rec, nil
}

// AddRefund pays money back to an overpaid party. The amount is bounded by
// max(0, -remaining): refunds are only permitted while the party is in
// credit. The entry lands with the reversed transaction type and the totals
// are recomputed through the canonical path.
func (l *Ledger) AddRefund(ctx context.Context, partyID PartyID, amount decimal.Decimal) (*Receipt, error) {
	var rec Receipt
	err := l.store.WithTx(ctx, func(s Store) error {
		p, err := l.requireParty(ctx, s, partyID)
		if err != nil {
			return err
		}
		max := p.MaxRefundable()
		if !amount.IsPositive() || amount.GreaterThan(max) {
			return &AmountError{Requested: amount, Max: max}
		}

		pay := Payment{
			PartyID:   partyID,
			PaymentID: NewPaymentID(l.now()),
			Date:      l.now(),
			Amount:    amount,
			Type:      l.kind.Outbound(),
			Remarks:   "refund of overpaid balance",
		}
		if _, err := s.InsertPayment(ctx, pay); err != nil {
			return &PersistenceError{Op: "add refund", Err: err}
		}
		updated, err := l.recompute(ctx, s, partyID)
		if err != nil {
			return err
		}
		rec = Receipt{
			PaymentID: pay.PaymentID,
			Paid:      updated.AmountPaid,
			Remaining: updated.RemainingAmount,
			Status:    updated.Status,
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Str("party", string(partyID)).Str("amount", amount.String()).Msg("refund failed")
		return nil, err
	}
	l.log.Debug().Str("party", string(partyID)).Str("payment", rec.PaymentID).Msg("refund recorded")
	return &rec, nil
}

// =============================================================================
// RECOMPUTE - The consistency invariant
// =============================================================================

// recompute re-derives the party's running totals from its opening balances
// and child rows, writes them, and returns the updated party. Runs inside
// the caller's transaction.
func (l *Ledger) recompute(ctx context.Context, s Store, id PartyID) (*Party, error) {
	p, err := l.requireParty(ctx, s, id)
	if err != nil {
		return nil, err
	}

	total := p.OpeningTotal
	if l.kind.TotalsFromItems {
		itemSum, err := s.SumItemAmounts(ctx, id)
		if err != nil {
			return nil, &PersistenceError{Op: "recompute totals", Err: err}
		}
		total = total.Add(itemSum)
	}

	net, err := s.NetPaid(ctx, id, l.kind.Inbound)
	if err != nil {
		return nil, &PersistenceError{Op: "recompute totals", Err: err}
	}
	paid := p.OpeningPaid.Add(net)

	remaining := total.Sub(paid)
	status := StatusFor(remaining)
	if err := s.UpdatePartyTotals(ctx, id, total, paid, remaining, status); err != nil {
		return nil, &PersistenceError{Op: "recompute totals", Err: err}
	}

	p.TotalAmount = total
	p.AmountPaid = paid
	p.RemainingAmount = remaining
	p.Status = status
	return p, nil
}

// insertParty writes a new party row, passing phone-uniqueness conflicts
// through untouched so callers see them as conflicts, not storage failures.
func (l *Ledger) insertParty(ctx context.Context, s Store, p Party) error {
	if err := s.InsertParty(ctx, p); err != nil {
		var conflict *PhoneConflictError
		if errors.As(err, &conflict) {
			return err
		}
		return &PersistenceError{Op: "insert party", Err: err}
	}
	return nil
}

func (l *Ledger) requireParty(ctx context.Context, s Store, id PartyID) (*Party, error) {
	p, err := s.PartyByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "load party", Err: err}
	}
	if p == nil {
		return nil, fmt.Errorf("party %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (l *Ledger) requireItem(ctx context.Context, s Store, id int64) (*Item, error) {
	it, err := s.ItemByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "load item", Err: err}
	}
	if it == nil {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return it, nil
}
