/*
query.go - Read-only query surface

All queries here are side-effect free and run outside any transaction; the
view layer treats their results as a point-in-time snapshot per session.
Storage failures are translated the same way the write surface translates
them.
*/
package ledger

import (
	"context"
	"fmt"
)

// searchLimit bounds prefix-search results for the autocomplete dropdowns.
const searchLimit = 5

// GetParty returns the party by id, or ErrNotFound.
func (l *Ledger) GetParty(ctx context.Context, id PartyID) (*Party, error) {
	p, err := l.store.PartyByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get party", Err: err}
	}
	if p == nil {
		return nil, fmt.Errorf("party %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// FindParty resolves a party by its (name, phone) pair, or ErrNotFound.
func (l *Ledger) FindParty(ctx context.Context, name, phone string) (*Party, error) {
	p, err := l.store.PartyByNamePhone(ctx, name, phone)
	if err != nil {
		return nil, &PersistenceError{Op: "find party", Err: err}
	}
	if p == nil {
		return nil, fmt.Errorf("party %s/%s: %w", name, phone, ErrNotFound)
	}
	return p, nil
}

// PartyByPhone resolves the party owning a phone number, or ErrNotFound.
func (l *Ledger) PartyByPhone(ctx context.Context, phone string) (*Party, error) {
	p, err := l.store.PartyByPhone(ctx, phone)
	if err != nil {
		return nil, &PersistenceError{Op: "party by phone", Err: err}
	}
	if p == nil {
		return nil, fmt.Errorf("phone %s: %w", phone, ErrNotFound)
	}
	return p, nil
}

// SearchByName returns up to 5 parties whose name matches the prefix.
func (l *Ledger) SearchByName(ctx context.Context, prefix string) ([]Party, error) {
	out, err := l.store.SearchPartiesByName(ctx, prefix, searchLimit)
	if err != nil {
		return nil, &PersistenceError{Op: "search by name", Err: err}
	}
	return out, nil
}

// SearchByPhone returns up to 5 parties whose phone matches the prefix.
func (l *Ledger) SearchByPhone(ctx context.Context, prefix string) ([]Party, error) {
	out, err := l.store.SearchPartiesByPhone(ctx, prefix, searchLimit)
	if err != nil {
		return nil, &PersistenceError{Op: "search by phone", Err: err}
	}
	return out, nil
}

// Items lists a party's line items, optionally bounded by date range.
func (l *Ledger) Items(ctx context.Context, id PartyID, r DateRange) ([]Item, error) {
	out, err := l.store.ItemsByParty(ctx, id, r)
	if err != nil {
		return nil, &PersistenceError{Op: "list items", Err: err}
	}
	return out, nil
}

// Payments lists a party's payments, optionally bounded by date range.
func (l *Ledger) Payments(ctx context.Context, id PartyID, r DateRange) ([]Payment, error) {
	out, err := l.store.PaymentsByParty(ctx, id, r)
	if err != nil {
		return nil, &PersistenceError{Op: "list payments", Err: err}
	}
	return out, nil
}

// ActivityDates lists the distinct calendar dates on which the party has
// either an item or a payment, ascending.
func (l *Ledger) ActivityDates(ctx context.Context, id PartyID) ([]string, error) {
	out, err := l.store.ActivityDates(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "activity dates", Err: err}
	}
	return out, nil
}

// RecentPayments aggregates payments across all parties ordered by recency.
func (l *Ledger) RecentPayments(ctx context.Context, order SortOrder, limit int) ([]PartyPayment, error) {
	if order != OrderOldest {
		order = OrderRecent
	}
	out, err := l.store.RecentPayments(ctx, order, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "recent payments", Err: err}
	}
	return out, nil
}

// ItemsInRange is the date-range report across all parties' items.
func (l *Ledger) ItemsInRange(ctx context.Context, r DateRange) ([]PartyItem, error) {
	out, err := l.store.ItemsByDateRange(ctx, r)
	if err != nil {
		return nil, &PersistenceError{Op: "items in range", Err: err}
	}
	return out, nil
}

// SuggestItems feeds item-name autocomplete from previously entered lines.
func (l *Ledger) SuggestItems(ctx context.Context, prefix string) ([]ItemSuggestion, error) {
	out, err := l.store.SearchItemNames(ctx, prefix, 10)
	if err != nil {
		return nil, &PersistenceError{Op: "suggest items", Err: err}
	}
	return out, nil
}

// FindItemByAttributes locates an item by its full attribute tuple. Legacy
// fallback for callers that did not retain the row id; ambiguous matches
// resolve to the lowest row id. Prefer carrying Item.ID from query to
// mutation.
func (l *Ledger) FindItemByAttributes(ctx context.Context, id PartyID, match Item) (*Item, error) {
	it, err := l.store.FindItemByAttributes(ctx, id, match)
	if err != nil {
		return nil, &PersistenceError{Op: "find item", Err: err}
	}
	if it == nil {
		return nil, fmt.Errorf("item matching %q: %w", match.Name, ErrNotFound)
	}
	return it, nil
}
