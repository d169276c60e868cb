// Package store provides an in-memory ledger.TxStore for testing and dev.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trackedge/books/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements ledger.TxStore with maps. WithTx snapshots the maps and
// restores them when fn fails, which gives the same all-or-nothing contract
// as the SQLite store for a single caller. It is not meant for concurrent
// writers.
type Memory struct {
	mu            sync.Mutex
	parties       map[ledger.PartyID]ledger.Party
	items         map[int64]ledger.Item
	payments      map[int64]ledger.Payment
	nextItemID    int64
	nextPaymentID int64
}

func NewMemory() *Memory {
	return &Memory{
		parties:  make(map[ledger.PartyID]ledger.Party),
		items:    make(map[int64]ledger.Item),
		payments: make(map[int64]ledger.Payment),
	}
}

func (m *Memory) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	parties := make(map[ledger.PartyID]ledger.Party, len(m.parties))
	for k, v := range m.parties {
		parties[k] = v
	}
	items := make(map[int64]ledger.Item, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	payments := make(map[int64]ledger.Payment, len(m.payments))
	for k, v := range m.payments {
		payments[k] = v
	}
	itemID, paymentID := m.nextItemID, m.nextPaymentID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.parties = parties
		m.items = items
		m.payments = payments
		m.nextItemID, m.nextPaymentID = itemID, paymentID
		m.mu.Unlock()
		return err
	}
	return nil
}

// =============================================================================
// PARTIES
// =============================================================================

func (m *Memory) InsertParty(_ context.Context, p ledger.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[p.ID] = p
	return nil
}

func (m *Memory) UpdatePartyTotals(_ context.Context, id ledger.PartyID, total, paid, remaining decimal.Decimal, status ledger.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return nil
	}
	p.TotalAmount = total
	p.AmountPaid = paid
	p.RemainingAmount = remaining
	p.Status = status
	m.parties[id] = p
	return nil
}

func (m *Memory) UpdatePartyOpening(_ context.Context, id ledger.PartyID, openingTotal, openingPaid decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return nil
	}
	p.OpeningTotal = openingTotal
	p.OpeningPaid = openingPaid
	m.parties[id] = p
	return nil
}

func (m *Memory) UpdatePartyContact(_ context.Context, id ledger.PartyID, phone, place string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return nil
	}
	p.Phone = phone
	p.Place = place
	m.parties[id] = p
	return nil
}

func (m *Memory) PartyByID(_ context.Context, id ledger.PartyID) (*ledger.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.parties[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) PartyByNamePhone(_ context.Context, name, phone string) (*ledger.Party, error) {
	return m.findParty(func(p ledger.Party) bool { return p.Name == name && p.Phone == phone })
}

func (m *Memory) PartyByPhone(_ context.Context, phone string) (*ledger.Party, error) {
	return m.findParty(func(p ledger.Party) bool { return p.Phone == phone })
}

func (m *Memory) PartyByName(_ context.Context, name string) (*ledger.Party, error) {
	return m.findParty(func(p ledger.Party) bool { return p.Name == name })
}

func (m *Memory) findParty(match func(ledger.Party) bool) (*ledger.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *ledger.Party
	for _, p := range m.parties {
		p := p
		if match(p) && (found == nil || p.ID < found.ID) {
			found = &p
		}
	}
	return found, nil
}

func (m *Memory) LastPartyID(_ context.Context) (ledger.PartyID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last ledger.PartyID
	for id := range m.parties {
		if id > last {
			last = id
		}
	}
	return last, nil
}

func (m *Memory) SearchPartiesByName(_ context.Context, prefix string, limit int) ([]ledger.Party, error) {
	return m.searchParties(limit, func(p ledger.Party) bool {
		return prefix == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(prefix))
	}, func(a, b ledger.Party) bool { return a.Name < b.Name })
}

func (m *Memory) SearchPartiesByPhone(_ context.Context, prefix string, limit int) ([]ledger.Party, error) {
	return m.searchParties(limit, func(p ledger.Party) bool {
		return prefix == "" || strings.HasPrefix(p.Phone, prefix)
	}, func(a, b ledger.Party) bool { return a.Phone < b.Phone })
}

func (m *Memory) searchParties(limit int, match func(ledger.Party) bool, less func(a, b ledger.Party) bool) ([]ledger.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Party
	for _, p := range m.parties {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// =============================================================================
// ITEMS
// =============================================================================

func (m *Memory) InsertItem(_ context.Context, it ledger.Item) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextItemID++
	it.ID = m.nextItemID
	m.items[it.ID] = it
	return it.ID, nil
}

func (m *Memory) UpdateItemDetails(_ context.Context, id int64, name, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil
	}
	it.Name = name
	it.Description = description
	m.items[id] = it
	return nil
}

func (m *Memory) UpdateItemQuantity(_ context.Context, id int64, qty, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil
	}
	it.Qty = qty
	it.Amount = amount
	m.items[id] = it
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *Memory) ItemByID(_ context.Context, id int64) (*ledger.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (m *Memory) ItemsByParty(_ context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Item
	for _, it := range m.items {
		if it.PartyID == id && r.Contains(it.Date) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) FindItemByAttributes(_ context.Context, id ledger.PartyID, match ledger.Item) (*ledger.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *ledger.Item
	for _, it := range m.items {
		it := it
		if it.PartyID != id || it.Name != match.Name || it.Description != match.Description {
			continue
		}
		if !it.Qty.Equal(match.Qty) || !it.Price.Equal(match.Price) || !it.Amount.Equal(match.Amount) {
			continue
		}
		if !match.Date.IsZero() && !sameDay(it.Date, match.Date) {
			continue
		}
		if found == nil || it.ID < found.ID {
			found = &it
		}
	}
	return found, nil
}

func (m *Memory) SumItemAmounts(_ context.Context, id ledger.PartyID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, it := range m.items {
		if it.PartyID == id {
			sum = sum.Add(it.Amount)
		}
	}
	return sum, nil
}

func (m *Memory) SearchItemNames(_ context.Context, prefix string, limit int) ([]ledger.ItemSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byName := make(map[string]ledger.ItemSuggestion)
	for _, it := range m.items {
		if prefix != "" && !strings.HasPrefix(strings.ToLower(it.Name), strings.ToLower(prefix)) {
			continue
		}
		byName[it.Name] = ledger.ItemSuggestion{Name: it.Name, Price: it.Price, Description: it.Description}
	}
	var out []ledger.ItemSuggestion
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ItemQuantityTotals(_ context.Context) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(map[string]decimal.Decimal)
	for _, it := range m.items {
		name := strings.ToLower(strings.TrimSpace(it.Name))
		totals[name] = totals[name].Add(it.Qty)
	}
	return totals, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (m *Memory) InsertPayment(_ context.Context, p ledger.Payment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPaymentID++
	p.ID = m.nextPaymentID
	m.payments[p.ID] = p
	return p.ID, nil
}

func (m *Memory) PaymentsByParty(_ context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Payment
	for _, p := range m.payments {
		if p.PartyID == id && r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) NetPaid(_ context.Context, id ledger.PartyID, inbound ledger.TxType) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	net := decimal.Zero
	for _, p := range m.payments {
		if p.PartyID != id {
			continue
		}
		if p.Type == inbound {
			net = net.Add(p.Amount)
		} else {
			net = net.Sub(p.Amount)
		}
	}
	return net, nil
}

// =============================================================================
// REPORTS
// =============================================================================

func (m *Memory) ActivityDates(_ context.Context, id ledger.PartyID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := make(map[string]bool)
	for _, it := range m.items {
		if it.PartyID == id {
			days[it.Date.Format("2006-01-02")] = true
		}
	}
	for _, p := range m.payments {
		if p.PartyID == id {
			days[p.Date.Format("2006-01-02")] = true
		}
	}
	out := make([]string, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) RecentPayments(_ context.Context, order ledger.SortOrder, limit int) ([]ledger.PartyPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.PartyPayment
	for _, p := range m.payments {
		name := ""
		if party, ok := m.parties[p.PartyID]; ok {
			name = party.Name
		}
		out = append(out, ledger.PartyPayment{PartyName: name, Payment: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if order == ledger.OrderOldest {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ItemsByDateRange(_ context.Context, r ledger.DateRange) ([]ledger.PartyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.PartyItem
	for _, it := range m.items {
		if !r.Contains(it.Date) {
			continue
		}
		name := ""
		if party, ok := m.parties[it.PartyID]; ok {
			name = party.Name
		}
		out = append(out, ledger.PartyItem{PartyName: name, Item: it})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Compile-time check.
var _ ledger.TxStore = (*Memory)(nil)
