/*
Package sqlite provides the SQLite-backed implementation of ledger.TxStore.

PURPOSE:
  Persists one ledger kind (party, item, and payment tables) in one local
  database file. Three independent stores back the purchase, sales, and
  service ledgers; nothing here knows which kind it serves beyond the
  table names the kind descriptor carries.

KEY TABLES (names per kind, matching the legacy databases):
  purchaser / customer / service_customer:            party rows with running totals
  purchase_product / customer_product / service_item: line items
  purchase_payment / customer_payment / service_payment: signed payments

MONEY:
  Amounts are stored as exact decimal text, never REAL. Aggregations that
  must stay exact (item sums, net paid) read the rows and sum with
  decimal.Decimal in Go instead of SUM() over floats.

TRANSACTIONS:
  WithTx wraps multi-statement engine operations in one SQLite transaction:
  the child-row write and the party recompute commit or roll back together.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety within the process. Concurrent
  multi-process access is out of scope and unguarded beyond WAL.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) and foreign keys on;
  deleting a party cascades to its items and payments.

USAGE:
  st, err := sqlite.Open("./data/purchase.db", purchase.Kind)
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  led := ledger.New(purchase.Kind, st)

MIGRATION:
  Schema is auto-migrated on Open(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/engine.go: Higher-level ledger using Store
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/trackedge/books/ledger"
)

// Store implements ledger.TxStore for one ledger kind.
type Store struct {
	db     *sql.DB
	tables ledger.TableNames
	mu     sync.RWMutex
}

// Open creates a store for the given kind at dbPath. Use ":memory:" for an
// in-memory database. The schema is created on open.
func Open(dbPath string, kind ledger.Kind) (*Store, error) {
	t := kind.Tables
	if t.Party == "" || t.Items == "" || t.Payments == "" {
		return nil, fmt.Errorf("kind %q has no table names", kind.Name)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, tables: t}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		party_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		place TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		opening_total TEXT NOT NULL,
		opening_paid TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		status TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS %[2]s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		party_id TEXT NOT NULL,
		item TEXT NOT NULL,
		qty TEXT NOT NULL,
		price TEXT NOT NULL,
		description TEXT,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		FOREIGN KEY (party_id) REFERENCES %[1]s(party_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS %[3]s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		party_id TEXT NOT NULL,
		payment_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		remarks TEXT,
		FOREIGN KEY (party_id) REFERENCES %[1]s(party_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_%[2]s_party ON %[2]s(party_id);
	CREATE INDEX IF NOT EXISTS idx_%[2]s_item ON %[2]s(item);
	CREATE INDEX IF NOT EXISTS idx_%[3]s_party ON %[3]s(party_id);
	CREATE INDEX IF NOT EXISTS idx_%[3]s_date ON %[3]s(date);
	`, s.tables.Party, s.tables.Items, s.tables.Payments)

	_, err := s.db.Exec(schema)
	return err
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{parent: s, tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// txStore routes every Store call through the open transaction.
type txStore struct {
	parent *Store
	tx     *sql.Tx
}

// =============================================================================
// PARTIES
// =============================================================================

func (s *Store) InsertParty(ctx context.Context, p ledger.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertParty(ctx, s.db, p)
}

func (ts *txStore) InsertParty(ctx context.Context, p ledger.Party) error {
	return ts.parent.insertParty(ctx, ts.tx, p)
}

func (s *Store) insertParty(ctx context.Context, db dbtx, p ledger.Party) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(party_id, name, place, phone, opening_total, opening_paid,
		 total_amount, amount_paid, remaining_amount, status, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.tables.Party)

	_, err := db.ExecContext(ctx, query,
		p.ID, p.Name, p.Place, p.Phone,
		p.OpeningTotal.String(), p.OpeningPaid.String(),
		p.TotalAmount.String(), p.AmountPaid.String(), p.RemainingAmount.String(),
		p.Status, p.Date.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ledger.PhoneConflictError{Phone: p.Phone}
		}
		return fmt.Errorf("failed to insert party: %w", err)
	}
	return nil
}

func (s *Store) UpdatePartyTotals(ctx context.Context, id ledger.PartyID, total, paid, remaining decimal.Decimal, status ledger.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePartyTotals(ctx, s.db, id, total, paid, remaining, status)
}

func (ts *txStore) UpdatePartyTotals(ctx context.Context, id ledger.PartyID, total, paid, remaining decimal.Decimal, status ledger.Status) error {
	return ts.parent.updatePartyTotals(ctx, ts.tx, id, total, paid, remaining, status)
}

func (s *Store) updatePartyTotals(ctx context.Context, db dbtx, id ledger.PartyID, total, paid, remaining decimal.Decimal, status ledger.Status) error {
	query := fmt.Sprintf(`
		UPDATE %s SET total_amount=?, amount_paid=?, remaining_amount=?, status=?
		WHERE party_id=?
	`, s.tables.Party)
	_, err := db.ExecContext(ctx, query, total.String(), paid.String(), remaining.String(), status, id)
	return err
}

func (s *Store) UpdatePartyOpening(ctx context.Context, id ledger.PartyID, openingTotal, openingPaid decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePartyOpening(ctx, s.db, id, openingTotal, openingPaid)
}

func (ts *txStore) UpdatePartyOpening(ctx context.Context, id ledger.PartyID, openingTotal, openingPaid decimal.Decimal) error {
	return ts.parent.updatePartyOpening(ctx, ts.tx, id, openingTotal, openingPaid)
}

func (s *Store) updatePartyOpening(ctx context.Context, db dbtx, id ledger.PartyID, openingTotal, openingPaid decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET opening_total=?, opening_paid=? WHERE party_id=?`, s.tables.Party)
	_, err := db.ExecContext(ctx, query, openingTotal.String(), openingPaid.String(), id)
	return err
}

func (s *Store) UpdatePartyContact(ctx context.Context, id ledger.PartyID, phone, place string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePartyContact(ctx, s.db, id, phone, place)
}

func (ts *txStore) UpdatePartyContact(ctx context.Context, id ledger.PartyID, phone, place string) error {
	return ts.parent.updatePartyContact(ctx, ts.tx, id, phone, place)
}

func (s *Store) updatePartyContact(ctx context.Context, db dbtx, id ledger.PartyID, phone, place string) error {
	query := fmt.Sprintf(`UPDATE %s SET phone=?, place=? WHERE party_id=?`, s.tables.Party)
	_, err := db.ExecContext(ctx, query, phone, place, id)
	if err != nil && isUniqueConstraintError(err) {
		return &ledger.PhoneConflictError{Phone: phone}
	}
	return err
}

const partyColumns = `party_id, name, place, phone, opening_total, opening_paid,
	total_amount, amount_paid, remaining_amount, status, date`

func (s *Store) PartyByID(ctx context.Context, id ledger.PartyID) (*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partyWhere(ctx, s.db, "party_id = ?", id)
}

func (ts *txStore) PartyByID(ctx context.Context, id ledger.PartyID) (*ledger.Party, error) {
	return ts.parent.partyWhere(ctx, ts.tx, "party_id = ?", id)
}

func (s *Store) PartyByNamePhone(ctx context.Context, name, phone string) (*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partyWhere(ctx, s.db, "name = ? AND phone = ?", name, phone)
}

func (ts *txStore) PartyByNamePhone(ctx context.Context, name, phone string) (*ledger.Party, error) {
	return ts.parent.partyWhere(ctx, ts.tx, "name = ? AND phone = ?", name, phone)
}

func (s *Store) PartyByPhone(ctx context.Context, phone string) (*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partyWhere(ctx, s.db, "phone = ?", phone)
}

func (ts *txStore) PartyByPhone(ctx context.Context, phone string) (*ledger.Party, error) {
	return ts.parent.partyWhere(ctx, ts.tx, "phone = ?", phone)
}

func (s *Store) PartyByName(ctx context.Context, name string) (*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partyWhere(ctx, s.db, "name = ?", name)
}

func (ts *txStore) PartyByName(ctx context.Context, name string) (*ledger.Party, error) {
	return ts.parent.partyWhere(ctx, ts.tx, "name = ?", name)
}

func (s *Store) partyWhere(ctx context.Context, db dbtx, where string, args ...any) (*ledger.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY party_id LIMIT 1`,
		partyColumns, s.tables.Party, where)

	row := db.QueryRowContext(ctx, query, args...)
	p, err := scanParty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) LastPartyID(ctx context.Context) (ledger.PartyID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPartyID(ctx, s.db)
}

func (ts *txStore) LastPartyID(ctx context.Context) (ledger.PartyID, error) {
	return ts.parent.lastPartyID(ctx, ts.tx)
}

func (s *Store) lastPartyID(ctx context.Context, db dbtx) (ledger.PartyID, error) {
	query := fmt.Sprintf(`SELECT party_id FROM %s ORDER BY party_id DESC LIMIT 1`, s.tables.Party)
	var id ledger.PartyID
	err := db.QueryRowContext(ctx, query).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SearchPartiesByName(ctx context.Context, prefix string, limit int) ([]ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchParties(ctx, s.db, "name LIKE ?", "%"+prefix+"%", "name", limit)
}

func (ts *txStore) SearchPartiesByName(ctx context.Context, prefix string, limit int) ([]ledger.Party, error) {
	return ts.parent.searchParties(ctx, ts.tx, "name LIKE ?", "%"+prefix+"%", "name", limit)
}

func (s *Store) SearchPartiesByPhone(ctx context.Context, prefix string, limit int) ([]ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchParties(ctx, s.db, "phone LIKE ?", prefix+"%", "phone", limit)
}

func (ts *txStore) SearchPartiesByPhone(ctx context.Context, prefix string, limit int) ([]ledger.Party, error) {
	return ts.parent.searchParties(ctx, ts.tx, "phone LIKE ?", prefix+"%", "phone", limit)
}

func (s *Store) searchParties(ctx context.Context, db dbtx, where, pattern, orderBy string, limit int) ([]ledger.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s ASC LIMIT ?`,
		partyColumns, s.tables.Party, where, orderBy)

	rows, err := db.QueryContext(ctx, query, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []ledger.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, *p)
	}
	return parties, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParty(row rowScanner) (*ledger.Party, error) {
	var (
		p                         ledger.Party
		openingTotal, openingPaid string
		total, paid, remaining    string
		date                      string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Place, &p.Phone,
		&openingTotal, &openingPaid, &total, &paid, &remaining,
		&p.Status, &date)
	if err != nil {
		return nil, err
	}

	if p.OpeningTotal, err = decimal.NewFromString(openingTotal); err != nil {
		return nil, fmt.Errorf("bad opening_total %q: %w", openingTotal, err)
	}
	if p.OpeningPaid, err = decimal.NewFromString(openingPaid); err != nil {
		return nil, fmt.Errorf("bad opening_paid %q: %w", openingPaid, err)
	}
	if p.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("bad total_amount %q: %w", total, err)
	}
	if p.AmountPaid, err = decimal.NewFromString(paid); err != nil {
		return nil, fmt.Errorf("bad amount_paid %q: %w", paid, err)
	}
	if p.RemainingAmount, err = decimal.NewFromString(remaining); err != nil {
		return nil, fmt.Errorf("bad remaining_amount %q: %w", remaining, err)
	}
	p.Date, _ = time.Parse(time.RFC3339, date)
	return &p, nil
}

// =============================================================================
// ITEMS
// =============================================================================

const itemColumns = `id, party_id, item, qty, price, description, amount, date`

func (s *Store) InsertItem(ctx context.Context, it ledger.Item) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertItem(ctx, s.db, it)
}

func (ts *txStore) InsertItem(ctx context.Context, it ledger.Item) (int64, error) {
	return ts.parent.insertItem(ctx, ts.tx, it)
}

func (s *Store) insertItem(ctx context.Context, db dbtx, it ledger.Item) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (party_id, item, qty, price, description, amount, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.tables.Items)

	res, err := db.ExecContext(ctx, query,
		it.PartyID, it.Name, it.Qty.String(), it.Price.String(),
		it.Description, it.Amount.String(), it.Date.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) UpdateItemDetails(ctx context.Context, id int64, name, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateItemDetails(ctx, s.db, id, name, description)
}

func (ts *txStore) UpdateItemDetails(ctx context.Context, id int64, name, description string) error {
	return ts.parent.updateItemDetails(ctx, ts.tx, id, name, description)
}

func (s *Store) updateItemDetails(ctx context.Context, db dbtx, id int64, name, description string) error {
	query := fmt.Sprintf(`UPDATE %s SET item=?, description=? WHERE id=?`, s.tables.Items)
	_, err := db.ExecContext(ctx, query, name, description, id)
	return err
}

func (s *Store) UpdateItemQuantity(ctx context.Context, id int64, qty, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateItemQuantity(ctx, s.db, id, qty, amount)
}

func (ts *txStore) UpdateItemQuantity(ctx context.Context, id int64, qty, amount decimal.Decimal) error {
	return ts.parent.updateItemQuantity(ctx, ts.tx, id, qty, amount)
}

func (s *Store) updateItemQuantity(ctx context.Context, db dbtx, id int64, qty, amount decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET qty=?, amount=? WHERE id=?`, s.tables.Items)
	_, err := db.ExecContext(ctx, query, qty.String(), amount.String(), id)
	return err
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteItem(ctx, s.db, id)
}

func (ts *txStore) DeleteItem(ctx context.Context, id int64) error {
	return ts.parent.deleteItem(ctx, ts.tx, id)
}

func (s *Store) deleteItem(ctx context.Context, db dbtx, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=?`, s.tables.Items)
	_, err := db.ExecContext(ctx, query, id)
	return err
}

func (s *Store) ItemByID(ctx context.Context, id int64) (*ledger.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemByID(ctx, s.db, id)
}

func (ts *txStore) ItemByID(ctx context.Context, id int64) (*ledger.Item, error) {
	return ts.parent.itemByID(ctx, ts.tx, id)
}

func (s *Store) itemByID(ctx context.Context, db dbtx, id int64) (*ledger.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id=?`, itemColumns, s.tables.Items)
	it, err := scanItem(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Store) ItemsByParty(ctx context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsByParty(ctx, s.db, id, r)
}

func (ts *txStore) ItemsByParty(ctx context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Item, error) {
	return ts.parent.itemsByParty(ctx, ts.tx, id, r)
}

func (s *Store) itemsByParty(ctx context.Context, db dbtx, id ledger.PartyID, r ledger.DateRange) ([]ledger.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE party_id=?`, itemColumns, s.tables.Items)
	args := []any{id}
	query, args = appendDateFilter(query, args, "date", r)
	query += ` ORDER BY date ASC, id ASC`

	return s.queryItems(ctx, db, query, args...)
}

func (s *Store) FindItemByAttributes(ctx context.Context, id ledger.PartyID, match ledger.Item) (*ledger.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findItemByAttributes(ctx, s.db, id, match)
}

func (ts *txStore) FindItemByAttributes(ctx context.Context, id ledger.PartyID, match ledger.Item) (*ledger.Item, error) {
	return ts.parent.findItemByAttributes(ctx, ts.tx, id, match)
}

func (s *Store) findItemByAttributes(ctx context.Context, db dbtx, id ledger.PartyID, match ledger.Item) (*ledger.Item, error) {
	// Numeric columns hold decimal text whose rendering may differ from the
	// caller's, so narrow in SQL by name and compare decimals in Go.
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE party_id=? AND item=? ORDER BY id ASC`,
		itemColumns, s.tables.Items)
	candidates, err := s.queryItems(ctx, db, query, id, match.Name)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		it := &candidates[i]
		if it.Description != match.Description {
			continue
		}
		if !it.Qty.Equal(match.Qty) || !it.Price.Equal(match.Price) || !it.Amount.Equal(match.Amount) {
			continue
		}
		if !match.Date.IsZero() && it.Date.Format("2006-01-02") != match.Date.Format("2006-01-02") {
			continue
		}
		return it, nil
	}
	return nil, nil
}

func (s *Store) SumItemAmounts(ctx context.Context, id ledger.PartyID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sumItemAmounts(ctx, s.db, id)
}

func (ts *txStore) SumItemAmounts(ctx context.Context, id ledger.PartyID) (decimal.Decimal, error) {
	return ts.parent.sumItemAmounts(ctx, ts.tx, id)
}

func (s *Store) sumItemAmounts(ctx context.Context, db dbtx, id ledger.PartyID) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT amount FROM %s WHERE party_id=?`, s.tables.Items)
	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad amount %q: %w", raw, err)
		}
		sum = sum.Add(d)
	}
	return sum, rows.Err()
}

func (s *Store) SearchItemNames(ctx context.Context, prefix string, limit int) ([]ledger.ItemSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchItemNames(ctx, s.db, prefix, limit)
}

func (ts *txStore) SearchItemNames(ctx context.Context, prefix string, limit int) ([]ledger.ItemSuggestion, error) {
	return ts.parent.searchItemNames(ctx, ts.tx, prefix, limit)
}

func (s *Store) searchItemNames(ctx context.Context, db dbtx, prefix string, limit int) ([]ledger.ItemSuggestion, error) {
	query := fmt.Sprintf(`
		SELECT item, price, description FROM %s
		WHERE item LIKE ?
		GROUP BY item
		ORDER BY item ASC
		LIMIT ?
	`, s.tables.Items)

	rows, err := db.QueryContext(ctx, query, prefix+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.ItemSuggestion
	for rows.Next() {
		var (
			sug   ledger.ItemSuggestion
			price string
			desc  sql.NullString
		)
		if err := rows.Scan(&sug.Name, &price, &desc); err != nil {
			return nil, err
		}
		if sug.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad price %q: %w", price, err)
		}
		sug.Description = desc.String
		out = append(out, sug)
	}
	return out, rows.Err()
}

func (s *Store) ItemQuantityTotals(ctx context.Context) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemQuantityTotals(ctx, s.db)
}

func (ts *txStore) ItemQuantityTotals(ctx context.Context) (map[string]decimal.Decimal, error) {
	return ts.parent.itemQuantityTotals(ctx, ts.tx)
}

func (s *Store) itemQuantityTotals(ctx context.Context, db dbtx) (map[string]decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT item, qty FROM %s`, s.tables.Items)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var name, qtyRaw string
		if err := rows.Scan(&name, &qtyRaw); err != nil {
			return nil, err
		}
		qty, err := decimal.NewFromString(qtyRaw)
		if err != nil {
			return nil, fmt.Errorf("bad qty %q: %w", qtyRaw, err)
		}
		key := strings.ToLower(strings.TrimSpace(name))
		totals[key] = totals[key].Add(qty)
	}
	return totals, rows.Err()
}

func (s *Store) queryItems(ctx context.Context, db dbtx, query string, args ...any) ([]ledger.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ledger.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (*ledger.Item, error) {
	var (
		it              ledger.Item
		qty, price, amt string
		desc            sql.NullString
		date            string
	)
	err := row.Scan(&it.ID, &it.PartyID, &it.Name, &qty, &price, &desc, &amt, &date)
	if err != nil {
		return nil, err
	}
	if it.Qty, err = decimal.NewFromString(qty); err != nil {
		return nil, fmt.Errorf("bad qty %q: %w", qty, err)
	}
	if it.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("bad price %q: %w", price, err)
	}
	if it.Amount, err = decimal.NewFromString(amt); err != nil {
		return nil, fmt.Errorf("bad amount %q: %w", amt, err)
	}
	it.Description = desc.String
	it.Date, _ = time.Parse(time.RFC3339, date)
	return &it, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

const paymentColumns = `id, party_id, payment_id, date, amount_paid, transaction_type, remarks`

func (s *Store) InsertPayment(ctx context.Context, p ledger.Payment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPayment(ctx, s.db, p)
}

func (ts *txStore) InsertPayment(ctx context.Context, p ledger.Payment) (int64, error) {
	return ts.parent.insertPayment(ctx, ts.tx, p)
}

func (s *Store) insertPayment(ctx context.Context, db dbtx, p ledger.Payment) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (party_id, payment_id, date, amount_paid, transaction_type, remarks)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.tables.Payments)

	res, err := db.ExecContext(ctx, query,
		p.PartyID, p.PaymentID, p.Date.Format(time.RFC3339),
		p.Amount.String(), p.Type, p.Remarks,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payment: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) PaymentsByParty(ctx context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paymentsByParty(ctx, s.db, id, r)
}

func (ts *txStore) PaymentsByParty(ctx context.Context, id ledger.PartyID, r ledger.DateRange) ([]ledger.Payment, error) {
	return ts.parent.paymentsByParty(ctx, ts.tx, id, r)
}

func (s *Store) paymentsByParty(ctx context.Context, db dbtx, id ledger.PartyID, r ledger.DateRange) ([]ledger.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE party_id=?`, paymentColumns, s.tables.Payments)
	args := []any{id}
	query, args = appendDateFilter(query, args, "date", r)
	query += ` ORDER BY date ASC, id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *Store) NetPaid(ctx context.Context, id ledger.PartyID, inbound ledger.TxType) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.netPaid(ctx, s.db, id, inbound)
}

func (ts *txStore) NetPaid(ctx context.Context, id ledger.PartyID, inbound ledger.TxType) (decimal.Decimal, error) {
	return ts.parent.netPaid(ctx, ts.tx, id, inbound)
}

func (s *Store) netPaid(ctx context.Context, db dbtx, id ledger.PartyID, inbound ledger.TxType) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT amount_paid, transaction_type FROM %s WHERE party_id=?`, s.tables.Payments)
	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	net := decimal.Zero
	for rows.Next() {
		var raw string
		var txType ledger.TxType
		if err := rows.Scan(&raw, &txType); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad amount_paid %q: %w", raw, err)
		}
		if txType == inbound {
			net = net.Add(d)
		} else {
			net = net.Sub(d)
		}
	}
	return net, rows.Err()
}

func scanPayment(row rowScanner) (*ledger.Payment, error) {
	var (
		p       ledger.Payment
		amt     string
		remarks sql.NullString
		date    string
	)
	err := row.Scan(&p.ID, &p.PartyID, &p.PaymentID, &date, &amt, &p.Type, &remarks)
	if err != nil {
		return nil, err
	}
	if p.Amount, err = decimal.NewFromString(amt); err != nil {
		return nil, fmt.Errorf("bad amount_paid %q: %w", amt, err)
	}
	p.Remarks = remarks.String
	p.Date, _ = time.Parse(time.RFC3339, date)
	return &p, nil
}

// =============================================================================
// REPORTS
// =============================================================================

func (s *Store) ActivityDates(ctx context.Context, id ledger.PartyID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activityDates(ctx, s.db, id)
}

func (ts *txStore) ActivityDates(ctx context.Context, id ledger.PartyID) ([]string, error) {
	return ts.parent.activityDates(ctx, ts.tx, id)
}

func (s *Store) activityDates(ctx context.Context, db dbtx, id ledger.PartyID) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT DATE(date) AS day FROM %s WHERE party_id=?
		UNION
		SELECT DISTINCT DATE(date) AS day FROM %s WHERE party_id=?
		ORDER BY day ASC
	`, s.tables.Items, s.tables.Payments)

	rows, err := db.QueryContext(ctx, query, id, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *Store) RecentPayments(ctx context.Context, order ledger.SortOrder, limit int) ([]ledger.PartyPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentPayments(ctx, s.db, order, limit)
}

func (ts *txStore) RecentPayments(ctx context.Context, order ledger.SortOrder, limit int) ([]ledger.PartyPayment, error) {
	return ts.parent.recentPayments(ctx, ts.tx, order, limit)
}

func (s *Store) recentPayments(ctx context.Context, db dbtx, order ledger.SortOrder, limit int) ([]ledger.PartyPayment, error) {
	dir := "DESC"
	if order == ledger.OrderOldest {
		dir = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT u.name, %s
		FROM %s p
		JOIN %s u ON p.party_id = u.party_id
		ORDER BY datetime(p.date) %s, p.id %s
		LIMIT ?
	`, prefixColumns("p", paymentColumns), s.tables.Payments, s.tables.Party, dir, dir)

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.PartyPayment
	for rows.Next() {
		var (
			pp      ledger.PartyPayment
			amt     string
			remarks sql.NullString
			date    string
		)
		err := rows.Scan(&pp.PartyName, &pp.Payment.ID, &pp.Payment.PartyID, &pp.PaymentID,
			&date, &amt, &pp.Type, &remarks)
		if err != nil {
			return nil, err
		}
		if pp.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, fmt.Errorf("bad amount_paid %q: %w", amt, err)
		}
		pp.Remarks = remarks.String
		pp.Payment.Date, _ = time.Parse(time.RFC3339, date)
		out = append(out, pp)
	}
	return out, rows.Err()
}

func (s *Store) ItemsByDateRange(ctx context.Context, r ledger.DateRange) ([]ledger.PartyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsByDateRange(ctx, s.db, r)
}

func (ts *txStore) ItemsByDateRange(ctx context.Context, r ledger.DateRange) ([]ledger.PartyItem, error) {
	return ts.parent.itemsByDateRange(ctx, ts.tx, r)
}

func (s *Store) itemsByDateRange(ctx context.Context, db dbtx, r ledger.DateRange) ([]ledger.PartyItem, error) {
	query := fmt.Sprintf(`
		SELECT u.name, %s
		FROM %s p
		JOIN %s u ON p.party_id = u.party_id
		WHERE 1=1
	`, prefixColumns("p", itemColumns), s.tables.Items, s.tables.Party)
	var args []any
	query, args = appendDateFilter(query, args, "p.date", r)
	query += ` ORDER BY p.date DESC, p.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.PartyItem
	for rows.Next() {
		var (
			pi              ledger.PartyItem
			qty, price, amt string
			desc            sql.NullString
			date            string
		)
		err := rows.Scan(&pi.PartyName, &pi.Item.ID, &pi.Item.PartyID, &pi.Item.Name,
			&qty, &price, &desc, &amt, &date)
		if err != nil {
			return nil, err
		}
		if pi.Qty, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("bad qty %q: %w", qty, err)
		}
		if pi.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad price %q: %w", price, err)
		}
		if pi.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", amt, err)
		}
		pi.Description = desc.String
		pi.Item.Date, _ = time.Parse(time.RFC3339, date)
		out = append(out, pi)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

// appendDateFilter narrows a query by calendar date, inclusive.
func appendDateFilter(query string, args []any, col string, r ledger.DateRange) (string, []any) {
	if !r.From.IsZero() {
		query += fmt.Sprintf(" AND DATE(%s) >= ?", col)
		args = append(args, r.From.Format("2006-01-02"))
	}
	if !r.To.IsZero() {
		query += fmt.Sprintf(" AND DATE(%s) <= ?", col)
		args = append(args, r.To.Format("2006-01-02"))
	}
	return query, args
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time check.
var _ ledger.TxStore = (*Store)(nil)
