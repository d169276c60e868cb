/*
Package stock derives the on-hand stock view from the purchase and sales
ledgers.

PURPOSE:
  There is no stock table. Available quantity is a projection: everything
  ever purchased minus everything ever sold, aggregated by normalized item
  name. The projection is recomputed on demand, so it can never drift from
  the ledgers it is derived from.

NORMALIZATION:
  Item names are matched after trimming and lowercasing, so "Brake Pad"
  and "brake pad " are the same stock line. Lines carry the normalized
  name.

OVERSOLD LINES:
  More sold than purchased is reported, not clamped away: Available floors
  at zero but Oversold flags the discrepancy for the audit screens.
*/
package stock

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trackedge/books/ledger"
)

// Line is one item's stock position across both ledgers.
type Line struct {
	Name      string          `json:"name"`
	Purchased decimal.Decimal `json:"purchased"`
	Sold      decimal.Decimal `json:"sold"`
	Available decimal.Decimal `json:"available"`
	Oversold  bool            `json:"oversold,omitempty"`
}

// View holds the whole stock projection, sorted by name.
type View struct {
	Lines []Line `json:"lines"`
}

// Oversold returns only the lines where more was sold than purchased.
func (v View) Oversold() []Line {
	var out []Line
	for _, l := range v.Lines {
		if l.Oversold {
			out = append(out, l)
		}
	}
	return out
}

// Find returns the line for the given item name, nil when unknown.
func (v View) Find(name string) *Line {
	key := normalize(name)
	for i := range v.Lines {
		if normalize(v.Lines[i].Name) == key {
			return &v.Lines[i]
		}
	}
	return nil
}

// Compute builds the stock view from the two ledgers' item tables.
func Compute(ctx context.Context, purchases, sales ledger.Store) (View, error) {
	bought, err := purchases.ItemQuantityTotals(ctx)
	if err != nil {
		return View{}, &ledger.PersistenceError{Op: "stock purchases", Err: err}
	}
	sold, err := sales.ItemQuantityTotals(ctx)
	if err != nil {
		return View{}, &ledger.PersistenceError{Op: "stock sales", Err: err}
	}

	names := make(map[string]struct{}, len(bought)+len(sold))
	for name := range bought {
		names[name] = struct{}{}
	}
	for name := range sold {
		names[name] = struct{}{}
	}

	view := View{Lines: make([]Line, 0, len(names))}
	for name := range names {
		in := bought[name]
		out := sold[name]
		available := in.Sub(out)
		oversold := available.IsNegative()
		if oversold {
			available = decimal.Zero
		}
		view.Lines = append(view.Lines, Line{
			Name:      name,
			Purchased: in,
			Sold:      out,
			Available: available,
			Oversold:  oversold,
		})
	}
	sort.Slice(view.Lines, func(i, j int) bool {
		return view.Lines[i].Name < view.Lines[j].Name
	})
	return view, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
