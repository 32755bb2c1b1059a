// Package analytics holds the read-only queries over a reconciled transfer
// ledger. Every function is pure: it never mutates its input and is safe to
// call concurrently on the same slice.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// Default query bounds.
const (
	DefaultLimit          = 10
	DefaultMaxTenureYears = 24
)

type options struct {
	limit          int
	maxTenureYears int
}

// Option tunes a query.
type Option func(*options)

// WithLimit caps ranked tables. Non-positive values keep the default.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithMaxTenureYears bounds how long an arrival may count toward a roster.
func WithMaxTenureYears(years int) Option {
	return func(o *options) {
		if years > 0 {
			o.maxTenureYears = years
		}
	}
}

func apply(opts []Option) options {
	o := options{limit: DefaultLimit, maxTenureYears: DefaultMaxTenureYears}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Total is a ranked fee sum.
type Total struct {
	Name     string          `json:"name"`
	TotalFee decimal.Decimal `json:"total_fee"`
	Count    int             `json:"transfers"`
}

// TopForeignClubs ranks counterparties by summed fee for one direction,
// leaving out unresolved counterparties and those whose primary league is
// league.
func TopForeignClubs(records []model.ResolvedTransferRecord, direction model.Direction, league string, opts ...Option) []Total {
	o := apply(opts)
	return rank(records, o.limit, func(r *model.ResolvedTransferRecord) (string, bool) {
		if r.Direction != direction || r.CounterpartyResolved == "" {
			return "", false
		}
		if r.CounterpartyLeague == league {
			return "", false
		}
		return r.CounterpartyResolved, true
	})
}

// TopPlayers ranks players by summed fee.
func TopPlayers(records []model.ResolvedTransferRecord, opts ...Option) []Total {
	o := apply(opts)
	return rank(records, o.limit, func(r *model.ResolvedTransferRecord) (string, bool) {
		return r.PlayerName, r.PlayerName != ""
	})
}

// rank groups records by key, sums fees and returns the top n, largest
// first with ties in ascending key order.
func rank(records []model.ResolvedTransferRecord, n int, key func(*model.ResolvedTransferRecord) (string, bool)) []Total {
	idx := make(map[string]int)
	var totals []Total
	for i := range records {
		k, ok := key(&records[i])
		if !ok {
			continue
		}
		pos, seen := idx[k]
		if !seen {
			pos = len(totals)
			idx[k] = pos
			totals = append(totals, Total{Name: k, TotalFee: decimal.Zero})
		}
		totals[pos].TotalFee = totals[pos].TotalFee.Add(records[i].FeeValue())
		totals[pos].Count++
	}

	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].TotalFee.Cmp(totals[j].TotalFee); c != 0 {
			return c > 0
		}
		return totals[i].Name < totals[j].Name
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
