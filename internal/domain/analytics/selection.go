package analytics

import (
	"sort"

	"github.com/okian/mercato/internal/domain/model"
)

// Selection narrows the ledger to one season and/or league. Empty fields
// match everything.
type Selection struct {
	Season string
	League string
}

// Select returns the records matching sel in ledger order. The result shares
// no backing array with records.
func Select(records []model.ResolvedTransferRecord, sel Selection) []model.ResolvedTransferRecord {
	out := make([]model.ResolvedTransferRecord, 0, len(records))
	for i := range records {
		if sel.Season != "" && records[i].Season != sel.Season {
			continue
		}
		if sel.League != "" && records[i].LeagueName != sel.League {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// Seasons lists distinct season labels, newest first.
func Seasons(records []model.ResolvedTransferRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		s := records[i].Season
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Leagues lists distinct acting leagues in first-seen order.
func Leagues(records []model.ResolvedTransferRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		l := records[i].LeagueName
		if l == "" {
			continue
		}
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}
