package prep

import (
	"sort"

	"github.com/okian/mercato/internal/domain/model"
)

// NameCount is a raw counterparty name and how often it went unresolved.
type NameCount struct {
	Name  string
	Count int
}

// topUnresolved lists the n most frequent raw counterparty names that did
// not resolve. Ties keep first-appearance order.
func topUnresolved(records []model.ResolvedTransferRecord, n int) []NameCount {
	counts := make(map[string]int)
	var order []string
	for i := range records {
		r := &records[i]
		if r.Counterparty == "" || r.CounterpartyResolved != "" {
			continue
		}
		if _, ok := counts[r.Counterparty]; !ok {
			order = append(order, r.Counterparty)
		}
		counts[r.Counterparty]++
	}

	out := make([]NameCount, len(order))
	for i, name := range order {
		out[i] = NameCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
