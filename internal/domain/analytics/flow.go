package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// FlowMatrix holds summed fees between leagues. Fees[i][j] is money that
// followed players leaving Leagues[i] for Leagues[j].
type FlowMatrix struct {
	Leagues []string            `json:"leagues"`
	Fees    [][]decimal.Decimal `json:"fees"`
	index   map[string]int
}

// Cell returns the fee sum from one league to another; unknown leagues give zero.
func (m FlowMatrix) Cell(from, to string) decimal.Decimal {
	i, ok := m.index[from]
	if !ok {
		return decimal.Zero
	}
	j, ok := m.index[to]
	if !ok {
		return decimal.Zero
	}
	return m.Fees[i][j]
}

// Net returns money flowing from a to b minus money flowing from b to a.
func (m FlowMatrix) Net(a, b string) decimal.Decimal {
	return m.Cell(a, b).Sub(m.Cell(b, a))
}

// Total sums every cell.
func (m FlowMatrix) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, row := range m.Fees {
		for _, v := range row {
			sum = sum.Add(v)
		}
	}
	return sum
}

// NetFlow pivots records whose counterparty and its league are both resolved
// into a league-by-league fee matrix. The axis lists every league seen in
// the ledger in ascending order, so leagues without flows get zero rows.
func NetFlow(records []model.ResolvedTransferRecord) FlowMatrix {
	seen := make(map[string]struct{})
	for i := range records {
		if l := records[i].LeagueName; l != "" {
			seen[l] = struct{}{}
		}
		if l := records[i].CounterpartyLeague; l != "" {
			seen[l] = struct{}{}
		}
	}
	leagues := make([]string, 0, len(seen))
	for l := range seen {
		leagues = append(leagues, l)
	}
	sort.Strings(leagues)

	m := FlowMatrix{
		Leagues: leagues,
		Fees:    make([][]decimal.Decimal, len(leagues)),
		index:   make(map[string]int, len(leagues)),
	}
	for i, l := range leagues {
		m.index[l] = i
		row := make([]decimal.Decimal, len(leagues))
		for j := range row {
			row[j] = decimal.Zero
		}
		m.Fees[i] = row
	}

	for i := range records {
		r := &records[i]
		if !r.HasResolvedCounterparty() || r.LeagueName == "" {
			continue
		}
		from, to := r.LeagueName, r.CounterpartyLeague
		if r.Direction == model.DirectionIn {
			from, to = to, from
		}
		fi, ti := m.index[from], m.index[to]
		m.Fees[fi][ti] = m.Fees[fi][ti].Add(r.FeeValue())
	}
	return m
}
