package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// ledgerEntriesPerTransfer is how many ledger rows one real move produces
// when both clubs are covered: an "out" for the seller and an "in" for the
// buyer. Volume sums over a player's rows divide by it.
const ledgerEntriesPerTransfer = 2

// Window weights for tenure averaging. A winter move covers half a season.
var windowWeights = map[model.Window]float64{
	model.WindowSummer: 1.0,
	model.WindowWinter: 0.5,
}

// HistoryStats summarizes a player's career in the ledger.
type HistoryStats struct {
	TotalVolume       decimal.Decimal `json:"total_volume"`
	NetTransferVolume decimal.Decimal `json:"net_transfer_volume"`
	TransferCount     int             `json:"transfer_count"`
	AverageTenure     float64         `json:"average_tenure_years"`
	DistinctClubs     int             `json:"distinct_clubs"`
	Positions         []string        `json:"positions"`
}

// History is a player's records, newest first, with derived stats.
type History struct {
	Player  string                         `json:"player"`
	Records []model.ResolvedTransferRecord `json:"records"`
	Stats   HistoryStats                   `json:"stats"`
}

// PlayerHistory collects every record of player ordered by year descending,
// keeping ledger order within a year. An unknown player yields an empty
// history with zero stats.
func PlayerHistory(records []model.ResolvedTransferRecord, player string) History {
	rows := []model.ResolvedTransferRecord{}
	for i := range records {
		if records[i].PlayerName == player {
			rows = append(rows, records[i])
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })

	return History{
		Player:  player,
		Records: rows,
		Stats: HistoryStats{
			TotalVolume:       totalVolume(rows),
			NetTransferVolume: netTransferVolume(rows),
			TransferCount:     len(rows),
			AverageTenure:     averageTenure(rows),
			DistinctClubs:     distinctClubs(rows),
			Positions:         positions(rows),
		},
	}
}

func totalVolume(rows []model.ResolvedTransferRecord) decimal.Decimal {
	sum := decimal.Zero
	for i := range rows {
		sum = sum.Add(rows[i].FeeValue())
	}
	return sum.Div(decimal.NewFromInt(ledgerEntriesPerTransfer))
}

// netTransferVolume sums successive differences between outgoing fees in
// history order. A pair with a missing fee contributes nothing.
func netTransferVolume(rows []model.ResolvedTransferRecord) decimal.Decimal {
	sum := decimal.Zero
	var prev *decimal.NullDecimal
	for i := range rows {
		if rows[i].Direction != model.DirectionOut {
			continue
		}
		fee := rows[i].Fee
		if prev != nil && prev.Valid && fee.Valid {
			sum = sum.Add(fee.Decimal.Sub(prev.Decimal))
		}
		prev = &rows[i].Fee
	}
	return sum
}

// averageTenure takes the distinct transfer years of each window, measures
// the gaps between consecutive years and returns their window-weighted mean.
func averageTenure(rows []model.ResolvedTransferRecord) float64 {
	years := make(map[model.Window]map[int]struct{})
	for i := range rows {
		w := rows[i].Window
		if _, ok := windowWeights[w]; !ok {
			continue
		}
		if years[w] == nil {
			years[w] = make(map[int]struct{})
		}
		years[w][rows[i].Year] = struct{}{}
	}

	var num, den float64
	for w, set := range years {
		sorted := make([]int, 0, len(set))
		for y := range set {
			sorted = append(sorted, y)
		}
		sort.Ints(sorted)
		weight := windowWeights[w]
		for i := 1; i < len(sorted); i++ {
			num += weight * float64(sorted[i]-sorted[i-1])
			den += weight
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func distinctClubs(rows []model.ResolvedTransferRecord) int {
	clubs := make(map[string]struct{})
	for i := range rows {
		if rows[i].ClubName != "" {
			clubs[rows[i].ClubName] = struct{}{}
		}
		other := rows[i].CounterpartyResolved
		if other == "" {
			other = rows[i].Counterparty
		}
		if other != "" {
			clubs[other] = struct{}{}
		}
	}
	return len(clubs)
}

func positions(rows []model.ResolvedTransferRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range rows {
		p := rows[i].Position
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
