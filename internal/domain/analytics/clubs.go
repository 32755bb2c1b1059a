package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// ClubSummary is the financial picture of one acting club.
type ClubSummary struct {
	Club          string          `json:"club"`
	TotalVolume   decimal.Decimal `json:"total_volume"`
	Transfers     int             `json:"transfers"`
	Profit        decimal.Decimal `json:"profit"` // outgoing fees minus incoming fees
	MedianAge     float64         `json:"median_age"`
	FreeTransfers int             `json:"free_transfers"`
	Loans         int             `json:"loans"`
}

// ClubSummaries computes one row per acting club, sorted by total volume
// descending and then by club name. Records with an unknown age (0) do not
// contribute to the median; a club with no known ages reports 0.
func ClubSummaries(records []model.ResolvedTransferRecord) []ClubSummary {
	idx := make(map[string]int)
	var rows []ClubSummary
	var ages [][]int

	for i := range records {
		r := &records[i]
		pos, ok := idx[r.ClubName]
		if !ok {
			pos = len(rows)
			idx[r.ClubName] = pos
			rows = append(rows, ClubSummary{Club: r.ClubName, TotalVolume: decimal.Zero, Profit: decimal.Zero})
			ages = append(ages, nil)
		}

		row := &rows[pos]
		fee := r.FeeValue()
		row.TotalVolume = row.TotalVolume.Add(fee)
		row.Transfers++
		switch r.Direction {
		case model.DirectionOut:
			row.Profit = row.Profit.Add(fee)
		case model.DirectionIn:
			row.Profit = row.Profit.Sub(fee)
		}
		if r.IsFree() {
			row.FreeTransfers++
		}
		if r.IsLoan() {
			row.Loans++
		}
		if r.Age > 0 {
			ages[pos] = append(ages[pos], r.Age)
		}
	}

	for i := range rows {
		rows[i].MedianAge = median(ages[i])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].TotalVolume.Cmp(rows[j].TotalVolume); c != 0 {
			return c > 0
		}
		return rows[i].Club < rows[j].Club
	})
	return rows
}

func median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]int(nil), xs...)
	sort.Ints(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return float64(s[mid])
	}
	return float64(s[mid-1]+s[mid]) / 2
}
