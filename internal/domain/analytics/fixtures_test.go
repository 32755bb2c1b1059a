package analytics_test

import (
	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// tr builds a resolved record. fee "" means a null fee.
type tr struct {
	player, club, league, season string
	dir                          model.Direction
	window                       model.Window
	year, age                    int
	fee, feeText, position       string
	raw, resolved, otherLeague   string
}

func (t tr) build() model.ResolvedTransferRecord {
	r := model.ResolvedTransferRecord{
		TransferRecord: model.TransferRecord{
			PlayerName:   t.player,
			Age:          t.age,
			Position:     t.position,
			FeeText:      t.feeText,
			Window:       t.window,
			Direction:    t.dir,
			ClubName:     t.club,
			Counterparty: t.raw,
			LeagueName:   t.league,
			Season:       t.season,
			Year:         t.year,
		},
		CounterpartyResolved: t.resolved,
		CounterpartyLeague:   t.otherLeague,
	}
	if r.Counterparty == "" {
		r.Counterparty = t.resolved
	}
	if t.fee != "" {
		r.Fee = decimal.NewNullDecimal(decimal.RequireFromString(t.fee))
	}
	if r.Window == "" {
		r.Window = model.WindowSummer
	}
	return r
}

func ledger(rows ...tr) []model.ResolvedTransferRecord {
	out := make([]model.ResolvedTransferRecord, len(rows))
	for i, r := range rows {
		out[i] = r.build()
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
