package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// RosterEntry is a player attributed to a club at a point in time, described
// by the incoming transfer that brought them in.
type RosterEntry struct {
	Player   string              `json:"player"`
	Age      int                 `json:"age"`
	Position string              `json:"position"`
	Fee      decimal.NullDecimal `json:"fee"`
	FeeText  string              `json:"fee_text"`
	Season   string              `json:"season"`
	Year     int                 `json:"year"`
	From     string              `json:"from"`
}

// event orders transfers by (year, ledger position).
type event struct {
	year  int
	index int
}

func (e event) after(o event) bool {
	if e.year != o.year {
		return e.year > o.year
	}
	return e.index > o.index
}

// CurrentRoster reconstructs the players of club as of the start year of
// asOfSeason. Only records up to that year count. A player is current when
// no outgoing record follows their latest incoming one and the arrival is at
// most the tenure bound (24 years by default) old. Same-year ties are broken
// by ledger order. Entries are sorted by arrival year descending, then name.
func CurrentRoster(records []model.ResolvedTransferRecord, club, asOfSeason string, opts ...Option) ([]RosterEntry, error) {
	o := apply(opts)
	asOf, ok := model.SeasonStartYear(asOfSeason)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeason, asOfSeason)
	}

	type latest struct {
		in, out       event
		hasIn, hasOut bool
	}
	players := make(map[string]*latest)
	var order []string

	for i := range records {
		r := &records[i]
		if r.ClubName != club || r.Year > asOf || r.PlayerName == "" {
			continue
		}
		p, ok := players[r.PlayerName]
		if !ok {
			p = &latest{}
			players[r.PlayerName] = p
			order = append(order, r.PlayerName)
		}
		ev := event{year: r.Year, index: i}
		switch r.Direction {
		case model.DirectionIn:
			if !p.hasIn || ev.after(p.in) {
				p.in, p.hasIn = ev, true
			}
		case model.DirectionOut:
			if !p.hasOut || ev.after(p.out) {
				p.out, p.hasOut = ev, true
			}
		}
	}

	var roster []RosterEntry
	for _, name := range order {
		p := players[name]
		if !p.hasIn {
			continue
		}
		if p.hasOut && p.out.after(p.in) {
			continue
		}
		if asOf-p.in.year > o.maxTenureYears {
			continue
		}
		r := &records[p.in.index]
		from := r.CounterpartyResolved
		if from == "" {
			from = r.Counterparty
		}
		roster = append(roster, RosterEntry{
			Player:   r.PlayerName,
			Age:      r.Age,
			Position: r.Position,
			Fee:      r.Fee,
			FeeText:  r.FeeText,
			Season:   r.Season,
			Year:     r.Year,
			From:     from,
		})
	}

	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Year != roster[j].Year {
			return roster[i].Year > roster[j].Year
		}
		return roster[i].Player < roster[j].Player
	})
	return roster, nil
}
