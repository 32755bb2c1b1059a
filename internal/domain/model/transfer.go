// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the transfer movement seen from the acting club.
type Direction string

// Transfer directions.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ParseDirection normalizes a raw movement value. Unknown values return false.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionIn:
		return DirectionIn, true
	case DirectionOut:
		return DirectionOut, true
	}
	return "", false
}

// Window is the transfer period inside a season.
type Window string

// Transfer windows.
const (
	WindowSummer Window = "Summer"
	WindowWinter Window = "Winter"
)

// TransferRecord is one row of the transfer ledger.
// Each real-world move between two covered leagues shows up twice: once as
// "out" from the selling club and once as "in" for the buying club.
type TransferRecord struct {
	PlayerName   string              `json:"player_name"`        // player as printed in the source
	Age          int                 `json:"age"`                // age at transfer; 0 when unknown
	Position     string              `json:"position"`           // playing position
	FeeText      string              `json:"fee"`                // raw fee text, e.g. "€12.00m", "free transfer", "loan"
	Fee          decimal.NullDecimal `json:"fee_cleaned"`        // cleaned fee; invalid means free/unknown
	Window       Window              `json:"transfer_period"`    // Summer or Winter
	Direction    Direction           `json:"transfer_movement"`  // in or out
	ClubName     string              `json:"club_name"`          // acting club
	Counterparty string              `json:"club_involved_name"` // raw counterparty name, possibly empty
	LeagueName   string              `json:"league_name"`        // league of the acting club
	Season       string              `json:"season"`             // "YYYY/YYYY"
	Year         int                 `json:"year"`               // calendar year of the transfer
	Country      string              `json:"country"`            // country of the acting club's league
}

// FeeValue returns the cleaned fee or zero when the fee is null.
func (r TransferRecord) FeeValue() decimal.Decimal {
	if !r.Fee.Valid {
		return decimal.Zero
	}
	return r.Fee.Decimal
}

// IsFree reports whether the raw fee text marks a free transfer.
func (r TransferRecord) IsFree() bool {
	return strings.Contains(strings.ToLower(r.FeeText), "free")
}

// IsLoan reports whether the raw fee text marks a loan.
func (r TransferRecord) IsLoan() bool {
	return strings.Contains(strings.ToLower(r.FeeText), "loan")
}

// ResolvedTransferRecord is a TransferRecord with its counterparty mapped onto
// the canonical club registry. Empty strings stand for null.
type ResolvedTransferRecord struct {
	TransferRecord
	CounterpartyResolved string `json:"club_involved_cleaned"` // canonical club name or ""
	CounterpartyLeague   string `json:"involved_league"`       // primary league of the resolved club or ""
}

// HasResolvedCounterparty reports whether both resolution columns are set.
func (r ResolvedTransferRecord) HasResolvedCounterparty() bool {
	return r.CounterpartyResolved != "" && r.CounterpartyLeague != ""
}

// SeasonStartYear parses the first four characters of a "YYYY/YYYY" label.
func SeasonStartYear(season string) (int, bool) {
	season = strings.TrimSpace(season)
	if len(season) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

// ResolveJob is a distinct counterparty name queued for resolution.
type ResolveJob struct {
	Seq  int    // first-appearance position in the ledger
	Name string // raw counterparty name
}
