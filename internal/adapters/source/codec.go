package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/model"
)

// Source column names.
const (
	ColClubName         = "club_name"
	ColPlayerName       = "player_name"
	ColAge              = "age"
	ColPosition         = "position"
	ColClubInvolvedName = "club_involved_name"
	ColFee              = "fee"
	ColTransferMovement = "transfer_movement"
	ColTransferPeriod   = "transfer_period"
	ColFeeCleaned       = "fee_cleaned"
	ColLeagueName       = "league_name"
	ColYear             = "year"
	ColSeason           = "season"
	ColCountry          = "country"
)

// Columns is the column order written by EncodeRecord.
var Columns = []string{
	ColClubName, ColPlayerName, ColAge, ColPosition, ColClubInvolvedName, ColFee,
	ColTransferMovement, ColTransferPeriod, ColFeeCleaned, ColLeagueName, ColYear,
	ColSeason, ColCountry,
}

// requiredColumns must be present in every source header.
var requiredColumns = []string{ColClubName, ColPlayerName, ColTransferMovement, ColLeagueName, ColYear, ColSeason}

// Header maps column names to positions.
type Header struct {
	idx map[string]int
}

// ParseHeader indexes a header row. Every name in required, plus the
// columns needed to build a transfer record, must be present.
func ParseHeader(row []string, required ...string) (Header, error) {
	h := Header{idx: make(map[string]int, len(row))}
	for i, name := range row {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := h.idx[name]; !dup {
			h.idx[name] = i
		}
	}
	for _, col := range append(append([]string(nil), requiredColumns...), required...) {
		if _, ok := h.idx[col]; !ok {
			return Header{}, fmt.Errorf("%w: missing column %q", ErrSource, col)
		}
	}
	return h, nil
}

// Get returns the trimmed value of col, or "" when the column or cell is absent.
func (h Header) Get(row []string, col string) string {
	i, ok := h.idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DecodeRecord builds a TransferRecord from one data row. Unparsable fees
// become null and unparsable ages become 0; a row without a usable year or
// direction is rejected.
func DecodeRecord(h Header, row []string) (model.TransferRecord, error) {
	dir, ok := model.ParseDirection(h.Get(row, ColTransferMovement))
	if !ok {
		return model.TransferRecord{}, fmt.Errorf("%w: transfer_movement %q", ErrMalformedRow, h.Get(row, ColTransferMovement))
	}
	year, ok := parseWhole(h.Get(row, ColYear))
	if !ok {
		return model.TransferRecord{}, fmt.Errorf("%w: year %q", ErrMalformedRow, h.Get(row, ColYear))
	}
	age, _ := parseWhole(h.Get(row, ColAge))

	return model.TransferRecord{
		PlayerName:   h.Get(row, ColPlayerName),
		Age:          age,
		Position:     h.Get(row, ColPosition),
		FeeText:      h.Get(row, ColFee),
		Fee:          ParseFee(h.Get(row, ColFeeCleaned)),
		Window:       model.Window(h.Get(row, ColTransferPeriod)),
		Direction:    dir,
		ClubName:     h.Get(row, ColClubName),
		Counterparty: h.Get(row, ColClubInvolvedName),
		LeagueName:   h.Get(row, ColLeagueName),
		Season:       h.Get(row, ColSeason),
		Year:         year,
		Country:      h.Get(row, ColCountry),
	}, nil
}

// EncodeRecord renders r in Columns order.
func EncodeRecord(r model.TransferRecord) []string {
	fee := ""
	if r.Fee.Valid {
		fee = r.Fee.Decimal.String()
	}
	age := ""
	if r.Age > 0 {
		age = strconv.Itoa(r.Age)
	}
	return []string{
		r.ClubName, r.PlayerName, age, r.Position, r.Counterparty, r.FeeText,
		string(r.Direction), string(r.Window), fee, r.LeagueName, strconv.Itoa(r.Year),
		r.Season, r.Country,
	}
}

// ParseFee reads a cleaned fee. Blank, "nan" and non-numeric values are null.
func ParseFee(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseWhole accepts integers and integral floats such as "23.0".
func parseWhole(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
