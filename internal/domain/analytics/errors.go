package analytics

import "errors"

// ErrInvalidSeason is returned when a season label has no parsable start year.
var ErrInvalidSeason = errors.New("invalid season")
