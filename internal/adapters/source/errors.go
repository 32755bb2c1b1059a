package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrSource       = errors.New("transfer source")
	ErrMalformedRow = errors.New("malformed transfer row")
)
