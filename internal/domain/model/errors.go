package model

import "errors"

// ErrNoData marks a missing or empty transfer source. No analytics are
// computed without data.
var ErrNoData = errors.New("no transfer data")
