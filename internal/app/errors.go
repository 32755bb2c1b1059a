package service

import "errors"

// ErrStopped is returned by queries after Stop.
var ErrStopped = errors.New("service stopped")
