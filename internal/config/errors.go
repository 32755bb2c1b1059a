package config

import "errors"

// Sentinel error kinds for configuration.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
