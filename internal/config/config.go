// Package config defines engine configuration and how it is loaded.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and MERCATO_* environment variables on top.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import (
	"context"
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the per-league/season CSV files.
	DataDir string `koanf:"data_dir"`

	// SnapshotPath is the gzip CSV of reconciled records.
	SnapshotPath string `koanf:"snapshot_path"`

	// RebuildSnapshot ignores an existing snapshot and reconciles from DataDir.
	RebuildSnapshot bool `koanf:"rebuild_snapshot"`

	// WorkerCount sets the number of matcher warm-up workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the resolution job queue.
	QueueSize int `koanf:"queue_size"`

	// MatchThreshold is the minimum similarity (0-100) for approximate matches.
	MatchThreshold int `koanf:"match_threshold"`

	// MaxTenureYears bounds how long an arrival counts toward a current roster.
	MaxTenureYears int `koanf:"max_tenure_years"`

	// TopLimit caps ranked analytics tables.
	TopLimit int `koanf:"top_limit"`

	// ProgressEvery samples reconciliation progress logs.
	ProgressEvery int `koanf:"progress_every"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		DataDir:        "data",
		SnapshotPath:   "data/transfers.csv.gz",
		WorkerCount:    runtime.NumCPU() * 2,
		QueueSize:      10_000,
		MatchThreshold: 80,
		MaxTenureYears: 24,
		TopLimit:       10,
		ProgressEvery:  100,
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "" && c.SnapshotPath == "":
		return fmt.Errorf("%w: one of data_dir or snapshot_path is required", ErrInvalidConfig)
	case c.MatchThreshold < 0 || c.MatchThreshold > 100:
		return fmt.Errorf("%w: match_threshold %d outside 0..100", ErrInvalidConfig, c.MatchThreshold)
	case c.MaxTenureYears <= 0:
		return fmt.Errorf("%w: max_tenure_years must be positive", ErrInvalidConfig)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.TopLimit <= 0:
		return fmt.Errorf("%w: top_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
