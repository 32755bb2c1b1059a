// Package prep builds the reconciled snapshot offline.
package prep

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/mercato/internal/adapters/snapshot"
	"github.com/okian/mercato/internal/adapters/source"
	service "github.com/okian/mercato/internal/app"
	"github.com/okian/mercato/internal/domain/matcher"
	"github.com/okian/mercato/internal/domain/reconcile"
	"github.com/okian/mercato/pkg/logger"
)

// Run loads the CSV directory, reconciles it and writes the snapshot.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("prep")

	log.Info(ctx, "starting snapshot build",
		logger.String("dataDir", config.DataDir),
		logger.String("snapshot", config.SnapshotPath),
		logger.Int("workers", config.Workers),
		logger.Int("threshold", config.Threshold),
		logger.Int("progressEvery", config.ProgressEvery),
	)

	raw, err := source.NewLoader(source.WithConcurrency(config.Workers)).LoadDirectory(ctx, config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	log.Info(ctx, "source loaded", logger.Int("records", len(raw)))

	svc := service.New(
		service.WithLogger(log),
		service.WithWorkerCount(config.Workers),
		service.WithQueueSize(config.QueueSize),
		service.WithMatchThreshold(config.Threshold),
		service.WithProgress(progressLogger(ctx, log, config.Verbose), config.ProgressEvery),
	)
	ds, err := svc.Reconcile(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	if err := snapshot.Save(ctx, config.SnapshotPath, ds.Records); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	if sum := svc.GetStats(ctx).Reconcile; sum != nil {
		stats.Distinct = sum.Distinct
		stats.Resolved = sum.Resolved()
		stats.Unresolved = sum.ByStage[matcher.StageUnresolved]
	}
	stats.Records = ds.Len()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	for _, nc := range topUnresolved(ds.Records, config.TopUnresolved) {
		log.Info(ctx, "unresolved counterparty", logger.String("name", nc.Name), logger.Int("count", nc.Count))
	}
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// progressLogger mirrors each sampled step as "[done/total] raw -> club".
func progressLogger(ctx context.Context, log logger.Logger, verbose bool) reconcile.ProgressFunc {
	return func(p reconcile.Progress) {
		msg := fmt.Sprintf("[%d/%d] %s -> %s", p.Done, p.Total, p.Raw, p.Result.Name)
		fields := []logger.Field{logger.String("stage", string(p.Result.Stage))}
		if verbose {
			log.Info(ctx, msg, fields...)
			return
		}
		log.Debug(ctx, msg, fields...)
	}
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var resolvedRate, recordsPerSecond float64
	if stats.Records > 0 {
		resolvedRate = float64(stats.Resolved) / float64(stats.Records) * 100
	}
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.Records) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("records", stats.Records),
		logger.Int("distinctCounterparties", stats.Distinct),
		logger.Int("resolved", stats.Resolved),
		logger.Int("unresolved", stats.Unresolved),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("resolvedRate", resolvedRate),
		logger.Float64("recordsPerSecond", recordsPerSecond),
	)
}
