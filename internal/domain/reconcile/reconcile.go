// Package reconcile applies the name matcher to every transfer record once
// and materializes the resolved ledger.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/mercato/internal/domain/matcher"
	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/pkg/logger"
	"github.com/okian/mercato/pkg/metrics"
)

// defaultProgressEvery matches the sampling interval of the offline prep tool.
const defaultProgressEvery = 100

// LeagueIndex looks up the primary league of a canonical club.
type LeagueIndex interface {
	League(club string) (string, bool)
}

// Progress describes the record just resolved.
type Progress struct {
	Done   int            // records resolved so far, including this one
	Total  int            // records in the ledger
	Raw    string         // raw counterparty name
	Result matcher.Result // resolution outcome
}

// ProgressFunc receives sampled progress reports.
type ProgressFunc func(Progress)

// WarmupFunc resolves the given distinct names ahead of the sequential pass,
// typically in parallel, so the pass itself only hits the matcher cache.
type WarmupFunc func(ctx context.Context, names []string) error

// Summary reports what a pass did.
type Summary struct {
	Records  int                   `json:"records"`
	Distinct int                   `json:"distinct_counterparties"`
	ByStage  map[matcher.Stage]int `json:"by_stage"`
	Duration time.Duration         `json:"duration"`
}

// Resolved returns how many records carry a canonical counterparty.
func (s Summary) Resolved() int {
	return s.ByStage[matcher.StageExact] + s.ByStage[matcher.StageStructural] + s.ByStage[matcher.StageApproximate]
}

type options struct {
	progress      ProgressFunc
	progressEvery int
	warmup        WarmupFunc
	logger        logger.Logger
}

// Option configures a pass.
type Option func(*options)

// WithProgress reports every n-th record (and the last one) to fn.
func WithProgress(fn ProgressFunc, every int) Option {
	return func(o *options) {
		o.progress = fn
		if every > 0 {
			o.progressEvery = every
		}
	}
}

// WithWarmup runs fn over the distinct counterparty names before the pass.
func WithWarmup(fn WarmupFunc) Option {
	return func(o *options) { o.warmup = fn }
}

// WithLogger sets a custom logger for the pass.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run resolves the counterparty of every record and attaches its league.
// The input slice is not modified; output order matches input order.
func Run(ctx context.Context, records []model.TransferRecord, resolver matcher.Resolver, index LeagueIndex, opts ...Option) ([]model.ResolvedTransferRecord, Summary, error) {
	o := options{progressEvery: defaultProgressEvery}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("reconcile")
	}

	start := time.Now()
	names := DistinctCounterparties(records)
	sum := Summary{
		Records:  len(records),
		Distinct: len(names),
		ByStage:  make(map[matcher.Stage]int),
	}

	if o.warmup != nil && len(names) > 0 {
		if err := o.warmup(ctx, names); err != nil {
			return nil, sum, fmt.Errorf("warm up matcher: %w", err)
		}
	}

	out := make([]model.ResolvedTransferRecord, len(records))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, sum, fmt.Errorf("reconcile interrupted at record %d: %w", i, err)
		}

		rec := records[i]
		res := resolver.Resolve(ctx, rec.Counterparty)
		resolved := model.ResolvedTransferRecord{TransferRecord: rec}
		if res.OK() {
			resolved.CounterpartyResolved = res.Name
			if league, ok := index.League(res.Name); ok {
				resolved.CounterpartyLeague = league
			}
		}
		out[i] = resolved

		sum.ByStage[res.Stage]++
		metrics.RecordResolution(string(res.Stage))

		if o.progress != nil && (i%o.progressEvery == 0 || i == len(records)-1) {
			o.progress(Progress{Done: i + 1, Total: len(records), Raw: rec.Counterparty, Result: res})
		}
	}

	sum.Duration = time.Since(start)
	metrics.RecordReconciliationDuration(float64(sum.Duration.Milliseconds()))
	o.logger.Info(ctx, "reconciliation complete",
		logger.Int("records", sum.Records),
		logger.Int("distinct", sum.Distinct),
		logger.Int("resolved", sum.Resolved()),
		logger.Int("unresolved", sum.ByStage[matcher.StageUnresolved]),
		logger.Duration("duration", sum.Duration),
	)
	return out, sum, nil
}

// DistinctCounterparties lists non-empty raw counterparty names in
// first-appearance order.
func DistinctCounterparties(records []model.TransferRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range records {
		n := records[i].Counterparty
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}
