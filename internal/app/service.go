// Package service owns the reconciled transfer ledger and answers the
// analytics queries served by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/mercato/internal/adapters/mq/queue"
	"github.com/okian/mercato/internal/adapters/mq/worker"
	"github.com/okian/mercato/internal/adapters/repository"
	"github.com/okian/mercato/internal/adapters/snapshot"
	"github.com/okian/mercato/internal/adapters/source"
	"github.com/okian/mercato/internal/domain/analytics"
	"github.com/okian/mercato/internal/domain/matcher"
	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/internal/domain/reconcile"
	"github.com/okian/mercato/internal/domain/registry"
	"github.com/okian/mercato/pkg/logger"
	"github.com/okian/mercato/pkg/metrics"
)

// Dataset sources.
const (
	SourceCSV      = "csv"
	SourceSnapshot = "snapshot"
)

// Service implements the API dependencies for the transfer analytics engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	loader   *source.Loader
	registry *registry.Registry
	matcher  *matcher.Matcher
	summary  *reconcile.Summary

	// Configuration
	dataDir         string
	snapshotPath    string
	rebuildSnapshot bool
	workerCount     int
	queueSize       int
	threshold       int
	maxTenureYears  int
	topLimit        int
	progressEvery   int
	progress        reconcile.ProgressFunc

	// State
	started bool
	stopped bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory holding the source CSV files.
func WithDataDir(dir string) Option {
	return func(s *Service) { s.dataDir = dir }
}

// WithSnapshotPath sets where the reconciled snapshot is read and written.
// An empty path disables the snapshot.
func WithSnapshotPath(path string) Option {
	return func(s *Service) { s.snapshotPath = path }
}

// WithRebuildSnapshot forces reconciliation from CSV even if a snapshot exists.
func WithRebuildSnapshot(rebuild bool) Option {
	return func(s *Service) { s.rebuildSnapshot = rebuild }
}

// WithWorkerCount sets the number of resolution workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the resolution queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMatchThreshold sets the minimum approximate similarity score.
func WithMatchThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= 0 && threshold <= 100 {
			s.threshold = threshold
		}
	}
}

// WithMaxTenureYears bounds how long an arrival counts towards a roster.
func WithMaxTenureYears(years int) Option {
	return func(s *Service) {
		if years > 0 {
			s.maxTenureYears = years
		}
	}
}

// WithTopLimit sets how many rows the ranking queries return.
func WithTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithProgress receives every n-th reconciliation step.
func WithProgress(fn reconcile.ProgressFunc, every int) Option {
	return func(s *Service) {
		s.progress = fn
		if every > 0 {
			s.progressEvery = every
		}
	}
}

// WithStore replaces the in-memory dataset store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10000,
		threshold:      matcher.DefaultThreshold,
		maxTenureYears: analytics.DefaultMaxTenureYears,
		topLimit:       analytics.DefaultLimit,
		progressEvery:  100,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the ledger and publishes it. A snapshot is preferred unless a
// rebuild is forced; otherwise the CSV directory is reconciled and the
// snapshot rewritten.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.loader == nil {
		s.loader = source.NewLoader(source.WithConcurrency(s.workerCount), source.WithLogger(s.logger.Named("source")))
	}

	s.logger.Info(ctx, "starting transfer service...",
		logger.String("dataDir", s.dataDir),
		logger.String("snapshot", s.snapshotPath),
		logger.Bool("rebuild", s.rebuildSnapshot),
	)

	loaded, err := s.startFromSnapshot(ctx)
	if err != nil {
		return err
	}
	if !loaded {
		if err := s.startFromSource(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.stopped = false
	s.logger.Info(ctx, "transfer service started",
		logger.Int("clubs", s.registry.Len()),
		logger.String("registryVersion", s.registry.Version()),
	)
	return nil
}

// startFromSnapshot reports whether a snapshot was published. Missing or
// unreadable snapshots fall through to the CSV path when one is configured.
func (s *Service) startFromSnapshot(ctx context.Context) (bool, error) {
	if s.rebuildSnapshot || s.snapshotPath == "" {
		return false, nil
	}

	recs, err := snapshot.Load(ctx, s.snapshotPath)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNoData) && s.dataDir != "":
		s.logger.Info(ctx, "no snapshot found, reconciling from source", logger.String("path", s.snapshotPath))
		return false, nil
	case errors.Is(err, snapshot.ErrSnapshot) && s.dataDir != "":
		s.logger.Warn(ctx, "snapshot unreadable, reconciling from source", logger.Error(err))
		return false, nil
	default:
		return false, fmt.Errorf("load snapshot: %w", err)
	}

	raw := make([]model.TransferRecord, len(recs))
	for i := range recs {
		raw[i] = recs[i].TransferRecord
	}
	reg := registry.Build(raw)
	s.useRegistry(reg)

	if err := s.store.Publish(ctx, repository.NewDataset(reg.Version(), SourceSnapshot, recs)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) startFromSource(ctx context.Context) error {
	if s.dataDir == "" {
		return fmt.Errorf("%w: no data directory configured", model.ErrNoData)
	}

	raw, err := s.loader.LoadDirectory(ctx, s.dataDir)
	if err != nil {
		return err
	}

	ds, err := s.reconcile(ctx, raw)
	if err != nil {
		return err
	}

	if s.snapshotPath != "" {
		if err := snapshot.Save(ctx, s.snapshotPath, ds.Records); err != nil {
			s.logger.Error(ctx, "failed to write snapshot", logger.Error(err))
		} else {
			s.logger.Info(ctx, "snapshot written",
				logger.String("path", s.snapshotPath),
				logger.Int("records", ds.Len()),
			)
		}
	}
	return s.store.Publish(ctx, ds)
}

// Reconcile builds a registry and matcher for raw, resolves every record and
// returns the dataset without publishing it. Used by the offline prep tool.
func (s *Service) Reconcile(ctx context.Context, raw []model.TransferRecord) (*repository.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s.reconcile(ctx, raw)
}

func (s *Service) reconcile(ctx context.Context, raw []model.TransferRecord) (*repository.Dataset, error) {
	reg := registry.Build(raw)
	s.useRegistry(reg)

	recs, sum, err := reconcile.Run(ctx, raw, s.matcher, reg,
		reconcile.WithWarmup(s.warmup(s.matcher)),
		reconcile.WithProgress(s.progress, s.progressEvery),
		reconcile.WithLogger(s.logger.Named("reconcile")),
	)
	if err != nil {
		return nil, err
	}
	s.summary = &sum
	return repository.NewDataset(reg.Version(), SourceCSV, recs), nil
}

func (s *Service) useRegistry(reg *registry.Registry) {
	s.registry = reg
	s.matcher = matcher.New(reg,
		matcher.WithThreshold(s.threshold),
		matcher.WithLogger(s.logger.Named("matcher")),
	)
	metrics.UpdateRegistryClubs(reg.Len())
}

// warmup fans the distinct names out to a worker pool through the bounded
// queue. Names that do not fit are resolved inline.
func (s *Service) warmup(m *matcher.Matcher) reconcile.WarmupFunc {
	return func(ctx context.Context, names []string) error {
		q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize), queue.WithBufferSize(s.queueSize))
		pool := worker.NewPool(s.workerCount, q, m)
		pool.Start(ctx)

		for i, name := range names {
			err := q.TryEnqueue(ctx, queue.Job{Seq: i, Name: name})
			switch {
			case err == nil:
			case errors.Is(err, queue.ErrFull):
				m.Resolve(ctx, name)
			default:
				_ = q.Close()
				pool.Stop()
				return fmt.Errorf("enqueue %q: %w", name, err)
			}
		}
		_ = q.Close()

		if err := pool.Wait(ctx); err != nil {
			pool.Stop()
			return err
		}
		s.logger.Debug(ctx, "matcher warm-up complete",
			logger.Int("names", len(names)),
			logger.Int64("queued", pool.Processed()),
			logger.Int("workers", pool.Size()),
		)
		return nil
	}
}

// Stop marks the service stopped. Queries fail with ErrStopped until the
// next Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.stopped = true
	s.logger.Info(context.Background(), "transfer service stopped")
}

// dataset returns the published dataset for a query.
func (s *Service) dataset(ctx context.Context) (*repository.Dataset, error) {
	s.mu.RLock()
	stopped, store := s.stopped, s.store
	s.mu.RUnlock()

	if stopped {
		return nil, ErrStopped
	}
	if store == nil {
		return nil, fmt.Errorf("%w: service not started", model.ErrNoData)
	}
	return store.Current(ctx)
}

func observe(op string, start time.Time) {
	metrics.RecordAnalyticsQuery(op, float64(time.Since(start).Microseconds())/1000)
}

// Seasons lists the seasons in the ledger, newest first.
func (s *Service) Seasons(ctx context.Context) ([]string, error) {
	defer observe("seasons", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Seasons(ds.Records), nil
}

// Leagues lists the covered leagues in first-seen order.
func (s *Service) Leagues(ctx context.Context) ([]string, error) {
	defer observe("leagues", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Leagues(ds.Records), nil
}

// Resolution is the answer to an ad-hoc name lookup.
type Resolution struct {
	Raw    string        `json:"raw"`
	Club   string        `json:"club,omitempty"`
	League string        `json:"league,omitempty"`
	Stage  matcher.Stage `json:"stage"`
	Score  int           `json:"score,omitempty"`
}

// Resolve maps a raw club name onto the registry.
func (s *Service) Resolve(ctx context.Context, name string) (Resolution, error) {
	defer observe("resolve", time.Now())
	if _, err := s.dataset(ctx); err != nil {
		return Resolution{}, err
	}

	s.mu.RLock()
	m, reg := s.matcher, s.registry
	s.mu.RUnlock()

	res := m.Resolve(ctx, name)
	out := Resolution{Raw: name, Club: res.Name, Stage: res.Stage, Score: res.Score}
	if res.OK() {
		out.League, _ = reg.League(res.Name)
	}
	return out, nil
}

// TopForeignClubs ranks counterparties outside sel.League by fee volume.
func (s *Service) TopForeignClubs(ctx context.Context, sel analytics.Selection, direction model.Direction) ([]analytics.Total, error) {
	defer observe("foreign_clubs", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopForeignClubs(analytics.Select(ds.Records, sel), direction, sel.League,
		analytics.WithLimit(s.topLimit)), nil
}

// TopPlayers ranks players by fee volume within sel.
func (s *Service) TopPlayers(ctx context.Context, sel analytics.Selection) ([]analytics.Total, error) {
	defer observe("top_players", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopPlayers(analytics.Select(ds.Records, sel), analytics.WithLimit(s.topLimit)), nil
}

// ClubSummaries returns per-club aggregates within sel.
func (s *Service) ClubSummaries(ctx context.Context, sel analytics.Selection) ([]analytics.ClubSummary, error) {
	defer observe("club_summary", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ClubSummaries(analytics.Select(ds.Records, sel)), nil
}

// CurrentRoster lists the players at club as of season.
func (s *Service) CurrentRoster(ctx context.Context, club, season string) ([]analytics.RosterEntry, error) {
	defer observe("roster", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CurrentRoster(ds.Records, club, season, analytics.WithMaxTenureYears(s.maxTenureYears))
}

// NetFlow builds the league-to-league fee matrix for a season, or for the
// whole ledger when season is empty.
func (s *Service) NetFlow(ctx context.Context, season string) (analytics.FlowMatrix, error) {
	defer observe("net_flow", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return analytics.FlowMatrix{}, err
	}
	return analytics.NetFlow(analytics.Select(ds.Records, analytics.Selection{Season: season})), nil
}

// PlayerHistory returns a player's moves and derived statistics.
func (s *Service) PlayerHistory(ctx context.Context, name string) (analytics.History, error) {
	defer observe("player_history", time.Now())
	ds, err := s.dataset(ctx)
	if err != nil {
		return analytics.History{}, err
	}
	recs, err := ds.PlayerRecords(name)
	if err != nil {
		return analytics.History{}, err
	}
	return analytics.PlayerHistory(recs, name), nil
}

// DatasetStats describes the published ledger.
type DatasetStats struct {
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	Records     int       `json:"records"`
	Players     int       `json:"players"`
	PublishedAt time.Time `json:"published_at"`
}

// Stats is a point-in-time view of the service.
type Stats struct {
	Started     bool               `json:"started"`
	WorkerCount int                `json:"worker_count"`
	QueueSize   int                `json:"queue_size"`
	Threshold   int                `json:"match_threshold"`
	Clubs       int                `json:"clubs"`
	Dataset     *DatasetStats      `json:"dataset,omitempty"`
	Reconcile   *reconcile.Summary `json:"reconcile,omitempty"`
	Matcher     *matcher.Stats     `json:"matcher,omitempty"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
		Threshold:   s.threshold,
		Reconcile:   s.summary,
	}
	if s.registry != nil {
		stats.Clubs = s.registry.Len()
	}
	if s.matcher != nil {
		ms := s.matcher.Stats()
		stats.Matcher = &ms
	}
	if s.store != nil {
		if ds, err := s.store.Current(ctx); err == nil {
			stats.Dataset = &DatasetStats{
				Version:     ds.Version,
				Source:      ds.Source,
				Records:     ds.Len(),
				Players:     ds.Players(),
				PublishedAt: ds.PublishedAt,
			}
		}
	}
	return stats
}
