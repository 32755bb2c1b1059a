// Package repository holds the published, read-only transfer dataset.
package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/pkg/logger"
	"github.com/okian/mercato/pkg/metrics"
)

// Dataset is an immutable reconciled ledger. Readers share it freely.
type Dataset struct {
	Version     string                         // registry version the ledger was reconciled against
	Source      string                         // "csv" or "snapshot"
	Records     []model.ResolvedTransferRecord // ledger order
	PublishedAt time.Time

	byPlayer map[string][]int
}

// NewDataset indexes records by player. The slice is owned by the dataset
// afterwards and must not be modified.
func NewDataset(version, source string, records []model.ResolvedTransferRecord) *Dataset {
	ds := &Dataset{
		Version:  version,
		Source:   source,
		Records:  records,
		byPlayer: make(map[string][]int),
	}
	for i := range records {
		name := records[i].PlayerName
		ds.byPlayer[name] = append(ds.byPlayer[name], i)
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Players returns how many distinct players appear.
func (d *Dataset) Players() int { return len(d.byPlayer) }

// PlayerRecords returns a player's records in ledger order, or ErrNotFound.
func (d *Dataset) PlayerRecords(name string) ([]model.ResolvedTransferRecord, error) {
	idx, ok := d.byPlayer[name]
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	out := make([]model.ResolvedTransferRecord, len(idx))
	for i, j := range idx {
		out[i] = d.Records[j]
	}
	return out, nil
}

// Store provides access to the current dataset.
type Store interface {
	// Publish replaces the current dataset. Empty datasets are rejected
	// with model.ErrNoData.
	Publish(ctx context.Context, ds *Dataset) error

	// Current returns the published dataset or model.ErrNoData.
	Current(ctx context.Context) (*Dataset, error)
}

// MemoryStore keeps the dataset behind an atomic pointer so queries never
// block on a publish.
type MemoryStore struct {
	current atomic.Pointer[Dataset]
	logger  logger.Logger
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{logger: logger.Get().Named("repository")}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateDatasetRecords(0)
	return s
}

// Publish implements Store.
func (s *MemoryStore) Publish(ctx context.Context, ds *Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return fmt.Errorf("%w: refusing to publish an empty dataset", model.ErrNoData)
	}
	if ds.PublishedAt.IsZero() {
		ds.PublishedAt = time.Now()
	}
	s.current.Store(ds)
	metrics.UpdateDatasetRecords(ds.Len())
	s.logger.Info(ctx, "dataset published",
		logger.String("version", ds.Version),
		logger.String("source", ds.Source),
		logger.Int("records", ds.Len()),
		logger.Int("players", ds.Players()),
	)
	return nil
}

// Current implements Store.
func (s *MemoryStore) Current(_ context.Context) (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset published", model.ErrNoData)
	}
	return ds, nil
}
