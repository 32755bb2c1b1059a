// Package source loads transfer records from per-league, per-season CSV
// files.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/pkg/logger"
	"github.com/okian/mercato/pkg/metrics"
)

type options struct {
	concurrency int
	logger      logger.Logger
}

// Option configures a Loader.
type Option func(*options)

// WithConcurrency bounds how many files are parsed at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Loader reads transfer CSV files.
type Loader struct {
	opts options
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	o := options{concurrency: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("source")
	}
	return &Loader{opts: o}
}

// LoadDirectory parses every *.csv file in dir concurrently and concatenates
// the rows in file-name order. A missing directory, a directory without CSV
// files, or files without rows all yield model.ErrNoData.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]model.TransferRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", model.ErrNoData, dir)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrSource, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", model.ErrNoData, dir)
	}

	parts := make([][]model.TransferRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.concurrency)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			recs, err := l.LoadFile(gctx, path)
			if err != nil {
				return err
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %d files in %s hold no rows", model.ErrNoData, len(files), dir)
	}
	out := make([]model.TransferRecord, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}

	l.opts.logger.Info(ctx, "loaded transfer directory",
		logger.String("dir", dir),
		logger.Int("files", len(files)),
		logger.Int("records", total),
	)
	return out, nil
}

// LoadFile parses one CSV file. Rows with an unknown movement or year are
// skipped and counted in the log.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]model.TransferRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSource, path, err)
	}
	defer func() { _ = f.Close() }()

	recs, skipped, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if skipped > 0 {
		l.opts.logger.Warn(ctx, "skipped malformed rows",
			logger.String("file", filepath.Base(path)),
			logger.Int("skipped", skipped),
		)
	}
	metrics.RecordRecordsLoaded("csv", len(recs))
	l.opts.logger.Debug(ctx, "loaded transfer file",
		logger.String("file", filepath.Base(path)),
		logger.Int("records", len(recs)),
	)
	return recs, nil
}

// Decode reads a transfer CSV stream with a header row. It returns the
// decoded records and how many rows were skipped as malformed.
func Decode(ctx context.Context, r io.Reader) ([]model.TransferRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: header: %w", ErrSource, err)
	}
	h, err := ParseHeader(head)
	if err != nil {
		return nil, 0, err
	}

	var (
		recs    []model.TransferRecord
		skipped int
	)
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %w", ErrSource, line, err)
		}
		rec, err := DecodeRecord(h, row)
		if err != nil {
			skipped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, skipped, nil
}
