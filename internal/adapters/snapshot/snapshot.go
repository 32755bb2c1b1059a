// Package snapshot persists a reconciled ledger as a gzip-compressed CSV so
// later runs can skip reconciliation.
package snapshot

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/mercato/internal/adapters/source"
	"github.com/okian/mercato/internal/domain/model"
	"github.com/okian/mercato/pkg/metrics"
)

// Resolution columns appended after the source columns.
const (
	ColClubInvolvedCleaned = "club_involved_cleaned"
	ColInvolvedLeague      = "involved_league"
)

// Columns is the snapshot header.
var Columns = append(append([]string(nil), source.Columns...), ColClubInvolvedCleaned, ColInvolvedLeague)

// Save writes records to path atomically: the data goes to a temporary
// file in the same directory which then replaces path.
func Save(ctx context.Context, path string, records []model.ResolvedTransferRecord) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			metrics.RecordErrorByComponent("snapshot", "save")
		}
		metrics.RecordSnapshotSave(outcome, time.Now().Unix(), float64(time.Since(start).Milliseconds()))
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrSnapshot, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrSnapshot, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := Encode(ctx, tmp, records); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", ErrSnapshot, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrSnapshot, path, err)
	}
	return nil
}

// Encode writes records as gzip CSV to w.
func Encode(ctx context.Context, w io.Writer, records []model.ResolvedTransferRecord) error {
	zw := gzip.NewWriter(w)
	cw := csv.NewWriter(zw)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("%w: header: %w", ErrSnapshot, err)
	}
	for i := range records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row := append(source.EncodeRecord(records[i].TransferRecord),
			records[i].CounterpartyResolved, records[i].CounterpartyLeague)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrSnapshot, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrSnapshot, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: gzip: %w", ErrSnapshot, err)
	}
	return nil
}

// Load reads a snapshot written by Save. A missing or empty snapshot yields
// model.ErrNoData; a corrupt one yields ErrSnapshot.
func Load(ctx context.Context, path string) (recs []model.ResolvedTransferRecord, err error) {
	defer func() {
		switch {
		case err == nil:
			metrics.RecordSnapshotLoad("ok")
			metrics.RecordRecordsLoaded("snapshot", len(recs))
		case errors.Is(err, model.ErrNoData):
			metrics.RecordSnapshotLoad("missing")
		default:
			metrics.RecordSnapshotLoad("error")
			metrics.RecordErrorByComponent("snapshot", "load")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: snapshot %s does not exist", model.ErrNoData, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrSnapshot, path, err)
	}
	defer func() { _ = f.Close() }()

	recs, err = Decode(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: snapshot %s is empty", model.ErrNoData, path)
	}
	return recs, nil
}

// Decode reads gzip CSV produced by Encode.
func Decode(ctx context.Context, r io.Reader) ([]model.ResolvedTransferRecord, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrSnapshot, err)
	}
	defer func() { _ = zr.Close() }()

	cr := csv.NewReader(zr)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrSnapshot, err)
	}
	h, err := source.ParseHeader(head, ColClubInvolvedCleaned, ColInvolvedLeague)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	var out []model.ResolvedTransferRecord
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSnapshot, line, err)
		}
		rec, err := source.DecodeRecord(h, row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSnapshot, line, err)
		}
		out = append(out, model.ResolvedTransferRecord{
			TransferRecord:       rec,
			CounterpartyResolved: h.Get(row, ColClubInvolvedCleaned),
			CounterpartyLeague:   h.Get(row, ColInvolvedLeague),
		})
	}
	return out, nil
}
