package screener

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"screener-trader/internal/logger"
)

// exportHeader is Chartink's CSV header; HTTPSession writes the same layout.
var exportHeader = []string{"Sr.", "Stock Name", "Symbol", "Links", "% Chg", "Price", "Volume"}

// exportFile is the downloaded scan result both session kinds leave on disk.
type exportFile struct {
	path    string
	timeout time.Duration
	poll    time.Duration
}

func newExportFile(dir, name string, timeout, poll time.Duration) exportFile {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return exportFile{path: filepath.Join(dir, name), timeout: timeout, poll: poll}
}

// clear removes a file left behind by an earlier run so it cannot be mistaken for this one.
func (e exportFile) clear(ctx context.Context) {
	if err := os.Remove(e.path); err == nil {
		logger.Warn(ctx, "Removed stale screener export", "path", e.path)
	}
}

func (e exportFile) ready() bool {
	info, err := os.Stat(e.path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// await polls until the file exists with a non-zero size or the timeout passes.
func (e exportFile) await(ctx context.Context) error {
	if e.ready() {
		return nil
	}
	deadline := time.NewTimer(e.timeout)
	defer deadline.Stop()
	tick := time.NewTicker(e.poll)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if e.ready() {
				return nil
			}
		case <-deadline.C:
			if e.ready() {
				return nil
			}
			return fmt.Errorf("%s after %s: %w", filepath.Base(e.path), e.timeout, ErrExportMissing)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// read waits for the export, parses it and deletes it.
func (e exportFile) read(ctx context.Context) ([][]string, error) {
	if err := e.await(ctx); err != nil {
		return nil, err
	}
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	rows, perr := parseExport(f)
	_ = f.Close()
	if err := os.Remove(e.path); err != nil {
		logger.Warn(ctx, "Failed to delete screener export", "path", e.path, "error", err)
	}
	if perr != nil {
		return nil, perr
	}
	logger.Debug(ctx, "Screener export parsed", "path", e.path, "rows", len(rows))
	return rows, nil
}

// parseExport drops the header row. A file with no data rows yields ErrNoRows.
func parseExport(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	recs, err := cr.ReadAll()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if len(recs) <= 1 {
		return nil, ErrNoRows
	}
	return recs[1:], nil
}

func writeExport(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(exportHeader)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
