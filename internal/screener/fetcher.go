package screener

import (
	"context"
	"errors"
	"fmt"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/progress"
)

// Fetcher runs one screener session from page load to parsed export.
type Fetcher struct {
	open   interfaces.SessionFactory
	report *progress.Reporter
}

func NewFetcher(open interfaces.SessionFactory, report *progress.Reporter) *Fetcher {
	return &Fetcher{open: open, report: report}
}

// Fetch returns the export's data rows in screener order. The session is closed on
// every path out, panics included. ErrNoRows is returned for an empty scan and is not
// fatal; any other error is.
func (f *Fetcher) Fetch(ctx context.Context, link string) ([][]string, error) {
	f.report.Infof("Initializing browser to fetch data from Chartink...")
	sess, err := f.open(ctx)
	if err != nil {
		if errors.Is(err, ErrDriverMissing) {
			f.report.Fatalf("%v", err)
		} else {
			f.report.Fatalf("Could not start screener session: %v", err)
		}
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Warn(ctx, "Screener session close failed", "error", cerr)
		}
	}()

	if err := f.drive(ctx, sess, link); err != nil {
		f.report.Infof("FATAL ERROR during browser operation: %v", err)
		return nil, err
	}

	rows, err := sess.ReadExport(ctx)
	switch {
	case errors.Is(err, ErrNoRows):
		return nil, err
	case errors.Is(err, ErrExportMissing):
		f.report.Infof("ERROR: CSV file was not downloaded or is empty. Check Chartink link and permissions.")
		return nil, err
	case err != nil:
		f.report.Fatalf("Could not read screener export: %v", err)
		return nil, err
	}
	f.report.Infof("CSV downloaded. Processing data...")
	return rows, nil
}

func (f *Fetcher) drive(ctx context.Context, sess interfaces.ScreenerSession, link string) error {
	if err := sess.Load(ctx, link); err != nil {
		return fmt.Errorf("load %s: %w", link, err)
	}
	f.report.Infof("Running scan on Chartink...")
	if err := sess.RunScan(ctx); err != nil {
		return fmt.Errorf("run scan: %w", err)
	}
	f.report.Infof("Downloading CSV...")
	if err := sess.Export(ctx); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
