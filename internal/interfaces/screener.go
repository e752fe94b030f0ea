package interfaces

import "context"

// ScreenerSession drives one screener page through scan and export.
// A session is single-use and must be closed on every exit path.
type ScreenerSession interface {
	Load(ctx context.Context, link string) error
	RunScan(ctx context.Context) error
	Export(ctx context.Context) error
	// ReadExport waits for the exported file, parses it and removes it.
	ReadExport(ctx context.Context) ([][]string, error)
	Close() error
}

// SessionFactory opens a fresh session for a run.
type SessionFactory func(ctx context.Context) (ScreenerSession, error)
