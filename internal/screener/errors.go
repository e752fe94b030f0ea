// Package screener drives a Chartink screener page through scan and CSV export and
// returns the parsed rows.
package screener

import "errors"

var (
	// ErrDriverMissing means no usable browser executable was found.
	ErrDriverMissing = errors.New("browser executable not found")
	// ErrUIWait means a page element did not become clickable in time.
	ErrUIWait = errors.New("screener element not interactive in time")
	// ErrExportMissing means the export file never appeared or stayed empty.
	ErrExportMissing = errors.New("export file was not downloaded or is empty")
	// ErrNoRows means the export parsed to a header and nothing else.
	ErrNoRows = errors.New("export has no data rows")
)
