package resolver

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
)

const (
	colExchange       = 0
	colSymbol         = 1
	colSecurityID     = 2
	colInstrumentType = 3
)

// CSVSource reads a header-less instrument dump laid out as
// exchange, symbol, security id, instrument type, ...
type CSVSource struct {
	Path     string
	Exchange string
	// Marker must appear in the instrument type column, e.g. "EQ".
	Marker string
}

var _ interfaces.InstrumentSource = CSVSource{}

// Load returns symbol -> security id for equity rows on the configured exchange.
// When a symbol appears more than once the first row wins.
func (s CSVSource) Load(ctx context.Context) (map[string]string, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrReferenceMissing, filepath.Base(s.Path))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	table := make(map[string]string)
	var rows, bad int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}
		rows++
		if len(rec) <= colInstrumentType {
			continue
		}
		if rec[colExchange] != s.Exchange || !strings.Contains(rec[colInstrumentType], s.Marker) {
			continue
		}
		sym := strings.TrimSpace(rec[colSymbol])
		if _, seen := table[sym]; seen {
			continue
		}
		table[sym] = strings.TrimSpace(rec[colSecurityID])
	}

	logger.Debug(ctx, "Instrument CSV loaded", "path", s.Path, "rows", rows, "unreadable", bad, "matched", len(table))
	return table, nil
}
