package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	dir string
)

// IST is the exchange clock used to name daily files.
var IST = time.FixedZone("IST", 19800)

// Entry is one order submission as written to the daily trade log. ReferencePrice is the
// screener price the bracket was built from; market entries have no other price.
type Entry struct {
	Time           string `json:"time"`
	RunID          string `json:"run_id,omitempty"`
	Symbol         string `json:"symbol"`
	SecurityID     string `json:"security_id"`
	Leg            string `json:"leg"`
	Side           string `json:"side"`
	Kind           string `json:"kind"`
	Qty            int    `json:"qty"`
	Price          string `json:"price"`
	ReferencePrice string `json:"reference_price,omitempty"`
	TriggerPrice   string `json:"trigger_price,omitempty"`
	OrderID        string `json:"order_id,omitempty"`
	Status         string `json:"status"`
	BrokerMessage  string `json:"broker_message,omitempty"`
}

// SetDir overrides the log directory. An empty dir falls back to TRADER_LOG_DIR, then "logs".
func SetDir(d string) {
	mu.Lock()
	defer mu.Unlock()
	dir = d
}

func Dir() string {
	mu.Lock()
	defer mu.Unlock()
	return logDir()
}

func logDir() string {
	if dir != "" {
		return dir
	}
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

// DailyFilepath is the trade log file for the IST day containing t.
func DailyFilepath(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return dailyFilepath(t)
}

func dailyFilepath(t time.Time) string {
	d := t.In(IST).Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

// Append writes e as one JSON line. Safe for concurrent use.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(IST)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips .txt logs whose modification time is older than retentionDays.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := Dir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		return compressFile(p)
	})
}

func compressFile(p string) error {
	gz := p + ".gz"
	// a previous run already compressed it
	if _, err := os.Stat(gz); err == nil {
		_ = os.Remove(p)
		return nil
	}

	in, err := os.Open(p)
	if err != nil {
		return nil
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil
	}
	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := gw.Close()
	_ = out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(gz)
		return nil
	}
	_ = in.Close()
	return os.Remove(p)
}
