package screener

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"screener-trader/internal/logger"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type HTTPOptions struct {
	ProcessPath    string
	UserAgent      string
	DownloadDir    string
	ExportFilename string
	Timeout        time.Duration
	ExportTimeout  time.Duration
	ExportPoll     time.Duration
}

// HTTPSession reproduces the screener's own XHR flow without a browser: it reads the
// CSRF token and scan clause from the page, posts the clause to the process endpoint and
// writes the returned rows as a CSV in Chartink's download layout.
type HTTPSession struct {
	c          *colly.Collector
	opts       HTTPOptions
	export     exportFile
	base       *url.URL
	csrf       string
	scanClause string
	rows       [][]string
	scanned    bool
}

func NewHTTPSession(opts HTTPOptions) *HTTPSession {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.UserAgent(opts.UserAgent),
	)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
	return &HTTPSession{
		c:      c,
		opts:   opts,
		export: newExportFile(opts.DownloadDir, opts.ExportFilename, opts.ExportTimeout, opts.ExportPoll),
	}
}

// Load fetches the screener page and keeps its session cookie, CSRF token and scan clause.
func (s *HTTPSession) Load(ctx context.Context, link string) error {
	s.export.clear(ctx)
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	s.base = u

	c := s.c.Clone()
	c.Context = ctx
	c.OnHTML("html", func(e *colly.HTMLElement) {
		s.csrf, s.scanClause = extractScanForm(e.DOM)
	})
	if err := c.Visit(link); err != nil {
		return fmt.Errorf("visit screener page: %w", err)
	}
	c.Wait()

	if s.csrf == "" {
		return errors.New("csrf token not found on screener page")
	}
	if s.scanClause == "" {
		return errors.New("scan clause not found on screener page")
	}
	logger.Debug(ctx, "Screener page loaded", "link", link, "clause_len", len(s.scanClause))
	return nil
}

// extractScanForm reads the CSRF meta tag and the scan clause from a screener page.
func extractScanForm(doc *goquery.Selection) (csrf, clause string) {
	csrf, _ = doc.Find(`meta[name="csrf-token"]`).Attr("content")
	doc.Find(`textarea[name="scan_clause"], input[name="scan_clause"], [data-scan-clause]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		switch {
		case goquery.NodeName(sel) == "textarea":
			clause = sel.Text()
		case sel.AttrOr("value", "") != "":
			clause = sel.AttrOr("value", "")
		default:
			clause = sel.AttrOr("data-scan-clause", "")
		}
		clause = strings.TrimSpace(clause)
		return clause == ""
	})
	return strings.TrimSpace(csrf), clause
}

// processResponse is the JSON the screener returns for a scan.
type processResponse struct {
	Data []processRow `json:"data"`
}

type processRow struct {
	Sr      flexString `json:"sr"`
	NSECode string     `json:"nsecode"`
	Name    string     `json:"name"`
	BSECode flexString `json:"bsecode"`
	PerChg  flexString `json:"per_chg"`
	Close   flexString `json:"close"`
	Volume  flexString `json:"volume"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// RunScan posts the scan clause and keeps the rows for Export.
func (s *HTTPSession) RunScan(ctx context.Context) error {
	if s.base == nil {
		return errors.New("run scan before load")
	}
	endpoint := s.base.ResolveReference(&url.URL{Path: s.opts.ProcessPath}).String()
	form := url.Values{"scan_clause": {s.scanClause}}

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	hdr.Set("X-CSRF-TOKEN", s.csrf)
	hdr.Set("X-Requested-With", "XMLHttpRequest")
	hdr.Set("Referer", s.base.String())

	var (
		resp     processResponse
		parseErr error
	)
	c := s.c.Clone()
	c.Context = ctx
	c.OnResponse(func(r *colly.Response) {
		parseErr = json.Unmarshal(r.Body, &resp)
	})
	if err := c.Request(http.MethodPost, endpoint, strings.NewReader(form.Encode()), nil, hdr); err != nil {
		return fmt.Errorf("post scan: %w", err)
	}
	c.Wait()
	if parseErr != nil {
		return fmt.Errorf("decode scan response: %w", parseErr)
	}

	s.rows = make([][]string, 0, len(resp.Data))
	for i, r := range resp.Data {
		sr := string(r.Sr)
		if sr == "" {
			sr = strconv.Itoa(i + 1)
		}
		s.rows = append(s.rows, []string{sr, r.Name, r.NSECode, "P&F | F.A", string(r.PerChg), string(r.Close), string(r.Volume)})
	}
	s.scanned = true
	logger.Debug(ctx, "Scan processed", "endpoint", endpoint, "rows", len(s.rows))
	return nil
}

// Export writes the scanned rows to the export file.
func (s *HTTPSession) Export(ctx context.Context) error {
	if !s.scanned {
		return errors.New("export before scan")
	}
	return writeExport(s.export.path, s.rows)
}

func (s *HTTPSession) ReadExport(ctx context.Context) ([][]string, error) {
	return s.export.read(ctx)
}

func (s *HTTPSession) Close() error {
	s.rows = nil
	return nil
}
