package screener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"screener-trader/internal/logger"
)

const (
	scanButtonSelector = ".run_scan_button"
	csvButtonXPath     = "//button[span[text()='CSV']]"
)

// chromeCandidates are looked up on PATH when no executable is configured.
var chromeCandidates = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"}

type BrowserOptions struct {
	ExecPath       string
	Headless       bool
	DownloadDir    string
	ExportFilename string
	UIWait         time.Duration
	ExportTimeout  time.Duration
	ExportPoll     time.Duration
}

// BrowserSession drives Chartink in a headless Chrome through the DevTools protocol.
type BrowserSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	uiWait      time.Duration
	downloadDir string
	export      exportFile
	closeOnce   sync.Once
}

// FindChrome returns the configured executable, or the first Chrome-like binary on PATH.
func FindChrome(configured string) (string, error) {
	if configured != "" {
		info, err := os.Stat(configured)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrDriverMissing, configured)
		}
		return configured, nil
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v on PATH", ErrDriverMissing, chromeCandidates)
}

// NewBrowserSession starts Chrome. The caller owns the session and must Close it.
func NewBrowserSession(ctx context.Context, opts BrowserOptions) (*BrowserSession, error) {
	execPath, err := FindChrome(opts.ExecPath)
	if err != nil {
		return nil, err
	}
	dir, err := filepath.Abs(opts.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", opts.Headless),
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	taskCtx, cancel := chromedp.NewContext(allocCtx)

	logger.Debug(ctx, "Browser session created", "exec", execPath, "headless", opts.Headless, "download_dir", dir)
	return &BrowserSession{
		ctx:         taskCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		uiWait:      opts.UIWait,
		downloadDir: dir,
		export:      newExportFile(dir, opts.ExportFilename, opts.ExportTimeout, opts.ExportPoll),
	}, nil
}

// Load starts the browser on first use, routes downloads to the export directory and
// opens link.
func (s *BrowserSession) Load(ctx context.Context, link string) error {
	s.export.clear(ctx)
	return chromedp.Run(s.ctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(s.downloadDir).
			WithEventsEnabled(true),
		chromedp.Navigate(link),
	)
}

func (s *BrowserSession) RunScan(ctx context.Context) error {
	return s.click(ctx, scanButtonSelector, chromedp.ByQuery)
}

func (s *BrowserSession) Export(ctx context.Context) error {
	return s.click(ctx, csvButtonXPath, chromedp.BySearch)
}

// click waits up to uiWait for sel to be visible, then clicks it.
func (s *BrowserSession) click(ctx context.Context, sel string, by chromedp.QueryOption) error {
	tctx, cancel := context.WithTimeout(s.ctx, s.uiWait)
	defer cancel()

	start := time.Now()
	err := chromedp.Run(tctx, chromedp.Click(sel, by, chromedp.NodeVisible))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s after %s: %w", sel, s.uiWait, ErrUIWait)
	}
	if err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	logger.Debug(ctx, "Clicked screener element", "selector", sel, "wait_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *BrowserSession) ReadExport(ctx context.Context) ([][]string, error) {
	return s.export.read(ctx)
}

// Close shuts Chrome down. It is safe to call more than once.
func (s *BrowserSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
	})
	return nil
}
