package screener

import (
	"context"
	"time"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/store"
)

// NewSessionFactory opens BROWSER or HTTP sessions as cfg.Screener.Session selects.
func NewSessionFactory(cfg *store.Config) interfaces.SessionFactory {
	sc := cfg.Screener
	uiWait := time.Duration(sc.UIWaitSeconds) * time.Second
	exportTimeout := time.Duration(sc.ExportTimeoutMs) * time.Millisecond
	exportPoll := time.Duration(sc.ExportPollMs) * time.Millisecond

	if sc.Session == "HTTP" {
		return func(ctx context.Context) (interfaces.ScreenerSession, error) {
			return NewHTTPSession(HTTPOptions{
				ProcessPath:    sc.HTTP.ProcessPath,
				UserAgent:      sc.HTTP.UserAgent,
				DownloadDir:    sc.DownloadDir,
				ExportFilename: sc.ExportFilename,
				Timeout:        uiWait,
				ExportTimeout:  exportTimeout,
				ExportPoll:     exportPoll,
			}), nil
		}
	}
	return func(ctx context.Context) (interfaces.ScreenerSession, error) {
		s, err := NewBrowserSession(ctx, BrowserOptions{
			ExecPath:       sc.Browser.ExecPath,
			Headless:       cfg.BrowserHeadless(),
			DownloadDir:    sc.DownloadDir,
			ExportFilename: sc.ExportFilename,
			UIWait:         uiWait,
			ExportTimeout:  exportTimeout,
			ExportPoll:     exportPoll,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
