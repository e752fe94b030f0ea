package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Chartink's CSV download name for the default scanner.
const DefaultExportFilename = "NB 001 Buy, Technical Analysis Scanner.csv"

// ColumnMap gives zero-based positions of the fields read from a screener export row.
type ColumnMap struct {
	Name   int `yaml:"name"`
	Symbol int `yaml:"symbol"`
	Price  int `yaml:"price"`
}

// DefaultColumns matches Chartink's CSV: Sr., Stock Name, Symbol, Links, % Chg, Price, Volume.
var DefaultColumns = ColumnMap{Name: 1, Symbol: 2, Price: 5}

type Config struct {
	Mode     string `yaml:"mode"`
	Broker   string `yaml:"broker"`
	Exchange string `yaml:"exchange"`
	Screener struct {
		Link            string `yaml:"link"`
		Session         string `yaml:"session"`
		DownloadDir     string `yaml:"download_dir"`
		ExportFilename  string `yaml:"export_filename"`
		UIWaitSeconds   int    `yaml:"ui_wait_seconds"`
		ExportTimeoutMs int    `yaml:"export_timeout_ms"`
		ExportPollMs    int    `yaml:"export_poll_ms"`
		Browser         struct {
			ExecPath string `yaml:"exec_path"`
			Headless *bool  `yaml:"headless"`
		} `yaml:"browser"`
		HTTP struct {
			ProcessPath string `yaml:"process_path"`
			UserAgent   string `yaml:"user_agent"`
		} `yaml:"http"`
		Columns ColumnMap `yaml:"columns"`
	} `yaml:"screener"`
	Resolver struct {
		Source           string `yaml:"source"`
		Path             string `yaml:"path"`
		InstrumentMarker string `yaml:"instrument_marker"`
		RequireAll       bool   `yaml:"require_all"`
	} `yaml:"resolver"`
	Orders struct {
		TickSize           float64 `yaml:"tick_size"`
		StopLimitOffsetPct float64 `yaml:"stop_limit_offset_pct"`
		ProductType        string  `yaml:"product_type"`
	} `yaml:"orders"`
	Trade struct {
		TotalCapital  float64 `yaml:"total_capital"`
		ProfitPercent float64 `yaml:"profit_percent"`
		LossPercent   float64 `yaml:"loss_percent"`
		StockCount    int     `yaml:"stock_count"`
	} `yaml:"trade"`
	Dhan struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"dhan"`
	Credentials struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"credentials"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	TradeLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"tradelog"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Broker != "DHAN" && c.Broker != "ZERODHA" {
		return fmt.Errorf("invalid broker '%s': must be 'DHAN' or 'ZERODHA'", c.Broker)
	}
	if c.Screener.Session != "BROWSER" && c.Screener.Session != "HTTP" {
		return fmt.Errorf("screener.session must be 'BROWSER' or 'HTTP', got '%s'", c.Screener.Session)
	}
	if c.Resolver.Source != "CSV" && c.Resolver.Source != "KITE" {
		return fmt.Errorf("resolver.source must be 'CSV' or 'KITE', got '%s'", c.Resolver.Source)
	}
	if c.Resolver.Source == "CSV" && c.Resolver.Path == "" {
		return errors.New("resolver.path cannot be empty for CSV source")
	}
	if c.Orders.TickSize <= 0 {
		return fmt.Errorf("orders.tick_size must be positive, got %.4f", c.Orders.TickSize)
	}
	if c.Orders.StopLimitOffsetPct < 0 {
		return fmt.Errorf("orders.stop_limit_offset_pct cannot be negative, got %.2f", c.Orders.StopLimitOffsetPct)
	}
	if c.Trade.LossPercent < 0 || c.Trade.LossPercent >= 100 {
		return fmt.Errorf("trade.loss_percent must be between 0-100, got %.2f", c.Trade.LossPercent)
	}
	if c.Trade.ProfitPercent < 0 {
		return fmt.Errorf("trade.profit_percent cannot be negative, got %.2f", c.Trade.ProfitPercent)
	}
	if c.Trade.StockCount < 0 {
		return fmt.Errorf("trade.stock_count cannot be negative, got %d", c.Trade.StockCount)
	}
	if c.Screener.UIWaitSeconds < 0 {
		return fmt.Errorf("screener.ui_wait_seconds cannot be negative, got %d", c.Screener.UIWaitSeconds)
	}
	if c.Screener.ExportTimeoutMs < 0 {
		return fmt.Errorf("screener.export_timeout_ms cannot be negative, got %d", c.Screener.ExportTimeoutMs)
	}
	if c.Screener.ExportPollMs < 0 {
		return fmt.Errorf("screener.export_poll_ms cannot be negative, got %d", c.Screener.ExportPollMs)
	}
	cols := c.Screener.Columns
	if cols.Name < 0 || cols.Symbol < 0 || cols.Price < 0 {
		return errors.New("screener.columns must be non-negative positions")
	}
	return nil
}

// Default returns a configuration with every default applied and no file read.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	c.Mode = strings.ToUpper(c.Mode)
	if c.Broker == "" {
		c.Broker = "DHAN"
	}
	c.Broker = strings.ToUpper(c.Broker)
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Screener.Session == "" {
		c.Screener.Session = "BROWSER"
	}
	c.Screener.Session = strings.ToUpper(c.Screener.Session)
	if c.Screener.DownloadDir == "" {
		c.Screener.DownloadDir = "."
	}
	if c.Screener.ExportFilename == "" {
		c.Screener.ExportFilename = DefaultExportFilename
	}
	if c.Screener.UIWaitSeconds == 0 {
		c.Screener.UIWaitSeconds = 20
	}
	if c.Screener.ExportTimeoutMs == 0 {
		c.Screener.ExportTimeoutMs = 4000
	}
	if c.Screener.ExportPollMs == 0 {
		c.Screener.ExportPollMs = 100
	}
	if c.Screener.HTTP.ProcessPath == "" {
		c.Screener.HTTP.ProcessPath = "/screener/process"
	}
	if c.Screener.Columns == (ColumnMap{}) {
		c.Screener.Columns = DefaultColumns
	}
	if c.Resolver.Source == "" {
		c.Resolver.Source = "CSV"
	}
	c.Resolver.Source = strings.ToUpper(c.Resolver.Source)
	if c.Resolver.Path == "" {
		c.Resolver.Path = "equity.csv"
	}
	if c.Resolver.InstrumentMarker == "" {
		c.Resolver.InstrumentMarker = "EQ"
	}
	if c.Orders.TickSize == 0 {
		c.Orders.TickSize = 0.05
	}
	if c.Orders.StopLimitOffsetPct == 0 {
		c.Orders.StopLimitOffsetPct = 0.2
	}
	if c.Orders.ProductType == "" {
		c.Orders.ProductType = "INTRADAY"
	}
	if c.Dhan.BaseURL == "" {
		c.Dhan.BaseURL = "https://api.dhan.co/v2"
	}
	if c.Credentials.DBPath == "" {
		c.Credentials.DBPath = "user_data.db"
	}
	if c.TradeLog.Dir == "" {
		c.TradeLog.Dir = "logs"
	}
}

// BrowserHeadless defaults to true when unset.
func (c *Config) BrowserHeadless() bool {
	return c.Screener.Browser.Headless == nil || *c.Screener.Browser.Headless
}

// TickSize returns the configured tick as a decimal.
func (c *Config) TickSize() decimal.Decimal {
	return decimal.NewFromFloat(c.Orders.TickSize)
}

// StopLimitOffset returns the extra percentage below the stop trigger used for the stop's limit price.
func (c *Config) StopLimitOffset() decimal.Decimal {
	return decimal.NewFromFloat(c.Orders.StopLimitOffsetPct)
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c := Default()
			return c, c.Validate()
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
