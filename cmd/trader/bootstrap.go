package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"screener-trader/internal/credstore"
	"screener-trader/internal/eod"
	"screener-trader/internal/eod/eodobs"
	"screener-trader/internal/logger"
	"screener-trader/internal/store"
	"screener-trader/internal/tradelog"
)

// initializeSystem loads .env, then the logger and tracer, then the EOD summarizer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	eod.SetDefaultSummarizer(eodobs.Wrap(eod.NewSummarizer()))
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	c, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	if c.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	return c, nil
}

// compressOldLogs points the trade log at the configured directory and gzips old
// files. TRADER_LOG_RETENTION_DAYS overrides the configured retention.
func compressOldLogs(ctx context.Context, c *store.Config) {
	tradelog.SetDir(c.TradeLog.Dir)

	days := c.TradeLog.RetentionDays
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Warn(ctx, "Ignoring invalid TRADER_LOG_RETENTION_DAYS", "value", v)
		} else {
			days = n
		}
	}
	if err := tradelog.CompressOlder(days); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// credentialEnv names the environment variables holding the broker credentials.
func credentialEnv(broker string) (idKey, tokenKey string) {
	if broker == "ZERODHA" {
		return "KITE_API_KEY", "KITE_ACCESS_TOKEN"
	}
	return "DHAN_CLIENT_ID", "DHAN_ACCESS_TOKEN"
}

// resolveCredentials picks flags first, then the environment, then the saved
// credentials. Each field falls through independently.
func resolveCredentials(ctx context.Context, c *store.Config, flagID, flagToken string) (string, string) {
	clientID, token := flagID, flagToken

	idKey, tokenKey := credentialEnv(c.Broker)
	if clientID == "" {
		clientID = os.Getenv(idKey)
	}
	if token == "" {
		token = os.Getenv(tokenKey)
	}
	if clientID != "" && token != "" {
		return clientID, token
	}

	saved, ok, err := credstore.Load(ctx, c.Credentials.DBPath)
	if err != nil {
		logger.Warn(ctx, "Could not read saved credentials", "path", c.Credentials.DBPath, "error", err)
		return clientID, token
	}
	if ok {
		if clientID == "" {
			clientID = saved.ClientID
		}
		if token == "" {
			token = saved.AccessToken
		}
	}
	return clientID, token
}
