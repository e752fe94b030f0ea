package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"screener-trader/internal/engine"
	"screener-trader/internal/logger"
	"screener-trader/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scan and place orders, now or at a scheduled time",
	Long: `Run executes one trading run. Values not given as flags come from the trade
section of the config file.

Example:
  trader run --link https://chartink.com/screener/my-scan --capital 100000 \
    --profit 1.5 --loss 1 --count 5 --at 09:20`,
	RunE: runRun,
}

var (
	runLink        string
	runCapital     float64
	runProfit      float64
	runLoss        float64
	runCount       int
	runClientID    string
	runAccessToken string
	runAt          string
	runMetricsAddr string
	runSummary     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runLink, "link", "l", "", "Chartink screener URL (default: screener.link)")
	f.Float64Var(&runCapital, "capital", 0, "total capital to split across stocks (default: trade.total_capital)")
	f.Float64Var(&runProfit, "profit", 0, "target percentage above entry (default: trade.profit_percent)")
	f.Float64Var(&runLoss, "loss", 0, "stop percentage below entry (default: trade.loss_percent)")
	f.IntVarP(&runCount, "count", "n", -1, "number of stocks to buy (default: trade.stock_count)")
	f.StringVar(&runClientID, "client-id", "", "broker client id or API key")
	f.StringVar(&runAccessToken, "token", "", "broker access token")
	f.StringVar(&runAt, "at", "", "wait until this local time (HH:MM or HH:MM:SS) before running")
	f.StringVar(&runMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default: metrics.addr)")
	f.BoolVar(&runSummary, "eod", false, "write the end-of-day summary after the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out := cmd.OutOrStdout()

	link, capital, profit, loss, count := cfg.Screener.Link, cfg.Trade.TotalCapital,
		cfg.Trade.ProfitPercent, cfg.Trade.LossPercent, cfg.Trade.StockCount
	flags := cmd.Flags()
	if flags.Changed("link") {
		link = runLink
	}
	if flags.Changed("capital") {
		capital = runCapital
	}
	if flags.Changed("profit") {
		profit = runProfit
	}
	if flags.Changed("loss") {
		loss = runLoss
	}
	if flags.Changed("count") {
		count = runCount
	}
	if link == "" {
		return errors.New("a screener link is required (--link or screener.link)")
	}
	if capital < 0 || profit < 0 || loss < 0 {
		return errors.New("capital, profit and loss must not be negative")
	}

	clientID, token := resolveCredentials(ctx, cfg, runClientID, runAccessToken)
	if cfg.Mode == "LIVE" && (clientID == "" || token == "") {
		return errors.New("LIVE mode needs broker credentials: use --client-id/--token, the environment, or 'trader creds set'")
	}

	addr := cfg.Metrics.Addr
	if runMetricsAddr != "" {
		addr = runMetricsAddr
	}
	if addr != "" {
		srv := metrics.Serve(addr)
		defer srv.Close()
		logger.Info(ctx, "Serving metrics", "addr", addr)
	}

	if runAt != "" {
		at, err := nextOccurrence(time.Now(), runAt)
		if err != nil {
			return err
		}
		if err := waitUntil(ctx, at, time.Minute, func(s string) { fmt.Fprintln(out, s) }); err != nil {
			fmt.Fprintln(out, "Scheduled run cancelled.")
			return nil
		}
	}

	// Orders are not cancellable once the run starts.
	runCtx := context.WithoutCancel(ctx)
	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		engine.RunTradingScript(runCtx, cfg, link, capital, profit, loss, count, clientID, token,
			func(line string) { lines <- line })
	}()
	for line := range lines {
		fmt.Fprintln(out, line)
	}

	if runSummary {
		path, err := writeEOD(ctx)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintln(out, "EOD summary written:", path)
		}
	}
	return nil
}
