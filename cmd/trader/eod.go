package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"screener-trader/internal/eod"
	"screener-trader/internal/tradelog"
)

var eodCmd = &cobra.Command{
	Use:   "eod",
	Short: "Write the end-of-day bracket summary from the trade log",
	Long: `Eod reads the day's trade log and writes one CSV row per symbol with the
entries, stops and targets that were accepted or failed.

Example:
  trader eod --date 2026-03-02`,
	RunE: runEodSummary,
}

var eodDate string

func init() {
	rootCmd.AddCommand(eodCmd)
	eodCmd.Flags().StringVar(&eodDate, "date", "", "day to summarize as YYYY-MM-DD (default: today, IST)")
}

func runEodSummary(cmd *cobra.Command, args []string) error {
	var path string
	var err error
	if eodDate == "" {
		path, err = writeEOD(cmd.Context())
	} else {
		var day time.Time
		day, err = time.ParseInLocation("2006-01-02", eodDate, tradelog.IST)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		path, err = eod.SummarizeDay(cmd.Context(), day)
	}
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No trades logged for that day.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "EOD summary written:", path)
	return nil
}

func writeEOD(ctx context.Context) (string, error) {
	return eod.SummarizeToday(ctx)
}
