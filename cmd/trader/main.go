package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"screener-trader/internal/logger"
	"screener-trader/internal/store"
	"screener-trader/internal/trace"
)

var (
	configPath string
	cfg        *store.Config
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "Scan a Chartink screener and place bracket orders for the top results",
	Long: `Trader runs a Chartink scan, takes the top N stocks, resolves each to a broker
security id and places a market buy with a stop-loss and a target sell for every one.

Orders are simulated unless config.yaml sets mode: LIVE.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeSystem(); err != nil {
			return err
		}
		c, err := loadConfig(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		cfg = c
		compressOldLogs(cmd.Context(), cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	_ = trace.Shutdown(context.Background())
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
