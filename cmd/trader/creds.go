package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screener-trader/internal/credstore"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Save or show the broker credentials kept in the local database",
}

var credsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the broker client id and access token",
	Long: `Save replaces any previously saved credentials.

Example:
  trader creds set --client-id 1100012345 --token eyJ0eXAiOi...`,
	RunE: runCredsSet,
}

var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved credentials with the token masked",
	RunE:  runCredsShow,
}

var (
	credsClientID string
	credsToken    string
)

func init() {
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsShowCmd)

	credsSetCmd.Flags().StringVar(&credsClientID, "client-id", "", "broker client id or API key (required)")
	credsSetCmd.Flags().StringVar(&credsToken, "token", "", "broker access token (required)")
	credsSetCmd.MarkFlagRequired("client-id")
	credsSetCmd.MarkFlagRequired("token")
}

func runCredsSet(cmd *cobra.Command, args []string) error {
	s, err := credstore.Open(cfg.Credentials.DBPath)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer s.Close()

	c := credstore.Credentials{ClientID: credsClientID, AccessToken: credsToken}
	if err := s.Save(cmd.Context(), c); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s to %s\n", c.Masked(), cfg.Credentials.DBPath)
	return nil
}

func runCredsShow(cmd *cobra.Command, args []string) error {
	c, ok, err := credstore.Load(cmd.Context(), cfg.Credentials.DBPath)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No credentials saved in %s\n", cfg.Credentials.DBPath)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), c.Masked())
	return nil
}
