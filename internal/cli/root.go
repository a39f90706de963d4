package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "skirmishctl",
		Short: "CLI tool for the skirmish API",
		Long: `skirmishctl is a CLI tool for interacting with the skirmish JSON API.

It supports account creation, missile and fighter operations, combat
resolution, the leaderboard, and real-time event streaming. Capability
tokens issued at account creation are stored locally and attached to the
requests that need them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load tokens from files if not provided via flag/env
			if err := cfg.LoadTokens(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Address)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SKIRMISH_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Address, "address", cfg.Address, "Account address (env: SKIRMISH_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&cfg.OwnerToken, "owner-token", cfg.OwnerToken, "Ownership capability token (env: SKIRMISH_OWNER_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminToken, "admin-token", cfg.AdminToken, "Administrative capability token (env: SKIRMISH_ADMIN_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenDir, "token-dir", cfg.TokenDir, "Token directory (env: SKIRMISH_TOKEN_DIR)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newMissileCmd())
	rootCmd.AddCommand(newFighterCmd())
	rootCmd.AddCommand(newCombatCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
