package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management commands",
	}

	cmd.AddCommand(newAccountCreateCmd())
	cmd.AddCommand(newAccountMeCmd())
	cmd.AddCommand(newAccountGetCmd())

	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create an account with a fresh player, fighter, and capability tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Address == "" {
				return fmt.Errorf("--address is required")
			}

			req := map[string]string{"address": cfg.Address}
			var result Account

			if err := client.Post("/api/v1/accounts", req, &result); err != nil {
				return err
			}

			// Save tokens; the server never shows them again
			if err := cfg.SaveTokens(result.OwnerToken, result.AdminToken); err != nil {
				return fmt.Errorf("failed to save tokens: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the player for the configured address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Address == "" {
				return fmt.Errorf("--address is required")
			}

			var result Player
			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get("/api/v1/players/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
