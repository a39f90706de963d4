package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCombatCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "combat <target-fighter-id>",
		Short: "Resolve a combat engagement against a target fighter (requires the ownership token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				return fmt.Errorf("--player is required")
			}
			if cfg.OwnerToken == "" {
				return fmt.Errorf("no ownership token; run 'skirmishctl account create' or set --owner-token")
			}

			req := map[string]string{
				"player_id":         playerID,
				"target_fighter_id": args[0],
			}
			var result CombatOutcome
			if err := client.PostWithToken("/api/v1/combat", cfg.OwnerToken, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Attacking player id (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard
			path := "/api/v1/leaderboard?limit=" + strconv.Itoa(limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show")

	return cmd
}
