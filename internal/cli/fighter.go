package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFighterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fighter",
		Short: "Fighter commands",
	}

	cmd.AddCommand(newFighterGetCmd())
	cmd.AddCommand(newFighterAttachCmd())
	cmd.AddCommand(newFighterUpgradeCmd())
	cmd.AddCommand(newFighterAwardGoldCmd())

	return cmd
}

func newFighterGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <fighter-id>",
		Short: "Show a fighter by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Fighter
			if err := client.Get("/api/v1/fighters/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newFighterAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <fighter-id> <missile-id>",
		Short: "Attach a missile to a fighter (requires the ownership token)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.OwnerToken == "" {
				return fmt.Errorf("no ownership token; run 'skirmishctl account create' or set --owner-token")
			}

			req := map[string]string{"missile_id": args[1]}
			path := "/api/v1/fighters/" + args[0] + "/missiles"
			if err := client.PostWithToken(path, cfg.OwnerToken, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Missile attached")
			return nil
		},
	}
}

func newFighterUpgradeCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "upgrade <fighter-id>",
		Short: "Upgrade a fighter, paying with the player's gold (requires the admin token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.AdminToken == "" {
				return fmt.Errorf("no admin token; run 'skirmishctl account create' or set --admin-token")
			}

			req := map[string]string{"player_id": playerID}
			path := "/api/v1/fighters/" + args[0] + "/upgrade"
			if err := client.PostWithToken(path, cfg.AdminToken, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Upgrade applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player paying for the upgrade (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newFighterAwardGoldCmd() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "award-gold <player-id>",
		Short: "Add gold to a player's ledger (requires the admin token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.AdminToken == "" {
				return fmt.Errorf("no admin token; run 'skirmishctl account create' or set --admin-token")
			}

			req := map[string]int{"amount": amount}
			path := "/api/v1/players/" + args[0] + "/gold"
			if err := client.PostWithToken(path, cfg.AdminToken, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Awarded %d gold", amount))
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Gold amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
