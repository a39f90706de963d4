package cli

import (
	"github.com/spf13/cobra"
)

func newMissileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missile",
		Short: "Missile commands",
	}

	cmd.AddCommand(newMissileMintCmd())
	cmd.AddCommand(newMissileGetCmd())

	return cmd
}

func newMissileMintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint",
		Short: "Mint a free-standing missile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Missile
			if err := client.Post("/api/v1/missiles", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMissileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <missile-id>",
		Short: "Show a missile by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Missile
			if err := client.Get("/api/v1/missiles/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
