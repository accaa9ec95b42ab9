package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"pulsebot/internal/config"
	"pulsebot/internal/store"
)

// NewResetCmd creates the reset command for clearing a user's history
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [user-id]",
		Short: "Clear a user's article history and conversation memory",
		Long: `Clear the shown-article set, remembered articles, and conversation
context for a user. Their profile is kept; the next digest starts fresh.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			userState, err := store.Open(cfg.Store.Driver, cfg.App.DataDir)
			if err != nil {
				return fmt.Errorf("failed to open state store: %w", err)
			}
			defer func() { _ = userState.Close() }()

			wireDeps(cfg, userState).Curator.ResetUser(args[0])
			fmt.Printf("Cleared history for %s\n", args[0])
			return nil
		},
	}
}
