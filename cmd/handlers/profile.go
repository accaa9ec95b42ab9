package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pulsebot/internal/config"
	"pulsebot/internal/core"
	"pulsebot/internal/llm"
	"pulsebot/internal/profile"
	"pulsebot/internal/store"
)

// NewProfileCmd creates the profile command for inspecting and updating
// user profiles from the command line
func NewProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [user-id] [description...]",
		Short: "Show or update a user's profile",
		Long: `With only a user id, print the stored profile. With a description,
derive a fresh profile from it and replace the stored one.

Example:
  pulsebot profile U12345
  pulsebot profile U12345 product designer who cares about figma and typography`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			userState, err := store.Open(cfg.Store.Driver, cfg.App.DataDir)
			if err != nil {
				return fmt.Errorf("failed to open state store: %w", err)
			}
			defer func() { _ = userState.Close() }()

			var deriver profile.Deriver = fallbackDeriver{}
			if client, err := llm.NewClient(cfg.AI.Gemini.Model); err == nil {
				deriver = client
			}
			manager := profile.NewManager(userState, deriver)

			userID := args[0]
			if len(args) > 1 {
				description := strings.Join(args[1:], " ")
				printProfile(manager.Update(cmd.Context(), userID, description))
				return nil
			}

			prof, ok := manager.Get(userID)
			if !ok {
				return fmt.Errorf("no profile for %s", userID)
			}
			printProfile(prof)
			return nil
		},
	}
}

func printProfile(prof core.UserProfile) {
	fmt.Printf("Role:       %s\n", prof.PrimaryRole)
	fmt.Printf("Industry:   %s\n", prof.Industry)
	fmt.Printf("Experience: %s\n", prof.ExperienceLevel)
	fmt.Printf("Interests:  %s\n", strings.Join(prof.SecondaryInterests, ", "))
	if prof.Summary != "" {
		fmt.Printf("Summary:    %s\n", prof.Summary)
	}
}
