package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pulsebot/internal/config"
	"pulsebot/internal/store"
)

// NewDigestCmd creates the digest command for one-shot digest runs
func NewDigestCmd() *cobra.Command {
	var describe string

	cmd := &cobra.Command{
		Use:   "digest [user-id]",
		Short: "Build and print a digest for a user",
		Long: `Run the curation pipeline once for a user and print the result to
stdout instead of posting to Slack. Useful for tuning scoring and
checking what a user would receive.

Example:
  pulsebot digest U12345
  pulsebot digest U12345 --describe "backend engineer into kubernetes and postgres"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigestOnce(cmd.Context(), args[0], describe)
		},
	}

	cmd.Flags().StringVar(&describe, "describe", "", "derive and save a profile from this description first")

	return cmd
}

func runDigestOnce(ctx context.Context, userID, describe string) error {
	cfg := config.Get()

	userState, err := store.Open(cfg.Store.Driver, cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer func() { _ = userState.Close() }()

	deps := wireDeps(cfg, userState)

	if describe != "" {
		updated := deps.Profiles.Update(ctx, userID, describe)
		fmt.Printf("Profile saved: %s (%s)\n\n", updated.PrimaryRole, updated.Summary)
	}

	prof, ok := deps.Profiles.Get(userID)
	if !ok {
		return fmt.Errorf("no profile for %s; pass --describe or onboard the user over Slack", userID)
	}

	articles := deps.Curator.BuildDigest(ctx, userID, prof)
	if len(articles) == 0 {
		fmt.Println("No new stories right now.")
		return nil
	}

	fmt.Printf("Digest for %s (%s):\n", userID, prof.PrimaryRole)
	for i, article := range articles {
		fmt.Printf("%d. [%s] %s\n   %s\n", i+1, article.Category, article.Title, article.Link)
	}
	return nil
}
