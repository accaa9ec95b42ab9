package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pulsebot/internal/config"
	"pulsebot/internal/core"
	"pulsebot/internal/digest"
	"pulsebot/internal/fetch"
	"pulsebot/internal/llm"
	"pulsebot/internal/logger"
	"pulsebot/internal/messaging"
	"pulsebot/internal/profile"
	"pulsebot/internal/search"
	"pulsebot/internal/server"
	"pulsebot/internal/store"
)

// NewServeCmd creates the serve command for starting the Slack-facing server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Slack events server and daily digest scheduler",
		Long: `Start the pulsebot server. It exposes the Slack Events API endpoint and
slash command handler, and runs the scheduler that delivers the morning
digest to every onboarded user.

Examples:
  # Start server on the configured port (default 8000)
  pulsebot serve

  # Start on a custom port
  pulsebot serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8000)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	cfg := config.Get()

	// Override server config from flags if provided
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	userState, err := store.Open(cfg.Store.Driver, cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer func() { _ = userState.Close() }()

	srv := server.New(cfg, wireDeps(cfg, userState))

	// Run the scheduler alongside the HTTP server.
	schedCtx, cancelScheduler := context.WithCancel(ctx)
	defer cancelScheduler()
	go server.NewScheduler(srv, cfg.Digest.SendHour, cfg.Digest.Timezone).Run(schedCtx)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Server shutdown initiated", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("Server stopped successfully")
	}

	return nil
}

// wireDeps assembles the application components from configuration. Optional
// pieces (LLM, web search) degrade to nil rather than failing startup.
func wireDeps(cfg *config.Config, userState store.UserState) server.Deps {
	timeout := config.GetTimeout(cfg.Fetch.Timeout, 10*time.Second)

	fetchers := []fetch.Fetcher{
		fetch.NewHackerNews("", timeout),
		fetch.NewReddit("", cfg.Fetch.UserAgent, nil, timeout),
		fetch.NewRSS(fetch.NewsSources, cfg.Fetch.UserAgent),
	}
	if cfg.Fetch.NewsAPIKey != "" {
		fetchers = append(fetchers, fetch.NewNewsAPI("", cfg.Fetch.NewsAPIKey, timeout))
	}

	curator := digest.NewCurator(userState, fetch.NewAggregator(fetchers, cfg.Fetch.PerSourceLimit, timeout), digest.Options{
		TargetCount:   cfg.Digest.TargetCount,
		MinGuaranteed: cfg.Digest.MinGuaranteed,
		QualityCutoff: cfg.Digest.QualityCutoff,
	})

	deps := server.Deps{
		Store:   userState,
		Curator: curator,
		Poster:  messaging.NewClient(cfg.Slack.BotToken),
	}

	if client, err := llm.NewClient(cfg.AI.Gemini.Model); err != nil {
		logger.Warn("LLM client unavailable, using non-generative fallbacks", "error", err.Error())
		deps.Profiles = profile.NewManager(userState, fallbackDeriver{})
	} else {
		deps.Assistant = client
		deps.Profiles = profile.NewManager(userState, client)
	}

	if provider, err := searchProvider(cfg); err != nil {
		logger.Warn("Web search unavailable", "provider", cfg.Search.DefaultProvider, "error", err.Error())
	} else {
		deps.Search = provider
	}

	return deps
}

func searchProvider(cfg *config.Config) (search.Provider, error) {
	factory := search.NewProviderFactory()
	return factory.CreateProvider(search.ProviderType(cfg.Search.DefaultProvider), map[string]string{
		"api_key":   cfg.Search.Providers.Google.APIKey,
		"search_id": cfg.Search.Providers.Google.SearchID,
	})
}

// fallbackDeriver hands out the default profile when no LLM is configured,
// so onboarding still completes.
type fallbackDeriver struct{}

func (fallbackDeriver) DeriveProfile(ctx context.Context, description string) core.UserProfile {
	return llm.FallbackProfile()
}
