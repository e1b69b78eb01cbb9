package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nafs-dev/nafs/internal/config"
	"github.com/nafs-dev/nafs/internal/graph"
	"github.com/nafs-dev/nafs/internal/llm"
	"github.com/nafs-dev/nafs/internal/orchestrator"
	"github.com/nafs-dev/nafs/internal/search"
	"github.com/nafs-dev/nafs/internal/server"
	"github.com/nafs-dev/nafs/internal/state"
	"github.com/nafs-dev/nafs/pkg/models"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the orchestrator daemon",
	Long: `Start the dispatch loop and the HTTP API.

Agents listed in the roster file are registered at startup, and the
roster is watched for changes while the daemon runs. Tasks and agents
are snapshotted to the state database and restored on restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := orchestrator.NewDebugLoggerForDir(cfg.Data.Dir)
	defer logger.Close()

	db, err := state.Open(state.DefaultPath(cfg.Data.Dir))
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if provider == nil {
		color.Yellow("No Anthropic credentials configured; agents will run with degraded output.")
	}

	idx := search.NewMemoryIndex()
	graphStore := graph.NewMemoryStore()

	orch := orchestrator.New(orchestrator.Config{
		LLM:                 provider,
		Search:              idx,
		Graph:               graphStore,
		Snapshot:            db,
		Logger:              logger,
		DispatchInterval:    cfg.Orchestrator.DispatchInterval,
		ManagerPollInterval: cfg.Orchestrator.ManagerPollInterval,
		ManagerWaitCeiling:  cfg.Orchestrator.ManagerWaitCeiling,
	})

	if err := orch.Restore(); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Data.RosterPath != "" {
		if err := registerRoster(orch, cfg.Data.RosterPath); err != nil {
			return err
		}
		go watchRoster(ctx, orch, cfg.Data.RosterPath)
	}

	go orch.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(orch, idx, graphStore),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	color.Green("nafsd listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// buildProvider creates the text-generation provider, or nil when no
// credentials are configured. A nil provider is not an error; strategies
// degrade to fallback output.
func buildProvider(cfg *config.Config) (llm.Provider, error) {
	apiKey, err := config.APIKey(cfg)
	if err != nil && !cfg.Anthropic.UseBedrock {
		return nil, nil
	}
	if apiKey != "" {
		color.Cyan("Using Anthropic API key %s", config.MaskAPIKey(apiKey))
	}

	client, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return client, nil
}

// registerRoster loads the roster file and registers every agent.
func registerRoster(orch *orchestrator.Orchestrator, path string) error {
	profiles, err := config.LoadRoster(path)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	for _, profile := range profiles {
		orch.RegisterAgent(profile)
	}
	color.Cyan("Registered %d agents from %s", len(profiles), path)
	return nil
}

// watchRoster re-registers agents whenever the roster file changes.
// Registration is an upsert, so re-applying the full roster is safe.
func watchRoster(ctx context.Context, orch *orchestrator.Orchestrator, path string) {
	err := config.WatchRoster(ctx,
		path,
		func(profiles []models.AgentProfile) {
			for _, profile := range profiles {
				orch.RegisterAgent(profile)
			}
			color.Cyan("Roster reloaded: %d agents", len(profiles))
		},
		func(err error) {
			color.Red("Roster reload failed: %v", err)
		},
	)
	if err != nil && ctx.Err() == nil {
		color.Red("Roster watch stopped: %v", err)
	}
}
