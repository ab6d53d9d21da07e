package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/design"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/history/recorder"
	"palette-hq/scout/pkg/history/retention"
	"palette-hq/scout/pkg/server"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the scout HTTP API with the specified configuration.

The server classifies messages, relays brief, mockup and image requests to
Gemini, records every analysis in history and prunes it on the retention
schedule. Generation endpoints answer 503 when no API key is available.

Examples:
  # Start with default config
  scout serve

  # Start with custom config
  scout serve --config /etc/scout/scout.yaml

  # Override listen address
  scout serve --listen 0.0.0.0:8420

  # Validate config without starting the server
  scout serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	if err := collector.RegisterRuntimeCollectors(); err != nil {
		appLogger.Warn("Failed to register runtime collectors", "error", err)
	}

	rules, err := newRules(collector)
	if err != nil {
		return err
	}
	if serveFlags.dryRun {
		pterm.Success.Println("Configuration valid")
		return nil
	}

	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	if cfg.Classifier.Watch && cfg.Classifier.RulesPath != "" {
		go func() {
			if err := rules.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("Rules watcher stopped", "error", err)
			}
		}()
	}

	deps := server.Deps{
		Rules:   rules,
		Metrics: collector,
		Query:   cfg.History.Query,
		Logger:  appLogger,
	}

	if historyEnabled() {
		store, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rec := recorder.New(store, cfg.History.Recorder, appLogger, collector)
		defer rec.Close()

		sched, err := startRetention(ctx, store, collector)
		if err != nil {
			return err
		}
		if sched != nil {
			defer sched.Stop()
		}
		deps.History = store
		deps.Recorder = rec
	}

	var describer design.Describer
	client, err := newGeminiClient(ctx, collector)
	switch {
	case err == nil:
		deps.Generator = client
		describer = client
	case errors.Is(err, cli.ErrNoAPIKey):
		appLogger.Warn("No Gemini API key, generation endpoints are disabled")
	default:
		return err
	}
	deps.Designs = design.NewGenerator(design.Config{Describer: describer, Logger: appLogger})

	srv, err := server.New(cfg.Server, cfg.Telemetry.Metrics, deps)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Scout v%s listening on http://%s", Version, cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		pterm.Info.Printfln("Metrics at http://%s%s", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	pterm.Success.Println("Server stopped")
	return nil
}

// startRetention schedules pruning until ctx is done. It returns nil when
// retention is switched off.
func startRetention(ctx context.Context, store history.Storage, collector *metrics.Collector) (*retention.Scheduler, error) {
	rc := appConfig.History.Retention
	if rc.Days <= 0 && rc.MaxRecords <= 0 {
		return nil, nil
	}

	pruner := retention.NewPruner(store, rc, appLogger, collector)
	sched, err := retention.NewScheduler(pruner, rc.Schedule, appLogger)
	if err != nil {
		return nil, cli.NewConfigError("history.retention.schedule", err.Error())
	}
	if err := sched.Start(ctx); err != nil {
		return nil, fmt.Errorf("start retention: %w", err)
	}
	if next := sched.NextRun(); next != nil {
		appLogger.Debug("Retention scheduled", "next_run", next.Format(time.RFC3339))
	}
	return sched, nil
}
