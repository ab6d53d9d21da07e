package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/telemetry/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	logLevel string
	apiKey   string
	verbose  bool

	appConfig *config.Config
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Scout - design request classifier and Gemini brief relay",
	Long: `Scout reads chat messages, decides whether they are graphic design requests,
and scores category, urgency, budget, sentiment and requirements.

Design requests can be turned into briefs, visual mockups and technical
specs with Gemini. Scout runs as a CLI, an HTTP API or a stream monitor
over stdin, files or Kafka, and keeps an analysis history in SQLite or
PostgreSQL.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "scout.yaml", "config file path (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides env, config and keyring)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup loads the dotenv file and configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return cli.NewConfigError("env-file", err.Error())
	}

	cfg, err := config.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	config.SetConfig(cfg)
	appConfig = cfg
	appLogger = logger.Slog()
	slog.SetDefault(appLogger)
	return nil
}

// loadEnvFile loads path without overriding variables already set. A missing
// file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
