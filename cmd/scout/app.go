package main

import (
	"context"
	"fmt"
	"io"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/generator"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/history/storage"
	"palette-hq/scout/pkg/ruleset"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/spf13/cobra"
)

// newRules loads the configured rule set.
func newRules(collector *metrics.Collector) (*ruleset.Manager, error) {
	rules, err := ruleset.NewFromConfig(appConfig.Classifier, appLogger, collector)
	if err != nil {
		return nil, cli.NewConfigError("classifier.rules_path", err.Error())
	}
	return rules, nil
}

// newGeminiClient resolves the API key and creates a client. It returns
// cli.ErrNoAPIKey when no key is available.
func newGeminiClient(ctx context.Context, collector *metrics.Collector) (*generator.Client, error) {
	key, source, err := cli.ResolveAPIKey(apiKey, appConfig.Gemini.APIKey)
	if err != nil {
		return nil, err
	}
	appLogger.Debug("Using Gemini API key", "source", source)

	gemini := appConfig.Gemini
	gemini.APIKey = key
	return generator.New(ctx, generator.Options{
		Gemini:    gemini,
		Generator: appConfig.Generator,
		Logger:    appLogger,
		Metrics:   collector,
	})
}

// openHistory opens the configured history backend.
func openHistory(ctx context.Context) (history.Storage, error) {
	store, err := storage.Open(ctx, appConfig.History, appLogger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// historyEnabled reports whether a real history backend is configured.
func historyEnabled() bool {
	return appConfig.History.Backend != storage.BackendNone
}

// writeResult writes v in the --format chosen for cmd. text renders through
// textFn when it is set.
func writeResult(cmd *cobra.Command, format string, v any, textFn func(io.Writer) error) error {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f == cli.FormatText && textFn != nil {
		return textFn(out)
	}
	return cli.NewFormatter(f).FormatTo(out, v)
}
