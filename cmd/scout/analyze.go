package main

import (
	"fmt"
	"io"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/history"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	file    string
	format  string
	record  bool
	channel string
	author  string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Classify a message as a design request",
	Long: `Classify a chat message: design categories, urgency, budget, sentiment,
requirements and an overall confidence score.

The text is taken from the arguments, from --file, or from stdin.

Examples:
  # Text report
  scout analyze "Need a flyer for Saturday's market, bright colors, A5"

  # JSON from a file
  scout analyze --file message.txt --format json

  # Store the analysis in history
  echo "logo redesign, budget $500" | scout analyze --record --channel design`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.file, "file", "f", "", "read the message from a file (- for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", "text", "output format: text, json, yaml")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.record, "record", false, "store the analysis in history")
	analyzeCmd.Flags().StringVar(&analyzeFlags.channel, "channel", "", "channel stored with the record")
	analyzeCmd.Flags().StringVar(&analyzeFlags.author, "author", "", "author stored with the record")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := cli.ReadInput(args, analyzeFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	rules, err := newRules(nil)
	if err != nil {
		return err
	}
	a := rules.Analyze(text)

	if analyzeFlags.record {
		id, err := recordAnalysis(cmd, a, func(r *history.Record) {
			r.Channel = analyzeFlags.channel
			r.Author = analyzeFlags.author
		})
		if err != nil {
			return cli.NewCommandError("analyze", err)
		}
		appLogger.Info("Analysis recorded", "record_id", id)
	}

	return writeResult(cmd, analyzeFlags.format, a, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, classifier.Report(a))
		return err
	})
}

// recordAnalysis stores a CLI analysis synchronously and returns its ID.
func recordAnalysis(cmd *cobra.Command, a classifier.MessageAnalysis, edit func(*history.Record)) (string, error) {
	store, err := openHistory(cmd.Context())
	if err != nil {
		return "", err
	}
	defer store.Close()

	rec := history.NewRecord(a, history.SourceCLI)
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if edit != nil {
		edit(rec)
	}
	if err := store.Store(cmd.Context(), rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
