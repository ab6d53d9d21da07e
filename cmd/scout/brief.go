package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/generator"
	"palette-hq/scout/pkg/history"

	"github.com/spf13/cobra"
)

var briefFlags struct {
	file   string
	batch  string
	format string
	record bool
}

// briefOutput is the structured result of a single brief.
type briefOutput struct {
	Brief    string                     `json:"brief" yaml:"brief"`
	Analysis classifier.MessageAnalysis `json:"analysis" yaml:"analysis"`
	RecordID string                     `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

var briefCmd = &cobra.Command{
	Use:   "brief [text...]",
	Short: "Generate a design brief with Gemini",
	Long: `Classify a message and ask Gemini for a design brief: project overview,
audience, visual direction, deliverables, timeline and budget notes.

With --batch, every non-empty line of the file is a separate message. Items
are sent one at a time with the configured batch delay between calls; a
failed item does not stop the batch.

Examples:
  scout brief "Poster for a jazz night, dark blue and gold, due next week"
  scout brief --file message.txt --format json --record
  scout brief --batch messages.txt --format json > briefs.json`,
	RunE: runBrief,
}

func init() {
	rootCmd.AddCommand(briefCmd)

	briefCmd.Flags().StringVarP(&briefFlags.file, "file", "f", "", "read the message from a file (- for stdin)")
	briefCmd.Flags().StringVar(&briefFlags.batch, "batch", "", "file with one message per line")
	briefCmd.Flags().StringVar(&briefFlags.format, "format", "text", "output format: text, json, yaml")
	briefCmd.Flags().BoolVar(&briefFlags.record, "record", false, "store the analysis and brief in history")
}

func runBrief(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	rules, err := newRules(nil)
	if err != nil {
		return err
	}
	client, err := newGeminiClient(ctx, nil)
	if err != nil {
		return err
	}

	if briefFlags.batch != "" {
		return runBriefBatch(ctx, cmd, client, rules.Analyze)
	}

	text, err := cli.ReadInput(args, briefFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	a := rules.Analyze(text)

	brief, genErr := client.GenerateBrief(ctx, text, &a)
	out := briefOutput{Brief: brief, Analysis: a}

	if briefFlags.record {
		id, err := recordAnalysis(cmd, a, func(r *history.Record) {
			if genErr != nil {
				r.Status = history.StatusFailed
				r.Error = genErr.Error()
				return
			}
			r.Status = history.StatusBriefed
			r.Brief = brief
		})
		if err != nil {
			appLogger.Warn("Failed to record brief", "error", err)
		}
		out.RecordID = id
	}
	if genErr != nil {
		return cli.NewCommandError("brief", genErr)
	}

	return writeResult(cmd, briefFlags.format, out, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, brief)
		return err
	})
}

func runBriefBatch(ctx context.Context, cmd *cobra.Command, client *generator.Client, analyze func(string) classifier.MessageAnalysis) error {
	lines, err := readLines(briefFlags.batch)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return cli.ErrNoInput
	}

	requests := make([]generator.BatchRequest, len(lines))
	for i, line := range lines {
		a := analyze(line)
		requests[i] = generator.BatchRequest{ID: strconv.Itoa(i + 1), Prompt: line, Analysis: &a}
	}

	progress := cli.NewProgressReporter(cmd.ErrOrStderr())
	progress.Start(len(requests))
	results := client.BatchProcessFunc(ctx, requests, func(r generator.BatchResult) {
		progress.Done(r.Success)
	})
	progress.Finish()

	if err := writeResult(cmd, briefFlags.format, results, func(w io.Writer) error {
		for _, r := range results {
			if !r.Success {
				fmt.Fprintf(w, "=== %s (failed) ===\n%s\n\n", r.ID, r.Error)
				continue
			}
			fmt.Fprintf(w, "=== %s ===\n%s\n\n", r.ID, r.Brief)
		}
		return nil
	}); err != nil {
		return err
	}

	if _, failed := progress.Counts(); failed > 0 {
		return cli.NewCommandError("brief", fmt.Errorf("%d of %d items failed", failed, len(results)))
	}
	return nil
}

// readLines returns the trimmed non-empty lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), cli.MaxInputBytes)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return lines, nil
}
