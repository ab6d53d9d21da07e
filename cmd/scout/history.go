package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/history/export"
	"palette-hq/scout/pkg/history/retention"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	since         string
	until         string
	channel       string
	category      string
	source        string
	status        string
	requestsOnly  bool
	minConfidence float64
	listLimit     int
	exportLimit   int
	offset        int
	ascending     bool
	listFormat    string
	showFormat    string
	exportFormat  string
	output        string
	days          int
	maxRecords    int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query stored analyses",
	Long: `Query, export and prune the analysis history.

Time Filters:
  --since and --until accept RFC 3339 times or a duration back from now,
  e.g. --since 24h or --since 2026-03-01T00:00:00Z.

Examples:
  # Latest design requests
  scout history list --requests-only --since 24h

  # One record with its full analysis
  scout history show 2f1c...

  # CSV export of a channel
  scout history export --channel design --format csv -o design.csv

  # Apply retention now
  scout history prune --days 7`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history records",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one history record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history records as JSON, CSV or YAML",
	Args:  cobra.NoArgs,
	RunE:  runHistoryExport,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records past the retention limits",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historyPruneCmd)

	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().StringVar(&historyFlags.since, "since", "", "records at or after this time (RFC 3339 or duration)")
		c.Flags().StringVar(&historyFlags.until, "until", "", "records at or before this time (RFC 3339 or duration)")
		c.Flags().StringVar(&historyFlags.channel, "channel", "", "filter by channel")
		c.Flags().StringVar(&historyFlags.category, "category", "", "filter by top category")
		c.Flags().StringVar(&historyFlags.source, "source", "", "filter by source: cli, api, monitor")
		c.Flags().StringVar(&historyFlags.status, "status", "", "filter by status: analyzed, briefed, failed")
		c.Flags().BoolVar(&historyFlags.requestsOnly, "requests-only", false, "design requests only")
		c.Flags().Float64Var(&historyFlags.minConfidence, "min-confidence", 0, "minimum confidence (0-1)")
		c.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
		c.Flags().BoolVar(&historyFlags.ascending, "asc", false, "oldest first")
	}
	historyListCmd.Flags().IntVar(&historyFlags.listLimit, "limit", 20, "max results")
	historyListCmd.Flags().StringVar(&historyFlags.listFormat, "format", "text", "output format: text, json, yaml")
	historyExportCmd.Flags().IntVar(&historyFlags.exportLimit, "limit", 0, "max results (0 for all)")
	historyExportCmd.Flags().StringVar(&historyFlags.exportFormat, "format", export.FormatJSON, "export format: json, csv, yaml")
	historyExportCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")

	historyShowCmd.Flags().StringVar(&historyFlags.showFormat, "format", "text", "output format: text, json, yaml")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", -1, "delete records older than this many days (default: history.retention.days)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.maxRecords, "max-records", -1, "keep at most this many records (default: history.retention.max_records)")
}

// parseTimeFlag accepts an RFC 3339 time or a duration before now.
func parseTimeFlag(name, value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return nil, cli.NewConfigError(name, fmt.Sprintf("%q is neither an RFC 3339 time nor a duration", value))
	}
	t := now.Add(-d)
	return &t, nil
}

func historyQuery(now time.Time, limit int) (*history.Query, error) {
	q := &history.Query{
		Channel:            historyFlags.channel,
		Category:           historyFlags.category,
		Source:             historyFlags.source,
		Status:             historyFlags.status,
		DesignRequestsOnly: historyFlags.requestsOnly,
		Limit:              limit,
		Offset:             historyFlags.offset,
		Ascending:          historyFlags.ascending,
	}

	var err error
	if q.StartTime, err = parseTimeFlag("since", historyFlags.since, now); err != nil {
		return nil, err
	}
	if q.EndTime, err = parseTimeFlag("until", historyFlags.until, now); err != nil {
		return nil, err
	}
	if historyFlags.minConfidence < 0 || historyFlags.minConfidence > 1 {
		return nil, cli.NewConfigError("min-confidence", "must be between 0 and 1")
	}
	if historyFlags.minConfidence > 0 {
		mc := historyFlags.minConfidence
		q.MinConfidence = &mc
	}
	if q.Limit < 0 {
		return nil, cli.NewConfigError("limit", "must not be negative")
	}
	return q, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	q, err := historyQuery(time.Now(), min(historyFlags.listLimit, appConfig.History.Query.MaxLimit))
	if err != nil {
		return err
	}

	store, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	total, err := store.Count(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	return writeResult(cmd, historyFlags.listFormat, records, func(w io.Writer) error {
		if len(records) == 0 {
			_, err := fmt.Fprintln(w, "No records found")
			return err
		}
		rows := [][]string{{"ID", "Time", "Channel", "Category", "Conf", "Request", "Status", "Text"}}
		for _, r := range records {
			rows = append(rows, []string{
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Channel,
				r.Category,
				fmt.Sprintf("%.0f%%", r.Confidence*100),
				yesNo(r.IsDesignRequest),
				r.Status,
				cli.Truncate(r.Text, 40),
			})
		}
		if err := cli.PrintTable(w, rows); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d of %d records\n", len(records), total)
		return err
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	return writeResult(cmd, historyFlags.showFormat, rec, func(w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "ID:       %s\n", rec.ID)
		fmt.Fprintf(&b, "Time:     %s\n", rec.CreatedAt.Local().Format(time.RFC3339))
		fmt.Fprintf(&b, "Source:   %s\n", rec.Source)
		if rec.Channel != "" || rec.Author != "" {
			fmt.Fprintf(&b, "Channel:  %s (%s)\n", rec.Channel, rec.Author)
		}
		fmt.Fprintf(&b, "Status:   %s\n", rec.Status)
		if rec.Error != "" {
			fmt.Fprintf(&b, "Error:    %s\n", rec.Error)
		}
		fmt.Fprintf(&b, "Message:  %s\n\n", rec.Text)
		if rec.Analysis != nil {
			b.WriteString(classifier.Report(*rec.Analysis))
			b.WriteString("\n")
		}
		if rec.Brief != "" {
			b.WriteString("\nBrief:\n")
			b.WriteString(rec.Brief)
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	exporter, err := export.New(historyFlags.exportFormat)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	q, err := historyQuery(time.Now(), historyFlags.exportLimit)
	if err != nil {
		return err
	}

	store, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history export", err)
	}

	w := cmd.OutOrStdout()
	if historyFlags.output != "" {
		f, err := os.Create(historyFlags.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := exporter.Export(cmd.Context(), records, w); err != nil {
		return cli.NewCommandError("history export", err)
	}
	if historyFlags.output != "" {
		pterm.Success.Printfln("Exported %d records to %s", len(records), historyFlags.output)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg := appConfig.History.Retention
	if historyFlags.days >= 0 {
		cfg.Days = historyFlags.days
	}
	if historyFlags.maxRecords >= 0 {
		cfg.MaxRecords = historyFlags.maxRecords
	}

	store, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, cfg, appLogger, nil).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	pterm.Success.Printfln("Pruned %d records", deleted)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
