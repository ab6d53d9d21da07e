package main

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/history/recorder"
	"palette-hq/scout/pkg/monitor"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/spf13/cobra"
)

var monitorFlags struct {
	source       string
	file         string
	format       string
	channel      string
	sink         string
	brokers      []string
	topic        string
	groupID      string
	resultTopic  string
	onlyRequests bool
	autoGenerate bool
	noHistory    bool
	metricsAddr  string
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Classify a stream of chat messages",
	Long: `Read chat messages from stdin, a file or a Kafka topic, classify each one,
store it in history and publish the result to stdout or a Kafka topic.

Messages are JSON lines ({"id", "channel", "author", "text", "timestamp"})
or plain text lines with --format text. Repeated message IDs and texts
shorter than five characters are skipped. With --auto-generate, every
design request also gets a Gemini brief.

Examples:
  # Classify a chat export
  scout monitor --source file --file chat.jsonl --only-requests

  # Plain text from a pipe
  tail -f channel.log | scout monitor --format text --channel design

  # Kafka in, Kafka out, with briefs
  scout monitor --source kafka --sink kafka --brokers localhost:9092 --auto-generate`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	f := monitorCmd.Flags()
	f.StringVar(&monitorFlags.source, "source", "", "message source: stdin, file, kafka")
	f.StringVar(&monitorFlags.file, "file", "", "message file for --source file")
	f.StringVar(&monitorFlags.format, "format", "", "line format: jsonl, text")
	f.StringVar(&monitorFlags.channel, "channel", "", "channel for messages without one")
	f.StringVar(&monitorFlags.sink, "sink", "", "result sink: stdout, kafka, none")
	f.StringSliceVar(&monitorFlags.brokers, "brokers", nil, "Kafka brokers")
	f.StringVar(&monitorFlags.topic, "topic", "", "Kafka topic to consume")
	f.StringVar(&monitorFlags.groupID, "group", "", "Kafka consumer group")
	f.StringVar(&monitorFlags.resultTopic, "result-topic", "", "Kafka topic for results")
	f.BoolVar(&monitorFlags.onlyRequests, "only-requests", false, "publish design requests only")
	f.BoolVar(&monitorFlags.autoGenerate, "auto-generate", false, "generate a brief for every design request")
	f.BoolVar(&monitorFlags.noHistory, "no-history", false, "do not store analyses")
	f.StringVar(&monitorFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

// applyMonitorFlags overrides the monitor config with the flags that were set.
func applyMonitorFlags(cmd *cobra.Command) {
	mc := &appConfig.Monitor
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("source", &mc.Source, monitorFlags.source)
	set("format", &mc.Format, monitorFlags.format)
	set("channel", &mc.Channel, monitorFlags.channel)
	set("sink", &mc.Sink, monitorFlags.sink)
	set("topic", &mc.Kafka.Topic, monitorFlags.topic)
	set("group", &mc.Kafka.GroupID, monitorFlags.groupID)
	set("result-topic", &mc.Kafka.ResultTopic, monitorFlags.resultTopic)
	if cmd.Flags().Changed("file") {
		mc.FilePath = monitorFlags.file
		if !cmd.Flags().Changed("source") {
			mc.Source = monitor.SourceFile
		}
	}
	if cmd.Flags().Changed("brokers") {
		mc.Kafka.Brokers = monitorFlags.brokers
	}
	if monitorFlags.onlyRequests {
		mc.OnlyRequests = true
	}
	if monitorFlags.autoGenerate {
		mc.AutoGenerate = true
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	applyMonitorFlags(cmd)
	mc := appConfig.Monitor

	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(appConfig.Telemetry.Metrics, nil)
	if monitorFlags.metricsAddr != "" {
		shutdown := serveMetrics(monitorFlags.metricsAddr, collector)
		defer shutdown()
	}

	rules, err := newRules(collector)
	if err != nil {
		return err
	}

	source, err := monitor.OpenSource(mc, cmd.InOrStdin())
	if err != nil {
		return cli.NewConfigError("monitor.source", err.Error())
	}
	defer source.Close()

	sink, err := monitor.OpenSink(mc, cmd.OutOrStdout())
	if err != nil {
		return cli.NewConfigError("monitor.sink", err.Error())
	}
	defer sink.Close()

	mcfg := monitor.Config{
		Source:       source,
		Sink:         sink,
		Analyzer:     rules,
		OnlyRequests: mc.OnlyRequests,
		AutoGenerate: mc.AutoGenerate,
		SeenCapacity: mc.SeenCapacity,
		Logger:       appLogger,
		Metrics:      collector,
	}

	if !monitorFlags.noHistory && historyEnabled() {
		store, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rec := recorder.New(store, appConfig.History.Recorder, appLogger, collector)
		defer rec.Close()
		mcfg.Recorder = rec
	}

	if mc.AutoGenerate {
		client, err := newGeminiClient(ctx, collector)
		if err != nil {
			return err
		}
		mcfg.Generator = client
	}

	m, err := monitor.New(mcfg)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := m.Run(ctx)
	printStats(cmd, stats, time.Since(start))
	if err != nil {
		return cli.NewCommandError("monitor", err)
	}
	return nil
}

// serveMetrics exposes the collector until the returned func is called.
func serveMetrics(addr string, collector *metrics.Collector) func() {
	mux := http.NewServeMux()
	mux.Handle(appConfig.Telemetry.Metrics.Path, collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server failed", "error", err)
		}
	}()
	appLogger.Info("Serving metrics", "address", addr, "path", appConfig.Telemetry.Metrics.Path)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printStats(cmd *cobra.Command, stats monitor.Stats, elapsed time.Duration) {
	outcomes := make([]string, 0, len(stats))
	for k := range stats {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)

	rows := [][]string{{"Outcome", "Messages"}}
	for _, k := range outcomes {
		rows = append(rows, []string{k, strconv.Itoa(stats[k])})
	}
	w := cmd.ErrOrStderr()
	_ = cli.PrintTable(w, rows)
	appLogger.Info("Monitor finished", "elapsed", elapsed.Round(time.Millisecond).String())
}
