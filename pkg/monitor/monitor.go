package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/telemetry/metrics"
)

// MinTextLength is the shortest trimmed message that is classified.
const MinTextLength = 5

// Message outcomes, used as the metrics outcome label.
const (
	OutcomeRequest    = "design_request"
	OutcomeNotRequest = "not_request"
	OutcomeDuplicate  = "duplicate"
	OutcomeTooShort   = "too_short"
	OutcomeInvalid    = "invalid"
	OutcomeFailed     = "failed"
)

// Analyzer classifies message text. *ruleset.Manager implements it.
type Analyzer interface {
	Analyze(text string) classifier.MessageAnalysis
}

// BriefGenerator writes design briefs. *generator.Client implements it.
type BriefGenerator interface {
	GenerateBrief(ctx context.Context, text string, analysis *classifier.MessageAnalysis) (string, error)
}

// Recorder stores history. *recorder.Recorder implements it.
type Recorder interface {
	Record(record *history.Record) (string, error)
}

// Config wires a Monitor. Source, Sink and Analyzer are required.
type Config struct {
	Source   Source
	Sink     Sink
	Analyzer Analyzer

	// Generator is used when AutoGenerate is set.
	Generator BriefGenerator

	// Recorder stores every classified message when set.
	Recorder Recorder

	// OnlyRequests publishes design requests only.
	OnlyRequests bool

	// AutoGenerate writes a brief for every design request.
	AutoGenerate bool

	// SeenCapacity bounds duplicate detection.
	SeenCapacity int

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// Stats counts processed messages by outcome.
type Stats map[string]int

// Monitor classifies a stream of chat messages.
type Monitor struct {
	cfg    Config
	seen   *seenSet
	logger *slog.Logger
	now    func() time.Time
}

// New validates cfg and creates a Monitor.
func New(cfg Config) (*Monitor, error) {
	switch {
	case cfg.Source == nil:
		return nil, errors.New("monitor: source is required")
	case cfg.Sink == nil:
		return nil, errors.New("monitor: sink is required")
	case cfg.Analyzer == nil:
		return nil, errors.New("monitor: analyzer is required")
	case cfg.AutoGenerate && cfg.Generator == nil:
		return nil, errors.New("monitor: auto-generate requires a generator")
	}
	if cfg.SeenCapacity <= 0 {
		cfg.SeenCapacity = config.DefaultMonitorSeenCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Monitor{
		cfg:    cfg,
		seen:   newSeenSet(cfg.SeenCapacity),
		logger: cfg.Logger.With("component", "monitor", "source", cfg.Source.Name()),
		now:    time.Now,
	}, nil
}

// Run processes messages until the source is exhausted or ctx is done.
// Per-message failures are logged and counted; only source errors stop the
// loop. Reaching the end of the source or cancellation returns nil.
func (m *Monitor) Run(ctx context.Context) (Stats, error) {
	stats := Stats{}
	m.logger.Info("monitor started",
		"only_requests", m.cfg.OnlyRequests,
		"auto_generate", m.cfg.AutoGenerate,
	)

	for {
		msg, err := m.cfg.Source.Next(ctx)
		if err != nil {
			var de *DecodeError
			switch {
			case errors.As(err, &de):
				m.logger.Warn("skipping malformed message", "offset", de.Offset, "error", de.Cause)
				m.count(stats, OutcomeInvalid)
				continue
			case errors.Is(err, io.EOF):
				m.logger.Info("source exhausted", "stats", stats)
				return stats, nil
			case ctx.Err() != nil:
				m.logger.Info("monitor stopped", "stats", stats)
				return stats, nil
			default:
				return stats, err
			}
		}

		outcome, err := m.Process(ctx, msg)
		if err != nil {
			m.logger.Error("failed to process message",
				"message_id", msg.ID,
				"channel", msg.Channel,
				"error", err,
			)
		}
		m.count(stats, outcome)
	}
}

func (m *Monitor) count(stats Stats, outcome string) {
	stats[outcome]++
	m.cfg.Metrics.RecordMessage(m.cfg.Source.Name(), outcome)
}

// Process handles one message and returns its outcome. An error means the
// result could not be published; brief failures are carried in the result.
func (m *Monitor) Process(ctx context.Context, msg ChatMessage) (string, error) {
	if !m.seen.add(msg.ID) {
		return OutcomeDuplicate, nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(msg.Text)) < MinTextLength {
		return OutcomeTooShort, nil
	}

	analysis := m.cfg.Analyzer.Analyze(msg.Text)
	m.cfg.Metrics.RecordAnalysis(analysis)

	result := Result{Message: msg, Analysis: analysis}
	outcome := OutcomeNotRequest
	if analysis.IsDesignRequest {
		outcome = OutcomeRequest
		m.logger.Info("design request detected",
			"message_id", msg.ID,
			"channel", msg.Channel,
			"category", analysis.CategoryName(),
			"confidence", analysis.Confidence,
		)
		if m.cfg.AutoGenerate {
			brief, err := m.cfg.Generator.GenerateBrief(ctx, msg.Text, &analysis)
			if err != nil {
				m.logger.Warn("brief generation failed", "message_id", msg.ID, "error", err)
				result.BriefError = err.Error()
			}
			result.Brief = brief
		}
	}

	result.RecordID = m.record(msg, result)
	result.ProcessedAt = m.now()

	if m.cfg.OnlyRequests && !analysis.IsDesignRequest {
		return outcome, nil
	}
	if err := m.cfg.Sink.Publish(ctx, result); err != nil {
		return OutcomeFailed, err
	}
	return outcome, nil
}

func (m *Monitor) record(msg ChatMessage, result Result) string {
	if m.cfg.Recorder == nil {
		return ""
	}

	r := history.NewRecord(result.Analysis, history.SourceMonitor)
	r.MessageID = msg.ID
	r.Channel = msg.Channel
	r.Author = msg.Author
	r.Brief = result.Brief
	switch {
	case result.BriefError != "":
		r.Status = history.StatusFailed
		r.Error = result.BriefError
	case result.Brief != "":
		r.Status = history.StatusBriefed
	}

	id, err := m.cfg.Recorder.Record(r)
	if err != nil {
		m.logger.Warn("failed to record history", "message_id", msg.ID, "error", err)
		return ""
	}
	return id
}
