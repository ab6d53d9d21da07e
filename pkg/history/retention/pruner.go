package retention

import (
	"context"
	"log/slog"
	"time"

	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/telemetry/metrics"
)

// Pruner enforces the history retention policy.
type Pruner struct {
	storage history.Storage
	config  config.RetentionConfig
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner. collector may be nil.
func NewPruner(storage history.Storage, cfg config.RetentionConfig, logger *slog.Logger, collector *metrics.Collector) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  logger.With("component", "history.retention"),
		now:     time.Now,
	}
}

// Prune deletes records older than the retention period, then the oldest
// records beyond MaxRecords. It returns the total deleted, including any
// deleted before an error.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.Days)
		n, err := p.storage.Delete(ctx, cutoff)
		if err != nil {
			return total, p.fail(err)
		}
		total += n
		p.logger.Debug("pruned records by age",
			"deleted_count", n,
			"cutoff", cutoff,
		)
	}

	if p.config.MaxRecords > 0 {
		n, err := p.storage.DeleteOldest(ctx, p.config.MaxRecords)
		if err != nil {
			p.metrics.RecordPruned(total)
			return total, p.fail(err)
		}
		total += n
		p.logger.Debug("pruned records by count",
			"deleted_count", n,
			"max_records", p.config.MaxRecords,
		)
	}

	p.metrics.RecordPruned(total)
	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}

func (p *Pruner) fail(err error) error {
	return &history.RetentionError{
		RetentionDays: p.config.Days,
		MaxRecords:    p.config.MaxRecords,
		Cause:         err,
	}
}
