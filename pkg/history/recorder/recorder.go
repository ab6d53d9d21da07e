package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/google/uuid"
)

var (
	// ErrBufferFull is returned when a record is dropped because the queue is full.
	ErrBufferFull = errors.New("recorder buffer full")

	// ErrClosed is returned for records submitted after Close.
	ErrClosed = errors.New("recorder closed")
)

// Recorder writes history records asynchronously. Record never blocks on
// storage; a full queue drops the record.
type Recorder struct {
	storage history.Storage
	config  config.RecorderConfig
	metrics *metrics.Collector
	logger  *slog.Logger

	queue     chan *history.Record
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

// New starts a recorder over storage. collector may be nil.
func New(storage history.Storage, cfg config.RecorderConfig, logger *slog.Logger, collector *metrics.Collector) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = config.DefaultRecorderBufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = config.DefaultRecorderWriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  logger.With("component", "history.recorder"),
		queue:   make(chan *history.Record, cfg.BufferSize),
		done:    make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("history recorder started",
		"buffer_size", cfg.BufferSize,
		"write_timeout", cfg.WriteTimeout,
	)
	return r
}

// Record enqueues a record and returns its ID. A missing ID or timestamp is
// filled in.
func (r *Recorder) Record(record *history.Record) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return record.ID, &history.RecorderError{RecordID: record.ID, Cause: ErrClosed}
	}

	select {
	case r.queue <- record:
		return record.ID, nil
	default:
		r.metrics.RecordDropped()
		r.logger.Warn("history buffer full, dropping record",
			"record_id", record.ID,
			"buffer_size", r.config.BufferSize,
		)
		return record.ID, &history.RecorderError{RecordID: record.ID, Cause: ErrBufferFull}
	}
}

// Close stops accepting records, writes everything still queued and waits
// for the worker to exit. It does not close the storage.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		close(r.done)
		r.wg.Wait()
		r.logger.Debug("history recorder stopped")
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.queue:
			r.write(record)
		case <-r.done:
			for {
				select {
				case record := <-r.queue:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}
	r.logger.Debug("history record stored",
		"record_id", record.ID,
		"category", record.Category,
		"duration", time.Since(start),
	)
}
