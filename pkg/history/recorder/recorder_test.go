package recorder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/history/storage"
	"palette-hq/scout/pkg/telemetry/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAndClose(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := New(store, config.RecorderConfig{BufferSize: 10, WriteTimeout: time.Second}, nil, nil)

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := rec.Record(&history.Record{Text: "logo please", Source: history.SourceCLI})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("id %q is not a UUID", id)
		}
		ids = append(ids, id)
	}

	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		r, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if r.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	}
}

func TestRecordKeepsGivenID(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := New(store, config.RecorderConfig{}, nil, nil)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := rec.Record(&history.Record{ID: "fixed", CreatedAt: created})
	if err != nil || id != "fixed" {
		t.Fatalf("Record() = %q, %v", id, err)
	}
	rec.Close()

	r, err := store.Get(context.Background(), "fixed")
	if err != nil {
		t.Fatal(err)
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, created)
	}
}

func TestRecordAfterClose(t *testing.T) {
	rec := New(storage.NewMemoryStorage(), config.RecorderConfig{}, nil, nil)
	rec.Close()
	rec.Close()

	_, err := rec.Record(&history.Record{})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Record() error = %v, want ErrClosed", err)
	}
}

// blockingStorage holds every Store until release is closed.
type blockingStorage struct {
	*storage.MemoryStorage
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStorage) Store(ctx context.Context, r *history.Record) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.MemoryStorage.Store(ctx, r)
}

func TestRecordDropsWhenFull(t *testing.T) {
	store := &blockingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "test"}, nil)
	rec := New(store, config.RecorderConfig{BufferSize: 1, WriteTimeout: time.Second}, nil, collector)

	// First record occupies the worker, second fills the buffer.
	if _, err := rec.Record(&history.Record{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	<-store.started
	if _, err := rec.Record(&history.Record{ID: "b"}); err != nil {
		t.Fatal(err)
	}

	_, err := rec.Record(&history.Record{ID: "c"})
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("Record() error = %v, want ErrBufferFull", err)
	}
	var re *history.RecorderError
	if !errors.As(err, &re) || re.RecordID != "c" {
		t.Errorf("error = %#v", err)
	}

	close(store.release)
	rec.Close()

	if n, _ := store.Count(context.Background(), nil); n != 2 {
		t.Errorf("stored %d records, want 2", n)
	}
	expected := `
# HELP test_history_records_dropped_total History records dropped because the recorder buffer was full
# TYPE test_history_records_dropped_total counter
test_history_records_dropped_total 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "test_history_records_dropped_total"); err != nil {
		t.Error(err)
	}
}

type failingStorage struct {
	storage.Nop
}

func (failingStorage) Store(context.Context, *history.Record) error {
	return errors.New("disk full")
}

func TestWriteFailureDoesNotStopWorker(t *testing.T) {
	rec := New(failingStorage{}, config.RecorderConfig{BufferSize: 4}, nil, nil)
	for i := 0; i < 3; i++ {
		if _, err := rec.Record(&history.Record{}); err != nil {
			t.Fatal(err)
		}
	}
	rec.Close()
}
