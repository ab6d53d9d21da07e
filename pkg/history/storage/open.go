package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"
)

// Backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendNone     = "none"
)

var errClosed = errors.New("storage closed")

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.HistoryConfig, logger *slog.Logger) (history.Storage, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return NewSQLiteStorage(ctx, cfg.SQLite, logger)
	case BackendPostgres:
		return NewPostgresStorage(ctx, PostgresDSN(cfg.Postgres), cfg.Postgres.MaxConns, logger)
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// Nop discards every record. It backs the "none" history backend.
type Nop struct{}

func (Nop) Store(context.Context, *history.Record) error { return nil }

func (Nop) Get(context.Context, string) (*history.Record, error) { return nil, history.ErrNotFound }

func (Nop) Query(context.Context, *history.Query) ([]*history.Record, error) {
	return []*history.Record{}, nil
}

func (Nop) Count(context.Context, *history.Query) (int64, error) { return 0, nil }

func (Nop) Delete(context.Context, time.Time) (int64, error) { return 0, nil }

func (Nop) DeleteOldest(context.Context, int64) (int64, error) { return 0, nil }

func (Nop) Close() error { return nil }
