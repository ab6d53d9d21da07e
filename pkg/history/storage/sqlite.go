package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite driver names.
const (
	DriverPureGo = "sqlite"  // modernc.org/sqlite
	DriverCgo    = "sqlite3" // github.com/mattn/go-sqlite3
)

// SQLiteStorage implements history.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path and
// migrates the schema.
func NewSQLiteStorage(ctx context.Context, cfg config.SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.sqlite")

	if cfg.Driver == "" {
		cfg.Driver = config.DefaultSQLiteDriver
	}
	if cfg.Driver != DriverPureGo && cfg.Driver != DriverCgo {
		return nil, history.NewStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", cfg.Driver))
	}

	inMemory := cfg.Path == ":memory:"
	if !inMemory {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, history.NewStorageError("sqlite", "mkdir", err)
			}
		}
	}

	db, err := sql.Open(cfg.Driver, sqliteDSN(cfg))
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	// Every connection to ":memory:" is a separate database.
	if inMemory || cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	s := &SQLiteStorage{db: db, config: cfg, logger: logger}
	if err := s.initialize(ctx, inMemory); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode && !inMemory,
		"max_open_conns", cfg.MaxOpenConns,
	)
	return s, nil
}

// sqliteDSN encodes the busy timeout in the DSN so that it applies to every
// pooled connection. The two drivers spell the parameter differently.
func sqliteDSN(cfg config.SQLiteConfig) string {
	ms := cfg.BusyTimeout.Milliseconds()
	if cfg.Driver == DriverCgo {
		return fmt.Sprintf("file:%s?_busy_timeout=%d", cfg.Path, ms)
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, ms)
}

func (s *SQLiteStorage) initialize(ctx context.Context, inMemory bool) error {
	if s.config.WALMode && !inMemory {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)",
		SchemaVersion, time.Now().UnixNano())
	if err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store inserts or replaces a record.
func (s *SQLiteStorage) Store(ctx context.Context, r *history.Record) error {
	analysis, err := marshalAnalysis(r.Analysis)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, sqliteDialect.upsertQuery(),
		r.ID, r.MessageID, r.Channel, r.Author, r.Source, r.Text,
		r.Category, r.Urgency, r.Budget, r.Sentiment, r.Confidence,
		sqliteDialect.boolArg(r.IsDesignRequest), string(analysis),
		r.Brief, r.Status, r.Error, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Get returns one record by ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*history.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)
	r, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, history.NewStorageError("sqlite", "get", err)
	}
	return r, nil
}

// Query returns matching records, newest first unless q.Ascending.
func (s *SQLiteStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	query, args := sqliteDialect.selectQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		r, err := scanSQLite(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	query, args := sqliteDialect.countQuery(q)

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// Delete removes records created before olderThan.
func (s *SQLiteStorage) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE created_at < ?", olderThan.UnixNano())
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	return n, nil
}

// DeleteOldest keeps the newest keep records.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqliteDialect.deleteOldestQuery(), keep)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete_oldest", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete_oldest", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*history.Record, error) {
	var (
		r         history.Record
		isRequest int64
		analysis  string
		createdAt int64
	)
	err := row.Scan(
		&r.ID, &r.MessageID, &r.Channel, &r.Author, &r.Source, &r.Text,
		&r.Category, &r.Urgency, &r.Budget, &r.Sentiment, &r.Confidence, &isRequest, &analysis,
		&r.Brief, &r.Status, &r.Error, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	r.IsDesignRequest = isRequest != 0
	r.CreatedAt = time.Unix(0, createdAt)
	if r.Analysis, err = unmarshalAnalysis([]byte(analysis)); err != nil {
		return nil, err
	}
	return &r, nil
}

func marshalAnalysis(a *classifier.MessageAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func unmarshalAnalysis(data []byte) (*classifier.MessageAnalysis, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var a classifier.MessageAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}
