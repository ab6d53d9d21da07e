package storage

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"palette-hq/scout/pkg/config"
	"palette-hq/scout/pkg/history"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements history.Storage on PostgreSQL.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// PostgresDSN builds a connection URL from cfg.
func PostgresDSN(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// NewPostgresStorage connects to dsn and migrates the schema.
// maxConns <= 0 keeps the pgx default pool size.
func NewPostgresStorage(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*PostgresStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.postgres")

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, history.NewStorageError("postgres", "parse_config", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, history.NewStorageError("postgres", "connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, history.NewStorageError("postgres", "ping", err)
	}

	s := &PostgresStorage{pool: pool, logger: logger}
	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("PostgreSQL storage initialized",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
	)
	return s, nil
}

func (s *PostgresStorage) initialize(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return history.NewStorageError("postgres", "create_schema", err)
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO schema_version (version) VALUES ($1) ON CONFLICT (version) DO NOTHING", SchemaVersion)
	if err != nil {
		return history.NewStorageError("postgres", "insert_schema_version", err)
	}
	return nil
}

// Store inserts or replaces a record.
func (s *PostgresStorage) Store(ctx context.Context, r *history.Record) error {
	analysis, err := marshalAnalysis(r.Analysis)
	if err != nil {
		return history.NewStorageError("postgres", "store", err)
	}

	_, err = s.pool.Exec(ctx, postgresDialect.upsertQuery(),
		r.ID, r.MessageID, r.Channel, r.Author, r.Source, r.Text,
		r.Category, r.Urgency, r.Budget, r.Sentiment, r.Confidence,
		r.IsDesignRequest, analysis,
		r.Brief, r.Status, r.Error, r.CreatedAt.UTC(),
	)
	if err != nil {
		return history.NewStorageError("postgres", "store", err)
	}
	return nil
}

// Get returns one record by ID.
func (s *PostgresStorage) Get(ctx context.Context, id string) (*history.Record, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+recordColumns+" FROM records WHERE id = $1", id)
	r, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, history.NewStorageError("postgres", "get", err)
	}
	return r, nil
}

// Query returns matching records, newest first unless q.Ascending.
func (s *PostgresStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	query, args := postgresDialect.selectQuery(q)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, history.NewStorageError("postgres", "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		r, err := scanPostgres(rows)
		if err != nil {
			return nil, history.NewStorageError("postgres", "scan", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("postgres", "query", err)
	}
	return records, nil
}

// Count returns the number of matching records.
func (s *PostgresStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	query, args := postgresDialect.countQuery(q)

	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, history.NewStorageError("postgres", "count", err)
	}
	return n, nil
}

// Delete removes records created before olderThan.
func (s *PostgresStorage) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM records WHERE created_at < $1", olderThan.UTC())
	if err != nil {
		return 0, history.NewStorageError("postgres", "delete", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteOldest keeps the newest keep records.
func (s *PostgresStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, postgresDialect.deleteOldestQuery(), keep)
	if err != nil {
		return 0, history.NewStorageError("postgres", "delete_oldest", err)
	}
	return tag.RowsAffected(), nil
}

// Close closes the pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	s.logger.Info("PostgreSQL storage closed")
	return nil
}

func scanPostgres(row pgx.Row) (*history.Record, error) {
	var (
		r        history.Record
		analysis []byte
	)
	err := row.Scan(
		&r.ID, &r.MessageID, &r.Channel, &r.Author, &r.Source, &r.Text,
		&r.Category, &r.Urgency, &r.Budget, &r.Sentiment, &r.Confidence, &r.IsDesignRequest, &analysis,
		&r.Brief, &r.Status, &r.Error, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.Analysis, err = unmarshalAnalysis(analysis); err != nil {
		return nil, err
	}
	return &r, nil
}
