package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// sqliteSchema creates the SQLite tables. created_at holds Unix nanoseconds
// so ordering and range filters compare integers.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    message_id TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,

    category TEXT NOT NULL DEFAULT 'general',
    urgency TEXT NOT NULL DEFAULT '',
    budget TEXT NOT NULL DEFAULT '',
    sentiment TEXT NOT NULL DEFAULT '',
    confidence REAL NOT NULL DEFAULT 0,
    is_design_request INTEGER NOT NULL DEFAULT 0,
    analysis TEXT NOT NULL DEFAULT '',

    brief TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',

    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
CREATE INDEX IF NOT EXISTS idx_records_channel ON records(channel);
CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    message_id TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,

    category TEXT NOT NULL DEFAULT 'general',
    urgency TEXT NOT NULL DEFAULT '',
    budget TEXT NOT NULL DEFAULT '',
    sentiment TEXT NOT NULL DEFAULT '',
    confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_design_request BOOLEAN NOT NULL DEFAULT FALSE,
    analysis JSONB,

    brief TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',

    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
CREATE INDEX IF NOT EXISTS idx_records_channel ON records(channel);
CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const recordColumns = `id, message_id, channel, author, source, text,
	category, urgency, budget, sentiment, confidence, is_design_request, analysis,
	brief, status, error, created_at`

const upsertSet = `message_id = excluded.message_id,
	channel = excluded.channel,
	author = excluded.author,
	source = excluded.source,
	text = excluded.text,
	category = excluded.category,
	urgency = excluded.urgency,
	budget = excluded.budget,
	sentiment = excluded.sentiment,
	confidence = excluded.confidence,
	is_design_request = excluded.is_design_request,
	analysis = excluded.analysis,
	brief = excluded.brief,
	status = excluded.status,
	error = excluded.error,
	created_at = excluded.created_at`
