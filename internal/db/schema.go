package db

// SchemaSQL is the complete schema for a quill chat store.
//
// This is the single source of truth: adapter tests load it through
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// column referenced by adapter code but missing here fails immediately
// with "no such column".
//
// The store mirrors the host chat application's message history. The
// engine itself persists nothing: its accumulated state lives in memory
// and is rebuilt from these messages on every session start.
const SchemaSQL = `
-- Ledger messages, ordered by position. The external generator appends
-- at the highest position; the pinned sub-document sits at the lowest.
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL UNIQUE,
	author TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(position);

-- Host-side flags, including the generation-in-progress marker the
-- write gate reads.
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
