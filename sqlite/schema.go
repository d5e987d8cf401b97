package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration represents a single schema migration step. Steps must be
// idempotent: partially-applied migrations are rolled back and re-run.
type migration struct {
	version     int
	description string
	apply       func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Schema evolution is additive: new migrations are appended at the end;
// never modify existing entries.
var migrations = []migration{
	{
		version:     1,
		description: "base schema: items, chunks, lexical index, jobs, meta",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(baseSchema)
			return err
		},
	},
	{
		version:     2,
		description: "add save provenance and truncation flag to items",
		apply: func(tx *sql.Tx) error {
			// Guarded by existence checks so databases created from the
			// current base schema pass through unchanged.
			for col, ddl := range map[string]string{
				"saved_from": "ALTER TABLE items ADD COLUMN saved_from TEXT NOT NULL DEFAULT ''",
				"truncated":  "ALTER TABLE items ADD COLUMN truncated INTEGER NOT NULL DEFAULT 0",
			} {
				exists, err := columnExists(tx, "items", col)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if _, err := tx.Exec(ddl); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	source_label TEXT NOT NULL,
	truncated INTEGER NOT NULL DEFAULT 0,
	canonical_url TEXT NOT NULL DEFAULT '',
	saved_from TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	saved_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_content_hash ON items(content_hash);
CREATE INDEX IF NOT EXISTS idx_items_canonical_url ON items(canonical_url);

CREATE TABLE IF NOT EXISTS chunks (
	id INTEGER PRIMARY KEY,
	item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	content TEXT NOT NULL,
	embedding BLOB NOT NULL,
	embedding_model TEXT NOT NULL,
	embedding_dim INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_item_id ON chunks(item_id);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	content,
	content='chunks',
	content_rowid='id',
	tokenize='porter unicode61'
);

-- Triggers keep the lexical index synchronized with chunk mutations in the
-- same transaction, so the index always reflects the current chunk set.
CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
	INSERT INTO chunks_fts(rowid, content) VALUES (new.id, new.content);
END;
CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES ('delete', old.id, old.content);
	INSERT INTO chunks_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	canonical_url TEXT NOT NULL,
	saved_from TEXT NOT NULL DEFAULT '',
	attempts INTEGER NOT NULL DEFAULT 0,
	next_attempt_at TEXT NOT NULL,
	last_error TEXT NOT NULL DEFAULT '',
	dead_letter INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_canonical_url ON jobs(canonical_url);
CREATE INDEX IF NOT EXISTS idx_jobs_next_attempt_at ON jobs(next_attempt_at);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// columnExists reports whether a table already has the named column.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrate applies all pending schema migrations. Each step runs inside a
// transaction together with the version bump, so a partially-applied
// migration cannot leave the schema in a mixed state.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	row := db.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}

		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version, description) VALUES (?, ?)",
			m.version, m.description); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
	}

	return nil
}
