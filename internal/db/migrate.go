package db

import (
	"database/sql"
	"fmt"
)

// Migrate brings the schema up to date. Every statement is idempotent, so
// re-running the full list on startup is safe.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id          TEXT PRIMARY KEY,
		summary     TEXT NOT NULL DEFAULT '',
		last_intent TEXT NOT NULL DEFAULT '',
		last_agent  TEXT NOT NULL DEFAULT '',
		last_lat    REAL,
		last_lon    REAL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role            TEXT NOT NULL CHECK(role IN ('user','assistant','system')),
		content         TEXT NOT NULL,
		seq             INTEGER NOT NULL,
		created_at      TEXT NOT NULL,
		UNIQUE(conversation_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(conversation_id, seq)`,

	`CREATE TABLE IF NOT EXISTS analysis_cache (
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		intent          TEXT NOT NULL,
		analysis        TEXT NOT NULL,
		agent_name      TEXT NOT NULL,
		charts          TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		PRIMARY KEY (conversation_id, intent)
	)`,

	`CREATE TABLE IF NOT EXISTS persona_profiles (
		conversation_id TEXT PRIMARY KEY REFERENCES conversations(id) ON DELETE CASCADE,
		level           TEXT NOT NULL CHECK(level IN ('beginner','intermediate','advanced')),
		score           INTEGER NOT NULL,
		tags            TEXT NOT NULL DEFAULT '[]',
		last_refreshed  TEXT,
		updated_at      TEXT NOT NULL
	)`,
}
