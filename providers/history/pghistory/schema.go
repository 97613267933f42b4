package pghistory

import (
	"context"
	"fmt"
)

// createTableSQL creates the history table. The answer column holds the six
// answer fields as a JSON object.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    id         UUID PRIMARY KEY,
    user_id    TEXT NOT NULL,
    question   TEXT NOT NULL,
    answer     JSONB NOT NULL,
    confidence TEXT NOT NULL DEFAULT '',
    fallback   BOOLEAN NOT NULL DEFAULT FALSE,
    model      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// createUserCreatedIndexSQL backs List: a user's entries, newest first.
const createUserCreatedIndexSQL = `CREATE INDEX IF NOT EXISTS %s
    ON %s (user_id, created_at DESC)`

// EnsureSchema creates the history table and its index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, fmt.Sprintf(createTableSQL, s.tableName)); err != nil {
		return fmt.Errorf("pghistory: create table: %w", err)
	}
	if _, err := s.db.Exec(ctx, fmt.Sprintf(createUserCreatedIndexSQL, s.indexName, s.tableName)); err != nil {
		return fmt.Errorf("pghistory: create user_created index: %w", err)
	}
	return nil
}
