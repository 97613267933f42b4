package pghistory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/providers/history"
)

// DefaultTableName is the table used when WithTableName is not given.
const DefaultTableName = "studyhelper_history"

// Querier abstracts the pgx methods the store needs. *pgxpool.Pool, pgx.Tx
// and pgxmock pools satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements history.Store on PostgreSQL. Concurrency is handled by the
// underlying pgx pool.
type Store struct {
	db        Querier
	tableName string
	indexName string
}

var _ history.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTableName overrides DefaultTableName. The name is quoted with
// pgx.Identifier because it is interpolated into SQL text.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = pgx.Identifier{name}.Sanitize()
		s.indexName = pgx.Identifier{"idx_" + name + "_user_created"}.Sanitize()
	}
}

// New returns a Store that runs its queries on db.
func New(db Querier, opts ...Option) *Store {
	s := &Store{
		db:        db,
		tableName: DefaultTableName,
		indexName: "idx_" + DefaultTableName + "_user_created",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TableName returns the sanitized table identifier.
func (s *Store) TableName() string {
	return s.tableName
}

// Save inserts entry. A zero CreatedAt is replaced with the current time.
func (s *Store) Save(ctx context.Context, entry history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	answerJSON, err := json.Marshal(entry.Answer)
	if err != nil {
		return fmt.Errorf("pghistory: marshal answer: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s
        (id, user_id, question, answer, confidence, fallback, model, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.tableName)

	if _, err := s.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Question, answerJSON,
		string(entry.Confidence), entry.Fallback, entry.Model, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("pghistory: insert entry: %w", err)
	}
	return nil
}

// List returns up to limit entries of userID, newest first.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]history.Entry, error) {
	if userID == "" {
		return nil, history.ErrMissingUser
	}

	query := fmt.Sprintf(`SELECT id, user_id, question, answer, confidence, fallback, model, created_at
        FROM %s WHERE user_id = $1
        ORDER BY created_at DESC LIMIT $2`, s.tableName)

	rows, err := s.db.Query(ctx, query, userID, history.NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("pghistory: query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Delete removes one entry of userID.
func (s *Store) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return history.ErrMissingUser
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND id = $2`, s.tableName)
	tag, err := s.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("pghistory: delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return history.ErrNotFound
	}
	return nil
}

// scanEntries reads every row. It returns an empty non-nil slice when there
// are no rows.
func scanEntries(rows pgx.Rows) ([]history.Entry, error) {
	entries := []history.Entry{}

	for rows.Next() {
		var (
			entry      history.Entry
			answerJSON []byte
			confidence string
		)
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Question, &answerJSON,
			&confidence, &entry.Fallback, &entry.Model, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pghistory: scan row: %w", err)
		}
		if len(answerJSON) > 0 {
			if err := json.Unmarshal(answerJSON, &entry.Answer); err != nil {
				return nil, fmt.Errorf("pghistory: decode answer: %w", err)
			}
		}
		entry.Confidence = recovery.Confidence(confidence)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pghistory: iterate rows: %w", err)
	}
	return entries, nil
}
