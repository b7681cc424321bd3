// internal/store/sqlite.go
//
// SQLite-backed Cache. The list is stored as a JSON array in the single
// word_cache row created by assets/sql/001_word_cache.sql.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SQLite is a Cache persisted in a migrated database.
type SQLite struct {
	db     *sql.DB
	policy Policy
}

// NewSQLite wraps db, which must already be migrated.
func NewSQLite(db *sql.DB, p Policy) *SQLite {
	return &SQLite{db: db, policy: p.withDefaults()}
}

// Read serves the row when fresh. Stale, foreign-version and undecodable
// rows are deleted and reported as a miss.
func (s *SQLite) Read(ctx context.Context) ([]string, bool, error) {
	var version, storedAt, raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, stored_at, words FROM word_cache WHERE id = 1`,
	).Scan(&version, &storedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read word cache: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, storedAt)
	if err != nil || !s.policy.fresh(version, at) {
		return nil, false, s.Invalidate(ctx)
	}

	var words []string
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		log.Warn().Err(err).Msg("corrupt word cache, dropping it")
		return nil, false, s.Invalidate(ctx)
	}
	return words, true, nil
}

// Write replaces the row.
func (s *SQLite) Write(ctx context.Context, words []string) error {
	if words == nil {
		words = []string{}
	}
	raw, err := json.Marshal(words)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO word_cache (id, version, stored_at, words)
        VALUES (1, ?, ?, ?)`,
		s.policy.Version, s.policy.Now().UTC().Format(time.RFC3339Nano), string(raw),
	)
	if err != nil {
		return fmt.Errorf("write word cache: %w", err)
	}
	return nil
}

// Invalidate deletes the row.
func (s *SQLite) Invalidate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM word_cache`); err != nil {
		return fmt.Errorf("clear word cache: %w", err)
	}
	return nil
}
