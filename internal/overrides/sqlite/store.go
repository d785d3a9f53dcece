// Package sqlite persists category overrides in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/overrides"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ overrides.Store = (*Store)(nil)

// Open opens (creating if needed) the overrides database at path and runs
// pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sourceID string) (string, bool, error) {
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT category FROM category_overrides WHERE source_id = ?`, sourceID,
	).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get override: %w", err)
	}
	return category, true, nil
}

func (s *Store) Set(ctx context.Context, sourceID, category string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category_overrides (source_id, category, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(source_id) DO UPDATE SET
		   category = excluded.category,
		   updated_at = CURRENT_TIMESTAMP`,
		sourceID, category)
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sourceID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM category_overrides WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, category FROM category_overrides`)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out[id] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}
