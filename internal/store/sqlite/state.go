package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bloovis/csup/internal/store"
)

// SaveSearch inserts or updates a named search.
func (s *DB) SaveSearch(ctx context.Context, name, query string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (name, query, created_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET query = excluded.query`,
		name, query, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save search %s: %w", name, err)
	}
	return nil
}

// ListSearches returns all saved searches ordered by name.
func (s *DB) ListSearches(ctx context.Context) ([]store.SavedSearch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, query, created_at FROM searches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var searches []store.SavedSearch
	for rows.Next() {
		var ss store.SavedSearch
		var createdStr string
		if err := rows.Scan(&ss.Name, &ss.Query, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		created, err := time.Parse(time.RFC3339, createdStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse search timestamp: %w", err)
		}
		ss.CreatedAt = created
		searches = append(searches, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate searches: %w", err)
	}
	return searches, nil
}

// DeleteSearch removes a saved search by name.
func (s *DB) DeleteSearch(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete search %s: %w", name, err)
	}
	return nil
}

// Lastmod returns the stored poll watermark, or 0 if never set.
func (s *DB) Lastmod(ctx context.Context) (int, error) {
	var lastmod int
	err := s.db.QueryRowContext(ctx, `SELECT lastmod FROM poll_state WHERE id = 1`).Scan(&lastmod)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read poll state: %w", err)
	}
	return lastmod, nil
}

// SetLastmod stores the poll watermark.
func (s *DB) SetLastmod(ctx context.Context, lastmod int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_state (id, lastmod) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET lastmod = excluded.lastmod`, lastmod)
	if err != nil {
		return fmt.Errorf("failed to write poll state: %w", err)
	}
	return nil
}
