package db

import (
	"fmt"
	"time"
)

// maxSearchHistoryRows caps the persisted search terms; older rows are
// pruned on insert.
const maxSearchHistoryRows = 10

// SearchHistoryRepository persists recent tieba search terms.
type SearchHistoryRepository struct {
	db *DB
}

// NewSearchHistoryRepository creates a search history repository.
func NewSearchHistoryRepository(db *DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Add records a search term, refreshing its recency when already present,
// and prunes everything beyond the cap.
func (r *SearchHistoryRepository) Add(term string) error {
	if term == "" {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.conn.Exec(
		`INSERT INTO search_history (term, searched_at) VALUES (?, ?)
		 ON CONFLICT(term) DO UPDATE SET searched_at = excluded.searched_at`,
		term, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record search term: %w", err)
	}

	_, err = r.db.conn.Exec(
		`DELETE FROM search_history WHERE term NOT IN (
			SELECT term FROM search_history ORDER BY searched_at DESC LIMIT ?
		)`, maxSearchHistoryRows,
	)
	if err != nil {
		return fmt.Errorf("failed to prune search history: %w", err)
	}
	return nil
}

// Recent returns up to limit terms, newest first.
func (r *SearchHistoryRepository) Recent(limit int) ([]string, error) {
	if limit <= 0 || limit > maxSearchHistoryRows {
		limit = maxSearchHistoryRows
	}

	rows, err := r.db.conn.Query(
		`SELECT term FROM search_history ORDER BY searched_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan search term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// Clear drops all remembered terms.
func (r *SearchHistoryRepository) Clear() error {
	if _, err := r.db.conn.Exec(`DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
