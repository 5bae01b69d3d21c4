// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"
)

// Result is one attachment matching a search, with its episode.
type Result struct {
	EpisodeID string `json:"episode_id" yaml:"episode_id"`
	Title     string `json:"title" yaml:"title"`
	Date      string `json:"date" yaml:"date"`
	Filename  string `json:"filename" yaml:"filename"`
	Label     string `json:"label" yaml:"label"`
	Snippet   string `json:"snippet" yaml:"snippet"`
}

// Search runs an FTS5 query over attachment text and returns matches in
// rank order. A limit of zero or less uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.episode_id, e.title, e.date, a.filename, a.label,
			snippet(attachments_fts, 0, '[', ']', '...', 12)
		FROM attachments_fts
		JOIN attachments a ON a.rowid = attachments_fts.rowid
		JOIN episodes e ON e.id = a.episode_id
		WHERE attachments_fts MATCH ?
		ORDER BY attachments_fts.rank
		LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.EpisodeID, &r.Title, &r.Date, &r.Filename, &r.Label, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
