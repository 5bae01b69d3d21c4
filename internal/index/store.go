// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads extracted attachment text into a SQLite full-text
// index so meetings can be searched by what their documents say.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/board-meetings/internal/episodes"
	"github.com/pdiddy/board-meetings/pkg/types"
)

const dbFile = "meetings.db"

// Store manages the meetings index database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database at cfg.IndexDir/meetings.db
// and creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, indexDir: cfg.IndexDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			meeting_number INTEGER,
			title TEXT,
			date TEXT,
			audio_filename TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attachments (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			episode_id TEXT NOT NULL REFERENCES episodes(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			type TEXT,
			label TEXT,
			content TEXT NOT NULL,
			UNIQUE(episode_id, filename)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_episode ON attachments(episode_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='attachments_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE attachments_fts USING fts5(content, content=attachments, content_rowid=rowid)`,
		`CREATE TRIGGER attachments_ai AFTER INSERT ON attachments BEGIN
			INSERT INTO attachments_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER attachments_ad AFTER DELETE ON attachments BEGIN
			INSERT INTO attachments_fts(attachments_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER attachments_au AFTER UPDATE ON attachments BEGIN
			INSERT INTO attachments_fts(attachments_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO attachments_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Episodes    int
	Attachments int
	Skipped     int
	Failed      int
	Removed     int
}

// IsPlaceholder reports whether text is one of the bracketed notes the
// extractor writes in place of document text.
func IsPlaceholder(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")
}

// Ingest replaces the indexed rows of every episode in doc, removes
// episodes no longer in doc, and then rewrites export.yaml. Attachments
// without text, or whose text is a placeholder, are counted as skipped.
func (s *Store) Ingest(ctx context.Context, doc *episodes.Document, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	for _, ep := range doc.Episodes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		indexed, skipped, err := s.ingestEpisode(ctx, ep)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", ep.ID, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed  %s (%d attachments, %d skipped)\n", ep.ID, indexed, skipped)
		summary.Episodes++
		summary.Attachments += indexed
		summary.Skipped += skipped
	}

	removed, err := s.removeStale(ctx, doc, w)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	fmt.Fprintf(w, "\nepisodes: %d, attachments: %d, skipped: %d, failed: %d, removed: %d\n",
		summary.Episodes, summary.Attachments, summary.Skipped, summary.Failed, summary.Removed)

	if summary.Episodes > 0 || summary.Removed > 0 {
		if _, err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: %s write failed: %v\n", exportFile, err)
		}
	}
	return summary, nil
}

func (s *Store) ingestEpisode(ctx context.Context, ep *episodes.Episode) (indexed, skipped int, err error) {
	var (
		number             int
		title, date, audio string
	)
	if _, err := ep.Fields.Get("meetingNumber", &number); err != nil {
		return 0, 0, err
	}
	if _, err := ep.Fields.Get("title", &title); err != nil {
		return 0, 0, err
	}
	if _, err := ep.Fields.Get("date", &date); err != nil {
		return 0, 0, err
	}
	if _, err := ep.Fields.Get("audioFilename", &audio); err != nil {
		return 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE episode_id = ?`, ep.ID); err != nil {
		return 0, 0, fmt.Errorf("deleting old attachments: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO episodes (id, meeting_number, title, date, audio_filename)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			meeting_number=excluded.meeting_number, title=excluded.title,
			date=excluded.date, audio_filename=excluded.audio_filename`,
		ep.ID, number, title, date, audio,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("upserting episode: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attachments (episode_id, filename, type, label, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]bool, len(ep.Attachments))
	for _, att := range ep.Attachments {
		if seen[att.Filename] || att.Text == nil || strings.TrimSpace(*att.Text) == "" || IsPlaceholder(*att.Text) {
			skipped++
			continue
		}
		var kind, label string
		att.Fields.Get("type", &kind)
		att.Fields.Get("label", &label)
		if _, err := stmt.ExecContext(ctx, ep.ID, att.Filename, kind, label, *att.Text); err != nil {
			return 0, 0, fmt.Errorf("inserting attachment %s: %w", att.Filename, err)
		}
		seen[att.Filename] = true
		indexed++
	}

	return indexed, skipped, tx.Commit()
}

// removeStale deletes indexed episodes whose ids are not in doc.
func (s *Store) removeStale(ctx context.Context, doc *episodes.Document, w io.Writer) (int, error) {
	keep := make(map[string]bool, len(doc.Episodes))
	for _, ep := range doc.Episodes {
		keep[ep.ID] = true
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM episodes ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("listing indexed episodes: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning episode id: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE episode_id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting attachments of %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting episode %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing removals: %w", err)
	}
	for _, id := range stale {
		fmt.Fprintf(w, "removed  %s\n", id)
	}
	return len(stale), nil
}
