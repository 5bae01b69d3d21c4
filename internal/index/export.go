// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportFile = "export.yaml"

// ExportEpisode lists an indexed episode and the attachments it holds text for.
type ExportEpisode struct {
	ID            string             `yaml:"id"`
	MeetingNumber int                `yaml:"meeting_number"`
	Title         string             `yaml:"title"`
	Date          string             `yaml:"date"`
	AudioFilename string             `yaml:"audio_filename"`
	Attachments   []ExportAttachment `yaml:"attachments"`
}

// ExportAttachment describes one indexed attachment.
type ExportAttachment struct {
	Filename   string `yaml:"filename"`
	Type       string `yaml:"type"`
	Label      string `yaml:"label"`
	Characters int    `yaml:"characters"`
}

// Export returns every indexed episode ordered by meeting number.
func (s *Store) Export(ctx context.Context) ([]ExportEpisode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_number, title, date, audio_filename FROM episodes ORDER BY meeting_number, id`)
	if err != nil {
		return nil, fmt.Errorf("querying episodes: %w", err)
	}
	var eps []ExportEpisode
	for rows.Next() {
		var e ExportEpisode
		if err := rows.Scan(&e.ID, &e.MeetingNumber, &e.Title, &e.Date, &e.AudioFilename); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning episode: %w", err)
		}
		eps = append(eps, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range eps {
		atts, err := s.exportAttachments(ctx, eps[i].ID)
		if err != nil {
			return nil, err
		}
		eps[i].Attachments = atts
	}
	return eps, nil
}

func (s *Store) exportAttachments(ctx context.Context, episodeID string) ([]ExportAttachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, type, label, length(content) FROM attachments WHERE episode_id = ? ORDER BY rowid`,
		episodeID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments of %s: %w", episodeID, err)
	}
	defer rows.Close()

	atts := []ExportAttachment{}
	for rows.Next() {
		var a ExportAttachment
		if err := rows.Scan(&a.Filename, &a.Type, &a.Label, &a.Characters); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

// ExportYAML writes the index listing to IndexDir/export.yaml and returns
// the path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	eps, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(eps)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.indexDir, exportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
