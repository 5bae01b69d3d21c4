// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata builds the episodes document from downloaded meeting
// folders: one episode per folder that holds meeting audio, with its
// documents listed as attachments.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/board-meetings/internal/episodes"
	"github.com/pdiddy/board-meetings/pkg/types"
)

const folderPrefix = "meeting-"

// documentExts are the attachment extensions listed for an episode.
var documentExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xlsx": true, ".xls": true,
}

// now is replaced in tests.
var now = time.Now

// Generate scans cfg.MeetingsDir and returns a new document. Folders with
// no .mp3 file are reported and skipped. When existing is non-nil, episode
// descriptions and attachment text with matching ids and filenames are
// carried over. A nil prober records every duration as 0.
func Generate(ctx context.Context, cfg types.MetadataConfig, prober Prober, existing *episodes.Document, w io.Writer) (*episodes.Document, error) {
	entries, err := os.ReadDir(cfg.MeetingsDir)
	if err != nil {
		return nil, fmt.Errorf("reading meetings directory %s: %w", cfg.MeetingsDir, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), folderPrefix) {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	fmt.Fprintf(w, "Found %d meeting folders\n\n", len(folders))

	doc := &episodes.Document{Episodes: []*episodes.Episode{}}
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ep, err := buildEpisode(folder, filepath.Join(cfg.MeetingsDir, folder), prober, w)
		if err != nil {
			return nil, err
		}
		if ep == nil {
			fmt.Fprintf(w, "skipped: %s (no audio file)\n", folder)
			continue
		}
		if existing != nil {
			carryOver(ep, existing.Episode(ep.ID))
		}
		doc.Episodes = append(doc.Episodes, ep)
	}

	meta := struct {
		GeneratedAt   string `json:"generatedAt"`
		TotalEpisodes int    `json:"totalEpisodes"`
		Source        string `json:"source"`
	}{
		GeneratedAt:   now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		TotalEpisodes: len(doc.Episodes),
		Source:        cfg.Source,
	}
	if err := doc.Fields.Set("metadata", meta); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "\nProcessed %d episodes with audio\n", len(doc.Episodes))
	return doc, nil
}

// GenerateFile generates the document and writes it to cfg.EpisodesPath,
// carrying over descriptions and text from the file already there.
func GenerateFile(ctx context.Context, cfg types.MetadataConfig, prober Prober, w io.Writer) (*episodes.Document, error) {
	existing, err := episodes.Load(cfg.EpisodesPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "warning: ignoring existing %s: %v\n", cfg.EpisodesPath, err)
		}
		existing = nil
	}

	doc, err := Generate(ctx, cfg, prober, existing, w)
	if err != nil {
		return nil, err
	}
	if err := episodes.Save(cfg.EpisodesPath, doc); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Generated %s\n", cfg.EpisodesPath)
	return doc, nil
}

// buildEpisode returns nil when the folder holds no audio.
func buildEpisode(folder, dir string, prober Prober, w io.Writer) (*episodes.Episode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var audio, documents []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		switch {
		case ext == ".mp3":
			audio = append(audio, e.Name())
		case documentExts[ext]:
			documents = append(documents, e.Name())
		}
	}
	if len(audio) == 0 {
		return nil, nil
	}

	mainAudio := audio[0]
	for _, a := range audio {
		if !strings.Contains(strings.ToLower(a), "introduction") {
			mainAudio = a
			break
		}
	}
	audioPath := filepath.Join(dir, mainAudio)

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", audioPath, err)
	}

	duration := 0
	if prober != nil {
		d, err := prober.Duration(audioPath)
		if err != nil {
			fmt.Fprintf(w, "  warning: duration of %s: %v\n", mainAudio, err)
		} else {
			duration = d
		}
	}

	date := ParseDate(folder, mainAudio)
	dateValue := date
	if dateValue == "" {
		dateValue = "unknown"
	}

	ep := &episodes.Episode{ID: folder}
	fields := []struct {
		key   string
		value any
	}{
		{"id", folder},
		{"meetingNumber", MeetingNumber(folder)},
		{"title", Title(mainAudio)},
		{"date", dateValue},
		{"dateDisplay", FormatDateDisplay(date)},
		{"audioFilename", mainAudio},
		{"duration", duration},
		{"durationDisplay", FormatDuration(duration)},
		{"fileSize", info.Size()},
		{"fileSizeDisplay", FormatFileSize(info.Size())},
		{"description", ""},
	}
	for _, f := range fields {
		if err := ep.Fields.Set(f.key, f.value); err != nil {
			return nil, err
		}
	}

	ep.Attachments = buildAttachments(documents)
	fmt.Fprintf(w, "added:   %s (%s) %s\n", folder, FormatDateDisplay(date), FormatDuration(duration))
	return ep, nil
}

func buildAttachments(documents []string) []*episodes.Attachment {
	type entry struct {
		att   *episodes.Attachment
		order int
	}
	entries := make([]entry, 0, len(documents))
	for _, name := range documents {
		cat := Categorize(name)
		att := &episodes.Attachment{Filename: name}
		att.Fields.Set("filename", name)
		att.Fields.Set("type", cat.Type)
		att.Fields.Set("label", cat.Label)
		att.Fields.Set("title", cat.Title)
		entries = append(entries, entry{att: att, order: categoryOrder[cat.Type]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].order < entries[j].order
	})

	atts := make([]*episodes.Attachment, len(entries))
	for i, e := range entries {
		atts[i] = e.att
	}
	return atts
}

// carryOver copies hand-written and extracted fields from a previous
// version of the episode.
func carryOver(ep, prev *episodes.Episode) {
	if prev == nil {
		return
	}
	var desc string
	if ok, err := prev.Fields.Get("description", &desc); ok && err == nil && desc != "" {
		ep.Fields.Set("description", desc)
	}
	for _, att := range ep.Attachments {
		if old := prev.Attachment(att.Filename); old != nil && old.Text != nil {
			att.SetText(*old.Text)
		}
	}
}
