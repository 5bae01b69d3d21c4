// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fills the "text" field of every attachment in an
// episodes document with text read from the downloaded meeting files.
// Files that cannot be read get a bracketed placeholder instead; only a
// document that cannot be loaded or saved stops the run.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/board-meetings/internal/convert"
	"github.com/pdiddy/board-meetings/internal/episodes"
	"github.com/pdiddy/board-meetings/pkg/types"
)

const (
	placeholderMissing     = "[File not found: %s]"
	placeholderUnsupported = "[Unsupported file type: %s]"
	placeholderLegacyDoc   = "[Legacy .doc file - text extraction not yet implemented. Original file: %s]"
	placeholderError       = "[Error extracting %s: %v]"
)

// unavailablePlaceholders is written for every file of a format whose
// reader could not be set up. It does not depend on the file.
var unavailablePlaceholders = map[convert.Format]string{
	convert.FormatPDF:  "[PDF text extraction requires a PDF reader backend. Configure extract.pdf_backend]",
	convert.FormatDOCX: "[DOCX text extraction requires a DOCX reader backend. Configure extract.docx_backend]",
}

// Summary holds counts from an extraction run.
type Summary struct {
	Episodes int
	NoFolder int
	Counts   map[types.ExtractionKind]int
}

// Total returns the number of attachments processed.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// FindFolder returns the first meeting folder (in lexical order) whose name
// starts with id, plus every folder that matched. It returns "" when none
// match or id is empty.
func FindFolder(meetingsDir, id string) (string, []string, error) {
	if id == "" {
		return "", nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(meetingsDir, escapeGlob(id)+"*"))
	if err != nil {
		return "", nil, fmt.Errorf("matching folders for %s: %w", id, err)
	}

	var dirs []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	if len(dirs) == 0 {
		return "", nil, nil
	}
	return dirs[0], dirs, nil
}

// ExtractAttachment reads the text of folder/filename using the reader for
// its extension.
func ExtractAttachment(folder, filename string, set convert.Set) types.ExtractionResult {
	res := types.ExtractionResult{Filename: filename}
	path := filepath.Join(folder, filename)

	if _, err := os.Stat(path); err != nil {
		res.Kind = types.ExtractionMissing
		res.Text = fmt.Sprintf(placeholderMissing, filename)
		res.Err = err
		return res
	}

	var (
		format convert.Format
		c      convert.Converter
	)
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		format, c = convert.FormatPDF, set.PDF
	case strings.HasSuffix(lower, ".docx"):
		format, c = convert.FormatDOCX, set.DOCX
	case strings.HasSuffix(lower, ".doc"):
		res.Kind = types.ExtractionUnsupported
		res.Text = fmt.Sprintf(placeholderLegacyDoc, filepath.Base(path))
		return res
	default:
		res.Kind = types.ExtractionUnsupported
		res.Text = fmt.Sprintf(placeholderUnsupported, filename)
		return res
	}

	if c == nil {
		res.Kind = types.ExtractionUnavailable
		res.Text = unavailablePlaceholders[format]
		res.Err = set.Unavailable[format]
		return res
	}

	text, err := c.Convert(path)
	if err != nil {
		res.Kind = types.ExtractionFailed
		res.Text = fmt.Sprintf(placeholderError, format, err)
		res.Err = err
		return res
	}
	res.Kind = types.ExtractionDone
	res.Text = text
	return res
}

// Run extracts text for every attachment of every episode in doc, setting
// each attachment's text. Episodes without a matching folder are reported
// and left untouched.
func Run(ctx context.Context, doc *episodes.Document, meetingsDir string, set convert.Set, w io.Writer) (Summary, error) {
	summary := Summary{Counts: map[types.ExtractionKind]int{}}

	for _, ep := range doc.Episodes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(w, "\nProcessing %s...\n", ep.ID)
		summary.Episodes++

		folder, all, err := FindFolder(meetingsDir, ep.ID)
		if err != nil {
			return summary, err
		}
		if folder == "" {
			fmt.Fprintf(w, "  No folder found for %s\n", ep.ID)
			summary.NoFolder++
			continue
		}
		if len(all) > 1 {
			fmt.Fprintf(w, "  warning: %d folders match %s, using %s\n", len(all), ep.ID, filepath.Base(folder))
		}

		for _, att := range ep.Attachments {
			res := ExtractAttachment(folder, att.Filename, set)
			if res.Kind == types.ExtractionMissing {
				fmt.Fprintf(w, "  File not found: %s\n", att.Filename)
			} else {
				fmt.Fprintf(w, "  Extracting: %s\n", att.Filename)
				fmt.Fprintf(w, "    Extracted %d characters\n", utf8.RuneCountInString(res.Text))
			}
			att.SetText(res.Text)
			summary.Counts[res.Kind]++
		}
	}

	fmt.Fprintf(w, "\nextracted: %d, unsupported: %d, missing: %d, unavailable: %d, failed: %d\n",
		summary.Counts[types.ExtractionDone], summary.Counts[types.ExtractionUnsupported],
		summary.Counts[types.ExtractionMissing], summary.Counts[types.ExtractionUnavailable],
		summary.Counts[types.ExtractionFailed])
	return summary, nil
}

// RunFile loads the episodes document, runs extraction and writes the
// document back once at the end.
func RunFile(ctx context.Context, cfg types.ExtractionConfig, set convert.Set, w io.Writer) (Summary, error) {
	doc, err := episodes.Load(cfg.EpisodesPath)
	if err != nil {
		return Summary{}, err
	}

	summary, err := Run(ctx, doc, cfg.MeetingsDir, set, w)
	if err != nil {
		return summary, err
	}

	if err := episodes.Save(cfg.EpisodesPath, doc); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "\nDocument text extraction complete!\nUpdated: %s\n", cfg.EpisodesPath)
	return summary, nil
}

// escapeGlob quotes the glob metacharacters in s.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
