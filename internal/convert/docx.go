// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXConverter reads the top-level body paragraphs of a .docx file.
type DOCXConverter struct{}

// Convert returns the plain text of the non-blank paragraphs separated by
// a blank line.
// Table contents are not included.
func (DOCXConverter) Convert(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing DOCX: %w", err)
	}

	var paragraphs []string
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, paragraphText(p))
		}
	}
	return joinNonEmpty(paragraphs), nil
}

// paragraphText returns the visible text of a paragraph: run text, tabs,
// line breaks and hyperlink text. Drawings and list indentation add nothing.
func paragraphText(p *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Hyperlink:
			b.WriteString(c.Run.InstrText)
			writeRunText(&b, &c.Run)
		case *docx.Run:
			writeRunText(&b, c)
		}
	}
	return b.String()
}

func writeRunText(b *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		case *docx.BarterRabbet:
			b.WriteByte('\n')
		}
	}
}
