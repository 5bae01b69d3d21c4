// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/board-meetings/internal/tools"
)

const binPdftotext = "pdftotext"

// PDFConverter reads PDFs in-process, page by page.
type PDFConverter struct{}

// Convert returns the text of every page that has any, separated by a
// blank line. The pdf library panics on some malformed files; that is
// reported as an error.
func (PDFConverter) Convert(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	return joinNonEmpty(pages), nil
}

// PdftotextConverter shells out to poppler's pdftotext.
type PdftotextConverter struct {
	tool tools.Tool
}

// NewPdftotextConverter wraps an already located pdftotext tool.
func NewPdftotextConverter(tool tools.Tool) *PdftotextConverter {
	return &PdftotextConverter{tool: tool}
}

// Convert runs pdftotext and splits its output on form feeds, which
// pdftotext emits between pages.
func (c *PdftotextConverter) Convert(path string) (string, error) {
	var out bytes.Buffer
	if err := c.tool.Run([]string{"-q", "-enc", "UTF-8", path, "-"}, nil, &out); err != nil {
		return "", err
	}
	return joinNonEmpty(strings.Split(out.String(), "\f")), nil
}
