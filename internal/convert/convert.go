// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert reads plain text out of downloaded meeting documents.
// Each supported format has a Converter; which backend serves a format is
// decided once, when the Set is built.
package convert

import (
	"fmt"
	"strings"

	"github.com/pdiddy/board-meetings/internal/tools"
	"github.com/pdiddy/board-meetings/pkg/types"
)

// pageSeparator joins the text of consecutive pages or paragraphs.
const pageSeparator = "\n\n"

// Converter extracts plain text from the document at path.
type Converter interface {
	Convert(path string) (string, error)
}

// Format is a document type handled by the extractor.
type Format string

const (
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
)

// Set holds the converter chosen for each format. A nil converter means
// the format is unavailable; Unavailable records why.
type Set struct {
	PDF  Converter
	DOCX Converter

	Unavailable map[Format]error
}

// Lookup finds an external tool by name; tools.Lookup in production.
type Lookup func(name string) (tools.Tool, error)

// NewSet resolves the configured backends. A backend that is disabled or
// cannot be found leaves its format unavailable rather than failing.
func NewSet(cfg types.ExtractionConfig, lookup Lookup) Set {
	s := Set{Unavailable: map[Format]error{}}

	switch cfg.PDFBackend {
	case types.BackendNative, "":
		s.PDF = PDFConverter{}
	case types.BackendPdftotext:
		tool, err := lookup(binPdftotext)
		if err != nil {
			s.Unavailable[FormatPDF] = err
		} else {
			s.PDF = NewPdftotextConverter(tool)
		}
	case types.BackendNone:
		s.Unavailable[FormatPDF] = fmt.Errorf("PDF backend disabled")
	default:
		s.Unavailable[FormatPDF] = fmt.Errorf("unknown PDF backend %q", cfg.PDFBackend)
	}

	switch cfg.DOCXBackend {
	case types.BackendNative, "":
		s.DOCX = DOCXConverter{}
	case types.BackendNone:
		s.Unavailable[FormatDOCX] = fmt.Errorf("DOCX backend disabled")
	default:
		s.Unavailable[FormatDOCX] = fmt.Errorf("unknown DOCX backend %q", cfg.DOCXBackend)
	}

	return s
}

// joinNonEmpty joins the parts that contain non-whitespace text.
func joinNonEmpty(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, pageSeparator)
}
