// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionKind tells how text for one attachment was obtained.
type ExtractionKind string

const (
	// ExtractionDone means the reader produced the attachment's text.
	ExtractionDone ExtractionKind = "extracted"

	// ExtractionUnsupported means no reader exists for the file type
	// (including the legacy .doc stub).
	ExtractionUnsupported ExtractionKind = "unsupported"

	// ExtractionMissing means the attachment file is not on disk.
	ExtractionMissing ExtractionKind = "missing"

	// ExtractionUnavailable means the reader for the file type is not configured
	// or its backend could not be found at startup.
	ExtractionUnavailable ExtractionKind = "unavailable"

	// ExtractionFailed means the reader returned an error.
	ExtractionFailed ExtractionKind = "failed"
)

// ExtractionResult is the outcome for a single attachment. Text holds the
// extracted content or the placeholder written in its place.
type ExtractionResult struct {
	Filename string         `json:"filename" yaml:"filename"`
	Kind     ExtractionKind `json:"kind" yaml:"kind"`
	Text     string         `json:"text" yaml:"text"`
	Err      error          `json:"-" yaml:"-"`
}
