// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the board-meetings pipeline.
package types

import "time"

// UnknownDate is the date placeholder used when a meeting page heading
// carries no recognizable date.
const UnknownDate = "unknown-date"

// LinkKind classifies an anchor found on a meeting page.
type LinkKind string

const (
	// LinkFile is a static downloadable file (pdf, doc, docx, mp3, xlsx, xls).
	LinkFile LinkKind = "file"

	// LinkHostedDocument points at an externally hosted editable document.
	LinkHostedDocument LinkKind = "hosted"
)

// Link is one classified anchor from a meeting page.
type Link struct {
	// URL is the absolute URL after resolving against the site base.
	URL string `json:"url" yaml:"url"`

	// Label is the anchor's visible text, whitespace trimmed.
	Label string `json:"label" yaml:"label"`

	Kind LinkKind `json:"kind" yaml:"kind"`
}

// Meeting is the manifest written next to the files of one meeting.
type Meeting struct {
	// Number is the meeting identifier (1-60).
	Number int `json:"number" yaml:"number"`

	// Date is YYYY-MM-DD or UnknownDate.
	Date string `json:"date" yaml:"date"`

	// SourceURL is the meeting page URL.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Dir is the meeting output directory.
	Dir string `json:"dir" yaml:"dir"`

	// Files lists the local paths of downloaded or already present files.
	Files []string `json:"files" yaml:"files"`

	// HostedLinks lists the hosted-document links found on the page.
	HostedLinks []Link `json:"hosted_links,omitempty" yaml:"hosted_links,omitempty"`

	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
