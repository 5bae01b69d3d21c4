package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the fixed per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "board-meetings/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the site root that relative links and meeting pages resolve against.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// First and Last bound the meeting numbers to crawl (inclusive, default 1-60).
	First int `json:"first" yaml:"first" mapstructure:"first"`
	Last  int `json:"last" yaml:"last" mapstructure:"last"`

	// OutputDir is the directory holding one folder per meeting.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// FileDelay is the pause after each file download attempt (default 500ms).
	FileDelay time.Duration `json:"file_delay" yaml:"file_delay" mapstructure:"file_delay"`

	// PageDelay is the pause between meeting pages (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay" mapstructure:"page_delay"`
}

// ReaderBackend identifies the tool used to read one document format.
type ReaderBackend string

const (
	BackendNative    ReaderBackend = "native"
	BackendPdftotext ReaderBackend = "pdftotext"
	BackendNone      ReaderBackend = "none"
)

// ExtractionConfig holds settings for the text extraction stage.
type ExtractionConfig struct {
	// EpisodesPath is the episodes.json document that is rewritten in place.
	EpisodesPath string `json:"episodes_path" yaml:"episodes_path" mapstructure:"episodes_path"`

	// MeetingsDir is the directory holding the downloaded meeting folders.
	MeetingsDir string `json:"meetings_dir" yaml:"meetings_dir" mapstructure:"meetings_dir"`

	// PDFBackend selects the PDF reader: native, pdftotext, or none.
	PDFBackend ReaderBackend `json:"pdf_backend" yaml:"pdf_backend" mapstructure:"pdf_backend"`

	// DOCXBackend selects the DOCX reader: native or none.
	DOCXBackend ReaderBackend `json:"docx_backend" yaml:"docx_backend" mapstructure:"docx_backend"`
}

// MetadataConfig holds settings for episodes.json generation.
type MetadataConfig struct {
	// MeetingsDir is the directory holding the downloaded meeting folders.
	MeetingsDir string `json:"meetings_dir" yaml:"meetings_dir" mapstructure:"meetings_dir"`

	// EpisodesPath is the generated document.
	EpisodesPath string `json:"episodes_path" yaml:"episodes_path" mapstructure:"episodes_path"`

	// Source is recorded in the document metadata block.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// FFprobe is the ffprobe binary used to read audio durations.
	FFprobe string `json:"ffprobe" yaml:"ffprobe" mapstructure:"ffprobe"`
}

// IndexConfig holds settings for the full-text index.
type IndexConfig struct {
	// IndexDir is the directory containing meetings.db.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
