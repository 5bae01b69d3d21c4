// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/board-meetings/internal/httputil"
	"github.com/pdiddy/board-meetings/pkg/types"
)

const (
	manifestFile = "meeting.yaml"

	// chunkSize is the buffer used when streaming a download to disk.
	chunkSize = 8192
)

// MeetingResult holds the outcome for one meeting page.
type MeetingResult struct {
	Number int
	Date   string
	Dir    string

	// Downloaded counts files fetched in this run; Existing counts files
	// already on disk. Both count as saved.
	Downloaded int
	Existing   int
	Failed     int

	Files       []string
	HostedLinks []types.Link
}

// Saved returns the number of files present on disk after the run.
func (r MeetingResult) Saved() int {
	return r.Downloaded + r.Existing
}

// BatchResult holds the outcome of a range of meeting pages.
type BatchResult struct {
	Processed int
	Failed    int
	Meetings  []*MeetingResult
}

// Total returns the number of meeting pages attempted.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed
}

// Downloaded returns the number of files fetched across all meetings.
func (r BatchResult) Downloaded() int {
	n := 0
	for _, m := range r.Meetings {
		n += m.Downloaded
	}
	return n
}

// HasFailures reports whether any page fetch failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// DownloadMeeting fetches the page for meeting n, creates its folder and
// downloads every linked file not already present. A failed file download is
// reported and counted; it does not stop the remaining files. An error is
// returned only when the page itself cannot be fetched or the folder cannot
// be created.
func DownloadMeeting(ctx context.Context, client *http.Client, n int, cfg types.DownloadConfig, w io.Writer) (*MeetingResult, error) {
	pageURL := PageURL(cfg.BaseURL, n)
	fmt.Fprintf(w, "\n[Meeting %d] Fetching %s\n", n, pageURL)

	page, err := FetchPage(ctx, client, pageURL, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	dir := filepath.Join(cfg.OutputDir, MeetingDirName(n, page.Date))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	fmt.Fprintf(w, "  directory: %s\n", dir)

	result := &MeetingResult{
		Number:      n,
		Date:        page.Date,
		Dir:         dir,
		HostedLinks: page.HostedLinks,
	}

	for _, link := range page.Files {
		name := FilenameFor(link)
		dest := filepath.Join(dir, name)

		if _, err := os.Stat(dest); err == nil {
			fmt.Fprintf(w, "  exists:  %s\n", name)
			result.Existing++
			result.Files = append(result.Files, dest)
			continue
		}

		fmt.Fprintf(w, "  downloading: %s\n", link.URL)
		if err := downloadFile(ctx, client, link.URL, dest, cfg); err != nil {
			fmt.Fprintf(w, "  failed:  %s (%v)\n", link.URL, err)
			result.Failed++
		} else {
			fmt.Fprintf(w, "  saved:   %s\n", name)
			result.Downloaded++
			result.Files = append(result.Files, dest)
		}

		if err := httputil.Pause(ctx, cfg.FileDelay); err != nil {
			return result, err
		}
	}

	if len(page.HostedLinks) > 0 {
		if err := WriteHostedLinks(dir, n, page.Date, page.HostedLinks); err != nil {
			fmt.Fprintf(w, "  warning: %v\n", err)
		} else {
			fmt.Fprintf(w, "  saved %d Google Docs links to %s\n", len(page.HostedLinks), hostedLinksFile)
		}
	}

	manifest := types.Meeting{
		Number:      n,
		Date:        page.Date,
		SourceURL:   pageURL,
		Dir:         dir,
		Files:       result.Files,
		HostedLinks: page.HostedLinks,
		FetchedAt:   time.Now().UTC(),
	}
	if err := writeManifest(&manifest, filepath.Join(dir, manifestFile)); err != nil {
		fmt.Fprintf(w, "  warning: writing manifest: %v\n", err)
	}

	fmt.Fprintf(w, "  Summary: %d files downloaded, %d Google Docs links saved",
		result.Saved(), len(page.HostedLinks))
	if result.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", result.Failed)
	}
	fmt.Fprintln(w)
	return result, nil
}

// DownloadRange processes meetings cfg.First through cfg.Last in order,
// pausing cfg.PageDelay between pages. A page that cannot be fetched is
// reported and skipped. The returned error is non-nil only when ctx is
// cancelled or the output directory cannot be created.
func DownloadRange(ctx context.Context, client *http.Client, cfg types.DownloadConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", cfg.OutputDir, err)
	}

	for n := cfg.First; n <= cfg.Last; n++ {
		if n > cfg.First {
			if err := httputil.Pause(ctx, cfg.PageDelay); err != nil {
				return result, err
			}
		}

		m, err := DownloadMeeting(ctx, client, n, cfg, w)
		if m != nil {
			result.Meetings = append(result.Meetings, m)
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fmt.Fprintf(w, "  failed:  meeting %d (%v)\n", n, err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	absDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		absDir = cfg.OutputDir
	}
	fmt.Fprintf(w, "\nComplete! Successfully processed %d/%d meetings\n", result.Processed, result.Total())
	fmt.Fprintf(w, "Files saved to: %s\n", absDir)
	return result, nil
}

// downloadFile streams url to destPath through a temporary file that is
// renamed on success, so an interrupted download never looks complete.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.DownloadConfig) error {
	resp, err := httputil.Get(ctx, client, url, cfg.UserAgent)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.CopyBuffer(tmpFile, resp.Body, make([]byte, chunkSize))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeManifest writes a Meeting record to a YAML file.
func writeManifest(m *types.Meeting, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest reads the meeting.yaml written by DownloadMeeting.
func ReadManifest(dir string) (*types.Meeting, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	var m types.Meeting
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
