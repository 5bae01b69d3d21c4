// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/board-meetings/pkg/types"
)

const meetingHTML = `<html><body>
<h1>Board meeting: March 5, 2020</h1>
<a href="/files/Agenda.pdf">Agenda</a>
<a href="/files/Board%20Minutes.docx">Minutes</a>
<a href="/files/broken.pdf">Broken</a>
<a href="https://docs.google.com/document/d/abc/edit">Attachment A</a>
</body></html>`

// fileServer serves meeting 1 with three file links (one broken), meeting 2
// with no date, meeting 4 with two links that differ only in their query,
// and 404 for meeting 3. It counts file requests.
type fileServer struct {
	*httptest.Server
	fileHits int32
}

func newFileServer(t *testing.T) *fileServer {
	t.Helper()
	fs := &fileServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == meetingPagePath+"1":
			fmt.Fprint(w, meetingHTML)
		case r.URL.Path == meetingPagePath+"2":
			fmt.Fprint(w, `<h1>Board meeting</h1><a href="/files/Notes.pdf">Notes</a>`)
		case r.URL.Path == meetingPagePath+"4":
			fmt.Fprint(w, `<h1>May 1, 2021</h1><a href="/get?f=Agenda.pdf">Agenda</a><a href="/get?f=Minutes.pdf">Minutes</a>`)
		case r.URL.Path == "/get":
			atomic.AddInt32(&fs.fileHits, 1)
			fmt.Fprintf(w, "content of %s", r.URL.Query().Get("f"))
		case r.URL.Path == "/files/broken.pdf":
			atomic.AddInt32(&fs.fileHits, 1)
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.HasPrefix(r.URL.Path, "/files/"):
			atomic.AddInt32(&fs.fileHits, 1)
			fmt.Fprintf(w, "content of %s", r.URL.Path)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func testConfig(baseURL, dir string) types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "board-meetings-test/0.1",
		},
		BaseURL:   baseURL,
		First:     1,
		Last:      1,
		OutputDir: dir,
	}
}

func TestDownloadMeeting(t *testing.T) {
	ts := newFileServer(t)
	dir := t.TempDir()
	var buf bytes.Buffer

	res, err := DownloadMeeting(context.Background(), ts.Client(), 1, testConfig(ts.URL, dir), &buf)
	require.NoError(t, err)

	meetingDir := filepath.Join(dir, "meeting-01_2020-03-05")
	assert.Equal(t, meetingDir, res.Dir)
	assert.Equal(t, 2, res.Downloaded)
	assert.Equal(t, 0, res.Existing)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, buf.String(), "failed:")

	data, err := os.ReadFile(filepath.Join(meetingDir, "Agenda.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content of /files/Agenda.pdf", string(data))
	assert.FileExists(t, filepath.Join(meetingDir, "Board_Minutes.docx"))
	assert.NoFileExists(t, filepath.Join(meetingDir, "broken.pdf"))

	links, err := os.ReadFile(filepath.Join(meetingDir, hostedLinksFile))
	require.NoError(t, err)
	want := "Google Docs links for Meeting 1 (2020-03-05)\n" +
		strings.Repeat("=", 60) + "\n\n" +
		"Attachment A\nhttps://docs.google.com/document/d/abc/edit\n\n"
	assert.Equal(t, want, string(links))

	manifest, err := ReadManifest(meetingDir)
	require.NoError(t, err)
	assert.Equal(t, 1, manifest.Number)
	assert.Equal(t, "2020-03-05", manifest.Date)
	assert.Len(t, manifest.Files, 2)
	assert.Len(t, manifest.HostedLinks, 1)

	// No temp files left behind.
	entries, err := os.ReadDir(meetingDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestDownloadMeetingRerunSkipsExistingFiles(t *testing.T) {
	ts := newFileServer(t)
	dir := t.TempDir()
	cfg := testConfig(ts.URL, dir)

	_, err := DownloadMeeting(context.Background(), ts.Client(), 2, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&ts.fileHits))

	var buf bytes.Buffer
	res, err := DownloadMeeting(context.Background(), ts.Client(), 2, cfg, &buf)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&ts.fileHits), "rerun must not download again")
	assert.Equal(t, 0, res.Downloaded)
	assert.Equal(t, 1, res.Existing)
	assert.Equal(t, 1, res.Saved())
	assert.Contains(t, buf.String(), "exists:  Notes.pdf")
	assert.DirExists(t, filepath.Join(dir, "meeting-02_unknown-date"))
	assert.NoFileExists(t, filepath.Join(dir, "meeting-02_unknown-date", hostedLinksFile))
}

func TestDownloadMeetingPageError(t *testing.T) {
	ts := newFileServer(t)
	dir := t.TempDir()

	_, err := DownloadMeeting(context.Background(), ts.Client(), 3, testConfig(ts.URL, dir), &bytes.Buffer{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadRange(t *testing.T) {
	ts := newFileServer(t)
	dir := t.TempDir()
	cfg := testConfig(ts.URL, filepath.Join(dir, "board-meetings"))
	cfg.Last = 3

	var buf bytes.Buffer
	res, err := DownloadRange(context.Background(), ts.Client(), cfg, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Total())
	assert.True(t, res.HasFailures())
	assert.Equal(t, 3, res.Downloaded())
	assert.Contains(t, buf.String(), "Complete! Successfully processed 2/3 meetings")
}

func TestDownloadRangeCancelled(t *testing.T) {
	ts := newFileServer(t)
	cfg := testConfig(ts.URL, t.TempDir())
	cfg.Last = 3
	cfg.PageDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	res, err := DownloadRange(ctx, ts.Client(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, res.Processed)
}

func TestDownloadMeetingQueryOnlyLinksGetDistinctFiles(t *testing.T) {
	srv := newFileServer(t)
	dir := t.TempDir()

	var buf bytes.Buffer
	result, err := DownloadMeeting(context.Background(), srv.Client(), 4, testConfig(srv.URL, dir), &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 0, result.Existing)
	assert.Equal(t, int32(2), atomic.LoadInt32(&srv.fileHits))

	meetingDir := filepath.Join(dir, "meeting-04_2021-05-01")
	agenda, err := os.ReadFile(filepath.Join(meetingDir, "get_f_Agenda.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content of Agenda.pdf", string(agenda))
	minutes, err := os.ReadFile(filepath.Join(meetingDir, "get_f_Minutes.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content of Minutes.pdf", string(minutes))
}
