// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/board-meetings/pkg/types"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{"full date", "Board meeting: March 5, 2020", "2020-03-05"},
		{"no comma", "June 22 2007", "2007-06-22"},
		{"two digit day", "Board Meeting, December 14, 2011", "2011-12-14"},
		{"unknown month word", "Meeting 12 4, 2010", "2010-00-04"},
		{"no date", "Board meeting materials", types.UnknownDate},
		{"empty", "", types.UnknownDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDate(tt.heading))
		})
	}
}

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		url      string
		wantKind types.LinkKind
		wantOK   bool
	}{
		{"https://www.givewell.org/files/Agenda.PDF", types.LinkFile, true},
		{"https://www.givewell.org/files/minutes.docx", types.LinkFile, true},
		{"https://www.givewell.org/files/audio.mp3", types.LinkFile, true},
		{"https://www.givewell.org/files/budget.xls", types.LinkFile, true},
		{"https://docs.google.com/document/d/abc/edit", types.LinkHostedDocument, true},
		{"https://www.givewell.org/about", "", false},
		{"mailto:info@givewell.org", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			kind, ok := ClassifyLink(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

const samplePage = `<html><body>
<h1>Board meeting: January 24, 2008</h1>
<p>
  <a href="/files/Agenda.pdf">Agenda</a>
  <a href="files/Minutes%20Draft.docx"> Minutes </a>
  <a href="https://cdn.example.org/audio/Meeting.mp3">Audio</a>
  <a href="https://docs.google.com/document/d/abc123/edit">Attachment A - Budget</a>
  <a href="/about">About</a>
  <a name="anchor-only">No href</a>
</p>
</body></html>`

func TestParsePage(t *testing.T) {
	page, err := ParsePage(strings.NewReader(samplePage), "https://www.givewell.org")
	require.NoError(t, err)

	assert.Equal(t, "2008-01-24", page.Date)
	require.Len(t, page.Files, 3)
	assert.Equal(t, "https://www.givewell.org/files/Agenda.pdf", page.Files[0].URL)
	assert.Equal(t, "Agenda", page.Files[0].Label)
	assert.Equal(t, "https://www.givewell.org/files/Minutes%20Draft.docx", page.Files[1].URL)
	assert.Equal(t, "Minutes", page.Files[1].Label)
	assert.Equal(t, "https://cdn.example.org/audio/Meeting.mp3", page.Files[2].URL)

	require.Len(t, page.HostedLinks, 1)
	assert.Equal(t, "Attachment A - Budget", page.HostedLinks[0].Label)
	assert.Equal(t, types.LinkHostedDocument, page.HostedLinks[0].Kind)
}

func TestParsePageWithoutHeading(t *testing.T) {
	page, err := ParsePage(strings.NewReader(`<p><a href="/x.pdf">x</a></p>`), "https://www.givewell.org")
	require.NoError(t, err)
	assert.Equal(t, types.UnknownDate, page.Date)
	assert.Len(t, page.Files, 1)
}

func TestPageURLAndDirName(t *testing.T) {
	assert.Equal(t, "https://www.givewell.org/about/official-records/board-meeting-7",
		PageURL("https://www.givewell.org/", 7))
	assert.Equal(t, "meeting-07_2008-01-24", MeetingDirName(7, "2008-01-24"))
	assert.Equal(t, "meeting-42_unknown-date", MeetingDirName(42, types.UnknownDate))
}
