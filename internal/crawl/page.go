// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl fetches board meeting pages, downloads the files they link
// to into one folder per meeting, and records hosted-document links.
package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/board-meetings/internal/httputil"
	"github.com/pdiddy/board-meetings/pkg/types"
)

// meetingPagePath is appended to the site base; the meeting number follows it.
const meetingPagePath = "/about/official-records/board-meeting-"

// hostedDocumentMarker identifies links to externally hosted editable documents.
const hostedDocumentMarker = "docs.google.com"

// fileExtensions are matched as substrings of the lower-cased absolute URL.
var fileExtensions = []string{".pdf", ".doc", ".docx", ".mp3", ".xlsx", ".xls"}

var datePattern = regexp.MustCompile(`(\w+)\s+(\d+),?\s+(\d{4})`)

var monthNumbers = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// Page is the parsed content of one meeting page.
type Page struct {
	URL         string
	Date        string
	Files       []types.Link
	HostedLinks []types.Link
}

// PageURL returns the meeting page URL for meeting n.
func PageURL(base string, n int) string {
	return fmt.Sprintf("%s%s%d", strings.TrimRight(base, "/"), meetingPagePath, n)
}

// MeetingDirName returns the folder name for a meeting, e.g. "meeting-07_2008-01-24".
func MeetingDirName(n int, date string) string {
	return fmt.Sprintf("meeting-%02d_%s", n, date)
}

// FetchPage downloads and parses a meeting page. Any transport error or
// non-2xx status is returned without retry.
func FetchPage(ctx context.Context, client *http.Client, pageURL string, cfg types.DownloadConfig) (*Page, error) {
	resp, err := httputil.Get(ctx, client, pageURL, cfg.UserAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := ParsePage(resp.Body, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	page.URL = pageURL
	return page, nil
}

// ParsePage reads meeting page HTML, resolves every anchor against base and
// classifies it. Links that are neither files nor hosted documents are dropped.
func ParsePage(r io.Reader, base string) (*Page, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", base, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	page := &Page{Date: types.UnknownDate}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		page.Date = ExtractDate(h1.Text())
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := baseURL.ResolveReference(ref).String()

		kind, ok := ClassifyLink(abs)
		if !ok {
			return
		}
		link := types.Link{URL: abs, Label: strings.TrimSpace(a.Text()), Kind: kind}
		switch kind {
		case types.LinkFile:
			page.Files = append(page.Files, link)
		case types.LinkHostedDocument:
			page.HostedLinks = append(page.HostedLinks, link)
		}
	})

	return page, nil
}

// ClassifyLink reports whether an absolute URL is a downloadable file or a
// hosted document. File extensions take precedence.
func ClassifyLink(absURL string) (types.LinkKind, bool) {
	lower := strings.ToLower(absURL)
	for _, ext := range fileExtensions {
		if strings.Contains(lower, ext) {
			return types.LinkFile, true
		}
	}
	if strings.Contains(absURL, hostedDocumentMarker) {
		return types.LinkHostedDocument, true
	}
	return "", false
}

// ExtractDate finds "<Month> <day>, <year>" in a heading and returns
// YYYY-MM-DD. An unknown month word yields month "00"; no match yields
// types.UnknownDate.
func ExtractDate(heading string) string {
	m := datePattern.FindStringSubmatch(heading)
	if m == nil {
		return types.UnknownDate
	}
	month, ok := monthNumbers[m[1]]
	if !ok {
		month = "00"
	}
	day := m[2]
	if len(day) < 2 {
		day = "0" + day
	}
	return fmt.Sprintf("%s-%s-%s", m[3], month, day)
}
