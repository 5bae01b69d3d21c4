// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/board-meetings/pkg/types"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)
	repeatedUnderscores  = regexp.MustCompile(`_+`)
)

// unknownExt marks files whose name came from link text rather than the URL.
const unknownExt = ".unknown"

// Sanitize makes name safe as a filename: spaces and "%20" become
// underscores, any other character outside letters, digits, '_', '-' and
// '.' becomes an underscore, and underscore runs collapse to one.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "%20", "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	return repeatedUnderscores.ReplaceAllString(name, "_")
}

// FilenameFor derives the local filename for a file link from the decoded
// text after the last '/' of its URL, query string included, so links that
// differ only in their query get different names. When that text is empty,
// "edit", or shorter than three characters, the link label is used instead
// with an ".unknown" extension.
func FilenameFor(link types.Link) string {
	segment := lastSegment(link.URL)
	if segment == "" || segment == "edit" || len([]rune(segment)) < 3 {
		return Sanitize(link.Label) + unknownExt
	}
	return Sanitize(segment)
}

func lastSegment(rawURL string) string {
	seg := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if dec, err := url.PathUnescape(seg); err == nil {
		return dec
	}
	return seg
}
