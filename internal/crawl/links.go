// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/board-meetings/pkg/types"
)

const hostedLinksFile = "google_docs_links.txt"

// WriteHostedLinks overwrites the meeting's hosted-document link file with
// a header followed by one "label\nurl\n\n" block per link.
func WriteHostedLinks(dir string, n int, date string, links []types.Link) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Google Docs links for Meeting %d (%s)\n", n, date)
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")
	for _, l := range links {
		fmt.Fprintf(&b, "%s\n%s\n\n", l.Label, l.URL)
	}

	path := filepath.Join(dir, hostedLinksFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
