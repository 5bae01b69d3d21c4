// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/board-meetings/internal/index"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed attachment text",
	Long: `Search runs an FTS5 query against the index built by "index" and lists
matching attachments by relevance with a short snippet around the match.
The query uses FTS5 syntax: words, "quoted phrases", AND, OR, NOT, prefix*.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("index-dir", "", "directory holding meetings.db (default index)")
	searchCmd.Flags().Int("limit", 0, "maximum results (default 20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"index.dir":         "index-dir",
		"index.max_results": "limit",
	})
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := commandContext(cmd)
	defer stop()

	results, err := store.Search(ctx, strings.Join(args, " "), 0)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(os.Stdout, results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []index.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-12s  %-30s  %s\n", "Rank", "Meeting", "Date", "File", "Snippet")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range results {
		file := truncate(r.Filename, 30)
		snippet := strings.Join(strings.Fields(r.Snippet), " ")
		fmt.Fprintf(w, "%-4d  %-24s  %-12s  %-30s  %s\n", i+1, r.EpisodeID, r.Date, file, snippet)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
