// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/board-meetings/internal/episodes"
	"github.com/pdiddy/board-meetings/internal/index"
	"github.com/pdiddy/board-meetings/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index extracted attachment text for full-text search",
	Long: `Index loads episodes.json into a SQLite database with an FTS5 index over
attachment text, replacing the rows of every episode it contains, and writes
an export.yaml listing next to the database. Attachments whose text is a
bracketed extraction note are not indexed.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("episodes", "", "episodes document to index (default episodes.json)")
	indexCmd.Flags().String("index-dir", "", "directory holding meetings.db (default index)")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"episodes_path": "episodes",
		"index.dir":     "index-dir",
	})
	if err != nil {
		return err
	}

	doc, err := episodes.Load(viper.GetString("episodes_path"))
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

	summary, err := store.Ingest(ctx, doc, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d episode(s) failed indexing", summary.Failed)
	}
	return nil
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		IndexDir:   viper.GetString("index.dir"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}
