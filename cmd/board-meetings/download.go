// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/board-meetings/internal/crawl"
	"github.com/pdiddy/board-meetings/internal/httputil"
	"github.com/pdiddy/board-meetings/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download [meeting-number]",
	Short: "Download meeting audio and documents",
	Long: `Download fetches each board meeting page in the configured range, saves
every linked audio file and document into one folder per meeting, and records
hosted document links in google_docs_links.txt. Files already on disk are
skipped, so an interrupted run can be restarted.

With a meeting number argument only that meeting is downloaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("base-url", "", "site root the meeting pages live under")
	downloadCmd.Flags().Int("first", 0, "first meeting number (default 1)")
	downloadCmd.Flags().Int("last", 0, "last meeting number (default 60)")
	downloadCmd.Flags().String("output-dir", "", "directory for meeting folders (default board-meetings)")
	downloadCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	downloadCmd.Flags().Duration("file-delay", 0, "pause after each file download (default 500ms)")
	downloadCmd.Flags().Duration("page-delay", 0, "pause between meeting pages (default 1s)")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"download.base_url":   "base-url",
		"download.first":      "first",
		"download.last":       "last",
		"meetings_dir":        "output-dir",
		"http.timeout":        "timeout",
		"download.file_delay": "file-delay",
		"download.page_delay": "page-delay",
	})
	if err != nil {
		return err
	}

	cfg := downloadConfig()
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid meeting number %q", args[0])
		}
		cfg.First, cfg.Last = n, n
	}
	if cfg.First > cfg.Last {
		return fmt.Errorf("first meeting %d is after last meeting %d", cfg.First, cfg.Last)
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	fmt.Printf("Downloading meetings %d-%d from %s\n\n", cfg.First, cfg.Last, cfg.BaseURL)
	client := httputil.NewClient(cfg.Timeout)
	result, err := crawl.DownloadRange(ctx, client, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "warning: %d meeting(s) could not be processed\n", result.Failed)
	}
	return nil
}

func downloadConfig() types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		BaseURL:   viper.GetString("download.base_url"),
		First:     viper.GetInt("download.first"),
		Last:      viper.GetInt("download.last"),
		OutputDir: viper.GetString("meetings_dir"),
		FileDelay: viper.GetDuration("download.file_delay"),
		PageDelay: viper.GetDuration("download.page_delay"),
	}
}
