// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/board-meetings/internal/metadata"
	"github.com/pdiddy/board-meetings/internal/tools"
	"github.com/pdiddy/board-meetings/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate episodes.json from downloaded meeting folders",
	Long: `Generate scans the meeting folders, creates one episode for every folder
with an audio recording, and lists its documents as attachments ordered
agenda, minutes, lettered attachments, then other documents. Durations are
read with ffprobe when it is installed.

Descriptions and extracted text already present in episodes.json are kept.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("episodes", "", "episodes document to write (default episodes.json)")
	generateCmd.Flags().String("meetings-dir", "", "directory holding meeting folders (default board-meetings)")
	generateCmd.Flags().String("source", "", "source URL recorded in the document metadata")
	generateCmd.Flags().String("ffprobe", "", "ffprobe binary used for audio durations")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"episodes_path":    "episodes",
		"meetings_dir":     "meetings-dir",
		"generate.source":  "source",
		"generate.ffprobe": "ffprobe",
	})
	if err != nil {
		return err
	}

	cfg := types.MetadataConfig{
		MeetingsDir:  viper.GetString("meetings_dir"),
		EpisodesPath: viper.GetString("episodes_path"),
		Source:       viper.GetString("generate.source"),
		FFprobe:      viper.GetString("generate.ffprobe"),
	}

	var prober metadata.Prober
	if tool, err := tools.Lookup(cfg.FFprobe); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; durations will be 0\n", err)
	} else {
		prober = metadata.NewFFprobe(tool)
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	_, err = metadata.GenerateFile(ctx, cfg, prober, os.Stdout)
	return err
}
