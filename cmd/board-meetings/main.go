// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the board-meetings CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the board-meetings CLI.
var rootCmd = &cobra.Command{
	Use:   "board-meetings",
	Short: "Archive board meeting recordings and documents",
	Long: `board-meetings mirrors the published board meeting records of a charity
evaluator: it downloads each meeting's audio and documents, builds the
episodes.json document an audio app reads, extracts attachment text into it,
and indexes that text for full-text search.

Each stage is a subcommand: download, generate, extract, index and search.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./board-meetings.yaml or ~/.config/board-meetings/board-meetings.yaml)")
	setDefaults()
}

// setDefaults registers the default for every configuration key.
func setDefaults() {
	viper.SetDefault("meetings_dir", "board-meetings")
	viper.SetDefault("episodes_path", "episodes.json")

	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", "board-meetings/0.1")

	viper.SetDefault("download.base_url", "https://www.givewell.org")
	viper.SetDefault("download.first", 1)
	viper.SetDefault("download.last", 60)
	viper.SetDefault("download.file_delay", 500*time.Millisecond)
	viper.SetDefault("download.page_delay", time.Second)

	viper.SetDefault("extract.pdf_backend", "native")
	viper.SetDefault("extract.docx_backend", "native")

	viper.SetDefault("generate.source", "https://www.givewell.org/about/official-records")
	viper.SetDefault("generate.ffprobe", "ffprobe")

	viper.SetDefault("index.dir", "index")
	viper.SetDefault("index.max_results", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("board-meetings")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "board-meetings"))
		}
	}

	viper.SetEnvPrefix("BOARD_MEETINGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds configuration keys to the named flags of cmd. Binding
// happens when the command runs, so commands that share a key each see
// their own flag.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// commandContext returns a context cancelled on interrupt or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
