// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/board-meetings/internal/convert"
	"github.com/pdiddy/board-meetings/internal/extract"
	"github.com/pdiddy/board-meetings/internal/tools"
	"github.com/pdiddy/board-meetings/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract attachment text into episodes.json",
	Long: `Extract reads episodes.json, finds each episode's meeting folder, and
stores the text of every PDF and DOCX attachment in the attachment's "text"
field. Files that cannot be read get a bracketed note instead. The document
is rewritten once at the end with its key order preserved.

PDF text is read natively or with poppler's pdftotext (--pdf-backend);
either reader can be disabled with "none".`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("episodes", "", "episodes document to update (default episodes.json)")
	extractCmd.Flags().String("meetings-dir", "", "directory holding meeting folders (default board-meetings)")
	extractCmd.Flags().String("pdf-backend", "", "PDF reader: native, pdftotext or none")
	extractCmd.Flags().String("docx-backend", "", "DOCX reader: native or none")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"episodes_path":        "episodes",
		"meetings_dir":         "meetings-dir",
		"extract.pdf_backend":  "pdf-backend",
		"extract.docx_backend": "docx-backend",
	})
	if err != nil {
		return err
	}

	cfg := types.ExtractionConfig{
		EpisodesPath: viper.GetString("episodes_path"),
		MeetingsDir:  viper.GetString("meetings_dir"),
		PDFBackend:   types.ReaderBackend(viper.GetString("extract.pdf_backend")),
		DOCXBackend:  types.ReaderBackend(viper.GetString("extract.docx_backend")),
	}

	set := convert.NewSet(cfg, tools.Lookup)
	formats := make([]string, 0, len(set.Unavailable))
	for f := range set.Unavailable {
		formats = append(formats, string(f))
	}
	sort.Strings(formats)
	for _, f := range formats {
		fmt.Fprintf(os.Stderr, "warning: %s text unavailable: %v\n", f, set.Unavailable[convert.Format(f)])
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	fmt.Println("Starting document text extraction...")
	_, err = extract.RunFile(ctx, cfg, set, os.Stdout)
	return err
}
