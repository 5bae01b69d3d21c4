//go:build mage

// Package main contains Mage build targets for board-meetings developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// buildTags enables the FTS5 extension in mattn/go-sqlite3.
const buildTags = "sqlite_fts5"

const (
	binDir  = "bin"
	binName = "board-meetings"
	cmdPkg  = "./cmd/board-meetings"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"board-meetings",
	"index",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", buildTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "-tags", buildTags, "./...")
}

// Clean removes the built binary.
func Clean() error {
	return sh.Rm(binDir)
}

// binary returns the path of the built CLI, building it first.
func binary() string {
	mg.Deps(Build)
	return filepath.Join(binDir, binName)
}
