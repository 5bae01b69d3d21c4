// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools locates and runs external command-line programs
// (pdftotext, ffprobe) that some stages use as optional backends.
package tools

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Tool is an external program found on PATH.
type Tool interface {
	// Name returns the binary name (e.g. "pdftotext").
	Name() string

	// Run executes the program with args, piping stdin and stdout.
	// Stderr output is folded into the returned error.
	Run(args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// binary implements Tool for a resolved executable path.
type binary struct {
	name string
	path string
	exec executor
}

func (b *binary) Name() string { return b.name }

func (b *binary) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	if err := b.exec.RunPiped(b.path, args, stdin, stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", b.name, err, msg)
		}
		return fmt.Errorf("running %s: %w", b.name, err)
	}
	return nil
}

var defaultExec executor = &osExecutor{}

// Lookup finds name on PATH. It returns an error when the program is
// not installed.
func Lookup(name string) (Tool, error) {
	return lookup(defaultExec, name)
}

func lookup(exec executor, name string) (Tool, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return &binary{name: name, path: path, exec: exec}, nil
}
