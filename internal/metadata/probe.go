// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/board-meetings/internal/tools"
)

// Prober reports the duration of an audio file in whole seconds.
type Prober interface {
	Duration(path string) (int, error)
}

// FFprobe reads durations with the ffprobe binary.
type FFprobe struct {
	tool tools.Tool
}

// NewFFprobe wraps an already located ffprobe tool.
func NewFFprobe(tool tools.Tool) *FFprobe {
	return &FFprobe{tool: tool}
}

// Duration returns the container duration, truncated to seconds.
func (p *FFprobe) Duration(path string) (int, error) {
	var out bytes.Buffer
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	if err := p.tool.Run(args, nil, &out); err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe duration %q: %w", strings.TrimSpace(out.String()), err)
	}
	return int(math.Floor(secs)), nil
}
