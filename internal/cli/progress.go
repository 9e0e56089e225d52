// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// progress.go - Single-line progress rendering for the export run.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress renders a single carriage-return-updated progress line sized to
// the terminal. On non-TTY output it stays silent; the slog lines carry the
// same information for logs.
type Progress struct {
	out     io.Writer
	width   int
	enabled bool
	active  bool
}

// NewProgress creates a progress renderer for stdout.
func NewProgress() *Progress {
	return &Progress{
		out:     os.Stdout,
		width:   GetTerminalWidth(),
		enabled: IsStdoutTTY(),
	}
}

// Update redraws the progress line: a bar, a done/total counter and the
// current document title, truncated to the terminal width.
func (p *Progress) Update(done, total int, title string) {
	if !p.enabled || total <= 0 {
		return
	}
	p.active = true

	counter := fmt.Sprintf(" %d/%d ", done, total)
	barWidth := 20
	// bar + counter + title must fit on one line
	titleWidth := p.width - barWidth - len(counter) - 3
	if titleWidth < 0 {
		titleWidth = 0
	}

	filled := barWidth * done / total
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	line := bar + counter + truncate(title, titleWidth)
	// pad to wipe leftovers from a longer previous line; the bar styles emit
	// ANSI escapes, so pad by visible width rather than byte length
	if pad := p.width - 1 - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Fprint(p.out, "\r"+line)
}

// Done terminates the progress line so following output starts clean.
func (p *Progress) Done() {
	if p.enabled && p.active {
		fmt.Fprintln(p.out)
		p.active = false
	}
}

// truncate shortens s to at most max runes, appending an ellipsis when it
// cuts.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
