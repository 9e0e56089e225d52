// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for all CLI output.
//
// Colors are disabled automatically for non-TTY output and when NO_COLOR is
// set; lipgloss handles the detection.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// TitleStyle is used for command titles and headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// LabelStyle is used for field labels in key/value output.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(16)

	// SuccessStyle marks successful completion lines.
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // Green

	// WarnStyle marks degraded-but-continuing conditions.
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// ErrorStyle marks fatal errors.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// barFilledStyle and barEmptyStyle render the progress bar segments.
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// KeyValue renders one aligned "label: value" line.
func KeyValue(label, value string) string {
	return LabelStyle.Render(label) + " " + value
}
