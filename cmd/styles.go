package cmd

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#8B5CF6")
	colorSecondary = lipgloss.Color("#14B8A6")
	colorAccent    = lipgloss.Color("#F97316")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorError     = lipgloss.Color("#F43F5E")
	colorTextDim   = lipgloss.Color("#94A3B8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary)
	accentStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	dimStyle     = lipgloss.NewStyle().Foreground(colorTextDim)
)

// rule is a horizontal separator of width n.
func rule(n int) string {
	return dimStyle.Render(strings.Repeat("\u2500", n))
}
