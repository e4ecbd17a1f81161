package cli

import "github.com/charmbracelet/lipgloss"

// Colors defines the palette used for human-readable output.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
}

// Styles for command output.
var Styles = struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
}{
	Heading: lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
	Label:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(Colors.Muted),
	Success: lipgloss.NewStyle().Foreground(Colors.Success),
	Warning: lipgloss.NewStyle().Foreground(Colors.Warning),
}
