package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Shared lipgloss styles for command output.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935"))

	kvKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Width(22)
)

// kv renders one aligned "key: value" line.
func kv(key, value string) string {
	return kvKeyStyle.Render(key+":") + " " + value
}

// truncateStr shortens a string for table display. Counts runes, not
// bytes, so multi-byte names never split mid-character.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
