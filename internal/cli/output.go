package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by command output. Kept as a struct so NO_COLOR can swap in
// unstyled variants without touching call sites.
type styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Item    lipgloss.Style
}

// newStyles builds the output styles, honoring the NO_COLOR convention.
func newStyles() styles {
	if os.Getenv("NO_COLOR") != "" {
		plain := lipgloss.NewStyle()
		return styles{Title: plain, Success: plain, Warning: plain, Muted: plain, Item: plain}
	}
	return styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Item:    lipgloss.NewStyle().PaddingLeft(2),
	}
}
