package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to draw rows.
type Styles struct {
	Title    lipgloss.Style
	Row      lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Empty    lipgloss.Style
	Loading  lipgloss.Style
	Failure  lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	muted := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}
	return Styles{
		Title: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1),
		Row:    lipgloss.NewStyle().PaddingLeft(2),
		Cursor: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).SetString("> "),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#dde4f0")).
			Foreground(lipgloss.Color("#1a1a1a")),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Footer:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		Empty:   lipgloss.NewStyle().Foreground(muted),
		Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Status:  lipgloss.NewStyle().Foreground(muted),
	}
}
