package tui

import "github.com/charmbracelet/lipgloss"

// Palette holds the lipgloss styles used across views.
type Palette struct {
	TitleBar    lipgloss.Style
	StatusBar   lipgloss.Style
	Badge       lipgloss.Style
	Selected    lipgloss.Style
	Dim         lipgloss.Style
	Unread      lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	SectionHead lipgloss.Style
}

func newPalette(theme string) Palette {
	accent := lipgloss.Color("33")
	if theme == "light" {
		accent = lipgloss.Color("25")
	}

	return Palette{
		TitleBar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(accent).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(accent),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Unread:      lipgloss.NewStyle().Bold(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		SectionHead: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}
