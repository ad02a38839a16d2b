package tui

import "github.com/charmbracelet/lipgloss"

var styles = newPalette()

// palette is the window-styled look: navy title bars on grey windows.
type palette struct {
	window   lipgloss.Style
	titleBar lipgloss.Style
	body     lipgloss.Style
	counter  lipgloss.Style
	over     lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	muted    lipgloss.Style
}

func newPalette() palette {
	return palette{
		window: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#DFDFDF")),
		titleBar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#000080")).
			Padding(0, 1),
		body:    lipgloss.NewStyle().Padding(1, 1),
		counter: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		over:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("#008000")).Bold(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Italic(true),
	}
}
