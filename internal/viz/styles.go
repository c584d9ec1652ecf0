package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Canvas lipgloss.Style
	Panel  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Graph  lipgloss.Style
	Help   lipgloss.Style
	Status lipgloss.Style
	Alert  lipgloss.Style

	barHigh, barMid, barLow lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		Header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Status:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Alert:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		barHigh: lipgloss.NewStyle().Foreground(t.Success),
		barMid:  lipgloss.NewStyle().Foreground(t.Warning),
		barLow:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Bar renders frac of width as a filled gauge, coloured by how full it is.
func (s Styles) Bar(frac float64, width int) string {
	bar := ProgressBar(frac, width)
	switch {
	case frac > 0.6:
		return s.barHigh.Render(bar)
	case frac > 0.25:
		return s.barMid.Render(bar)
	}
	return s.barLow.Render(bar)
}

// ProgressBar is the uncoloured gauge behind Styles.Bar.
func ProgressBar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(frac * float64(width))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
