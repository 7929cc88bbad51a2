// Package render formats interpreted analysis results for the terminal.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
)

// Theme holds the color scheme for reports and the interactive UI.
type Theme struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Caution lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme provides default colors.
var DefaultTheme = Theme{
	Accent:  lipgloss.Color("#7D56F4"), // purple
	Success: lipgloss.Color("#00D787"), // green
	Warning: lipgloss.Color("#FF8700"), // orange
	Caution: lipgloss.Color("#FFD700"), // yellow
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Border:  lipgloss.Color("#3A3A3A"), // dark gray
}

// PlainTheme renders without colors, for pipes and golden output.
var PlainTheme = Theme{}

func (t Theme) style(c lipgloss.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != "" {
		s = s.Foreground(c)
	}
	return s
}

// Title styles headings.
func (t Theme) Title() lipgloss.Style {
	return t.style(t.Accent).Bold(true)
}

// Good styles success lines and clear cells.
func (t Theme) Good() lipgloss.Style {
	return t.style(t.Success)
}

// Bad styles alerts and flagged cells.
func (t Theme) Bad() lipgloss.Style {
	return t.style(t.Error).Bold(true)
}

// Muted styles hints and the matrix diagonal.
func (t Theme) Muted() lipgloss.Style {
	return t.style(t.Hint)
}

// Focused styles the element that receives keyboard input.
func (t Theme) Focused() lipgloss.Style {
	return t.style(t.Accent).Bold(true)
}

// Box frames a panel.
func (t Theme) Box() lipgloss.Style {
	s := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if t.Border != "" {
		s = s.BorderForeground(t.Border)
	}
	return s
}

// Risk styles a risk band label.
func (t Theme) Risk(r interpret.Risk) lipgloss.Style {
	switch r {
	case interpret.RiskHigh:
		return t.style(t.Error).Bold(true)
	case interpret.RiskMedium:
		return t.style(t.Warning)
	case interpret.RiskLow:
		return t.style(t.Caution)
	default:
		return t.style(t.Success)
	}
}

// Cell styles a matrix cell by its class.
func (t Theme) Cell(c interpret.CellClass) lipgloss.Style {
	switch c {
	case interpret.CellFlagged:
		return t.Bad()
	case interpret.CellClear:
		return t.Good()
	default:
		return t.Muted()
	}
}
