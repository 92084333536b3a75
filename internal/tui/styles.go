package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/candymatch/internal/match3"
)

const (
	candyGlyph = "●"
	emptyGlyph = "·"
	flashGlyph = "✦"
)

// kindColors gives each candy kind its own ANSI colour; kinds wrap past 16.
var kindColors = []lipgloss.Color{
	"9", "11", "10", "12", "13", "14", "208", "15",
	"1", "3", "2", "4", "5", "6", "172", "245",
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	scoreStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Underline(true)
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	overStyle     = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2).BorderForeground(lipgloss.Color("13"))
	helpStyle     = lipgloss.NewStyle().MarginTop(1)
)

func candyStyle(s match3.Symbol) lipgloss.Style {
	if s == match3.Empty {
		return statusStyle
	}
	return lipgloss.NewStyle().Foreground(kindColors[(int(s)-1)%len(kindColors)])
}
