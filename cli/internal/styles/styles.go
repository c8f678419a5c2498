// ABOUTME: Shared lipgloss styles for homealign CLI output
// ABOUTME: Palette, status badges and the entity table style

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(14)

	Value = lipgloss.NewStyle().Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	tableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	tableCell = lipgloss.NewStyle().Padding(0, 1)
)

// Level is the severity a badge conveys
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
	LevelInfo
	LevelNeutral
)

// Badge renders text as a coloured inline badge
func Badge(text string, level Level) string {
	bg, fg := Muted, lipgloss.Color("#FFFFFF")
	switch level {
	case LevelOK:
		bg = Secondary
	case LevelWarning:
		bg, fg = Warning, lipgloss.Color("#000000")
	case LevelCritical:
		bg = Danger
	case LevelInfo:
		bg = Info
	}

	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// Check renders a pass/fail badge
func Check(ok bool) string {
	if ok {
		return Badge("OK", LevelOK)
	}
	return Badge("FAIL", LevelCritical)
}

// Field renders one "label  value" line
func Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label), value)
}

// Table renders rows under headers with a rounded border
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		})
	return t.String()
}
