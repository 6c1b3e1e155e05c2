package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Panel       lipgloss.Style
	FocusPanel  lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Cursor      lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	SliderFull  lipgloss.Style
	SliderEmpty lipgloss.Style
}

func newStyles(t Theme) styles {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return styles{
		Panel:       panel,
		FocusPanel:  panel.BorderForeground(t.Primary),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:       lipgloss.NewStyle().Foreground(t.Muted),
		Value:       lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Cursor:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Muted:       lipgloss.NewStyle().Foreground(t.Muted),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Tab:         lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(t.Text).Background(t.Border).Padding(0, 1),
		SliderFull:  lipgloss.NewStyle().Foreground(t.Accent),
		SliderEmpty: lipgloss.NewStyle().Foreground(t.Border),
	}
}

func (s styles) table(t Theme) table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(t.Primary)
	ts.Selected = ts.Selected.
		Foreground(t.Text).
		Background(t.Border).
		Bold(false)
	return ts
}

// slider draws value within [lo, hi] as a track with a knob.
func (s styles) slider(value, lo, hi, width int) string {
	if width < 3 {
		width = 3
	}
	frac := 0.0
	if hi > lo {
		frac = float64(value-lo) / float64(hi-lo)
	}
	pos := int(frac * float64(width-1))
	pos = min(max(pos, 0), width-1)
	return s.SliderFull.Render(strings.Repeat("━", pos)+"●") +
		s.SliderEmpty.Render(strings.Repeat("─", width-pos-1))
}

// checkbox renders a species toggle.
func (s styles) checkbox(label string, on bool) string {
	if on {
		return s.Value.Render("[x] " + label)
	}
	return s.Muted.Render("[ ] " + label)
}

func (s styles) separator(width int) string {
	if width < 8 {
		return s.Muted.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Muted.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}
