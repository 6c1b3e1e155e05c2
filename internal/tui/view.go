package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
)

func (m Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewPane())
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("  "+m.err.Error()) + "\n")
	}
	b.WriteString("  " + m.help.View(keys))
	return b.String()
}

func (m Model) viewSidebar() string {
	in := m.sess.Inputs()
	s := m.styles
	inner := sidebarWidth - 4

	var b strings.Builder
	b.WriteString(s.Title.Render("Penguin Sidebar") + "\n")
	b.WriteString(s.separator(inner) + "\n\n")

	row := func(field int, label, value string) {
		marker := "  "
		if m.focus == focusSidebar && m.cursor == field {
			marker = s.Cursor.Render("▸ ")
		}
		b.WriteString(marker + s.Label.Render(label) + "\n")
		b.WriteString("  " + value + "\n\n")
	}

	row(fieldAttribute, "Select attribute", s.Value.Render("‹ "+in.Attribute.Label()+" ›"))

	bins := s.Value.Render(fmt.Sprintf("%d", in.InteractiveBins))
	if in.InteractiveBins <= 0 {
		bins = s.Value.Render("auto")
	}
	if m.editing {
		bins = m.bins.View()
	}
	row(fieldInteractiveBins, "Interactive Histogram Bins", bins)

	static := min(max(in.StaticBins, 0), staticMax)
	row(fieldStaticBins, "Static Histogram Bins",
		s.slider(static, 0, staticMax, inner-6)+" "+s.Value.Render(fmt.Sprintf("%3d", static)))

	b.WriteString("  " + s.Label.Render("Filter Species") + "\n")
	counts := m.sess.Dataset().Counts()
	for i, sp := range penguin.AllSpecies {
		marker := "  "
		if m.focus == focusSidebar && m.cursor == fieldSpecies+i {
			marker = s.Cursor.Render("▸ ")
		}
		label := fmt.Sprintf("%-10s %s", sp, s.Muted.Render(fmt.Sprintf("%d", counts[sp])))
		b.WriteString(marker + s.checkbox(label, in.Species.Contains(sp)) + "\n")
	}
	b.WriteString("\n" + s.Muted.Render(fmt.Sprintf("  %d rows shown", m.sess.Filtered().Len())))

	panel := s.Panel
	if m.focus == focusSidebar {
		panel = s.FocusPanel
	}
	return panel.Width(sidebarWidth).Render(b.String())
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(m.panes))
	for i, p := range m.panes {
		if i == m.pane {
			tabs[i] = m.styles.ActiveTab.Render(p.Title)
		} else {
			tabs[i] = m.styles.Tab.Render(p.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewPane() string {
	p := m.panes[m.pane]
	content := m.output[p.Name]
	if p.Name == render.OutputDataGrid {
		content = m.styles.Title.Render(p.Title) + "\n" + m.grid.View()
		if len(m.grid.Rows()) == 0 {
			content += "\n" + m.styles.Muted.Render("No rows match the current selection.")
		}
	}

	panel := m.styles.Panel
	if m.focus == focusPane {
		panel = m.styles.FocusPanel
	}
	size := m.paneSize()
	return panel.Width(size.Width + 2).Render(m.viewTabs() + "\n\n" + content)
}
