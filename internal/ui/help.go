package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"home/end", "Go to top/bottom"},
				{"[ ]", "Previous/next brand"},
				{"enter", "Open or continue"},
				{"esc", "Back"},
			},
		},
		{
			title: "Forms",
			items: []helpItem{
				{"tab", "Next field"},
				{"shift+tab", "Previous field"},
				{"left/right", "Change choice"},
				{"ctrl+s", "Save theme"},
				{"ctrl+g", "Save and generate"},
				{"ctrl+r", "New image options"},
			},
		},
		{
			title: "Dashboard",
			items: []helpItem{
				{"g", "Generate theme ideas"},
				{"n", "New theme"},
				{"p", "Generate posts"},
				{"e/x", "Edit/delete"},
				{"s", "Themes or saved posts"},
				{"B/X", "New/delete brand"},
			},
		},
		{
			title: "Posts",
			items: []helpItem{
				{"space", "Toggle selection"},
				{"a/A", "Select all/none"},
				{"s", "Schedule selected"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"L", "Log out"},
				{"?/f1", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(m.theme, m.width, m.height, 44, b.String())
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
