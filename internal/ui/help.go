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
				{"tab", "Cycle views"},
				{"1-5", "Slideshow/Gallery/Posts/Contact/Logs"},
				{"m", "Toggle menu"},
				{"esc", "Close menu or photo"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
			},
		},
		{
			title: "Slideshow & Gallery",
			items: []helpItem{
				{"←/→", "Previous/next"},
				{"drag", "Swipe"},
				{"space", "Play/pause"},
				{"enter", "Open photo"},
			},
		},
		{
			title: "Posts",
			items: []helpItem{
				{"f", "Cycle category"},
				{"L", "Load more"},
				{"/", "Hashtag search"},
				{"enter", "Open post"},
			},
		},
		{
			title: "Contact",
			items: []helpItem{
				{"enter", "Edit / next field"},
				{"ctrl+n", "Next form"},
				{"ctrl+s", "Send"},
				{"p", "Copy PIX key"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
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

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Themes"))
	b.WriteString("\n")
	names := ThemeNames()
	for i, name := range names {
		if name == m.theme.Name {
			names[i] = styles.Text.Bold(true).Render("[" + name + "]")
		} else {
			names[i] = styles.FaintText.Render(name)
		}
	}
	b.WriteString(strings.Join(names, "  "))
	b.WriteString("\n")

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(52)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
