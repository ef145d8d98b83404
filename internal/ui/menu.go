package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleMenuKey drives the side menu while it is open.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Menu):
		m.menu.CloseIfOpen()
		m.resize()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = (m.menuCursor + len(viewOrder) - 1) % len(viewOrder)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Tab):
		m.menuCursor = (m.menuCursor + 1) % len(viewOrder)
	case key.Matches(msg, m.keys.Confirm):
		return m.switchView(viewOrder[m.menuCursor])
	default:
		for i, v := range viewOrder {
			if msg.String() == fmt.Sprint(i+1) {
				return m.switchView(v)
			}
		}
	}
	return m, nil
}

// renderMenu renders the side menu panel.
func (m Model) renderMenu() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	var b strings.Builder
	b.WriteString(styles.Logo.Render("Menu"))
	b.WriteString("\n\n")
	for i, v := range viewOrder {
		label := fmt.Sprintf(" %d  %s", i+1, v)
		switch {
		case i == m.menuCursor:
			b.WriteString(m.theme.Styles().Selected.Width(MenuWidth - 2).Render(label))
		case v == m.currentView:
			b.WriteString(styles.AccentText.Render(label))
		default:
			b.WriteString(styles.Text.Render(label))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(MenuWidth).
		Height(m.boxHeight() + 1).
		Padding(0, 1).
		Render(b.String())
}
