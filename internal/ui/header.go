package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("vitrine", styles.Logo)}

	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if compact {
			label = fmt.Sprintf("%d", i+1)
		}
		if v == m.currentView {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, bg.Join(tabs, " "))

	if m.slideshow != nil {
		indicator := bg.Render("● PLAY", styles.SuccessText)
		if !m.slideshow.Playing() || !m.slideshow.Running() {
			indicator = bg.Render("❚❚ PAUSED", styles.WarningText)
		}
		parts = append(parts,
			bg.Render("Slide:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", m.slideshow.Index()+1, m.slideshow.Len()), styles.Text)+
				bg.Space()+indicator,
		)
	} else {
		parts = append(parts, bg.Render("No images", styles.DangerText))
	}

	if m.lastEvent != nil && !compact {
		parts = append(parts,
			bg.Render("Last:", styles.FaintText)+bg.Space()+
				bg.Render(fmt.Sprintf("%s=%v", m.lastEvent.Key, m.lastEvent.New), styles.InfoText),
		)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.gallery != nil && m.gallery.IsOpen():
		commands = []cmd{
			{"←/→", "Photo"},
			{"drag", "Swipe"},
			{"esc", "Close"},
		}
	case m.currentView == ViewPosts && m.postsState.detailID != "":
		commands = []cmd{
			{"←/→", "Post"},
			{"esc", "Close"},
		}
	case m.menu.IsOpen():
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Go"},
			{"esc", "Close"},
		}
	case m.currentView == ViewSlideshow:
		playLabel := "Pause"
		if m.slideshow == nil || !m.slideshow.Playing() {
			playLabel = "Play"
		}
		commands = []cmd{
			{"←/→", "Slide"},
			{"Space", playLabel},
			{"enter", "Open"},
			{"m", "Menu"},
			{"?", "More"},
		}
	case m.currentView == ViewGallery:
		commands = []cmd{
			{"hjkl", "Move"},
			{"enter", "Open"},
			{"m", "Menu"},
			{"?", "More"},
		}
	case m.currentView == ViewPosts:
		commands = []cmd{
			{"f", titleCase(string(m.postsState.category))},
			{"L", "Load more"},
			{"/", "Hashtag"},
			{"j/k", "Select"},
			{"enter", "Open"},
			{"?", "More"},
		}
	case m.currentView == ViewContact:
		commands = []cmd{
			{"enter", "Edit"},
			{"ctrl+n", m.contact.form.Title},
			{"ctrl+s", "Send"},
			{"p", "Copy PIX"},
			{"?", "More"},
		}
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"f", strings.ToUpper(m.logState.level.String())},
			{"j/k", "Scroll"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, sep))
}

// renderBox draws a rounded border with the title set into the top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	borderColor := m.theme.Border
	bgColor := m.theme.SurfaceAlt
	if focused {
		borderColor = m.theme.BorderFocus
		bgColor = m.theme.FocusBg
	}

	edge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(bgColor))
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Background(lipgloss.Color(bgColor)).
		Bold(true)

	title = truncate(title, width-6)
	fill := width - 5 - lipgloss.Width(title)
	if fill < 0 {
		fill = 0
	}
	top := edge.Render("╭─ ") + titleStyle.Render(title) + edge.Render(" "+strings.Repeat("─", fill)+"╮")

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(bgColor)).
		Background(lipgloss.Color(bgColor)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(width - 2).
		Height(height - 2).
		Render(clipLines(content, height-2))

	return top + "\n" + body
}

// renderStatusLine renders the single line under a view's box.
func (m Model) renderStatusLine(text string, style lipgloss.Style) string {
	return style.Width(m.contentWidth()).Render(truncate(text, m.contentWidth()))
}

// clipLines keeps at most n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
