package ui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) handleSlideshowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.slideshow == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		m.slideshow.Previous()
	case key.Matches(msg, m.keys.Right):
		m.slideshow.Next()
	case key.Matches(msg, m.keys.TogglePlay):
		m.autoplay = m.slideshow.TogglePlay()
		if m.autoplay && !m.slideshow.Running() {
			m.slideshow.Start(m.ctx)
		}
		m.savePrefs()
	case key.Matches(msg, m.keys.Confirm):
		if m.gallery != nil {
			idx := m.slideshow.Index()
			m.currentView = ViewGallery
			m.galleryCursor = idx
			m.gallery.Open(idx)
		}
	}
	return m, nil
}

// renderSlideshow draws the current slide as a framed caption with one
// indicator dot per slide.
func (m Model) renderSlideshow() string {
	width := m.contentWidth()
	height := m.boxHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	if m.slideshow == nil {
		content := styles.MutedText.Render("No images found.") + "\n\n" +
			styles.FaintText.Render("Run `vitrine manifest <dir>` to build images.json.")
		return m.renderBox("Slideshow", content, width, height, true) + "\n" +
			m.renderStatusLine("", styles.FaintText)
	}

	inner := maxInt(width-2, 1)
	idx := m.slideshow.Index()
	src := m.slideshow.Current()
	name := path.Base(src)

	frameWidth := minInt(inner-4, 60)
	frame := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		BorderBackground(lipgloss.Color(m.theme.SurfaceAlt)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Width(maxInt(frameWidth, 8)).
		Height(maxInt(height/3, 3)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.Text.Bold(true).Render(truncateMiddle(name, maxInt(frameWidth-2, 4))))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center, frame,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.SurfaceAlt))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center,
		styles.MutedText.Render(truncateMiddle(src, inner-2)),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.SurfaceAlt))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center,
		m.renderIndicators(idx, m.slideshow.Len(), inner-2),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.SurfaceAlt))))

	status := fmt.Sprintf("Slide %d of %d  ·  paused", idx+1, m.slideshow.Len())
	if m.slideshow.Playing() && m.slideshow.Running() {
		status = fmt.Sprintf("Slide %d of %d  ·  advancing every %s", idx+1, m.slideshow.Len(), m.slideshow.Interval())
	}

	return m.renderBox("Slideshow", b.String(), width, height, true) + "\n" +
		m.renderStatusLine(status, m.theme.Styles().MutedText)
}

// renderIndicators renders one dot per slide with the active one filled.
// Long collections collapse to a counter.
func (m Model) renderIndicators(active, count, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	if count*2 > width {
		return styles.AccentText.Render(fmt.Sprintf("%d / %d", active+1, count))
	}
	dots := make([]string, count)
	for i := range dots {
		if i == active {
			dots[i] = styles.AccentText.Render("●")
		} else {
			dots[i] = styles.FaintText.Render("○")
		}
	}
	return strings.Join(dots, styles.Text.Render(" "))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
