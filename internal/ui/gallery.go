package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// galleryColumns is how many cells fit on one grid row.
func (m Model) galleryColumns() int {
	return maxInt((m.contentWidth()-2)/GalleryCellWidth, 1)
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gallery == nil {
		return m, nil
	}
	count := m.gallery.Len()
	cols := m.galleryColumns()
	cursor := m.galleryCursor

	switch {
	case key.Matches(msg, m.keys.Left):
		cursor--
	case key.Matches(msg, m.keys.Right):
		cursor++
	case key.Matches(msg, m.keys.Up):
		cursor -= cols
	case key.Matches(msg, m.keys.Down):
		cursor += cols
	case key.Matches(msg, m.keys.Top):
		cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		cursor = count - 1
	case key.Matches(msg, m.keys.Confirm):
		m.gallery.Open(m.galleryCursor)
		return m, nil
	default:
		return m, nil
	}

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= count {
		cursor = count - 1
	}
	m.galleryCursor = cursor
	return m, nil
}

// handleModalKey routes keys to the open photo viewer. Vim-style h/l map to
// the arrow keys the viewer understands.
func (m *Model) handleModalKey(msg tea.KeyMsg) {
	name := msg.String()
	switch {
	case key.Matches(msg, m.keys.Left):
		name = "left"
	case key.Matches(msg, m.keys.Right):
		name = "right"
	case key.Matches(msg, m.keys.Quit):
		name = "esc"
	}
	m.gallery.HandleKey(name)
	if !m.gallery.IsOpen() {
		m.galleryCursor = m.gallery.Index()
	}
}

// renderGallery draws the photo grid with the cursor cell highlighted.
func (m Model) renderGallery() string {
	width := m.contentWidth()
	height := m.boxHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	if m.gallery == nil {
		return m.renderBox("Gallery", styles.MutedText.Render("No photos."), width, height, true) + "\n" +
			m.renderStatusLine("", styles.FaintText)
	}

	photos := m.gallery.Photos()
	cols := m.galleryColumns()
	cellStyle := lipgloss.NewStyle().
		Width(GalleryCellWidth-2).
		Padding(0, 1).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Foreground(lipgloss.Color(m.theme.Text))
	selected := cellStyle.
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Bold(true)

	// Each cell is two lines: title and alt text.
	visibleRows := maxInt((height-2)/3, 1)
	cursorRow := m.galleryCursor / cols
	firstRow := 0
	if cursorRow >= visibleRows {
		firstRow = cursorRow - visibleRows + 1
	}

	var rows []string
	for r := firstRow; r < firstRow+visibleRows; r++ {
		start := r * cols
		if start >= len(photos) {
			break
		}
		end := minInt(start+cols, len(photos))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			style := cellStyle
			if i == m.galleryCursor {
				style = selected
			}
			text := truncateMiddle(photos[i].Title(), GalleryCellWidth-4) + "\n" +
				truncate(photos[i].Alt, GalleryCellWidth-4)
			cells = append(cells, style.Render(text))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	status := fmt.Sprintf("%d photos  ·  %s", len(photos), photos[m.galleryCursor].Src)
	return m.renderBox("Gallery", strings.Join(rows, "\n\n"), width, height, true) + "\n" +
		m.renderStatusLine(status, m.theme.Styles().MutedText)
}

// renderPhotoModal draws the full-screen viewer for the open photo.
func (m Model) renderPhotoModal() string {
	width := m.contentWidth()
	height := m.boxHeight()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)

	photo := m.gallery.Current()
	inner := maxInt(width-2, 1)
	content := strings.Join([]string{
		styles.Text.Bold(true).Render(truncateMiddle(photo.Title(), inner-4)),
		"",
		styles.MutedText.Render(truncate(photo.Alt, inner-4)),
		styles.FaintText.Render(truncateMiddle(photo.Src, inner-4)),
		"",
		styles.AccentText.Render(fmt.Sprintf("‹  %d / %d  ›", m.gallery.Index()+1, m.gallery.Len())),
	}, "\n")

	placed := lipgloss.Place(inner, maxInt(height-2, 1), lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)))

	return m.renderBox("Photo", placed, width, height, true) + "\n" +
		m.renderStatusLine("esc to close  ·  drag or ←/→ to browse", m.theme.Styles().FaintText)
}
