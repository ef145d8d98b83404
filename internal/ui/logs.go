package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vitrine/internal/logtail"
)

var levelCycle = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	follow      bool
	level       slog.Level
	err         string
	lastRefresh time.Time
}

func newLogState() logState {
	return logState{follow: true, level: slog.LevelDebug}
}

type logsMsg struct {
	lines []string
	err   error
}

// refreshLogs tails the application's own log file.
func (m Model) refreshLogs() tea.Cmd {
	path := m.config.LogPath()
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logState.lastRefresh = time.Now()
	if msg.err != nil {
		m.logState.err = msg.err.Error()
		return
	}
	m.logState.err = ""
	m.logState.entries = logtail.ParseLines(msg.lines)
	m.updateLogViewport()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		for i, lvl := range levelCycle {
			if lvl == m.logState.level {
				m.logState.level = levelCycle[(i+1)%len(levelCycle)]
				break
			}
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logState.follow = false
	}
	return m, cmd
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Width = maxInt(m.contentWidth()-2, 1)
	m.logViewport.Height = maxInt(m.boxHeight()-2, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogContent renders the colorized log lines.
func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	entries := logtail.Filter(m.logState.entries, m.logState.level)
	if len(entries) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, bg.FillLine(m.colorizeEntry(e, styles, bg), width))
	}
	return strings.Join(lines, "\n")
}

// colorizeEntry renders one log line: time, level, component, message and
// attributes each in their own style.
func (m Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if !e.Parsed() {
		return bg.Render(e.Raw, styles.Text)
	}

	var b strings.Builder
	if ts, err := time.Parse(time.RFC3339Nano, e.Time); err == nil {
		b.WriteString(bg.Render(ts.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(padRight(e.Level, 5), m.levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())

	msg := e.Msg
	if comp := e.Component(); comp != "" {
		b.WriteString(bg.Render("["+comp+"]", styles.AccentText))
		b.WriteString(bg.Space())
		msg = strings.TrimPrefix(msg, comp+": ")
	}
	b.WriteString(bg.Render(msg, styles.Text))

	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.FaintText))
		b.WriteString(bg.Render(a.Value, styles.MutedText))
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	box := m.renderBox("Application log", m.logViewport.View(), m.contentWidth(), m.boxHeight(), true)

	if m.logState.err != "" {
		return box + "\n" + m.renderStatusLine("Error: "+m.logState.err, styles.DangerText)
	}

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	shown := len(logtail.Filter(m.logState.entries, m.logState.level))
	refreshed := "never"
	if !m.logState.lastRefresh.IsZero() {
		refreshed = humanizeDuration(time.Since(m.logState.lastRefresh))
	}
	status := fmt.Sprintf("%d/%d lines · level ≥ %s · auto-tail %s · read %s · %s",
		shown, len(m.logState.entries), m.logState.level, autoTail, refreshed, truncateMiddle(m.config.LogPath(), 40))
	return box + "\n" + m.renderStatusLine(status, styles.FaintText)
}
