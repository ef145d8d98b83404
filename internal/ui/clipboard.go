package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
)

// copyToClipboard writes text to the system clipboard. When no clipboard
// utility is available (ssh sessions, containers) it asks the terminal to
// copy with an OSC 52 sequence instead.
func copyToClipboard(text string) error {
	return copyWith(text, clipboard.WriteAll, os.Stderr)
}

func copyWith(text string, write func(string) error, terminal io.Writer) error {
	err := write(text)
	if err == nil {
		return nil
	}
	if _, oscErr := osc52.New(text).WriteTo(terminal); oscErr != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// pixState tracks the "copied" confirmation for the PIX key.
type pixState struct {
	copied bool
	err    string
	seq    int
}

type pixCopiedMsg struct {
	seq int
	err error
}

type pixClearMsg struct {
	seq int
}

func copyPixCmd(copyText func(string) error, key string, seq int) tea.Cmd {
	return func() tea.Msg {
		return pixCopiedMsg{seq: seq, err: copyText(key)}
	}
}

func (m Model) handlePixCopied(msg pixCopiedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pix.seq {
		return m, nil
	}
	if msg.err != nil {
		m.pix.copied = false
		m.pix.err = msg.err.Error()
		m.logger.Warn("contact: copy pix key failed", "error", msg.err)
	} else {
		m.pix.copied = true
		m.pix.err = ""
		m.logger.Debug("contact: pix key copied")
	}
	seq := msg.seq
	return m, tea.Tick(CopyFeedbackDuration, func(time.Time) tea.Msg {
		return pixClearMsg{seq: seq}
	})
}
