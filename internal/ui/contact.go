package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vitrine/internal/forms"
)

// contactState holds the form being edited and its last submission outcome.
type contactState struct {
	form    forms.Form
	inputs  []textinput.Model
	focused int // -1 while not editing
	status  forms.Status
	message string
	errors  map[string]string
	seq     int
}

func newContactState(form forms.Form) contactState {
	inputs := make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Label
		ti.CharLimit = 200
		if f.Name == "message" || f.Name == "suggestion" {
			ti.CharLimit = 1000
		}
		inputs[i] = ti
	}
	return contactState{form: form, inputs: inputs, focused: -1, errors: map[string]string{}}
}

func (c *contactState) setWidth(w int) {
	w = maxInt(w, 10)
	for i := range c.inputs {
		c.inputs[i].Width = w
	}
}

func (c *contactState) values() forms.Values {
	values := make(forms.Values, len(c.inputs))
	for i, f := range c.form.Fields {
		values[f.Name] = c.inputs[i].Value()
	}
	return values
}

func (c *contactState) focus(i int) tea.Cmd {
	for j := range c.inputs {
		c.inputs[j].Blur()
	}
	if i < 0 || i >= len(c.inputs) {
		c.focused = -1
		return nil
	}
	c.focused = i
	return c.inputs[i].Focus()
}

func (c *contactState) reset() {
	for i := range c.inputs {
		c.inputs[i].Reset()
	}
	c.focus(-1)
}

type formResultMsg struct {
	seq    int
	result forms.Result
}

type clearStatusMsg struct {
	seq int
}

func submitCmd(ctx context.Context, s forms.Submitter, form forms.Form, values forms.Values, seq int) tea.Cmd {
	return func() tea.Msg {
		return formResultMsg{seq: seq, result: forms.Submit(ctx, s, form, values)}
	}
}

func (m Model) handleContactKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Down):
		return m, m.contact.focus(0)
	case key.Matches(msg, m.keys.CycleForm):
		m.cycleForm()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitContact()
	case key.Matches(msg, m.keys.CopyPix):
		m.pix.seq++
		return m, copyPixCmd(m.copyText, forms.PixKey, m.pix.seq)
	}
	return m, nil
}

func (m Model) handleContactInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.contact.inputs) - 1
	switch msg.String() {
	case "esc":
		m.contact.focus(-1)
		return m, nil
	case "tab", "down":
		return m, m.contact.focus((m.contact.focused + 1) % len(m.contact.inputs))
	case "shift+tab", "up":
		return m, m.contact.focus((m.contact.focused + last) % len(m.contact.inputs))
	case "enter":
		if m.contact.focused == last {
			return m.submitContact()
		}
		return m, m.contact.focus(m.contact.focused + 1)
	}
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitContact()
	case key.Matches(msg, m.keys.CycleForm):
		m.cycleForm()
		return m, nil
	}

	i := m.contact.focused
	var cmd tea.Cmd
	m.contact.inputs[i], cmd = m.contact.inputs[i].Update(msg)
	delete(m.contact.errors, m.contact.form.Fields[i].Name)
	return m, cmd
}

func (m *Model) cycleForm() {
	catalog := forms.Catalog()
	next := catalog[0]
	for i, f := range catalog {
		if f.ID == m.contact.form.ID {
			next = catalog[(i+1)%len(catalog)]
			break
		}
	}
	seq := m.contact.seq
	m.contact = newContactState(next)
	m.contact.seq = seq + 1
	m.contact.setWidth(m.contentWidth() - 20)
}

// submitContact validates locally so field errors show at once, then sends
// in the background.
func (m Model) submitContact() (tea.Model, tea.Cmd) {
	if m.contact.status == forms.StatusSending {
		return m, nil
	}
	values := m.contact.values()
	m.contact.seq++
	m.contact.errors = map[string]string{}

	if errs := m.contact.form.Validate(values); len(errs) > 0 {
		for _, e := range errs {
			m.contact.errors[e.Field] = e.Message
		}
		m.contact.status = forms.StatusInvalid
		m.contact.message = "Please fix the highlighted fields."
		for i, f := range m.contact.form.Fields {
			if f.Name == errs[0].Field {
				return m, m.contact.focus(i)
			}
		}
		return m, nil
	}

	m.contact.focus(-1)
	m.contact.status = forms.StatusSending
	m.contact.message = m.contact.form.Sending
	return m, submitCmd(m.ctx, m.submitter, m.contact.form, values, m.contact.seq)
}

func (m Model) handleFormResult(msg formResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.contact.seq {
		return m, nil
	}
	r := msg.result
	m.contact.status = r.Status
	m.contact.message = r.Message
	for _, e := range r.Errors {
		m.contact.errors[e.Field] = e.Message
	}

	switch r.Status {
	case forms.StatusSuccess:
		m.logger.Info("forms: submitted", "form", m.contact.form.ID)
		m.contact.reset()
	case forms.StatusError:
		m.logger.Warn("forms: submission failed", "form", m.contact.form.ID, "error", r.Err)
	}

	seq := msg.seq
	return m, tea.Tick(forms.StatusDisplay, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m Model) renderContact() string {
	width := m.contentWidth()
	height := m.boxHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var b strings.Builder

	tabs := make([]string, 0, 3)
	for _, f := range forms.Catalog() {
		if f.ID == m.contact.form.ID {
			tabs = append(tabs, bg.Render("["+f.Title+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(f.Title, styles.MutedText))
		}
	}
	b.WriteString(bg.Join(tabs, "  "))
	b.WriteString("\n\n")

	for i, f := range m.contact.form.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		labelStyle := styles.Text
		if i == m.contact.focused {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Render(padRight(label, 16)))
		b.WriteString(m.contact.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := m.contact.errors[f.Name]; ok {
			b.WriteString(styles.DangerText.Render(padRight("", 16) + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Text.Render(padRight("Donate (PIX)", 16)))
	b.WriteString(styles.AccentText.Render(forms.PixKey))
	switch {
	case m.pix.copied:
		b.WriteString(styles.SuccessText.Bold(true).Render("  ✓ Copied!"))
	case m.pix.err != "":
		b.WriteString(styles.DangerText.Render("  copy failed"))
	default:
		b.WriteString(styles.FaintText.Render("  p: copy"))
	}
	b.WriteString("\n")

	focused := m.contact.focused >= 0
	box := m.renderBox(m.contact.form.Title, b.String(), width, height, focused)

	base := m.theme.Styles()
	style := base.MutedText
	status := m.contact.message
	switch m.contact.status {
	case forms.StatusSending:
		style = base.InfoText
	case forms.StatusSuccess:
		style = base.SuccessText
	case forms.StatusError:
		style = base.DangerText
	case forms.StatusInvalid:
		style = base.WarningText
	default:
		if focused {
			status = "enter: next field · esc: stop editing · ctrl+s: send"
		} else {
			status = "enter to start editing"
		}
	}
	return box + "\n" + m.renderStatusLine(status, style)
}
