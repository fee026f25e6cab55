package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qrcraft/qrcraft/internal/preview"
)

// field identifies a form control.
type field int

const (
	fieldPayload field = iota
	fieldSize
	fieldForeground
	fieldBackground
	fieldCount
)

func (f field) label() string {
	switch f {
	case fieldPayload:
		return "Text or URL"
	case fieldSize:
		return "Size"
	case fieldForeground:
		return "Foreground"
	case fieldBackground:
		return "Background"
	}
	return ""
}

const sliderWidth = 24

// formModel holds the editable inputs. The size control has no text input;
// it is driven by the slider keys.
type formModel struct {
	payload    textinput.Model
	foreground textinput.Model
	background textinput.Model
	focus      field
	width      int
}

func newFormModel(in preview.Input) formModel {
	payload := textinput.New()
	payload.Placeholder = "Enter text or URL"
	payload.CharLimit = 2953
	payload.SetValue(in.Payload)
	payload.Focus()

	fg := textinput.New()
	fg.Placeholder = "#000000"
	fg.CharLimit = 9
	fg.SetValue(in.Foreground)

	bg := textinput.New()
	bg.Placeholder = "#ffffff"
	bg.CharLimit = 9
	bg.SetValue(in.Background)

	return formModel{
		payload:    payload,
		foreground: fg,
		background: bg,
		focus:      fieldPayload,
	}
}

// setFocus moves focus to f and returns the cursor blink command.
func (m *formModel) setFocus(f field) tea.Cmd {
	m.focus = (f + fieldCount) % fieldCount
	m.payload.Blur()
	m.foreground.Blur()
	m.background.Blur()
	if in := m.input(m.focus); in != nil {
		return in.Focus()
	}
	return nil
}

func (m *formModel) input(f field) *textinput.Model {
	switch f {
	case fieldPayload:
		return &m.payload
	case fieldForeground:
		return &m.foreground
	case fieldBackground:
		return &m.background
	}
	return nil
}

// update forwards msg to the focused text input.
func (m formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	in := m.input(m.focus)
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m *formModel) setWidth(w int) {
	m.width = w
	inputW := w - 6
	if inputW < 10 {
		inputW = 10
	}
	m.payload.Width = inputW
	m.foreground.Width = inputW
	m.background.Width = inputW
}

func (m formModel) View(in preview.Input, limits preview.Limits, copied bool) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("QR Code Generator"))
	b.WriteString("\n\n")

	for f := fieldPayload; f < fieldCount; f++ {
		style := labelStyle
		cursor := "  "
		if f == m.focus {
			style = focusedLabelStyle
			cursor = focusedLabelStyle.Render("> ")
		}
		label := style.Render(f.label())
		if f == fieldSize {
			label += labelStyle.Render(fmt.Sprintf(": %dpx", in.Size))
		}
		if f == fieldPayload && copied {
			label += "  " + copiedStyle.Render("✓ copied")
		}
		b.WriteString(cursor + label + "\n")

		switch f {
		case fieldSize:
			b.WriteString("  " + slider(in.Size, limits) + "\n")
		default:
			b.WriteString("  " + m.input(f).View() + "\n")
		}
		b.WriteString("\n")
	}
	return panelStyle.Width(m.width).Render(strings.TrimRight(b.String(), "\n"))
}

// slider draws size as a bar between the limits.
func slider(size int, limits preview.Limits) string {
	span := limits.Max - limits.Min
	filled := sliderWidth
	if span > 0 {
		filled = (size - limits.Min) * sliderWidth / span
	}
	if filled < 0 {
		filled = 0
	}
	if filled > sliderWidth {
		filled = sliderWidth
	}
	return fmt.Sprintf("%d %s%s %d",
		limits.Min,
		sliderFilled.Render(strings.Repeat("━", filled)),
		sliderEmpty.Render(strings.Repeat("─", sliderWidth-filled)),
		limits.Max,
	)
}
