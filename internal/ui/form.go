package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fieldKind selects how a form field takes input.
type fieldKind int

const (
	fieldText   fieldKind = iota
	fieldChoice           // cycles through choices with left/right or space
)

// field is one labelled row of a form.
type field struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	choices []string
	choice  int
}

// form is a vertical list of fields with one focused at a time.
type form struct {
	fields []field
	focus  int
}

func textField(label, value, placeholder string) field {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 2000
	in.Cursor.SetMode(cursor.CursorStatic)
	in.SetValue(value)
	return field{label: label, kind: fieldText, input: in}
}

func choiceField(label string, choices []string, current string) field {
	f := field{label: label, kind: fieldChoice, choices: choices}
	for i, c := range choices {
		if c == current {
			f.choice = i
		}
	}
	return f
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

// value returns the text of field i, trimmed. Choice fields return the
// selected choice.
func (f form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	fd := f.fields[i]
	if fd.kind == fieldChoice {
		if len(fd.choices) == 0 {
			return ""
		}
		return fd.choices[fd.choice]
	}
	return strings.TrimSpace(fd.input.Value())
}

func (f form) last() bool { return f.focus == len(f.fields)-1 }

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	i = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if f.fields[j].kind != fieldText {
			continue
		}
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

// Update routes a key to the focused field. Field navigation keys are
// handled by the caller.
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}
	fd := &f.fields[f.focus]
	if fd.kind == fieldChoice {
		if key, ok := msg.(tea.KeyMsg); ok && len(fd.choices) > 0 {
			switch key.String() {
			case "left":
				fd.choice = (fd.choice - 1 + len(fd.choices)) % len(fd.choices)
			case "right", " ":
				fd.choice = (fd.choice + 1) % len(fd.choices)
			}
		}
		return f, nil
	}
	var cmd tea.Cmd
	fd.input, cmd = fd.input.Update(msg)
	return f, cmd
}

// View renders the form with labels in a fixed column.
func (f form) View(styles Styles, width int) string {
	labelWidth := 0
	for _, fd := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(fd.label))
	}
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 2)
	inputWidth := max(10, width-labelWidth-4)

	var b strings.Builder
	for i, fd := range f.fields {
		label := styles.MutedText.Render(fd.label)
		marker := "  "
		if i == f.focus {
			label = styles.AccentText.Bold(true).Render(fd.label)
			marker = styles.AccentText.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(label))
		if fd.kind == fieldChoice {
			value := ""
			if len(fd.choices) > 0 {
				value = fd.choices[fd.choice]
			}
			if i == f.focus {
				value = "< " + value + " >"
			}
			b.WriteString(styles.Text.Render(value))
		} else {
			in := fd.input
			in.Width = inputWidth
			b.WriteString(in.View())
		}
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// yesNo renders a boolean as a choice value.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
