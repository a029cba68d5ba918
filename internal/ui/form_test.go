package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/brandloom/internal/flow"
)

func TestForm_FocusWraps(t *testing.T) {
	f := newForm(textField("A", "", ""), textField("B", "", ""), textField("C", "", ""))
	tests := []struct {
		name string
		move func(*form)
		want int
	}{
		{"next", (*form).next, 1},
		{"next", (*form).next, 2},
		{"wraps forward", (*form).next, 0},
		{"wraps back", (*form).prev, 2},
	}
	for _, tt := range tests {
		tt.move(&f)
		if f.focus != tt.want {
			t.Fatalf("%s: focus = %d, want %d", tt.name, f.focus, tt.want)
		}
	}
	if !f.last() {
		t.Fatal("last() = false on final field")
	}
}

func TestForm_TextInputGoesToFocusedField(t *testing.T) {
	f := newForm(textField("A", "", ""), textField("B", "keep", ""))
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("  hello ")})
	if got := f.value(0); got != "hello" {
		t.Fatalf("value(0) = %q, want hello", got)
	}
	if got := f.value(1); got != "keep" {
		t.Fatalf("value(1) = %q, want keep", got)
	}
}

func TestForm_ChoiceCycles(t *testing.T) {
	f := newForm(choiceField("Size", []string{"short", "medium", "long"}, "medium"))
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, "long"},
		{tea.KeyMsg{Type: tea.KeyRight}, "short"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "long"},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "short"},
	}
	for _, tt := range tests {
		f, _ = f.Update(tt.key)
		if got := f.value(0); got != tt.want {
			t.Fatalf("after %s value = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestForm_ValueOutOfRange(t *testing.T) {
	f := newForm()
	if got := f.value(3); got != "" {
		t.Fatalf("value(3) = %q, want empty", got)
	}
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if len(f.fields) != 0 {
		t.Fatal("empty form grew fields")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"hello", 0, ""},
		{"héllo wörld", 7, "héll..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestThemeForm_TabsThroughEveryField(t *testing.T) {
	f := themeForm(flow.NewThemeDraft("b1"))
	for i := 1; i <= len(f.fields); i++ {
		f.next()
		if want := i % len(f.fields); f.focus != want {
			t.Fatalf("after %d tabs focus = %d, want %d", i, f.focus, want)
		}
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if got := f.value(6); got != "long" {
		t.Fatalf("caption length = %q, want long", got)
	}
	if got := f.value(7); got != "yes" {
		t.Fatalf("emojis = %q, want yes", got)
	}
	if got := f.value(8); got != "no" {
		t.Fatalf("hashtags = %q, want no", got)
	}
}
