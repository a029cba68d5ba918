package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p.Theme != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
	}
	if p.LastUsername != "" {
		t.Fatalf("LastUsername = %q, want empty", p.LastUsername)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "brandloom")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := "theme = \"Slate\"\nlast_username = \" ada \"\n"
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Slate" || p.LastUsername != "ada" {
		t.Fatalf("prefs = %+v, want Slate/ada", p)
	}
}

func TestLoad_BadFilesFallBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty theme", "theme = \"\"\n"},
		{"invalid toml", "not valid toml {{{\n"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "prefs.toml")
		if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if got := Load(path).Theme; got != DefaultTheme {
			t.Fatalf("%s: Theme = %q, want %q", tt.name, got, DefaultTheme)
		}
	}
}

func TestUpdate_KeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Kanagawa", LastUsername: "ada"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := Update(path, func(p *Prefs) { p.Theme = "Slate" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got := Load(path)
	if got.Theme != "Slate" || got.LastUsername != "ada" {
		t.Fatalf("prefs = %+v, want Slate/ada", got)
	}
}
