package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/prefs"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuild_WiresConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BRANDLOOM_API_URL", "")
	t.Setenv("BRANDLOOM_REQUEST_TIMEOUT", "")

	logPath := filepath.Join(dir, "logs", "brandloom.log")
	cfgPath := writeConfig(t, dir, `
api_url = "http://127.0.0.1:9"
session_path = "`+filepath.Join(dir, "session.toml")+`"
log_path = "`+logPath+`"
request_timeout = "5s"
`)
	prefsPath := filepath.Join(dir, "prefs.toml")
	if err := prefs.Save(prefsPath, prefs.Prefs{Theme: "Slate", LastUsername: "ada"}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	rt, err := build(Options{ConfigPath: cfgPath, PrefsPath: prefsPath, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	defer rt.close()

	if rt.cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", rt.cfg.RequestTimeout)
	}
	if rt.prefs.Theme != "Slate" || rt.prefs.LastUsername != "ada" {
		t.Fatalf("prefs = %+v, want Slate/ada", rt.prefs)
	}
	if got := rt.ctrl.Screen(); got != flow.ScreenLogin {
		t.Fatalf("screen = %s, want login", got)
	}

	rt.logger.Info("probe")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"probe"`) {
		t.Fatalf("log = %q, want JSON record", data)
	}
}

func TestBuild_APIURLOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BRANDLOOM_API_URL", "http://from-env:1")
	cfgPath := writeConfig(t, dir, `log_path = "`+filepath.Join(dir, "b.log")+`"`)

	rt, err := build(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml"), APIURL: "http://flag:2"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	defer rt.close()
	if rt.cfg.APIURL != "http://flag:2" {
		t.Fatalf("APIURL = %q, want flag value", rt.cfg.APIURL)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		apiURL string
		want   string
	}{
		{"bad toml", "api_url = [", "", "load config"},
		{"bad timeout", `request_timeout = "soon"`, "", "load config"},
		{"bad url", "", "://nope", "init api client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("BRANDLOOM_API_URL", "")
			t.Setenv("BRANDLOOM_REQUEST_TIMEOUT", "")
			body := tt.config + "\nlog_path = \"" + filepath.Join(dir, "b.log") + "\"\n"
			cfgPath := writeConfig(t, dir, body)
			_, err := build(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "p.toml"), APIURL: tt.apiURL})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("build error = %v, want %q", err, tt.want)
			}
		})
	}
}
