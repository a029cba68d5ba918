package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/brandloom/internal/api"
	"github.com/five82/brandloom/internal/api/apitest"
	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/prefs"
	"github.com/five82/brandloom/internal/session"
)

type uiHarness struct {
	m     Model
	ctrl  *flow.Controller
	srv   *apitest.Server
	prefs string
}

func newUI(t *testing.T) *uiHarness {
	t.Helper()
	srv := apitest.New(t)
	client, err := api.NewClient(srv.URL, api.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	dir := t.TempDir()
	ctrl := flow.New(client, session.NewStore(filepath.Join(dir, "session.toml")))
	t.Cleanup(ctrl.Close)

	prefsPath := filepath.Join(dir, "prefs.toml")
	m := New(Options{Context: context.Background(), Controller: ctrl, PrefsPath: prefsPath, SkipInit: true})
	t.Cleanup(m.unsub)
	h := &uiHarness{m: m, ctrl: ctrl, srv: srv, prefs: prefsPath}
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg and runs any resulting command whose result is an
// action report, the way the program loop would.
func (h *uiHarness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	if cmd == nil {
		return
	}
	if _, ok := msg.(tea.KeyMsg); !ok {
		return
	}
	if done, ok := cmd().(actionDoneMsg); ok {
		next, _ = h.m.Update(done)
		h.m = next.(Model)
	}
}

func (h *uiHarness) typeText(t *testing.T, s string) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *uiHarness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		switch k {
		case "enter":
			h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			h.send(t, tea.KeyMsg{Type: tea.KeyTab})
		case "down":
			h.send(t, tea.KeyMsg{Type: tea.KeyDown})
		case "space":
			h.send(t, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			h.typeText(t, k)
		}
	}
}

func (h *uiHarness) login(t *testing.T, name string) {
	t.Helper()
	h.typeText(t, name)
	h.press(t, "enter")
}

func (h *uiHarness) wantScreen(t *testing.T, want flow.Screen) {
	t.Helper()
	if got := h.m.snap.Screen; got != want {
		t.Fatalf("screen = %s, want %s (status %q)", got, want, h.m.status)
	}
}

func TestLogin_LandsOnWelcomeAndRemembersUsername(t *testing.T) {
	h := newUI(t)
	h.wantScreen(t, flow.ScreenLogin)

	h.login(t, "ada")
	h.wantScreen(t, flow.ScreenWelcome)

	if got := prefs.Load(h.prefs).LastUsername; got != "ada" {
		t.Fatalf("LastUsername = %q, want ada", got)
	}
	if !strings.Contains(h.m.View(), "Welcome, ada") {
		t.Fatalf("welcome view missing greeting:\n%s", h.m.View())
	}
}

func TestLogin_EmptyUsernameShowsStatus(t *testing.T) {
	h := newUI(t)
	h.press(t, "enter")
	h.wantScreen(t, flow.ScreenLogin)
	if h.m.status == "" {
		t.Fatal("expected a status message for an empty username")
	}
}

func TestBrandOnboarding_WalksEveryStep(t *testing.T) {
	h := newUI(t)
	h.login(t, "ada")
	h.press(t, "enter")
	h.wantScreen(t, flow.ScreenBrandName)

	h.typeText(t, "Acme Coffee")
	h.press(t, "enter") // to category
	h.typeText(t, "Food")
	h.press(t, "enter")
	h.wantScreen(t, flow.ScreenBrandDescription)
	if got := h.m.snap.BrandDraft.Name; got != "Acme Coffee" {
		t.Fatalf("draft name = %q, want Acme Coffee", got)
	}

	h.typeText(t, "Roasts beans")
	h.press(t, "tab", "tab")
	h.typeText(t, "fresh, local")
	h.press(t, "enter", "enter", "enter")
	h.wantScreen(t, flow.ScreenBrandImages)
	if got := h.m.snap.BrandDraft.MajorStrengths; len(got) != 2 || got[1] != "local" {
		t.Fatalf("strengths = %v, want [fresh local]", got)
	}

	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlK})
	h.wantScreen(t, flow.ScreenBrandProposal)

	h.press(t, "enter")
	h.wantScreen(t, flow.ScreenDashboard)
	b, ok := h.m.snap.SelectedBrand()
	if !ok || b.Name != "Acme Coffee" {
		t.Fatalf("selected brand = %+v, %v; want Acme Coffee", b, ok)
	}
}

func TestBrandName_EmptyNameStaysWithStatus(t *testing.T) {
	h := newUI(t)
	h.login(t, "ada")
	h.press(t, "enter", "enter", "enter")
	h.wantScreen(t, flow.ScreenBrandName)
	if h.m.status == "" {
		t.Fatal("expected a validation status")
	}
}

func TestDashboard_DeleteTheme(t *testing.T) {
	h := newUI(t)
	user := apitest.UserID("ada")
	b := h.srv.SeedBrand(user, api.BrandPayload{Name: "Acme"})
	th := h.srv.SeedTheme(user, api.ThemePayload{BrandID: b.ID, Name: "Summer", PostsCount: 3, CaptionLength: "short"})

	h.login(t, "ada")
	h.wantScreen(t, flow.ScreenDashboard)
	if !strings.Contains(h.m.View(), "Summer") {
		t.Fatalf("dashboard missing theme:\n%s", h.m.View())
	}

	h.press(t, "x")
	if _, ok := h.srv.Theme(user, th.ID); ok {
		t.Fatal("theme still stored remotely after delete")
	}
	if n := len(h.m.snap.State.ThemesForBrand(b.ID)); n != 0 {
		t.Fatalf("themes = %d, want 0", n)
	}
}

func TestDashboard_ThemeEditorRoundTrip(t *testing.T) {
	h := newUI(t)
	user := apitest.UserID("ada")
	b := h.srv.SeedBrand(user, api.BrandPayload{Name: "Acme"})
	h.srv.SeedTheme(user, api.ThemePayload{BrandID: b.ID, Name: "Summer", PostsCount: 3, CaptionLength: "short"})

	h.login(t, "ada")
	h.press(t, "e")
	h.wantScreen(t, flow.ScreenThemeProposal)
	if got := h.m.form.value(0); got != "Summer" {
		t.Fatalf("name field = %q, want Summer", got)
	}

	h.typeText(t, " Sale")
	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlS})
	h.wantScreen(t, flow.ScreenDashboard)
	got, _ := h.m.themeAt(0)
	if got.Name != "Summer Sale" {
		t.Fatalf("theme name = %q, want Summer Sale", got.Name)
	}
}

func TestHelp_ClosesOnAnyKey(t *testing.T) {
	h := newUI(t)
	h.login(t, "ada")
	h.press(t, "?")
	if !h.m.showHelp {
		t.Fatal("help not shown")
	}
	if !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatal("help view missing title")
	}
	h.press(t, "j")
	if h.m.showHelp {
		t.Fatal("help still shown")
	}
	h.wantScreen(t, flow.ScreenWelcome)
}

func TestNotice_BlocksUntilDismissed(t *testing.T) {
	h := newUI(t)
	h.srv.Fail("POST /api/auth/login", 500, "login service unavailable")
	h.login(t, "ada")
	if h.m.snap.Notice == nil {
		t.Fatal("expected a notice after a failed login")
	}
	if !strings.Contains(h.m.View(), "login service unavailable") {
		t.Fatalf("notice view missing message:\n%s", h.m.View())
	}
	h.press(t, "enter")
	if h.m.snap.Notice != nil {
		t.Fatal("notice not dismissed")
	}
	h.wantScreen(t, flow.ScreenLogin)
}

func TestLogout_ReturnsToLogin(t *testing.T) {
	h := newUI(t)
	h.login(t, "ada")
	h.press(t, "L")
	h.wantScreen(t, flow.ScreenLogin)
	if h.m.snap.LoggedIn() {
		t.Fatal("still logged in after logout")
	}
}

func TestCycleTheme_SavesPreference(t *testing.T) {
	h := newUI(t)
	h.login(t, "ada")
	before := h.m.theme.Name
	h.press(t, "T")
	if h.m.theme.Name == before {
		t.Fatalf("theme still %s", before)
	}
	if got := prefs.Load(h.prefs).Theme; got != h.m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", got, h.m.theme.Name)
	}
}

func TestStateChange_RefreshesAndRearms(t *testing.T) {
	h := newUI(t)
	if err := h.ctrl.Login(context.Background(), "ada"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	next, cmd := h.m.Update(stateChangedMsg{})
	h.m = next.(Model)
	h.wantScreen(t, flow.ScreenWelcome)
	if cmd == nil {
		t.Fatal("expected waitForChange to be re-armed")
	}
}
