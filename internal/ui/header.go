package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/stream"
)

const appName = "brandloom"

// renderMain renders header, command bar, body and status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// renderHeader renders the logo, the screen title, activity and the user.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	left := []string{
		bg.Render(appName, styles.Logo),
		bg.Render(screenTitle(m.snap.Screen), styles.Text.Bold(true)),
	}
	if b, ok := m.snap.SelectedBrand(); ok && m.snap.Screen != flow.ScreenLogin && m.width >= LayoutCompactWidth {
		left = append(left, bg.Render(truncate(b.Name, 24), styles.AccentText))
	}
	if activity := m.activity(); activity != "" {
		left = append(left, bg.Render(m.spinner.View()+" "+activity, styles.WarningText))
	}

	right := ""
	if m.snap.LoggedIn() {
		right = bg.Render(m.snap.User.Username, styles.MutedText)
	}

	content := bg.Join(left, "  ")
	gap := m.width - lipgloss.Width(content) - lipgloss.Width(right) - 2
	if gap > 0 {
		content += bg.Spaces(gap) + right
	}
	return styles.Header.Width(m.width).Render(content)
}

// activity describes what is running in the background, if anything.
func (m Model) activity() string {
	switch {
	case m.snap.Hydrating:
		return "Loading workspace"
	case m.snap.Busy:
		return "Saving"
	}
	for _, k := range []stream.Kind{stream.ThemeOptions, stream.ThemeImages, stream.Posts} {
		g := m.snap.Generation(k)
		if !g.Active() {
			continue
		}
		if n, total := g.Progress(); total > 0 {
			return fmt.Sprintf("%s %d/%d", generationLabel(k), n, total)
		}
		return generationLabel(k)
	}
	return ""
}

// renderCommandBar lists the keys that work on the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	hints := m.screenHints()
	if m.width < LayoutCompactWidth && len(hints) > LayoutCompactHints {
		hints = hints[:LayoutCompactHints]
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, bg.Render(h[0], styles.WarningText)+bg.Space()+bg.Render(h[1], styles.MutedText))
	}
	line := bg.Join(parts, "   ")
	return bg.FillLine(" "+line, m.width)
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.status != "" {
		return styles.Footer.Width(m.width).Render(styles.WarningText.Render(truncate(m.status, m.width-2)))
	}
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = styles.MutedText
	h.Styles.ShortDesc = styles.FaintText
	h.Styles.ShortSeparator = styles.FaintText
	return styles.Footer.Width(m.width).Render(h.ShortHelpView(m.keys.ShortHelp()))
}

// screenHints returns key/label pairs for the command bar.
func (m Model) screenHints() [][2]string {
	switch m.snap.Screen {
	case flow.ScreenLogin:
		return [][2]string{{"enter", "Log in"}, {"f1", "Help"}}
	case flow.ScreenWelcome:
		return [][2]string{{"enter", "Create your brand"}, {"L", "Log out"}, {"q", "Quit"}}
	case flow.ScreenBrandName, flow.ScreenBrandDescription:
		return [][2]string{{"tab", "Next field"}, {"enter", "Continue"}, {"esc", "Back"}}
	case flow.ScreenBrandImages:
		return [][2]string{{"tab", "Next field"}, {"enter", "Continue"}, {"ctrl+k", "Skip"}, {"esc", "Back"}}
	case flow.ScreenBrandProposal:
		return [][2]string{{"enter", "Create brand"}, {"esc", "Back"}}
	case flow.ScreenDashboard:
		if m.snap.ShowingSaved {
			return [][2]string{{"e", "Edit"}, {"t", "Schedule"}, {"x", "Remove"}, {"s", "Themes"}, {"[ ]", "Brand"}}
		}
		return [][2]string{{"enter", "Posts"}, {"g", "Generate themes"}, {"n", "New theme"}, {"e", "Edit"}, {"p", "Generate posts"}, {"x", "Delete"}, {"s", "Saved posts"}, {"B", "New brand"}, {"[ ]", "Brand"}}
	case flow.ScreenThemeSelection:
		return [][2]string{{"enter", "Use theme"}, {"n", "Start blank"}, {"g", "Generate again"}, {"esc", "Dashboard"}}
	case flow.ScreenThemeProposal:
		return [][2]string{{"ctrl+s", "Save"}, {"ctrl+g", "Save & generate"}, {"ctrl+r", "New images"}, {"ctrl+n/p", "Browse images"}, {"ctrl+o", "Use image"}, {"esc", "Dashboard"}}
	case flow.ScreenGeneratingPosts:
		return [][2]string{{"esc", "Stop"}, {"r", "Retry"}, {"enter", "Review posts"}}
	case flow.ScreenGeneratedPosts:
		return [][2]string{{"space", "Toggle"}, {"a/A", "All/none"}, {"e", "Edit"}, {"r", "Regenerate"}, {"enter", "Continue"}, {"esc", "Dashboard"}}
	case flow.ScreenInstagramPreview:
		return [][2]string{{"e", "Edit"}, {"s", "Schedule"}, {"enter", "Schedule & publish"}, {"esc", "Back"}}
	case flow.ScreenPlatformConnection:
		return [][2]string{{"enter", "Connect"}, {"esc", "Back"}}
	case flow.ScreenSuccess:
		return [][2]string{{"enter", "Dashboard"}, {"g", "Generate themes"}, {"n", "New theme"}}
	}
	return nil
}

func generationLabel(k stream.Kind) string {
	switch k {
	case stream.ThemeOptions:
		return "Generating themes"
	case stream.ThemeImages:
		return "Generating images"
	default:
		return "Generating posts"
	}
}

func screenTitle(s flow.Screen) string {
	switch s {
	case flow.ScreenLogin:
		return "Log in"
	case flow.ScreenWelcome:
		return "Welcome"
	case flow.ScreenBrandName:
		return "New brand · 1/4 Name"
	case flow.ScreenBrandDescription:
		return "New brand · 2/4 Details"
	case flow.ScreenBrandImages:
		return "New brand · 3/4 Images"
	case flow.ScreenBrandProposal:
		return "New brand · 4/4 Review"
	case flow.ScreenDashboard:
		return "Dashboard"
	case flow.ScreenThemeSelection:
		return "Choose a theme"
	case flow.ScreenThemeProposal:
		return "Theme"
	case flow.ScreenGeneratingPosts:
		return "Generating posts"
	case flow.ScreenGeneratedPosts:
		return "Generated posts"
	case flow.ScreenInstagramPreview:
		return "Preview"
	case flow.ScreenPlatformConnection:
		return "Connect a platform"
	case flow.ScreenSuccess:
		return "Scheduled"
	}
	return s.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
