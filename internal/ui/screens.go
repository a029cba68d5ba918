package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/stream"
)

const (
	optionsKind = stream.ThemeOptions
	imagesKind  = stream.ThemeImages
	postsKind   = stream.Posts
)

// page accumulates body lines and remembers where the cursor row is so
// the viewport can keep it visible.
type page struct {
	lines  []string
	cursor int
}

func (p *page) add(s string) {
	p.lines = append(p.lines, strings.Split(s, "\n")...)
}

func (p *page) blank() { p.lines = append(p.lines, "") }

// mark records the next line as the cursor row.
func (p *page) mark() { p.cursor = len(p.lines) }

// renderBody renders the current screen into the body viewport.
func (m Model) renderBody() string {
	p := m.renderScreen()
	vp := m.body
	vp.Width = m.width
	vp.Height = m.bodyHeight()
	vp.SetContent(strings.Join(p.lines, "\n"))
	if off := p.cursor - vp.Height + 2; off > 0 {
		vp.SetYOffset(off)
	} else {
		vp.GotoTop()
	}
	return vp.View()
}

func (m Model) renderScreen() page {
	var p page
	p.blank()
	switch m.snap.Screen {
	case flow.ScreenLogin:
		m.renderLogin(&p)
	case flow.ScreenWelcome:
		m.renderWelcome(&p)
	case flow.ScreenBrandName, flow.ScreenBrandDescription, flow.ScreenBrandImages:
		m.renderBrandStep(&p)
	case flow.ScreenBrandProposal:
		m.renderBrandProposal(&p)
	case flow.ScreenDashboard:
		m.renderDashboard(&p)
	case flow.ScreenThemeSelection:
		m.renderThemeSelection(&p)
	case flow.ScreenThemeProposal:
		m.renderThemeProposal(&p)
	case flow.ScreenGeneratingPosts:
		m.renderGenerating(&p)
	case flow.ScreenGeneratedPosts:
		m.renderGenerated(&p)
	case flow.ScreenInstagramPreview:
		m.renderPreview(&p)
	case flow.ScreenPlatformConnection:
		m.renderPlatforms(&p)
	case flow.ScreenSuccess:
		m.renderSuccess(&p)
	}
	for i, l := range p.lines {
		if l != "" {
			p.lines[i] = "  " + l
		}
	}
	return p
}

func (m Model) contentWidth() int {
	return max(20, min(m.width-4, LayoutMaxContentWidth))
}

func (m Model) renderLogin(p *page) {
	styles := m.theme.Styles()
	p.add(styles.Title.Render("Sign in to " + appName))
	p.add(styles.MutedText.Render("Any username works; a new account is created on first use."))
	p.blank()
	if m.snap.Hydrating {
		p.add(m.spinner.View() + " " + styles.Text.Render("Loading your brands and themes..."))
		return
	}
	p.add(m.form.View(styles, m.contentWidth()))
}

func (m Model) renderWelcome(p *page) {
	styles := m.theme.Styles()
	p.add(styles.Title.Render("Welcome, " + m.snap.User.Username))
	p.blank()
	p.add(styles.Text.Render("Tell us about your brand and we will draft themes and posts for it."))
	p.add(styles.MutedText.Render("It takes four short steps. Press enter to start."))
}

func (m Model) renderBrandStep(p *page) {
	styles := m.theme.Styles()
	switch m.snap.Screen {
	case flow.ScreenBrandName:
		p.add(styles.Title.Render("What is your brand called?"))
	case flow.ScreenBrandDescription:
		p.add(styles.Title.Render("Describe " + m.snap.BrandDraft.Name))
	case flow.ScreenBrandImages:
		p.add(styles.Title.Render("Reference images"))
		p.add(styles.MutedText.Render("Optional. Images guide the look of generated posts."))
	}
	p.blank()
	p.add(m.form.View(styles, m.contentWidth()))
}

func (m Model) renderBrandProposal(p *page) {
	styles := m.theme.Styles()
	b := m.snap.BrandDraft.Brand()
	p.add(styles.Title.Render("Review your brand"))
	p.blank()
	rows := [][2]string{
		{"Name", b.Name},
		{"Category", b.Category},
		{"Description", b.Description},
		{"Audience", b.TargetAudience},
		{"Strengths", strings.Join(b.MajorStrengths, ", ")},
		{"Products", strings.Join(b.MainProducts, ", ")},
		{"Voice", b.BrandVoice},
		{"Images", fmt.Sprintf("%d reference image(s)", len(b.ReferenceImages))},
	}
	if b.LogoImage != nil {
		rows = append(rows, [2]string{"Logo", *b.LogoImage})
	}
	m.addRows(p, rows)
}

// addRows renders label/value pairs, skipping empty values.
func (m Model) addRows(p *page, rows [][2]string) {
	styles := m.theme.Styles()
	label := lipgloss.NewStyle().Width(14)
	for _, r := range rows {
		if strings.TrimSpace(r[1]) == "" {
			continue
		}
		p.add(label.Render(styles.MutedText.Render(r[0])) + styles.Text.Render(truncate(r[1], m.contentWidth()-14)))
	}
}

func (m Model) renderDashboard(p *page) {
	styles := m.theme.Styles()
	brands := m.snap.State.Brands
	b, ok := m.snap.SelectedBrand()
	if !ok {
		p.add(styles.MutedText.Render("No brand selected. Press B to create one."))
		return
	}

	title := styles.Title.Render(b.Name)
	if len(brands) > 1 {
		title += styles.FaintText.Render(fmt.Sprintf("  (%d of %d, [ ] to switch)", m.brandIndex()+1, len(brands)))
	}
	p.add(title)
	if b.Category != "" || b.Description != "" {
		p.add(styles.MutedText.Render(truncate(strings.TrimSpace(b.Category+"  "+b.Description), m.contentWidth())))
	}
	p.blank()

	if m.snap.ShowingSaved {
		m.renderSavedPosts(p, b.ID)
		return
	}

	themes := m.snap.State.ThemesForBrand(b.ID)
	p.add(styles.AccentText.Bold(true).Render(fmt.Sprintf("Themes (%d)", len(themes))))
	if len(themes) == 0 {
		p.add(styles.MutedText.Render("No themes yet. Press g to generate ideas or n to start one yourself."))
		return
	}
	for i, th := range themes {
		if i == m.cursor {
			p.mark()
		}
		swatches := ""
		for _, c := range th.Colors {
			swatches += styles.Swatch(c)
		}
		posts := fmt.Sprintf("%d/%d posts", len(th.Posts), th.PostsCount)
		line := fmt.Sprintf("%-28s %-12s %s", truncate(th.Name, 28), posts, truncate(th.Mood+" · "+th.Tone, 30))
		m.addListRow(p, i == m.cursor, line, swatches)
	}
}

func (m Model) renderSavedPosts(p *page, brandID string) {
	styles := m.theme.Styles()
	posts := m.snap.State.SavedPostsForBrand(brandID)
	p.add(styles.AccentText.Bold(true).Render(fmt.Sprintf("Saved posts (%d)", len(posts))))
	if len(posts) == 0 {
		p.add(styles.MutedText.Render("Confirm a selection of generated posts to save them here."))
		return
	}
	for i, post := range posts {
		if i == m.cursor {
			p.mark()
		}
		m.addListRow(p, i == m.cursor, m.postLine(post, false), "")
	}
}

// postLine is the one-line summary of a post.
func (m Model) postLine(post model.Post, checkbox bool) string {
	styles := m.theme.Styles()
	prefix := ""
	if checkbox {
		prefix = "[ ] "
		if post.Selected {
			prefix = "[x] "
		}
	}
	status := styles.StatusStyle(post.StatusLabel()).Render(string(post.StatusLabel()))
	when := ""
	if post.ScheduledTime != nil {
		when = " " + *post.ScheduledTime
	}
	kind := fmt.Sprintf("%-16s", truncate(string(post.PostType), 16))
	caption := truncate(strings.ReplaceAll(post.Caption, "\n", " "), max(10, m.contentWidth()-50))
	return prefix + kind + " " + caption + "  " + status + styles.FaintText.Render(when)
}

func (m Model) addListRow(p *page, selected bool, line, suffix string) {
	styles := m.theme.Styles()
	if selected {
		p.add(styles.Selected.Render("> "+line) + " " + suffix)
		return
	}
	p.add("  " + styles.Text.Render(line) + " " + suffix)
}

func (m Model) renderThemeSelection(p *page) {
	styles := m.theme.Styles()
	g := m.snap.Generation(optionsKind)
	p.add(styles.Title.Render("Theme ideas"))
	m.addGenerationState(p, g, "theme ideas")
	p.blank()
	for i, opt := range g.Options {
		if i == m.cursor {
			p.mark()
		}
		p.add(m.optionCard(opt, i == m.cursor))
	}
	if len(g.Options) == 0 && !g.Active() {
		p.add(styles.MutedText.Render("Press g to generate theme ideas or n to start from a blank theme."))
	}
}

// addGenerationState renders progress or the failure of a stream.
func (m Model) addGenerationState(p *page, g flow.GenerationView, noun string) {
	styles := m.theme.Styles()
	n, total := g.Progress()
	switch {
	case g.Active() && total > 0:
		p.add(m.spinner.View() + " " + styles.WarningText.Render(fmt.Sprintf("Generating %s %d of %d", noun, n, total)))
		p.add(m.progress.ViewAs(float64(n) / float64(total)))
	case g.Active():
		p.add(m.spinner.View() + " " + styles.WarningText.Render("Generating "+noun+"..."))
	case g.Outcome == flow.OutcomeFailed:
		p.add(styles.DangerText.Render("Generation failed: ") + styles.Text.Render(g.Err))
	case g.Outcome == flow.OutcomeCancelled:
		p.add(styles.MutedText.Render("Generation stopped."))
	case g.Outcome == flow.OutcomeComplete:
		p.add(styles.SuccessText.Render(fmt.Sprintf("%d %s ready", n, noun)))
	}
}

func (m Model) optionCard(opt model.ThemeOption, focused bool) string {
	styles := m.theme.Styles()
	swatches := ""
	for _, c := range opt.Colors {
		swatches += styles.Swatch(c)
	}
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(opt.Name))
	b.WriteString("  " + swatches + "\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Mood %s · Tone %s · Imagery %s", opt.Mood, opt.Tone, opt.Imagery)))
	if opt.ImageURL != "" {
		b.WriteString("\n" + styles.FaintText.Render(truncate(opt.ImageURL, m.contentWidth()-6)))
	}
	card := styles.Card
	if focused {
		card = styles.FocusedCard
	}
	return card.Width(m.contentWidth() - 4).Render(b.String())
}

func (m Model) renderThemeProposal(p *page) {
	styles := m.theme.Styles()
	d := m.snap.ThemeDraft
	if d == nil {
		return
	}
	title := "New theme"
	if d.ThemeID != "" {
		title = "Edit theme"
	}
	p.add(styles.Title.Render(title))
	if d.PreviewImage != "" {
		p.add(styles.FaintText.Render("Preview " + truncate(d.PreviewImage, m.contentWidth()-8)))
	}
	p.blank()
	p.add(m.form.View(styles, m.contentWidth()))
	p.mark()

	g := m.snap.Generation(imagesKind)
	if !g.Active() && len(g.Options) == 0 && g.Outcome == flow.OutcomeNone {
		return
	}
	p.blank()
	p.add(styles.AccentText.Bold(true).Render("Image options"))
	m.addGenerationState(p, g, "images")
	for i, opt := range g.Options {
		p.add(m.optionCard(opt, i == m.imageCursor))
	}
}

func (m Model) renderGenerating(p *page) {
	styles := m.theme.Styles()
	th, _ := m.snap.SelectedTheme()
	g := m.snap.Generation(postsKind)
	p.add(styles.Title.Render("Posts for " + th.Name))
	m.addGenerationState(p, g, "posts")
	p.blank()
	posts := g.Posts
	if !g.Active() {
		posts = th.Posts
	}
	for _, post := range posts {
		p.add("  " + m.postLine(post, false))
		p.mark()
	}
}

func (m Model) renderGenerated(p *page) {
	styles := m.theme.Styles()
	th, _ := m.snap.SelectedTheme()
	selected := len(th.SelectedPosts())
	p.add(styles.Title.Render(th.Name))
	p.add(styles.MutedText.Render(fmt.Sprintf("%d of %d posts selected. Pick the ones to keep.", selected, len(th.Posts))))
	p.blank()
	if len(th.Posts) == 0 {
		p.add(styles.MutedText.Render("No posts yet. Press r to generate them."))
		return
	}
	for i, post := range th.Posts {
		if i == m.cursor {
			p.mark()
		}
		m.addListRow(p, i == m.cursor, m.postLine(post, true), "")
	}
	if post, ok := m.postAt(th.Posts, m.cursor); ok {
		p.blank()
		p.add(m.postCard(post))
	}
}

func (m Model) postAt(posts []model.Post, i int) (model.Post, bool) {
	if i < 0 || i >= len(posts) {
		return model.Post{}, false
	}
	return posts[i], true
}

// postCard renders a post the way it would appear in a feed.
func (m Model) postCard(post model.Post) string {
	styles := m.theme.Styles()
	w := m.contentWidth() - 4
	var b strings.Builder
	if post.ImageURL != "" {
		b.WriteString(styles.FaintText.Render(truncate(post.ImageURL, w-2)) + "\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(w - 2).Render(styles.Text.Render(post.Caption)))
	if len(post.Hashtags) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Width(w-2).Render(styles.InfoText.Render(strings.Join(post.Hashtags, " "))))
	}
	return styles.Card.Width(w).Render(b.String())
}

func (m Model) renderPreview(p *page) {
	styles := m.theme.Styles()
	posts := m.previewPosts()
	p.add(styles.Title.Render("Preview"))
	connected := "No platform connected; publishing asks you to connect one."
	if m.snap.State.Platforms.AnyConnected() {
		var names []string
		for _, pl := range model.AllPlatforms() {
			if m.snap.State.Platforms[pl].Connected {
				names = append(names, pl.Label())
			}
		}
		connected = "Publishing to " + strings.Join(names, ", ")
	}
	p.add(styles.MutedText.Render(connected))
	p.blank()
	for i, post := range posts {
		if i == m.cursor {
			p.mark()
		}
		m.addListRow(p, i == m.cursor, m.postLine(post, false), "")
	}
	if post, ok := m.postAt(posts, m.cursor); ok {
		p.blank()
		p.add(m.postCard(post))
	}
}

func (m Model) renderPlatforms(p *page) {
	styles := m.theme.Styles()
	p.add(styles.Title.Render("Connect a platform"))
	p.add(styles.MutedText.Render("Connect at least one account to schedule posts."))
	p.blank()
	for i, pl := range model.AllPlatforms() {
		if i == m.cursor {
			p.mark()
		}
		c := m.snap.State.Platforms[pl]
		state := styles.FaintText.Render("not connected")
		if c.Connected {
			state = styles.SuccessText.Render("connected as " + c.Account)
		}
		m.addListRow(p, i == m.cursor, fmt.Sprintf("%-14s", pl.Label()), state)
	}
}

func (m Model) renderSuccess(p *page) {
	styles := m.theme.Styles()
	th, _ := m.snap.SelectedTheme()
	var scheduled []model.Post
	for _, post := range th.Posts {
		if post.StatusLabel() == model.StatusScheduled {
			scheduled = append(scheduled, post)
		}
	}
	p.add(styles.SuccessText.Render(fmt.Sprintf("%d posts scheduled", len(scheduled))))
	p.blank()
	for _, post := range scheduled {
		p.add(m.postLine(post, false))
	}
}

// List helpers shared by rendering and key handling.

func (m Model) listLen() int {
	switch m.snap.Screen {
	case flow.ScreenDashboard:
		if m.snap.ShowingSaved {
			return len(m.snap.State.SavedPostsForBrand(m.snap.SelectedBrandID))
		}
		return len(m.snap.State.ThemesForBrand(m.snap.SelectedBrandID))
	case flow.ScreenThemeSelection:
		return len(m.snap.Generation(optionsKind).Options)
	case flow.ScreenGeneratedPosts:
		th, _ := m.snap.SelectedTheme()
		return len(th.Posts)
	case flow.ScreenInstagramPreview:
		return len(m.previewPosts())
	case flow.ScreenPlatformConnection:
		return len(model.AllPlatforms())
	}
	return 0
}

func (m Model) brandIndex() int {
	for i, b := range m.snap.State.Brands {
		if b.ID == m.snap.SelectedBrandID {
			return i
		}
	}
	return 0
}

func (m Model) themeAt(i int) (model.Theme, bool) {
	themes := m.snap.State.ThemesForBrand(m.snap.SelectedBrandID)
	if i < 0 || i >= len(themes) {
		return model.Theme{}, false
	}
	return themes[i], true
}

func (m Model) savedPostAt(i int) (model.Post, bool) {
	return m.postAt(m.snap.State.SavedPostsForBrand(m.snap.SelectedBrandID), i)
}

// previewPosts are the selected posts of the selected theme.
func (m Model) previewPosts() []model.Post {
	th, ok := m.snap.SelectedTheme()
	if !ok {
		return nil
	}
	return th.SelectedPosts()
}
