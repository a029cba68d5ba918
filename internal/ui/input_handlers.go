package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/prefs"
)

func keyIs(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// usesForm reports whether typing on s goes to a text form.
func usesForm(s flow.Screen) bool {
	switch s {
	case flow.ScreenLogin, flow.ScreenBrandName, flow.ScreenBrandDescription,
		flow.ScreenBrandImages, flow.ScreenThemeProposal:
		return true
	}
	return false
}

// syncForm rebuilds the form when the screen or the staged draft it edits
// has changed.
func (m *Model) syncForm() {
	k := m.snap.Screen.String()
	switch m.snap.Screen {
	case flow.ScreenBrandName, flow.ScreenBrandDescription, flow.ScreenBrandImages:
		k += "/" + m.snap.BrandDraft.LocalID
	case flow.ScreenThemeProposal:
		if m.snap.ThemeDraft != nil {
			k += "/" + m.snap.ThemeDraft.LocalID
		}
	}
	if k == m.formKey {
		return
	}
	m.formKey = k
	m.form = m.buildForm()
}

func (m Model) buildForm() form {
	d := m.snap.BrandDraft
	switch m.snap.Screen {
	case flow.ScreenLogin:
		return newForm(textField("Username", m.username, "your name"))
	case flow.ScreenBrandName:
		return newForm(
			textField("Brand name", d.Name, "Acme Coffee"),
			textField("Category", d.Category, "Food & drink"),
		)
	case flow.ScreenBrandDescription:
		return newForm(
			textField("Description", d.Description, "What the brand does"),
			textField("Target audience", d.TargetAudience, "Who it is for"),
			textField("Major strengths", strings.Join(d.MajorStrengths, ", "), "comma separated"),
			textField("Main products", strings.Join(d.MainProducts, ", "), "comma separated"),
			textField("Brand voice", d.BrandVoice, "Friendly, expert"),
		)
	case flow.ScreenBrandImages:
		logo := ""
		if d.LogoImage != nil {
			logo = *d.LogoImage
		}
		return newForm(
			textField("Reference images", strings.Join(d.ReferenceImages, ", "), "image URLs, comma separated"),
			textField("Logo image", logo, "image URL"),
		)
	case flow.ScreenThemeProposal:
		if m.snap.ThemeDraft == nil {
			return form{}
		}
		return themeForm(*m.snap.ThemeDraft)
	}
	return form{}
}

func themeForm(d flow.ThemeDraft) form {
	return newForm(
		textField("Name", d.Name, "Untitled Theme"),
		textField("Posts", strconv.Itoa(d.PostsCount), "1-30"),
		textField("Mood", d.Mood, flow.DefaultMood),
		textField("Colors", strings.Join(d.Colors, ", "), "#4F46E5, #EC4899"),
		textField("Imagery", d.Imagery, flow.DefaultImagery),
		textField("Tone", d.Tone, flow.DefaultTone),
		choiceField("Caption length", []string{
			string(model.CaptionShort), string(model.CaptionMedium), string(model.CaptionLong),
		}, string(model.ParseCaptionLength(string(d.CaptionLength)))),
		choiceField("Emojis", []string{"yes", "no"}, yesNo(d.UseEmojis)),
		choiceField("Hashtags", []string{"yes", "no"}, yesNo(d.UseHashtags)),
	)
}

// themePatch copies the form into a draft. An unparsable post count keeps
// the previous value.
func themePatch(f form) func(*flow.ThemeDraft) {
	return func(d *flow.ThemeDraft) {
		d.Name = f.value(0)
		if n, err := strconv.Atoi(f.value(1)); err == nil {
			d.PostsCount = n
		}
		d.Mood = f.value(2)
		d.Colors = flow.SplitList(f.value(3))
		d.Imagery = f.value(4)
		d.Tone = f.value(5)
		d.CaptionLength = model.ParseCaptionLength(f.value(6))
		d.UseEmojis = f.value(7) == "yes"
		d.UseHashtags = f.value(8) == "yes"
	}
}

func brandPatch(s flow.Screen, f form) func(*flow.BrandDraft) {
	return func(d *flow.BrandDraft) {
		switch s {
		case flow.ScreenBrandName:
			d.Name = f.value(0)
			d.Category = f.value(1)
		case flow.ScreenBrandDescription:
			d.Description = f.value(0)
			d.TargetAudience = f.value(1)
			d.MajorStrengths = flow.SplitList(f.value(2))
			d.MainProducts = flow.SplitList(f.value(3))
			d.BrandVoice = f.value(4)
		case flow.ScreenBrandImages:
			d.ReferenceImages = flow.SplitList(f.value(0))
			if logo := f.value(1); logo != "" {
				d.LogoImage = &logo
			} else {
				d.LogoImage = nil
			}
		}
	}
}

// handleFormKey processes input on form screens. Printable keys go to the
// focused field; control keys drive the screen.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.snap.Screen

	switch {
	case msg.String() == "f1":
		m.showHelp = true
		return m, nil
	case keyIs(msg, m.keys.NextField):
		m.form.next()
		return m, nil
	case keyIs(msg, m.keys.PrevField):
		m.form.prev()
		return m, nil
	case keyIs(msg, m.keys.Back):
		return m.formBack()
	}

	switch s {
	case flow.ScreenLogin:
		if keyIs(msg, m.keys.Submit) {
			return m.submitLogin()
		}
	case flow.ScreenBrandName, flow.ScreenBrandDescription, flow.ScreenBrandImages:
		switch {
		case keyIs(msg, m.keys.Skip) && s == flow.ScreenBrandImages:
			m.apply("skip images", m.ctrl.SkipBrandImages())
			return m, nil
		case keyIs(msg, m.keys.Submit) && !m.form.last():
			m.form.next()
			return m, nil
		case keyIs(msg, m.keys.Submit):
			m.apply("save step", m.ctrl.SubmitBrandStep(brandPatch(s, m.form)))
			return m, nil
		}
	case flow.ScreenThemeProposal:
		if cmd, ok := m.handleThemeProposalKey(msg); ok {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	name := m.form.value(0)
	if name == "" {
		m.status = "Enter a username."
		return m, nil
	}
	m.username = name
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.LastUsername = name }); err != nil {
		m.logger.Warn("username preference not saved", "error", err)
	}
	return m, m.do("log in", func(ctx context.Context) error {
		return m.ctrl.Login(ctx, name)
	})
}

// formBack leaves a form screen along its backward edge.
func (m Model) formBack() (tea.Model, tea.Cmd) {
	var to flow.Screen
	switch m.snap.Screen {
	case flow.ScreenLogin:
		return m, nil
	case flow.ScreenBrandName:
		to = flow.ScreenWelcome
		if len(m.snap.State.Brands) > 0 {
			to = flow.ScreenDashboard
		}
	case flow.ScreenBrandDescription:
		to = flow.ScreenBrandName
	case flow.ScreenBrandImages:
		to = flow.ScreenBrandDescription
	case flow.ScreenThemeProposal:
		to = flow.ScreenDashboard
	}
	m.apply("back", m.ctrl.Navigate(to))
	return m, nil
}

// handleThemeProposalKey handles the draft commands. The form is pushed
// into the draft before anything reads it.
func (m *Model) handleThemeProposalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	push := func() bool {
		if err := m.ctrl.EditThemeDraft(themePatch(m.form)); err != nil {
			m.apply("edit theme", err)
			return false
		}
		return true
	}

	switch {
	case keyIs(msg, m.keys.Save):
		if !push() {
			return nil, true
		}
		return m.do("save theme", func(ctx context.Context) error {
			_, err := m.ctrl.SaveTheme(ctx)
			return err
		}), true
	case keyIs(msg, m.keys.SaveGenerate):
		if !push() {
			return nil, true
		}
		return m.do("generate posts", func(ctx context.Context) error {
			_, err := m.ctrl.SaveThemeAndGenerate(ctx)
			return err
		}), true
	case keyIs(msg, m.keys.Regenerate):
		if !push() {
			return nil, true
		}
		m.imageCursor = 0
		return m.do("regenerate images", m.ctrl.RegenerateImages), true
	case keyIs(msg, m.keys.NextImage):
		if n := len(m.snap.Generation(imagesKind).Options); n > 0 {
			m.imageCursor = (m.imageCursor + 1) % n
		}
		return nil, true
	case keyIs(msg, m.keys.PrevImage):
		if n := len(m.snap.Generation(imagesKind).Options); n > 0 {
			m.imageCursor = (m.imageCursor - 1 + n) % n
		}
		return nil, true
	case keyIs(msg, m.keys.UseImage):
		if !push() {
			return nil, true
		}
		if err := m.ctrl.ChooseImageOption(m.imageCursor); err != nil {
			m.apply("use image", err)
			return nil, true
		}
		m.formKey = ""
		m.refresh()
		return nil, true
	case keyIs(msg, m.keys.Submit):
		m.form.next()
		return nil, true
	}
	return nil, false
}

// handleWelcomeKey starts onboarding.
func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Select), keyIs(msg, m.keys.NewBrand):
		m.apply("new brand", m.ctrl.StartBrand())
	case keyIs(msg, m.keys.Back) && len(m.snap.State.Brands) > 0:
		m.apply("dashboard", m.ctrl.Navigate(flow.ScreenDashboard))
	}
	return m, nil
}

func (m Model) handleBrandProposalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Select):
		return m, m.do("create brand", func(ctx context.Context) error {
			_, err := m.ctrl.CreateBrand(ctx)
			return err
		})
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenBrandImages))
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	brands := m.snap.State.Brands
	current := m.brandIndex()

	switch {
	case keyIs(msg, m.keys.Left) && len(brands) > 0:
		m.cursor = 0
		m.apply("select brand", m.ctrl.SelectBrand(brands[(current-1+len(brands))%len(brands)].ID))
		return m, nil
	case keyIs(msg, m.keys.Right) && len(brands) > 0:
		m.cursor = 0
		m.apply("select brand", m.ctrl.SelectBrand(brands[(current+1)%len(brands)].ID))
		return m, nil
	case keyIs(msg, m.keys.NewBrand):
		m.apply("new brand", m.ctrl.StartBrand())
		return m, nil
	case keyIs(msg, m.keys.ToggleSaved):
		m.cursor = 0
		m.apply("saved posts", m.ctrl.ShowSavedPosts(!m.snap.ShowingSaved))
		return m, nil
	case keyIs(msg, m.keys.DeleteBrand):
		if b, ok := m.snap.SelectedBrand(); ok {
			return m, m.do("delete brand", func(ctx context.Context) error {
				return m.ctrl.DeleteBrand(ctx, b.ID)
			})
		}
		return m, nil
	}

	if m.snap.ShowingSaved {
		post, ok := m.savedPostAt(m.cursor)
		switch {
		case !ok:
		case keyIs(msg, m.keys.EditItem):
			m.apply("edit post", m.ctrl.OpenPostEditor(post.ID))
		case keyIs(msg, m.keys.SchedulePost):
			m.apply("schedule post", m.ctrl.OpenPostScheduler(post.ID))
		case keyIs(msg, m.keys.Delete):
			m.apply("remove post", m.ctrl.RemoveSavedPost(post.ID))
		}
		return m, nil
	}

	switch {
	case keyIs(msg, m.keys.GenerateThemes):
		return m, m.do("generate themes", m.ctrl.StartThemeGeneration)
	case keyIs(msg, m.keys.NewTheme):
		m.apply("new theme", m.ctrl.NewTheme())
		return m, nil
	}

	th, ok := m.themeAt(m.cursor)
	if !ok {
		return m, nil
	}
	switch {
	case keyIs(msg, m.keys.Select):
		if len(th.Posts) == 0 {
			return m, m.do("generate posts", func(ctx context.Context) error {
				return m.ctrl.GeneratePosts(ctx, th.ID)
			})
		}
		m.apply("view posts", m.ctrl.ViewPosts(th.ID))
	case keyIs(msg, m.keys.EditItem):
		m.apply("edit theme", m.ctrl.EditTheme(th.ID))
	case keyIs(msg, m.keys.GeneratePosts):
		return m, m.do("generate posts", func(ctx context.Context) error {
			return m.ctrl.GeneratePosts(ctx, th.ID)
		})
	case keyIs(msg, m.keys.Delete):
		return m, m.do("delete theme", func(ctx context.Context) error {
			return m.ctrl.DeleteTheme(ctx, th.ID)
		})
	}
	return m, nil
}

func (m Model) handleThemeSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Select):
		m.apply("choose theme", m.ctrl.ChooseThemeOption(m.cursor))
	case keyIs(msg, m.keys.NewTheme):
		m.apply("new theme", m.ctrl.NewTheme())
	case keyIs(msg, m.keys.GenerateThemes), keyIs(msg, m.keys.RetryPosts):
		m.cursor = 0
		return m, m.do("generate themes", m.ctrl.StartThemeGeneration)
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenDashboard))
	}
	return m, nil
}

func (m Model) handleGeneratingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenDashboard))
	case keyIs(msg, m.keys.RetryPosts) && !m.snap.Generation(postsKind).Active():
		id := m.snap.SelectedThemeID
		return m, m.do("generate posts", func(ctx context.Context) error {
			return m.ctrl.GeneratePosts(ctx, id)
		})
	case keyIs(msg, m.keys.Select) && !m.snap.Generation(postsKind).Active():
		m.apply("view posts", m.ctrl.Navigate(flow.ScreenGeneratedPosts))
	}
	return m, nil
}

func (m Model) handleGeneratedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	th, _ := m.snap.SelectedTheme()
	switch {
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenDashboard))
	case keyIs(msg, m.keys.SelectAll):
		m.apply("select all", m.ctrl.SelectAllPosts(true))
	case keyIs(msg, m.keys.SelectNone):
		m.apply("clear selection", m.ctrl.SelectAllPosts(false))
	case keyIs(msg, m.keys.RetryPosts):
		return m, m.do("generate posts", func(ctx context.Context) error {
			return m.ctrl.GeneratePosts(ctx, th.ID)
		})
	case keyIs(msg, m.keys.Select):
		return m, m.do("confirm selection", func(ctx context.Context) error {
			_, err := m.ctrl.ConfirmSelection(ctx)
			return err
		})
	case m.cursor < len(th.Posts) && keyIs(msg, m.keys.TogglePost):
		m.apply("toggle post", m.ctrl.TogglePost(th.Posts[m.cursor].ID))
	case m.cursor < len(th.Posts) && keyIs(msg, m.keys.EditItem):
		m.apply("edit post", m.ctrl.OpenPostEditor(th.Posts[m.cursor].ID))
	}
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.previewPosts()
	switch {
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenGeneratedPosts))
	case keyIs(msg, m.keys.BulkSchedule):
		m.apply("schedule", m.ctrl.OpenScheduleEditor())
	case keyIs(msg, m.keys.Select):
		return m, m.do("publish", m.ctrl.SchedulePublish)
	case m.cursor < len(selected) && keyIs(msg, m.keys.EditItem):
		m.apply("edit post", m.ctrl.OpenPostEditor(selected[m.cursor].ID))
	}
	return m, nil
}

func (m Model) handlePlatformKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	platforms := model.AllPlatforms()
	switch {
	case keyIs(msg, m.keys.Back):
		m.apply("back", m.ctrl.Navigate(flow.ScreenInstagramPreview))
	case keyIs(msg, m.keys.Select) && m.cursor < len(platforms):
		m.apply("connect", m.ctrl.ConnectPlatform(platforms[m.cursor]))
	}
	return m, nil
}

func (m Model) handleSuccessKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Select), keyIs(msg, m.keys.Back):
		m.apply("dashboard", m.ctrl.Navigate(flow.ScreenDashboard))
	case keyIs(msg, m.keys.GenerateThemes):
		return m, m.do("generate themes", m.ctrl.StartThemeGeneration)
	case keyIs(msg, m.keys.NewTheme):
		m.apply("new theme", m.ctrl.NewTheme())
	}
	return m, nil
}
