package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/model"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// syncModal opens, replaces or drops the modal to match the controller's
// overlay. A modal already showing the same overlay keeps its input.
func (m *Model) syncModal() {
	ov := m.snap.Overlay
	if !ov.Open() {
		m.modal, m.modalOf = nil, ""
		return
	}
	id := ov.Kind.String() + "/" + ov.Post.ID + "/" + ov.Schedule.PostID
	if id == m.modalOf && m.modal != nil {
		return
	}
	m.modalOf = id

	ctrl, ctx := m.ctrl, m.ctx
	switch ov.Kind {
	case flow.OverlayPostEditor:
		m.modal = newPostEditor(ov.Post, func(edit flow.PostEdit) tea.Cmd {
			return func() tea.Msg {
				return actionDoneMsg{action: "save post", err: ctrl.SavePostEdit(ctx, edit)}
			}
		})
	case flow.OverlayScheduleEditor:
		m.modal = newScheduleEditor(ov.Post, ov.Schedule, func(form flow.ScheduleForm) tea.Cmd {
			return func() tea.Msg {
				return actionDoneMsg{action: "schedule", err: ctrl.ApplySchedule(ctx, form)}
			}
		})
	}
}

// postEditor edits one post's type, caption, hashtags and schedule.
type postEditor struct {
	post   model.Post
	form   form
	submit func(flow.PostEdit) tea.Cmd
}

func newPostEditor(p model.Post, submit func(flow.PostEdit) tea.Cmd) *postEditor {
	var types []string
	for _, pt := range model.PostTypes() {
		types = append(types, string(pt))
	}
	at := ""
	if p.ScheduledTime != nil {
		at = *p.ScheduledTime
	}
	return &postEditor{
		post: p,
		form: newForm(
			choiceField("Post type", types, string(p.PostType)),
			textField("Caption", p.Caption, "Caption"),
			textField("Hashtags", strings.Join(p.Hashtags, " "), "#space #separated"),
			textField("Scheduled", at, "YYYY-MM-DD HH:MM, empty for draft"),
		),
		submit: submit,
	}
}

func (e *postEditor) edit() flow.PostEdit {
	return flow.PostEdit{
		PostType:      model.PostType(e.form.value(0)),
		Caption:       e.form.value(1),
		Hashtags:      e.form.value(2),
		ScheduledTime: e.form.value(3),
	}
}

func (e *postEditor) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyIs(k, keys.Back):
			return e, nil, true
		case keyIs(k, keys.Submit), keyIs(k, keys.Save):
			return e, e.submit(e.edit()), false
		case keyIs(k, keys.NextField):
			e.form.next()
			return e, nil, false
		case keyIs(k, keys.PrevField):
			e.form.prev()
			return e, nil, false
		}
	}
	var cmd tea.Cmd
	e.form, cmd = e.form.Update(msg)
	return e, cmd, false
}

func (e *postEditor) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	w := modalWidth(width)
	var b strings.Builder
	b.WriteString(styles.Title.Render("Edit Post"))
	if e.post.ImageURL != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(truncate(e.post.ImageURL, w-4)))
	}
	b.WriteString("\n\n")
	b.WriteString(e.form.View(styles, w-4))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter save · tab next field · esc cancel"))
	return placeModal(theme, width, height, w, b.String())
}

// scheduleEditor is the bulk schedule form, or the single post form when
// the overlay names a post.
type scheduleEditor struct {
	post   model.Post
	single bool
	postID string
	form   form
	submit func(flow.ScheduleForm) tea.Cmd
}

func newScheduleEditor(p model.Post, sf flow.ScheduleForm, submit func(flow.ScheduleForm) tea.Cmd) *scheduleEditor {
	e := &scheduleEditor{post: p, single: sf.Single(), postID: sf.PostID, submit: submit}
	if e.single {
		e.form = newForm(
			textField("Date", sf.Date, "YYYY-MM-DD"),
			textField("Time", sf.PreferredTime, "HH:MM"),
		)
		return e
	}
	var labels []string
	current := ""
	for _, f := range flow.Frequencies() {
		labels = append(labels, f.Label())
		if f == sf.Frequency {
			current = f.Label()
		}
	}
	e.form = newForm(
		choiceField("Frequency", labels, current),
		textField("Time", sf.PreferredTime, "HH:MM"),
	)
	return e
}

func (e *scheduleEditor) schedule() flow.ScheduleForm {
	if e.single {
		return flow.ScheduleForm{PostID: e.postID, Date: e.form.value(0), PreferredTime: e.form.value(1)}
	}
	out := flow.ScheduleForm{PreferredTime: e.form.value(1)}
	label := e.form.value(0)
	for _, f := range flow.Frequencies() {
		if f.Label() == label {
			out.Frequency = f
		}
	}
	return out
}

func (e *scheduleEditor) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyIs(k, keys.Back):
			return e, nil, true
		case keyIs(k, keys.Submit), keyIs(k, keys.Save):
			return e, e.submit(e.schedule()), false
		case keyIs(k, keys.NextField):
			e.form.next()
			return e, nil, false
		case keyIs(k, keys.PrevField):
			e.form.prev()
			return e, nil, false
		}
	}
	var cmd tea.Cmd
	e.form, cmd = e.form.Update(msg)
	return e, cmd, false
}

func (e *scheduleEditor) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	w := modalWidth(width)
	var b strings.Builder
	if e.single {
		b.WriteString(styles.Title.Render("Schedule Post"))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(truncate(e.post.Caption, w-4)))
	} else {
		b.WriteString(styles.Title.Render("Schedule Selected Posts"))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Posts are spaced out from today at the chosen time."))
	}
	b.WriteString("\n\n")
	b.WriteString(e.form.View(styles, w-4))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter apply · left/right change · esc cancel"))
	return placeModal(theme, width, height, w, b.String())
}

// renderNotice renders the blocking notice dialog.
func (m Model) renderNotice(n flow.Notice) string {
	styles := m.theme.Styles()
	w := min(modalWidth(m.width), 60)
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(n.Title))
	if n.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(w - 6).Render(styles.Text.Render(n.Message)))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter dismiss"))
	return placeModal(m.theme, m.width, m.height, w, b.String())
}

func modalWidth(width int) int {
	return min(max(width-8, 30), 80)
}

func placeModal(theme Theme, width, height, modalW int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalW).
		Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
