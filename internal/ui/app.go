package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/logging"
	"github.com/five82/brandloom/internal/prefs"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *flow.Controller
	Logger     *slog.Logger
	ThemeName  string
	PrefsPath  string
	// LastUsername prefills the login form.
	LastUsername string
	// SkipInit leaves session restore to the caller.
	SkipInit bool
}

// Model is the root application state for Bubble Tea. It renders controller
// snapshots and turns keys into controller calls; it holds no domain state
// of its own beyond form buffers and cursors.
type Model struct {
	ctx       context.Context
	ctrl      *flow.Controller
	logger    *slog.Logger
	prefsPath string
	skipInit  bool

	changes chan struct{}
	unsub   func()

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool

	snap flow.Snapshot

	// Input buffers, rebuilt when the screen or staged draft changes.
	form    form
	formKey string
	modal   Modal
	modalOf string

	cursor      int
	imageCursor int
	status      string
	username    string

	spinner  spinner.Model
	progress progress.Model
	body     viewport.Model
}

// New creates a new Bubble Tea model bound to opts.Controller.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		logger:    logger,
		prefsPath: opts.PrefsPath,
		skipInit:  opts.SkipInit,
		changes:   make(chan struct{}, 1),
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		username:  opts.LastUsername,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	changes := m.changes
	m.unsub = m.ctrl.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.spinner.Tick,
		waitForChange(m.ctx, m.changes),
	}
	if !m.skipInit {
		cmds = append(cmds, m.do("restore session", m.ctrl.Init))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.body = viewport.New(msg.Width, m.bodyHeight())
		}
		m.body.Width = msg.Width
		m.body.Height = m.bodyHeight()
		m.progress.Width = min(60, max(10, msg.Width-10))
		m.ready = true
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, waitForChange(m.ctx, m.changes)

	case actionDoneMsg:
		m.refresh()
		m.reportError(msg.action, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.snap.Notice != nil {
		return m.renderNotice(*m.snap.Notice)
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Layers are consulted top-down: help,
// notice, modal, then the screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.status = ""

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.snap.Notice != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			m.ctrl.DismissNotice()
			m.refresh()
		}
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = modal
		if closed {
			m.ctrl.CloseOverlay()
			m.refresh()
		}
		return m, cmd
	}

	if usesForm(m.snap.Screen) && !m.snap.Hydrating {
		return m.handleFormKey(msg)
	}

	switch {
	case keyIs(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case keyIs(msg, m.keys.Quit):
		return m, tea.Quit
	case keyIs(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case keyIs(msg, m.keys.Logout) && m.snap.LoggedIn():
		m.apply("log out", m.ctrl.Logout())
		return m, nil
	}

	return m.handleScreenKey(msg)
}

// handleScreenKey dispatches list-style screens.
func (m Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyIs(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case keyIs(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case keyIs(msg, m.keys.Top):
		m.cursor = 0
		return m, nil
	case keyIs(msg, m.keys.Bottom):
		m.cursor = max(0, m.listLen()-1)
		return m, nil
	}

	switch m.snap.Screen {
	case flow.ScreenWelcome:
		return m.handleWelcomeKey(msg)
	case flow.ScreenBrandProposal:
		return m.handleBrandProposalKey(msg)
	case flow.ScreenDashboard:
		return m.handleDashboardKey(msg)
	case flow.ScreenThemeSelection:
		return m.handleThemeSelectionKey(msg)
	case flow.ScreenGeneratingPosts:
		return m.handleGeneratingKey(msg)
	case flow.ScreenGeneratedPosts:
		return m.handleGeneratedKey(msg)
	case flow.ScreenInstagramPreview:
		return m.handlePreviewKey(msg)
	case flow.ScreenPlatformConnection:
		return m.handlePlatformKey(msg)
	case flow.ScreenSuccess:
		return m.handleSuccessKey(msg)
	}
	return m, nil
}

// refresh pulls a new snapshot and brings input buffers in line with it.
func (m *Model) refresh() {
	m.snap = m.ctrl.Snapshot()
	m.syncForm()
	m.syncModal()
	if n := m.listLen(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if n := len(m.snap.Generation(imagesKind).Options); m.imageCursor >= n {
		m.imageCursor = max(0, n-1)
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.listLen()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = m.theme.Name }); err != nil {
		m.logger.Warn("theme preference not saved", "error", err)
	}
}

// apply records the result of a synchronous controller call.
func (m *Model) apply(action string, err error) {
	m.refresh()
	m.reportError(action, err)
}

// reportError shows local failures on the status line. Remote failures
// already carry a notice.
func (m *Model) reportError(action string, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, flow.ErrSessionChanged), errors.Is(err, context.Canceled):
		m.logger.Debug("action result discarded", "action", action, "error", err)
		return
	case errors.Is(err, flow.ErrInvalidTransition), errors.Is(err, flow.ErrNoThemeSelected),
		errors.Is(err, flow.ErrNoBrandSelected):
		// Stale navigation; the controller has already repaired it.
		m.logger.Debug("navigation repaired", "action", action, "error", err)
		return
	case errors.Is(err, flow.ErrNoPlatform):
		m.status = "Connect a platform before publishing."
	case flow.IsValidation(err):
		m.status = statusText(err)
	case m.snap.Notice == nil:
		m.status = action + ": " + err.Error()
	}
	m.logger.Debug("action failed", "action", action, "error", err)
}

func statusText(err error) string {
	msg := err.Error()
	if msg == "" {
		return ""
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (m Model) bodyHeight() int {
	return max(1, m.height-4)
}

// Messages

type stateChangedMsg struct{}

type actionDoneMsg struct {
	action string
	err    error
}

// Commands

// waitForChange blocks until the controller reports a change. Changes are
// coalesced, so a burst of stream events yields one redraw.
func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// do runs a blocking controller call off the event loop.
func (m Model) do(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsub()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
