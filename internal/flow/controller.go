package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/brandloom/internal/api"
	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/session"
	"github.com/five82/brandloom/internal/state"
	"github.com/five82/brandloom/internal/stream"
)

var (
	// ErrNoThemeSelected is returned by actions that need a selected theme.
	ErrNoThemeSelected = errors.New("no theme selected")

	// ErrNoBrandSelected is returned by actions that need a selected brand.
	ErrNoBrandSelected = errors.New("no brand selected")

	// ErrGenerationActive is returned when an action would race a running
	// post generation for the same theme.
	ErrGenerationActive = errors.New("generation in progress")

	// ErrBusy is returned when another remote operation is in flight.
	ErrBusy = errors.New("another request is in progress")

	// ErrSessionChanged is returned when a logout happened while a remote
	// call was in flight; its result is discarded.
	ErrSessionChanged = errors.New("session changed during request")

	// ErrWrongScreen is returned by actions invoked from a screen that does
	// not offer them.
	ErrWrongScreen = errors.New("action not available on this screen")

	// ErrNoPlatform is returned when publishing with no platform connected.
	ErrNoPlatform = errors.New("no platform connected")

	// ErrEmptyBrandName is returned when the brand name step is left blank.
	ErrEmptyBrandName = errors.New("brand name is required")

	// ErrNothingSelected is returned when confirming a batch with no posts
	// selected.
	ErrNothingSelected = errors.New("no posts selected")
)

// SessionStore persists the logged-in identity.
type SessionStore interface {
	Load() (session.Session, error)
	Save(session.Session) error
	Clear() error
}

// Notice is a blocking message for the user. It stays until dismissed.
type Notice struct {
	Title   string
	Message string
}

// Controller is the application context. It owns the navigator, the
// domain store and the generation streams, and is the only writer of any
// of them. Methods are safe for concurrent use; those taking a context
// block on the network and must not be called from the render loop.
type Controller struct {
	backend  api.Backend
	sessions SessionStore
	store    *state.Store
	logger   *slog.Logger
	now      func() time.Time

	streams stream.Registry

	mu          sync.Mutex
	epoch       uint64
	screen      Screen
	user        session.Session
	hydrating   bool
	busy        bool
	brandID     string
	themeID     string
	showSaved   bool
	brandDraft  BrandDraft
	themeDraft  *ThemeDraft
	gens        [3]genState
	overlay     Overlay
	notice      *Notice
	subscribers map[int]func()
	nextSub     int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now for schedule computation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a Controller on the login screen. Call Init to restore a
// stored session.
func New(backend api.Backend, sessions SessionStore, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		sessions:    sessions,
		store:       &state.Store{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		screen:      ScreenLogin,
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to be called after every state change. Callbacks
// run on the goroutine that made the change, without locks held, and must
// not block. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	subs := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// update runs fn under the lock and notifies subscribers afterwards.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	err := fn()
	c.mu.Unlock()
	c.notify()
	return err
}

// Init restores the stored session. Without one the controller stays on
// login; with one it hydrates the store and lands on dashboard or welcome.
func (c *Controller) Init(ctx context.Context) error {
	sess, err := c.sessions.Load()
	if err != nil {
		c.logger.Warn("session unreadable, starting logged out", "error", err)
	}

	c.mu.Lock()
	c.resetLocked()
	if !sess.Valid() {
		c.mu.Unlock()
		c.notify()
		return nil
	}
	c.user = sess
	c.hydrating = true
	epoch := c.epoch
	c.backend.SetUserID(sess.UserID)
	c.mu.Unlock()
	c.notify()

	c.logger.Info("restoring session", "user_id", sess.UserID)
	return c.hydrate(ctx, epoch)
}

// Login authenticates username, stores the session and hydrates.
func (c *Controller) Login(ctx context.Context, username string) error {
	c.mu.Lock()
	if c.screen != ScreenLogin {
		c.mu.Unlock()
		return ErrWrongScreen
	}
	epoch, err := c.beginLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()

	resp, err := c.backend.Login(ctx, username)

	c.mu.Lock()
	if ferr := c.finishLocked(epoch); ferr != nil {
		c.mu.Unlock()
		return ferr
	}
	if err != nil {
		c.notice = noticeFor("Login failed", err)
		c.mu.Unlock()
		c.notify()
		c.logger.Warn("login failed", "error", err)
		return fmt.Errorf("login: %w", err)
	}
	sess := session.Session{Username: resp.Username, UserID: resp.UID}
	if sess.Username == "" {
		sess.Username = username
	}
	c.user = sess
	c.hydrating = true
	c.backend.SetUserID(sess.UserID)
	c.mu.Unlock()
	c.notify()

	if err := c.sessions.Save(sess); err != nil {
		c.logger.Warn("session not persisted", "error", err)
	}
	c.logger.Info("logged in", "user_id", sess.UserID)
	return c.hydrate(ctx, epoch)
}

// hydrate loads brands and themes. Failures fall back to an empty store on
// welcome and are only logged.
func (c *Controller) hydrate(ctx context.Context, epoch uint64) error {
	brands, err := c.backend.ListBrands(ctx)
	var themes []model.Theme
	if err == nil {
		themes, err = c.backend.ListThemes(ctx)
	}

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return ErrSessionChanged
	}
	c.hydrating = false
	if err != nil {
		c.store.Hydrate(nil, nil)
		c.screen = ScreenWelcome
		c.mu.Unlock()
		c.notify()
		c.logger.Warn("hydration failed, continuing with empty store", "error", err)
		return nil
	}
	c.store.Hydrate(brands, themes)
	if len(brands) > 0 {
		c.brandID = brands[0].ID
		c.screen = ScreenDashboard
	} else {
		c.screen = ScreenWelcome
	}
	c.mu.Unlock()
	c.notify()
	c.logger.Info("store hydrated", "brands", len(brands), "themes", len(themes))
	return nil
}

// Logout cancels streams and clears the session and the store in one step,
// then returns to login.
func (c *Controller) Logout() error {
	var clearErr error
	_ = c.update(func() error {
		c.resetLocked()
		clearErr = c.sessions.Clear()
		return nil
	})
	if clearErr != nil {
		c.logger.Warn("session file not cleared", "error", clearErr)
		return fmt.Errorf("logout: %w", clearErr)
	}
	c.logger.Info("logged out")
	return nil
}

// Reset drops all in-memory state and returns to login. The stored
// session is left alone.
func (c *Controller) Reset() {
	_ = c.update(func() error {
		c.resetLocked()
		return nil
	})
}

// Close cancels every open stream.
func (c *Controller) Close() {
	c.streams.CancelAll()
}

func (c *Controller) resetLocked() {
	c.streams.CancelAll()
	c.epoch++
	c.store.Reset()
	c.backend.SetUserID("")
	c.user = session.Session{}
	c.screen = ScreenLogin
	c.hydrating = false
	c.busy = false
	c.brandID = ""
	c.themeID = ""
	c.showSaved = false
	c.brandDraft = BrandDraft{}
	c.themeDraft = nil
	c.gens = [3]genState{}
	c.overlay = Overlay{}
	c.notice = nil
}

func (c *Controller) beginLocked() (uint64, error) {
	if c.busy {
		return 0, ErrBusy
	}
	c.busy = true
	return c.epoch, nil
}

func (c *Controller) finishLocked(epoch uint64) error {
	if epoch != c.epoch {
		return ErrSessionChanged
	}
	c.busy = false
	return nil
}

// begin runs check under the lock and marks a remote call in flight.
func (c *Controller) begin(check func() error) (uint64, error) {
	c.mu.Lock()
	if check != nil {
		if err := check(); err != nil {
			c.mu.Unlock()
			return 0, err
		}
	}
	epoch, err := c.beginLocked()
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}
	c.notify()
	return epoch, nil
}

// commit applies the result of a remote call begun at epoch. apply runs
// under the lock only when callErr is nil; a failure of either becomes a
// notice titled title and leaves the state as it was.
func (c *Controller) commit(epoch uint64, title string, callErr error, apply func() error) error {
	c.mu.Lock()
	if err := c.finishLocked(epoch); err != nil {
		c.mu.Unlock()
		return err
	}
	err := callErr
	if err == nil && apply != nil {
		err = apply()
	}
	if err != nil {
		c.notice = noticeFor(title, err)
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// Navigate follows a user-initiated edge of the transition table. Screens
// that need a selected theme or brand redirect to dashboard when the
// selection does not resolve.
func (c *Controller) Navigate(to Screen) error {
	return c.update(func() error {
		return c.navigateLocked(to)
	})
}

func (c *Controller) navigateLocked(to Screen) error {
	if !CanTransition(c.screen, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.screen, to)
	}
	c.goLocked(to)
	return nil
}

// goLocked moves to a screen without consulting the table, applying the
// selection guards, stream ownership and overlay rules.
func (c *Controller) goLocked(to Screen) Screen {
	if RequiresTheme(to) && !c.themeResolvesLocked() {
		c.logger.Debug("redirecting, no theme selected", "screen", to.String())
		to = ScreenDashboard
	}
	if RequiresBrand(to) && !c.brandResolvesLocked() {
		c.logger.Debug("redirecting, no brand selected", "screen", to.String())
		to = ScreenDashboard
	}
	if to == ScreenDashboard {
		c.themeDraft = nil
	}
	if to == ScreenThemeProposal && c.themeDraft == nil {
		d := NewThemeDraft(c.brandID)
		c.themeDraft = &d
	}
	for _, k := range []stream.Kind{stream.ThemeOptions, stream.ThemeImages, stream.Posts} {
		if owns(c.screen, k) && !owns(to, k) {
			c.cancelLocked(k)
		}
	}
	if c.overlay.Open() && !overlayAllowed(c.overlay.Kind, to) {
		c.overlay = Overlay{}
	}
	if to != c.screen {
		c.logger.Debug("navigate", "from", c.screen.String(), "to", to.String())
	}
	c.screen = to
	return to
}

func (c *Controller) themeResolvesLocked() bool {
	if c.themeID == "" {
		return false
	}
	_, ok := c.store.Theme(c.themeID)
	return ok
}

func (c *Controller) brandResolvesLocked() bool {
	if c.brandID == "" {
		return false
	}
	_, ok := c.store.Brand(c.brandID)
	return ok
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// DismissNotice closes the blocking notice.
func (c *Controller) DismissNotice() {
	_ = c.update(func() error {
		c.notice = nil
		return nil
	})
}

// Snapshot returns a consistent copy of everything the UI renders.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Screen:          c.screen,
		User:            c.user,
		Hydrating:       c.hydrating,
		Busy:            c.busy,
		State:           c.store.Snapshot(),
		SelectedBrandID: c.brandID,
		SelectedThemeID: c.themeID,
		ShowingSaved:    c.showSaved,
		BrandDraft:      c.brandDraft.clone(),
		Overlay:         c.overlay.clone(),
		Generations:     make(map[stream.Kind]GenerationView, len(c.gens)),
	}
	if c.themeDraft != nil {
		d := c.themeDraft.clone()
		snap.ThemeDraft = &d
	}
	if c.notice != nil {
		n := *c.notice
		snap.Notice = &n
	}
	for i := range c.gens {
		snap.Generations[stream.Kind(i)] = c.gens[i].view(stream.Kind(i))
	}
	return snap
}

func noticeFor(title string, err error) *Notice {
	msg := err.Error()
	var se *api.StatusError
	switch {
	case errors.As(err, &se) && se.Message != "":
		msg = se.Message
	case errors.Is(err, api.ErrTransport):
		msg = "The server could not be reached. Check your connection and try again."
	case errors.Is(err, api.ErrProtocol):
		msg = "The server sent a response that could not be read."
	}
	return &Notice{Title: title, Message: msg}
}
