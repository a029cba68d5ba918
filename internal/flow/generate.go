package flow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/stream"
)

// GenState is the lifecycle of one generation kind.
type GenState int

const (
	GenIdle GenState = iota
	GenGenerating
)

func (s GenState) String() string {
	if s == GenGenerating {
		return "generating"
	}
	return "idle"
}

// Outcome records how the last generation of a kind ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeComplete
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

type genState struct {
	state   GenState
	outcome Outcome
	owner   string
	options []model.ThemeOption
	posts   []model.Post
	index   int
	total   int
	err     string
}

func (g genState) view(kind stream.Kind) GenerationView {
	return GenerationView{
		Kind:    kind,
		State:   g.state,
		Outcome: g.outcome,
		Owner:   g.owner,
		Options: cloneOptions(g.options),
		Posts:   model.ClonePosts(g.posts),
		Index:   g.index,
		Total:   g.total,
		Err:     g.err,
	}
}

// StartThemeGeneration opens theme-selection and streams theme options for
// the selected brand.
func (c *Controller) StartThemeGeneration(ctx context.Context) error {
	var brandID string
	err := c.update(func() error {
		if !c.brandResolvesLocked() {
			return ErrNoBrandSelected
		}
		if err := c.navigateLocked(ScreenThemeSelection); err != nil {
			return err
		}
		brandID = c.brandID
		return nil
	})
	if err != nil {
		return err
	}
	return c.startStream(ctx, stream.ThemeOptions, brandID, func(ctx context.Context) (io.ReadCloser, error) {
		return c.backend.OpenThemeOptionsStream(ctx, brandID)
	})
}

// RegenerateImages streams new preview images for the theme draft.
func (c *Controller) RegenerateImages(ctx context.Context) error {
	var (
		brandID string
		params  model.Theme
	)
	err := c.update(func() error {
		if c.screen != ScreenThemeProposal || c.themeDraft == nil {
			return ErrWrongScreen
		}
		brandID = c.themeDraft.BrandID
		params = c.themeDraft.Theme()
		return nil
	})
	if err != nil {
		return err
	}
	return c.startStream(ctx, stream.ThemeImages, brandID, func(ctx context.Context) (io.ReadCloser, error) {
		return c.backend.OpenImageRegenerationStream(ctx, brandID, params)
	})
}

// GeneratePosts selects themeID, opens generating-posts and streams posts
// into the theme.
func (c *Controller) GeneratePosts(ctx context.Context, themeID string) error {
	err := c.update(func() error {
		if _, ok := c.store.Theme(themeID); !ok {
			return fmt.Errorf("generate posts: %w", ErrNoThemeSelected)
		}
		if !CanTransition(c.screen, ScreenGeneratingPosts) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.screen, ScreenGeneratingPosts)
		}
		c.selectThemeLocked(themeID)
		c.goLocked(ScreenGeneratingPosts)
		return nil
	})
	if err != nil {
		return err
	}
	return c.startStream(ctx, stream.Posts, themeID, func(ctx context.Context) (io.ReadCloser, error) {
		return c.backend.OpenPostsStream(ctx, themeID)
	})
}

// CancelGeneration closes the active stream of kind. Posts already
// committed to a theme stay.
func (c *Controller) CancelGeneration(kind stream.Kind) bool {
	var cancelled bool
	_ = c.update(func() error {
		cancelled = c.cancelLocked(kind)
		return nil
	})
	return cancelled
}

func (c *Controller) cancelLocked(kind stream.Kind) bool {
	if !c.streams.Cancel(kind) {
		return false
	}
	gs := &c.gens[kind]
	gs.state = GenIdle
	gs.outcome = OutcomeCancelled
	gs.options = nil
	gs.posts = nil
	c.logger.Info("generation cancelled", "kind", kind.String(), "owner", gs.owner)
	return true
}

// startStream registers a handle, closing any earlier one of the same
// kind, then opens the connection and pumps it on a new goroutine.
func (c *Controller) startStream(ctx context.Context, kind stream.Kind, owner string, open func(context.Context) (io.ReadCloser, error)) error {
	var g *stream.Generation
	_ = c.update(func() error {
		g = c.streams.Start(ctx, kind, owner)
		c.gens[kind] = genState{state: GenGenerating, owner: owner}
		return nil
	})
	c.logger.Info("generation started", "kind", kind.String(), "owner", owner, "handle", g.ID())

	body, err := open(g.Context())
	if err != nil {
		if g.Closed() && errors.Is(err, context.Canceled) {
			return nil
		}
		_ = c.update(func() error {
			if c.streams.Current(g) {
				c.failLocked(g, noticeFor(failureTitle(kind), err).Message)
			}
			return nil
		})
		return fmt.Errorf("open %s stream: %w", kind, err)
	}

	go func() {
		err := stream.Pump(g.Context(), body, func(ev stream.Event) bool {
			return c.applyEvent(g, ev)
		})
		c.endStream(g, err)
	}()
	return nil
}

// applyEvent folds one event into the state. It returns false once the
// handle is stale or the event was terminal.
func (c *Controller) applyEvent(g *stream.Generation, ev stream.Event) bool {
	c.mu.Lock()
	if !c.streams.Current(g) {
		c.mu.Unlock()
		return false
	}
	gs := &c.gens[g.Kind()]
	more := true

	switch ev := ev.(type) {
	case stream.ThemeOptionEvent:
		if g.Kind() == stream.Posts {
			c.failLocked(g, "unexpected theme option on post stream")
			more = false
			break
		}
		gs.options = append(gs.options, ev.Option)
		gs.index, gs.total = ev.Index, ev.Total

	case stream.PostEvent:
		if g.Kind() != stream.Posts {
			c.failLocked(g, "unexpected post on theme stream")
			more = false
			break
		}
		p := ev.Post
		if p.ThemeID == "" {
			p.ThemeID = g.Owner()
		}
		gs.posts = append(gs.posts, p)
		gs.index, gs.total = ev.Index, ev.Total
		if !c.store.AppendPost(g.Owner(), p) {
			c.logger.Debug("post for unknown theme kept in generating list only", "theme_id", g.Owner(), "post_id", p.ID)
		}

	case stream.CompleteEvent:
		c.streams.Finish(g)
		gs.state = GenIdle
		gs.outcome = OutcomeComplete
		if ev.Total > 0 {
			gs.total = ev.Total
		}
		c.logger.Info("generation complete", "kind", g.Kind().String(), "owner", g.Owner(), "received", max(len(gs.options), len(gs.posts)))
		if g.Kind() == stream.Posts && c.screen == ScreenGeneratingPosts {
			c.goLocked(ScreenGeneratedPosts)
		}
		more = false

	case stream.ErrorEvent:
		c.failLocked(g, ev.Message)
		more = false
	}

	c.mu.Unlock()
	c.notify()
	return more
}

// endStream handles a stream that stopped without a terminal event.
func (c *Controller) endStream(g *stream.Generation, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	c.mu.Lock()
	if !c.streams.Current(g) {
		c.mu.Unlock()
		return
	}
	var pe *stream.ProtocolError
	switch {
	case err == nil:
		c.failLocked(g, "The connection closed before generation finished.")
	case errors.As(err, &pe):
		c.failLocked(g, "The server sent an event that could not be read.")
	default:
		c.failLocked(g, "The connection to the server was lost.")
	}
	c.mu.Unlock()
	c.notify()
	c.logger.Warn("generation stream ended", "kind", g.Kind().String(), "owner", g.Owner(), "error", err)
}

// failLocked closes g and unwinds its ephemeral list. Posts already
// committed to their theme stay. A failed theme option generation returns
// to dashboard.
func (c *Controller) failLocked(g *stream.Generation, msg string) {
	kind := g.Kind()
	c.streams.Finish(g)
	gs := &c.gens[kind]
	gs.state = GenIdle
	gs.outcome = OutcomeFailed
	gs.err = msg
	gs.options = nil
	gs.posts = nil
	c.notice = &Notice{Title: failureTitle(kind), Message: msg}
	c.logger.Warn("generation failed", "kind", kind.String(), "owner", g.Owner(), "error", msg)
	if kind == stream.ThemeOptions && c.screen == ScreenThemeSelection {
		c.goLocked(ScreenDashboard)
	}
}

func failureTitle(kind stream.Kind) string {
	switch kind {
	case stream.ThemeOptions:
		return "Theme generation failed"
	case stream.ThemeImages:
		return "Image regeneration failed"
	default:
		return "Post generation failed"
	}
}

func cloneOptions(in []model.ThemeOption) []model.ThemeOption {
	if in == nil {
		return nil
	}
	out := make([]model.ThemeOption, len(in))
	for i, o := range in {
		out[i] = o
		out[i].Colors = append([]string(nil), o.Colors...)
	}
	return out
}
