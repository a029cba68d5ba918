package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/stream"
)

// SelectTheme makes id the selected theme and its brand the selected
// brand.
func (c *Controller) SelectTheme(id string) error {
	return c.update(func() error {
		if !c.selectThemeLocked(id) {
			return fmt.Errorf("select theme %q: %w", id, ErrNoThemeSelected)
		}
		return nil
	})
}

func (c *Controller) selectThemeLocked(id string) bool {
	th, ok := c.store.Theme(id)
	if !ok {
		return false
	}
	c.themeID = th.ID
	c.brandID = th.BrandID
	return true
}

// ChooseThemeOption stages the i-th streamed option and opens
// theme-proposal. The options stream is closed on the way.
func (c *Controller) ChooseThemeOption(i int) error {
	return c.update(func() error {
		if c.screen != ScreenThemeSelection {
			return ErrWrongScreen
		}
		opts := c.gens[stream.ThemeOptions].options
		if i < 0 || i >= len(opts) {
			return fmt.Errorf("theme option %d of %d: %w", i, len(opts), ErrNoThemeSelected)
		}
		d := ThemeDraftFromOption(c.brandID, opts[i])
		c.themeDraft = &d
		return c.navigateLocked(ScreenThemeProposal)
	})
}

// NewTheme opens theme-proposal with a blank draft for the selected brand.
func (c *Controller) NewTheme() error {
	return c.update(func() error {
		if !c.brandResolvesLocked() {
			return ErrNoBrandSelected
		}
		if !CanTransition(c.screen, ScreenThemeProposal) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.screen, ScreenThemeProposal)
		}
		d := NewThemeDraft(c.brandID)
		c.themeDraft = &d
		c.goLocked(ScreenThemeProposal)
		return nil
	})
}

// EditTheme stages a stored theme on theme-proposal.
func (c *Controller) EditTheme(id string) error {
	return c.update(func() error {
		th, ok := c.store.Theme(id)
		if !ok {
			return fmt.Errorf("edit theme %q: %w", id, ErrNoThemeSelected)
		}
		if !CanTransition(c.screen, ScreenThemeProposal) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.screen, ScreenThemeProposal)
		}
		c.selectThemeLocked(id)
		d := ThemeDraftFrom(th)
		c.themeDraft = &d
		c.goLocked(ScreenThemeProposal)
		return nil
	})
}

// EditThemeDraft applies patch to the staged draft. Its identity fields
// cannot be changed.
func (c *Controller) EditThemeDraft(patch func(*ThemeDraft)) error {
	return c.update(func() error {
		if c.screen != ScreenThemeProposal || c.themeDraft == nil {
			return ErrWrongScreen
		}
		d := c.themeDraft.clone()
		patch(&d)
		d.LocalID = c.themeDraft.LocalID
		d.ThemeID = c.themeDraft.ThemeID
		d.BrandID = c.themeDraft.BrandID
		c.themeDraft = &d
		return nil
	})
}

// ChooseImageOption applies the look of the i-th regenerated image to the
// draft.
func (c *Controller) ChooseImageOption(i int) error {
	return c.update(func() error {
		if c.screen != ScreenThemeProposal || c.themeDraft == nil {
			return ErrWrongScreen
		}
		opts := c.gens[stream.ThemeImages].options
		if i < 0 || i >= len(opts) {
			return fmt.Errorf("image option %d of %d: %w", i, len(opts), ErrNoThemeSelected)
		}
		d := c.themeDraft.ApplyOption(opts[i])
		c.themeDraft = &d
		return nil
	})
}

// CreateTheme sends draft and stores and selects the created theme.
func (c *Controller) CreateTheme(ctx context.Context, draft ThemeDraft) (model.Theme, error) {
	th := draft.Theme()
	th.ID = ""
	epoch, err := c.begin(func() error {
		if _, ok := c.store.Brand(th.BrandID); !ok {
			return fmt.Errorf("create theme: %w", ErrNoBrandSelected)
		}
		return nil
	})
	if err != nil {
		return model.Theme{}, err
	}

	created, err := c.backend.CreateTheme(ctx, th)
	err = c.commit(epoch, "Could not create theme", err, func() error {
		if created.BrandID == "" {
			created.BrandID = th.BrandID
		}
		if err := c.store.AddTheme(created); err != nil {
			return err
		}
		c.selectThemeLocked(created.ID)
		return nil
	})
	if err != nil {
		c.logger.Warn("create theme failed", "brand_id", th.BrandID, "error", err)
		return model.Theme{}, fmt.Errorf("create theme: %w", err)
	}
	c.logger.Info("theme created", "theme_id", created.ID, "brand_id", created.BrandID)
	return created, nil
}

// UpdateTheme sends update and replaces the stored theme with the
// server's copy. When the server returns no body the update is merged
// locally. On failure the stored theme is unchanged.
func (c *Controller) UpdateTheme(ctx context.Context, id string, update model.ThemeUpdate) error {
	epoch, err := c.begin(func() error {
		if _, ok := c.store.Theme(id); !ok {
			return fmt.Errorf("update theme %q: %w", id, ErrNoThemeSelected)
		}
		if update.SetPosts && c.postsStreamingLocked(id) {
			return ErrGenerationActive
		}
		return nil
	})
	if err != nil {
		return err
	}

	updated, err := c.backend.UpdateTheme(ctx, id, update)
	err = c.commit(epoch, "Could not update theme", err, func() error {
		current, ok := c.store.Theme(id)
		if !ok {
			return fmt.Errorf("update theme %q: %w", id, ErrNoThemeSelected)
		}
		next := update.Apply(current)
		if updated != nil {
			next = *updated
			next.ID = id
			if next.BrandID == "" {
				next.BrandID = current.BrandID
			}
		}
		return c.store.ReplaceTheme(next)
	})
	if err != nil {
		c.logger.Warn("update theme failed", "theme_id", id, "error", err)
		return fmt.Errorf("update theme: %w", err)
	}
	c.logger.Info("theme updated", "theme_id", id, "posts_replaced", update.SetPosts)
	return nil
}

func (c *Controller) postsStreamingLocked(themeID string) bool {
	g := c.streams.Active(stream.Posts)
	return g != nil && g.Owner() == themeID
}

// SaveTheme creates or updates the staged draft and returns to dashboard.
func (c *Controller) SaveTheme(ctx context.Context) (model.Theme, error) {
	th, err := c.saveDraft(ctx)
	if err != nil {
		return model.Theme{}, err
	}
	_ = c.update(func() error {
		if c.screen == ScreenThemeProposal {
			c.goLocked(ScreenDashboard)
		}
		return nil
	})
	return th, nil
}

// SaveThemeAndGenerate saves the staged draft and starts generating its
// posts.
func (c *Controller) SaveThemeAndGenerate(ctx context.Context) (model.Theme, error) {
	th, err := c.saveDraft(ctx)
	if err != nil {
		return model.Theme{}, err
	}
	if err := c.GeneratePosts(ctx, th.ID); err != nil {
		return th, err
	}
	return th, nil
}

func (c *Controller) saveDraft(ctx context.Context) (model.Theme, error) {
	c.mu.Lock()
	if c.screen != ScreenThemeProposal || c.themeDraft == nil {
		c.mu.Unlock()
		return model.Theme{}, ErrWrongScreen
	}
	draft := c.themeDraft.clone()
	c.mu.Unlock()

	if draft.ThemeID == "" {
		th, err := c.CreateTheme(ctx, draft)
		if err != nil {
			return model.Theme{}, err
		}
		_ = c.update(func() error {
			if c.themeDraft != nil && c.themeDraft.LocalID == draft.LocalID {
				c.themeDraft.ThemeID = th.ID
			}
			return nil
		})
		return th, nil
	}

	if err := c.UpdateTheme(ctx, draft.ThemeID, draft.Update()); err != nil {
		return model.Theme{}, err
	}
	c.mu.Lock()
	th, ok := c.store.Theme(draft.ThemeID)
	if ok {
		c.selectThemeLocked(th.ID)
	}
	c.mu.Unlock()
	if !ok {
		return model.Theme{}, ErrSessionChanged
	}
	return th, nil
}

// DeleteTheme removes a theme remotely, then locally with its saved posts.
// A posts stream for the theme is cancelled.
func (c *Controller) DeleteTheme(ctx context.Context, id string) error {
	epoch, err := c.begin(func() error {
		if _, ok := c.store.Theme(id); !ok {
			return fmt.Errorf("delete theme %q: %w", id, ErrNoThemeSelected)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = c.backend.DeleteTheme(ctx, id)
	err = c.commit(epoch, "Could not delete theme", err, func() error {
		c.cancelOwnedLocked(map[string]bool{id: true})
		if err := c.store.RemoveTheme(id); err != nil {
			return err
		}
		if c.themeID == id {
			c.themeID = ""
			if RequiresTheme(c.screen) {
				c.goLocked(ScreenDashboard)
			}
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("delete theme failed", "theme_id", id, "error", err)
		return fmt.Errorf("delete theme: %w", err)
	}
	c.logger.Info("theme deleted", "theme_id", id)
	return nil
}

// ViewPosts selects themeID and opens generated-posts.
func (c *Controller) ViewPosts(themeID string) error {
	return c.update(func() error {
		if !c.selectThemeLocked(themeID) {
			return fmt.Errorf("view posts: %w", ErrNoThemeSelected)
		}
		return c.navigateLocked(ScreenGeneratedPosts)
	})
}

// IsValidation reports whether err is a local precondition failure that
// never reached the backend.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNoThemeSelected, ErrNoBrandSelected, ErrGenerationActive, ErrBusy,
		ErrWrongScreen, ErrNoPlatform, ErrEmptyBrandName, ErrNothingSelected,
		ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
