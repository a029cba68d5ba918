package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/stream"
)

// StartBrand opens the brand wizard with an empty draft.
func (c *Controller) StartBrand() error {
	return c.update(func() error {
		if err := c.navigateLocked(ScreenBrandName); err != nil {
			return err
		}
		c.brandDraft = newBrandDraft()
		return nil
	})
}

// wizardNext is the forward edge of each wizard step.
var wizardNext = map[Screen]Screen{
	ScreenBrandName:        ScreenBrandDescription,
	ScreenBrandDescription: ScreenBrandImages,
	ScreenBrandImages:      ScreenBrandProposal,
}

// SubmitBrandStep merges patch into the draft and advances the wizard. On
// the proposal step the draft is updated in place; CreateBrand commits it.
func (c *Controller) SubmitBrandStep(patch func(*BrandDraft)) error {
	return c.update(func() error {
		if c.screen < ScreenBrandName || c.screen > ScreenBrandProposal {
			return ErrWrongScreen
		}
		d := c.brandDraft.clone()
		if d.LocalID == "" {
			d = newBrandDraft()
		}
		if patch != nil {
			patch(&d)
		}
		if c.screen == ScreenBrandName && strings.TrimSpace(d.Name) == "" {
			return ErrEmptyBrandName
		}
		if next, ok := wizardNext[c.screen]; ok {
			if next == ScreenBrandProposal {
				d = d.withSuggestions()
			}
			c.brandDraft = d
			return c.navigateLocked(next)
		}
		c.brandDraft = d
		return nil
	})
}

// SkipBrandImages leaves the images step without reference images.
func (c *Controller) SkipBrandImages() error {
	return c.update(func() error {
		if c.screen != ScreenBrandImages {
			return ErrWrongScreen
		}
		c.brandDraft.ReferenceImages = nil
		c.brandDraft.LogoImage = nil
		c.brandDraft = c.brandDraft.withSuggestions()
		return c.navigateLocked(ScreenBrandProposal)
	})
}

// CreateBrand sends the staged draft. The server's copy is stored and
// selected and the user lands on dashboard. On failure the draft and the
// screen are kept.
func (c *Controller) CreateBrand(ctx context.Context) (model.Brand, error) {
	var draft model.Brand
	epoch, err := c.begin(func() error {
		if c.screen != ScreenBrandProposal {
			return ErrWrongScreen
		}
		draft = c.brandDraft.Brand()
		return nil
	})
	if err != nil {
		return model.Brand{}, err
	}

	created, err := c.backend.CreateBrand(ctx, draft)
	err = c.commit(epoch, "Could not create brand", err, func() error {
		if err := c.store.AddBrand(created); err != nil {
			return err
		}
		c.brandID = created.ID
		c.themeID = ""
		c.brandDraft = BrandDraft{}
		c.goLocked(ScreenDashboard)
		return nil
	})
	if err != nil {
		c.logger.Warn("create brand failed", "error", err)
		return model.Brand{}, fmt.Errorf("create brand: %w", err)
	}
	c.logger.Info("brand created", "brand_id", created.ID, "name", created.Name)
	return created, nil
}

// SelectBrand makes id the dashboard's brand and leaves the saved posts
// view.
func (c *Controller) SelectBrand(id string) error {
	return c.update(func() error {
		if _, ok := c.store.Brand(id); !ok {
			return fmt.Errorf("select brand %q: %w", id, ErrNoBrandSelected)
		}
		if c.brandID != id {
			c.themeID = ""
		}
		c.brandID = id
		c.showSaved = false
		return nil
	})
}

// ShowSavedPosts toggles the dashboard between the brand's themes and its
// saved posts.
func (c *Controller) ShowSavedPosts(show bool) error {
	return c.update(func() error {
		if c.screen != ScreenDashboard {
			return ErrWrongScreen
		}
		if show && !c.brandResolvesLocked() {
			return ErrNoBrandSelected
		}
		c.showSaved = show
		return nil
	})
}

// DeleteBrand removes a brand remotely, then its themes and saved posts
// locally. Streams owned by the brand or its themes are cancelled.
func (c *Controller) DeleteBrand(ctx context.Context, id string) error {
	epoch, err := c.begin(func() error {
		if _, ok := c.store.Brand(id); !ok {
			return fmt.Errorf("delete brand %q: %w", id, ErrNoBrandSelected)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = c.backend.DeleteBrand(ctx, id)
	err = c.commit(epoch, "Could not delete brand", err, func() error {
		owned := map[string]bool{id: true}
		for _, th := range c.store.ThemesForBrand(id) {
			owned[th.ID] = true
		}
		c.cancelOwnedLocked(owned)
		if err := c.store.RemoveBrand(id); err != nil {
			return err
		}
		if c.brandID == id {
			c.brandID = ""
			c.themeID = ""
			c.showSaved = false
			if snap := c.store.Snapshot(); len(snap.Brands) > 0 {
				c.brandID = snap.Brands[0].ID
			}
		}
		if c.brandID == "" && c.screen == ScreenDashboard {
			c.goLocked(ScreenWelcome)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("delete brand failed", "brand_id", id, "error", err)
		return fmt.Errorf("delete brand: %w", err)
	}
	c.logger.Info("brand deleted", "brand_id", id)
	return nil
}

// cancelOwnedLocked cancels every stream whose owner is in owners.
func (c *Controller) cancelOwnedLocked(owners map[string]bool) {
	for _, k := range []stream.Kind{stream.ThemeOptions, stream.ThemeImages, stream.Posts} {
		if g := c.streams.Active(k); g != nil && owners[g.Owner()] {
			c.cancelLocked(k)
		}
	}
}
