package flow

import (
	"context"
	"fmt"

	"github.com/five82/brandloom/internal/model"
)

// TogglePost flips the selection of a post of the selected theme.
func (c *Controller) TogglePost(postID string) error {
	return c.update(func() error {
		if c.screen != ScreenGeneratedPosts {
			return ErrWrongScreen
		}
		if !c.themeResolvesLocked() {
			return ErrNoThemeSelected
		}
		return c.store.TogglePostSelection(c.themeID, postID)
	})
}

// SelectAllPosts selects or clears every post of the selected theme.
func (c *Controller) SelectAllPosts(selected bool) error {
	return c.update(func() error {
		if c.screen != ScreenGeneratedPosts {
			return ErrWrongScreen
		}
		th, ok := c.store.Theme(c.themeID)
		if !ok {
			return ErrNoThemeSelected
		}
		var ids []string
		if selected {
			for _, p := range th.Posts {
				ids = append(ids, p.ID)
			}
		}
		return c.store.SetSelection(th.ID, ids)
	})
}

// ConfirmSelection sends the theme's selection to the backend, copies the
// selected posts into the saved posts and opens instagram-preview.
func (c *Controller) ConfirmSelection(ctx context.Context) (int, error) {
	var themeID string
	var posts []model.Post
	err := c.withLock(func() error {
		if c.screen != ScreenGeneratedPosts {
			return ErrWrongScreen
		}
		th, ok := c.store.Theme(c.themeID)
		if !ok {
			return ErrNoThemeSelected
		}
		if len(th.SelectedPosts()) == 0 {
			return ErrNothingSelected
		}
		themeID, posts = th.ID, th.Posts
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := c.UpdateTheme(ctx, themeID, model.ThemeUpdate{Posts: posts, SetPosts: true}); err != nil {
		return 0, err
	}

	var saved int
	err = c.update(func() error {
		n, err := c.store.SaveSelectedPosts(themeID)
		if err != nil {
			return err
		}
		saved = n
		if c.screen == ScreenGeneratedPosts {
			c.goLocked(ScreenInstagramPreview)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save selected posts: %w", err)
	}
	c.logger.Info("selection confirmed", "theme_id", themeID, "saved", saved)
	return saved, nil
}

// OpenPostEditor opens the post editor on a post of the selected theme or,
// on dashboard, on a saved post.
func (c *Controller) OpenPostEditor(postID string) error {
	return c.update(func() error {
		if !overlayAllowed(OverlayPostEditor, c.screen) {
			return ErrWrongScreen
		}
		p, ok := c.findPostLocked(postID)
		if !ok {
			return fmt.Errorf("edit post %q: %w", postID, ErrNoThemeSelected)
		}
		c.overlay = Overlay{Kind: OverlayPostEditor, Post: p}
		return nil
	})
}

func (c *Controller) findPostLocked(postID string) (model.Post, bool) {
	if c.screen == ScreenDashboard {
		for _, p := range c.store.SavedPostsForBrand(c.brandID) {
			if p.ID == postID {
				return p, true
			}
		}
		return model.Post{}, false
	}
	th, ok := c.store.Theme(c.themeID)
	if !ok {
		return model.Post{}, false
	}
	for _, p := range th.Posts {
		if p.ID == postID {
			return p, true
		}
	}
	return model.Post{}, false
}

// SavePostEdit applies edit to the post in the editor and sends the
// owning theme's posts to the backend. The editor closes on success and
// stays open with a notice on failure.
func (c *Controller) SavePostEdit(ctx context.Context, edit PostEdit) error {
	var edited model.Post
	var posts []model.Post
	err := c.withLock(func() error {
		if c.overlay.Kind != OverlayPostEditor {
			return ErrWrongScreen
		}
		edited = edit.Apply(c.overlay.Post)
		th, ok := c.store.Theme(edited.ThemeID)
		if !ok {
			return fmt.Errorf("save post: %w", ErrNoThemeSelected)
		}
		posts = model.ClonePosts(th.Posts)
		for i := range posts {
			if posts[i].ID == edited.ID {
				posts[i] = edited
				return nil
			}
		}
		return fmt.Errorf("save post %q: %w", edited.ID, ErrNoThemeSelected)
	})
	if err != nil {
		return err
	}

	if err := c.UpdateTheme(ctx, edited.ThemeID, model.ThemeUpdate{Posts: posts, SetPosts: true}); err != nil {
		return err
	}
	_ = c.update(func() error {
		if c.overlay.Kind == OverlayPostEditor && c.overlay.Post.ID == edited.ID {
			c.overlay = Overlay{}
		}
		return nil
	})
	c.logger.Info("post edited", "post_id", edited.ID, "theme_id", edited.ThemeID)
	return nil
}

// OpenScheduleEditor opens the bulk schedule editor for the selected
// posts of the selected theme.
func (c *Controller) OpenScheduleEditor() error {
	return c.update(func() error {
		if c.screen != ScreenInstagramPreview {
			return ErrWrongScreen
		}
		if !c.themeResolvesLocked() {
			return ErrNoThemeSelected
		}
		c.overlay = Overlay{Kind: OverlayScheduleEditor, Schedule: DefaultScheduleForm()}
		return nil
	})
}

// OpenPostScheduler opens the schedule editor for one saved post.
func (c *Controller) OpenPostScheduler(postID string) error {
	return c.update(func() error {
		if c.screen != ScreenDashboard {
			return ErrWrongScreen
		}
		p, ok := c.findPostLocked(postID)
		if !ok {
			return fmt.Errorf("schedule post %q: %w", postID, ErrNoThemeSelected)
		}
		form := DefaultScheduleForm()
		form.PostID = p.ID
		form.Date = c.now().AddDate(0, 0, 1).Format("2006-01-02")
		c.overlay = Overlay{Kind: OverlayScheduleEditor, Post: p, Schedule: form}
		return nil
	})
}

// ApplySchedule closes the schedule editor with form. A single saved post
// is scheduled locally. A bulk schedule assigns spaced times to the
// selected posts and sends them to the backend.
func (c *Controller) ApplySchedule(ctx context.Context, form ScheduleForm) error {
	var themeID string
	var posts []model.Post
	err := c.withLock(func() error {
		if c.overlay.Kind != OverlayScheduleEditor {
			return ErrWrongScreen
		}
		if form.Single() {
			times, err := form.Times(c.now(), 1)
			if err != nil {
				return err
			}
			if err := c.store.SchedulePost(form.PostID, times[0]); err != nil {
				return fmt.Errorf("schedule post: %w", err)
			}
			c.overlay = Overlay{}
			return nil
		}
		th, ok := c.store.Theme(c.themeID)
		if !ok {
			return ErrNoThemeSelected
		}
		selected := th.SelectedPosts()
		if len(selected) == 0 {
			return ErrNothingSelected
		}
		times, err := form.Times(c.now(), len(selected))
		if err != nil {
			return err
		}
		at := make(map[string]string, len(selected))
		for i, p := range selected {
			at[p.ID] = times[i]
		}
		posts = model.ClonePosts(th.Posts)
		for i := range posts {
			if t, ok := at[posts[i].ID]; ok {
				posts[i].Schedule(t)
			}
		}
		themeID = th.ID
		return nil
	})
	c.notify()
	if err != nil || themeID == "" {
		return err
	}

	if err := c.UpdateTheme(ctx, themeID, model.ThemeUpdate{Posts: posts, SetPosts: true}); err != nil {
		return err
	}
	_ = c.update(func() error {
		if c.overlay.Kind == OverlayScheduleEditor {
			c.overlay = Overlay{}
		}
		return nil
	})
	c.logger.Info("posts scheduled", "theme_id", themeID, "frequency", string(form.Frequency))
	return nil
}

// CloseOverlay dismisses the open modal without applying it.
func (c *Controller) CloseOverlay() {
	_ = c.update(func() error {
		c.overlay = Overlay{}
		return nil
	})
}

// ConnectPlatform records a simulated connection for p and returns to
// instagram-preview.
func (c *Controller) ConnectPlatform(p model.Platform) error {
	return c.update(func() error {
		if c.screen != ScreenPlatformConnection {
			return ErrWrongScreen
		}
		c.store.ConnectPlatform(p, model.SimulatedAccount(p))
		c.logger.Info("platform connected", "platform", string(p))
		return c.navigateLocked(ScreenInstagramPreview)
	})
}

// SchedulePublish marks the selected posts of the theme scheduled, giving
// unscheduled ones the default spacing, and opens success. Without a
// connected platform it opens platform-connection instead and returns
// ErrNoPlatform.
func (c *Controller) SchedulePublish(ctx context.Context) error {
	var themeID string
	var posts []model.Post
	err := c.withLock(func() error {
		if c.screen != ScreenInstagramPreview {
			return ErrWrongScreen
		}
		if !c.store.Snapshot().Platforms.AnyConnected() {
			c.goLocked(ScreenPlatformConnection)
			return ErrNoPlatform
		}
		th, ok := c.store.Theme(c.themeID)
		if !ok {
			return ErrNoThemeSelected
		}
		selected := th.SelectedPosts()
		if len(selected) == 0 {
			return ErrNothingSelected
		}
		times, err := DefaultScheduleForm().Times(c.now(), len(th.Posts))
		if err != nil {
			return err
		}
		posts = model.ClonePosts(th.Posts)
		n := 0
		for i := range posts {
			if !posts[i].Selected {
				continue
			}
			at := times[n]
			if posts[i].ScheduledTime != nil {
				at = *posts[i].ScheduledTime
			}
			posts[i].Schedule(at)
			n++
		}
		themeID = th.ID
		return nil
	})
	c.notify()
	if err != nil {
		return err
	}

	if err := c.UpdateTheme(ctx, themeID, model.ThemeUpdate{Posts: posts, SetPosts: true}); err != nil {
		return err
	}
	_ = c.update(func() error {
		if c.screen == ScreenInstagramPreview {
			c.goLocked(ScreenSuccess)
		}
		return nil
	})
	c.logger.Info("posts scheduled for publishing", "theme_id", themeID)
	return nil
}

// RemoveSavedPost drops a post from the saved posts. Its theme keeps it.
func (c *Controller) RemoveSavedPost(postID string) error {
	return c.update(func() error {
		return c.store.RemoveSavedPost(postID)
	})
}

// withLock runs fn under the lock without notifying.
func (c *Controller) withLock(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}
