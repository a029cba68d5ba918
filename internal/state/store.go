package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/brandloom/internal/model"
)

var (
	// ErrNotFound is returned when a brand, theme or post id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when adding a record whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownBrand is returned when a theme names a brand that is not stored.
	ErrUnknownBrand = errors.New("theme references unknown brand")
)

// Snapshot is a deep copy of the store at one point in time.
type Snapshot struct {
	Brands      []model.Brand
	Themes      []model.Theme
	SavedPosts  []model.Post
	Platforms   model.Platforms
	LastUpdated time.Time
}

// Brand looks up a brand by id.
func (s Snapshot) Brand(id string) (model.Brand, bool) {
	i := brandIndex(s.Brands, id)
	if i < 0 {
		return model.Brand{}, false
	}
	return s.Brands[i], true
}

// Theme looks up a theme by id.
func (s Snapshot) Theme(id string) (model.Theme, bool) {
	i := themeIndex(s.Themes, id)
	if i < 0 {
		return model.Theme{}, false
	}
	return s.Themes[i], true
}

// ThemesForBrand returns the themes owned by brandID in insertion order.
func (s Snapshot) ThemesForBrand(brandID string) []model.Theme {
	var out []model.Theme
	for _, th := range s.Themes {
		if th.BrandID == brandID {
			out = append(out, th)
		}
	}
	return out
}

// SavedPostsForBrand returns the saved posts whose theme belongs to brandID.
func (s Snapshot) SavedPostsForBrand(brandID string) []model.Post {
	return savedForBrand(s.Themes, s.SavedPosts, brandID, false)
}

// Store owns the brand, theme and saved post collections. The zero value
// is ready to use. Every mutation is serialized by mu and reads hand out
// copies.
type Store struct {
	mu        sync.RWMutex
	brands    []model.Brand
	themes    []model.Theme
	saved     []model.Post
	platforms model.Platforms
	updated   time.Time
}

// Hydrate replaces brands and themes with data fetched from the backend and
// clears saved posts. Platform connections are kept.
func (s *Store) Hydrate(brands []model.Brand, themes []model.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = make([]model.Brand, 0, len(brands))
	for _, b := range brands {
		if brandIndex(s.brands, b.ID) >= 0 {
			continue
		}
		s.brands = append(s.brands, b.Clone())
	}
	s.themes = make([]model.Theme, 0, len(themes))
	for _, th := range themes {
		if themeIndex(s.themes, th.ID) >= 0 {
			continue
		}
		s.themes = append(s.themes, th.Clone())
	}
	s.saved = nil
	s.touch()
}

// Reset empties every collection and disconnects all platforms.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = nil
	s.themes = nil
	s.saved = nil
	s.platforms = nil
	s.touch()
}

// AddBrand stores a confirmed brand.
func (s *Store) AddBrand(b model.Brand) error {
	if b.ID == "" {
		return fmt.Errorf("add brand: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if brandIndex(s.brands, b.ID) >= 0 {
		return fmt.Errorf("add brand %s: %w", b.ID, ErrDuplicateID)
	}
	s.brands = append(s.brands, b.Clone())
	s.touch()
	return nil
}

// RemoveBrand drops a brand together with its themes and their saved posts.
func (s *Store) RemoveBrand(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := brandIndex(s.brands, id)
	if i < 0 {
		return fmt.Errorf("remove brand %s: %w", id, ErrNotFound)
	}
	owned := savedForBrand(s.themes, s.saved, id, true)
	s.saved = withoutPosts(s.saved, owned)
	themes := s.themes[:0:0]
	for _, th := range s.themes {
		if th.BrandID != id {
			themes = append(themes, th)
		}
	}
	s.themes = themes
	s.brands = append(s.brands[:i:i], s.brands[i+1:]...)
	s.touch()
	return nil
}

// AddTheme stores a confirmed theme. Its brand must already be stored.
func (s *Store) AddTheme(th model.Theme) error {
	if th.ID == "" {
		return fmt.Errorf("add theme: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if themeIndex(s.themes, th.ID) >= 0 {
		return fmt.Errorf("add theme %s: %w", th.ID, ErrDuplicateID)
	}
	if brandIndex(s.brands, th.BrandID) < 0 {
		return fmt.Errorf("add theme %s: %w", th.ID, ErrUnknownBrand)
	}
	s.themes = append(s.themes, th.Clone())
	s.touch()
	return nil
}

// ReplaceTheme swaps in a new version of an existing theme.
func (s *Store) ReplaceTheme(th model.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, th.ID)
	if i < 0 {
		return fmt.Errorf("replace theme %s: %w", th.ID, ErrNotFound)
	}
	s.themes[i] = th.Clone()
	s.refreshSaved(s.themes[i])
	s.touch()
	return nil
}

// RemoveTheme drops a theme and its saved posts.
func (s *Store) RemoveTheme(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, id)
	if i < 0 {
		return fmt.Errorf("remove theme %s: %w", id, ErrNotFound)
	}
	th := s.themes[i]
	saved := s.saved[:0:0]
	for _, p := range s.saved {
		if p.ThemeID != id && !th.HasPost(p.ID) {
			saved = append(saved, p)
		}
	}
	s.saved = saved
	s.themes = append(s.themes[:i:i], s.themes[i+1:]...)
	s.touch()
	return nil
}

// TogglePostSelection flips the selected flag of each listed post.
func (s *Store) TogglePostSelection(themeID string, postIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, themeID)
	if i < 0 {
		return fmt.Errorf("toggle selection in theme %s: %w", themeID, ErrNotFound)
	}
	posts := s.themes[i].Posts
	for _, id := range postIDs {
		for j := range posts {
			if posts[j].ID == id {
				posts[j].Selected = !posts[j].Selected
			}
		}
	}
	s.touch()
	return nil
}

// SetSelection marks exactly the listed posts of a theme as selected.
func (s *Store) SetSelection(themeID string, postIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, themeID)
	if i < 0 {
		return fmt.Errorf("set selection in theme %s: %w", themeID, ErrNotFound)
	}
	want := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	posts := s.themes[i].Posts
	for j := range posts {
		posts[j].Selected = want[posts[j].ID]
	}
	s.touch()
	return nil
}

// AppendPost adds a streamed post to its theme. A post whose id is already
// present replaces the stored copy in place. It reports false when the
// theme is not stored.
func (s *Store) AppendPost(themeID string, p model.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, themeID)
	if i < 0 {
		return false
	}
	p = p.Clone()
	if p.ThemeID == "" {
		p.ThemeID = themeID
	}
	th := &s.themes[i]
	for j := range th.Posts {
		if th.Posts[j].ID == p.ID {
			th.Posts[j] = p
			s.touch()
			return true
		}
	}
	th.Posts = append(th.Posts, p)
	s.touch()
	return true
}

// UpdatePost replaces a post in its theme and refreshes any saved copy.
func (s *Store) UpdatePost(p model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, p.ThemeID)
	if i < 0 {
		return fmt.Errorf("update post %s: theme %s: %w", p.ID, p.ThemeID, ErrNotFound)
	}
	posts := s.themes[i].Posts
	for j := range posts {
		if posts[j].ID == p.ID {
			posts[j] = p.Clone()
			s.refreshSaved(s.themes[i])
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("update post %s: %w", p.ID, ErrNotFound)
}

// SaveSelectedPosts copies the selected posts of a theme into the saved
// collection, keeping their ids. A post saved earlier is replaced rather
// than duplicated. It returns how many posts were copied.
func (s *Store) SaveSelectedPosts(themeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := themeIndex(s.themes, themeID)
	if i < 0 {
		return 0, fmt.Errorf("save posts of theme %s: %w", themeID, ErrNotFound)
	}
	selected := s.themes[i].SelectedPosts()
	for _, p := range selected {
		if j := postIndex(s.saved, p.ID); j >= 0 {
			s.saved[j] = p
			continue
		}
		s.saved = append(s.saved, p)
	}
	s.touch()
	return len(selected), nil
}

// SchedulePost marks a saved post as scheduled at the given time.
func (s *Store) SchedulePost(postID, at string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := postIndex(s.saved, postID)
	if i < 0 {
		return fmt.Errorf("schedule post %s: %w", postID, ErrNotFound)
	}
	s.saved[i].Schedule(at)
	s.touch()
	return nil
}

// RemoveSavedPost drops a post from the saved collection. The post stays in
// its theme.
func (s *Store) RemoveSavedPost(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := postIndex(s.saved, postID)
	if i < 0 {
		return fmt.Errorf("remove saved post %s: %w", postID, ErrNotFound)
	}
	s.saved = append(s.saved[:i:i], s.saved[i+1:]...)
	s.touch()
	return nil
}

// ConnectPlatform records a platform connection.
func (s *Store) ConnectPlatform(p model.Platform, account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platforms == nil {
		s.platforms = model.NewPlatforms()
	}
	s.platforms[p] = model.Connection{Connected: true, Account: account}
	s.touch()
}

// Brand looks up a brand by id.
func (s *Store) Brand(id string) (model.Brand, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := brandIndex(s.brands, id)
	if i < 0 {
		return model.Brand{}, false
	}
	return s.brands[i].Clone(), true
}

// Theme looks up a theme by id.
func (s *Store) Theme(id string) (model.Theme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := themeIndex(s.themes, id)
	if i < 0 {
		return model.Theme{}, false
	}
	return s.themes[i].Clone(), true
}

// ThemesForBrand returns copies of the themes owned by brandID.
func (s *Store) ThemesForBrand(brandID string) []model.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Theme
	for _, th := range s.themes {
		if th.BrandID == brandID {
			out = append(out, th.Clone())
		}
	}
	return out
}

// SavedPostsForBrand returns copies of the saved posts for brandID.
func (s *Store) SavedPostsForBrand(brandID string) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClonePosts(savedForBrand(s.themes, s.saved, brandID, false))
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Brands:      make([]model.Brand, len(s.brands)),
		Themes:      make([]model.Theme, len(s.themes)),
		SavedPosts:  model.ClonePosts(s.saved),
		LastUpdated: s.updated,
	}
	for i, b := range s.brands {
		snap.Brands[i] = b.Clone()
	}
	for i, th := range s.themes {
		snap.Themes[i] = th.Clone()
	}
	if s.platforms == nil {
		snap.Platforms = model.NewPlatforms()
	} else {
		snap.Platforms = s.platforms.Clone()
	}
	return snap
}

// refreshSaved keeps saved copies in line with their theme. Caller holds mu.
func (s *Store) refreshSaved(th model.Theme) {
	for i, saved := range s.saved {
		for _, p := range th.Posts {
			if p.ID == saved.ID {
				s.saved[i] = p.Clone()
			}
		}
	}
}

func (s *Store) touch() {
	s.updated = time.Now()
}

func brandIndex(brands []model.Brand, id string) int {
	for i := range brands {
		if brands[i].ID == id {
			return i
		}
	}
	return -1
}

func themeIndex(themes []model.Theme, id string) int {
	for i := range themes {
		if themes[i].ID == id {
			return i
		}
	}
	return -1
}

func postIndex(posts []model.Post, id string) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

// savedForBrand resolves each saved post to its theme, by ThemeID first and
// then by membership, and keeps those owned by brandID.
func savedForBrand(themes []model.Theme, saved []model.Post, brandID string, idsOnly bool) []model.Post {
	var out []model.Post
	for _, p := range saved {
		owner := ""
		if i := themeIndex(themes, p.ThemeID); i >= 0 {
			owner = themes[i].BrandID
		} else {
			for _, th := range themes {
				if th.HasPost(p.ID) {
					owner = th.BrandID
					break
				}
			}
		}
		if owner != brandID {
			continue
		}
		if idsOnly {
			out = append(out, model.Post{ID: p.ID})
			continue
		}
		out = append(out, p)
	}
	return out
}

func withoutPosts(posts, drop []model.Post) []model.Post {
	if len(drop) == 0 {
		return posts
	}
	out := posts[:0:0]
	for _, p := range posts {
		if postIndex(drop, p.ID) < 0 {
			out = append(out, p)
		}
	}
	return out
}
