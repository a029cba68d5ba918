package flow

import (
	"github.com/five82/brandloom/internal/model"
	"github.com/five82/brandloom/internal/session"
	"github.com/five82/brandloom/internal/state"
	"github.com/five82/brandloom/internal/stream"
)

// GenerationView is the render-side copy of one generation kind.
type GenerationView struct {
	Kind    stream.Kind
	State   GenState
	Outcome Outcome
	Owner   string
	Options []model.ThemeOption
	Posts   []model.Post
	Index   int
	Total   int
	Err     string
}

// Active reports whether the generation is streaming.
func (g GenerationView) Active() bool { return g.State == GenGenerating }

// Progress returns the received count and the expected total. Total is
// zero until the server announces it.
func (g GenerationView) Progress() (int, int) {
	n := len(g.Options)
	if g.Kind == stream.Posts {
		n = len(g.Posts)
	}
	return n, g.Total
}

// Snapshot is a consistent copy of the controller's state.
type Snapshot struct {
	Screen          Screen
	User            session.Session
	Hydrating       bool
	Busy            bool
	State           state.Snapshot
	SelectedBrandID string
	SelectedThemeID string
	ShowingSaved    bool
	BrandDraft      BrandDraft
	ThemeDraft      *ThemeDraft
	Overlay         Overlay
	Notice          *Notice
	Generations     map[stream.Kind]GenerationView
}

// SelectedBrand resolves the selected brand id.
func (s Snapshot) SelectedBrand() (model.Brand, bool) {
	if s.SelectedBrandID == "" {
		return model.Brand{}, false
	}
	return s.State.Brand(s.SelectedBrandID)
}

// SelectedTheme resolves the selected theme id.
func (s Snapshot) SelectedTheme() (model.Theme, bool) {
	if s.SelectedThemeID == "" {
		return model.Theme{}, false
	}
	return s.State.Theme(s.SelectedThemeID)
}

// Generation returns the view for kind.
func (s Snapshot) Generation(kind stream.Kind) GenerationView {
	if g, ok := s.Generations[kind]; ok {
		return g
	}
	return GenerationView{Kind: kind}
}

// LoggedIn reports whether a user session is active.
func (s Snapshot) LoggedIn() bool { return s.User.Valid() }
