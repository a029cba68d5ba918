// Package model defines the client-side records for brands, themes, posts
// and the ephemeral theme options produced while streaming.
package model

import "strings"

// Brand is a user's brand profile.
type Brand struct {
	ID              string
	Name            string
	Category        string
	Description     string
	TargetAudience  string
	MajorStrengths  []string
	MainProducts    []string
	BrandVoice      string
	ReferenceImages []string
	LogoImage       *string
	CreatedDate     string
}

// Clone returns a deep copy of the brand.
func (b Brand) Clone() Brand {
	out := b
	out.MajorStrengths = cloneStrings(b.MajorStrengths)
	out.MainProducts = cloneStrings(b.MainProducts)
	out.ReferenceImages = cloneStrings(b.ReferenceImages)
	out.LogoImage = cloneString(b.LogoImage)
	return out
}

// CaptionLength controls how long generated captions are.
type CaptionLength string

const (
	CaptionShort  CaptionLength = "short"
	CaptionMedium CaptionLength = "medium"
	CaptionLong   CaptionLength = "long"
)

// ParseCaptionLength normalizes a caption length, defaulting to medium.
func ParseCaptionLength(s string) CaptionLength {
	switch CaptionLength(strings.ToLower(strings.TrimSpace(s))) {
	case CaptionShort:
		return CaptionShort
	case CaptionLong:
		return CaptionLong
	default:
		return CaptionMedium
	}
}

// Theme bundles the visual and caption parameters for a batch of posts.
type Theme struct {
	ID            string
	BrandID       string
	Name          string
	PostsCount    int
	Mood          string
	Colors        []string
	Imagery       string
	Tone          string
	CaptionLength CaptionLength
	UseEmojis     bool
	UseHashtags   bool
	Posts         []Post
}

// Clone returns a deep copy of the theme including its posts.
func (t Theme) Clone() Theme {
	out := t
	out.Colors = cloneStrings(t.Colors)
	out.Posts = ClonePosts(t.Posts)
	return out
}

// SelectedPosts returns copies of the posts the user included in the batch.
func (t Theme) SelectedPosts() []Post {
	var out []Post
	for _, p := range t.Posts {
		if p.Selected {
			out = append(out, p.Clone())
		}
	}
	return out
}

// HasPost reports whether the theme owns a post with the given id.
func (t Theme) HasPost(id string) bool {
	for _, p := range t.Posts {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ThemeUpdate carries a partial theme update. Nil fields are left untouched.
type ThemeUpdate struct {
	Name          *string
	PostsCount    *int
	Mood          *string
	Colors        []string
	Imagery       *string
	Tone          *string
	CaptionLength *CaptionLength
	UseEmojis     *bool
	UseHashtags   *bool
	Posts         []Post
	SetPosts      bool
}

// Apply returns a copy of t with the update merged in.
func (u ThemeUpdate) Apply(t Theme) Theme {
	out := t.Clone()
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.PostsCount != nil {
		out.PostsCount = *u.PostsCount
	}
	if u.Mood != nil {
		out.Mood = *u.Mood
	}
	if u.Colors != nil {
		out.Colors = cloneStrings(u.Colors)
	}
	if u.Imagery != nil {
		out.Imagery = *u.Imagery
	}
	if u.Tone != nil {
		out.Tone = *u.Tone
	}
	if u.CaptionLength != nil {
		out.CaptionLength = *u.CaptionLength
	}
	if u.UseEmojis != nil {
		out.UseEmojis = *u.UseEmojis
	}
	if u.UseHashtags != nil {
		out.UseHashtags = *u.UseHashtags
	}
	if u.SetPosts {
		out.Posts = ClonePosts(u.Posts)
	}
	return out
}

// ThemeOption is a proposed theme produced during auto-generation. It is
// never persisted until promoted.
type ThemeOption struct {
	Name          string
	Mood          string
	Colors        []string
	Imagery       string
	Tone          string
	CaptionLength CaptionLength
	UseEmojis     bool
	UseHashtags   bool
	ImageURL      string
}

// Promote turns the option into a theme draft for the given brand.
func (o ThemeOption) Promote(brandID string, postsCount int) Theme {
	return Theme{
		BrandID:       brandID,
		Name:          o.Name,
		PostsCount:    postsCount,
		Mood:          o.Mood,
		Colors:        cloneStrings(o.Colors),
		Imagery:       o.Imagery,
		Tone:          o.Tone,
		CaptionLength: o.CaptionLength,
		UseEmojis:     o.UseEmojis,
		UseHashtags:   o.UseHashtags,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneString(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
