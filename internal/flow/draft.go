package flow

import (
	"strings"

	"github.com/google/uuid"

	"github.com/five82/brandloom/internal/model"
)

// BrandDraft stages a brand across the onboarding screens. It never enters
// the store; CreateBrand sends it and stores the server's copy.
type BrandDraft struct {
	LocalID         string
	Name            string
	Category        string
	Description     string
	TargetAudience  string
	MajorStrengths  []string
	MainProducts    []string
	BrandVoice      string
	ReferenceImages []string
	LogoImage       *string
}

func newBrandDraft() BrandDraft {
	return BrandDraft{LocalID: uuid.NewString()}
}

// Brand builds the record sent to the backend.
func (d BrandDraft) Brand() model.Brand {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "Unnamed Brand"
	}
	return model.Brand{
		Name:            name,
		Category:        strings.TrimSpace(d.Category),
		Description:     strings.TrimSpace(d.Description),
		TargetAudience:  strings.TrimSpace(d.TargetAudience),
		MajorStrengths:  compact(d.MajorStrengths),
		MainProducts:    compact(d.MainProducts),
		BrandVoice:      strings.TrimSpace(d.BrandVoice),
		ReferenceImages: compact(d.ReferenceImages),
		LogoImage:       trimmedPtr(d.LogoImage),
	}
}

func (d BrandDraft) clone() BrandDraft {
	out := d
	out.MajorStrengths = append([]string(nil), d.MajorStrengths...)
	out.MainProducts = append([]string(nil), d.MainProducts...)
	out.ReferenceImages = append([]string(nil), d.ReferenceImages...)
	out.LogoImage = trimmedPtr(d.LogoImage)
	return out
}

// Suggestions used to fill the brand proposal, keyed by category.
var (
	suggestedAudience = map[string]string{
		"fashion & apparel":  "Young professionals (25-35) who value personal style and quality craftsmanship",
		"food & beverage":    "Health-conscious millennials seeking authentic, sustainable food experiences",
		"beauty & cosmetics": "Self-care enthusiasts (20-40) looking for clean, effective beauty solutions",
		"home & lifestyle":   "Design-minded individuals who appreciate thoughtful, well-made home goods",
		"health & wellness":  "Wellness-focused individuals seeking holistic approaches to better living",
	}
	suggestedProducts = map[string][]string{
		"fashion & apparel":  {"Seasonal collections", "Core wardrobe essentials", "Limited edition pieces"},
		"food & beverage":    {"Artisanal food products", "Specialty beverages", "Seasonal offerings"},
		"beauty & cosmetics": {"Skincare line", "Color cosmetics", "Wellness products"},
		"home & lifestyle":   {"Home decor", "Functional accessories", "Decorative pieces"},
	}
	defaultAudience  = "Discerning customers who value quality, authenticity, and meaningful brands"
	defaultProducts  = []string{"Core products", "Seasonal offerings", "Special collections"}
	defaultStrengths = []string{
		"Quality craftsmanship and attention to detail",
		"Sustainable and ethical practices",
		"Authentic brand story and values",
		"Unique design aesthetic",
	}
	defaultVoice = "Warm, approachable, and authentic with a focus on quality and craftsmanship"
)

// withSuggestions fills the fields the user left empty with proposals
// derived from the category. Typed values are never replaced.
func (d BrandDraft) withSuggestions() BrandDraft {
	out := d.clone()
	category := strings.ToLower(strings.TrimSpace(d.Category))
	if strings.TrimSpace(out.TargetAudience) == "" {
		out.TargetAudience = defaultAudience
		if a, ok := suggestedAudience[category]; ok {
			out.TargetAudience = a
		}
	}
	if len(compact(out.MajorStrengths)) == 0 {
		out.MajorStrengths = append([]string(nil), defaultStrengths...)
	}
	if len(compact(out.MainProducts)) == 0 {
		products := defaultProducts
		if p, ok := suggestedProducts[category]; ok {
			products = p
		}
		out.MainProducts = append([]string(nil), products...)
	}
	if strings.TrimSpace(out.BrandVoice) == "" {
		out.BrandVoice = defaultVoice
	}
	return out
}

// Theme defaults for a draft started from scratch.
const (
	DefaultPostsCount = 5
	DefaultMood       = "Professional"
	DefaultImagery    = "Product-focused"
	DefaultTone       = "Professional"
	MaxPostsCount     = 30
)

// DefaultColors is the palette of a blank theme.
var DefaultColors = []string{"#4F46E5", "#EC4899", "#F59E0B", "#10B981"}

// ThemeDraft stages theme parameters on the proposal screen. ThemeID is set
// when the draft edits a stored theme.
type ThemeDraft struct {
	LocalID       string
	ThemeID       string
	BrandID       string
	Name          string
	PostsCount    int
	Mood          string
	Colors        []string
	Imagery       string
	Tone          string
	CaptionLength model.CaptionLength
	UseEmojis     bool
	UseHashtags   bool
	PreviewImage  string
}

// NewThemeDraft returns a blank draft for brandID.
func NewThemeDraft(brandID string) ThemeDraft {
	return ThemeDraft{
		LocalID:       uuid.NewString(),
		BrandID:       brandID,
		PostsCount:    DefaultPostsCount,
		Mood:          DefaultMood,
		Colors:        append([]string(nil), DefaultColors...),
		Imagery:       DefaultImagery,
		Tone:          DefaultTone,
		CaptionLength: model.CaptionMedium,
		UseHashtags:   true,
	}
}

// ThemeDraftFrom stages an existing theme for editing.
func ThemeDraftFrom(th model.Theme) ThemeDraft {
	return ThemeDraft{
		LocalID:       uuid.NewString(),
		ThemeID:       th.ID,
		BrandID:       th.BrandID,
		Name:          th.Name,
		PostsCount:    th.PostsCount,
		Mood:          th.Mood,
		Colors:        append([]string(nil), th.Colors...),
		Imagery:       th.Imagery,
		Tone:          th.Tone,
		CaptionLength: th.CaptionLength,
		UseEmojis:     th.UseEmojis,
		UseHashtags:   th.UseHashtags,
	}
}

// ThemeDraftFromOption stages a streamed theme option.
func ThemeDraftFromOption(brandID string, opt model.ThemeOption) ThemeDraft {
	d := ThemeDraftFrom(opt.Promote(brandID, DefaultPostsCount))
	d.PreviewImage = opt.ImageURL
	return d
}

// ApplyOption copies the look of an option onto the draft and keeps its
// name and post count.
func (d ThemeDraft) ApplyOption(opt model.ThemeOption) ThemeDraft {
	d = d.clone()
	d.Mood = opt.Mood
	d.Colors = append([]string(nil), opt.Colors...)
	d.Imagery = opt.Imagery
	d.Tone = opt.Tone
	d.PreviewImage = opt.ImageURL
	return d
}

// Theme builds the record sent on create. Out of range counts are clamped.
func (d ThemeDraft) Theme() model.Theme {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "Untitled Theme"
	}
	return model.Theme{
		ID:            d.ThemeID,
		BrandID:       d.BrandID,
		Name:          name,
		PostsCount:    clampCount(d.PostsCount),
		Mood:          strings.TrimSpace(d.Mood),
		Colors:        compact(d.Colors),
		Imagery:       strings.TrimSpace(d.Imagery),
		Tone:          strings.TrimSpace(d.Tone),
		CaptionLength: model.ParseCaptionLength(string(d.CaptionLength)),
		UseEmojis:     d.UseEmojis,
		UseHashtags:   d.UseHashtags,
		Posts:         []model.Post{},
	}
}

// Update builds a partial update carrying every editable field.
func (d ThemeDraft) Update() model.ThemeUpdate {
	th := d.Theme()
	return model.ThemeUpdate{
		Name:          &th.Name,
		PostsCount:    &th.PostsCount,
		Mood:          &th.Mood,
		Colors:        th.Colors,
		Imagery:       &th.Imagery,
		Tone:          &th.Tone,
		CaptionLength: &th.CaptionLength,
		UseEmojis:     &th.UseEmojis,
		UseHashtags:   &th.UseHashtags,
	}
}

func (d ThemeDraft) clone() ThemeDraft {
	out := d
	out.Colors = append([]string(nil), d.Colors...)
	return out
}

func clampCount(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxPostsCount:
		return MaxPostsCount
	default:
		return n
	}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// SplitList splits a comma separated field into trimmed, non-empty items.
func SplitList(s string) []string {
	return compact(strings.Split(s, ","))
}
