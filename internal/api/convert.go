package api

import "github.com/five82/brandloom/internal/model"

// BrandFromWire converts a wire brand. Missing lists become empty.
func BrandFromWire(p BrandPayload) model.Brand {
	return model.Brand{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		TargetAudience:  p.TargetAudience,
		MajorStrengths:  orEmpty(p.MajorStrengths),
		MainProducts:    orEmpty(p.MainProducts),
		BrandVoice:      p.BrandVoice,
		ReferenceImages: orEmpty(p.ReferenceImages),
		LogoImage:       copyString(p.LogoImage),
		CreatedDate:     p.CreatedDate,
	}
}

// BrandToWire converts a brand for transmission.
func BrandToWire(b model.Brand) BrandPayload {
	return BrandPayload{
		ID:              b.ID,
		Name:            b.Name,
		Category:        b.Category,
		Description:     b.Description,
		TargetAudience:  b.TargetAudience,
		MajorStrengths:  orEmpty(b.MajorStrengths),
		MainProducts:    orEmpty(b.MainProducts),
		BrandVoice:      b.BrandVoice,
		ReferenceImages: orEmpty(b.ReferenceImages),
		LogoImage:       copyString(b.LogoImage),
		CreatedDate:     b.CreatedDate,
	}
}

// ThemeFromWire converts a wire theme and its posts.
func ThemeFromWire(p ThemePayload) model.Theme {
	posts := make([]model.Post, 0, len(p.Posts))
	for _, wp := range p.Posts {
		post := PostFromWire(wp)
		if post.ThemeID == "" {
			post.ThemeID = p.ID
		}
		posts = append(posts, post)
	}
	return model.Theme{
		ID:            p.ID,
		BrandID:       p.BrandID,
		Name:          p.Name,
		PostsCount:    p.PostsCount,
		Mood:          p.Mood,
		Colors:        orEmpty(p.Colors),
		Imagery:       p.Imagery,
		Tone:          p.Tone,
		CaptionLength: model.ParseCaptionLength(p.CaptionLength),
		UseEmojis:     p.UseEmojis,
		UseHashtags:   p.UseHashtags,
		Posts:         posts,
	}
}

// ThemeToWire converts a theme for transmission.
func ThemeToWire(t model.Theme) ThemePayload {
	return ThemePayload{
		ID:            t.ID,
		BrandID:       t.BrandID,
		Name:          t.Name,
		PostsCount:    t.PostsCount,
		Mood:          t.Mood,
		Colors:        orEmpty(t.Colors),
		Imagery:       t.Imagery,
		Tone:          t.Tone,
		CaptionLength: string(model.ParseCaptionLength(string(t.CaptionLength))),
		UseEmojis:     t.UseEmojis,
		UseHashtags:   t.UseHashtags,
		Posts:         postsToWire(t.Posts),
	}
}

// ThemeUpdateToWire converts a partial update; unset fields are omitted.
func ThemeUpdateToWire(u model.ThemeUpdate) ThemeUpdatePayload {
	out := ThemeUpdatePayload{
		Name:        copyString(u.Name),
		PostsCount:  u.PostsCount,
		Mood:        copyString(u.Mood),
		Colors:      u.Colors,
		Imagery:     copyString(u.Imagery),
		Tone:        copyString(u.Tone),
		UseEmojis:   u.UseEmojis,
		UseHashtags: u.UseHashtags,
	}
	if u.CaptionLength != nil {
		cl := string(*u.CaptionLength)
		out.CaptionLength = &cl
	}
	if u.SetPosts {
		posts := postsToWire(u.Posts)
		out.Posts = &posts
	}
	return out
}

// PostFromWire converts a wire post.
func PostFromWire(p PostPayload) model.Post {
	post := model.Post{
		ID:            p.ID,
		ThemeID:       p.ThemeID,
		ImageURL:      p.ImageURL,
		Caption:       p.Caption,
		Hashtags:      orEmpty(p.Hashtags),
		PostType:      model.PostType(p.PostType),
		Selected:      p.Selected,
		ScheduledTime: copyString(p.ScheduledTime),
	}
	if p.Status != nil {
		post.Status = model.ParsePostStatus(*p.Status)
	}
	return post
}

// PostToWire converts a post for transmission.
func PostToWire(p model.Post) PostPayload {
	out := PostPayload{
		ID:            p.ID,
		ThemeID:       p.ThemeID,
		ImageURL:      p.ImageURL,
		Caption:       p.Caption,
		Hashtags:      orEmpty(p.Hashtags),
		PostType:      string(p.PostType),
		Selected:      p.Selected,
		ScheduledTime: copyString(p.ScheduledTime),
	}
	if p.Status != nil {
		st := string(*p.Status)
		out.Status = &st
	}
	return out
}

// ThemeOptionFromWire converts the theme carried by a theme_option event.
func ThemeOptionFromWire(p ThemeOptionPayload) model.ThemeOption {
	return model.ThemeOption{
		Name:          p.Name,
		Mood:          p.Mood,
		Colors:        orEmpty(p.Colors),
		Imagery:       p.Imagery,
		Tone:          p.Tone,
		CaptionLength: model.ParseCaptionLength(p.CaptionLength),
		UseEmojis:     p.UseEmojis,
		UseHashtags:   p.UseHashtags,
		ImageURL:      p.ImageURL,
	}
}

func postsToWire(posts []model.Post) []PostPayload {
	out := make([]PostPayload, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostToWire(p))
	}
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyString(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
