package api

// LoginResponse mirrors POST /api/auth/login.
type LoginResponse struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

// BrandPayload is the wire form of a brand.
type BrandPayload struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	TargetAudience  string   `json:"target_audience"`
	MajorStrengths  []string `json:"major_strengths"`
	MainProducts    []string `json:"main_products"`
	BrandVoice      string   `json:"brand_voice"`
	ReferenceImages []string `json:"reference_images"`
	LogoImage       *string  `json:"logo_image,omitempty"`
	CreatedDate     string   `json:"created_date,omitempty"`
}

// ThemePayload is the wire form of a theme.
type ThemePayload struct {
	ID            string        `json:"id,omitempty"`
	BrandID       string        `json:"brand_id"`
	Name          string        `json:"name"`
	PostsCount    int           `json:"posts_count"`
	Mood          string        `json:"mood"`
	Colors        []string      `json:"colors"`
	Imagery       string        `json:"imagery"`
	Tone          string        `json:"tone"`
	CaptionLength string        `json:"caption_length"`
	UseEmojis     bool          `json:"use_emojis"`
	UseHashtags   bool          `json:"use_hashtags"`
	Posts         []PostPayload `json:"posts"`
}

// ThemeUpdatePayload is the partial body for PUT /api/themes/{id}.
type ThemeUpdatePayload struct {
	Name          *string        `json:"name,omitempty"`
	PostsCount    *int           `json:"posts_count,omitempty"`
	Mood          *string        `json:"mood,omitempty"`
	Colors        []string       `json:"colors,omitempty"`
	Imagery       *string        `json:"imagery,omitempty"`
	Tone          *string        `json:"tone,omitempty"`
	CaptionLength *string        `json:"caption_length,omitempty"`
	UseEmojis     *bool          `json:"use_emojis,omitempty"`
	UseHashtags   *bool          `json:"use_hashtags,omitempty"`
	Posts         *[]PostPayload `json:"posts,omitempty"`
}

// PostPayload is the wire form of a post.
type PostPayload struct {
	ID            string   `json:"id"`
	ThemeID       string   `json:"theme_id"`
	ImageURL      string   `json:"image_url"`
	Caption       string   `json:"caption"`
	Hashtags      []string `json:"hashtags"`
	PostType      string   `json:"post_type"`
	Selected      bool     `json:"selected"`
	ScheduledTime *string  `json:"scheduled_time"`
	Status        *string  `json:"status,omitempty"`
}

// ThemeOptionPayload is the theme carried by a theme_option stream event.
type ThemeOptionPayload struct {
	Name          string   `json:"name"`
	Mood          string   `json:"mood"`
	Colors        []string `json:"colors"`
	Imagery       string   `json:"imagery"`
	Tone          string   `json:"tone"`
	CaptionLength string   `json:"caption_length"`
	UseEmojis     bool     `json:"use_emojis"`
	UseHashtags   bool     `json:"use_hashtags"`
	ImageURL      string   `json:"image_url"`
}

// errorBody covers both {message} and FastAPI's {detail} error shapes.
type errorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}
