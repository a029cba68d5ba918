package model

import "strings"

// PostType is one of the fixed content categories.
type PostType string

const (
	PostFunctional     PostType = "Functional"
	PostBrandResonance PostType = "Brand resonance"
	PostEmotional      PostType = "Emotional"
	PostEducational    PostType = "Educational"
	PostExperiential   PostType = "Experiential"
	PostCurrentEvents  PostType = "Current events"
	PostPersonal       PostType = "Personal"
	PostEmployee       PostType = "Employee"
	PostCommunity      PostType = "Community"
	PostCustomerStory  PostType = "Customer story"
	PostCause          PostType = "Cause"
	PostSales          PostType = "Sales"
)

var postTypes = []PostType{
	PostFunctional,
	PostBrandResonance,
	PostEmotional,
	PostEducational,
	PostExperiential,
	PostCurrentEvents,
	PostPersonal,
	PostEmployee,
	PostCommunity,
	PostCustomerStory,
	PostCause,
	PostSales,
}

// PostTypes returns the content categories in their canonical order.
func PostTypes() []PostType {
	out := make([]PostType, len(postTypes))
	copy(out, postTypes)
	return out
}

// NextPostType cycles to the following category.
func NextPostType(current PostType) PostType {
	for i, pt := range postTypes {
		if pt == current {
			return postTypes[(i+1)%len(postTypes)]
		}
	}
	return postTypes[0]
}

// PostStatus tracks a post through scheduling and publishing.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
)

// ParsePostStatus returns nil for empty or unknown values.
func ParsePostStatus(s string) *PostStatus {
	var st PostStatus
	switch PostStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		st = StatusDraft
	case StatusScheduled:
		st = StatusScheduled
	case StatusPublished:
		st = StatusPublished
	default:
		return nil
	}
	return &st
}

// Post is one generated content unit belonging to a theme.
type Post struct {
	ID            string
	ThemeID       string
	ImageURL      string
	Caption       string
	Hashtags      []string
	PostType      PostType
	Selected      bool
	ScheduledTime *string
	Status        *PostStatus
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	out.Hashtags = cloneStrings(p.Hashtags)
	out.ScheduledTime = cloneString(p.ScheduledTime)
	if p.Status != nil {
		st := *p.Status
		out.Status = &st
	}
	return out
}

// StatusLabel returns the post status, treating unset as draft.
func (p Post) StatusLabel() PostStatus {
	if p.Status == nil {
		return StatusDraft
	}
	return *p.Status
}

// Schedule marks the post scheduled at the given time.
func (p *Post) Schedule(at string) {
	t := at
	st := StatusScheduled
	p.ScheduledTime = &t
	p.Status = &st
}

// ClonePosts deep-copies a post slice, preserving nil.
func ClonePosts(in []Post) []Post {
	if in == nil {
		return nil
	}
	out := make([]Post, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// SplitHashtags splits a space separated hashtag field, dropping blanks.
func SplitHashtags(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{}
	}
	return fields
}
