package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/brandloom/internal/model"
)

// OverlayKind identifies the modal layered over the current screen.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayPostEditor
	OverlayScheduleEditor
)

func (k OverlayKind) String() string {
	switch k {
	case OverlayPostEditor:
		return "post-editor"
	case OverlayScheduleEditor:
		return "schedule-editor"
	default:
		return "none"
	}
}

// Overlay is the open modal. At most one is open at a time; a blocking
// Notice may sit above it.
type Overlay struct {
	Kind OverlayKind
	// Post is the working copy edited by the post editor.
	Post model.Post
	// Schedule is the form of the schedule editor.
	Schedule ScheduleForm
}

// Open reports whether a modal is shown.
func (o Overlay) Open() bool { return o.Kind != OverlayNone }

func (o Overlay) clone() Overlay {
	out := o
	out.Post = o.Post.Clone()
	return out
}

// overlayAllowed lists the screens each modal can open on.
func overlayAllowed(kind OverlayKind, s Screen) bool {
	switch kind {
	case OverlayPostEditor:
		return s == ScreenGeneratedPosts || s == ScreenInstagramPreview || s == ScreenDashboard
	case OverlayScheduleEditor:
		return s == ScreenInstagramPreview || s == ScreenDashboard
	}
	return false
}

// Frequency spaces out bulk scheduled posts.
type Frequency string

const (
	Daily      Frequency = "daily"
	Every2Days Frequency = "every2days"
	Every3Days Frequency = "every3days"
	Weekly     Frequency = "weekly"
)

// Frequencies lists the choices in display order.
func Frequencies() []Frequency {
	return []Frequency{Daily, Every2Days, Every3Days, Weekly}
}

// Label returns a display name.
func (f Frequency) Label() string {
	switch f {
	case Daily:
		return "Daily"
	case Every2Days:
		return "Every 2 days"
	case Every3Days:
		return "Every 3 days"
	case Weekly:
		return "Weekly"
	}
	return string(f)
}

// DayOffset is how many days after today the i-th post goes out.
func (f Frequency) DayOffset(i int) int {
	switch f {
	case Daily:
		return i + 1
	case Every3Days:
		return i*3 + 3
	case Weekly:
		return i*7 + 3
	default:
		return i*2 + 3
	}
}

// ScheduleTimeLayout is the format of Post.ScheduledTime.
const ScheduleTimeLayout = "2006-01-02 15:04"

// ScheduleForm is the schedule editor's input. With PostID set it
// schedules that one saved post on Date at PreferredTime; otherwise it
// spaces the selected posts of the theme by Frequency.
type ScheduleForm struct {
	PostID        string
	Frequency     Frequency
	PreferredTime string
	Date          string
}

// DefaultScheduleForm matches the editor's initial state.
func DefaultScheduleForm() ScheduleForm {
	return ScheduleForm{Frequency: Every2Days, PreferredTime: "10:00"}
}

// Single reports whether the form schedules one post.
func (f ScheduleForm) Single() bool { return f.PostID != "" }

// Times returns n scheduled times relative to now.
func (f ScheduleForm) Times(now time.Time, n int) ([]string, error) {
	clock, err := time.Parse("15:04", strings.TrimSpace(f.PreferredTime))
	if err != nil {
		return nil, fmt.Errorf("preferred time %q: want HH:MM", f.PreferredTime)
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())

	if f.Single() {
		if d := strings.TrimSpace(f.Date); d != "" {
			parsed, err := time.ParseInLocation("2006-01-02", d, now.Location())
			if err != nil {
				return nil, fmt.Errorf("date %q: want YYYY-MM-DD", f.Date)
			}
			day = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		}
		return []string{day.Format(ScheduleTimeLayout)}, nil
	}

	freq := f.Frequency
	if freq == "" {
		freq = Every2Days
	}
	out := make([]string, n)
	for i := range out {
		out[i] = day.AddDate(0, 0, freq.DayOffset(i)).Format(ScheduleTimeLayout)
	}
	return out, nil
}

// PostEdit is what the post editor may change.
type PostEdit struct {
	PostType      model.PostType
	Caption       string
	Hashtags      string
	ScheduledTime string
}

// Apply returns a copy of p with the edit merged in.
func (e PostEdit) Apply(p model.Post) model.Post {
	out := p.Clone()
	if e.PostType != "" {
		out.PostType = e.PostType
	}
	out.Caption = strings.TrimSpace(e.Caption)
	out.Hashtags = model.SplitHashtags(e.Hashtags)
	if at := strings.TrimSpace(e.ScheduledTime); at != "" {
		out.Schedule(at)
	} else {
		out.ScheduledTime = nil
		if out.StatusLabel() == model.StatusScheduled {
			st := model.StatusDraft
			out.Status = &st
		}
	}
	return out
}
