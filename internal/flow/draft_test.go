package flow

import (
	"reflect"
	"testing"
	"time"

	"github.com/five82/brandloom/internal/model"
)

func TestBrandDraft_Brand(t *testing.T) {
	logo := "  "
	d := BrandDraft{
		Name:           "  ",
		MajorStrengths: []string{" fast ", "", "cheap"},
		LogoImage:      &logo,
	}
	b := d.Brand()
	if b.Name != "Unnamed Brand" {
		t.Fatalf("Name = %q, want Unnamed Brand", b.Name)
	}
	if !reflect.DeepEqual(b.MajorStrengths, []string{"fast", "cheap"}) {
		t.Fatalf("MajorStrengths = %v, want [fast cheap]", b.MajorStrengths)
	}
	if b.MainProducts == nil || len(b.MainProducts) != 0 {
		t.Fatalf("MainProducts = %#v, want empty slice", b.MainProducts)
	}
	if b.LogoImage != nil {
		t.Fatalf("LogoImage = %q, want nil", *b.LogoImage)
	}
}

func TestThemeDraft_Theme(t *testing.T) {
	d := NewThemeDraft("b1")
	if d.LocalID == "" {
		t.Fatal("LocalID empty, want generated")
	}
	th := d.Theme()
	if th.Name != "Untitled Theme" || th.PostsCount != DefaultPostsCount || th.CaptionLength != model.CaptionMedium {
		t.Fatalf("theme = %+v, want defaults", th)
	}
	if !th.UseHashtags || th.UseEmojis {
		t.Fatalf("hashtags = %v emojis = %v, want true false", th.UseHashtags, th.UseEmojis)
	}
	if th.Posts == nil {
		t.Fatal("Posts = nil, want empty slice")
	}

	d.PostsCount = 0
	if got := d.Theme().PostsCount; got != 1 {
		t.Fatalf("PostsCount(0) = %d, want 1", got)
	}
}

func TestThemeDraft_Options(t *testing.T) {
	opt := model.ThemeOption{Name: "Bold", Mood: "Loud", Colors: []string{"#000"}, Imagery: "Street", Tone: "Punchy", ImageURL: "u"}

	d := ThemeDraftFromOption("b1", opt)
	if d.Name != "Bold" || d.BrandID != "b1" || d.PreviewImage != "u" || d.PostsCount != DefaultPostsCount {
		t.Fatalf("draft = %+v, want option promoted", d)
	}

	base := NewThemeDraft("b1")
	base.Name = "Mine"
	applied := base.ApplyOption(opt)
	if applied.Name != "Mine" || applied.Mood != "Loud" || applied.PreviewImage != "u" {
		t.Fatalf("applied = %+v, want look copied and name kept", applied)
	}
	applied.Colors[0] = "#fff"
	if opt.Colors[0] != "#000" {
		t.Fatal("ApplyOption shares the option's colors")
	}
}

func TestThemeDraft_UpdateCarriesEveryField(t *testing.T) {
	d := ThemeDraftFrom(model.Theme{ID: "t1", BrandID: "b1", Name: "Summer", PostsCount: 3, Tone: "Warm"})
	u := d.Update()
	got := u.Apply(model.Theme{ID: "t1", BrandID: "b1", Name: "old", PostsCount: 9, Tone: "Cold"})
	if got.Name != "Summer" || got.PostsCount != 3 || got.Tone != "Warm" {
		t.Fatalf("applied = %+v, want draft fields", got)
	}
	if u.SetPosts {
		t.Fatal("SetPosts = true, want posts untouched")
	}
}

func TestFrequency_DayOffset(t *testing.T) {
	tests := []struct {
		f    Frequency
		want []int
	}{
		{Daily, []int{1, 2, 3}},
		{Every2Days, []int{3, 5, 7}},
		{Every3Days, []int{3, 6, 9}},
		{Weekly, []int{3, 10, 17}},
		{Frequency("unknown"), []int{3, 5, 7}},
	}
	for _, tt := range tests {
		var got []int
		for i := range 3 {
			got = append(got, tt.f.DayOffset(i))
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s offsets = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestScheduleForm_Times(t *testing.T) {
	now := time.Date(2025, 3, 30, 22, 0, 0, 0, time.UTC)

	got, err := ScheduleForm{Frequency: Daily, PreferredTime: "07:05"}.Times(now, 2)
	if err != nil {
		t.Fatalf("Times returned error: %v", err)
	}
	if want := []string{"2025-03-31 07:05", "2025-04-01 07:05"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Times = %v, want %v", got, want)
	}

	single, err := ScheduleForm{PostID: "p1", PreferredTime: "12:00", Date: "2025-05-01"}.Times(now, 5)
	if err != nil {
		t.Fatalf("single Times returned error: %v", err)
	}
	if want := []string{"2025-05-01 12:00"}; !reflect.DeepEqual(single, want) {
		t.Fatalf("single Times = %v, want %v", single, want)
	}

	if _, err := (ScheduleForm{PreferredTime: "noon"}).Times(now, 1); err == nil {
		t.Fatal("Times with bad clock returned nil error")
	}
	if _, err := (ScheduleForm{PostID: "p1", PreferredTime: "10:00", Date: "05/01"}).Times(now, 1); err == nil {
		t.Fatal("Times with bad date returned nil error")
	}
}

func TestPostEdit_Apply(t *testing.T) {
	at := "2025-01-01 10:00"
	st := model.StatusScheduled
	p := model.Post{ID: "p1", PostType: model.PostSales, ScheduledTime: &at, Status: &st}

	got := PostEdit{Caption: " hi ", Hashtags: " #a #b "}.Apply(p)
	if got.PostType != model.PostSales {
		t.Fatalf("PostType = %q, want unchanged", got.PostType)
	}
	if got.Caption != "hi" || !reflect.DeepEqual(got.Hashtags, []string{"#a", "#b"}) {
		t.Fatalf("post = %+v, want trimmed caption and split hashtags", got)
	}
	if got.ScheduledTime != nil || got.StatusLabel() != model.StatusDraft {
		t.Fatalf("schedule = %v status = %s, want cleared draft", got.ScheduledTime, got.StatusLabel())
	}
	if *p.ScheduledTime != at {
		t.Fatal("Apply mutated the input post")
	}

	scheduled := PostEdit{ScheduledTime: "2025-02-02 08:00"}.Apply(model.Post{ID: "p2"})
	if scheduled.StatusLabel() != model.StatusScheduled || *scheduled.ScheduledTime != "2025-02-02 08:00" {
		t.Fatalf("post = %+v, want scheduled", scheduled)
	}
}

func TestBrandDraft_WithSuggestions(t *testing.T) {
	tests := []struct {
		name         string
		draft        BrandDraft
		wantAudience string
		wantProducts []string
		wantVoice    string
	}{
		{
			name:         "known category",
			draft:        BrandDraft{Category: " Food & Beverage "},
			wantAudience: suggestedAudience["food & beverage"],
			wantProducts: suggestedProducts["food & beverage"],
			wantVoice:    defaultVoice,
		},
		{
			name:         "unknown category",
			draft:        BrandDraft{Category: "Anvils"},
			wantAudience: defaultAudience,
			wantProducts: defaultProducts,
			wantVoice:    defaultVoice,
		},
		{
			name:         "typed values kept",
			draft:        BrandDraft{Category: "Food & Beverage", TargetAudience: "Coyotes", MainProducts: []string{"anvils"}, BrandVoice: "Dry"},
			wantAudience: "Coyotes",
			wantProducts: []string{"anvils"},
			wantVoice:    "Dry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.draft.withSuggestions()
			if got.TargetAudience != tt.wantAudience {
				t.Fatalf("TargetAudience = %q, want %q", got.TargetAudience, tt.wantAudience)
			}
			if !reflect.DeepEqual(got.MainProducts, tt.wantProducts) {
				t.Fatalf("MainProducts = %v, want %v", got.MainProducts, tt.wantProducts)
			}
			if got.BrandVoice != tt.wantVoice {
				t.Fatalf("BrandVoice = %q, want %q", got.BrandVoice, tt.wantVoice)
			}
			if len(got.MajorStrengths) == 0 {
				t.Fatal("MajorStrengths empty, want suggestions")
			}
		})
	}
}

func TestBrandDraft_WithSuggestionsDoesNotShareSlices(t *testing.T) {
	d := BrandDraft{Category: "Home & Lifestyle"}.withSuggestions()
	d.MainProducts[0] = "changed"
	d.MajorStrengths[0] = "changed"
	if suggestedProducts["home & lifestyle"][0] == "changed" || defaultStrengths[0] == "changed" {
		t.Fatal("suggestion tables mutated through the draft")
	}
}
