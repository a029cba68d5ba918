package model

import "testing"

func TestParseCaptionLength(t *testing.T) {
	tests := []struct {
		in   string
		want CaptionLength
	}{
		{"short", CaptionShort},
		{" LONG ", CaptionLong},
		{"medium", CaptionMedium},
		{"", CaptionMedium},
		{"epic", CaptionMedium},
	}
	for _, tt := range tests {
		if got := ParseCaptionLength(tt.in); got != tt.want {
			t.Errorf("ParseCaptionLength(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestThemeCloneIsIndependent(t *testing.T) {
	theme := Theme{
		ID:     "t1",
		Colors: []string{"#fff"},
		Posts:  []Post{{ID: "p1", Hashtags: []string{"#a"}}},
	}
	dup := theme.Clone()
	dup.Colors[0] = "#000"
	dup.Posts[0].Hashtags[0] = "#b"
	dup.Posts[0].ID = "changed"

	if theme.Colors[0] != "#fff" {
		t.Fatalf("Colors[0] = %q, want #fff", theme.Colors[0])
	}
	if theme.Posts[0].ID != "p1" || theme.Posts[0].Hashtags[0] != "#a" {
		t.Fatalf("Posts[0] = %#v, want original post", theme.Posts[0])
	}
}

func TestThemeUpdateApply(t *testing.T) {
	name := "Summer"
	emojis := true
	base := Theme{ID: "t1", Name: "Spring", Mood: "calm", Colors: []string{"#111"}}

	got := ThemeUpdate{Name: &name, UseEmojis: &emojis}.Apply(base)
	if got.Name != "Summer" || !got.UseEmojis {
		t.Fatalf("Apply = %#v, want name and emojis updated", got)
	}
	if got.Mood != "calm" || len(got.Colors) != 1 {
		t.Fatalf("Apply touched unset fields: %#v", got)
	}
	if base.Name != "Spring" {
		t.Fatalf("Apply mutated input: %#v", base)
	}

	cleared := ThemeUpdate{SetPosts: true}.Apply(Theme{Posts: []Post{{ID: "p1"}}})
	if len(cleared.Posts) != 0 {
		t.Fatalf("SetPosts with nil Posts = %#v, want empty", cleared.Posts)
	}
}

func TestSelectedPosts(t *testing.T) {
	theme := Theme{Posts: []Post{{ID: "a", Selected: true}, {ID: "b"}, {ID: "c", Selected: true}}}
	sel := theme.SelectedPosts()
	if len(sel) != 2 || sel[0].ID != "a" || sel[1].ID != "c" {
		t.Fatalf("SelectedPosts = %#v, want a,c", sel)
	}
}

func TestPostScheduleAndStatus(t *testing.T) {
	var p Post
	if p.StatusLabel() != StatusDraft {
		t.Fatalf("StatusLabel = %q, want draft", p.StatusLabel())
	}
	p.Schedule("2025-12-16 10:00")
	if p.StatusLabel() != StatusScheduled || *p.ScheduledTime != "2025-12-16 10:00" {
		t.Fatalf("after Schedule = %#v", p)
	}
	if ParsePostStatus("bogus") != nil {
		t.Fatalf("ParsePostStatus(bogus) should be nil")
	}
	if st := ParsePostStatus("Published"); st == nil || *st != StatusPublished {
		t.Fatalf("ParsePostStatus(Published) = %v, want published", st)
	}
}

func TestPostTypes(t *testing.T) {
	types := PostTypes()
	if len(types) != 12 {
		t.Fatalf("len(PostTypes) = %d, want 12", len(types))
	}
	if NextPostType(PostSales) != PostFunctional {
		t.Fatalf("NextPostType(Sales) = %q, want Functional", NextPostType(PostSales))
	}
	if NextPostType("unknown") != PostFunctional {
		t.Fatalf("NextPostType(unknown) should reset to Functional")
	}
}

func TestSplitHashtags(t *testing.T) {
	got := SplitHashtags("  #a   #b ")
	if len(got) != 2 || got[0] != "#a" || got[1] != "#b" {
		t.Fatalf("SplitHashtags = %#v, want [#a #b]", got)
	}
	if got := SplitHashtags(""); got == nil || len(got) != 0 {
		t.Fatalf("SplitHashtags(\"\") = %#v, want empty non-nil", got)
	}
}

func TestPlatforms(t *testing.T) {
	ps := NewPlatforms()
	if ps.AnyConnected() {
		t.Fatalf("new platforms should be disconnected")
	}
	if _, err := ParsePlatform("myspace"); err == nil {
		t.Fatalf("ParsePlatform(myspace) returned nil error")
	}
	p, err := ParsePlatform(" Instagram ")
	if err != nil || p != Instagram {
		t.Fatalf("ParsePlatform = %q, %v; want instagram", p, err)
	}
	dup := ps.Clone()
	dup[Instagram] = Connection{Connected: true, Account: SimulatedAccount(Instagram)}
	if ps[Instagram].Connected {
		t.Fatalf("Clone shares storage with original")
	}
	if dup[Instagram].Account != "yourinstagramaccount" {
		t.Fatalf("Account = %q, want yourinstagramaccount", dup[Instagram].Account)
	}
}
