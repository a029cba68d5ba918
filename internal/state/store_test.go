package state

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/brandloom/internal/model"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	var s Store
	s.Hydrate(
		[]model.Brand{{ID: "b1", Name: "Acme"}, {ID: "b2", Name: "Globex"}},
		[]model.Theme{
			{ID: "t1", BrandID: "b1", Name: "Summer", Posts: []model.Post{
				{ID: "p1", ThemeID: "t1"},
				{ID: "p2", ThemeID: "t1"},
				{ID: "p3", ThemeID: "t1"},
			}},
			{ID: "t2", BrandID: "b2", Name: "Winter"},
		},
	)
	return &s
}

func postIDs(posts []model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := seeded(t)

	before := time.Now()
	if err := s.AddBrand(model.Brand{ID: "b3", MajorStrengths: []string{"fast"}}); err != nil {
		t.Fatalf("AddBrand returned error: %v", err)
	}
	snap := s.Snapshot()
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Brands[2].MajorStrengths[0] = "mutated"
	snap.Themes[0].Posts[0].Caption = "mutated"

	again := s.Snapshot()
	if again.Brands[2].MajorStrengths[0] != "fast" {
		t.Fatalf("brand strengths = %q, want fast", again.Brands[2].MajorStrengths[0])
	}
	if again.Themes[0].Posts[0].Caption != "" {
		t.Fatalf("post caption = %q, want empty", again.Themes[0].Posts[0].Caption)
	}
}

func TestStore_AddRejectsDuplicatesAndOrphans(t *testing.T) {
	s := seeded(t)

	if err := s.AddBrand(model.Brand{ID: "b1"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("AddBrand duplicate error = %v, want ErrDuplicateID", err)
	}
	if err := s.AddTheme(model.Theme{ID: "t9", BrandID: "missing"}); !errors.Is(err, ErrUnknownBrand) {
		t.Fatalf("AddTheme orphan error = %v, want ErrUnknownBrand", err)
	}
	if err := s.AddTheme(model.Theme{ID: "t1", BrandID: "b1"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("AddTheme duplicate error = %v, want ErrDuplicateID", err)
	}
	if got := len(s.Snapshot().Themes); got != 2 {
		t.Fatalf("themes = %d, want 2", got)
	}
}

func TestStore_AppendPostKeepsOrder(t *testing.T) {
	s := seeded(t)

	for _, id := range []string{"p4", "p5"} {
		if !s.AppendPost("t1", model.Post{ID: id}) {
			t.Fatalf("AppendPost(%s) = false, want true", id)
		}
	}
	if !s.AppendPost("t1", model.Post{ID: "p2", Caption: "again"}) {
		t.Fatal("AppendPost replay = false, want true")
	}
	if s.AppendPost("missing", model.Post{ID: "x"}) {
		t.Fatal("AppendPost to unknown theme = true, want false")
	}

	th, _ := s.Theme("t1")
	want := []string{"p1", "p2", "p3", "p4", "p5"}
	if got := postIDs(th.Posts); !reflect.DeepEqual(got, want) {
		t.Fatalf("posts = %v, want %v", got, want)
	}
	if th.Posts[1].Caption != "again" {
		t.Fatalf("replayed caption = %q, want again", th.Posts[1].Caption)
	}
	if th.Posts[3].ThemeID != "t1" {
		t.Fatalf("ThemeID = %q, want t1 filled in", th.Posts[3].ThemeID)
	}
}

func TestStore_SelectionAndSave(t *testing.T) {
	s := seeded(t)

	if err := s.TogglePostSelection("t1", "p1", "p3"); err != nil {
		t.Fatalf("TogglePostSelection returned error: %v", err)
	}
	n, err := s.SaveSelectedPosts("t1")
	if err != nil {
		t.Fatalf("SaveSelectedPosts returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("saved = %d, want 2", n)
	}
	snap := s.Snapshot()
	if got := postIDs(snap.SavedPosts); !reflect.DeepEqual(got, []string{"p1", "p3"}) {
		t.Fatalf("saved posts = %v, want [p1 p3]", got)
	}

	if err := s.SetSelection("t1", []string{"p2", "p3"}); err != nil {
		t.Fatalf("SetSelection returned error: %v", err)
	}
	if _, err := s.SaveSelectedPosts("t1"); err != nil {
		t.Fatalf("SaveSelectedPosts returned error: %v", err)
	}
	if got := postIDs(s.Snapshot().SavedPosts); !reflect.DeepEqual(got, []string{"p1", "p3", "p2"}) {
		t.Fatalf("saved posts = %v, want [p1 p3 p2]", got)
	}

	if err := s.TogglePostSelection("nope", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TogglePostSelection unknown theme error = %v, want ErrNotFound", err)
	}
}

func TestStore_SavedPostsForBrand(t *testing.T) {
	s := seeded(t)
	s.AppendPost("t2", model.Post{ID: "w1", Selected: true})
	_ = s.SetSelection("t1", []string{"p2"})
	_, _ = s.SaveSelectedPosts("t1")
	_, _ = s.SaveSelectedPosts("t2")

	if got := postIDs(s.SavedPostsForBrand("b1")); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("b1 saved = %v, want [p2]", got)
	}
	if got := postIDs(s.Snapshot().SavedPostsForBrand("b2")); !reflect.DeepEqual(got, []string{"w1"}) {
		t.Fatalf("b2 saved = %v, want [w1]", got)
	}
}

func TestStore_ScheduleAndRemoveSavedPost(t *testing.T) {
	s := seeded(t)
	_ = s.SetSelection("t1", []string{"p1"})
	_, _ = s.SaveSelectedPosts("t1")

	if err := s.SchedulePost("p1", "2025-12-20 10:00"); err != nil {
		t.Fatalf("SchedulePost returned error: %v", err)
	}
	saved := s.Snapshot().SavedPosts[0]
	if saved.ScheduledTime == nil || *saved.ScheduledTime != "2025-12-20 10:00" {
		t.Fatalf("ScheduledTime = %v, want 2025-12-20 10:00", saved.ScheduledTime)
	}
	if saved.StatusLabel() != model.StatusScheduled {
		t.Fatalf("status = %q, want scheduled", saved.StatusLabel())
	}

	if err := s.RemoveSavedPost("p1"); err != nil {
		t.Fatalf("RemoveSavedPost returned error: %v", err)
	}
	if err := s.RemoveSavedPost("p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second RemoveSavedPost error = %v, want ErrNotFound", err)
	}
	th, _ := s.Theme("t1")
	if !th.HasPost("p1") {
		t.Fatal("removing a saved post deleted it from its theme")
	}
}

func TestStore_UpdatePostRefreshesSavedCopy(t *testing.T) {
	s := seeded(t)
	_ = s.SetSelection("t1", []string{"p1"})
	_, _ = s.SaveSelectedPosts("t1")

	th, _ := s.Theme("t1")
	edited := th.Posts[0]
	edited.Caption = "new caption"
	if err := s.UpdatePost(edited); err != nil {
		t.Fatalf("UpdatePost returned error: %v", err)
	}
	if got := s.Snapshot().SavedPosts[0].Caption; got != "new caption" {
		t.Fatalf("saved caption = %q, want new caption", got)
	}
	if err := s.UpdatePost(model.Post{ID: "zz", ThemeID: "t1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdatePost unknown error = %v, want ErrNotFound", err)
	}
}

func TestStore_RemoveBrandCascades(t *testing.T) {
	s := seeded(t)
	_ = s.SetSelection("t1", []string{"p1"})
	_, _ = s.SaveSelectedPosts("t1")

	if err := s.RemoveBrand("b1"); err != nil {
		t.Fatalf("RemoveBrand returned error: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Brands) != 1 || snap.Brands[0].ID != "b2" {
		t.Fatalf("brands = %#v, want only b2", snap.Brands)
	}
	if len(snap.Themes) != 1 || snap.Themes[0].ID != "t2" {
		t.Fatalf("themes = %#v, want only t2", snap.Themes)
	}
	if len(snap.SavedPosts) != 0 {
		t.Fatalf("saved posts = %v, want none", postIDs(snap.SavedPosts))
	}
}

func TestStore_ResetAndPlatforms(t *testing.T) {
	s := seeded(t)
	s.ConnectPlatform(model.Instagram, model.SimulatedAccount(model.Instagram))

	snap := s.Snapshot()
	if c := snap.Platforms[model.Instagram]; !c.Connected || c.Account != "yourinstagramaccount" {
		t.Fatalf("instagram = %#v, want connected yourinstagramaccount", c)
	}
	if snap.Platforms[model.Facebook].Connected {
		t.Fatal("facebook connected, want disconnected")
	}

	s.Reset()
	snap = s.Snapshot()
	if len(snap.Brands) != 0 || len(snap.Themes) != 0 || snap.Platforms.AnyConnected() {
		t.Fatalf("snapshot after Reset = %#v, want empty", snap)
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := seeded(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendPost("t2", model.Post{ID: fmt.Sprintf("c%d", i)})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	th, _ := s.Theme("t2")
	if len(th.Posts) != 50 {
		t.Fatalf("posts = %d, want 50", len(th.Posts))
	}
}
