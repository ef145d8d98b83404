package posts

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func newTestFeed() *Feed {
	return NewFeed(Options{Delay: -1, Rand: rand.New(rand.NewPCG(7, 11))})
}

func TestLoadMore_PagesUntilExhausted(t *testing.T) {
	f := newTestFeed()
	for page := 1; page <= DefaultMaxPages; page++ {
		got, err := f.LoadMore(context.Background())
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(got) != DefaultPerLoad {
			t.Fatalf("page %d: %d posts, want %d", page, len(got), DefaultPerLoad)
		}
		if f.Pages() != page {
			t.Fatalf("Pages = %d, want %d", f.Pages(), page)
		}
	}
	if f.HasMore() {
		t.Fatal("HasMore after last page")
	}
	if _, err := f.LoadMore(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if n := len(f.Posts()); n != DefaultPerLoad*DefaultMaxPages {
		t.Fatalf("len(Posts) = %d", n)
	}
}

func TestLoadMore_PostRanges(t *testing.T) {
	f := NewFeed(Options{Delay: -1, PerLoad: 200, MaxPages: 1, Images: []string{"a.jpg"}, Rand: rand.New(rand.NewPCG(1, 1))})
	got, err := f.LoadMore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ids := make(map[string]bool)
	for _, p := range got {
		if p.Likes < 20 || p.Likes > 119 {
			t.Fatalf("Likes = %d out of range", p.Likes)
		}
		if p.Comments < 5 || p.Comments > 34 {
			t.Fatalf("Comments = %d out of range", p.Comments)
		}
		if p.Image != "a.jpg" {
			t.Fatalf("Image = %q", p.Image)
		}
		if len(p.Hashtags) != 3 || p.Text == "" || p.Age == "" {
			t.Fatalf("incomplete post %+v", p)
		}
		if ids[p.ID] {
			t.Fatalf("duplicate ID %s", p.ID)
		}
		ids[p.ID] = true
	}
}

func TestLoadMore_ContextCancel(t *testing.T) {
	f := NewFeed(Options{Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.LoadMore(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if f.Pages() != 0 {
		t.Fatal("cancelled load counted as a page")
	}
}

func TestFilter(t *testing.T) {
	posts := []Post{
		{ID: "1", Category: Events},
		{ID: "2", Category: Culture},
		{ID: "3", Category: Events},
	}
	if got := Filter(posts, All); len(got) != 3 {
		t.Fatalf("All = %d posts", len(got))
	}
	got := Filter(posts, Events)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("Events = %+v", got)
	}
	if got := Filter(posts, Workshops); len(got) != 0 {
		t.Fatalf("Workshops = %+v", got)
	}
}

func TestFeed_FilterMatchesCategory(t *testing.T) {
	f := newTestFeed()
	if _, err := f.LoadMore(context.Background()); err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, c := range Categories {
		for _, p := range f.Filter(c) {
			if p.Category != c {
				t.Fatalf("Filter(%s) returned %s", c, p.Category)
			}
		}
		total += len(f.Filter(c))
	}
	if total != DefaultPerLoad {
		t.Fatalf("categories cover %d posts, want %d", total, DefaultPerLoad)
	}
}

func TestSearchHashtag(t *testing.T) {
	p := Post{Hashtags: []string{"Culture", "Identity", "Pride"}}
	for _, tag := range []string{"culture", "#Culture", " #PRIDE "} {
		if !p.HasHashtag(tag) {
			t.Fatalf("HasHashtag(%q) = false", tag)
		}
	}
	if p.HasHashtag("#") || p.HasHashtag("Unity") {
		t.Fatal("unexpected hashtag match")
	}

	f := newTestFeed()
	if _, err := f.LoadMore(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, got := range f.SearchHashtag("#community") {
		if !got.HasHashtag("Community") {
			t.Fatalf("SearchHashtag returned %+v", got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		err  bool
	}{
		{"", All, false},
		{"all", All, false},
		{"Events", Events, false},
		{" culture ", Culture, false},
		{"sports", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Fatalf("ParseCategory(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPage_LoadsOnDemand(t *testing.T) {
	f := newTestFeed()
	second, err := f.Page(context.Background(), 2)
	if err != nil {
		t.Fatalf("Page(2): %v", err)
	}
	if f.Pages() != 2 || len(second) != DefaultPerLoad {
		t.Fatalf("Pages = %d, len = %d", f.Pages(), len(second))
	}
	all := f.Posts()
	if second[0].ID != all[DefaultPerLoad].ID {
		t.Fatal("Page(2) does not start at the second page")
	}
	first, err := f.Page(context.Background(), 1)
	if err != nil || first[0].ID != all[0].ID {
		t.Fatalf("Page(1) = %v, %v", first, err)
	}
	if f.Pages() != 2 {
		t.Fatal("Page(1) loaded another page")
	}
	if _, err := f.Page(context.Background(), DefaultMaxPages+1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Page past end err = %v", err)
	}
	if _, err := f.Page(context.Background(), 0); err == nil {
		t.Fatal("Page(0) succeeded")
	}
}
