// Package posts generates the paged community feed shown on the posts view
// and served at /api/posts.
package posts

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPerLoad   = 6
	DefaultMaxPages  = 3
	DefaultLoadDelay = 1500 * time.Millisecond
	Author           = "quilombourbanosaojoaodelrei"
)

// ErrExhausted is returned by LoadMore once every page has been loaded.
var ErrExhausted = errors.New("posts: no more pages")

// Category groups posts for filtering.
type Category string

const (
	All       Category = "all"
	Events    Category = "events"
	Workshops Category = "workshops"
	Culture   Category = "culture"
	Community Category = "community"
)

// Categories lists the concrete categories in display order.
var Categories = []Category{Events, Workshops, Culture, Community}

// ParseCategory accepts a category name, case-insensitively. Empty means All.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == All {
		return All, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type content struct {
	text     string
	hashtags []string
}

var contents = map[Category]content{
	Events: {
		text:     "Another great event! Community participation made it happen. Thank you all!",
		hashtags: []string{"Event", "Community", "Success"},
	},
	Workshops: {
		text:     "A workshop full of learning and creativity. Our participants keep surprising us!",
		hashtags: []string{"Workshop", "Education", "Creativity"},
	},
	Culture: {
		text:     "Celebrating our Afro-Brazilian culture with pride and joy. Our identity is our strength!",
		hashtags: []string{"Culture", "Identity", "Pride"},
	},
	Community: {
		text:     "Our community's unity is what makes us special. Together we build a better future!",
		hashtags: []string{"Community", "Unity", "Future"},
	},
}

var ages = []string{
	"3 days ago",
	"1 week ago",
	"2 weeks ago",
	"3 weeks ago",
	"1 month ago",
	"2 months ago",
}

// DefaultImages are used when no manifest images are supplied.
var DefaultImages = []string{
	"img/atividade-comunitaria-1.jpg",
	"img/atividade-comunitaria-2.jpg",
	"img/atividade-comunitaria-3.jpg",
}

// Post is one feed entry.
type Post struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Author   string   `json:"author"`
	Image    string   `json:"image"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags"`
	Likes    int      `json:"likes"`
	Comments int      `json:"comments"`
	Age      string   `json:"age"`
}

// HasHashtag reports whether the post carries tag, ignoring case and a
// leading '#'.
func (p Post) HasHashtag(tag string) bool {
	tag = normalizeTag(tag)
	if tag == "" {
		return false
	}
	for _, h := range p.Hashtags {
		if normalizeTag(h) == tag {
			return true
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// Options configures a Feed.
type Options struct {
	PerLoad  int
	MaxPages int
	Delay    time.Duration
	Images   []string
	Rand     *rand.Rand
}

// Feed accumulates generated posts page by page. Safe for concurrent use.
type Feed struct {
	mu       sync.Mutex
	posts    []Post
	pages    int
	perLoad  int
	maxPages int
	delay    time.Duration
	images   []string
	rng      *rand.Rand
}

// NewFeed returns an empty feed. Zero options use the defaults; a negative
// Delay disables the wait.
func NewFeed(opts Options) *Feed {
	f := &Feed{
		perLoad:  opts.PerLoad,
		maxPages: opts.MaxPages,
		delay:    opts.Delay,
		images:   append([]string(nil), opts.Images...),
		rng:      opts.Rand,
	}
	if f.perLoad <= 0 {
		f.perLoad = DefaultPerLoad
	}
	if f.maxPages <= 0 {
		f.maxPages = DefaultMaxPages
	}
	if f.delay == 0 {
		f.delay = DefaultLoadDelay
	}
	if len(f.images) == 0 {
		f.images = append([]string(nil), DefaultImages...)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f
}

// LoadMore waits out the load delay and appends one page of posts.
func (f *Feed) LoadMore(ctx context.Context) ([]Post, error) {
	if !f.HasMore() {
		return nil, ErrExhausted
	}
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Another caller may have taken the last page while we waited.
	if f.pages >= f.maxPages {
		return nil, ErrExhausted
	}
	page := make([]Post, 0, f.perLoad)
	for i := 0; i < f.perLoad; i++ {
		page = append(page, f.generate())
	}
	f.posts = append(f.posts, page...)
	f.pages++
	return page, nil
}

func (f *Feed) generate() Post {
	cat := Categories[f.rng.IntN(len(Categories))]
	c := contents[cat]
	return Post{
		ID:       uuid.NewString(),
		Category: cat,
		Author:   Author,
		Image:    f.images[f.rng.IntN(len(f.images))],
		Text:     c.text,
		Hashtags: append([]string(nil), c.hashtags...),
		Likes:    f.rng.IntN(100) + 20,
		Comments: f.rng.IntN(30) + 5,
		Age:      ages[f.rng.IntN(len(ages))],
	}
}

// Page returns page n (1-based), loading earlier pages as needed. Pages
// past the last one return ErrExhausted.
func (f *Feed) Page(ctx context.Context, n int) ([]Post, error) {
	if n < 1 {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	for f.Pages() < n {
		if _, err := f.LoadMore(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	start := (n - 1) * f.perLoad
	end := min(start+f.perLoad, len(f.posts))
	return append([]Post(nil), f.posts[start:end]...), nil
}

// Pages returns how many pages have been loaded.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages
}

// HasMore reports whether LoadMore can still return a page.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages < f.maxPages
}

// Posts returns a copy of every loaded post in load order.
func (f *Feed) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Post(nil), f.posts...)
}

// Filter returns the loaded posts in category c. All returns everything.
func (f *Feed) Filter(c Category) []Post {
	return Filter(f.Posts(), c)
}

// SearchHashtag returns the loaded posts tagged with tag.
func (f *Feed) SearchHashtag(tag string) []Post {
	var out []Post
	for _, p := range f.Posts() {
		if p.HasHashtag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns the posts in category c, preserving order.
func Filter(posts []Post, c Category) []Post {
	if c == All || c == "" {
		return posts
	}
	var out []Post
	for _, p := range posts {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
