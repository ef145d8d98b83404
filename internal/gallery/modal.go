// Package gallery implements the photo grid's full-screen viewer on top of
// a carousel.Selection.
package gallery

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/five82/vitrine/internal/carousel"
	"github.com/five82/vitrine/internal/state"
)

// Photo is one gallery entry.
type Photo struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// PhotosFromManifest turns manifest paths into photos with positional alt text.
func PhotosFromManifest(paths []string) []Photo {
	photos := make([]Photo, 0, len(paths))
	for i, p := range paths {
		photos = append(photos, Photo{Src: p, Alt: fmt.Sprintf("Photo %d", i+1)})
	}
	return photos
}

// Title returns a display name derived from the file name.
func (p Photo) Title() string {
	base := path.Base(strings.TrimSpace(p.Src))
	if base == "." || base == "/" {
		return p.Alt
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Options configure a Modal.
type Options struct {
	SwipeThreshold float64

	// OnShow is called with the photo to display whenever the modal opens
	// or navigates.
	OnShow func(index int, photo Photo)
}

// Modal is the gallery viewer. It publishes IsModalOpen and
// CurrentModalImage to the store.
type Modal struct {
	sel    *carousel.Selection[Photo]
	store  *state.Store
	onShow func(int, Photo)

	mu   sync.Mutex
	open bool
}

// New builds a closed modal over photos. It returns carousel.ErrNoItems
// when photos is empty.
func New(photos []Photo, store *state.Store, opts Options) (*Modal, error) {
	sel, err := carousel.New(photos, carousel.Options{SwipeThreshold: opts.SwipeThreshold})
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = state.NewStore()
	}
	return &Modal{sel: sel, store: store, onShow: opts.OnShow}, nil
}

// Photos returns the gallery contents.
func (m *Modal) Photos() []Photo {
	return m.sel.Items()
}

// Len returns the number of photos.
func (m *Modal) Len() int {
	return m.sel.Len()
}

// IsOpen reports whether the viewer is showing.
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Index returns the photo position the viewer is on.
func (m *Modal) Index() int {
	return m.sel.Index()
}

// Current returns the photo the viewer is on.
func (m *Modal) Current() Photo {
	return m.sel.Current()
}

// Open shows the viewer at index. Indexes outside the gallery are ignored.
func (m *Modal) Open(index int) bool {
	if index < 0 || index >= m.sel.Len() {
		return false
	}
	m.sel.GoTo(index)

	m.mu.Lock()
	m.open = true
	m.mu.Unlock()

	state.Update(m.store, state.IsModalOpen, true)
	state.Update(m.store, state.CurrentModalImage, index)
	m.show()
	return true
}

// Close hides the viewer. Closing a closed viewer still publishes false.
func (m *Modal) Close() {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()

	state.Update(m.store, state.IsModalOpen, false)
}

// Next moves to the following photo with wraparound.
func (m *Modal) Next() {
	m.sel.Next()
	m.navigated()
}

// Previous moves to the preceding photo with wraparound.
func (m *Modal) Previous() {
	m.sel.Previous()
	m.navigated()
}

// HandleKey applies viewer key bindings while open. It accepts both
// terminal ("left", "right", "esc") and DOM ("ArrowLeft", "ArrowRight",
// "Escape") key names and reports whether the key was consumed.
func (m *Modal) HandleKey(key string) bool {
	if !m.IsOpen() {
		return false
	}
	switch key {
	case "esc", "Escape":
		m.Close()
	case "left", "ArrowLeft":
		m.Previous()
	case "right", "ArrowRight":
		m.Next()
	default:
		return false
	}
	return true
}

// Swipe navigates on a horizontal drag while open.
func (m *Modal) Swipe(startX, endX float64) carousel.Direction {
	if !m.IsOpen() {
		return carousel.None
	}
	dir := m.sel.Swipe(startX, endX)
	if dir != carousel.None {
		m.navigated()
	}
	return dir
}

func (m *Modal) navigated() {
	state.Update(m.store, state.CurrentModalImage, m.sel.Index())
	m.show()
}

func (m *Modal) show() {
	if m.onShow == nil {
		return
	}
	m.onShow(m.sel.Index(), m.sel.Current())
}
