package ui

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vitrine/internal/carousel"
	"github.com/five82/vitrine/internal/config"
	"github.com/five82/vitrine/internal/forms"
	"github.com/five82/vitrine/internal/gallery"
	"github.com/five82/vitrine/internal/logging"
	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/prefs"
	"github.com/five82/vitrine/internal/state"
)

type stubSubmitter struct {
	err   error
	calls int
}

func (s *stubSubmitter) Submit(context.Context, forms.Submission) error {
	s.calls++
	return s.err
}

type harness struct {
	model     Model
	store     *state.Store
	slideshow *carousel.Selection[string]
	submitter *stubSubmitter
	prefsPath string
	cfg       *config.Config
	copied    []string
	copyErr   error
}

func newHarness(t *testing.T, images []string) *harness {
	t.Helper()
	store := state.NewStore()
	cfg := config.Default()
	cfg.LogDir = t.TempDir()
	cfg.SlideInterval = time.Hour

	h := &harness{
		store:     store,
		submitter: &stubSubmitter{},
		prefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		cfg:       &cfg,
	}

	var modal *gallery.Modal
	if len(images) > 0 {
		sel, err := carousel.New(images, carousel.Options{
			Interval:       time.Hour,
			SwipeThreshold: float64(cfg.DragThreshold),
			Store:          store,
			Key:            state.CurrentSlide,
		})
		if err != nil {
			t.Fatalf("carousel.New: %v", err)
		}
		t.Cleanup(sel.Stop)
		h.slideshow = sel

		modal, err = gallery.New(gallery.PhotosFromManifest(images), store, gallery.Options{})
		if err != nil {
			t.Fatalf("gallery.New: %v", err)
		}
	}

	h.model = New(Options{
		Store:     store,
		Config:    &cfg,
		Slideshow: h.slideshow,
		Gallery:   modal,
		Feed:      posts.NewFeed(posts.Options{Delay: -1, Rand: rand.New(rand.NewPCG(3, 5))}),
		Submitter: h.submitter,
		PrefsPath: h.prefsPath,
		Autoplay:  true,
		Logger:    logging.Discard(),
		Clipboard: func(text string) error {
			h.copied = append(h.copied, text)
			return h.copyErr
		},
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

var threeImages = []string{"img/a.jpg", "img/b.jpg", "img/c.jpg"}

func TestSlideshowKeysPublishCurrentSlide(t *testing.T) {
	h := newHarness(t, threeImages)

	h.press("right")
	if got := state.Get(h.store, state.CurrentSlide); got != 1 {
		t.Fatalf("currentSlide after right = %d, want 1", got)
	}
	h.press("h", "h")
	if got := state.Get(h.store, state.CurrentSlide); got != 2 {
		t.Fatalf("currentSlide after wrap = %d, want 2", got)
	}
}

func TestSpaceTogglesPlayAndSavesPrefs(t *testing.T) {
	h := newHarness(t, threeImages)

	h.press(" ")
	if h.slideshow.Playing() {
		t.Fatal("slideshow still playing after space")
	}
	p, _ := prefs.Load(h.prefsPath)
	if p.Autoplay {
		t.Fatal("prefs autoplay not saved as false")
	}

	h.press(" ")
	if !h.slideshow.Playing() || !h.slideshow.Running() {
		t.Fatal("second space should resume and start the timer")
	}
	p, _ = prefs.Load(h.prefsPath)
	if !p.Autoplay {
		t.Fatal("prefs autoplay not saved as true")
	}
}

func TestEnterOpensModalAndEscCloses(t *testing.T) {
	h := newHarness(t, threeImages)

	h.press("right", "enter")
	if h.model.currentView != ViewGallery {
		t.Fatalf("view = %v, want Gallery", h.model.currentView)
	}
	if !state.Get(h.store, state.IsModalOpen) || state.Get(h.store, state.CurrentModalImage) != 1 {
		t.Fatalf("modal state = %v", h.store.Snapshot())
	}
	if !strings.Contains(h.model.View(), "2 / 3") {
		t.Fatal("modal view missing position")
	}

	h.press("l")
	if got := state.Get(h.store, state.CurrentModalImage); got != 2 {
		t.Fatalf("currentModalImage = %d, want 2", got)
	}

	// Keys go to the viewer while it is open, not to view switching.
	h.press("3")
	if h.model.currentView != ViewGallery {
		t.Fatal("digit switched views while the viewer was open")
	}

	h.press("esc")
	if state.Get(h.store, state.IsModalOpen) {
		t.Fatal("modal still open after esc")
	}
	if h.model.galleryCursor != 2 {
		t.Fatalf("galleryCursor = %d, want 2", h.model.galleryCursor)
	}
}

func TestGalleryCursorClamps(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("2", "left")
	if h.model.galleryCursor != 0 {
		t.Fatalf("cursor = %d, want 0", h.model.galleryCursor)
	}
	h.press("G")
	if h.model.galleryCursor != 2 {
		t.Fatalf("cursor = %d, want 2", h.model.galleryCursor)
	}
	h.press("right", "enter")
	if got := state.Get(h.store, state.CurrentModalImage); got != 2 || !h.model.gallery.IsOpen() {
		t.Fatalf("open at %d, open=%v", got, h.model.gallery.IsOpen())
	}
}

func TestMenuToggleSelectAndEsc(t *testing.T) {
	h := newHarness(t, threeImages)

	h.press("m")
	if !state.Get(h.store, state.IsMenuOpen) {
		t.Fatal("menu not open after m")
	}
	h.press("down", "down", "enter")
	if h.model.currentView != ViewPosts {
		t.Fatalf("view = %v, want Posts", h.model.currentView)
	}
	if state.Get(h.store, state.IsMenuOpen) {
		t.Fatal("menu still open after selecting a view")
	}

	h.press("m", "esc")
	if state.Get(h.store, state.IsMenuOpen) {
		t.Fatal("menu still open after esc")
	}
}

func TestViewSwitchingAndQuit(t *testing.T) {
	h := newHarness(t, threeImages)

	h.press("tab")
	if h.model.currentView != ViewGallery {
		t.Fatalf("view after tab = %v", h.model.currentView)
	}
	h.press("4")
	if h.model.currentView != ViewContact {
		t.Fatalf("view after 4 = %v", h.model.currentView)
	}

	cmd := h.press("q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestMouseDragSwipes(t *testing.T) {
	h := newHarness(t, threeImages)

	h.send(tea.MouseMsg{X: 60, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: 40, Action: tea.MouseActionRelease})
	if got := state.Get(h.store, state.CurrentSlide); got != 1 {
		t.Fatalf("leftward drag: currentSlide = %d, want 1", got)
	}

	h.send(tea.MouseMsg{X: 40, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: 42, Action: tea.MouseActionRelease})
	if got := state.Get(h.store, state.CurrentSlide); got != 1 {
		t.Fatalf("short drag moved the slide to %d", got)
	}

	h.send(tea.MouseMsg{X: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: 30, Action: tea.MouseActionRelease})
	if got := state.Get(h.store, state.CurrentSlide); got != 0 {
		t.Fatalf("rightward drag: currentSlide = %d, want 0", got)
	}
}

func TestStoreEventsRearmWait(t *testing.T) {
	h := newHarness(t, threeImages)
	events := Subscribe(h.store, 4)
	h.model.events = events

	state.Update(h.store, state.CurrentSlide, 2)
	msg := waitForEvent(events)()
	ev, ok := msg.(storeEventMsg)
	if !ok || ev.Key != "currentSlide" || ev.New != 2 {
		t.Fatalf("msg = %#v", msg)
	}
	if cmd := h.send(msg); cmd == nil {
		t.Fatal("store event did not re-arm the wait")
	}
	if h.model.lastEvent == nil || h.model.lastEvent.Key != "currentSlide" {
		t.Fatalf("lastEvent = %+v", h.model.lastEvent)
	}
}

func TestContactValidationAndSubmit(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("4", "ctrl+s")

	c := h.model.contact
	if c.status != forms.StatusInvalid {
		t.Fatalf("status = %v, want invalid", c.status)
	}
	for _, name := range []string{"name", "email", "message"} {
		if c.errors[name] == "" {
			t.Fatalf("missing error for %s: %v", name, c.errors)
		}
	}
	if c.focused != 0 {
		t.Fatalf("focused = %d, want first invalid field", c.focused)
	}
	if h.submitter.calls != 0 {
		t.Fatal("invalid form reached the submitter")
	}

	h.press("Ana", "tab", "ana@example.org", "tab", "tab", "Hello there")
	if h.model.contact.errors["name"] != "" {
		t.Fatal("editing a field did not clear its error")
	}
	cmd := h.press("ctrl+s")
	if h.model.contact.status != forms.StatusSending {
		t.Fatalf("status = %v, want sending", h.model.contact.status)
	}
	if cmd == nil {
		t.Fatal("submit returned no command")
	}

	clearCmd := h.send(cmd())
	if h.model.contact.status != forms.StatusSuccess {
		t.Fatalf("status = %v, want success", h.model.contact.status)
	}
	if h.submitter.calls != 1 {
		t.Fatalf("submitter calls = %d", h.submitter.calls)
	}
	if v := h.model.contact.values()["name"]; v != "" {
		t.Fatalf("inputs not reset after success: name=%q", v)
	}
	if clearCmd == nil {
		t.Fatal("no status clear scheduled")
	}

	h.send(clearStatusMsg{seq: h.model.contact.seq})
	if h.model.contact.status != forms.StatusIdle {
		t.Fatalf("status = %v, want idle after clear", h.model.contact.status)
	}
}

func TestContactSubmitFailureKeepsValues(t *testing.T) {
	h := newHarness(t, threeImages)
	h.submitter.err = errors.New("boom")

	h.press("4", "ctrl+n")
	if h.model.contact.form.ID != forms.Suggestions.ID {
		t.Fatalf("form = %s, want suggestions", h.model.contact.form.ID)
	}
	h.press("enter", "tab", "tab", "More music")
	cmd := h.press("enter")
	if cmd == nil {
		t.Fatal("enter on last field did not submit")
	}
	h.send(cmd())
	if h.model.contact.status != forms.StatusError {
		t.Fatalf("status = %v, want error", h.model.contact.status)
	}
	if v := h.model.contact.values()["suggestion"]; v != "More music" {
		t.Fatalf("suggestion = %q, want it kept", v)
	}
}

func TestPostsLoadFilterAndSearch(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("3")
	if !h.model.postsState.loading {
		t.Fatal("posts should start loading")
	}
	h.send(loadPostsCmd(context.Background(), h.model.feed)())
	if h.model.postsState.loading || len(h.model.visiblePosts()) != posts.DefaultPerLoad {
		t.Fatalf("loading=%v posts=%d", h.model.postsState.loading, len(h.model.visiblePosts()))
	}

	h.press("f")
	if h.model.postsState.category != posts.Events {
		t.Fatalf("category = %s", h.model.postsState.category)
	}
	for _, p := range h.model.visiblePosts() {
		if p.Category != posts.Events {
			t.Fatalf("filtered post in %s", p.Category)
		}
	}
	h.press("f", "f", "f", "f")
	if h.model.postsState.category != posts.All {
		t.Fatalf("category cycle ended on %s", h.model.postsState.category)
	}

	if cmd := h.press("L"); cmd == nil || !h.model.postsState.loading {
		t.Fatal("L did not start loading")
	}
	if cmd := h.press("L"); cmd != nil {
		t.Fatal("L while loading started a second load")
	}
	h.send(postsLoadedMsg{})

	h.press("/", "Culture")
	cmd := h.press("enter")
	if h.model.postsState.hashtag != "Culture" || cmd == nil {
		t.Fatalf("hashtag = %q", h.model.postsState.hashtag)
	}
	for _, p := range h.model.visiblePosts() {
		if !p.HasHashtag("culture") {
			t.Fatalf("search returned %+v", p)
		}
	}
	h.send(hashtagClearMsg{seq: h.model.postsState.noticeSeq})
	if h.model.postsState.hashtag != "" {
		t.Fatal("hashtag not cleared")
	}
}

func TestPostsScrollPublishesIsScrolled(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("3")
	for h.model.feed.HasMore() {
		h.send(loadPostsCmd(context.Background(), h.model.feed)())
	}

	h.press("G")
	if !state.Get(h.store, state.IsScrolled) {
		t.Fatalf("isScrolled false at offset %d", h.model.postsViewport.YOffset)
	}
	if strings.Contains(h.model.View(), "Community posts") {
		t.Fatal("title did not collapse while scrolled")
	}
	h.press("g")
	if state.Get(h.store, state.IsScrolled) {
		t.Fatal("isScrolled true at top")
	}
}

func TestLogsViewFiltersByLevel(t *testing.T) {
	h := newHarness(t, threeImages)
	logger, closer, err := logging.ToFile(h.cfg.LogPath(), "debug")
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("slideshow: slide changed", "from", 0, "to", 1)
	logger.Info("app: starting")
	_ = closer.Close()

	cmd := h.press("5")
	if cmd == nil {
		t.Fatal("switching to logs did not read the log")
	}
	h.send(cmd())
	if n := len(h.model.logState.entries); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}

	h.press("f")
	if h.model.logState.level != slog.LevelInfo {
		t.Fatalf("level = %v", h.model.logState.level)
	}
	if !strings.Contains(h.model.View(), "1/2 lines") {
		t.Fatal("status does not report the filtered count")
	}
}

func TestLogsViewMissingFile(t *testing.T) {
	h := newHarness(t, threeImages)
	_ = os.Remove(h.cfg.LogPath())
	h.send(h.press("5")())
	if h.model.logState.err != "" || len(h.model.logState.entries) != 0 {
		t.Fatalf("missing log: err=%q entries=%d", h.model.logState.err, len(h.model.logState.entries))
	}
}

func TestViewWithoutImages(t *testing.T) {
	h := newHarness(t, nil)
	if !strings.Contains(h.model.View(), "No images found") {
		t.Fatal("empty slideshow message missing")
	}
	h.press("right", "enter", "2", "enter")
	if h.model.currentView != ViewGallery {
		t.Fatalf("view = %v", h.model.currentView)
	}
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("?")
	if !strings.Contains(h.model.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	h.press("x")
	if h.model.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("T")
	if h.model.theme.Name != "Nightfox" {
		t.Fatalf("theme = %s", h.model.theme.Name)
	}
	p, _ := prefs.Load(h.prefsPath)
	if p.Theme != "Nightfox" {
		t.Fatalf("saved theme = %s", p.Theme)
	}
}

func TestContactCopiesPixKey(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("4")
	if !strings.Contains(h.model.View(), "p: copy") {
		t.Fatal("contact view missing the PIX key hint")
	}

	cmd := h.press("p")
	if cmd == nil {
		t.Fatal("p returned no command")
	}
	clearCmd := h.send(cmd())
	if len(h.copied) != 1 || h.copied[0] != forms.PixKey {
		t.Fatalf("copied = %v, want the PIX key", h.copied)
	}
	if !h.model.pix.copied || !strings.Contains(h.model.View(), "Copied!") {
		t.Fatal("no copied confirmation")
	}
	if clearCmd == nil {
		t.Fatal("no confirmation clear scheduled")
	}

	h.send(pixClearMsg{seq: h.model.pix.seq - 1})
	if !h.model.pix.copied {
		t.Fatal("stale clear removed the confirmation")
	}
	h.send(pixClearMsg{seq: h.model.pix.seq})
	if h.model.pix.copied || strings.Contains(h.model.View(), "Copied!") {
		t.Fatal("confirmation still shown after clear")
	}
}

func TestContactPixCopyFailure(t *testing.T) {
	h := newHarness(t, threeImages)
	h.copyErr = errors.New("no clipboard")
	h.press("4")

	h.send(h.press("p")())
	if h.model.pix.copied || h.model.pix.err == "" {
		t.Fatalf("pix state = %+v, want error", h.model.pix)
	}
	if !strings.Contains(h.model.View(), "copy failed") {
		t.Fatal("failure not shown")
	}
}

func TestContactPWhileEditingTypes(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("4", "enter", "p")
	if len(h.copied) != 0 {
		t.Fatal("p copied while editing a field")
	}
	if v := h.model.contact.values()["name"]; v != "p" {
		t.Fatalf("name = %q, want p", v)
	}
}

func TestPostDetailOpenBrowseClose(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("3")
	h.send(loadPostsCmd(context.Background(), h.model.feed)())
	list := h.model.visiblePosts()

	h.press("j", "j")
	if h.model.postsState.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", h.model.postsState.cursor)
	}
	h.press("k")
	h.press("enter")
	p, i, ok := h.model.detailPost()
	if !ok || p.ID != list[1].ID || i != 1 {
		t.Fatalf("detail = %v %d %v, want post 1", p.ID, i, ok)
	}
	view := h.model.View()
	if !strings.Contains(view, "@"+list[1].Author) || !strings.Contains(view, "2 / 6") {
		t.Fatal("detail overlay missing author or position")
	}

	// Keys browse the overlay instead of switching views.
	h.press("l", "l")
	if p, _, _ := h.model.detailPost(); p.ID != list[3].ID {
		t.Fatalf("after browsing detail = %s, want %s", p.ID, list[3].ID)
	}
	h.press("h", "h", "h", "h")
	if p, _, _ := h.model.detailPost(); p.ID != list[len(list)-1].ID {
		t.Fatal("browsing back did not wrap")
	}
	h.press("2")
	if h.model.currentView != ViewPosts {
		t.Fatal("digit switched views while a post was open")
	}

	h.press("esc")
	if _, _, ok := h.model.detailPost(); ok {
		t.Fatal("detail still open after esc")
	}
	if h.model.postsState.cursor != len(list)-1 {
		t.Fatalf("cursor = %d, want the last browsed post", h.model.postsState.cursor)
	}
}

func TestPostsCursorClampsAndScrolls(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("3")
	for h.model.feed.HasMore() {
		h.send(loadPostsCmd(context.Background(), h.model.feed)())
	}
	n := len(h.model.visiblePosts())

	h.press("k")
	if h.model.postsState.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", h.model.postsState.cursor)
	}
	for i := 0; i < n+3; i++ {
		h.press("j")
	}
	if h.model.postsState.cursor != n-1 {
		t.Fatalf("cursor = %d, want %d", h.model.postsState.cursor, n-1)
	}
	starts := h.model.postsState.cardStarts
	vp := h.model.postsViewport
	if starts[n-1] < vp.YOffset || starts[n] > vp.YOffset+vp.Height {
		t.Fatalf("last card %d-%d not inside viewport %d+%d", starts[n-1], starts[n], vp.YOffset, vp.Height)
	}
}

func TestHelpListsThemes(t *testing.T) {
	h := newHarness(t, threeImages)
	h.press("?")
	view := h.model.View()
	for _, name := range ThemeNames() {
		if !strings.Contains(view, name) {
			t.Fatalf("help missing theme %q", name)
		}
	}
	if !strings.Contains(view, "["+h.model.theme.Name+"]") {
		t.Fatal("help does not mark the current theme")
	}
}
