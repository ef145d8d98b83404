package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vitrine/internal/carousel"
	"github.com/five82/vitrine/internal/config"
	"github.com/five82/vitrine/internal/forms"
	"github.com/five82/vitrine/internal/gallery"
	"github.com/five82/vitrine/internal/nav"
	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/prefs"
	"github.com/five82/vitrine/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewSlideshow View = iota
	ViewGallery
	ViewPosts
	ViewContact
	ViewLogs
)

var viewOrder = []View{ViewSlideshow, ViewGallery, ViewPosts, ViewContact, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewGallery:
		return "Gallery"
	case ViewPosts:
		return "Posts"
	case ViewContact:
		return "Contact"
	case ViewLogs:
		return "Logs"
	default:
		return "Slideshow"
	}
}

// Options configures the UI. Slideshow and Gallery are nil when the
// manifest has no images.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    *config.Config
	Slideshow *carousel.Selection[string]
	Gallery   *gallery.Modal
	Feed      *posts.Feed
	Submitter forms.Submitter
	Events    <-chan state.Event
	ThemeName string
	PrefsPath string
	Autoplay  bool
	Logger    *slog.Logger

	// Clipboard copies text for the PIX key. Nil uses the system clipboard.
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	prefsPath string
	logger    *slog.Logger
	keys      keyMap
	events    <-chan state.Event

	// Components
	slideshow *carousel.Selection[string]
	gallery   *gallery.Modal
	menu      *nav.Menu
	scroll    *nav.ScrollTracker
	feed      *posts.Feed
	submitter forms.Submitter
	copyText  func(string) error

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	menuCursor  int
	autoplay    bool
	lastEvent   *state.Event

	// Mouse drag, in cells
	dragging  bool
	dragStart int

	galleryCursor int

	postsViewport viewport.Model
	postsState    postsState

	contact contactState
	pix     pixState

	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore()
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	feed := opts.Feed
	if feed == nil {
		feed = posts.NewFeed(posts.Options{})
	}
	submitter := opts.Submitter
	if submitter == nil {
		submitter = forms.NewSimulated(cfg.SubmitDelay, cfg.SubmitFailureRate, nil)
	}

	copyText := opts.Clipboard
	if copyText == nil {
		copyText = copyToClipboard
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	postsState := newPostsState()
	postsState.loading = feed.Pages() == 0

	return Model{
		ctx:         ctx,
		store:       store,
		config:      cfg,
		prefsPath:   prefsPath,
		logger:      logger,
		keys:        DefaultKeyMap(),
		events:      opts.Events,
		slideshow:   opts.Slideshow,
		gallery:     opts.Gallery,
		menu:        nav.NewMenu(store),
		scroll:      nav.NewScrollTracker(store, cfg.ScrollThreshold),
		feed:        feed,
		submitter:   submitter,
		copyText:    copyText,
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewSlideshow,
		autoplay:    opts.Autoplay,
		postsState:  postsState,
		contact:     newContactState(forms.Contact),
		logState:    newLogState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if cmd := waitForEvent(m.events); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.feed.Pages() == 0 {
		cmds = append(cmds, loadPostsCmd(m.ctx, m.feed))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.postsViewport = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.currentView == ViewLogs && m.logState.follow {
			cmds = append(cmds, m.refreshLogs())
		}
		cmds = append(cmds, tickCmd(DefaultUIInterval))
		return m, tea.Batch(cmds...)

	case storeEventMsg:
		ev := state.Event(msg)
		m.lastEvent = &ev
		return m, waitForEvent(m.events)

	case postsLoadedMsg:
		m.handlePostsLoaded(msg)
		return m, nil

	case hashtagClearMsg:
		if msg.seq == m.postsState.noticeSeq {
			m.postsState.hashtag = ""
			m.updatePostsViewport()
		}
		return m, nil

	case formResultMsg:
		return m.handleFormResult(msg)

	case clearStatusMsg:
		if msg.seq == m.contact.seq {
			m.contact.status = forms.StatusIdle
			m.contact.message = ""
		}
		return m, nil

	case pixCopiedMsg:
		return m.handlePixCopied(msg)

	case pixClearMsg:
		if msg.seq == m.pix.seq {
			m.pix = pixState{seq: m.pix.seq}
		}
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Text inputs and open overlays get
// the key before global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.currentView == ViewContact && m.contact.focused >= 0 {
		return m.handleContactInput(msg)
	}
	if m.currentView == ViewPosts && m.postsState.searchActive {
		return m.handlePostsSearchInput(msg)
	}
	if m.currentView == ViewPosts && m.postsState.detailID != "" {
		return m.handlePostDetailKey(msg)
	}
	if m.gallery != nil && m.gallery.IsOpen() {
		m.handleModalKey(msg)
		return m, nil
	}
	if m.menu.IsOpen() {
		return m.handleMenuKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Menu):
		m.menu.Toggle()
		m.menuCursor = m.viewIndex()
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(viewOrder[(m.viewIndex()+1)%len(viewOrder)])

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(viewOrder[(m.viewIndex()+len(viewOrder)-1)%len(viewOrder)])

	case key.Matches(msg, m.keys.ViewSlideshow):
		return m.switchView(ViewSlideshow)
	case key.Matches(msg, m.keys.ViewGallery):
		return m.switchView(ViewGallery)
	case key.Matches(msg, m.keys.ViewPosts):
		return m.switchView(ViewPosts)
	case key.Matches(msg, m.keys.ViewContact):
		return m.switchView(ViewContact)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	}

	switch m.currentView {
	case ViewSlideshow:
		return m.handleSlideshowKey(msg)
	case ViewGallery:
		return m.handleGalleryKey(msg)
	case ViewPosts:
		return m.handlePostsKey(msg)
	case ViewContact:
		return m.handleContactKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleMouse turns a horizontal drag into a swipe on the slideshow or the
// open photo, and forwards wheel events to scrollable views.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	modalOpen := m.gallery != nil && m.gallery.IsOpen()
	swipeable := modalOpen || (m.currentView == ViewSlideshow && m.slideshow != nil)

	switch {
	case swipeable && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragStart = msg.X
		return m, nil

	case m.dragging && msg.Action == tea.MouseActionRelease:
		m.dragging = false
		var dir carousel.Direction
		if modalOpen {
			dir = m.gallery.Swipe(float64(m.dragStart), float64(msg.X))
		} else if m.slideshow != nil {
			dir = m.slideshow.Swipe(float64(m.dragStart), float64(msg.X))
		}
		if dir != carousel.None {
			m.logger.Debug("ui: swipe", "direction", dir.String())
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewPosts:
		m.postsViewport, cmd = m.postsViewport.Update(msg)
		m.scroll.Observe(m.postsViewport.YOffset)
	case ViewLogs:
		m.logViewport, cmd = m.logViewport.Update(msg)
	}
	return m, cmd
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.menu.CloseIfOpen()
	m.resize()
	switch v {
	case ViewLogs:
		return m, m.refreshLogs()
	case ViewPosts:
		m.scroll.Observe(m.postsViewport.YOffset)
	}
	return m, nil
}

func (m Model) viewIndex() int {
	for i, v := range viewOrder {
		if v == m.currentView {
			return i
		}
	}
	return 0
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Autoplay: m.autoplay}); err != nil {
		m.logger.Warn("prefs: save failed", "error", err)
	}
}

// contentWidth is the width left for the active view.
func (m Model) contentWidth() int {
	if m.menu.IsOpen() && m.width > MenuWidth*2 {
		return m.width - MenuWidth
	}
	return m.width
}

// boxHeight is the height of the bordered panel each view renders, leaving
// room for the header, the command bar and a status line.
func (m Model) boxHeight() int {
	return maxInt(m.height-3, 3)
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.updatePostsViewport()
	m.updateLogViewport()
	m.contact.setWidth(m.contentWidth() - 20)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	content := m.renderContent()
	if m.menu.IsOpen() && m.contentWidth() < m.width {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMenu(), content)
	}
	b.WriteString(content)
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if m.gallery != nil && m.gallery.IsOpen() {
		return m.renderPhotoModal()
	}
	switch m.currentView {
	case ViewSlideshow:
		return m.renderSlideshow()
	case ViewGallery:
		return m.renderGallery()
	case ViewPosts:
		if p, i, ok := m.detailPost(); ok {
			return m.renderPostModal(p, i)
		}
		return m.renderPosts()
	case ViewContact:
		return m.renderContact()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
