package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/state"
)

// postsState holds posts view state.
type postsState struct {
	category  posts.Category
	loading   bool
	exhausted bool
	err       string

	searchActive bool
	search       textinput.Model
	hashtag      string
	noticeSeq    int

	// cursor indexes visiblePosts; cardStarts holds the first viewport line
	// of each rendered card plus the total line count.
	cursor     int
	cardStarts []int

	// detailID is the post shown in the detail overlay, empty when closed.
	detailID string
}

func newPostsState() postsState {
	ti := textinput.New()
	ti.Prompt = "#"
	ti.Placeholder = "hashtag"
	ti.CharLimit = 40
	return postsState{category: posts.All, search: ti}
}

var categoryCycle = append([]posts.Category{posts.All}, posts.Categories...)

type postsLoadedMsg struct {
	posts []posts.Post
	err   error
}

type hashtagClearMsg struct {
	seq int
}

func loadPostsCmd(ctx context.Context, feed *posts.Feed) tea.Cmd {
	return func() tea.Msg {
		page, err := feed.LoadMore(ctx)
		return postsLoadedMsg{posts: page, err: err}
	}
}

func (m *Model) handlePostsLoaded(msg postsLoadedMsg) {
	m.postsState.loading = false
	switch {
	case errors.Is(msg.err, posts.ErrExhausted):
		m.postsState.exhausted = true
	case msg.err != nil:
		m.postsState.err = msg.err.Error()
		m.logger.Warn("posts: load failed", "error", msg.err)
	default:
		m.postsState.err = ""
		m.postsState.exhausted = !m.feed.HasMore()
		m.logger.Debug("posts: page loaded", "count", len(msg.posts), "pages", m.feed.Pages())
	}
	m.updatePostsViewport()
}

func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.CycleCategory):
		for i, c := range categoryCycle {
			if c == m.postsState.category {
				m.postsState.category = categoryCycle[(i+1)%len(categoryCycle)]
				break
			}
		}
		m.postsState.cursor = 0
		m.updatePostsViewport()
		m.postsViewport.GotoTop()

	case key.Matches(msg, m.keys.LoadMore):
		if m.postsState.loading || !m.feed.HasMore() {
			return m, nil
		}
		m.postsState.loading = true
		cmd = loadPostsCmd(m.ctx, m.feed)

	case key.Matches(msg, m.keys.Search):
		m.postsState.searchActive = true
		m.postsState.search.SetValue("")
		cmd = m.postsState.search.Focus()

	case key.Matches(msg, m.keys.Up):
		m.selectPost(m.postsState.cursor - 1)

	case key.Matches(msg, m.keys.Down):
		m.selectPost(m.postsState.cursor + 1)

	case key.Matches(msg, m.keys.Confirm):
		list := m.visiblePosts()
		if m.postsState.cursor < len(list) {
			m.postsState.detailID = list[m.postsState.cursor].ID
		}

	case key.Matches(msg, m.keys.Top):
		m.selectPost(0)
		m.postsViewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.selectPost(len(m.visiblePosts()) - 1)
		m.postsViewport.GotoBottom()

	case key.Matches(msg, m.keys.Escape):
		m.postsState.hashtag = ""
		m.updatePostsViewport()

	default:
		m.postsViewport, cmd = m.postsViewport.Update(msg)
	}
	m.scroll.Observe(m.postsViewport.YOffset)
	return m, cmd
}

// selectPost moves the cursor, clamped to the visible posts, and scrolls
// its card into view.
func (m *Model) selectPost(i int) {
	m.postsState.cursor = i
	m.updatePostsViewport()

	starts := m.postsState.cardStarts
	i = m.postsState.cursor
	if i+1 >= len(starts) {
		return
	}
	top, bottom := starts[i], starts[i+1]
	switch {
	case top < m.postsViewport.YOffset:
		m.postsViewport.SetYOffset(top)
	case bottom > m.postsViewport.YOffset+m.postsViewport.Height:
		m.postsViewport.SetYOffset(minInt(bottom-m.postsViewport.Height, top))
	}
}

// detailPost returns the post open in the detail overlay and its position
// among the visible posts.
func (m Model) detailPost() (posts.Post, int, bool) {
	if m.postsState.detailID == "" {
		return posts.Post{}, 0, false
	}
	for i, p := range m.visiblePosts() {
		if p.ID == m.postsState.detailID {
			return p, i, true
		}
	}
	return posts.Post{}, 0, false
}

// handlePostDetailKey browses and closes the detail overlay.
func (m Model) handlePostDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, i, ok := m.detailPost()
	list := m.visiblePosts()
	switch {
	case !ok:
		m.postsState.detailID = ""
		return m, nil
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Confirm):
		m.postsState.detailID = ""
		m.selectPost(i)
		return m, nil
	case key.Matches(msg, m.keys.Left):
		i = (i - 1 + len(list)) % len(list)
	case key.Matches(msg, m.keys.Right):
		i = (i + 1) % len(list)
	default:
		return m, nil
	}
	m.postsState.detailID = list[i].ID
	m.postsState.cursor = i
	return m, nil
}

func (m Model) handlePostsSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.postsState.searchActive = false
		m.postsState.search.Blur()
		return m, nil
	case "enter":
		m.postsState.searchActive = false
		m.postsState.search.Blur()
		tag := strings.TrimSpace(m.postsState.search.Value())
		if tag == "" {
			return m, nil
		}
		m.postsState.hashtag = strings.TrimPrefix(tag, "#")
		m.postsState.noticeSeq++
		seq := m.postsState.noticeSeq
		m.updatePostsViewport()
		m.postsViewport.GotoTop()
		m.scroll.Observe(m.postsViewport.YOffset)
		return m, tea.Tick(HashtagNoticeDuration, func(time.Time) tea.Msg {
			return hashtagClearMsg{seq: seq}
		})
	}
	var cmd tea.Cmd
	m.postsState.search, cmd = m.postsState.search.Update(msg)
	return m, cmd
}

// visiblePosts applies the category and hashtag filters.
func (m Model) visiblePosts() []posts.Post {
	if m.postsState.hashtag != "" {
		return posts.Filter(m.feed.SearchHashtag(m.postsState.hashtag), m.postsState.category)
	}
	return m.feed.Filter(m.postsState.category)
}

func (m *Model) updatePostsViewport() {
	if !m.ready {
		return
	}
	list := m.visiblePosts()
	m.postsState.cursor = minInt(m.postsState.cursor, len(list)-1)
	if m.postsState.cursor < 0 {
		m.postsState.cursor = 0
	}
	m.postsViewport.Width = maxInt(m.contentWidth()-2, 1)
	m.postsViewport.Height = maxInt(m.boxHeight()-2, 1)
	content, starts := m.renderPostCards(list, m.postsViewport.Width)
	m.postsState.cardStarts = starts
	m.postsViewport.SetContent(content)
}

// renderPostCards renders the feed and reports the first line of each card.
func (m Model) renderPostCards(list []posts.Post, width int) (string, []int) {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	if len(list) == 0 {
		switch {
		case m.postsState.loading:
			return styles.MutedText.Render("Loading posts..."), nil
		case m.postsState.hashtag != "":
			return styles.MutedText.Render("No posts tagged #" + m.postsState.hashtag), nil
		default:
			return styles.MutedText.Render("No posts in this category yet."), nil
		}
	}

	textWidth := maxInt(width-2, 10)
	wrap := lipgloss.NewStyle().Width(textWidth)

	var b strings.Builder
	lines := 0
	write := func(s string) {
		b.WriteString(s)
		lines += strings.Count(s, "\n")
	}

	starts := make([]int, 0, len(list)+1)
	for i, p := range list {
		if i > 0 {
			write(styles.FaintText.Render(strings.Repeat("─", textWidth)) + "\n")
		}
		starts = append(starts, lines)

		marker := "  "
		if i == m.postsState.cursor {
			marker = "▸ "
		}
		write(styles.AccentText.Bold(true).Render(marker + "@" + p.Author))
		write(styles.FaintText.Render("  " + p.Age + "  "))
		write(styles.CategoryStyle(string(p.Category)).Render(titleCase(string(p.Category))))
		write("\n")
		write(wrap.Render(p.Text) + "\n")
		write(m.renderHashtags(p, styles) + "\n")
		write(styles.MutedText.Render(fmt.Sprintf("♥ %d  ✉ %d  %s", p.Likes, p.Comments, truncateMiddle(p.Image, textWidth-20))))
		write("\n")
	}
	starts = append(starts, lines)
	return b.String(), starts
}

func (m Model) renderHashtags(p posts.Post, styles Styles) string {
	tags := make([]string, 0, len(p.Hashtags))
	for _, h := range p.Hashtags {
		style := styles.InfoText
		if m.postsState.hashtag != "" && strings.EqualFold(h, m.postsState.hashtag) {
			style = styles.WarningText.Bold(true)
		}
		tags = append(tags, style.Render("#"+h))
	}
	return strings.Join(tags, " ")
}

// renderPostModal draws the open post over the feed.
func (m Model) renderPostModal(p posts.Post, index int) string {
	width := m.contentWidth()
	height := m.boxHeight()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	inner := maxInt(width-2, 1)
	textWidth := maxInt(minInt(inner-8, 72), 10)
	body := lipgloss.NewStyle().
		Width(textWidth).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Foreground(lipgloss.Color(m.theme.Text))

	header := bg.Render("@"+p.Author, styles.AccentText.Bold(true)) + bg.Spaces(2) +
		bg.Render(p.Age, styles.FaintText) + bg.Spaces(2) +
		styles.CategoryStyle(string(p.Category)).Render(titleCase(string(p.Category)))

	content := strings.Join([]string{
		bg.Center(header, textWidth),
		"",
		body.Render(p.Text),
		"",
		bg.Center(m.renderHashtags(p, styles), textWidth),
		bg.Center(bg.Render(fmt.Sprintf("♥ %d   ✉ %d", p.Likes, p.Comments), styles.MutedText), textWidth),
		bg.Center(bg.Render(truncateMiddle(p.Image, textWidth), styles.FaintText), textWidth),
		"",
		bg.Center(bg.Render("♥ Like    ✉ Comment    ↗ Share", styles.Text), textWidth),
		"",
		bg.Center(styles.AccentText.Render(fmt.Sprintf("‹  %d / %d  ›", index+1, len(m.visiblePosts()))), textWidth),
	}, "\n")

	placed := lipgloss.Place(inner, maxInt(height-2, 1), lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.FocusBg)))

	return m.renderBox("Post", placed, width, height, true) + "\n" +
		m.renderStatusLine("esc to close  ·  ←/→ to browse", m.theme.Styles().FaintText)
}

// renderPosts draws the feed. The title collapses once the feed is
// scrolled past the threshold.
func (m Model) renderPosts() string {
	width := m.contentWidth()
	height := m.boxHeight()

	title := "Community posts · " + titleCase(string(m.postsState.category))
	if state.Get(m.store, state.IsScrolled) {
		title = "Posts"
	}
	if m.postsState.hashtag != "" {
		title += " · #" + m.postsState.hashtag
	}

	box := m.renderBox(title, m.postsViewport.View(), width, height, true)

	styles := m.theme.Styles()
	var status string
	style := styles.MutedText
	switch {
	case m.postsState.searchActive:
		return box + "\n" + m.postsState.search.View()
	case m.postsState.loading:
		status = "Loading posts..."
		style = styles.InfoText
	case m.postsState.err != "":
		status = "Error: " + m.postsState.err
		style = styles.DangerText
	case m.postsState.hashtag != "":
		status = fmt.Sprintf("Showing posts tagged #%s", m.postsState.hashtag)
		style = styles.WarningText
	case m.postsState.exhausted:
		status = fmt.Sprintf("%d posts · all posts loaded", len(m.visiblePosts()))
	default:
		status = fmt.Sprintf("%d posts · page %d · L for more", len(m.visiblePosts()), m.feed.Pages())
	}
	return box + "\n" + m.renderStatusLine(status, style)
}
