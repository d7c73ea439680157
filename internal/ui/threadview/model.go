package threadview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/layout"
	"github.com/fragmede/forumview/internal/render"
	"github.com/fragmede/forumview/internal/thread"
	"github.com/fragmede/forumview/internal/ui/messages"
	"github.com/fragmede/forumview/internal/ui/theme"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	metaStyle     = theme.MetaStyle.Padding(0, 1)
	watchingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(theme.Accent).Bold(true)
)

const scrollStep = 3

type rowOffset struct {
	startLine int
	endLine   int
}

// Model shows one topic laid out from the path on top of its stack.
type Model struct {
	viewport    viewport.Model
	topicID     int
	post        *thread.PostData
	stack       []frame
	rows        []layout.ItemInfo
	offsets     []rowOffset
	selectedIdx int
	watching    bool
	client      *api.Client
	cache       *cache.DB
	cfg         config.Config
	loading     bool
	width       int
	height      int
}

// New creates a thread view for a topic.
func New(topicID int, cfg config.Config, client *api.Client, db *cache.DB) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	return Model{
		viewport: vp,
		topicID:  topicID,
		stack:    []frame{{}},
		watching: db.IsWatched(topicID),
		client:   client,
		cache:    db,
		cfg:      cfg,
		loading:  true,
	}
}

// Init loads the topic, from cache when fresh.
func (m Model) Init() tea.Cmd {
	return m.load(false)
}

func (m Model) load(force bool) tea.Cmd {
	id := m.topicID
	client := m.client
	db := m.cache
	cfg := m.cfg
	return func() tea.Msg {
		cached, fresh, err := db.GetTopic(id, cfg.TopicTTL)
		if err != nil {
			log.Printf("reading cached topic %d: %v", id, err)
		}
		if cached != nil && fresh && !force {
			return messages.TopicLoadedMsg{TopicID: id, Post: cached}
		}

		post, err := client.GetTopic(context.Background(), id)
		if err != nil {
			if cached != nil {
				return messages.TopicLoadedMsg{TopicID: id, Post: cached, Stale: true}
			}
			return messages.TopicLoadedMsg{TopicID: id, Err: err}
		}
		if err := db.PutTopic(post); err != nil {
			log.Printf("caching topic %d: %v", id, err)
		}
		return messages.TopicLoadedMsg{TopicID: id, Post: post}
	}
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// TopicID returns the topic shown.
func (m Model) TopicID() int {
	return m.topicID
}

// Post returns the loaded topic, or nil while loading.
func (m Model) Post() *thread.PostData {
	return m.post
}

// Path returns the path the current rows were laid out from.
func (m Model) Path() []int {
	return m.stack[len(m.stack)-1].path
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.TopicLoadedMsg:
		if msg.TopicID != m.topicID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent("Error loading topic: " + msg.Err.Error())
			return m, nil
		}
		m.post = msg.Post
		m.relayout()
		if msg.Stale {
			return m, func() tea.Msg {
				return messages.StatusMsg{Text: "offline: showing cached copy", IsError: true}
			}
		}
		return m, nil

	case messages.NewCommentsMsg:
		if msg.TopicID == m.topicID && !m.loading {
			return m, m.load(false)
		}
		return m, nil

	case messages.WatchToggledMsg:
		if msg.TopicID == m.topicID && msg.Err == nil {
			m.watching = msg.Watching
			m.resizeViewport()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				if off.endLine >= m.viewport.YOffset+m.viewport.Height {
					m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
					return m, nil
				}
			}
			if m.selectedIdx < len(m.rows)-1 {
				m.selectedIdx++
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "k", "up":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				if off.startLine < m.viewport.YOffset {
					newOff := m.viewport.YOffset - scrollStep
					if newOff < off.startLine {
						newOff = off.startLine
					}
					m.viewport.SetYOffset(newOff)
					return m, nil
				}
			}
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "enter", "l":
			m.expand()
			return m, nil
		case "backspace", "h":
			if len(m.stack) == 1 {
				return m, func() tea.Msg { return messages.GoBackMsg{} }
			}
			m.collapse()
			return m, nil
		case "[", "p":
			if idx := enclosingIndex(m.rows, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "]":
			if idx := nextSiblingIndex(m.rows, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "g", "home":
			m.selectedIdx = 0
			m.rebuildContent()
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			if len(m.rows) > 0 {
				m.selectedIdx = len(m.rows) - 1
				m.rebuildContent()
				m.viewport.GotoBottom()
			}
			return m, nil
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "ctrl+r":
			m.loading = true
			m.viewport.SetContent("  Refreshing...")
			return m, m.load(true)
		case "w":
			if m.post == nil {
				return m, nil
			}
			post := m.post
			return m, func() tea.Msg { return messages.ToggleWatchMsg{Post: post} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the thread view.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View())
}

func (m *Model) expand() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.rows) {
		return
	}
	row := m.rows[m.selectedIdx]
	if !expandable(row, m.Path()) {
		return
	}
	m.stack[len(m.stack)-1].selected = m.selectedIdx
	m.stack = append(m.stack, frame{path: row.Node.Path()})
	m.selectedIdx = 0
	m.relayout()
	m.viewport.GotoTop()
}

func (m *Model) collapse() {
	m.stack = m.stack[:len(m.stack)-1]
	m.selectedIdx = m.stack[len(m.stack)-1].selected
	m.relayout()
	m.scrollToCursor()
}

func (m *Model) relayout() {
	if m.post == nil {
		m.rows = nil
	} else {
		m.stack, m.rows = resolve(m.post, m.stack)
	}
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = len(m.rows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) rebuildContent() {
	if len(m.rows) == 0 {
		m.offsets = nil
		if m.loading {
			m.viewport.SetContent("  Loading comments...")
		} else {
			m.viewport.SetContent("  No comments yet.")
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]rowOffset, len(m.rows))
	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	lineCount := 0
	for i, row := range m.rows {
		startLine := lineCount
		indent := gutterWidth(row.Indent)
		indentStr := strings.Repeat(" ", indent)

		barColor := theme.DepthColor(row.Indent)
		selected := i == m.selectedIdx
		if selected {
			barColor = theme.Accent
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")

		c := row.Node.Content()
		header := marker(row) + theme.AuthorStyle.Render(authorOf(c))
		if ago := render.TimeAgo(c.Timestamp); ago != "" {
			header += " " + theme.DimStyle.Render(ago)
		}
		if c.HasRating() {
			header += " " + theme.DimStyle.Render(fmt.Sprintf("%+d", *c.Rating))
		}
		if b := badge(row); b != "" {
			header += " " + theme.DimStyle.Render(b)
		}

		headerLine := indentStr + bar + " " + header
		if selected {
			headerLine = theme.SelectedStyle.Render(headerLine)
		}
		sb.WriteString(headerLine + "\n")
		lineCount++

		bodyWidth := availWidth - indent - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		for _, line := range strings.Split(render.Styled(c.Text, bodyWidth), "\n") {
			sb.WriteString(indentStr + bar + " " + line + "\n")
			lineCount++
		}
		sb.WriteString("\n")
		lineCount++

		m.offsets[i] = rowOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

func authorOf(c thread.ContentInfo) string {
	if c.Author == "" {
		return "anonymous"
	}
	return c.Author
}

func (m *Model) scrollToCursor() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selectedIdx]
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

func (m Model) renderHeader() string {
	if m.post == nil {
		return headerStyle.Render(fmt.Sprintf("Loading topic #%d...", m.topicID))
	}

	title := m.post.Title
	if title == "" {
		title = fmt.Sprintf("Topic #%d", m.post.ID)
	}
	if m.watching {
		title += " " + watchingStyle.Render(" watching ")
	}
	parts := []string{headerStyle.Render(title)}

	meta := []string{"by " + authorOf(m.post.Content)}
	if ago := render.TimeAgo(m.post.Content.Timestamp); ago != "" {
		meta = append(meta, ago)
	}
	meta = append(meta, fmt.Sprintf("%d comments", m.post.CommentCount()))
	if m.post.Content.HasRating() {
		meta = append(meta, fmt.Sprintf("rating %+d", *m.post.Content.Rating))
	}
	parts = append(parts, metaStyle.Render(strings.Join(meta, " | ")))

	if path := m.Path(); len(path) > 0 {
		parts = append(parts, metaStyle.Render("thread: "+breadcrumb(m.post, path)))
	} else if m.post.Content.Text.Len() > 0 {
		bodyWidth := m.width - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Render(render.Styled(m.post.Content.Text, bodyWidth)))
	}

	parts = append(parts, theme.SeparatorStyle.Render(strings.Repeat("─", m.width)))
	hint := theme.DimStyle.Render("j/k:move  enter:expand  h:back  [:up  ]:sibling  w:watch  ctrl+r:refresh")
	parts = append(parts, hint)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
