package watchlist

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/render"
	"github.com/fragmede/forumview/internal/ui/messages"
	"github.com/fragmede/forumview/internal/ui/theme"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Padding(1, 0)
	entryStyle    = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = theme.SelectedStyle.Padding(0, 1)
	newDotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	previewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
)

const (
	maxEntries   = 50
	previewChars = 80
)

// Entry is one watched topic.
type Entry struct {
	TopicID     int
	Title       string
	Comments    int
	LastChecked time.Time
	Preview     string
	New         int
}

// Model lists the topics being polled for new comments.
type Model struct {
	entries     []Entry
	selectedIdx int
	db          *cache.DB
	width       int
	height      int
}

// New creates a new watch list model.
func New(db *cache.DB) Model {
	return Model{db: db}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Load refreshes the list from the database. unseen maps topic ids to
// comments that arrived since the topic was last opened.
func (m *Model) Load(unseen map[int]int) {
	m.entries = loadEntries(m.db, unseen)
	if m.selectedIdx >= len(m.entries) {
		m.selectedIdx = 0
	}
}

// Entries returns the loaded entries.
func (m Model) Entries() []Entry {
	return m.entries
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(m.entries)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "enter":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.entries) {
				id := m.entries[m.selectedIdx].TopicID
				m.entries[m.selectedIdx].New = 0
				return m, func() tea.Msg {
					return messages.OpenTopicMsg{TopicID: id}
				}
			}
		}
	}
	return m, nil
}

// View renders the watch list.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Watched topics"))
	sb.WriteString("\n")

	if len(m.entries) == 0 {
		sb.WriteString("\n  Nothing watched yet. Press w in a topic to watch it.\n")
		return sb.String()
	}

	for i, e := range m.entries {
		var line strings.Builder

		if e.New > 0 {
			line.WriteString(newDotStyle.Render("● "))
		} else {
			line.WriteString("  ")
		}

		line.WriteString(theme.TitleStyle.Render(e.Title))
		meta := fmt.Sprintf(" %d comments", e.Comments)
		if e.New > 0 {
			meta += fmt.Sprintf(", %d new", e.New)
		}
		if ago := render.TimeAgo(e.LastChecked); ago != "" {
			meta += " | checked " + ago
		}
		line.WriteString(theme.MetaStyle.Render(meta))
		if e.Preview != "" {
			line.WriteString("\n  " + previewStyle.Render(e.Preview))
		}

		entry := line.String()
		if i == m.selectedIdx {
			entry = selectedStyle.Render(entry)
		} else {
			entry = entryStyle.Render(entry)
		}
		sb.WriteString(entry + "\n")
	}

	return sb.String()
}

func loadEntries(db *cache.DB, unseen map[int]int) []Entry {
	watched, err := db.GetWatchedTopics(maxEntries)
	if err != nil {
		log.Printf("listing watched topics: %v", err)
		return nil
	}

	result := make([]Entry, 0, len(watched))
	for _, w := range watched {
		e := Entry{
			TopicID:     w.TopicID,
			Title:       fmt.Sprintf("Topic #%d", w.TopicID),
			Comments:    w.KnownComments,
			LastChecked: w.LastChecked,
			New:         unseen[w.TopicID],
		}
		// Any cached copy will do for the title and preview.
		if post, _, err := db.GetTopic(w.TopicID, 0); err == nil && post != nil {
			if post.Title != "" {
				e.Title = post.Title
			}
			e.Preview = render.Preview(post.Content.Text, previewChars)
		}
		result = append(result, e)
	}
	return result
}
