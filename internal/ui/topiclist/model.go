package topiclist

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/ui/messages"
)

// ListKey is the cache key of the forum index.
const ListKey = "index"

const listTitle = "Topics"

// Model is the topic list view.
type Model struct {
	list    list.Model
	client  *api.Client
	cache   *cache.DB
	cfg     config.Config
	loading bool
	width   int
	height  int
}

// New creates a new topic list model.
func New(cfg config.Config, client *api.Client, db *cache.DB) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = listTitle + " (loading...)"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		list:    l,
		client:  client,
		cache:   db,
		cfg:     cfg,
		loading: true,
	}
}

// Init loads the topic list.
func (m Model) Init() tea.Cmd {
	return m.loadTopics(false)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.TopicListLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			return m, nil
		}
		m.list.SetItems(Items(msg.Refs))
		m.list.Title = listTitle
		return m, nil

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(TopicItem); ok {
				id := item.ID
				return m, func() tea.Msg {
					return messages.OpenTopicMsg{TopicID: id}
				}
			}
		case "r", "ctrl+r":
			m.loading = true
			m.list.Title = listTitle + " (refreshing...)"
			return m, m.loadTopics(true)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the topic list.
func (m Model) View() string {
	return m.list.View()
}

// Items converts index rows into list items, keeping their order.
func Items(refs []api.TopicRef) []list.Item {
	items := make([]list.Item, len(refs))
	for i, ref := range refs {
		items[i] = TopicItem{TopicRef: ref, Index: i}
	}
	return items
}

func (m Model) loadTopics(force bool) tea.Cmd {
	client := m.client
	db := m.cache
	cfg := m.cfg
	return func() tea.Msg {
		cached, fresh, err := db.GetTopicList(ListKey, cfg.ListTTL)
		if err != nil {
			log.Printf("reading cached topic list: %v", err)
		}
		if fresh && !force && len(cached) > 0 {
			return messages.TopicListLoadedMsg{Refs: cached}
		}

		refs, err := client.GetTopicList(context.Background())
		if err != nil {
			// Stale rows beat an error screen.
			if len(cached) > 0 {
				return messages.TopicListLoadedMsg{Refs: cached}
			}
			return messages.TopicListLoadedMsg{Err: err}
		}
		if err := db.PutTopicList(ListKey, refs); err != nil {
			log.Printf("caching topic list: %v", err)
		}
		return messages.TopicListLoadedMsg{Refs: refs}
	}
}
