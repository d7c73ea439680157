package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/monitor"
	"github.com/fragmede/forumview/internal/ui/messages"
	"github.com/fragmede/forumview/internal/ui/statusbar"
	"github.com/fragmede/forumview/internal/ui/threadview"
	"github.com/fragmede/forumview/internal/ui/topiclist"
	"github.com/fragmede/forumview/internal/ui/watchlist"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewTopicList ViewType = iota
	ViewThread
	ViewWatched
)

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType

	// Child models
	topicList  topiclist.Model
	threadView threadview.Model
	watchList  watchlist.Model
	statusBar  statusbar.Model

	// Shared state
	cfg        config.Config
	client     *api.Client
	cache      *cache.DB
	monitor    *monitor.Monitor
	unseen     map[int]int
	startTopic int

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB, mon *monitor.Monitor) *App {
	sb := statusbar.New()
	sb.SetTitle("Topics")
	sb.SetWatched(db.WatchedCount())

	return &App{
		activeView: ViewTopicList,
		topicList:  topiclist.New(cfg, client, db),
		watchList:  watchlist.New(db),
		statusBar:  sb,
		cfg:        cfg,
		client:     client,
		cache:      db,
		monitor:    mon,
		unseen:     make(map[int]int),
	}
}

// OpenTopic makes the app start on a topic instead of the index.
func (a *App) OpenTopic(id int) {
	a.startTopic = id
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.topicList.Init()}
	if id := a.startTopic; id > 0 {
		cmds = append(cmds, func() tea.Msg { return messages.OpenTopicMsg{TopicID: id} })
	}
	return tea.Batch(cmds...)
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // status bar
		a.topicList.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		switch a.activeView {
		case ViewThread:
			a.threadView.SetSize(msg.Width, contentHeight)
		case ViewWatched:
			a.watchList.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if a.activeView == ViewTopicList && a.topicList.Filtering() {
			if key.Matches(msg, Keys.ForceQuit) {
				a.monitor.Stop()
				return a, tea.Quit
			}
			break
		}
		switch {
		case key.Matches(msg, Keys.ForceQuit):
			a.monitor.Stop()
			return a, tea.Quit
		case key.Matches(msg, Keys.Quit):
			if a.activeView == ViewTopicList {
				a.monitor.Stop()
				return a, tea.Quit
			}
			return a, a.goBack()
		case key.Matches(msg, Keys.Back):
			if a.activeView != ViewTopicList {
				return a, a.goBack()
			}
		case key.Matches(msg, Keys.Watched):
			if a.activeView != ViewWatched {
				a.pushView(ViewWatched)
				a.statusBar.SetTitle("Watched")
				a.watchList.SetSize(a.width, a.height-1)
				a.watchList.Load(a.unseen)
				return a, nil
			}
		}

	// View transitions.
	case messages.OpenTopicMsg:
		a.pushView(ViewThread)
		a.threadView = threadview.New(msg.TopicID, a.cfg, a.client, a.cache)
		a.threadView.SetSize(a.width, a.height-1)
		delete(a.unseen, msg.TopicID)
		a.statusBar.SetNew(a.unseenTotal())
		return a, a.threadView.Init()

	case messages.GoBackMsg:
		return a, a.goBack()

	case messages.TopicLoadedMsg:
		if msg.Err != nil {
			a.statusBar.SetStatus("load failed: "+msg.Err.Error(), true)
		} else if msg.Post != nil && a.activeView == ViewThread {
			a.statusBar.SetTitle(msg.Post.Title)
		}

	case messages.ToggleWatchMsg:
		mon := a.monitor
		post := msg.Post
		return a, func() tea.Msg {
			watching, err := mon.Toggle(post)
			return messages.WatchToggledMsg{TopicID: post.ID, Watching: watching, Err: err}
		}

	case messages.WatchToggledMsg:
		a.statusBar.SetWatched(a.cache.WatchedCount())
		switch {
		case msg.Err != nil:
			a.statusBar.SetStatus(msg.Err.Error(), true)
		case msg.Watching:
			a.statusBar.SetStatus("watching for new comments", false)
		default:
			a.statusBar.SetStatus("stopped watching", false)
			delete(a.unseen, msg.TopicID)
			a.statusBar.SetNew(a.unseenTotal())
		}

	case messages.NewCommentsMsg:
		if a.activeView != ViewThread || a.threadView.TopicID() != msg.TopicID {
			a.unseen[msg.TopicID] += msg.NewCount
		}
		a.statusBar.SetNew(a.unseenTotal())
		a.statusBar.SetStatus(fmt.Sprintf("%d new in %s", msg.NewCount, msg.Title), false)
		if a.activeView == ViewWatched {
			a.watchList.Load(a.unseen)
		}

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewTopicList:
		a.topicList, cmd = a.topicList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewThread:
		a.threadView, cmd = a.threadView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewWatched:
		a.watchList, cmd = a.watchList.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewTopicList:
		content = a.topicList.View()
	case ViewThread:
		content = a.threadView.View()
	case ViewWatched:
		content = a.watchList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.activeView = v
}

func (a *App) goBack() tea.Cmd {
	if len(a.previousViews) > 0 {
		a.activeView = a.previousViews[len(a.previousViews)-1]
		a.previousViews = a.previousViews[:len(a.previousViews)-1]
	}
	switch a.activeView {
	case ViewTopicList:
		a.statusBar.SetTitle("Topics")
	case ViewWatched:
		a.statusBar.SetTitle("Watched")
		a.watchList.Load(a.unseen)
	}
	return nil
}

func (a *App) unseenTotal() int {
	n := 0
	for _, c := range a.unseen {
		n += c
	}
	return n
}
