package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/thread"
	"github.com/fragmede/forumview/internal/ui/messages"
)

// pollBatch caps how many watched topics are refetched per tick.
const pollBatch = 20

// Monitor polls watched topics for new comments.
type Monitor struct {
	client *api.Client
	cache  *cache.DB
	cfg    config.Config
	send   func(tea.Msg)
	stopCh chan struct{}
}

// New creates a new background monitor.
func New(cfg config.Config, client *api.Client, db *cache.DB) *Monitor {
	return &Monitor{
		client: client,
		cache:  db,
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}
}

// Start begins the background polling loop.
func (m *Monitor) Start(program *tea.Program) {
	m.send = program.Send
	go m.loop()
}

// Stop halts the background polling.
func (m *Monitor) Stop() {
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
}

// Toggle starts watching post, or stops if it is already watched.
// It reports whether the topic is watched afterwards.
func (m *Monitor) Toggle(post *thread.PostData) (bool, error) {
	if m.cache.IsWatched(post.ID) {
		if err := m.cache.Unwatch(post.ID); err != nil {
			return true, fmt.Errorf("unwatching topic %d: %w", post.ID, err)
		}
		return false, nil
	}
	now := time.Now()
	err := m.cache.UpsertWatchedTopic(cache.WatchedTopic{
		TopicID:       post.ID,
		KnownComments: post.CommentCount(),
		LastChecked:   now,
		CreatedAt:     now,
	})
	if err != nil {
		return false, fmt.Errorf("watching topic %d: %w", post.ID, err)
	}
	return true, nil
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.cfg.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.poll(context.Background())
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	watched, err := m.cache.GetWatchedTopics(pollBatch)
	if err != nil {
		log.Printf("monitor: listing watched topics: %v", err)
		return
	}
	if len(watched) == 0 {
		return
	}

	ids := make([]int, len(watched))
	for i, w := range watched {
		ids[i] = w.TopicID
	}
	posts, err := m.client.BatchGetTopics(ctx, ids)
	if err != nil {
		log.Printf("monitor: fetching watched topics: %v", err)
		return
	}

	for i, w := range watched {
		select {
		case <-m.stopCh:
			return
		default:
		}

		post := posts[i]
		w.LastChecked = time.Now()
		if post == nil {
			// Fetch failed; try again after the others have had a turn.
			m.cache.UpsertWatchedTopic(w)
			continue
		}
		if err := m.cache.PutTopic(post); err != nil {
			log.Printf("monitor: caching topic %d: %v", post.ID, err)
		}

		total := post.CommentCount()
		if total > w.KnownComments && m.send != nil {
			m.send(messages.NewCommentsMsg{
				TopicID:  post.ID,
				Title:    post.Title,
				NewCount: total - w.KnownComments,
				Total:    total,
			})
		}
		w.KnownComments = total
		if err := m.cache.UpsertWatchedTopic(w); err != nil {
			log.Printf("monitor: updating topic %d: %v", post.ID, err)
		}
	}
}
