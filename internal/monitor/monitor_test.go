package monitor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/ui/messages"
)

// forum serves topic 5 with a configurable number of comments.
type forum struct {
	mu       sync.Mutex
	comments int
}

func (f *forum) setComments(n int) {
	f.mu.Lock()
	f.comments = n
	f.mu.Unlock()
}

func (f *forum) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/topic/5" {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	n := f.comments
	f.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(`<html><body><article class="topic" data-id="5" data-title="Watched">
<div class="msg_body">body</div></article>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `<article class="comment" data-id="%d" data-parent="%d"><div class="msg_body">c%d</div></article>`,
			50+i, 50+i-1, i)
	}
	sb.WriteString(`</body></html>`)
	fmt.Fprint(w, sb.String())
}

func newTestMonitor(t *testing.T, f *forum) (*Monitor, *[]tea.Msg) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), 4)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := New(cfg, api.NewClient(cfg), db)
	var sent []tea.Msg
	m.send = func(msg tea.Msg) { sent = append(sent, msg) }
	return m, &sent
}

func TestToggle(t *testing.T) {
	f := &forum{comments: 2}
	m, _ := newTestMonitor(t, f)
	post, err := m.client.GetTopic(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}

	watching, err := m.Toggle(post)
	if err != nil || !watching {
		t.Fatalf("Toggle = %v, %v; want watching", watching, err)
	}
	ws, _ := m.cache.GetWatchedTopics(10)
	if len(ws) != 1 || ws[0].KnownComments != 2 {
		t.Errorf("watched = %+v, want topic 5 with 2 known comments", ws)
	}

	watching, err = m.Toggle(post)
	if err != nil || watching {
		t.Fatalf("second Toggle = %v, %v; want unwatched", watching, err)
	}
	if m.cache.WatchedCount() != 0 {
		t.Errorf("WatchedCount() = %d, want 0", m.cache.WatchedCount())
	}
}

func TestPollReportsNewComments(t *testing.T) {
	f := &forum{comments: 1}
	m, sent := newTestMonitor(t, f)
	post, err := m.client.GetTopic(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}
	if _, err := m.Toggle(post); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	m.poll(context.Background())
	if len(*sent) != 0 {
		t.Fatalf("unchanged topic produced %v", *sent)
	}

	f.setComments(4)
	m.poll(context.Background())
	if len(*sent) != 1 {
		t.Fatalf("got %d messages, want 1", len(*sent))
	}
	got, ok := (*sent)[0].(messages.NewCommentsMsg)
	if !ok {
		t.Fatalf("message = %T, want NewCommentsMsg", (*sent)[0])
	}
	want := messages.NewCommentsMsg{TopicID: 5, Title: "Watched", NewCount: 3, Total: 4}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	cached, _, err := m.cache.GetTopic(5, time.Hour)
	if err != nil || cached == nil || cached.CommentCount() != 4 {
		t.Errorf("cache not refreshed: %v, %v", cached, err)
	}

	m.poll(context.Background())
	if len(*sent) != 1 {
		t.Errorf("known comments reported twice: %v", *sent)
	}
}

func TestPollSkipsFailedFetch(t *testing.T) {
	m, sent := newTestMonitor(t, &forum{})
	err := m.cache.UpsertWatchedTopic(cache.WatchedTopic{TopicID: 404, LastChecked: time.Unix(1, 0), CreatedAt: time.Unix(1, 0)})
	if err != nil {
		t.Fatalf("UpsertWatchedTopic: %v", err)
	}
	m.poll(context.Background())
	if len(*sent) != 0 {
		t.Errorf("failed fetch produced %v", *sent)
	}
	ws, _ := m.cache.GetWatchedTopics(10)
	if len(ws) != 1 || !ws[0].LastChecked.After(time.Unix(1, 0)) {
		t.Errorf("LastChecked not advanced: %+v", ws)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m, _ := newTestMonitor(t, &forum{})
	m.Stop()
	m.Stop()
}
