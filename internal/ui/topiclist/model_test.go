package topiclist

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/ui/messages"
)

func TestTopicItemText(t *testing.T) {
	tests := []struct {
		ref   api.TopicRef
		title string
		desc  string
	}{
		{api.TopicRef{ID: 3}, "[topic #3]", ""},
		{api.TopicRef{ID: 1, Title: "Hello", Author: "op", Comments: 1}, "Hello", "by op | 1 comment"},
		{api.TopicRef{ID: 2, Title: "Busy", Comments: 12}, "Busy", "12 comments"},
	}
	for _, tt := range tests {
		item := TopicItem{TopicRef: tt.ref}
		if got := item.Title(); got != tt.title {
			t.Errorf("Title() = %q, want %q", got, tt.title)
		}
		if got := item.Description(); got != tt.desc {
			t.Errorf("Description() = %q, want %q", got, tt.desc)
		}
	}
}

func TestDescriptionIncludesAge(t *testing.T) {
	item := TopicItem{TopicRef: api.TopicRef{Author: "a", Time: time.Now().Add(-3 * time.Hour)}}
	if got := item.Description(); got != "by a | 3 hours ago" {
		t.Errorf("Description() = %q", got)
	}
}

func TestItemsKeepOrder(t *testing.T) {
	items := Items([]api.TopicRef{{ID: 9}, {ID: 4}})
	for i, want := range []int{9, 4} {
		got := items[i].(TopicItem)
		if got.ID != want || got.Index != i {
			t.Errorf("items[%d] = %+v, want id %d", i, got, want)
		}
	}
}

func TestLoadTopicsCachesAndFallsBack(t *testing.T) {
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `<ul><li data-topic="1"><a href="/topic/1">One</a></li></ul>`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), 4)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer db.Close()

	m := New(cfg, api.NewClient(cfg), db)
	msg := m.Init()().(messages.TopicListLoadedMsg)
	if msg.Err != nil || len(msg.Refs) != 1 || msg.Refs[0].Title != "One" {
		t.Fatalf("first load = %+v", msg)
	}
	if refs, _, _ := db.GetTopicList(ListKey, time.Hour); len(refs) != 1 {
		t.Errorf("list not cached: %v", refs)
	}

	down.Store(true)
	msg = m.loadTopics(true)().(messages.TopicListLoadedMsg)
	if msg.Err != nil || len(msg.Refs) != 1 {
		t.Errorf("forced load while down = %+v, want cached rows", msg)
	}
}
