package watchlist

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/forumview/internal/cache"
	"github.com/fragmede/forumview/internal/styled"
	"github.com/fragmede/forumview/internal/thread"
	"github.com/fragmede/forumview/internal/ui/messages"
)

func TestLoadAndOpen(t *testing.T) {
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), 4)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer db.Close()

	post, err := thread.NewPost(5, "Watched thing", thread.ContentInfo{Text: styled.Plain("opening words")}, nil)
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}
	if err := db.PutTopic(post); err != nil {
		t.Fatalf("PutTopic: %v", err)
	}
	now := time.Now()
	for _, w := range []cache.WatchedTopic{
		{TopicID: 5, KnownComments: 3, LastChecked: now.Add(-time.Hour), CreatedAt: now},
		{TopicID: 6, LastChecked: now, CreatedAt: now},
	} {
		if err := db.UpsertWatchedTopic(w); err != nil {
			t.Fatalf("UpsertWatchedTopic: %v", err)
		}
	}

	m := New(db)
	m.Load(map[int]int{5: 2})
	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	first := entries[0]
	if first.Title != "Watched thing" || first.Preview != "opening words" || first.New != 2 || first.Comments != 3 {
		t.Errorf("first = %+v", first)
	}
	if entries[1].Title != "Topic #6" {
		t.Errorf("uncached title = %q", entries[1].Title)
	}
	if v := m.View(); !strings.Contains(v, "2 new") {
		t.Errorf("View() missing new count: %q", v)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got, ok := cmd().(messages.OpenTopicMsg); !ok || got.TopicID != 6 {
		t.Errorf("enter = %#v, want OpenTopicMsg{6}", got)
	}
}

func TestEmptyView(t *testing.T) {
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), 4)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer db.Close()

	m := New(db)
	m.Load(nil)
	if v := m.View(); !strings.Contains(v, "Nothing watched yet") {
		t.Errorf("View() = %q", v)
	}
}
