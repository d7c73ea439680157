package statusbar

import (
	"strings"
	"testing"
)

func TestViewShowsCounters(t *testing.T) {
	m := New()
	m.SetSize(80)
	m.SetTitle("Topics")
	m.SetWatched(2)
	m.SetNew(5)
	m.SetStatus("refreshed", false)

	got := m.View()
	for _, want := range []string{"Topics", "watching 2", "5 new", "refreshed"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() = %q, missing %q", got, want)
		}
	}
}

func TestViewHidesZeroCounters(t *testing.T) {
	m := New()
	m.SetSize(40)
	got := m.View()
	if strings.Contains(got, "watching") || strings.Contains(got, "new") {
		t.Errorf("View() = %q, want no counters", got)
	}
}
