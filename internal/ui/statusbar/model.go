package statusbar

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/forumview/internal/ui/theme"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	titleStyle = lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	watchStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#555555")).
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	title      string
	watched    int
	newCount   int
	statusText string
	isError    bool
}

// New creates a new status bar.
func New() Model {
	return Model{title: "forumview"}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetTitle sets the label of the active view.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetWatched sets the number of watched topics.
func (m *Model) SetWatched(n int) {
	m.watched = n
}

// SetNew sets the count of unseen comments in watched topics.
func (m *Model) SetNew(n int) {
	m.newCount = n
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.isError = isError
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := titleStyle.Render(m.title)
	if m.watched > 0 {
		left += watchStyle.Render(fmt.Sprintf("watching %d", m.watched))
	}

	var right string
	if m.statusText != "" {
		if m.isError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.newCount > 0 {
		right += theme.BadgeStyle.Render(fmt.Sprintf("%d new", m.newCount))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
