package topiclist

import (
	"fmt"
	"strings"

	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/render"
)

// TopicItem wraps an index row for the bubbles list.
type TopicItem struct {
	api.TopicRef
	Index int
}

func (t TopicItem) Title() string {
	if t.TopicRef.Title != "" {
		return t.TopicRef.Title
	}
	return fmt.Sprintf("[topic #%d]", t.ID)
}

func (t TopicItem) Description() string {
	parts := make([]string, 0, 3)
	if t.Author != "" {
		parts = append(parts, "by "+t.Author)
	}
	if ago := render.TimeAgo(t.Time); ago != "" {
		parts = append(parts, ago)
	}
	switch t.Comments {
	case 0:
	case 1:
		parts = append(parts, "1 comment")
	default:
		parts = append(parts, fmt.Sprintf("%d comments", t.Comments))
	}
	return strings.Join(parts, " | ")
}

func (t TopicItem) FilterValue() string {
	return t.TopicRef.Title + " " + t.Author
}
