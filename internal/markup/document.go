package markup

import (
	"errors"
	"fmt"

	"github.com/fragmede/forumview/internal/thread"
)

// ErrNoTopic indicates a page without a topic entry.
var ErrNoTopic = errors.New("no topic on page")

// Document assembles a topic and its comments from parsed entries. The
// first topic entry is the post; later topic entries are ignored.
func Document(entries []Entry) (*thread.PostData, error) {
	var (
		topic   *Entry
		records []thread.Record
	)
	for i := range entries {
		e := &entries[i]
		switch e.Kind {
		case Topic:
			if topic == nil {
				topic = e
			}
		case Comment:
			records = append(records, thread.Record{
				ID:       e.ID,
				ParentID: e.ParentID,
				Content:  e.Content,
			})
		}
	}
	if topic == nil {
		return nil, ErrNoTopic
	}
	post, err := thread.NewPost(topic.ID, topic.Title, topic.Content, records)
	if err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}
	return post, nil
}
