package messages

import (
	"github.com/fragmede/forumview/internal/api"
	"github.com/fragmede/forumview/internal/thread"
)

// View transition messages.
type (
	OpenTopicMsg struct{ TopicID int }
	GoBackMsg    struct{}

	// ToggleWatchMsg asks the app to start or stop polling a topic.
	ToggleWatchMsg struct{ Post *thread.PostData }
)

// Data messages.
type (
	TopicListLoadedMsg struct {
		Refs []api.TopicRef
		Err  error
	}

	TopicLoadedMsg struct {
		TopicID int
		Post    *thread.PostData
		Stale   bool
		Err     error
	}

	// NewCommentsMsg is sent by the monitor when a watched topic grew.
	NewCommentsMsg struct {
		TopicID  int
		Title    string
		NewCount int
		Total    int
	}

	WatchToggledMsg struct {
		TopicID  int
		Watching bool
		Err      error
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
