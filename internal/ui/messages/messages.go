package messages

import (
	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/content"
)

// View transition messages.
type (
	OpenPostMsg   struct{ Post *api.Post }
	SwitchSortMsg struct{ Sort api.SortOrder }
)

// Data messages.
type (
	ThreadLoadedMsg struct {
		PostName string
		Thread   *api.Thread
		Err      error
	}

	MoreExpandedMsg struct {
		PostName string
		StubName string
		Index    int
		Items    []content.Item
		Nodes    []*api.CommentNode
		Err      error
	}

	LinkOpenedMsg struct {
		URL         string
		ContentType string
		Err         error
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
