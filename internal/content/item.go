// Package content holds the pager core: a lazily-populated item stream, a
// cursor over it, and the comment-tree flattener. It performs no terminal
// I/O; rendering and the API client sit on either side of it.
package content

// Kind discriminates the item variants in a stream.
type Kind int

const (
	KindSubmission Kind = iota
	KindComment
	KindMoreComments
)

// Item is one entry in a flat, ordered stream. Submissions and comments
// share this shape so the pager logic is reused between the listing view
// and the comment view.
type Item struct {
	Kind  Kind
	ID    string // upstream fullname, e.g. "t3_abc123"
	Depth int    // nesting level; 0 for submissions and top-level comments

	// Height is the number of terminal rows this item occupies once
	// wrapped to the current width. Computed by the presentation layer
	// and cached here; reset on resize.
	Height int

	// Raw is an opaque handle into the API client's object graph
	// (*api.Post, *api.Comment, or *api.More). The stream never walks it;
	// it exists for on-demand expansion and display.
	Raw interface{}
}
