package api

import (
	"encoding/json"
	"strings"
)

// SortOrder represents the subreddit listing sort orders.
type SortOrder string

const (
	SortHot           SortOrder = "hot"
	SortNew           SortOrder = "new"
	SortTop           SortOrder = "top"
	SortRising        SortOrder = "rising"
	SortControversial SortOrder = "controversial"
)

// Thing kind prefixes used in fullnames ("t1_abc" etc).
const (
	KindComment = "t1"
	KindPost    = "t3"
	KindMore    = "more"
)

// thing is the reddit JSON envelope: every object is {"kind": ..., "data": ...}.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// listing is the paginated container payload.
type listing struct {
	After    string  `json:"after"`
	Before   string  `json:"before"`
	Children []thing `json:"children"`
}

// Post is a submission (t3).
type Post struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"` // fullname, e.g. "t3_abc123"
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Subreddit    string  `json:"subreddit"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	URL          string  `json:"url"`
	Permalink    string  `json:"permalink"`
	Domain       string  `json:"domain"`
	Score        int     `json:"score"`
	NumComments  int     `json:"num_comments"`
	CreatedUTC   float64 `json:"created_utc"`
	Over18       bool    `json:"over_18"`
	Stickied     bool    `json:"stickied"`
	IsSelf       bool    `json:"is_self"`
}

// Comment is a reply (t1). RawReplies holds the nested child listing
// verbatim; it is decoded lazily because reddit sends "" instead of null
// for leaves.
type Comment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"` // fullname, e.g. "t1_xyz789"
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	BodyHTML   string  `json:"body_html"`
	ParentID   string  `json:"parent_id"`
	LinkID     string  `json:"link_id"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Stickied   bool    `json:"stickied"`

	RawReplies json.RawMessage `json:"replies"`

	replies []*CommentNode
	parsed  bool
}

// More is the truncation stub (kind "more") reddit emits in place of
// unfetched replies.
type More struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Children []string `json:"children"`
}

// CommentNode is either a comment or a more-stub; exactly one field is set.
type CommentNode struct {
	Comment *Comment
	More    *More
}

// Replies returns the direct children of this comment, decoding the raw
// listing on first use.
func (c *Comment) Replies() []*CommentNode {
	if c.parsed {
		return c.replies
	}
	c.parsed = true
	raw := string(c.RawReplies)
	if raw == "" || raw == `""` || raw == "null" {
		return nil
	}
	var env thing
	if err := json.Unmarshal(c.RawReplies, &env); err != nil {
		return nil
	}
	var ls listing
	if err := json.Unmarshal(env.Data, &ls); err != nil {
		return nil
	}
	c.replies = decodeNodes(ls.Children)
	return c.replies
}

// SetReplies overrides the decoded children (used when grafting expanded
// more-stub results back onto the tree).
func (c *Comment) SetReplies(nodes []*CommentNode) {
	c.replies = nodes
	c.parsed = true
}

// Deleted reports whether the comment was removed upstream. Reddit keeps the
// tree slot and substitutes sentinel text.
func (c *Comment) Deleted() bool {
	return c.Author == "[deleted]" || c.Body == "[deleted]" || c.Body == "[removed]"
}

func decodeNodes(children []thing) []*CommentNode {
	nodes := make([]*CommentNode, 0, len(children))
	for _, ch := range children {
		switch ch.Kind {
		case KindComment:
			var c Comment
			if err := json.Unmarshal(ch.Data, &c); err != nil {
				continue
			}
			nodes = append(nodes, &CommentNode{Comment: &c})
		case KindMore:
			var m More
			if err := json.Unmarshal(ch.Data, &m); err != nil {
				continue
			}
			if len(m.Children) == 0 && m.Count == 0 {
				// Empty "continue this thread" stub; nothing to expand.
				continue
			}
			nodes = append(nodes, &CommentNode{More: &m})
		}
	}
	return nodes
}

// PermalinkURL turns a relative permalink into an absolute URL.
func PermalinkURL(permalink string) string {
	return defaultBaseURL + permalink
}

// ShortID strips the kind prefix from a fullname ("t3_abc" -> "abc").
func ShortID(fullname string) string {
	if i := strings.IndexByte(fullname, '_'); i >= 0 {
		return fullname[i+1:]
	}
	return fullname
}
