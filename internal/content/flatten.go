package content

import (
	"github.com/mvanholst/lurker/internal/api"
)

// CollapseState tracks folded comment fullnames.
type CollapseState map[string]bool

// Flatten converts a nested comment forest into a flat, depth-ordered list
// of items via pre-order traversal. The traversal order exactly matches the
// upstream sort; nothing is reordered here. Deleted comments are kept (with
// their upstream placeholder text) so descendants stay attached. A more-stub
// becomes a single MoreComments item at its sibling depth; it is expanded
// only on user request, via ExpandMore + Stream.ReplaceAt.
func Flatten(roots []*api.CommentNode, cs CollapseState) []Item {
	var out []Item
	var walk func(nodes []*api.CommentNode, depth int)
	walk = func(nodes []*api.CommentNode, depth int) {
		for _, n := range nodes {
			if n.More != nil {
				out = append(out, Item{
					Kind:  KindMoreComments,
					ID:    n.More.Name,
					Depth: depth,
					Raw:   n.More,
				})
				continue
			}
			c := n.Comment
			out = append(out, Item{
				Kind:  KindComment,
				ID:    c.Name,
				Depth: depth,
				Raw:   c,
			})
			if !cs[c.Name] {
				walk(c.Replies(), depth+1)
			}
		}
	}
	walk(roots, 0)
	return out
}

// CountDescendants returns how many items following index i in a flat list
// belong to its subtree (used for the fold badge).
func CountDescendants(items []Item, i int) int {
	if i < 0 || i >= len(items) {
		return 0
	}
	depth := items[i].Depth
	n := 0
	for j := i + 1; j < len(items); j++ {
		if items[j].Depth <= depth {
			break
		}
		n++
	}
	return n
}

// Graft replaces the more-stub with the given fullname by the resolved
// nodes, rebuilding their nesting from parent fullnames. Nodes whose parent
// is not in the batch take the stub's place as siblings. The tree keeps its
// traversal order, so a later re-flatten leaves all earlier indices intact.
func Graft(roots []*api.CommentNode, stubName string, nodes []*api.CommentNode) []*api.CommentNode {
	byName := make(map[string]*api.CommentNode, len(nodes))
	var top []*api.CommentNode
	for _, n := range nodes {
		var parent string
		if n.Comment != nil {
			parent = n.Comment.ParentID
			byName[n.Comment.Name] = n
		} else {
			parent = n.More.ParentID
		}
		if p, ok := byName[parent]; ok {
			p.Comment.SetReplies(append(p.Comment.Replies(), n))
		} else {
			top = append(top, n)
		}
	}

	var replace func(nodes []*api.CommentNode) ([]*api.CommentNode, bool)
	replace = func(nodes []*api.CommentNode) ([]*api.CommentNode, bool) {
		for i, n := range nodes {
			if n.More != nil && n.More.Name == stubName {
				out := make([]*api.CommentNode, 0, len(nodes)+len(top)-1)
				out = append(out, nodes[:i]...)
				out = append(out, top...)
				out = append(out, nodes[i+1:]...)
				return out, true
			}
			if n.Comment != nil {
				if kids, ok := replace(n.Comment.Replies()); ok {
					n.Comment.SetReplies(kids)
					return nodes, true
				}
			}
		}
		return nodes, false
	}
	out, _ := replace(roots)
	return out
}

// ExpandMore turns the flat node list returned by the morechildren endpoint
// into depth-annotated items rooted at baseDepth. The endpoint returns
// nodes in tree order but without nesting, so depth is reconstructed from
// parent fullnames; a node whose parent is not in the batch is a sibling of
// the original stub.
func ExpandMore(nodes []*api.CommentNode, baseDepth int) []Item {
	depths := make(map[string]int, len(nodes))
	out := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		if n.More != nil {
			d, ok := depths[n.More.ParentID]
			if !ok {
				d = baseDepth - 1
			}
			out = append(out, Item{
				Kind:  KindMoreComments,
				ID:    n.More.Name,
				Depth: d + 1,
				Raw:   n.More,
			})
			continue
		}
		c := n.Comment
		d, ok := depths[c.ParentID]
		if !ok {
			d = baseDepth - 1
		}
		depths[c.Name] = d + 1
		out = append(out, Item{
			Kind:  KindComment,
			ID:    c.Name,
			Depth: d + 1,
			Raw:   c,
		})
	}
	return out
}
