package layout

import "github.com/fragmede/forumview/internal/thread"

// FindByPath resolves path against root. path[0] must be root's id; each
// following id selects one immediate child. It reports false when any step
// fails to match.
func FindByPath(root *thread.CommentNode, path []int) (*thread.CommentNode, bool) {
	if root == nil || len(path) == 0 || path[0] != root.ID() {
		return nil, false
	}
	cur := root
	for _, id := range path[1:] {
		next := childByID(cur, id)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// childByID relies on sibling ids being unique, which thread.Assemble
// enforces.
func childByID(n *thread.CommentNode, id int) *thread.CommentNode {
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c.ID() == id {
			return c
		}
	}
	return nil
}

// PrepareDisplayItems returns the rows for a topic. With no start path the
// whole comment forest is laid out; otherwise only the subtree at the path,
// with that node as the Top row at indent 0. A path that matches nothing
// yields no rows.
func PrepareDisplayItems(post *thread.PostData, startPath []int) []ItemInfo {
	if post == nil {
		return nil
	}
	if len(startPath) == 0 {
		return LayoutForest(post.Comments)
	}
	n, ok := Find(post, startPath)
	if !ok {
		return nil
	}
	return Layout(n, 0)
}

// Find resolves a path against every top-level comment of a topic.
func Find(post *thread.PostData, path []int) (*thread.CommentNode, bool) {
	if post == nil {
		return nil, false
	}
	for _, c := range post.Comments {
		if n, ok := FindByPath(c, path); ok {
			return n, true
		}
	}
	return nil, false
}
