// Package layout flattens comment trees into indent-tagged display rows.
//
// Single-reply chains are merged onto one indent level (a staircase) so that
// long back-and-forth exchanges do not march off the right edge. Branches
// are not expanded inline: each branch child is emitted once and can be
// re-laid out later from its path.
package layout

import "github.com/fragmede/forumview/internal/thread"

// ItemKind tells the presentation layer how a row relates to the one above.
type ItemKind int

const (
	Top ItemKind = iota
	Reply
	ReplyInStaircase
)

func (k ItemKind) String() string {
	switch k {
	case Top:
		return "top"
	case Reply:
		return "reply"
	case ReplyInStaircase:
		return "staircase"
	default:
		return "unknown"
	}
}

// ItemInfo is one display row. Node is borrowed from the tree the row was
// laid out from.
type ItemInfo struct {
	Indent int
	Kind   ItemKind
	Node   *thread.CommentNode
}

// Layout emits root, then its single-child chain at the same indent, then
// the children of the first node that branches (or none, at a leaf) one
// level deeper.
func Layout(root *thread.CommentNode, startIndent int) []ItemInfo {
	items := []ItemInfo{{Indent: startIndent, Kind: Top, Node: root}}

	cur := root
	for cur.NumChildren() == 1 {
		cur = cur.Child(0)
		items = append(items, ItemInfo{Indent: startIndent, Kind: ReplyInStaircase, Node: cur})
	}
	for i := 0; i < cur.NumChildren(); i++ {
		items = append(items, ItemInfo{Indent: startIndent + 1, Kind: Reply, Node: cur.Child(i)})
	}
	return items
}

// LayoutForest lays out top-level comments as replies of an unrendered
// root at indent -1, so every one of them lands at indent 0.
//
// A lone top-level comment departs from that rule: laid out under the
// unrendered root its staircase would sit at indent -1, so it is laid out
// as its own root at indent 0 instead and its chain stays visible.
func LayoutForest(roots []*thread.CommentNode) []ItemInfo {
	if len(roots) == 1 {
		return Layout(roots[0], 0)
	}
	items := Layout(thread.NewSyntheticRoot(roots), -1)
	return items[1:]
}
