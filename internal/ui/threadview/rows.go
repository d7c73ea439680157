package threadview

import (
	"fmt"
	"strings"

	"github.com/fragmede/forumview/internal/layout"
	"github.com/fragmede/forumview/internal/thread"
)

// maxIndent caps the gutter so deep threads keep room for text.
const maxIndent = 15

// frame is one level of the expansion stack: the path the rows were laid
// out from and the row that was selected when the next level was opened.
type frame struct {
	path     []int
	selected int
}

// resolve lays out the top frame of stack against post, dropping frames
// whose node no longer exists. The bottom frame (the whole topic) always
// survives.
func resolve(post *thread.PostData, stack []frame) ([]frame, []layout.ItemInfo) {
	for len(stack) > 1 {
		if rows := layout.PrepareDisplayItems(post, stack[len(stack)-1].path); rows != nil {
			return stack, rows
		}
		stack = stack[:len(stack)-1]
	}
	if len(stack) == 0 {
		stack = []frame{{}}
	}
	return stack[:1], layout.PrepareDisplayItems(post, nil)
}

// expandable reports whether row can be re-laid out as a deeper view.
// A Top row already has its chain and replies on screen.
func expandable(row layout.ItemInfo, current []int) bool {
	if row.Node == nil || row.Node.NumChildren() == 0 || row.Kind == layout.Top {
		return false
	}
	return !samePath(row.Node.Path(), current)
}

func samePath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// badge counts the comments hidden below a reply row.
func badge(row layout.ItemInfo) string {
	if row.Kind != layout.Reply || row.Node.DeepChildCount() == 0 {
		return ""
	}
	return fmt.Sprintf("[+%d]", row.Node.DeepChildCount())
}

func marker(row layout.ItemInfo) string {
	if row.Kind == layout.ReplyInStaircase {
		return "↳ "
	}
	return ""
}

func gutterWidth(indent int) int {
	if indent < 0 {
		indent = 0
	}
	if indent > maxIndent {
		indent = maxIndent
	}
	return indent * 2
}

// breadcrumb names each comment along path by its author.
func breadcrumb(post *thread.PostData, path []int) string {
	parts := make([]string, 0, len(path))
	for i := range path {
		n, ok := layout.Find(post, path[:i+1])
		if !ok || n.Content().Author == "" {
			parts = append(parts, fmt.Sprintf("#%d", path[i]))
			continue
		}
		parts = append(parts, n.Content().Author)
	}
	return strings.Join(parts, " › ")
}

// enclosingIndex returns the closest row above idx with a smaller indent.
func enclosingIndex(rows []layout.ItemInfo, idx int) int {
	if idx < 0 || idx >= len(rows) {
		return -1
	}
	for i := idx - 1; i >= 0; i-- {
		if rows[i].Indent < rows[idx].Indent {
			return i
		}
	}
	return -1
}

// nextSiblingIndex returns the next row at the same indent, stopping when
// the layout climbs out of the current level.
func nextSiblingIndex(rows []layout.ItemInfo, idx int) int {
	if idx < 0 || idx >= len(rows) {
		return -1
	}
	indent := rows[idx].Indent
	for i := idx + 1; i < len(rows); i++ {
		if rows[i].Indent < indent {
			return -1
		}
		if rows[i].Indent == indent {
			return i
		}
	}
	return -1
}
