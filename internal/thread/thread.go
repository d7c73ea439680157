// Package thread models a forum topic and its comment tree. Values are
// immutable once built; trees are only constructed through Assemble.
package thread

import (
	"errors"
	"fmt"
	"time"

	"github.com/fragmede/forumview/internal/styled"
)

var (
	// ErrDuplicateID indicates two siblings share an id.
	ErrDuplicateID = errors.New("duplicate sibling id")

	// ErrInvalidID indicates a non-positive comment id.
	ErrInvalidID = errors.New("invalid comment id")
)

// ContentInfo is the body and byline of a post or comment.
type ContentInfo struct {
	Author    string
	Text      styled.Text
	Timestamp time.Time
	Rating    *int
}

// HasRating reports whether a rating was present.
func (c ContentInfo) HasRating() bool { return c.Rating != nil }

// CommentNode is one comment and the subtree it owns.
type CommentNode struct {
	path      []int
	content   ContentInfo
	children  []*CommentNode
	deepCount int
}

// ID returns the node's own id, the last element of its path.
func (n *CommentNode) ID() int {
	if len(n.path) == 0 {
		return 0
	}
	return n.path[len(n.path)-1]
}

// Path returns the ancestor-id chain from the top-level comment to n.
func (n *CommentNode) Path() []int {
	out := make([]int, len(n.path))
	copy(out, n.path)
	return out
}

// Depth is the number of ancestors above n.
func (n *CommentNode) Depth() int {
	if len(n.path) == 0 {
		return 0
	}
	return len(n.path) - 1
}

func (n *CommentNode) Content() ContentInfo { return n.content }

// Children returns the direct replies in display order.
func (n *CommentNode) Children() []*CommentNode {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*CommentNode, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct replies.
func (n *CommentNode) NumChildren() int { return len(n.children) }

// Child returns the i-th direct reply.
func (n *CommentNode) Child(i int) *CommentNode { return n.children[i] }

// DeepChildCount is the total number of descendants.
func (n *CommentNode) DeepChildCount() int { return n.deepCount }

// Synthetic reports whether n is a layout-only root with no path.
func (n *CommentNode) Synthetic() bool { return len(n.path) == 0 }

// NewSyntheticRoot wraps a forest in an unrendered root so that single-root
// algorithms can treat it uniformly. The children keep their own paths.
func NewSyntheticRoot(children []*CommentNode) *CommentNode {
	root := &CommentNode{children: make([]*CommentNode, len(children))}
	copy(root.children, children)
	for _, c := range children {
		root.deepCount += 1 + c.deepCount
	}
	return root
}

// PostData is a topic with its comment forest.
type PostData struct {
	ID       int
	Title    string
	Content  ContentInfo
	Comments []*CommentNode
}

// NewPost builds a PostData, assembling comments from flat records.
func NewPost(id int, title string, content ContentInfo, records []Record) (*PostData, error) {
	comments, err := Assemble(records)
	if err != nil {
		return nil, fmt.Errorf("assembling topic %d: %w", id, err)
	}
	return &PostData{ID: id, Title: title, Content: content, Comments: comments}, nil
}

// CommentCount returns the number of comments in the whole forest.
func (p *PostData) CommentCount() int {
	total := 0
	for _, c := range p.Comments {
		total += 1 + c.DeepChildCount()
	}
	return total
}

// Walk visits every comment depth-first in display order.
func (p *PostData) Walk(fn func(*CommentNode)) {
	var walk func(n *CommentNode)
	walk = func(n *CommentNode) {
		fn(n)
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, c := range p.Comments {
		walk(c)
	}
}
