package thread

import "fmt"

// Record is a comment as delivered by a page or a cache row, linked to its
// parent by id. ParentID 0 marks a top-level comment.
type Record struct {
	ID       int
	ParentID int
	Content  ContentInfo
}

// Assemble builds the comment forest from records. Replies keep the order
// of the input. A record whose parent is absent is treated as top-level.
func Assemble(records []Record) ([]*CommentNode, error) {
	present := make(map[int]bool, len(records))
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("record %d: %w", r.ID, ErrInvalidID)
		}
		if present[r.ID] {
			return nil, fmt.Errorf("record %d: %w", r.ID, ErrDuplicateID)
		}
		present[r.ID] = true
	}

	kids := make(map[int][]Record)
	var tops []Record
	for _, r := range records {
		if r.ParentID == 0 || r.ParentID == r.ID || !present[r.ParentID] {
			tops = append(tops, r)
			continue
		}
		kids[r.ParentID] = append(kids[r.ParentID], r)
	}

	// Records on a parent cycle never reach a top and are dropped.
	var build func(r Record, parent []int) *CommentNode
	build = func(r Record, parent []int) *CommentNode {
		path := make([]int, len(parent)+1)
		copy(path, parent)
		path[len(parent)] = r.ID

		n := &CommentNode{path: path, content: r.Content}
		for _, k := range kids[r.ID] {
			child := build(k, path)
			n.children = append(n.children, child)
			n.deepCount += 1 + child.deepCount
		}
		return n
	}

	forest := make([]*CommentNode, 0, len(tops))
	for _, r := range tops {
		forest = append(forest, build(r, nil))
	}
	return forest, nil
}
