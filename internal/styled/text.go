// Package styled holds text with non-destructive formatting ranges.
package styled

import "sort"

// Kind is the formatting applied to a range of text.
type Kind int

const (
	Bold Kind = iota + 1
	Italic
	Highlight
)

func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Highlight:
		return "highlight"
	default:
		return "none"
	}
}

// Range formats the half-open byte interval [Start, End) of a Text.
type Range struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`
}

// Text is an immutable string plus its formatting ranges.
type Text struct {
	s      string
	ranges []Range
}

// Plain returns a Text without formatting.
func Plain(s string) Text {
	return Text{s: s}
}

// New returns a Text with the given ranges. Ranges that fall outside s or
// are empty are dropped.
func New(s string, ranges []Range) Text {
	t := Text{s: s}
	for _, r := range ranges {
		if r.Start < 0 || r.End > len(s) || r.Start >= r.End {
			continue
		}
		t.ranges = append(t.ranges, r)
	}
	return t
}

// String returns the plain text.
func (t Text) String() string { return t.s }

// Len returns the length of the text in bytes.
func (t Text) Len() int { return len(t.s) }

// Ranges returns a copy of the formatting ranges in the order they were
// closed.
func (t Text) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// Segment is a maximal run of text sharing the same set of kinds.
type Segment struct {
	Text  string
	Kinds []Kind
}

// Has reports whether the segment carries kind k.
func (s Segment) Has(k Kind) bool {
	for _, kk := range s.Kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// Segments splits the text at every range boundary.
func (t Text) Segments() []Segment {
	if t.s == "" {
		return nil
	}
	cuts := map[int]bool{0: true, len(t.s): true}
	for _, r := range t.ranges {
		cuts[r.Start] = true
		cuts[r.End] = true
	}
	bounds := make([]int, 0, len(cuts))
	for c := range cuts {
		bounds = append(bounds, c)
	}
	sort.Ints(bounds)

	segs := make([]Segment, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		seg := Segment{Text: t.s[start:end]}
		for _, r := range t.ranges {
			if r.Start <= start && end <= r.End && !seg.Has(r.Kind) {
				seg.Kinds = append(seg.Kinds, r.Kind)
			}
		}
		sort.Slice(seg.Kinds, func(a, b int) bool { return seg.Kinds[a] < seg.Kinds[b] })
		segs = append(segs, seg)
	}
	return segs
}
