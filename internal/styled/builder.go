package styled

// Builder accumulates text and ranges for a single parse. The zero value is
// ready to use. A Builder must not be shared between goroutines.
type Builder struct {
	buf    []byte
	ranges []Range
}

// Len returns the current text length in bytes.
func (b *Builder) Len() int { return len(b.buf) }

// WriteString appends s.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// Apply records kind over [start, end). Empty or out-of-bounds ranges are
// ignored.
func (b *Builder) Apply(start, end int, kind Kind) {
	if start < 0 || end > len(b.buf) || start >= end {
		return
	}
	b.ranges = append(b.ranges, Range{Start: start, End: end, Kind: kind})
}

// Insert places s at byte offset at. Ranges starting at or after the offset
// move with the text; a range spanning the offset grows.
func (b *Builder) Insert(at int, s string) {
	if at < 0 || at > len(b.buf) || s == "" {
		return
	}
	n := len(s)
	b.buf = append(b.buf, s...)
	copy(b.buf[at+n:], b.buf[at:len(b.buf)-n])
	copy(b.buf[at:], s)

	for i := range b.ranges {
		r := &b.ranges[i]
		switch {
		case r.Start >= at:
			r.Start += n
			r.End += n
		case r.End > at:
			r.End += n
		}
	}
}

// Text freezes the builder contents. Later writes do not affect the
// returned value.
func (b *Builder) Text() Text {
	t := Text{s: string(b.buf)}
	if len(b.ranges) > 0 {
		t.ranges = make([]Range, len(b.ranges))
		copy(t.ranges, b.ranges)
	}
	return t
}

// Reset clears text and ranges.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.ranges = nil
}
