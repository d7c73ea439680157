package markup

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fragmede/forumview/internal/styled"
	"github.com/fragmede/forumview/internal/thread"
)

// EntryKind distinguishes the topic body from its comments.
type EntryKind int

const (
	Topic EntryKind = iota
	Comment
)

func (k EntryKind) String() string {
	if k == Comment {
		return "comment"
	}
	return "topic"
}

// Marker ties a class word on the container element to an entry kind.
type Marker struct {
	Class string
	Kind  EntryKind
}

// Options describe the page structure the parser recognises.
type Options struct {
	// ContainerTag opens and closes an entry scope.
	ContainerTag string
	// ScopeMarkers are checked in order against the container's class.
	ScopeMarkers []Marker
	// ContentMarker is the class of the element holding the body.
	ContentMarker string
	// Styles maps closing tags to formatting; nil means DefaultStyles.
	Styles StyleTable
}

// DefaultOptions returns the structure of the stock forum theme.
func DefaultOptions() Options {
	return Options{
		ContainerTag: "article",
		ScopeMarkers: []Marker{
			{Class: "topic", Kind: Topic},
			{Class: "comment", Kind: Comment},
		},
		ContentMarker: "msg_body",
		Styles:        DefaultStyles,
	}
}

// Entry is one completed topic or comment body.
type Entry struct {
	Kind     EntryKind
	ID       int
	ParentID int
	Title    string
	Content  thread.ContentInfo
}

// scope is the state of the entry currently being read. It is discarded
// whenever the container closes.
type scope struct {
	active       bool
	kind         EntryKind
	attrs        map[string]string
	contentDepth int
	starts       []int
	buf          styled.Builder
}

func (s *scope) reset() {
	s.active = false
	s.kind = Topic
	s.attrs = nil
	s.contentDepth = -1
	s.starts = s.starts[:0]
	s.buf.Reset()
}

// Parser turns markup events into entries. It reads one document at a time
// and is not safe for concurrent use.
type Parser struct {
	opts    Options
	cur     scope
	entries []Entry
}

// NewParser returns a parser for the given structure.
func NewParser(opts Options) *Parser {
	if opts.Styles == nil {
		opts.Styles = DefaultStyles
	}
	p := &Parser{opts: opts}
	p.cur.reset()
	return p
}

// Feed applies one event.
func (p *Parser) Feed(ev Event) {
	ev.apply(p)
}

// ElementOpen handles a start tag.
func (p *Parser) ElementOpen(tag string, attrs map[string]string) {
	s := &p.cur
	if !s.active {
		if tag != p.opts.ContainerTag {
			return
		}
		kind, ok := p.classify(attrs)
		if !ok {
			return
		}
		s.active = true
		s.kind = kind
		s.attrs = attrs
		return
	}

	if s.contentDepth == -1 {
		if attrs != nil && hasClass(attrs["class"], p.opts.ContentMarker) {
			s.contentDepth = 0
			s.buf.Reset()
			s.starts = s.starts[:0]
		}
		return
	}

	s.contentDepth++
	s.starts = append(s.starts, s.buf.Len())
}

// ElementClose handles an end tag.
func (p *Parser) ElementClose(tag string) {
	s := &p.cur
	if !s.active {
		return
	}
	if tag == p.opts.ContainerTag {
		p.entries = append(p.entries, p.finish())
		s.reset()
		return
	}
	switch {
	case s.contentDepth >= 1:
		p.closeRun(tag)
		s.contentDepth--
	case s.contentDepth == 0:
		s.contentDepth = -1
	}
}

func (p *Parser) closeRun(tag string) {
	s := &p.cur
	if len(s.starts) == 0 {
		return
	}
	start := s.starts[len(s.starts)-1]
	s.starts = s.starts[:len(s.starts)-1]
	end := s.buf.Len()

	st := p.opts.Styles.Lookup(tag)
	if st.Block {
		s.buf.Insert(start, "\n")
		start++
		end++
		s.buf.WriteString("\n")
	}
	if st.Kind != 0 {
		s.buf.Apply(start, end, st.Kind)
	}
	if st.Break {
		s.buf.WriteString("\n")
	}
}

// collapseRe matches runs of the same characters unicode.IsSpace accepts,
// so the collapse and the leading trim agree on what whitespace is.
var collapseRe = regexp.MustCompile(`[\s\v\x{85}\p{Zs}\x{2028}\x{2029}]{2,}|\n`)

// Text handles character data inside the content root.
func (p *Parser) Text(chunk string) {
	s := &p.cur
	if !s.active || s.contentDepth < 0 {
		return
	}
	chunk = collapseRe.ReplaceAllString(chunk, "")
	if s.buf.Len() == 0 {
		chunk = strings.TrimLeftFunc(chunk, unicode.IsSpace)
	}
	s.buf.WriteString(chunk)
}

// Entries returns the entries completed so far, in closing order.
func (p *Parser) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Reset discards completed entries and any partially read scope.
func (p *Parser) Reset() {
	p.entries = nil
	p.cur.reset()
}

func (p *Parser) classify(attrs map[string]string) (EntryKind, bool) {
	if attrs == nil {
		return Topic, true
	}
	class := attrs["class"]
	for _, m := range p.opts.ScopeMarkers {
		if hasClass(class, m.Class) {
			return m.Kind, true
		}
	}
	return Topic, false
}

func (p *Parser) finish() Entry {
	s := &p.cur
	e := Entry{
		Kind:     s.kind,
		ID:       atoi(s.attrs["data-id"]),
		ParentID: atoi(s.attrs["data-parent"]),
		Title:    strings.TrimSpace(s.attrs["data-title"]),
		Content: thread.ContentInfo{
			Author: strings.TrimSpace(s.attrs["data-author"]),
			Text:   s.buf.Text(),
		},
	}
	if ts := atoi(s.attrs["data-time"]); ts > 0 {
		e.Content.Timestamp = time.Unix(int64(ts), 0).UTC()
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s.attrs["data-rating"])); err == nil {
		e.Content.Rating = &v
	}
	return e
}

func hasClass(class, want string) bool {
	if want == "" {
		return false
	}
	for _, c := range strings.Fields(class) {
		if c == want {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
