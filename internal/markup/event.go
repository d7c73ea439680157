// Package markup classifies a stream of markup events into topic and
// comment bodies with styled text.
package markup

// Event is one structural event from a tolerant tokenizer.
type Event interface {
	apply(p *Parser)
}

// OpenEvent is an element start tag. Attrs is nil when the producer does
// not report attributes.
type OpenEvent struct {
	Tag   string
	Attrs map[string]string
}

// CloseEvent is an element end tag.
type CloseEvent struct {
	Tag string
}

// TextEvent is a run of character data. A logical text node may arrive
// split across several events.
type TextEvent struct {
	Chunk string
}

func (e OpenEvent) apply(p *Parser)  { p.ElementOpen(e.Tag, e.Attrs) }
func (e CloseEvent) apply(p *Parser) { p.ElementClose(e.Tag) }
func (e TextEvent) apply(p *Parser)  { p.Text(e.Chunk) }
