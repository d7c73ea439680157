package markup

import (
	"fmt"
	"io"

	xhtml "golang.org/x/net/html"
)

// Tokenize reads a page with the tolerant HTML5 parser and emits balanced
// events in document order. Malformed input is repaired by the parser, so
// every open is followed by its matching close, void elements included.
func Tokenize(r io.Reader, emit func(Event)) error {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing markup: %w", err)
	}
	walk(doc, emit)
	return nil
}

func walk(n *xhtml.Node, emit func(Event)) {
	switch n.Type {
	case xhtml.TextNode:
		emit(TextEvent{Chunk: n.Data})
		return
	case xhtml.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
		emit(OpenEvent{Tag: n.Data, Attrs: attrs})
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, emit)
		}
		emit(CloseEvent{Tag: n.Data})
		return
	case xhtml.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, emit)
		}
	}
}

// ParseDocument reads a whole page and returns its entries.
func ParseDocument(r io.Reader, opts Options) ([]Entry, error) {
	p := NewParser(opts)
	if err := Tokenize(r, p.Feed); err != nil {
		return nil, err
	}
	return p.Entries(), nil
}
