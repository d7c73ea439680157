package markup

import "github.com/fragmede/forumview/internal/styled"

// TagStyle says how a closing tag affects the text it encloses.
type TagStyle struct {
	Kind  styled.Kind // zero means no formatting
	Block bool        // surround the run with newlines
	Break bool        // append a newline on close
}

// StyleTable maps lowercase tag names to their formatting.
type StyleTable map[string]TagStyle

// DefaultStyles is the table used when Options.Styles is nil.
var DefaultStyles = StyleTable{
	"strong":     {Kind: styled.Bold},
	"b":          {Kind: styled.Bold},
	"em":         {Kind: styled.Italic},
	"i":          {Kind: styled.Italic},
	"blockquote": {Kind: styled.Highlight, Block: true},
	"br":         {Break: true},
}

// Lookup returns the style for tag; unknown tags have none.
func (t StyleTable) Lookup(tag string) TagStyle {
	return t[tag]
}
