package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/fragmede/forumview/internal/styled"
)

var (
	boldStyle   = lipgloss.NewStyle().Bold(true)
	italicStyle = lipgloss.NewStyle().Italic(true)
	quoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0D0A0"))
)

// Styled renders formatted text for the terminal, wrapped to width.
// Quoted lines are prefixed with a bar so they stay visible without colour.
func Styled(t styled.Text, width int) string {
	var sb strings.Builder
	lineStart := true
	for _, seg := range t.Segments() {
		style := lipgloss.NewStyle()
		if seg.Has(styled.Bold) {
			style = style.Inherit(boldStyle)
		}
		if seg.Has(styled.Italic) {
			style = style.Inherit(italicStyle)
		}
		if seg.Has(styled.Highlight) {
			style = style.Inherit(quoteStyle)
			sb.WriteString(renderQuoted(style, seg.Text, lineStart))
		} else {
			sb.WriteString(renderLines(style, seg.Text))
		}
		if seg.Text != "" {
			lineStart = strings.HasSuffix(seg.Text, "\n")
		}
	}
	out := strings.Trim(sb.String(), "\n")
	if width <= 0 {
		return out
	}
	return lipgloss.NewStyle().Width(width).Render(out)
}

// renderLines styles each line separately so newlines never carry escape
// sequences across row boundaries.
func renderLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// renderQuoted is renderLines with the quote bar added where a quoted line
// begins. A segment continuing a line already started gets no bar.
func renderQuoted(style lipgloss.Style, s string, lineStart bool) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		if i > 0 || lineStart {
			l = "> " + l
		}
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}

// Plain renders the unformatted text with simple word wrapping.
func Plain(t styled.Text, width int) string {
	return wrapText(strings.TrimSpace(t.String()), width)
}

// Preview returns the first n bytes of the plain text on one line.
func Preview(t styled.Text, n int) string {
	s := strings.Join(strings.Fields(t.String()), " ")
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// TimeAgo formats a timestamp relative to now. The zero time renders empty.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// wrapText performs simple word wrapping to the given width.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			// Don't wrap code blocks.
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := len(word)
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
