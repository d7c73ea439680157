package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/fragmede/forumview/internal/layout"
	"github.com/fragmede/forumview/internal/markup"
	"github.com/fragmede/forumview/internal/styled"
	"github.com/fragmede/forumview/internal/thread"
)

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextKeepsIndentedBlocks(t *testing.T) {
	in := "    code stays as is\nwrap me please"
	got := wrapText(in, 7)
	want := "    code stays as is\nwrap me\nplease"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestPlain(t *testing.T) {
	txt := styled.New("\nquoted\nreply", []styled.Range{{Start: 1, End: 7, Kind: styled.Highlight}})
	if got := Plain(txt, 0); got != "quoted\nreply" {
		t.Errorf("Plain = %q", got)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a\nb   c", 10, "a b c"},
		{"abcdefgh", 4, "abcd…"},
		{"héllo", 2, "h…"},
	}
	for _, tt := range tests {
		if got := Preview(styled.Plain(tt.in), tt.n); got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestStyledQuotesHighlight(t *testing.T) {
	txt := styled.New("\nquoted\nreply", []styled.Range{{Start: 1, End: 7, Kind: styled.Highlight}})
	out := Styled(txt, 0)
	if !strings.Contains(out, "> quoted") {
		t.Errorf("Styled output %q lacks quote marker", out)
	}
	if !strings.Contains(out, "reply") {
		t.Errorf("Styled output %q lacks trailing text", out)
	}
	if strings.HasPrefix(out, "\n") {
		t.Errorf("Styled output %q starts with a blank line", out)
	}
}

func TestStyledQuoteWithInlineFormatting(t *testing.T) {
	entries, err := markup.ParseDocument(strings.NewReader(
		`<article class="topic"><div class="msg_body"><blockquote>a <b>bold</b> c</blockquote>reply</div></article>`),
		markup.DefaultOptions())
	if err != nil || len(entries) != 1 {
		t.Fatalf("ParseDocument = %v, %v", entries, err)
	}
	txt := entries[0].Content.Text
	if txt.String() != "\na bold c\nreply" {
		t.Fatalf("parsed text = %q", txt.String())
	}

	if got, want := ansi.Strip(Styled(txt, 0)), "> a bold c\nreply"; got != want {
		t.Errorf("Styled = %q, want %q", got, want)
	}
}

func TestStyledQuoteSpanningLines(t *testing.T) {
	txt := styled.New("x\none *two*\nthree", []styled.Range{
		{Start: 2, End: 17, Kind: styled.Highlight},
		{Start: 6, End: 11, Kind: styled.Italic},
	})
	if got, want := ansi.Strip(Styled(txt, 0)), "x\n> one *two*\n> three"; got != want {
		t.Errorf("Styled = %q, want %q", got, want)
	}
}

func TestTimeAgo(t *testing.T) {
	if got := TimeAgo(time.Time{}); got != "" {
		t.Errorf("TimeAgo(zero) = %q, want empty", got)
	}
	if got := TimeAgo(time.Now().Add(-3 * time.Hour)); got != "3 hours ago" {
		t.Errorf("TimeAgo(-3h) = %q, want %q", got, "3 hours ago")
	}
}

func TestWriteThread(t *testing.T) {
	post, err := thread.NewPost(1, "Title", thread.ContentInfo{Author: "op", Text: styled.Plain("body")}, []thread.Record{
		{ID: 1, Content: thread.ContentInfo{Author: "a", Text: styled.Plain("first")}},
		{ID: 2, ParentID: 1, Content: thread.ContentInfo{Author: "b", Text: styled.Plain("second")}},
		{ID: 3, Content: thread.ContentInfo{Author: "c", Text: styled.Plain("third")}},
	})
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}

	var sb strings.Builder
	if err := WriteThread(&sb, post, layout.PrepareDisplayItems(post, nil), 0); err != nil {
		t.Fatalf("WriteThread: %v", err)
	}
	want := "Title\nby op | 3 comments\n\nbody\n\na [+1]\nfirst\n\nc\nthird\n"
	if got := sb.String(); got != want {
		t.Errorf("WriteThread() =\n%q\nwant\n%q", got, want)
	}

	sb.Reset()
	WriteThread(&sb, post, layout.PrepareDisplayItems(post, []int{1}), 0)
	if got := sb.String(); !strings.Contains(got, "\n↳ b\nsecond\n") {
		t.Errorf("staircase row missing:\n%s", got)
	}
}
