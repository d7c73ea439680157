package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fragmede/forumview/internal/layout"
	"github.com/fragmede/forumview/internal/thread"
)

// WriteThread writes laid-out rows as indented plain text, one header line
// and the wrapped body per row.
func WriteThread(w io.Writer, post *thread.PostData, rows []layout.ItemInfo, width int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", post.Title)
	meta := "by " + post.Content.Author
	if ago := TimeAgo(post.Content.Timestamp); ago != "" {
		meta += " | " + ago
	}
	fmt.Fprintf(bw, "%s | %d comments\n", meta, post.CommentCount())
	if body := Plain(post.Content.Text, width); body != "" {
		fmt.Fprintf(bw, "\n%s\n", body)
	}

	for _, row := range rows {
		indent := row.Indent
		if indent < 0 {
			indent = 0
		}
		pad := strings.Repeat("  ", indent)

		c := row.Node.Content()
		header := c.Author
		if row.Kind == layout.ReplyInStaircase {
			header = "↳ " + header
		}
		if ago := TimeAgo(c.Timestamp); ago != "" {
			header += " " + ago
		}
		if row.Kind == layout.Reply && row.Node.DeepChildCount() > 0 {
			header += fmt.Sprintf(" [+%d]", row.Node.DeepChildCount())
		}
		fmt.Fprintf(bw, "\n%s%s\n", pad, header)

		bodyWidth := width - len(pad)
		if width > 0 && bodyWidth < 20 {
			bodyWidth = 20
		}
		for _, line := range strings.Split(Plain(c.Text, bodyWidth), "\n") {
			fmt.Fprintf(bw, "%s%s\n", pad, line)
		}
	}
	return bw.Flush()
}
