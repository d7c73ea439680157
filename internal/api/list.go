package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// TopicRef is one row of the forum index.
type TopicRef struct {
	ID       int
	Title    string
	Author   string
	Comments int
	Time     time.Time
}

// GetTopicList fetches and parses the forum index page.
func (c *Client) GetTopicList(ctx context.Context) ([]TopicRef, error) {
	body, err := c.get(ctx, c.cfg.ListURL())
	if err != nil {
		return nil, err
	}
	refs, err := ParseTopicList(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if n := c.cfg.FetchPageSize; n > 0 && len(refs) > n {
		refs = refs[:n]
	}
	return refs, nil
}

// ParseTopicList extracts topic rows from an index page. Rows are the
// elements carrying a data-topic id; the title is the text of the first
// link inside the row, or the row text when there is none.
func ParseTopicList(r io.Reader) ([]TopicRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing topic list: %w", err)
	}

	var refs []TopicRef
	seen := make(map[int]bool)
	doc.Find("[data-topic]").Each(func(_ int, s *goquery.Selection) {
		id, err := strconv.Atoi(strings.TrimSpace(s.AttrOr("data-topic", "")))
		if err != nil || id <= 0 || seen[id] {
			return
		}
		seen[id] = true

		title := s.Find("a").First().Text()
		if strings.TrimSpace(title) == "" {
			title = s.Text()
		}
		ref := TopicRef{
			ID:     id,
			Title:  strings.Join(strings.Fields(title), " "),
			Author: strings.TrimSpace(s.AttrOr("data-author", "")),
		}
		ref.Comments, _ = strconv.Atoi(strings.TrimSpace(s.AttrOr("data-comments", "")))
		if ts, err := strconv.ParseInt(strings.TrimSpace(s.AttrOr("data-time", "")), 10, 64); err == nil && ts > 0 {
			ref.Time = time.Unix(ts, 0).UTC()
		}
		refs = append(refs, ref)
	})
	return refs, nil
}
