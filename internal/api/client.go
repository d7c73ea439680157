package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fragmede/forumview/internal/config"
	"github.com/fragmede/forumview/internal/markup"
	"github.com/fragmede/forumview/internal/thread"
)

const (
	requestTimeout = 10 * time.Second
	maxPageBytes   = 8 << 20
)

// Client fetches forum pages and parses them.
type Client struct {
	http    *http.Client
	cfg     config.Config
	maxBody int64
}

// NewClient creates a new forum client.
func NewClient(cfg config.Config) *Client {
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		cfg:     cfg,
		maxBody: maxPageBytes,
	}
}

// get fetches a URL and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "forumview/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("page %s exceeds %d bytes", url, c.maxBody)
	}
	return body, nil
}

// GetTopic fetches a topic page and builds its comment tree.
func (c *Client) GetTopic(ctx context.Context, id int) (*thread.PostData, error) {
	url := c.cfg.TopicURL(id)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	entries, err := markup.ParseDocument(bytes.NewReader(body), c.cfg.Markup)
	if err != nil {
		return nil, fmt.Errorf("parsing topic %d: %w", id, err)
	}
	post, err := markup.Document(entries)
	if err != nil {
		return nil, fmt.Errorf("topic %d: %w", id, err)
	}
	if post.ID == 0 {
		post.ID = id
	}
	return post, nil
}

// BatchGetTopics fetches several topics concurrently with a concurrency limit.
// Returns topics in the same order as the input IDs. Failed fetches are nil.
func (c *Client) BatchGetTopics(ctx context.Context, ids []int) ([]*thread.PostData, error) {
	results := make([]*thread.PostData, len(ids))
	var mu sync.Mutex

	limit := c.cfg.FetchConcurrency
	if limit < 1 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			post, err := c.GetTopic(ctx, id)
			if err != nil {
				// Non-fatal: individual topics can fail.
				log.Printf("batch fetch topic %d: %v", id, err)
				return nil
			}
			mu.Lock()
			results[i] = post
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
