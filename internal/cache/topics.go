package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fragmede/forumview/internal/styled"
	"github.com/fragmede/forumview/internal/thread"
)

type memoEntry struct {
	post      *thread.PostData
	fetchedAt time.Time
}

// GetTopic retrieves a cached topic with its comment tree.
// Returns (post, isFresh, error); post is nil on cache miss.
func (d *DB) GetTopic(id int, ttl time.Duration) (*thread.PostData, bool, error) {
	if e, ok := d.memo.Get(id); ok {
		return e.post, time.Since(e.fetchedAt) < ttl, nil
	}

	row := d.db.QueryRow(`SELECT title, author, time_unix, rating, body, ranges, fetched_at
		FROM topics WHERE id = ?`, id)

	var title sql.NullString
	var fetchedAt int64
	content, err := scanContent(row, []interface{}{&title}, []interface{}{&fetchedAt})
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	records, err := d.commentRecords(id)
	if err != nil {
		return nil, false, err
	}
	post, err := thread.NewPost(id, title.String, content, records)
	if err != nil {
		return nil, false, fmt.Errorf("rebuilding topic %d: %w", id, err)
	}

	fetched := time.Unix(fetchedAt, 0)
	d.memo.Add(id, memoEntry{post: post, fetchedAt: fetched})
	return post, time.Since(fetched) < ttl, nil
}

func (d *DB) commentRecords(topicID int) ([]thread.Record, error) {
	rows, err := d.db.Query(`SELECT id, parent_id, author, time_unix, rating, body, ranges
		FROM comments WHERE topic_id = ? ORDER BY ord ASC`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []thread.Record
	for rows.Next() {
		var r thread.Record
		content, err := scanContent(rows, []interface{}{&r.ID, &r.ParentID}, nil)
		if err != nil {
			return nil, err
		}
		r.Content = content
		records = append(records, r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanContent reads the shared author/time/rating/body/ranges columns,
// with head scanned before them and tail after, in the query's order.
func scanContent(s scanner, head, tail []interface{}) (thread.ContentInfo, error) {
	var (
		author, body sql.NullString
		timeUnix     sql.NullInt64
		rating       sql.NullInt64
		ranges       string
	)
	dest := append(head, &author, &timeUnix, &rating, &body, &ranges)
	dest = append(dest, tail...)
	if err := s.Scan(dest...); err != nil {
		return thread.ContentInfo{}, err
	}

	var rs []styled.Range
	if ranges != "" {
		if err := json.Unmarshal([]byte(ranges), &rs); err != nil {
			return thread.ContentInfo{}, fmt.Errorf("decoding ranges: %w", err)
		}
	}
	c := thread.ContentInfo{
		Author: author.String,
		Text:   styled.New(body.String, rs),
	}
	if timeUnix.Valid && timeUnix.Int64 > 0 {
		c.Timestamp = time.Unix(timeUnix.Int64, 0).UTC()
	}
	if rating.Valid {
		v := int(rating.Int64)
		c.Rating = &v
	}
	return c, nil
}

// PutTopic stores a topic and replaces its cached comments.
func (d *DB) PutTopic(post *thread.PostData) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	topicCols, err := contentCols(post.Content)
	if err != nil {
		return err
	}
	args := append([]interface{}{post.ID, nullStr(post.Title)}, topicCols...)
	args = append(args, now.Unix())
	if _, err := tx.Exec(`INSERT OR REPLACE INTO topics
		(id, title, author, time_unix, rating, body, ranges, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return fmt.Errorf("storing topic %d: %w", post.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE topic_id = ?`, post.ID); err != nil {
		return err
	}

	ord := 0
	var walkErr error
	post.Walk(func(n *thread.CommentNode) {
		if walkErr != nil {
			return
		}
		cols, err := contentCols(n.Content())
		if err != nil {
			walkErr = err
			return
		}
		parent := 0
		if path := n.Path(); len(path) > 1 {
			parent = path[len(path)-2]
		}
		args := append([]interface{}{post.ID, n.ID(), parent, ord}, cols...)
		_, walkErr = tx.Exec(`INSERT INTO comments
			(topic_id, id, parent_id, ord, author, time_unix, rating, body, ranges)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		ord++
	})
	if walkErr != nil {
		return fmt.Errorf("storing comments of topic %d: %w", post.ID, walkErr)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	d.memo.Add(post.ID, memoEntry{post: post, fetchedAt: now})
	return nil
}

// InvalidateTopic drops a topic and its comments from the cache.
func (d *DB) InvalidateTopic(id int) error {
	d.memo.Remove(id)
	if _, err := d.db.Exec(`DELETE FROM comments WHERE topic_id = ?`, id); err != nil {
		return err
	}
	_, err := d.db.Exec(`DELETE FROM topics WHERE id = ?`, id)
	return err
}

// contentCols returns author, time_unix, rating, body, ranges.
func contentCols(c thread.ContentInfo) ([]interface{}, error) {
	ranges := c.Text.Ranges()
	if ranges == nil {
		ranges = []styled.Range{}
	}
	rangesJSON, err := json.Marshal(ranges)
	if err != nil {
		return nil, err
	}
	var ts int64
	if !c.Timestamp.IsZero() {
		ts = c.Timestamp.Unix()
	}
	var rating sql.NullInt64
	if c.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*c.Rating), Valid: true}
	}
	return []interface{}{nullStr(c.Author), ts, rating, c.Text.String(), string(rangesJSON)}, nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
