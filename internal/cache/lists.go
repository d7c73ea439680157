package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fragmede/forumview/internal/api"
)

// GetTopicList retrieves the cached forum index under key.
// Returns (refs, isFresh, error). refs is nil on cache miss.
func (d *DB) GetTopicList(key string, ttl time.Duration) ([]api.TopicRef, bool, error) {
	row := d.db.QueryRow(`SELECT refs, fetched_at FROM topic_lists WHERE list_key = ?`, key)

	var refsJSON string
	var fetchedAt int64
	err := row.Scan(&refsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var refs []api.TopicRef
	if err := json.Unmarshal([]byte(refsJSON), &refs); err != nil {
		return nil, false, err
	}

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return refs, isFresh, nil
}

// PutTopicList stores the forum index under key.
func (d *DB) PutTopicList(key string, refs []api.TopicRef) error {
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO topic_lists (list_key, refs, fetched_at) VALUES (?, ?, ?)`,
		key, string(refsJSON), time.Now().Unix())
	return err
}

// InvalidateTopicList drops the cached index under key.
func (d *DB) InvalidateTopicList(key string) error {
	_, err := d.db.Exec(`DELETE FROM topic_lists WHERE list_key = ?`, key)
	return err
}
