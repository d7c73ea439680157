package cache

import "time"

// WatchedTopic is a topic polled for new comments.
type WatchedTopic struct {
	TopicID       int
	KnownComments int
	LastChecked   time.Time
	CreatedAt     time.Time
}

// GetWatchedTopics returns watched topics ordered by oldest check first.
func (d *DB) GetWatchedTopics(limit int) ([]WatchedTopic, error) {
	rows, err := d.db.Query(`SELECT topic_id, known_comments, last_checked, created_at
		FROM watched_topics ORDER BY last_checked ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WatchedTopic
	for rows.Next() {
		var w WatchedTopic
		var lastChecked, createdAt int64
		if err := rows.Scan(&w.TopicID, &w.KnownComments, &lastChecked, &createdAt); err != nil {
			return nil, err
		}
		w.LastChecked = time.Unix(lastChecked, 0)
		w.CreatedAt = time.Unix(createdAt, 0)
		result = append(result, w)
	}
	return result, rows.Err()
}

// UpsertWatchedTopic inserts or updates a watched topic.
func (d *DB) UpsertWatchedTopic(w WatchedTopic) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO watched_topics
		(topic_id, known_comments, last_checked, created_at)
		VALUES (?, ?, ?, ?)`,
		w.TopicID, w.KnownComments, w.LastChecked.Unix(), w.CreatedAt.Unix())
	return err
}

// IsWatched reports whether a topic is being polled.
func (d *DB) IsWatched(topicID int) bool {
	var n int
	d.db.QueryRow(`SELECT COUNT(*) FROM watched_topics WHERE topic_id = ?`, topicID).Scan(&n)
	return n > 0
}

// Unwatch stops polling a topic.
func (d *DB) Unwatch(topicID int) error {
	_, err := d.db.Exec(`DELETE FROM watched_topics WHERE topic_id = ?`, topicID)
	return err
}

// WatchedCount returns the number of watched topics.
func (d *DB) WatchedCount() int {
	var count int
	d.db.QueryRow(`SELECT COUNT(*) FROM watched_topics`).Scan(&count)
	return count
}
