package cache

import (
	"database/sql"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database for topic caching. Decoded topics are also
// kept in a small in-memory LRU so that re-opening a thread does not
// rebuild its tree.
type DB struct {
	db   *sql.DB
	memo *lru.Cache[int, memoEntry]
}

// Open creates or opens the SQLite cache database and runs migrations.
func Open(path string, memoSize int) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	if memoSize < 1 {
		memoSize = 1
	}
	memo, err := lru.New[int, memoEntry](memoSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating memo: %w", err)
	}
	return &DB{db: db, memo: memo}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY,
			title TEXT,
			author TEXT,
			time_unix INTEGER,
			rating INTEGER,
			body TEXT,
			ranges TEXT NOT NULL DEFAULT '[]',
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			id INTEGER NOT NULL,
			parent_id INTEGER NOT NULL DEFAULT 0,
			ord INTEGER NOT NULL,
			author TEXT,
			time_unix INTEGER,
			rating INTEGER,
			body TEXT,
			ranges TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (topic_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_topic_ord ON comments(topic_id, ord)`,

		`CREATE TABLE IF NOT EXISTS topic_lists (
			list_key TEXT PRIMARY KEY,
			refs TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS watched_topics (
			topic_id INTEGER PRIMARY KEY,
			known_comments INTEGER NOT NULL DEFAULT 0,
			last_checked INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_last_checked ON watched_topics(last_checked)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
