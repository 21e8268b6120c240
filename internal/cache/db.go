package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database caching reddit posts and threads.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite cache database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			name TEXT PRIMARY KEY,
			subreddit TEXT NOT NULL,
			title TEXT,
			author TEXT,
			url TEXT,
			permalink TEXT,
			domain TEXT,
			selftext_html TEXT,
			score INTEGER DEFAULT 0,
			num_comments INTEGER DEFAULT 0,
			created_utc REAL,
			over_18 INTEGER DEFAULT 0,
			stickied INTEGER DEFAULT 0,
			is_self INTEGER DEFAULT 0,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit)`,

		`CREATE TABLE IF NOT EXISTS listings (
			subreddit TEXT NOT NULL,
			sort TEXT NOT NULL,
			post_names TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (subreddit, sort)
		)`,

		`CREATE TABLE IF NOT EXISTS threads (
			post_name TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
