package cache

import (
	"database/sql"
	"time"
)

// GetThread returns the cached raw thread payload for a post fullname.
// The payload is the reddit comments endpoint response verbatim; decoding
// stays in the api package.
func (d *DB) GetThread(postName string, ttl time.Duration) ([]byte, bool, error) {
	row := d.db.QueryRow(`SELECT payload, fetched_at FROM threads WHERE post_name = ?`, postName)

	var payload []byte
	var fetchedAt int64
	err := row.Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return payload, isFresh, nil
}

// PutThread stores a raw thread payload.
func (d *DB) PutThread(postName string, payload []byte) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO threads (post_name, payload, fetched_at)
		VALUES (?, ?, ?)`, postName, payload, time.Now().Unix())
	return err
}

// InvalidateThread drops a cached thread.
func (d *DB) InvalidateThread(postName string) error {
	_, err := d.db.Exec(`DELETE FROM threads WHERE post_name = ?`, postName)
	return err
}
