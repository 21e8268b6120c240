package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mvanholst/lurker/internal/api"
)

// GetPost retrieves a cached post by fullname. Returns (post, isFresh,
// error); nil post on cache miss.
func (d *DB) GetPost(name string, ttl time.Duration) (*api.Post, bool, error) {
	row := d.db.QueryRow(`SELECT name, subreddit, title, author, url, permalink,
		domain, selftext_html, score, num_comments, created_utc, over_18, stickied, is_self, fetched_at
		FROM posts WHERE name = ?`, name)

	var p api.Post
	var title, author, url, permalink, domain, selftext sql.NullString
	var fetchedAt int64
	var over18, stickied, isSelf int

	err := row.Scan(&p.Name, &p.Subreddit, &title, &author, &url, &permalink,
		&domain, &selftext, &p.Score, &p.NumComments, &p.CreatedUTC,
		&over18, &stickied, &isSelf, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	p.ID = api.ShortID(p.Name)
	p.Title = title.String
	p.Author = author.String
	p.URL = url.String
	p.Permalink = permalink.String
	p.Domain = domain.String
	p.SelftextHTML = selftext.String
	p.Over18 = over18 != 0
	p.Stickied = stickied != 0
	p.IsSelf = isSelf != 0

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &p, isFresh, nil
}

// PutPost stores a post in the cache.
func (d *DB) PutPost(p *api.Post) error {
	now := time.Now().Unix()
	_, err := d.db.Exec(`INSERT OR REPLACE INTO posts
		(name, subreddit, title, author, url, permalink, domain, selftext_html,
		 score, num_comments, created_utc, over_18, stickied, is_self, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Subreddit, nullStr(p.Title), nullStr(p.Author), nullStr(p.URL),
		nullStr(p.Permalink), nullStr(p.Domain), nullStr(p.SelftextHTML),
		p.Score, p.NumComments, p.CreatedUTC, boolInt(p.Over18), boolInt(p.Stickied),
		boolInt(p.IsSelf), now)
	return err
}

// GetListing returns the cached fullname order for a subreddit/sort pair.
func (d *DB) GetListing(subreddit, sort string, ttl time.Duration) ([]string, bool, error) {
	row := d.db.QueryRow(`SELECT post_names, fetched_at FROM listings
		WHERE subreddit = ? AND sort = ?`, subreddit, sort)

	var namesJSON string
	var fetchedAt int64
	err := row.Scan(&namesJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var names []string
	if err := json.Unmarshal([]byte(namesJSON), &names); err != nil {
		return nil, false, err
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return names, isFresh, nil
}

// PutListing stores the fullname order for a subreddit/sort pair.
func (d *DB) PutListing(subreddit, sort string, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO listings
		(subreddit, sort, post_names, fetched_at) VALUES (?, ?, ?, ?)`,
		subreddit, sort, string(data), time.Now().Unix())
	return err
}

// InvalidateListing drops a cached listing, forcing the next load to hit
// the network.
func (d *DB) InvalidateListing(subreddit, sort string) error {
	_, err := d.db.Exec(`DELETE FROM listings WHERE subreddit = ? AND sort = ?`, subreddit, sort)
	return err
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
