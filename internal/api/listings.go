package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrExhausted signals that a paginated source has no more items. It is the
// expected terminal condition of an iterator, not a failure.
var ErrExhausted = errors.New("no more items")

// GetPosts fetches one page of a subreddit listing. after is the pagination
// token from the previous page ("" for the first page). Returns the posts
// and the token for the next page ("" when reddit reports the end).
func (c *Client) GetPosts(ctx context.Context, subreddit string, sort SortOrder, limit int, after string) ([]*Post, string, error) {
	var env thing
	if err := c.get(ctx, c.listingURL(subreddit, sort, limit, after), &env); err != nil {
		return nil, "", err
	}
	var ls listing
	if err := json.Unmarshal(env.Data, &ls); err != nil {
		return nil, "", fmt.Errorf("decoding listing for r/%s: %w", subreddit, err)
	}

	posts := make([]*Post, 0, len(ls.Children))
	for _, ch := range ls.Children {
		if ch.Kind != KindPost {
			continue
		}
		var p Post
		if err := json.Unmarshal(ch.Data, &p); err != nil {
			continue
		}
		posts = append(posts, &p)
	}
	return posts, ls.After, nil
}

// PostIterator walks a subreddit listing one post at a time, fetching pages
// lazily. It is the restartable page source behind the content stream: a
// fresh iterator starts over from page zero.
type PostIterator struct {
	client    *Client
	subreddit string
	sort      SortOrder
	pageSize  int

	buf   []*Post
	after string
	done  bool
}

// NewPostIterator creates an iterator over /r/<subreddit>/<sort>.
func (c *Client) NewPostIterator(subreddit string, sort SortOrder, pageSize int) *PostIterator {
	return &PostIterator{
		client:    c,
		subreddit: subreddit,
		sort:      sort,
		pageSize:  pageSize,
	}
}

// ResumeAfter positions the iterator to continue from the given pagination
// token (a post fullname). An empty token leaves it at page zero.
func (it *PostIterator) ResumeAfter(after string) {
	it.after = after
}

// Next returns the next post, fetching the next page when the buffer runs
// dry. Returns ErrExhausted once the listing ends.
func (it *PostIterator) Next(ctx context.Context) (*Post, error) {
	if len(it.buf) == 0 {
		if it.done {
			return nil, ErrExhausted
		}
		posts, after, err := it.client.GetPosts(ctx, it.subreddit, it.sort, it.pageSize, it.after)
		if err != nil {
			return nil, err
		}
		it.buf = posts
		it.after = after
		if after == "" {
			it.done = true
		}
		if len(posts) == 0 {
			return nil, ErrExhausted
		}
	}
	p := it.buf[0]
	it.buf = it.buf[1:]
	return p, nil
}
