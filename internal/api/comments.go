package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

const maxConcurrent = 10

// Thread is a submission together with its top-level comment forest.
type Thread struct {
	Post  *Post
	Roots []*CommentNode
}

// GetThread fetches a submission and its comment tree. permalink is the
// post's permalink path ("/r/golang/comments/abc123/title/"). The raw
// payload is returned alongside so callers can cache it verbatim.
func (c *Client) GetThread(ctx context.Context, permalink string) (*Thread, []byte, error) {
	u := fmt.Sprintf("%s%s.json?raw_json=1", c.baseURL, permalink)
	data, err := c.getBytes(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	thread, err := DecodeThread(data)
	if err != nil {
		return nil, nil, err
	}
	return thread, data, nil
}

// DecodeThread parses a comments endpoint payload: a two-element array of
// the post listing and the comment listing.
func DecodeThread(data []byte) (*Thread, error) {
	var envs []thing
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("decoding thread: %w", err)
	}
	if len(envs) < 2 {
		return nil, fmt.Errorf("malformed thread response")
	}

	var postLs, commentLs listing
	if err := json.Unmarshal(envs[0].Data, &postLs); err != nil {
		return nil, fmt.Errorf("decoding post listing: %w", err)
	}
	if err := json.Unmarshal(envs[1].Data, &commentLs); err != nil {
		return nil, fmt.Errorf("decoding comment listing: %w", err)
	}
	if len(postLs.Children) == 0 {
		return nil, fmt.Errorf("thread payload has no post")
	}

	var post Post
	if err := json.Unmarshal(postLs.Children[0].Data, &post); err != nil {
		return nil, fmt.Errorf("decoding post: %w", err)
	}

	return &Thread{
		Post:  &post,
		Roots: decodeNodes(commentLs.Children),
	}, nil
}

// GetMoreChildren resolves a more-stub into comment nodes. Reddit's
// morechildren endpoint takes the link fullname and the stub's child IDs;
// IDs are fetched in chunks concurrently, results kept in request order.
func (c *Client) GetMoreChildren(ctx context.Context, linkName string, childIDs []string) ([]*CommentNode, error) {
	const chunkSize = 20

	chunks := make([][]string, 0, (len(childIDs)+chunkSize-1)/chunkSize)
	for i := 0; i < len(childIDs); i += chunkSize {
		end := i + chunkSize
		if end > len(childIDs) {
			end = len(childIDs)
		}
		chunks = append(chunks, childIDs[i:end])
	}

	results := make([][]*CommentNode, len(chunks))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, ids := range chunks {
		i, ids := i, ids
		g.Go(func() error {
			nodes, err := c.getMoreChunk(ctx, linkName, ids)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = nodes
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*CommentNode
	for _, nodes := range results {
		out = append(out, nodes...)
	}
	return out, nil
}

func (c *Client) getMoreChunk(ctx context.Context, linkName string, ids []string) ([]*CommentNode, error) {
	q := url.Values{}
	q.Set("api_type", "json")
	q.Set("link_id", linkName)
	q.Set("raw_json", "1")
	q.Set("children", joinIDs(ids))
	u := fmt.Sprintf("%s/api/morechildren.json?%s", c.baseURL, q.Encode())

	var resp struct {
		JSON struct {
			Data struct {
				Things []thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return decodeNodes(resp.JSON.Data.Things), nil
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
