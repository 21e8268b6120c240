// Package feed wires the API client and the sqlite cache to the content
// stream: loaders serve cached pages when fresh and write fetched pages
// through.
package feed

import (
	"context"

	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/cache"
	"github.com/mvanholst/lurker/internal/config"
	"github.com/mvanholst/lurker/internal/content"
)

// Source produces content streams for one subreddit/sort pair.
type Source struct {
	client *api.Client
	db     *cache.DB
	cfg    config.Config

	Subreddit string
	Sort      api.SortOrder
}

// NewSource creates a feed source.
func NewSource(cfg config.Config, client *api.Client, db *cache.DB, subreddit string, sort api.SortOrder) *Source {
	return &Source{
		client:    client,
		db:        db,
		cfg:       cfg,
		Subreddit: subreddit,
		Sort:      sort,
	}
}

// NewStream builds a post stream. Each Refresh invalidates the cached
// listing so the next loader starts from a live page zero.
func (s *Source) NewStream() *content.Stream {
	return content.NewStream(s.newLoader)
}

// newLoader serves the cached listing first when it is still fresh, then
// continues live pagination where the cache left off; reddit's after token
// is itself a post fullname, so the last cached name resumes the listing.
func (s *Source) newLoader() content.Loader {
	var cached []*api.Post
	var it *api.PostIterator
	primed := false

	return content.LoaderFunc(func(ctx context.Context) (content.Item, error) {
		if !primed {
			primed = true
			cached = s.cachedPosts()
			after := ""
			if len(cached) > 0 {
				after = cached[len(cached)-1].Name
			}
			it = s.client.NewPostIterator(s.Subreddit, s.Sort, s.cfg.PageSize)
			it.ResumeAfter(after)
		}
		if len(cached) > 0 {
			p := cached[0]
			cached = cached[1:]
			return postItem(p), nil
		}
		p, err := it.Next(ctx)
		if err != nil {
			return content.Item{}, err
		}
		s.db.PutPost(p)
		s.appendListing(p.Name)
		return postItem(p), nil
	})
}

// Invalidate drops the cached listing so the next stream refresh refetches
// page zero.
func (s *Source) Invalidate() {
	s.db.InvalidateListing(s.Subreddit, string(s.Sort))
}

func (s *Source) cachedPosts() []*api.Post {
	names, fresh, err := s.db.GetListing(s.Subreddit, string(s.Sort), s.cfg.PostTTL)
	if err != nil || !fresh || len(names) == 0 {
		return nil
	}
	posts := make([]*api.Post, 0, len(names))
	for _, name := range names {
		p, _, err := s.db.GetPost(name, s.cfg.PostTTL)
		if err != nil || p == nil {
			// A hole in the cache invalidates the snapshot; restart live.
			return nil
		}
		posts = append(posts, p)
	}
	return posts
}

func (s *Source) appendListing(name string) {
	names, _, err := s.db.GetListing(s.Subreddit, string(s.Sort), s.cfg.PostTTL)
	if err != nil {
		return
	}
	for _, n := range names {
		if n == name {
			return
		}
	}
	s.db.PutListing(s.Subreddit, string(s.Sort), append(names, name))
}

func postItem(p *api.Post) content.Item {
	return content.Item{
		Kind: content.KindSubmission,
		ID:   p.Name,
		Raw:  p,
	}
}

// LoadThread returns a post's comment tree, from cache when fresh.
func (s *Source) LoadThread(ctx context.Context, post *api.Post) (*api.Thread, error) {
	if payload, fresh, _ := s.db.GetThread(post.Name, s.cfg.ThreadTTL); fresh {
		if t, err := api.DecodeThread(payload); err == nil {
			return t, nil
		}
	}
	thread, payload, err := s.client.GetThread(ctx, post.Permalink)
	if err != nil {
		return nil, err
	}
	s.db.PutThread(post.Name, payload)
	return thread, nil
}

// RefreshThread bypasses the cache.
func (s *Source) RefreshThread(ctx context.Context, post *api.Post) (*api.Thread, error) {
	s.db.InvalidateThread(post.Name)
	return s.LoadThread(ctx, post)
}

// ExpandMore resolves a more-stub into depth-annotated items ready for
// Stream.ReplaceAt. The raw nodes are returned alongside so the caller
// can graft them back onto the thread tree.
func (s *Source) ExpandMore(ctx context.Context, linkName string, stub *api.More, depth int) ([]content.Item, []*api.CommentNode, error) {
	nodes, err := s.client.GetMoreChildren(ctx, linkName, stub.Children)
	if err != nil {
		return nil, nil, err
	}
	return content.ExpandMore(nodes, depth), nodes, nil
}
