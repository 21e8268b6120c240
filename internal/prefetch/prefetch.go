// Package prefetch warms the thread cache in the background so opening a
// submission usually hits sqlite instead of the network.
package prefetch

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/cache"
	"github.com/mvanholst/lurker/internal/config"
)

const fetchConcurrency = 3

// Warmer polls the cached listing and fetches comment trees for its first
// posts. It only writes to the cache; the UI never waits on it.
type Warmer struct {
	client    *api.Client
	db        *cache.DB
	cfg       config.Config
	subreddit string
	sort      string
	stopCh    chan struct{}
}

// New creates a warmer for one subreddit/sort pair.
func New(cfg config.Config, client *api.Client, db *cache.DB, subreddit, sort string) *Warmer {
	return &Warmer{
		client:    client,
		db:        db,
		cfg:       cfg,
		subreddit: subreddit,
		sort:      sort,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background warm loop. A non-positive prefetch count
// disables it.
func (w *Warmer) Start() {
	if w.cfg.PrefetchCount <= 0 {
		return
	}
	go w.loop()
}

// Stop halts the background loop.
func (w *Warmer) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
}

func (w *Warmer) loop() {
	// The first pass waits for the UI's initial page fetch to land in the
	// listing cache.
	delay := 2 * time.Second
	for {
		select {
		case <-w.stopCh:
			return
		case <-time.After(delay):
		}
		if n, err := w.WarmOnce(context.Background()); err != nil {
			log.Printf("prefetch: %v", err)
		} else if n > 0 {
			log.Printf("prefetch: warmed %d threads", n)
		}
		delay = w.cfg.ThreadTTL / 2
		if delay < time.Minute {
			delay = time.Minute
		}
	}
}

// WarmOnce fetches the comment trees that the cached listing points at but
// the thread cache does not yet hold fresh. Returns how many were fetched.
func (w *Warmer) WarmOnce(ctx context.Context) (int, error) {
	names, fresh, err := w.db.GetListing(w.subreddit, w.sort, w.cfg.PostTTL)
	if err != nil || !fresh {
		return 0, err
	}
	if len(names) > w.cfg.PrefetchCount {
		names = names[:w.cfg.PrefetchCount]
	}

	var g errgroup.Group
	g.SetLimit(fetchConcurrency)
	warmed := make(chan struct{}, len(names))
	for _, name := range names {
		if _, fresh, _ := w.db.GetThread(name, w.cfg.ThreadTTL); fresh {
			continue
		}
		post, _, err := w.db.GetPost(name, w.cfg.PostTTL)
		if err != nil || post == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-w.stopCh:
				return nil
			default:
			}
			_, payload, err := w.client.GetThread(ctx, post.Permalink)
			if err != nil {
				// A single failed thread is not worth aborting the pass.
				return nil
			}
			if err := w.db.PutThread(post.Name, payload); err == nil {
				warmed <- struct{}{}
			}
			return nil
		})
	}
	g.Wait()
	close(warmed)
	return len(warmed), nil
}
