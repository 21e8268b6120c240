package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvanholst/lurker/internal/api"
)

// ErrNotFound is returned by Get for an index past the end of an exhausted
// stream.
var ErrNotFound = errors.New("item not found")

// maxConsecutiveFailures bounds skip-and-continue against a persistently
// broken feed before the stream gives up and force-exhausts.
const maxConsecutiveFailures = 5

// Loader produces items one at a time. It returns api.ErrExhausted when the
// source has no more pages; any other error marks that single item as failed.
type Loader interface {
	Next(ctx context.Context) (Item, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (Item, error)

func (f LoaderFunc) Next(ctx context.Context) (Item, error) { return f(ctx) }

// Stream owns an ordered, growable list of items fed lazily from a Loader.
// Indices of appended items are stable forever; the only in-place edit is
// ReplaceAt, used to expand a MoreComments placeholder. Not safe for
// concurrent use: all mutation happens on the UI control thread.
type Stream struct {
	items     []Item
	exhausted bool
	loader    Loader

	// Stalled is set alongside exhaustion when the stream gave up after
	// repeated item failures; the caller surfaces it once as a warning.
	stalled   bool
	stallErr  error
	newLoader func() Loader
}

// NewStream creates a stream over the given loader factory. The factory is
// invoked once immediately and again on every Refresh.
func NewStream(newLoader func() Loader) *Stream {
	return &Stream{
		loader:    newLoader(),
		newLoader: newLoader,
	}
}

// Len returns the number of items fetched so far.
func (s *Stream) Len() int { return len(s.items) }

// Items returns the fetched items. The slice is the stream's backing store;
// callers must treat it as read-only.
func (s *Stream) Items() []Item { return s.items }

// Exhausted reports whether the upstream source has no more items.
func (s *Stream) Exhausted() bool { return s.exhausted }

// Stalled returns the stall error if the stream force-exhausted after too
// many consecutive item failures, and clears it. Nil otherwise.
func (s *Stream) Stalled() error {
	if !s.stalled {
		return nil
	}
	s.stalled = false
	return s.stallErr
}

// Get returns the item at absolute position i, pulling more from the loader
// if i is past the current end and the source is not exhausted.
func (s *Stream) Get(ctx context.Context, i int) (Item, error) {
	if i < 0 {
		return Item{}, ErrNotFound
	}
	if i >= len(s.items) && !s.exhausted {
		s.RequestMore(ctx, i-len(s.items)+1)
	}
	if i >= len(s.items) {
		return Item{}, ErrNotFound
	}
	return s.items[i], nil
}

// RequestMore pulls up to n additional items from the loader, appending
// them. A failing item is skipped, not retried and not fatal; the upstream
// done signal sets exhausted and stops. Returns the number appended.
func (s *Stream) RequestMore(ctx context.Context, n int) int {
	if s.exhausted || n <= 0 {
		return 0
	}
	appended := 0
	failures := 0
	for appended < n {
		item, err := s.loader.Next(ctx)
		if err != nil {
			if errors.Is(err, api.ErrExhausted) {
				s.exhausted = true
				return appended
			}
			failures++
			if failures >= maxConsecutiveFailures {
				s.exhausted = true
				s.stalled = true
				s.stallErr = fmt.Errorf("feed stalled after %d failures: %w", failures, err)
				return appended
			}
			continue
		}
		failures = 0
		s.items = append(s.items, item)
		appended++
	}
	return appended
}

// ReplaceAt substitutes the single item at index i with the given items.
// Items before i keep their positions; items after i shift by len(items)-1.
// This is the only index-mutating operation and exists for expanding a
// MoreComments placeholder in place.
func (s *Stream) ReplaceAt(i int, items []Item) error {
	if i < 0 || i >= len(s.items) {
		return ErrNotFound
	}
	out := make([]Item, 0, len(s.items)+len(items)-1)
	out = append(out, s.items[:i]...)
	out = append(out, items...)
	out = append(out, s.items[i+1:]...)
	s.items = out
	return nil
}

// Refresh discards all items and restarts the loader from page zero.
func (s *Stream) Refresh() {
	s.items = nil
	s.exhausted = false
	s.stalled = false
	s.stallErr = nil
	s.loader = s.newLoader()
}

// InvalidateHeights clears cached render heights, e.g. after a terminal
// resize.
func (s *Stream) InvalidateHeights() {
	for i := range s.items {
		s.items[i].Height = 0
	}
}

// SetHeight caches the rendered height for the item at index i.
func (s *Stream) SetHeight(i, h int) {
	if i >= 0 && i < len(s.items) {
		s.items[i].Height = h
	}
}

// SliceLoader returns a Loader over a fixed item slice, exhausting at the
// end. Used for comment streams, which are flattened up front.
func SliceLoader(items []Item) func() Loader {
	return func() Loader {
		i := 0
		return LoaderFunc(func(context.Context) (Item, error) {
			if i >= len(items) {
				return Item{}, api.ErrExhausted
			}
			it := items[i]
			i++
			return it, nil
		})
	}
}
