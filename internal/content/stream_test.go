package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mvanholst/lurker/internal/api"
)

// scriptedLoader yields from a fixed script of items and errors.
type scriptedLoader struct {
	script []func() (Item, error)
	calls  int
}

func (l *scriptedLoader) Next(ctx context.Context) (Item, error) {
	if l.calls >= len(l.script) {
		return Item{}, api.ErrExhausted
	}
	step := l.script[l.calls]
	l.calls++
	return step()
}

func okItem(id string) func() (Item, error) {
	return func() (Item, error) {
		return Item{Kind: KindSubmission, ID: id}, nil
	}
}

func failItem(msg string) func() (Item, error) {
	return func() (Item, error) {
		return Item{}, errors.New(msg)
	}
}

func newTestStream(script ...func() (Item, error)) (*Stream, *scriptedLoader) {
	l := &scriptedLoader{script: script}
	return NewStream(func() Loader { return l }), l
}

func TestStream_AppendOnly(t *testing.T) {
	s, _ := newTestStream(okItem("a"), okItem("b"), okItem("c"), okItem("d"))
	ctx := context.Background()

	s.RequestMore(ctx, 2)
	if s.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", s.Len())
	}
	first, _ := s.Get(ctx, 0)

	s.RequestMore(ctx, 2)
	if s.Len() != 4 {
		t.Fatalf("expected 4 items after second pull, got %d", s.Len())
	}
	again, _ := s.Get(ctx, 0)
	if again != first {
		t.Fatalf("item 0 changed across pulls: %+v vs %+v", again, first)
	}
}

func TestStream_GetPullsOnDemand(t *testing.T) {
	s, _ := newTestStream(okItem("a"), okItem("b"), okItem("c"))
	ctx := context.Background()

	item, err := s.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	if item.ID != "c" {
		t.Fatalf("expected c at index 2, got %q", item.ID)
	}
	if s.Len() != 3 {
		t.Fatalf("expected stream to have pulled 3 items, got %d", s.Len())
	}
}

func TestStream_GetPastEndAfterExhaustion(t *testing.T) {
	s, _ := newTestStream(okItem("a"))
	ctx := context.Background()

	if _, err := s.Get(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past exhaustion, got %v", err)
	}
	if !s.Exhausted() {
		t.Fatal("stream should be exhausted")
	}
}

func TestStream_ExhaustedIsIdempotent(t *testing.T) {
	s, l := newTestStream(okItem("a"))
	ctx := context.Background()

	s.RequestMore(ctx, 10)
	if !s.Exhausted() {
		t.Fatal("stream should be exhausted")
	}
	calls := l.calls
	if n := s.RequestMore(ctx, 10); n != 0 {
		t.Fatalf("RequestMore after exhaustion appended %d items", n)
	}
	if l.calls != calls {
		t.Fatalf("RequestMore after exhaustion hit the loader (%d -> %d calls)", calls, l.calls)
	}
	if s.Len() != 1 {
		t.Fatalf("items changed after exhaustion: len=%d", s.Len())
	}
}

func TestStream_SkipsFailedItems(t *testing.T) {
	s, _ := newTestStream(okItem("a"), failItem("deleted"), okItem("b"))
	ctx := context.Background()

	n := s.RequestMore(ctx, 2)
	if n != 2 {
		t.Fatalf("expected 2 appended, got %d", n)
	}
	b, _ := s.Get(ctx, 1)
	if b.ID != "b" {
		t.Fatalf("failed item should be skipped, got %q at index 1", b.ID)
	}
	if err := s.Stalled(); err != nil {
		t.Fatalf("single failure should not stall: %v", err)
	}
}

func TestStream_StallsAfterConsecutiveFailures(t *testing.T) {
	script := []func() (Item, error){okItem("a")}
	for i := 0; i < maxConsecutiveFailures+3; i++ {
		script = append(script, failItem(fmt.Sprintf("broken %d", i)))
	}
	s, _ := newTestStream(script...)
	ctx := context.Background()

	s.RequestMore(ctx, 10)
	if !s.Exhausted() {
		t.Fatal("stream should force-exhaust after repeated failures")
	}
	if err := s.Stalled(); err == nil {
		t.Fatal("expected a stall warning")
	}
	// The warning surfaces exactly once.
	if err := s.Stalled(); err != nil {
		t.Fatalf("stall warning should clear after read: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected the one good item, got %d", s.Len())
	}
}

func TestStream_FailureCountResetsOnSuccess(t *testing.T) {
	var script []func() (Item, error)
	for i := 0; i < 3; i++ {
		script = append(script,
			failItem("x"), failItem("x"), failItem("x"), okItem(fmt.Sprintf("i%d", i)))
	}
	s, _ := newTestStream(script...)
	ctx := context.Background()

	n := s.RequestMore(ctx, 3)
	if n != 3 {
		t.Fatalf("expected 3 items through interleaved failures, got %d", n)
	}
	if err := s.Stalled(); err != nil {
		t.Fatalf("interleaved failures should not stall: %v", err)
	}
}

func TestStream_ReplaceAt(t *testing.T) {
	s, _ := newTestStream(okItem("a"), okItem("more"), okItem("z"))
	ctx := context.Background()
	s.RequestMore(ctx, 3)

	before, _ := s.Get(ctx, 0)
	kids := []Item{
		{Kind: KindComment, ID: "k1", Depth: 1},
		{Kind: KindComment, ID: "k2", Depth: 2},
		{Kind: KindComment, ID: "k3", Depth: 1},
	}
	if err := s.ReplaceAt(1, kids); err != nil {
		t.Fatalf("ReplaceAt: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("len should change by k-1=2: got %d", s.Len())
	}
	after, _ := s.Get(ctx, 0)
	if after != before {
		t.Fatalf("item before replacement index changed: %+v vs %+v", after, before)
	}
	i1, _ := s.Get(ctx, 1)
	i4, _ := s.Get(ctx, 4)
	if i1.ID != "k1" || i4.ID != "z" {
		t.Fatalf("unexpected order after replace: %q ... %q", i1.ID, i4.ID)
	}
}

func TestStream_ReplaceAtOutOfRange(t *testing.T) {
	s, _ := newTestStream(okItem("a"))
	s.RequestMore(context.Background(), 1)
	if err := s.ReplaceAt(3, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStream_RefreshRestartsLoader(t *testing.T) {
	loaders := 0
	s := NewStream(func() Loader {
		loaders++
		gen := loaders
		i := 0
		return LoaderFunc(func(context.Context) (Item, error) {
			if i >= 2 {
				return Item{}, api.ErrExhausted
			}
			i++
			return Item{ID: fmt.Sprintf("g%d-%d", gen, i)}, nil
		})
	})
	ctx := context.Background()

	s.RequestMore(ctx, 5)
	if !s.Exhausted() {
		t.Fatal("should be exhausted")
	}
	s.Refresh()
	if s.Exhausted() || s.Len() != 0 {
		t.Fatalf("refresh should clear state: exhausted=%v len=%d", s.Exhausted(), s.Len())
	}
	item, err := s.Get(ctx, 0)
	if err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
	if item.ID != "g2-1" {
		t.Fatalf("refresh should use a fresh page-0 loader, got %q", item.ID)
	}
}
