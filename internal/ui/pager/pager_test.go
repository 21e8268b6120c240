package pager

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mvanholst/lurker/internal/content"
)

// renderRows draws each item as `rows` lines tagged with its ID, marking
// the selected one.
func renderRows(rows int) RenderFunc {
	return func(it content.Item, selected bool, width int) []string {
		lines := make([]string, rows)
		for i := range lines {
			lines[i] = it.ID
			if selected && i == 0 {
				lines[i] = "> " + it.ID
			}
		}
		return lines
	}
}

func itemStream(n int) *content.Stream {
	items := make([]content.Item, n)
	for i := range items {
		items[i] = content.Item{ID: fmt.Sprintf("i%d", i)}
	}
	s := content.NewStream(content.SliceLoader(items))
	s.RequestMore(context.Background(), n)
	return s
}

func TestView_WindowFollowsCursor(t *testing.T) {
	p := New(itemStream(10), renderRows(2))
	p.SetSize(40, 4) // room for 2 items

	view := p.View()
	if !strings.Contains(view, "> i0") {
		t.Fatalf("expected selection on i0, got:\n%s", view)
	}
	if strings.Contains(view, "i2") {
		t.Fatalf("i2 should be outside the window:\n%s", view)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p.MoveDown(ctx)
	}
	view = p.View()
	if !strings.Contains(view, "> i3") {
		t.Fatalf("expected selection on i3, got:\n%s", view)
	}
	if strings.Contains(view, "i0\n") {
		t.Fatalf("window should have slid past i0:\n%s", view)
	}
}

func TestView_PadsShortContent(t *testing.T) {
	p := New(itemStream(1), renderRows(1))
	p.SetSize(40, 5)
	view := p.View()
	if got := strings.Count(view, "\n"); got != 4 {
		t.Fatalf("expected 5 padded lines, got %d newlines:\n%q", got, view)
	}
}

func TestMoveDown_PullsFromLoader(t *testing.T) {
	items := make([]content.Item, 3)
	for i := range items {
		items[i] = content.Item{ID: fmt.Sprintf("i%d", i)}
	}
	s := content.NewStream(content.SliceLoader(items))
	s.RequestMore(context.Background(), 1)

	p := New(s, renderRows(1))
	p.SetSize(40, 10)

	if !p.MoveDown(context.Background()) {
		t.Fatal("MoveDown should pull the next item and move")
	}
	if s.Len() != 2 {
		t.Fatalf("expected stream to grow to 2, got %d", s.Len())
	}
}

func TestMoveDown_BottomOfExhaustedStreamIsNoop(t *testing.T) {
	p := New(itemStream(2), renderRows(1))
	p.SetSize(40, 10)
	ctx := context.Background()

	p.MoveDown(ctx)
	if p.MoveDown(ctx) {
		t.Fatal("expected boundary no-op at the last item")
	}
	if p.Cursor.Index != 1 {
		t.Fatalf("cursor moved to %d", p.Cursor.Index)
	}
}

func TestPageDown_PullsAheadOfCursor(t *testing.T) {
	items := make([]content.Item, 20)
	for i := range items {
		items[i] = content.Item{ID: fmt.Sprintf("i%d", i)}
	}
	s := content.NewStream(content.SliceLoader(items))
	s.RequestMore(context.Background(), 2)

	p := New(s, renderRows(1))
	p.SetSize(40, 5)

	if !p.PageDown(context.Background()) {
		t.Fatal("PageDown should move")
	}
	if p.Cursor.Index != 5 {
		t.Fatalf("expected cursor at 5, got %d", p.Cursor.Index)
	}
	if s.Len() < 6 {
		t.Fatalf("expected stream to grow past the cursor, len=%d", s.Len())
	}
}

func TestHomeAndEnd(t *testing.T) {
	p := New(itemStream(10), renderRows(1))
	p.SetSize(40, 5)

	p.End()
	if p.Cursor.Index != 9 {
		t.Fatalf("End: cursor at %d", p.Cursor.Index)
	}
	p.Home()
	if p.Cursor.Index != 0 || p.Cursor.Top != 0 {
		t.Fatalf("Home: cursor at %d top %d", p.Cursor.Index, p.Cursor.Top)
	}
}

func TestSetSize_WidthChangeInvalidatesHeights(t *testing.T) {
	p := New(itemStream(3), renderRows(2))
	p.SetSize(40, 10)
	p.View() // measure
	if p.Stream.Items()[0].Height != 2 {
		t.Fatalf("expected measured height 2, got %d", p.Stream.Items()[0].Height)
	}

	p.SetSize(20, 10)
	if p.Stream.Items()[0].Height != 0 {
		t.Fatal("width change should reset cached heights")
	}
	p.SetSize(20, 5)
	if p.Stream.Items()[0].Height != 0 {
		t.Fatal("height-only change should not remeasure")
	}
}

func TestView_BottomAnchorsAtTail(t *testing.T) {
	p := New(itemStream(4), renderRows(2))
	p.SetSize(40, 6)
	p.End()
	view := p.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	// The last visible line belongs to the last item; no trailing blanks.
	if !strings.Contains(lines[5], "i3") {
		t.Fatalf("expected i3 on the bottom row, got %q", lines[5])
	}
}
