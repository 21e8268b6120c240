package content

import "testing"

func TestCursor_MoveDownClampsAtEnd(t *testing.T) {
	c := Cursor{Index: 2}
	if c.MoveDown(3) {
		t.Fatal("MoveDown at last index should report a boundary no-op")
	}
	if c.Index != 2 {
		t.Fatalf("index changed on boundary no-op: %d", c.Index)
	}
}

func TestCursor_MoveUpClampsAtStart(t *testing.T) {
	c := Cursor{}
	if c.MoveUp() {
		t.Fatal("MoveUp at index 0 should report a boundary no-op")
	}
	if c.Index != 0 {
		t.Fatalf("index changed on boundary no-op: %d", c.Index)
	}
}

func TestCursor_MoveUpPullsTop(t *testing.T) {
	c := Cursor{Index: 5, Top: 5}
	if !c.MoveUp() {
		t.Fatal("expected movement")
	}
	if c.Index != 4 || c.Top != 4 {
		t.Fatalf("top should follow cursor above the window: index=%d top=%d", c.Index, c.Top)
	}
}

func TestCursor_PageDownWalksHeights(t *testing.T) {
	heights := []int{3, 3, 3, 3, 3, 3}
	c := Cursor{}
	if !c.PageDown(heights, 9) {
		t.Fatal("expected movement")
	}
	// 9 rows of budget at 3 rows each moves three items.
	if c.Index != 3 {
		t.Fatalf("expected index 3, got %d", c.Index)
	}
}

func TestCursor_PageDownStopsAtEnd(t *testing.T) {
	heights := []int{2, 2, 2}
	c := Cursor{Index: 1}
	c.PageDown(heights, 100)
	if c.Index != 2 {
		t.Fatalf("page down should clamp to last item, got %d", c.Index)
	}
	if c.PageDown(heights, 100) {
		t.Fatal("page down at end should be a no-op")
	}
}

func TestCursor_PageUpSymmetric(t *testing.T) {
	heights := []int{3, 3, 3, 3, 3, 3}
	c := Cursor{Index: 5, Top: 3}
	if !c.PageUp(heights, 9) {
		t.Fatal("expected movement")
	}
	if c.Index != 2 {
		t.Fatalf("expected index 2, got %d", c.Index)
	}
	if c.Top != 2 {
		t.Fatalf("top should track cursor: %d", c.Top)
	}
}

func TestCursor_UnmeasuredHeightsCountAsOneRow(t *testing.T) {
	heights := make([]int, 50) // all zero: not yet rendered
	c := Cursor{}
	c.PageDown(heights, 10)
	if c.Index != 10 {
		t.Fatalf("zero heights should walk one row per item, got %d", c.Index)
	}
}

func TestCursor_LayoutSlidesWindowDown(t *testing.T) {
	heights := []int{2, 2, 2, 2, 2, 2, 2, 2}
	c := Cursor{Index: 5, Top: 0}
	c.Layout(heights, 6)
	// Only three 2-row items fit; top must slide so index 5 is visible.
	if c.Top != 3 {
		t.Fatalf("expected top 3, got %d", c.Top)
	}
	if c.Inverted {
		t.Fatal("window in the middle of the list should not be inverted")
	}
}

func TestCursor_LayoutInvertsAtTail(t *testing.T) {
	heights := []int{2, 2, 2, 2}
	c := Cursor{Index: 3, Top: 3}
	c.Layout(heights, 6)
	if !c.Inverted {
		t.Fatal("underfilled tail should anchor to the bottom")
	}
	// Top pulled back so the viewport is filled: items 1..3 take 6 rows.
	if c.Top != 1 {
		t.Fatalf("expected top 1 after bottom-anchoring, got %d", c.Top)
	}
}

func TestCursor_ClampAfterShrink(t *testing.T) {
	c := Cursor{Index: 9, Top: 7}
	c.Clamp(4)
	if c.Index != 3 || c.Top != 3 {
		t.Fatalf("clamp failed: index=%d top=%d", c.Index, c.Top)
	}
	c.Clamp(0)
	if c.Index != 0 || c.Top != 0 || c.Inverted {
		t.Fatalf("clamp to empty failed: %+v", c)
	}
}
