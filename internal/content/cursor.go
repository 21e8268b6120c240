package content

// Cursor tracks the selected item and how the viewport is anchored. Pure
// data; motion never wraps, and hitting an edge is a no-op reported to the
// caller, not an error.
type Cursor struct {
	// Index is the absolute position of the selected item.
	Index int
	// Top is the position of the first visible item.
	Top int
	// Inverted anchors the viewport to the bottom, so the last item can
	// be shown in full without trailing blank rows.
	Inverted bool
}

// MoveUp moves the selection up one item. Returns false at the top edge.
func (c *Cursor) MoveUp() bool {
	if c.Index <= 0 {
		return false
	}
	c.Index--
	if c.Index < c.Top {
		c.Top = c.Index
		c.Inverted = false
	}
	return true
}

// MoveDown moves the selection down one item, clamped to length-1. Returns
// false at the bottom edge.
func (c *Cursor) MoveDown(length int) bool {
	if c.Index >= length-1 {
		return false
	}
	c.Index++
	return true
}

// PageDown moves the selection forward by roughly one viewport of rendered
// height: it walks item heights until the budget is spent or the end is
// reached. Returns false if the cursor did not move.
func (c *Cursor) PageDown(heights []int, viewport int) bool {
	if len(heights) == 0 || c.Index >= len(heights)-1 {
		return false
	}
	budget := viewport
	i := c.Index
	for i < len(heights)-1 && budget > 0 {
		budget -= itemHeight(heights, i)
		i++
	}
	moved := i != c.Index
	c.Index = i
	return moved
}

// PageUp is the inverse of PageDown.
func (c *Cursor) PageUp(heights []int, viewport int) bool {
	if c.Index <= 0 {
		return false
	}
	budget := viewport
	i := c.Index
	for i > 0 && budget > 0 {
		budget -= itemHeight(heights, i)
		i--
	}
	moved := i != c.Index
	c.Index = i
	if c.Index < c.Top {
		c.Top = c.Index
		c.Inverted = false
	}
	return moved
}

// Clamp pulls the cursor back into [0, length-1] after the stream shrank
// or was refreshed.
func (c *Cursor) Clamp(length int) {
	if length == 0 {
		c.Index, c.Top, c.Inverted = 0, 0, false
		return
	}
	if c.Index >= length {
		c.Index = length - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
	if c.Top > c.Index {
		c.Top = c.Index
	}
}

// Layout recomputes Top and Inverted so the selected item is visible in a
// viewport of the given height. Walking down from Top, if the selection
// falls past the bottom the window slides; if the remaining items cannot
// fill the viewport below the cursor, the view anchors to the bottom.
func (c *Cursor) Layout(heights []int, viewport int) {
	if len(heights) == 0 {
		c.Top, c.Inverted = 0, false
		return
	}
	if c.Index < c.Top {
		c.Top = c.Index
	}

	// Slide Top forward until the selection fits below it.
	for c.Top < c.Index {
		used := 0
		for i := c.Top; i <= c.Index; i++ {
			used += itemHeight(heights, i)
		}
		if used <= viewport {
			break
		}
		c.Top++
	}

	// Anchor to the bottom when the tail from Top underfills the viewport.
	tail := 0
	for i := c.Top; i < len(heights); i++ {
		tail += itemHeight(heights, i)
	}
	c.Inverted = tail < viewport && c.Top > 0
	if c.Inverted {
		// Pull Top back until the viewport is full again.
		for c.Top > 0 {
			h := itemHeight(heights, c.Top-1)
			if tail+h > viewport {
				break
			}
			c.Top--
			tail += h
		}
	}
}

// itemHeight treats an unmeasured item (height 0) as one row so paging
// still terminates before first render.
func itemHeight(heights []int, i int) int {
	if i < 0 || i >= len(heights) {
		return 1
	}
	if heights[i] <= 0 {
		return 1
	}
	return heights[i]
}
