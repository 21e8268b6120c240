// Package pager renders a content stream through a cursor-anchored window.
// It owns no item semantics: callers supply a render function and the pager
// handles measurement, motion, and viewport anchoring.
package pager

import (
	"context"
	"strings"

	"github.com/mvanholst/lurker/internal/content"
)

// RenderFunc renders one item into terminal lines at the given width.
// Selection may change colors but must not change the line count.
type RenderFunc func(item content.Item, selected bool, width int) []string

// Pager couples a stream with a cursor and a renderer.
type Pager struct {
	Stream *content.Stream
	Cursor content.Cursor

	render RenderFunc
	width  int
	height int
}

// New creates a pager over the given stream.
func New(stream *content.Stream, render RenderFunc) *Pager {
	return &Pager{Stream: stream, render: render}
}

// SetSize updates the window dimensions. A width change invalidates all
// cached item heights since wrapping changes.
func (p *Pager) SetSize(w, h int) {
	if w != p.width {
		p.Stream.InvalidateHeights()
	}
	p.width = w
	p.height = h
}

// SetStream swaps the backing stream, keeping the cursor position clamped.
func (p *Pager) SetStream(s *content.Stream) {
	p.Stream = s
	p.Cursor.Clamp(s.Len())
}

// Selected returns the item under the cursor.
func (p *Pager) Selected() (content.Item, bool) {
	items := p.Stream.Items()
	if p.Cursor.Index < 0 || p.Cursor.Index >= len(items) {
		return content.Item{}, false
	}
	return items[p.Cursor.Index], true
}

// MoveUp moves the selection up one item.
func (p *Pager) MoveUp() bool {
	return p.Cursor.MoveUp()
}

// MoveDown moves the selection down one item, pulling the next item from
// the loader when the cursor is at the end of the fetched window. The pull
// blocks for at most one page fetch.
func (p *Pager) MoveDown(ctx context.Context) bool {
	if p.Cursor.Index >= p.Stream.Len()-1 {
		p.Stream.Get(ctx, p.Cursor.Index+1)
	}
	return p.Cursor.MoveDown(p.Stream.Len())
}

// PageDown moves the selection forward roughly one viewport, pulling
// enough items to land the cursor. Each item is at least one row, so a
// viewport's worth of rows bounds the pull.
func (p *Pager) PageDown(ctx context.Context) bool {
	want := p.Cursor.Index + p.height + 1
	if want > p.Stream.Len() && !p.Stream.Exhausted() {
		p.Stream.RequestMore(ctx, want-p.Stream.Len())
	}
	p.measure()
	return p.Cursor.PageDown(p.heights(), p.height)
}

// PageUp moves the selection back roughly one viewport.
func (p *Pager) PageUp() bool {
	p.measure()
	return p.Cursor.PageUp(p.heights(), p.height)
}

// Home jumps to the first item.
func (p *Pager) Home() {
	p.Cursor.Index = 0
	p.Cursor.Top = 0
	p.Cursor.Inverted = false
}

// End jumps to the last fetched item.
func (p *Pager) End() {
	if n := p.Stream.Len(); n > 0 {
		p.Cursor.Index = n - 1
	}
}

// View renders the visible window.
func (p *Pager) View() string {
	items := p.Stream.Items()
	lines := make([]string, 0, p.height)
	if len(items) > 0 {
		p.Cursor.Clamp(len(items))
		p.measure()
		p.Cursor.Layout(p.heights(), p.height)
		for i := p.Cursor.Top; i < len(items); i++ {
			lines = append(lines, p.render(items[i], i == p.Cursor.Index, p.width)...)
			if !p.Cursor.Inverted && len(lines) >= p.height {
				break
			}
		}
		if len(lines) > p.height {
			if p.Cursor.Inverted {
				lines = lines[len(lines)-p.height:]
			} else {
				lines = lines[:p.height]
			}
		}
	}
	for len(lines) < p.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// measure fills in cached heights for any unmeasured items.
func (p *Pager) measure() {
	for i, it := range p.Stream.Items() {
		if it.Height == 0 {
			p.Stream.SetHeight(i, len(p.render(it, false, p.width)))
		}
	}
}

func (p *Pager) heights() []int {
	items := p.Stream.Items()
	hs := make([]int, len(items))
	for i, it := range items {
		hs[i] = it.Height
	}
	return hs
}
