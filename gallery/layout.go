// Package gallery is the photo grid screen: a scrolling three-column grid of
// thumbnails under a header, wired to a lightbox overlay so that pressing a
// thumbnail opens it fullscreen.
package gallery

import (
	"fmt"
	"time"

	"github.com/phanxgames/lightbox"
	"github.com/phanxgames/lightbox/media"
)

// headerRatio is the header height as a fraction of the screen height.
const headerRatio = 0.15

// visibleThreshold is how much of a cell must be on screen for its date to
// count towards the header.
const visibleThreshold = 0.5

// Layout places grid cells. Cells are Columns to a row, each column
// Screen.Width/Columns wide with the image one pixel narrower, and rows are
// CellHeight tall plus a one pixel margin above and below. Top leaves room
// for the header.
type Layout struct {
	Screen     lightbox.Size
	Columns    int
	CellHeight float64
	Top        float64
}

// NewLayout returns the layout for cfg with the header above the first row.
func NewLayout(cfg Config) Layout {
	screen := cfg.Screen()
	return Layout{
		Screen:     screen,
		Columns:    cfg.Columns,
		CellHeight: cfg.CellHeight,
		Top:        screen.Height * headerRatio,
	}
}

// CellWidth is the thumbnail width.
func (l Layout) CellWidth() float64 {
	return l.Screen.Width/float64(l.Columns) - 1
}

func (l Layout) rowHeight() float64 {
	return l.CellHeight + 2
}

// CellRect returns cell i's rectangle in content coordinates.
func (l Layout) CellRect(i int) lightbox.Rect {
	stride := l.Screen.Width / float64(l.Columns)
	col, row := i%l.Columns, i/l.Columns
	return lightbox.Rect{
		X:      float64(col)*stride + 0.5,
		Y:      l.Top + float64(row)*l.rowHeight() + 1,
		Width:  l.CellWidth(),
		Height: l.CellHeight,
	}
}

// ContentHeight is the height of n cells laid out in rows.
func (l Layout) ContentHeight(n int) float64 {
	rows := (n + l.Columns - 1) / l.Columns
	return l.Top + float64(rows)*l.rowHeight()
}

// MaxScroll is the largest scroll offset that keeps content on screen.
func (l Layout) MaxScroll(n int) float64 {
	return max(0, l.ContentHeight(n)-l.Screen.Height)
}

// NearEnd reports whether the viewport at scroll is within half a screen of
// the end of n cells.
func (l Layout) NearEnd(n int, scroll float64) bool {
	return l.ContentHeight(n)-(scroll+l.Screen.Height) < l.Screen.Height/2
}

// VisibleFraction returns how much of the span [top, top+height) lies inside
// [viewTop, viewBottom), from 0 to 1.
func VisibleFraction(top, height, viewTop, viewBottom float64) float64 {
	if height <= 0 {
		return 0
	}
	overlap := min(top+height, viewBottom) - max(top, viewTop)
	if overlap <= 0 {
		return 0
	}
	return min(overlap/height, 1)
}

// EarliestVisible returns the earliest creation time among assets whose
// cells are at least half visible at scroll.
func (l Layout) EarliestVisible(assets []media.Asset, scroll float64) (time.Time, bool) {
	var earliest time.Time
	found := false
	for i, a := range assets {
		r := l.CellRect(i)
		if VisibleFraction(r.Y-scroll, r.Height, 0, l.Screen.Height) < visibleThreshold {
			continue
		}
		if a.CreationTime.IsZero() {
			continue
		}
		if !found || a.CreationTime.Before(earliest) {
			earliest = a.CreationTime
			found = true
		}
	}
	return earliest, found
}

// HeaderSubtitle is the line under the title: the long date of the earliest
// visible photo, or the item count when no date is known.
func HeaderSubtitle(earliest time.Time, ok bool, count int) string {
	if ok {
		return earliest.Format("January 2, 2006")
	}
	if count == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", count)
}
