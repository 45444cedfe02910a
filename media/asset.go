// Package media lists the photos a gallery shows. A Provider hands out assets
// newest first in cursor-based pages; Pager accumulates those pages for a
// scrolling grid; Watcher reports library changes.
package media

import (
	"errors"
	"time"
)

var (
	// ErrPermissionDenied is returned when the library cannot be read.
	ErrPermissionDenied = errors.New("media: permission denied")
	// ErrBadCursor is returned for an after cursor the provider never issued.
	ErrBadCursor = errors.New("media: unknown cursor")
)

// Asset is one photo in the library. Width and Height are the displayed
// dimensions after EXIF orientation, or zero when unknown.
type Asset struct {
	ID           string
	URI          string
	CreationTime time.Time
	Width        int
	Height       int
}

// Page is one slice of the library. EndCursor is the ID of the last asset and
// is passed as after to fetch the following page.
type Page struct {
	Assets      []Asset
	EndCursor   string
	HasNextPage bool
	TotalCount  int
}

// lessAsset orders assets newest first, breaking ties by URI.
func lessAsset(a, b Asset) int {
	if c := b.CreationTime.Compare(a.CreationTime); c != 0 {
		return c
	}
	switch {
	case a.URI < b.URI:
		return -1
	case a.URI > b.URI:
		return 1
	}
	return 0
}

// paginate cuts the page that follows after out of sorted assets.
func paginate(assets []Asset, first int, after string) (Page, error) {
	if first <= 0 {
		return Page{}, errors.New("media: page size must be positive")
	}
	start := 0
	if after != "" {
		start = -1
		for i := range assets {
			if assets[i].ID == after {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Page{}, ErrBadCursor
		}
	}
	end := min(start+first, len(assets))
	page := Page{
		Assets:      append([]Asset(nil), assets[start:end]...),
		HasNextPage: end < len(assets),
		TotalCount:  len(assets),
	}
	if len(page.Assets) > 0 {
		page.EndCursor = page.Assets[len(page.Assets)-1].ID
	}
	return page, nil
}
