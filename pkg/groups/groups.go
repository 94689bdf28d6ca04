// Package groups implements the bookmark-group data model and the store
// that owns the group collection.
//
// A group is a named, colored bucket of bookmark links rendered as one tile
// on the start page. The group's Size field is its tile weight: normally it
// is derived automatically from the link count via [DeriveSize], but while
// edit mode is active the derivation is frozen and only explicit
// [Store.SetGroupSize] calls change it.
//
// The [Store] is the single source of truth for the collection. Every
// mutation replaces the full persisted collection through a
// [kvstore.Store]; there is no diffing or partial write. Persistence
// failures are logged and reported through observability hooks but never
// surfaced to mutation callers.
package groups

import (
	"math"
)

// Tile weight bounds for a group.
const (
	MinGroupSize = 3
	MaxGroupSize = 12
)

// Palette is the fixed color cycle assigned to groups by creation order.
var Palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#14b8a6", // teal
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
}

// MetaData holds page metadata fetched by the enrichment pipeline.
// Title is the empty string when the fetch failed.
type MetaData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// QuickLink is a bookmark link attached to a group.
// The ID mirrors the source bookmark's ID. A QuickLink is immutable once
// attached; re-attaching replaces it wholesale.
type QuickLink struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Favicon string    `json:"favicon,omitempty"`
	Meta    *MetaData `json:"metaData,omitempty"`
}

// BookmarkGroup is a named, colored, sized bucket of links.
// Links keep insertion order, which is also display order, and contain no
// duplicate IDs. Size is always within [MinGroupSize, MaxGroupSize].
type BookmarkGroup struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Size  int         `json:"size"`
	Links []QuickLink `json:"links"`
}

// HasLink reports whether the group already contains a link with the given ID.
func (g *BookmarkGroup) HasLink(id string) bool {
	for _, l := range g.Links {
		if l.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the group.
func (g *BookmarkGroup) Clone() BookmarkGroup {
	cp := *g
	cp.Links = make([]QuickLink, len(g.Links))
	copy(cp.Links, g.Links)
	for i := range cp.Links {
		if m := cp.Links[i].Meta; m != nil {
			mc := *m
			cp.Links[i].Meta = &mc
		}
	}
	return cp
}

// DeriveSize computes a group's tile weight from its link count.
//
// Area grows sub-linearly with link count (square root) so groups with many
// links don't dominate the canvas. The +1 avoids the degenerate zero input;
// the *2 factor tunes visual scale before clamping.
func DeriveSize(linkCount int) int {
	if linkCount < 0 {
		linkCount = 0
	}
	size := int(math.Ceil(math.Sqrt(float64(linkCount+1)))) * 2
	return ClampSize(size)
}

// ClampSize bounds a tile weight into [MinGroupSize, MaxGroupSize].
func ClampSize(size int) int {
	if size < MinGroupSize {
		return MinGroupSize
	}
	if size > MaxGroupSize {
		return MaxGroupSize
	}
	return size
}

// ColorFor returns the palette color for the group created at position n
// (zero-based creation order).
func ColorFor(n int) string {
	if n < 0 {
		n = 0
	}
	return Palette[n%len(Palette)]
}
