// Package treemap computes tile geometry for bookmark groups.
//
// The algorithm is a one-dimensional slice partition, not a squarified
// treemap: one axis is chosen per call from the canvas aspect and every
// group takes a strip along it, proportional to its working size. Stored
// collection order is placement order.
package treemap

import (
	"math"

	"github.com/tilemarks/tilemarks/pkg/groups"
)

// Tile is a group annotated with its computed screen-space rectangle.
// Tiles are ephemeral: rebuilt on every layout pass, never persisted.
//
// Size is the working weight used for this pass, max(1, link count),
// independent of the group's persisted Size field.
type Tile struct {
	Group  groups.BookmarkGroup `json:"group"`
	Size   int                  `json:"size"`
	X      int                  `json:"x"`
	Y      int                  `json:"y"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
}

// Layout partitions a canvasWidth×canvasHeight canvas among the groups.
//
// Each group's working size is max(1, len(links)). If the canvas is wider
// than tall, groups become vertical strips spanning the full height, placed
// left to right; otherwise horizontal strips spanning the full width, top
// to bottom. Dimensions are floored to integers; rounding slack at the far
// edge is accepted. The function is pure: identical inputs yield identical
// output and no state is touched.
func Layout(gs []groups.BookmarkGroup, canvasWidth, canvasHeight int) []Tile {
	if len(gs) == 0 {
		return []Tile{}
	}
	if canvasWidth < 0 {
		canvasWidth = 0
	}
	if canvasHeight < 0 {
		canvasHeight = 0
	}

	total := 0
	sizes := make([]int, len(gs))
	for i := range gs {
		sizes[i] = workingSize(&gs[i])
		total += sizes[i]
	}

	horizontal := canvasWidth > canvasHeight

	tiles := make([]Tile, len(gs))
	cursor := 0.0
	for i := range gs {
		ratio := float64(sizes[i]) / float64(total)

		t := Tile{Group: gs[i].Clone(), Size: sizes[i]}
		if horizontal {
			span := float64(canvasWidth) * ratio
			t.X = int(math.Floor(cursor))
			t.Y = 0
			t.Width = int(math.Floor(span))
			t.Height = canvasHeight
			cursor += span
		} else {
			span := float64(canvasHeight) * ratio
			t.X = 0
			t.Y = int(math.Floor(cursor))
			t.Width = canvasWidth
			t.Height = int(math.Floor(span))
			cursor += span
		}
		tiles[i] = t
	}
	return tiles
}

// workingSize is the layout weight for one group: max(1, link count).
func workingSize(g *groups.BookmarkGroup) int {
	if n := len(g.Links); n > 1 {
		return n
	}
	return 1
}
