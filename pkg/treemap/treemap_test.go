package treemap

import (
	"reflect"
	"testing"

	"github.com/tilemarks/tilemarks/pkg/groups"
)

// groupWithLinks builds a group with n links.
func groupWithLinks(id string, n int) groups.BookmarkGroup {
	g := groups.BookmarkGroup{ID: id, Name: id, Size: groups.MinGroupSize}
	for i := 0; i < n; i++ {
		g.Links = append(g.Links, groups.QuickLink{ID: id + "-" + string(rune('a'+i))})
	}
	return g
}

func TestLayoutEmpty(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {100, 50}, {1920, 1080}} {
		got := Layout(nil, dims[0], dims[1])
		if len(got) != 0 {
			t.Errorf("Layout(nil, %d, %d) = %d tiles, want 0", dims[0], dims[1], len(got))
		}
	}
}

func TestLayoutSingleGroupFillsCanvas(t *testing.T) {
	gs := []groups.BookmarkGroup{groupWithLinks("a", 4)}

	tiles := Layout(gs, 800, 600)
	if len(tiles) != 1 {
		t.Fatalf("tiles = %d, want 1", len(tiles))
	}

	tile := tiles[0]
	if tile.X != 0 || tile.Y != 0 || tile.Width != 800 || tile.Height != 600 {
		t.Errorf("tile = (%d,%d %dx%d), want full canvas", tile.X, tile.Y, tile.Width, tile.Height)
	}
}

func TestLayoutHorizontalSlicing(t *testing.T) {
	// Wide canvas: vertical strips spanning full height, left to right.
	gs := []groups.BookmarkGroup{
		groupWithLinks("a", 1),
		groupWithLinks("b", 3),
	}

	tiles := Layout(gs, 400, 100)
	if len(tiles) != 2 {
		t.Fatalf("tiles = %d, want 2", len(tiles))
	}

	// Working sizes 1 and 3: a gets 1/4 of the width, b gets 3/4.
	if tiles[0].Width != 100 {
		t.Errorf("tiles[0].Width = %d, want 100", tiles[0].Width)
	}
	if tiles[1].Width != 300 {
		t.Errorf("tiles[1].Width = %d, want 300", tiles[1].Width)
	}
	for i, tile := range tiles {
		if tile.Height != 100 {
			t.Errorf("tiles[%d].Height = %d, want full 100", i, tile.Height)
		}
		if tile.Y != 0 {
			t.Errorf("tiles[%d].Y = %d, want 0", i, tile.Y)
		}
	}
	if tiles[0].X != 0 || tiles[1].X != 100 {
		t.Errorf("X positions = %d,%d, want 0,100", tiles[0].X, tiles[1].X)
	}
}

func TestLayoutVerticalSlicing(t *testing.T) {
	// Tall canvas: horizontal strips spanning full width, top to bottom.
	gs := []groups.BookmarkGroup{
		groupWithLinks("a", 2),
		groupWithLinks("b", 2),
	}

	tiles := Layout(gs, 100, 400)
	if len(tiles) != 2 {
		t.Fatalf("tiles = %d, want 2", len(tiles))
	}

	for i, tile := range tiles {
		if tile.Width != 100 {
			t.Errorf("tiles[%d].Width = %d, want full 100", i, tile.Width)
		}
		if tile.Height != 200 {
			t.Errorf("tiles[%d].Height = %d, want 200", i, tile.Height)
		}
	}
	if tiles[0].Y != 0 || tiles[1].Y != 200 {
		t.Errorf("Y positions = %d,%d, want 0,200", tiles[0].Y, tiles[1].Y)
	}
}

func TestLayoutSquareCanvasSlicesVertically(t *testing.T) {
	// width == height is not "wider than tall": vertical slicing.
	gs := []groups.BookmarkGroup{groupWithLinks("a", 1), groupWithLinks("b", 1)}

	tiles := Layout(gs, 200, 200)
	if tiles[0].Width != 200 {
		t.Errorf("square canvas should slice vertically, got Width = %d", tiles[0].Width)
	}
}

func TestLayoutEmptyGroupCountsAsOne(t *testing.T) {
	// A group with no links still gets weight 1, never zero area from the
	// ratio itself.
	gs := []groups.BookmarkGroup{
		groupWithLinks("empty", 0),
		groupWithLinks("full", 1),
	}

	tiles := Layout(gs, 400, 100)
	if tiles[0].Size != 1 {
		t.Errorf("empty group Size = %d, want 1", tiles[0].Size)
	}
	if tiles[0].Width != 200 || tiles[1].Width != 200 {
		t.Errorf("widths = %d,%d, want equal split 200,200", tiles[0].Width, tiles[1].Width)
	}
}

func TestLayoutPreservesOrder(t *testing.T) {
	gs := []groups.BookmarkGroup{
		groupWithLinks("first", 5),
		groupWithLinks("second", 1),
		groupWithLinks("third", 2),
	}

	tiles := Layout(gs, 1000, 300)

	var ids []string
	for _, tile := range tiles {
		ids = append(ids, tile.Group.ID)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("tile order = %v, want %v", ids, want)
	}

	// Placement must be monotone along the slice axis.
	for i := 1; i < len(tiles); i++ {
		if tiles[i].X <= tiles[i-1].X {
			t.Errorf("tiles[%d].X = %d, not after tiles[%d].X = %d", i, tiles[i].X, i-1, tiles[i-1].X)
		}
	}
}

func TestLayoutWidthsSumWithinCanvas(t *testing.T) {
	// Sizes that don't divide the canvas evenly: floored widths may leave
	// trailing slack but must never overflow the canvas.
	gs := []groups.BookmarkGroup{
		groupWithLinks("a", 3),
		groupWithLinks("b", 5),
		groupWithLinks("c", 7),
	}

	tiles := Layout(gs, 1000, 100)

	sum := 0
	for _, tile := range tiles {
		sum += tile.Width
	}
	if sum > 1000 {
		t.Errorf("width sum = %d, exceeds canvas 1000", sum)
	}
	if sum < 1000-len(tiles) {
		t.Errorf("width sum = %d, slack beyond rounding error", sum)
	}

	last := tiles[len(tiles)-1]
	if last.X+last.Width > 1000 {
		t.Errorf("last tile far edge = %d, exceeds canvas", last.X+last.Width)
	}
}

func TestLayoutZeroCanvas(t *testing.T) {
	gs := []groups.BookmarkGroup{groupWithLinks("a", 2), groupWithLinks("b", 3)}

	tiles := Layout(gs, 0, 0)
	if len(tiles) != 2 {
		t.Fatalf("tiles = %d, want 2", len(tiles))
	}
	for i, tile := range tiles {
		if tile.X != 0 || tile.Y != 0 || tile.Width != 0 || tile.Height != 0 {
			t.Errorf("tiles[%d] = %+v, want all-zero geometry", i, tile)
		}
	}
}

func TestLayoutIsPure(t *testing.T) {
	gs := []groups.BookmarkGroup{
		groupWithLinks("a", 4),
		groupWithLinks("b", 9),
	}

	first := Layout(gs, 1920, 1080)
	second := Layout(gs, 1920, 1080)

	if !reflect.DeepEqual(first, second) {
		t.Error("Layout() not deterministic for identical inputs")
	}

	// Mutating a returned tile must not leak into the input groups.
	first[0].Group.Links[0].Title = "mutated"
	if gs[0].Links[0].Title == "mutated" {
		t.Error("Layout() shares link storage with its input")
	}
}
