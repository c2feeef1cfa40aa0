// Package render paints the marker board: a header line with the raw epoch
// timestamp and four labelled marker tiles, one per time field.
//
// Every pass repaints every pixel it owns, so rendering the same sample
// twice is pixel-identical and stale content can never survive a tick.
package render

import (
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"camsync/clock"
	"camsync/hal"
	"camsync/marker"
)

var (
	colorBlack = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Tile indices, row-major on the 2x2 board.
const (
	TileDay = iota
	TileHour
	TileMinute
	TileSecond
	tileCount
)

// Labels holds the tile captions in tile-index order.
var Labels = [tileCount]string{"day", "hour", "minute", "second"}

// headerHeight is the strip at the top reserved for the Unix timestamp line.
const headerHeight = 40

// Layout fixes the board geometry from two knobs: the pixel size of one
// marker module (cell) and the white quiet zone around tiles (margin).
type Layout struct {
	Cell   int
	Margin int
}

// TileSize is the side of one marker tile in pixels.
func (l Layout) TileSize() int { return l.Cell * marker.GridSize }

// Width is the framebuffer width the layout needs.
func (l Layout) Width() int { return 3*l.Margin + 2*l.TileSize() }

// Height is the framebuffer height the layout needs.
func (l Layout) Height() int { return headerHeight + 3*l.Margin + 2*l.TileSize() }

// TileOrigin returns the top-left pixel of tile i.
func (l Layout) TileOrigin(i int) (x, y int) {
	col := i % 2
	row := i / 2
	x = l.Margin + col*(l.TileSize()+l.Margin)
	y = headerHeight + l.Margin + row*(l.TileSize()+l.Margin)
	return x, y
}

// MarkerSet carries the four patterns for one tick, in tile order.
type MarkerSet [tileCount]marker.Pattern

// Board renders samples into a framebuffer.
type Board struct {
	fb  hal.Framebuffer
	d   *fbDisplay
	lay Layout
}

// New returns a board painting into fb with the given layout. The
// framebuffer must be at least lay.Width() x lay.Height() pixels.
func New(fb hal.Framebuffer, lay Layout) *Board {
	return &Board{fb: fb, d: newFBDisplay(fb), lay: lay}
}

// Draw repaints the whole board for one sample and presents the frame. The
// patterns are read only, never mutated.
func (b *Board) Draw(s clock.TimeSample, m MarkerSet) error {
	b.fb.ClearRGB(0xff, 0xff, 0xff)

	header := fmt.Sprintf("Unix: %d", s.EpochMillis)
	tinyfont.WriteLine(b.d, &freemono.Regular9pt7b, int16(b.lay.Margin), headerHeight-14, header, colorBlack)

	for i := 0; i < tileCount; i++ {
		x, y := b.lay.TileOrigin(i)
		b.paintTile(x, y, m[i])
		tinyfont.WriteLine(b.d, &tinyfont.Org01, int16(x), int16(y+b.lay.TileSize()+10), Labels[i], colorBlack)
	}

	return b.d.Display()
}

// paintTile paints every cell of p, white cells included, so the tile region
// is fully replaced on each pass.
func (b *Board) paintTile(x, y int, p marker.Pattern) {
	cell := int16(b.lay.Cell)
	for row := 0; row < marker.GridSize; row++ {
		for col := 0; col < marker.GridSize; col++ {
			c := colorWhite
			if p[row][col] {
				c = colorBlack
			}
			_ = b.d.FillRectangle(int16(x)+int16(col)*cell, int16(y)+int16(row)*cell, cell, cell, c)
		}
	}
}
