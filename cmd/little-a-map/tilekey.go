// SPDX-License-Identifier: MIT

package main

import "fmt"

// TileCoord addresses one tile in the native render grid (Zoom 0) or one
// of its mipmaps (Zoom 1..3). Unlike a conventional web-mercator pyramid —
// such as the teacher's TileKey (cmd/tilerank-builder/tilekey.go), whose
// x/y always range over exactly [0, 2^zoom) from a single global root tile
// — our grid has no fixed root: a Minecraft world's blocks, and therefore
// its native tile coordinates, can be negative and are bounded only by the
// world border. TileCoord is kept as a plain comparable struct instead of
// the teacher's packed-bits TileKey so it stays a valid Go map key and sort
// key without inheriting an unsigned, origin-at-zero assumption that does
// not hold for this grid.
type TileCoord struct {
	Zoom uint8
	X, Y int32
}

func (t TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// Parent returns the tile at Zoom+1 that this tile mipmaps into, and the
// 2x2 quadrant (0..3, reading left-to-right then top-to-bottom) this tile
// occupies within it.
func (t TileCoord) Parent() (parent TileCoord, quadrant int) {
	px := floorDiv2(t.X)
	py := floorDiv2(t.Y)
	qx := t.X - px*2
	qy := t.Y - py*2
	return TileCoord{Zoom: t.Zoom + 1, X: px, Y: py}, int(qy*2 + qx)
}

func floorDiv2(v int32) int32 {
	if v >= 0 {
		return v / 2
	}
	return -((-v + 1) / 2)
}

// Less defines a canonical enumeration order for tiles: zoom ascending,
// then x, then y.
func (t TileCoord) Less(o TileCoord) bool {
	if t.Zoom != o.Zoom {
		return t.Zoom < o.Zoom
	}
	if t.X != o.X {
		return t.X < o.X
	}
	return t.Y < o.Y
}
