// SPDX-License-Identifier: MIT

package main

import (
	"image"
	"image/color"
)

// Mipmap produces the zoom z+1 tile that 2x2 box-downsamples the four
// zoom z children of parent, per spec §4.4. children maps each of the 4
// quadrant indices (as returned by TileCoord.Parent) to that child's
// rendered image; a missing entry is treated as fully transparent. The
// second return value is false (and the image should be discarded) if
// every output pixel ended up transparent.
func Mipmap(children map[int]*image.RGBA) (*image.RGBA, bool) {
	out := image.NewRGBA(image.Rect(0, 0, tileEdgePixels, tileEdgePixels))
	written := false

	get := func(gx, gz int) (r, g, b uint32, transparent bool) {
		quadrant := (gz/tileEdgePixels)*2 + gx/tileEdgePixels
		child := children[quadrant]
		if child == nil {
			return 0, 0, 0, true
		}
		c := child.RGBAAt(gx%tileEdgePixels, gz%tileEdgePixels)
		if c.A == 0 {
			return 0, 0, 0, true
		}
		return uint32(c.R), uint32(c.G), uint32(c.B), false
	}

	for oz := 0; oz < tileEdgePixels; oz++ {
		for ox := 0; ox < tileEdgePixels; ox++ {
			var sumR, sumG, sumB uint32
			var n uint32
			for _, d := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				r, g, b, transparent := get(2*ox+d[0], 2*oz+d[1])
				if transparent {
					continue
				}
				sumR += r
				sumG += g
				sumB += b
				n++
			}
			if n == 0 {
				continue
			}
			out.SetRGBA(ox, oz, rgbaAverage(sumR, sumG, sumB, n))
			written = true
		}
	}

	return out, written
}

func rgbaAverage(sumR, sumG, sumB, n uint32) color.RGBA {
	return color.RGBA{
		R: uint8((sumR + n/2) / n),
		G: uint8((sumG + n/2) / n),
		B: uint8((sumB + n/2) / n),
		A: 255,
	}
}
