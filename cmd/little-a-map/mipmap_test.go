// SPDX-License-Identifier: MIT

package main

import (
	"image"
	"image/color"
	"testing"
)

func solidTile(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tileEdgePixels, tileEdgePixels))
	for y := 0; y < tileEdgePixels; y++ {
		for x := 0; x < tileEdgePixels; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestMipmapAllQuadrantsSolidAveragesToSameColor(t *testing.T) {
	c := color.RGBA{R: 100, G: 150, B: 200, A: 255}
	children := map[int]*image.RGBA{0: solidTile(c), 1: solidTile(c), 2: solidTile(c), 3: solidTile(c)}

	out, written := Mipmap(children)
	if !written {
		t.Fatal("expected written=true")
	}
	for _, p := range [][2]int{{0, 0}, {63, 63}, {127, 127}} {
		if got := out.RGBAAt(p[0], p[1]); got != c {
			t.Errorf("out(%d,%d) = %v, want %v", p[0], p[1], got, c)
		}
	}
}

func TestMipmapMissingQuadrantsTreatedAsTransparent(t *testing.T) {
	c := color.RGBA{R: 200, G: 0, B: 0, A: 255}
	// Only quadrant 0 (top-left) present.
	children := map[int]*image.RGBA{0: solidTile(c)}

	out, written := Mipmap(children)
	if !written {
		t.Fatal("expected written=true since quadrant 0 contributes opaque pixels")
	}

	// Top-left output quadrant averages quadrant 0's color alone.
	if got := out.RGBAAt(0, 0); got != c {
		t.Errorf("out(0,0) = %v, want %v", got, c)
	}
	// Bottom-right output quadrant has no contributors at all: stays
	// untouched (fully transparent, the image.RGBA zero value).
	if got := out.RGBAAt(127, 127); got != (color.RGBA{}) {
		t.Errorf("out(127,127) = %v, want fully transparent", got)
	}
}

func TestMipmapIgnoresTransparentSamplesInAverage(t *testing.T) {
	// A child tile half-opaque, half-transparent: the average over each
	// 2x2 block should only account for the opaque source pixels.
	child := image.NewRGBA(image.Rect(0, 0, tileEdgePixels, tileEdgePixels))
	opaque := color.RGBA{R: 40, G: 80, B: 120, A: 255}
	for y := 0; y < tileEdgePixels; y++ {
		for x := 0; x < tileEdgePixels; x++ {
			if x%2 == 0 {
				child.SetRGBA(x, y, opaque)
			} // odd columns left fully transparent
		}
	}
	children := map[int]*image.RGBA{0: child}

	out, written := Mipmap(children)
	if !written {
		t.Fatal("expected written=true")
	}
	// Every 2x2 source block in quadrant 0 has exactly 2 opaque samples
	// of the same color, so the average must equal that color exactly,
	// not a half-weighted blend toward black/transparent.
	if got := out.RGBAAt(0, 0); got != opaque {
		t.Errorf("out(0,0) = %v, want %v (transparent samples excluded from average)", got, opaque)
	}
}

func TestMipmapCommutesWithBoxDownsample(t *testing.T) {
	// Build 4 distinctly colored quadrants and manually box-downsample
	// the resulting 256x256 grid, then check it matches Mipmap's output
	// pixel for pixel.
	colors := map[int]color.RGBA{
		0: {R: 10, G: 0, B: 0, A: 255},
		1: {R: 0, G: 20, B: 0, A: 255},
		2: {R: 0, G: 0, B: 30, A: 255},
		3: {R: 40, G: 40, B: 40, A: 255},
	}
	children := make(map[int]*image.RGBA, 4)
	for q, c := range colors {
		children[q] = solidTile(c)
	}

	out, _ := Mipmap(children)
	for oz := 0; oz < tileEdgePixels; oz++ {
		for ox := 0; ox < tileEdgePixels; ox++ {
			quadrant := (oz/(tileEdgePixels/2))*2 + ox/(tileEdgePixels/2)
			want := colors[quadrant]
			if got := out.RGBAAt(ox, oz); got != want {
				t.Fatalf("out(%d,%d) = %v, want %v (quadrant %d)", ox, oz, got, want, quadrant)
			}
		}
	}
}
