// SPDX-License-Identifier: MIT

package main

import (
	"image/color"
	"testing"
)

func TestPaletteForFallsBackToNewest(t *testing.T) {
	newest := PaletteFor(999999)
	got := PaletteFor(3700)
	if len(got) != len(newest) {
		t.Fatalf("PaletteFor(3700) has %d entries, newest table has %d", len(got), len(newest))
	}
	for i := range got {
		if got[i] != newest[i] {
			t.Fatalf("PaletteFor(3700)[%d] = %v, want %v (newest table)", i, got[i], newest[i])
		}
	}
}

func TestPaletteForOldVersionUsesOldestTable(t *testing.T) {
	got := PaletteFor(0)
	if len(got) != len(palette1_12) {
		t.Fatalf("PaletteFor(0) has %d entries, want %d", len(got), len(palette1_12))
	}
}

func TestResolvePixelIndexZeroIsTransparent(t *testing.T) {
	base := PaletteFor(3700)
	px := ResolvePixel(base, 0)
	if px != (color.RGBA{}) {
		t.Errorf("index 0 should be fully transparent, got %v", px)
	}
}

func TestResolvePixelShadeMultipliers(t *testing.T) {
	base := []color.RGBA{{}, {R: 100, G: 100, B: 100, A: 255}}
	cases := []struct {
		index byte
		want  uint8
	}{
		{4, 71},  // base index 1, shade 0 -> 0.71
		{5, 86},  // shade 1 -> 0.86
		{6, 100}, // shade 2 -> 1.00
		{7, 53},  // shade 3 -> 0.53
	}
	for _, c := range cases {
		px := ResolvePixel(base, c.index)
		if px.R != c.want {
			t.Errorf("ResolvePixel(base, %d).R = %d, want %d", c.index, px.R, c.want)
		}
		if px.A != 255 {
			t.Errorf("ResolvePixel(base, %d).A = %d, want 255", c.index, px.A)
		}
	}
}
