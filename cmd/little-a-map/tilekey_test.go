// SPDX-License-Identifier: MIT

package main

import "testing"

func TestTileCoordParent(t *testing.T) {
	cases := []struct {
		child        TileCoord
		wantParent   TileCoord
		wantQuadrant int
	}{
		{TileCoord{Zoom: 0, X: 0, Y: 0}, TileCoord{Zoom: 1, X: 0, Y: 0}, 0},
		{TileCoord{Zoom: 0, X: 1, Y: 0}, TileCoord{Zoom: 1, X: 0, Y: 0}, 1},
		{TileCoord{Zoom: 0, X: 0, Y: 1}, TileCoord{Zoom: 1, X: 0, Y: 0}, 2},
		{TileCoord{Zoom: 0, X: 1, Y: 1}, TileCoord{Zoom: 1, X: 0, Y: 0}, 3},
		{TileCoord{Zoom: 0, X: -1, Y: 0}, TileCoord{Zoom: 1, X: -1, Y: 0}, 1},
		{TileCoord{Zoom: 0, X: -1, Y: -1}, TileCoord{Zoom: 1, X: -1, Y: -1}, 3},
		{TileCoord{Zoom: 0, X: -2, Y: 0}, TileCoord{Zoom: 1, X: -1, Y: 0}, 0},
	}
	for _, c := range cases {
		parent, quadrant := c.child.Parent()
		if parent != c.wantParent || quadrant != c.wantQuadrant {
			t.Errorf("%v.Parent() = %v, %d; want %v, %d", c.child, parent, quadrant, c.wantParent, c.wantQuadrant)
		}
	}
}

func TestTileCoordLess(t *testing.T) {
	tiles := []TileCoord{
		{Zoom: 1, X: 0, Y: 0},
		{Zoom: 0, X: 5, Y: -3},
		{Zoom: 0, X: 5, Y: 2},
		{Zoom: 0, X: -1, Y: 9},
	}
	for i := 0; i < len(tiles); i++ {
		for j := 0; j < len(tiles); j++ {
			if i == j {
				continue
			}
			if tiles[i].Less(tiles[j]) && tiles[j].Less(tiles[i]) {
				t.Fatalf("Less is not antisymmetric for %v and %v", tiles[i], tiles[j])
			}
		}
	}
	if !(TileCoord{Zoom: 0, X: -1, Y: 9}).Less(TileCoord{Zoom: 0, X: 5, Y: -3}) {
		t.Errorf("expected x ascending to order negative x before positive x")
	}
}
