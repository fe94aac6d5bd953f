// SPDX-License-Identifier: MIT

package main

import (
	"image"
	"image/color"
	"sort"
)

const tileEdgePixels = 128

// AssignTiles computes, for every native-zoom tile touched by any map's
// coverage square, the ascending-order contributor list described in
// spec §4.4: primary key scale ascending, secondary key id ascending. This
// is the canonical order used for TileSignature hashing and for meta.json
// after reversal (see PaintOrder).
func AssignTiles(maps []*MapItem) map[TileCoord][]*MapItem {
	assignment := make(map[TileCoord][]*MapItem)
	for _, m := range maps {
		if m.Dimension != DimensionOverworld {
			continue
		}
		for _, tile := range coverageTiles(m) {
			assignment[tile] = append(assignment[tile], m)
		}
	}
	for tile, contributors := range assignment {
		sortAscendingScaleID(contributors)
		assignment[tile] = contributors
	}
	return assignment
}

func sortAscendingScaleID(maps []*MapItem) {
	sort.Slice(maps, func(i, j int) bool {
		if maps[i].Scale != maps[j].Scale {
			return maps[i].Scale < maps[j].Scale
		}
		return maps[i].ID < maps[j].ID
	})
}

// PaintOrder returns contributors reversed into coarsest-first order: the
// order tiles are actually painted in (back-to-front) and the order
// written to tiles/4/<x>/<y>.meta.json (spec §4.4).
func PaintOrder(ascending []*MapItem) []*MapItem {
	out := make([]*MapItem, len(ascending))
	for i, m := range ascending {
		out[len(ascending)-1-i] = m
	}
	return out
}

// coverageTiles returns every native-zoom tile m's coverage square
// intersects.
func coverageTiles(m *MapItem) []TileCoord {
	edge := m.EdgeBlocks()
	half := edge / 2
	minX, maxX := int64(m.CenterX)-half, int64(m.CenterX)+half
	minZ, maxZ := int64(m.CenterZ)-half, int64(m.CenterZ)+half

	txMin := floorDivInt64(minX, tileEdgePixels)
	txMax := floorDivInt64(maxX-1, tileEdgePixels)
	tzMin := floorDivInt64(minZ, tileEdgePixels)
	tzMax := floorDivInt64(maxZ-1, tileEdgePixels)

	var tiles []TileCoord
	for tx := txMin; tx <= txMax; tx++ {
		for tz := tzMin; tz <= tzMax; tz++ {
			tiles = append(tiles, TileCoord{Zoom: 0, X: int32(tx), Y: int32(tz)})
		}
	}
	return tiles
}

// CompositeTile renders one native-zoom tile from its contributors, which
// must already be in paint order (coarsest first, finest last — see
// PaintOrder). Transparent source pixels never overwrite; there is no
// alpha blending between maps. Reports whether any pixel ended up
// non-transparent.
func CompositeTile(tile TileCoord, contributors []*MapItem, palette []color.RGBA) (*image.RGBA, bool) {
	img := image.NewRGBA(image.Rect(0, 0, tileEdgePixels, tileEdgePixels))
	written := false

	worldX0 := int64(tile.X) * tileEdgePixels
	worldZ0 := int64(tile.Y) * tileEdgePixels

	for _, m := range contributors {
		edge := m.EdgeBlocks()
		step := edge / tileEdgePixels
		half := edge / 2
		minWorldX := int64(m.CenterX) - half
		minWorldZ := int64(m.CenterZ) - half

		for dz := 0; dz < tileEdgePixels; dz++ {
			worldZ := worldZ0 + int64(dz)
			if worldZ < minWorldZ || worldZ >= minWorldZ+edge {
				continue
			}
			gz := int((worldZ - minWorldZ) / step)
			for dx := 0; dx < tileEdgePixels; dx++ {
				worldX := worldX0 + int64(dx)
				if worldX < minWorldX || worldX >= minWorldX+edge {
					continue
				}
				gx := int((worldX - minWorldX) / step)

				idx := m.Colors[gz*tileEdgePixels+gx]
				if idx == 0 {
					continue
				}
				px := ResolvePixel(palette, idx)
				if px.A == 0 {
					continue
				}
				img.SetRGBA(dx, dz, px)
				written = true
			}
		}
	}

	return img, written
}

// RenderMapArtifact renders a map's own 128x128 color grid directly,
// using the same palette rule as tile compositing (spec §4.4 "per-map
// artifact"), for the inspect popup's maps/<id>.webp.
func RenderMapArtifact(m *MapItem, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tileEdgePixels, tileEdgePixels))
	for z := 0; z < tileEdgePixels; z++ {
		for x := 0; x < tileEdgePixels; x++ {
			idx := m.Colors[z*tileEdgePixels+x]
			img.SetRGBA(x, z, ResolvePixel(palette, idx))
		}
	}
	return img
}
