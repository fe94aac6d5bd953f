// SPDX-License-Identifier: MIT

package main

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BuildBannerCatalog de-duplicates every banner across every decoded
// overworld map by world position (spec §3 invariant: "union of banner
// world-positions emitted equals the union ... present in any decoded
// overworld map, de-duplicated by world_pos") and builds the GeoJSON
// FeatureCollection described in §3: geometry Point at [z, x], properties
// {color, name?, unique, maps}. A feature's maps list is every overworld
// map whose coverage square contains the banner's position, regardless of
// which map's own banner list first reported it (§3 invariant).
func BuildBannerCatalog(maps []*MapItem) *geojson.FeatureCollection {
	overworld := make([]*MapItem, 0, len(maps))
	for _, m := range maps {
		if m.Dimension == DimensionOverworld {
			overworld = append(overworld, m)
		}
	}

	banners := make(map[[3]int32]Banner)
	var order [][3]int32
	for _, m := range overworld {
		for _, b := range m.Banners {
			pos := b.WorldPos()
			if _, ok := banners[pos]; !ok {
				banners[pos] = b
				order = append(order, pos)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	// A banner's name counts toward uniqueness only among banners of the
	// same color with a non-empty name (spec §8 property 5).
	nameCounts := make(map[[2]string]int)
	for _, pos := range order {
		b := banners[pos]
		if b.Name != "" {
			nameCounts[[2]string{b.Color, b.Name}]++
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, pos := range order {
		b := banners[pos]
		mapIDs := coveringMapIDs(overworld, b)
		unique := b.Name != "" && nameCounts[[2]string{b.Color, b.Name}] == 1

		f := geojson.NewFeature(orb.Point{float64(pos[2]), float64(pos[0])}) // [z, x]
		f.Properties["color"] = b.Color
		if b.Name != "" {
			f.Properties["name"] = b.Name
		}
		f.Properties["unique"] = unique
		f.Properties["maps"] = mapIDsToInts(mapIDs)
		fc.Append(f)
	}

	return fc
}

// coveringMapIDs returns, ascending, every overworld map's ID whose
// coverage square contains b's horizontal position.
func coveringMapIDs(overworld []*MapItem, b Banner) []MapId {
	var ids []MapId
	for _, m := range overworld {
		if coverageContains(m, b) {
			ids = append(ids, m.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func mapIDsToInts(ids []MapId) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

// coverageContains reports whether a banner's horizontal position lies
// within m's coverage square.
func coverageContains(m *MapItem, b Banner) bool {
	edge := m.EdgeBlocks()
	half := edge / 2
	minX, maxX := int64(m.CenterX)-half, int64(m.CenterX)+half
	minZ, maxZ := int64(m.CenterZ)-half, int64(m.CenterZ)+half
	x, z := int64(b.X), int64(b.Z)
	return x >= minX && x < maxX && z >= minZ && z < maxZ
}
