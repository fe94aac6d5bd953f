// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// PruneOutputs deletes every tile and per-map artifact left on disk from a
// previous run whose path is no longer in the current plan (spec §4.5:
// "delete the tile, its signature file, and its meta.json" / "delete
// empty tile directories after pruning"). It returns the number of tiles
// and maps removed.
func PruneOutputs(outputDir string, liveTiles map[TileCoord]bool, liveMapIDs map[MapId]bool) (prunedTiles, prunedMaps int, err error) {
	tilesRoot := filepath.Join(outputDir, "tiles")
	var tileDirs []string
	err = filepath.Walk(tilesRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info.IsDir() {
			tileDirs = append(tileDirs, path)
			return nil
		}
		if !strings.HasSuffix(path, ".webp") {
			return nil
		}
		tile, ok := parseTileWebpPath(tilesRoot, path)
		if !ok {
			return nil
		}
		if liveTiles[tile] {
			return nil
		}
		RemoveArtifact(path)
		if tile.Zoom == 0 {
			os.Remove(TileMetaPath(outputDir, tile))
		}
		prunedTiles++
		return nil
	})
	if err != nil {
		return prunedTiles, prunedMaps, err
	}
	removeEmptyDirs(tileDirs)

	mapsRoot := filepath.Join(outputDir, "maps")
	var mapDirs []string
	err = filepath.Walk(mapsRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info.IsDir() {
			mapDirs = append(mapDirs, path)
			return nil
		}
		if !strings.HasSuffix(path, ".webp") {
			return nil
		}
		id, ok := parseMapWebpPath(path)
		if !ok {
			return nil
		}
		if liveMapIDs[id] {
			return nil
		}
		RemoveArtifact(path)
		prunedMaps++
		return nil
	})
	if err != nil {
		return prunedTiles, prunedMaps, err
	}
	removeEmptyDirs(mapDirs)

	return prunedTiles, prunedMaps, nil
}

func removeEmptyDirs(dirs []string) {
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err == nil && len(entries) == 0 {
			os.Remove(d)
		}
	}
}

func parseTileWebpPath(tilesRoot, path string) (TileCoord, bool) {
	rel, err := filepath.Rel(tilesRoot, path)
	if err != nil {
		return TileCoord{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return TileCoord{}, false
	}
	zoom, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(strings.TrimSuffix(parts[2], ".webp"))
	if err1 != nil || err2 != nil || err3 != nil || zoom < 0 || zoom > 3 {
		return TileCoord{}, false
	}
	return TileCoord{Zoom: uint8(zoom), X: int32(x), Y: int32(y)}, true
}

func parseMapWebpPath(path string) (MapId, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".webp")
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, false
	}
	return MapId(n), true
}
