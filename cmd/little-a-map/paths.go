// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
)

// TileWebpPath returns the on-disk path of a tile's WebP image (spec §6
// output layout: tiles/<zoom>/<x>/<y>.webp).
func TileWebpPath(outputDir string, t TileCoord) string {
	return filepath.Join(outputDir, "tiles", fmt.Sprintf("%d", t.Zoom), fmt.Sprintf("%d", t.X), fmt.Sprintf("%d.webp", t.Y))
}

// TileMetaPath returns the inspect-metadata path for a native-zoom tile.
// The "4" segment is a fixed viewer-oriented namespace (spec §4.4); it is
// unrelated to t.Zoom and only ever called for zoom-0 tiles.
func TileMetaPath(outputDir string, t TileCoord) string {
	return filepath.Join(outputDir, "tiles", "4", fmt.Sprintf("%d", t.X), fmt.Sprintf("%d.meta.json", t.Y))
}

// MapWebpPath returns the per-map inspect artifact's path.
func MapWebpPath(outputDir string, id MapId) string {
	return filepath.Join(outputDir, "maps", fmt.Sprintf("%d.webp", id))
}
