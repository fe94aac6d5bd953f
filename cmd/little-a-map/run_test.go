// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func buildChestChunkNBT(t *testing.T, mapIDs ...int32) []byte {
	t.Helper()
	var items bytes.Buffer
	for _, id := range mapIDs {
		writeNBTCompoundListItem(&items, func(bc *bytes.Buffer) {
			bc.WriteByte(byte(TagString))
			writeNBTString(bc, "id")
			writeNBTString(bc, filledMapID)
			writeNBTCompoundField(bc, "components", func(c *bytes.Buffer) {
				c.WriteByte(byte(TagInt))
				writeNBTString(c, "minecraft:map_id")
				binary.Write(c, binary.BigEndian, id)
			})
		})
	}

	var chest bytes.Buffer
	chest.WriteByte(byte(TagString))
	writeNBTString(&chest, "id")
	writeNBTString(&chest, "minecraft:chest")
	chest.WriteByte(byte(TagList))
	writeNBTString(&chest, "Items")
	chest.WriteByte(byte(TagCompound))
	binary.Write(&chest, binary.BigEndian, int32(len(mapIDs)))
	chest.Write(items.Bytes())

	var root bytes.Buffer
	root.WriteByte(byte(TagCompound))
	writeNBTString(&root, "")
	root.WriteByte(byte(TagList))
	writeNBTString(&root, "block_entities")
	root.WriteByte(byte(TagCompound))
	binary.Write(&root, binary.BigEndian, int32(1))
	writeNBTCompoundListItem(&root, func(buf *bytes.Buffer) {
		buf.Write(chest.Bytes())
	})
	root.WriteByte(byte(TagEnd)) // end root

	return root.Bytes()
}

func setupTestSave(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeGzippedLevelDat(t, filepath.Join(dir, "level.dat"), 0, 0, 3700, true)

	chunk := buildChestChunkNBT(t, 1, 2) // map 2 is referenced but never decoded (no map_2.dat)
	writeAnvilRegion(t, filepath.Join(dir, "region", "r.0.0.mca"), 0, 0, chunk)

	var colors [16384]byte
	for i := range colors {
		colors[i] = 6 // opaque, base index 1 shade 2
	}
	writeGzippedMapDat(t, MapDataPath(dir, 1), 0, 64, 64, "minecraft:overworld", colors, nil)

	return dir
}

func newTestLogger() *Logger {
	return NewLogger(log.New(os.Stderr, "", 0), LevelError)
}

func TestRunEndToEnd(t *testing.T) {
	saveDir := setupTestSave(t)
	outputDir := t.TempDir()

	cfg := Config{SaveDir: saveDir, OutputDir: outputDir}
	summary, err := Run(context.Background(), cfg, newTestLogger(), NewQuietReporter())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.MapsFound != 2 {
		t.Errorf("MapsFound = %d, want 2 (including the referenced-but-missing map)", summary.MapsFound)
	}
	if summary.BlockRegions != 1 {
		t.Errorf("BlockRegions = %d, want 1", summary.BlockRegions)
	}
	if summary.MapsRendered != 1 {
		t.Errorf("MapsRendered = %d, want 1 (map 2 was skipped as absent)", summary.MapsRendered)
	}
	if summary.TilesRendered != 4 {
		t.Errorf("TilesRendered = %d, want 4 (one tile at each of zoom 0..3)", summary.TilesRendered)
	}

	for _, p := range []string{
		TileWebpPath(outputDir, TileCoord{Zoom: 0, X: 0, Y: 0}),
		TileWebpPath(outputDir, TileCoord{Zoom: 1, X: 0, Y: 0}),
		TileWebpPath(outputDir, TileCoord{Zoom: 2, X: 0, Y: 0}),
		TileWebpPath(outputDir, TileCoord{Zoom: 3, X: 0, Y: 0}),
		MapWebpPath(outputDir, 1),
		filepath.Join(outputDir, "banners.json"),
		filepath.Join(outputDir, "index.html"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected output file %s to exist: %v", p, err)
		}
	}

	if _, err := os.Stat(MapWebpPath(outputDir, 2)); !os.IsNotExist(err) {
		t.Errorf("maps/2.webp should not exist (map 2 was never decoded)")
	}
}

func TestRunEmptyWorldProducesEmptyOutputs(t *testing.T) {
	saveDir := t.TempDir()
	writeGzippedLevelDat(t, filepath.Join(saveDir, "level.dat"), 0, 0, 3700, true)
	outputDir := t.TempDir()

	cfg := Config{SaveDir: saveDir, OutputDir: outputDir}
	summary, err := Run(context.Background(), cfg, newTestLogger(), NewQuietReporter())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.MapsFound != 0 || summary.TilesRendered != 0 || summary.MapsRendered != 0 {
		t.Errorf("summary = %+v, want all-zero map/tile counts for an empty world", summary)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "banners.json")); err != nil {
		t.Errorf("expected banners.json to still be written for an empty world: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "index.html")); err != nil {
		t.Errorf("expected index.html to still be written for an empty world: %v", err)
	}
}

func TestRunIsIncrementalOnSecondInvocation(t *testing.T) {
	saveDir := setupTestSave(t)
	outputDir := t.TempDir()
	cfg := Config{SaveDir: saveDir, OutputDir: outputDir}

	if _, err := Run(context.Background(), cfg, newTestLogger(), NewQuietReporter()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	sigBefore, ok := ReadSignature(TileWebpPath(outputDir, TileCoord{Zoom: 0, X: 0, Y: 0}))
	if !ok {
		t.Fatal("expected a signature sidecar after the first run")
	}

	summary2, err := Run(context.Background(), cfg, newTestLogger(), NewQuietReporter())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary2.TilesRendered != 0 || summary2.MapsRendered != 0 {
		t.Errorf("second run rendered %d tiles and %d maps, want 0 (nothing changed)", summary2.TilesRendered, summary2.MapsRendered)
	}

	sigAfter, ok := ReadSignature(TileWebpPath(outputDir, TileCoord{Zoom: 0, X: 0, Y: 0}))
	if !ok || sigAfter != sigBefore {
		t.Errorf("signature changed across an unchanged re-run: %d -> %d", sigBefore, sigAfter)
	}
}
