// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTileSignatureDeterministic(t *testing.T) {
	t0 := time.Unix(1000, 0)
	a := &MapItem{ID: 1, ModifiedAt: t0}
	b := &MapItem{ID: 2, ModifiedAt: t0}
	tile := TileCoord{Zoom: 0, X: 3, Y: -4}

	s1 := TileSignature(tile, []*MapItem{a, b})
	s2 := TileSignature(tile, []*MapItem{b, a}) // order-independent: re-sorted by (scale, id) internally
	if s1 != s2 {
		t.Errorf("TileSignature is not independent of input order: %d != %d", s1, s2)
	}
}

func TestTileSignatureChangesWithModification(t *testing.T) {
	tile := TileCoord{Zoom: 0, X: 0, Y: 0}
	a := &MapItem{ID: 1, ModifiedAt: time.Unix(1000, 0)}
	s1 := TileSignature(tile, []*MapItem{a})

	a2 := &MapItem{ID: 1, ModifiedAt: time.Unix(2000, 0)}
	s2 := TileSignature(tile, []*MapItem{a2})

	if s1 == s2 {
		t.Error("TileSignature should change when a contributor's modification time changes")
	}
}

func TestTileSignatureChangesWithTileCoord(t *testing.T) {
	a := &MapItem{ID: 1, ModifiedAt: time.Unix(1000, 0)}
	s1 := TileSignature(TileCoord{Zoom: 0, X: 0, Y: 0}, []*MapItem{a})
	s2 := TileSignature(TileCoord{Zoom: 0, X: 1, Y: 0}, []*MapItem{a})
	if s1 == s2 {
		t.Error("TileSignature should differ for different tile coordinates")
	}
}

func TestMapSignatureChangesWithModifiedAt(t *testing.T) {
	s1 := MapSignature(1, 1000)
	s2 := MapSignature(1, 2000)
	if s1 == s2 {
		t.Error("MapSignature should change when modifiedAt changes")
	}
}

func TestWriteAndReadSignatureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles", "0", "0", "0.webp")

	if _, ok := ReadSignature(path); ok {
		t.Fatal("expected ok=false before any signature is written")
	}

	if err := WriteSignature(path, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteSignature: %v", err)
	}

	got, ok := ReadSignature(path)
	if !ok || got != 0xDEADBEEF {
		t.Errorf("ReadSignature = %d, %v; want 0xDEADBEEF, true", got, ok)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	if err := WriteAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.bin" {
		t.Errorf("directory contents = %v, want exactly [out.bin]", entries)
	}
}

func TestRemoveArtifactRemovesBothFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.webp")
	if err := WriteAtomic(path, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := WriteSignature(path, 1); err != nil {
		t.Fatal(err)
	}

	RemoveArtifact(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("artifact file still exists after RemoveArtifact")
	}
	if _, err := os.Stat(sigPath(path)); !os.IsNotExist(err) {
		t.Error("signature sidecar still exists after RemoveArtifact")
	}
}
