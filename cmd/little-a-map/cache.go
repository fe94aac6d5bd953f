// SPDX-License-Identifier: MIT

package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// toolVersion is hashed into every signature (spec §9: "include a
// tool-version byte... to achieve [cache invalidation] automatically").
// Bump it whenever the signature format or the rendering rules change.
const toolVersion byte = 1

// TileSignature is an opaque fingerprint of everything that determines a
// tile's rendered bytes: the tool version, the tile's coordinates, and
// the (MapId, modified-at) pairs of its contributors, sorted into
// compositing order (scale ascending, then id ascending).
func TileSignature(tile TileCoord, ascendingContributors []*MapItem) uint64 {
	h := xxhash.New()
	h.Write([]byte{toolVersion})

	var coordBuf [13]byte
	coordBuf[0] = tile.Zoom
	binary.BigEndian.PutUint32(coordBuf[1:5], uint32(tile.X))
	binary.BigEndian.PutUint32(coordBuf[5:9], uint32(tile.Y))
	h.Write(coordBuf[:9])

	type pair struct {
		scale int
		id    MapId
		nanos int64
	}
	pairs := make([]pair, len(ascendingContributors))
	for i, m := range ascendingContributors {
		pairs[i] = pair{scale: m.Scale, id: m.ID, nanos: m.ModifiedAt.UnixNano()}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].scale != pairs[j].scale {
			return pairs[i].scale < pairs[j].scale
		}
		return pairs[i].id < pairs[j].id
	})

	var buf [12]byte
	for _, p := range pairs {
		binary.BigEndian.PutUint32(buf[0:4], uint32(p.id))
		binary.BigEndian.PutUint64(buf[4:12], uint64(p.nanos))
		h.Write(buf[:])
	}

	return h.Sum64()
}

// MapSignature fingerprints a standalone per-map artifact, keyed by the
// map file's own modification time (spec §3: MapRenderArtifact's cache key
// is the map's source file modification timestamp).
func MapSignature(id MapId, modifiedAt int64) uint64 {
	h := xxhash.New()
	h.Write([]byte{toolVersion})
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(id))
	binary.BigEndian.PutUint64(buf[4:12], uint64(modifiedAt))
	h.Write(buf[:])
	return h.Sum64()
}

func sigPath(outputPath string) string { return outputPath + ".sig" }

// ReadSignature reads a sidecar .sig file's raw big-endian uint64. A
// missing or malformed sidecar reports ok=false so the caller always
// re-renders rather than trusting a partially-written cache entry.
func ReadSignature(outputPath string) (sig uint64, ok bool) {
	data, err := os.ReadFile(sigPath(outputPath))
	if err != nil || len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteAtomic writes data to path via a uniquely-named temp file in the
// same directory followed by os.Rename, matching the teacher's
// RasterWriter.Close atomic-rename pattern (cmd/tilerank-builder/raster.go)
// so concurrent workers writing different tiles never collide and a
// cancelled run never leaves a half-written file at the final path.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// WriteSignature persists sig as a sidecar .sig file next to outputPath,
// atomically.
func WriteSignature(outputPath string, sig uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sig)
	return WriteAtomic(sigPath(outputPath), buf[:])
}

// RemoveArtifact deletes outputPath and its sidecar signature, ignoring
// not-exist errors.
func RemoveArtifact(outputPath string) {
	os.Remove(outputPath)
	os.Remove(sigPath(outputPath))
}

