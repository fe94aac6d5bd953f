// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	anvilSectorSize  = 4096
	anvilHeaderBytes = 2 * anvilSectorSize // offset table + timestamp table
	anvilGridSize    = 32
)

// compressionTag identifies how a chunk's payload is compressed, per the
// byte that follows its 4-byte length prefix.
type compressionTag byte

const (
	compressGZip        compressionTag = 1
	compressZlib        compressionTag = 2
	compressNone        compressionTag = 3
	compressLZ4         compressionTag = 4
	compressCustomZstd  compressionTag = 5
)

// AnvilRegion is an open Anvil region file: a 32x32 grid of up to 1024
// independently compressed chunks.
type AnvilRegion struct {
	f *os.File
}

// OpenAnvilRegion opens path as an Anvil region file. The header is read
// later, by ForEachChunk.
func OpenAnvilRegion(path string) (*AnvilRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &AnvilRegion{f: f}, nil
}

func (r *AnvilRegion) Close() error {
	return r.f.Close()
}

// ChunkVisitor is called once per present chunk with its decompressed NBT
// payload. Returning an error aborts the scan of this region file.
type ChunkVisitor func(cx, cz int, data []byte) error

// ForEachChunk decompresses and visits every present chunk in the region.
// A chunk that fails to decompress or whose compression tag is unknown is
// logged and skipped; it does not abort the scan of the rest of the file.
func (r *AnvilRegion) ForEachChunk(log *Logger, visit ChunkVisitor) error {
	header := make([]byte, anvilHeaderBytes)
	if _, err := io.ReadFull(r.f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil // empty/truncated header: treat as no chunks
		}
		return fmt.Errorf("anvil: reading header: %w", err)
	}

	for i := 0; i < anvilGridSize*anvilGridSize; i++ {
		entry := header[i*4 : i*4+4]
		offsetSectors := uint32(entry[0])<<16 | uint32(entry[1])<<8 | uint32(entry[2])
		sectorCount := entry[3]
		if offsetSectors == 0 && sectorCount == 0 {
			continue // chunk not present
		}

		cx, cz := i%anvilGridSize, i/anvilGridSize
		data, err := r.readChunk(int64(offsetSectors) * anvilSectorSize)
		if err != nil {
			if log != nil {
				log.Warnf("anvil: chunk (%d,%d) in %s: %v", cx, cz, r.f.Name(), err)
			}
			continue
		}
		if err := visit(cx, cz, data); err != nil {
			return err
		}
	}
	return nil
}

func (r *AnvilRegion) readChunk(offset int64) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := r.f.ReadAt(lenBuf[:], offset); err != nil {
		return nil, fmt.Errorf("reading length prefix: %w", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length == 0 {
		return nil, fmt.Errorf("zero-length chunk")
	}

	payload := make([]byte, length)
	if _, err := r.f.ReadAt(payload, offset+4); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	tag := compressionTag(payload[0])
	body := payload[1:]
	return decompressChunk(tag, body)
}

func decompressChunk(tag compressionTag, body []byte) ([]byte, error) {
	switch tag {
	case compressGZip:
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case compressZlib:
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case compressNone:
		return body, nil
	case compressLZ4:
		zr := lz4.NewReader(bytes.NewReader(body))
		return io.ReadAll(zr)
	case compressCustomZstd:
		zr, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}
