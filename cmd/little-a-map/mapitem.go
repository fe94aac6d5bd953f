// SPDX-License-Identifier: MIT

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// MapId is the identifier of a filled map item, as stored in the save.
type MapId uint32

// Dimension restricts rendering to the overworld (spec §3).
type Dimension int

const (
	DimensionOverworld Dimension = iota
	DimensionNether
	DimensionEnd
	DimensionUnknown
)

// Banner is an in-world marker carried by a map.
type Banner struct {
	X, Y, Z int32
	Color   string
	Name    string // empty if unnamed
}

// WorldPos identifies a banner's physical position; two banners are the
// same physical banner iff their WorldPos are equal (spec §3).
func (b Banner) WorldPos() [3]int32 { return [3]int32{b.X, b.Y, b.Z} }

// MapItem is the immutable, fully decoded record for one map item.
type MapItem struct {
	ID         MapId
	Scale      int
	CenterX    int32
	CenterZ    int32
	Dimension  Dimension
	Colors     [16384]byte
	Banners    []Banner
	ModifiedAt time.Time
}

// EdgeBlocks returns the world-space edge length of the map's coverage
// square: 128 * 2^scale.
func (m *MapItem) EdgeBlocks() int64 {
	return 128 << uint(m.Scale)
}

var dyeColorByIndex = [16]string{
	"white", "orange", "magenta", "light_blue",
	"yellow", "lime", "pink", "gray",
	"light_gray", "cyan", "purple", "blue",
	"brown", "green", "red", "black",
}

// MapDataPath returns the conventional location of a map's standalone file
// within the save directory.
func MapDataPath(saveDir string, id MapId) string {
	return filepath.Join(saveDir, "data", fmt.Sprintf("map_%d.dat", id))
}

// DecodeMapItem reads and decodes a standalone map_<id>.dat file (spec
// §4.3). A missing file is reported via os.IsNotExist on the returned
// error so callers can treat it as a soft, non-fatal "absent" map.
func DecodeMapItem(saveDir string, id MapId, dataVersion int) (*MapItem, error) {
	path := MapDataPath(saveDir, id)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", id, err)
	}
	defer zr.Close()

	_, root, err := ParseNBT(zr)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", id, err)
	}

	data, ok := root.Compound("data")
	if !ok {
		// Some map files keep the fields at the document root rather than
		// nested under a "data" compound; accept both.
		data = root
	}

	item := &MapItem{ID: id, ModifiedAt: info.ModTime()}

	if scale, ok := data.Int64("scale"); ok {
		item.Scale = int(scale)
	}
	if item.Scale < 0 || item.Scale > 4 {
		return nil, fmt.Errorf("map %d: out-of-range scale %d", id, item.Scale)
	}

	if x, ok := data.Int64("xCenter"); ok {
		item.CenterX = int32(x)
	}
	if z, ok := data.Int64("zCenter"); ok {
		item.CenterZ = int32(z)
	}

	item.Dimension = decodeDimension(data)

	if colors, ok := data.ByteArray("colors"); ok {
		copy(item.Colors[:], colors)
	}

	if banners, ok := data.List("banners"); ok {
		for _, bt := range banners.Items {
			bc, ok := bt.(Compound)
			if !ok {
				continue
			}
			item.Banners = append(item.Banners, decodeBanner(bc))
		}
	}

	if err := validateTileRange(item); err != nil {
		return nil, NewSoftItemError(id, err)
	}

	return item, nil
}

func decodeDimension(data Compound) Dimension {
	if v, ok := data.tag("dimension"); ok {
		switch d := v.(type) {
		case StringTag:
			switch string(d) {
			case "minecraft:overworld", "overworld", "normal":
				return DimensionOverworld
			case "minecraft:the_nether", "the_nether", "nether":
				return DimensionNether
			case "minecraft:the_end", "the_end", "end":
				return DimensionEnd
			default:
				return DimensionUnknown
			}
		default:
			if n, ok := AsInt64(v); ok {
				switch n {
				case 0:
					return DimensionOverworld
				case -1:
					return DimensionNether
				case 1:
					return DimensionEnd
				default:
					return DimensionUnknown
				}
			}
		}
	}
	return DimensionUnknown
}

func decodeBanner(bc Compound) Banner {
	var b Banner
	if pos, ok := bc.Compound("Pos"); ok {
		if x, ok := pos.Int64("X"); ok {
			b.X = int32(x)
		}
		if y, ok := pos.Int64("Y"); ok {
			b.Y = int32(y)
		}
		if z, ok := pos.Int64("Z"); ok {
			b.Z = int32(z)
		}
	}
	if color, ok := bc.String("Color"); ok {
		b.Color = color
	} else if n, ok := bc.Int64("Color"); ok && n >= 0 && n < 16 {
		b.Color = dyeColorByIndex[n]
	}
	if name, ok := bc.String("Name"); ok {
		b.Name = extractTextComponent(name)
	}
	return b
}

// extractTextComponent pulls the plain-text content out of a JSON text
// component (e.g. `{"text":"Home"}`), falling back to the raw string for
// legacy saves that store banner names unquoted.
func extractTextComponent(raw string) string {
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj.Text != "" {
		return obj.Text
	}
	var plain string
	if err := json.Unmarshal([]byte(raw), &plain); err == nil {
		return plain
	}
	return raw
}

// validateTileRange rejects maps whose coverage square would address a
// tile coordinate outside int32 range (spec §9 open question): logged and
// excluded rather than guessed at.
func validateTileRange(m *MapItem) error {
	edge := m.EdgeBlocks()
	half := edge / 2
	minX, maxX := int64(m.CenterX)-half, int64(m.CenterX)+half
	minZ, maxZ := int64(m.CenterZ)-half, int64(m.CenterZ)+half
	for _, v := range []int64{minX, maxX, minZ, maxZ} {
		tile := floorDivInt64(v, 128)
		if tile < math.MinInt32 || tile > math.MaxInt32 {
			return fmt.Errorf("map %d: coverage square addresses out-of-range tile coordinate", m.ID)
		}
	}
	return nil
}

func floorDivInt64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
