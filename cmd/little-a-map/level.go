// SPDX-License-Identifier: MIT

package main

import (
	"compress/gzip"
	"os"
)

// LevelData holds the handful of level.dat fields the renderer consumes
// (spec §6): the world spawn position, used as the viewer's initial map
// center, and DataVersion, used to select the color palette.
type LevelData struct {
	SpawnX, SpawnZ int32
	DataVersion    int
}

// ReadLevelData parses <SAVE_DIR>/level.dat. A missing or unreadable
// level.dat is fatal: without DataVersion there is no sound palette to
// decode maps with.
func ReadLevelData(path string) (*LevelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewFatalSetupError("opening level.dat: %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, NewFatalSetupError("level.dat is not gzip-compressed NBT: %v", err)
	}
	defer zr.Close()

	_, root, err := ParseNBT(zr)
	if err != nil {
		return nil, NewFatalSetupError("parsing level.dat: %v", err)
	}

	data, ok := root.Compound("Data")
	if !ok {
		return nil, NewFatalSetupError("level.dat has no Data compound")
	}

	ld := &LevelData{}
	if x, ok := data.Int64("SpawnX"); ok {
		ld.SpawnX = int32(x)
	}
	if z, ok := data.Int64("SpawnZ"); ok {
		ld.SpawnZ = int32(z)
	}
	if v, ok := data.Int64("DataVersion"); ok {
		ld.DataVersion = int(v)
	} else {
		return nil, NewFatalSetupError("level.dat is missing DataVersion")
	}

	return ld, nil
}
