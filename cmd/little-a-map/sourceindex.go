// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// SourceFile is one candidate input file discovered by the source index,
// paired with its last-modified time so later phases can build cache
// signatures without re-statting the file.
type SourceFile struct {
	Path       string
	ModifiedAt time.Time
}

// SourceIndex is the complete set of files a save directory contributes to
// the pipeline, split by the role each plays in map-ID search.
type SourceIndex struct {
	Regions    []SourceFile // region/*.mca: block NBT
	Entities   []SourceFile // entities/*.mca: entity NBT
	PlayerData []SourceFile // playerdata/*.dat
	LevelDat   SourceFile   // level.dat, if present
}

var anvilRegionName = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// BuildSourceIndex enumerates a save directory's region files, entity
// region files, and player data files (spec §4.1). A missing save
// directory is fatal; missing entities/ or playerdata/ subdirectories are
// not — they simply contribute no files.
func BuildSourceIndex(saveDir string) (*SourceIndex, error) {
	if info, err := os.Stat(saveDir); err != nil || !info.IsDir() {
		return nil, NewFatalSetupError("save directory %q is not accessible: %v", saveDir, err)
	}

	idx := &SourceIndex{}

	regions, err := listAnvilFiles(filepath.Join(saveDir, "region"))
	if err != nil {
		return nil, err
	}
	idx.Regions = regions

	entities, err := listAnvilFiles(filepath.Join(saveDir, "entities"))
	if err != nil {
		return nil, err
	}
	idx.Entities = entities

	players, err := listFilesWithSuffix(filepath.Join(saveDir, "playerdata"), ".dat")
	if err != nil {
		return nil, err
	}
	idx.PlayerData = players

	levelPath := filepath.Join(saveDir, "level.dat")
	if info, err := os.Stat(levelPath); err == nil {
		idx.LevelDat = SourceFile{Path: levelPath, ModifiedAt: info.ModTime()}
	}

	return idx, nil
}

// listAnvilFiles returns every r.<rx>.<rz>.mca file in dir, sorted by path
// for deterministic downstream iteration. A missing dir yields an empty,
// non-error result.
func listAnvilFiles(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []SourceFile
	for _, e := range entries {
		if e.IsDir() || !anvilRegionName.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, SourceFile{Path: filepath.Join(dir, e.Name()), ModifiedAt: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func listFilesWithSuffix(dir, suffix string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []SourceFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != suffix {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, SourceFile{Path: filepath.Join(dir, e.Name()), ModifiedAt: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
