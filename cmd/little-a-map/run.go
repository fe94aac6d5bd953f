// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Config holds the resolved CLI configuration (spec §6).
type Config struct {
	SaveDir   string
	OutputDir string
	Force     bool
	Quiet     bool
	LogLevel  Level
}

// Summary is the information printed to stdout on completion (spec §6).
type Summary struct {
	MapsFound     int
	BlockRegions  int
	EntityRegions int
	Players       int
	DiscoveryTime time.Duration
	TilesRendered int
	MapsRendered  int
	TilesPruned   int
	MapsPruned    int
	RenderTime    time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"Found %d map items across %d block regions, %d entity regions, and %d players in %.2fs\n"+
			"Rendered %d tiles and %d maps and pruned %d tiles and %d maps in %.2fs",
		s.MapsFound, s.BlockRegions, s.EntityRegions, s.Players, s.DiscoveryTime.Seconds(),
		s.TilesRendered, s.MapsRendered, s.TilesPruned, s.MapsPruned, s.RenderTime.Seconds(),
	)
}

// Run executes the full pipeline end to end: source index, map-ID search,
// map decode, tile compositing, and cache & pruning (spec §2).
func Run(ctx context.Context, cfg Config, log *Logger, reporter Reporter) (Summary, error) {
	var summary Summary
	discoveryStart := time.Now()

	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return summary, NewFatalSetupError("creating output directory: %v", err)
	}

	idx, err := BuildSourceIndex(cfg.SaveDir)
	if err != nil {
		return summary, err
	}
	summary.BlockRegions = len(idx.Regions)
	summary.EntityRegions = len(idx.Entities)
	summary.Players = len(idx.PlayerData)

	level, err := ReadLevelData(filepath.Join(cfg.SaveDir, "level.dat"))
	if err != nil {
		return summary, err
	}
	palette := PaletteFor(level.DataVersion)

	numWorkers := runtime.NumCPU()

	scanTotal := len(idx.Regions) + len(idx.Entities) + len(idx.PlayerData)
	scanPhase := reporter.AddPhase("scan", scanTotal)
	ids, err := ScanMapIDs(ctx, log, idx, numWorkers, scanPhase)
	scanPhase.Done()
	if err != nil {
		return summary, err
	}
	summary.MapsFound = len(ids)

	decodePhase := reporter.AddPhase("decode", len(ids))
	decodedMaps, err := decodeMaps(ctx, log, cfg.SaveDir, level.DataVersion, ids, numWorkers, decodePhase)
	decodePhase.Done()
	if err != nil {
		return summary, err
	}

	summary.DiscoveryTime = time.Since(discoveryStart)
	renderStart := time.Now()

	zoomAssignments := buildZoomAssignments(decodedMaps)

	renderTotal := 0
	for _, a := range zoomAssignments {
		renderTotal += len(a)
	}
	compositePhase := reporter.AddPhase("composite", renderTotal)
	rendered, maxStacked, liveTiles, err := renderTiles(cfg, log, zoomAssignments, palette, compositePhase)
	compositePhase.Done()
	if err != nil {
		return summary, err
	}
	summary.TilesRendered = rendered

	artifactPhase := reporter.AddPhase("artifacts", len(decodedMaps))
	renderedMaps, liveMapIDs, err := renderMapArtifacts(cfg, log, decodedMaps, palette, artifactPhase)
	artifactPhase.Done()
	if err != nil {
		return summary, err
	}
	summary.MapsRendered = renderedMaps

	prunedTiles, prunedMaps, err := PruneOutputs(cfg.OutputDir, liveTiles, liveMapIDs)
	if err != nil {
		return summary, fmt.Errorf("pruning: %w", err)
	}
	summary.TilesPruned = prunedTiles
	summary.MapsPruned = prunedMaps

	if err := RenderIndexHTML(cfg.OutputDir, level, maxStacked); err != nil {
		return summary, fmt.Errorf("writing index.html: %w", err)
	}

	catalog := BuildBannerCatalog(decodedMaps)
	if err := writeBannersJSON(cfg.OutputDir, catalog); err != nil {
		return summary, fmt.Errorf("writing banners.json: %w", err)
	}

	summary.RenderTime = time.Since(renderStart)

	stats := NewStats()
	stats.Record(summary, log)
	if err := stats.WriteFile(cfg.OutputDir); err != nil {
		return summary, fmt.Errorf("writing metrics.prom: %w", err)
	}

	return summary, nil
}

func decodeMaps(ctx context.Context, log *Logger, saveDir string, dataVersion int, ids []MapId, numWorkers int, reporter PhaseReporter) ([]*MapItem, error) {
	tasks := make(chan MapId, len(ids))
	for _, id := range ids {
		tasks <- id
	}
	close(tasks)

	results := make(chan *MapItem, len(ids))
	err := runWorkers(ctx, numWorkers, tasks, func(workerCtx context.Context, id MapId) error {
		defer reporter.IncrBy(1)
		item, err := DecodeMapItem(saveDir, id, dataVersion)
		if err != nil {
			var softErr *SoftItemError
			switch {
			case os.IsNotExist(err):
				log.Warnf("%v", NewSoftItemError(id, err))
			case errors.As(err, &softErr):
				log.Warnf("%v", softErr)
			default:
				log.Errorf("map %d: %v", id, err)
			}
			results <- nil
			return nil
		}
		if item.Dimension != DimensionOverworld {
			if item.Dimension == DimensionUnknown {
				log.Warnf("map %d: unknown dimension, not rendered", id)
			}
			results <- nil
			return nil
		}
		results <- item
		return nil
	})
	close(results)
	if err != nil {
		return nil, err
	}

	maps := make([]*MapItem, 0, len(ids))
	for item := range results {
		if item != nil {
			maps = append(maps, item)
		}
	}
	return maps, nil
}

// buildZoomAssignments computes the native-zoom tile assignment (spec
// §4.4) and folds it upward into zooms 1..3, where a mip tile's
// contributor list is the (deduplicated, re-sorted) union of its four
// children's contributors.
func buildZoomAssignments(maps []*MapItem) [4]map[TileCoord][]*MapItem {
	var zooms [4]map[TileCoord][]*MapItem
	zooms[0] = AssignTiles(maps)

	for z := 1; z <= 3; z++ {
		byID := make(map[TileCoord]map[MapId]*MapItem)
		for child, contributors := range zooms[z-1] {
			parent, _ := child.Parent()
			if byID[parent] == nil {
				byID[parent] = make(map[MapId]*MapItem)
			}
			for _, m := range contributors {
				byID[parent][m.ID] = m
			}
		}
		zooms[z] = make(map[TileCoord][]*MapItem, len(byID))
		for parent, ms := range byID {
			contributors := make([]*MapItem, 0, len(ms))
			for _, m := range ms {
				contributors = append(contributors, m)
			}
			sortAscendingScaleID(contributors)
			zooms[z][parent] = contributors
		}
	}

	return zooms
}

// renderTiles composites every assigned tile across all four zoom levels,
// finest first so each mip level's children images are in memory when
// needed, encoding and writing to disk only those whose signature changed
// (or --force), per spec §4.5's incremental logic. A WebP encode failure is
// soft-per-tile (spec §7): it is logged and tallied, the old tile (if any)
// is left in place with its signature untouched, and the remaining tiles
// continue to render.
func renderTiles(cfg Config, log *Logger, zoomAssignments [4]map[TileCoord][]*MapItem, palette []color.RGBA, reporter PhaseReporter) (rendered int, maxStacked int, live map[TileCoord]bool, err error) {
	var images [4]map[TileCoord]*image.RGBA
	live = make(map[TileCoord]bool)
	encoder := NewWebPEncoder()

	for z := 0; z <= 3; z++ {
		images[z] = make(map[TileCoord]*image.RGBA)
		for tile, ascending := range zoomAssignments[z] {
			var img *image.RGBA
			var written bool
			if z == 0 {
				img, written = CompositeTile(tile, PaintOrder(ascending), palette)
			} else {
				children := make(map[int]*image.RGBA, 4)
				for q := 0; q < 4; q++ {
					child := TileCoord{Zoom: tile.Zoom - 1, X: tile.X*2 + int32(q%2), Y: tile.Y*2 + int32(q/2)}
					if cimg, ok := images[z-1][child]; ok {
						children[q] = cimg
					}
				}
				img, written = Mipmap(children)
			}

			reporter.IncrBy(1)
			if len(ascending) > maxStacked {
				maxStacked = len(ascending)
			}
			if !written {
				continue
			}
			images[z][tile] = img
			live[tile] = true

			path := TileWebpPath(cfg.OutputDir, tile)
			sig := TileSignature(tile, ascending)
			if !cfg.Force {
				if existing, ok := ReadSignature(path); ok && existing == sig {
					continue
				}
			}

			var buf bytes.Buffer
			if err := encoder.Encode(&buf, img, true); err != nil {
				log.Warnf("%v", NewSoftTileError(tile, err))
				continue
			}
			if err := WriteAtomic(path, buf.Bytes()); err != nil {
				return rendered, maxStacked, live, fmt.Errorf("writing tile %s: %w", tile, err)
			}
			if err := WriteSignature(path, sig); err != nil {
				return rendered, maxStacked, live, fmt.Errorf("writing signature for tile %s: %w", tile, err)
			}
			if z == 0 {
				if err := writeTileMeta(cfg.OutputDir, tile, PaintOrder(ascending)); err != nil {
					return rendered, maxStacked, live, err
				}
			}
			rendered++
		}
	}

	return rendered, maxStacked, live, nil
}

type tileMeta struct {
	Maps []MapId `json:"maps"`
}

func writeTileMeta(outputDir string, tile TileCoord, paintOrder []*MapItem) error {
	ids := make([]MapId, len(paintOrder))
	for i, m := range paintOrder {
		ids[i] = m.ID
	}
	data, err := json.Marshal(tileMeta{Maps: ids})
	if err != nil {
		return err
	}
	return WriteAtomic(TileMetaPath(outputDir, tile), data)
}

// renderMapArtifacts renders each map's standalone artifact. A WebP encode
// failure here is the same soft-per-tile case as renderTiles (spec §7): the
// map's old artifact, if any, is left in place and rendering continues.
func renderMapArtifacts(cfg Config, log *Logger, maps []*MapItem, palette []color.RGBA, reporter PhaseReporter) (rendered int, live map[MapId]bool, err error) {
	live = make(map[MapId]bool, len(maps))
	encoder := NewWebPEncoder()

	for _, m := range maps {
		reporter.IncrBy(1)
		live[m.ID] = true

		path := MapWebpPath(cfg.OutputDir, m.ID)
		sig := MapSignature(m.ID, m.ModifiedAt.UnixNano())
		if !cfg.Force {
			if existing, ok := ReadSignature(path); ok && existing == sig {
				continue
			}
		}

		img := RenderMapArtifact(m, palette)
		var buf bytes.Buffer
		if err := encoder.Encode(&buf, img, true); err != nil {
			log.Warnf("%v", NewSoftItemError(m.ID, err))
			continue
		}
		if err := WriteAtomic(path, buf.Bytes()); err != nil {
			return rendered, live, fmt.Errorf("writing map %d: %w", m.ID, err)
		}
		if err := WriteSignature(path, sig); err != nil {
			return rendered, live, fmt.Errorf("writing signature for map %d: %w", m.ID, err)
		}
		rendered++
	}

	return rendered, live, nil
}

func writeBannersJSON(outputDir string, catalog *geojson.FeatureCollection) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return WriteAtomic(filepath.Join(outputDir, "banners.json"), data)
}
