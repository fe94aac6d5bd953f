// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"sort"
	"sync"
)

type sourceKind int

const (
	kindRegion sourceKind = iota
	kindEntities
	kindPlayer
)

type scanTask struct {
	file SourceFile
	kind sourceKind
}

// mapIDSet is the concurrent collection phase A's workers merge their
// per-file findings into (spec §5: "a lock-free or locked concurrent
// set").
type mapIDSet struct {
	mu  sync.Mutex
	ids map[MapId]bool
}

func newMapIDSet() *mapIDSet { return &mapIDSet{ids: make(map[MapId]bool)} }

func (s *mapIDSet) addAll(ids []MapId) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id] = true
	}
}

func (s *mapIDSet) sortedSlice() []MapId {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MapId, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ScanMapIDs implements spec §4.2: in parallel, open every region, entity
// region, and player data file, walk its NBT for filled_map items, and
// return the deduplicated union of referenced map IDs. A file that fails
// to open or decompress is fatal-per-file (spec §7): logged and skipped,
// never cancels the scan of the remaining files.
func ScanMapIDs(ctx context.Context, log *Logger, idx *SourceIndex, numWorkers int, reporter PhaseReporter) ([]MapId, error) {
	set := newMapIDSet()

	total := len(idx.Regions) + len(idx.Entities) + len(idx.PlayerData)
	tasks := make(chan scanTask, total)
	for _, f := range idx.Regions {
		tasks <- scanTask{file: f, kind: kindRegion}
	}
	for _, f := range idx.Entities {
		tasks <- scanTask{file: f, kind: kindEntities}
	}
	for _, f := range idx.PlayerData {
		tasks <- scanTask{file: f, kind: kindPlayer}
	}
	close(tasks)

	err := runWorkers(ctx, numWorkers, tasks, func(workerCtx context.Context, t scanTask) error {
		defer reporter.IncrBy(1)
		switch t.kind {
		case kindRegion, kindEntities:
			scanAnvilFile(log, t.file.Path, set)
		case kindPlayer:
			scanPlayerFile(log, t.file.Path, set)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return set.sortedSlice(), nil
}

func scanAnvilFile(log *Logger, path string, set *mapIDSet) {
	region, err := OpenAnvilRegion(path)
	if err != nil {
		log.Errorf("%v", NewFatalFileError(path, err))
		return
	}
	defer region.Close()

	err = region.ForEachChunk(log, func(cx, cz int, data []byte) error {
		_, root, err := ParseNBT(bytes.NewReader(data))
		if err != nil {
			log.Warnf("nbt: chunk (%d,%d) in %s: %v", cx, cz, path, err)
			return nil
		}
		set.addAll(ExtractMapIDs(root))
		return nil
	})
	if err != nil {
		log.Errorf("%v", NewFatalFileError(path, err))
	}
}

func scanPlayerFile(log *Logger, path string, set *mapIDSet) {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("%v", NewFatalFileError(path, err))
		return
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		log.Errorf("%v", NewFatalFileError(path, err))
		return
	}
	defer zr.Close()

	_, root, err := ParseNBT(zr)
	if err != nil {
		log.Errorf("%v", NewFatalFileError(path, err))
		return
	}
	set.addAll(ExtractMapIDs(root))
}
