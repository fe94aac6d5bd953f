// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Stats mirrors Summary as Prometheus gauges, dumped to a text-exposition
// file at the end of a run rather than served over HTTP: little-a-map is a
// one-shot batch job, not a daemon, so there is no listener for
// promhttp.Handler (the teacher's own use of client_golang, in
// cmd/webserver/main.go) to attach to. A scrape-free text dump lets an
// operator still feed a run's metrics into a Prometheus pushgateway or
// node_exporter textfile collector.
type Stats struct {
	registry *prometheus.Registry

	mapsFound     prometheus.Gauge
	tilesRendered prometheus.Gauge
	mapsRendered  prometheus.Gauge
	tilesPruned   prometheus.Gauge
	mapsPruned    prometheus.Gauge
	warnings      prometheus.Gauge
	errors        prometheus.Gauge
	discoverySecs prometheus.Gauge
	renderSecs    prometheus.Gauge
}

func NewStats() *Stats {
	s := &Stats{registry: prometheus.NewRegistry()}
	ns := "little_a_map"

	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: name, Help: help})
		s.registry.MustRegister(g)
		return g
	}

	s.mapsFound = gauge("maps_found", "Distinct map items referenced anywhere in the save.")
	s.tilesRendered = gauge("tiles_rendered", "Tiles whose WebP bytes were (re)encoded this run.")
	s.mapsRendered = gauge("maps_rendered", "Per-map artifacts whose WebP bytes were (re)encoded this run.")
	s.tilesPruned = gauge("tiles_pruned", "Stale tile artifacts deleted this run.")
	s.mapsPruned = gauge("maps_pruned", "Stale per-map artifacts deleted this run.")
	s.warnings = gauge("warnings_total", "Soft, non-fatal problems logged this run.")
	s.errors = gauge("errors_total", "Fatal-per-file problems logged this run.")
	s.discoverySecs = gauge("discovery_duration_seconds", "Wall time spent on source indexing, map-id search, and decode.")
	s.renderSecs = gauge("render_duration_seconds", "Wall time spent compositing, encoding, and pruning.")

	return s
}

// Record copies summary and the logger's soft-error tallies into the
// registered gauges.
func (s *Stats) Record(summary Summary, log *Logger) {
	s.mapsFound.Set(float64(summary.MapsFound))
	s.tilesRendered.Set(float64(summary.TilesRendered))
	s.mapsRendered.Set(float64(summary.MapsRendered))
	s.tilesPruned.Set(float64(summary.TilesPruned))
	s.mapsPruned.Set(float64(summary.MapsPruned))
	s.warnings.Set(float64(log.WarnCount()))
	s.errors.Set(float64(log.ErrorCount()))
	s.discoverySecs.Set(summary.DiscoveryTime.Seconds())
	s.renderSecs.Set(summary.RenderTime.Seconds())
}

// WriteFile renders every registered metric in the Prometheus text
// exposition format to <outputDir>/metrics.prom, atomically.
func (s *Stats) WriteFile(outputDir string) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(outputDir, ".metrics-*.prom")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := expfmt.NewEncoder(tmp, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}
	return WriteAtomic(filepath.Join(outputDir, "metrics.prom"), data)
}
