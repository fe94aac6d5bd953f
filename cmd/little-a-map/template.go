// SPDX-License-Identifier: MIT

package main

import (
	"embed"
	"html/template"
	"os"
	"path/filepath"
)

//go:embed templates/index.html.tmpl
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

type indexTemplateData struct {
	SpawnX, SpawnZ int32
	CacheVersion   string
	MapsStacked    int
}

// RenderIndexHTML emits <OUTPUT_DIR>/index.html from the shipped template
// (spec §4.5), substituting the spawn position as the initial map center,
// the tool's cache_version, and maps_stacked (the largest contributor
// count across any single tile, used by the inspect popup's styling).
func RenderIndexHTML(outputDir string, level *LevelData, mapsStacked int) error {
	f, err := os.Create(filepath.Join(outputDir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	data := indexTemplateData{
		SpawnX:       level.SpawnX,
		SpawnZ:       level.SpawnZ,
		CacheVersion: Version,
		MapsStacked:  mapsStacked,
	}
	return indexTemplate.Execute(f, data)
}
