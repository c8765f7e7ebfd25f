// Package leaflet writes the interactive species map as a standalone
// Leaflet page.
package leaflet

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
)

// MapPath is the map location relative to the output directory.
const MapPath = "maps/species_map.html"

//go:embed map.html.tmpl
var pageTemplate string

var page = template.Must(template.New("map").Parse(pageTemplate))

// Renderer writes the species map. It implements report.Renderer.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a map Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// LatLon is a map position in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Layer is one toggleable group of markers.
type Layer struct {
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Points [][2]float64 `json:"points"` // [lat, lon]
}

type pageData struct {
	Title   string
	Center  LatLon
	Zoom    int
	Layers  []Layer
	Density []report.DensityCell
}

// Render writes maps/species_map.html with one layer per focus species and
// a density layer built from the geohash cells.
func (r *Renderer) Render(ctx context.Context, ds *report.Dataset, outDir string) ([]report.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := pageData{
		Title:   "Cetacean records in Spanish waters",
		Zoom:    ds.Profile.MapZoom,
		Layers:  SpeciesLayers(ds),
		Density: ds.Aggregates.Density,
	}
	if data.Density == nil {
		data.Density = []report.DensityCell{}
	}
	data.Center = Center(data.Layers, ds.Observations)

	target := filepath.Join(outDir, filepath.FromSlash(MapPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create maps dir: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create map: %w", err)
	}
	if err := page.Execute(f, data); err != nil {
		f.Close()
		return nil, fmt.Errorf("render map: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close map: %w", err)
	}

	r.logger.Info("map rendered",
		"path", target,
		"layers", len(data.Layers),
		"density_cells", len(data.Density),
	)
	return []report.Artifact{{Kind: report.KindMap, Path: path.Clean(MapPath)}}, nil
}

// SpeciesLayers builds one layer per focus species, in profile order.
func SpeciesLayers(ds *report.Dataset) []Layer {
	layers := make([]Layer, 0, len(ds.Profile.FocusSpecies))
	for _, s := range ds.Profile.FocusSpecies {
		name := domain.NormalizeSpeciesName(s.Name)
		observations := ds.Species(name)
		points := make([][2]float64, len(observations))
		for i, o := range observations {
			points[i] = [2]float64{o.Latitude, o.Longitude}
		}
		layers = append(layers, Layer{Name: name, Color: s.Color, Points: points})
	}
	return layers
}

// Center returns the mean position of the layer points. Without any, it
// falls back to all observations and then to the middle of the study area.
func Center(layers []Layer, observations []domain.Observation) LatLon {
	var sum LatLon
	n := 0
	for _, l := range layers {
		for _, p := range l.Points {
			sum.Lat += p[0]
			sum.Lon += p[1]
			n++
		}
	}
	if n == 0 {
		for _, o := range observations {
			sum.Lat += o.Latitude
			sum.Lon += o.Longitude
			n++
		}
	}
	if n == 0 {
		area := domain.StudyArea
		return LatLon{Lat: (area.MinLat + area.MaxLat) / 2, Lon: (area.MinLon + area.MaxLon) / 2}
	}
	return LatLon{Lat: sum.Lat / float64(n), Lon: sum.Lon / float64(n)}
}
