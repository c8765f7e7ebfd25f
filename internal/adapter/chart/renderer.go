// Package chart renders the static PNG figures of a report with gonum/plot.
package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// FiguresDir is the subdirectory of the output directory holding figures.
const FiguresDir = "figures"

const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
	panelWidth   = 5 * vg.Inch
	panelHeight  = 4.5 * vg.Inch
)

// Renderer draws every figure of a report. It implements report.Renderer.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a chart Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// figure is one PNG file and the function that writes it.
type figure struct {
	name string
	save func(path string) error
}

// Render writes all figures under outDir/figures. The set of per-species
// figures follows the profile's focus species and periods.
func (r *Renderer) Render(ctx context.Context, ds *report.Dataset, outDir string) ([]report.Artifact, error) {
	dir := filepath.Join(outDir, FiguresDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create figures dir: %w", err)
	}

	colors, err := newPalette(ds.Profile)
	if err != nil {
		return nil, err
	}

	figures := append(summaryFigures(ds), speciesFigures(ds, colors)...)
	artifacts := make([]report.Artifact, 0, len(figures))
	for _, f := range figures {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}
		if err := f.save(filepath.Join(dir, f.name)); err != nil {
			return artifacts, fmt.Errorf("figure %s: %w", f.name, err)
		}
		artifacts = append(artifacts, report.Artifact{Kind: report.KindFigure, Path: path.Join(FiguresDir, f.name)})
	}

	r.logger.Info("figures rendered", "dir", dir, "figures", len(artifacts))
	return artifacts, nil
}

// single wraps a one-panel plot builder as a figure.
func single(name string, build func() (*plot.Plot, error)) figure {
	return figure{name: name, save: func(path string) error {
		p, err := build()
		if err != nil {
			return err
		}
		return p.Save(figureWidth, figureHeight, path)
	}}
}

// grid wraps a multi-panel builder as a figure. Builders may leave cells nil.
func grid(name string, build func() ([][]*plot.Plot, error)) figure {
	return figure{name: name, save: func(path string) error {
		panels, err := build()
		if err != nil {
			return err
		}
		return saveGrid(path, panels)
	}}
}

func saveGrid(path string, panels [][]*plot.Plot) error {
	rows, cols := len(panels), 0
	for _, row := range panels {
		cols = max(cols, len(row))
	}
	if rows == 0 || cols == 0 {
		return errors.New("no panels")
	}
	for j := range panels {
		for len(panels[j]) < cols {
			panels[j] = append(panels[j], nil)
		}
	}

	img := vgimg.New(vg.Length(cols)*panelWidth, vg.Length(rows)*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      4 * vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}

	canvases := plot.Align(panels, tiles, dc)
	for j := range panels {
		for i, p := range panels[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// palette assigns colors to series: focus species keep their profile color,
// everything else cycles through the plotutil palette.
type palette struct {
	species map[string]color.Color
}

func newPalette(profile domain.Profile) (palette, error) {
	p := palette{species: make(map[string]color.Color, len(profile.FocusSpecies))}
	for _, s := range profile.FocusSpecies {
		c, err := domain.ParseHexColor(s.Color)
		if err != nil {
			return palette{}, fmt.Errorf("focus species %s: %w", s.Name, err)
		}
		p.species[domain.NormalizeSpeciesName(s.Name)] = c
	}
	return p, nil
}

func (p palette) forSpecies(name string, fallback int) color.Color {
	if c, ok := p.species[name]; ok {
		return c
	}
	return plotutil.Color(fallback)
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}
