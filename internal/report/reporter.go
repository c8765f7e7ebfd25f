package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/google/uuid"
)

// ManifestFile is the name of the run manifest inside the output directory.
const ManifestFile = "manifest.json"

// Config locates a run's inputs and outputs and tunes what is drawn.
type Config struct {
	OutputDir   string
	InputPath   string
	CleanedPath string
	Window      domain.Window
	Profile     domain.Profile
}

// Reporter aggregates the cleaned table, runs every renderer in order and
// records the result in a manifest. It implements pipeline.Reporter.
type Reporter struct {
	cfg       Config
	renderers []Renderer
	logger    *slog.Logger
}

// NewReporter creates a Reporter. Renderers run in the order given.
func NewReporter(cfg Config, logger *slog.Logger, renderers ...Renderer) *Reporter {
	return &Reporter{cfg: cfg, renderers: renderers, logger: logger}
}

// Manifest describes one run.
type Manifest struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Input       string            `json:"input"`
	CleanedPath string            `json:"cleaned_table"`
	Window      [2]int            `json:"window"`
	Stats       domain.CleanStats `json:"stats"`
	Species     int               `json:"species"`
	Artifacts   []Artifact        `json:"artifacts"`
}

// Report renders all artifacts for observations. The first rendering
// failure aborts the run.
func (r *Reporter) Report(ctx context.Context, observations []domain.Observation, stats domain.CleanStats) ([]Artifact, error) {
	ds := &Dataset{
		RunID:        uuid.NewString(),
		GeneratedAt:  domain.Now().UTC(),
		Observations: observations,
		Stats:        stats,
		Aggregates:   Aggregate(observations, r.cfg.Window, r.cfg.Profile),
		Profile:      r.cfg.Profile,
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var artifacts []Artifact
	for _, renderer := range r.renderers {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}
		written, err := renderer.Render(ctx, ds, r.cfg.OutputDir)
		if err != nil {
			return artifacts, fmt.Errorf("render: %w", err)
		}
		for _, a := range written {
			r.logger.Debug("artifact written", "kind", a.Kind, "artifact", a.Path)
		}
		artifacts = append(artifacts, written...)
	}

	manifest := Manifest{
		RunID:       ds.RunID,
		GeneratedAt: ds.GeneratedAt,
		Input:       r.cfg.InputPath,
		CleanedPath: r.cfg.CleanedPath,
		Window:      [2]int{r.cfg.Window.MinYear, r.cfg.Window.MaxYear},
		Stats:       stats,
		Species:     len(ds.Aggregates.BySpecies),
		Artifacts:   artifacts,
	}
	if err := writeManifest(filepath.Join(r.cfg.OutputDir, ManifestFile), manifest); err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, Artifact{Kind: KindManifest, Path: ManifestFile})

	r.logger.Info("report written",
		"run_id", ds.RunID,
		"output_dir", r.cfg.OutputDir,
		"artifacts", len(artifacts),
	)
	return artifacts, nil
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
