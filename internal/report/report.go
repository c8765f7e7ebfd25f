package report

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
)

// ArtifactKind groups output files for the manifest and metrics.
type ArtifactKind string

const (
	KindFigure   ArtifactKind = "figure"
	KindMap      ArtifactKind = "map"
	KindWorkbook ArtifactKind = "workbook"
	KindManifest ArtifactKind = "manifest"
)

// Artifact is one file written by a renderer. Path is relative to the
// output directory and uses forward slashes.
type Artifact struct {
	Kind ArtifactKind `json:"kind"`
	Path string       `json:"path"`
}

// Dataset is the read-only input shared by every renderer in one run.
type Dataset struct {
	RunID        string
	GeneratedAt  time.Time
	Observations []domain.Observation
	Stats        domain.CleanStats
	Aggregates   Aggregates
	Profile      domain.Profile
}

// Species returns the observations of one normalized species name, in table order.
func (d *Dataset) Species(name string) []domain.Observation {
	var out []domain.Observation
	for _, o := range d.Observations {
		if o.ScientificName == name {
			out = append(out, o)
		}
	}
	return out
}

// Renderer writes one family of artifacts under outDir.
type Renderer interface {
	Render(ctx context.Context, ds *Dataset, outDir string) ([]Artifact, error)
}

// Slug turns a label into a lower-case file name fragment:
// "Stenella coeruleoalba" becomes "stenella_coeruleoalba".
func Slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
