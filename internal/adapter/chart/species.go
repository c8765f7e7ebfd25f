package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// speciesFigures are driven by the profile: one set per focus species plus
// one side-by-side comparison per period.
func speciesFigures(ds *report.Dataset, colors palette) []figure {
	focus := ds.Profile.FocusNames()
	figures := []figure{
		single("individuals_per_year.png", func() (*plot.Plot, error) { return individualsPerYear(ds, focus, colors) }),
		single("individuals_per_month.png", func() (*plot.Plot, error) { return individualsPerMonth(ds, focus, colors) }),
		single("species_distribution.png", func() (*plot.Plot, error) { return speciesDistribution(ds, focus, colors) }),
	}

	for i, name := range focus {
		c := colors.forSpecies(name, i)
		slug := report.Slug(name)
		figures = append(figures,
			grid("distribution_change_"+slug+".png", func() ([][]*plot.Plot, error) { return distributionChange(ds, name, c) }),
		)
		if len(ds.Profile.Periods) > 0 {
			figures = append(figures,
				grid("distribution_periods_"+slug+".png", func() ([][]*plot.Plot, error) { return distributionPeriods(ds, name, c) }),
			)
		}
	}

	if len(focus) > 0 {
		for _, period := range ds.Profile.Periods {
			name := fmt.Sprintf("comparison_%d_%d.png", period.Start, period.End)
			figures = append(figures,
				grid(name, func() ([][]*plot.Plot, error) { return periodComparison(ds, period, focus, colors) }),
			)
		}
	}
	return figures
}

func individualsPerYear(ds *report.Dataset, focus []string, colors palette) (*plot.Plot, error) {
	p := newPlot("Individuals per year", "Year", "Individuals")
	p.Legend.Top = true
	for i, name := range focus {
		if err := addYearLine(p, name, ds.Aggregates.IndividualsByYear[name], colors.forSpecies(name, i)); err != nil {
			return nil, err
		}
	}
	p.Y.Min = 0
	return p, nil
}

func individualsPerMonth(ds *report.Dataset, focus []string, colors palette) (*plot.Plot, error) {
	p := newPlot("Individuals per month", "Month", "Individuals")
	p.Legend.Top = true
	for i, name := range focus {
		months := ds.Aggregates.IndividualsByMonth[name]
		xys := make(plotter.XYs, len(months))
		for m, n := range months {
			xys[m] = plotter.XY{X: float64(m + 1), Y: float64(n)}
		}
		if err := addLine(p, name, xys, colors.forSpecies(name, i)); err != nil {
			return nil, err
		}
	}
	p.X.Min, p.X.Max = 1, 12
	p.X.Tick.Marker = monthTicks{}
	p.Y.Min = 0
	return p, nil
}

func speciesDistribution(ds *report.Dataset, focus []string, colors palette) (*plot.Plot, error) {
	p := newMapPlot("Distribution of focus species")
	p.Legend.Top = true
	for i, name := range focus {
		if err := addPoints(p, name, ds.Species(name), colors.forSpecies(name, i)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// distributionChange compares a species before and from the decade split year.
func distributionChange(ds *report.Dataset, name string, c color.Color) ([][]*plot.Plot, error) {
	split := ds.Profile.DecadeSplit
	before := domain.Period{Start: ds.Aggregates.FirstYear, End: split - 1}
	after := domain.Period{Start: split, End: ds.Aggregates.LastYear}

	observations := ds.Species(name)
	row := make([]*plot.Plot, 0, 2)
	for _, period := range []domain.Period{before, after} {
		p, err := periodPanel(name, period, observations, c)
		if err != nil {
			return nil, err
		}
		row = append(row, p)
	}
	return [][]*plot.Plot{row}, nil
}

// distributionPeriods draws one panel per profile period, two per row.
func distributionPeriods(ds *report.Dataset, name string, c color.Color) ([][]*plot.Plot, error) {
	const cols = 2
	periods := ds.Profile.Periods
	observations := ds.Species(name)

	rows := make([][]*plot.Plot, int(math.Ceil(float64(len(periods))/cols)))
	for i, period := range periods {
		p, err := periodPanel(name, period, observations, c)
		if err != nil {
			return nil, err
		}
		rows[i/cols] = append(rows[i/cols], p)
	}
	return rows, nil
}

// periodComparison draws every focus species side by side for one period.
func periodComparison(ds *report.Dataset, period domain.Period, focus []string, colors palette) ([][]*plot.Plot, error) {
	row := make([]*plot.Plot, 0, len(focus))
	for i, name := range focus {
		p, err := periodPanel(name, period, ds.Species(name), colors.forSpecies(name, i))
		if err != nil {
			return nil, err
		}
		row = append(row, p)
	}
	return [][]*plot.Plot{row}, nil
}

func periodPanel(name string, period domain.Period, observations []domain.Observation, c color.Color) (*plot.Plot, error) {
	var inPeriod []domain.Observation
	for _, o := range observations {
		if period.Contains(o.Year) {
			inPeriod = append(inPeriod, o)
		}
	}

	p := newMapPlot(fmt.Sprintf("%s, %s (n=%d)", name, period, len(inPeriod)))
	if err := addPoints(p, "", inPeriod, c); err != nil {
		return nil, err
	}
	return p, nil
}

// newMapPlot returns a lon/lat plot fixed to the study area so panels align.
func newMapPlot(title string) *plot.Plot {
	p := newPlot(title, "Longitude", "Latitude")
	p.X.Min, p.X.Max = domain.StudyArea.MinLon, domain.StudyArea.MaxLon
	p.Y.Min, p.Y.Max = domain.StudyArea.MinLat, domain.StudyArea.MaxLat
	p.Add(plotter.NewGrid())
	return p
}

func addPoints(p *plot.Plot, legend string, observations []domain.Observation, c color.Color) error {
	if len(observations) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(observations))
	for i, o := range observations {
		xys[i] = plotter.XY{X: o.Longitude, Y: o.Latitude}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)
	if legend != "" {
		p.Legend.Add(legend, scatter)
	}
	return nil
}

// monthTicks labels 1..12 with month abbreviations.
type monthTicks struct{}

func (monthTicks) Ticks(_, _ float64) []plot.Tick {
	labels := monthLabels()
	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: l}
	}
	return ticks
}
