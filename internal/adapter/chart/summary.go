package chart

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// summaryFigures are drawn for every run regardless of the profile.
func summaryFigures(ds *report.Dataset) []figure {
	agg := ds.Aggregates
	return []figure{
		single("records_per_year.png", func() (*plot.Plot, error) { return recordsPerYear(agg) }),
		single("records_per_month.png", func() (*plot.Plot, error) { return recordsPerMonth(agg) }),
		single("top_species.png", func() (*plot.Plot, error) { return topSpecies(agg, ds.Profile.TopN) }),
		single("top_communities.png", func() (*plot.Plot, error) { return topCommunities(agg, ds.Profile.TopN) }),
		single("records_by_region_year.png", func() (*plot.Plot, error) { return recordsByRegionYear(agg) }),
		single("individual_count_hist.png", func() (*plot.Plot, error) { return individualCountHist(ds.Observations) }),
		single("individual_count_by_region.png", func() (*plot.Plot, error) { return individualCountByRegion(ds.Observations) }),
	}
}

func recordsPerYear(agg report.Aggregates) (*plot.Plot, error) {
	p := newPlot("Records per year", "Year", "Records")
	values := make(plotter.Values, len(agg.ByYear))
	labels := make([]string, len(agg.ByYear))
	for i, yc := range agg.ByYear {
		values[i] = float64(yc.Count)
		labels[i] = strconv.Itoa(yc.Year)
	}
	if err := addBars(p, values, vg.Points(12), false); err != nil {
		return nil, err
	}
	nominalX(p, labels)
	rotateXLabels(p)
	return p, nil
}

func recordsPerMonth(agg report.Aggregates) (*plot.Plot, error) {
	p := newPlot("Records per month", "Month", "Records")
	values := make(plotter.Values, len(agg.ByMonth))
	for i, n := range agg.ByMonth {
		values[i] = float64(n)
	}
	if err := addBars(p, values, vg.Points(24), false); err != nil {
		return nil, err
	}
	nominalX(p, monthLabels())
	return p, nil
}

func topSpecies(agg report.Aggregates, n int) (*plot.Plot, error) {
	top := report.TopN(agg.BySpecies, n)
	p := newPlot("Most recorded species", "Records", "")

	// Largest bar on top: horizontal bars are drawn bottom-up.
	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		j := len(top) - 1 - i
		values[j] = float64(c.Count)
		labels[j] = c.Name
	}
	if err := addBars(p, values, vg.Points(14), true); err != nil {
		return nil, err
	}
	if len(labels) > 0 {
		p.NominalY(labels...)
	}
	return p, nil
}

func topCommunities(agg report.Aggregates, n int) (*plot.Plot, error) {
	top := report.TopN(agg.ByCommunity, n)
	p := newPlot("Records per autonomous community", "", "Records")
	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		values[i] = float64(c.Count)
		labels[i] = c.Name
	}
	if err := addBars(p, values, vg.Points(20), false); err != nil {
		return nil, err
	}
	nominalX(p, labels)
	rotateXLabels(p)
	return p, nil
}

func recordsByRegionYear(agg report.Aggregates) (*plot.Plot, error) {
	p := newPlot("Records per region and year", "Year", "Records")
	p.Legend.Top = true
	for i, region := range domain.Regions {
		series := agg.ByRegionYear[region]
		if total(series) == 0 {
			continue
		}
		if err := addYearLine(p, string(region), series, plotutil.Color(i)); err != nil {
			return nil, err
		}
	}
	p.Y.Min = 0
	return p, nil
}

func individualCountHist(observations []domain.Observation) (*plot.Plot, error) {
	p := newPlot("Individuals per record", "Individuals", "Records")
	values := make(plotter.Values, 0, len(observations))
	for _, o := range observations {
		if o.IndividualCount > 0 {
			values = append(values, float64(o.IndividualCount))
		}
	}
	if len(values) == 0 {
		return p, nil
	}

	h, err := plotter.NewHist(values, 20)
	if err != nil {
		return nil, err
	}
	h.FillColor = barColor
	p.Add(h)
	return p, nil
}

func individualCountByRegion(observations []domain.Observation) (*plot.Plot, error) {
	p := newPlot("Individuals per record by region", "", "Individuals")
	byRegion := make(map[domain.Region]plotter.Values, len(domain.Regions))
	for _, o := range observations {
		if o.IndividualCount > 0 {
			byRegion[o.Region] = append(byRegion[o.Region], float64(o.IndividualCount))
		}
	}

	var labels []string
	for i, region := range domain.Regions {
		values := byRegion[region]
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(labels)), values)
		if err != nil {
			return nil, err
		}
		box.BoxStyle.Color = plotutil.Color(i)
		p.Add(box)
		labels = append(labels, string(region))
	}
	nominalX(p, labels)
	return p, nil
}

// addBars adds a bar chart unless values is empty; gonum rejects empty bars.
func addBars(p *plot.Plot, values plotter.Values, width vg.Length, horizontal bool) error {
	if len(values) == 0 {
		return nil
	}
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	bars.Horizontal = horizontal
	p.Add(bars)
	if horizontal {
		p.X.Min = 0
	} else {
		p.Y.Min = 0
	}
	return nil
}

func addYearLine(p *plot.Plot, name string, series []report.YearCount, c color.Color) error {
	xys := make(plotter.XYs, len(series))
	for i, yc := range series {
		xys[i] = plotter.XY{X: float64(yc.Year), Y: float64(yc.Count)}
	}
	return addLine(p, name, xys, c)
}

func addLine(p *plot.Plot, name string, xys plotter.XYs, c color.Color) error {
	if len(xys) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	points.GlyphStyle.Color = c
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(2)
	p.Add(line, points)
	p.Legend.Add(name, line, points)
	return nil
}

// nominalX labels bar positions; gonum indexes the first name, so an empty
// chart keeps its numeric axis.
func nominalX(p *plot.Plot, labels []string) {
	if len(labels) > 0 {
		p.NominalX(labels...)
	}
}

func rotateXLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func monthLabels() []string {
	labels := make([]string, 12)
	for i := range labels {
		labels[i] = time.Month(i + 1).String()[:3]
	}
	return labels
}

func total(series []report.YearCount) int {
	n := 0
	for _, yc := range series {
		n += yc.Count
	}
	return n
}
