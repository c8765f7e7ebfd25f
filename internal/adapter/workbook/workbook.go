// Package workbook writes the aggregate tables to an Excel summary.
package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	"github.com/xuri/excelize/v2"
)

// FileName is the workbook location relative to the output directory.
const FileName = "summary.xlsx"

// Sheet names, in workbook order.
const (
	SheetSpecies     = "Species"
	SheetYears       = "Years"
	SheetMonths      = "Months"
	SheetRegionYear  = "RegionYear"
	SheetCommunities = "Communities"
	SheetDrops       = "Drops"
)

// Renderer writes summary.xlsx. It implements report.Renderer.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a workbook Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render writes one sheet per aggregate table plus the cleaning drop counts.
func (r *Renderer) Render(ctx context.Context, ds *report.Dataset, outDir string) ([]report.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSpecies); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSpecies, namedRows("scientific_name", ds.Aggregates.BySpecies)},
		{SheetYears, yearRows(ds.Aggregates.ByYear)},
		{SheetMonths, monthRows(ds.Aggregates.ByMonth)},
		{SheetRegionYear, regionYearRows(ds.Aggregates)},
		{SheetCommunities, namedRows("community", ds.Aggregates.ByCommunity)},
		{SheetDrops, dropRows(ds.Stats)},
	}
	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
			}
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", s.name, err)
		}
	}

	created := domain.Now().UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Cetacean records summary",
		Creator:    "cetacean-eda",
		Identifier: ds.RunID,
		Created:    created,
		Modified:   created,
	}); err != nil {
		return nil, fmt.Errorf("set workbook properties: %w", err)
	}

	target := filepath.Join(outDir, FileName)
	if err := f.SaveAs(target); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}

	r.logger.Info("workbook written", "path", target, "sheets", len(sheets))
	return []report.Artifact{{Kind: report.KindWorkbook, Path: FileName}}, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func namedRows(label string, counts []report.NamedCount) [][]any {
	rows := [][]any{{label, "records"}}
	for _, c := range counts {
		rows = append(rows, []any{c.Name, c.Count})
	}
	return rows
}

func yearRows(counts []report.YearCount) [][]any {
	rows := [][]any{{"year", "records"}}
	for _, c := range counts {
		rows = append(rows, []any{c.Year, c.Count})
	}
	return rows
}

func monthRows(counts [12]int) [][]any {
	rows := [][]any{{"month", "name", "records"}}
	for i, n := range counts {
		rows = append(rows, []any{i + 1, time.Month(i + 1).String(), n})
	}
	return rows
}

// regionYearRows lays out one row per year and one column per region.
func regionYearRows(agg report.Aggregates) [][]any {
	header := []any{"year"}
	for _, r := range domain.Regions {
		header = append(header, string(r))
	}
	rows := [][]any{header}
	for i, yc := range agg.ByYear {
		row := []any{yc.Year}
		for _, r := range domain.Regions {
			row = append(row, agg.ByRegionYear[r][i].Count)
		}
		rows = append(rows, row)
	}
	return rows
}

func dropRows(stats domain.CleanStats) [][]any {
	rows := [][]any{
		{"metric", "rows"},
		{"loaded", stats.Loaded},
		{"kept", stats.Kept},
	}
	for _, reason := range domain.DropReasons {
		rows = append(rows, []any{"dropped_" + string(reason), stats.Dropped[reason]})
	}
	return rows
}
