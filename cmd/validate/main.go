// Command validate re-reads the cleaned table at CLEANED_PATH and checks the
// cleaning invariants phase by phase: schema, required fields, coordinate
// ranges, coverage window, name normalization, derived columns, duplicates
// and idempotence. When OUTPUT_DIR holds a run manifest and workbook, their
// counts are cross-checked against the table too.
//
// Usage:
//
//	CLEANED_PATH=data/processed/cetaceans_clean.csv go run ./cmd/validate
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/cetacean-eda/internal/adapter/occurrence"
	"github.com/couchcryptid/cetacean-eda/internal/adapter/workbook"
	"github.com/couchcryptid/cetacean-eda/internal/config"
	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	"github.com/google/go-cmp/cmp"
	_ "github.com/joho/godotenv/autoload"
	"github.com/xuri/excelize/v2"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxErrorsShown caps the detail printed per failing phase.
const maxErrorsShown = 20

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	fmt.Println("=== Cleaned Table Validation ===")
	fmt.Printf("Table: %s\n\n", cfg.CleanedPath)

	header, rows, err := loadCSV(cfg.CleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned table: %v\n", err)
		return 1
	}

	schema, layout := validateSchema(header)
	phases := []*phase{schema}
	if layout != nil {
		parsed := parseRows(layout, rows)
		phases = append(phases,
			validateRequiredFields(parsed),
			validateCoordinates(parsed),
			validateWindow(parsed, cfg.Window()),
			validateNames(layout, parsed),
			validateDerivedColumns(layout, parsed),
			validateDuplicates(rows),
			validateIdempotence(cfg, header, rows),
			validateOutputs(cfg.OutputDir, len(rows)),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsShown {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrorsShown)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// csvRow is a CSV data row with its 1-based line number.
type csvRow struct {
	lineNum int
	cells   []string
}

// parsedRow is a row run through the cleaner's parser.
type parsedRow struct {
	csvRow
	obs    domain.Observation
	reason domain.DropReason
}

func loadCSV(path string) ([]string, []csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("no header in %s", path)
	}

	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		rows = append(rows, csvRow{lineNum: i + 2, cells: row})
	}
	return all[0], rows, nil
}

func parseRows(layout *domain.Layout, rows []csvRow) []parsedRow {
	parsed := make([]parsedRow, len(rows))
	for i, row := range rows {
		obs, reason := domain.ParseRawRecord(layout.Record(row.cells, i+1))
		parsed[i] = parsedRow{csvRow: row, obs: obs, reason: reason}
	}
	return parsed
}

func (r parsedRow) cell(layout *domain.Layout, field string) string {
	if i := layout.Index(field); i >= 0 && i < len(r.cells) {
		return r.cells[i]
	}
	return ""
}

// ── Phase 1: Schema ──
// The header must resolve and already carry the derived columns.

func validateSchema(header []string) (*phase, *domain.Layout) {
	p := &phase{name: "Phase 1: Schema"}
	layout, err := domain.ResolveColumns(header)
	if err != nil {
		p.errorf("header %v: %v", header, err)
		return p, nil
	}
	if !slices.Equal(layout.Header, header) {
		p.errorf("header: missing derived columns, expected %v, got %v", layout.Header, header)
	}
	return p, layout
}

// ── Phase 2: Required fields ──

func validateRequiredFields(rows []parsedRow) *phase {
	p := &phase{name: "Phase 2: Required Fields"}
	for _, row := range rows {
		switch row.reason {
		case domain.DropMissingSpecies, domain.DropMissingCoordinates, domain.DropMissingDate:
			p.errorf("line %d: %s", row.lineNum, row.reason)
		}
	}
	return p
}

// ── Phase 3: Coordinates ──

func validateCoordinates(rows []parsedRow) *phase {
	p := &phase{name: "Phase 3: Coordinate Ranges"}
	for _, row := range rows {
		if row.reason == domain.DropInvalidCoordinates {
			p.errorf("line %d: coordinates unparseable or out of range", row.lineNum)
		}
	}
	return p
}

// ── Phase 4: Coverage window ──

func validateWindow(rows []parsedRow, window domain.Window) *phase {
	p := &phase{name: fmt.Sprintf("Phase 4: Coverage Window (%d-%d)", window.MinYear, window.MaxYear)}
	for _, row := range rows {
		if row.reason == "" && !window.Contains(row.obs.Year) {
			p.errorf("line %d: year %d outside window", row.lineNum, row.obs.Year)
		}
	}
	return p
}

// ── Phase 5: Name normalization ──

func validateNames(layout *domain.Layout, rows []parsedRow) *phase {
	p := &phase{name: "Phase 5: Species Name Normalization"}
	for _, row := range rows {
		name := row.cell(layout, domain.ColScientificName)
		if norm := domain.NormalizeSpeciesName(name); norm != name {
			p.errorf("line %d: %q is not normalized (want %q)", row.lineNum, name, norm)
		}
	}
	return p
}

// ── Phase 6: Derived columns ──

func validateDerivedColumns(layout *domain.Layout, rows []parsedRow) *phase {
	p := &phase{name: "Phase 6: Region and Community"}
	for _, row := range rows {
		if row.reason != "" {
			continue
		}
		if got := domain.Region(row.cell(layout, domain.ColRegion)); got != row.obs.Region {
			p.errorf("line %d: region %q, coordinates give %q", row.lineNum, got, row.obs.Region)
		}
		if got := row.cell(layout, domain.ColCommunity); got != row.obs.Community {
			p.errorf("line %d: community %q, province %q gives %q", row.lineNum, got, row.obs.StateProvince, row.obs.Community)
		}
	}
	return p
}

// ── Phase 7: Duplicates ──
// Rows are duplicates only when every cell matches.

func validateDuplicates(rows []csvRow) *phase {
	p := &phase{name: "Phase 7: Duplicates"}
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		key := strings.Join(row.cells, "\x1f")
		if first, ok := seen[key]; ok {
			p.errorf("line %d duplicates line %d", row.lineNum, first)
			continue
		}
		seen[key] = row.lineNum
	}
	return p
}

// ── Phase 8: Idempotence ──
// Re-cleaning the cleaned table through the loader must drop nothing and
// change nothing. A header-only table reloads as empty input.

func validateIdempotence(cfg *config.Config, header []string, rows []csvRow) *phase {
	p := &phase{name: "Phase 8: Idempotence (re-clean)"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw, err := occurrence.NewReader(cfg.CleanedPath, ',', logger).Extract(context.Background())
	if errors.Is(err, domain.ErrEmptyInput) && len(rows) == 0 {
		return p
	}
	if err != nil {
		p.errorf("reload: %v", err)
		return p
	}

	table, stats := domain.CleanTable(raw, cfg.Window())
	if stats.TotalDropped() > 0 {
		p.errorf("re-cleaning dropped %d rows: %v", stats.TotalDropped(), stats.Dropped)
	}

	want := make([][]string, 0, len(rows)+1)
	want = append(want, header)
	for _, row := range rows {
		want = append(want, row.cells)
	}
	if diff := cmp.Diff(want, table.Rows()); diff != "" {
		p.errorf("re-cleaned table differs (-file +re-cleaned):\n%s", diff)
	}
	return p
}

// ── Phase 9: Report outputs ──
// Skipped when the output directory has no manifest.

func validateOutputs(outDir string, rowCount int) *phase {
	p := &phase{name: "Phase 9: Report Outputs"}

	data, err := os.ReadFile(filepath.Join(outDir, report.ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return p
	}
	if err != nil {
		p.errorf("read manifest: %v", err)
		return p
	}

	var m report.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		p.errorf("decode manifest: %v", err)
		return p
	}
	if m.Stats.Kept != rowCount {
		p.errorf("manifest kept=%d, table has %d rows", m.Stats.Kept, rowCount)
	}
	if dropped := m.Stats.Loaded - m.Stats.Kept; dropped != m.Stats.TotalDropped() {
		p.errorf("manifest loaded-kept=%d, drop reasons sum to %d", dropped, m.Stats.TotalDropped())
	}
	for _, a := range m.Artifacts {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(a.Path))); err != nil {
			p.errorf("artifact %s: %v", a.Path, err)
		}
	}

	checkWorkbook(p, filepath.Join(outDir, workbook.FileName), rowCount)
	return p
}

// checkWorkbook verifies that the Species sheet counts sum to the row count.
func checkWorkbook(p *phase, path string, rowCount int) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		p.errorf("open workbook: %v", err)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(workbook.SheetSpecies)
	if err != nil {
		p.errorf("read %s sheet: %v", workbook.SheetSpecies, err)
		return
	}
	total := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		n, err := strconv.Atoi(row[1])
		if err != nil {
			p.errorf("%s sheet row %d: count %q", workbook.SheetSpecies, i+1, row[1])
			continue
		}
		total += n
	}
	if total != rowCount {
		p.errorf("%s sheet sums to %d, table has %d rows", workbook.SheetSpecies, total, rowCount)
	}
}
