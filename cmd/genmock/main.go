// Command genmock writes a synthetic GBIF occurrence extract, by default to
// INPUT_PATH.
// The extract is tab separated with Darwin Core headers and deliberately
// messy: mixed-case names with authorship, several date layouts, blank
// cells, out-of-range coordinates, years outside the window and repeated
// rows. The same -seed always produces the same file.
//
// Usage:
//
//	go run ./cmd/genmock -rows 5000 -seed 7 -out data/raw/occurrence.txt
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cetacean-eda/internal/config"
	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/jonboulle/clockwork"
	_ "github.com/joho/godotenv/autoload"
)

var header = []string{
	"gbifID", "occurrenceID", "basisOfRecord", "scientificName", "countryCode",
	"stateProvince", "individualCount", "decimalLatitude", "decimalLongitude",
	"eventDate", "day", "month", "year", "lastInterpreted",
}

// site is a stretch of coast where sightings cluster.
type site struct {
	province string
	lat, lon float64
	spread   float64 // degrees
}

var sites = []site{
	{province: "Pontevedra", lat: 42.3, lon: -9.1, spread: 0.3},
	{province: "A Coruña", lat: 43.5, lon: -8.6, spread: 0.3},
	{province: "Principado de Asturias", lat: 43.7, lon: -5.9, spread: 0.3},
	{province: "Cantabria", lat: 43.6, lon: -3.8, spread: 0.2},
	{province: "Bizkaia", lat: 43.5, lon: -2.9, spread: 0.2},
	{province: "Cádiz", lat: 36.0, lon: -6.2, spread: 0.2},
	{province: "Málaga", lat: 36.5, lon: -4.5, spread: 0.2},
	{province: "Almería", lat: 36.6, lon: -2.2, spread: 0.3},
	{province: "Región de Murcia", lat: 37.5, lon: -0.8, spread: 0.2},
	{province: "Alicante/Alacant", lat: 38.3, lon: -0.2, spread: 0.2},
	{province: "Valencia/València", lat: 39.4, lon: -0.1, spread: 0.2},
	{province: "Tarragona", lat: 40.9, lon: 1.1, spread: 0.2},
	{province: "Barcelona", lat: 41.3, lon: 2.4, spread: 0.2},
	{province: "Girona", lat: 42.1, lon: 3.4, spread: 0.2},
	{province: "Illes Balears", lat: 39.4, lon: 2.7, spread: 0.5},
	{province: "Las Palmas", lat: 28.0, lon: -15.3, spread: 0.4},
	{province: "Santa Cruz de Tenerife", lat: 28.2, lon: -16.8, spread: 0.4},
	{province: "Ceuta", lat: 35.9, lon: -5.3, spread: 0.05},
	{province: "Melilla", lat: 35.3, lon: -2.9, spread: 0.05},
	{province: "", lat: 39.0, lon: 4.8, spread: 0.8},
}

// species are weighted so the top-species chart has a clear ranking.
var species = []struct {
	name   string
	weight int
	school int // typical group size
}{
	{name: "Stenella coeruleoalba (Meyen, 1833)", weight: 30, school: 25},
	{name: "Delphinus delphis Linnaeus, 1758", weight: 22, school: 18},
	{name: "Tursiops truncatus (Montagu, 1821)", weight: 18, school: 8},
	{name: "Grampus griseus (G. Cuvier, 1812)", weight: 8, school: 6},
	{name: "Globicephala melas (Traill, 1809)", weight: 7, school: 12},
	{name: "Balaenoptera physalus (Linnaeus, 1758)", weight: 5, school: 2},
	{name: "Physeter macrocephalus Linnaeus, 1758", weight: 4, school: 3},
	{name: "Ziphius cavirostris G. Cuvier, 1823", weight: 3, school: 2},
	{name: "Phocoena phocoena (Linnaeus, 1758)", weight: 2, school: 3},
	{name: "Orcinus orca (Linnaeus, 1758)", weight: 1, school: 5},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// options are the generator settings. They are flags rather than run
// settings so a bad value never reaches cmd/etl.
type options struct {
	rows int
	seed uint64
	out  string
}

func parseFlags(args []string, defaultOut string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rows := fs.Int("rows", 2000, "number of rows to generate")
	seed := fs.Uint64("seed", 1, "random seed; equal seeds give equal files")
	out := fs.String("out", defaultOut, "output path for the tab separated extract")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *rows < 1 {
		fs.Usage()
		return options{}, fmt.Errorf("invalid -rows %d: must be positive", *rows)
	}
	if *out == "" {
		fs.Usage()
		return options{}, errors.New("missing required flag: -out")
	}
	return options{rows: *rows, seed: *seed, out: *out}, nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, err := parseFlags(os.Args[1:], cfg.InputPath, os.Stderr)
	if err != nil {
		return err
	}

	// Set a fixed clock for reproducible lastInterpreted stamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rows := generate(newRand(opts.seed), opts.rows, cfg.Window())

	if err := writeTSV(opts.out, rows); err != nil {
		return fmt.Errorf("writing extract: %w", err)
	}
	log.Printf("wrote %d rows to %s", len(rows), opts.out)

	printStats(rows, cfg.Window())
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func generate(rng *rand.Rand, n int, window domain.Window) [][]string {
	total := 0
	for _, s := range species {
		total += s.weight
	}

	rows := make([][]string, 0, n)
	for i := 0; len(rows) < n; i++ {
		// Roughly 3% of rows repeat the previous record verbatim, id included,
		// the way a dataset published twice shows up in a download.
		if len(rows) > 0 && rng.IntN(100) < 3 {
			rows = append(rows, append([]string(nil), rows[len(rows)-1]...))
			continue
		}

		pick := rng.IntN(total)
		sp := species[0]
		for _, s := range species {
			if pick < s.weight {
				sp = s
				break
			}
			pick -= s.weight
		}
		st := sites[rng.IntN(len(sites))]

		year := window.MinYear + rng.IntN(window.MaxYear-window.MinYear+1)
		month := 1 + rng.IntN(12)
		day := 1 + rng.IntN(28)
		lat := st.lat + rng.NormFloat64()*st.spread/2
		lon := st.lon + rng.NormFloat64()*st.spread/2
		count := max(1, int(float64(sp.school)*(0.3+rng.Float64()*1.4)))

		row := []string{
			strconv.Itoa(4000000000 + i),
			fmt.Sprintf("urn:catalog:mock:%06d", i),
			"HUMAN_OBSERVATION",
			messyName(rng, sp.name),
			"ES",
			st.province,
			strconv.Itoa(count),
			strconv.FormatFloat(lat, 'f', 5, 64),
			strconv.FormatFloat(lon, 'f', 5, 64),
			eventDate(rng, year, month, day),
			strconv.Itoa(day),
			strconv.Itoa(month),
			strconv.Itoa(year),
			domain.Now().Format(time.RFC3339),
		}
		if rng.IntN(10) == 0 {
			row[6] = "" // individualCount is often missing in GBIF
		}
		corrupt(rng, row)
		rows = append(rows, row)
	}
	return rows
}

// messyName varies case, spacing and authorship the way GBIF publishers do.
// Authorship keeps its own casing since that is what marks where it starts.
func messyName(rng *rand.Rand, name string) string {
	fields := strings.Fields(name)
	binomial := fields[0] + " " + fields[1]
	authorship := strings.Join(fields[2:], " ")
	switch rng.IntN(6) {
	case 0:
		return strings.ToUpper(binomial)
	case 1:
		return "  " + strings.ToLower(binomial) + "  " + authorship + " "
	case 2:
		return binomial
	default:
		return name
	}
}

func eventDate(rng *rand.Rand, year, month, day int) string {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	switch rng.IntN(8) {
	case 0:
		return "" // year and month columns still carry the date
	case 1:
		return d.Format("2006-01")
	case 2:
		return d.Add(time.Duration(8+rng.IntN(10)) * time.Hour).Format("2006-01-02T15:04:05")
	case 3:
		return d.Format("2006-01-02") + "/" + d.AddDate(0, 0, 2).Format("2006-01-02")
	default:
		return d.Format("2006-01-02")
	}
}

// corrupt damages about 6% of rows so every drop reason shows up.
func corrupt(rng *rand.Rand, row []string) {
	if rng.IntN(100) >= 6 {
		return
	}
	switch rng.IntN(5) {
	case 0:
		row[3] = ""
	case 1:
		row[7], row[8] = "", ""
	case 2:
		row[7] = strconv.FormatFloat(90+rng.Float64()*10, 'f', 5, 64)
	case 3:
		row[9], row[11], row[12] = "", "", ""
	case 4:
		year := 1985 + rng.IntN(10)
		row[9] = strconv.Itoa(year)
		row[12] = strconv.Itoa(year)
	}
}

func writeTSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printStats runs the cleaner over the generated rows so the expected
// drop counts are visible next to the file.
func printStats(rows [][]string, window domain.Window) {
	stats, err := expectedStats(rows, window)
	if err != nil {
		log.Printf("resolve columns: %v", err)
		return
	}
	log.Printf("expected after cleaning: %d kept of %d", stats.Kept, stats.Loaded)
	for _, reason := range domain.DropReasons {
		log.Printf("  %-20s %d", reason, stats.Dropped[reason])
	}
}

func expectedStats(rows [][]string, window domain.Window) (domain.CleanStats, error) {
	layout, err := domain.ResolveColumns(header)
	if err != nil {
		return domain.CleanStats{}, err
	}
	table := domain.RawTable{Layout: layout, Records: make([]domain.RawRecord, len(rows))}
	for i, row := range rows {
		table.Records[i] = layout.Record(row, i+1)
	}
	_, stats := domain.CleanTable(table, window)
	return stats, nil
}
