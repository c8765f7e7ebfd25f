package report

import (
	"sort"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/couchcryptid/cetacean-eda/internal/domain"
)

// NamedCount is a record count for one label (species, region, community).
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// YearCount is a value for one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DensityCell is one geohash bucket of observations with its centroid.
type DensityCell struct {
	Geohash   string  `json:"geohash"`
	Count     int     `json:"count"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Aggregates holds every grouped count the renderers draw. All record counts
// sum to Total.
type Aggregates struct {
	Total int

	// FirstYear and LastYear span the coverage window widened to any observed year.
	FirstYear int
	LastYear  int

	BySpecies    []NamedCount // count desc, then name
	ByYear       []YearCount  // one entry per year, FirstYear..LastYear
	ByMonth      [12]int      // index 0 is January
	ByRegion     []NamedCount // domain.Regions order
	ByRegionYear map[domain.Region][]YearCount
	ByCommunity  []NamedCount // count desc, then name

	// Sums of IndividualCount per focus species, keyed by normalized name.
	IndividualsByYear  map[string][]YearCount
	IndividualsByMonth map[string][12]int

	Density []DensityCell // count desc, then geohash
}

// Aggregate computes the grouped counts of a cleaned table.
func Aggregate(observations []domain.Observation, window domain.Window, profile domain.Profile) Aggregates {
	agg := Aggregates{
		Total:              len(observations),
		FirstYear:          window.MinYear,
		LastYear:           window.MaxYear,
		ByRegionYear:       make(map[domain.Region][]YearCount, len(domain.Regions)),
		IndividualsByYear:  make(map[string][]YearCount),
		IndividualsByMonth: make(map[string][12]int),
	}
	for _, o := range observations {
		agg.FirstYear = min(agg.FirstYear, o.Year)
		agg.LastYear = max(agg.LastYear, o.Year)
	}

	focus := make(map[string]bool, len(profile.FocusSpecies))
	for _, name := range profile.FocusNames() {
		focus[name] = true
	}

	species := make(map[string]int)
	communities := make(map[string]int)
	regions := make(map[domain.Region]int, len(domain.Regions))
	years := make(map[int]int)
	regionYears := make(map[domain.Region]map[int]int, len(domain.Regions))
	indivYears := make(map[string]map[int]int, len(focus))
	for name := range focus {
		indivYears[name] = make(map[int]int)
		agg.IndividualsByMonth[name] = [12]int{}
	}

	for _, o := range observations {
		species[o.ScientificName]++
		communities[o.Community]++
		regions[o.Region]++
		years[o.Year]++
		if o.Month >= 1 && o.Month <= 12 {
			agg.ByMonth[o.Month-1]++
		}
		if regionYears[o.Region] == nil {
			regionYears[o.Region] = make(map[int]int)
		}
		regionYears[o.Region][o.Year]++

		if focus[o.ScientificName] {
			indivYears[o.ScientificName][o.Year] += o.IndividualCount
			if o.Month >= 1 && o.Month <= 12 {
				months := agg.IndividualsByMonth[o.ScientificName]
				months[o.Month-1] += o.IndividualCount
				agg.IndividualsByMonth[o.ScientificName] = months
			}
		}
	}

	agg.BySpecies = sortedCounts(species)
	agg.ByCommunity = sortedCounts(communities)
	agg.ByYear = yearSeries(years, agg.FirstYear, agg.LastYear)
	for _, r := range domain.Regions {
		agg.ByRegion = append(agg.ByRegion, NamedCount{Name: string(r), Count: regions[r]})
		agg.ByRegionYear[r] = yearSeries(regionYears[r], agg.FirstYear, agg.LastYear)
	}
	for name, counts := range indivYears {
		agg.IndividualsByYear[name] = yearSeries(counts, agg.FirstYear, agg.LastYear)
	}
	agg.Density = densityCells(observations, profile.GeohashPrecision)

	return agg
}

// TopN returns at most n leading entries of counts.
func TopN(counts []NamedCount, n int) []NamedCount {
	if n < 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

func sortedCounts(m map[string]int) []NamedCount {
	out := make([]NamedCount, 0, len(m))
	for name, n := range m {
		out = append(out, NamedCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func yearSeries(m map[int]int, first, last int) []YearCount {
	out := make([]YearCount, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, YearCount{Year: y, Count: m[y]})
	}
	return out
}

// densityCells buckets observations by geohash prefix.
func densityCells(observations []domain.Observation, precision int) []DensityCell {
	if precision < 1 {
		precision = 1
	}

	type acc struct {
		n        int
		lat, lon float64
	}
	cells := make(map[string]*acc)
	for _, o := range observations {
		hash := geohash.Encode(o.Latitude, o.Longitude)
		if len(hash) > precision {
			hash = hash[:precision]
		}
		c, ok := cells[hash]
		if !ok {
			c = &acc{}
			cells[hash] = c
		}
		c.n++
		c.lat += o.Latitude
		c.lon += o.Longitude
	}

	out := make([]DensityCell, 0, len(cells))
	for hash, c := range cells {
		out = append(out, DensityCell{
			Geohash:   hash,
			Count:     c.n,
			Latitude:  c.lat / float64(c.n),
			Longitude: c.lon / float64(c.n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Geohash < out[j].Geohash
	})
	return out
}
