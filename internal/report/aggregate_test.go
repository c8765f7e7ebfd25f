package report

import (
	"testing"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStenella  = "Stenella coeruleoalba"
	testDelphinus = "Delphinus delphis"
	testTursiops  = "Tursiops truncatus"
)

func obs(name string, year, month int, lat, lon float64, count int, community string) domain.Observation {
	return domain.Observation{
		ScientificName:  name,
		Year:            year,
		Month:           month,
		Latitude:        lat,
		Longitude:       lon,
		IndividualCount: count,
		Community:       community,
		Region:          domain.ClassifyRegion(lat, lon),
	}
}

func fixtureObservations() []domain.Observation {
	return []domain.Observation{
		obs(testStenella, 2003, 7, 36.5, -2.1, 12, "andalucia"),
		obs(testStenella, 2003, 8, 36.51, -2.11, 4, "andalucia"),
		obs(testStenella, 2019, 8, 41.2, 2.3, 30, "cataluna"),
		obs(testDelphinus, 2008, 5, 43.6, -8.3, 6, "galicia"),
		obs(testDelphinus, 2021, 5, 28.1, -15.4, 0, "canarias"),
		obs(testTursiops, 2012, 1, 39.5, 2.6, 2, "islas baleares"),
		obs(testTursiops, 2024, 12, 50.0, -30.0, 1, domain.CommunityUnassigned),
	}
}

func sumNamed(counts []NamedCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}

func sumYears(counts []YearCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}

func TestAggregate_CountsSumToTotal(t *testing.T) {
	data := fixtureObservations()
	agg := Aggregate(data, domain.DefaultWindow, domain.DefaultProfile())

	require.Equal(t, len(data), agg.Total)
	assert.Equal(t, agg.Total, sumNamed(agg.BySpecies), "species")
	assert.Equal(t, agg.Total, sumNamed(agg.ByRegion), "regions")
	assert.Equal(t, agg.Total, sumNamed(agg.ByCommunity), "communities")
	assert.Equal(t, agg.Total, sumYears(agg.ByYear), "years")

	months := 0
	for _, n := range agg.ByMonth {
		months += n
	}
	assert.Equal(t, agg.Total, months, "months")

	regionYears := 0
	for _, series := range agg.ByRegionYear {
		regionYears += sumYears(series)
	}
	assert.Equal(t, agg.Total, regionYears, "region x year")

	cells := 0
	for _, c := range agg.Density {
		cells += c.Count
	}
	assert.Equal(t, agg.Total, cells, "density cells")
}

func TestAggregate_Groups(t *testing.T) {
	agg := Aggregate(fixtureObservations(), domain.DefaultWindow, domain.DefaultProfile())

	assert.Equal(t, []NamedCount{
		{Name: testStenella, Count: 3},
		{Name: testDelphinus, Count: 2},
		{Name: testTursiops, Count: 2},
	}, agg.BySpecies)

	assert.Equal(t, []NamedCount{
		{Name: string(domain.RegionAtlantic), Count: 2},
		{Name: string(domain.RegionMediterranean), Count: 4},
		{Name: string(domain.RegionUnclassified), Count: 1},
	}, agg.ByRegion)

	assert.Equal(t, NamedCount{Name: "andalucia", Count: 2}, agg.ByCommunity[0])

	require.Len(t, agg.ByYear, 25)
	assert.Equal(t, YearCount{Year: 2000, Count: 0}, agg.ByYear[0])
	assert.Equal(t, YearCount{Year: 2003, Count: 2}, agg.ByYear[3])
	assert.Equal(t, YearCount{Year: 2024, Count: 1}, agg.ByYear[24])

	assert.Equal(t, 2, agg.ByMonth[7], "August")
	assert.Equal(t, 2, agg.ByMonth[4], "May")
}

func TestAggregate_IndividualsForFocusSpeciesOnly(t *testing.T) {
	agg := Aggregate(fixtureObservations(), domain.DefaultWindow, domain.DefaultProfile())

	require.Contains(t, agg.IndividualsByYear, testStenella)
	require.Contains(t, agg.IndividualsByYear, testDelphinus)
	assert.NotContains(t, agg.IndividualsByYear, testTursiops)

	stenella := agg.IndividualsByYear[testStenella]
	assert.Equal(t, 16, stenella[2003-2000].Count)
	assert.Equal(t, 30, stenella[2019-2000].Count)

	months := agg.IndividualsByMonth[testStenella]
	assert.Equal(t, 12, months[6])
	assert.Equal(t, 34, months[7])
}

func TestAggregate_WindowWidensToObservedYears(t *testing.T) {
	data := []domain.Observation{obs(testTursiops, 1998, 3, 36.5, -2.1, 1, "andalucia")}
	agg := Aggregate(data, domain.Window{MinYear: 2000, MaxYear: 2001}, domain.DefaultProfile())

	assert.Equal(t, 1998, agg.FirstYear)
	assert.Equal(t, 2001, agg.LastYear)
	assert.Equal(t, 1, sumYears(agg.ByYear))
}

func TestAggregate_DensityCells(t *testing.T) {
	profile := domain.DefaultProfile()
	profile.GeohashPrecision = 3
	agg := Aggregate(fixtureObservations(), domain.DefaultWindow, profile)

	require.NotEmpty(t, agg.Density)
	top := agg.Density[0]
	assert.Len(t, top.Geohash, 3)
	assert.Equal(t, 2, top.Count, "the two Almería sightings share a cell")
	assert.InDelta(t, 36.505, top.Latitude, 1e-9)
	assert.InDelta(t, -2.105, top.Longitude, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, domain.DefaultWindow, domain.DefaultProfile())

	assert.Zero(t, agg.Total)
	assert.Empty(t, agg.BySpecies)
	assert.Empty(t, agg.Density)
	assert.Len(t, agg.ByYear, 25)
	assert.Equal(t, 0, sumNamed(agg.ByRegion))
}

func TestTopN(t *testing.T) {
	counts := []NamedCount{{Name: "a", Count: 3}, {Name: "b", Count: 2}, {Name: "c", Count: 1}}

	assert.Len(t, TopN(counts, 2), 2)
	assert.Len(t, TopN(counts, 10), 3)
	assert.Empty(t, TopN(counts, 0))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{testStenella, "stenella_coeruleoalba"},
		{"  Delphinus  delphis ", "delphinus_delphis"},
		{"2000–2005", "2000_2005"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
