package domain

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanFixture() []RawRecord {
	return []RawRecord{
		{Line: 1, ScientificName: " Tursiops truncatus ", Year: "2005", Month: "6", Latitude: "43.5", Longitude: "-8.2", StateProvince: "Pontevedra"},
		{Line: 2, ScientificName: "Tursiops truncatus (Montagu, 1821)", Year: "2005", Month: "6", Latitude: "43.5", Longitude: "-8.2", StateProvince: "Pontevedra"},
		{Line: 3, ScientificName: testStenella, EventDate: "2015-07-01", Latitude: "39.6", Longitude: "2.7", IndividualCount: "30", StateProvince: "Illes Balears"},
		{Line: 4, ScientificName: testDelphinus, EventDate: "2019-02-11", Latitude: "95.0", Longitude: "-8.2"},
		{Line: 5, ScientificName: testDelphinus, EventDate: "1998-02-11", Latitude: "36.1", Longitude: "-6.0"},
		{Line: 6, ScientificName: "", EventDate: "2019-02-11", Latitude: "36.1", Longitude: "-6.0"},
		{Line: 7, ScientificName: testDelphinus, EventDate: "2019-02-11", Latitude: "", Longitude: "-6.0"},
		{Line: 8, ScientificName: testDelphinus, Latitude: "36.1", Longitude: "-6.0"},
		{Line: 9, ScientificName: "delphinus DELPHIS", EventDate: "2024-12-31", Latitude: "36.1", Longitude: "-6.0", IndividualCount: "4"},
	}
}

func TestClean(t *testing.T) {
	obs, stats := Clean(cleanFixture(), DefaultWindow)

	require.Len(t, obs, 3)
	assert.Equal(t, Observation{
		ScientificName: testTursiops,
		Year:           2005,
		Month:          6,
		Latitude:       43.5,
		Longitude:      -8.2,
		StateProvince:  "Pontevedra",
		Community:      "galicia",
		Region:         RegionAtlantic,
	}, obs[0])
	assert.Equal(t, testStenella, obs[1].ScientificName)
	assert.Equal(t, RegionMediterranean, obs[1].Region)
	assert.Equal(t, 30, obs[1].IndividualCount)
	assert.Equal(t, testDelphinus, obs[2].ScientificName)
	assert.Equal(t, RegionAtlantic, obs[2].Region)

	assert.Equal(t, 9, stats.Loaded)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, map[DropReason]int{
		DropDuplicate:          1,
		DropInvalidCoordinates: 1,
		DropOutOfWindow:        1,
		DropMissingSpecies:     1,
		DropMissingCoordinates: 1,
		DropMissingDate:        1,
	}, stats.Dropped)
	assert.Equal(t, stats.Loaded, stats.Kept+stats.TotalDropped())
}

func TestClean_KeptIffValid(t *testing.T) {
	for _, raw := range cleanFixture() {
		obs, reason := ParseRawRecord(raw)
		kept, _ := Clean([]RawRecord{raw}, DefaultWindow)

		valid := reason == "" && DefaultWindow.Contains(obs.Year)
		assert.Equal(t, valid, len(kept) == 1, "line %d", raw.Line)
	}
}

func TestClean_Idempotent(t *testing.T) {
	first, _ := Clean(cleanFixture(), DefaultWindow)

	again := make([]RawRecord, len(first))
	for i, o := range first {
		again[i] = RawRecord{
			Line:            i + 1,
			ScientificName:  o.ScientificName,
			Year:            strconv.Itoa(o.Year),
			Month:           strconv.Itoa(o.Month),
			Latitude:        strconv.FormatFloat(o.Latitude, 'f', -1, 64),
			Longitude:       strconv.FormatFloat(o.Longitude, 'f', -1, 64),
			IndividualCount: strconv.Itoa(o.IndividualCount),
			StateProvince:   o.StateProvince,
		}
	}

	second, stats := Clean(again, DefaultWindow)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cleaning a cleaned table changed it (-first +second):\n%s", diff)
	}
	assert.Zero(t, stats.TotalDropped())
}

func TestClean_CustomWindow(t *testing.T) {
	obs, stats := Clean(cleanFixture(), Window{MinYear: 2010, MaxYear: 2020})

	require.Len(t, obs, 1)
	assert.Equal(t, testStenella, obs[0].ScientificName)
	assert.Equal(t, 4, stats.Dropped[DropOutOfWindow])
}

func TestClean_Empty(t *testing.T) {
	obs, stats := Clean(nil, DefaultWindow)
	assert.Empty(t, obs)
	assert.Zero(t, stats.Loaded)
	assert.Zero(t, stats.Kept)
}

func TestClean_DistinctSightingsSurvive(t *testing.T) {
	records := []RawRecord{
		{Line: 1, ScientificName: testTursiops, EventDate: "2010-05-01", Latitude: "43.5", Longitude: "-8.2"},
		{Line: 2, ScientificName: testTursiops, EventDate: "2010-05-02", Latitude: "43.5", Longitude: "-8.2"},
	}

	obs, stats := Clean(records, DefaultWindow)

	assert.Len(t, obs, 2, "same species, place and month on different days are two sightings")
	assert.Zero(t, stats.Dropped[DropDuplicate])
}

// sourceTable builds a RawTable the way the loader does, from a header and rows.
func sourceTable(t *testing.T, header []string, rows ...[]string) RawTable {
	t.Helper()
	layout, err := ResolveColumns(header)
	require.NoError(t, err)
	table := RawTable{Layout: layout}
	for i, row := range rows {
		table.Records = append(table.Records, layout.Record(row, i+1))
	}
	return table
}

func TestCleanTable(t *testing.T) {
	header := []string{"gbifID", "scientificName", "stateProvince", "decimalLatitude", "decimalLongitude", "eventDate", "day"}
	raw := sourceTable(t, header,
		[]string{"11", "Tursiops truncatus (Montagu, 1821)", "Pontevedra", "42.2", "-8.9", "2010-05-01", "1"},
		[]string{"12", "Tursiops truncatus (Montagu, 1821)", "Pontevedra", "42.2", "-8.9", "2010-05-01", "1"},
		[]string{"12", "TURSIOPS TRUNCATUS", "Pontevedra", "42.2", "-8.9", "2010-05-01", "1"},
		[]string{"13", "Tursiops truncatus", "Pontevedra", "42.2", "-8.9", "2010-05-02", "2"},
		[]string{"14", "Stenella coeruleoalba", "", "95.0", "2.1", "2011-06-01", "1"},
	)

	table, stats := CleanTable(raw, DefaultWindow)

	assert.Equal(t, append(header, ColCommunity, ColRegion), table.Header)
	require.Len(t, table.Observations, 3, "rows differing in gbifID or day are kept")
	assert.Equal(t, 1, stats.Dropped[DropDuplicate], "identical once the name is normalized")
	assert.Equal(t, 1, stats.Dropped[DropInvalidCoordinates])

	assert.Equal(t, [][]string{
		table.Header,
		{"11", testTursiops, "Pontevedra", "42.2", "-8.9", "2010-05-01", "1", "galicia", "Atlantic"},
		{"12", testTursiops, "Pontevedra", "42.2", "-8.9", "2010-05-01", "1", "galicia", "Atlantic"},
		{"13", testTursiops, "Pontevedra", "42.2", "-8.9", "2010-05-02", "2", "galicia", "Atlantic"},
	}, table.Rows())
}

func TestCleanTable_FixedPoint(t *testing.T) {
	raw := sourceTable(t, []string{"scientificName", "decimalLatitude", "decimalLongitude", "year", "month", "stateProvince"},
		[]string{" delphinus DELPHIS Linnaeus, 1758", "36.1", "-6.0", "2019", "2", "Cádiz"},
		[]string{"Stenella coeruleoalba", "39.6", "2.7", "2015", "7", "Mallorca"},
		[]string{"Stenella coeruleoalba", "39.6", "2.7", "2015", "7", "Atlantis"},
	)
	first, _ := CleanTable(raw, DefaultWindow)
	rows := first.Rows()

	again, stats := CleanTable(sourceTable(t, rows[0], rows[1:]...), DefaultWindow)

	if diff := cmp.Diff(rows, again.Rows()); diff != "" {
		t.Errorf("cleaning a cleaned table changed it (-first +second):\n%s", diff)
	}
	assert.Zero(t, stats.TotalDropped())
	assert.Equal(t, "atlantis", again.Observations[2].Community, "unknown provinces pass through")
}

func TestTable_RowsWithoutSourceCells(t *testing.T) {
	obs, _ := Clean(cleanFixture(), DefaultWindow)
	rows := Table{Observations: obs}.Rows()

	require.Len(t, rows, 4)
	assert.Equal(t, CanonicalColumns, rows[0])
	assert.Equal(t, []string{testTursiops, "2005", "6", "43.5", "-8.2", "0", "Pontevedra", "galicia", "Atlantic"}, rows[1])
}
