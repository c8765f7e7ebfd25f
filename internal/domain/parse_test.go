package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTursiops  = "Tursiops truncatus"
	testStenella  = "Stenella coeruleoalba"
	testDelphinus = "Delphinus delphis"
)

func TestParseRawRecord(t *testing.T) {
	t.Run("atlantic bottlenose dolphin", func(t *testing.T) {
		raw := RawRecord{
			ScientificName: " Tursiops truncatus ",
			Year:           "2005",
			Month:          "7",
			Latitude:       "43.5",
			Longitude:      "-8.2",
			StateProvince:  "A Coruña",
		}

		obs, reason := ParseRawRecord(raw)

		require.Empty(t, reason)
		assert.Equal(t, testTursiops, obs.ScientificName)
		assert.Equal(t, 2005, obs.Year)
		assert.Equal(t, 7, obs.Month)
		assert.Equal(t, RegionAtlantic, obs.Region)
		assert.Equal(t, "galicia", obs.Community)
		assert.Equal(t, "A Coruña", obs.StateProvince)
	})

	t.Run("event date wins over year and month", func(t *testing.T) {
		raw := RawRecord{
			ScientificName: testStenella,
			EventDate:      "2012-08-14T10:30:00Z",
			Year:           "2011",
			Month:          "1",
			Latitude:       "39.5",
			Longitude:      "2.6",
		}

		obs, reason := ParseRawRecord(raw)

		require.Empty(t, reason)
		assert.Equal(t, 2012, obs.Year)
		assert.Equal(t, 8, obs.Month)
		assert.Equal(t, RegionMediterranean, obs.Region)
		assert.Equal(t, CommunityUnassigned, obs.Community)
	})

	t.Run("year-only event date falls back to month column", func(t *testing.T) {
		raw := RawRecord{ScientificName: testStenella, EventDate: "2012", Month: "3", Latitude: "36.7", Longitude: "-4.4"}

		obs, reason := ParseRawRecord(raw)

		require.Empty(t, reason)
		assert.Equal(t, 2012, obs.Year)
		assert.Equal(t, 3, obs.Month)
	})

	t.Run("float encoded integers", func(t *testing.T) {
		raw := RawRecord{
			ScientificName:  testDelphinus,
			Year:            "2005.0",
			Month:           "11.0",
			Latitude:        "36.0",
			Longitude:       "-5.0",
			IndividualCount: "12.0",
		}

		obs, reason := ParseRawRecord(raw)

		require.Empty(t, reason)
		assert.Equal(t, 2005, obs.Year)
		assert.Equal(t, 11, obs.Month)
		assert.Equal(t, 12, obs.IndividualCount)
	})

	rejects := []struct {
		name   string
		raw    RawRecord
		reason DropReason
	}{
		{"missing species", RawRecord{ScientificName: "  ", Year: "2005", Month: "1", Latitude: "40", Longitude: "0"}, DropMissingSpecies},
		{"NA species", RawRecord{ScientificName: "NA", Year: "2005", Month: "1", Latitude: "40", Longitude: "0"}, DropMissingSpecies},
		{"missing latitude", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Longitude: "0"}, DropMissingCoordinates},
		{"missing longitude", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Latitude: "40"}, DropMissingCoordinates},
		{"latitude out of range", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Latitude: "95.0", Longitude: "-8.2"}, DropInvalidCoordinates},
		{"longitude out of range", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Latitude: "40", Longitude: "-181"}, DropInvalidCoordinates},
		{"unparseable latitude", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Latitude: "43,5", Longitude: "-8.2"}, DropInvalidCoordinates},
		{"NaN coordinate", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "1", Latitude: "nan", Longitude: "-8.2"}, DropMissingCoordinates},
		{"missing date", RawRecord{ScientificName: testTursiops, Latitude: "40", Longitude: "0"}, DropMissingDate},
		{"missing month", RawRecord{ScientificName: testTursiops, Year: "2005", Latitude: "40", Longitude: "0"}, DropMissingDate},
		{"month out of range", RawRecord{ScientificName: testTursiops, Year: "2005", Month: "13", Latitude: "40", Longitude: "0"}, DropMissingDate},
	}

	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			obs, reason := ParseRawRecord(tt.raw)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, Observation{}, obs)
		})
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in    string
		year  int
		month int
	}{
		{"2006-04-02", 2006, 4},
		{"2006-04-02T10:15:00Z", 2006, 4},
		{"2006-04-02T10:15:00+02:00", 2006, 4},
		{"2006-04-02T10:15:00", 2006, 4},
		{"2006-04-02T10:15", 2006, 4},
		{"2006-04", 2006, 4},
		{"2006-04-02/2006-05-10", 2006, 4},
		{"2006", 2006, 0},
		{"", 0, 0},
		{"NA", 0, 0},
		{"02/04/2006", 0, 0},
		{"not a date", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			year, month := parseEventDate(tt.in)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.month, month)
		})
	}
}

func TestParseIntOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{" 7 ", 7},
		{"2005.0", 2005},
		{"2.5", 0},
		{"", 0},
		{"NaN", 0},
		{"abc", 0},
		{"-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIntOrZero(tt.in))
		})
	}
}
