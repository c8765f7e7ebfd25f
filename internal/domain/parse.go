package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// eventDateLayouts are tried in order against the start of an eventDate value.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// ParseRawRecord validates and normalizes one raw row. When the row is
// rejected the returned reason is non-empty and the observation is zero.
// Year-window and duplicate checks happen in [Clean].
func ParseRawRecord(raw RawRecord) (Observation, DropReason) {
	name := NormalizeSpeciesName(raw.ScientificName)
	if name == "" {
		return Observation{}, DropMissingSpecies
	}

	if isMissing(raw.Latitude) || isMissing(raw.Longitude) {
		return Observation{}, DropMissingCoordinates
	}
	lat, errLat := parseFloat(raw.Latitude)
	lon, errLon := parseFloat(raw.Longitude)
	if errLat != nil || errLon != nil || !ValidCoordinates(lat, lon) {
		return Observation{}, DropInvalidCoordinates
	}

	year, month := parseEventDate(raw.EventDate)
	if year == 0 {
		year = parseIntOrZero(raw.Year)
	}
	if month == 0 {
		month = parseIntOrZero(raw.Month)
	}
	if year <= 0 || month < 1 || month > 12 {
		return Observation{}, DropMissingDate
	}

	count := parseIntOrZero(raw.IndividualCount)
	if count < 0 {
		count = 0
	}

	province := strings.Join(strings.Fields(raw.StateProvince), " ")
	if isMissing(province) {
		province = ""
	}

	obs := Observation{
		ScientificName:  name,
		Year:            year,
		Month:           month,
		Latitude:        lat,
		Longitude:       lon,
		IndividualCount: count,
		StateProvince:   province,
		Community:       MapCommunity(province),
		Region:          ClassifyRegion(lat, lon),
	}
	if raw.Layout != nil {
		obs.Cells = raw.Layout.cleanedRow(raw.Cells, obs)
	}
	return obs, ""
}

// isMissing reports whether a cell holds no value.
func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") || s == "<nil>"
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// parseIntOrZero parses an integer that may have been exported as a float
// ("2005.0"). Returns 0 for missing, fractional or unparseable values.
func parseIntOrZero(s string) int {
	if isMissing(s) {
		return 0
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	v, err := parseFloat(s)
	if err != nil || v != math.Trunc(v) {
		return 0
	}
	return int(v)
}

// parseEventDate extracts year and month from an ISO 8601 date or interval.
// Either part is 0 when it cannot be determined.
func parseEventDate(s string) (year, month int) {
	if isMissing(s) {
		return 0, 0
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}

	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), int(t.Month())
		}
	}

	// Year-only dates ("2006") carry no month.
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil {
			return y, 0
		}
	}
	return 0, 0
}
