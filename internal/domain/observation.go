package domain

import "errors"

// ErrEmptyInput is returned when an input table has no data rows.
var ErrEmptyInput = errors.New("input has no data rows")

// ErrMalformedInput is returned when an input table cannot be split into rows.
var ErrMalformedInput = errors.New("malformed input")

// Canonical column names, in the order of CanonicalColumns.
const (
	ColScientificName  = "scientific_name"
	ColYear            = "year"
	ColMonth           = "month"
	ColLatitude        = "latitude"
	ColLongitude       = "longitude"
	ColIndividualCount = "individual_count"
	ColStateProvince   = "state_province"
	ColCommunity       = "community"
	ColRegion          = "region"

	colEventDate = "eventdate"
)

// CanonicalColumns is the header of a cleaned table built from records that
// carry no source row.
var CanonicalColumns = []string{
	ColScientificName,
	ColYear,
	ColMonth,
	ColLatitude,
	ColLongitude,
	ColIndividualCount,
	ColStateProvince,
	ColCommunity,
	ColRegion,
}

// columnAliases maps each RawRecord field to the folded header names that
// may carry it, in priority order. Darwin Core names come first.
var columnAliases = map[string][]string{
	ColScientificName:  {"scientificname", ColScientificName, "species"},
	colEventDate:       {colEventDate, "event_date"},
	ColYear:            {ColYear},
	ColMonth:           {ColMonth},
	ColLatitude:        {"decimallatitude", ColLatitude},
	ColLongitude:       {"decimallongitude", ColLongitude},
	ColIndividualCount: {"individualcount", ColIndividualCount},
	ColStateProvince:   {"stateprovince", ColStateProvince},
	ColCommunity:       {ColCommunity},
	ColRegion:          {ColRegion},
}

// RawRecord is one input row reduced to the fields the cleaner reads.
// Values are untrimmed strings exactly as loaded.
type RawRecord struct {
	Line            int // 1-based data row number, for diagnostics
	ScientificName  string
	EventDate       string
	Year            string
	Month           string
	Latitude        string
	Longitude       string
	IndividualCount string
	StateProvince   string

	// Cells is the whole source row and Layout places it in the cleaned
	// table. Both are nil for records built without a source row.
	Cells  []string
	Layout *Layout
}

// Region is the sea basin derived from coordinates.
type Region string

const (
	RegionAtlantic      Region = "Atlantic"
	RegionMediterranean Region = "Mediterranean"
	RegionUnclassified  Region = "Unclassified"
)

// Regions lists every region label in report order.
var Regions = []Region{RegionAtlantic, RegionMediterranean, RegionUnclassified}

// Observation is a validated, normalized sighting.
type Observation struct {
	ScientificName  string  `json:"scientific_name"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	IndividualCount int     `json:"individual_count"`
	StateProvince   string  `json:"state_province,omitempty"`
	Community       string  `json:"community"`
	Region          Region  `json:"region"`

	// Cells is the row written to the cleaned table: the source row with the
	// name normalized and community and region filled in.
	Cells []string `json:"-"`
}

// DropReason labels why a raw record was excluded from the cleaned table.
type DropReason string

const (
	DropMissingSpecies     DropReason = "missing_species"
	DropMissingCoordinates DropReason = "missing_coordinates"
	DropInvalidCoordinates DropReason = "invalid_coordinates"
	DropMissingDate        DropReason = "missing_date"
	DropOutOfWindow        DropReason = "out_of_window"
	DropDuplicate          DropReason = "duplicate"
)

// DropReasons lists every drop reason in report order.
var DropReasons = []DropReason{
	DropMissingSpecies,
	DropMissingCoordinates,
	DropInvalidCoordinates,
	DropMissingDate,
	DropOutOfWindow,
	DropDuplicate,
}

// CleanStats summarizes one cleaning pass. Loaded == Kept + sum(Dropped).
type CleanStats struct {
	Loaded  int                `json:"loaded"`
	Kept    int                `json:"kept"`
	Dropped map[DropReason]int `json:"dropped"`
}

// TotalDropped returns the number of rows dropped for any reason.
func (s CleanStats) TotalDropped() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Window is the inclusive range of years covered by the dataset.
type Window struct {
	MinYear int
	MaxYear int
}

// DefaultWindow is the study's coverage window.
var DefaultWindow = Window{MinYear: 2000, MaxYear: 2024}

// Contains reports whether year falls inside the window.
func (w Window) Contains(year int) bool {
	return year >= w.MinYear && year <= w.MaxYear
}
