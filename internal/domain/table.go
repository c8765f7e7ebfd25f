package domain

import "strconv"

// RawTable is a loaded input: the resolved layout of its header and one
// RawRecord per data row. Layout is nil for tables built without a header.
type RawTable struct {
	Layout  *Layout
	Records []RawRecord
}

// CleanedHeader returns the header of the cleaned table built from t.
func (t RawTable) CleanedHeader() []string {
	if t.Layout == nil {
		return CanonicalColumns
	}
	return t.Layout.Header
}

// Table is the cleaned table: the header written to disk and the kept rows.
type Table struct {
	Header       []string
	Observations []Observation
}

// Rows renders the table as string rows, header first. Observations without
// source cells are written in the canonical layout.
func (t Table) Rows() [][]string {
	header := t.Header
	if len(header) == 0 {
		header = CanonicalColumns
	}

	rows := make([][]string, 0, len(t.Observations)+1)
	rows = append(rows, header)
	for _, o := range t.Observations {
		if o.Cells != nil {
			rows = append(rows, o.Cells)
			continue
		}
		rows = append(rows, canonicalRow(o))
	}
	return rows
}

// canonicalRow renders o in CanonicalColumns order. Floats use the shortest
// representation that parses back to the same value.
func canonicalRow(o Observation) []string {
	return []string{
		o.ScientificName,
		strconv.Itoa(o.Year),
		strconv.Itoa(o.Month),
		strconv.FormatFloat(o.Latitude, 'f', -1, 64),
		strconv.FormatFloat(o.Longitude, 'f', -1, 64),
		strconv.Itoa(o.IndividualCount),
		o.StateProvince,
		o.Community,
		string(o.Region),
	}
}
