package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks after NFKD decomposition: "Cádiz" -> "Cadiz".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeColumnName folds a header cell into a lookup key: trimmed,
// lower-case, spaces as underscores, ASCII letters, digits and underscores only.
// "decimalLatitude" -> "decimallatitude", " Año de registro" -> "ano_de_registro".
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = foldAccents(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Layout locates the RawRecord fields in a source row and places the row in
// the cleaned table. The cleaned header is the source header followed by the
// community and region columns when the source does not carry them already,
// so a cleaned table has the same layout as the table it was cleaned from.
type Layout struct {
	// Header is the cleaned table header.
	Header []string

	index map[string]int // field -> column, -1 when absent from the source
}

// ResolveColumns locates RawRecord fields in a header row. Scientific name and
// both coordinates are required, as is at least one of eventdate or year.
func ResolveColumns(header []string) (*Layout, error) {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeColumnName(h)
		if _, dup := seen[key]; !dup {
			seen[key] = i
		}
	}

	l := &Layout{
		Header: append([]string(nil), header...),
		index:  make(map[string]int, len(columnAliases)),
	}
	for field, aliases := range columnAliases {
		l.index[field] = -1
		for _, alias := range aliases {
			if i, ok := seen[alias]; ok {
				l.index[field] = i
				break
			}
		}
	}

	for _, field := range []string{ColScientificName, ColLatitude, ColLongitude} {
		if l.index[field] < 0 {
			return nil, fmt.Errorf("resolve columns: missing required column %q", field)
		}
	}
	if l.index[colEventDate] < 0 && l.index[ColYear] < 0 {
		return nil, fmt.Errorf("resolve columns: missing date columns %q or %q", colEventDate, ColYear)
	}

	for _, derived := range []string{ColCommunity, ColRegion} {
		if l.index[derived] < 0 {
			l.index[derived] = len(l.Header)
			l.Header = append(l.Header, derived)
		}
	}
	return l, nil
}

// Index returns the column holding field, or -1 when the source has none.
func (l *Layout) Index(field string) int {
	if i, ok := l.index[field]; ok {
		return i
	}
	return -1
}

// Record extracts a RawRecord from a data row. line is the 1-based data row number.
func (l *Layout) Record(row []string, line int) RawRecord {
	return RawRecord{
		Line:            line,
		ScientificName:  l.cell(row, ColScientificName),
		EventDate:       l.cell(row, colEventDate),
		Year:            l.cell(row, ColYear),
		Month:           l.cell(row, ColMonth),
		Latitude:        l.cell(row, ColLatitude),
		Longitude:       l.cell(row, ColLongitude),
		IndividualCount: l.cell(row, ColIndividualCount),
		StateProvince:   l.cell(row, ColStateProvince),
		Cells:           row,
		Layout:          l,
	}
}

// cleanedRow copies row into the cleaned layout with the derived values set.
func (l *Layout) cleanedRow(row []string, o Observation) []string {
	cells := make([]string, len(l.Header))
	copy(cells, row)
	cells[l.index[ColScientificName]] = o.ScientificName
	cells[l.index[ColCommunity]] = o.Community
	cells[l.index[ColRegion]] = string(o.Region)
	return cells
}

func (l *Layout) cell(row []string, field string) string {
	i := l.Index(field)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
