package domain

import "strings"

// Clean validates, normalizes and deduplicates a whole raw table. Kept
// observations preserve input order; the first of a set of duplicates wins.
//
// Two rows are duplicates when their cleaned rows are identical: every source
// cell matches once the scientific name is normalized. Records without a
// source row compare on their raw fields instead.
func Clean(records []RawRecord, window Window) ([]Observation, CleanStats) {
	stats := CleanStats{
		Loaded:  len(records),
		Dropped: make(map[DropReason]int, len(DropReasons)),
	}
	out := make([]Observation, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, raw := range records {
		obs, reason := ParseRawRecord(raw)
		if reason == "" && !window.Contains(obs.Year) {
			reason = DropOutOfWindow
		}
		var key string
		if reason == "" {
			key = rowKey(raw, obs)
			if _, dup := seen[key]; dup {
				reason = DropDuplicate
			}
		}
		if reason != "" {
			stats.Dropped[reason]++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, obs)
	}

	stats.Kept = len(out)
	return out, stats
}

// CleanTable cleans a loaded table and keeps its layout for writing.
func CleanTable(t RawTable, window Window) (Table, CleanStats) {
	observations, stats := Clean(t.Records, window)
	return Table{Header: t.CleanedHeader(), Observations: observations}, stats
}

const keySep = "\x1f"

func rowKey(raw RawRecord, obs Observation) string {
	if obs.Cells != nil {
		return strings.Join(obs.Cells, keySep)
	}
	return strings.Join([]string{
		obs.ScientificName,
		raw.EventDate,
		raw.Year,
		raw.Month,
		raw.Latitude,
		raw.Longitude,
		raw.IndividualCount,
		raw.StateProvince,
	}, keySep)
}
