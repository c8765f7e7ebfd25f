package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeSpeciesName trims a scientific name, drops authorship and re-cases
// it as "Genus epithet [infraspecific]". Returns "" for missing values.
//
// The name ends at the first token after the genus that opens a parenthesis,
// starts with a digit or starts with an upper-case letter, which is how
// authorship strings begin: "Delphinus delphis Linnaeus, 1758". All-caps
// epithets from shouted names are kept.
func NormalizeSpeciesName(name string) string {
	if isMissing(name) {
		return ""
	}

	fields := strings.Fields(name)
	out := make([]string, 0, len(fields))
	for i, f := range fields {
		if i == 0 {
			out = append(out, capitalize(f))
			continue
		}
		r, _ := utf8.DecodeRuneInString(f)
		if r == '(' || r == '[' || unicode.IsDigit(r) || (unicode.IsUpper(r) && !isShoutedEpithet(f)) {
			break
		}
		out = append(out, strings.ToLower(strings.TrimRight(f, ",")))
	}
	return strings.Join(out, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// isShoutedEpithet reports whether an all-caps token is an epithet
// ("TRUNCATUS") rather than an author abbreviation ("DC.", "DC", "L.").
// Epithets carry no period and at least three letters.
func isShoutedEpithet(s string) bool {
	if strings.ContainsRune(s, '.') {
		return false
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 3
}
