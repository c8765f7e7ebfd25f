// Package domain models cetacean occurrence records from GBIF extracts of
// Spanish coastal waters.
//
// # Data Source
//
// Records come from a GBIF "simple" occurrence download filtered to the
// order Cetacea and country ES. The download is a tab-separated file with
// Darwin Core column names (scientificName, eventDate, decimalLatitude, ...).
// Publishers leave quotes in free text, so the loader reads with lazy quotes
// and rejects the whole file when a field runs across a line break, which
// only an unbalanced quote produces.
//
// # Column Conventions
//
// Header names are folded before lookup: trimmed, lower-cased, spaces
// replaced by underscores, accents stripped and punctuation removed, so
// "decimalLatitude" becomes "decimallatitude" and "Año" becomes "ano".
// Each field accepts the raw Darwin Core name and the canonical name (see
// [columnAliases]).
//
// The cleaned table keeps every source column in source order, with the
// scientific name cell normalized, followed by community and region. A
// source that already has community and region columns keeps its layout and
// gets them overwritten, which lets a cleaned file be fed back through the
// cleaner unchanged. Records built without a source row are written with
// [CanonicalColumns].
//
// Dates:
//
//	eventDate is ISO 8601: "2006-04-02", "2006-04-02T10:15:00Z", "2006-04"
//	or an interval "2006-04-02/2006-04-05" (the start is used).
//	When eventDate is empty or unparseable, the separate year and month
//	columns fill the gaps. A record needs both a year and a month.
//
// Scientific names:
//
//	GBIF names carry authorship: "Tursiops truncatus (Montagu, 1821)".
//	Names are reduced to genus plus lower-case epithets and re-cased:
//	"  tursiops TRUNCATUS (Montagu, 1821)" -> "Tursiops truncatus".
//
// Unknown values:
//
//	Empty strings, "NA" and "NaN" are missing.
//
// # Region Rule
//
// Coordinates are assigned to a sea basin with a fixed longitude/latitude
// rule, see [ClassifyRegion]:
//
//	outside lat 26..46, lon -20..6    Unclassified
//	lon <= -5.6                        Atlantic (Gulf of Cadiz, Galicia, Canaries)
//	lon < 0 and lat >= 43              Atlantic (Cantabrian Sea)
//	otherwise                          Mediterranean (Alboran Sea eastwards, Balearics)
//
// -5.6 is the meridian of Tarifa at the Strait of Gibraltar.
//
// # Autonomous Communities
//
// stateProvince holds a mix of provinces, communities, bilingual names and
// sea areas. [MapCommunity] folds these into the 17 autonomous communities
// or "no asignado".
//
// # Cleaning
//
// [Clean] runs over the whole table at once. Rows that fail validation are
// dropped and counted by [DropReason]. A row whose cleaned row is identical
// to an already kept one, every source cell included, is dropped as
// [DropDuplicate]; sightings differing only in day or gbifID both survive.
// Cleaning a cleaned table returns it unchanged.
package domain
