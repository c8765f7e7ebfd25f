package domain

// Bounds is a latitude/longitude box in decimal degrees.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// StudyArea covers Spanish waters: the Iberian coasts, the Balearic and
// Canary Islands, Ceuta and Melilla.
var StudyArea = Bounds{MinLat: 26, MaxLat: 46, MinLon: -20, MaxLon: 6}

// Thresholds of the region rule. See the package documentation.
const (
	// gibraltarLon is the meridian of Tarifa; everything west of it is Atlantic.
	gibraltarLon = -5.6
	// cantabrianLat is the parallel north of which waters west of Greenwich
	// belong to the Bay of Biscay.
	cantabrianLat = 43.0
)

// ValidCoordinates reports whether lat/lon lie inside the global WGS-84 ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ClassifyRegion assigns a sea basin to a coordinate pair. Every valid
// coordinate yields exactly one region.
func ClassifyRegion(lat, lon float64) Region {
	if !StudyArea.Contains(lat, lon) {
		return RegionUnclassified
	}
	if lon <= gibraltarLon {
		return RegionAtlantic
	}
	if lon < 0 && lat >= cantabrianLat {
		return RegionAtlantic
	}
	return RegionMediterranean
}
