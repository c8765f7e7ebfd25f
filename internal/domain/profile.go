package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Period is an inclusive range of years.
type Period struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Contains reports whether year falls inside the period.
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

func (p Period) String() string {
	return fmt.Sprintf("%d–%d", p.Start, p.End)
}

// FocusSpecies is a species highlighted in per-species charts and the map.
type FocusSpecies struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"` // "#RRGGBB"
}

// Profile tunes what the reporter draws. It never affects cleaning.
type Profile struct {
	FocusSpecies     []FocusSpecies `yaml:"focus_species"`
	TopN             int            `yaml:"top_n"`
	DecadeSplit      int            `yaml:"decade_split"`
	Periods          []Period       `yaml:"periods"`
	GeohashPrecision int            `yaml:"geohash_precision"`
	MapZoom          int            `yaml:"map_zoom"`
}

// DefaultProfile compares striped and common dolphin
// over four six-year periods.
func DefaultProfile() Profile {
	return Profile{
		FocusSpecies: []FocusSpecies{
			{Name: "Stenella coeruleoalba", Color: "#2A9D8F"},
			{Name: "Delphinus delphis", Color: "#B55656"},
		},
		TopN:        10,
		DecadeSplit: 2010,
		Periods: []Period{
			{Start: 2000, End: 2005},
			{Start: 2006, End: 2011},
			{Start: 2012, End: 2017},
			{Start: 2018, End: 2024},
		},
		GeohashPrecision: 4,
		MapZoom:          5,
	}
}

// Validate checks the profile for values the renderers cannot draw.
func (p Profile) Validate() error {
	if p.TopN <= 0 {
		return fmt.Errorf("profile: top_n must be positive, got %d", p.TopN)
	}
	if p.GeohashPrecision < 1 || p.GeohashPrecision > 12 {
		return fmt.Errorf("profile: geohash_precision must be 1..12, got %d", p.GeohashPrecision)
	}
	if p.MapZoom < 1 || p.MapZoom > 18 {
		return fmt.Errorf("profile: map_zoom must be 1..18, got %d", p.MapZoom)
	}
	for i, s := range p.FocusSpecies {
		if NormalizeSpeciesName(s.Name) == "" {
			return fmt.Errorf("profile: focus_species[%d] has no name", i)
		}
		if _, err := ParseHexColor(s.Color); err != nil {
			return fmt.Errorf("profile: focus_species[%d]: %w", i, err)
		}
	}
	for i, per := range p.Periods {
		if per.Start > per.End {
			return fmt.Errorf("profile: periods[%d] starts after it ends (%s)", i, per)
		}
	}
	return nil
}

// FocusNames returns the normalized names of the focus species.
func (p Profile) FocusNames() []string {
	names := make([]string, len(p.FocusSpecies))
	for i, s := range p.FocusSpecies {
		names[i] = NormalizeSpeciesName(s.Name)
	}
	return names
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
