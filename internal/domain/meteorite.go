package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fall types recorded in the meteorite dataset.
const (
	FallFell  = "Fell"
	FallFound = "Found"
)

// RawMeteorite mirrors one row of the meteorite landings CSV, all columns as
// they appear in the file.
type RawMeteorite struct {
	Name  string // "name"
	ID    string // "id"
	Class string // "recclass"
	Mass  string // "mass (g)"
	Fall  string // "fall"
	Year  string // "year"
	Lat   string // "reclat"
	Lon   string // "reclong"
}

// Meteorite is the cleaned, typed record consumed by the filter engine.
type Meteorite struct {
	Name      string  `json:"name"`
	ID        int64   `json:"id"`
	Class     string  `json:"class"`
	MassGrams float64 `json:"mass_grams"`
	Fall      string  `json:"fall"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Year      int     `json:"year"`
}

// DeriveMeteorite converts a raw CSV row into a Meteorite. It returns a
// drop-reason sentinel when the row is missing year, mass, or coordinates,
// or when the mass is not positive.
func DeriveMeteorite(raw RawMeteorite) (Meteorite, error) {
	year, ok := parseYear(raw.Year)
	if !ok {
		return Meteorite{}, fmt.Errorf("meteorite %q: %w", raw.Name, ErrMissingYear)
	}

	mass, ok := parseFloat(raw.Mass)
	if !ok {
		return Meteorite{}, fmt.Errorf("meteorite %q: %w", raw.Name, ErrMissingMass)
	}
	if mass <= 0 {
		return Meteorite{}, fmt.Errorf("meteorite %q: %w", raw.Name, ErrNonPositiveMass)
	}

	lat, okLat := parseFloat(raw.Lat)
	lon, okLon := parseFloat(raw.Lon)
	if !okLat || !okLon {
		return Meteorite{}, fmt.Errorf("meteorite %q: %w", raw.Name, ErrMissingCoordinates)
	}

	id, _ := strconv.ParseInt(strings.TrimSpace(raw.ID), 10, 64)

	return Meteorite{
		Name:      strings.TrimSpace(raw.Name),
		ID:        id,
		Class:     strings.TrimSpace(raw.Class),
		MassGrams: mass,
		Fall:      strings.TrimSpace(raw.Fall),
		Lat:       lat,
		Lon:       lon,
		Year:      year,
	}, nil
}

// parseYear accepts integer years and years serialized with a fractional
// part ("1880.0").
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return int(v), true
}

// parseFloat parses a string as float64, reporting whether a usable value
// was present. NaN counts as missing.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return v
}
