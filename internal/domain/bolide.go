package domain

import (
	"fmt"
	"strings"
	"time"
)

// bolideLayouts are the timestamp formats observed in the JPL fireball CSV,
// tried in order. All values are UTC.
var bolideLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// RawBolide mirrors one row of the semicolon-delimited fireball CSV.
type RawBolide struct {
	DateTime       string // "Date/Time"
	Lat            string // "Latitude (deg.)"
	Lon            string // "Longitude (deg.)"
	ImpactEnergy   string // "Impact energy (kt)"
	RadiatedEnergy string // "Radiated Energy (e10 J)"
	Velocity       string // "Velocity (km/s)"
	Altitude       string // "Altitude (km)"
}

// Bolide is the cleaned, typed fireball record. Timestamp is the zero time
// when the source value was unparseable; such records stay in the set but
// are excluded from time-based views.
type Bolide struct {
	Timestamp          time.Time    `json:"timestamp"`
	Lat                float64      `json:"lat"`
	Lon                float64      `json:"lon"`
	ImpactEnergyKt     float64      `json:"impact_energy_kt"`
	RadiatedEnergyE10J float64      `json:"radiated_energy_e10_j"`
	VelocityKmS        float64      `json:"velocity_km_s"`
	AltitudeKm         float64      `json:"altitude_km"`
	Year               int          `json:"year"`
	Month              time.Month   `json:"month"`
	Weekday            time.Weekday `json:"weekday"`
}

// HasTimestamp reports whether the record carries a usable event time.
func (b Bolide) HasTimestamp() bool {
	return !b.Timestamp.IsZero()
}

// DeriveBolide converts a raw CSV row into a Bolide. Rows without
// coordinates are dropped; an unparseable timestamp coerces to the zero
// time instead of failing. Year, month, and weekday are derived from the
// parsed timestamp.
func DeriveBolide(raw RawBolide) (Bolide, error) {
	lat, okLat := parseFloat(raw.Lat)
	lon, okLon := parseFloat(raw.Lon)
	if !okLat || !okLon {
		return Bolide{}, fmt.Errorf("bolide %q: %w", raw.DateTime, ErrMissingCoordinates)
	}

	b := Bolide{
		Timestamp:          parseBolideTimestamp(raw.DateTime),
		Lat:                lat,
		Lon:                lon,
		ImpactEnergyKt:     parseFloatOrZero(raw.ImpactEnergy),
		RadiatedEnergyE10J: parseFloatOrZero(raw.RadiatedEnergy),
		VelocityKmS:        parseFloatOrZero(raw.Velocity),
		AltitudeKm:         parseFloatOrZero(raw.Altitude),
	}

	if b.HasTimestamp() {
		b.Year = b.Timestamp.Year()
		b.Month = b.Timestamp.Month()
		b.Weekday = b.Timestamp.Weekday()
	}

	return b, nil
}

// parseBolideTimestamp parses a free-text date/time value as UTC. Returns
// the zero time when no known layout matches.
func parseBolideTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range bolideLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
