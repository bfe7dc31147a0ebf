package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// discoveryYearRe matches a parenthesized 4-digit year starting "19" or
// "20" inside a NEO name, e.g. "2017 AB12 (2017 AB12)" -> "2017".
var discoveryYearRe = regexp.MustCompile(`\((19|20)\d{2}`)

// RawNEO mirrors one row of the near-Earth objects CSV.
type RawNEO struct {
	Name              string // "name"
	EstDiameterMin    string // "est_diameter_min"
	EstDiameterMax    string // "est_diameter_max"
	RelativeVelocity  string // "relative_velocity"
	MissDistance      string // "miss_distance"
	AbsoluteMagnitude string // "absolute_magnitude"
	Hazardous         string // "hazardous"
}

// NEO is the cleaned, typed near-Earth object record.
type NEO struct {
	Name              string  `json:"name"`
	EstDiameterMin    float64 `json:"est_diameter_min"`
	EstDiameterMax    float64 `json:"est_diameter_max"`
	MeanDiameter      float64 `json:"mean_diameter"`
	RelativeVelocity  float64 `json:"relative_velocity"`
	MissDistance      float64 `json:"miss_distance"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude"`
	Hazardous         bool    `json:"hazardous"`
	Year              int     `json:"year"`
}

// DeriveNEO converts a raw CSV row into a NEO. Records whose name carries
// no parenthesized discovery year are dropped, as are records missing a
// diameter estimate. MeanDiameter is the exact arithmetic mean of the
// min/max estimates.
func DeriveNEO(raw RawNEO) (NEO, error) {
	year, ok := ExtractDiscoveryYear(raw.Name)
	if !ok {
		return NEO{}, fmt.Errorf("neo %q: %w", raw.Name, ErrNoDiscoveryYear)
	}

	dMin, okMin := parseFloat(raw.EstDiameterMin)
	dMax, okMax := parseFloat(raw.EstDiameterMax)
	if !okMin || !okMax {
		return NEO{}, fmt.Errorf("neo %q: %w", raw.Name, ErrMissingDiameter)
	}

	return NEO{
		Name:              strings.TrimSpace(raw.Name),
		EstDiameterMin:    dMin,
		EstDiameterMax:    dMax,
		MeanDiameter:      (dMin + dMax) / 2,
		RelativeVelocity:  parseFloatOrZero(raw.RelativeVelocity),
		MissDistance:      parseFloatOrZero(raw.MissDistance),
		AbsoluteMagnitude: parseFloatOrZero(raw.AbsoluteMagnitude),
		Hazardous:         parseHazardous(raw.Hazardous),
		Year:              year,
	}, nil
}

// ExtractDiscoveryYear scans a NEO name for a parenthesized 4-digit year
// beginning "19" or "20" and reports whether one was found.
func ExtractDiscoveryYear(name string) (int, bool) {
	m := discoveryYearRe.FindString(name)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m[1:])
	if err != nil {
		return 0, false
	}
	return year, true
}

// parseHazardous accepts the dataset's "True"/"False" spelling as well as
// anything strconv.ParseBool takes. Unrecognized values read as false.
func parseHazardous(s string) bool {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
		return v
	}
	return false
}
