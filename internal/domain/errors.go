package domain

import "errors"

// Drop-reason sentinels returned by the Derive functions. Callers classify
// them with DropReason to keep per-reason counters.
var (
	ErrMissingYear        = errors.New("missing or unparseable year")
	ErrMissingMass        = errors.New("missing or unparseable mass")
	ErrNonPositiveMass    = errors.New("mass is not positive")
	ErrMissingCoordinates = errors.New("missing coordinates")
	ErrMissingDiameter    = errors.New("missing diameter estimate")
	ErrNoDiscoveryYear    = errors.New("no discovery year in name")
)

// DropReason maps a derivation error to a short label suitable for a metric
// label value. Unknown errors map to "invalid".
func DropReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingYear):
		return "missing_year"
	case errors.Is(err, ErrMissingMass):
		return "missing_mass"
	case errors.Is(err, ErrNonPositiveMass):
		return "non_positive_mass"
	case errors.Is(err, ErrMissingCoordinates):
		return "missing_coordinates"
	case errors.Is(err, ErrMissingDiameter):
		return "missing_diameter"
	case errors.Is(err, ErrNoDiscoveryYear):
		return "no_discovery_year"
	default:
		return "invalid"
	}
}
