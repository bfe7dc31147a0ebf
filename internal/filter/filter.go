// Package filter applies request-scoped predicate sets to cleaned dataset
// records. Specs are rebuilt from query parameters on every render; an
// unset predicate matches everything, set predicates combine with logical
// AND, and every range is inclusive on both bounds. Apply never mutates its
// input, so filtering is idempotent.
package filter

import (
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
)

// YearRange is an inclusive [Min, Max] year window. The zero value matches
// all years.
type YearRange struct {
	Min, Max int
	Active   bool
}

// Contains reports whether year falls inside the range. Inactive ranges
// match everything.
func (r YearRange) Contains(year int) bool {
	if !r.Active {
		return true
	}
	return year >= r.Min && year <= r.Max
}

// FloatRange is an inclusive [Min, Max] window over a numeric measurement.
type FloatRange struct {
	Min, Max float64
	Active   bool
}

// Contains reports whether v falls inside the range.
func (r FloatRange) Contains(v float64) bool {
	if !r.Active {
		return true
	}
	return v >= r.Min && v <= r.Max
}

// StringSet is a set-membership predicate over a category field. A nil or
// empty set matches everything, mirroring the "all distinct values
// selected" widget default.
type StringSet map[string]bool

// NewStringSet builds a set from the externally supplied selections.
func NewStringSet(values ...string) StringSet {
	if len(values) == 0 {
		return nil
	}
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

// Contains reports membership; empty sets match everything.
func (s StringSet) Contains(v string) bool {
	if len(s) == 0 {
		return true
	}
	return s[v]
}

// BoolSet is a set-membership predicate over a boolean flag. Empty matches
// both values.
type BoolSet struct {
	True, False bool
}

// Contains reports membership; the zero BoolSet matches everything.
func (s BoolSet) Contains(v bool) bool {
	if !s.True && !s.False {
		return true
	}
	if v {
		return s.True
	}
	return s.False
}

// MeteoriteSpec holds the active predicates for the meteorites tab.
type MeteoriteSpec struct {
	Years     YearRange
	FallTypes StringSet
	Classes   StringSet
	Mass      FloatRange
}

// Match reports whether the record satisfies every active predicate.
func (s MeteoriteSpec) Match(m domain.Meteorite) bool {
	return s.Years.Contains(m.Year) &&
		s.FallTypes.Contains(m.Fall) &&
		s.Classes.Contains(m.Class) &&
		s.Mass.Contains(m.MassGrams)
}

// BolideSpec holds the active predicates for the bolides tab. Year
// filtering only applies to records with a usable timestamp; records
// without one are excluded from time-based views whenever a year range is
// active.
type BolideSpec struct {
	Years  YearRange
	Energy FloatRange
}

// Match reports whether the record satisfies every active predicate.
func (s BolideSpec) Match(b domain.Bolide) bool {
	if s.Years.Active && !b.HasTimestamp() {
		return false
	}
	return s.Years.Contains(b.Year) && s.Energy.Contains(b.ImpactEnergyKt)
}

// NEOSpec holds the active predicates for the NEOs tab.
type NEOSpec struct {
	Years     YearRange
	Hazardous BoolSet
}

// Match reports whether the record satisfies every active predicate.
func (s NEOSpec) Match(n domain.NEO) bool {
	return s.Years.Contains(n.Year) && s.Hazardous.Contains(n.Hazardous)
}

// Meteorites returns the subset of records matching the spec, in input
// order, as a fresh slice.
func Meteorites(records []domain.Meteorite, spec MeteoriteSpec) []domain.Meteorite {
	out := make([]domain.Meteorite, 0, len(records))
	for _, r := range records {
		if spec.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Bolides returns the subset of records matching the spec.
func Bolides(records []domain.Bolide, spec BolideSpec) []domain.Bolide {
	out := make([]domain.Bolide, 0, len(records))
	for _, r := range records {
		if spec.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// NEOs returns the subset of records matching the spec.
func NEOs(records []domain.NEO, spec NEOSpec) []domain.NEO {
	out := make([]domain.NEO, 0, len(records))
	for _, r := range records {
		if spec.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
