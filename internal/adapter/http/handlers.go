package http

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/dashboard"
	"github.com/couchcryptid/skyfall-dashboard/internal/filter"
)

func (s *Server) handleMeteorites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	theme, err := chart.ParseTheme(q.Get("theme"), s.defaultTheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	years, err := parseYearRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mass, err := parseFloatRange(q, "mass_min", "mass_max")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	spec := filter.MeteoriteSpec{
		Years:     years,
		FallTypes: filter.NewStringSet(q["fall"]...),
		Classes:   filter.NewStringSet(q["class"]...),
		Mass:      mass,
	}

	payload, err := s.renderer.RenderMeteorites(r.Context(), spec, theme)
	if err != nil {
		s.logger.Error("meteorites render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleBolides(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	theme, err := chart.ParseTheme(q.Get("theme"), s.defaultTheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	years, err := parseYearRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	energy, err := parseFloatRange(q, "energy_min", "energy_max")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	freq, err := aggregate.ParseFrequency(q.Get("freq"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics, err := dashboard.ValidateMetrics(q["metric"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	spec := filter.BolideSpec{Years: years, Energy: energy}
	opts := dashboard.BolideOptions{Frequency: freq, Metrics: metrics}

	payload, err := s.renderer.RenderBolides(r.Context(), spec, opts, theme)
	if err != nil {
		s.logger.Error("bolides render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleNEOs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	theme, err := chart.ParseTheme(q.Get("theme"), s.defaultTheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	years, err := parseYearRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	hazardous, err := parseBoolSet(q["hazardous"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	spec := filter.NEOSpec{Years: years, Hazardous: hazardous}

	payload, err := s.renderer.RenderNEOs(r.Context(), spec, theme)
	if err != nil {
		s.logger.Error("neos render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	payload, err := s.renderer.Summary(r.Context())
	if err != nil {
		s.logger.Error("summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// parseYearRange reads year_min/year_max. The range is active when either
// bound is present; a missing bound is unbounded on that side.
func parseYearRange(q url.Values) (filter.YearRange, error) {
	minStr, maxStr := q.Get("year_min"), q.Get("year_max")
	if minStr == "" && maxStr == "" {
		return filter.YearRange{}, nil
	}

	r := filter.YearRange{Min: math.MinInt32, Max: math.MaxInt32, Active: true}
	if minStr != "" {
		v, err := strconv.Atoi(minStr)
		if err != nil {
			return filter.YearRange{}, fmt.Errorf("invalid year_min %q", minStr)
		}
		r.Min = v
	}
	if maxStr != "" {
		v, err := strconv.Atoi(maxStr)
		if err != nil {
			return filter.YearRange{}, fmt.Errorf("invalid year_max %q", maxStr)
		}
		r.Max = v
	}
	return r, nil
}

// parseFloatRange reads a numeric range from the named parameters, active
// when either bound is present.
func parseFloatRange(q url.Values, minKey, maxKey string) (filter.FloatRange, error) {
	minStr, maxStr := q.Get(minKey), q.Get(maxKey)
	if minStr == "" && maxStr == "" {
		return filter.FloatRange{}, nil
	}

	r := filter.FloatRange{Min: math.Inf(-1), Max: math.Inf(1), Active: true}
	if minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return filter.FloatRange{}, fmt.Errorf("invalid %s %q", minKey, minStr)
		}
		r.Min = v
	}
	if maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return filter.FloatRange{}, fmt.Errorf("invalid %s %q", maxKey, maxStr)
		}
		r.Max = v
	}
	return r, nil
}

// parseBoolSet reads repeated true/false selections into a BoolSet.
func parseBoolSet(values []string) (filter.BoolSet, error) {
	var s filter.BoolSet
	for _, v := range values {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter.BoolSet{}, fmt.Errorf("invalid hazardous value %q", v)
		}
		if b {
			s.True = true
		} else {
			s.False = true
		}
	}
	return s, nil
}
