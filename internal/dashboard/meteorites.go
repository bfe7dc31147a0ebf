package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
	"github.com/couchcryptid/skyfall-dashboard/internal/filter"
)

// RenderMeteorites runs the full render pipeline for the meteorites tab.
func (s *Service) RenderMeteorites(ctx context.Context, spec filter.MeteoriteSpec, theme chart.Theme) (*TabPayload, error) {
	start := domain.Now()

	snap, err := s.loadMeteorites(ctx)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(TabMeteorites).Inc()
		return nil, fmt.Errorf("render meteorites: %w", err)
	}

	filtered := filter.Meteorites(snap.Records, spec)
	minYear, maxYear, _ := aggregate.YearBounds(snap.Records, func(m domain.Meteorite) int { return m.Year })

	template := theme.Template(s.cfg.Palettes)
	payload := &TabPayload{
		Tab:          TabMeteorites,
		Theme:        theme,
		Palette:      s.palette(theme),
		GeneratedAt:  start,
		RowsTotal:    len(snap.Records),
		RowsFiltered: len(filtered),
		MinYear:      minYear,
		MaxYear:      maxYear,
		Charts: []chart.Spec{
			meteoriteTimeline(filtered, template),
			meteoriteFallTimeline(filtered, template),
			meteoriteLandingMap(filtered, template),
			meteoriteTopClasses(filtered, s.cfg.TopClasses, template),
		},
	}

	s.observeRender(TabMeteorites, start, len(filtered))
	return payload, nil
}

// meteoriteTimeline is the landings-per-year line chart.
func meteoriteTimeline(records []domain.Meteorite, template string) chart.Spec {
	counts := aggregate.CountByYear(records, func(m domain.Meteorite) int { return m.Year })
	x := make([]string, len(counts))
	y := make([]float64, len(counts))
	for i, c := range counts {
		x[i] = strconv.Itoa(c.Year)
		y[i] = float64(c.Count)
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    "Meteorites Trend per Year",
		Template: template,
		XLabel:   "Year",
		YLabel:   "Count",
		Lines:    []chart.LineSeries{{X: x, Y: y, Markers: true}},
	}
}

// meteoriteFallTimeline splits the yearly counts into one line per fall
// type.
func meteoriteFallTimeline(records []domain.Meteorite, template string) chart.Spec {
	series := aggregate.CountByYearCategory(records,
		func(m domain.Meteorite) int { return m.Year },
		func(m domain.Meteorite) string { return m.Fall })
	lines := make([]chart.LineSeries, len(series))
	for i, s := range series {
		x := make([]string, len(s.Counts))
		y := make([]float64, len(s.Counts))
		for j, c := range s.Counts {
			x[j] = strconv.Itoa(c.Year)
			y[j] = float64(c.Count)
		}
		lines[i] = chart.LineSeries{Name: s.Category, X: x, Y: y, Markers: true}
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    "Landings per Year by Fall Type",
		Template: template,
		XLabel:   "Year",
		YLabel:   "Count",
		Lines:    lines,
	}
}

// meteoriteLandingMap is the geographic scatter, colored by fall type and
// sized by mass.
func meteoriteLandingMap(records []domain.Meteorite, template string) chart.Spec {
	points := make([]chart.GeoPoint, len(records))
	for i, m := range records {
		points[i] = chart.GeoPoint{
			Lat:   m.Lat,
			Lon:   m.Lon,
			Label: m.Name,
			Group: m.Fall,
			Size:  m.MassGrams,
		}
	}
	return chart.Spec{
		Type:      chart.TypeScatterGeo,
		Title:     "Meteorite Landing Map",
		Template:  template,
		GeoPoints: points,
	}
}

// meteoriteTopClasses is the top-N classification bar chart.
func meteoriteTopClasses(records []domain.Meteorite, n int, template string) chart.Spec {
	counts := aggregate.CountByCategory(records, func(m domain.Meteorite) string { return m.Class })
	top := aggregate.TopCategories(counts, n)
	bars := make([]chart.BarEntry, len(top))
	for i, c := range top {
		bars[i] = chart.BarEntry{Category: c.Category, Value: float64(c.Count)}
	}
	return chart.Spec{
		Type:     chart.TypeBar,
		Title:    "Meteorite Classes",
		Template: template,
		XLabel:   "Class",
		YLabel:   "Count",
		Bars:     bars,
	}
}
