package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
	"github.com/couchcryptid/skyfall-dashboard/internal/filter"
)

// Bolide metric keys selectable for the resample chart.
const (
	MetricImpactEnergy   = "impact_energy"
	MetricRadiatedEnergy = "radiated_energy"
	MetricVelocity       = "velocity"
	MetricAltitude       = "altitude"
)

// bolideMetrics maps metric keys to display names and value accessors.
var bolideMetrics = map[string]struct {
	name  string
	value func(domain.Bolide) float64
}{
	MetricImpactEnergy:   {"Impact energy (kt)", func(b domain.Bolide) float64 { return b.ImpactEnergyKt }},
	MetricRadiatedEnergy: {"Radiated Energy (e10 J)", func(b domain.Bolide) float64 { return b.RadiatedEnergyE10J }},
	MetricVelocity:       {"Velocity (km/s)", func(b domain.Bolide) float64 { return b.VelocityKmS }},
	MetricAltitude:       {"Altitude (km)", func(b domain.Bolide) float64 { return b.AltitudeKm }},
}

// BolideOptions are the widget selections specific to the bolides tab: the
// resample frequency and the metric multi-select.
type BolideOptions struct {
	Frequency aggregate.Frequency
	Metrics   []string
}

// ValidateMetrics checks the metric multi-select, defaulting to impact
// energy when empty.
func ValidateMetrics(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return []string{MetricImpactEnergy}, nil
	}
	for _, k := range keys {
		if _, ok := bolideMetrics[k]; !ok {
			return nil, fmt.Errorf("invalid metric %q", k)
		}
	}
	return keys, nil
}

// RenderBolides runs the full render pipeline for the bolides tab.
func (s *Service) RenderBolides(ctx context.Context, spec filter.BolideSpec, opts BolideOptions, theme chart.Theme) (*TabPayload, error) {
	start := domain.Now()

	snap, err := s.loadBolides(ctx)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(TabBolides).Inc()
		return nil, fmt.Errorf("render bolides: %w", err)
	}

	filtered := filter.Bolides(snap.Records, spec)
	dated := timestampedBolides(snap.Records)
	minYear, maxYear, _ := aggregate.YearBounds(dated, func(b domain.Bolide) int { return b.Year })

	template := theme.Template(s.cfg.Palettes)
	charts := []chart.Spec{
		bolideTimeline(filtered, template),
		bolideLocationMap(filtered, template),
		bolideEnergyHistogram(filtered, s.cfg.HistogramBins, template),
		bolideMonthHeatmap(filtered, template),
		bolideCumulativeRadiated(filtered, template),
	}
	charts = append(charts, bolideResample(filtered, opts, template))

	payload := &TabPayload{
		Tab:          TabBolides,
		Theme:        theme,
		Palette:      s.palette(theme),
		GeneratedAt:  start,
		RowsTotal:    len(snap.Records),
		RowsFiltered: len(filtered),
		MinYear:      minYear,
		MaxYear:      maxYear,
		Charts:       charts,
	}

	s.observeRender(TabBolides, start, len(filtered))
	return payload, nil
}

// bolideAt adapts a Bolide for the time-based aggregators.
func bolideAt(b domain.Bolide) (time.Time, bool) {
	return b.Timestamp, b.HasTimestamp()
}

// bolideTimeline is the observations-per-year line chart. Records without
// a timestamp are excluded.
func bolideTimeline(records []domain.Bolide, template string) chart.Spec {
	dated := timestampedBolides(records)
	counts := aggregate.CountByYear(dated, func(b domain.Bolide) int { return b.Year })
	x := make([]string, len(counts))
	y := make([]float64, len(counts))
	for i, c := range counts {
		x[i] = strconv.Itoa(c.Year)
		y[i] = float64(c.Count)
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    "Bolides Trend per Year",
		Template: template,
		XLabel:   "Year",
		YLabel:   "Count",
		Lines:    []chart.LineSeries{{X: x, Y: y, Markers: true}},
	}
}

// bolideLocationMap is the geographic scatter, colored by impact energy and
// sized by radiated energy.
func bolideLocationMap(records []domain.Bolide, template string) chart.Spec {
	points := make([]chart.GeoPoint, len(records))
	for i, b := range records {
		label := ""
		if b.HasTimestamp() {
			label = b.Timestamp.Format(time.RFC3339)
		}
		points[i] = chart.GeoPoint{
			Lat:   b.Lat,
			Lon:   b.Lon,
			Label: label,
			Color: b.ImpactEnergyKt,
			Size:  b.RadiatedEnergyE10J,
		}
	}
	return chart.Spec{
		Type:      chart.TypeScatterGeo,
		Title:     "Bolide Location Map",
		Template:  template,
		GeoPoints: points,
	}
}

// bolideEnergyHistogram is the impact energy distribution.
func bolideEnergyHistogram(records []domain.Bolide, nbins int, template string) chart.Spec {
	values := make([]float64, len(records))
	for i, b := range records {
		values[i] = b.ImpactEnergyKt
	}
	return chart.Spec{
		Type:     chart.TypeHistogram,
		Title:    "Impact Energy",
		Template: template,
		XLabel:   "Impact energy (kt)",
		YLabel:   "Count",
		Bins:     aggregate.Histogram(values, nbins),
	}
}

// bolideMonthHeatmap is the month-by-year observation count heatmap.
func bolideMonthHeatmap(records []domain.Bolide, template string) chart.Spec {
	m := aggregate.MonthYearCounts(records, bolideAt)
	return chart.Spec{
		Type:     chart.TypeHeatmap,
		Title:    "Observations by Month and Year",
		Template: template,
		XLabel:   "Year",
		YLabel:   "Month",
		Heatmap:  &m,
	}
}

// bolideCumulativeRadiated is the running total of radiated energy over
// time.
func bolideCumulativeRadiated(records []domain.Bolide, template string) chart.Spec {
	points := aggregate.CumulativeSum(records, bolideAt,
		func(b domain.Bolide) float64 { return b.RadiatedEnergyE10J })
	x := make([]string, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Time.Format(time.RFC3339)
		y[i] = p.Total
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    "Cumulative Radiated Energy",
		Template: template,
		XLabel:   "Time",
		YLabel:   "Radiated Energy (e10 J)",
		Lines:    []chart.LineSeries{{X: x, Y: y}},
	}
}

// bolideResample is the yearly/monthly metric sum chart, one line per
// selected metric.
func bolideResample(records []domain.Bolide, opts BolideOptions, template string) chart.Spec {
	freq := opts.Frequency
	if freq == "" {
		freq = aggregate.Yearly
	}
	metrics := opts.Metrics
	if len(metrics) == 0 {
		metrics = []string{MetricImpactEnergy}
	}

	lines := make([]chart.LineSeries, 0, len(metrics))
	for _, key := range metrics {
		m, ok := bolideMetrics[key]
		if !ok {
			continue
		}
		buckets := aggregate.ResampleSum(records, bolideAt, m.value, freq)
		x := make([]string, len(buckets))
		y := make([]float64, len(buckets))
		for i, b := range buckets {
			x[i] = b.Label
			y[i] = b.Sum
		}
		lines = append(lines, chart.LineSeries{Name: m.name, X: x, Y: y, Markers: true})
	}

	title := "Yearly Metric Totals"
	if freq == aggregate.Monthly {
		title = "Monthly Metric Totals"
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    title,
		Template: template,
		XLabel:   "Bucket",
		YLabel:   "Sum",
		Lines:    lines,
	}
}
