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

// hazardLabel renders the hazardous flag the way the dataset spells it.
func hazardLabel(hazardous bool) string {
	if hazardous {
		return "True"
	}
	return "False"
}

// RenderNEOs runs the full render pipeline for the near-Earth objects tab.
func (s *Service) RenderNEOs(ctx context.Context, spec filter.NEOSpec, theme chart.Theme) (*TabPayload, error) {
	start := domain.Now()

	snap, err := s.loadNEOs(ctx)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(TabNEOs).Inc()
		return nil, fmt.Errorf("render neos: %w", err)
	}

	filtered := filter.NEOs(snap.Records, spec)
	minYear, maxYear, _ := aggregate.YearBounds(snap.Records, func(n domain.NEO) int { return n.Year })

	template := theme.Template(s.cfg.Palettes)
	payload := &TabPayload{
		Tab:          TabNEOs,
		Theme:        theme,
		Palette:      s.palette(theme),
		GeneratedAt:  start,
		RowsTotal:    len(snap.Records),
		RowsFiltered: len(filtered),
		MinYear:      minYear,
		MaxYear:      maxYear,
		Charts: []chart.Spec{
			neoTimeline(filtered, template),
			neoDiameterHistogram(filtered, s.cfg.HistogramBins, template),
			neoVelocityScatter(filtered, template),
			neoDiameterViolin(filtered, template),
			neoHazardPie(filtered, template),
		},
	}

	s.observeRender(TabNEOs, start, len(filtered))
	return payload, nil
}

// neoTimeline is the discoveries-per-year line chart.
func neoTimeline(records []domain.NEO, template string) chart.Spec {
	counts := aggregate.CountByYear(records, func(n domain.NEO) int { return n.Year })
	x := make([]string, len(counts))
	y := make([]float64, len(counts))
	for i, c := range counts {
		x[i] = strconv.Itoa(c.Year)
		y[i] = float64(c.Count)
	}
	return chart.Spec{
		Type:     chart.TypeLine,
		Title:    "NEOs Discoveries per Year",
		Template: template,
		XLabel:   "Year",
		YLabel:   "Number of NEOs",
		Lines:    []chart.LineSeries{{X: x, Y: y, Markers: true}},
	}
}

// neoDiameterHistogram is the mean diameter distribution.
func neoDiameterHistogram(records []domain.NEO, nbins int, template string) chart.Spec {
	values := make([]float64, len(records))
	for i, n := range records {
		values[i] = n.MeanDiameter
	}
	return chart.Spec{
		Type:     chart.TypeHistogram,
		Title:    "NEO Diameter Distribution",
		Template: template,
		XLabel:   "Estimated Mean Diameter (m)",
		YLabel:   "Count",
		Bins:     aggregate.Histogram(values, nbins),
	}
}

// neoVelocityScatter is velocity vs miss distance, grouped by hazardous
// status.
func neoVelocityScatter(records []domain.NEO, template string) chart.Spec {
	points := make([]chart.ScatterPoint, len(records))
	for i, n := range records {
		points[i] = chart.ScatterPoint{
			X:     n.RelativeVelocity,
			Y:     n.MissDistance,
			Group: hazardLabel(n.Hazardous),
		}
	}
	return chart.Spec{
		Type:     chart.TypeScatter,
		Title:    "Velocity vs. Miss Distance",
		Template: template,
		XLabel:   "Relative Velocity (km/s)",
		YLabel:   "Miss Distance (km)",
		Points:   points,
	}
}

// neoDiameterViolin is the diameter distribution by hazardous status, with
// box stats for the inner box.
func neoDiameterViolin(records []domain.NEO, template string) chart.Spec {
	byGroup := map[string][]float64{}
	for _, n := range records {
		g := hazardLabel(n.Hazardous)
		byGroup[g] = append(byGroup[g], n.MeanDiameter)
	}

	violins := make([]chart.ViolinSeries, 0, 2)
	for _, g := range []string{"False", "True"} {
		values, ok := byGroup[g]
		if !ok {
			continue
		}
		violins = append(violins, chart.ViolinSeries{
			Group:  g,
			Values: values,
			Box:    chart.NewBoxStats(values),
		})
	}
	return chart.Spec{
		Type:     chart.TypeViolin,
		Title:    "NEO Diameter Distribution by Hazardous Status",
		Template: template,
		XLabel:   "Potentially Hazardous",
		YLabel:   "Mean Diameter (m)",
		Violins:  violins,
	}
}

// neoHazardPie is the hazardous vs non-hazardous ratio.
func neoHazardPie(records []domain.NEO, template string) chart.Spec {
	counts := aggregate.CountByCategory(records, func(n domain.NEO) string { return hazardLabel(n.Hazardous) })
	slices := make([]chart.PieSlice, len(counts))
	for i, c := range counts {
		slices[i] = chart.PieSlice{Label: c.Category, Value: c.Count}
	}
	return chart.Spec{
		Type:     chart.TypePie,
		Title:    "Hazardous Object Ratio",
		Template: template,
		Slices:   slices,
	}
}
