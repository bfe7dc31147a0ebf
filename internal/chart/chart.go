// Package chart builds the declarative chart specifications the dashboard
// API returns. A spec names the chart type, carries already-aggregated
// data, and resolves its template from an explicit Theme value; the
// frontend renders specs without any further computation.
package chart

import (
	"sort"

	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
)

// Type enumerates the chart kinds the frontend knows how to render.
type Type string

const (
	TypeLine       Type = "line"
	TypeBar        Type = "bar"
	TypeScatter    Type = "scatter"
	TypeScatterGeo Type = "scatter_geo"
	TypeHistogram  Type = "histogram"
	TypeHeatmap    Type = "heatmap"
	TypePie        Type = "pie"
	TypeViolin     Type = "violin"
)

// Spec is one renderable chart. Exactly one of the data fields is set,
// matching Type.
type Spec struct {
	Type     Type   `json:"type"`
	Title    string `json:"title"`
	Template string `json:"template"`
	XLabel   string `json:"x_label,omitempty"`
	YLabel   string `json:"y_label,omitempty"`

	Lines     []LineSeries      `json:"lines,omitempty"`
	Bars      []BarEntry        `json:"bars,omitempty"`
	Points    []ScatterPoint    `json:"points,omitempty"`
	GeoPoints []GeoPoint        `json:"geo_points,omitempty"`
	Bins      []aggregate.Bin   `json:"bins,omitempty"`
	Heatmap   *aggregate.Matrix `json:"heatmap,omitempty"`
	Slices    []PieSlice        `json:"slices,omitempty"`
	Violins   []ViolinSeries    `json:"violins,omitempty"`
}

// LineSeries is one line on a line chart.
type LineSeries struct {
	Name    string    `json:"name,omitempty"`
	X       []string  `json:"x"`
	Y       []float64 `json:"y"`
	Markers bool      `json:"markers"`
}

// BarEntry is one bar of a category bar chart.
type BarEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// ScatterPoint is one point of an x/y scatter, grouped by a category for
// coloring.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group,omitempty"`
}

// GeoPoint is one point of a geographic scatter. Size and Color carry the
// measurements the frontend maps to marker size and color scale.
type GeoPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label,omitempty"`
	Group string  `json:"group,omitempty"`
	Size  float64 `json:"size,omitempty"`
	Color float64 `json:"color,omitempty"`
}

// PieSlice is one slice of a pie chart.
type PieSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ViolinSeries is one violin: the raw values for the density shape plus the
// box stats overlaid on it.
type ViolinSeries struct {
	Group  string    `json:"group"`
	Values []float64 `json:"values"`
	Box    BoxStats  `json:"box"`
}

// BoxStats are the five-number summary for a violin's inner box.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// NewBoxStats computes the five-number summary of values using linear
// interpolation between order statistics. Zero value for empty input.
func NewBoxStats(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return BoxStats{
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile interpolates the q-th quantile of an ascending-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
