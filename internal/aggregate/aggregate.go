// Package aggregate turns filtered record slices into chart-ready summary
// tables: time-bucketed counts, category rankings, resampled metric sums,
// cumulative series, and histogram bins.
//
// Time-bucketed aggregations only emit buckets that have observations;
// absent years and months are omitted, not zero-filled. That sparseness is
// documented upstream behavior and the payload carries the bucket keys so a
// consumer can zero-fill if it wants to.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// YearCount is one row of a per-year count table.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CountByYear groups records by year and counts them, ascending by year.
func CountByYear[T any](records []T, year func(T) int) []YearCount {
	counts := make(map[int]int)
	for _, r := range records {
		counts[year(r)]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// CategoryCount is one row of a per-category count table.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountByCategory groups records by category and counts them. The result is
// ordered by descending count with an ascending-name tie-break, giving a
// deterministic total order.
func CountByCategory[T any](records []T, category func(T) string) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[category(r)]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CategorySeries is one category's per-year count series.
type CategorySeries struct {
	Category string      `json:"category"`
	Counts   []YearCount `json:"counts"`
}

// CountByYearCategory groups records by category and year. Series are
// ordered by ascending category name; counts within a series ascend by
// year, sparse like CountByYear.
func CountByYearCategory[T any](records []T, year func(T) int, category func(T) string) []CategorySeries {
	byCategory := make(map[string][]T)
	for _, r := range records {
		c := category(r)
		byCategory[c] = append(byCategory[c], r)
	}
	out := make([]CategorySeries, 0, len(byCategory))
	for c, rs := range byCategory {
		out = append(out, CategorySeries{Category: c, Counts: CountByYear(rs, year)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// TopCategories keeps the first n entries of an ordered category count
// table. With fewer than n categories the table is returned as-is.
func TopCategories(counts []CategoryCount, n int) []CategoryCount {
	if n <= 0 || len(counts) <= n {
		return counts
	}
	return counts[:n]
}

// Frequency selects the calendar bucket for resampling.
type Frequency string

const (
	Yearly  Frequency = "yearly"
	Monthly Frequency = "monthly"
)

// TimeBucket is one resampled bucket: the records that fell into it, with
// the selected metric summed. Label is "2013" for yearly buckets and
// "2013-02" for monthly ones.
type TimeBucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Sum   float64   `json:"sum"`
	Count int       `json:"count"`
}

// ResampleSum groups records into calendar buckets and sums a metric.
// Records without a usable timestamp are skipped. Buckets with no records
// are omitted. The result is ordered by bucket start ascending.
func ResampleSum[T any](records []T, at func(T) (time.Time, bool), value func(T) float64, freq Frequency) []TimeBucket {
	buckets := make(map[time.Time]*TimeBucket)
	for _, r := range records {
		ts, ok := at(r)
		if !ok {
			continue
		}
		start := bucketStart(ts, freq)
		b, ok := buckets[start]
		if !ok {
			b = &TimeBucket{Label: bucketLabel(start, freq), Start: start}
			buckets[start] = b
		}
		b.Sum += value(r)
		b.Count++
	}
	out := make([]TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func bucketStart(t time.Time, freq Frequency) time.Time {
	t = t.UTC()
	if freq == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func bucketLabel(start time.Time, freq Frequency) string {
	if freq == Monthly {
		return start.Format("2006-01")
	}
	return start.Format("2006")
}

// CumulativePoint is one step of a running total.
type CumulativePoint struct {
	Time  time.Time `json:"time"`
	Total float64   `json:"total"`
}

// CumulativeSum orders records by ascending time and emits the running
// total of a metric. Records without a usable timestamp are excluded.
func CumulativeSum[T any](records []T, at func(T) (time.Time, bool), value func(T) float64) []CumulativePoint {
	type stamped struct {
		t time.Time
		v float64
	}
	pts := make([]stamped, 0, len(records))
	for _, r := range records {
		ts, ok := at(r)
		if !ok {
			continue
		}
		pts = append(pts, stamped{t: ts, v: value(r)})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].t.Before(pts[j].t) })

	out := make([]CumulativePoint, len(pts))
	total := 0.0
	for i, p := range pts {
		total += p.v
		out[i] = CumulativePoint{Time: p.t, Total: total}
	}
	return out
}

// Bin is one equal-width histogram bin. Start is inclusive; End is
// exclusive except for the last bin, which also includes the maximum.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram bins values into nbins equal-width bins over [min, max].
// Returns nil for empty input. When every value is identical a single
// bin holds them all.
func Histogram(values []float64, nbins int) []Bin {
	if len(values) == 0 || nbins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Start: lo, End: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(nbins)
	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i].Start = lo + float64(i)*width
		bins[i].End = lo + float64(i+1)*width
	}
	bins[nbins-1].End = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= nbins {
			i = nbins - 1
		}
		bins[i].Count++
	}
	return bins
}

// Matrix is a year-by-month count grid for heatmaps. Years holds the years
// present in the data, ascending; Counts is indexed [month-1][year index].
type Matrix struct {
	Years  []int    `json:"years"`
	Months []string `json:"months"`
	Counts [][]int  `json:"counts"`
}

// MonthYearCounts builds a 12-row month-by-year count matrix. Records
// without a usable timestamp are excluded; only years present in the data
// appear as columns.
func MonthYearCounts[T any](records []T, at func(T) (time.Time, bool)) Matrix {
	type cell struct{ year, month int }
	counts := make(map[cell]int)
	yearSet := make(map[int]bool)
	for _, r := range records {
		ts, ok := at(r)
		if !ok {
			continue
		}
		ts = ts.UTC()
		counts[cell{ts.Year(), int(ts.Month())}]++
		yearSet[ts.Year()] = true
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	m := Matrix{Years: years, Months: make([]string, 12), Counts: make([][]int, 12)}
	for mi := 0; mi < 12; mi++ {
		m.Months[mi] = time.Month(mi + 1).String()
		m.Counts[mi] = make([]int, len(years))
		for yi, y := range years {
			m.Counts[mi][yi] = counts[cell{y, mi + 1}]
		}
	}
	return m
}

// YearBounds returns the minimum and maximum year present. ok is false for
// empty input.
func YearBounds[T any](records []T, year func(T) int) (minYear, maxYear int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	minYear = year(records[0])
	maxYear = minYear
	for _, r := range records[1:] {
		y := year(r)
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear, true
}

// ParseFrequency validates a user-supplied frequency choice, defaulting to
// yearly for an empty value.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "", string(Yearly):
		return Yearly, nil
	case string(Monthly):
		return Monthly, nil
	default:
		return "", fmt.Errorf("invalid frequency %q (want yearly or monthly)", s)
	}
}
