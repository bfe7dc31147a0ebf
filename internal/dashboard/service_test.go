package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skyfall-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/config"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
	"github.com/couchcryptid/skyfall-dashboard/internal/filter"
	"github.com/couchcryptid/skyfall-dashboard/internal/observability"
)

var frozenNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, loaders Loaders) *Service {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { domain.SetClock(nil) })

	cfg := &config.Config{
		MeteoritesCSV: "meteorites.csv",
		BolidesCSV:    "bolides.csv",
		NEOsCSV:       "neos.csv",
		DefaultTheme:  chart.ThemeLight,
		Palettes:      chart.DefaultPalettes(),
		TopClasses:    10,
		HistogramBins: 5,
	}
	return New(cfg, loaders, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
}

func testLoaders() Loaders {
	meteorites := []domain.Meteorite{
		{Name: "Aachen", Class: "L5", MassGrams: 21, Fall: "Fell", Year: 1880, Lat: 50.775, Lon: 6.08},
		{Name: "Nogata", Class: "L6", MassGrams: 472, Fall: "Fell", Year: 861, Lat: 33.7, Lon: 130.7},
		{Name: "Aarhus", Class: "H6", MassGrams: 720, Fall: "Found", Year: 1951, Lat: 56.2, Lon: 10.2},
	}
	bolides := []domain.Bolide{
		{
			Timestamp: time.Date(2013, 2, 15, 3, 20, 33, 0, time.UTC),
			Year:      2013, Month: time.February, Weekday: time.Friday,
			Lat: 54.8, Lon: 61.1,
			ImpactEnergyKt: 440, RadiatedEnergyE10J: 375000, VelocityKmS: 19.16,
		},
		{Lat: 10.5, Lon: -20.1, ImpactEnergyKt: 2.1, RadiatedEnergyE10J: 5.5},
	}
	neos := []domain.NEO{
		{Name: "(2020 QG)", Year: 2020, MeanDiameter: 2, RelativeVelocity: 30000, MissDistance: 9000, AbsoluteMagnitude: 29.8, Hazardous: true},
		{Name: "2017 AB12 (2017 AB12)", Year: 2017, MeanDiameter: 200, RelativeVelocity: 48000, MissDistance: 54e6, AbsoluteMagnitude: 21.6},
	}

	return Loaders{
		Meteorites: func(string) (*csvfile.Snapshot[domain.Meteorite], error) {
			return &csvfile.Snapshot[domain.Meteorite]{
				Records: meteorites, RowsRead: 4,
				Dropped: map[string]int{"missing_year": 1}, LoadedAt: frozenNow,
			}, nil
		},
		Bolides: func(string) (*csvfile.Snapshot[domain.Bolide], error) {
			return &csvfile.Snapshot[domain.Bolide]{
				Records: bolides, RowsRead: 2,
				Dropped: map[string]int{}, LoadedAt: frozenNow,
			}, nil
		},
		NEOs: func(string) (*csvfile.Snapshot[domain.NEO], error) {
			return &csvfile.Snapshot[domain.NEO]{
				Records: neos, RowsRead: 3,
				Dropped: map[string]int{"no_discovery_year": 1}, LoadedAt: frozenNow,
			}, nil
		},
	}
}

func TestRenderMeteorites(t *testing.T) {
	svc := newTestService(t, testLoaders())

	payload, err := svc.RenderMeteorites(context.Background(), filter.MeteoriteSpec{}, chart.ThemeDark)
	require.NoError(t, err)

	assert.Equal(t, TabMeteorites, payload.Tab)
	assert.Equal(t, chart.ThemeDark, payload.Theme)
	assert.Equal(t, chart.DefaultPalettes()[chart.ThemeDark], payload.Palette)
	assert.Equal(t, frozenNow, payload.GeneratedAt)
	assert.Equal(t, 3, payload.RowsTotal)
	assert.Equal(t, 3, payload.RowsFiltered)
	assert.Equal(t, 861, payload.MinYear)
	assert.Equal(t, 1951, payload.MaxYear)

	require.Len(t, payload.Charts, 4)
	assert.Equal(t, chart.TypeLine, payload.Charts[0].Type)
	assert.Equal(t, chart.TypeLine, payload.Charts[1].Type)
	assert.Equal(t, chart.TypeScatterGeo, payload.Charts[2].Type)
	assert.Equal(t, chart.TypeBar, payload.Charts[3].Type)
	assert.Equal(t, "plotly_dark", payload.Charts[0].Template)

	// One landing per distinct year, sorted ascending.
	require.Len(t, payload.Charts[0].Lines, 1)
	assert.Equal(t, []string{"861", "1880", "1951"}, payload.Charts[0].Lines[0].X)

	// One line per fall type, ordered by name.
	fallLines := payload.Charts[1].Lines
	require.Len(t, fallLines, 2)
	assert.Equal(t, "Fell", fallLines[0].Name)
	assert.Equal(t, []string{"861", "1880"}, fallLines[0].X)
	assert.Equal(t, "Found", fallLines[1].Name)
	assert.Equal(t, []string{"1951"}, fallLines[1].X)

	assert.Len(t, payload.Charts[2].GeoPoints, 3)
}

func TestRenderMeteoritesFiltered(t *testing.T) {
	svc := newTestService(t, testLoaders())

	spec := filter.MeteoriteSpec{
		Years:     filter.YearRange{Min: 1800, Max: 2000, Active: true},
		FallTypes: filter.NewStringSet("Fell"),
	}
	payload, err := svc.RenderMeteorites(context.Background(), spec, chart.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, 3, payload.RowsTotal)
	assert.Equal(t, 1, payload.RowsFiltered)
	// Year bounds come from the unfiltered records so the slider keeps its
	// full range.
	assert.Equal(t, 861, payload.MinYear)
	assert.Equal(t, 1951, payload.MaxYear)
}

func TestRenderMeteoritesLoadError(t *testing.T) {
	loaders := testLoaders()
	loaders.Meteorites = func(string) (*csvfile.Snapshot[domain.Meteorite], error) {
		return nil, errors.New("no such file")
	}
	svc := newTestService(t, loaders)

	_, err := svc.RenderMeteorites(context.Background(), filter.MeteoriteSpec{}, chart.ThemeLight)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render meteorites")
}

func TestRenderBolides(t *testing.T) {
	svc := newTestService(t, testLoaders())

	opts := BolideOptions{Metrics: []string{MetricImpactEnergy, MetricVelocity}}
	payload, err := svc.RenderBolides(context.Background(), filter.BolideSpec{}, opts, chart.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, TabBolides, payload.Tab)
	assert.Equal(t, 2, payload.RowsTotal)
	assert.Equal(t, 2, payload.RowsFiltered)
	// Bounds come from the dated subset only.
	assert.Equal(t, 2013, payload.MinYear)
	assert.Equal(t, 2013, payload.MaxYear)

	require.Len(t, payload.Charts, 6)
	timeline := payload.Charts[0]
	assert.Equal(t, chart.TypeLine, timeline.Type)
	require.Len(t, timeline.Lines, 1)
	// The undated record is excluded from the timeline but kept on the map.
	assert.Equal(t, []string{"2013"}, timeline.Lines[0].X)
	assert.Len(t, payload.Charts[1].GeoPoints, 2)

	resample := payload.Charts[5]
	require.Len(t, resample.Lines, 2)
	assert.Equal(t, "Impact energy (kt)", resample.Lines[0].Name)
	assert.Equal(t, "Velocity (km/s)", resample.Lines[1].Name)
}

func TestRenderBolidesYearFilterDropsUndated(t *testing.T) {
	svc := newTestService(t, testLoaders())

	spec := filter.BolideSpec{Years: filter.YearRange{Min: 2000, Max: 2030, Active: true}}
	payload, err := svc.RenderBolides(context.Background(), spec, BolideOptions{}, chart.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, 2, payload.RowsTotal)
	assert.Equal(t, 1, payload.RowsFiltered)
}

func TestRenderNEOs(t *testing.T) {
	svc := newTestService(t, testLoaders())

	payload, err := svc.RenderNEOs(context.Background(), filter.NEOSpec{}, chart.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, TabNEOs, payload.Tab)
	assert.Equal(t, 2, payload.RowsTotal)
	assert.Equal(t, 2, payload.RowsFiltered)
	assert.Equal(t, 2017, payload.MinYear)
	assert.Equal(t, 2020, payload.MaxYear)

	var pie *chart.Spec
	for i := range payload.Charts {
		if payload.Charts[i].Type == chart.TypePie {
			pie = &payload.Charts[i]
		}
	}
	require.NotNil(t, pie)
	slices := map[string]int{}
	for _, s := range pie.Slices {
		slices[s.Label] = s.Value
	}
	assert.Equal(t, map[string]int{"True": 1, "False": 1}, slices)
}

func TestValidateMetrics(t *testing.T) {
	t.Run("empty defaults to impact energy", func(t *testing.T) {
		got, err := ValidateMetrics(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{MetricImpactEnergy}, got)
	})

	t.Run("valid keys pass through", func(t *testing.T) {
		got, err := ValidateMetrics([]string{MetricVelocity, MetricAltitude})
		require.NoError(t, err)
		assert.Equal(t, []string{MetricVelocity, MetricAltitude}, got)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := ValidateMetrics([]string{"luminosity"})
		require.Error(t, err)
	})
}

func TestReadiness(t *testing.T) {
	t.Run("probe marks ready", func(t *testing.T) {
		svc := newTestService(t, testLoaders())
		require.Error(t, svc.CheckReadiness(context.Background()))

		require.NoError(t, svc.Probe(context.Background()))
		assert.NoError(t, svc.CheckReadiness(context.Background()))
	})

	t.Run("probe failure leaves not ready", func(t *testing.T) {
		loaders := testLoaders()
		loaders.Bolides = func(string) (*csvfile.Snapshot[domain.Bolide], error) {
			return nil, errors.New("no such file")
		}
		svc := newTestService(t, loaders)

		require.Error(t, svc.Probe(context.Background()))
		assert.Error(t, svc.CheckReadiness(context.Background()))
	})

	t.Run("successful render marks ready", func(t *testing.T) {
		svc := newTestService(t, testLoaders())
		require.Error(t, svc.CheckReadiness(context.Background()))

		_, err := svc.RenderNEOs(context.Background(), filter.NEOSpec{}, chart.ThemeLight)
		require.NoError(t, err)
		assert.NoError(t, svc.CheckReadiness(context.Background()))
	})
}

func TestSummary(t *testing.T) {
	svc := newTestService(t, testLoaders())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, frozenNow, got.GeneratedAt)
	require.Len(t, got.Datasets, 3)
	assert.Equal(t, DatasetSummary{Rows: 3, RowsDropped: 1, MinYear: 861, MaxYear: 1951}, got.Datasets[TabMeteorites])
	assert.Equal(t, DatasetSummary{Rows: 2, RowsDropped: 0, MinYear: 2013, MaxYear: 2013}, got.Datasets[TabBolides])
	assert.Equal(t, DatasetSummary{Rows: 2, RowsDropped: 1, MinYear: 2017, MaxYear: 2020}, got.Datasets[TabNEOs])
}

func TestSummaryLoadError(t *testing.T) {
	loaders := testLoaders()
	loaders.NEOs = func(string) (*csvfile.Snapshot[domain.NEO], error) {
		return nil, errors.New("no such file")
	}
	svc := newTestService(t, loaders)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}

func TestRenderCancelledContext(t *testing.T) {
	svc := newTestService(t, testLoaders())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RenderMeteorites(ctx, filter.MeteoriteSpec{}, chart.ThemeLight)
	require.ErrorIs(t, err, context.Canceled)
}
