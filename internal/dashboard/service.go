// Package dashboard orchestrates the per-tab render pipeline: load the
// dataset CSV fresh, derive and clean records, apply the request's filter
// spec, aggregate, and assemble chart specs. Renders are request-scoped and
// share no mutable state; a new render simply supersedes the previous one
// on the client.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/skyfall-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
	"github.com/couchcryptid/skyfall-dashboard/internal/config"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
	"github.com/couchcryptid/skyfall-dashboard/internal/observability"
)

// Tab names used in payloads and metric labels.
const (
	TabMeteorites = "meteorites"
	TabBolides    = "bolides"
	TabNEOs       = "neos"
)

// Loaders holds the dataset load functions. Tests swap them; production
// uses the csvfile loaders.
type Loaders struct {
	Meteorites func(path string) (*csvfile.Snapshot[domain.Meteorite], error)
	Bolides    func(path string) (*csvfile.Snapshot[domain.Bolide], error)
	NEOs       func(path string) (*csvfile.Snapshot[domain.NEO], error)
}

// DefaultLoaders returns the production CSV loaders.
func DefaultLoaders() Loaders {
	return Loaders{
		Meteorites: csvfile.LoadMeteorites,
		Bolides:    csvfile.LoadBolides,
		NEOs:       csvfile.LoadNEOs,
	}
}

// Service renders dashboard tabs from the configured dataset files.
type Service struct {
	cfg     *config.Config
	loaders Loaders
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service with the given configuration and observability.
func New(cfg *config.Config, loaders Loaders, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		cfg:     cfg,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
	}
}

// TabPayload is the response for one tab render: summary counts, the year
// bounds for the slider, and the assembled chart specs.
type TabPayload struct {
	Tab          string        `json:"tab"`
	Theme        chart.Theme   `json:"theme"`
	Palette      chart.Palette `json:"palette"`
	GeneratedAt  time.Time     `json:"generated_at"`
	RowsTotal    int           `json:"rows_total"`
	RowsFiltered int           `json:"rows_filtered"`
	MinYear      int           `json:"min_year"`
	MaxYear      int           `json:"max_year"`
	Charts       []chart.Spec  `json:"charts"`
}

// CheckReadiness returns nil once the startup probe has verified all three
// dataset files load.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset probe has not succeeded yet")
	}
	return nil
}

// Probe loads each dataset once to verify the files are present and
// parseable, then marks the service ready. Called at startup.
func (s *Service) Probe(ctx context.Context) error {
	if _, err := s.loadMeteorites(ctx); err != nil {
		return err
	}
	if _, err := s.loadBolides(ctx); err != nil {
		return err
	}
	if _, err := s.loadNEOs(ctx); err != nil {
		return err
	}
	s.ready.Store(true)
	s.metrics.Ready.Set(1)
	s.logger.Info("dataset probe succeeded",
		"meteorites", s.cfg.MeteoritesCSV,
		"bolides", s.cfg.BolidesCSV,
		"neos", s.cfg.NEOsCSV,
	)
	return nil
}

// palette resolves the palette for a theme from the configured set.
func (s *Service) palette(theme chart.Theme) chart.Palette {
	if p, ok := s.cfg.Palettes[theme]; ok {
		return p
	}
	return chart.DefaultPalettes()[theme]
}

func (s *Service) loadMeteorites(ctx context.Context) (*csvfile.Snapshot[domain.Meteorite], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.loaders.Meteorites(s.cfg.MeteoritesCSV)
	if err != nil {
		return nil, err
	}
	s.observeLoad(TabMeteorites, snap.RowsRead, snap.Dropped)
	return snap, nil
}

func (s *Service) loadBolides(ctx context.Context) (*csvfile.Snapshot[domain.Bolide], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.loaders.Bolides(s.cfg.BolidesCSV)
	if err != nil {
		return nil, err
	}
	s.observeLoad(TabBolides, snap.RowsRead, snap.Dropped)
	return snap, nil
}

func (s *Service) loadNEOs(ctx context.Context) (*csvfile.Snapshot[domain.NEO], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.loaders.NEOs(s.cfg.NEOsCSV)
	if err != nil {
		return nil, err
	}
	s.observeLoad(TabNEOs, snap.RowsRead, snap.Dropped)
	return snap, nil
}

func (s *Service) observeLoad(dataset string, rowsRead int, dropped map[string]int) {
	s.metrics.RowsLoaded.WithLabelValues(dataset).Add(float64(rowsRead))
	for reason, n := range dropped {
		s.metrics.RowsDropped.WithLabelValues(dataset, reason).Add(float64(n))
	}
}

// observeRender records the duration and output size of a completed render.
// Any successful render also marks the service ready, covering the case
// where the startup probe failed but the files appeared later.
func (s *Service) observeRender(tab string, start time.Time, filtered int) {
	s.metrics.Renders.WithLabelValues(tab).Inc()
	s.metrics.RenderDuration.WithLabelValues(tab).Observe(time.Since(start).Seconds())
	s.metrics.FilteredRows.WithLabelValues(tab).Observe(float64(filtered))
	if !s.ready.Load() {
		s.ready.Store(true)
		s.metrics.Ready.Set(1)
	}
}

// SummaryPayload reports row counts and year bounds across all datasets.
type SummaryPayload struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Datasets    map[string]DatasetSummary `json:"datasets"`
}

// DatasetSummary is the summary line for one dataset.
type DatasetSummary struct {
	Rows        int `json:"rows"`
	RowsDropped int `json:"rows_dropped"`
	MinYear     int `json:"min_year"`
	MaxYear     int `json:"max_year"`
}

// Summary loads all three datasets concurrently and reports their sizes
// and year bounds.
func (s *Service) Summary(ctx context.Context) (*SummaryPayload, error) {
	out := &SummaryPayload{
		GeneratedAt: domain.Now(),
		Datasets:    make(map[string]DatasetSummary, 3),
	}

	var (
		meteorites *csvfile.Snapshot[domain.Meteorite]
		bolides    *csvfile.Snapshot[domain.Bolide]
		neos       *csvfile.Snapshot[domain.NEO]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meteorites, err = s.loadMeteorites(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bolides, err = s.loadBolides(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		neos, err = s.loadNEOs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	minY, maxY, _ := aggregate.YearBounds(meteorites.Records, func(m domain.Meteorite) int { return m.Year })
	out.Datasets[TabMeteorites] = DatasetSummary{
		Rows:        len(meteorites.Records),
		RowsDropped: meteorites.DroppedTotal(),
		MinYear:     minY,
		MaxYear:     maxY,
	}

	dated := timestampedBolides(bolides.Records)
	minY, maxY, _ = aggregate.YearBounds(dated, func(b domain.Bolide) int { return b.Year })
	out.Datasets[TabBolides] = DatasetSummary{
		Rows:        len(bolides.Records),
		RowsDropped: bolides.DroppedTotal(),
		MinYear:     minY,
		MaxYear:     maxY,
	}

	minY, maxY, _ = aggregate.YearBounds(neos.Records, func(n domain.NEO) int { return n.Year })
	out.Datasets[TabNEOs] = DatasetSummary{
		Rows:        len(neos.Records),
		RowsDropped: neos.DroppedTotal(),
		MinYear:     minY,
		MaxYear:     maxY,
	}

	return out, nil
}

// timestampedBolides returns the subset of records with a usable timestamp,
// the population time-based views draw from.
func timestampedBolides(records []domain.Bolide) []domain.Bolide {
	out := make([]domain.Bolide, 0, len(records))
	for _, b := range records {
		if b.HasTimestamp() {
			out = append(out, b)
		}
	}
	return out
}
