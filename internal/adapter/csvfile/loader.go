// Package csvfile loads the three NASA dataset CSV files into typed domain
// records. Loads are fresh on every call: the dashboard rereads the files
// per render and never caches across requests.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
)

// Snapshot is the result of one dataset load: the cleaned records plus
// accounting for the rows that derivation dropped, keyed by drop reason.
type Snapshot[T any] struct {
	Records  []T
	RowsRead int
	Dropped  map[string]int
	LoadedAt time.Time
}

// DroppedTotal returns the number of rows excluded during derivation.
func (s *Snapshot[T]) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// LoadMeteorites reads the comma-delimited meteorite landings CSV.
func LoadMeteorites(path string) (*Snapshot[domain.Meteorite], error) {
	t, err := readTable(path, ',')
	if err != nil {
		return nil, fmt.Errorf("load meteorites: %w", err)
	}
	if err := t.requireColumns("name", "year", "mass (g)", "reclat", "reclong", "fall", "recclass"); err != nil {
		return nil, fmt.Errorf("load meteorites: %w", err)
	}

	snap := newSnapshot[domain.Meteorite](len(t.rows))
	for _, row := range t.rows {
		raw := domain.RawMeteorite{
			Name:  t.get(row, "name"),
			ID:    t.get(row, "id"),
			Class: t.get(row, "recclass"),
			Mass:  t.get(row, "mass (g)"),
			Fall:  t.get(row, "fall"),
			Year:  t.get(row, "year"),
			Lat:   t.get(row, "reclat"),
			Lon:   t.get(row, "reclong"),
		}
		rec, err := domain.DeriveMeteorite(raw)
		if err != nil {
			snap.Dropped[domain.DropReason(err)]++
			continue
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// LoadBolides reads the semicolon-delimited fireball/bolide reports CSV.
func LoadBolides(path string) (*Snapshot[domain.Bolide], error) {
	t, err := readTable(path, ';')
	if err != nil {
		return nil, fmt.Errorf("load bolides: %w", err)
	}
	if err := t.requireColumns("Date/Time", "Latitude (deg.)", "Longitude (deg.)", "Impact energy (kt)"); err != nil {
		return nil, fmt.Errorf("load bolides: %w", err)
	}

	snap := newSnapshot[domain.Bolide](len(t.rows))
	for _, row := range t.rows {
		raw := domain.RawBolide{
			DateTime:       t.get(row, "Date/Time"),
			Lat:            t.get(row, "Latitude (deg.)"),
			Lon:            t.get(row, "Longitude (deg.)"),
			ImpactEnergy:   t.get(row, "Impact energy (kt)"),
			RadiatedEnergy: t.get(row, "Radiated Energy (e10 J)"),
			Velocity:       t.get(row, "Velocity (km/s)"),
			Altitude:       t.get(row, "Altitude (km)"),
		}
		rec, err := domain.DeriveBolide(raw)
		if err != nil {
			snap.Dropped[domain.DropReason(err)]++
			continue
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// LoadNEOs reads the comma-delimited near-Earth objects CSV.
func LoadNEOs(path string) (*Snapshot[domain.NEO], error) {
	t, err := readTable(path, ',')
	if err != nil {
		return nil, fmt.Errorf("load neos: %w", err)
	}
	if err := t.requireColumns("name", "est_diameter_min", "est_diameter_max", "hazardous"); err != nil {
		return nil, fmt.Errorf("load neos: %w", err)
	}

	snap := newSnapshot[domain.NEO](len(t.rows))
	for _, row := range t.rows {
		raw := domain.RawNEO{
			Name:              t.get(row, "name"),
			EstDiameterMin:    t.get(row, "est_diameter_min"),
			EstDiameterMax:    t.get(row, "est_diameter_max"),
			RelativeVelocity:  t.get(row, "relative_velocity"),
			MissDistance:      t.get(row, "miss_distance"),
			AbsoluteMagnitude: t.get(row, "absolute_magnitude"),
			Hazardous:         t.get(row, "hazardous"),
		}
		rec, err := domain.DeriveNEO(raw)
		if err != nil {
			snap.Dropped[domain.DropReason(err)]++
			continue
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

func newSnapshot[T any](rows int) *Snapshot[T] {
	return &Snapshot[T]{
		Records:  make([]T, 0, rows),
		RowsRead: rows,
		Dropped:  make(map[string]int),
		LoadedAt: domain.Now(),
	}
}

// table is a parsed CSV with header-indexed column access.
type table struct {
	colIdx map[string]int
	rows   [][]string
}

// readTable parses a CSV file with the given delimiter. Rows with a
// divergent field count are tolerated; missing trailing fields read as
// empty strings.
func readTable(path string, comma rune) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty csv %s", path)
	}

	colIdx := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		colIdx[h] = i
	}
	return &table{colIdx: colIdx, rows: all[1:]}, nil
}

// get returns the trimmed value of the named column, or "" when the column
// is absent or the row is short.
func (t *table) get(row []string, col string) string {
	i, ok := t.colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) requireColumns(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.colIdx[c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}
