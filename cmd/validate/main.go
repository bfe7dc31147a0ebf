// Command validate performs data integrity checks across the three NASA
// dataset CSVs the dashboard serves: column presence, derivation coverage,
// and record invariants (positive mass, mean-diameter identity, discovery
// year extraction, timestamp parse rate).
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/skyfall-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/skyfall-dashboard/internal/aggregate"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing the dataset CSV files")
	maxDropRate := flag.Float64("max-drop-rate", 0.5, "fail when more than this fraction of rows is dropped")
	flag.Parse()

	if code := run(*dataDir, *maxDropRate); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string, maxDropRate float64) int {
	fmt.Println("=== Skyfall Dataset Integrity Validation ===")
	fmt.Println()

	meteorites, err := csvfile.LoadMeteorites(filepath.Join(dataDir, "meteorite_landings.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	bolides, err := csvfile.LoadBolides(filepath.Join(dataDir, "fireball_and_bolide_reports.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	neos, err := csvfile.LoadNEOs(filepath.Join(dataDir, "nearest_earth_objects.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCoverage(meteorites, bolides, neos, maxDropRate),
		validateMeteorites(meteorites),
		validateBolides(bolides),
		validateNEOs(neos),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d meteorites, %d bolides, %d NEOs\n",
		len(meteorites.Records), len(bolides.Records), len(neos.Records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateCoverage checks that derivation kept a reasonable fraction of
// each dataset and prints the drop breakdown.
func validateCoverage(
	meteorites *csvfile.Snapshot[domain.Meteorite],
	bolides *csvfile.Snapshot[domain.Bolide],
	neos *csvfile.Snapshot[domain.NEO],
	maxDropRate float64,
) *phase {
	p := &phase{name: "Phase 1: Derivation Coverage"}

	check := func(name string, rowsRead, dropped int, reasons map[string]int) {
		if rowsRead == 0 {
			p.errorf("%s: no data rows", name)
			return
		}
		rate := float64(dropped) / float64(rowsRead)
		fmt.Printf("  %s: %d rows, %d dropped (%.1f%%)", name, rowsRead, dropped, rate*100)
		for reason, n := range reasons {
			fmt.Printf(" %s=%d", reason, n)
		}
		fmt.Println()
		if rate > maxDropRate {
			p.errorf("%s: drop rate %.1f%% exceeds %.1f%%", name, rate*100, maxDropRate*100)
		}
	}

	check("meteorites", meteorites.RowsRead, meteorites.DroppedTotal(), meteorites.Dropped)
	check("bolides", bolides.RowsRead, bolides.DroppedTotal(), bolides.Dropped)
	check("neos", neos.RowsRead, neos.DroppedTotal(), neos.Dropped)
	return p
}

// validateMeteorites checks the cleaned meteorite invariants.
func validateMeteorites(snap *csvfile.Snapshot[domain.Meteorite]) *phase {
	p := &phase{name: "Phase 2: Meteorite Invariants"}
	currentYear := time.Now().UTC().Year()

	for i, m := range snap.Records {
		if m.MassGrams <= 0 {
			p.errorf("record %d (%s): non-positive mass %g", i, m.Name, m.MassGrams)
		}
		if m.Year < 0 || m.Year > currentYear+1 {
			p.errorf("record %d (%s): implausible year %d", i, m.Name, m.Year)
		}
		if m.Lat < -90 || m.Lat > 90 || m.Lon < -180 || m.Lon > 360 {
			p.errorf("record %d (%s): coordinates out of range (%g, %g)", i, m.Name, m.Lat, m.Lon)
		}
		if m.Fall != domain.FallFell && m.Fall != domain.FallFound && m.Fall != "" {
			p.errorf("record %d (%s): unexpected fall type %q", i, m.Name, m.Fall)
		}
	}

	if _, _, ok := aggregate.YearBounds(snap.Records, func(m domain.Meteorite) int { return m.Year }); !ok {
		p.errorf("no records survived derivation")
	}
	return p
}

// validateBolides checks timestamp derivation consistency.
func validateBolides(snap *csvfile.Snapshot[domain.Bolide]) *phase {
	p := &phase{name: "Phase 3: Bolide Invariants"}

	dated := 0
	for i, b := range snap.Records {
		if b.HasTimestamp() {
			dated++
			if b.Year != b.Timestamp.Year() {
				p.errorf("record %d: year %d does not match timestamp %s", i, b.Year, b.Timestamp.Format(time.RFC3339))
			}
			if b.Month != b.Timestamp.Month() || b.Weekday != b.Timestamp.Weekday() {
				p.errorf("record %d: derived month/weekday mismatch", i)
			}
		} else if b.Year != 0 || b.Month != 0 {
			p.errorf("record %d: missing timestamp but derived time fields set", i)
		}
		if b.Lat < -90 || b.Lat > 90 || b.Lon < -180 || b.Lon > 360 {
			p.errorf("record %d: coordinates out of range (%g, %g)", i, b.Lat, b.Lon)
		}
	}

	fmt.Printf("  bolides with usable timestamp: %d of %d\n", dated, len(snap.Records))
	if len(snap.Records) > 0 && dated == 0 {
		p.errorf("no bolide record has a parseable timestamp")
	}
	return p
}

// validateNEOs re-derives the NEO identities from the cleaned records.
func validateNEOs(snap *csvfile.Snapshot[domain.NEO]) *phase {
	p := &phase{name: "Phase 4: NEO Invariants"}

	for i, n := range snap.Records {
		want := (n.EstDiameterMin + n.EstDiameterMax) / 2
		if n.MeanDiameter != want {
			p.errorf("record %d (%s): mean diameter %g, want %g", i, n.Name, n.MeanDiameter, want)
		}
		year, ok := domain.ExtractDiscoveryYear(n.Name)
		if !ok {
			p.errorf("record %d (%s): name has no extractable discovery year", i, n.Name)
		} else if year != n.Year {
			p.errorf("record %d (%s): year %d, name says %d", i, n.Name, n.Year, year)
		}
		if n.Year < 1900 || n.Year > 2099 {
			p.errorf("record %d (%s): year %d outside pattern range", i, n.Name, n.Year)
		}
	}
	return p
}
