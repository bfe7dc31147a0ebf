// Command genmock writes deterministic mock versions of the three NASA
// dataset CSVs for development and test environments. Output passes
// cmd/validate and exercises every derivation path, including rows the
// pipeline is expected to drop.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/skyfall-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/skyfall-dashboard/internal/domain"
)

const seed = 20240426

func main() {
	outDir := flag.String("out-dir", "data", "directory to write the mock CSV files into")
	meteoriteRows := flag.Int("meteorites", 500, "number of meteorite rows")
	bolideRows := flag.Int("bolides", 300, "number of bolide rows")
	neoRows := flag.Int("neos", 400, "number of NEO rows")
	flag.Parse()

	if err := run(*outDir, *meteoriteRows, *bolideRows, *neoRows); err != nil {
		log.Fatal(err)
	}
}

func run(outDir string, meteoriteRows, bolideRows, neoRows int) error {
	// Fixed clock for reproducible snapshot timestamps in the stats pass.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))

	meteoritePath := filepath.Join(outDir, "meteorite_landings.csv")
	if err := writeCSV(meteoritePath, ',', meteoriteHeader, meteoriteRowsFor(rng, meteoriteRows)); err != nil {
		return fmt.Errorf("writing meteorites: %w", err)
	}
	log.Printf("wrote %s", meteoritePath)

	bolidePath := filepath.Join(outDir, "fireball_and_bolide_reports.csv")
	if err := writeCSV(bolidePath, ';', bolideHeader, bolideRowsFor(rng, bolideRows)); err != nil {
		return fmt.Errorf("writing bolides: %w", err)
	}
	log.Printf("wrote %s", bolidePath)

	neoPath := filepath.Join(outDir, "nearest_earth_objects.csv")
	if err := writeCSV(neoPath, ',', neoHeader, neoRowsFor(rng, neoRows)); err != nil {
		return fmt.Errorf("writing neos: %w", err)
	}
	log.Printf("wrote %s", neoPath)

	return printStats(meteoritePath, bolidePath, neoPath)
}

var (
	meteoriteHeader = []string{"name", "id", "recclass", "mass (g)", "fall", "year", "reclat", "reclong"}
	bolideHeader    = []string{"Date/Time", "Latitude (deg.)", "Longitude (deg.)", "Impact energy (kt)", "Radiated Energy (e10 J)", "Velocity (km/s)", "Altitude (km)"}
	neoHeader       = []string{"name", "est_diameter_min", "est_diameter_max", "relative_velocity", "miss_distance", "absolute_magnitude", "hazardous"}
)

var meteoriteClasses = []string{"L6", "H5", "L5", "H6", "H4", "LL5", "CM2", "L4", "LL6", "CO3", "Iron, IIAB", "Eucrite"}

func meteoriteRowsFor(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		year := 1880 + rng.Intn(145)
		fall := domain.FallFound
		if rng.Float64() < 0.2 {
			fall = domain.FallFell
		}
		row := []string{
			fmt.Sprintf("Mock Meteorite %03d", i),
			fmt.Sprintf("%d", 10000+i),
			meteoriteClasses[rng.Intn(len(meteoriteClasses))],
			fmt.Sprintf("%.1f", 1+rng.Float64()*500000),
			fall,
			fmt.Sprintf("%d.0", year),
			fmt.Sprintf("%.5f", -80+rng.Float64()*160),
			fmt.Sprintf("%.5f", -180+rng.Float64()*360),
		}
		// A few rows the pipeline should drop.
		switch {
		case i%97 == 0:
			row[5] = "" // missing year
		case i%89 == 0:
			row[3] = "0" // non-positive mass
		case i%83 == 0:
			row[6], row[7] = "", "" // unlocated find
		}
		rows = append(rows, row)
	}
	return rows
}

func bolideRowsFor(rng *rand.Rand, n int) [][]string {
	base := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(rng.Int63n(int64(29 * 365 * 24 * time.Hour))))
		row := []string{
			ts.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2f", -80+rng.Float64()*160),
			fmt.Sprintf("%.2f", -180+rng.Float64()*360),
			fmt.Sprintf("%.2f", 0.1+rng.Float64()*40),
			fmt.Sprintf("%.2f", 0.1+rng.Float64()*100),
			fmt.Sprintf("%.1f", 11+rng.Float64()*30),
			fmt.Sprintf("%.1f", 15+rng.Float64()*40),
		}
		switch {
		case i%71 == 0:
			row[0] = "unknown" // unparseable timestamp, kept without time fields
		case i%67 == 0:
			row[1], row[2] = "", "" // dropped, no coordinates
		}
		rows = append(rows, row)
	}
	return rows
}

func neoRowsFor(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		year := 1990 + rng.Intn(35)
		dMin := 10 + rng.Float64()*500
		designation := fmt.Sprintf("%d %c%c%d", year, 'A'+rune(rng.Intn(26)), 'A'+rune(rng.Intn(26)), rng.Intn(100))
		row := []string{
			fmt.Sprintf("%s (%s)", designation, designation),
			fmt.Sprintf("%.4f", dMin),
			fmt.Sprintf("%.4f", dMin*2.236),
			fmt.Sprintf("%.2f", 5+rng.Float64()*40),
			fmt.Sprintf("%.1f", 1e5+rng.Float64()*7e7),
			fmt.Sprintf("%.2f", 15+rng.Float64()*15),
			fmt.Sprintf("%t", rng.Float64() < 0.1),
		}
		if i%79 == 0 {
			row[0] = "Mock Asteroid" // no discovery year, dropped
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(path string, comma rune, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// printStats reloads the generated files through the real loaders so the
// reported counts match what the dashboard will serve.
func printStats(meteoritePath, bolidePath, neoPath string) error {
	meteorites, err := csvfile.LoadMeteorites(meteoritePath)
	if err != nil {
		return err
	}
	bolides, err := csvfile.LoadBolides(bolidePath)
	if err != nil {
		return err
	}
	neos, err := csvfile.LoadNEOs(neoPath)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Meteorites: %d kept, %d dropped %v\n", len(meteorites.Records), meteorites.DroppedTotal(), meteorites.Dropped)
	fmt.Printf("Bolides:    %d kept, %d dropped %v\n", len(bolides.Records), bolides.DroppedTotal(), bolides.Dropped)
	fmt.Printf("NEOs:       %d kept, %d dropped %v\n", len(neos.Records), neos.DroppedTotal(), neos.Dropped)

	hazardous := 0
	for _, n := range neos.Records {
		if n.Hazardous {
			hazardous++
		}
	}
	fmt.Printf("Hazardous NEOs: %d\n", hazardous)
	return nil
}
