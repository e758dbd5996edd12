// Command genmock writes a synthetic WEED event file for demos and manual
// testing. Magnitudes follow a Gutenberg-Richter distribution above a floor,
// so higher thresholds produce visibly sparser charts.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/weedevent-mock.txt -events 4619 \
//	  -start-year 1960 -end-year 2011 -min-mag 6 -seed 42
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
)

// bValue is the Gutenberg-Richter slope; ~1 for tectonic earthquakes.
const bValue = 1.0

type mockEvent struct {
	year, month, day int
	hour, min, sec   int
	lat, lon, depth  float64
	mag              float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated WEED event file")
	n := flag.Int("events", 1000, "number of events to generate")
	startYear := flag.Int("start-year", 1960, "first year of generated events")
	endYear := flag.Int("end-year", 2011, "last year of generated events")
	minMag := flag.Float64("min-mag", 6, "magnitude floor (query cutoff)")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *endYear < *startYear || *startYear < 0 {
		return fmt.Errorf("invalid year range %d-%d", *startYear, *endYear)
	}
	if *n < 0 {
		return fmt.Errorf("invalid event count %d", *n)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5eed))
	events := generate(rng, *n, *startYear, *endYear, *minMag)

	if err := writeWEED(*out, events); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d events to %s", len(events), *out)

	return verify(*out)
}

func generate(rng *rand.Rand, n, startYear, endYear int, minMag float64) []mockEvent {
	events := make([]mockEvent, n)
	for i := range events {
		events[i] = mockEvent{
			year:  startYear + rng.IntN(endYear-startYear+1),
			month: 1 + rng.IntN(12),
			day:   1 + rng.IntN(28),
			hour:  rng.IntN(24),
			min:   rng.IntN(60),
			sec:   rng.IntN(60),
			lat:   rng.Float64()*180 - 90,
			lon:   rng.Float64()*360 - 180,
			depth: rng.Float64() * 700,
			mag:   math.Round((minMag+rng.ExpFloat64()/(bValue*math.Ln10))*10) / 10,
		}
	}
	// WEED exports are ordered newest first.
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.year != b.year {
			return a.year > b.year
		}
		if a.month != b.month {
			return a.month > b.month
		}
		return a.day > b.day
	})
	return events
}

func writeWEED(path string, events []mockEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for i, e := range events {
		fmt.Fprintf(w, "%d,%04d/%02d/%02d,%02d:%02d:%02d.00,%.3f,%.3f,%.1f,%.1f\n",
			len(events)-i, e.year, e.month, e.day, e.hour, e.min, e.sec, e.lat, e.lon, e.depth, e.mag)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// verify reads the file back through the real parser and prints the sweep.
func verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := domain.ReadEvents(f)
	if err != nil {
		return fmt.Errorf("generated file does not parse: %w", err)
	}
	rng := domain.Summarize(events)
	log.Printf("years %d-%d, magnitudes %d-%d", rng.StartYear, rng.EndYear, rng.LowMag, rng.HighMag)
	for _, h := range domain.Sweep(events, rng) {
		log.Printf("  >= %d: %d events", h.Threshold, h.Total())
	}
	return nil
}
