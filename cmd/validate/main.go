// Command validate checks a WEED event file before plotting: every record
// parses, the derived year and magnitude ranges are plausible, and the
// threshold sweep satisfies its invariants. Unlike the main command it keeps
// going after the first bad line and reports all of them.
//
// Usage:
//
//	go run ./cmd/validate -f weedevent-new.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/seismic-histogram/internal/config"
	"github.com/couchcryptid/seismic-histogram/internal/domain"
)

// Plausible magnitude bounds for catalog data.
const (
	minPlausibleMag = -2.0
	maxPlausibleMag = 10.0
	firstCatalogYr  = 1900
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
	path := flag.String("f", config.DefaultInputPath, "WEED event file to validate")
	flag.Parse()

	os.Exit(run(*path))
}

func run(path string) int {
	fmt.Println("=== Seismic Event File Validation ===")
	fmt.Println()

	parsePhase, events, err := validateParse(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	rng := domain.Summarize(events)
	hists := domain.Sweep(events, rng)

	phases := []*phase{
		parsePhase,
		validateRange(events, rng, time.Now().Year()),
		validateSweep(events, rng, hists),
	}

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
	fmt.Printf("Events: %d, years %d-%d, magnitudes %d-%d, %d thresholds\n",
		len(events), rng.StartYear, rng.EndYear, rng.LowMag, rng.HighMag, len(hists))

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

// ── Phase 1: Parse ──
// Every line either parses or is a skippable short line.

func validateParse(path string) (*phase, []domain.Event, error) {
	p := &phase{name: "Phase 1: Parse (every record)"}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		event, ok, err := domain.ParseLine(scanner.Text())
		if err != nil {
			p.errorf("line %d: %v", lineNum, err)
			continue
		}
		if ok {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(events) == 0 {
		p.errorf("no events found")
	}
	return p, events, nil
}

// ── Phase 2: Range ──
// Years and magnitudes fall inside what a real catalog can contain.

func validateRange(events []domain.Event, rng domain.Range, currentYear int) *phase {
	p := &phase{name: "Phase 2: Range (years and magnitudes)"}
	if rng.Empty() {
		return p
	}

	if rng.StartYear < firstCatalogYr {
		p.errorf("start year %d predates instrumental catalogs (%d)", rng.StartYear, firstCatalogYr)
	}
	if rng.EndYear > currentYear {
		p.errorf("end year %d is in the future", rng.EndYear)
	}
	for i, e := range events {
		if e.Magnitude < minPlausibleMag || e.Magnitude > maxPlausibleMag {
			p.errorf("event %d: magnitude %.2f outside [%.0f, %.0f]", i+1, e.Magnitude, minPlausibleMag, maxPlausibleMag)
		}
	}
	return p
}

// ── Phase 3: Sweep ──
// Each histogram covers every year; counts never grow with the threshold;
// the lowest threshold counts every event.

func validateSweep(events []domain.Event, rng domain.Range, hists []domain.Histogram) *phase {
	p := &phase{name: "Phase 3: Sweep (histogram invariants)"}
	if rng.Empty() {
		if len(hists) != 0 {
			p.errorf("empty input produced %d histograms", len(hists))
		}
		return p
	}

	if want := rng.HighMag - rng.LowMag + 1; len(hists) != want {
		p.errorf("expected %d histograms, got %d", want, len(hists))
	}
	for _, h := range hists {
		for year := rng.StartYear; year <= rng.EndYear; year++ {
			if _, ok := h.Count(year); !ok {
				p.errorf("threshold %d: missing year %d", h.Threshold, year)
			}
		}
	}
	for i := 1; i < len(hists); i++ {
		prev, cur := hists[i-1], hists[i]
		for j := range cur.Bins {
			if cur.Bins[j].Count > prev.Bins[j].Count {
				p.errorf("year %d: threshold %d count %d exceeds threshold %d count %d",
					cur.Bins[j].Year, cur.Threshold, cur.Bins[j].Count, prev.Threshold, prev.Bins[j].Count)
			}
		}
	}
	if len(hists) > 0 && hists[0].Total() != len(events) {
		p.errorf("threshold %d counts %d events, file has %d", hists[0].Threshold, hists[0].Total(), len(events))
	}
	return p
}
