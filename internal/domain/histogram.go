package domain

import "math"

// Summarize derives the year range and floored magnitude range of events.
// With no events every field is -1.
func Summarize(events []Event) Range {
	if len(events) == 0 {
		return Range{StartYear: unset, EndYear: unset, LowMag: unset, HighMag: unset}
	}

	first := events[0]
	rng := Range{StartYear: first.Year, EndYear: first.Year}
	low, high := first.Magnitude, first.Magnitude

	for _, e := range events[1:] {
		rng.StartYear = min(rng.StartYear, e.Year)
		rng.EndYear = max(rng.EndYear, e.Year)
		low = math.Min(low, e.Magnitude)
		high = math.Max(high, e.Magnitude)
	}

	rng.LowMag = int(math.Floor(low))
	rng.HighMag = int(math.Floor(high))
	return rng
}

// Thresholds lists the integer magnitude cutoffs of the sweep, LowMag to
// HighMag inclusive. Empty ranges have no thresholds.
func Thresholds(rng Range) []int {
	if rng.Empty() || rng.HighMag < rng.LowMag {
		return nil
	}
	out := make([]int, 0, rng.HighMag-rng.LowMag+1)
	for t := rng.LowMag; t <= rng.HighMag; t++ {
		out = append(out, t)
	}
	return out
}

// BuildHistogram counts, for every year in rng, the events whose magnitude
// is at or above threshold. Years without qualifying events get a zero bin.
func BuildHistogram(events []Event, rng Range, threshold int) Histogram {
	hist := Histogram{Threshold: threshold}
	if rng.Empty() {
		return hist
	}

	hist.Bins = make([]Bin, rng.Years())
	for i := range hist.Bins {
		hist.Bins[i].Year = rng.StartYear + i
	}

	// Compared as floats: -0.5 misses threshold 0 but meets -1, matching
	// the floored LowMag.
	cutoff := float64(threshold)
	for _, e := range events {
		if e.Magnitude < cutoff || e.Year < rng.StartYear || e.Year > rng.EndYear {
			continue
		}
		hist.Bins[e.Year-rng.StartYear].Count++
	}
	return hist
}

// Sweep builds one histogram per threshold in [rng.LowMag, rng.HighMag].
func Sweep(events []Event, rng Range) []Histogram {
	thresholds := Thresholds(rng)
	hists := make([]Histogram, 0, len(thresholds))
	for _, t := range thresholds {
		hists = append(hists, BuildHistogram(events, rng, t))
	}
	return hists
}
