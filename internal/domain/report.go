package domain

// NewReport stamps a histogram with its source, the dataset range and
// size, and the current time from the package clock.
func NewReport(source string, rng Range, totalEvents int, hist Histogram) Report {
	return Report{
		Source:      source,
		Range:       rng,
		TotalEvents: totalEvents,
		Histogram:   hist,
		GeneratedAt: clock.Now().UTC(),
	}
}
