package domain

import "time"

// unset marks range fields that were never observed.
const unset = -1

// Event is a single parsed record: the year it occurred and its magnitude.
type Event struct {
	Year      int     `json:"year"`
	Magnitude float64 `json:"magnitude"`
}

// Range holds the year span and floored magnitude span of a dataset.
// All fields are -1 when the dataset had no events.
type Range struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
	LowMag    int `json:"low_mag"`
	HighMag   int `json:"high_mag"`
}

// Empty reports whether the range was derived from zero events.
func (r Range) Empty() bool {
	return r.StartYear == unset && r.EndYear == unset
}

// Years returns the number of years covered, inclusive of both ends.
func (r Range) Years() int {
	if r.Empty() {
		return 0
	}
	return r.EndYear - r.StartYear + 1
}

// Bin is the event count for one year.
type Bin struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Histogram is the per-year count of events at or above Threshold.
// Bins are ordered by year and cover the whole dataset range.
type Histogram struct {
	Threshold int   `json:"threshold"`
	Bins      []Bin `json:"bins"`
}

// Count returns the count for year and whether the year is in range.
func (h Histogram) Count(year int) (int, bool) {
	if len(h.Bins) == 0 {
		return 0, false
	}
	i := year - h.Bins[0].Year
	if i < 0 || i >= len(h.Bins) {
		return 0, false
	}
	return h.Bins[i].Count, true
}

// Total returns the number of events counted across all years.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

// Map returns the histogram as a year -> count mapping.
func (h Histogram) Map() map[int]int {
	m := make(map[int]int, len(h.Bins))
	for _, b := range h.Bins {
		m[b.Year] = b.Count
	}
	return m
}

// Report is a histogram stamped with where and when it was computed.
// It is the unit published to Kafka and served over HTTP.
type Report struct {
	Source      string    `json:"source"`
	Range       Range     `json:"range"`
	TotalEvents int       `json:"total_events"`
	Histogram   Histogram `json:"histogram"`
	GeneratedAt time.Time `json:"generated_at"`
}
