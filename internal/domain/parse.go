package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// minFields is the fewest comma-separated fields a record can have:
// an id and a date at minimum. Shorter lines are skipped.
const minFields = 2

// maxYear bounds the year column to four digits; every bin in the year span
// is allocated, so a mistyped year must fail here.
const maxYear = 9999

// ParseLine parses one WEED record. It returns ok=false for lines that
// should be skipped (fewer than two fields), and an error when the date or
// magnitude column is not numeric.
func ParseLine(line string) (Event, bool, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < minFields {
		return Event{}, false, nil
	}

	year, err := ParseYear(fields[1])
	if err != nil {
		return Event{}, false, err
	}
	mag, err := ParseMagnitude(fields[len(fields)-1])
	if err != nil {
		return Event{}, false, err
	}
	return Event{Year: year, Magnitude: mag}, true, nil
}

// ParseYear extracts the year from a date field. Year-first dates
// ("1995/08/19") take the leading component; month-first dates
// ("08/19/1995") take the trailing one. A leading component shorter than
// three characters is always read as a month, so "95/08/19" yields 19.
func ParseYear(date string) (int, error) {
	parts := strings.Split(strings.TrimSpace(date), "/")
	token := strings.TrimSpace(parts[0])
	if len(parts) > 1 && len(token) < 3 {
		token = strings.TrimSpace(parts[len(parts)-1])
	}

	year, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("parse year from date %q: %w", date, err)
	}
	if year < 0 {
		return 0, fmt.Errorf("parse year from date %q: negative year", date)
	}
	if year > maxYear {
		return 0, fmt.Errorf("parse year from date %q: year exceeds %d", date, maxYear)
	}
	return year, nil
}

// ParseMagnitude parses the magnitude column as a finite decimal.
func ParseMagnitude(field string) (float64, error) {
	field = strings.TrimSpace(field)
	mag, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("parse magnitude %q: %w", field, err)
	}
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return 0, fmt.Errorf("parse magnitude %q: not a finite number", field)
	}
	return mag, nil
}

// ReadEvents parses every record in r, in file order. Skipped lines are
// dropped silently; the first malformed line aborts the read.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		event, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read events after line %d: %w", lineNo, err)
	}
	return events, nil
}
