// Package domain models seismic event records and the per-year histograms
// built from them.
//
// # Data Source
//
// Events come from a WEED Event File (Windows Extracted from Event Data),
// exported by the IRIS SeismiQuery event search at
// http://www.iris.edu/SeismiQuery/sq-events.htm. The export has no header row;
// the column layout matches the result table shown on the query page.
//
// # Record Format
//
//	<id>,<date>,<time>,<lat>,<lon>,<depth>,...,<magnitude>
//
// Only two columns matter here:
//
//	field[1]    the event date. WEED writes "YYYY/MM/DD"; hand-edited files
//	            often use "MM/DD/YYYY". The year is the four-digit component,
//	            see [ParseYear].
//	last field  the preferred magnitude as a decimal, e.g. "6.2".
//
// Lines with fewer than two comma-separated fields (blank lines, trailing
// newlines) are skipped. Any other line whose year or magnitude is not numeric
// is a hard error: the file is a fixed-format export and a bad row means the
// wrong file was passed in.
//
// # Threshold Sweep
//
// After reading, [Summarize] derives the year range and the floored magnitude
// range. [Sweep] then builds one [Histogram] per integer threshold from the
// lowest to the highest magnitude, each counting events with magnitude at or
// above the threshold for every year in range (zero-filled).
package domain
