package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// missingMarkers are cell contents read as "no value"
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
}

// IsMissingMarker reports whether a raw cell denotes a missing value
func IsMissingMarker(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// ParseNumber parses a plain decimal or scientific number. Thousands
// separators and currency symbols are not accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// timestampFormats are tried in order by ParseTime
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01",
	"20060102",
}

// ParseTime attempts to parse a timestamp with the known formats
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
