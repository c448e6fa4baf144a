// =============================================================================
// Transibase - Field Transformations
// =============================================================================
//
// This file holds the per-field transformations of the extraction pipeline:
//
//   - NormalizeDate : reduces a transaction timestamp to YYYY-MM-DD
//   - MatchesYear   : the year filter predicate
//
// Both are pure functions over strings. They never fail; a value that cannot
// be transformed is passed through unchanged.
//
// =============================================================================

package converter

import (
	"strings"
	"time"
)

// dateLayout is the calendar date format written to the CSV.
const dateLayout = "2006-01-02"

// yearLength is the number of leading characters compared by the year filter.
const yearLength = 4

// NormalizeDate converts a transaction creation date to YYYY-MM-DD.
//
// RULES (applied in order):
//   - ""                       -> ""
//   - contains 'T'             -> everything before the first 'T'
//                                 ("2023-05-10T12:00:00" -> "2023-05-10")
//   - valid YYYY-MM-DD date    -> reformatted, which is the same text
//   - anything else            -> returned unchanged ("10/05/2023" stays)
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}

	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i]
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return raw
	}

	return t.Format(dateLayout)
}

// MatchesYear reports whether a normalized date belongs to year.
//
// The comparison is textual: the first four characters of date must equal
// year exactly. Dates shorter than four characters never match. An empty
// year disables the filter and always matches.
func MatchesYear(date, year string) bool {
	if year == "" {
		return true
	}
	if len(date) < yearLength {
		return false
	}
	return date[:yearLength] == year
}
