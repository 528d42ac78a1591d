package textnorm

import (
	"regexp"
	"strconv"
	"time"
)

// datePattern matches day/month/year with the same separator on both
// sides; two- or four-digit years.
var datePattern = regexp.MustCompile(`\b(\d{1,2})([/.\-])(\d{1,2})([/.\-])(\d{4}|\d{2})\b`)

// ParseDate parses the first date in s using the Spanish day-month-year
// convention. Separators may be "/", "-" or ".". Two-digit years pivot at
// 70 (26 -> 2026, 85 -> 1985), matching time.Parse. Out-of-range or
// mixed-separator candidates are skipped.
func ParseDate(s string) (time.Time, bool) {
	dates := FindDates(s)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[0], true
}

// FindDates returns every parseable date in s, in order of appearance.
func FindDates(s string) []time.Time {
	var dates []time.Time
	for _, m := range datePattern.FindAllStringSubmatch(s, -1) {
		if m[2] != m[4] {
			continue
		}
		if t, ok := buildDate(m[1], m[3], m[5]); ok {
			dates = append(dates, t)
		}
	}
	return dates
}

func buildDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)

	if len(yearStr) == 2 {
		if year < 70 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31/02 becomes 02/03 or 03/03); a
	// changed day means the components were not a real calendar date.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}
