package extract

import (
	"strings"
	"time"

	"github.com/jcarril/tramita/internal/textnorm"
)

// anchorWindow is how many lines either side of an anchor line are
// inspected for a date.
const anchorWindow = 3

// findDateNearAnchor locates the first date textually associated with any
// of the anchor stems. For each line containing an anchor (in document
// order), the line itself is tried first, then lines at increasing offsets
// below and above it. The first anchor occurrence that yields any date
// wins and the search stops. The anchor line text is returned as a hint.
func findDateNearAnchor(lines []string, anchors []string, window int) (*time.Time, []string) {
	var hints []string

	for i, line := range lines {
		if !containsAnchor(line, anchors) {
			continue
		}

		hints = append(hints, textnorm.Normalize(line))

		if d, ok := textnorm.ParseDate(line); ok {
			return &d, hints
		}

		for off := 1; off <= window; off++ {
			if j := i + off; j < len(lines) {
				if d, ok := textnorm.ParseDate(lines[j]); ok {
					return &d, hints
				}
			}
			if j := i - off; j >= 0 {
				if d, ok := textnorm.ParseDate(lines[j]); ok {
					return &d, hints
				}
			}
		}

		// This anchor yielded nothing; drop its hint and keep scanning.
		hints = hints[:len(hints)-1]
	}

	return nil, hints
}

func containsAnchor(line string, anchors []string) bool {
	lower := strings.ToLower(line)
	for _, a := range anchors {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}

// singleDistinctDate returns the only distinct parseable date in the whole
// document, if exactly one exists. Used as the expiry fallback for
// documents with a single unanchored date; a heuristic, not a guarantee
// that the date is really an expiry.
func singleDistinctDate(text string) *time.Time {
	seen := make(map[string]time.Time)
	for _, d := range textnorm.FindDates(text) {
		seen[d.Format("2006-01-02")] = d
	}
	if len(seen) != 1 {
		return nil
	}
	for _, d := range seen {
		return &d
	}
	return nil
}
