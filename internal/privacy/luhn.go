package privacy

import (
	"regexp"
	"strings"
)

// digitRunPattern matches digit runs of payment-card length, allowing
// space and hyphen separators between groups.
var digitRunPattern = regexp.MustCompile(`[0-9](?:[0-9 \-]{11,23})[0-9]`)

// findLuhnSequence scans text for the first digit sequence of 13-19
// digits that passes the Luhn checksum. Scanning stops at the first valid
// sequence; at most one financial-sequence contribution per analysis even
// when multiple valid sequences exist. Returns the matched raw text.
func findLuhnSequence(text string) (string, bool) {
	for _, raw := range digitRunPattern.FindAllString(text, -1) {
		digits := stripSeparators(raw)
		if len(digits) < 13 || len(digits) > 19 {
			continue
		}
		if luhnValid(digits) {
			return raw, true
		}
	}
	return "", false
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// luhnValid implements the mod-10 checksum: doubling every second digit
// from the right, summing digit sums, and requiring the total to be
// divisible by 10.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
