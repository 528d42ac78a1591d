// Package textnorm canonicalizes OCR'd document text before pattern
// matching and provides the fixed-locale date parsing shared by the
// extraction engine.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	dashVariants  = strings.NewReplacer("–", "-", "—", "-") // en dash, em dash
)

// Normalize collapses whitespace runs to single spaces, trims the result,
// and replaces typographic dash variants with a plain hyphen. Line
// structure is NOT preserved; use SplitLines on the original text when
// line positions matter.
func Normalize(text string) string {
	text = dashVariants.Replace(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitLines splits the original (un-normalized) text into lines,
// tolerating both \n and \r\n endings.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// CleanFragment trims an extracted fragment: whitespace collapsed, stray
// leading/trailing punctuation stripped.
func CleanFragment(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `.,;:-"'`)
}
