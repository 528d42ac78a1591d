// Package extract implements the anchor-driven field extraction engine
// for administrative license documents. Extraction is a pure function of
// the input text plus read-only pattern tables; an Extractor is safe for
// concurrent use.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/jcarril/tramita/internal/model"
	"github.com/jcarril/tramita/internal/score"
	"github.com/jcarril/tramita/internal/textnorm"
)

// Extractor extracts license metadata from plain document text.
type Extractor struct {
	authorityPattern   *regexp.Regexp
	expedientePattern  *regexp.Regexp
	taxIDLabeled       *regexp.Regexp
	taxIDGeneric       *regexp.Regexp
	municipalityLine   *regexp.Regexp
	holderLine         *regexp.Regexp
	addressLine        *regexp.Regexp
	activityLine       *regexp.Regexp
	activityStopTokens *regexp.Regexp
}

// NewExtractor creates an extractor with the built-in Spanish patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		authorityPattern:  regexp.MustCompile(`(?i)\b((?:excmo\.?\s+)?(?:ayuntamiento|concello|ajuntament|diputaci[óo]n|cabildo)\s+de\s+[^\n]{2,80})`),
		expedientePattern: regexp.MustCompile(`(?i)\bexpediente(?:\s+n(?:º|°|o\.?|um\.?|úmero|umero))?\s*[:.\-]?\s*([A-Za-z0-9][A-Za-z0-9./\-]{3,80})`),
		taxIDLabeled:      regexp.MustCompile(`(?i)\b(?:C\.?\s?I\.?\s?F\.?|N\.?\s?I\.?\s?F\.?|N\.?\s?I\.?\s?E\.?)\s*[:.\-]?\s*([A-Za-z0-9][0-9]{7}[A-Za-z0-9])\b`),
		taxIDGeneric:      regexp.MustCompile(`\b([A-Z0-9][0-9]{7}[A-Z0-9])\b`),
		municipalityLine:  regexp.MustCompile(`(?i)^\s*(?:municipio|localidad|t[ée]rmino municipal)\s*[:.\-]?\s*(.+)$`),
		holderLine:        regexp.MustCompile(`(?i)^\s*(?:titular|solicitante|interesado/?a?|a nombre de)\s*[:.\-]?\s*(.+)$`),
		addressLine:       regexp.MustCompile(`(?i)^\s*(?:direcci[óo]n|domicilio|emplazamiento|ubicaci[óo]n|sit[ou]ado? en|sito en)\s*[:.\-]?\s*(.+)$`),
		activityLine:      regexp.MustCompile(`(?i)^\s*(?:actividad|objeto(?:\s+de\s+la\s+licencia)?)\s*[:.\-]?\s*(.+)$`),
		// Stop tokens that mark the end of an activity description.
		activityStopTokens: regexp.MustCompile(`(?i)\b(?:IAE|CNAE|NIF|CIF)\b`),
	}
}

// Extract runs every field extractor over the document text and returns a
// scored metadata record. Hints are defaults supplied by the caller;
// empty or whitespace-only hints are treated as absent.
func (e *Extractor) Extract(text, authorityHint, municipalityHint string) model.LicenseMetadata {
	lines := textnorm.SplitLines(text)

	md := model.LicenseMetadata{}

	authority, fromDocument := e.extractAuthority(text, textnorm.Normalize(authorityHint))
	md.Authority = authority
	md.Municipality = e.extractMunicipality(lines, textnorm.Normalize(municipalityHint))
	md.Expediente = e.extractExpediente(text, lines)
	md.TaxID = e.extractTaxID(text)
	md.Holder = e.extractLineField(lines, e.holderLine, 3, 119, nil)
	md.Address = e.extractLineField(lines, e.addressLine, 7, 199, nil)
	md.Activity = e.extractLineField(lines, e.activityLine, 4, 199, e.activityStopTokens)

	var hints []string
	md.Concession, hints = appendDate(hints, lines, concessionAnchors)
	md.Expiry, hints = appendDate(hints, lines, expiryAnchors)
	md.Renewal, hints = appendDate(hints, lines, renewalAnchors)

	// Many documents carry a single unambiguous date with no anchor
	// nearby; treat it as the expiry. Heuristic only.
	if md.Expiry == nil {
		md.Expiry = singleDistinctDate(text)
	}
	md.KeywordHints = hints

	score.Calculate(&md, fromDocument)
	return md
}

func appendDate(hints []string, lines []string, anchors []string) (*time.Time, []string) {
	d, matched := findDateNearAnchor(lines, anchors, anchorWindow)
	return d, append(hints, matched...)
}

// extractAuthority resolves the issuing authority. A pattern match in the
// document is authoritative; the hint is only the default.
func (e *Extractor) extractAuthority(text, hint string) (value string, fromDocument bool) {
	if m := e.authorityPattern.FindStringSubmatch(text); m != nil {
		return textnorm.CleanFragment(truncateAtBoundary(m[1])), true
	}
	return hint, false
}

// extractMunicipality resolves the municipality. The hint wins outright;
// a document capture is truncated at the next field label, like the
// authority.
func (e *Extractor) extractMunicipality(lines []string, hint string) string {
	if hint != "" {
		return hint
	}
	for _, line := range lines {
		m := e.municipalityLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := textnorm.CleanFragment(truncateAtBoundary(m[1]))
		if len(value) >= 2 && len(value) <= 80 {
			return value
		}
	}
	return ""
}

// extractExpediente resolves the case reference: labeled pattern first,
// then a line-scan fallback for codes separated from their label.
func (e *Extractor) extractExpediente(text string, lines []string) string {
	if m := e.expedientePattern.FindStringSubmatch(text); m != nil {
		return textnorm.CleanFragment(m[1])
	}

	for i, line := range lines {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "expediente")
		if idx < 0 {
			continue
		}

		rest := stripLeadingNumberToken(line[idx+len("expediente"):])
		if code := findExpedienteCandidate(rest); code != "" {
			return code
		}
		if i+1 < len(lines) {
			if code := findExpedienteCandidate(lines[i+1]); code != "" {
				return code
			}
		}
	}
	return ""
}

// findExpedienteCandidate returns the first token that looks like a case
// reference: at least 5 characters, contains a digit and a separator.
func findExpedienteCandidate(s string) string {
	for _, tok := range strings.Fields(s) {
		tok = textnorm.CleanFragment(tok)
		if len(tok) < 5 {
			continue
		}
		if !strings.ContainsAny(tok, "0123456789") {
			continue
		}
		if !strings.ContainsAny(tok, "./-") {
			continue
		}
		return tok
	}
	return ""
}

func stripLeadingNumberToken(s string) string {
	trimmed := strings.TrimLeft(s, " \t:.-")
	lower := strings.ToLower(trimmed)
	for _, tok := range leadingNumberTokens {
		if strings.HasPrefix(lower, tok) {
			return trimmed[len(tok):]
		}
	}
	return trimmed
}

// extractTaxID prefers an explicitly labeled CIF/NIF/NIE over a bare
// 9-character code of the same shape.
func (e *Extractor) extractTaxID(text string) string {
	if m := e.taxIDLabeled.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := e.taxIDGeneric.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractLineField scans lines in order and accepts the first one whose
// label matches and whose cleaned remainder fits the length window.
// First-match-wins: later, possibly better lines are never considered.
func (e *Extractor) extractLineField(lines []string, pattern *regexp.Regexp, minLen, maxLen int, stopTokens *regexp.Regexp) string {
	for _, line := range lines {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := m[1]
		if stopTokens != nil {
			if loc := stopTokens.FindStringIndex(value); loc != nil {
				value = value[:loc[0]]
			}
		}
		value = textnorm.CleanFragment(value)
		if len(value) >= minLen && len(value) <= maxLen {
			return value
		}
	}
	return ""
}

// truncateAtBoundary cuts a captured value at the first occurrence of a
// known field label.
func truncateAtBoundary(s string) string {
	lower := strings.ToLower(s)
	cut := len(s)
	for _, label := range boundaryLabels {
		if idx := strings.Index(lower, label); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}
