// Package privacy implements the weighted rule-based personal-data
// classification engine. Each analysis is a pure function of the input
// text plus the static rule table; an Analyzer is safe for concurrent use.
package privacy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcarril/tramita/internal/model"
	"github.com/jcarril/tramita/internal/score"
	"github.com/jcarril/tramita/internal/textnorm"
)

const (
	maxIndicators       = 25
	maxIndicatorLength  = 90
	maxMatchesPerRule   = 3
	luhnWeight          = 0.30
	crossCategoryBonus  = 0.10
)

const (
	reasonNoText  = "No se pudo extraer texto analizable del documento"
	reasonSpecial = "Contiene categorías especiales de datos personales; requiere revisión manual conforme al RGPD"
)

// Analyzer evaluates the personal-data detection rules over document text.
type Analyzer struct {
	rules []Rule
}

// NewAnalyzer creates an analyzer with the built-in rule table.
func NewAnalyzer() *Analyzer {
	return &Analyzer{rules: defaultRules}
}

// Analyze classifies the text for personal and specially-protected data.
// Empty or whitespace-only text is a normal terminal result, not an error.
func (a *Analyzer) Analyze(text, fileType string) model.PrivacyAssessment {
	if strings.TrimSpace(text) == "" {
		return model.PrivacyAssessment{
			FileType:     fileType,
			Score:        0,
			ReviewReason: reasonNoText,
			Summary:      reasonNoText,
		}
	}

	assessment := model.PrivacyAssessment{
		FileType:   fileType,
		TextLength: len(text),
	}

	categories := make(map[string]bool)
	indicators := newIndicatorSet()
	var total float64

	for _, rule := range a.rules {
		matches := rule.Pattern.FindAllString(text, maxMatchesPerRule)
		if len(matches) == 0 {
			continue
		}
		categories[rule.Category] = true
		total += rule.Weight
		if rule.Special {
			assessment.ContainsSpecialCategory = true
		}
		for _, m := range matches {
			indicators.add(m)
		}
	}

	// Independent validated-numeric-sequence check: a Luhn-valid card
	// number is a financial signal even without a label nearby.
	if raw, ok := findLuhnSequence(text); ok {
		categories[CategoryFinancial] = true
		total += luhnWeight
		indicators.add(raw)
	}

	if len(categories) >= 2 {
		total += crossCategoryBonus
	}

	assessment.Categories = sortedKeys(categories)
	assessment.ContainsPersonalData = len(assessment.Categories) > 0
	assessment.Indicators = indicators.values()
	assessment.Score = score.Round2(score.Clamp01(total))

	if assessment.ContainsSpecialCategory {
		assessment.ReviewReason = reasonSpecial
	}
	assessment.Summary = summarize(&assessment)

	return assessment
}

func summarize(p *model.PrivacyAssessment) string {
	if !p.ContainsPersonalData {
		return "No se detectaron datos personales"
	}
	s := fmt.Sprintf("Datos personales detectados (categorías: %s) con puntuación %.2f",
		strings.Join(p.Categories, ", "), p.Score)
	if p.ContainsSpecialCategory {
		s += "; incluye categorías especiales de protección reforzada"
	}
	return s
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// indicatorSet collects normalized match samples, deduplicated
// case-insensitively, capped at maxIndicators entries.
type indicatorSet struct {
	seen   map[string]bool
	sample []string
}

func newIndicatorSet() *indicatorSet {
	return &indicatorSet{seen: make(map[string]bool)}
}

func (s *indicatorSet) add(match string) {
	match = textnorm.Normalize(match)
	if runes := []rune(match); len(runes) > maxIndicatorLength {
		match = string(runes[:maxIndicatorLength])
	}
	key := strings.ToLower(match)
	if match == "" || s.seen[key] || len(s.sample) >= maxIndicators {
		return
	}
	s.seen[key] = true
	s.sample = append(s.sample, match)
}

func (s *indicatorSet) values() []string {
	return s.sample
}
