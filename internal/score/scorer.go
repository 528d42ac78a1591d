// Package score derives the confidence score, review reasons, and summary
// for an extracted license metadata record. Scoring is deterministic
// weighted-additive arithmetic, not learned.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/jcarril/tramita/internal/model"
)

// Contribution weights. Expediente and expiry carry the most signal: a
// document without either is rarely a usable license resolution.
const (
	weightExpediente    = 0.30
	weightConcession    = 0.25
	weightExpiry        = 0.30
	weightTaxID         = 0.10
	weightAuthorityDoc  = 0.05
	penaltyDateOrder    = 0.20
	penaltyExpediente   = 0.10
	minExpedienteLength = 7
)

// Review messages. These are a contract with reviewers; tests match on
// the date-order phrase.
const (
	reasonDateOrder     = "Fecha de caducidad anterior o igual a la fecha de concesión"
	reasonExpediente    = "Número de expediente ausente o poco fiable"
	reasonTaxIDMissing  = "NIF/CIF no detectado"
	reviewReasonJoiner  = "; "
	summaryFieldJoiner  = " | "
	summaryDateLayout   = "02/01/2006"
)

// Calculate fills in Confidence, ReviewReason, and Summary on md.
// authorityFromDocument is true when the authority was resolved from a
// pattern match in the document rather than a caller hint.
func Calculate(md *model.LicenseMetadata, authorityFromDocument bool) {
	md.Confidence = confidence(md, authorityFromDocument)
	md.ReviewReason = reviewReason(md)
	md.Summary = summary(md)
}

func confidence(md *model.LicenseMetadata, authorityFromDocument bool) float64 {
	var s float64

	if len(md.Expediente) >= minExpedienteLength {
		s += weightExpediente
	} else {
		s -= penaltyExpediente
	}
	if md.HasConcession() {
		s += weightConcession
	}
	if md.HasExpiry() {
		s += weightExpiry
	}
	if md.TaxID != "" {
		s += weightTaxID
	}
	if authorityFromDocument {
		s += weightAuthorityDoc
	}
	if datesInconsistent(md) {
		s -= penaltyDateOrder
	}

	return Round2(Clamp01(s))
}

func reviewReason(md *model.LicenseMetadata) string {
	var reasons []string

	if datesInconsistent(md) {
		reasons = append(reasons, reasonDateOrder)
	}
	if len(md.Expediente) < minExpedienteLength {
		reasons = append(reasons, reasonExpediente)
	}
	if md.TaxID == "" {
		reasons = append(reasons, reasonTaxIDMissing)
	}

	return strings.Join(reasons, reviewReasonJoiner)
}

func summary(md *model.LicenseMetadata) string {
	var parts []string

	if md.Expediente != "" {
		parts = append(parts, "Expediente: "+md.Expediente)
	}
	if md.HasConcession() {
		parts = append(parts, "Concesión: "+md.Concession.Format(summaryDateLayout))
	}
	if md.HasExpiry() {
		parts = append(parts, "Caducidad: "+md.Expiry.Format(summaryDateLayout))
	}
	if md.Holder != "" {
		parts = append(parts, "Titular: "+md.Holder)
	}
	if md.TaxID != "" {
		parts = append(parts, "NIF: "+md.TaxID)
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Sin datos identificativos (confianza %.2f)", md.Confidence)
	}
	return strings.Join(parts, summaryFieldJoiner)
}

func datesInconsistent(md *model.LicenseMetadata) bool {
	return md.HasConcession() && md.HasExpiry() && !md.Expiry.After(*md.Concession)
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// Round2 rounds v to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
