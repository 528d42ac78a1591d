package privacy

import "regexp"

// Rule is one weighted detection rule: when its pattern matches anywhere
// in the text, its category and weight contribute to the assessment.
// Rules are static configuration, enumerated once, and never mutated.
type Rule struct {
	Category string
	Pattern  *regexp.Regexp
	Weight   float64
	Special  bool // Legally sensitive category (RGPD art. 9)
}

// Category labels. Sorted output relies on these exact strings.
const (
	CategoryIdentification = "Identificación"
	CategoryContact        = "Contacto"
	CategoryFinancial      = "Financiero"
	CategoryLocation       = "Localización"
	CategoryHealth         = "Salud"
	CategoryBiometric      = "Biometría"
	CategoryIdeology       = "Ideología"
	CategoryCriminal       = "Penal"
)

// defaultRules is the built-in rule table. Weights were tuned against a
// corpus of municipal license files; two independent weak signals beat
// one strong one, hence the cross-category bonus applied by the engine.
var defaultRules = []Rule{
	{
		Category: CategoryIdentification,
		Pattern:  regexp.MustCompile(`(?i)\b(?:DNI|NIE|documento nacional de identidad)\s*[:.\-]?\s*[0-9]{7,8}[ \-]?[A-Za-z]\b`),
		Weight:   0.25,
	},
	{
		Category: CategoryContact,
		Pattern:  regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		Weight:   0.20,
	},
	{
		Category: CategoryContact,
		Pattern:  regexp.MustCompile(`(?i)\b(?:tel[ée]fono|tfno|m[óo]vil|tel)\.?\s*[:.\-]?\s*(?:\+34[ \-]?)?[6789][0-9]{2}[ \-]?[0-9]{3}[ \-]?[0-9]{3}\b`),
		Weight:   0.15,
	},
	{
		Category: CategoryFinancial,
		Pattern:  regexp.MustCompile(`\bES[0-9]{2}(?:[ \-]?[0-9]{4}){5}\b`),
		Weight:   0.30,
	},
	{
		Category: CategoryFinancial,
		Pattern:  regexp.MustCompile(`(?i)\b(?:cuenta bancaria|n[úu]mero de cuenta|tarjeta de cr[ée]dito|tarjeta de d[ée]bito|entidad bancaria)\b`),
		Weight:   0.20,
	},
	{
		Category: CategoryLocation,
		Pattern:  regexp.MustCompile(`(?i)\b(?:domicilio|direcci[óo]n postal|c[óo]digo postal|residencia)\b`),
		Weight:   0.10,
	},
	{
		Category: CategoryHealth,
		Pattern:  regexp.MustCompile(`(?i)\b(?:historial m[ée]dico|diagn[óo]stico|enfermedad|tratamiento m[ée]dico|discapacidad|incapacidad|salud mental|receta m[ée]dica)\b`),
		Weight:   0.35,
		Special:  true,
	},
	{
		Category: CategoryBiometric,
		Pattern:  regexp.MustCompile(`(?i)\b(?:huella[s]? dactilar(?:es)?|reconocimiento facial|datos biom[ée]tricos|iris|retina)\b`),
		Weight:   0.35,
		Special:  true,
	},
	{
		Category: CategoryIdeology,
		Pattern:  regexp.MustCompile(`(?i)\b(?:afiliaci[óo]n sindical|partido pol[íi]tico|creencias religiosas|religi[óo]n|ideolog[íi]a)\b`),
		Weight:   0.30,
		Special:  true,
	},
	{
		Category: CategoryCriminal,
		Pattern:  regexp.MustCompile(`(?i)\b(?:antecedentes penales|condena|delito|expediente penal|pena de prisi[óo]n)\b`),
		Weight:   0.30,
		Special:  true,
	},
}
