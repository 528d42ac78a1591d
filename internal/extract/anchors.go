package extract

// Static anchor and label tables for the metadata engine. All stems are
// lowercase; matching is case-insensitive substring search. The tables are
// read-only after construction and safe for concurrent reuse.

// anchor stems per semantic date role.
var (
	expiryAnchors = []string{
		"caducidad", "caduca", "vencimiento", "vence",
		"validez", "vigencia", "válido hasta", "valido hasta", "expira",
	}
	concessionAnchors = []string{
		"concesión", "concesion", "concedid", "otorga", "expedici",
	}
	renewalAnchors = []string{
		"renovaci", "prórrog", "prorrog",
	}
)

// boundaryLabels truncate authority/municipality captures: a matched value
// ends where the next field label begins.
var boundaryLabels = []string{
	"expediente", "nif", "cif", "nie", "titular", "solicitante",
	"domicilio", "dirección", "direccion", "actividad", "municipio",
	"localidad", "fecha",
}

// leadingNumberToken strips "nº"-style qualifiers when scanning expediente
// fallback lines.
var leadingNumberTokens = []string{
	"nº", "n°", "no.", "no", "num.", "num", "número", "numero",
}
