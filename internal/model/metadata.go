package model

import "time"

// LicenseMetadata is the structured record extracted from an administrative
// license document. Fields that could not be resolved are left empty; the
// confidence score and review reason reflect how much was found.
type LicenseMetadata struct {
	Expediente   string `json:"expediente,omitempty" yaml:"expediente,omitempty"`     // Case reference (e.g., "AB-1234/2024")
	Authority    string `json:"authority,omitempty" yaml:"authority,omitempty"`       // Issuing authority (e.g., "Ayuntamiento de Madrid")
	Municipality string `json:"municipality,omitempty" yaml:"municipality,omitempty"` // Municipality name
	Holder       string `json:"holder,omitempty" yaml:"holder,omitempty"`             // License holder
	TaxID        string `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`             // NIF/CIF/NIE
	Address      string `json:"address,omitempty" yaml:"address,omitempty"`           // Premises address
	Activity     string `json:"activity,omitempty" yaml:"activity,omitempty"`         // Licensed activity description

	Concession *time.Time `json:"concession_date,omitempty" yaml:"concession_date,omitempty"`
	Expiry     *time.Time `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`
	Renewal    *time.Time `json:"renewal_date,omitempty" yaml:"renewal_date,omitempty"`

	// Confidence is always in [0,1], rounded to 2 decimals.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ReviewReason is set when at least one consistency rule failed.
	ReviewReason string `json:"review_reason,omitempty" yaml:"review_reason,omitempty"`

	// KeywordHints lists the document lines whose anchor keywords drove
	// date resolution, in match order.
	KeywordHints []string `json:"keyword_hints,omitempty" yaml:"keyword_hints,omitempty"`

	// Summary is a pipe-joined recap of the fields that were found.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// HasConcession reports whether a concession date was resolved.
func (m *LicenseMetadata) HasConcession() bool { return m.Concession != nil }

// HasExpiry reports whether an expiry date was resolved.
func (m *LicenseMetadata) HasExpiry() bool { return m.Expiry != nil }
