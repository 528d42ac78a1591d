package model

// PrivacyAssessment is the personal-data compliance classification for a
// single document text.
type PrivacyAssessment struct {
	FileType string `json:"file_type,omitempty" yaml:"file_type,omitempty"` // Caller-supplied file type tag (e.g., "pdf")

	// ContainsPersonalData is true iff Categories is non-empty.
	ContainsPersonalData bool `json:"contains_personal_data" yaml:"contains_personal_data"`

	// ContainsSpecialCategory is true iff any triggered rule is marked
	// special (health, biometric, ideology, criminal record).
	ContainsSpecialCategory bool `json:"contains_special_category" yaml:"contains_special_category"`

	// Score is in [0,1], rounded to 2 decimals.
	Score float64 `json:"score" yaml:"score"`

	TextLength int `json:"analyzed_text_length" yaml:"analyzed_text_length"`

	// Categories is sorted for deterministic output.
	Categories []string `json:"categories_detected,omitempty" yaml:"categories_detected,omitempty"`

	// Indicators is a bounded sample of matched fragments, each truncated
	// to 90 characters, at most 25 entries.
	Indicators []string `json:"indicators,omitempty" yaml:"indicators,omitempty"`

	// ReviewReason is present iff special-category data was detected or
	// the text was not analyzable.
	ReviewReason string `json:"review_reason,omitempty" yaml:"review_reason,omitempty"`

	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}
