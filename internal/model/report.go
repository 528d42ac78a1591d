package model

import "time"

// Report represents the complete tramita analysis for one document.
type Report struct {
	Source     string    `json:"source" yaml:"source"`           // File path or URL that was analyzed
	FileType   string    `json:"file_type" yaml:"file_type"`     // Normalized file type tag
	AnalyzedAt time.Time `json:"analyzed_at" yaml:"analyzed_at"` // When the analysis ran
	Input      InputMeta `json:"input" yaml:"input"`             // Input and decoding metadata

	Metadata *LicenseMetadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Privacy  *PrivacyAssessment `json:"privacy,omitempty" yaml:"privacy,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty" yaml:"llm,omitempty"` // Optional LLM narrative (never affects scores)
}

// InputMeta describes the raw input and how text was obtained from it.
type InputMeta struct {
	Bytes       int    `json:"bytes" yaml:"bytes"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Encoding    string `json:"encoding,omitempty" yaml:"encoding,omitempty"` // utf-8, windows-1252, ocr
	TextLength  int    `json:"text_length" yaml:"text_length"`
	CacheHit    bool   `json:"cache_hit,omitempty" yaml:"cache_hit,omitempty"`
}

// LLMSummary contains an optional LLM-generated narrative of the report.
// It is generated after scoring and never feeds back into either engine.
type LLMSummary struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Provider  string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty" yaml:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
